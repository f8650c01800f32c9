// Package besteffort runs side effects that must never fail the calling
// operation. Audit writes, email dispatch, analytics, and secondary status
// updates go through here so the contract is visible in the call site rather
// than hidden in scattered error handling.
package besteffort

import "github.com/rs/zerolog"

// Run executes fn and funnels any failure to the log sink. The caller's
// result is never affected.
func Run(log zerolog.Logger, name string, fn func() error) {
	defer func() {
		if r := recover(); r != nil {
			log.Error().Interface("panic", r).Str("side_effect", name).Msg("side effect panicked")
		}
	}()
	if err := fn(); err != nil {
		log.Warn().Err(err).Str("side_effect", name).Msg("side effect failed")
	}
}

// Go runs fn on its own goroutine with the same swallow-and-log contract.
func Go(log zerolog.Logger, name string, fn func() error) {
	go Run(log, name, fn)
}
