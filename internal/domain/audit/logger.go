package audit

import (
	"context"
	"time"

	"github.com/rs/zerolog"

	"dealdesk/internal/infrastructure/metrics"
	"dealdesk/internal/utils/clientip"
)

// Logger appends entries to the brand reply audit trail. Recording is
// best-effort: a storage failure is logged and swallowed so the calling
// business operation always proceeds. The trail is a transparency log, not
// the primary ledger.
type Logger struct {
	repo        Repository
	dedupWindow time.Duration
	log         zerolog.Logger
	now         func() time.Time
}

func NewLogger(repo Repository, dedupWindow time.Duration, log zerolog.Logger) *Logger {
	if dedupWindow <= 0 {
		dedupWindow = time.Hour
	}
	return &Logger{
		repo:        repo,
		dedupWindow: dedupWindow,
		log:         log.With().Str("component", "audit-logger").Logger(),
		now:         time.Now,
	}
}

// WithClock overrides the time source. Useful for replay tooling and for
// exercising the dedup window deterministically.
func (l *Logger) WithClock(now func() time.Time) *Logger {
	l.now = now
	return l
}

// Record writes one audit entry. Viewed actions within the dedup window of
// the previous viewed entry for the same token are suppressed entirely.
func (l *Logger) Record(ctx context.Context, replyTokenID, dealID string, action ActionType, reqCtx RequestContext, meta Metadata) {
	if action == ActionViewed {
		last, err := l.repo.LastViewedAt(ctx, replyTokenID)
		if err != nil {
			l.log.Warn().Err(err).Msg("audit dedup lookup failed")
			metrics.RecordAuditWrite(string(action), "error")
			return
		}
		if last != nil && l.now().Sub(*last) < l.dedupWindow {
			metrics.RecordAuditWrite(string(action), "suppressed")
			return
		}
	}

	ip := reqCtx.ClientIP
	if ip == "" {
		ip = clientip.Unknown
	}

	entry := &Entry{
		ReplyTokenID:     replyTokenID,
		DealID:           dealID,
		ActionType:       action,
		ActionTimestamp:  l.now().UTC(),
		ActionSource:     ActionSource,
		UserAgent:        reqCtx.UserAgent,
		IPAddressHash:    clientip.Hash(ip),
		IPAddressPartial: clientip.Partial(ip),
		OptionalComment:  meta.OptionalComment,
		ResponseStatus:   meta.ResponseStatus,
		BrandTeamName:    meta.BrandTeamName,
	}

	if err := l.repo.Append(ctx, entry); err != nil {
		l.log.Warn().Err(err).
			Str("action", string(action)).
			Str("deal_id", dealID).
			Msg("failed to write audit entry")
		metrics.RecordAuditWrite(string(action), "error")
		return
	}
	metrics.RecordAuditWrite(string(action), "written")
}
