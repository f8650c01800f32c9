// Package clientip derives and pseudonymizes client addresses on the public
// brand-reply path. The service never stores a reversible precise IP: only a
// truncated hash plus a network-level partial survive for abuse investigation.
package clientip

import (
	"crypto/sha256"
	"encoding/hex"
	"net"
	"net/http"
	"regexp"
	"strings"
)

// Unknown is recorded when no client address could be derived.
const Unknown = "unknown"

var dottedQuad = regexp.MustCompile(`^(\d{1,3})\.(\d{1,3})\.(\d{1,3})\.\d{1,3}$`)

// FromRequest derives the client IP with the precedence
// X-Forwarded-For (first entry) > X-Real-IP > socket remote address.
func FromRequest(r *http.Request) string {
	if fwd := r.Header.Get("X-Forwarded-For"); fwd != "" {
		first := strings.TrimSpace(strings.Split(fwd, ",")[0])
		if first != "" {
			return first
		}
	}
	if real := strings.TrimSpace(r.Header.Get("X-Real-IP")); real != "" {
		return real
	}
	if host, _, err := net.SplitHostPort(r.RemoteAddr); err == nil && host != "" {
		return host
	}
	if r.RemoteAddr != "" {
		return r.RemoteAddr
	}
	return Unknown
}

// Hash returns the first 16 hex characters of the SHA-256 of the raw IP.
func Hash(ip string) string {
	sum := sha256.Sum256([]byte(ip))
	return hex.EncodeToString(sum[:])[:16]
}

// Partial zeroes the last IPv4 octet (192.168.1.42 -> 192.168.1.xxx).
// Returns nil for anything that is not a dotted quad.
func Partial(ip string) *string {
	m := dottedQuad.FindStringSubmatch(ip)
	if m == nil {
		return nil
	}
	masked := m[1] + "." + m[2] + "." + m[3] + ".xxx"
	return &masked
}
