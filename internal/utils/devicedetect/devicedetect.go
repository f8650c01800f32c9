// Package devicedetect classifies a user-agent string into a small closed
// enum via substring matching. The result is a best-effort heuristic for the
// signature audit trail, not an authoritative device identification.
package devicedetect

import "strings"

// Class is the device form factor.
type Class string

const (
	ClassMobile  Class = "mobile"
	ClassTablet  Class = "tablet"
	ClassDesktop Class = "desktop"
)

// Browser is the browser family.
type Browser string

const (
	BrowserChrome  Browser = "chrome"
	BrowserFirefox Browser = "firefox"
	BrowserSafari  Browser = "safari"
	BrowserEdge    Browser = "edge"
	BrowserUnknown Browser = "unknown"
)

// Info is the detected device classification.
type Info struct {
	Class   Class
	Browser Browser
}

// String renders the classification as stored in signature records,
// e.g. "mobile/safari".
func (i Info) String() string {
	return string(i.Class) + "/" + string(i.Browser)
}

// Detect classifies a user-agent string. An empty user agent maps to
// desktop/unknown.
func Detect(userAgent string) Info {
	ua := strings.ToLower(userAgent)

	class := ClassDesktop
	switch {
	case strings.Contains(ua, "ipad") || strings.Contains(ua, "tablet"):
		class = ClassTablet
	case strings.Contains(ua, "mobile") || strings.Contains(ua, "iphone") || strings.Contains(ua, "android"):
		class = ClassMobile
	}
	// Android tablets advertise "android" without "mobile".
	if class == ClassMobile && strings.Contains(ua, "android") && !strings.Contains(ua, "mobile") {
		class = ClassTablet
	}

	browser := BrowserUnknown
	switch {
	case strings.Contains(ua, "edg/") || strings.Contains(ua, "edge"):
		browser = BrowserEdge
	case strings.Contains(ua, "firefox"):
		browser = BrowserFirefox
	case strings.Contains(ua, "chrome") || strings.Contains(ua, "crios"):
		browser = BrowserChrome
	case strings.Contains(ua, "safari"):
		browser = BrowserSafari
	}

	return Info{Class: class, Browser: browser}
}
