package detector

import (
	"net/http"
	"strings"
)

// IsPrefetch reports whether a request is a speculative browser pre-fetch
// rather than a genuine visit. Pre-fetch hits must still resolve the
// destination but never count as a click.
func IsPrefetch(h http.Header) bool {
	if h.Get("Purpose") == "prefetch" || h.Get("Sec-Purpose") == "prefetch" {
		return true
	}
	return h.Get("Sec-Fetch-Dest") == "prefetch"
}

var deviceKeywords = []struct {
	device   string
	keywords []string
}{
	{"bot", []string{"bot", "crawler", "spider", "scraper", "curl", "wget"}},
	{"mobile", []string{"mobile", "android", "iphone", "ipod", "blackberry", "windows phone"}},
	{"tablet", []string{"tablet", "ipad"}},
}

// DeviceType classifies a User-Agent for click analytics.
func DeviceType(userAgent string) string {
	ua := strings.ToLower(userAgent)

	for _, group := range deviceKeywords {
		for _, kw := range group.keywords {
			if strings.Contains(ua, kw) {
				return group.device
			}
		}
	}

	if strings.Contains(ua, "mozilla") || strings.Contains(ua, "windows") || strings.Contains(ua, "macintosh") {
		return "desktop"
	}

	return "unknown"
}

// ClientIP resolves the originating address, preferring proxy headers.
func ClientIP(remoteAddr, xForwardedFor, xRealIP string) string {
	if xForwardedFor != "" {
		if first, _, ok := strings.Cut(xForwardedFor, ","); ok || first != "" {
			return strings.TrimSpace(first)
		}
	}

	if xRealIP != "" {
		return xRealIP
	}

	if idx := strings.LastIndex(remoteAddr, ":"); idx != -1 {
		return remoteAddr[:idx]
	}

	return remoteAddr
}
