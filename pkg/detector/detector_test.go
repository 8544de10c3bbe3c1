package detector

import (
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestIsPrefetch(t *testing.T) {
	tests := []struct {
		name    string
		headers map[string]string
		want    bool
	}{
		{"no hint headers", map[string]string{}, false},
		{"purpose prefetch", map[string]string{"Purpose": "prefetch"}, true},
		{"sec-purpose prefetch", map[string]string{"Sec-Purpose": "prefetch"}, true},
		{"sec-fetch-dest prefetch", map[string]string{"Sec-Fetch-Dest": "prefetch"}, true},
		{"sec-fetch-dest document", map[string]string{"Sec-Fetch-Dest": "document"}, false},
		{"purpose other", map[string]string{"Purpose": "preview"}, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			h := http.Header{}
			for k, v := range tt.headers {
				h.Set(k, v)
			}
			assert.Equal(t, tt.want, IsPrefetch(h))
		})
	}
}

func TestDeviceType(t *testing.T) {
	tests := []struct {
		userAgent string
		want      string
	}{
		{"Mozilla/5.0 (Windows NT 10.0; Win64; x64)", "desktop"},
		{"Mozilla/5.0 (iPhone; CPU iPhone OS 16_0 like Mac OS X)", "mobile"},
		{"Mozilla/5.0 (iPad; CPU OS 16_0 like Mac OS X)", "tablet"},
		{"Googlebot/2.1 (+http://www.google.com/bot.html)", "bot"},
		{"curl/8.4.0", "bot"},
		{"", "unknown"},
	}

	for _, tt := range tests {
		assert.Equal(t, tt.want, DeviceType(tt.userAgent), "user agent %q", tt.userAgent)
	}
}

func TestClientIP(t *testing.T) {
	assert.Equal(t, "203.0.113.5", ClientIP("10.0.0.1:5000", "203.0.113.5, 10.0.0.2", ""))
	assert.Equal(t, "203.0.113.9", ClientIP("10.0.0.1:5000", "", "203.0.113.9"))
	assert.Equal(t, "10.0.0.1", ClientIP("10.0.0.1:5000", "", ""))
}
