package analytics

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/ddroy9090-ind/reliant-page-access/models"
)

func TestNormalizePage(t *testing.T) {
	tests := []struct {
		name string
		uri  string
		want string
	}{
		{name: "plain path", uri: "/market-reports", want: "/market-reports"},
		{name: "surrounding whitespace trimmed", uri: "  /blogs \n", want: "/blogs"},
		{name: "query string kept verbatim", uri: "/blogs?id=3", want: "/blogs?id=3"},
		{name: "case kept verbatim", uri: "/Blogs", want: "/Blogs"},
		{name: "empty", uri: "", want: "(unknown)"},
		{name: "whitespace only", uri: "   ", want: "(unknown)"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, NormalizePage(tt.uri))
		})
	}
}

func TestDetectDevice(t *testing.T) {
	tests := []struct {
		name  string
		event models.AccessEvent
		want  string
	}{
		{
			name:  "explicit device type wins over UA",
			event: models.AccessEvent{DeviceType: "mobile", UserAgent: "Mozilla/5.0 (Windows NT 10.0)"},
			want:  "Mobile",
		},
		{
			name:  "empty user agent",
			event: models.AccessEvent{},
			want:  "Unknown",
		},
		{
			name:  "bot beats mobile",
			event: models.AccessEvent{UserAgent: "Googlebot/2.1 Mobile"},
			want:  "Bot",
		},
		{
			name:  "spider",
			event: models.AccessEvent{UserAgent: "Baiduspider/2.0"},
			want:  "Bot",
		},
		{
			name:  "crawler",
			event: models.AccessEvent{UserAgent: "some-crawler/1.0"},
			want:  "Bot",
		},
		{
			name:  "ipad is a tablet even when UA says mobile",
			event: models.AccessEvent{UserAgent: "Mozilla/5.0 (iPad; CPU OS 16_0) Mobile/15E148"},
			want:  "Tablet",
		},
		{
			name:  "iphone",
			event: models.AccessEvent{UserAgent: "Mozilla/5.0 (iPhone; CPU iPhone OS 16_0)"},
			want:  "Mobile",
		},
		{
			name:  "android",
			event: models.AccessEvent{UserAgent: "Mozilla/5.0 (Linux; Android 13)"},
			want:  "Mobile",
		},
		{
			name:  "desktop fallback",
			event: models.AccessEvent{UserAgent: "Mozilla/5.0 (Windows NT 10.0; Win64; x64)"},
			want:  "Desktop",
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, DetectDevice(tt.event))
		})
	}
}

func TestDetectSource(t *testing.T) {
	tests := []struct {
		name    string
		referer string
		hint    string
		want    string
	}{
		{name: "hint wins", referer: "https://www.google.com/search", hint: "newsletter", want: "Newsletter"},
		{name: "no referer is direct", referer: "", want: "Direct"},
		{name: "facebook", referer: "https://www.facebook.com/", want: "Social"},
		{name: "t.co short link", referer: "https://t.co/abc", want: "Social"},
		{name: "google", referer: "https://www.google.com/search?q=valuation", want: "Organic"},
		{name: "duckduckgo", referer: "https://duckduckgo.com/", want: "Organic"},
		{name: "other site", referer: "https://example.org/article", want: "Referral"},
		{name: "schemeless referer matched on raw string", referer: "news.ycombinator.com", want: "Referral"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, DetectSource(tt.referer, tt.hint))
		})
	}
}
