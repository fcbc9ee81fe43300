package analytics

import (
	"net/url"
	"strings"
	"unicode"

	"github.com/ddroy9090-ind/reliant-page-access/models"
)

var socialHosts = []string{"facebook", "instagram", "twitter", "linkedin", "t.co", "youtube"}

var searchEngineHosts = []string{"google", "bing", "yahoo", "duckduckgo", "baidu"}

// NormalizePage maps a raw request URI to the page key the dashboard groups
// by. Intentionally literal: no query-string or case canonicalisation.
func NormalizePage(uri string) string {
	uri = strings.TrimSpace(uri)
	if uri == "" {
		return "(unknown)"
	}
	return uri
}

// DetectDevice classifies a hit as Desktop, Mobile, Tablet, Bot or Unknown.
// An explicit device_type column wins; otherwise the user agent is matched
// against substrings, most specific first.
func DetectDevice(e models.AccessEvent) string {
	if e.DeviceType != "" {
		return capitalize(e.DeviceType)
	}
	ua := strings.ToLower(e.UserAgent)
	switch {
	case ua == "":
		return "Unknown"
	case strings.Contains(ua, "bot") || strings.Contains(ua, "spider") || strings.Contains(ua, "crawl"):
		return "Bot"
	case strings.Contains(ua, "ipad") || strings.Contains(ua, "tablet"):
		return "Tablet"
	case strings.Contains(ua, "mobile") || strings.Contains(ua, "iphone") || strings.Contains(ua, "android"):
		return "Mobile"
	}
	return "Desktop"
}

// DetectSource buckets a hit into Direct, Social, Organic or Referral based
// on the referer host. An explicit traffic_source hint wins.
func DetectSource(referer, hint string) string {
	if hint != "" {
		return capitalize(hint)
	}
	if referer == "" {
		return "Direct"
	}
	host := referer
	if u, err := url.Parse(referer); err == nil && u.Host != "" {
		host = u.Host
	}
	host = strings.ToLower(host)
	for _, social := range socialHosts {
		if strings.Contains(host, social) {
			return "Social"
		}
	}
	for _, engine := range searchEngineHosts {
		if strings.Contains(host, engine) {
			return "Organic"
		}
	}
	return "Referral"
}

func capitalize(s string) string {
	r := []rune(s)
	if len(r) == 0 {
		return s
	}
	r[0] = unicode.ToUpper(r[0])
	return string(r)
}
