package helpers

import (
	"net/url"
	"strings"
)

// NormalizeURL trims s and prefixes https:// when it has no scheme and host.
// Empty input stays empty.
func NormalizeURL(s string) string {
	s = strings.TrimSpace(s)
	if s == "" {
		return ""
	}
	if u, err := url.Parse(s); err == nil && u.Scheme != "" && u.Host != "" {
		return s
	}
	return "https://" + s
}
