package utils

import (
	"crypto/sha256"
	"encoding/hex"
	"net/url"
	"regexp"
	"strings"
)

var (
	schemeRegex = regexp.MustCompile(`^https?://`)
	wwwRegex    = regexp.MustCompile(`^www\.`)
)

// HashKey creates a SHA256 hash of a string. Used for consistent, safe Redis
// keys for queries and URLs.
func HashKey(raw string) string {
	h := sha256.New()
	h.Write([]byte(raw))
	return hex.EncodeToString(h.Sum(nil))
}

// ToAbsoluteURL resolves a relative URL against a base URL. Returns "" when
// either side fails to parse.
func ToAbsoluteURL(base, relative string) string {
	baseURL, err := url.Parse(base)
	if err != nil {
		return ""
	}
	relURL, err := url.Parse(relative)
	if err != nil {
		return ""
	}
	return baseURL.ResolveReference(relURL).String()
}

// NormalizeURL reduces a URL to a comparable form: protocol and leading www
// stripped, trailing slash removed, lowercased. Returns "" when the result is
// 3 characters or fewer, which is too short to compare meaningfully.
func NormalizeURL(raw string) string {
	if raw == "" {
		return ""
	}
	normalized := schemeRegex.ReplaceAllString(strings.ToLower(strings.TrimSpace(raw)), "")
	normalized = wwwRegex.ReplaceAllString(normalized, "")
	normalized = strings.TrimRight(normalized, "/")
	if len(normalized) <= 3 {
		return ""
	}
	return normalized
}

// UnwrapRedirectURL resolves the hosting platform's interstitial redirect
// links (".../url?q=<target>") to the target URL. Non-redirect URLs pass
// through unchanged.
func UnwrapRedirectURL(raw string) string {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return ""
	}
	if strings.HasPrefix(raw, "https://www.google.com/url?") {
		if parsed, err := url.Parse(raw); err == nil {
			if target := parsed.Query().Get("q"); target != "" {
				return target
			}
		}
	}
	return raw
}

// EnsureScheme prefixes https:// when a URL has no scheme.
func EnsureScheme(raw string) string {
	if strings.HasPrefix(strings.ToLower(raw), "http") {
		return raw
	}
	return "https://" + strings.TrimLeft(raw, "/")
}

// HostOf returns the lowercased hostname of a URL without a leading www.
func HostOf(raw string) string {
	parsed, err := url.Parse(raw)
	if err != nil {
		return ""
	}
	return wwwRegex.ReplaceAllString(strings.ToLower(parsed.Hostname()), "")
}
