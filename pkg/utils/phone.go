package utils

import (
	"fmt"
	"net/url"
	"regexp"
	"strings"
)

var (
	digitsRegex      = regexp.MustCompile(`\d`)
	nonDigitRegex    = regexp.MustCompile(`[^\d]`)
	nonPhoneRegex    = regexp.MustCompile(`[^\d+]`)
	apiStyleRegex    = regexp.MustCompile(`^\+?\d+$`)
	phoneTextRegexes = []*regexp.Regexp{
		// Full international format: +54 9 11 1234-5678
		regexp.MustCompile(`\+54\s*9?\s*(\d{2,4})\s*(\d{4})[-\s]?(\d{4})`),
		// National format with area code: 011 4123-4567, 0385 421-4413
		regexp.MustCompile(`(\d{2,4})\s*(\d{3,4})[-\s]?(\d{4})`),
		// Local number only: 4123-4567
		regexp.MustCompile(`(\d{3,4})[-\s]?(\d{4})`),
		// Compact digit run: 1123456789
		regexp.MustCompile(`(\d{10,11})`),
	}
	whatsappURLRegexes = []*regexp.Regexp{
		// wa.me/PHONE format (most common)
		regexp.MustCompile(`(?i)https?://wa\.me/(\+?\d+)`),
		// api.whatsapp.com with phone parameter
		regexp.MustCompile(`(?i)https?://(?:api\.)?whatsapp\.com/send/?[?&]?phone=(\+?\d+)`),
		// Generic phone parameter
		regexp.MustCompile(`(?i)[?&]phone=(\+?\d+)`),
		// Digit run embedded in a WhatsApp path
		regexp.MustCompile(`(?i)whatsapp(?:\.com)?/.*?(\+?\d{8,15})`),
	}
)

// Words whose presence marks a candidate text as not phone-bearing.
var phoneTextStopwords = []string{"email", "website", "sitio", "web", "http"}

// NormalizePhone reduces a phone value to its comparable digit string: all
// non-digits and a leading + are stripped. Numbers shorter than 8 digits are
// not comparable and collapse to "". Idempotent.
func NormalizePhone(phone string) string {
	if phone == "" {
		return ""
	}
	normalized := nonPhoneRegex.ReplaceAllString(phone, "")
	normalized = strings.TrimPrefix(normalized, "+")
	if len(normalized) < 8 {
		return ""
	}
	return normalized
}

// PhoneFromText scans free text with regional phone patterns, most specific
// first, and formats the first match with a consistent area-code/local
// separator. Returns "" when no pattern yields a number with 8 to 15 digits.
func PhoneFromText(text string) string {
	text = strings.TrimSpace(text)
	if text == "" || len(text) > 100 {
		return ""
	}
	lower := strings.ToLower(text)
	for _, word := range phoneTextStopwords {
		if strings.Contains(lower, word) {
			return ""
		}
	}

	for _, pattern := range phoneTextRegexes {
		match := pattern.FindStringSubmatch(text)
		if match == nil {
			continue
		}
		groups := match[1:]

		var phone string
		switch len(groups) {
		case 3:
			if len(groups[0]) <= 4 {
				phone = fmt.Sprintf("%s %s-%s", groups[0], groups[1], groups[2])
			} else {
				phone = fmt.Sprintf("%s-%s-%s", groups[0], groups[1], groups[2])
			}
		case 2:
			phone = fmt.Sprintf("%s-%s", groups[0], groups[1])
		case 1:
			num := groups[0]
			if len(num) == 10 || len(num) == 11 {
				phone = fmt.Sprintf("%s %s-%s", num[:3], num[3:7], num[7:])
			} else {
				phone = num
			}
		default:
			phone = match[0]
		}

		digits := len(digitsRegex.FindAllString(phone, -1))
		if digits >= 8 && digits <= 15 {
			return strings.TrimSpace(phone)
		}
	}
	return ""
}

// PhoneFromTelLink extracts a phone number from a tel: URI. The number is
// taken from the URI path rather than display text; 10- and 11-digit runs get
// an area-code/local split.
func PhoneFromTelLink(telHref string) string {
	if !strings.HasPrefix(telHref, "tel:") {
		return ""
	}
	digits := nonDigitRegex.ReplaceAllString(telHref[4:], "")
	if len(digits) < 8 {
		return ""
	}
	if len(digits) == 10 || len(digits) == 11 {
		return fmt.Sprintf("%s %s-%s", digits[:4], digits[4:7], digits[7:])
	}
	return digits
}

// PhoneFromWhatsAppURL pulls the phone number embedded in a WhatsApp link.
// Patterns are tried in order: wa.me/<digits>, api.whatsapp.com/send with a
// phone= parameter, a generic phone= parameter, then a path-embedded digit
// run. Only numbers with 10 to 15 digits are accepted, normalized to a
// +-prefixed international form. Returns "" when no recoverable number
// exists.
func PhoneFromWhatsAppURL(rawURL string) string {
	if rawURL == "" {
		return ""
	}
	// Path unescaping keeps a literal + intact, unlike query unescaping
	// which would turn wa.me/+549... into a space.
	if decoded, err := url.PathUnescape(rawURL); err == nil {
		rawURL = decoded
	}

	for _, pattern := range whatsappURLRegexes {
		match := pattern.FindStringSubmatch(rawURL)
		if match == nil {
			continue
		}
		phone := nonPhoneRegex.ReplaceAllString(match[1], "")
		digits := strings.TrimPrefix(phone, "+")
		if len(digits) < 10 || len(digits) > 15 {
			continue
		}
		if !strings.HasPrefix(phone, "+") {
			phone = "+" + phone
		}
		return phone
	}
	return ""
}

// FormatWhatsAppNumbers deduplicates WhatsApp numbers by their normalized
// digit string, orders link-derived numbers (pure digit/+ strings) before
// free-text-derived ones, and joins the survivors with a comma.
func FormatWhatsAppNumbers(numbers []string) string {
	if len(numbers) == 0 {
		return ""
	}

	seen := make(map[string]struct{}, len(numbers))
	unique := make([]string, 0, len(numbers))
	for _, number := range numbers {
		clean := strings.TrimPrefix(nonPhoneRegex.ReplaceAllString(number, ""), "+")
		if clean == "" {
			continue
		}
		if _, dup := seen[clean]; dup {
			continue
		}
		seen[clean] = struct{}{}
		unique = append(unique, number)
	}

	var apiStyle, formatted []string
	for _, number := range unique {
		if apiStyleRegex.MatchString(number) {
			apiStyle = append(apiStyle, number)
		} else {
			formatted = append(formatted, number)
		}
	}
	return strings.Join(append(apiStyle, formatted...), ", ")
}

// IsPhoneLike reports whether text carries between 8 and 15 digits.
func IsPhoneLike(text string) bool {
	digits := nonDigitRegex.ReplaceAllString(text, "")
	return len(digits) >= 8 && len(digits) <= 15
}
