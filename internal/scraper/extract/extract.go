// Package extract pulls a business record out of an open listing detail
// panel. Every field is resolved through an ordered list of selector
// strategies; the first one that yields an acceptable value wins and the
// rest are skipped. A field with no winning strategy is simply left empty,
// only a missing name invalidates the whole record.
package extract

import (
	"context"
	"log/slog"
	"regexp"
	"strconv"
	"strings"

	"github.com/user/leadgen-service/internal/entity"
	"github.com/user/leadgen-service/pkg/utils"
)

// DetailView is the read-only surface of an open listing panel. Selectors
// may be CSS or XPath (prefixed with "//"). Implementations return ok=false
// when no node matches; errors are reserved for broken sessions.
type DetailView interface {
	Text(ctx context.Context, selector string) (string, bool, error)
	Attr(ctx context.Context, selector, attribute string) (string, bool, error)
}

var (
	ratingRegex  = regexp.MustCompile(`(\d+[.,]\d+)`)
	reviewsRegex = regexp.MustCompile(`(\d+)\s+(?:opiniones?|reviews?)`)
)

// Names that mean the panel is not showing a real listing.
var genericNames = map[string]struct{}{
	"resultados": {}, "results": {}, "google maps": {}, "maps": {},
}

type Extractor struct {
	log *slog.Logger
}

func New(log *slog.Logger) *Extractor {
	return &Extractor{log: log}
}

// Extract reads the currently open detail panel into a Business. It returns
// nil when no usable name can be found, which callers treat as a skipped
// listing rather than an error.
func (e *Extractor) Extract(ctx context.Context, view DetailView) *entity.Business {
	name := e.extractName(ctx, view)
	if name == "" {
		e.log.Debug("listing has no extractable name, skipping")
		return nil
	}

	b := &entity.Business{Name: name}
	b.Phone = e.extractPhone(ctx, view)
	b.Website = e.extractWebsite(ctx, view)
	b.Instagram = e.extractInstagram(ctx, view)
	b.WhatsApp = e.extractWhatsApp(ctx, view)
	b.Address = e.extractAddress(ctx, view)
	b.Rating, b.Reviews = e.extractRating(ctx, view)

	e.log.Debug("extracted listing",
		"name", b.Name, "phone", b.Phone, "website", b.Website,
		"instagram", b.Instagram, "whatsapp", b.WhatsApp)
	return b
}

var nameSelectors = []string{
	`h1[data-attrid="title"]`,
	`h1[class*="DUwDvf"]`,
	`h1[class*="fontHeadlineLarge"]`,
	`div[data-attrid="title"] h1`,
	`h1`,
}

func (e *Extractor) extractName(ctx context.Context, view DetailView) string {
	for _, sel := range nameSelectors {
		text, ok, err := view.Text(ctx, sel)
		if err != nil || !ok {
			continue
		}
		name := strings.TrimSpace(text)
		if name == "" {
			continue
		}
		if _, generic := genericNames[strings.ToLower(name)]; generic {
			continue
		}
		return name
	}
	return ""
}

var phoneTextSelectors = []string{
	`//button[contains(., "Teléfono:")]`,
	`button[data-item-id*="phone"]`,
	`[data-value*="phone"]`,
	`span[class*="fontBody"]`,
	`div[class*="fontBody"]`,
}

func (e *Extractor) extractPhone(ctx context.Context, view DetailView) string {
	for _, sel := range phoneTextSelectors {
		text, ok, err := view.Text(ctx, sel)
		if err != nil || !ok {
			continue
		}
		if phone := utils.PhoneFromText(text); phone != "" {
			return phone
		}
	}

	// Fall back to tel: anchors, which carry digits in the href rather
	// than the visible text.
	href, ok, err := view.Attr(ctx, `a[href^="tel:"]`, "href")
	if err == nil && ok {
		if phone := utils.PhoneFromTelLink(href); phone != "" {
			return phone
		}
	}
	return ""
}

var websiteSelectors = []string{
	`a[data-item-id*="authority"]`,
	`a[data-value="website"]`,
	`a[href*=".com"]:not([href*="google"])`,
	`a[href*=".ar"]:not([href*="google"])`,
}

func (e *Extractor) extractWebsite(ctx context.Context, view DetailView) string {
	for _, sel := range websiteSelectors {
		href, ok, err := view.Attr(ctx, sel, "href")
		if err != nil || !ok {
			continue
		}
		// The hosting platform wraps external links in an interstitial
		// redirect; the target is what goes in the record.
		href = utils.UnwrapRedirectURL(strings.TrimSpace(href))
		if href == "" || strings.HasPrefix(href, "javascript:") || strings.Contains(href, "google") {
			continue
		}
		return href
	}
	return ""
}

var instagramSelectors = []string{
	`a[href*="instagram.com"]`,
	`a[href*="instagram"]`,
	`a[aria-label*="Instagram"]`,
}

func (e *Extractor) extractInstagram(ctx context.Context, view DetailView) string {
	for _, sel := range instagramSelectors {
		href, ok, err := view.Attr(ctx, sel, "href")
		if err != nil || !ok {
			continue
		}
		if strings.Contains(strings.ToLower(href), "instagram") {
			return href
		}
	}
	return ""
}

var whatsappSelectors = []string{
	`a[href*="wa.me"]`,
	`a[href*="api.whatsapp.com"]`,
	`a[href*="whatsapp"]`,
	`a[aria-label*="WhatsApp"]`,
	`[role="button"] a[href*="wa.me"]`,
}

func (e *Extractor) extractWhatsApp(ctx context.Context, view DetailView) string {
	for _, sel := range whatsappSelectors {
		href, ok, err := view.Attr(ctx, sel, "href")
		if err != nil || !ok {
			continue
		}
		lower := strings.ToLower(href)
		if !strings.Contains(lower, "whatsapp") && !strings.Contains(lower, "wa.me") {
			continue
		}
		if phone := utils.PhoneFromWhatsAppURL(href); phone != "" {
			return phone
		}
		// Keep the raw URL when no number can be parsed out of it; the
		// enricher may resolve it later.
		return href
	}
	return ""
}

var addressSelectors = []string{
	`button[data-item-id*="address"]`,
	`[data-value="address"]`,
	`[data-item-id="oloc"] span`,
	`div[class*="Io6YTe"] span`,
}

func (e *Extractor) extractAddress(ctx context.Context, view DetailView) string {
	for _, sel := range addressSelectors {
		text, ok, err := view.Text(ctx, sel)
		if err != nil || !ok {
			continue
		}
		addr := strings.TrimSpace(text)
		if acceptableAddress(addr) {
			return addr
		}
	}
	return ""
}

// acceptableAddress filters out phone rows and other short non-address text
// that the loose selectors can pick up.
func acceptableAddress(addr string) bool {
	if len(addr) <= 10 || !strings.ContainsAny(addr, "0123456789") {
		return false
	}
	lower := strings.ToLower(addr)
	return !strings.HasPrefix(lower, "tel") && !strings.HasPrefix(lower, "phone")
}

var ratingSelectors = []string{
	`[role="img"][aria-label*="estrellas"]`,
	`[role="img"][aria-label*="stars"]`,
	`span[class*="rating"]`,
}

func (e *Extractor) extractRating(ctx context.Context, view DetailView) (string, int) {
	for _, sel := range ratingSelectors {
		label, ok, err := view.Attr(ctx, sel, "aria-label")
		if err == nil && ok && label != "" {
			return parseRating(label)
		}

		text, ok, err := view.Text(ctx, sel)
		if err == nil && ok && text != "" {
			rating, _ := parseRating(text)
			if rating != "" {
				return rating, 0
			}
		}
	}
	return "", 0
}

func parseRating(s string) (string, int) {
	var rating string
	if m := ratingRegex.FindStringSubmatch(s); m != nil {
		rating = strings.ReplaceAll(m[1], ",", ".")
	}
	reviews := 0
	if m := reviewsRegex.FindStringSubmatch(s); m != nil {
		reviews, _ = strconv.Atoi(m[1])
	}
	return rating, reviews
}
