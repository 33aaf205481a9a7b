// Package enrich fills a business record's missing contact channels from
// its own website. It fetches the main page plus up to three discovered
// contact pages, scrapes emails, WhatsApp numbers, Instagram profiles and
// phone numbers out of them, and merges the findings into the record
// without ever overwriting a value the listing already provided.
package enrich

import (
	"bytes"
	"context"
	"log/slog"
	"regexp"
	"strings"

	"github.com/PuerkitoBio/goquery"

	"github.com/user/leadgen-service/internal/entity"
	"github.com/user/leadgen-service/pkg/metrics"
	"github.com/user/leadgen-service/pkg/utils"
)

const maxContactPages = 3

// Fetcher retrieves a page body. The production implementation is
// HTTPFetcher; tests substitute canned HTML.
type Fetcher interface {
	Fetch(ctx context.Context, pageURL string) ([]byte, error)
}

var (
	emailRegex      = regexp.MustCompile(`[a-zA-Z0-9._%+-]+@[a-zA-Z0-9.-]+\.[a-zA-Z]{2,}`)
	validEmailRegex = regexp.MustCompile(`^[a-zA-Z0-9._%+-]+@[a-zA-Z0-9.-]+\.[a-zA-Z]{2,}$`)
	instagramRegex  = regexp.MustCompile(`(?i)https?://(?:www\.)?instagram\.com/([a-zA-Z0-9_.]+)`)
	nonPhoneChars   = regexp.MustCompile(`[^\d+]`)
)

var phonePatterns = []*regexp.Regexp{
	regexp.MustCompile(`(?i)tel:(\+?[\d\s\-()]+)`),
	regexp.MustCompile(`(?i)tel[ée]fono[:\s]*(\+?[\d\s\-()]+)`),
	regexp.MustCompile(`(?i)phone[:\s]*(\+?[\d\s\-()]+)`),
	regexp.MustCompile(`(?i)celular[:\s]*(\+?[\d\s\-()]+)`),
	regexp.MustCompile(`(\+?[\d\s\-()]{10,})`),
}

// Phrases that mark a nearby phone number as a WhatsApp contact.
var whatsappContextKeywords = []string{
	"whatsapp", "whats app", "whatsap", "wassap", "wasap",
	"wa.me", "api.whatsapp", "chat whatsapp", "mensaje whatsapp",
	"escribinos por whatsapp", "contactanos por whatsapp",
}

var contactPageIndicators = []string{
	"contacto", "contact", "contato", "kontakt",
	"contact-us", "contact_us", "contactanos",
	"get-in-touch", "reach-us", "connect",
}

var freemailDomains = map[string]struct{}{
	"gmail.com": {}, "yahoo.com": {}, "hotmail.com": {}, "outlook.com": {},
}

type Enricher struct {
	fetcher Fetcher
	log     *slog.Logger
}

func New(fetcher Fetcher, log *slog.Logger) *Enricher {
	return &Enricher{fetcher: fetcher, log: log}
}

// Enrich fetches the business website and fills in missing contact
// channels. Enrichment is best-effort: any page that fails to fetch or
// parse is skipped, and the record is returned usable either way.
func (e *Enricher) Enrich(ctx context.Context, b *entity.Business) {
	if b == nil || b.Website == "" || !b.MissingContactChannel() {
		return
	}

	e.log.Debug("enriching from website", "name", b.Name, "url", b.Website)

	merged, pages, err := e.Collect(ctx, b.Website)
	if err != nil {
		e.log.Warn("website fetch failed, skipping enrichment", "url", b.Website, "error", err)
		return
	}

	e.apply(b, &merged, pages)
}

// Collect fetches a website's main page plus its contact pages and returns
// the merged contact channels along with the number of pages analyzed.
func (e *Enricher) Collect(ctx context.Context, websiteURL string) (entity.ContactBundle, int, error) {
	siteURL := utils.EnsureScheme(websiteURL)

	mainBody, err := e.fetcher.Fetch(ctx, siteURL)
	if err != nil {
		return entity.ContactBundle{}, 0, err
	}
	metrics.EnrichmentPages.Inc()

	merged := ExtractContacts(siteURL, mainBody)
	pages := 1

	for _, contactURL := range FindContactPages(siteURL, mainBody) {
		body, err := e.fetcher.Fetch(ctx, contactURL)
		if err != nil {
			e.log.Debug("contact page fetch failed", "url", contactURL, "error", err)
			continue
		}
		metrics.EnrichmentPages.Inc()
		bundle := ExtractContacts(contactURL, body)
		merged.Merge(bundle)
		pages++
	}

	return merged, pages, nil
}

// apply merges the scraped bundle into the record. Existing values win,
// with one exception: a WhatsApp field holding a raw URL is resolved to a
// phone number (and combined with website numbers) when possible.
func (e *Enricher) apply(b *entity.Business, c *entity.ContactBundle, pages int) {
	if b.Email == "" && len(c.Emails) > 0 {
		b.Email = prioritizeEmail(c.Emails, b.Website)
	}

	siteNumbers := c.WhatsAppNumbers()
	existing := b.WhatsApp
	switch {
	case existing != "" && (strings.Contains(existing, "api.whatsapp.com") || strings.Contains(existing, "wa.me")):
		if phone := utils.PhoneFromWhatsAppURL(existing); phone != "" {
			b.WhatsApp = utils.FormatWhatsAppNumbers(append([]string{phone}, siteNumbers...))
		} else if len(siteNumbers) > 0 {
			b.WhatsApp = utils.FormatWhatsAppNumbers(siteNumbers)
		}
	case existing == "" && len(siteNumbers) > 0:
		b.WhatsApp = utils.FormatWhatsAppNumbers(siteNumbers)
	}

	if b.Instagram == "" && len(c.Instagram) > 0 {
		b.Instagram = c.Instagram[0]
	}

	b.WebsiteExtraction = &entity.EnrichmentSummary{
		PagesAnalyzed:  pages,
		EmailsFound:    len(c.Emails),
		WhatsAppFound:  len(siteNumbers),
		InstagramFound: len(c.Instagram),
		PhonesFound:    len(c.Phones),
	}
}

// ExtractContacts scrapes one page body for contact channels. WhatsApp
// numbers parsed out of wa.me style links are kept apart from numbers
// inferred from surrounding text, so link-derived numbers can take
// precedence when merging.
func ExtractContacts(pageURL string, body []byte) entity.ContactBundle {
	bundle := entity.ContactBundle{PageURL: pageURL}

	doc, err := goquery.NewDocumentFromReader(bytes.NewReader(body))
	if err != nil {
		return bundle
	}
	text := doc.Text()

	for _, source := range []string{string(body), text} {
		for _, match := range emailRegex.FindAllString(source, -1) {
			if email := strings.ToLower(match); validEmail(email) {
				bundle.Emails = appendUnique(bundle.Emails, email)
			}
		}
	}

	doc.Find("a[href]").Each(func(_ int, sel *goquery.Selection) {
		href, _ := sel.Attr("href")
		lower := strings.ToLower(href)

		if strings.Contains(lower, "wa.me") || strings.Contains(lower, "api.whatsapp.com") ||
			strings.Contains(lower, "whatsapp.com") {
			if phone := utils.PhoneFromWhatsAppURL(href); phone != "" {
				bundle.WhatsAppLinks = appendUnique(bundle.WhatsAppLinks, phone)
			}
			return
		}

		if m := instagramRegex.FindStringSubmatch(href); m != nil && len(m[1]) > 1 {
			bundle.Instagram = appendUnique(bundle.Instagram, "https://instagram.com/"+m[1])
		}
	})

	scanTextPhones(&bundle, text)
	return bundle
}

// scanTextPhones classifies phone-shaped digit runs in the page text. A
// number with a WhatsApp keyword within 100 characters on either side goes
// to WhatsAppText, the rest to Phones. Numbers already found via links are
// not duplicated.
func scanTextPhones(bundle *entity.ContactBundle, text string) {
	lowerText := strings.ToLower(text)
	linkNumbers := map[string]struct{}{}
	for _, n := range bundle.WhatsAppLinks {
		linkNumbers[n] = struct{}{}
	}

	for _, pattern := range phonePatterns {
		for _, loc := range pattern.FindAllStringSubmatchIndex(text, -1) {
			if loc[2] < 0 {
				continue
			}
			phone := cleanPhone(text[loc[2]:loc[3]])
			if phone == "" {
				continue
			}
			if _, dup := linkNumbers[phone]; dup {
				continue
			}

			start := loc[0] - 100
			if start < 0 {
				start = 0
			}
			end := loc[1] + 100
			if end > len(lowerText) {
				end = len(lowerText)
			}
			window := lowerText[start:end]

			if hasWhatsAppKeyword(window) {
				bundle.WhatsAppText = appendUnique(bundle.WhatsAppText, phone)
			} else {
				bundle.Phones = appendUnique(bundle.Phones, phone)
			}
		}
	}
}

func hasWhatsAppKeyword(window string) bool {
	for _, kw := range whatsappContextKeywords {
		if strings.Contains(window, kw) {
			return true
		}
	}
	return false
}

// FindContactPages returns up to three absolute URLs of likely contact
// pages linked from the given page, in document order.
func FindContactPages(baseURL string, body []byte) []string {
	doc, err := goquery.NewDocumentFromReader(bytes.NewReader(body))
	if err != nil {
		return nil
	}

	var urls []string
	seen := map[string]struct{}{}

	doc.Find("a[href]").EachWithBreak(func(_ int, sel *goquery.Selection) bool {
		href, _ := sel.Attr("href")
		if href == "" || strings.HasPrefix(href, "mailto:") || strings.HasPrefix(href, "tel:") {
			return true
		}

		text := strings.ToLower(strings.TrimSpace(sel.Text()))
		title := strings.ToLower(sel.AttrOr("title", ""))
		lowerHref := strings.ToLower(href)

		if !matchesContactIndicator(text, lowerHref, title) {
			return true
		}

		absolute := href
		if !strings.HasPrefix(href, "http") {
			absolute = utils.ToAbsoluteURL(baseURL, href)
		}
		if absolute == "" {
			return true
		}
		if _, dup := seen[absolute]; dup {
			return true
		}
		seen[absolute] = struct{}{}
		urls = append(urls, absolute)
		return len(urls) < maxContactPages
	})

	return urls
}

func matchesContactIndicator(text, href, title string) bool {
	for _, indicator := range contactPageIndicators {
		if strings.Contains(text, indicator) || strings.Contains(href, indicator) ||
			strings.Contains(title, indicator) {
			return true
		}
	}
	return false
}

// prioritizeEmail picks the best candidate: same domain as the website
// first, then any non-freemail domain, then freemail providers.
func prioritizeEmail(emails []string, websiteURL string) string {
	siteDomain := utils.HostOf(utils.EnsureScheme(websiteURL))

	var sameDomain, business, freemail []string
	for _, email := range emails {
		email = strings.ToLower(strings.TrimSpace(email))
		at := strings.LastIndex(email, "@")
		if at < 0 {
			continue
		}
		domain := email[at+1:]
		if len(domain) < 3 {
			continue
		}

		switch {
		case siteDomain != "" && domain == siteDomain:
			sameDomain = append(sameDomain, email)
		default:
			if _, free := freemailDomains[domain]; free {
				freemail = append(freemail, email)
			} else {
				business = append(business, email)
			}
		}
	}

	switch {
	case len(sameDomain) > 0:
		return sameDomain[0]
	case len(business) > 0:
		return business[0]
	case len(freemail) > 0:
		return freemail[0]
	case len(emails) > 0:
		return emails[0]
	}
	return ""
}

func validEmail(email string) bool {
	return email != "" && len(email) <= 254 && validEmailRegex.MatchString(email)
}

func cleanPhone(raw string) string {
	cleaned := nonPhoneChars.ReplaceAllString(raw, "")
	if !utils.IsPhoneLike(cleaned) {
		return ""
	}
	return cleaned
}

func appendUnique(list []string, value string) []string {
	for _, v := range list {
		if v == value {
			return list
		}
	}
	return append(list, value)
}
