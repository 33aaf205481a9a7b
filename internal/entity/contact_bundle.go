package entity

// ContactBundle holds the candidate contact values gathered from one page of
// a business website. Link-derived WhatsApp numbers are kept apart from
// numbers recovered from free text so merge rules can order them. Generic
// phone numbers not attributable to WhatsApp stay in Phones and are never
// written into a record.
type ContactBundle struct {
	PageURL       string
	Emails        []string
	WhatsAppLinks []string
	WhatsAppText  []string
	Instagram     []string
	Phones        []string
}

// Merge folds another bundle's values into this one, skipping values already
// present.
func (b *ContactBundle) Merge(other ContactBundle) {
	b.Emails = appendUnique(b.Emails, other.Emails)
	b.WhatsAppLinks = appendUnique(b.WhatsAppLinks, other.WhatsAppLinks)
	b.WhatsAppText = appendUnique(b.WhatsAppText, other.WhatsAppText)
	b.Instagram = appendUnique(b.Instagram, other.Instagram)
	b.Phones = appendUnique(b.Phones, other.Phones)
}

// WhatsAppNumbers returns every WhatsApp number in the bundle, link-derived
// numbers first, text-derived ones after and only when not already present.
func (b *ContactBundle) WhatsAppNumbers() []string {
	out := make([]string, 0, len(b.WhatsAppLinks)+len(b.WhatsAppText))
	out = append(out, b.WhatsAppLinks...)
	return appendUnique(out, b.WhatsAppText)
}

func appendUnique(dst, src []string) []string {
	seen := make(map[string]struct{}, len(dst))
	for _, v := range dst {
		seen[v] = struct{}{}
	}
	for _, v := range src {
		if _, ok := seen[v]; ok {
			continue
		}
		seen[v] = struct{}{}
		dst = append(dst, v)
	}
	return dst
}
