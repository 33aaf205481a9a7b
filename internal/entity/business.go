package entity

import "time"

// EnrichmentSummary records what a website contact crawl contributed to a
// business record.
type EnrichmentSummary struct {
	PagesAnalyzed  int `json:"pages_analyzed"`
	EmailsFound    int `json:"emails_found"`
	WhatsAppFound  int `json:"whatsapp_found"`
	InstagramFound int `json:"instagram_found"`
	PhonesFound    int `json:"phones_found"`
}

// Business is one discovered entity from the map results surface.
// A record is only accepted into a result set when Name is non-empty and it
// is not a duplicate of a previously accepted record.
type Business struct {
	ID                string             `json:"id,omitempty"`
	Name              string             `json:"name"`
	Phone             string             `json:"phone,omitempty"`
	Website           string             `json:"website,omitempty"`
	Email             string             `json:"email,omitempty"`
	WhatsApp          string             `json:"whatsapp,omitempty"`
	Instagram         string             `json:"instagram,omitempty"`
	Address           string             `json:"address,omitempty"`
	Rating            string             `json:"rating,omitempty"`
	Reviews           int                `json:"reviews,omitempty"`
	SearchKeyword     string             `json:"search_keyword,omitempty"`
	Contacted         bool               `json:"contacted"`
	WebsiteExtraction *EnrichmentSummary `json:"website_extraction,omitempty"`
	CreatedAt         time.Time          `json:"created_at,omitempty"`
	UpdatedAt         time.Time          `json:"updated_at,omitempty"`
}

// MissingContactChannel reports whether at least one of the contact channels
// an enrichment crawl can fill is still empty.
func (b *Business) MissingContactChannel() bool {
	return b.Email == "" || b.WhatsApp == "" || b.Instagram == ""
}
