package extract

import (
	"context"
	"io"
	"log/slog"
	"testing"
)

// fakeView serves canned text and attribute values keyed by selector.
type fakeView struct {
	texts map[string]string
	attrs map[string]string // key: selector + "|" + attribute
}

func (f *fakeView) Text(_ context.Context, selector string) (string, bool, error) {
	v, ok := f.texts[selector]
	return v, ok, nil
}

func (f *fakeView) Attr(_ context.Context, selector, attribute string) (string, bool, error) {
	v, ok := f.attrs[selector+"|"+attribute]
	return v, ok, nil
}

func newExtractor() *Extractor {
	return New(slog.New(slog.NewTextHandler(io.Discard, nil)))
}

func TestExtractFullListing(t *testing.T) {
	view := &fakeView{
		texts: map[string]string{
			`h1[data-attrid="title"]`:             "Panadería La Espiga",
			`//button[contains(., "Teléfono:")]`:  "Teléfono: 0385 421-4413",
			`button[data-item-id*="address"]`:     "Av. Corrientes 1234, Buenos Aires",
		},
		attrs: map[string]string{
			`a[data-item-id*="authority"]|href`:              "https://laespiga.com.ar",
			`a[href*="instagram.com"]|href`:                  "https://instagram.com/laespiga",
			`a[href*="wa.me"]|href`:                          "https://wa.me/5491140494048",
			`[role="img"][aria-label*="estrellas"]|aria-label`: "4,5 estrellas 120 opiniones",
		},
	}

	b := newExtractor().Extract(context.Background(), view)
	if b == nil {
		t.Fatal("Extract() returned nil for a complete listing")
	}
	if b.Name != "Panadería La Espiga" {
		t.Errorf("Name = %q", b.Name)
	}
	if b.Phone != "0385 421-4413" {
		t.Errorf("Phone = %q", b.Phone)
	}
	if b.Website != "https://laespiga.com.ar" {
		t.Errorf("Website = %q", b.Website)
	}
	if b.Instagram != "https://instagram.com/laespiga" {
		t.Errorf("Instagram = %q", b.Instagram)
	}
	if b.WhatsApp != "+5491140494048" {
		t.Errorf("WhatsApp = %q", b.WhatsApp)
	}
	if b.Address != "Av. Corrientes 1234, Buenos Aires" {
		t.Errorf("Address = %q", b.Address)
	}
	if b.Rating != "4.5" {
		t.Errorf("Rating = %q", b.Rating)
	}
	if b.Reviews != 120 {
		t.Errorf("Reviews = %d", b.Reviews)
	}
}

func TestExtractSkipsGenericNames(t *testing.T) {
	view := &fakeView{
		texts: map[string]string{
			`h1[data-attrid="title"]`: "Resultados",
			`h1`:                      "Librería El Ateneo",
		},
		attrs: map[string]string{},
	}

	b := newExtractor().Extract(context.Background(), view)
	if b == nil {
		t.Fatal("Extract() returned nil, expected fallback selector to win")
	}
	if b.Name != "Librería El Ateneo" {
		t.Errorf("Name = %q, want fallback h1 value", b.Name)
	}
}

func TestExtractNilWithoutName(t *testing.T) {
	view := &fakeView{
		texts: map[string]string{`h1`: "Google Maps"},
		attrs: map[string]string{`a[href^="tel:"]|href`: "tel:+5491140494048"},
	}
	if b := newExtractor().Extract(context.Background(), view); b != nil {
		t.Errorf("Extract() = %+v, want nil when every name candidate is generic", b)
	}
}

func TestExtractPhoneFallsBackToTelLink(t *testing.T) {
	view := &fakeView{
		texts: map[string]string{
			`h1`: "Ferretería El Tornillo",
			// Body text without any phone-shaped digits.
			`span[class*="fontBody"]`: "Abierto hasta las 18:00",
		},
		attrs: map[string]string{`a[href^="tel:"]|href`: "tel:03854214413"},
	}

	b := newExtractor().Extract(context.Background(), view)
	if b == nil {
		t.Fatal("Extract() returned nil")
	}
	if b.Phone != "0385 421-4413" {
		t.Errorf("Phone = %q, want tel: link digits formatted", b.Phone)
	}
}

func TestExtractWebsiteRejectsGoogleAndJavascript(t *testing.T) {
	view := &fakeView{
		texts: map[string]string{`h1`: "Negocio"},
		attrs: map[string]string{
			`a[data-item-id*="authority"]|href`:        "javascript:void(0)",
			`a[data-value="website"]|href`:             "https://google.com/maps/place/x",
			`a[href*=".com"]:not([href*="google"])|href`: "https://negocio.com",
		},
	}

	b := newExtractor().Extract(context.Background(), view)
	if b.Website != "https://negocio.com" {
		t.Errorf("Website = %q, want the first non-google non-javascript href", b.Website)
	}
}

func TestExtractWebsiteUnwrapsRedirectLinks(t *testing.T) {
	view := &fakeView{
		texts: map[string]string{`h1`: "Negocio"},
		attrs: map[string]string{
			`a[data-item-id*="authority"]|href`: "https://www.google.com/url?q=https://negocio.com/&sa=U",
		},
	}

	b := newExtractor().Extract(context.Background(), view)
	if b.Website != "https://negocio.com/" {
		t.Errorf("Website = %q, want the redirect target", b.Website)
	}
}

func TestExtractWhatsAppKeepsRawURLWhenUnparseable(t *testing.T) {
	view := &fakeView{
		texts: map[string]string{`h1`: "Negocio"},
		attrs: map[string]string{
			`a[href*="wa.me"]|href`: "https://wa.me/message/ABCDEF",
		},
	}

	b := newExtractor().Extract(context.Background(), view)
	if b.WhatsApp != "https://wa.me/message/ABCDEF" {
		t.Errorf("WhatsApp = %q, want raw URL preserved", b.WhatsApp)
	}
}
