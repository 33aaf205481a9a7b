package enrich

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"testing"

	"github.com/user/leadgen-service/internal/entity"
)

type fakeFetcher struct {
	pages map[string]string
}

func (f *fakeFetcher) Fetch(_ context.Context, pageURL string) ([]byte, error) {
	body, ok := f.pages[pageURL]
	if !ok {
		return nil, errors.New("not found")
	}
	return []byte(body), nil
}

func newEnricher(pages map[string]string) *Enricher {
	return New(&fakeFetcher{pages: pages}, slog.New(slog.NewTextHandler(io.Discard, nil)))
}

func TestExtractContactsEmailsAndLinks(t *testing.T) {
	html := `<html><body>
		<p>Escribinos a info@negocio.com.ar o ventas@negocio.com.ar</p>
		<a href="https://wa.me/5491140494048">WhatsApp</a>
		<a href="https://instagram.com/negocio.ok">Instagram</a>
		<a href="mailto:info@negocio.com.ar">Mail</a>
	</body></html>`

	bundle := ExtractContacts("https://negocio.com.ar", []byte(html))

	if len(bundle.Emails) != 2 {
		t.Errorf("Emails = %v, want 2 unique addresses", bundle.Emails)
	}
	if len(bundle.WhatsAppLinks) != 1 || bundle.WhatsAppLinks[0] != "+5491140494048" {
		t.Errorf("WhatsAppLinks = %v, want [+5491140494048]", bundle.WhatsAppLinks)
	}
	if len(bundle.Instagram) != 1 || bundle.Instagram[0] != "https://instagram.com/negocio.ok" {
		t.Errorf("Instagram = %v", bundle.Instagram)
	}
}

func TestExtractContactsTextWhatsAppNeedsKeywordContext(t *testing.T) {
	// The filler paragraph pushes the second number more than 100
	// characters away from the WhatsApp keyword, outside its context window.
	html := `<html><body>
		<p>Escribinos por whatsapp al 5491150073233</p>
		<p>Somos una empresa familiar dedicada a la venta de productos regionales
		desde hace mas de treinta anios, con atencion personalizada en nuestro
		local del centro de la ciudad y envios a todo el pais.</p>
		<p>Oficina central: 5491143714927</p>
	</body></html>`

	bundle := ExtractContacts("https://negocio.com.ar", []byte(html))

	if len(bundle.WhatsAppText) != 1 || bundle.WhatsAppText[0] != "5491150073233" {
		t.Errorf("WhatsAppText = %v, want the keyword-adjacent number only", bundle.WhatsAppText)
	}
	for _, p := range bundle.Phones {
		if p == "5491150073233" {
			t.Errorf("Phones = %v, WhatsApp number must not be double-counted", bundle.Phones)
		}
	}
}

func TestExtractContactsRejectsOversizedDigitRuns(t *testing.T) {
	html := `<html><body>
		<p>CUIT 30712345678901234</p>
		<p>Tel: 011 4123-4567</p>
	</body></html>`

	bundle := ExtractContacts("https://negocio.com.ar", []byte(html))

	for _, p := range bundle.Phones {
		if len(p) > 16 {
			t.Errorf("Phones = %v, digit runs past phone length must be dropped", bundle.Phones)
		}
	}
	if len(bundle.Phones) == 0 {
		t.Errorf("Phones = %v, want the labelled number kept", bundle.Phones)
	}
}

func TestFindContactPages(t *testing.T) {
	html := `<html><body>
		<a href="/contacto">Contacto</a>
		<a href="/acerca">Acerca</a>
		<a href="https://negocio.com.ar/contact-us">Contact us</a>
		<a href="/contacto">Contacto otra vez</a>
		<a href="/kontakt">Kontakt</a>
		<a href="/get-in-touch">Get in touch</a>
	</body></html>`

	got := FindContactPages("https://negocio.com.ar", []byte(html))

	want := []string{
		"https://negocio.com.ar/contacto",
		"https://negocio.com.ar/contact-us",
		"https://negocio.com.ar/kontakt",
	}
	if len(got) != len(want) {
		t.Fatalf("FindContactPages() = %v, want %v", got, want)
	}
	for i := range want {
		if got[i] != want[i] {
			t.Errorf("page[%d] = %q, want %q", i, got[i], want[i])
		}
	}
}

func TestPrioritizeEmail(t *testing.T) {
	tests := []struct {
		name    string
		emails  []string
		website string
		want    string
	}{
		{
			name:    "same domain beats freemail",
			emails:  []string{"info@gmail.com", "contact@business.com"},
			website: "https://business.com",
			want:    "contact@business.com",
		},
		{
			name:    "business domain beats freemail",
			emails:  []string{"ventas@hotmail.com", "hola@otraempresa.com"},
			website: "https://negocio.com.ar",
			want:    "hola@otraempresa.com",
		},
		{
			name:    "freemail as last resort",
			emails:  []string{"negocio@gmail.com"},
			website: "https://negocio.com.ar",
			want:    "negocio@gmail.com",
		},
		{
			name:    "www prefix ignored when matching domain",
			emails:  []string{"x@gmail.com", "y@negocio.com.ar"},
			website: "https://www.negocio.com.ar",
			want:    "y@negocio.com.ar",
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := prioritizeEmail(tt.emails, tt.website); got != tt.want {
				t.Errorf("prioritizeEmail() = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestEnrichFillsMissingChannels(t *testing.T) {
	pages := map[string]string{
		"https://negocio.com.ar": `<html><body>
			<a href="/contacto">Contacto</a>
			<a href="https://instagram.com/negocio">IG</a>
		</body></html>`,
		"https://negocio.com.ar/contacto": `<html><body>
			<p>contacto@negocio.com.ar</p>
			<a href="https://wa.me/5491150073233">WhatsApp</a>
		</body></html>`,
	}

	b := &entity.Business{Name: "Negocio", Website: "https://negocio.com.ar"}
	newEnricher(pages).Enrich(context.Background(), b)

	if b.Email != "contacto@negocio.com.ar" {
		t.Errorf("Email = %q", b.Email)
	}
	if b.WhatsApp != "+5491150073233" {
		t.Errorf("WhatsApp = %q", b.WhatsApp)
	}
	if b.Instagram != "https://instagram.com/negocio" {
		t.Errorf("Instagram = %q", b.Instagram)
	}
	if b.WebsiteExtraction == nil || b.WebsiteExtraction.PagesAnalyzed != 2 {
		t.Errorf("WebsiteExtraction = %+v, want 2 pages analyzed", b.WebsiteExtraction)
	}
}

func TestEnrichResolvesWhatsAppURL(t *testing.T) {
	pages := map[string]string{
		"https://negocio.com.ar": `<html><body>
			<a href="https://wa.me/5491143714927">WhatsApp</a>
		</body></html>`,
	}

	b := &entity.Business{
		Name:     "Negocio",
		Website:  "https://negocio.com.ar",
		WhatsApp: "https://api.whatsapp.com/send/?phone=5491123325814&text=hola",
	}
	newEnricher(pages).Enrich(context.Background(), b)

	if b.WhatsApp != "+5491123325814, +5491143714927" {
		t.Errorf("WhatsApp = %q, want listing number first then website number", b.WhatsApp)
	}
}

func TestEnrichNeverOverwritesExistingValues(t *testing.T) {
	pages := map[string]string{
		"https://negocio.com.ar": `<html><body>
			<p>otro@negocio.com.ar</p>
			<a href="https://instagram.com/otracuenta">IG</a>
		</body></html>`,
	}

	b := &entity.Business{
		Name:      "Negocio",
		Website:   "https://negocio.com.ar",
		Email:     "original@negocio.com.ar",
		Instagram: "https://instagram.com/original",
	}
	newEnricher(pages).Enrich(context.Background(), b)

	if b.Email != "original@negocio.com.ar" {
		t.Errorf("Email overwritten: %q", b.Email)
	}
	if b.Instagram != "https://instagram.com/original" {
		t.Errorf("Instagram overwritten: %q", b.Instagram)
	}
}

func TestEnrichSkipsCompleteRecords(t *testing.T) {
	b := &entity.Business{
		Name: "Completo", Website: "https://c.com",
		Email: "a@c.com", WhatsApp: "+5491100000000", Instagram: "https://instagram.com/c",
	}
	// Fetcher has no pages, so any fetch attempt would fail the summary check.
	newEnricher(map[string]string{}).Enrich(context.Background(), b)

	if b.WebsiteExtraction != nil {
		t.Errorf("WebsiteExtraction = %+v, want nil for a complete record", b.WebsiteExtraction)
	}
}

func TestEnrichSurvivesFetchFailure(t *testing.T) {
	b := &entity.Business{Name: "Negocio", Website: "https://down.com.ar"}
	newEnricher(map[string]string{}).Enrich(context.Background(), b)

	if b.Email != "" || b.WhatsApp != "" {
		t.Errorf("record mutated after failed fetch: %+v", b)
	}
}
