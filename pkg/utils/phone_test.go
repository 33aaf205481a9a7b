package utils

import (
	"strings"
	"testing"
)

func TestNormalizePhone(t *testing.T) {
	tests := []struct {
		name  string
		phone string
		want  string
	}{
		{"international with separators", "+54 9 11 4048-1234", "5491140481234"},
		{"national with parens", "(011) 4123-4567", "01141234567"},
		{"already normalized", "5491140494048", "5491140494048"},
		{"too short collapses", "421-4413", ""},
		{"empty", "", ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := NormalizePhone(tt.phone); got != tt.want {
				t.Errorf("NormalizePhone(%q) = %q, want %q", tt.phone, got, tt.want)
			}
		})
	}
}

func TestPhoneFromText(t *testing.T) {
	tests := []struct {
		name string
		text string
		want string
	}{
		{"labelled national number", "Teléfono: 0385 421-4413", "0385 421-4413"},
		{"international number", "+54 9 11 4048 1234", "11 4048-1234"},
		{"compact digit run", "llamanos al 1123456789", "112 345-6789"},
		{"stopword rejects", "email: ventas@negocio.com 1123456789", ""},
		{"no digits", "abierto de lunes a viernes", ""},
		{"oversized text rejected", "tel 0385 421-4413 " + strings.Repeat("x", 100), ""},
		{"empty", "", ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := PhoneFromText(tt.text); got != tt.want {
				t.Errorf("PhoneFromText(%q) = %q, want %q", tt.text, got, tt.want)
			}
		})
	}
}

func TestPhoneFromTelLink(t *testing.T) {
	tests := []struct {
		name string
		href string
		want string
	}{
		{"eleven digit number split", "tel:03854214413", "0385 421-4413"},
		{"ten digit number split", "tel:1140494048", "1140 494-048"},
		{"long international kept whole", "tel:+5491140494048", "5491140494048"},
		{"too short", "tel:42144", ""},
		{"not a tel link", "https://wa.me/5491140494048", ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := PhoneFromTelLink(tt.href); got != tt.want {
				t.Errorf("PhoneFromTelLink(%q) = %q, want %q", tt.href, got, tt.want)
			}
		})
	}
}

func TestPhoneFromWhatsAppURL(t *testing.T) {
	tests := []struct {
		name string
		url  string
		want string
	}{
		{"wa.me link", "https://wa.me/5491140494048", "+5491140494048"},
		{"api send with trailing slash", "https://api.whatsapp.com/send/?phone=5491123325814&text=hola", "+5491123325814"},
		{"api send without slash", "https://api.whatsapp.com/send?phone=541137777540&text=Quisiera%20info", "+541137777540"},
		{"generic phone parameter", "https://example.com/chat?phone=5491140494048", "+5491140494048"},
		{"plus already present", "https://wa.me/+5491140494048", "+5491140494048"},
		{"percent-encoded plus", "https://wa.me/%2B5491140494048", "+5491140494048"},
		{"short fragment rejected", "https://wa.me/42144131", ""},
		{"no number", "https://wa.me/", ""},
		{"empty", "", ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := PhoneFromWhatsAppURL(tt.url); got != tt.want {
				t.Errorf("PhoneFromWhatsAppURL(%q) = %q, want %q", tt.url, got, tt.want)
			}
		})
	}
}

func TestFormatWhatsAppNumbers(t *testing.T) {
	tests := []struct {
		name    string
		numbers []string
		want    string
	}{
		{
			name:    "joins link-derived numbers in order",
			numbers: []string{"+5491150073233", "+541143714927", "+5491158639411"},
			want:    "+5491150073233, +541143714927, +5491158639411",
		},
		{
			name:    "deduplicates by digit string",
			numbers: []string{"+5491140494048", "54 911 4049-4048"},
			want:    "+5491140494048",
		},
		{
			name:    "link numbers sort before text numbers",
			numbers: []string{"11 4371-4927", "+5491150073233"},
			want:    "+5491150073233, 11 4371-4927",
		},
		{name: "empty input", numbers: nil, want: ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := FormatWhatsAppNumbers(tt.numbers); got != tt.want {
				t.Errorf("FormatWhatsAppNumbers(%v) = %q, want %q", tt.numbers, got, tt.want)
			}
		})
	}
}

func TestIsPhoneLike(t *testing.T) {
	if !IsPhoneLike("011 4123-4567") {
		t.Error("expected area-code number to be phone-like")
	}
	if IsPhoneLike("12345") {
		t.Error("expected short digit run to not be phone-like")
	}
	if IsPhoneLike("1234567890123456") {
		t.Error("expected oversized digit run to not be phone-like")
	}
}
