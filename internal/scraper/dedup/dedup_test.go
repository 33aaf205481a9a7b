package dedup

import (
	"testing"

	"github.com/user/leadgen-service/internal/entity"
)

func TestIsDuplicate(t *testing.T) {
	accepted := []*entity.Business{
		{
			Name:    "Panadería La Espiga S.A.",
			Phone:   "11 4123-4567",
			Website: "https://www.laespiga.com.ar/",
			Address: "Av. Corrientes 1234, Buenos Aires",
		},
		{
			Name:    "Ferretería El Tornillo",
			Phone:   "0385 421-4413",
			Address: "Calle Independencia 500, Santiago del Estero",
		},
	}

	tests := []struct {
		name      string
		candidate *entity.Business
		want      bool
	}{
		{
			name:      "exact name case insensitive",
			candidate: &entity.Business{Name: "panadería la espiga s.a."},
			want:      true,
		},
		{
			name:      "same phone different formatting",
			candidate: &entity.Business{Name: "Otra Panadería", Phone: "+54 11 4123 4567"},
			want:      false, // +54 prefix changes the digit string
		},
		{
			name:      "same phone same digits",
			candidate: &entity.Business{Name: "Otra Panadería", Phone: "1141234567"},
			want:      true,
		},
		{
			name:      "same website without scheme or www",
			candidate: &entity.Business{Name: "La Espiga Online", Website: "laespiga.com.ar"},
			want:      true,
		},
		{
			name: "similar name plus shared address tokens",
			candidate: &entity.Business{
				Name:    "Panadería La Espiga Sucursal Centro",
				Address: "Corrientes 1234, Buenos Aires, Argentina",
			},
			want: true,
		},
		{
			name: "similar name but different address",
			candidate: &entity.Business{
				Name:    "Panadería La Espiga Sucursal Norte",
				Address: "Cabildo 2200, Mar del Plata",
			},
			want: false,
		},
		{
			name:      "unrelated business",
			candidate: &entity.Business{Name: "Librería El Ateneo", Phone: "11 5555-0000"},
			want:      false,
		},
		{
			name:      "empty candidate name never matches",
			candidate: &entity.Business{Name: "", Phone: "0385 421-4413"},
			want:      false,
		},
		{
			name:      "nil candidate",
			candidate: nil,
			want:      false,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := IsDuplicate(tt.candidate, accepted); got != tt.want {
				t.Errorf("IsDuplicate() = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestSimilarNames(t *testing.T) {
	tests := []struct {
		name  string
		a, b  string
		want  bool
	}{
		{"suffixes stripped", "la espiga s.a.", "la espiga srl", true},
		{"substring match", "panaderia la espiga", "panaderia la espiga centro", true},
		{"short cleaned names never match", "el sol", "el sol", false},
		{"different names", "panaderia moderna", "ferreteria central", false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := similarNames(tt.a, tt.b); got != tt.want {
				t.Errorf("similarNames(%q, %q) = %v, want %v", tt.a, tt.b, got, tt.want)
			}
		})
	}
}

func TestSimilarAddresses(t *testing.T) {
	tests := []struct {
		name string
		a, b string
		want bool
	}{
		{
			"same street number and street name prefix",
			"123 main street apt 4",
			"123 main street",
			true,
		},
		{
			"two shared significant tokens",
			"independencia esquina libertad, santiago",
			"independencia y libertad 200, santiago del estero",
			true,
		},
		{
			"generic words do not count",
			"calle avenida street",
			"calle avenida avenue",
			false,
		},
		{
			"empty address", "", "av. corrientes 1234", false,
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := similarAddresses(tt.a, tt.b); got != tt.want {
				t.Errorf("similarAddresses(%q, %q) = %v, want %v", tt.a, tt.b, got, tt.want)
			}
		})
	}
}
