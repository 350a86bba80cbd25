package usecase

import (
	"testing"

	"github.com/user/reel-locator/pkg/region"
)

func TestNormalize(t *testing.T) {
	p := region.Default()
	tests := []struct {
		name string
		in   string
		want string
	}{
		{"empty", "", ""},
		{"no context", "MG Road, Ernakulam", "MG Road, Ernakulam, Kochi, Kerala, 682025"},
		{"locality only", "Panampilly Nagar,Kochi", "Panampilly Nagar, Kochi, Kerala, 682025"},
		{"region only", "Vyttila, Kerala", "Vyttila, Kerala, 682025"},
		{"complete", "Kaloor, Kochi, Kerala, 682025", "Kaloor, Kochi, Kerala, 682025"},
		{"handle and postal fix", "Near Lulu @lulumall, Edappally 371302", "Near Lulu, Edappally 682025, Kochi, Kerala, 682025"},
		{"email handle", "mail foo@gmail.com for orders", "mail foo for orders, Kochi, Kerala, 682025"},
		{"stray commas", "  , Fort Kochi ,  ", "Fort Kochi, Kerala, 682025"},
		{"only a handle", "@someshop", "Kochi, Kerala, 682025"},
		{"non-ascii handle", "@cafémocha, MG Road", "MG Road, Kochi, Kerala, 682025"},
		{"non-ascii dotted handle", "@chaï.lounge Vyttila", "Vyttila, Kochi, Kerala, 682025"},
		{"malayalam handle", "@കൊച്ചി_eats Kaloor", "Kaloor, Kochi, Kerala, 682025"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := Normalize(p, tt.in); got != tt.want {
				t.Fatalf("Normalize(%q) = %q, want %q", tt.in, got, tt.want)
			}
		})
	}
}

func TestNormalizeIdempotent(t *testing.T) {
	p := region.Default()
	inputs := []string{
		"MG Road",
		"Kochi",
		"Kerala",
		"Shop 4,  Broadway ,Ernakulam 371302",
		"@cafe Marine Drive, Kochi",
		"Jew Town Road, Mattancherry, Kochi, Kerala",
	}
	for _, in := range inputs {
		once := Normalize(p, in)
		if twice := Normalize(p, once); twice != once {
			t.Fatalf("not idempotent for %q: %q then %q", in, once, twice)
		}
	}
}

func TestNormalizeUsesProfile(t *testing.T) {
	p := region.Default()
	p.Locality = "Kozhikode"
	p.PostalCode = "673001"
	p.PostalCorrections = nil

	got := Normalize(p, "Beach Road")
	if want := "Beach Road, Kozhikode, Kerala, 673001"; got != want {
		t.Fatalf("got %q, want %q", got, want)
	}
}

func TestRefineAddress(t *testing.T) {
	p := region.Default()
	tests := []struct {
		in   string
		want string
	}{
		{"", ""},
		{"Edappally, Ernakulam, Kerala, India", "Edappally, Kerala, 682025"},
		{"Kakkanad, Ernakulam", "Kakkanad, Kochi, Kerala, 682025"},
		{"Fort Kochi, Kochi, Kerala, 682025", "Fort Kochi, Kochi, Kerala, 682025"},
	}
	for _, tt := range tests {
		if got := RefineAddress(p, tt.in); got != tt.want {
			t.Fatalf("RefineAddress(%q) = %q, want %q", tt.in, got, tt.want)
		}
	}
}
