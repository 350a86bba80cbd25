package region

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

// Point is a labelled coordinate pair.
type Point struct {
	Lat   float64 `yaml:"lat"`
	Lon   float64 `yaml:"lon"`
	Label string  `yaml:"label"`
}

// SearchCenter biases map searches toward a viewport.
type SearchCenter struct {
	Lat  float64 `yaml:"lat"`
	Lon  float64 `yaml:"lon"`
	Zoom int     `yaml:"zoom"`
}

// Profile is the default geographic context applied to every query.
type Profile struct {
	Locality          string            `yaml:"locality"`
	Region            string            `yaml:"region"`
	PostalCode        string            `yaml:"postal_code"`
	PostalCorrections map[string]string `yaml:"postal_corrections"`
	NoiseTokens       []string          `yaml:"noise_tokens"`
	CountryCode       string            `yaml:"country_code"`
	LanguageCode      string            `yaml:"language_code"`
	SearchCenter      SearchCenter      `yaml:"search_center"`
	ReferencePoint    Point             `yaml:"reference_point"`
	LocationKeywords  []string          `yaml:"location_keywords"`
	ReelDomains       []string          `yaml:"reel_domains"`
	ShortcutDomains   []string          `yaml:"shortcut_domains"`
}

// Default returns the built-in Kochi profile.
func Default() Profile {
	return Profile{
		Locality:          "Kochi",
		Region:            "Kerala",
		PostalCode:        "682025",
		PostalCorrections: map[string]string{"371302": "682025"},
		NoiseTokens:       []string{"India", "Ernakulam"},
		CountryCode:       "IN",
		LanguageCode:      "en",
		SearchCenter:      SearchCenter{Lat: 9.931233, Lon: 76.267304, Zoom: 15},
		ReferencePoint:    Point{Lat: 10.0466152, Lon: 76.3341462, Label: "TinkerSpace, Kochi, Kerala"},
		LocationKeywords:  []string{"location", "address", "place", "shop location", "📍", "🏠", "🏢", "🏪"},
		ReelDomains:       []string{"instagram.com"},
		ShortcutDomains:   []string{"serpapi.com"},
	}
}

// LoadFile overlays a YAML profile onto the defaults. Fields absent from the file keep
// their default values.
func LoadFile(path string) (Profile, error) {
	p := Default()
	raw, err := os.ReadFile(path)
	if err != nil {
		return p, fmt.Errorf("read region profile %s: %w", path, err)
	}
	var keys map[string]yaml.Node
	if err := yaml.Unmarshal(raw, &keys); err != nil {
		return p, fmt.Errorf("parse region profile %s: %w", path, err)
	}
	// yaml merges into existing maps; a file that lists corrections replaces the defaults.
	if _, ok := keys["postal_corrections"]; ok {
		p.PostalCorrections = nil
	}
	if err := yaml.Unmarshal(raw, &p); err != nil {
		return p, fmt.Errorf("parse region profile %s: %w", path, err)
	}
	if err := p.Validate(); err != nil {
		return p, fmt.Errorf("region profile %s: %w", path, err)
	}
	return p, nil
}

// Validate checks the fields the pipeline cannot run without.
func (p Profile) Validate() error {
	if p.Locality == "" || p.Region == "" {
		return fmt.Errorf("locality and region are required")
	}
	if len(p.LocationKeywords) == 0 {
		return fmt.Errorf("at least one location keyword is required")
	}
	if len(p.ReelDomains) == 0 {
		return fmt.Errorf("at least one reel domain is required")
	}
	return nil
}

// FullSuffix is appended when neither locality nor region is mentioned.
func (p Profile) FullSuffix() string {
	return joinNonEmpty(p.Locality, p.Region, p.PostalCode)
}

// RegionSuffix is appended when only the locality is mentioned.
func (p Profile) RegionSuffix() string {
	return joinNonEmpty(p.Region, p.PostalCode)
}

func joinNonEmpty(parts ...string) string {
	out := ""
	for _, part := range parts {
		if part == "" {
			continue
		}
		if out != "" {
			out += ", "
		}
		out += part
	}
	return out
}
