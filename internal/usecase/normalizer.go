package usecase

import (
	"regexp"
	"sort"
	"strings"

	"github.com/user/reel-locator/pkg/region"
)

var (
	emailHandlePattern = regexp.MustCompile(`@[\p{L}\p{M}\p{N}_]+\.[\p{L}\p{M}\p{N}_]+`)
	handlePattern      = regexp.MustCompile(`@[\p{L}\p{M}\p{N}_]+`)
	commaPattern       = regexp.MustCompile(`\s*,\s*`)
)

// Normalize cleans a raw location fragment into a geocoder-friendly address.
//
// Handles are stripped, known postal-code mistakes corrected, comma spacing normalized
// and the profile's locality context appended when missing. The result is idempotent:
// Normalize(p, Normalize(p, s)) == Normalize(p, s).
func Normalize(p region.Profile, raw string) string {
	if raw == "" {
		return ""
	}

	cleaned := emailHandlePattern.ReplaceAllString(raw, "")
	cleaned = handlePattern.ReplaceAllString(cleaned, "")
	cleaned = correctPostalCodes(p, cleaned)
	cleaned = collapseSpaces(cleaned)
	cleaned = commaPattern.ReplaceAllString(cleaned, ", ")
	cleaned = strings.Trim(cleaned, ", ")
	cleaned = appendRegionBias(p, cleaned)

	return collapseSpaces(cleaned)
}

// RefineAddress prepares a normalized address for geocoding by dropping components the
// geocoders handle badly, then restoring the locality context.
func RefineAddress(p region.Profile, address string) string {
	if address == "" {
		return ""
	}
	noise := make(map[string]struct{}, len(p.NoiseTokens))
	for _, tok := range p.NoiseTokens {
		noise[tok] = struct{}{}
	}

	parts := strings.Split(address, ", ")
	kept := parts[:0]
	for _, part := range parts {
		if _, drop := noise[part]; !drop {
			kept = append(kept, part)
		}
	}
	return appendRegionBias(p, strings.Join(kept, ", "))
}

func appendRegionBias(p region.Profile, s string) string {
	hasLocality := strings.Contains(s, p.Locality)
	hasRegion := strings.Contains(s, p.Region)

	var suffix string
	switch {
	case !hasLocality && !hasRegion:
		suffix = p.FullSuffix()
	case hasLocality && !hasRegion:
		suffix = p.RegionSuffix()
	case hasRegion && p.PostalCode != "" && !strings.Contains(s, p.PostalCode):
		suffix = p.PostalCode
	}

	switch {
	case suffix == "":
		return s
	case s == "":
		return suffix
	default:
		return s + ", " + suffix
	}
}

func correctPostalCodes(p region.Profile, s string) string {
	if len(p.PostalCorrections) == 0 {
		return s
	}
	wrong := make([]string, 0, len(p.PostalCorrections))
	for code := range p.PostalCorrections {
		wrong = append(wrong, code)
	}
	sort.Strings(wrong)
	for _, code := range wrong {
		s = strings.ReplaceAll(s, code, p.PostalCorrections[code])
	}
	return s
}

func collapseSpaces(s string) string {
	return strings.Join(strings.Fields(s), " ")
}
