package mapsurl

import (
	"fmt"
	"net/url"
	"strconv"
	"strings"

	"github.com/user/reel-locator/pkg/utils"
)

const googleMaps = "https://www.google.com/maps"

// Search links to a named place pinned at the given coordinates.
func Search(name string, lat, lon float64) string {
	return fmt.Sprintf("%s/search/%s/@%s,%s,17z", googleMaps, url.PathEscape(name), formatCoord(lat), formatCoord(lon))
}

// Coordinates links to a bare coordinate pair.
func Coordinates(lat, lon float64) string {
	return fmt.Sprintf("%s/search/?q=%s,%s&z=17", googleMaps, formatCoord(lat), formatCoord(lon))
}

// PlaceID links to a place by its Google place identifier.
func PlaceID(placeID string) string {
	return googleMaps + "/place/?q=place_id:" + placeID
}

// ShortcutPlaceID extracts the place_id query parameter from a URL whose host belongs to
// one of the shortcut domains.
func ShortcutPlaceID(domains []string, raw string) (string, bool) {
	u, err := utils.ParseLoose(raw)
	if err != nil || !hostIn(u.Hostname(), domains) {
		return "", false
	}
	placeID := u.Query().Get("place_id")
	return placeID, placeID != ""
}

// Finalize rewrites search-provider URLs into navigable Google Maps links. A provider URL
// without a place_id becomes a search link at the coordinates, or nothing when they are
// unknown. Any other URL is returned unchanged.
func Finalize(domains []string, raw, name string, lat, lon *float64) string {
	if raw == "" {
		return ""
	}
	u, err := utils.ParseLoose(raw)
	if err != nil || !hostIn(u.Hostname(), domains) {
		return raw
	}
	if placeID := u.Query().Get("place_id"); placeID != "" {
		return PlaceID(placeID)
	}
	if lat != nil && lon != nil {
		return Search(name, *lat, *lon)
	}
	return ""
}

// ParseCoordinates reads the "@lat,lon" segment of a Google Maps URL.
func ParseCoordinates(raw string) (lat, lon float64, ok bool) {
	_, after, found := strings.Cut(raw, "@")
	if !found {
		return 0, 0, false
	}
	parts := strings.Split(after, ",")
	if len(parts) < 2 {
		return 0, 0, false
	}
	lat, err := strconv.ParseFloat(parts[0], 64)
	if err != nil {
		return 0, 0, false
	}
	lon, err = strconv.ParseFloat(strings.TrimRight(parts[1], "/z"), 64)
	if err != nil {
		return 0, 0, false
	}
	if lat < -90 || lat > 90 || lon < -180 || lon > 180 {
		return 0, 0, false
	}
	return lat, lon, true
}

func formatCoord(v float64) string {
	return strconv.FormatFloat(v, 'f', -1, 64)
}

func hostIn(host string, domains []string) bool {
	for _, d := range domains {
		if utils.HostMatches(host, d) {
			return true
		}
	}
	return false
}
