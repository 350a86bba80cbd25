package embed

import (
	"encoding/json"
	"strings"

	"github.com/PuerkitoBio/goquery"
)

// EmbedURL rewrites a reel URL into its lighter embed page variant.
func EmbedURL(reelURL string) string {
	u := strings.ReplaceAll(reelURL, "/reel/", "/p/")
	return strings.ReplaceAll(u, "?", "/embed/?")
}

// ParseCaption extracts the caption from an embed page. Structured ld+json data is
// preferred over the meta description.
func ParseCaption(html string) (string, error) {
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(html))
	if err != nil {
		return "", err
	}

	var caption string
	doc.Find(`script[type="application/ld+json"]`).EachWithBreak(func(_ int, s *goquery.Selection) bool {
		caption = ldCaption(s.Text())
		return caption == ""
	})
	if caption != "" {
		return caption, nil
	}

	if content, ok := doc.Find(`meta[name="description"]`).First().Attr("content"); ok {
		return strings.TrimSpace(content), nil
	}
	return "", nil
}

// ldCaption reads "caption" from an ld+json object or the first object in an array
// that carries one.
func ldCaption(raw string) string {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return ""
	}

	var obj struct {
		Caption string `json:"caption"`
	}
	if strings.HasPrefix(raw, "[") {
		var list []json.RawMessage
		if err := json.Unmarshal([]byte(raw), &list); err != nil {
			return ""
		}
		for _, item := range list {
			if err := json.Unmarshal(item, &obj); err == nil && strings.TrimSpace(obj.Caption) != "" {
				return strings.TrimSpace(obj.Caption)
			}
		}
		return ""
	}
	if err := json.Unmarshal([]byte(raw), &obj); err != nil {
		return ""
	}
	return strings.TrimSpace(obj.Caption)
}
