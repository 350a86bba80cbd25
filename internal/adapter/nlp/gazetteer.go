package nlp

import (
	"context"
	_ "embed"
	"fmt"
	"os"
	"strings"
	"unicode"

	"gopkg.in/yaml.v3"

	"github.com/user/reel-locator/internal/entity"
)

//go:embed default_gazetteer.yaml
var defaultGazetteer []byte

// Gazetteer tags known place and business names by greedy longest phrase match.
type Gazetteer struct {
	dict   map[string]string // lowercased phrase -> label
	maxLen int
}

// NewGazetteer builds a gazetteer from label -> phrases.
func NewGazetteer(entries map[string][]string) *Gazetteer {
	g := &Gazetteer{dict: make(map[string]string), maxLen: 1}
	for label, phrases := range entries {
		label = strings.ToUpper(strings.TrimSpace(label))
		for _, p := range phrases {
			key := strings.ToLower(strings.Join(tokenize(p), " "))
			if key == "" {
				continue
			}
			g.dict[key] = label
			if n := len(strings.Fields(key)); n > g.maxLen {
				g.maxLen = n
			}
		}
	}
	return g
}

// LoadGazetteer reads a YAML gazetteer file. An empty path loads the built-in one.
func LoadGazetteer(path string) (*Gazetteer, error) {
	data := defaultGazetteer
	if path != "" {
		var err error
		if data, err = os.ReadFile(path); err != nil {
			return nil, fmt.Errorf("read gazetteer: %w", err)
		}
	}
	var entries map[string][]string
	if err := yaml.Unmarshal(data, &entries); err != nil {
		return nil, fmt.Errorf("parse gazetteer: %w", err)
	}
	return NewGazetteer(entries), nil
}

// Len returns the number of known phrases.
func (g *Gazetteer) Len() int { return len(g.dict) }

func (g *Gazetteer) Entities(_ context.Context, text string) ([]entity.NamedEntity, error) {
	tokens := tokenize(text)
	var out []entity.NamedEntity

	for i := 0; i < len(tokens); {
		n := g.maxLen
		if remaining := len(tokens) - i; n > remaining {
			n = remaining
		}
		matched := 0
		for ; n >= 1; n-- {
			phrase := strings.Join(tokens[i:i+n], " ")
			if label, ok := g.dict[strings.ToLower(phrase)]; ok {
				out = append(out, entity.NamedEntity{Text: phrase, Label: label})
				matched = n
				break
			}
		}
		if matched == 0 {
			matched = 1
		}
		i += matched
	}
	return out, nil
}

// tokenize splits on anything that is not a letter, digit or apostrophe.
func tokenize(s string) []string {
	return strings.FieldsFunc(s, func(r rune) bool {
		return !unicode.IsLetter(r) && !unicode.IsDigit(r) && r != '\''
	})
}
