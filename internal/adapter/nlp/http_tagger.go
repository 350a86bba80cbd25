package nlp

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/user/reel-locator/internal/entity"
	"github.com/user/reel-locator/internal/repository"
)

// HTTPTagger calls a spaCy-compatible NER service.
type HTTPTagger struct {
	BaseURL    string
	HTTPClient *http.Client
}

func NewHTTPTagger(baseURL string, timeout time.Duration) *HTTPTagger {
	return &HTTPTagger{
		BaseURL:    strings.TrimRight(baseURL, "/"),
		HTTPClient: &http.Client{Timeout: timeout},
	}
}

type entRequest struct {
	Text string `json:"text"`
}

type entResponse struct {
	Ents []entity.NamedEntity `json:"ents"`
}

func (t *HTTPTagger) Entities(ctx context.Context, text string) ([]entity.NamedEntity, error) {
	if t.BaseURL == "" {
		return nil, repository.ErrNotConfigured
	}
	payload, err := json.Marshal(entRequest{Text: text})
	if err != nil {
		return nil, err
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, t.BaseURL+"/ents", bytes.NewReader(payload))
	if err != nil {
		return nil, err
	}
	req.Header.Set("Content-Type", "application/json")

	client := t.HTTPClient
	if client == nil {
		client = http.DefaultClient
	}
	resp, err := client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("ner request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(io.LimitReader(resp.Body, 256))
		return nil, fmt.Errorf("ner service status %d: %s", resp.StatusCode, body)
	}
	var out entResponse
	if err := json.NewDecoder(resp.Body).Decode(&out); err != nil {
		return nil, fmt.Errorf("decode ner response: %w", err)
	}
	return out.Ents, nil
}
