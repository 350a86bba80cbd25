package embed

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/user/reel-locator/pkg/useragent"
)

// Strategy fetches the embed page over plain HTTP.
type Strategy struct {
	HTTPClient *http.Client
	agents     *useragent.Rotator
}

func NewStrategy(timeout time.Duration, agents *useragent.Rotator) *Strategy {
	return &Strategy{
		HTTPClient: &http.Client{Timeout: timeout},
		agents:     agents,
	}
}

func (s *Strategy) Name() string { return "embed_http" }

// Headers are the browser headers sent with every embed request.
func Headers(userAgent string) map[string]string {
	return map[string]string{
		"User-Agent":      userAgent,
		"Accept":          "text/html,application/xhtml+xml,application/xml;q=0.9,*/*;q=0.8",
		"Accept-Language": "en-US,en;q=0.5",
		"Connection":      "keep-alive",
	}
}

func (s *Strategy) FetchCaption(ctx context.Context, reelURL string) (string, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, EmbedURL(reelURL), nil)
	if err != nil {
		return "", err
	}
	for k, v := range Headers(s.agents.Next()) {
		req.Header.Set(k, v)
	}

	client := s.HTTPClient
	if client == nil {
		client = http.DefaultClient
	}
	resp, err := client.Do(req)
	if err != nil {
		return "", err
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		return "", fmt.Errorf("embed page returned status %d", resp.StatusCode)
	}

	body, err := io.ReadAll(io.LimitReader(resp.Body, 4<<20))
	if err != nil {
		return "", err
	}
	return ParseCaption(string(body))
}
