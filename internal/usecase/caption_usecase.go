package usecase

import (
	"context"
	"strings"

	"go.uber.org/zap"

	"github.com/user/reel-locator/internal/repository"
	"github.com/user/reel-locator/pkg/metrics"
)

// CaptionSource fetches a reel caption by trying strategies in order.
type CaptionSource struct {
	strategies []repository.CaptionStrategy
	logger     *zap.Logger
}

func NewCaptionSource(logger *zap.Logger, strategies ...repository.CaptionStrategy) *CaptionSource {
	return &CaptionSource{strategies: strategies, logger: logger}
}

// Fetch returns the first non-empty description any strategy produces, or "" when all of
// them fail. Strategies bound their own run time.
func (c *CaptionSource) Fetch(ctx context.Context, reelURL string) string {
	for i, s := range c.strategies {
		caption, err := s.FetchCaption(ctx, reelURL)
		caption = strings.TrimSpace(caption)
		switch {
		case err != nil:
			metrics.CaptionStrategyTotal.WithLabelValues(s.Name(), "error").Inc()
			c.logger.Warn("Caption strategy failed",
				zap.Int("attempt", i+1),
				zap.String("strategy", s.Name()),
				zap.String("url", reelURL),
				zap.Error(err),
			)
		case caption == "":
			metrics.CaptionStrategyTotal.WithLabelValues(s.Name(), "empty").Inc()
			c.logger.Info("Caption strategy found no description",
				zap.Int("attempt", i+1),
				zap.String("strategy", s.Name()),
			)
		default:
			metrics.CaptionStrategyTotal.WithLabelValues(s.Name(), "success").Inc()
			c.logger.Info("Caption extracted",
				zap.String("strategy", s.Name()),
				zap.String("url", reelURL),
				zap.Int("length", len(caption)),
			)
			return caption
		}
	}
	c.logger.Warn("Could not extract description from reel", zap.String("url", reelURL))
	return ""
}
