package usecase

import (
	"context"
	"errors"
	"time"

	"go.uber.org/zap"

	"github.com/user/reel-locator/internal/repository"
	"github.com/user/reel-locator/pkg/metrics"
)

type namedProvider interface {
	Name() string
}

// firstUsable calls providers in order and returns the first usable result together with
// the provider's name. Provider failures are logged and counted, never returned.
func firstUsable[P namedProvider, R any](
	ctx context.Context,
	logger *zap.Logger,
	providers []P,
	call func(context.Context, P) (R, error),
	usable func(R) bool,
) (R, string, bool) {
	var zero R
	for _, p := range providers {
		name := p.Name()
		start := time.Now()
		res, err := call(ctx, p)
		metrics.ProviderCallDuration.WithLabelValues(name).Observe(time.Since(start).Seconds())

		switch {
		case errors.Is(err, repository.ErrNoResult):
			metrics.ProviderCallsTotal.WithLabelValues(name, "miss").Inc()
			logger.Info("Provider returned no result", zap.String("provider", name))
		case err != nil:
			metrics.ProviderCallsTotal.WithLabelValues(name, "error").Inc()
			logger.Warn("Provider call failed, trying next", zap.String("provider", name), zap.Error(err))
		case !usable(res):
			metrics.ProviderCallsTotal.WithLabelValues(name, "miss").Inc()
			logger.Info("Provider result unusable", zap.String("provider", name))
		default:
			metrics.ProviderCallsTotal.WithLabelValues(name, "hit").Inc()
			return res, name, true
		}
	}
	return zero, "", false
}
