package repository

import "context"

// CaptionStrategy is one way of fetching a reel's caption text.
type CaptionStrategy interface {
	// Name identifies the strategy in logs and metrics.
	Name() string
	// FetchCaption returns the reel description. An empty string with a nil error means
	// the strategy ran but found no description.
	FetchCaption(ctx context.Context, reelURL string) (string, error)
}
