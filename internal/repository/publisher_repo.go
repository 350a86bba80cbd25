package repository

import (
	"context"

	"github.com/user/reel-locator/internal/entity"
)

// LocationPublisher announces saved records to downstream consumers.
type LocationPublisher interface {
	Publish(ctx context.Context, record *entity.LocationRecord) error
}

// CaptionArchive keeps raw caption text for later inspection.
type CaptionArchive interface {
	Put(ctx context.Context, reelURL, caption string) error
}
