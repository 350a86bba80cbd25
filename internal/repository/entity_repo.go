package repository

import (
	"context"

	"github.com/user/reel-locator/internal/entity"
)

// EntityTagger is the named-entity recognition capability.
type EntityTagger interface {
	// Entities returns the entities found in text, in text order.
	Entities(ctx context.Context, text string) ([]entity.NamedEntity, error)
}
