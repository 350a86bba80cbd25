package nlp

import (
	"context"
	"errors"

	"github.com/user/reel-locator/internal/entity"
	"github.com/user/reel-locator/internal/repository"
)

// Chain asks each tagger in turn and returns the first non-empty entity list.
type Chain []repository.EntityTagger

func (c Chain) Entities(ctx context.Context, text string) ([]entity.NamedEntity, error) {
	var errs []error
	answered := false
	for _, t := range c {
		ents, err := t.Entities(ctx, text)
		if err != nil {
			if !errors.Is(err, repository.ErrNotConfigured) {
				errs = append(errs, err)
			}
			continue
		}
		answered = true
		if len(ents) > 0 {
			return ents, nil
		}
	}
	if answered {
		return nil, nil
	}
	return nil, errors.Join(errs...)
}
