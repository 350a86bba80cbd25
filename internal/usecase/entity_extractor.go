package usecase

import (
	"context"
	"regexp"

	"go.uber.org/zap"

	"github.com/user/reel-locator/internal/entity"
	"github.com/user/reel-locator/internal/repository"
)

var businessHandlePattern = regexp.MustCompile(`@([\p{L}\p{M}\p{N}_]+)`)

// EntityExtractor pulls business and place names out of caption text.
type EntityExtractor struct {
	tagger repository.EntityTagger
	logger *zap.Logger
}

// NewEntityExtractor creates an extractor. A nil tagger behaves as one that never finds
// anything.
func NewEntityExtractor(tagger repository.EntityTagger, logger *zap.Logger) *EntityExtractor {
	return &EntityExtractor{tagger: tagger, logger: logger}
}

// BusinessName prefers an in-text @handle over NLP inference, then falls back to the first
// organization or facility entity.
func (e *EntityExtractor) BusinessName(ctx context.Context, text string) (string, bool) {
	if text == "" {
		return "", false
	}
	if m := businessHandlePattern.FindStringSubmatch(text); m != nil {
		e.logger.Debug("business name from handle", zap.String("business", m[1]))
		return m[1], true
	}
	for _, ent := range e.entities(ctx, text) {
		if ent.Label == entity.LabelORG || ent.Label == entity.LabelFAC {
			e.logger.Debug("business name from NER", zap.String("business", ent.Text))
			return ent.Text, true
		}
	}
	return "", false
}

// LocationNames returns every place-like entity in text order.
func (e *EntityExtractor) LocationNames(ctx context.Context, text string) []string {
	if text == "" {
		return nil
	}
	var names []string
	for _, ent := range e.entities(ctx, text) {
		switch ent.Label {
		case entity.LabelGPE, entity.LabelFAC, entity.LabelORG, entity.LabelLOC:
			names = append(names, ent.Text)
		}
	}
	e.logger.Debug("location names from NER", zap.Strings("names", names))
	return names
}

// entities never fails: tagger errors mean no entities.
func (e *EntityExtractor) entities(ctx context.Context, text string) []entity.NamedEntity {
	if e.tagger == nil {
		return nil
	}
	ents, err := e.tagger.Entities(ctx, text)
	if err != nil {
		e.logger.Warn("entity tagging failed", zap.Error(err))
		return nil
	}
	return ents
}
