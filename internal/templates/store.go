// Package templates resolves notification templates by id and locale,
// caching immutable snapshots per (templateId, locale) with a TTL.
package templates

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/gov-platform/notification-worker/internal/cache"
	"github.com/gov-platform/notification-worker/internal/models"
)

// ErrNotFound marks a template id absent from the content source for the
// requested locale. Permanent: retrying the message will not produce it.
var ErrNotFound = errors.New("template not found")

const (
	// LocaleEN is the only locale served as-is.
	LocaleEN = "en"
	// DefaultLocale is what every other requested locale normalizes to.
	DefaultLocale = "is"
)

// NormalizeLocale maps any locale other than "en" to the default locale.
func NormalizeLocale(locale string) string {
	if locale == LocaleEN {
		return LocaleEN
	}
	return DefaultLocale
}

// ContentSource is the fetch-all primitive behind the store.
type ContentSource interface {
	ListTemplates(ctx context.Context, locale string) ([]models.Template, error)
}

// Store serves single templates out of a TTL cache, falling back to the
// content source on a miss.
type Store struct {
	source ContentSource
	cache  cache.Cache
	logger *slog.Logger
}

func NewStore(source ContentSource, c cache.Cache, logger *slog.Logger) *Store {
	return &Store{source: source, cache: c, logger: logger}
}

// GetTemplate returns the template for templateID in the normalized locale.
// Cache hits return the stored snapshot; misses fetch the full locale list,
// normalize a nil argument list to empty, store the match and return it.
// A template missing from the source yields ErrNotFound.
func (s *Store) GetTemplate(ctx context.Context, templateID, locale string) (*models.Template, error) {
	locale = NormalizeLocale(locale)
	key := cacheKey(templateID, locale)

	var cached models.Template
	hit, err := s.cache.Get(ctx, key, &cached)
	if err != nil {
		s.logger.Warn("template cache read failed", slog.String("template_id", templateID), slog.Any("error", err))
	}
	if hit {
		return &cached, nil
	}

	list, err := s.source.ListTemplates(ctx, locale)
	if err != nil {
		return nil, fmt.Errorf("list templates for %s: %w", locale, err)
	}

	for i := range list {
		if list[i].TemplateID != templateID {
			continue
		}
		tpl := list[i]
		if tpl.Args == nil {
			tpl.Args = []string{}
		}
		if err := s.cache.Set(ctx, key, &tpl); err != nil {
			s.logger.Warn("template cache write failed", slog.String("template_id", templateID), slog.Any("error", err))
		}
		return &tpl, nil
	}

	return nil, fmt.Errorf("%w: %s (%s)", ErrNotFound, templateID, locale)
}

func cacheKey(templateID, locale string) string {
	return templateID + "#" + locale
}
