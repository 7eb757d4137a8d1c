package search

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/poiesic/xfts/core"
	"github.com/poiesic/xfts/storage"
)

// TermResolver finds which query terms an entity graph satisfies.
type TermResolver struct {
	reader storage.IndexReader
	logger *slog.Logger
}

// NewTermResolver creates a resolver reading indexed text through reader.
// A nil logger falls back to slog.Default().
func NewTermResolver(reader storage.IndexReader, logger *slog.Logger) *TermResolver {
	if logger == nil {
		logger = slog.Default()
	}
	return &TermResolver{reader: reader, logger: logger}
}

// Resolve returns the subset of terms found in any field value of any
// distinct entity of graph, in the order of terms. Entities without indexed
// text contribute nothing. A read failure aborts resolution.
func (r *TermResolver) Resolve(ctx context.Context, terms []core.QueryTerm, graph *EntityGraph) ([]core.QueryTerm, error) {
	found := make([]bool, len(terms))
	remaining := len(terms)

	for _, entity := range graph.Entities() {
		if remaining == 0 {
			break
		}
		text, err := r.indexedText(ctx, entity)
		if err != nil {
			return nil, fmt.Errorf("%w: graph %s: entity %s: %w", ErrTermResolution, graph.MainEntity, entity, err)
		}
		for _, value := range core.ParseIndexedText(text) {
			for i, term := range terms {
				if !found[i] && term.Matches(value) {
					found[i] = true
					remaining--
				}
			}
			if remaining == 0 {
				break
			}
		}
	}

	satisfied := make([]core.QueryTerm, 0, len(terms))
	for i, term := range terms {
		if found[i] {
			satisfied = append(satisfied, term)
		}
	}
	return satisfied, nil
}

// indexedText returns the entity's text, fetching it when the reference
// does not carry it.
func (r *TermResolver) indexedText(ctx context.Context, entity core.EntityReference) (string, error) {
	if entity.RawText != "" {
		return entity.RawText, nil
	}
	text, found, err := r.reader.FetchIndexedText(ctx, entity)
	if err != nil {
		return "", err
	}
	if !found || text == "" {
		r.logger.Warn("no indexed text for entity", "entity", entity.String())
		return "", nil
	}
	return text, nil
}
