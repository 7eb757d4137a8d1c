package search

import (
	"context"
	"fmt"
	"log/slog"
	"slices"

	"github.com/poiesic/xfts/core"
	"github.com/poiesic/xfts/metrics"
	"github.com/poiesic/xfts/storage"
)

// Schema names the entity types whose references documents of a given type
// may store.
type Schema interface {
	LinkableEntityTypeNames(entityTypeName string) []string
}

// backlinkStrategy derives one form of link key from a linked entity.
type backlinkStrategy struct {
	name    string
	linkKey func(core.EntityReference) string
}

// backlinkStrategies lists every link key form documents may carry. The
// legacy form only exists in indexes built before links carried a type.
var backlinkStrategies = []backlinkStrategy{
	{name: "structured", linkKey: core.EntityReference.LinkKey},
	{name: "legacy", linkKey: core.EntityReference.LegacyLinkKey},
}

// Searcher runs cross-entity AND queries over an index.
// It holds no per-query state and is safe for concurrent use when its
// gateway is.
type Searcher struct {
	gateway storage.IndexGateway
	schema  Schema
	logger  *slog.Logger
}

// Option configures a Searcher.
type Option func(*Searcher) error

// WithLogger sets a custom logger.
// Default is slog.Default().
func WithLogger(logger *slog.Logger) Option {
	return func(s *Searcher) error {
		if logger == nil {
			logger = slog.Default()
		}
		s.logger = logger
		return nil
	}
}

// NewSearcher creates a new searcher.
func NewSearcher(gateway storage.IndexGateway, schema Schema, opts ...Option) (*Searcher, error) {
	if gateway == nil {
		return nil, ErrGatewayRequired
	}
	if schema == nil {
		return nil, ErrSchemaRequired
	}

	s := &Searcher{
		gateway: gateway,
		schema:  schema,
		logger:  slog.Default(),
	}

	// Apply options
	for _, opt := range opts {
		if err := opt(s); err != nil {
			return nil, err
		}
	}

	return s, nil
}

// Search returns every entity of entityTypeNames that, together with the
// entities it links to, contains all terms of searchTerm.
func (s *Searcher) Search(ctx context.Context, searchTerm string, entityTypeNames []string) (*core.SearchResult, error) {
	return s.SearchWithMonitor(ctx, searchTerm, entityTypeNames, nil)
}

// SearchWithMonitor is Search with monitoring.
// The monitor receives callbacks at each stage of the search process.
func (s *Searcher) SearchWithMonitor(ctx context.Context, searchTerm string, entityTypeNames []string, monitor SearchMonitor) (result *core.SearchResult, err error) {
	done := metrics.TimeOp("search")
	defer func() { done(err == nil) }()

	// Use noop monitor if none provided
	if monitor == nil {
		monitor = &noopMonitor{}
	}
	monitor.Start(searchTerm, entityTypeNames)

	graphs := newGraphSet()

	// 1. Direct hits
	direct, err := s.gateway.SearchAllFields(ctx, searchTerm, entityTypeNames)
	if err != nil {
		s.logger.Error("error searching for direct hits", "query", searchTerm, "err", err)
		return nil, fmt.Errorf("%w: direct hits: %w", ErrIndexLookup, err)
	}
	for _, ref := range direct {
		graphs.getOrCreate(ref)
	}
	monitor.AfterDirectHits(direct)

	// 2. Types the requested entities may link to
	linkedTypes := s.linkableTypeNames(entityTypeNames)
	monitor.AfterLinkedTypeDiscovery(linkedTypes)

	// 3. Indirect hits through backlinks
	if len(linkedTypes) > 0 {
		linkedHits, err := s.gateway.SearchAllFields(ctx, searchTerm, linkedTypes)
		if err != nil {
			s.logger.Error("error searching for linked hits", "query", searchTerm, "err", err)
			return nil, fmt.Errorf("%w: linked hits: %w", ErrIndexLookup, err)
		}
		monitor.AfterLinkedHits(linkedHits)

		for _, linked := range linkedHits {
			referencing, err := s.findReferencing(ctx, linked, entityTypeNames)
			if err != nil {
				return nil, err
			}
			for _, ref := range referencing {
				graph, _ := graphs.getOrCreate(ref)
				graph.addLinked(linked)
				monitor.LinkAttached(graph.MainEntity, linked)
			}
		}
	}

	// 4. Keep graphs satisfying every term
	terms := core.ParseQueryTerms(searchTerm)
	if len(terms) == 0 {
		s.logger.Warn("query has no terms, every candidate is accepted", "query", searchTerm)
	}

	result = core.NewSearchResult(searchTerm)
	if graphs.Len() > 0 {
		if err := s.filterGraphs(ctx, terms, graphs, result, monitor); err != nil {
			return nil, err
		}
	}

	metrics.Default().ObserveGraphs(graphs.Len(), len(result.Entries))
	s.logger.Debug("search finished", "query", searchTerm, "candidates", graphs.Len(), "hits", len(result.Entries))
	monitor.Finish(result)

	return result, nil
}

// filterGraphs resolves the terms of every graph under one reader and adds
// the main entity of each graph satisfying all terms to result.
func (s *Searcher) filterGraphs(ctx context.Context, terms []core.QueryTerm, graphs *graphSet, result *core.SearchResult, monitor SearchMonitor) error {
	reader, err := s.gateway.AcquireReader(ctx)
	if err != nil {
		s.logger.Error("error acquiring index reader", "err", err)
		return fmt.Errorf("%w: %w", ErrTermResolution, err)
	}
	defer reader.Release()

	resolver := NewTermResolver(reader, s.logger)
	for _, graph := range graphs.graphs() {
		satisfied, err := resolver.Resolve(ctx, terms, graph)
		if err != nil {
			s.logger.Error("error resolving terms", "entity", graph.MainEntity.String(), "err", err)
			return err
		}
		if len(satisfied) < len(terms) {
			monitor.GraphRejected(graph, satisfied)
			continue
		}
		result.AddEntry(core.SearchResultEntry{
			EntityTypeName: graph.MainEntity.EntityTypeName,
			EntityId:       graph.MainEntity.Id,
			Indirect:       true,
		})
		monitor.GraphAccepted(graph)
	}
	return nil
}

// linkableTypeNames unions the linkable types of every requested type.
func (s *Searcher) linkableTypeNames(entityTypeNames []string) []string {
	var linked []string
	for _, name := range entityTypeNames {
		linked = append(linked, s.schema.LinkableEntityTypeNames(name)...)
	}
	slices.Sort(linked)
	return slices.Compact(linked)
}

// findReferencing returns the entities of entityTypeNames whose documents
// link to linked under any link key form, de-duplicated by id.
func (s *Searcher) findReferencing(ctx context.Context, linked core.EntityReference, entityTypeNames []string) ([]core.EntityReference, error) {
	var referencing []core.EntityReference
	seen := make(map[core.EntityID]bool)
	for _, strategy := range backlinkStrategies {
		refs, err := s.gateway.SearchByBacklink(ctx, strategy.linkKey(linked), entityTypeNames)
		if err != nil {
			s.logger.Error("error searching backlinks", "entity", linked.String(), "form", strategy.name, "err", err)
			return nil, fmt.Errorf("%w: %s backlinks of %s: %w", ErrIndexLookup, strategy.name, linked, err)
		}
		for _, ref := range refs {
			if seen[ref.Id] {
				continue
			}
			seen[ref.Id] = true
			referencing = append(referencing, ref)
		}
	}
	return referencing, nil
}
