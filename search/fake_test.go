package search

import (
	"context"
	"slices"

	"github.com/google/uuid"
	"github.com/poiesic/xfts/core"
	"github.com/poiesic/xfts/storage"
)

// fakeDoc is one entity held by fakeGateway.
type fakeDoc struct {
	ref   core.EntityReference
	text  string
	links []string
}

// fakeGateway is an in-memory storage.IndexGateway with failure injection.
type fakeGateway struct {
	docs []fakeDoc

	populateRawText bool // return text with search hits
	matchAllOnEmpty bool // treat an empty query as matching every entity
	hideText        map[core.EntityID]bool

	searchErr error
	fetchErr  error

	fetches  int
	acquired int
	released int
}

var _ storage.IndexGateway = (*fakeGateway)(nil)

func (g *fakeGateway) add(typeName, text string, links ...string) core.EntityReference {
	ref := core.NewEntityReference(typeName, uuid.New())
	g.docs = append(g.docs, fakeDoc{ref: ref, text: text, links: links})
	return ref
}

func (g *fakeGateway) hit(doc fakeDoc) core.EntityReference {
	ref := doc.ref
	if g.populateRawText {
		ref.RawText = doc.text
	}
	return ref
}

func (g *fakeGateway) SearchAllFields(_ context.Context, searchTerm string, entityTypeNames []string) ([]core.EntityReference, error) {
	if g.searchErr != nil {
		return nil, g.searchErr
	}
	terms := core.ParseQueryTerms(searchTerm)
	var refs []core.EntityReference
	for _, doc := range g.docs {
		if !slices.Contains(entityTypeNames, doc.ref.EntityTypeName) {
			continue
		}
		if len(terms) == 0 && g.matchAllOnEmpty {
			refs = append(refs, g.hit(doc))
			continue
		}
	matching:
		for _, value := range core.ParseIndexedText(doc.text) {
			for _, term := range terms {
				if term.Matches(value) {
					refs = append(refs, g.hit(doc))
					break matching
				}
			}
		}
	}
	return refs, nil
}

func (g *fakeGateway) SearchByBacklink(_ context.Context, linkKey string, entityTypeNames []string) ([]core.EntityReference, error) {
	if g.searchErr != nil {
		return nil, g.searchErr
	}
	var refs []core.EntityReference
	for _, doc := range g.docs {
		if slices.Contains(entityTypeNames, doc.ref.EntityTypeName) && slices.Contains(doc.links, linkKey) {
			refs = append(refs, g.hit(doc))
		}
	}
	return refs, nil
}

func (g *fakeGateway) AcquireReader(_ context.Context) (storage.IndexReader, error) {
	g.acquired++
	return &fakeReader{gateway: g}, nil
}

type fakeReader struct {
	gateway  *fakeGateway
	released bool
}

func (r *fakeReader) FetchIndexedText(_ context.Context, ref core.EntityReference) (string, bool, error) {
	r.gateway.fetches++
	if r.gateway.fetchErr != nil {
		return "", false, r.gateway.fetchErr
	}
	if r.gateway.hideText[ref.Id] {
		return "", false, nil
	}
	for _, doc := range r.gateway.docs {
		if doc.ref.Id == ref.Id && doc.ref.EntityTypeName == ref.EntityTypeName {
			return doc.text, true, nil
		}
	}
	return "", false, nil
}

func (r *fakeReader) Release() {
	if r.released {
		return
	}
	r.released = true
	r.gateway.released++
}

// fakeSchema maps a type to the types it links to.
type fakeSchema map[string][]string

func (s fakeSchema) LinkableEntityTypeNames(entityTypeName string) []string {
	return s[entityTypeName]
}

// recordingMonitor captures monitor callbacks.
type recordingMonitor struct {
	noopMonitor
	started     bool
	direct      int
	linkedTypes []string
	linkedHits  int
	links       int
	accepted    int
	rejected    int
	finished    *core.SearchResult
}

func (m *recordingMonitor) Start(_ string, _ []string)                  { m.started = true }
func (m *recordingMonitor) AfterDirectHits(refs []core.EntityReference) { m.direct = len(refs) }
func (m *recordingMonitor) AfterLinkedTypeDiscovery(names []string)     { m.linkedTypes = names }
func (m *recordingMonitor) AfterLinkedHits(refs []core.EntityReference) { m.linkedHits = len(refs) }
func (m *recordingMonitor) LinkAttached(_, _ core.EntityReference)      { m.links++ }
func (m *recordingMonitor) GraphAccepted(_ *EntityGraph)                { m.accepted++ }
func (m *recordingMonitor) GraphRejected(_ *EntityGraph, _ []core.QueryTerm) {
	m.rejected++
}
func (m *recordingMonitor) Finish(result *core.SearchResult) { m.finished = result }

func entryIDs(result *core.SearchResult) []core.EntityID {
	ids := make([]core.EntityID, 0, len(result.Entries))
	for _, entry := range result.Entries {
		ids = append(ids, entry.EntityId)
	}
	return ids
}
