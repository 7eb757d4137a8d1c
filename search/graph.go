package search

import (
	"github.com/poiesic/xfts/core"
)

// EntityGraph is a candidate match: a main entity and the linked entities
// discovered for it during one search. It never outlives that search.
type EntityGraph struct {
	MainEntity     core.EntityReference
	LinkedEntities []core.EntityReference
}

// addLinked appends a linked entity. Duplicates are kept here and collapsed
// by Entities.
func (g *EntityGraph) addLinked(ref core.EntityReference) {
	g.LinkedEntities = append(g.LinkedEntities, ref)
}

// Entities returns the main entity followed by the linked entities,
// de-duplicated by id with the first occurrence kept.
func (g *EntityGraph) Entities() []core.EntityReference {
	entities := make([]core.EntityReference, 0, len(g.LinkedEntities)+1)
	seen := make(map[core.EntityID]bool, len(g.LinkedEntities)+1)
	entities = append(entities, g.MainEntity)
	seen[g.MainEntity.Id] = true
	for _, ref := range g.LinkedEntities {
		if seen[ref.Id] {
			continue
		}
		seen[ref.Id] = true
		entities = append(entities, ref)
	}
	return entities
}

// graphSet maps main entity ids to graphs, remembering first-discovery order.
type graphSet struct {
	byID  map[core.EntityID]*EntityGraph
	order []*EntityGraph
}

func newGraphSet() *graphSet {
	return &graphSet{byID: make(map[core.EntityID]*EntityGraph)}
}

// getOrCreate returns the graph whose main entity has ref's id, creating it
// with ref as main entity when absent. An existing main entity is never
// replaced.
func (s *graphSet) getOrCreate(ref core.EntityReference) (*EntityGraph, bool) {
	if graph, ok := s.byID[ref.Id]; ok {
		return graph, false
	}
	graph := &EntityGraph{MainEntity: ref}
	s.byID[ref.Id] = graph
	s.order = append(s.order, graph)
	return graph, true
}

// graphs returns every graph in first-discovery order.
func (s *graphSet) graphs() []*EntityGraph {
	return s.order
}

func (s *graphSet) Len() int {
	return len(s.order)
}
