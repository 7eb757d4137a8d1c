package search

import (
	"github.com/poiesic/xfts/core"
)

// SearchMonitor provides hooks to observe the search process.
// Implement this interface to track intermediate steps and results during search.
type SearchMonitor interface {
	Start(query string, entityTypeNames []string)
	AfterDirectHits(refs []core.EntityReference)
	AfterLinkedTypeDiscovery(linkedTypeNames []string)
	AfterLinkedHits(refs []core.EntityReference)
	LinkAttached(mainEntity, linkedEntity core.EntityReference)
	GraphAccepted(graph *EntityGraph)
	GraphRejected(graph *EntityGraph, satisfied []core.QueryTerm)
	Finish(result *core.SearchResult)
}

// noopMonitor is a no-op implementation of SearchMonitor
type noopMonitor struct{}

var _ SearchMonitor = (*noopMonitor)(nil)

func (n *noopMonitor) Start(_ string, _ []string)                       {}
func (n *noopMonitor) AfterDirectHits(_ []core.EntityReference)         {}
func (n *noopMonitor) AfterLinkedTypeDiscovery(_ []string)              {}
func (n *noopMonitor) AfterLinkedHits(_ []core.EntityReference)         {}
func (n *noopMonitor) LinkAttached(_, _ core.EntityReference)           {}
func (n *noopMonitor) GraphAccepted(_ *EntityGraph)                     {}
func (n *noopMonitor) GraphRejected(_ *EntityGraph, _ []core.QueryTerm) {}
func (n *noopMonitor) Finish(_ *core.SearchResult)                      {}
