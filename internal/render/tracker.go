package render

import (
	"github.com/gyaneshwarpardhi/topicexplorer/internal/graph"
	"github.com/gyaneshwarpardhi/topicexplorer/internal/topic"
)

// GraphUpdate is the change to apply to a drawn graph. When Reset is set
// the drawing is cleared first and Elements holds the whole graph.
type GraphUpdate struct {
	Reset    bool                    `json:"reset"`
	Session  string                  `json:"session"`
	Elements graph.CytoscapeElements `json:"elements"`
}

// Empty reports whether applying u would change nothing.
func (u GraphUpdate) Empty() bool {
	return !u.Reset && len(u.Elements.Nodes) == 0 && len(u.Elements.Edges) == 0
}

// Tracker remembers how much of the graph a consumer has drawn and turns
// successive States into incremental GraphUpdates. States may be skipped.
// A Tracker is not safe for concurrent use.
type Tracker struct {
	started bool
	session string
	nodes   int
	edges   int
}

// Update returns the GraphUpdate that brings the drawing from the last
// State seen up to s.
func (t *Tracker) Update(s topic.State) GraphUpdate {
	g := s.Graph
	if t.started && g.Session == t.session {
		if nodes, edges, ok := g.Since(t.nodes, t.edges); ok {
			t.nodes, t.edges = g.NodeCount(), g.EdgeCount()
			return GraphUpdate{Session: g.Session, Elements: graph.ToCytoscape(nodes, edges)}
		}
	}
	t.started = true
	t.session = g.Session
	t.nodes, t.edges = g.NodeCount(), g.EdgeCount()
	return GraphUpdate{Reset: true, Session: g.Session, Elements: g.Cytoscape()}
}

// Full returns a reset update for the whole graph of s without touching
// tracking state.
func Full(s topic.State) GraphUpdate {
	return GraphUpdate{Reset: true, Session: s.Graph.Session, Elements: s.Graph.Cytoscape()}
}
