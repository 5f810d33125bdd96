package graph

import "slices"

// Node colors used by the page stylesheet.
const (
	ColorRoot  = "orange"
	ColorChild = "black"
)

// Node is one explored topic. ID is the topic title.
type Node struct {
	ID    string `json:"id"`
	Label string `json:"label"`
	Color string `json:"color"`
}

// Edge points from a parent topic to the child explored from it.
type Edge struct {
	ID   string `json:"id"`
	From string `json:"from"`
	To   string `json:"to"`
}

// Graph is the cumulative record of one root session.
// It is a value: With* methods return a new Graph and never write into
// backing arrays reachable from the receiver.
type Graph struct {
	Session string `json:"session"`
	Nodes   []Node `json:"nodes"`
	Edges   []Edge `json:"edges"`
}

// NewRoot starts a session containing only the root node.
func NewRoot(session, title string) Graph {
	return Graph{
		Session: session,
		Nodes:   []Node{{ID: title, Label: title, Color: ColorRoot}},
		Edges:   []Edge{},
	}
}

// WithChild appends one node for child and one edge parent→child.
// Titles are not deduplicated; re-exploring a title adds a second node with
// the same ID.
func (g Graph) WithChild(parent, child string) Graph {
	return Graph{
		Session: g.Session,
		Nodes:   slices.Concat(g.Nodes, []Node{{ID: child, Label: child, Color: ColorChild}}),
		Edges:   slices.Concat(g.Edges, []Edge{{ID: EdgeID(parent, child), From: parent, To: child}}),
	}
}

// EdgeID is the identifier of the edge parent→child.
func EdgeID(parent, child string) string {
	return parent + "-" + child
}

// NodeCount returns the number of nodes.
func (g Graph) NodeCount() int {
	return len(g.Nodes)
}

// EdgeCount returns the number of edges.
func (g Graph) EdgeCount() int {
	return len(g.Edges)
}

// IsEmpty returns true if the graph has no nodes.
func (g Graph) IsEmpty() bool {
	return len(g.Nodes) == 0
}

// Since returns the nodes and edges appended after a graph of the same
// session held nodes/edges entries. ok is false when the counts cannot
// belong to an earlier state of g, in which case the caller must reset.
func (g Graph) Since(nodes, edges int) ([]Node, []Edge, bool) {
	if nodes < 0 || edges < 0 || nodes > len(g.Nodes) || edges > len(g.Edges) {
		return nil, nil, false
	}
	return g.Nodes[nodes:], g.Edges[edges:], true
}
