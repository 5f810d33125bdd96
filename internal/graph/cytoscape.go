package graph

// CytoscapeElements is the Cytoscape.js elements format.
type CytoscapeElements struct {
	Nodes []CytoscapeNode `json:"nodes"`
	Edges []CytoscapeEdge `json:"edges"`
}

// CytoscapeNode wraps a node's data.
type CytoscapeNode struct {
	Data CytoscapeNodeData `json:"data"`
}

// CytoscapeNodeData contains the node data fields.
type CytoscapeNodeData struct {
	ID    string `json:"id"`
	Label string `json:"label"`
	Color string `json:"color"`
}

// CytoscapeEdge wraps an edge's data.
type CytoscapeEdge struct {
	Data CytoscapeEdgeData `json:"data"`
}

// CytoscapeEdgeData contains the edge data fields.
type CytoscapeEdgeData struct {
	ID     string `json:"id"`
	Source string `json:"source"`
	Target string `json:"target"`
}

// ToCytoscape converts nodes and edges to Cytoscape.js elements.
// Both slices in the result are non-nil so they encode as JSON arrays.
func ToCytoscape(nodes []Node, edges []Edge) CytoscapeElements {
	el := CytoscapeElements{
		Nodes: make([]CytoscapeNode, 0, len(nodes)),
		Edges: make([]CytoscapeEdge, 0, len(edges)),
	}
	for _, n := range nodes {
		el.Nodes = append(el.Nodes, CytoscapeNode{Data: CytoscapeNodeData{ID: n.ID, Label: n.Label, Color: n.Color}})
	}
	for _, e := range edges {
		el.Edges = append(el.Edges, CytoscapeEdge{Data: CytoscapeEdgeData{ID: e.ID, Source: e.From, Target: e.To}})
	}
	return el
}

// Cytoscape converts the whole graph.
func (g Graph) Cytoscape() CytoscapeElements {
	return ToCytoscape(g.Nodes, g.Edges)
}
