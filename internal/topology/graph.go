// Package topology normalizes raw service/edge/shortcut input into a
// consistent in-memory dependency graph.
//
// Normalization is best effort by design: duplicate nodes and edges are
// collapsed, edges referencing unknown services are dropped silently, and
// shortcut recommendations are merged into the edge list without ever
// producing parallel edges. Nothing in here returns an error.
package topology

// Graph is the normalized dependency graph handed to the force solver.
// Node and edge ordering is stable (input order after dedup and filtering)
// so iteration is reproducible.
type Graph struct {
	Nodes []*Node
	Edges []*Edge

	index map[string]*Node
}

// Build constructs a Graph from raw input.
//
// Duplicate node ids keep the first occurrence. Edges whose endpoints are
// not in the node set are dropped. Each shortcut pair either flags an
// existing (source,target) edge in place or synthesizes a new zero-weight
// shortcut edge; pairs with unknown endpoints or duplicating an earlier
// pair are skipped.
func Build(nodes []Node, edges []Edge, shortcuts []Pair) *Graph {
	g := &Graph{index: make(map[string]*Node, len(nodes))}

	for i := range nodes {
		n := nodes[i]
		if _, dup := g.index[n.ID]; dup {
			continue
		}
		node := &Node{ID: n.ID, Name: n.Name, Metrics: n.Metrics}
		g.index[node.ID] = node
		g.Nodes = append(g.Nodes, node)
	}

	// Degrees are taken over the base edge set before the shortcut merge:
	// a recommendation that flags an existing call edge must not shrink
	// the endpoints' degree, and synthesized pairs never count.
	degree := make(map[string]int, len(nodes))
	byKey := make(map[Pair]*Edge, len(edges))
	for i := range edges {
		e := edges[i]
		if !g.has(e.SourceID) || !g.has(e.TargetID) {
			continue
		}
		if _, dup := byKey[e.key()]; dup {
			continue
		}
		edge := &Edge{
			SourceID:   e.SourceID,
			TargetID:   e.TargetID,
			CallRate:   e.CallRate,
			LatencyP50: e.LatencyP50,
			Shortcut:   e.Shortcut,
		}
		byKey[edge.key()] = edge
		g.Edges = append(g.Edges, edge)
		degree[edge.SourceID]++
		degree[edge.TargetID]++
	}

	seen := make(map[Pair]bool, len(shortcuts))
	for _, p := range shortcuts {
		if seen[p] || !g.has(p.Source) || !g.has(p.Target) {
			continue
		}
		seen[p] = true
		if existing, ok := byKey[p]; ok {
			existing.Shortcut = true
			continue
		}
		edge := &Edge{SourceID: p.Source, TargetID: p.Target, Shortcut: true}
		byKey[p] = edge
		g.Edges = append(g.Edges, edge)
	}

	g.fillDegrees(degree)
	return g
}

// fillDegrees derives TotalDegree from the base edge set for nodes that
// arrived without metrics, so radius sizing works even when the analysis
// backend supplied nothing.
func (g *Graph) fillDegrees(degree map[string]int) {
	for _, n := range g.Nodes {
		if n.Metrics == nil {
			n.Metrics = &Metrics{TotalDegree: degree[n.ID]}
		}
	}
}

// Node returns the node with the given id.
func (g *Graph) Node(id string) (*Node, bool) {
	n, ok := g.index[id]
	return n, ok
}

func (g *Graph) has(id string) bool {
	_, ok := g.index[id]
	return ok
}

// NodeCount returns the number of services in the graph.
func (g *Graph) NodeCount() int { return len(g.Nodes) }

// EdgeCount returns the number of edges, shortcuts included.
func (g *Graph) EdgeCount() int { return len(g.Edges) }
