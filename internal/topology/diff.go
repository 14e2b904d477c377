package topology

// Diff describes how one graph differs from another. The force solver uses
// it to carry node state across topology snapshots instead of restarting.
type Diff struct {
	Added        []*Node  // nodes present in the new graph only
	Removed      []string // ids present in the old graph only
	EdgesChanged bool     // edge list differs in membership or weights
}

// Empty reports whether the two graphs were equivalent.
func (d Diff) Empty() bool {
	return len(d.Added) == 0 && len(d.Removed) == 0 && !d.EdgesChanged
}

// DiffGraphs computes the change set from old to new. Either side may be nil,
// which is treated as an empty graph.
func DiffGraphs(old, new *Graph) Diff {
	var d Diff

	if new != nil {
		for _, n := range new.Nodes {
			if old == nil || !old.has(n.ID) {
				d.Added = append(d.Added, n)
			}
		}
	}
	if old != nil {
		for _, n := range old.Nodes {
			if new == nil || !new.has(n.ID) {
				d.Removed = append(d.Removed, n.ID)
			}
		}
	}
	d.EdgesChanged = !edgesEqual(old, new)
	return d
}

func edgesEqual(old, new *Graph) bool {
	oldEdges := graphEdges(old)
	newEdges := graphEdges(new)
	if len(oldEdges) != len(newEdges) {
		return false
	}
	byKey := make(map[Pair]*Edge, len(oldEdges))
	for _, e := range oldEdges {
		byKey[e.key()] = e
	}
	for _, e := range newEdges {
		o, ok := byKey[e.key()]
		if !ok {
			return false
		}
		if o.CallRate != e.CallRate || o.LatencyP50 != e.LatencyP50 || o.Shortcut != e.Shortcut {
			return false
		}
	}
	return true
}

func graphEdges(g *Graph) []*Edge {
	if g == nil {
		return nil
	}
	return g.Edges
}
