package topology

import (
	"testing"
)

func nodes(ids ...string) []Node {
	out := make([]Node, 0, len(ids))
	for _, id := range ids {
		out = append(out, Node{ID: id, Name: id})
	}
	return out
}

func TestBuild(t *testing.T) {
	t.Run("keeps stable node and edge order", func(t *testing.T) {
		g := Build(nodes("a", "b", "c"), []Edge{
			{SourceID: "a", TargetID: "b"},
			{SourceID: "b", TargetID: "c"},
		}, nil)

		if g.NodeCount() != 3 {
			t.Fatalf("expected 3 nodes, got %d", g.NodeCount())
		}
		for i, want := range []string{"a", "b", "c"} {
			if g.Nodes[i].ID != want {
				t.Errorf("node %d: expected %s, got %s", i, want, g.Nodes[i].ID)
			}
		}
		if g.Edges[0].SourceID != "a" || g.Edges[1].SourceID != "b" {
			t.Error("edge order not preserved")
		}
	})

	t.Run("deduplicates node ids keeping first", func(t *testing.T) {
		g := Build([]Node{
			{ID: "a", Name: "first"},
			{ID: "a", Name: "second"},
		}, nil, nil)

		if g.NodeCount() != 1 {
			t.Fatalf("expected 1 node, got %d", g.NodeCount())
		}
		if g.Nodes[0].Name != "first" {
			t.Errorf("expected first occurrence to win, got %s", g.Nodes[0].Name)
		}
	})

	t.Run("drops edges with dangling endpoints", func(t *testing.T) {
		g := Build(nodes("a", "b"), []Edge{
			{SourceID: "a", TargetID: "ghost"},
			{SourceID: "a", TargetID: "b"},
			{SourceID: "ghost", TargetID: "b"},
		}, nil)

		if g.EdgeCount() != 1 {
			t.Fatalf("expected 1 edge after filtering, got %d", g.EdgeCount())
		}
		if g.Edges[0].TargetID != "b" {
			t.Errorf("wrong surviving edge: %+v", g.Edges[0])
		}
	})

	t.Run("deduplicates exact duplicate edges", func(t *testing.T) {
		g := Build(nodes("a", "b"), []Edge{
			{SourceID: "a", TargetID: "b", CallRate: 10},
			{SourceID: "a", TargetID: "b", CallRate: 99},
			{SourceID: "b", TargetID: "a", CallRate: 5},
		}, nil)

		if g.EdgeCount() != 2 {
			t.Fatalf("expected 2 edges (directed dedup), got %d", g.EdgeCount())
		}
		if g.Edges[0].CallRate != 10 {
			t.Errorf("expected first duplicate to win, got call rate %g", g.Edges[0].CallRate)
		}
	})
}

func TestShortcutMerge(t *testing.T) {
	t.Run("flags existing edge instead of duplicating", func(t *testing.T) {
		g := Build(nodes("a", "b", "c"), []Edge{
			{SourceID: "a", TargetID: "b", CallRate: 100},
		}, []Pair{
			{Source: "a", Target: "b"},
			{Source: "a", Target: "c"},
		})

		if g.EdgeCount() != 2 {
			t.Fatalf("expected exactly 2 edges, got %d", g.EdgeCount())
		}

		ab := g.Edges[0]
		if !ab.Shortcut {
			t.Error("expected existing (a,b) edge to be flagged as shortcut")
		}
		if ab.CallRate != 100 {
			t.Errorf("flagging must not alter call rate, got %g", ab.CallRate)
		}

		ac := g.Edges[1]
		if ac.SourceID != "a" || ac.TargetID != "c" {
			t.Fatalf("expected synthesized (a,c), got (%s,%s)", ac.SourceID, ac.TargetID)
		}
		if !ac.Shortcut {
			t.Error("synthesized edge must be a shortcut")
		}
		if ac.CallRate != 0 || ac.LatencyP50 != 0 {
			t.Errorf("synthesized edge must be zero-weight, got rate=%g p50=%g", ac.CallRate, ac.LatencyP50)
		}
	})

	t.Run("skips duplicate pairs and dangling pairs", func(t *testing.T) {
		g := Build(nodes("a", "b"), nil, []Pair{
			{Source: "a", Target: "b"},
			{Source: "a", Target: "b"},
			{Source: "a", Target: "ghost"},
		})

		if g.EdgeCount() != 1 {
			t.Fatalf("expected 1 edge, got %d", g.EdgeCount())
		}
	})
}

func TestDegreeFallback(t *testing.T) {
	t.Run("derives degree from base edges when metrics absent", func(t *testing.T) {
		g := Build(nodes("a", "b", "c"), []Edge{
			{SourceID: "a", TargetID: "b"},
			{SourceID: "a", TargetID: "c"},
		}, []Pair{{Source: "b", Target: "c"}})

		a, _ := g.Node("a")
		if a.Degree() != 2 {
			t.Errorf("expected degree 2 for a, got %d", a.Degree())
		}
		// The shortcut (b,c) must not count toward degree.
		b, _ := g.Node("b")
		if b.Degree() != 1 {
			t.Errorf("expected degree 1 for b, got %d", b.Degree())
		}
	})

	t.Run("counts base edges flagged by a shortcut pair", func(t *testing.T) {
		g := Build(nodes("a", "b", "c", "d", "e", "f"), []Edge{
			{SourceID: "a", TargetID: "b"},
			{SourceID: "a", TargetID: "c"},
			{SourceID: "a", TargetID: "d"},
			{SourceID: "a", TargetID: "e"},
			{SourceID: "a", TargetID: "f"},
		}, []Pair{{Source: "a", Target: "b"}})

		a, _ := g.Node("a")
		if a.Degree() != 5 {
			t.Errorf("expected degree 5 for a, got %d", a.Degree())
		}
		if a.Radius() != 15 {
			t.Errorf("expected radius 15 for a, got %g", a.Radius())
		}
	})

	t.Run("keeps externally supplied metrics", func(t *testing.T) {
		g := Build([]Node{
			{ID: "a", Name: "a", Metrics: &Metrics{TotalDegree: 7, IsHub: true}},
			{ID: "b", Name: "b"},
		}, []Edge{{SourceID: "a", TargetID: "b"}}, nil)

		a, _ := g.Node("a")
		if a.Degree() != 7 || !a.Hub() {
			t.Errorf("external metrics overwritten: %+v", a.Metrics)
		}
	})
}

func TestNodeRadius(t *testing.T) {
	tests := []struct {
		degree int
		want   float64
	}{
		{0, 12},
		{1, 12},
		{4, 12},
		{5, 15},
		{10, 30},
		{20, 30},
	}
	for _, tt := range tests {
		n := &Node{ID: "n", Metrics: &Metrics{TotalDegree: tt.degree}}
		if got := n.Radius(); got != tt.want {
			t.Errorf("degree %d: expected radius %g, got %g", tt.degree, tt.want, got)
		}
	}
}

func TestDiffGraphs(t *testing.T) {
	base := Build(nodes("a", "b"), []Edge{{SourceID: "a", TargetID: "b", CallRate: 10}}, nil)

	t.Run("identical graphs yield empty diff", func(t *testing.T) {
		same := Build(nodes("a", "b"), []Edge{{SourceID: "a", TargetID: "b", CallRate: 10}}, nil)
		d := DiffGraphs(base, same)
		if !d.Empty() {
			t.Errorf("expected empty diff, got %+v", d)
		}
	})

	t.Run("detects added and removed nodes", func(t *testing.T) {
		next := Build(nodes("b", "c"), nil, nil)
		d := DiffGraphs(base, next)

		if len(d.Added) != 1 || d.Added[0].ID != "c" {
			t.Errorf("expected added [c], got %+v", d.Added)
		}
		if len(d.Removed) != 1 || d.Removed[0] != "a" {
			t.Errorf("expected removed [a], got %+v", d.Removed)
		}
		if !d.EdgesChanged {
			t.Error("expected edge change to be detected")
		}
	})

	t.Run("detects weight-only edge change", func(t *testing.T) {
		next := Build(nodes("a", "b"), []Edge{{SourceID: "a", TargetID: "b", CallRate: 20}}, nil)
		d := DiffGraphs(base, next)

		if len(d.Added) != 0 || len(d.Removed) != 0 {
			t.Errorf("unexpected node changes: %+v", d)
		}
		if !d.EdgesChanged {
			t.Error("expected call rate change to be detected")
		}
	})

	t.Run("nil old graph adds everything", func(t *testing.T) {
		d := DiffGraphs(nil, base)
		if len(d.Added) != 2 {
			t.Errorf("expected 2 added nodes, got %d", len(d.Added))
		}
	})
}
