package solver

import (
	"math"
	"testing"

	"smallworld/internal/topology"
)

func buildGraph(ids []string, edges []topology.Edge) *topology.Graph {
	nodes := make([]topology.Node, 0, len(ids))
	for _, id := range ids {
		nodes = append(nodes, topology.Node{ID: id, Name: id})
	}
	return topology.Build(nodes, edges, nil)
}

func chain(ids ...string) *topology.Graph {
	var edges []topology.Edge
	for i := 0; i+1 < len(ids); i++ {
		edges = append(edges, topology.Edge{SourceID: ids[i], TargetID: ids[i+1]})
	}
	return buildGraph(ids, edges)
}

func TestLifecycle(t *testing.T) {
	t.Run("empty graph stays idle", func(t *testing.T) {
		s := New(buildGraph(nil, nil), 800, 600, Config{})
		if s.State() != StateIdle {
			t.Fatalf("expected idle, got %v", s.State())
		}
		if s.Tick() {
			t.Error("idle solver must not tick")
		}
	})

	t.Run("starts running with alpha 1", func(t *testing.T) {
		s := New(chain("a", "b"), 800, 600, Config{})
		if s.State() != StateRunning {
			t.Fatalf("expected running, got %v", s.State())
		}
		if s.Alpha() != 1 {
			t.Errorf("expected alpha 1, got %g", s.Alpha())
		}
	})

	t.Run("freezes within 300 ticks under default decay", func(t *testing.T) {
		s := New(chain("a", "b", "c"), 800, 600, Config{})

		ticks := 0
		for s.Tick() {
			ticks++
			if ticks > 400 {
				t.Fatal("solver did not converge within 400 ticks")
			}
		}
		if ticks > 300 {
			t.Errorf("expected convergence within 300 ticks, took %d", ticks)
		}
		if s.State() != StateFrozen {
			t.Errorf("expected frozen, got %v", s.State())
		}
	})

	t.Run("disconnected nodes still converge", func(t *testing.T) {
		s := New(buildGraph([]string{"a", "b", "c", "d"}, nil), 800, 600, Config{})

		for i := 0; i < 400 && s.Tick(); i++ {
		}
		if s.State() != StateFrozen {
			t.Errorf("expected frozen, got %v", s.State())
		}

		// Repulsion plus centering must keep the layout bounded.
		for id, pos := range s.Positions() {
			if math.Abs(pos.X-400) > 2000 || math.Abs(pos.Y-300) > 2000 {
				t.Errorf("node %s escaped the layout: %+v", id, pos)
			}
		}
	})

	t.Run("reheat resumes a frozen solver", func(t *testing.T) {
		s := New(chain("a", "b"), 800, 600, Config{})
		for s.Tick() {
		}
		if s.State() != StateFrozen {
			t.Fatalf("expected frozen, got %v", s.State())
		}

		s.Reheat()
		if s.State() != StateRunning {
			t.Fatalf("expected running after reheat, got %v", s.State())
		}
		if !s.Tick() {
			t.Error("reheated solver must tick")
		}

		// While the target is held the solver never freezes.
		for i := 0; i < 500; i++ {
			s.Tick()
		}
		if s.State() != StateRunning {
			t.Errorf("expected running while reheated, got %v", s.State())
		}

		// Releasing the target resumes natural cooling.
		s.Cool()
		for i := 0; i < 400 && s.Tick(); i++ {
		}
		if s.State() != StateFrozen {
			t.Errorf("expected frozen after cooling, got %v", s.State())
		}
	})
}

func TestPinning(t *testing.T) {
	t.Run("pinned node holds exact position across ticks", func(t *testing.T) {
		s := New(chain("a", "b", "c"), 800, 600, Config{})
		s.Pin("b", 123.5, 456.5)

		for i := 0; i < 50; i++ {
			s.Tick()
			pos, ok := s.Position("b")
			if !ok {
				t.Fatal("pinned node missing")
			}
			if pos.X != 123.5 || pos.Y != 456.5 {
				t.Fatalf("tick %d: pinned node moved to %+v", i, pos)
			}
		}
	})

	t.Run("unpin releases the node to forces", func(t *testing.T) {
		s := New(chain("a", "b"), 800, 600, Config{})
		s.Pin("a", 0, 0)
		s.Tick()
		s.Unpin("a")
		if s.Pinned("a") {
			t.Fatal("expected a to be unpinned")
		}

		s.Reheat()
		for i := 0; i < 20; i++ {
			s.Tick()
		}
		pos, _ := s.Position("a")
		if pos.X == 0 && pos.Y == 0 {
			t.Error("unpinned node did not move under forces")
		}
	})

	t.Run("pinning unknown id is a no-op", func(t *testing.T) {
		s := New(chain("a", "b"), 800, 600, Config{})
		s.Pin("ghost", 1, 2)
		if s.Pinned("ghost") {
			t.Error("unknown id must not be pinned")
		}
	})
}

func TestForces(t *testing.T) {
	t.Run("linked nodes approach the target separation", func(t *testing.T) {
		s := New(chain("a", "b"), 800, 600, Config{})
		for s.Tick() {
		}

		a, _ := s.Position("a")
		b, _ := s.Position("b")
		dist := math.Hypot(a.X-b.X, a.Y-b.Y)
		// Link wants 100, collision wants ≥80; anything in that
		// neighborhood is an equilibrium.
		if dist < 60 || dist > 220 {
			t.Errorf("expected separation near link distance, got %g", dist)
		}
	})

	t.Run("centroid tracks the viewport center", func(t *testing.T) {
		s := New(chain("a", "b", "c", "d"), 1000, 500, Config{})
		for s.Tick() {
		}

		var cx, cy float64
		positions := s.Positions()
		for _, pos := range positions {
			cx += pos.X
			cy += pos.Y
		}
		n := float64(len(positions))
		cx, cy = cx/n, cy/n

		if math.Abs(cx-500) > 1 || math.Abs(cy-250) > 1 {
			t.Errorf("expected centroid near (500,250), got (%g,%g)", cx, cy)
		}
	})

	t.Run("collision keeps nodes apart", func(t *testing.T) {
		s := New(buildGraph([]string{"a", "b", "c"}, nil), 800, 600, Config{})
		for s.Tick() {
		}

		positions := s.Positions()
		ids := []string{"a", "b", "c"}
		for i := 0; i < len(ids); i++ {
			for j := i + 1; j < len(ids); j++ {
				pi, pj := positions[ids[i]], positions[ids[j]]
				dist := math.Hypot(pi.X-pj.X, pi.Y-pj.Y)
				if dist < 40 {
					t.Errorf("%s and %s overlap: distance %g", ids[i], ids[j], dist)
				}
			}
		}
	})

	t.Run("zero-area viewport centers on origin without crashing", func(t *testing.T) {
		s := New(chain("a", "b"), 0, 0, Config{})
		for i := 0; i < 50; i++ {
			s.Tick()
		}

		var cx, cy float64
		for _, pos := range s.Positions() {
			cx += pos.X
			cy += pos.Y
		}
		if math.Abs(cx/2) > 1 || math.Abs(cy/2) > 1 {
			t.Errorf("expected centroid near origin, got (%g,%g)", cx/2, cy/2)
		}
	})
}

func TestApplyDiff(t *testing.T) {
	t.Run("retains surviving positions and kicks alpha", func(t *testing.T) {
		g1 := chain("a", "b")
		s := New(g1, 800, 600, Config{})
		for s.Tick() {
		}
		before, _ := s.Position("a")

		g2 := buildGraph([]string{"a", "b", "c"}, []topology.Edge{
			{SourceID: "a", TargetID: "b"},
			{SourceID: "b", TargetID: "c"},
		})
		s.ApplyDiff(g2, topology.DiffGraphs(g1, g2))

		after, ok := s.Position("a")
		if !ok {
			t.Fatal("surviving node lost its state")
		}
		if after != before {
			t.Errorf("surviving position changed across rebuild: %+v -> %+v", before, after)
		}
		if _, ok := s.Position("c"); !ok {
			t.Fatal("new node has no position")
		}
		if s.State() != StateRunning {
			t.Error("non-empty diff must resume the solver")
		}
		if s.Alpha() > 0.3+1e-9 {
			t.Errorf("diff kick must not reset alpha to 1, got %g", s.Alpha())
		}
	})

	t.Run("empty diff does not reheat", func(t *testing.T) {
		g1 := chain("a", "b")
		s := New(g1, 800, 600, Config{})
		for s.Tick() {
		}

		g2 := chain("a", "b")
		s.ApplyDiff(g2, topology.DiffGraphs(g1, g2))
		if s.State() != StateFrozen {
			t.Errorf("identical snapshot must not resume the solver, got %v", s.State())
		}
	})

	t.Run("drops state for removed ids", func(t *testing.T) {
		g1 := chain("a", "b")
		s := New(g1, 800, 600, Config{})

		g2 := buildGraph([]string{"b"}, nil)
		s.ApplyDiff(g2, topology.DiffGraphs(g1, g2))

		if _, ok := s.Position("a"); ok {
			t.Error("removed node still has solver state")
		}
	})
}

func TestResize(t *testing.T) {
	t.Run("clamps positions and keeps state", func(t *testing.T) {
		s := New(chain("a", "b"), 800, 600, Config{})
		for s.Tick() {
		}

		s.Resize(100, 100)
		if s.Alpha() >= 1 {
			t.Errorf("resize must not reset alpha to 1, got %g", s.Alpha())
		}
		for id, pos := range s.Positions() {
			if pos.X < 0 || pos.X > 100 || pos.Y < 0 || pos.Y > 100 {
				t.Errorf("node %s outside new bounds: %+v", id, pos)
			}
		}
		if s.State() != StateRunning {
			t.Error("resize should resettle, not freeze")
		}
	})

	t.Run("same size is a no-op", func(t *testing.T) {
		s := New(chain("a", "b"), 800, 600, Config{})
		for s.Tick() {
		}
		s.Resize(800, 600)
		if s.State() != StateFrozen {
			t.Error("no-op resize must not reheat")
		}
	})
}

func TestSeed(t *testing.T) {
	s := New(chain("a", "b"), 800, 600, Config{})
	s.Seed(map[string]Vec{
		"a":     {X: 10, Y: 20},
		"ghost": {X: 1, Y: 2},
	})

	pos, _ := s.Position("a")
	if pos.X != 10 || pos.Y != 20 {
		t.Errorf("seed not applied, got %+v", pos)
	}
	if _, ok := s.Position("ghost"); ok {
		t.Error("seeding must ignore unknown ids")
	}
}
