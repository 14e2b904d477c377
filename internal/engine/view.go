// Package engine ties the topology, solver, viewport and interaction pieces
// into one interactive graph view with a continuously running frame loop.
//
// Exactly one solver is alive per view. Topology snapshots and viewport
// resizes are routed through incremental diff/resize operations so node
// positions survive; nothing short of Stop tears the solver down. Stop is
// deterministic: once it returns, no frame callback will fire again.
package engine

import (
	"sync"
	"time"

	"smallworld/internal/interact"
	"smallworld/internal/render"
	"smallworld/internal/solver"
	"smallworld/internal/topology"
	"smallworld/internal/viewport"
)

// DefaultFrameRate drives the frame loop when Options.FrameRate is zero.
const DefaultFrameRate = 60

// FrameFunc receives the projected frame for every loop iteration.
type FrameFunc func(render.Frame)

// Options configures a View.
type Options struct {
	Width     float64
	Height    float64
	FrameRate int
	Solver    solver.Config
}

// View is one interactive graph view.
type View struct {
	mu     sync.Mutex
	graph  *topology.Graph
	solver *solver.Solver
	view   *viewport.Controller
	ctrl   *interact.Controller

	onFrame     FrameFunc
	onSelection interact.SelectionFunc

	frameRate int
	stop      chan struct{}
	done      sync.WaitGroup
	running   bool
}

// NewView creates a view with an empty graph. The frame loop starts on Start.
func NewView(opts Options) *View {
	if opts.FrameRate <= 0 {
		opts.FrameRate = DefaultFrameRate
	}
	g := topology.Build(nil, nil, nil)
	s := solver.New(g, opts.Width, opts.Height, opts.Solver)
	vp := viewport.New()

	v := &View{
		graph:     g,
		solver:    s,
		view:      vp,
		frameRate: opts.FrameRate,
	}
	v.ctrl = interact.New(g, s, vp)
	v.ctrl.OnSelectionChange(func(id string, ok bool) {
		if v.onSelection != nil {
			v.onSelection(id, ok)
		}
	})
	return v
}

// OnFrame registers the per-frame callback. Register before Start.
func (v *View) OnFrame(fn FrameFunc) { v.onFrame = fn }

// OnSelectionChange registers the selection observer. Register before Start.
func (v *View) OnSelectionChange(fn interact.SelectionFunc) { v.onSelection = fn }

// SetTopology swaps in a new topology snapshot. Positions of surviving
// nodes are retained; the solver is kicked only when something actually
// changed.
func (v *View) SetTopology(g *topology.Graph) {
	v.mu.Lock()
	defer v.mu.Unlock()

	diff := topology.DiffGraphs(v.graph, g)
	v.graph = g
	v.solver.ApplyDiff(g, diff)
	v.ctrl.SetGraph(g)
}

// SetSize informs the view of new container dimensions.
func (v *View) SetSize(width, height float64) {
	v.mu.Lock()
	defer v.mu.Unlock()
	v.solver.Resize(width, height)
}

// Pointer feeds a pointer event through the interaction state machine.
func (v *View) Pointer(ev interact.PointerEvent) {
	v.mu.Lock()
	defer v.mu.Unlock()
	v.ctrl.Handle(ev)
}

// Viewport exposes the pan/zoom controller. Zoom operations compose with
// the latest solver output and never touch tick scheduling.
func (v *View) Viewport() *viewport.Controller { return v.view }

// Selection returns the currently selected node id, if any.
func (v *View) Selection() (string, bool) {
	v.mu.Lock()
	defer v.mu.Unlock()
	return v.ctrl.Selection()
}

// Select sets the selection externally.
func (v *View) Select(id string) {
	v.mu.Lock()
	defer v.mu.Unlock()
	v.ctrl.Select(id)
}

// ClearSelection clears the selection externally.
func (v *View) ClearSelection() {
	v.mu.Lock()
	defer v.mu.Unlock()
	v.ctrl.ClearSelection()
}

// SeedPositions restores persisted positions for known node ids.
func (v *View) SeedPositions(positions map[string]solver.Vec) {
	v.mu.Lock()
	defer v.mu.Unlock()
	v.solver.Seed(positions)
}

// Positions snapshots current node positions, typically for persistence.
func (v *View) Positions() map[string]solver.Vec {
	v.mu.Lock()
	defer v.mu.Unlock()
	return v.solver.Positions()
}

// SolverState returns the solver lifecycle phase.
func (v *View) SolverState() solver.State {
	v.mu.Lock()
	defer v.mu.Unlock()
	return v.solver.State()
}

// Frame projects the current state once, outside the loop. Useful for
// pull-style consumers and tests.
func (v *View) Frame() render.Frame {
	v.mu.Lock()
	defer v.mu.Unlock()
	return v.project()
}

// project must be called with the lock held.
func (v *View) project() render.Frame {
	id, ok := v.ctrl.Selection()
	return render.Project(v.graph, v.solver, id, ok)
}

// Step advances the simulation one tick without the loop. It reports
// whether the solver integrated.
func (v *View) Step() bool {
	v.mu.Lock()
	defer v.mu.Unlock()
	return v.solver.Tick()
}

// Start launches the frame loop. Starting a running view is a no-op.
func (v *View) Start() {
	v.mu.Lock()
	defer v.mu.Unlock()
	if v.running {
		return
	}
	v.running = true
	v.stop = make(chan struct{})
	v.done.Add(1)
	go v.loop(v.stop)
}

// Stop halts the frame loop and waits for it to exit. No frame callback
// fires after Stop returns. The view can be started again afterwards.
func (v *View) Stop() {
	v.mu.Lock()
	if !v.running {
		v.mu.Unlock()
		return
	}
	v.running = false
	close(v.stop)
	v.mu.Unlock()

	v.done.Wait()
}

func (v *View) loop(stop chan struct{}) {
	defer v.done.Done()

	ticker := time.NewTicker(time.Second / time.Duration(v.frameRate))
	defer ticker.Stop()

	for {
		select {
		case <-stop:
			return
		case <-ticker.C:
			v.mu.Lock()
			v.solver.Tick()
			frame := v.project()
			fn := v.onFrame
			v.mu.Unlock()

			if fn != nil {
				fn(frame)
			}
		}
	}
}
