// Package interact translates raw pointer events into solver pins, reheats,
// viewport pans and selection changes.
//
// The controller is a small state machine over synthetic PointerEvent
// values, decoupled from any particular input dispatch mechanism so tests
// can drive it directly.
package interact

import (
	"smallworld/internal/solver"
	"smallworld/internal/topology"
	"smallworld/internal/viewport"
)

// EventKind discriminates pointer events.
type EventKind int

const (
	PointerDown EventKind = iota
	PointerMove
	PointerUp
)

// PointerEvent is a pointer sample in screen coordinates.
type PointerEvent struct {
	Kind EventKind
	X    float64
	Y    float64
}

// SelectionFunc observes selection changes. ok is false when the selection
// was cleared.
type SelectionFunc func(nodeID string, ok bool)

type state int

const (
	stateIdle state = iota
	stateDragging
	statePanning
)

// Controller is the pointer-driven interaction state machine.
type Controller struct {
	graph  *topology.Graph
	solver *solver.Solver
	view   *viewport.Controller

	onSelection SelectionFunc

	st     state
	dragID string
	moved  bool
	lastX  float64
	lastY  float64

	selected    string
	hasSelected bool
}

// New creates a controller wired to the given graph, solver and viewport.
func New(g *topology.Graph, s *solver.Solver, v *viewport.Controller) *Controller {
	return &Controller{graph: g, solver: s, view: v}
}

// OnSelectionChange registers the selection observer. Selection changes are
// a rendering concern only; they never restart or reheat the solver.
func (c *Controller) OnSelectionChange(fn SelectionFunc) { c.onSelection = fn }

// SetGraph swaps the graph used for hit testing after a topology rebuild.
// A selected node that no longer exists gets deselected.
func (c *Controller) SetGraph(g *topology.Graph) {
	c.graph = g
	if c.hasSelected {
		if _, ok := g.Node(c.selected); !ok {
			c.setSelection("", false)
		}
	}
	if c.st == stateDragging {
		if _, ok := g.Node(c.dragID); !ok {
			c.st = stateIdle
			c.dragID = ""
		}
	}
}

// Selection returns the currently selected node id, if any.
func (c *Controller) Selection() (string, bool) { return c.selected, c.hasSelected }

// Select sets the selection externally (e.g. from a detail pane).
func (c *Controller) Select(id string) { c.setSelection(id, true) }

// ClearSelection clears the selection externally.
func (c *Controller) ClearSelection() { c.setSelection("", false) }

// Handle feeds one pointer event through the state machine.
func (c *Controller) Handle(ev PointerEvent) {
	switch ev.Kind {
	case PointerDown:
		c.down(ev)
	case PointerMove:
		c.move(ev)
	case PointerUp:
		c.up(ev)
	}
}

func (c *Controller) down(ev PointerEvent) {
	c.moved = false
	c.lastX, c.lastY = ev.X, ev.Y

	mx, my := c.view.ScreenToModel(ev.X, ev.Y)
	if id, ok := c.hit(mx, my); ok {
		c.st = stateDragging
		c.dragID = id
		c.solver.Pin(id, mx, my)
		c.solver.Reheat()
		return
	}
	c.st = statePanning
}

func (c *Controller) move(ev PointerEvent) {
	switch c.st {
	case stateDragging:
		if ev.X != c.lastX || ev.Y != c.lastY {
			c.moved = true
		}
		mx, my := c.view.ScreenToModel(ev.X, ev.Y)
		c.solver.Pin(c.dragID, mx, my)
	case statePanning:
		if ev.X != c.lastX || ev.Y != c.lastY {
			c.moved = true
		}
		c.view.PanBy(ev.X-c.lastX, ev.Y-c.lastY)
	default:
		return
	}
	c.lastX, c.lastY = ev.X, ev.Y
}

func (c *Controller) up(ev PointerEvent) {
	switch c.st {
	case stateDragging:
		c.solver.Unpin(c.dragID)
		c.solver.Cool()
		if !c.moved {
			c.toggle(c.dragID)
		}
		c.dragID = ""
	case statePanning:
		if !c.moved {
			// Background click clears the selection unconditionally.
			c.setSelection("", false)
		}
	}
	c.st = stateIdle
}

// hit returns the topmost node under the given model coordinate. Later
// nodes draw on top, so iterate in reverse.
func (c *Controller) hit(mx, my float64) (string, bool) {
	for i := len(c.graph.Nodes) - 1; i >= 0; i-- {
		n := c.graph.Nodes[i]
		pos, ok := c.solver.Position(n.ID)
		if !ok {
			continue
		}
		dx := mx - pos.X
		dy := my - pos.Y
		r := n.Radius()
		if dx*dx+dy*dy <= r*r {
			return n.ID, true
		}
	}
	return "", false
}

func (c *Controller) toggle(id string) {
	if c.hasSelected && c.selected == id {
		c.setSelection("", false)
		return
	}
	c.setSelection(id, true)
}

func (c *Controller) setSelection(id string, ok bool) {
	if c.hasSelected == ok && c.selected == id {
		return
	}
	c.selected = id
	c.hasSelected = ok
	if c.onSelection != nil {
		c.onSelection(id, ok)
	}
}
