// Package solver implements the force-directed relaxation that assigns 2D
// positions to topology nodes.
//
// The simulation follows the usual velocity-Verlet-with-damping scheme used
// by graph layout engines: every tick, four force terms (link springs,
// many-body repulsion, centering, collision) accumulate into per-node
// velocities, damped velocities integrate into positions, and a cooling
// scalar ("alpha") decays toward an alpha target. Once alpha drops below a
// minimum and the target is zero the solver freezes; reheating raises the
// target and resumes motion. Model coordinates live here; the viewport
// transform is a separate concern entirely.
package solver

import (
	"math"

	"smallworld/internal/topology"
)

// State is the lifecycle phase of a solver.
type State int

const (
	// StateIdle means the solver has no nodes and never ticks.
	StateIdle State = iota
	// StateRunning means alpha is above the minimum and ticks integrate.
	StateRunning
	// StateFrozen means the layout has cooled; ticks are no-ops until a reheat.
	StateFrozen
)

func (s State) String() string {
	switch s {
	case StateIdle:
		return "idle"
	case StateRunning:
		return "running"
	case StateFrozen:
		return "frozen"
	}
	return "unknown"
}

// Vec is a 2D vector in model space.
type Vec struct {
	X float64 `json:"x"`
	Y float64 `json:"y"`
}

// Config tunes the simulation. Zero values are replaced by defaults.
type Config struct {
	LinkDistance   float64 `yaml:"link_distance"`   // target edge length
	LinkStrength   float64 `yaml:"link_strength"`   // spring stiffness
	ChargeStrength float64 `yaml:"charge_strength"` // many-body; negative repels
	CollideRadius  float64 `yaml:"collide_radius"`  // per-node separation radius
	AlphaDecay     float64 `yaml:"alpha_decay"`     // per-tick cooling rate
	AlphaMin       float64 `yaml:"alpha_min"`       // freeze threshold
	ReheatTarget   float64 `yaml:"reheat_target"`   // alpha target while dragging
	VelocityDecay  float64 `yaml:"velocity_decay"`  // friction, fraction lost per tick
}

// DefaultConfig returns the tuning used by the interactive view. AlphaDecay
// 0.0228 cools from 1 to below AlphaMin in roughly 300 ticks.
func DefaultConfig() Config {
	return Config{
		LinkDistance:   100,
		LinkStrength:   0.5,
		ChargeStrength: -300,
		CollideRadius:  40,
		AlphaDecay:     0.0228,
		AlphaMin:       0.001,
		ReheatTarget:   0.3,
		VelocityDecay:  0.4,
	}
}

func (c *Config) applyDefaults() {
	d := DefaultConfig()
	if c.LinkDistance == 0 {
		c.LinkDistance = d.LinkDistance
	}
	if c.LinkStrength == 0 {
		c.LinkStrength = d.LinkStrength
	}
	if c.ChargeStrength == 0 {
		c.ChargeStrength = d.ChargeStrength
	}
	if c.CollideRadius == 0 {
		c.CollideRadius = d.CollideRadius
	}
	if c.AlphaDecay == 0 {
		c.AlphaDecay = d.AlphaDecay
	}
	if c.AlphaMin == 0 {
		c.AlphaMin = d.AlphaMin
	}
	if c.ReheatTarget == 0 {
		c.ReheatTarget = d.ReheatTarget
	}
	if c.VelocityDecay == 0 {
		c.VelocityDecay = d.VelocityDecay
	}
}

// body is the per-node simulation state. pin, when set, overrides force
// integration and holds the node exactly at the pinned coordinate.
type body struct {
	id  string
	pos Vec
	vel Vec
	pin *Vec
}

// Solver owns position and velocity state for one graph view.
type Solver struct {
	cfg    Config
	graph  *topology.Graph
	bodies []*body
	byID   map[string]*body

	width, height float64
	alpha         float64
	alphaTarget   float64
	placed        int // monotonically counts initial placements for the spiral
}

// New creates a solver for the given graph and viewport dimensions. With at
// least one node it starts Running with alpha 1; an empty graph stays Idle.
func New(g *topology.Graph, width, height float64, cfg Config) *Solver {
	cfg.applyDefaults()
	s := &Solver{
		cfg:    cfg,
		width:  width,
		height: height,
		byID:   make(map[string]*body),
		alpha:  1,
	}
	s.adopt(g)
	return s
}

// adopt rebuilds the body list in graph order, keeping state for surviving
// ids and placing new ids on the initial spiral.
func (s *Solver) adopt(g *topology.Graph) {
	s.graph = g
	s.bodies = s.bodies[:0]
	keep := make(map[string]*body)
	if g != nil {
		for _, n := range g.Nodes {
			b, ok := s.byID[n.ID]
			if !ok {
				b = &body{id: n.ID, pos: s.place()}
			}
			keep[n.ID] = b
			s.bodies = append(s.bodies, b)
		}
	}
	s.byID = keep
}

// place returns the next deterministic initial position: a phyllotaxis
// spiral around the viewport center, so freshly added nodes never stack.
func (s *Solver) place() Vec {
	const initialRadius = 10
	var initialAngle = math.Pi * (3 - math.Sqrt(5))

	i := float64(s.placed)
	s.placed++
	radius := initialRadius * math.Sqrt(0.5+i)
	angle := i * initialAngle
	cx, cy := s.center()
	return Vec{X: cx + radius*math.Cos(angle), Y: cy + radius*math.Sin(angle)}
}

func (s *Solver) center() (float64, float64) {
	// A zero-area viewport (container not yet measured) centers on the
	// origin; positions settle correctly once a real size arrives.
	return s.width / 2, s.height / 2
}

// State returns the current lifecycle phase.
func (s *Solver) State() State {
	if len(s.bodies) == 0 {
		return StateIdle
	}
	if s.alpha >= s.cfg.AlphaMin || s.alphaTarget >= s.cfg.AlphaMin {
		return StateRunning
	}
	return StateFrozen
}

// Alpha returns the current cooling scalar.
func (s *Solver) Alpha() float64 { return s.alpha }

// Tick advances the simulation one step. It reports whether anything moved;
// Idle and Frozen solvers return false without touching state.
func (s *Solver) Tick() bool {
	if s.State() != StateRunning {
		return false
	}

	s.alpha += (s.alphaTarget - s.alpha) * s.cfg.AlphaDecay

	s.applyLinks()
	s.applyCharge()
	s.applyCollide()
	s.applyCenter()

	damping := 1 - s.cfg.VelocityDecay
	for _, b := range s.bodies {
		if b.pin != nil {
			b.pos = *b.pin
			b.vel = Vec{}
			continue
		}
		b.vel.X *= damping
		b.vel.Y *= damping
		b.pos.X += b.vel.X
		b.pos.Y += b.vel.Y
	}
	return true
}

// Pin holds the node at the given model coordinate every tick until Unpin.
func (s *Solver) Pin(id string, x, y float64) {
	if b, ok := s.byID[id]; ok {
		b.pin = &Vec{X: x, Y: y}
		b.pos = *b.pin
		b.vel = Vec{}
	}
}

// Unpin releases a pinned node back to force control.
func (s *Solver) Unpin(id string) {
	if b, ok := s.byID[id]; ok {
		b.pin = nil
	}
}

// Pinned reports whether the node is currently pinned.
func (s *Solver) Pinned(id string) bool {
	b, ok := s.byID[id]
	return ok && b.pin != nil
}

// Reheat raises the alpha target so the simulation keeps running for the
// duration of a gesture. Call Cool to resume natural decay.
func (s *Solver) Reheat() {
	s.alphaTarget = s.cfg.ReheatTarget
	if s.alpha < s.cfg.ReheatTarget {
		s.alpha = s.cfg.ReheatTarget
	}
}

// Cool returns the alpha target to zero; the layout freezes once alpha
// decays below the minimum.
func (s *Solver) Cool() { s.alphaTarget = 0 }

// Kick bumps alpha for a one-shot resettle without changing the target.
func (s *Solver) Kick() {
	if s.alpha < s.cfg.ReheatTarget {
		s.alpha = s.cfg.ReheatTarget
	}
}

// Position returns the current model-space position of a node.
func (s *Solver) Position(id string) (Vec, bool) {
	b, ok := s.byID[id]
	if !ok {
		return Vec{}, false
	}
	return b.pos, true
}

// Positions returns a snapshot of all node positions keyed by id.
func (s *Solver) Positions() map[string]Vec {
	out := make(map[string]Vec, len(s.bodies))
	for _, b := range s.bodies {
		out[b.id] = b.pos
	}
	return out
}

// Seed overrides positions for known ids, typically from a persisted layout.
// Unknown ids are ignored. Seeding does not reheat.
func (s *Solver) Seed(positions map[string]Vec) {
	for id, pos := range positions {
		if b, ok := s.byID[id]; ok {
			b.pos = pos
			b.vel = Vec{}
		}
	}
}

// ApplyDiff swaps in a new graph, retaining position and velocity for ids
// that survive and dropping state for ids that are gone. The simulation is
// kicked only when the diff is non-empty, so redundant snapshots (and
// selection changes, which never reach the solver at all) cost nothing.
func (s *Solver) ApplyDiff(g *topology.Graph, d topology.Diff) {
	s.adopt(g)
	if !d.Empty() {
		s.Kick()
	}
}

// Resize retargets the centering force and clamps existing positions into
// the new bounds. Solver state survives; alpha gets a bump so the layout
// can settle around the new center, never a full restart.
func (s *Solver) Resize(width, height float64) {
	if width == s.width && height == s.height {
		return
	}
	s.width = width
	s.height = height
	if width <= 0 || height <= 0 {
		return
	}
	for _, b := range s.bodies {
		if b.pin != nil {
			continue
		}
		b.pos.X = clamp(b.pos.X, 0, width)
		b.pos.Y = clamp(b.pos.Y, 0, height)
	}
	s.Kick()
}

func clamp(v, lo, hi float64) float64 {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}
