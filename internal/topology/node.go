package topology

// Radius bounds for rendered node discs, in pixels.
const (
	MinRadius = 12.0
	MaxRadius = 30.0
)

// Metrics holds externally supplied analysis results for a service.
// They affect rendering only, never the physics.
type Metrics struct {
	TotalDegree  int  `json:"total_degree"`
	IsHub        bool `json:"is_hub"`
	IsBottleneck bool `json:"is_bottleneck"`
}

// Node is a service in the dependency graph.
type Node struct {
	ID      string   `json:"id"`
	Name    string   `json:"name"`
	Metrics *Metrics `json:"metrics,omitempty"`
}

// Degree returns the node's total degree, or zero when no metrics are attached.
func (n *Node) Degree() int {
	if n.Metrics == nil {
		return 0
	}
	return n.Metrics.TotalDegree
}

// Radius returns the rendered disc radius: three pixels per degree,
// clamped to [MinRadius, MaxRadius].
func (n *Node) Radius() float64 {
	r := float64(n.Degree()) * 3
	if r < MinRadius {
		return MinRadius
	}
	if r > MaxRadius {
		return MaxRadius
	}
	return r
}

// Hub reports whether the node was classified as a hub.
func (n *Node) Hub() bool {
	return n.Metrics != nil && n.Metrics.IsHub
}

// Bottleneck reports whether the node was classified as a bottleneck.
func (n *Node) Bottleneck() bool {
	return n.Metrics != nil && n.Metrics.IsBottleneck
}
