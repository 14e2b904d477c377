package topology

// Edge is a directed call dependency between two services.
type Edge struct {
	SourceID   string  `json:"source_id"`
	TargetID   string  `json:"target_id"`
	CallRate   float64 `json:"call_rate"`
	LatencyP50 float64 `json:"latency_p50"`
	Shortcut   bool    `json:"is_shortcut"`
}

// Pair identifies a recommended shortcut between two services.
type Pair struct {
	Source string `json:"source"`
	Target string `json:"target"`
}

// key returns the identity of an edge for dedup and shortcut matching.
// Edges are directed, so (a,b) and (b,a) are distinct.
func (e *Edge) key() Pair {
	return Pair{Source: e.SourceID, Target: e.TargetID}
}
