// Package render projects solver state into a flat list of draw
// descriptors. Project is a pure function: no retained state, no side
// effects, safe to call redundantly. Any drawing surface (retained-mode
// tree, immediate-mode canvas, headless test harness, HTML export) can
// consume the same Frame.
package render

import (
	"smallworld/internal/solver"
	"smallworld/internal/topology"
)

// Stroke width bounds for edge segments, in pixels.
const (
	minStrokeWidth = 1.0
	maxStrokeWidth = 4.0

	labelMaxRunes = 12
)

// FillCategory selects the node disc color.
type FillCategory string

const (
	FillNormal     FillCategory = "normal"
	FillHub        FillCategory = "hub"
	FillBottleneck FillCategory = "bottleneck"
)

// EdgeStyle selects the stroke pattern for an edge segment.
type EdgeStyle string

const (
	StyleSolid  EdgeStyle = "solid"
	StyleDashed EdgeStyle = "dashed"
)

// NodeDisc describes one node to the drawing surface.
type NodeDisc struct {
	ID          string       `json:"id"`
	X           float64      `json:"x"`
	Y           float64      `json:"y"`
	Radius      float64      `json:"radius"`
	Fill        FillCategory `json:"fill"`
	Label       string       `json:"label"`
	Highlighted bool         `json:"highlighted"`
}

// EdgeSegment describes one edge to the drawing surface, endpoints already
// resolved to model-space positions.
type EdgeSegment struct {
	FromID      string    `json:"from_id"`
	ToID        string    `json:"to_id"`
	X1          float64   `json:"x1"`
	Y1          float64   `json:"y1"`
	X2          float64   `json:"x2"`
	Y2          float64   `json:"y2"`
	StrokeWidth float64   `json:"stroke_width"`
	Style       EdgeStyle `json:"style"`
	Shortcut    bool      `json:"is_shortcut"`
}

// Frame is everything the drawing surface needs for one repaint.
type Frame struct {
	Nodes []NodeDisc    `json:"nodes"`
	Edges []EdgeSegment `json:"edges"`
}

// Project maps the current solver state plus selection to draw descriptors.
// selectedID is ignored when hasSelection is false.
func Project(g *topology.Graph, s *solver.Solver, selectedID string, hasSelection bool) Frame {
	if g == nil || s == nil {
		return Frame{}
	}

	frame := Frame{
		Nodes: make([]NodeDisc, 0, len(g.Nodes)),
		Edges: make([]EdgeSegment, 0, len(g.Edges)),
	}

	for _, e := range g.Edges {
		from, ok := s.Position(e.SourceID)
		if !ok {
			continue
		}
		to, ok := s.Position(e.TargetID)
		if !ok {
			continue
		}
		frame.Edges = append(frame.Edges, EdgeSegment{
			FromID:      e.SourceID,
			ToID:        e.TargetID,
			X1:          from.X,
			Y1:          from.Y,
			X2:          to.X,
			Y2:          to.Y,
			StrokeWidth: strokeWidth(e.CallRate),
			Style:       edgeStyle(e),
			Shortcut:    e.Shortcut,
		})
	}

	for _, n := range g.Nodes {
		pos, ok := s.Position(n.ID)
		if !ok {
			continue
		}
		frame.Nodes = append(frame.Nodes, NodeDisc{
			ID:          n.ID,
			X:           pos.X,
			Y:           pos.Y,
			Radius:      n.Radius(),
			Fill:        fillCategory(n),
			Label:       truncateLabel(n.Name),
			Highlighted: hasSelection && n.ID == selectedID,
		})
	}

	return frame
}

// strokeWidth maps call rate to stroke width: one pixel per 50 calls,
// clamped to [1, 4].
func strokeWidth(callRate float64) float64 {
	w := callRate / 50
	if w < minStrokeWidth {
		return minStrokeWidth
	}
	if w > maxStrokeWidth {
		return maxStrokeWidth
	}
	return w
}

func edgeStyle(e *topology.Edge) EdgeStyle {
	if e.Shortcut {
		return StyleDashed
	}
	return StyleSolid
}

// fillCategory picks the disc color. Bottleneck wins over hub when a node
// is both.
func fillCategory(n *topology.Node) FillCategory {
	switch {
	case n.Bottleneck():
		return FillBottleneck
	case n.Hub():
		return FillHub
	default:
		return FillNormal
	}
}

// truncateLabel shortens names longer than twelve runes, appending an
// ellipsis.
func truncateLabel(name string) string {
	runes := []rune(name)
	if len(runes) <= labelMaxRunes {
		return name
	}
	return string(runes[:labelMaxRunes]) + "…"
}
