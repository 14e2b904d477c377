// Package repository defines persistence for laid-out node positions, so a
// converged layout survives process restarts instead of re-relaxing from
// scratch every time.
package repository

import "context"

// Position is one persisted node position.
type Position struct {
	NodeID string  `json:"node_id"`
	X      float64 `json:"x"`
	Y      float64 `json:"y"`
	Pinned bool    `json:"pinned"`
}

// Repository stores and retrieves node positions keyed by node id.
type Repository interface {
	// SavePositions upserts the given positions.
	SavePositions(ctx context.Context, positions []Position) error

	// LoadPositions returns all stored positions.
	LoadPositions(ctx context.Context) ([]Position, error)

	// DeletePositions removes positions for the given node ids, typically
	// after a topology rebuild dropped them.
	DeletePositions(ctx context.Context, nodeIDs []string) error

	// Clear removes all stored positions.
	Clear(ctx context.Context) error

	// Close releases underlying resources.
	Close() error
}
