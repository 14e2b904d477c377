// Package handler implements the HTTP layer of the serve command: frame and
// position endpoints plus middleware. Interactive traffic (pointer events,
// zoom commands) arrives over the websocket hub instead; see Dispatch.
package handler

import (
	"context"
	"encoding/json"
	"log"
	"net/http"

	"smallworld/internal/engine"
	"smallworld/internal/repository"
	"smallworld/internal/solver"
)

// ErrorResponse is the JSON error body.
type ErrorResponse struct {
	Error   string `json:"error"`
	Details string `json:"details,omitempty"`
}

// ViewHandler exposes the engine view over HTTP.
type ViewHandler struct {
	view *engine.View
	repo repository.Repository
}

// NewViewHandler creates a handler around a running view. repo may be nil
// when persistence is disabled.
func NewViewHandler(view *engine.View, repo repository.Repository) *ViewHandler {
	return &ViewHandler{view: view, repo: repo}
}

// GetFrame returns the current projected frame.
func (h *ViewHandler) GetFrame(w http.ResponseWriter, r *http.Request) {
	h.writeJSON(w, h.view.Frame(), http.StatusOK)
}

// GetState returns solver and viewport status.
func (h *ViewHandler) GetState(w http.ResponseWriter, r *http.Request) {
	id, ok := h.view.Selection()
	resp := struct {
		Solver    string      `json:"solver"`
		Selection *string     `json:"selection"`
		Viewport  interface{} `json:"viewport"`
	}{
		Solver:   h.view.SolverState().String(),
		Viewport: h.view.Viewport().Transform(),
	}
	if ok {
		resp.Selection = &id
	}
	h.writeJSON(w, resp, http.StatusOK)
}

// GetPositions returns the current model-space node positions.
func (h *ViewHandler) GetPositions(w http.ResponseWriter, r *http.Request) {
	h.writeJSON(w, h.view.Positions(), http.StatusOK)
}

// SavePositions persists the current layout.
func (h *ViewHandler) SavePositions(w http.ResponseWriter, r *http.Request) {
	if h.repo == nil {
		h.writeError(w, "Persistence disabled", "no repository configured", http.StatusConflict)
		return
	}

	positions := h.view.Positions()
	records := make([]repository.Position, 0, len(positions))
	for id, pos := range positions {
		records = append(records, repository.Position{NodeID: id, X: pos.X, Y: pos.Y})
	}

	if err := h.repo.SavePositions(r.Context(), records); err != nil {
		log.Printf("Failed to save positions: %v", err)
		h.writeError(w, "Failed to save positions", err.Error(), http.StatusInternalServerError)
		return
	}

	h.writeJSON(w, map[string]int{"saved": len(records)}, http.StatusOK)
}

// RestorePositions seeds the solver from persisted positions.
func (h *ViewHandler) RestorePositions(w http.ResponseWriter, r *http.Request) {
	if h.repo == nil {
		h.writeError(w, "Persistence disabled", "no repository configured", http.StatusConflict)
		return
	}

	n, err := Restore(r.Context(), h.view, h.repo)
	if err != nil {
		log.Printf("Failed to load positions: %v", err)
		h.writeError(w, "Failed to load positions", err.Error(), http.StatusInternalServerError)
		return
	}

	h.writeJSON(w, map[string]int{"restored": n}, http.StatusOK)
}

// Restore seeds a view from the repository and returns the number of
// positions applied.
func Restore(ctx context.Context, view *engine.View, repo repository.Repository) (int, error) {
	records, err := repo.LoadPositions(ctx)
	if err != nil {
		return 0, err
	}
	seed := make(map[string]solver.Vec, len(records))
	for _, p := range records {
		seed[p.NodeID] = solver.Vec{X: p.X, Y: p.Y}
	}
	view.SeedPositions(seed)
	return len(seed), nil
}

func (h *ViewHandler) writeJSON(w http.ResponseWriter, v interface{}, status int) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		log.Printf("Failed to encode response: %v", err)
	}
}

func (h *ViewHandler) writeError(w http.ResponseWriter, msg, details string, status int) {
	h.writeJSON(w, ErrorResponse{Error: msg, Details: details}, status)
}
