package handler

import (
	"encoding/json"
	"log"

	"smallworld/internal/engine"
	"smallworld/internal/interact"
)

// Inbound websocket message envelope. Type selects the payload fields.
type inboundMessage struct {
	Type string `json:"type"` // "pointer" | "zoom" | "select" | "resize"

	// pointer
	Kind string  `json:"kind,omitempty"` // "down" | "move" | "up"
	X    float64 `json:"x,omitempty"`
	Y    float64 `json:"y,omitempty"`

	// zoom
	Op string `json:"op,omitempty"` // "in" | "out" | "reset"

	// select
	ID string `json:"id,omitempty"`

	// resize
	Width  float64 `json:"width,omitempty"`
	Height float64 `json:"height,omitempty"`
}

// Dispatch decodes one inbound websocket message and applies it to the
// view. Unknown message types are logged and dropped.
func Dispatch(view *engine.View, data []byte) {
	var msg inboundMessage
	if err := json.Unmarshal(data, &msg); err != nil {
		log.Printf("Invalid client message: %v", err)
		return
	}

	switch msg.Type {
	case "pointer":
		kind, ok := pointerKind(msg.Kind)
		if !ok {
			log.Printf("Unknown pointer kind %q", msg.Kind)
			return
		}
		view.Pointer(interact.PointerEvent{Kind: kind, X: msg.X, Y: msg.Y})

	case "zoom":
		switch msg.Op {
		case "in":
			view.Viewport().ZoomIn()
		case "out":
			view.Viewport().ZoomOut()
		case "reset":
			view.Viewport().Reset()
		default:
			log.Printf("Unknown zoom op %q", msg.Op)
		}

	case "select":
		if msg.ID == "" {
			view.ClearSelection()
		} else {
			view.Select(msg.ID)
		}

	case "resize":
		view.SetSize(msg.Width, msg.Height)

	default:
		log.Printf("Unknown message type %q", msg.Type)
	}
}

func pointerKind(s string) (interact.EventKind, bool) {
	switch s {
	case "down":
		return interact.PointerDown, true
	case "move":
		return interact.PointerMove, true
	case "up":
		return interact.PointerUp, true
	}
	return 0, false
}
