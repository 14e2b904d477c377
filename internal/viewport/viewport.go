// Package viewport maintains the pan/zoom transform between model space and
// screen space. It never touches model coordinates: the force solver owns
// those, and the transform is applied on the way to the drawing surface.
package viewport

import "sync"

// Scale bounds and zoom step factors.
const (
	MinScale = 0.1
	MaxScale = 4.0

	zoomInFactor  = 1.5
	zoomOutFactor = 0.67
)

// Transform is a scale-then-translate mapping from model to screen space.
type Transform struct {
	Scale      float64 `json:"scale"`
	TranslateX float64 `json:"translate_x"`
	TranslateY float64 `json:"translate_y"`
}

// Controller owns the current viewport transform. It is safe for concurrent
// use: zoom commands arrive from websocket read pumps while the frame loop
// and HTTP handlers read the transform.
type Controller struct {
	mu sync.RWMutex
	t  Transform
}

// New returns a controller at identity (scale 1, no translation).
func New() *Controller {
	return &Controller{t: Transform{Scale: 1}}
}

// Transform returns the current transform.
func (c *Controller) Transform() Transform {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.t
}

// ZoomIn multiplies the scale by 1.5, clamped to MaxScale. Idempotent at
// the bound: further calls leave the scale unchanged.
func (c *Controller) ZoomIn() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.t.Scale = clampScale(c.t.Scale * zoomInFactor)
}

// ZoomOut multiplies the scale by 0.67, clamped to MinScale.
func (c *Controller) ZoomOut() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.t.Scale = clampScale(c.t.Scale * zoomOutFactor)
}

// SetScale sets the scale directly, clamped to [MinScale, MaxScale].
func (c *Controller) SetScale(target float64) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.t.Scale = clampScale(target)
}

// PanBy shifts the translation by a screen-space delta.
func (c *Controller) PanBy(dx, dy float64) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.t.TranslateX += dx
	c.t.TranslateY += dy
}

// Reset restores the identity transform.
func (c *Controller) Reset() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.t = Transform{Scale: 1}
}

// ModelToScreen maps a model-space coordinate to screen space.
func (c *Controller) ModelToScreen(x, y float64) (float64, float64) {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return x*c.t.Scale + c.t.TranslateX, y*c.t.Scale + c.t.TranslateY
}

// ScreenToModel maps a screen-space coordinate back to model space.
func (c *Controller) ScreenToModel(x, y float64) (float64, float64) {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return (x - c.t.TranslateX) / c.t.Scale, (y - c.t.TranslateY) / c.t.Scale
}

func clampScale(s float64) float64 {
	if s < MinScale {
		return MinScale
	}
	if s > MaxScale {
		return MaxScale
	}
	return s
}
