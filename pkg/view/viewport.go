// Package view owns the pan/zoom viewport, the pointer-driven interaction
// state machine, and the grouping model. All screen<->logical coordinate
// conversion lives here; nothing else in the module does transform math.
package view

import "math"

// Zoom limits: the logical viewport width and height are each clamped to
// this range as a fraction of their initial size.
const (
	MinZoomFraction = 0.10
	MaxZoomFraction = 8.0
)

// zoomBase controls how much one wheel step changes the scale.
const zoomBase = 1.1

// Rect is an axis-aligned rectangle in logical space.
type Rect struct {
	MinX, MinY, MaxX, MaxY float64
}

// Width returns the rectangle width.
func (r Rect) Width() float64 { return r.MaxX - r.MinX }

// Height returns the rectangle height.
func (r Rect) Height() float64 { return r.MaxY - r.MinY }

// Intersects reports whether r and o overlap.
func (r Rect) Intersects(o Rect) bool {
	return r.MinX <= o.MaxX && o.MinX <= r.MaxX &&
		r.MinY <= o.MaxY && o.MinY <= r.MaxY
}

// Contains reports whether the point (x, y) lies inside r.
func (r Rect) Contains(x, y float64) bool {
	return x >= r.MinX && x <= r.MaxX && y >= r.MinY && y <= r.MaxY
}

// Viewport maps a logical rectangle onto a fixed screen rectangle.
type Viewport struct {
	X, Y, W, H float64 // visible logical rect

	screenW, screenH float64
	initW, initH     float64
}

// NewViewport creates a viewport showing logical space 1:1 at the given
// screen size.
func NewViewport(screenW, screenH float64) *Viewport {
	return &Viewport{
		W: screenW, H: screenH,
		screenW: screenW, screenH: screenH,
		initW: screenW, initH: screenH,
	}
}

// ScreenW returns the screen width the viewport maps onto.
func (v *Viewport) ScreenW() float64 { return v.screenW }

// ScreenH returns the screen height the viewport maps onto.
func (v *Viewport) ScreenH() float64 { return v.screenH }

// Scale returns the current zoom factor (screen pixels per logical unit).
func (v *Viewport) Scale() float64 {
	return v.screenW / v.W
}

// ToLogical converts screen coordinates to logical coordinates.
func (v *Viewport) ToLogical(sx, sy float64) (float64, float64) {
	return v.X + sx/v.screenW*v.W, v.Y + sy/v.screenH*v.H
}

// ToScreen converts logical coordinates to screen coordinates.
func (v *Viewport) ToScreen(lx, ly float64) (float64, float64) {
	return (lx - v.X) / v.W * v.screenW, (ly - v.Y) / v.H * v.screenH
}

// Pan translates the viewport so panning feels 1:1 at any zoom: a screen
// delta moves the origin by the equivalent logical delta, negated.
func (v *Viewport) Pan(dxScreen, dyScreen float64) {
	v.X -= dxScreen * v.W / v.screenW
	v.Y -= dyScreen * v.H / v.screenH
}

// Zoom rescales the viewport anchored on the screen point (sx, sy): the
// logical point under the cursor stays under the cursor. Positive delta
// (scroll up) zooms in. Width and height are clamped independently, and
// the anchor is re-applied after clamping so the cursor point stays fixed
// even at the limits.
func (v *Viewport) Zoom(sx, sy, delta float64) {
	lx, ly := v.ToLogical(sx, sy)

	factor := math.Pow(zoomBase, -delta)
	newW := clamp(v.W*factor, v.initW*MinZoomFraction, v.initW*MaxZoomFraction)
	newH := clamp(v.H*factor, v.initH*MinZoomFraction, v.initH*MaxZoomFraction)

	v.W, v.H = newW, newH
	v.X = lx - sx/v.screenW*newW
	v.Y = ly - sy/v.screenH*newH
}

// Fit moves and resizes the viewport to show bounds plus a margin,
// subject to the zoom clamps.
func (v *Viewport) Fit(bounds Rect, margin float64) {
	w := clamp(bounds.Width()+2*margin, v.initW*MinZoomFraction, v.initW*MaxZoomFraction)
	h := clamp(bounds.Height()+2*margin, v.initH*MinZoomFraction, v.initH*MaxZoomFraction)
	cx := (bounds.MinX + bounds.MaxX) / 2
	cy := (bounds.MinY + bounds.MaxY) / 2
	v.W, v.H = w, h
	v.X = cx - w/2
	v.Y = cy - h/2
}

func clamp(val, lo, hi float64) float64 {
	if val < lo {
		return lo
	}
	if val > hi {
		return hi
	}
	return val
}
