package view

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestViewport_Transforms(t *testing.T) {
	vp := NewViewport(800, 600)

	// 1:1 at start.
	lx, ly := vp.ToLogical(100, 50)
	assert.Equal(t, 100.0, lx)
	assert.Equal(t, 50.0, ly)

	sx, sy := vp.ToScreen(lx, ly)
	assert.Equal(t, 100.0, sx)
	assert.Equal(t, 50.0, sy)

	assert.Equal(t, 1.0, vp.Scale())
}

func TestViewport_Pan(t *testing.T) {
	vp := NewViewport(800, 600)
	vp.Pan(40, -30)

	// Dragging right pulls the logical origin left, so content follows
	// the pointer 1:1.
	assert.Equal(t, -40.0, vp.X)
	assert.Equal(t, 30.0, vp.Y)

	// At 2x zoom the same screen drag moves half the logical distance.
	vp = NewViewport(800, 600)
	vp.W, vp.H = 400, 300
	vp.Pan(40, 0)
	assert.Equal(t, -20.0, vp.X)
}

func TestViewport_ZoomAnchored(t *testing.T) {
	vp := NewViewport(800, 600)
	anchorX, anchorY := 200.0, 150.0
	wantLX, wantLY := vp.ToLogical(anchorX, anchorY)

	for _, delta := range []float64{1, 1, 1, -2, 5, -7} {
		vp.Zoom(anchorX, anchorY, delta)
		lx, ly := vp.ToLogical(anchorX, anchorY)
		assert.InDelta(t, wantLX, lx, 1e-9)
		assert.InDelta(t, wantLY, ly, 1e-9)
	}
}

func TestViewport_ZoomDirection(t *testing.T) {
	vp := NewViewport(800, 600)
	vp.Zoom(400, 300, 1)
	assert.Greater(t, vp.Scale(), 1.0, "scroll up zooms in")

	vp = NewViewport(800, 600)
	vp.Zoom(400, 300, -1)
	assert.Less(t, vp.Scale(), 1.0, "scroll down zooms out")
}

func TestViewport_ZoomClamped(t *testing.T) {
	vp := NewViewport(800, 600)

	for i := 0; i < 200; i++ {
		vp.Zoom(400, 300, 1)
	}
	assert.InDelta(t, 800*MinZoomFraction, vp.W, 1e-9)
	assert.InDelta(t, 600*MinZoomFraction, vp.H, 1e-9)

	for i := 0; i < 400; i++ {
		vp.Zoom(400, 300, -1)
	}
	assert.InDelta(t, 800*MaxZoomFraction, vp.W, 1e-9)
	assert.InDelta(t, 600*MaxZoomFraction, vp.H, 1e-9)
}

func TestViewport_ZoomAnchoredAtClampLimit(t *testing.T) {
	vp := NewViewport(800, 600)
	// Drive into the clamp, then check the anchor still holds.
	for i := 0; i < 50; i++ {
		vp.Zoom(200, 150, 1)
	}
	wantLX, wantLY := vp.ToLogical(200, 150)
	vp.Zoom(200, 150, 1)
	lx, ly := vp.ToLogical(200, 150)
	assert.InDelta(t, wantLX, lx, 1e-9)
	assert.InDelta(t, wantLY, ly, 1e-9)
}

func TestViewport_Fit(t *testing.T) {
	vp := NewViewport(800, 600)
	bounds := Rect{MinX: 0, MinY: 0, MaxX: 360, MaxY: 260}

	vp.Fit(bounds, 20)

	assert.Equal(t, 400.0, vp.W)
	assert.Equal(t, 300.0, vp.H)
	// Centered on the bounds.
	assert.Equal(t, 180.0-200.0, vp.X)
	assert.Equal(t, 130.0-150.0, vp.Y)
}

func TestRect(t *testing.T) {
	r := Rect{MinX: 0, MinY: 0, MaxX: 10, MaxY: 20}
	assert.Equal(t, 10.0, r.Width())
	assert.Equal(t, 20.0, r.Height())
	assert.True(t, r.Contains(5, 5))
	assert.False(t, r.Contains(11, 5))
	assert.True(t, r.Intersects(Rect{MinX: 9, MinY: 19, MaxX: 30, MaxY: 30}))
	assert.False(t, r.Intersects(Rect{MinX: 11, MinY: 0, MaxX: 30, MaxY: 30}))
}
