// Package input turns pointer positions and hand landmarks into scene
// intents: picked bodies, rotation targets and zoom deltas.
package input

import (
	"math"

	"github.com/go-gl/mathgl/mgl64"

	"github.com/litescript/ls-orrery/internal/gesture"
	"github.com/litescript/ls-orrery/internal/orrery"
	"github.com/litescript/ls-orrery/internal/scene"
)

// Gesture mapping constants.
const (
	GestureScale  = 1.5
	PitchOffset   = 0.2
	PinchClose    = 0.05 // below: zoom out
	PinchOpen     = 0.12 // above: zoom in
	PinchZoomStep = 5.0
	WheelZoomStep = 20.0
	DragScale     = 0.01 // rotation target change per cell dragged
)

// PixelToNDC maps a pixel position on a w × h surface to normalized device
// coordinates: x right, y up, both in [-1, 1].
func PixelToNDC(px, py float64, w, h int) mgl64.Vec2 {
	if w <= 0 || h <= 0 {
		return mgl64.Vec2{}
	}
	return mgl64.Vec2{
		2*px/float64(w) - 1,
		1 - 2*py/float64(h),
	}
}

// Pick is a pointer hit resolved to a body.
type Pick struct {
	Body     *orrery.Body
	Node     *scene.Node // the node actually hit (may be a ring or glow)
	Point    mgl64.Vec3
	Distance float64
}

// PickAt casts a ray through ndc and returns the nearest hit among the
// interactables and their descendants, resolved to the body that owns it.
func PickAt(cam *scene.Camera, ndc mgl64.Vec2, interactables []*scene.Node) (Pick, bool) {
	ray := cam.Ray(ndc)
	for _, h := range scene.Intersect(ray, interactables, true) {
		if b := orrery.BodyOf(h.Node); b != nil {
			return Pick{Body: b, Node: h.Node, Point: h.Point, Distance: h.Distance}, true
		}
	}
	return Pick{}, false
}

// GestureUpdate is what one tracker frame asks of the scene.
type GestureUpdate struct {
	HasRotation bool
	RotX        float64
	RotZ        float64
	Zoom        float64 // positive moves the camera away
	Pinch       float64 // thumb to index distance
}

// MapGesture maps the first tracked hand. Rotation targets come from the
// wrist to middle-finger-base vector and are only produced when gyro is on.
// Zoom comes from the thumb to index pinch regardless of gyro. ok is false
// when no full hand is present.
func MapGesture(res gesture.Result, gyro bool) (GestureUpdate, bool) {
	hand, ok := res.FirstHand()
	if !ok {
		return GestureUpdate{}, false
	}

	var u GestureUpdate
	if gyro {
		wrist, mcp := hand[gesture.Wrist], hand[gesture.MiddleMCP]
		u.HasRotation = true
		u.RotX = (wrist.Y - mcp.Y - PitchOffset) * GestureScale
		u.RotZ = (wrist.X - mcp.X) * GestureScale
	}

	thumb, index := hand[gesture.ThumbTip], hand[gesture.IndexTip]
	u.Pinch = math.Hypot(thumb.X-index.X, thumb.Y-index.Y)
	switch {
	case u.Pinch < PinchClose:
		u.Zoom = PinchZoomStep
	case u.Pinch > PinchOpen:
		u.Zoom = -PinchZoomStep
	}
	return u, true
}

// DragDelta converts a pointer drag of dx, dy cells into rotation target
// changes: vertical drags pitch, horizontal drags roll.
func DragDelta(dx, dy float64) (rotX, rotZ float64) {
	return dy * DragScale, dx * DragScale
}

// WheelZoom returns the zoom delta for one wheel notch. Wheel up zooms in.
func WheelZoom(up bool) float64 {
	if up {
		return -WheelZoomStep
	}
	return WheelZoomStep
}
