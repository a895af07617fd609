package scene

import (
	"math"

	"github.com/go-gl/mathgl/mgl64"
)

// Camera is a perspective camera looking from Position toward Target.
type Camera struct {
	Position mgl64.Vec3
	Target   mgl64.Vec3
	Up       mgl64.Vec3

	FovY   float64 // vertical field of view in degrees
	Aspect float64
	Near   float64
	Far    float64
}

// NewPerspective creates a camera at the origin looking down -Z.
func NewPerspective(fovY, aspect, near, far float64) *Camera {
	return &Camera{
		Target: mgl64.Vec3{0, 0, -1},
		Up:     mgl64.Vec3{0, 1, 0},
		FovY:   fovY,
		Aspect: aspect,
		Near:   near,
		Far:    far,
	}
}

// LookAt points the camera at t.
func (c *Camera) LookAt(t mgl64.Vec3) {
	c.Target = t
}

// SetViewport recomputes the aspect ratio for a width × height pixel surface.
func (c *Camera) SetViewport(width, height int) {
	if width <= 0 || height <= 0 {
		return
	}
	c.Aspect = float64(width) / float64(height)
}

// Distance returns the distance from the camera to its look target.
func (c *Camera) Distance() float64 {
	return c.Position.Sub(c.Target).Len()
}

// Forward returns the unit view direction.
func (c *Camera) Forward() mgl64.Vec3 {
	f := c.Target.Sub(c.Position)
	if f.Len() == 0 {
		return mgl64.Vec3{0, 0, -1}
	}
	return f.Normalize()
}

// Basis returns the camera's right, up and forward unit vectors. When the view
// direction is parallel to Up (looking straight down from a top view) the
// world -Z axis stands in for up.
func (c *Camera) Basis() (right, up, forward mgl64.Vec3) {
	forward = c.Forward()
	worldUp := c.Up
	if worldUp.Len() == 0 {
		worldUp = mgl64.Vec3{0, 1, 0}
	}
	right = forward.Cross(worldUp)
	if right.Len() < 1e-9 {
		right = forward.Cross(mgl64.Vec3{0, 0, -1})
	}
	right = right.Normalize()
	up = right.Cross(forward).Normalize()
	return right, up, forward
}

// View returns the world-to-camera matrix.
func (c *Camera) View() mgl64.Mat4 {
	_, up, _ := c.Basis()
	return mgl64.LookAtV(c.Position, c.Target, up)
}

// Projection returns the perspective projection matrix.
func (c *Camera) Projection() mgl64.Mat4 {
	return mgl64.Perspective(mgl64.DegToRad(c.FovY), c.Aspect, c.Near, c.Far)
}

// ViewProjection returns Projection × View.
func (c *Camera) ViewProjection() mgl64.Mat4 {
	return c.Projection().Mul4(c.View())
}

// Project maps a world point to normalized device coordinates. ok is false for
// points behind the camera or outside the near/far range. The returned depth is
// the distance along the view axis.
func (c *Camera) Project(p mgl64.Vec3) (ndc mgl64.Vec2, depth float64, ok bool) {
	clip := c.ViewProjection().Mul4x1(p.Vec4(1))
	// Clip w is the eye-space depth for a perspective matrix.
	depth = clip.W()
	if depth < c.Near || depth > c.Far {
		return mgl64.Vec2{}, depth, false
	}
	return mgl64.Vec2{clip.X() / depth, clip.Y() / depth}, depth, true
}

// FocalPixels returns how many pixels one world unit spans at depth 1 for a
// surface of the given pixel height.
func (c *Camera) FocalPixels(heightPx int) float64 {
	tanHalf := math.Tan(mgl64.DegToRad(c.FovY) / 2)
	return float64(heightPx) / (2 * tanHalf)
}

// Ray returns the world-space ray through a point in normalized device coordinates.
func (c *Camera) Ray(ndc mgl64.Vec2) Ray {
	inv := c.ViewProjection().Inv()
	near := inv.Mul4x1(mgl64.Vec4{ndc[0], ndc[1], -1, 1})
	far := inv.Mul4x1(mgl64.Vec4{ndc[0], ndc[1], 1, 1})
	dir := far.Vec3().Mul(1 / far.W()).Sub(near.Vec3().Mul(1 / near.W()))
	if dir.Len() == 0 {
		return Ray{Origin: c.Position, Dir: c.Forward()}
	}
	return Ray{Origin: c.Position, Dir: dir.Normalize()}
}
