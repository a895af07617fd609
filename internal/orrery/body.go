// Package orrery holds the celestial bodies of the scene and moves them.
//
// Bodies are built once by Build and never recreated. Each body owns an orbit
// group node whose Y rotation is the body's orbital angle; the body mesh sits
// at local x = OrbitalDistance inside that group, so advancing the angle is all
// it takes to move the body (and anything nested in its mesh, like the moon).
package orrery

import (
	"math"

	"github.com/go-gl/mathgl/mgl64"

	"github.com/litescript/ls-orrery/internal/scene"
	"github.com/litescript/ls-orrery/internal/shading"
)

// DefaultSelfRotationRate is the per-tick spin of every body mesh.
const DefaultSelfRotationRate = 0.01

// Metadata is what the tooltip shows for a body.
type Metadata struct {
	DisplayName string
	Age         string
}

// Body is a sun, planet or moon.
type Body struct {
	Name             string
	Radius           float64
	OrbitalDistance  float64
	OrbitalSpeed     float64 // rad/tick at warp 1
	OrbitalAngle     float64 // always in [0, 2π)
	SelfRotationRate float64 // rad/tick, independent of warp

	Material shading.Material
	Meta     Metadata

	Mesh  *scene.Node
	Orbit *scene.Node // orbit group; Y rotation == OrbitalAngle
	Track *scene.Node // orbit track ring, nil for the sun and the moon
	Ring  *scene.Node // optional planetary ring
	Glow  *scene.Node // optional glow shell (sun)
}

// IsSun reports whether b sits at the centre of the system.
func (b *Body) IsSun() bool {
	return b.OrbitalDistance == 0
}

// WorldPosition returns the current world-space centre of the body.
func (b *Body) WorldPosition() mgl64.Vec3 {
	return b.Mesh.WorldPosition()
}

// WorldRadius returns the radius including any scale on the mesh chain.
func (b *Body) WorldRadius() float64 {
	return b.Radius * b.Mesh.WorldScale()
}

// SetAngle sets the orbital angle and syncs the orbit group.
func (b *Body) SetAngle(angle float64) {
	b.OrbitalAngle = WrapAngle(angle)
	if b.Orbit != nil {
		b.Orbit.Rotation[1] = b.OrbitalAngle
	}
}

// Advance moves the body one tick: the orbital angle by speed × warp and the
// mesh spin by SelfRotationRate.
func (b *Body) Advance(warp float64) {
	b.SetAngle(b.OrbitalAngle + b.OrbitalSpeed*warp)
	if b.Mesh != nil {
		b.Mesh.Rotation[1] = WrapAngle(b.Mesh.Rotation[1] + b.SelfRotationRate)
	}
}

// Advance moves every non-sun body one tick.
func Advance(bodies []*Body, warp float64) {
	for _, b := range bodies {
		if b.IsSun() {
			continue
		}
		b.Advance(warp)
	}
}

// WrapAngle maps a into [0, 2π). Non-finite input maps to 0.
func WrapAngle(a float64) float64 {
	if math.IsNaN(a) || math.IsInf(a, 0) {
		return 0
	}
	a = math.Mod(a, 2*math.Pi)
	if a < 0 {
		a += 2 * math.Pi
	}
	if a >= 2*math.Pi {
		a = 0
	}
	return a
}

// BodyOf returns the body a scene node belongs to by walking up the node
// chain to the first node carrying a *Body. It returns nil when none does.
func BodyOf(n *scene.Node) *Body {
	for p := n; p != nil; p = p.Parent() {
		if b, ok := p.Data.(*Body); ok {
			return b
		}
	}
	return nil
}
