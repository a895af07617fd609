package orrery

import (
	"math"

	"github.com/litescript/ls-orrery/internal/scene"
	"github.com/litescript/ls-orrery/internal/shading"
)

// Ring, track and glow look.
var (
	ringColor  = shading.Hex(0xcbb7b0)
	trackColor = shading.Hex(0xffffff)
	glowColor  = shading.Hex(0xffaa00)
)

const (
	ringInner    = 1.4 // × body radius
	ringOuter    = 2.2
	ringTilt     = math.Pi / 2.2
	ringOpacity  = 0.8
	trackHalf    = 0.5
	trackOpacity = 0.1
	glowRadius   = 32
	glowOpacity  = 0.3
)

// NewBody builds a body from spec with its mesh inside a fresh orbit group.
// Bodies away from the centre also get an orbit track, and bodies whose
// surface asks for rings get a ring owned by the mesh. The material is chosen
// here, once, from the body name.
func NewBody(spec BodySpec, angle float64) *Body {
	surface := shading.Lookup(spec.Name, spec.Fallback)

	b := &Body{
		Name:             spec.Name,
		Radius:           spec.Size,
		OrbitalDistance:  spec.Distance,
		OrbitalSpeed:     spec.Speed,
		SelfRotationRate: DefaultSelfRotationRate,
		Material:         surface.Material,
		Meta:             Metadata{DisplayName: spec.Name, Age: spec.Age},
	}

	b.Mesh = scene.NewMesh(spec.Name, scene.Sphere{Radius: spec.Size})
	b.Mesh.Material = surface.Material
	b.Mesh.Color = spec.Fallback
	b.Mesh.Position[0] = spec.Distance
	b.Mesh.Data = b

	b.Orbit = scene.NewNode(spec.Name + "/orbit")
	b.Orbit.Add(b.Mesh)

	if spec.Distance > 0 {
		b.Track = scene.NewMesh(spec.Name+"/track", scene.Annulus{
			Inner: math.Max(0, spec.Distance-trackHalf),
			Outer: spec.Distance + trackHalf,
		})
		b.Track.Rotation[0] = math.Pi / 2
		b.Track.Color = trackColor
		b.Track.Opacity = trackOpacity
	}

	if surface.Rings {
		b.Ring = scene.NewMesh(spec.Name+"/ring", scene.Annulus{
			Inner: spec.Size * ringInner,
			Outer: spec.Size * ringOuter,
		})
		b.Ring.Rotation[0] = ringTilt
		b.Ring.Color = ringColor
		b.Ring.Opacity = ringOpacity
		b.Mesh.Add(b.Ring)
	}

	b.SetAngle(angle)
	return b
}

// newMoon builds a moon nested in host's mesh. It inherits the host's orbit
// and spin through the scene graph and never advances on its own.
func newMoon(spec BodySpec, host *Body) *Body {
	surface := shading.Lookup(spec.Name, spec.Fallback)
	m := &Body{
		Name:            spec.Name,
		Radius:          spec.Size,
		OrbitalDistance: MoonOffset,
		Material:        surface.Material,
		Meta:            Metadata{DisplayName: spec.Name, Age: spec.Age},
	}
	m.Mesh = scene.NewMesh(spec.Name, scene.Sphere{Radius: spec.Size})
	m.Mesh.Material = surface.Material
	m.Mesh.Color = spec.Fallback
	m.Mesh.Position[0] = MoonOffset
	m.Mesh.Data = m
	host.Mesh.Add(m.Mesh)
	return m
}

// attachGlow gives the sun its translucent back-face shell.
func attachGlow(sun *Body) {
	g := scene.NewMesh(sun.Name+"/glow", scene.Sphere{Radius: glowRadius})
	g.Color = glowColor
	g.Opacity = glowOpacity
	g.BackSide = true
	sun.Glow = g
	sun.Mesh.Add(g)
}

// Pulse sets the sun's breathing scale for shader time t in seconds.
func (b *Body) Pulse(t float64) {
	b.Mesh.Scale = 1 + 0.05*math.Sin(2*t)
}
