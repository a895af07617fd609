// Package shading implements the procedural surface materials of the scene.
//
// Each material maps a surface sample (world position, world normal, view
// direction, sphere UV and shader time) to a colour. The star sits at the world
// origin and is the only light, so a material never needs to know about any
// other body.
package shading

import (
	"math"

	"github.com/go-gl/mathgl/mgl64"
	"github.com/lucasb-eyer/go-colorful"
)

// Kind identifies a surface material family.
type Kind int

const (
	KindFlat Kind = iota
	KindRocky
	KindGasGiant
	KindOceanCloud
	KindStellar
)

// String returns the kind name.
func (k Kind) String() string {
	switch k {
	case KindFlat:
		return "flat"
	case KindRocky:
		return "rocky"
	case KindGasGiant:
		return "gas-giant"
	case KindOceanCloud:
		return "ocean-cloud"
	case KindStellar:
		return "stellar"
	default:
		return "unknown"
	}
}

// Sample is everything a material may look at for one surface point.
type Sample struct {
	Position mgl64.Vec3 // world-space surface point
	Normal   mgl64.Vec3 // world-space unit normal
	View     mgl64.Vec3 // unit vector from the point toward the viewer
	UV       mgl64.Vec2 // sphere texture coordinates in the body's own frame
	Time     float64    // shader clock in seconds
}

// Material shades a surface sample.
type Material interface {
	Kind() Kind
	Shade(s Sample) colorful.Color
}

// Uniforms holds values shared by every material for one frame.
type Uniforms struct {
	Time float64
}

// ambient is added to the diffuse term so night sides are not pure black.
const ambient = 0.1

// diffuse returns the Lambert term for a light at the world origin.
func diffuse(s Sample) float64 {
	toLight := s.Position.Mul(-1)
	if toLight.Len() == 0 {
		return 1
	}
	return math.Max(s.Normal.Normalize().Dot(toLight.Normalize()), 0)
}

// Hex builds a colour from a 0xRRGGBB literal.
func Hex(rgb uint32) colorful.Color {
	return colorful.Color{
		R: float64(rgb>>16&0xff) / 255,
		G: float64(rgb>>8&0xff) / 255,
		B: float64(rgb&0xff) / 255,
	}
}

func smoothstep(e0, e1, x float64) float64 {
	t := (x - e0) / (e1 - e0)
	if t < 0 {
		t = 0
	} else if t > 1 {
		t = 1
	}
	return t * t * (3 - 2*t)
}

// mix blends linearly without clamping t, like the GLSL builtin.
func mix(a, b colorful.Color, t float64) colorful.Color {
	return colorful.Color{
		R: a.R + (b.R-a.R)*t,
		G: a.G + (b.G-a.G)*t,
		B: a.B + (b.B-a.B)*t,
	}
}

func scale(c colorful.Color, k float64) colorful.Color {
	return colorful.Color{R: c.R * k, G: c.G * k, B: c.B * k}
}

func add(a, b colorful.Color) colorful.Color {
	return colorful.Color{R: a.R + b.R, G: a.G + b.G, B: a.B + b.B}
}

// lit applies the shared diffuse-plus-ambient model.
func lit(c colorful.Color, s Sample) colorful.Color {
	return scale(c, diffuse(s)+ambient)
}
