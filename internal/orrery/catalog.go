package orrery

import (
	"fmt"
	"math"

	"github.com/lucasb-eyer/go-colorful"

	"github.com/litescript/ls-orrery/internal/shading"
)

// BodySpec describes a body before it is built.
type BodySpec struct {
	Name     string
	Size     float64
	Fallback colorful.Color
	Distance float64
	Speed    float64
	Age      string
}

// Validate checks the registry invariants for a single body.
func (s BodySpec) Validate() error {
	switch {
	case s.Name == "":
		return fmt.Errorf("%w: empty name", ErrInvalidBody)
	case !(s.Size > 0):
		return fmt.Errorf("%w: %s: size %v must be positive", ErrInvalidBody, s.Name, s.Size)
	case s.Distance < 0 || math.IsNaN(s.Distance) || math.IsInf(s.Distance, 0):
		return fmt.Errorf("%w: %s: distance %v", ErrInvalidBody, s.Name, s.Distance)
	case math.IsNaN(s.Speed) || math.IsInf(s.Speed, 0):
		return fmt.Errorf("%w: %s: speed %v", ErrInvalidBody, s.Name, s.Speed)
	}
	return nil
}

// Sun is the default star.
var Sun = BodySpec{Name: "Sun", Size: 30, Fallback: shading.Hex(0xffdd00), Age: "4.603 Billion Years"}

// Planets is the default planet list, innermost first.
var Planets = []BodySpec{
	{Name: "Mercury", Size: 4, Fallback: shading.Hex(0xaaaaaa), Distance: 50, Speed: 0.02, Age: "4.503 Billion Years"},
	{Name: "Venus", Size: 7, Fallback: shading.Hex(0xeecaa0), Distance: 70, Speed: 0.015, Age: "4.503 Billion Years"},
	{Name: "Earth", Size: 8, Fallback: shading.Hex(0x22aaff), Distance: 100, Speed: 0.01, Age: "4.543 Billion Years"},
	{Name: "Mars", Size: 6, Fallback: shading.Hex(0xdd4422), Distance: 130, Speed: 0.008, Age: "4.603 Billion Years"},
	{Name: "Jupiter", Size: 18, Fallback: shading.Hex(0xdcb178), Distance: 180, Speed: 0.004, Age: "4.603 Billion Years"},
	{Name: "Saturn", Size: 15, Fallback: shading.Hex(0xf4d03f), Distance: 230, Speed: 0.003, Age: "4.503 Billion Years"},
	{Name: "Uranus", Size: 10, Fallback: shading.Hex(0x73fcd6), Distance: 270, Speed: 0.002, Age: "4.503 Billion Years"},
	{Name: "Neptune", Size: 10, Fallback: shading.Hex(0x4b70dd), Distance: 310, Speed: 0.001, Age: "4.503 Billion Years"},
}

// Moon orbits inside Earth's mesh at MoonOffset.
var Moon = BodySpec{Name: "Moon", Size: 2, Fallback: shading.Hex(0xeeeeee), Age: "4.53 Billion Years"}

// MoonOffset is the moon's local x inside its host mesh.
const MoonOffset = 15

// MoonHost names the planet that carries the moon.
const MoonHost = "Earth"

// DefaultBodies returns the sun followed by the planets.
func DefaultBodies() []BodySpec {
	specs := make([]BodySpec, 0, len(Planets)+1)
	specs = append(specs, Sun)
	return append(specs, Planets...)
}
