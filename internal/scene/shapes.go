package scene

import "github.com/go-gl/mathgl/mgl64"

// Shape is the geometry attached to a node. Concrete shapes are plain values.
type Shape interface {
	shape()
}

// Sphere is centred on the node origin.
type Sphere struct {
	Radius float64
}

// Annulus is a flat ring in the node's local XY plane.
type Annulus struct {
	Inner float64
	Outer float64
}

// Instance is one copy of an instanced shape, in the owning node's frame.
type Instance struct {
	Position mgl64.Vec3
	Scale    float64
	Rotation mgl64.Vec3
}

// Instances draws many small rocks sharing one look.
type Instances struct {
	Items []Instance
}

// Points is a cloud of unlit single-pixel points with per-point brightness.
type Points struct {
	Positions  []mgl64.Vec3
	Brightness []float64
}

// Streak is a line trailing behind the node origin along -Direction.
type Streak struct {
	Direction mgl64.Vec3
	Length    float64
}

func (Sphere) shape()    {}
func (Annulus) shape()   {}
func (Instances) shape() {}
func (Points) shape()    {}
func (Streak) shape()    {}
