// Package scene provides a small scene graph, a perspective camera and ray
// casting against the graph.
//
// Every node has at most one parent. Adding a node to a new parent detaches it
// from the old one, so ownership is always exclusive and a node's world
// transform is the product of the local transforms up its parent chain.
package scene

import (
	"github.com/go-gl/mathgl/mgl64"
	"github.com/lucasb-eyer/go-colorful"

	"github.com/litescript/ls-orrery/internal/shading"
)

// Node is one element of the scene graph.
type Node struct {
	Name     string
	Position mgl64.Vec3
	Rotation mgl64.Vec3 // Euler angles in radians, applied X then Y then Z
	Scale    float64    // uniform scale
	Visible  bool

	// Shape is the node's geometry; nil for pure groups.
	Shape Shape

	// Material shades Sphere shapes. Other shapes use Color.
	Material shading.Material
	Color    colorful.Color
	Opacity  float64 // 1 is opaque
	BackSide bool    // render only back faces (glow shells)

	// Data carries caller metadata, e.g. the body a mesh belongs to.
	Data any

	parent   *Node
	children []*Node
}

// NewNode creates a visible, unit-scale group node.
func NewNode(name string) *Node {
	return &Node{
		Name:    name,
		Scale:   1,
		Visible: true,
		Opacity: 1,
	}
}

// NewMesh creates a node with geometry.
func NewMesh(name string, shape Shape) *Node {
	n := NewNode(name)
	n.Shape = shape
	return n
}

// Parent returns the owning node, or nil for a root.
func (n *Node) Parent() *Node {
	return n.parent
}

// Children returns the node's children. The slice must not be modified.
func (n *Node) Children() []*Node {
	return n.children
}

// Add attaches child to n, detaching it from any previous parent first.
func (n *Node) Add(child *Node) {
	if child == nil || child == n {
		return
	}
	if child.parent != nil {
		child.parent.Remove(child)
	}
	child.parent = n
	n.children = append(n.children, child)
}

// Remove detaches child from n. It is a no-op if child is not a direct child.
func (n *Node) Remove(child *Node) {
	for i, c := range n.children {
		if c == child {
			n.children = append(n.children[:i], n.children[i+1:]...)
			child.parent = nil
			return
		}
	}
}

// LocalMatrix returns translation × rotation × scale for this node alone.
func (n *Node) LocalMatrix() mgl64.Mat4 {
	rot := mgl64.HomogRotate3DX(n.Rotation[0]).
		Mul4(mgl64.HomogRotate3DY(n.Rotation[1])).
		Mul4(mgl64.HomogRotate3DZ(n.Rotation[2]))
	s := n.Scale
	if s == 0 {
		s = 1
	}
	return mgl64.Translate3D(n.Position[0], n.Position[1], n.Position[2]).
		Mul4(rot).
		Mul4(mgl64.Scale3D(s, s, s))
}

// WorldMatrix chains local matrices from the root down to n.
func (n *Node) WorldMatrix() mgl64.Mat4 {
	m := n.LocalMatrix()
	for p := n.parent; p != nil; p = p.parent {
		m = p.LocalMatrix().Mul4(m)
	}
	return m
}

// WorldPosition returns the node origin in world space.
func (n *Node) WorldPosition() mgl64.Vec3 {
	return n.WorldMatrix().Col(3).Vec3()
}

// WorldScale returns the accumulated uniform scale.
func (n *Node) WorldScale() float64 {
	s := 1.0
	for p := n; p != nil; p = p.parent {
		if p.Scale != 0 {
			s *= p.Scale
		}
	}
	return s
}

// IsVisible reports whether n and all of its ancestors are visible.
func (n *Node) IsVisible() bool {
	for p := n; p != nil; p = p.parent {
		if !p.Visible {
			return false
		}
	}
	return true
}

// Walk visits n and its descendants depth first. Returning false from fn skips
// the node's children.
func (n *Node) Walk(fn func(*Node) bool) {
	if !fn(n) {
		return
	}
	for _, c := range n.children {
		c.Walk(fn)
	}
}

// Find returns the first descendant (or n itself) with the given name.
func (n *Node) Find(name string) *Node {
	var found *Node
	n.Walk(func(c *Node) bool {
		if found != nil {
			return false
		}
		if c.Name == name {
			found = c
			return false
		}
		return true
	})
	return found
}
