package scene

import (
	"math"
	"sort"

	"github.com/go-gl/mathgl/mgl64"
)

// Ray is a half line with a unit direction.
type Ray struct {
	Origin mgl64.Vec3
	Dir    mgl64.Vec3
}

// At returns the point at distance t along the ray.
func (r Ray) At(t float64) mgl64.Vec3 {
	return r.Origin.Add(r.Dir.Mul(t))
}

// Hit is one ray intersection.
type Hit struct {
	Node     *Node
	Distance float64
	Point    mgl64.Vec3
	Normal   mgl64.Vec3
}

// IntersectSphere returns the near and far ray parameters where r crosses the
// sphere, or ok=false on a miss.
func IntersectSphere(r Ray, center mgl64.Vec3, radius float64) (near, far float64, ok bool) {
	oc := r.Origin.Sub(center)
	b := oc.Dot(r.Dir)
	c := oc.Dot(oc) - radius*radius
	disc := b*b - c
	if disc < 0 {
		return 0, 0, false
	}
	sq := math.Sqrt(disc)
	return -b - sq, -b + sq, true
}

// IntersectAnnulus intersects r with an annulus lying in the local XY plane of
// world matrix m. It returns the ray parameter and the world normal facing the
// ray origin.
func IntersectAnnulus(r Ray, m mgl64.Mat4, a Annulus) (t float64, normal mgl64.Vec3, ok bool) {
	inv := m.Inv()
	o := inv.Mul4x1(r.Origin.Vec4(1)).Vec3()
	d := inv.Mul4x1(r.Dir.Vec4(0)).Vec3()
	if math.Abs(d[2]) < 1e-12 {
		return 0, mgl64.Vec3{}, false
	}
	lt := -o[2] / d[2]
	if lt <= 0 {
		return 0, mgl64.Vec3{}, false
	}
	lp := o.Add(d.Mul(lt))
	rad := math.Hypot(lp[0], lp[1])
	if rad < a.Inner || rad > a.Outer {
		return 0, mgl64.Vec3{}, false
	}

	world := m.Mul4x1(lp.Vec4(1)).Vec3()
	t = world.Sub(r.Origin).Len()
	normal = m.Mul4x1(mgl64.Vec3{0, 0, 1}.Vec4(0)).Vec3().Normalize()
	if normal.Dot(r.Dir) > 0 {
		normal = normal.Mul(-1)
	}
	return t, normal, true
}

// Intersect casts r against nodes. With recursive set, descendants are tested
// as well. Only visible Sphere and Annulus nodes can be hit. Results are sorted
// nearest first.
func Intersect(r Ray, nodes []*Node, recursive bool) []Hit {
	var hits []Hit
	test := func(n *Node) bool {
		if !n.IsVisible() {
			return false
		}
		if h, ok := intersectNode(r, n); ok {
			hits = append(hits, h)
		}
		return recursive
	}
	for _, n := range nodes {
		n.Walk(test)
	}
	sort.Slice(hits, func(i, j int) bool { return hits[i].Distance < hits[j].Distance })
	return hits
}

func intersectNode(r Ray, n *Node) (Hit, bool) {
	switch s := n.Shape.(type) {
	case Sphere:
		center := n.WorldPosition()
		near, far, ok := IntersectSphere(r, center, s.Radius*n.WorldScale())
		if !ok {
			return Hit{}, false
		}
		t := near
		if t < 0 {
			t = far
		}
		if t < 0 {
			return Hit{}, false
		}
		p := r.At(t)
		return Hit{Node: n, Distance: t, Point: p, Normal: p.Sub(center).Normalize()}, true
	case Annulus:
		t, normal, ok := IntersectAnnulus(r, n.WorldMatrix(), s)
		if !ok {
			return Hit{}, false
		}
		return Hit{Node: n, Distance: t, Point: r.At(t), Normal: normal}, true
	}
	return Hit{}, false
}
