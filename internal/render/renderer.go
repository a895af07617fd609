package render

import (
	"math"
	"sort"

	"github.com/go-gl/mathgl/mgl64"
	"github.com/lucasb-eyer/go-colorful"

	"github.com/litescript/ls-orrery/internal/scene"
	"github.com/litescript/ls-orrery/internal/shading"
)

// Look of the non-body layers.
var (
	DefaultBackground = colorful.Color{R: 0.01, G: 0.01, B: 0.03}
	gridColor         = shading.Hex(0x0f2236)
	starColor         = colorful.Color{R: 1, G: 1, B: 1}
)

const (
	gridSpacing   = 8    // pixels between grid lines
	thinAnnulus   = 1.0  // annuli this narrow are drawn as lines
	trackSegments = 128  // polyline segments per orbit track
	minLineAlpha  = 0.25 // faint lines vanish on a terminal otherwise
)

// Options control one render pass.
type Options struct {
	Grid       bool
	Background colorful.Color
}

type sphereItem struct {
	node   *scene.Node
	center mgl64.Vec3
	radius float64
	inv    mgl64.Mat4
}

type annulusItem struct {
	node  *scene.Node
	world mgl64.Mat4
	inv   mgl64.Mat4
	shape scene.Annulus
}

type layer struct {
	t       float64
	color   colorful.Color
	opacity float64
}

// Renderer rasterizes a scene graph. It keeps scratch buffers between frames
// and is not safe for concurrent use.
type Renderer struct {
	depth []float64

	spheres   []sphereItem
	annuli    []annulusItem
	tracks    []annulusItem
	points    []*scene.Node
	instances []*scene.Node
	streaks   []*scene.Node
	layers    []layer
}

// NewRenderer creates a renderer.
func NewRenderer() *Renderer {
	return &Renderer{}
}

// Render draws root as seen from cam into f.
func (r *Renderer) Render(f *Frame, root *scene.Node, cam *scene.Camera, u shading.Uniforms, opt Options) {
	f.Clear(opt.Background)
	if f.W == 0 || f.H == 0 {
		return
	}
	if cap(r.depth) < len(f.Pix) {
		r.depth = make([]float64, len(f.Pix))
	}
	r.depth = r.depth[:len(f.Pix)]
	for i := range r.depth {
		r.depth[i] = math.Inf(1)
	}

	r.collect(root)
	r.traceSurfaces(f, cam, u, opt)
	for _, n := range r.points {
		r.drawPoints(f, cam, n)
	}
	for _, n := range r.instances {
		r.drawInstances(f, cam, n)
	}
	for _, n := range r.streaks {
		r.drawStreak(f, cam, n)
	}
	for _, a := range r.tracks {
		r.drawTrack(f, cam, a)
	}
}

// collect sorts the visible nodes by how they are drawn.
func (r *Renderer) collect(root *scene.Node) {
	r.spheres = r.spheres[:0]
	r.annuli = r.annuli[:0]
	r.tracks = r.tracks[:0]
	r.points = r.points[:0]
	r.instances = r.instances[:0]
	r.streaks = r.streaks[:0]

	if root == nil || !root.IsVisible() {
		return
	}
	root.Walk(func(n *scene.Node) bool {
		if !n.Visible {
			return false
		}
		switch s := n.Shape.(type) {
		case scene.Sphere:
			m := n.WorldMatrix()
			r.spheres = append(r.spheres, sphereItem{
				node:   n,
				center: m.Col(3).Vec3(),
				radius: s.Radius * n.WorldScale(),
				inv:    m.Inv(),
			})
		case scene.Annulus:
			m := n.WorldMatrix()
			a := annulusItem{node: n, world: m, inv: m.Inv(), shape: s}
			if s.Outer-s.Inner <= thinAnnulus {
				r.tracks = append(r.tracks, a)
			} else {
				r.annuli = append(r.annuli, a)
			}
		case scene.Points:
			r.points = append(r.points, n)
		case scene.Instances:
			r.instances = append(r.instances, n)
		case scene.Streak:
			r.streaks = append(r.streaks, n)
		}
		return true
	})
}

func pixelNDC(x, y, w, h int) mgl64.Vec2 {
	return mgl64.Vec2{
		(float64(x)+0.5)/float64(w)*2 - 1,
		1 - (float64(y)+0.5)/float64(h)*2,
	}
}

func (r *Renderer) background(x, y int, opt Options) colorful.Color {
	if opt.Grid && (x%gridSpacing == 0 || y%gridSpacing == 0) {
		return gridColor
	}
	return opt.Background
}

// traceSurfaces ray traces spheres and wide annuli: the nearest opaque sphere
// is shaded, then translucent hits in front of it are blended far to near.
func (r *Renderer) traceSurfaces(f *Frame, cam *scene.Camera, u shading.Uniforms, opt Options) {
	if len(r.spheres) == 0 && len(r.annuli) == 0 && !opt.Grid {
		return
	}
	_, _, forward := cam.Basis()

	for y := 0; y < f.H; y++ {
		for x := 0; x < f.W; x++ {
			ray := cam.Ray(pixelNDC(x, y, f.W, f.H))
			col := r.background(x, y, opt)

			nearest := math.Inf(1)
			var hit *sphereItem
			for i := range r.spheres {
				s := &r.spheres[i]
				if s.node.BackSide || s.node.Opacity < 1 {
					continue
				}
				near, _, ok := scene.IntersectSphere(ray, s.center, s.radius)
				if ok && near > 0 && near < nearest {
					nearest, hit = near, s
				}
			}
			if hit != nil {
				col = shadeSphere(hit, ray, nearest, u)
				r.depth[y*f.W+x] = nearest * ray.Dir.Dot(forward)
			}

			r.layers = r.layers[:0]
			for i := range r.spheres {
				s := &r.spheres[i]
				if !s.node.BackSide && s.node.Opacity >= 1 {
					continue
				}
				near, far, ok := scene.IntersectSphere(ray, s.center, s.radius)
				if !ok {
					continue
				}
				t := near
				if s.node.BackSide {
					t = far
				}
				if t > 0 && t < nearest {
					r.layers = append(r.layers, layer{t: t, color: s.node.Color, opacity: s.node.Opacity})
				}
			}
			for i := range r.annuli {
				a := &r.annuli[i]
				if t, ok := intersectAnnulus(ray, a); ok && t < nearest {
					r.layers = append(r.layers, layer{t: t, color: a.node.Color, opacity: a.node.Opacity})
				}
			}
			if len(r.layers) > 0 {
				sort.Slice(r.layers, func(i, j int) bool { return r.layers[i].t > r.layers[j].t })
				for _, l := range r.layers {
					col = col.BlendRgb(l.color, l.opacity)
				}
			}
			f.Pix[y*f.W+x] = col
		}
	}
}

// intersectAnnulus is scene.IntersectAnnulus with the inverse matrix cached
// for the whole frame. The local ray keeps the world ray's parametrization,
// so the local hit parameter is the world distance.
func intersectAnnulus(ray scene.Ray, a *annulusItem) (float64, bool) {
	o := a.inv.Mul4x1(ray.Origin.Vec4(1)).Vec3()
	d := a.inv.Mul4x1(ray.Dir.Vec4(0)).Vec3()
	if math.Abs(d[2]) < 1e-12 {
		return 0, false
	}
	t := -o[2] / d[2]
	if t <= 0 {
		return 0, false
	}
	p := o.Add(d.Mul(t))
	rad := math.Hypot(p[0], p[1])
	if rad < a.shape.Inner || rad > a.shape.Outer {
		return 0, false
	}
	return t, true
}

func shadeSphere(s *sphereItem, ray scene.Ray, t float64, u shading.Uniforms) colorful.Color {
	p := ray.At(t)
	n := p.Sub(s.center).Normalize()
	if s.node.Material == nil {
		return s.node.Color
	}
	local := s.inv.Mul4x1(n.Vec4(0)).Vec3()
	if local.Len() > 0 {
		local = local.Normalize()
	}
	return s.node.Material.Shade(shading.Sample{
		Position: p,
		Normal:   n,
		View:     ray.Dir.Mul(-1),
		UV:       SphereUV(local),
		Time:     u.Time,
	})
}

// SphereUV maps a unit direction in a sphere's own frame to texture
// coordinates: u runs once around the equator, v from the south pole (0) to
// the north pole (1).
func SphereUV(d mgl64.Vec3) mgl64.Vec2 {
	phi := math.Atan2(d[2], -d[0])
	if phi < 0 {
		phi += 2 * math.Pi
	}
	theta := math.Acos(math.Max(-1, math.Min(1, d[1])))
	return mgl64.Vec2{phi / (2 * math.Pi), 1 - theta/math.Pi}
}

// toPixel maps NDC to continuous pixel coordinates.
func toPixel(ndc mgl64.Vec2, w, h int) (float64, float64) {
	return (ndc[0] + 1) / 2 * float64(w), (1 - ndc[1]) / 2 * float64(h)
}

func (r *Renderer) visible(f *Frame, x, y int, depth float64) bool {
	if x < 0 || y < 0 || x >= f.W || y >= f.H {
		return false
	}
	return depth < r.depth[y*f.W+x]
}

func (r *Renderer) drawPoints(f *Frame, cam *scene.Camera, n *scene.Node) {
	pts := n.Shape.(scene.Points)
	m := n.WorldMatrix()
	for i, p := range pts.Positions {
		world := m.Mul4x1(p.Vec4(1)).Vec3()
		ndc, depth, ok := cam.Project(world)
		if !ok {
			continue
		}
		fx, fy := toPixel(ndc, f.W, f.H)
		x, y := int(fx), int(fy)
		if !r.visible(f, x, y, depth) {
			continue
		}
		b := 1.0
		if i < len(pts.Brightness) {
			b = pts.Brightness[i]
		}
		c := f.At(x, y)
		star := colorful.Color{R: starColor.R * b, G: starColor.G * b, B: starColor.B * b}
		f.Set(x, y, colorful.Color{
			R: math.Max(c.R, star.R),
			G: math.Max(c.G, star.G),
			B: math.Max(c.B, star.B),
		})
	}
}

// drawInstances draws each rock as a small lit disc.
func (r *Renderer) drawInstances(f *Frame, cam *scene.Camera, n *scene.Node) {
	inst := n.Shape.(scene.Instances)
	m := n.WorldMatrix()
	scale := n.WorldScale()
	focal := cam.FocalPixels(f.H)
	right, up, forward := cam.Basis()
	surface := shading.Flat{Color: n.Color}

	for _, it := range inst.Items {
		world := m.Mul4x1(it.Position.Vec4(1)).Vec3()
		ndc, depth, ok := cam.Project(world)
		if !ok {
			continue
		}
		cx, cy := toPixel(ndc, f.W, f.H)
		rad := it.Scale * scale * focal / depth
		if rad < 0.5 {
			rad = 0.5
		}
		for y := int(cy - rad); y <= int(cy+rad); y++ {
			for x := int(cx - rad); x <= int(cx+rad); x++ {
				dx := (float64(x) + 0.5 - cx) / rad
				dy := (float64(y) + 0.5 - cy) / rad
				d2 := dx*dx + dy*dy
				if d2 > 1 && rad > 0.5 {
					continue
				}
				if !r.visible(f, x, y, depth) {
					continue
				}
				nz := math.Sqrt(math.Max(0, 1-d2))
				normal := right.Mul(dx).Sub(up.Mul(dy)).Sub(forward.Mul(nz))
				if normal.Len() > 0 {
					normal = normal.Normalize()
				}
				f.Set(x, y, surface.Shade(shading.Sample{Position: world, Normal: normal}))
				r.depth[y*f.W+x] = depth
			}
		}
	}
}

func (r *Renderer) drawStreak(f *Frame, cam *scene.Camera, n *scene.Node) {
	st := n.Shape.(scene.Streak)
	m := n.WorldMatrix()
	head := m.Col(3).Vec3()
	dir := m.Mul4x1(st.Direction.Vec4(0)).Vec3()
	if dir.Len() == 0 {
		return
	}
	tail := head.Sub(dir.Normalize().Mul(st.Length * n.WorldScale()))

	h, hd, ok1 := cam.Project(head)
	t, td, ok2 := cam.Project(tail)
	if !ok1 || !ok2 {
		return
	}
	hx, hy := toPixel(h, f.W, f.H)
	tx, ty := toPixel(t, f.W, f.H)
	r.line(f, tx, ty, td, hx, hy, hd, n.Color, 0, math.Max(n.Opacity, minLineAlpha))
}

func (r *Renderer) drawTrack(f *Frame, cam *scene.Camera, a annulusItem) {
	mid := (a.shape.Inner + a.shape.Outer) / 2
	alpha := math.Max(a.node.Opacity, minLineAlpha)

	var px, py, pd float64
	var prevOK bool
	for i := 0; i <= trackSegments; i++ {
		th := 2 * math.Pi * float64(i) / trackSegments
		local := mgl64.Vec4{mid * math.Cos(th), mid * math.Sin(th), 0, 1}
		world := a.world.Mul4x1(local).Vec3()
		ndc, depth, ok := cam.Project(world)
		var x, y float64
		if ok {
			x, y = toPixel(ndc, f.W, f.H)
			if prevOK {
				r.line(f, px, py, pd, x, y, depth, a.node.Color, alpha, alpha)
			}
		}
		px, py, pd, prevOK = x, y, depth, ok
	}
}

// line blends a depth-tested segment into f without writing depth. Alpha
// and depth are interpolated from the first endpoint to the second.
func (r *Renderer) line(f *Frame, x0, y0, d0, x1, y1, d1 float64, c colorful.Color, a0, a1 float64) {
	steps := int(math.Ceil(math.Max(math.Abs(x1-x0), math.Abs(y1-y0))))
	if steps > 4*(f.W+f.H) {
		// Degenerate projection close to the camera plane.
		return
	}
	if steps == 0 {
		steps = 1
	}
	lastX, lastY := -1, -1
	for i := 0; i <= steps; i++ {
		k := float64(i) / float64(steps)
		x := int(x0 + (x1-x0)*k)
		y := int(y0 + (y1-y0)*k)
		if x == lastX && y == lastY {
			continue
		}
		lastX, lastY = x, y
		if !r.visible(f, x, y, d0+(d1-d0)*k) {
			continue
		}
		f.Set(x, y, f.At(x, y).BlendRgb(c, a0+(a1-a0)*k))
	}
}
