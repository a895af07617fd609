// Package noise provides deterministic procedural noise used by surface shading.
//
// Everything here is a pure function of its inputs: there is no seed and no
// hidden state, so the same sample point always yields the same value.
package noise

import (
	"math"

	"github.com/go-gl/mathgl/mgl64"
)

// Simplex3 returns 3D simplex gradient noise at v, roughly in [-1, 1].
//
// The lattice hashing uses the mod-289 permutation polynomial so results match
// the common GPU formulation bit for bit up to float64 precision.
func Simplex3(v mgl64.Vec3) float64 {
	const (
		cx = 1.0 / 6.0
		cy = 1.0 / 3.0
	)

	// Skew into the simplex lattice and find the base corner.
	s := (v[0] + v[1] + v[2]) * cy
	i := mgl64.Vec3{math.Floor(v[0] + s), math.Floor(v[1] + s), math.Floor(v[2] + s)}
	t := (i[0] + i[1] + i[2]) * cx
	x0 := mgl64.Vec3{v[0] - i[0] + t, v[1] - i[1] + t, v[2] - i[2] + t}

	// Rank the components to pick the traversal order through the simplex.
	g := mgl64.Vec3{step(x0[1], x0[0]), step(x0[2], x0[1]), step(x0[0], x0[2])}
	l := mgl64.Vec3{1 - g[0], 1 - g[1], 1 - g[2]}
	lzxy := mgl64.Vec3{l[2], l[0], l[1]}
	i1 := mgl64.Vec3{math.Min(g[0], lzxy[0]), math.Min(g[1], lzxy[1]), math.Min(g[2], lzxy[2])}
	i2 := mgl64.Vec3{math.Max(g[0], lzxy[0]), math.Max(g[1], lzxy[1]), math.Max(g[2], lzxy[2])}

	x1 := x0.Sub(i1).Add(mgl64.Vec3{cx, cx, cx})
	x2 := x0.Sub(i2).Add(mgl64.Vec3{cy, cy, cy})
	x3 := x0.Sub(mgl64.Vec3{0.5, 0.5, 0.5})

	i = mgl64.Vec3{mod289(i[0]), mod289(i[1]), mod289(i[2])}

	var p [4]float64
	zs := [4]float64{0, i1[2], i2[2], 1}
	ys := [4]float64{0, i1[1], i2[1], 1}
	xs := [4]float64{0, i1[0], i2[0], 1}
	for k := 0; k < 4; k++ {
		h := permute(i[2] + zs[k])
		h = permute(h + i[1] + ys[k])
		p[k] = permute(h + i[0] + xs[k])
	}

	// Map the hash onto gradients distributed over an octahedron.
	const n = 1.0 / 7.0
	ns := mgl64.Vec3{2 * n, 0.5*n - 1, n}

	var grads [4]mgl64.Vec3
	for k := 0; k < 4; k++ {
		j := p[k] - 49*math.Floor(p[k]*ns[2]*ns[2])
		xf := math.Floor(j * ns[2])
		yf := math.Floor(j - 7*xf)
		gx := xf*ns[0] + ns[1]
		gy := yf*ns[0] + ns[1]
		gh := 1 - math.Abs(gx) - math.Abs(gy)

		sx := math.Floor(gx)*2 + 1
		sy := math.Floor(gy)*2 + 1
		var sh float64
		if gh <= 0 {
			sh = -1
		}
		grads[k] = mgl64.Vec3{gx + sx*sh, gy + sy*sh, gh}
	}

	for k := range grads {
		grads[k] = grads[k].Mul(taylorInvSqrt(grads[k].Dot(grads[k])))
	}

	corners := [4]mgl64.Vec3{x0, x1, x2, x3}
	var sum float64
	for k, c := range corners {
		m := math.Max(0.6-c.Dot(c), 0)
		m *= m
		sum += m * m * grads[k].Dot(c)
	}
	return 42 * sum
}

// FBM sums octaves of simplex noise with halving amplitude and doubling frequency.
func FBM(p mgl64.Vec3, octaves int) float64 {
	var value float64
	amplitude := 0.5
	for i := 0; i < octaves; i++ {
		value += amplitude * Simplex3(p)
		p = p.Mul(2)
		amplitude *= 0.5
	}
	return value
}

func mod289(x float64) float64 {
	return x - math.Floor(x*(1.0/289.0))*289.0
}

func permute(x float64) float64 {
	return mod289((x*34 + 1) * x)
}

func taylorInvSqrt(r float64) float64 {
	return 1.79284291400159 - 0.85373472095314*r
}

// step returns 0 when x < edge and 1 otherwise.
func step(edge, x float64) float64 {
	if x < edge {
		return 0
	}
	return 1
}
