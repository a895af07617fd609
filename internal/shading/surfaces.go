package shading

import (
	"math"

	"github.com/go-gl/mathgl/mgl64"
	"github.com/lucasb-eyer/go-colorful"

	"github.com/litescript/ls-orrery/internal/noise"
)

// Flat is a single lit colour, used for bodies without a procedural surface.
type Flat struct {
	Color colorful.Color
}

func (Flat) Kind() Kind { return KindFlat }

func (m Flat) Shade(s Sample) colorful.Color {
	return lit(m.Color, s)
}

// Rocky blends two colours with two octaves of noise in world space.
type Rocky struct {
	Color1     colorful.Color
	Color2     colorful.Color
	NoiseScale float64
}

func (Rocky) Kind() Kind { return KindRocky }

func (m Rocky) Shade(s Sample) colorful.Color {
	n := noise.Simplex3(s.Position.Mul(m.NoiseScale))
	n2 := noise.Simplex3(s.Position.Mul(m.NoiseScale * 2))
	base := mix(m.Color1, m.Color2, smoothstep(-0.5, 0.5, n+n2*0.5))
	return lit(base, s)
}

// GasGiant draws latitudinal bands distorted by domain-warped fBm, with storm
// swirls in a third colour and a limb glow.
type GasGiant struct {
	Light     colorful.Color // light band
	Dark      colorful.Color // dark band
	Storm     colorful.Color // swirl and storm detail
	BandScale float64
}

func (GasGiant) Kind() Kind { return KindGasGiant }

const fbmOctaves = 5

func (m GasGiant) Shade(s Sample) colorful.Color {
	p := s.Position.Mul(0.05)

	q := noise.FBM(p.Add(mgl64.Vec3{0, s.Time * 0.02, 0}), fbmOctaves)
	r := noise.FBM(p.Add(mgl64.Vec3{q + 0.5, q + 0.4, q + s.Time*0.01}), fbmOctaves)
	f := noise.FBM(p.Add(mgl64.Vec3{r, r, r}), fbmOctaves)

	bandPos := s.UV[1]*m.BandScale + r*0.5
	band := smoothstep(0.2, 0.8, math.Sin(bandPos)*0.5+0.5)

	col := mix(m.Light, m.Dark, band)
	col = mix(col, m.Storm, f*f*1.5)

	spot := smoothstep(0.6, 1.0, noise.Simplex3(p.Mul(0.5)))
	col = mix(col, scale(m.Storm, 0.8), spot*0.5)

	viewAngle := math.Max(s.Normal.Dot(s.View), 0)
	limb := math.Pow(1-viewAngle, 2.5)

	return add(lit(col, s), scale(m.Light, limb*0.1))
}

// OceanCloud is the Earth surface: ocean and land split by low-frequency noise,
// with drifting cloud cover on top.
type OceanCloud struct {
	Ocean colorful.Color
	Land  colorful.Color
}

func (OceanCloud) Kind() Kind { return KindOceanCloud }

var cloudWhite = colorful.Color{R: 1, G: 1, B: 1}

func (m OceanCloud) Shade(s Sample) colorful.Color {
	u, v := s.UV[0], s.UV[1]

	cloudNoise := noise.Simplex3(mgl64.Vec3{u*6 + s.Time*0.1, v * 6, s.Time * 0.05})
	cloud := smoothstep(0.4, 0.7, cloudNoise)

	landNoise := noise.Simplex3(mgl64.Vec3{u * 3, v * 3, 0})
	base := mix(m.Ocean, m.Land, smoothstep(0.15, 0.25, landNoise))

	return lit(mix(base, cloudWhite, cloud), s)
}

// Stellar is the self-illuminated star surface. A view-dependent heat term
// ramps edge→mid→core colours and a second noise channel adds flares.
type Stellar struct {
	Core colorful.Color
	Mid  colorful.Color
	Edge colorful.Color
}

func (Stellar) Kind() Kind { return KindStellar }

var flareTint = colorful.Color{R: 0.5, G: 0.4, B: 0.2}

func (m Stellar) Shade(s Sample) colorful.Color {
	n := noise.Simplex3(s.Position.Mul(0.2).Add(mgl64.Vec3{0, 0, s.Time * 0.2}))
	n2 := noise.Simplex3(s.Position.Mul(0.4).Sub(mgl64.Vec3{s.Time * 0.1, 0, 0}))
	noiseVal := n*0.6 + n2*0.4

	viewAngle := s.Normal.Dot(s.View)
	heat := smoothstep(0, 1, viewAngle+noiseVal*0.2)

	col := mix(m.Edge, m.Mid, heat)
	col = mix(col, m.Core, smoothstep(0.8, 1.2, heat))

	return add(col, scale(flareTint, smoothstep(0.7, 1.0, n2)))
}
