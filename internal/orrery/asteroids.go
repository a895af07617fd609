package orrery

import (
	"math"
	"math/rand/v2"

	"github.com/go-gl/mathgl/mgl64"

	"github.com/litescript/ls-orrery/internal/scene"
	"github.com/litescript/ls-orrery/internal/shading"
)

// Asteroid field geometry.
const (
	BeltInner      = 145.0
	BeltWidth      = 30.0
	BeltHeight     = 12.0 // full vertical spread
	ScatterInner   = 180.0
	ScatterWidth   = 200.0
	ScatterHeight  = 60.0
	ScatterFrac    = 0.1
	AsteroidMinSz  = 1.0
	AsteroidSzSpan = 2.0
	FieldSpin      = 0.002 // rad/tick at warp 1
	DensityStep    = 200
	DefaultDensity = 1500
)

var asteroidColor = shading.Hex(0x888888)

// AsteroidField is an instanced batch of rocks that is regenerated whole
// whenever the density changes.
type AsteroidField struct {
	Node      *scene.Node
	Instances []scene.Instance
	// Scattered counts instances placed in the outer shell by the last Generate.
	Scattered int
}

// NewAsteroidField creates an empty field.
func NewAsteroidField() *AsteroidField {
	n := scene.NewMesh("asteroids", scene.Instances{})
	n.Color = asteroidColor
	return &AsteroidField{Node: n}
}

// Count returns the number of live instances.
func (f *AsteroidField) Count() int {
	return len(f.Instances)
}

// Generate discards the current batch and synthesises count new instances:
// 90% in the belt annulus, 10% in the wide high-inclination shell. count <= 0
// clears the field. The same count with an equally seeded rng yields the same
// field.
func (f *AsteroidField) Generate(count int, rng *rand.Rand) {
	f.Instances = nil
	f.Scattered = 0
	if count > 0 {
		f.Instances = make([]scene.Instance, count)
		for i := range f.Instances {
			angle := rng.Float64() * 2 * math.Pi

			var radius, y float64
			if rng.Float64() < ScatterFrac {
				radius = ScatterInner + rng.Float64()*ScatterWidth
				y = (rng.Float64() - 0.5) * ScatterHeight
				f.Scattered++
			} else {
				radius = BeltInner + rng.Float64()*BeltWidth
				y = (rng.Float64() - 0.5) * BeltHeight
			}

			f.Instances[i] = scene.Instance{
				Position: mgl64.Vec3{math.Cos(angle) * radius, y, math.Sin(angle) * radius},
				Scale:    AsteroidMinSz + rng.Float64()*AsteroidSzSpan,
				Rotation: mgl64.Vec3{
					rng.Float64() * math.Pi,
					rng.Float64() * math.Pi,
					rng.Float64() * math.Pi,
				},
			}
		}
	}
	f.Node.Shape = scene.Instances{Items: f.Instances}
	f.Node.Visible = count > 0
}

// Spin turns the whole field about Y.
func (f *AsteroidField) Spin(warp float64) {
	f.Node.Rotation[1] = WrapAngle(f.Node.Rotation[1] + FieldSpin*warp)
}
