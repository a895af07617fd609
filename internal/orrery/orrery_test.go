package orrery

import (
	"errors"
	"math"
	"math/rand/v2"
	"testing"

	"github.com/go-gl/mathgl/mgl64"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/litescript/ls-orrery/internal/shading"
)

func seeded(seed uint64) *rand.Rand {
	return rand.New(rand.NewPCG(seed, seed^0x9e3779b97f4a7c15))
}

func buildDefault(t *testing.T) *System {
	t.Helper()
	sys, err := Build(DefaultBuildConfig(), seeded(1))
	require.NoError(t, err)
	return sys
}

func TestWrapAngle(t *testing.T) {
	tests := []struct {
		in, want float64
	}{
		{0, 0},
		{1, 1},
		{2 * math.Pi, 0},
		{2*math.Pi + 0.5, 0.5},
		{-0.5, 2*math.Pi - 0.5},
		{-4 * math.Pi, 0},
		{math.NaN(), 0},
		{math.Inf(1), 0},
	}
	for _, tt := range tests {
		got := WrapAngle(tt.in)
		assert.InDelta(t, tt.want, got, 1e-12, "WrapAngle(%v)", tt.in)
		assert.GreaterOrEqual(t, got, 0.0)
		assert.Less(t, got, 2*math.Pi)
	}
}

func TestEarthEndToEnd(t *testing.T) {
	sys := buildDefault(t)
	earth := sys.Body("Earth")
	require.NotNil(t, earth)
	earth.SetAngle(0)

	for i := 0; i < 100; i++ {
		Advance(sys.Orbiting(), 1)
	}
	assert.InDelta(t, 1.0, earth.OrbitalAngle, 1e-9)

	for i := 0; i < 10; i++ {
		Advance(sys.Orbiting(), 10)
	}
	assert.InDelta(t, 2.0, earth.OrbitalAngle, 1e-9)
	assert.InDelta(t, earth.OrbitalAngle, earth.Orbit.Rotation[1], 1e-12)
}

func TestAdvanceMatchesClosedForm(t *testing.T) {
	for _, warp := range []float64{1, 10} {
		sys := buildDefault(t)
		initial := make(map[string]float64)
		for _, p := range sys.Planets {
			initial[p.Name] = p.OrbitalAngle
		}

		const n = 750
		for i := 0; i < n; i++ {
			Advance(sys.Orbiting(), warp)
		}
		for _, p := range sys.Planets {
			want := WrapAngle(initial[p.Name] + n*p.OrbitalSpeed*warp)
			diff := math.Abs(p.OrbitalAngle - want)
			diff = math.Min(diff, 2*math.Pi-diff)
			assert.Less(t, diff, 1e-9, "%s at warp %v", p.Name, warp)
		}
		assert.Zero(t, sys.Sun.OrbitalAngle, "the sun never orbits")
	}
}

func TestSelfRotationIgnoresWarp(t *testing.T) {
	a := NewBody(Planets[2], 0)
	b := NewBody(Planets[2], 0)
	for i := 0; i < 10; i++ {
		a.Advance(1)
		b.Advance(10)
	}
	assert.InDelta(t, 0.1, a.Mesh.Rotation[1], 1e-12)
	assert.InDelta(t, a.Mesh.Rotation[1], b.Mesh.Rotation[1], 1e-12)
	assert.InDelta(t, 0.1, a.OrbitalAngle, 1e-12)
	assert.InDelta(t, 1.0, b.OrbitalAngle, 1e-12)
}

func TestBuildDefault(t *testing.T) {
	sys := buildDefault(t)

	require.NotNil(t, sys.Sun)
	assert.Equal(t, "Sun", sys.Sun.Name)
	assert.Len(t, sys.Planets, 8)
	require.NotNil(t, sys.Moon)
	assert.Len(t, sys.Interactables, 10)
	assert.Len(t, sys.Bodies(), 10)

	for _, p := range sys.Planets {
		assert.NotEqual(t, "Moon", p.Name, "the moon is never a top-level planet")
		assert.GreaterOrEqual(t, p.OrbitalAngle, 0.0)
		assert.Less(t, p.OrbitalAngle, 2*math.Pi)
		require.NotNil(t, p.Track, p.Name)
		assert.Same(t, sys.Root, p.Orbit.Parent())
	}

	assert.Equal(t, shading.KindStellar, sys.Sun.Material.Kind())
	require.NotNil(t, sys.Sun.Glow)
	assert.Nil(t, sys.Sun.Track)

	saturn := sys.Body("Saturn")
	require.NotNil(t, saturn.Ring)
	assert.Same(t, saturn.Mesh, saturn.Ring.Parent())
	assert.Nil(t, sys.Body("Jupiter").Ring)

	assert.Equal(t, DefaultDensity, sys.Asteroids.Count())
	assert.Same(t, sys.Root, sys.Asteroids.Node.Parent())
	assert.Same(t, sys.Scene, sys.Dust.Parent())
	assert.Same(t, sys.Scene, sys.Stars.Parent())
}

func TestMoonFollowsEarth(t *testing.T) {
	sys := buildDefault(t)
	earth := sys.Body("Earth")
	moon := sys.Moon
	assert.Same(t, earth.Mesh, moon.Mesh.Parent())

	for i := 0; i < 37; i++ {
		Advance(sys.Orbiting(), 10)
		d := moon.WorldPosition().Sub(earth.WorldPosition()).Len()
		assert.InDelta(t, MoonOffset, d, 1e-9)
	}
}

func TestBuildRejectsBadRegistries(t *testing.T) {
	noSun := Planets
	twoSuns := append([]BodySpec{Sun, {Name: "Sun2", Size: 5}}, Planets...)
	dup := append(DefaultBodies(), Planets[0])
	bad := append(DefaultBodies(), BodySpec{Name: "Rogue", Size: 0, Distance: 10})

	tests := []struct {
		name   string
		bodies []BodySpec
		want   error
	}{
		{"no sun", noSun, ErrNoSun},
		{"two suns", twoSuns, ErrMultipleSuns},
		{"duplicate", dup, ErrInvalidBody},
		{"zero radius", bad, ErrInvalidBody},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := DefaultBuildConfig()
			cfg.Bodies = tt.bodies
			sys, err := Build(cfg, seeded(1))
			assert.Nil(t, sys)
			assert.True(t, errors.Is(err, tt.want), "got %v, want %v", err, tt.want)
		})
	}
}

func TestBodyOfResolvesNestedNodes(t *testing.T) {
	sys := buildDefault(t)
	saturn := sys.Body("Saturn")
	assert.Same(t, saturn, BodyOf(saturn.Ring))
	assert.Same(t, sys.Sun, BodyOf(sys.Sun.Glow))
	assert.Same(t, sys.Moon, BodyOf(sys.Moon.Mesh))
	assert.Nil(t, BodyOf(sys.Root))
}

func TestSunPulse(t *testing.T) {
	sys := buildDefault(t)
	sys.Sun.Pulse(math.Pi / 4)
	assert.InDelta(t, 1.05, sys.Sun.Mesh.Scale, 1e-12)
	sys.Sun.Pulse(0)
	assert.InDelta(t, 1.0, sys.Sun.Mesh.Scale, 1e-12)
	assert.InDelta(t, 30*1.0, sys.Sun.WorldRadius(), 1e-12)
}

func TestAsteroidFieldReproducible(t *testing.T) {
	a := NewAsteroidField()
	b := NewAsteroidField()
	a.Generate(1200, seeded(42))
	b.Generate(1200, seeded(42))
	require.Len(t, a.Instances, 1200)
	assert.Equal(t, a.Instances, b.Instances)

	c := NewAsteroidField()
	c.Generate(1200, seeded(43))
	assert.NotEqual(t, a.Instances, c.Instances)
}

func TestAsteroidFieldSplitAndBounds(t *testing.T) {
	const n = 5000
	f := NewAsteroidField()
	f.Generate(n, seeded(7))

	scattered := 0
	for _, in := range f.Instances {
		r := math.Hypot(in.Position[0], in.Position[2])
		y := in.Position[1]
		if r >= ScatterInner {
			scattered++
			assert.Less(t, r, ScatterInner+ScatterWidth+1e-9)
			assert.LessOrEqual(t, math.Abs(y), ScatterHeight/2)
		} else {
			assert.GreaterOrEqual(t, r, BeltInner-1e-9)
			assert.Less(t, r, BeltInner+BeltWidth+1e-9)
			assert.LessOrEqual(t, math.Abs(y), BeltHeight/2)
		}
		assert.GreaterOrEqual(t, in.Scale, AsteroidMinSz)
		assert.Less(t, in.Scale, AsteroidMinSz+AsteroidSzSpan)
		for _, a := range in.Rotation {
			assert.GreaterOrEqual(t, a, 0.0)
			assert.Less(t, a, math.Pi)
		}
	}
	assert.Equal(t, f.Scattered, scattered)
	frac := float64(scattered) / n
	assert.InDelta(t, 0.1, frac, 0.02, "scattered fraction %v", frac)
}

func TestAsteroidFieldClear(t *testing.T) {
	f := NewAsteroidField()
	f.Generate(300, seeded(1))
	require.Equal(t, 300, f.Count())

	f.Generate(0, seeded(1))
	assert.Zero(t, f.Count())
	assert.False(t, f.Node.Visible)

	f.Generate(-200, seeded(1))
	assert.Zero(t, f.Count())

	f.Generate(200, seeded(1))
	assert.Equal(t, 200, f.Count())
	assert.True(t, f.Node.Visible)
}

func TestAsteroidFieldSpin(t *testing.T) {
	f := NewAsteroidField()
	f.Spin(1)
	f.Spin(10)
	assert.InDelta(t, 0.022, f.Node.Rotation[1], 1e-12)
}

func TestCometSpawn(t *testing.T) {
	sys := buildDefault(t)
	c := sys.Comets.Spawn(seeded(3))

	assert.Equal(t, CometLife, c.Life)
	assert.LessOrEqual(t, math.Abs(c.Position[0]), 400.0)
	assert.LessOrEqual(t, math.Abs(c.Position[1]), 200.0)
	assert.LessOrEqual(t, math.Abs(c.Position[2]), 400.0)
	speed := c.Velocity.Len()
	assert.GreaterOrEqual(t, speed, 4.0)
	assert.Less(t, speed, 9.0)
	assert.Same(t, sys.Scene, c.Node.Parent())
}

func TestCometPrunedByLife(t *testing.T) {
	sys := buildDefault(t)
	swarm := sys.Comets
	c := swarm.Spawn(seeded(5))
	c.Velocity = mgl64.Vec3{}

	for i := 0; i < CometLife-1; i++ {
		swarm.Advance()
	}
	require.Len(t, swarm.Live, 1)
	assert.Equal(t, 1, c.Life)

	swarm.Advance()
	assert.Empty(t, swarm.Live)
	assert.Nil(t, c.Node.Parent())
	assert.Equal(t, 1, swarm.Pruned())
}

func TestCometPrunedByBounds(t *testing.T) {
	swarm := NewCometSwarm(nil)
	c := swarm.Spawn(seeded(9))
	c.Position = mgl64.Vec3{CometBound - 1, 0, 0}
	c.Velocity = mgl64.Vec3{5, 0, 0}

	swarm.Advance()
	assert.Empty(t, swarm.Live)
}

func TestCometSwarmNeverGrowsUnbounded(t *testing.T) {
	swarm := NewCometSwarm(nil)
	rng := seeded(11)
	for i := 0; i < 20000; i++ {
		swarm.Step(rng)
		assert.LessOrEqual(t, len(swarm.Live), CometLife)
	}
	assert.Positive(t, swarm.Spawned())
	assert.Equal(t, swarm.Spawned(), swarm.Pruned()+len(swarm.Live))
}
