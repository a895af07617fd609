package orrery

import (
	"errors"
	"fmt"
	"math"
	"math/rand/v2"

	"github.com/go-gl/mathgl/mgl64"

	"github.com/litescript/ls-orrery/internal/astro"
	"github.com/litescript/ls-orrery/internal/scene"
)

// Registry errors.
var (
	ErrNoSun        = errors.New("no body at orbital distance 0")
	ErrMultipleSuns = errors.New("more than one body at orbital distance 0")
	ErrInvalidBody  = errors.New("invalid body")
)

// BuildConfig controls system assembly.
type BuildConfig struct {
	Bodies     []BodySpec // must contain exactly one body at distance 0
	WithMoon   bool       // nest the moon inside MoonHost
	Density    int        // initial asteroid count
	DustCount  int        // background dust points
	DustExtent float64    // half width of the dust cube
	StarRadius float64    // radius of the bright-star shell, 0 disables it
	Stars      astro.StarCatalog
}

// DefaultBuildConfig returns the stock solar system.
func DefaultBuildConfig() BuildConfig {
	return BuildConfig{
		Bodies:     DefaultBodies(),
		WithMoon:   true,
		Density:    DefaultDensity,
		DustCount:  2000,
		DustExtent: 1000,
		StarRadius: 1500,
		Stars:      astro.DefaultStarCatalog(),
	}
}

// System is the assembled scene.
type System struct {
	// Scene is the top-level node. It owns Root, the backdrop and comets.
	Scene *scene.Node
	// Root is the tilting solar-system group.
	Root *scene.Node

	Sun     *Body
	Planets []*Body // orbiting bodies, innermost first; never the moon
	Moon    *Body   // nil when built without a moon

	// Interactables are the pickable meshes: sun, planets and moon.
	Interactables []*scene.Node

	Asteroids *AsteroidField
	Comets    *CometSwarm
	Dust      *scene.Node
	Stars     *scene.Node
}

// Build validates the body list and assembles the scene graph. Initial
// orbital angles are drawn uniformly from [0, 2π) using rng.
func Build(cfg BuildConfig, rng *rand.Rand) (*System, error) {
	if err := validateBodies(cfg.Bodies); err != nil {
		return nil, fmt.Errorf("build system: %w", err)
	}

	sys := &System{
		Scene: scene.NewNode("scene"),
		Root:  scene.NewNode("system"),
	}
	sys.Scene.Add(sys.Root)

	for _, spec := range cfg.Bodies {
		b := NewBody(spec, rng.Float64()*2*math.Pi)
		sys.Root.Add(b.Orbit)
		if b.Track != nil {
			sys.Root.Add(b.Track)
		}
		sys.Interactables = append(sys.Interactables, b.Mesh)
		if b.IsSun() {
			// The sun does not orbit.
			b.SetAngle(0)
			attachGlow(b)
			sys.Sun = b
			continue
		}
		sys.Planets = append(sys.Planets, b)
	}

	if cfg.WithMoon {
		if host := sys.Body(MoonHost); host != nil {
			sys.Moon = newMoon(Moon, host)
			sys.Interactables = append(sys.Interactables, sys.Moon.Mesh)
		}
	}

	sys.Asteroids = NewAsteroidField()
	sys.Asteroids.Generate(cfg.Density, rng)
	sys.Root.Add(sys.Asteroids.Node)

	sys.Dust = newDust(cfg.DustCount, cfg.DustExtent, rng)
	sys.Scene.Add(sys.Dust)
	if cfg.StarRadius > 0 && len(cfg.Stars.Stars) > 0 {
		pos, bright := cfg.Stars.Shell(cfg.StarRadius)
		sys.Stars = scene.NewMesh("stars", scene.Points{Positions: pos, Brightness: bright})
		sys.Scene.Add(sys.Stars)
	}

	sys.Comets = NewCometSwarm(sys.Scene)
	return sys, nil
}

func validateBodies(specs []BodySpec) error {
	suns := 0
	seen := make(map[string]bool, len(specs))
	for _, s := range specs {
		if err := s.Validate(); err != nil {
			return err
		}
		if seen[s.Name] {
			return fmt.Errorf("%w: duplicate name %q", ErrInvalidBody, s.Name)
		}
		seen[s.Name] = true
		if s.Distance == 0 {
			suns++
		}
	}
	switch {
	case suns == 0:
		return ErrNoSun
	case suns > 1:
		return fmt.Errorf("%w: found %d", ErrMultipleSuns, suns)
	}
	return nil
}

func newDust(count int, extent float64, rng *rand.Rand) *scene.Node {
	pos := make([]mgl64.Vec3, count)
	bright := make([]float64, count)
	for i := range pos {
		pos[i] = mgl64.Vec3{
			(rng.Float64()*2 - 1) * extent,
			(rng.Float64()*2 - 1) * extent,
			(rng.Float64()*2 - 1) * extent,
		}
		bright[i] = 0.2 + rng.Float64()*0.4
	}
	return scene.NewMesh("dust", scene.Points{Positions: pos, Brightness: bright})
}

// Body returns the sun, planet or moon with the given name, or nil.
func (s *System) Body(name string) *Body {
	for _, b := range s.Bodies() {
		if b.Name == name {
			return b
		}
	}
	return nil
}

// Bodies returns sun, planets and moon in display order.
func (s *System) Bodies() []*Body {
	all := make([]*Body, 0, len(s.Planets)+2)
	if s.Sun != nil {
		all = append(all, s.Sun)
	}
	for _, p := range s.Planets {
		all = append(all, p)
		if s.Moon != nil && p.Name == MoonHost {
			all = append(all, s.Moon)
		}
	}
	return all
}

// Orbiting returns the sun and planets, the list kinematics iterates.
func (s *System) Orbiting() []*Body {
	all := make([]*Body, 0, len(s.Planets)+1)
	if s.Sun != nil {
		all = append(all, s.Sun)
	}
	return append(all, s.Planets...)
}

// SetTracksVisible shows or hides every orbit track.
func (s *System) SetTracksVisible(v bool) {
	for _, p := range s.Planets {
		if p.Track != nil {
			p.Track.Visible = v
		}
	}
}

// SetGlowVisible shows or hides the sun's glow shell, if it has one.
func (s *System) SetGlowVisible(v bool) {
	if s.Sun != nil && s.Sun.Glow != nil {
		s.Sun.Glow.Visible = v
	}
}
