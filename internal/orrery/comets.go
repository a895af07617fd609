package orrery

import (
	"math"
	"math/rand/v2"

	"github.com/go-gl/mathgl/mgl64"

	"github.com/litescript/ls-orrery/internal/scene"
	"github.com/litescript/ls-orrery/internal/shading"
)

// Comet lifecycle constants.
const (
	CometSpawnChance = 0.02
	CometLife        = 100
	CometBound       = 1000.0
	cometBoxXZ       = 800.0 // full width of the spawn box
	cometBoxY        = 400.0
	cometMinSpeed    = 4.0
	cometSpeedSpan   = 5.0
	cometTail        = 30.0
	cometOpacity     = 0.8
)

var cometColor = shading.Hex(0xffffff)

// Comet is a short-lived streak crossing the scene in a straight line.
type Comet struct {
	Position mgl64.Vec3
	Velocity mgl64.Vec3
	Life     int
	Node     *scene.Node
}

// Expired reports whether the comet is out of life or out of bounds.
func (c *Comet) Expired() bool {
	if c.Life <= 0 {
		return true
	}
	for _, v := range c.Position {
		if math.Abs(v) > CometBound {
			return true
		}
	}
	return false
}

// CometSwarm owns the live comets and their scene nodes.
type CometSwarm struct {
	Parent *scene.Node
	Live   []*Comet

	spawned int
	pruned  int
}

// NewCometSwarm creates a swarm whose comet nodes are added to parent.
func NewCometSwarm(parent *scene.Node) *CometSwarm {
	return &CometSwarm{Parent: parent}
}

// Spawned returns the total number of comets created.
func (s *CometSwarm) Spawned() int { return s.spawned }

// Pruned returns the total number of comets removed.
func (s *CometSwarm) Pruned() int { return s.pruned }

func randomInBox(rng *rand.Rand) mgl64.Vec3 {
	return mgl64.Vec3{
		(rng.Float64() - 0.5) * cometBoxXZ,
		(rng.Float64() - 0.5) * cometBoxY,
		(rng.Float64() - 0.5) * cometBoxXZ,
	}
}

// Spawn creates a comet in the spawn box heading for another random point in
// the box.
func (s *CometSwarm) Spawn(rng *rand.Rand) *Comet {
	start := randomInBox(rng)
	aim := randomInBox(rng)
	dir := aim.Sub(start)
	if dir.Len() < 1e-9 {
		dir = mgl64.Vec3{1, 0, 0}
	}
	dir = dir.Normalize()
	speed := cometMinSpeed + rng.Float64()*cometSpeedSpan

	c := &Comet{
		Position: start,
		Velocity: dir.Mul(speed),
		Life:     CometLife,
		Node:     scene.NewMesh("comet", scene.Streak{Direction: dir, Length: cometTail}),
	}
	c.Node.Position = start
	c.Node.Color = cometColor
	c.Node.Opacity = cometOpacity
	if s.Parent != nil {
		s.Parent.Add(c.Node)
	}
	s.Live = append(s.Live, c)
	s.spawned++
	return c
}

// Step runs one tick: maybe spawn, move every comet, then drop the expired.
func (s *CometSwarm) Step(rng *rand.Rand) {
	if rng.Float64() < CometSpawnChance {
		s.Spawn(rng)
	}
	s.Advance()
}

// Advance moves every comet one tick and prunes those that expired.
func (s *CometSwarm) Advance() {
	live := s.Live[:0]
	for _, c := range s.Live {
		c.Position = c.Position.Add(c.Velocity)
		c.Life--
		c.Node.Position = c.Position
		if c.Expired() {
			if s.Parent != nil {
				s.Parent.Remove(c.Node)
			}
			s.pruned++
			continue
		}
		live = append(live, c)
	}
	for i := len(live); i < len(s.Live); i++ {
		s.Live[i] = nil
	}
	s.Live = live
}
