package control

import (
	"math"

	"github.com/go-gl/mathgl/mgl64"

	"github.com/litescript/ls-orrery/internal/orrery"
	"github.com/litescript/ls-orrery/internal/scene"
)

// Camera poses. All presets look at the origin.
var (
	DefaultPose = mgl64.Vec3{0, 200, 400}
	TopPose     = mgl64.Vec3{0, 450, 0}
	SidePose    = mgl64.Vec3{0, 0, 450}

	// SunChaseOffset is the chase offset used for the sun.
	SunChaseOffset = mgl64.Vec3{0, 50, 100}
)

// Controller defaults.
const (
	DefaultTiltDamping  = 0.03
	DefaultChaseDamping = 0.05
	DefaultMinDistance  = 100.0
	DefaultMaxDistance  = 1000.0
	NudgeStep           = 0.05 // rotation target change per arrow key
)

// Controller runs the camera/focus state machine.
type Controller struct {
	TiltDamping  float64
	ChaseDamping float64
	MinDistance  float64
	MaxDistance  float64
}

// NewController returns a controller with the stock damping and zoom limits.
func NewController() *Controller {
	return &Controller{
		TiltDamping:  DefaultTiltDamping,
		ChaseDamping: DefaultChaseDamping,
		MinDistance:  DefaultMinDistance,
		MaxDistance:  DefaultMaxDistance,
	}
}

// PresetPose returns the camera position for a view.
func PresetPose(v View) mgl64.Vec3 {
	switch v {
	case ViewTop:
		return TopPose
	case ViewSide:
		return SidePose
	default:
		return DefaultPose
	}
}

// ChaseOffset returns the camera offset used while chasing b: a fixed offset
// for the sun, otherwise one scaled by the body radius.
func ChaseOffset(b *orrery.Body) mgl64.Vec3 {
	if b.IsSun() {
		return SunChaseOffset
	}
	r := b.Radius
	if r <= 0 {
		r = 5
	}
	return mgl64.Vec3{0, 1.5 * r, 4 * r}
}

func place(cam *scene.Camera, pos mgl64.Vec3) {
	cam.Position = pos
	cam.LookAt(mgl64.Vec3{})
}

func levelRoot(root *scene.Node) {
	if root != nil {
		root.Rotation = mgl64.Vec3{}
	}
}

// SelectView snaps to a preset. Top and side disable gyro and enter
// FixedPreset; free re-enables gyro and enters FreeLook. Focus is cleared, the
// root is levelled and the rotation targets are zeroed in every case.
func (c *Controller) SelectView(s *SceneState, v View, cam *scene.Camera, root *scene.Node) {
	if v == ViewFree {
		s.Camera.Mode = FreeLook
		s.Input.Gyro = true
	} else {
		s.Camera.Mode = FixedPreset
		s.Input.Gyro = false
	}
	s.Camera.Preset = v
	s.Camera.Focus = nil
	s.Camera.Offset = mgl64.Vec3{}
	s.Input.RotTargetX, s.Input.RotTargetZ = 0, 0
	levelRoot(root)

	pose := PresetPose(v)
	place(cam, pose)
	s.Camera.Distance = pose.Len()
	s.ActiveView = v
}

// Focus starts chasing b and disables gyro.
func (c *Controller) Focus(s *SceneState, b *orrery.Body) {
	if b == nil {
		return
	}
	s.Camera.Mode = Chasing
	s.Camera.Focus = b
	s.Camera.Offset = ChaseOffset(b)
	s.Input.Gyro = false
}

// ClearFocus leaves Chasing for FreeLook. It is a no-op in other modes.
func (c *Controller) ClearFocus(s *SceneState) {
	if s.Camera.Mode != Chasing {
		return
	}
	s.Camera.Mode = FreeLook
	s.Camera.Focus = nil
	s.Camera.Offset = mgl64.Vec3{}
}

// Click applies a pointer click: a hit focuses the body; a miss while chasing
// returns to FreeLook; any other miss changes nothing.
func (c *Controller) Click(s *SceneState, hit *orrery.Body) {
	if hit != nil {
		c.Focus(s, hit)
		return
	}
	c.ClearFocus(s)
}

// Reset returns to FreeLook at the default pose with warp 1, a level root,
// the glow shown and the default button highlights.
func (c *Controller) Reset(s *SceneState, cam *scene.Camera, root *scene.Node) {
	s.Camera = CameraState{
		Mode:     FreeLook,
		Preset:   ViewFree,
		Distance: DefaultPose.Len(),
	}
	s.Input.RotTargetX, s.Input.RotTargetZ = 0, 0
	s.Input.Dragging = false
	levelRoot(root)
	place(cam, DefaultPose)

	s.Warp = WarpNormal
	s.ActiveSpeed = SpeedNormal
	s.ActiveView = ViewFree
	s.ShowGlow = true
	s.SunFilterActive = false
}

// Update runs one tick of the state machine. Outside Chasing the root tilt
// eases toward the rotation targets. While Chasing the camera eases toward
// the body plus offset and looks at the body's current position.
func (c *Controller) Update(s *SceneState, cam *scene.Camera, root *scene.Node) {
	if s.Camera.Mode == Chasing && s.Camera.Focus != nil {
		target := s.Camera.Focus.WorldPosition()
		desired := target.Add(s.Camera.Offset)
		cam.Position = cam.Position.Add(desired.Sub(cam.Position).Mul(c.ChaseDamping))
		cam.LookAt(target)
		s.Camera.Distance = cam.Distance()
		return
	}
	if root == nil {
		return
	}
	root.Rotation[0] += (s.Input.RotTargetX - root.Rotation[0]) * c.TiltDamping
	root.Rotation[2] += (s.Input.RotTargetZ - root.Rotation[2]) * c.TiltDamping
}

// Zoom moves the camera along its view axis so that its distance to the look
// target becomes distance+delta clamped to [MinDistance, MaxDistance].
// Positive delta moves away. Zoom is ignored while Chasing.
func (c *Controller) Zoom(s *SceneState, cam *scene.Camera, delta float64) {
	if s.Camera.Mode == Chasing || delta == 0 {
		return
	}
	dir := cam.Position.Sub(cam.Target)
	if dir.Len() < 1e-9 {
		dir = mgl64.Vec3{0, 0, 1}
	}
	d := c.clampDistance(dir.Len() + delta)
	cam.Position = cam.Target.Add(dir.Normalize().Mul(d))
	s.Camera.Distance = d
}

func (c *Controller) clampDistance(d float64) float64 {
	return math.Max(c.MinDistance, math.Min(c.MaxDistance, d))
}

// SetTargets sets the rotation targets from the gesture source. It only has an
// effect while gyro is enabled.
func (c *Controller) SetTargets(s *SceneState, x, z float64) {
	if !s.Input.Gyro {
		return
	}
	s.Input.RotTargetX, s.Input.RotTargetZ = x, z
}

// Nudge adds to the rotation targets from drags or keys. Manual tilt only
// applies in FreeLook with gyro off so it never fights the gesture source.
func (c *Controller) Nudge(s *SceneState, dx, dz float64) {
	if s.Input.Gyro || s.Camera.Mode != FreeLook {
		return
	}
	s.Input.RotTargetX += dx
	s.Input.RotTargetZ += dz
}

// SetGyro enables or disables gesture tilt in any mode. While Chasing the
// targets are kept but Update does not tilt the root.
func (c *Controller) SetGyro(s *SceneState, on bool) {
	s.Input.Gyro = on
}
