package control

import (
	"errors"
	"math"
	"math/rand/v2"
	"testing"

	"github.com/go-gl/mathgl/mgl64"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/litescript/ls-orrery/internal/orrery"
	"github.com/litescript/ls-orrery/internal/scene"
)

type fixture struct {
	ctl *Controller
	s   *SceneState
	cam *scene.Camera
	sys *orrery.System
}

func newFixture(t *testing.T) *fixture {
	t.Helper()
	sys, err := orrery.Build(orrery.DefaultBuildConfig(), rand.New(rand.NewPCG(1, 2)))
	require.NoError(t, err)
	cam := scene.NewPerspective(60, 2, 0.1, 5000)
	cam.Position = DefaultPose
	cam.LookAt(mgl64.Vec3{})
	return &fixture{ctl: NewController(), s: NewSceneState(1500), cam: cam, sys: sys}
}

func assertVec(t *testing.T, want, got mgl64.Vec3) {
	t.Helper()
	for i := 0; i < 3; i++ {
		assert.InDelta(t, want[i], got[i], 1e-9, "component %d of %v", i, got)
	}
}

func TestInitialState(t *testing.T) {
	s := NewSceneState(1500)
	assert.Equal(t, FreeLook, s.Camera.Mode)
	assert.True(t, s.Input.Gyro)
	assert.Equal(t, WarpNormal, s.Warp)
	assert.True(t, s.ShowGlow)
	assert.True(t, s.ShowTracks)
	assert.Equal(t, SpeedNormal, s.ActiveSpeed)
	assert.Equal(t, ViewFree, s.ActiveView)
	assert.Nil(t, s.Focused())

	assert.Zero(t, NewSceneState(-5).Density)
}

func TestSelectView(t *testing.T) {
	tests := []struct {
		view View
		mode Mode
		gyro bool
		pose mgl64.Vec3
	}{
		{ViewTop, FixedPreset, false, TopPose},
		{ViewSide, FixedPreset, false, SidePose},
		{ViewFree, FreeLook, true, DefaultPose},
	}

	for _, tt := range tests {
		t.Run(tt.view.String(), func(t *testing.T) {
			f := newFixture(t)
			f.ctl.Focus(f.s, f.sys.Body("Mars"))
			f.s.Input.RotTargetX = 0.4
			f.sys.Root.Rotation = mgl64.Vec3{0.2, 0, -0.1}

			f.ctl.SelectView(f.s, tt.view, f.cam, f.sys.Root)

			assert.Equal(t, tt.mode, f.s.Camera.Mode)
			assert.Equal(t, tt.gyro, f.s.Input.Gyro)
			assert.Nil(t, f.s.Camera.Focus)
			assert.Zero(t, f.s.Input.RotTargetX)
			assert.Zero(t, f.s.Input.RotTargetZ)
			assertVec(t, mgl64.Vec3{}, f.sys.Root.Rotation)
			assertVec(t, tt.pose, f.cam.Position)
			assertVec(t, mgl64.Vec3{}, f.cam.Target)
			assert.InDelta(t, tt.pose.Len(), f.s.Camera.Distance, 1e-9)
			assert.Equal(t, tt.view, f.s.ActiveView)
		})
	}
}

func TestFocusAndChaseOffset(t *testing.T) {
	f := newFixture(t)

	sun := f.sys.Sun
	f.ctl.Click(f.s, sun)
	assert.Equal(t, Chasing, f.s.Camera.Mode)
	assert.Same(t, sun, f.s.Focused())
	assertVec(t, SunChaseOffset, f.s.Camera.Offset)
	assert.False(t, f.s.Input.Gyro)

	jupiter := f.sys.Body("Jupiter")
	f.ctl.Click(f.s, jupiter)
	assert.Same(t, jupiter, f.s.Focused())
	assertVec(t, mgl64.Vec3{0, 27, 72}, f.s.Camera.Offset)
}

func TestTransitionTable(t *testing.T) {
	tests := []struct {
		name  string
		setup func(f *fixture)
		act   func(f *fixture)
		want  Mode
	}{
		{
			name:  "chasing + click empty -> free look",
			setup: func(f *fixture) { f.ctl.Focus(f.s, f.sys.Body("Earth")) },
			act:   func(f *fixture) { f.ctl.Click(f.s, nil) },
			want:  FreeLook,
		},
		{
			name:  "preset + click empty -> unchanged",
			setup: func(f *fixture) { f.ctl.SelectView(f.s, ViewTop, f.cam, f.sys.Root) },
			act:   func(f *fixture) { f.ctl.Click(f.s, nil) },
			want:  FixedPreset,
		},
		{
			name:  "free look + click empty -> unchanged",
			setup: func(f *fixture) {},
			act:   func(f *fixture) { f.ctl.Click(f.s, nil) },
			want:  FreeLook,
		},
		{
			name:  "preset + click body -> chasing",
			setup: func(f *fixture) { f.ctl.SelectView(f.s, ViewSide, f.cam, f.sys.Root) },
			act:   func(f *fixture) { f.ctl.Click(f.s, f.sys.Moon) },
			want:  Chasing,
		},
		{
			name:  "chasing + view top -> preset",
			setup: func(f *fixture) { f.ctl.Focus(f.s, f.sys.Body("Earth")) },
			act:   func(f *fixture) { f.ctl.SelectView(f.s, ViewTop, f.cam, f.sys.Root) },
			want:  FixedPreset,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f := newFixture(t)
			tt.setup(f)
			tt.act(f)
			assert.Equal(t, tt.want, f.s.Camera.Mode)
			if tt.want != Chasing {
				assert.Nil(t, f.s.Focused())
			}
		})
	}
}

func TestResetFromAnyState(t *testing.T) {
	setups := map[string]func(f *fixture){
		"free look": func(f *fixture) {},
		"preset":    func(f *fixture) { f.ctl.SelectView(f.s, ViewSide, f.cam, f.sys.Root) },
		"chasing":   func(f *fixture) { f.ctl.Focus(f.s, f.sys.Body("Saturn")) },
	}

	for name, setup := range setups {
		t.Run(name, func(t *testing.T) {
			f := newFixture(t)
			setup(f)
			require.NoError(t, f.s.SetWarp(WarpFast))
			f.s.ToggleSunFilter()
			f.s.Input.RotTargetZ = 0.3
			f.sys.Root.Rotation[0] = 0.5
			f.ctl.Zoom(f.s, f.cam, 100)

			f.ctl.Reset(f.s, f.cam, f.sys.Root)

			assert.Equal(t, FreeLook, f.s.Camera.Mode)
			assert.Nil(t, f.s.Focused())
			assertVec(t, DefaultPose, f.cam.Position)
			assertVec(t, mgl64.Vec3{}, f.cam.Target)
			assertVec(t, mgl64.Vec3{}, f.sys.Root.Rotation)
			assert.Equal(t, WarpNormal, f.s.Warp)
			assert.Equal(t, SpeedNormal, f.s.ActiveSpeed)
			assert.Equal(t, ViewFree, f.s.ActiveView)
			assert.True(t, f.s.ShowGlow)
			assert.False(t, f.s.SunFilterActive)
			assert.Zero(t, f.s.Input.RotTargetZ)
		})
	}
}

func TestUpdateEasesTilt(t *testing.T) {
	f := newFixture(t)
	f.s.Input.RotTargetX = 1
	f.s.Input.RotTargetZ = -1

	f.ctl.Update(f.s, f.cam, f.sys.Root)
	assert.InDelta(t, 0.03, f.sys.Root.Rotation[0], 1e-12)
	assert.InDelta(t, -0.03, f.sys.Root.Rotation[2], 1e-12)

	for i := 0; i < 1000; i++ {
		f.ctl.Update(f.s, f.cam, f.sys.Root)
	}
	assert.InDelta(t, 1, f.sys.Root.Rotation[0], 1e-6)
	assert.InDelta(t, -1, f.sys.Root.Rotation[2], 1e-6)
}

func TestUpdateChasesMovingBody(t *testing.T) {
	f := newFixture(t)
	earth := f.sys.Body("Earth")
	f.ctl.Focus(f.s, earth)

	start := f.cam.Position
	want := earth.WorldPosition().Add(f.s.Camera.Offset)
	f.ctl.Update(f.s, f.cam, f.sys.Root)
	assertVec(t, start.Add(want.Sub(start).Mul(0.05)), f.cam.Position)
	assertVec(t, earth.WorldPosition(), f.cam.Target)

	// The root tilt is left alone while chasing.
	f.s.Input.RotTargetX = 1
	for i := 0; i < 400; i++ {
		orrery.Advance(f.sys.Orbiting(), 1)
		f.ctl.Update(f.s, f.cam, f.sys.Root)
	}
	assert.Zero(t, f.sys.Root.Rotation[0])
	assertVec(t, earth.WorldPosition(), f.cam.Target)
	assert.Less(t, f.cam.Position.Sub(earth.WorldPosition().Add(f.s.Camera.Offset)).Len(), 30.0)
}

func TestZoomClamp(t *testing.T) {
	f := newFixture(t)
	rng := rand.New(rand.NewPCG(3, 4))

	for i := 0; i < 2000; i++ {
		delta := []float64{5, -5, 20, -20, 0}[rng.IntN(5)]
		f.ctl.Zoom(f.s, f.cam, delta)
		d := f.cam.Distance()
		assert.GreaterOrEqual(t, d, DefaultMinDistance-1e-9)
		assert.LessOrEqual(t, d, DefaultMaxDistance+1e-9)
	}

	for i := 0; i < 500; i++ {
		f.ctl.Zoom(f.s, f.cam, -20)
	}
	assert.InDelta(t, DefaultMinDistance, f.cam.Distance(), 1e-9)
	assert.InDelta(t, DefaultMinDistance, f.s.Camera.Distance, 1e-9)

	for i := 0; i < 500; i++ {
		f.ctl.Zoom(f.s, f.cam, 20)
	}
	assert.InDelta(t, DefaultMaxDistance, f.cam.Distance(), 1e-9)
}

func TestZoomKeepsDirection(t *testing.T) {
	f := newFixture(t)
	before := f.cam.Position.Normalize()
	f.ctl.Zoom(f.s, f.cam, 50)
	assertVec(t, before, f.cam.Position.Normalize())
	assert.InDelta(t, DefaultPose.Len()+50, f.cam.Distance(), 1e-9)
}

func TestZoomIgnoredWhileChasing(t *testing.T) {
	f := newFixture(t)
	f.ctl.Focus(f.s, f.sys.Body("Mars"))
	before := f.cam.Position
	f.ctl.Zoom(f.s, f.cam, 20)
	assertVec(t, before, f.cam.Position)
}

func TestGyroAndNudge(t *testing.T) {
	f := newFixture(t)

	f.ctl.SetTargets(f.s, 0.3, -0.2)
	assert.InDelta(t, 0.3, f.s.Input.RotTargetX, 1e-12)

	// Manual tilt is ignored while gyro drives the targets.
	f.ctl.Nudge(f.s, 1, 1)
	assert.InDelta(t, 0.3, f.s.Input.RotTargetX, 1e-12)

	f.ctl.SetGyro(f.s, false)
	f.ctl.Nudge(f.s, NudgeStep, -NudgeStep)
	assert.InDelta(t, 0.35, f.s.Input.RotTargetX, 1e-12)
	assert.InDelta(t, -0.25, f.s.Input.RotTargetZ, 1e-12)

	f.ctl.SetTargets(f.s, 9, 9)
	assert.InDelta(t, 0.35, f.s.Input.RotTargetX, 1e-12, "gyro off ignores gestures")

	f.ctl.SelectView(f.s, ViewTop, f.cam, f.sys.Root)
	f.ctl.SetGyro(f.s, true)
	assert.True(t, f.s.Input.Gyro, "gyro can be enabled on a preset")
}

func TestGyroWhileChasingDoesNotTilt(t *testing.T) {
	f := newFixture(t)
	f.ctl.Focus(f.s, f.sys.Body("Mars"))
	require.Equal(t, Chasing, f.s.Camera.Mode)

	f.ctl.SetGyro(f.s, true)
	assert.True(t, f.s.Input.Gyro)
	f.ctl.SetTargets(f.s, 0.4, -0.3)
	assert.InDelta(t, 0.4, f.s.Input.RotTargetX, 1e-12)

	for i := 0; i < 10; i++ {
		f.ctl.Update(f.s, f.cam, f.sys.Root)
	}
	assert.Zero(t, f.sys.Root.Rotation[0])
	assert.Zero(t, f.sys.Root.Rotation[2])
}

func TestSetWarp(t *testing.T) {
	s := NewSceneState(0)
	require.NoError(t, s.SetWarp(WarpFast))
	assert.Equal(t, SpeedFast, s.ActiveSpeed)
	assert.Equal(t, 10.0, s.Warp)

	err := s.SetWarp(3)
	assert.True(t, errors.Is(err, ErrInvalidWarp))
	assert.Equal(t, 10.0, s.Warp)
}

func TestAdjustDensity(t *testing.T) {
	s := NewSceneState(300)
	assert.Equal(t, 500, s.AdjustDensity(200))
	assert.Equal(t, 300, s.AdjustDensity(-200))
	assert.Equal(t, 100, s.AdjustDensity(-200))
	assert.Equal(t, 0, s.AdjustDensity(-200))
	assert.Equal(t, 0, s.AdjustDensity(-200))
}

func TestModeStrings(t *testing.T) {
	assert.Equal(t, "free-look", FreeLook.String())
	assert.Equal(t, "chasing", Chasing.String())
	assert.Equal(t, "view-top", ViewTop.String())
	assert.Equal(t, "speed-fast", SpeedFast.String())
	assert.False(t, math.IsNaN(ChaseOffset(&orrery.Body{Radius: 0, OrbitalDistance: 1})[1]))
}
