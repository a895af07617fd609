// Package control owns the scene state and the camera/focus state machine.
//
// The camera is always in one of three modes. FreeLook (the initial mode)
// tilts the solar-system root toward rotation targets fed by gestures, drags
// or keys. FixedPreset holds a top or side view. Chasing follows a body at a
// fixed offset. Every UI action mutates one SceneState instance through a
// Controller; nothing here touches the terminal.
package control

import (
	"errors"
	"fmt"

	"github.com/go-gl/mathgl/mgl64"

	"github.com/litescript/ls-orrery/internal/orrery"
)

// Mode is the camera controller state.
type Mode int

const (
	FreeLook Mode = iota
	FixedPreset
	Chasing
)

// String returns the mode name.
func (m Mode) String() string {
	switch m {
	case FreeLook:
		return "free-look"
	case FixedPreset:
		return "preset"
	case Chasing:
		return "chasing"
	default:
		return "unknown"
	}
}

// View is a preset camera view.
type View int

const (
	ViewFree View = iota
	ViewTop
	ViewSide
)

// String returns the view button name.
func (v View) String() string {
	switch v {
	case ViewFree:
		return "view-free"
	case ViewTop:
		return "view-top"
	case ViewSide:
		return "view-side"
	default:
		return "unknown"
	}
}

// Speed is the highlighted warp button.
type Speed int

const (
	SpeedNormal Speed = iota
	SpeedFast
)

// String returns the speed button name.
func (s Speed) String() string {
	if s == SpeedFast {
		return "speed-fast"
	}
	return "speed-normal"
}

// Warp multipliers.
const (
	WarpNormal = 1.0
	WarpFast   = 10.0
)

// ErrInvalidWarp is returned for warp values other than 1 and 10.
var ErrInvalidWarp = errors.New("warp must be 1 or 10")

// CameraState is the controller's view of the camera.
type CameraState struct {
	Mode     Mode
	Preset   View
	Focus    *orrery.Body // not owned
	Offset   mgl64.Vec3   // chase offset from the focus body
	Distance float64      // camera distance to its look target
}

// InputState holds pointer and gesture driven values.
type InputState struct {
	Pointer    mgl64.Vec2   // NDC of the last pointer position
	Hover      *orrery.Body // nil when nothing is under the pointer
	Gyro       bool         // gesture-driven tilt enabled
	RotTargetX float64      // pitch target for the system root
	RotTargetZ float64      // roll target for the system root
	Dragging   bool
}

// SceneState is the single owned bundle of mutable scene settings.
type SceneState struct {
	Camera CameraState
	Input  InputState

	Warp    float64
	Density int

	ShowTracks bool
	ShowGrid   bool
	ShowGlow   bool

	ActiveSpeed     Speed
	ActiveView      View
	SunFilterActive bool
}

// NewSceneState returns the initial state: free look with gyro on, warp 1,
// tracks and glow shown.
func NewSceneState(density int) *SceneState {
	if density < 0 {
		density = 0
	}
	return &SceneState{
		Camera: CameraState{
			Mode:     FreeLook,
			Preset:   ViewFree,
			Distance: DefaultPose.Len(),
		},
		Input:       InputState{Gyro: true},
		Warp:        WarpNormal,
		Density:     density,
		ShowTracks:  true,
		ShowGrid:    true,
		ShowGlow:    true,
		ActiveSpeed: SpeedNormal,
		ActiveView:  ViewFree,
	}
}

// SetWarp sets the warp multiplier and the matching speed highlight.
func (s *SceneState) SetWarp(w float64) error {
	switch w {
	case WarpNormal:
		s.ActiveSpeed = SpeedNormal
	case WarpFast:
		s.ActiveSpeed = SpeedFast
	default:
		return fmt.Errorf("%w: got %v", ErrInvalidWarp, w)
	}
	s.Warp = w
	return nil
}

// AdjustDensity changes the asteroid count by delta, never below zero, and
// returns the new count.
func (s *SceneState) AdjustDensity(delta int) int {
	s.Density += delta
	if s.Density < 0 {
		s.Density = 0
	}
	return s.Density
}

// ToggleSunFilter flips the glow and its button highlight.
func (s *SceneState) ToggleSunFilter() {
	s.ShowGlow = !s.ShowGlow
	s.SunFilterActive = !s.SunFilterActive
}

// Focused returns the chased body, or nil.
func (s *SceneState) Focused() *orrery.Body {
	if s.Camera.Mode != Chasing {
		return nil
	}
	return s.Camera.Focus
}
