// Package engine runs the scene: one Tick per frame moves the bodies, steers
// the camera, updates shader time, steps comets and renders a frame.
//
// The engine is single-threaded. Everything except the gesture mailbox in
// state.Manager is owned by the goroutine calling Tick, Dispatch, Hover and
// Click.
package engine

import (
	"errors"
	"fmt"
	"math/rand/v2"
	"time"

	"github.com/go-gl/mathgl/mgl64"
	"github.com/lucasb-eyer/go-colorful"

	"github.com/litescript/ls-orrery/internal/control"
	"github.com/litescript/ls-orrery/internal/gesture"
	"github.com/litescript/ls-orrery/internal/input"
	"github.com/litescript/ls-orrery/internal/logging"
	"github.com/litescript/ls-orrery/internal/orrery"
	"github.com/litescript/ls-orrery/internal/render"
	"github.com/litescript/ls-orrery/internal/scene"
	"github.com/litescript/ls-orrery/internal/shading"
	"github.com/litescript/ls-orrery/internal/state"
)

// Camera defaults.
const (
	DefaultFOV  = 75.0
	CameraNear  = 0.1
	CameraFar   = 5000.0
	DefaultCols = 80
	DefaultRows = 24
)

var tooltipColor = colorful.Color{R: 1, G: 1, B: 1}

// ErrInvalidConfig is returned by New for unusable settings.
var ErrInvalidConfig = errors.New("invalid engine config")

// Config holds the engine settings.
type Config struct {
	Build      orrery.BuildConfig
	FOV        float64 // vertical field of view in degrees
	ShowTracks bool
	ShowGrid   bool
	ShowGlow   bool
	Gyro       bool
}

// DefaultConfig returns the stock scene with every layer shown and gyro on.
func DefaultConfig() Config {
	return Config{
		Build:      orrery.DefaultBuildConfig(),
		FOV:        DefaultFOV,
		ShowTracks: true,
		ShowGrid:   true,
		ShowGlow:   true,
		Gyro:       true,
	}
}

// Stats are running counters for the HUD and tests.
type Stats struct {
	Ticks      uint64
	Faults     uint64
	LastFrame  time.Duration
	Comets     int
	Asteroids  int
	GestureSeq uint64
}

// Tooltip describes the body under the pointer.
type Tooltip struct {
	Name string
	Age  string
	Col  int // anchor cell, offset from the pointer
	Row  int
}

// Text returns the tooltip as one line.
func (t Tooltip) Text() string {
	if t.Age == "" {
		return t.Name
	}
	return t.Name + " · " + t.Age
}

type stage struct {
	name string
	run  func()
}

// Engine owns the scene and its mutable state.
type Engine struct {
	sys      *orrery.System
	state    *control.SceneState
	ctrl     *control.Controller
	cam      *scene.Camera
	renderer *render.Renderer
	frame    *render.Frame

	mgr *state.Manager
	log *logging.Logger
	rng *rand.Rand

	now      func() time.Time
	start    time.Time
	uniforms shading.Uniforms

	gestureSeq uint64
	pointer    *[2]int // last hovered cell, nil when the pointer is outside
	tooltip    *Tooltip
	stats      Stats
	stages     []stage
}

// New builds the system and places the camera at the default pose. mgr and
// logger may be nil.
func New(cfg Config, rng *rand.Rand, logger *logging.Logger, mgr *state.Manager) (*Engine, error) {
	if cfg.FOV <= 0 || cfg.FOV >= 180 {
		return nil, fmt.Errorf("new engine: %w: fov %v", ErrInvalidConfig, cfg.FOV)
	}
	if cfg.Build.Density < 0 {
		return nil, fmt.Errorf("new engine: %w: density %d", ErrInvalidConfig, cfg.Build.Density)
	}
	if rng == nil {
		return nil, fmt.Errorf("new engine: %w: nil rng", ErrInvalidConfig)
	}
	if logger == nil {
		logger = logging.Discard()
	}
	if mgr == nil {
		mgr = state.NewManager(state.DefaultConfig())
	}

	sys, err := orrery.Build(cfg.Build, rng)
	if err != nil {
		return nil, fmt.Errorf("new engine: %w", err)
	}

	st := control.NewSceneState(cfg.Build.Density)
	st.ShowTracks = cfg.ShowTracks
	st.ShowGrid = cfg.ShowGrid
	st.ShowGlow = cfg.ShowGlow
	st.Input.Gyro = cfg.Gyro

	e := &Engine{
		sys:      sys,
		state:    st,
		ctrl:     control.NewController(),
		cam:      scene.NewPerspective(cfg.FOV, 1, CameraNear, CameraFar),
		renderer: render.NewRenderer(),
		mgr:      mgr,
		log:      logger,
		rng:      rng,
		now:      time.Now,
	}
	e.start = e.now()
	e.cam.Position = control.DefaultPose
	e.cam.LookAt(mgl64.Vec3{})
	e.Resize(DefaultCols, DefaultRows)
	e.applyVisibility()

	e.stages = []stage{
		{"kinematics", e.stepKinematics},
		{"camera", e.stepCamera},
		{"uniforms", e.stepUniforms},
		{"comets", e.stepComets},
		{"render", e.stepRender},
	}

	e.log.Info("scene built: %d bodies, %d asteroids, %d interactables",
		len(sys.Bodies()), sys.Asteroids.Count(), len(sys.Interactables))
	return e, nil
}

// System returns the assembled scene.
func (e *Engine) System() *orrery.System { return e.sys }

// State returns the scene state. Callers on the tick goroutine may read it.
func (e *Engine) State() *control.SceneState { return e.state }

// Camera returns the scene camera.
func (e *Engine) Camera() *scene.Camera { return e.cam }

// Frame returns the last rendered frame.
func (e *Engine) Frame() *render.Frame { return e.frame }

// Stats returns the running counters.
func (e *Engine) Stats() Stats {
	s := e.stats
	s.Comets = len(e.sys.Comets.Live)
	s.Asteroids = e.sys.Asteroids.Count()
	s.GestureSeq = e.gestureSeq
	return s
}

// Uniforms returns the shader values used by the last tick.
func (e *Engine) Uniforms() shading.Uniforms { return e.uniforms }

// Tooltip returns the tooltip for the hovered body, if any.
func (e *Engine) Tooltip() (Tooltip, bool) {
	if e.tooltip == nil {
		return Tooltip{}, false
	}
	return *e.tooltip, true
}

// Tick runs one frame. A stage that panics is logged, counted and skipped;
// the remaining stages still run.
func (e *Engine) Tick() {
	begin := e.now()
	for _, s := range e.stages {
		e.guard(s)
	}
	e.stats.Ticks++
	e.stats.LastFrame = e.now().Sub(begin)
	e.mgr.RecordFrame(e.stats.LastFrame)
}

func (e *Engine) guard(s stage) {
	defer func() {
		if r := recover(); r != nil {
			e.stats.Faults++
			e.log.Error("stage %s: %v", s.name, r)
			e.mgr.AddEvent(state.Event{Type: state.EventFault, Detail: fmt.Sprintf("%s: %v", s.name, r)})
		}
	}()
	s.run()
}

func (e *Engine) stepKinematics() {
	orrery.Advance(e.sys.Orbiting(), e.state.Warp)
	e.sys.Asteroids.Spin(e.state.Warp)
}

// stepCamera applies the newest gesture, then eases the camera and tilt.
func (e *Engine) stepCamera() {
	if res, seq, ok := e.mgr.LatestGesture(e.gestureSeq); ok {
		e.gestureSeq = seq
		e.applyGesture(res)
	}
	e.ctrl.Update(e.state, e.cam, e.sys.Root)
}

func (e *Engine) stepUniforms() {
	e.uniforms.Time = e.now().Sub(e.start).Seconds()
	if e.sys.Sun != nil {
		e.sys.Sun.Pulse(e.uniforms.Time)
	}
}

func (e *Engine) stepComets() {
	e.sys.Comets.Step(e.rng)
}

func (e *Engine) stepRender() {
	e.applyVisibility()
	e.renderer.Render(e.frame, e.sys.Scene, e.cam, e.uniforms, render.Options{
		Grid:       e.state.ShowGrid,
		Background: render.DefaultBackground,
	})
	// Bodies move under a still pointer.
	if e.pointer != nil {
		e.Hover(e.pointer[0], e.pointer[1])
	}
	if t, ok := e.Tooltip(); ok {
		e.frame.AddLabel(t.Col, t.Row, t.Text(), tooltipColor)
	}
}

func (e *Engine) applyVisibility() {
	e.sys.SetTracksVisible(e.state.ShowTracks)
	e.sys.SetGlowVisible(e.state.ShowGlow)
}

// Resize sets the frame to cols × rows cells and updates the camera aspect.
func (e *Engine) Resize(cols, rows int) {
	if cols <= 0 || rows <= 0 {
		return
	}
	e.frame = render.FrameForCells(cols, rows)
	e.cam.SetViewport(e.frame.W, e.frame.H)
	e.pointer = nil
	e.tooltip = nil
}

// cellNDC returns the NDC at the centre of a cell. Cell (x, y) covers pixels
// (x, 2y) and (x, 2y+1), so its vertical centre is the boundary at 2y+1.
func (e *Engine) cellNDC(col, row int) (ndcX, ndcY float64) {
	ndc := input.PixelToNDC(float64(col)+0.5, float64(2*row+1), e.frame.W, e.frame.H)
	return ndc[0], ndc[1]
}

func (e *Engine) pick(col, row int) (input.Pick, bool) {
	x, y := e.cellNDC(col, row)
	e.state.Input.Pointer[0], e.state.Input.Pointer[1] = x, y
	return input.PickAt(e.cam, e.state.Input.Pointer, e.sys.Interactables)
}

// Hover updates the pointer position and returns the tooltip for the body
// under it. The anchor is two columns right of and one row below the pointer.
func (e *Engine) Hover(col, row int) (Tooltip, bool) {
	if col < 0 || row < 0 || col >= e.frame.Cols() || row >= e.frame.Rows() {
		e.Leave()
		return Tooltip{}, false
	}
	e.pointer = &[2]int{col, row}
	p, ok := e.pick(col, row)
	if !ok {
		e.state.Input.Hover = nil
		e.tooltip = nil
		return Tooltip{}, false
	}
	e.state.Input.Hover = p.Body
	name := p.Body.Meta.DisplayName
	if name == "" {
		name = p.Body.Name
	}
	t := Tooltip{Name: name, Age: p.Body.Meta.Age, Col: col + 2, Row: row + 1}
	e.tooltip = &t
	return t, true
}

// Leave clears the hover state when the pointer leaves the frame.
func (e *Engine) Leave() {
	e.pointer = nil
	e.tooltip = nil
	e.state.Input.Hover = nil
}

// Click picks at a cell and applies it to the focus state machine. It
// returns the body that was hit, or nil.
func (e *Engine) Click(col, row int) *orrery.Body {
	var hit *orrery.Body
	if col >= 0 && row >= 0 && col < e.frame.Cols() && row < e.frame.Rows() {
		if p, ok := e.pick(col, row); ok {
			hit = p.Body
		}
	}
	before := e.state.Focused()
	e.ctrl.Click(e.state, hit)
	e.recordFocusChange(before)
	return hit
}

func (e *Engine) recordFocusChange(before *orrery.Body) {
	after := e.state.Focused()
	switch {
	case after != nil && after != before:
		e.log.Info("focus %s", after.Name)
		e.mgr.AddEvent(state.Event{Type: state.EventFocus, Body: after.Name})
	case after == nil && before != nil:
		e.log.Info("unfocus %s", before.Name)
		e.mgr.AddEvent(state.Event{Type: state.EventUnfocus, Body: before.Name})
	}
}

// Zoom applies a zoom delta; positive moves away.
func (e *Engine) Zoom(delta float64) {
	e.ctrl.Zoom(e.state, e.cam, delta)
}

// Drag applies a pointer drag of dx, dy cells to the rotation targets.
func (e *Engine) Drag(dx, dy float64) {
	rx, rz := input.DragDelta(dx, dy)
	e.ctrl.Nudge(e.state, rx, rz)
}

// Nudge adds to the rotation targets from the arrow keys.
func (e *Engine) Nudge(dx, dz float64) {
	e.ctrl.Nudge(e.state, dx, dz)
}

// SetDragging records whether a drag is in progress.
func (e *Engine) SetDragging(on bool) {
	e.state.Input.Dragging = on
}

func (e *Engine) applyGesture(res gesture.Result) {
	u, ok := input.MapGesture(res, e.state.Input.Gyro)
	if !ok {
		return
	}
	if u.HasRotation {
		e.ctrl.SetTargets(e.state, u.RotX, u.RotZ)
	}
	if u.Zoom != 0 {
		e.ctrl.Zoom(e.state, e.cam, u.Zoom)
	}
}
