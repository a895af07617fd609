package engine

import (
	"fmt"
	"time"

	"github.com/litescript/ls-orrery/internal/control"
	"github.com/litescript/ls-orrery/internal/orrery"
	"github.com/litescript/ls-orrery/internal/state"
)

// Action is a UI control.
type Action int

const (
	ActionNone Action = iota
	ActionSpeedFast
	ActionSpeedNormal
	ActionViewTop
	ActionViewSide
	ActionViewFree
	ActionFilterSun
	ActionResetView
	ActionDensityUp
	ActionDensityDown
	ActionToggleTracks
	ActionToggleGrid
	ActionToggleGyro
	ActionFocusNext
	ActionFocusPrev
	ActionClearFocus
)

var actionNames = map[Action]string{
	ActionNone:         "none",
	ActionSpeedFast:    "speed-fast",
	ActionSpeedNormal:  "speed-normal",
	ActionViewTop:      "view-top",
	ActionViewSide:     "view-side",
	ActionViewFree:     "view-free",
	ActionFilterSun:    "filter-sun",
	ActionResetView:    "reset-view",
	ActionDensityUp:    "density-up",
	ActionDensityDown:  "density-down",
	ActionToggleTracks: "toggle-tracks",
	ActionToggleGrid:   "toggle-grid",
	ActionToggleGyro:   "toggle-gyro",
	ActionFocusNext:    "focus-next",
	ActionFocusPrev:    "focus-prev",
	ActionClearFocus:   "clear-focus",
}

func (a Action) String() string {
	if s, ok := actionNames[a]; ok {
		return s
	}
	return fmt.Sprintf("action(%d)", int(a))
}

// ParseAction returns the action with the given name.
func ParseAction(s string) (Action, bool) {
	for a, name := range actionNames {
		if name == s && a != ActionNone {
			return a, true
		}
	}
	return ActionNone, false
}

// Dispatch applies a UI action to the scene state.
func (e *Engine) Dispatch(a Action) {
	switch a {
	case ActionSpeedFast:
		e.setWarp(control.WarpFast)
	case ActionSpeedNormal:
		e.setWarp(control.WarpNormal)
	case ActionViewTop:
		e.selectView(control.ViewTop)
	case ActionViewSide:
		e.selectView(control.ViewSide)
	case ActionViewFree:
		e.selectView(control.ViewFree)
	case ActionFilterSun:
		e.state.ToggleSunFilter()
		e.applyVisibility()
		e.toggled("glow", e.state.ShowGlow)
	case ActionResetView:
		before := e.state.Focused()
		e.ctrl.Reset(e.state, e.cam, e.sys.Root)
		e.applyVisibility()
		if before != nil {
			e.mgr.AddEvent(state.Event{Type: state.EventUnfocus, Body: before.Name})
		}
		e.log.Info("view reset")
		e.mgr.AddEvent(state.Event{Type: state.EventReset})
	case ActionDensityUp:
		e.SetDensity(e.state.Density + orrery.DensityStep)
	case ActionDensityDown:
		e.SetDensity(e.state.Density - orrery.DensityStep)
	case ActionToggleTracks:
		e.state.ShowTracks = !e.state.ShowTracks
		e.applyVisibility()
		e.toggled("tracks", e.state.ShowTracks)
	case ActionToggleGrid:
		e.state.ShowGrid = !e.state.ShowGrid
		e.toggled("grid", e.state.ShowGrid)
	case ActionToggleGyro:
		on := !e.state.Input.Gyro
		e.ctrl.SetGyro(e.state, on)
		e.toggled("gyro", on)
	case ActionFocusNext:
		e.cycleFocus(1)
	case ActionFocusPrev:
		e.cycleFocus(-1)
	case ActionClearFocus:
		before := e.state.Focused()
		e.ctrl.ClearFocus(e.state)
		e.recordFocusChange(before)
	default:
		e.log.Debug("ignoring action %s", a)
	}
}

func (e *Engine) setWarp(w float64) {
	if err := e.state.SetWarp(w); err != nil {
		e.log.Warn("%v", err)
		return
	}
	e.mgr.AddEvent(state.Event{Type: state.EventWarp, Detail: e.state.ActiveSpeed.String()})
}

func (e *Engine) selectView(v control.View) {
	before := e.state.Focused()
	e.ctrl.SelectView(e.state, v, e.cam, e.sys.Root)
	e.recordFocusChange(before)
	e.mgr.AddEvent(state.Event{Type: state.EventView, Detail: v.String()})
}

func (e *Engine) toggled(what string, on bool) {
	detail := what + " off"
	if on {
		detail = what + " on"
	}
	e.log.Debug("%s", detail)
	e.mgr.AddEvent(state.Event{Type: state.EventToggle, Detail: detail})
}

// SetDensity regenerates the asteroid field with n rocks (floor 0).
func (e *Engine) SetDensity(n int) {
	e.state.AdjustDensity(n - e.state.Density)
	e.sys.Asteroids.Generate(e.state.Density, e.rng)
	e.mgr.AddEvent(state.Event{Type: state.EventDensity, Detail: fmt.Sprintf("%d", e.state.Density)})
}

// SetTracks, SetGrid and SetGlow apply toggles from outside the key map,
// such as a reloaded config file.
func (e *Engine) SetTracks(on bool) {
	if e.state.ShowTracks != on {
		e.Dispatch(ActionToggleTracks)
	}
}

func (e *Engine) SetGrid(on bool) {
	if e.state.ShowGrid != on {
		e.Dispatch(ActionToggleGrid)
	}
}

func (e *Engine) SetGlow(on bool) {
	if e.state.ShowGlow != on {
		e.Dispatch(ActionFilterSun)
	}
}

// cycleFocus chases the next or previous body in display order, starting
// from the sun when nothing is focused.
func (e *Engine) cycleFocus(step int) {
	bodies := e.sys.Bodies()
	if len(bodies) == 0 {
		return
	}
	next := 0
	if cur := e.state.Focused(); cur != nil {
		for i, b := range bodies {
			if b == cur {
				next = (i + step + len(bodies)) % len(bodies)
				break
			}
		}
	} else if step < 0 {
		next = len(bodies) - 1
	}
	before := e.state.Focused()
	e.ctrl.Focus(e.state, bodies[next])
	e.recordFocusChange(before)
}

// BodySnapshot is the exported state of one body.
type BodySnapshot struct {
	Name            string     `json:"name"`
	Radius          float64    `json:"radius"`
	OrbitalDistance float64    `json:"orbital_distance"`
	OrbitalSpeed    float64    `json:"orbital_speed"`
	OrbitalAngle    float64    `json:"orbital_angle"`
	Position        [3]float64 `json:"position"`
	Material        string     `json:"material"`
	Age             string     `json:"age"`
}

// Snapshot is the exported scene state.
type Snapshot struct {
	Ticks     uint64         `json:"ticks"`
	Time      float64        `json:"time"`
	Warp      float64        `json:"warp"`
	Mode      string         `json:"mode"`
	View      string         `json:"view"`
	Focus     string         `json:"focus,omitempty"`
	Gyro      bool           `json:"gyro"`
	Density   int            `json:"density"`
	Asteroids int            `json:"asteroids"`
	Comets    int            `json:"comets"`
	Faults    uint64         `json:"faults"`
	AvgFrame  float64        `json:"avg_frame_ms"`
	MaxFrame  float64        `json:"max_frame_ms"`
	Bodies    []BodySnapshot `json:"bodies"`
	Events    []state.Event  `json:"events,omitempty"`
}

// Snapshot returns the current scene state.
func (e *Engine) Snapshot() Snapshot {
	st := e.Stats()
	ms := e.mgr.Snapshot()
	events := ms.Events
	if len(events) > 10 {
		events = events[len(events)-10:]
	}
	snap := Snapshot{
		Ticks:     st.Ticks,
		Time:      e.uniforms.Time,
		Warp:      e.state.Warp,
		Mode:      e.state.Camera.Mode.String(),
		View:      e.state.ActiveView.String(),
		Gyro:      e.state.Input.Gyro,
		Density:   e.state.Density,
		Asteroids: st.Asteroids,
		Comets:    st.Comets,
		Faults:    st.Faults,
		AvgFrame:  millis(ms.AvgFrame),
		MaxFrame:  millis(ms.MaxFrame),
		Events:    events,
	}
	if f := e.state.Focused(); f != nil {
		snap.Focus = f.Name
	}
	for _, b := range e.sys.Bodies() {
		p := b.WorldPosition()
		bs := BodySnapshot{
			Name:            b.Name,
			Radius:          b.Radius,
			OrbitalDistance: b.OrbitalDistance,
			OrbitalSpeed:    b.OrbitalSpeed,
			OrbitalAngle:    b.OrbitalAngle,
			Position:        [3]float64{p[0], p[1], p[2]},
			Age:             b.Meta.Age,
		}
		if b.Material != nil {
			bs.Material = b.Material.Kind().String()
		}
		snap.Bodies = append(snap.Bodies, bs)
	}
	return snap
}

func millis(d time.Duration) float64 {
	return float64(d.Microseconds()) / 1000
}
