// Package state provides thread-safe state shared between the gesture source
// goroutine and the frame loop.
package state

import (
	"sync"
	"time"

	"github.com/litescript/ls-orrery/internal/gesture"
)

// EventType represents the type of scene event.
type EventType string

const (
	EventFocus   EventType = "FOCUS"
	EventUnfocus EventType = "UNFOCUS"
	EventView    EventType = "VIEW"
	EventWarp    EventType = "WARP"
	EventReset   EventType = "RESET"
	EventDensity EventType = "DENSITY"
	EventToggle  EventType = "TOGGLE"
	EventFault   EventType = "FAULT"
)

// Event represents a user-visible change in the scene.
type Event struct {
	Type      EventType `json:"type"`
	Timestamp time.Time `json:"timestamp"`
	Body      string    `json:"body,omitempty"`
	Detail    string    `json:"detail,omitempty"`
}

// Manager holds the gesture mailbox, the event log and frame timings.
//
// The mailbox is last-write-wins: the gesture source overwrites the slot on
// every result and the frame loop reads whatever is newest. A sequence
// number lets the reader skip results it has already applied.
type Manager struct {
	mu sync.RWMutex

	// Gesture mailbox
	gesture     gesture.Result
	gestureSeq  uint64
	lastGesture time.Time

	// Event log (ring buffer)
	events       []Event
	maxEvents    int
	eventWriteAt int

	// Frame timings (ring buffer)
	frames       []time.Duration
	maxFrames    int
	frameWriteAt int
	frameCount   uint64
}

// Config holds configuration for the state manager.
type Config struct {
	MaxEvents int
	MaxFrames int
}

// DefaultConfig returns sensible default configuration.
func DefaultConfig() Config {
	return Config{
		MaxEvents: 50, // Last 50 events
		MaxFrames: 60, // About two seconds at 30 fps
	}
}

// NewManager creates a new state manager.
func NewManager(cfg Config) *Manager {
	maxEvents := cfg.MaxEvents
	if maxEvents <= 0 {
		maxEvents = 50
	}
	maxFrames := cfg.MaxFrames
	if maxFrames <= 0 {
		maxFrames = 60
	}
	return &Manager{
		maxEvents: maxEvents,
		events:    make([]Event, 0, maxEvents),
		maxFrames: maxFrames,
		frames:    make([]time.Duration, 0, maxFrames),
	}
}

// PushGesture stores res as the newest gesture result. It never blocks on the
// reader.
func (m *Manager) PushGesture(res gesture.Result) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.gesture = res
	m.gestureSeq++
	m.lastGesture = time.Now()
}

// LatestGesture returns the newest result if its sequence number is greater
// than after. Intermediate results the reader never saw are dropped.
func (m *Manager) LatestGesture(after uint64) (gesture.Result, uint64, bool) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	if m.gestureSeq <= after {
		return gesture.Result{}, m.gestureSeq, false
	}
	return m.gesture, m.gestureSeq, true
}

// AddEvent appends an event to the log, stamping it if needed.
func (m *Manager) AddEvent(e Event) {
	if e.Timestamp.IsZero() {
		e.Timestamp = time.Now()
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	m.addEvent(e)
}

// addEvent adds an event to the ring buffer.
func (m *Manager) addEvent(e Event) {
	if len(m.events) < m.maxEvents {
		m.events = append(m.events, e)
	} else {
		m.events[m.eventWriteAt] = e
		m.eventWriteAt = (m.eventWriteAt + 1) % m.maxEvents
	}
}

// RecordFrame stores how long one tick took.
func (m *Manager) RecordFrame(d time.Duration) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.frameCount++
	if len(m.frames) < m.maxFrames {
		m.frames = append(m.frames, d)
		return
	}
	m.frames[m.frameWriteAt] = d
	m.frameWriteAt = (m.frameWriteAt + 1) % m.maxFrames
}

// Snapshot represents an immutable snapshot of current state.
type Snapshot struct {
	GestureSeq  uint64
	LastGesture time.Time
	Frames      uint64
	AvgFrame    time.Duration
	MaxFrame    time.Duration
	Events      []Event
}

// Snapshot returns a consistent snapshot of current state.
func (m *Manager) Snapshot() Snapshot {
	m.mu.RLock()
	defer m.mu.RUnlock()

	var total, worst time.Duration
	for _, d := range m.frames {
		total += d
		if d > worst {
			worst = d
		}
	}
	var avg time.Duration
	if len(m.frames) > 0 {
		avg = total / time.Duration(len(m.frames))
	}

	return Snapshot{
		GestureSeq:  m.gestureSeq,
		LastGesture: m.lastGesture,
		Frames:      m.frameCount,
		AvgFrame:    avg,
		MaxFrame:    worst,
		Events:      m.getEventsOrdered(),
	}
}

// getEventsOrdered returns events in chronological order.
func (m *Manager) getEventsOrdered() []Event {
	if len(m.events) == 0 {
		return nil
	}

	// If buffer isn't full yet, just copy
	if len(m.events) < m.maxEvents {
		result := make([]Event, len(m.events))
		copy(result, m.events)
		return result
	}

	// Ring buffer is full, reorder from oldest to newest
	result := make([]Event, m.maxEvents)
	for i := 0; i < m.maxEvents; i++ {
		idx := (m.eventWriteAt + i) % m.maxEvents
		result[i] = m.events[idx]
	}
	return result
}

// RecentEvents returns the last n events.
func (m *Manager) RecentEvents(n int) []Event {
	m.mu.RLock()
	defer m.mu.RUnlock()

	all := m.getEventsOrdered()
	if len(all) <= n {
		return all
	}
	return all[len(all)-n:]
}

// GestureActive reports whether a gesture arrived within window.
func (m *Manager) GestureActive(window time.Duration) bool {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return !m.lastGesture.IsZero() && time.Since(m.lastGesture) <= window
}
