// Package config loads the optional ls-orrery.toml settings file.
package config

import (
	"bytes"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"time"

	"github.com/pelletier/go-toml/v2"

	"github.com/litescript/ls-orrery/internal/engine"
	"github.com/litescript/ls-orrery/internal/gesture"
	"github.com/litescript/ls-orrery/internal/logging"
	"github.com/litescript/ls-orrery/internal/orrery"
)

// DefaultPath is the settings file looked up in the working directory.
const DefaultPath = "ls-orrery.toml"

// Limits.
const (
	DefaultFPS = 30
	MaxFPS     = 120
)

// ErrInvalid is returned for settings that fail validation.
var ErrInvalid = errors.New("invalid config")

// SceneConfig holds what is drawn.
type SceneConfig struct {
	Density int  `toml:"density"`
	Tracks  bool `toml:"tracks"`
	Grid    bool `toml:"grid"`
	Glow    bool `toml:"glow"`
	Gyro    bool `toml:"gyro"`
	Moon    bool `toml:"moon"`
	Dust    int  `toml:"dust"`
	Stars   bool `toml:"stars"`
}

// GestureConfig selects the landmark source. Replay wins over the server
// when both are set.
type GestureConfig struct {
	Enabled          bool   `toml:"enabled"`
	Addr             string `toml:"addr"`
	Path             string `toml:"path"`
	Replay           string `toml:"replay"`
	ReplayIntervalMS int    `toml:"replay_interval_ms"`
	Loop             bool   `toml:"loop"`
}

// LogConfig holds logging settings.
type LogConfig struct {
	Level string `toml:"level"`
	File  string `toml:"file"`
}

// Config is the full settings file.
type Config struct {
	FPS     int           `toml:"fps"`
	FOV     float64       `toml:"fov"`
	Seed    uint64        `toml:"seed"` // 0 picks a random seed
	Scene   SceneConfig   `toml:"scene"`
	Gesture GestureConfig `toml:"gesture"`
	Log     LogConfig     `toml:"log"`
}

// DefaultConfig returns the settings used when no file exists.
func DefaultConfig() Config {
	return Config{
		FPS: DefaultFPS,
		FOV: engine.DefaultFOV,
		Scene: SceneConfig{
			Density: orrery.DefaultDensity,
			Tracks:  true,
			Grid:    true,
			Glow:    true,
			Gyro:    true,
			Moon:    true,
			Dust:    2000,
			Stars:   true,
		},
		Gesture: GestureConfig{
			Enabled:          true,
			Addr:             gesture.DefaultAddr,
			Path:             gesture.DefaultPath,
			ReplayIntervalMS: int(gesture.DefaultReplayInterval / time.Millisecond),
			Loop:             true,
		},
		Log: LogConfig{
			Level: "info",
		},
	}
}

// Load reads path over the defaults. A missing file yields the defaults.
// Unknown keys are rejected.
func Load(path string) (Config, error) {
	cfg := DefaultConfig()
	data, err := os.ReadFile(path)
	if errors.Is(err, fs.ErrNotExist) {
		return cfg, nil
	}
	if err != nil {
		return cfg, fmt.Errorf("load config: %w", err)
	}
	if err := Decode(data, &cfg); err != nil {
		return DefaultConfig(), fmt.Errorf("load config %s: %w", path, err)
	}
	return cfg, nil
}

// Decode parses TOML into cfg and validates the result. Keys absent from
// data keep their current values.
func Decode(data []byte, cfg *Config) error {
	dec := toml.NewDecoder(bytes.NewReader(data))
	dec.DisallowUnknownFields()
	if err := dec.Decode(cfg); err != nil {
		var strict *toml.StrictMissingError
		if errors.As(err, &strict) {
			return fmt.Errorf("%w: %s", ErrInvalid, strict.String())
		}
		return err
	}
	return cfg.Validate()
}

// Validate checks value ranges.
func (c Config) Validate() error {
	switch {
	case c.FPS <= 0 || c.FPS > MaxFPS:
		return fmt.Errorf("%w: fps %d not in 1..%d", ErrInvalid, c.FPS, MaxFPS)
	case c.FOV <= 0 || c.FOV >= 180:
		return fmt.Errorf("%w: fov %v not in (0, 180)", ErrInvalid, c.FOV)
	case c.Scene.Density < 0:
		return fmt.Errorf("%w: density %d is negative", ErrInvalid, c.Scene.Density)
	case c.Scene.Dust < 0:
		return fmt.Errorf("%w: dust %d is negative", ErrInvalid, c.Scene.Dust)
	case c.Gesture.ReplayIntervalMS <= 0:
		return fmt.Errorf("%w: replay_interval_ms %d must be positive", ErrInvalid, c.Gesture.ReplayIntervalMS)
	case c.Gesture.Enabled && c.Gesture.Replay == "" && c.Gesture.Addr == "":
		return fmt.Errorf("%w: gesture enabled without addr or replay", ErrInvalid)
	}
	if _, ok := logging.LookupLevel(c.Log.Level); !ok {
		return fmt.Errorf("%w: log level %q", ErrInvalid, c.Log.Level)
	}
	return nil
}

// FrameInterval returns the time between frames.
func (c Config) FrameInterval() time.Duration {
	return time.Second / time.Duration(c.FPS)
}

// ReplayInterval returns the delay between replayed gesture lines.
func (c Config) ReplayInterval() time.Duration {
	return time.Duration(c.Gesture.ReplayIntervalMS) * time.Millisecond
}

// Engine returns the engine settings.
func (c Config) Engine() engine.Config {
	ec := engine.DefaultConfig()
	ec.FOV = c.FOV
	ec.ShowTracks = c.Scene.Tracks
	ec.ShowGrid = c.Scene.Grid
	ec.ShowGlow = c.Scene.Glow
	ec.Gyro = c.Scene.Gyro
	ec.Build.Density = c.Scene.Density
	ec.Build.WithMoon = c.Scene.Moon
	ec.Build.DustCount = c.Scene.Dust
	if !c.Scene.Stars {
		ec.Build.StarRadius = 0
	}
	return ec
}
