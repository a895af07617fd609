// Command ls-orrery is an animated solar-system orrery for the terminal.
package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"io"
	"math/rand/v2"
	"os"
	"os/signal"
	"syscall"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/muesli/termenv"
	"golang.org/x/term"

	"github.com/litescript/ls-orrery/internal/config"
	"github.com/litescript/ls-orrery/internal/engine"
	"github.com/litescript/ls-orrery/internal/gesture"
	"github.com/litescript/ls-orrery/internal/logging"
	"github.com/litescript/ls-orrery/internal/state"
	"github.com/litescript/ls-orrery/internal/ui"
)

// CLI flags for headless mode
var (
	summaryMode  bool
	frameMode    bool
	ticks        int
	snapshotPath string
)

// seedMix decorrelates the two PCG words derived from one seed.
const seedMix = 0x9e3779b97f4a7c15

func main() {
	// Parse flags
	configPath := flag.String("config", config.DefaultPath, "Settings file (TOML, optional)")
	logLevel := flag.String("log-level", "", "Log level (debug, info, warn, error)")
	logFile := flag.String("log-file", "", "Write logs to this file (TUI logs are discarded otherwise)")
	gestureAddr := flag.String("gesture-addr", "", "Listen address for the landmark WebSocket")
	replayPath := flag.String("replay", "", "Replay landmarks from a JSON-lines file")
	noGesture := flag.Bool("no-gesture", false, "Disable the gesture source")
	seed := flag.Uint64("seed", 0, "Random seed for orbits, asteroids and comets (0 = random)")
	fps := flag.Int("fps", 0, "Frames per second")
	flag.BoolVar(&summaryMode, "summary", false, "Print the body table instead of TUI")
	flag.BoolVar(&frameMode, "frame", false, "Print one rendered frame instead of TUI")
	flag.IntVar(&ticks, "ticks", 0, "Ticks to run before headless output")
	flag.StringVar(&snapshotPath, "snapshot-path", "", "Export JSON snapshot to file (use - for stdout)")
	flag.Parse()

	cfg, err := config.Load(*configPath)
	if err != nil {
		fatal(err)
	}

	// Flags override the settings file.
	flag.Visit(func(f *flag.Flag) {
		switch f.Name {
		case "log-level":
			cfg.Log.Level = *logLevel
		case "log-file":
			cfg.Log.File = *logFile
		case "gesture-addr":
			cfg.Gesture.Addr = *gestureAddr
		case "replay":
			cfg.Gesture.Replay = *replayPath
		case "no-gesture":
			cfg.Gesture.Enabled = !*noGesture
		case "seed":
			cfg.Seed = *seed
		case "fps":
			cfg.FPS = *fps
		}
	})
	if err := cfg.Validate(); err != nil {
		fatal(err)
	}

	headless := summaryMode || frameMode || snapshotPath != ""
	isTTY := term.IsTerminal(int(os.Stdout.Fd()))
	if !headless && !isTTY {
		fatal(errors.New("stdout is not a terminal; use --summary, --frame or --snapshot-path"))
	}

	// Set up logging
	logger := logging.New(logging.ParseLevel(cfg.Log.Level))
	if cfg.Log.File != "" {
		closer, err := logger.OpenFile(cfg.Log.File)
		if err != nil {
			fatal(err)
		}
		defer closer.Close()
	} else if !headless {
		// Log lines would corrupt the alt screen.
		logger.SetOutput(io.Discard)
	}

	if cfg.Seed == 0 {
		cfg.Seed = rand.Uint64()
	}
	logger.Debug("seed %d", cfg.Seed)
	rng := rand.New(rand.NewPCG(cfg.Seed, cfg.Seed^seedMix))

	stateMgr := state.NewManager(state.DefaultConfig())
	eng, err := engine.New(cfg.Engine(), rng, logger.Named("engine"), stateMgr)
	if err != nil {
		fatal(err)
	}

	// Headless mode: no TUI
	if headless {
		profile := termenv.Ascii
		cols, rows := engine.DefaultCols, engine.DefaultRows
		if isTTY {
			profile = termenv.EnvColorProfile()
			if w, h, err := term.GetSize(int(os.Stdout.Fd())); err == nil && w > 0 && h > 1 {
				cols, rows = w, h-1
			}
		}
		if err := runHeadless(os.Stdout, eng, cols, rows, profile); err != nil {
			fatal(err)
		}
		return
	}

	// Create context with cancellation
	ctx, cancel := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer cancel()

	model := ui.New(eng, stateMgr, termenv.EnvColorProfile(), cfg.FrameInterval())
	p := tea.NewProgram(model, tea.WithAltScreen(), tea.WithMouseAllMotion(), tea.WithContext(ctx))

	if src := newGestureSource(cfg, logger.Named("gesture")); src != nil {
		go runGestureSource(ctx, src, stateMgr, p, logger)
	}
	go watchConfig(ctx, *configPath, p, logger.Named("config"))

	// Run TUI (blocks until quit)
	if _, err := p.Run(); err != nil && !errors.Is(err, tea.ErrProgramKilled) {
		fmt.Fprintf(os.Stderr, "Error running TUI: %v\n", err)
		os.Exit(1)
	}
}

func fatal(err error) {
	fmt.Fprintf(os.Stderr, "Error: %v\n", err)
	os.Exit(1)
}

// newGestureSource picks the landmark source: a replay file when one is
// configured, otherwise the WebSocket server. It returns nil when disabled.
func newGestureSource(cfg config.Config, logger *logging.Logger) gesture.Source {
	switch {
	case !cfg.Gesture.Enabled:
		return nil
	case cfg.Gesture.Replay != "":
		return gesture.NewReplayFile(cfg.Gesture.Replay, cfg.ReplayInterval(), cfg.Gesture.Loop, logger)
	default:
		return gesture.NewServer(cfg.Gesture.Addr, cfg.Gesture.Path, logger)
	}
}

// runGestureSource feeds landmarks into the mailbox for the life of ctx. A
// source that fails leaves gyro without updates; the scene keeps running.
func runGestureSource(ctx context.Context, src gesture.Source, stateMgr *state.Manager, p *tea.Program, logger *logging.Logger) {
	err := src.Run(ctx, stateMgr.PushGesture)
	if err != nil && ctx.Err() == nil {
		logger.Warn("gesture source stopped: %v", err)
		p.Send(ui.StatusMsg("gesture input unavailable"))
	}
}

func watchConfig(ctx context.Context, path string, p *tea.Program, logger *logging.Logger) {
	err := config.Watch(ctx, path, logger, func(cfg config.Config) {
		p.Send(ui.ApplyMsg{Apply: func(e *engine.Engine) { config.Apply(cfg, e) }})
		p.Send(ui.StatusMsg("settings reloaded"))
	})
	if err != nil {
		logger.Warn("%v", err)
	}
}

// runHeadless advances the scene by the requested ticks and writes the
// selected outputs to w.
func runHeadless(w io.Writer, eng *engine.Engine, cols, rows int, profile termenv.Profile) error {
	eng.Resize(cols, rows)
	for i := 0; i < ticks; i++ {
		eng.Tick()
	}
	if frameMode && ticks == 0 {
		eng.Tick()
	}
	snap := eng.Snapshot()

	// Export JSON if requested
	if snapshotPath != "" {
		if snapshotPath == "-" {
			if err := snap.WriteJSON(w); err != nil {
				return fmt.Errorf("write JSON to stdout: %w", err)
			}
		} else {
			f, err := os.Create(snapshotPath)
			if err != nil {
				return fmt.Errorf("create snapshot file: %w", err)
			}
			defer f.Close()
			if err := snap.WriteJSON(f); err != nil {
				return fmt.Errorf("write JSON to file: %w", err)
			}
		}
	}

	// Print summary table if requested
	if summaryMode {
		engine.WriteSummaryTable(w, snap)
	}

	if frameMode {
		fmt.Fprintln(w, eng.Frame().Encode(profile))
	}
	return nil
}
