package config

import (
	"context"
	"fmt"
	"path/filepath"

	"github.com/fsnotify/fsnotify"

	"github.com/litescript/ls-orrery/internal/logging"
)

// Watch reloads path whenever it is written or replaced and calls fn with the
// new settings. A file that fails to load is logged and skipped. The parent
// directory is watched so editors that save by rename are seen. Watch blocks
// until ctx is done.
func Watch(ctx context.Context, path string, logger *logging.Logger, fn func(Config)) error {
	if logger == nil {
		logger = logging.Discard()
	}
	abs, err := filepath.Abs(path)
	if err != nil {
		return fmt.Errorf("watch config: %w", err)
	}

	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return fmt.Errorf("watch config: %w", err)
	}
	defer watcher.Close()

	if err := watcher.Add(filepath.Dir(abs)); err != nil {
		return fmt.Errorf("watch config %s: %w", filepath.Dir(abs), err)
	}
	logger.Debug("watching %s", abs)

	for {
		select {
		case <-ctx.Done():
			return nil
		case event, ok := <-watcher.Events:
			if !ok {
				return nil
			}
			if filepath.Clean(event.Name) != abs {
				continue
			}
			if !event.Has(fsnotify.Write) && !event.Has(fsnotify.Create) {
				continue
			}
			cfg, err := Load(abs)
			if err != nil {
				logger.Warn("config reload: %v", err)
				continue
			}
			logger.Info("config reloaded from %s", abs)
			fn(cfg)
		case err, ok := <-watcher.Errors:
			if !ok {
				return nil
			}
			logger.Warn("config watcher: %v", err)
		}
	}
}

// Apply pushes the live-reloadable settings into a running scene.
func Apply(cfg Config, s Scene) {
	s.SetTracks(cfg.Scene.Tracks)
	s.SetGrid(cfg.Scene.Grid)
	s.SetGlow(cfg.Scene.Glow)
	s.SetDensity(cfg.Scene.Density)
}

// Scene is the part of the engine a reload touches.
type Scene interface {
	SetTracks(on bool)
	SetGrid(on bool)
	SetGlow(on bool)
	SetDensity(n int)
}
