package gesture

import (
	"bufio"
	"bytes"
	"context"
	"fmt"
	"io"
	"os"
	"time"

	"github.com/litescript/ls-orrery/internal/logging"
)

// DefaultReplayInterval matches a 30 fps camera.
const DefaultReplayInterval = 33 * time.Millisecond

// Replay plays back a recorded session: one JSON result per line.
type Replay struct {
	Open     func() (io.ReadCloser, error)
	Interval time.Duration
	Loop     bool

	logger *logging.Logger
}

// NewReplayFile creates a replay of the JSON-lines file at path.
func NewReplayFile(path string, interval time.Duration, loop bool, logger *logging.Logger) *Replay {
	return NewReplay(func() (io.ReadCloser, error) { return os.Open(path) }, interval, loop, logger)
}

// NewReplay creates a replay over whatever open returns.
func NewReplay(open func() (io.ReadCloser, error), interval time.Duration, loop bool, logger *logging.Logger) *Replay {
	if interval <= 0 {
		interval = DefaultReplayInterval
	}
	if logger == nil {
		logger = logging.Discard()
	}
	return &Replay{Open: open, Interval: interval, Loop: loop, logger: logger}
}

// Run delivers one result per Interval until the recording ends (or, with
// Loop set, until ctx is cancelled). Blank and malformed lines are skipped.
func (r *Replay) Run(ctx context.Context, h Handler) error {
	ticker := time.NewTicker(r.Interval)
	defer ticker.Stop()

	for {
		n, err := r.playOnce(ctx, ticker.C, h)
		if err != nil {
			return err
		}
		if !r.Loop || ctx.Err() != nil {
			return nil
		}
		if n == 0 {
			// Nothing playable; looping would spin.
			return fmt.Errorf("replay: no results in recording")
		}
	}
}

func (r *Replay) playOnce(ctx context.Context, tick <-chan time.Time, h Handler) (int, error) {
	rc, err := r.Open()
	if err != nil {
		return 0, fmt.Errorf("replay: %w", err)
	}
	defer rc.Close()

	delivered := 0
	sc := bufio.NewScanner(rc)
	sc.Buffer(make([]byte, 0, 64<<10), 1<<20)
	for sc.Scan() {
		line := bytes.TrimSpace(sc.Bytes())
		if len(line) == 0 {
			continue
		}
		res, err := Decode(line)
		if err != nil {
			r.logger.Debug("replay: skip line: %v", err)
			continue
		}
		select {
		case <-ctx.Done():
			return delivered, nil
		case <-tick:
		}
		h(res)
		delivered++
	}
	if err := sc.Err(); err != nil {
		return delivered, fmt.Errorf("replay: read: %w", err)
	}
	return delivered, nil
}
