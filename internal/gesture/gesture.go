// Package gesture receives hand-landmark results from an external tracker.
//
// A tracker (typically a browser page running a hand-landmark model) pushes
// one JSON result per camera frame. The package only decodes and forwards
// results; mapping them onto the scene happens in the input package.
package gesture

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
)

// LandmarkCount is the number of points in one tracked hand.
const LandmarkCount = 21

// Landmark indices used by the scene.
const (
	Wrist     = 0
	ThumbTip  = 4
	IndexTip  = 8
	MiddleMCP = 9
)

// Landmark is one normalized image-space point. X and Y run 0..1 across the
// camera frame.
type Landmark struct {
	X float64 `json:"x"`
	Y float64 `json:"y"`
	Z float64 `json:"z"`
}

// Result is one tracker frame.
type Result struct {
	MultiHandLandmarks [][]Landmark `json:"multiHandLandmarks"`
}

// FirstHand returns the first tracked hand if it carries a full landmark set.
func (r Result) FirstHand() ([]Landmark, bool) {
	if len(r.MultiHandLandmarks) == 0 {
		return nil, false
	}
	hand := r.MultiHandLandmarks[0]
	if len(hand) < LandmarkCount {
		return nil, false
	}
	return hand, true
}

// ErrMalformed wraps payloads that are not a tracker result.
var ErrMalformed = errors.New("malformed gesture payload")

// Decode parses one JSON payload.
func Decode(data []byte) (Result, error) {
	var r Result
	if err := json.Unmarshal(data, &r); err != nil {
		return Result{}, fmt.Errorf("%w: %v", ErrMalformed, err)
	}
	return r, nil
}

// Handler receives decoded results. It is called from the source's goroutine
// and must not block.
type Handler func(Result)

// Source delivers results until ctx is cancelled or the source is exhausted.
type Source interface {
	Run(ctx context.Context, h Handler) error
}
