package czml

import (
	"errors"
	"fmt"
	"time"

	"github.com/star/czmlgo/internal/orbit"
)

// ErrInvalidWindow is returned for an empty or reversed time window.
var ErrInvalidWindow = errors.New("invalid time window")

// Window is the shared sampling interval [Start, End) and sample count.
type Window struct {
	Start   time.Time
	End     time.Time
	Samples int
}

// Validate checks End > Start, Samples >= 1 and a step of at least 1ns.
func (w Window) Validate() error {
	if !w.End.After(w.Start) {
		return fmt.Errorf("%w: end %s is not after start %s", ErrInvalidWindow,
			w.End.UTC().Format(TimeLayout), w.Start.UTC().Format(TimeLayout))
	}
	if w.Samples < 1 {
		return fmt.Errorf("%w: sample count %d, need at least 1", ErrInvalidWindow, w.Samples)
	}
	if w.Step() <= 0 {
		return fmt.Errorf("%w: %d samples do not fit in %v", ErrInvalidWindow, w.Samples, w.End.Sub(w.Start))
	}
	return nil
}

// Step returns the spacing between consecutive samples.
func (w Window) Step() time.Duration {
	return w.End.Sub(w.Start) / time.Duration(w.Samples)
}

// Interval formats the window as an ISO-8601 "start/end" interval.
func (w Window) Interval() string {
	return formatTime(w.Start) + "/" + formatTime(w.End)
}

// SampledPoint is one propagated position, tagged with its offset from the
// window start.
type SampledPoint struct {
	Elapsed  time.Duration
	Position [3]float64 // meters
}

// Sample propagates o at w.Samples evenly spaced instants Start + i·Step.
//
// Time tags are offsets from the window start. The orbit is asked for
// (Start - o.Epoch()) + i·Step, which equals i·Step when the window starts at
// the orbit epoch.
func Sample(o orbit.Orbit, w Window) ([]SampledPoint, error) {
	step := w.Step()
	offset := w.Start.Sub(o.Epoch())

	points := make([]SampledPoint, 0, w.Samples)
	for i := 0; i < w.Samples; i++ {
		elapsed := time.Duration(i) * step
		state, err := o.Propagate(offset + elapsed)
		if err != nil {
			return nil, fmt.Errorf("sample %d at +%.3fs: %w", i, elapsed.Seconds(), err)
		}
		points = append(points, SampledPoint{Elapsed: elapsed, Position: state.Position})
	}
	return points, nil
}

func formatTime(t time.Time) string {
	return t.UTC().Format(TimeLayout)
}
