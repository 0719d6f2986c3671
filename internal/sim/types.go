package sim

import (
	"fmt"

	"github.com/san-kum/blobsim/internal/dynamo"
	"github.com/san-kum/blobsim/internal/export"
	"github.com/san-kum/blobsim/internal/physics"
)

type RunConfig struct {
	// Frames overrides the scenario length when positive.
	Frames int
	FPS    int
	// ValidateState aborts the run with dynamo.ErrUnstable on NaN/Inf.
	ValidateState bool
	// RecordEvery keeps every n-th state; 0 keeps none.
	RecordEvery int
}

// ImpulseRecord is a hover transition and the frame it preceded.
type ImpulseRecord struct {
	Frame int
	physics.Impulse
}

type Result struct {
	Frames   []int
	States   []dynamo.State
	Impulses []ImpulseRecord
	Metrics  map[string]float64
	// FramesRun counts rendered frames, recorded or not.
	FramesRun int
	Final     dynamo.State
}

// Trace converts the result for export.
func (r *Result) Trace(name string, fps int) *export.Trace {
	t := &export.Trace{
		Name:    name,
		FPS:     fps,
		Frames:  r.Frames,
		States:  r.States,
		Metrics: r.Metrics,
	}
	if len(r.Final) > 0 {
		t.Points = r.Final.Points()
	}
	for _, imp := range r.Impulses {
		t.Impulses = append(t.Impulses, export.Impulse{
			Frame:      imp.Frame,
			Transition: imp.Transition.String(),
			Point:      imp.Index,
			Value:      imp.Value,
		})
	}
	return t
}

// SimError reports the frame a run failed on.
type SimError struct {
	Frame   int
	Message string
	Err     error
}

func (e SimError) Error() string {
	return fmt.Sprintf("frame %d: %s", e.Frame, e.Message)
}

func (e SimError) Unwrap() error { return e.Err }
