package sim

import (
	"context"
	"fmt"
	"io"
	"log"

	"github.com/san-kum/blobsim/internal/automation"
	"github.com/san-kum/blobsim/internal/dynamo"
	"github.com/san-kum/blobsim/internal/physics"
	"github.com/san-kum/blobsim/internal/render"
)

// Runner drives a stage headlessly: every frame is pushed through a
// manual scheduler after the scripted input due on that frame.
type Runner struct {
	metrics   []dynamo.Metric
	observers []dynamo.Observer
	logger    *log.Logger
}

func New() *Runner {
	return &Runner{
		metrics:   make([]dynamo.Metric, 0),
		observers: make([]dynamo.Observer, 0),
		logger:    log.New(io.Discard, "", 0),
	}
}

func (r *Runner) AddMetric(m dynamo.Metric)     { r.metrics = append(r.metrics, m) }
func (r *Runner) AddObserver(o dynamo.Observer) { r.observers = append(r.observers, o) }

func (r *Runner) SetLogger(l *log.Logger) {
	if l != nil {
		r.logger = l
	}
}

// Run renders the scenario on stage. A nil scenario runs cfg.Frames
// frames without input. Events scheduled for frame i are delivered
// before the (i+1)th frame is rendered.
func (r *Runner) Run(ctx context.Context, stage *render.Stage, sc *automation.Scenario, cfg RunConfig) (*Result, error) {
	frames := cfg.Frames
	if frames <= 0 && sc != nil {
		frames = sc.Frames
	}
	if frames <= 0 {
		return nil, fmt.Errorf("frames must be positive, got %d", frames)
	}
	var events []automation.Event
	if sc != nil {
		events = sc.Events()
	}

	result := &Result{Metrics: make(map[string]float64)}
	if cfg.RecordEvery > 0 {
		result.States = make([]dynamo.State, 0, frames/cfg.RecordEvery+1)
	}

	for _, m := range r.metrics {
		m.Reset()
	}

	base := stage.Frames()
	remove := stage.OnImpulse(func(frame int, imp physics.Impulse) {
		result.Impulses = append(result.Impulses, ImpulseRecord{Frame: frame - base, Impulse: imp})
	})
	defer remove()

	sched := render.NewManual(cfg.FPS)
	loop := render.NewLoop(stage, sched)
	if err := loop.Start(ctx); err != nil {
		return nil, err
	}
	defer loop.Close()
	done := loop.Done()
	go func() {
		<-done
		sched.Stop()
	}()

	next := 0
	for i := 0; i < frames; i++ {
		select {
		case <-ctx.Done():
			return result, ctx.Err()
		default:
		}

		for ; next < len(events) && events[next].Frame <= i; next++ {
			ev := events[next]
			var rev render.Event = render.PointerEvent{X: ev.X, Y: ev.Y}
			if ev.Kind == automation.Resize {
				rev = render.ResizeEvent{W: ev.X, H: ev.Y}
			}
			loop.Send(rev)
		}

		if !sched.Tick() {
			if err := ctx.Err(); err != nil {
				return result, err
			}
			return result, fmt.Errorf("frame %d: scheduler stopped", i)
		}

		frame := stage.Frames() - base
		x := stage.Ring().State()
		result.FramesRun = frame
		result.Final = x

		for _, m := range r.metrics {
			m.Observe(x, frame)
		}
		for _, obs := range r.observers {
			obs.OnFrame(x, frame)
		}
		if cfg.RecordEvery > 0 && frame%cfg.RecordEvery == 0 {
			result.Frames = append(result.Frames, frame)
			result.States = append(result.States, x)
		}

		if cfg.ValidateState && !x.IsValid() {
			r.logger.Printf("frame=%d invalid ring state", frame)
			return result, SimError{Frame: frame, Message: "invalid state (NaN/Inf)", Err: dynamo.ErrUnstable}
		}
	}

	for _, m := range r.metrics {
		result.Metrics[m.Name()] = m.Value()
	}
	r.logger.Printf("run complete frames=%d impulses=%d", result.FramesRun, len(result.Impulses))
	return result, nil
}
