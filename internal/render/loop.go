package render

import (
	"context"
	"errors"
	"sync"
)

var ErrLoopRunning = errors.New("render: loop already running")

// Event is host input delivered to a running loop.
type Event interface {
	apply(s *Stage)
}

// PointerEvent is a pointer position in surface coordinates.
type PointerEvent struct{ X, Y float64 }

// ResizeEvent is a new surface size in pixels.
type ResizeEvent struct{ W, H float64 }

func (e PointerEvent) apply(s *Stage) { s.Pointer(e.X, e.Y) }
func (e ResizeEvent) apply(s *Stage)  { s.Resize(e.W, e.H) }

// Loop renders the stage once per scheduled frame until stopped. The
// stage is only touched from the loop goroutine; host input goes through
// Send. Events queued before a frame are applied before it.
type Loop struct {
	stage  *Stage
	sched  Scheduler
	events chan Event

	mu     sync.Mutex
	cancel context.CancelFunc
	done   chan struct{}
}

func NewLoop(stage *Stage, sched Scheduler) *Loop {
	return &Loop{
		stage:  stage,
		sched:  sched,
		events: make(chan Event, 64),
	}
}

// Start runs the loop on its own goroutine and keeps the cancel handle.
func (l *Loop) Start(ctx context.Context) error {
	l.mu.Lock()
	defer l.mu.Unlock()
	if l.cancel != nil {
		return ErrLoopRunning
	}
	ctx, cancel := context.WithCancel(ctx)
	l.cancel = cancel
	l.done = make(chan struct{})
	go l.run(ctx, l.done)
	return nil
}

// Stop cancels the loop, clears the handle and waits for the goroutine.
// Stopping an idle loop is a no-op.
func (l *Loop) Stop() {
	l.mu.Lock()
	cancel, done := l.cancel, l.done
	l.cancel = nil
	l.mu.Unlock()
	if cancel == nil {
		return
	}
	cancel()
	<-done
}

// Close stops the loop and its scheduler.
func (l *Loop) Close() {
	l.Stop()
	l.sched.Stop()
}

func (l *Loop) Running() bool {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.cancel != nil
}

// Done is closed when the current run exits.
func (l *Loop) Done() <-chan struct{} {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.done
}

// Run starts the loop and blocks until ctx is done or Stop is called.
func (l *Loop) Run(ctx context.Context) error {
	if err := l.Start(ctx); err != nil {
		return err
	}
	<-l.Done()
	l.Stop()
	return ctx.Err()
}

// Send queues ev for the loop. It reports false when the loop is not
// running.
func (l *Loop) Send(ev Event) bool {
	l.mu.Lock()
	done := l.done
	running := l.cancel != nil
	l.mu.Unlock()
	if !running {
		return false
	}
	select {
	case l.events <- ev:
		return true
	case <-done:
		return false
	}
}

func (l *Loop) Stage() *Stage { return l.stage }

func (l *Loop) run(ctx context.Context, done chan struct{}) {
	defer close(done)
	for {
		select {
		case <-ctx.Done():
			return
		case ev := <-l.events:
			ev.apply(l.stage)
		case <-l.sched.Frames():
			l.drain()
			l.stage.Frame()
			if a, ok := l.sched.(acker); ok {
				a.ack()
			}
		}
	}
}

func (l *Loop) drain() {
	for {
		select {
		case ev := <-l.events:
			ev.apply(l.stage)
		default:
			return
		}
	}
}
