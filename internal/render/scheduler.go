package render

import (
	"sync"
	"time"
)

const DefaultFPS = 60

// Scheduler delivers one value per display frame.
type Scheduler interface {
	Frames() <-chan time.Time
	Stop()
}

// acker is implemented by schedulers that wait for a frame to finish.
type acker interface {
	ack()
}

// Ticker schedules frames at a fixed rate.
type Ticker struct {
	t *time.Ticker
}

func NewTicker(fps int) *Ticker {
	if fps <= 0 {
		fps = DefaultFPS
	}
	return &Ticker{t: time.NewTicker(time.Second / time.Duration(fps))}
}

func (t *Ticker) Frames() <-chan time.Time { return t.t.C }
func (t *Ticker) Stop()                    { t.t.Stop() }

// Manual delivers frames only when Tick is called. Tick returns after the
// loop has finished rendering that frame.
type Manual struct {
	ch   chan time.Time
	done chan struct{}
	quit chan struct{}
	once sync.Once
	now  time.Time
	step time.Duration
}

func NewManual(fps int) *Manual {
	if fps <= 0 {
		fps = DefaultFPS
	}
	return &Manual{
		ch:   make(chan time.Time),
		done: make(chan struct{}),
		quit: make(chan struct{}),
		step: time.Second / time.Duration(fps),
	}
}

func (m *Manual) Frames() <-chan time.Time { return m.ch }

// Tick delivers one frame. It reports false once the scheduler is stopped.
func (m *Manual) Tick() bool {
	m.now = m.now.Add(m.step)
	select {
	case m.ch <- m.now:
	case <-m.quit:
		return false
	}
	select {
	case <-m.done:
		return true
	case <-m.quit:
		return false
	}
}

func (m *Manual) ack() {
	select {
	case m.done <- struct{}{}:
	case <-m.quit:
	}
}

func (m *Manual) Stop() { m.once.Do(func() { close(m.quit) }) }
