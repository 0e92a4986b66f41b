package core

import (
	"context"
	"time"
)

// Pacer spaces simulation steps by a fixed interval. A zero interval means
// every call to Ready reports true.
type Pacer struct {
	interval time.Duration
	last     time.Time
}

// NewPacer constructs a Pacer targeting the given steps per second. A
// non-positive rate disables pacing.
func NewPacer(stepsPerSecond int) *Pacer {
	p := &Pacer{}
	p.SetRate(stepsPerSecond)
	return p
}

// SetRate changes the step rate. It is safe to call from the main loop.
func (p *Pacer) SetRate(stepsPerSecond int) {
	if stepsPerSecond <= 0 {
		p.interval = 0
		return
	}
	p.interval = time.Second / time.Duration(stepsPerSecond)
}

// Interval reports the current spacing between steps.
func (p *Pacer) Interval() time.Duration { return p.interval }

// Ready reports whether enough time has passed since the last accepted step.
func (p *Pacer) Ready() bool {
	now := time.Now()
	if p.interval <= 0 || p.last.IsZero() || now.Sub(p.last) >= p.interval {
		p.last = now
		return true
	}
	return false
}

// Sleep blocks for d or until ctx is done, returning ctx.Err() in the latter
// case.
func Sleep(ctx context.Context, d time.Duration) error {
	if d <= 0 {
		return ctx.Err()
	}
	t := time.NewTimer(d)
	defer t.Stop()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-t.C:
		return nil
	}
}
