package frame

import (
	"context"
	"errors"
	"time"
)

// ErrFrameBudget is returned by RunUntilIdle when callbacks are still pending
// after the frame budget is spent.
var ErrFrameBudget = errors.New("frame: callbacks still pending after frame budget")

// Driver flushes a Queue once per frame interval.
type Driver struct {
	queue    *Queue
	clock    Clock
	interval time.Duration
	frames   uint64
}

// NewDriver creates a driver ticking at fps frames per second. A non-positive
// fps falls back to 60.
func NewDriver(q *Queue, clock Clock, fps int) *Driver {
	if fps <= 0 {
		fps = 60
	}
	if clock == nil {
		clock = SystemClock{}
	}
	return &Driver{
		queue:    q,
		clock:    clock,
		interval: time.Second / time.Duration(fps),
	}
}

func (d *Driver) Interval() time.Duration { return d.interval }
func (d *Driver) Frames() uint64          { return d.frames }

// Step runs one frame. A ManualClock is advanced by one interval first.
func (d *Driver) Step() int {
	if mc, ok := d.clock.(*ManualClock); ok {
		mc.Advance(d.interval)
	}
	d.frames++
	return d.queue.Flush(d.clock.Now())
}

// Run ticks in real time until ctx is done.
func (d *Driver) Run(ctx context.Context) error {
	ticker := time.NewTicker(d.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-ticker.C:
			d.Step()
		}
	}
}

// RunUntilIdle steps until the queue is empty or maxFrames have run. Manual
// clocks are stepped back to back; other clocks wait for the ticker.
func (d *Driver) RunUntilIdle(ctx context.Context, maxFrames int) (int, error) {
	_, manual := d.clock.(*ManualClock)

	var tick <-chan time.Time
	if !manual {
		ticker := time.NewTicker(d.interval)
		defer ticker.Stop()
		tick = ticker.C
	}

	frames := 0
	for d.queue.Pending() > 0 {
		if frames >= maxFrames {
			return frames, ErrFrameBudget
		}

		if manual {
			select {
			case <-ctx.Done():
				return frames, ctx.Err()
			default:
			}
		} else {
			select {
			case <-ctx.Done():
				return frames, ctx.Err()
			case <-tick:
			}
		}

		d.Step()
		frames++
	}
	return frames, nil
}
