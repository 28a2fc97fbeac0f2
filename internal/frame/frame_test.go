package frame

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var epoch = time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC)

func TestQueueRunsInScheduleOrder(t *testing.T) {
	q := NewQueue()
	var got []int
	q.Schedule(func(time.Time) { got = append(got, 1) })
	q.Schedule(func(time.Time) { got = append(got, 2) })

	ran := q.Flush(epoch)

	assert.Equal(t, 2, ran)
	assert.Equal(t, []int{1, 2}, got)
	assert.Zero(t, q.Pending())
}

func TestQueuePassesFrameTime(t *testing.T) {
	q := NewQueue()
	var seen time.Time
	q.Schedule(func(now time.Time) { seen = now })

	q.Flush(epoch.Add(time.Second))

	assert.Equal(t, epoch.Add(time.Second), seen)
}

func TestQueueCancel(t *testing.T) {
	q := NewQueue()
	called := false
	h := q.Schedule(func(time.Time) { called = true })
	require.NotZero(t, h)

	q.Cancel(h)
	q.Cancel(h)
	q.Cancel(Handle(999))

	assert.Zero(t, q.Flush(epoch))
	assert.False(t, called)
}

func TestQueueCallbacksScheduledDuringFlushWaitForNextFrame(t *testing.T) {
	q := NewQueue()
	count := 0
	var loop Callback
	loop = func(time.Time) {
		count++
		q.Schedule(loop)
	}
	q.Schedule(loop)

	assert.Equal(t, 1, q.Flush(epoch))
	assert.Equal(t, 1, count)
	assert.Equal(t, 1, q.Pending())

	assert.Equal(t, 1, q.Flush(epoch))
	assert.Equal(t, 2, count)
}

func TestQueueCancelFromEarlierCallback(t *testing.T) {
	q := NewQueue()
	secondRan := false
	var second Handle
	q.Schedule(func(time.Time) { q.Cancel(second) })
	second = q.Schedule(func(time.Time) { secondRan = true })

	assert.Equal(t, 1, q.Flush(epoch))
	assert.False(t, secondRan)
}

func TestHandlesAreUnique(t *testing.T) {
	q := NewQueue()
	seen := make(map[Handle]bool)
	for i := 0; i < 100; i++ {
		h := q.Schedule(func(time.Time) {})
		require.False(t, seen[h], "handle %d issued twice", h)
		seen[h] = true
	}
}

func TestManualClock(t *testing.T) {
	c := NewManualClock(epoch)
	assert.Equal(t, epoch, c.Now())

	c.Advance(16 * time.Millisecond)
	assert.Equal(t, epoch.Add(16*time.Millisecond), c.Now())

	c.Set(epoch)
	assert.Equal(t, epoch, c.Now())
}

func TestDriverStepAdvancesManualClock(t *testing.T) {
	q := NewQueue()
	clock := NewManualClock(epoch)
	d := NewDriver(q, clock, 100)
	require.Equal(t, 10*time.Millisecond, d.Interval())

	var seen time.Time
	q.Schedule(func(now time.Time) { seen = now })

	assert.Equal(t, 1, d.Step())
	assert.Equal(t, epoch.Add(10*time.Millisecond), seen)
	assert.Equal(t, uint64(1), d.Frames())
}

func TestDriverDefaultsFPS(t *testing.T) {
	d := NewDriver(NewQueue(), nil, 0)
	assert.Equal(t, time.Second/60, d.Interval())
}

func TestDriverRunUntilIdle(t *testing.T) {
	q := NewQueue()
	d := NewDriver(q, NewManualClock(epoch), 60)

	remaining := 5
	var tick Callback
	tick = func(time.Time) {
		remaining--
		if remaining > 0 {
			q.Schedule(tick)
		}
	}
	q.Schedule(tick)

	frames, err := d.RunUntilIdle(context.Background(), 100)
	require.NoError(t, err)
	assert.Equal(t, 5, frames)
	assert.Zero(t, q.Pending())
}

func TestDriverRunUntilIdleBudget(t *testing.T) {
	q := NewQueue()
	d := NewDriver(q, NewManualClock(epoch), 60)

	var forever Callback
	forever = func(time.Time) { q.Schedule(forever) }
	q.Schedule(forever)

	frames, err := d.RunUntilIdle(context.Background(), 3)
	assert.ErrorIs(t, err, ErrFrameBudget)
	assert.Equal(t, 3, frames)
}

func TestDriverRunUntilIdleCanceled(t *testing.T) {
	q := NewQueue()
	d := NewDriver(q, NewManualClock(epoch), 60)
	q.Schedule(func(time.Time) {})

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := d.RunUntilIdle(ctx, 10)
	assert.ErrorIs(t, err, context.Canceled)
}

func TestDriverRunStopsOnContext(t *testing.T) {
	q := NewQueue()
	d := NewDriver(q, SystemClock{}, 200)

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Millisecond)
	defer cancel()

	err := d.Run(ctx)
	assert.ErrorIs(t, err, context.DeadlineExceeded)
	assert.NotZero(t, d.Frames())
}
