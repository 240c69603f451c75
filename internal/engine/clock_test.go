package engine

import (
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFrameSyncedStepsOncePerFrame(t *testing.T) {
	frames := NewManualFrames()
	steps := 0
	FrameSynced(frames).Start(func(time.Time) bool {
		steps++
		return true
	})

	for i := 0; i < 5; i++ {
		assert.Equal(t, 1, frames.Advance(time.Now()))
	}
	assert.Equal(t, 5, steps)
	assert.Equal(t, 1, frames.Pending())
}

func TestFrameSyncedEndsWhenStepReturnsFalse(t *testing.T) {
	frames := NewManualFrames()
	steps := 0
	FrameSynced(frames).Start(func(time.Time) bool {
		steps++
		return steps < 3
	})

	for i := 0; i < 10; i++ {
		frames.Advance(time.Now())
	}
	assert.Equal(t, 3, steps)
	assert.Zero(t, frames.Pending())
}

func TestFrameSyncedStopCancelsPendingFrame(t *testing.T) {
	frames := NewManualFrames()
	steps := 0
	h := FrameSynced(frames).Start(func(time.Time) bool {
		steps++
		return true
	})
	frames.Advance(time.Now())

	h.Stop()
	h.Stop()
	assert.Zero(t, frames.Pending())
	assert.Zero(t, frames.Advance(time.Now()))
	assert.Equal(t, 1, steps)
}

func TestIntervalStopPreventsFurtherSteps(t *testing.T) {
	var steps atomic.Int64
	h := Interval(time.Millisecond).Start(func(time.Time) bool {
		steps.Add(1)
		return true
	})

	require.Eventually(t, func() bool { return steps.Load() >= 3 }, time.Second, time.Millisecond)
	h.Stop()
	after := steps.Load()
	time.Sleep(20 * time.Millisecond)
	assert.Equal(t, after, steps.Load())
}

func TestIntervalEndsWhenStepReturnsFalse(t *testing.T) {
	var steps atomic.Int64
	Interval(time.Millisecond).Start(func(time.Time) bool {
		return steps.Add(1) < 2
	})

	require.Eventually(t, func() bool { return steps.Load() == 2 }, time.Second, time.Millisecond)
	time.Sleep(20 * time.Millisecond)
	assert.Equal(t, int64(2), steps.Load())
}

func TestVSyncDeliversFrames(t *testing.T) {
	var steps atomic.Int64
	h := FrameSynced(NewVSync(500)).Start(func(time.Time) bool {
		steps.Add(1)
		return true
	})
	defer h.Stop()

	require.Eventually(t, func() bool { return steps.Load() >= 3 }, time.Second, time.Millisecond)
}
