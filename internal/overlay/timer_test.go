package overlay_test

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"paneldeck/internal/events"
	"paneldeck/internal/overlay"
	"paneldeck/internal/overlay/overlaytest"
)

func newTimer(t *testing.T) (*overlay.Timer, *overlaytest.ManualScheduler, *events.History) {
	t.Helper()
	sched := overlaytest.NewManualScheduler(time.Date(2026, 3, 1, 9, 0, 0, 0, time.UTC))
	bus := events.NewBus()
	hist := events.NewHistory(20)
	bus.Subscribe(hist)
	timer := overlay.NewTimer(overlay.TimerOptions{Scheduler: sched, Bus: bus, Clock: sched.Clock})
	return timer, sched, hist
}

func TestTimer_SixtyOneSeconds(t *testing.T) {
	timer, sched, hist := newTimer(t)
	assert.Equal(t, overlay.DefaultTimerLabel, timer.Display())

	timer.Toggle()
	require.True(t, timer.Running())
	assert.Equal(t, "00:00:00", timer.Display())

	sched.Advance(61 * time.Second)
	assert.Equal(t, "00:01:01", timer.Display())

	elapsed := timer.Stop()
	assert.Equal(t, "00:01:01", overlay.FormatElapsed(elapsed))
	assert.Equal(t, overlay.DefaultTimerLabel, timer.Display())
	assert.Zero(t, sched.Active())

	stopped := hist.Named(events.TimerStopped)
	require.Len(t, stopped, 1)
	assert.Contains(t, stopped[0].Detail, "startTime")
	assert.Contains(t, stopped[0].Detail, "stopTime")
}

func TestTimer_StopTwiceIsNoop(t *testing.T) {
	timer, sched, hist := newTimer(t)
	timer.Start()
	sched.Advance(3 * time.Second)
	timer.Stop()
	assert.Zero(t, timer.Stop())
	assert.Len(t, hist.Named(events.TimerStopped), 1)
}

func TestTimer_StopBeforeStartIsNoop(t *testing.T) {
	timer, _, hist := newTimer(t)
	assert.Zero(t, timer.Stop())
	assert.Empty(t, hist.Events())
}

func TestTimer_StartTwiceSchedulesOnce(t *testing.T) {
	timer, sched, hist := newTimer(t)
	timer.Start()
	timer.Start()
	assert.Equal(t, 1, sched.Active())
	assert.Len(t, hist.Named(events.TimerStarted), 1)
}

func TestTimer_RestartCountsFromZero(t *testing.T) {
	timer, sched, _ := newTimer(t)
	timer.Toggle()
	sched.Advance(90 * time.Second)
	timer.Toggle()
	sched.Advance(time.Hour)
	timer.Toggle()
	sched.Advance(2 * time.Second)
	assert.Equal(t, "00:00:02", timer.Display())
	assert.Equal(t, 2*time.Second, timer.Stop())
}

func TestTimer_CustomLabel(t *testing.T) {
	timer := overlay.NewTimer(overlay.TimerOptions{Label: "Go"})
	timer.Start()
	timer.Stop()
	assert.Equal(t, "Go", timer.Display())
}

func TestFormatElapsed(t *testing.T) {
	assert.Equal(t, "00:00:00", overlay.FormatElapsed(0))
	assert.Equal(t, "00:00:59", overlay.FormatElapsed(59*time.Second+900*time.Millisecond))
	assert.Equal(t, "01:00:00", overlay.FormatElapsed(time.Hour))
	assert.Equal(t, "123:04:05", overlay.FormatElapsed(123*time.Hour+4*time.Minute+5*time.Second))
	assert.Equal(t, "00:00:00", overlay.FormatElapsed(-time.Second))
}
