package overlay

import (
	"fmt"
	"time"

	"github.com/go-logr/logr"

	"paneldeck/internal/events"
)

// Task is a scheduled repeating callback.
type Task interface {
	// Cancel stops future invocations. Calling it more than once is safe.
	Cancel()
}

// Scheduler runs fn every interval until the returned task is cancelled.
// Implementations must invoke fn on the same goroutine that drives the
// workspace.
type Scheduler interface {
	Every(interval time.Duration, fn func(now time.Time)) Task
}

type noopTask struct{}

func (noopTask) Cancel() {}

type noopScheduler struct{}

func (noopScheduler) Every(time.Duration, func(time.Time)) Task { return noopTask{} }

// DefaultTimerLabel is shown while the timer is stopped.
const DefaultTimerLabel = "Start timer"

// TimerOptions configures a Timer.
type TimerOptions struct {
	Scheduler Scheduler
	Bus       *events.Bus
	Logger    logr.Logger
	Clock     func() time.Time
	// Interval between display updates. Defaults to one second.
	Interval time.Duration
	// Label restored when the timer stops.
	Label string
}

// Timer is a start/stop control that displays elapsed time while running.
type Timer struct {
	sched    Scheduler
	bus      *events.Bus
	log      logr.Logger
	now      func() time.Time
	interval time.Duration
	label    string

	running bool
	started time.Time
	task    Task
	display string
}

// NewTimer creates a stopped timer.
func NewTimer(opts TimerOptions) *Timer {
	if opts.Scheduler == nil {
		opts.Scheduler = noopScheduler{}
	}
	if opts.Bus == nil {
		opts.Bus = events.NewBus()
	}
	if opts.Logger.GetSink() == nil {
		opts.Logger = logr.Discard()
	}
	if opts.Clock == nil {
		opts.Clock = time.Now
	}
	if opts.Interval <= 0 {
		opts.Interval = time.Second
	}
	if opts.Label == "" {
		opts.Label = DefaultTimerLabel
	}
	return &Timer{
		sched:    opts.Scheduler,
		bus:      opts.Bus,
		log:      opts.Logger.WithName("timer"),
		now:      opts.Clock,
		interval: opts.Interval,
		label:    opts.Label,
		display:  opts.Label,
	}
}

// Running reports whether the timer is running.
func (t *Timer) Running() bool { return t.running }

// Display returns the text the control shows: the elapsed time while
// running, the label otherwise.
func (t *Timer) Display() string { return t.display }

// Toggle starts a stopped timer and stops a running one.
func (t *Timer) Toggle() {
	if t.running {
		t.Stop()
		return
	}
	t.Start()
}

// Start begins counting from zero and schedules display updates. Starting a
// running timer is a no-op.
func (t *Timer) Start() {
	if t.running {
		return
	}
	t.running = true
	t.started = t.now()
	t.display = FormatElapsed(0)
	t.task = t.sched.Every(t.interval, t.tick)

	t.log.V(1).Info("timer started")
	t.bus.Publish(events.TimerStarted, events.Detail{"startTime": t.started})
}

// Stop cancels updates, restores the label and publishes timerStopped. It
// returns the elapsed time. Stopping a stopped timer is a no-op and returns zero.
func (t *Timer) Stop() time.Duration {
	if !t.running {
		return 0
	}
	stopped := t.now()
	elapsed := stopped.Sub(t.started)
	t.running = false
	if t.task != nil {
		t.task.Cancel()
		t.task = nil
	}
	t.display = t.label

	t.log.V(1).Info("timer stopped", "elapsed", elapsed)
	t.bus.Publish(events.TimerStopped, events.Detail{
		"startTime":   t.started,
		"stopTime":    stopped,
		"elapsedTime": elapsed,
	})
	return elapsed
}

func (t *Timer) tick(now time.Time) {
	if !t.running {
		return
	}
	t.display = FormatElapsed(now.Sub(t.started))
}

// FormatElapsed renders d as zero-padded HH:MM:SS. Hours are not capped.
func FormatElapsed(d time.Duration) string {
	if d < 0 {
		d = 0
	}
	total := int64(d / time.Second)
	return fmt.Sprintf("%02d:%02d:%02d", total/3600, (total/60)%60, total%60)
}
