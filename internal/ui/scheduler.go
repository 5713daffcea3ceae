package ui

import (
	"time"

	tea "github.com/charmbracelet/bubbletea"

	"paneldeck/internal/overlay"
)

// schedTickMsg fires one scheduled task.
type schedTickMsg struct {
	id  int
	now time.Time
}

// teaScheduler runs overlay tasks on the Bubble Tea loop with tea.Tick.
// Every only records the task; the model collects the tick commands with
// pending after each update and re-arms a task each time it fires.
type teaScheduler struct {
	nextID  int
	tasks   map[int]*teaTask
	pending []tea.Cmd
}

type teaTask struct {
	id        int
	interval  time.Duration
	fn        func(time.Time)
	cancelled bool
	sched     *teaScheduler
}

// Cancel implements overlay.Task. Ticks already in flight are dropped.
func (t *teaTask) Cancel() {
	if t.cancelled {
		return
	}
	t.cancelled = true
	delete(t.sched.tasks, t.id)
}

var _ overlay.Scheduler = (*teaScheduler)(nil)

func newTeaScheduler() *teaScheduler {
	return &teaScheduler{tasks: make(map[int]*teaTask)}
}

// Every implements overlay.Scheduler.
func (s *teaScheduler) Every(interval time.Duration, fn func(time.Time)) overlay.Task {
	s.nextID++
	t := &teaTask{id: s.nextID, interval: interval, fn: fn, sched: s}
	s.tasks[t.id] = t
	s.arm(t)
	return t
}

func (s *teaScheduler) arm(t *teaTask) {
	id := t.id
	s.pending = append(s.pending, tea.Tick(t.interval, func(now time.Time) tea.Msg {
		return schedTickMsg{id: id, now: now}
	}))
}

// fire runs the task for msg and re-arms it. Unknown or cancelled tasks are
// ignored.
func (s *teaScheduler) fire(msg schedTickMsg) {
	t, ok := s.tasks[msg.id]
	if !ok {
		return
	}
	t.fn(msg.now)
	if !t.cancelled {
		s.arm(t)
	}
}

// drain returns and clears the tick commands armed since the last call.
func (s *teaScheduler) drain() tea.Cmd {
	if len(s.pending) == 0 {
		return nil
	}
	cmds := s.pending
	s.pending = nil
	return tea.Batch(cmds...)
}
