// Package poll schedules the background refresh that keeps the run list
// current while it is on screen.
package poll

import (
	"time"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/kasli/gh-actions-panel/internal/model"
)

const (
	// ActiveInterval applies while any loaded run is still in progress or
	// queued; IdleInterval otherwise.
	ActiveInterval = 10 * time.Second
	IdleInterval   = 30 * time.Second
)

// TickMsg is delivered when a scheduled refresh comes due. Epoch ties it
// to the Start that scheduled it.
type TickMsg struct {
	Epoch int
}

// Scheduler owns the refresh timer. Each Start and Stop bumps the epoch,
// so a tick queued before Stop is rejected by Valid when it arrives: Stop
// is synchronous and idempotent, and no refresh fires after it. The next
// tick is scheduled when the current one is handled, which spaces ticks by
// interval plus refresh latency rather than on a fixed rate.
type Scheduler struct {
	epoch   int
	enabled bool
}

// Start enables the scheduler and schedules the first tick. Any
// previously queued tick is invalidated.
func (s *Scheduler) Start(interval time.Duration) tea.Cmd {
	s.epoch++
	s.enabled = true
	return s.tick(interval)
}

// Stop disables the scheduler and invalidates any pending tick.
func (s *Scheduler) Stop() {
	if s.enabled {
		s.epoch++
		s.enabled = false
	}
}

func (s *Scheduler) Enabled() bool { return s.enabled }

// Valid reports whether a tick belongs to the current epoch and the
// scheduler is still running.
func (s *Scheduler) Valid(msg TickMsg) bool {
	return s.enabled && msg.Epoch == s.epoch
}

// Next schedules the following tick in the same epoch. Call it when
// handling a valid tick, right as the refresh is issued.
func (s *Scheduler) Next(interval time.Duration) tea.Cmd {
	return s.tick(interval)
}

func (s *Scheduler) tick(interval time.Duration) tea.Cmd {
	epoch := s.epoch
	return tea.Tick(interval, func(time.Time) tea.Msg {
		return TickMsg{Epoch: epoch}
	})
}

// Interval picks the refresh cadence from the loaded runs.
func Interval(runs []model.Run) time.Duration {
	for _, r := range runs {
		if r.Active() {
			return ActiveInterval
		}
	}
	return IdleInterval
}
