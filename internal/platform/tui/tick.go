// Package tui hosts games in a terminal: the Bubble Tea loop, key
// mapping, menus, the scoreboard and the SSH server.
package tui

import (
	"time"

	tea "github.com/charmbracelet/bubbletea"
)

// TickMsg is sent to trigger a game simulation tick. It carries the wall
// clock time the tick fired at.
type TickMsg time.Time

// tickCmd returns a command that fires one TickMsg after a frame interval.
func tickCmd(tickRate int) tea.Cmd {
	if tickRate <= 0 {
		tickRate = 60
	}
	interval := time.Second / time.Duration(tickRate)
	return tea.Tick(interval, func(t time.Time) tea.Msg {
		return TickMsg(t)
	})
}

// frameDelta returns the time elapsed between two ticks, clamped to limit.
// A zero last time means the clock was just (re)started, so no time passes.
func frameDelta(last, now time.Time, limit time.Duration) time.Duration {
	if last.IsZero() {
		return 0
	}
	dt := now.Sub(last)
	if dt < 0 {
		return 0
	}
	if limit > 0 && dt > limit {
		return limit
	}
	return dt
}
