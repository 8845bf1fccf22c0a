package session

import (
	"errors"
	"sync"
)

var ErrInvalidTimer = errors.New("timer must be between 0.1 and 10 minutes")

const (
	MinTimerMinutes = 0.1
	MaxTimerMinutes = 10.0
)

// Defaults holds the process-wide per-team timer default. It is shared by
// every session (the timer command in any channel changes it for all), so
// access is locked. Changing it never touches a running game's clocks.
type Defaults struct {
	mu           sync.Mutex
	timerMinutes float64
}

func NewDefaults(timerMinutes float64) *Defaults {
	if timerMinutes < MinTimerMinutes || timerMinutes > MaxTimerMinutes {
		timerMinutes = 2
	}
	return &Defaults{timerMinutes: timerMinutes}
}

func (d *Defaults) TimerMinutes() float64 {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.timerMinutes
}

func (d *Defaults) SetTimerMinutes(v float64) error {
	if v < MinTimerMinutes || v > MaxTimerMinutes {
		return ErrInvalidTimer
	}
	d.mu.Lock()
	defer d.mu.Unlock()
	d.timerMinutes = v
	return nil
}
