package game

import "time"

// TimerMode selects what a Timer does once its duration has elapsed.
type TimerMode int

const (
	// Once timers stop at their duration and report JustFinished on exactly
	// one tick.
	Once TimerMode = iota
	// Repeating timers wrap around and report JustFinished on every tick in
	// which at least one period completed.
	Repeating
)

// Timer is a monotonic countdown advanced by the tick delta.
type Timer struct {
	Duration time.Duration
	Elapsed  time.Duration
	Mode     TimerMode

	finished     bool
	justFinished bool
	times        int
}

func NewTimer(d time.Duration, mode TimerMode) Timer {
	return Timer{Duration: d, Mode: mode}
}

// Tick advances the timer by dt.
func (t *Timer) Tick(dt time.Duration) {
	t.justFinished = false
	t.times = 0

	if t.Mode == Once {
		if t.finished {
			return
		}
		t.Elapsed += dt
		if t.Elapsed >= t.Duration {
			t.Elapsed = t.Duration
			t.finished = true
			t.justFinished = true
			t.times = 1
		}
		return
	}

	if t.Duration <= 0 {
		return
	}
	t.Elapsed += dt
	if t.Elapsed >= t.Duration {
		t.times = int(t.Elapsed / t.Duration)
		t.Elapsed %= t.Duration
		t.justFinished = true
	}
}

// JustFinished reports whether the last Tick completed the timer.
func (t *Timer) JustFinished() bool { return t.justFinished }

// Finished reports whether a Once timer has run out.
func (t *Timer) Finished() bool { return t.finished }

// TimesFinished is how many periods the last Tick completed.
func (t *Timer) TimesFinished() int { return t.times }

func (t *Timer) Remaining() time.Duration {
	return t.Duration - t.Elapsed
}

func (t *Timer) Reset() {
	t.Elapsed = 0
	t.finished = false
	t.justFinished = false
	t.times = 0
}
