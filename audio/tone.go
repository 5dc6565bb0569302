package audio

import (
	"math"
	"time"

	"github.com/gopxl/beep"
)

// sweep is a sine tone whose frequency glides from start to end over its
// length, with an exponential decay.
type sweep struct {
	rate       beep.SampleRate
	start, end float64
	decay      float64
	phase      float64
	pos, total int
}

func newSweep(rate beep.SampleRate, start, end float64, length time.Duration, decay float64) *sweep {
	return &sweep{rate: rate, start: start, end: end, decay: decay, total: rate.N(length)}
}

func (s *sweep) Stream(samples [][2]float64) (n int, ok bool) {
	for i := range samples {
		if s.pos >= s.total {
			return i, i > 0
		}
		t := float64(s.pos) / float64(s.total)
		freq := s.start + (s.end-s.start)*t
		val := math.Sin(2*math.Pi*s.phase) * math.Exp(-s.decay*t)

		samples[i][0] = val
		samples[i][1] = val

		s.phase += freq / float64(s.rate)
		s.phase -= math.Floor(s.phase)
		s.pos++
	}
	return len(samples), true
}

func (s *sweep) Err() error { return nil }

// Pop is the cue for a target dying: a short rising chirp.
func Pop(rate beep.SampleRate) beep.Streamer {
	return beep.Take(rate.N(90*time.Millisecond), newSweep(rate, 660, 1320, 90*time.Millisecond, 4))
}

// Thud is the cue for the player taking escape damage: a low falling hit.
func Thud(rate beep.SampleRate) beep.Streamer {
	return beep.Take(rate.N(220*time.Millisecond), newSweep(rate, 140, 55, 220*time.Millisecond, 6))
}
