// Package audio turns simulation notifications into synthesized sound cues.
package audio

import (
	"math"
	"sync"
	"time"

	"github.com/gopxl/beep"
	"github.com/gopxl/beep/effects"
	"github.com/gopxl/beep/speaker"
)

const DefaultSampleRate = beep.SampleRate(44100)

type nopLocker struct{}

func (nopLocker) Lock()   {}
func (nopLocker) Unlock() {}

type speakerLocker struct{}

func (speakerLocker) Lock()   { speaker.Lock() }
func (speakerLocker) Unlock() { speaker.Unlock() }

// Sink mixes a cue for every notification it receives. It satisfies
// game.Sink. Without Open it only mixes; something else has to pull
// Streamer().
type Sink struct {
	mu     sync.Mutex
	rate   beep.SampleRate
	mixer  *beep.Mixer
	volume *effects.Volume
	guard  sync.Locker
	muted  bool
	open   bool

	played int
}

func NewSink(rate beep.SampleRate) *Sink {
	mixer := &beep.Mixer{}
	return &Sink{
		rate:   rate,
		mixer:  mixer,
		volume: &effects.Volume{Streamer: mixer, Base: 2},
		guard:  nopLocker{},
	}
}

// Open starts the speaker and plays the mix through it.
func (s *Sink) Open() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.open {
		return nil
	}
	if err := speaker.Init(s.rate, s.rate.N(100*time.Millisecond)); err != nil {
		return err
	}
	speaker.Play(s.volume)
	s.guard = speakerLocker{}
	s.open = true
	return nil
}

func (s *Sink) Close() {
	s.mu.Lock()
	defer s.mu.Unlock()
	if !s.open {
		return
	}
	speaker.Clear()
	speaker.Close()
	s.guard = nopLocker{}
	s.open = false
}

// Streamer is the mix of all pending cues at the sink's volume.
func (s *Sink) Streamer() beep.Streamer {
	return s.volume
}

func (s *Sink) SampleRate() beep.SampleRate {
	return s.rate
}

// SetMuted drops new cues while muted; cues already mixing finish.
func (s *Sink) SetMuted(muted bool) {
	s.mu.Lock()
	s.muted = muted
	s.mu.Unlock()
}

// SetVolume sets the linear gain; 0 silences the mix.
func (s *Sink) SetVolume(gain float64) {
	s.guard.Lock()
	defer s.guard.Unlock()
	if gain <= 0 {
		s.volume.Silent = true
		return
	}
	s.volume.Silent = false
	s.volume.Volume = math.Log2(gain)
}

func (s *Sink) TargetDied()    { s.play(Pop(s.rate)) }
func (s *Sink) PlayerDamaged() { s.play(Thud(s.rate)) }

func (s *Sink) play(cue beep.Streamer) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.muted {
		return
	}
	s.guard.Lock()
	s.mixer.Add(cue)
	s.guard.Unlock()
	s.played++
}

// Playing is the number of cues still in the mix.
func (s *Sink) Playing() int {
	s.guard.Lock()
	defer s.guard.Unlock()
	return s.mixer.Len()
}

// Played counts cues accepted since the sink was created.
func (s *Sink) Played() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.played
}
