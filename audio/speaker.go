// Package audio synthesises and plays the engine's sound effect requests.
package audio

import (
	"fmt"
	"sync"
	"time"

	"github.com/gopxl/beep"
	"github.com/gopxl/beep/speaker"
	"github.com/nathoo/tilequest/engine/events"
)

// SampleRate is the rate every sound is synthesised at.
const SampleRate = beep.SampleRate(48000)

// maxVoices caps how many sounds overlap. Requests past it are dropped.
const maxVoices = 8

// Speaker mixes sound effects into the audio device. Until Init succeeds it
// only mixes, which keeps it usable without a device.
type Speaker struct {
	mu          sync.Mutex
	mixer       *beep.Mixer
	volume      float64
	initialized bool
}

// NewSpeaker returns a speaker at volume (0..1).
func NewSpeaker(volume float64) *Speaker {
	return &Speaker{mixer: &beep.Mixer{}, volume: volume}
}

// Init opens the audio device and starts playing the mixer.
func (s *Speaker) Init() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.initialized {
		return nil
	}
	if err := speaker.Init(SampleRate, SampleRate.N(50*time.Millisecond)); err != nil {
		return fmt.Errorf("audio: cannot open device: %w", err)
	}
	speaker.Play(s.mixer)
	s.initialized = true
	return nil
}

// Play queues every request of one frame.
func (s *Speaker) Play(sfx []events.SFX) {
	if len(sfx) == 0 {
		return
	}
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.initialized {
		speaker.Lock()
		defer speaker.Unlock()
	}
	for _, req := range sfx {
		if s.mixer.Len() >= maxVoices {
			return
		}
		if st := Sound(req, s.volume, SampleRate); st != nil {
			s.mixer.Add(st)
		}
	}
}

// Voices is the number of sounds still playing.
func (s *Speaker) Voices() int {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.initialized {
		speaker.Lock()
		defer speaker.Unlock()
	}
	return s.mixer.Len()
}

// Close silences everything and closes the device.
func (s *Speaker) Close() {
	s.mu.Lock()
	defer s.mu.Unlock()

	if !s.initialized {
		s.mixer.Clear()
		return
	}
	speaker.Clear()
	speaker.Close()
	s.initialized = false
}
