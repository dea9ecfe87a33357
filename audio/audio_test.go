package audio

import (
	"math"
	"testing"
	"time"

	"github.com/gopxl/beep"
	"github.com/nathoo/tilequest/engine/events"
)

// drain streams s to the end and returns its length and peak amplitude.
func drain(s beep.Streamer) (n int, peak float64) {
	buf := make([][2]float64, 256)
	for {
		got, ok := s.Stream(buf)
		for _, frame := range buf[:got] {
			peak = math.Max(peak, math.Abs(frame[0]))
		}
		n += got
		if !ok {
			return n, peak
		}
	}
}

func TestOscillator_Length(t *testing.T) {
	n, peak := drain(newOscillator(440, 10*time.Millisecond, Square, SampleRate))
	if n != SampleRate.N(10*time.Millisecond) {
		t.Errorf("length = %d", n)
	}
	if peak != 1 {
		t.Errorf("square peak = %v", peak)
	}
}

func TestEnvelope_StartsAndEndsQuiet(t *testing.T) {
	s := tone(440, Square, 20*time.Millisecond, 5*time.Millisecond, 5*time.Millisecond, SampleRate)
	buf := make([][2]float64, SampleRate.N(20*time.Millisecond))
	n, _ := s.Stream(buf)
	if n != len(buf) {
		t.Fatalf("streamed %d of %d", n, len(buf))
	}
	if buf[0][0] != 0 {
		t.Errorf("first sample = %v, want silence at the start of the attack", buf[0][0])
	}
	if last := math.Abs(buf[n-1][0]); last > 0.01 {
		t.Errorf("last sample = %v, want near silence", last)
	}
	if mid := math.Abs(buf[n/2][0]); mid != 1 {
		t.Errorf("sustain sample = %v", mid)
	}
}

func TestSound_Every(t *testing.T) {
	tests := []struct {
		sfx  events.SFX
		long time.Duration
	}{
		{events.CardPlace, cardPlaceDuration},
		{events.CardSlide, cardSlideDuration},
		{events.ButtonPress, buttonPressDuration},
	}
	for _, tt := range tests {
		t.Run(tt.sfx.String(), func(t *testing.T) {
			n, peak := drain(Sound(tt.sfx, 1, SampleRate))
			if want := SampleRate.N(tt.long); n < want-2 || n > want+2 {
				t.Errorf("length = %d samples, want about %d", n, want)
			}
			if peak == 0 || peak > 1.2 {
				t.Errorf("peak = %v", peak)
			}
		})
	}
	if Sound(events.SFX(99), 1, SampleRate) != nil {
		t.Error("unknown sound produced a streamer")
	}
}

func TestSound_ZeroVolumeIsSilent(t *testing.T) {
	_, peak := drain(Sound(events.ButtonPress, 0, SampleRate))
	if peak != 0 {
		t.Errorf("peak = %v at volume 0", peak)
	}
}

func TestSpeaker_WithoutDevice(t *testing.T) {
	s := NewSpeaker(0.5)
	s.Play(nil)
	s.Play([]events.SFX{events.CardPlace, events.ButtonPress})
	if s.Voices() != 2 {
		t.Fatalf("voices = %d, want 2", s.Voices())
	}

	// Stream well past the longest sound; the mixer drops finished voices.
	buf := make([][2]float64, SampleRate.N(time.Second))
	s.mixer.Stream(buf)
	if s.Voices() != 0 {
		t.Errorf("voices after playing out = %d", s.Voices())
	}
	s.Close()
}

func TestSpeaker_CapsVoices(t *testing.T) {
	s := NewSpeaker(1)
	reqs := make([]events.SFX, maxVoices+5)
	s.Play(reqs)
	if s.Voices() != maxVoices {
		t.Errorf("voices = %d, want %d", s.Voices(), maxVoices)
	}
	s.Close()
	if s.Voices() != 0 {
		t.Errorf("voices after Close = %d", s.Voices())
	}
}
