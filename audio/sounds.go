package audio

import (
	"time"

	"github.com/gopxl/beep"
	"github.com/nathoo/tilequest/engine/events"
)

// Sound lengths.
const (
	cardPlaceDuration   = 70 * time.Millisecond
	cardSlideDuration   = 180 * time.Millisecond
	buttonPressDuration = 40 * time.Millisecond
)

// cardPlace is a soft thump under a short tick of noise.
func cardPlace(rate beep.SampleRate) beep.Streamer {
	thump := tone(180, Sine, cardPlaceDuration, 2*time.Millisecond, 60*time.Millisecond, rate)
	tick := tone(0, Noise, 15*time.Millisecond, time.Millisecond, 12*time.Millisecond, rate)
	return beep.Mix(newVolume(thump, 0.8), newVolume(tick, 0.3))
}

// cardSlide is a swell of noise.
func cardSlide(rate beep.SampleRate) beep.Streamer {
	return newVolume(tone(0, Noise, cardSlideDuration, 60*time.Millisecond, 100*time.Millisecond, rate), 0.4)
}

// buttonPress is a short square blip followed by a higher one.
func buttonPress(rate beep.SampleRate) beep.Streamer {
	half := buttonPressDuration / 2
	return newVolume(beep.Seq(
		tone(660, Square, half, time.Millisecond, 8*time.Millisecond, rate),
		tone(880, Square, half, time.Millisecond, 12*time.Millisecond, rate),
	), 0.25)
}

// Sound returns a fresh streamer for sfx at volume, or nil for an unknown
// request.
func Sound(sfx events.SFX, volume float64, rate beep.SampleRate) beep.Streamer {
	var s beep.Streamer
	switch sfx {
	case events.CardPlace:
		s = cardPlace(rate)
	case events.CardSlide:
		s = cardSlide(rate)
	case events.ButtonPress:
		s = buttonPress(rate)
	default:
		return nil
	}
	return newVolume(s, volume)
}
