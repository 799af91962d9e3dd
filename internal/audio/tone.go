package audio

import (
	"hash/fnv"
	"math"
	"time"

	"github.com/gopxl/beep"
	"github.com/gopxl/beep/effects"
)

// WaveType defines oscillator wave shapes.
type WaveType int

const (
	WaveSine WaveType = iota
	WaveSquare
	WaveSaw
	WaveTriangle
)

// pentatonic is A minor pentatonic from A3 to G5, so any two tones sound fine together.
var pentatonic = []float64{
	220.00, 261.63, 293.66, 329.63, 392.00,
	440.00, 523.25, 587.33, 659.25, 783.99,
}

// Tone describes the synthesized voice of a sound id.
type Tone struct {
	Freq float64
	Wave WaveType
}

// ToneFor derives a stable tone from a sound id. Projects reference sounds
// by name only; the core has no audio assets.
func ToneFor(id string) Tone {
	h := fnv.New32a()
	h.Write([]byte(id))
	sum := h.Sum32()
	return Tone{
		Freq: pentatonic[sum%uint32(len(pentatonic))],
		Wave: WaveType((sum >> 8) % 4),
	}
}

// oscillator generates a raw wave for a fixed number of samples.
type oscillator struct {
	freq     float64
	phase    float64
	duration int
	position int
	wave     WaveType
	rate     beep.SampleRate
}

func newOscillator(t Tone, duration time.Duration, rate beep.SampleRate) beep.Streamer {
	return &oscillator{freq: t.Freq, duration: rate.N(duration), wave: t.Wave, rate: rate}
}

func (o *oscillator) Stream(samples [][2]float64) (n int, ok bool) {
	for i := range samples {
		if o.position >= o.duration {
			return i, i > 0
		}

		var val float64
		switch o.wave {
		case WaveSine:
			val = math.Sin(2 * math.Pi * o.phase)
		case WaveSquare:
			if o.phase < 0.5 {
				val = 1.0
			} else {
				val = -1.0
			}
		case WaveSaw:
			val = 2.0 * (o.phase - 0.5)
		case WaveTriangle:
			val = 1 - 4*math.Abs(o.phase-0.5)
		}

		samples[i][0] = val
		samples[i][1] = val

		o.phase += o.freq / float64(o.rate)
		o.phase -= math.Floor(o.phase)
		o.position++
	}
	return len(samples), true
}

func (o *oscillator) Err() error { return nil }

// envelope applies a linear attack and release to a stream.
type envelope struct {
	streamer beep.Streamer
	position int
	attack   int
	release  int
	total    int
}

func newEnvelope(s beep.Streamer, duration, attack, release time.Duration, rate beep.SampleRate) beep.Streamer {
	return &envelope{
		streamer: s,
		attack:   rate.N(attack),
		release:  rate.N(release),
		total:    rate.N(duration),
	}
}

func (e *envelope) Stream(samples [][2]float64) (n int, ok bool) {
	n, ok = e.streamer.Stream(samples)
	for i := 0; i < n; i++ {
		vol := 1.0
		if e.position < e.attack && e.attack > 0 {
			vol = float64(e.position) / float64(e.attack)
		}
		if rest := e.total - e.position; rest < e.release && e.release > 0 {
			vol = math.Max(0, float64(rest)/float64(e.release))
		}
		samples[i][0] *= vol
		samples[i][1] *= vol
		e.position++
	}
	return n, ok
}

func (e *envelope) Err() error { return e.streamer.Err() }

// withVolume scales a stream linearly. effects.Volume works in powers of
// Base, so a linear [0,1] volume maps to log2.
func withVolume(s beep.Streamer, vol float64) beep.Streamer {
	if vol <= 0 {
		return &effects.Volume{Streamer: s, Base: 2, Silent: true}
	}
	return &effects.Volume{Streamer: s, Base: 2, Volume: math.Log2(vol)}
}

const (
	effectDuration = 150 * time.Millisecond
	effectAttack   = 5 * time.Millisecond
	effectRelease  = 60 * time.Millisecond
	noteDuration   = 250 * time.Millisecond
	noteRelease    = 80 * time.Millisecond
)

// effectSound is a short blip with the id's tone plus an octave overtone.
func effectSound(t Tone, rate beep.SampleRate) beep.Streamer {
	over := Tone{Freq: t.Freq * 2, Wave: WaveSine}
	return beep.Mix(
		withVolume(newEnvelope(newOscillator(t, effectDuration, rate), effectDuration, effectAttack, effectRelease, rate), 0.35),
		withVolume(newEnvelope(newOscillator(over, effectDuration, rate), effectDuration, effectAttack, effectRelease/2, rate), 0.15),
	)
}

// phrase is one bar of background music: an arpeggio rooted at the id's tone.
func phrase(t Tone, rate beep.SampleRate) beep.Streamer {
	steps := []float64{1, 1.25, 1.5, 2}
	notes := make([]beep.Streamer, 0, len(steps))
	for _, m := range steps {
		n := Tone{Freq: t.Freq / 2 * m, Wave: t.Wave}
		notes = append(notes, newEnvelope(newOscillator(n, noteDuration, rate), noteDuration, effectAttack, noteRelease, rate))
	}
	return withVolume(beep.Seq(notes...), 0.25)
}
