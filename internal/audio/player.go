// Package audio is the sound host for rule audio actions. Sounds are
// synthesized from their ids and mixed with beep; a speaker is optional so
// headless runs and tests can pull samples directly.
package audio

import (
	"sync"
	"time"

	"github.com/charmbracelet/log"
	"github.com/gopxl/beep"
	"github.com/gopxl/beep/speaker"

	"github.com/vovakirdan/rulestage/internal/world"
)

// DefaultSampleRate is used when NewPlayer gets a non-positive rate.
const DefaultSampleRate = beep.SampleRate(44100)

// Player mixes one-shot effects and looping background tracks.
type Player struct {
	mu     sync.Mutex
	rate   beep.SampleRate
	mixer  *beep.Mixer
	loops  map[string]*beep.Ctrl
	logger *log.Logger
	open   bool
}

// NewPlayer creates a player. logger may be nil.
func NewPlayer(rate beep.SampleRate, logger *log.Logger) *Player {
	if rate <= 0 {
		rate = DefaultSampleRate
	}
	if logger == nil {
		logger = log.Default()
	}
	return &Player{
		rate:   rate,
		mixer:  &beep.Mixer{},
		loops:  make(map[string]*beep.Ctrl),
		logger: logger,
	}
}

// Open starts speaker output. Without it the mixer is only advanced by Read.
func (p *Player) Open() error {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.open {
		return nil
	}
	if err := speaker.Init(p.rate, p.rate.N(100*time.Millisecond)); err != nil {
		return err
	}
	speaker.Play(p.mixer)
	p.open = true
	return nil
}

// Close stops every sound and releases the speaker.
func (p *Player) Close() {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.locked(func() {
		for id, ctrl := range p.loops {
			ctrl.Streamer = nil
			delete(p.loops, id)
		}
		p.mixer.Clear()
	})
	if p.open {
		speaker.Close()
		p.open = false
	}
}

// locked runs fn while the speaker goroutine cannot pull samples.
func (p *Player) locked(fn func()) {
	if p.open {
		speaker.Lock()
		defer speaker.Unlock()
	}
	fn()
}

// Play starts a sound. Music and looping sounds replace a running loop
// with the same id; one-shot effects overlap.
func (p *Player) Play(req world.SoundRequest) {
	if req.ID == "" {
		return
	}
	vol := req.Volume
	if vol > 1 {
		vol = 1
	}
	tone := ToneFor(req.ID)

	p.mu.Lock()
	defer p.mu.Unlock()
	p.locked(func() {
		if !req.Music && !req.Loop {
			p.mixer.Add(withVolume(effectSound(tone, p.rate), vol))
			return
		}
		if old, ok := p.loops[req.ID]; ok {
			old.Streamer = nil
		}
		var s beep.Streamer
		if req.Music {
			s = beep.Iterate(func() beep.Streamer { return phrase(tone, p.rate) })
		} else {
			s = beep.Iterate(func() beep.Streamer { return effectSound(tone, p.rate) })
		}
		ctrl := &beep.Ctrl{Streamer: withVolume(s, vol)}
		p.loops[req.ID] = ctrl
		p.mixer.Add(ctrl)
	})
	p.logger.Debug("sound", "id", req.ID, "music", req.Music, "loop", req.Loop, "volume", vol)
}

// Stop silences a looping sound. One-shot effects run out on their own.
func (p *Player) Stop(id string) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.locked(func() {
		if ctrl, ok := p.loops[id]; ok {
			// A nil streamer drains the control, so the mixer drops it.
			ctrl.Streamer = nil
			delete(p.loops, id)
		}
	})
}

// Looping reports whether a loop with the id is playing.
func (p *Player) Looping(id string) bool {
	p.mu.Lock()
	defer p.mu.Unlock()
	_, ok := p.loops[id]
	return ok
}

// Active returns the number of streams in the mixer.
func (p *Player) Active() int {
	p.mu.Lock()
	defer p.mu.Unlock()
	n := 0
	p.locked(func() { n = p.mixer.Len() })
	return n
}

// Read pulls n samples from the mixer. Only meaningful while the speaker is
// closed; hosts use it for headless rendering and tests.
func (p *Player) Read(n int) [][2]float64 {
	buf := make([][2]float64, n)
	p.mu.Lock()
	defer p.mu.Unlock()
	p.mixer.Stream(buf)
	return buf
}

// Attach routes a context's sound hooks to the player.
func (p *Player) Attach(h *world.Hooks) {
	h.PlaySound = p.Play
	h.StopSound = p.Stop
}
