package audio

import (
	"math"
	"sync"
	"time"

	"github.com/gopxl/beep"
	"github.com/gopxl/beep/effects"
	"github.com/gopxl/beep/generators"
	"github.com/gopxl/beep/speaker"

	"github.com/lixenwraith/tile-world/chunk"
	"github.com/lixenwraith/tile-world/component"
)

const (
	sampleRate = beep.SampleRate(48000)
)

// Cues plays short movement sounds
// Every method is a no-op until Initialize succeeds, so the game runs without audio
type Cues struct {
	mu          sync.Mutex
	mixer       *beep.Mixer
	muted       bool
	initialized bool
}

// NewCues creates an uninitialized cue player
func NewCues() *Cues {
	return &Cues{
		mixer: &beep.Mixer{},
	}
}

// Initialize opens the speaker and starts the mixer
func (c *Cues) Initialize() error {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.initialized {
		return nil
	}

	if err := speaker.Init(sampleRate, sampleRate.N(time.Millisecond*100)); err != nil {
		return err
	}

	speaker.Play(c.mixer)
	c.initialized = true
	return nil
}

// Cleanup silences pending sounds
func (c *Cues) Cleanup() {
	c.mu.Lock()
	defer c.mu.Unlock()

	if !c.initialized {
		return
	}
	c.mixer.Clear()
	c.initialized = false
}

// SetMuted toggles output without tearing down the speaker
func (c *Cues) SetMuted(muted bool) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.muted = muted
}

func (c *Cues) play(s beep.Streamer) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if !c.initialized || c.muted {
		return
	}
	speaker.Lock()
	c.mixer.Add(s)
	speaker.Unlock()
}

// Jumped plays a rising chirp
func (c *Cues) Jumped(_ *component.Character) {
	c.play(beep.Take(sampleRate.N(time.Millisecond*120), NewChirpGenerator(sampleRate, 320, 640)))
}

// Landed plays a low thud
func (c *Cues) Landed(_ *component.Character) {
	c.play(beep.Take(sampleRate.N(time.Millisecond*180), NewThudGenerator(sampleRate)))
}

// Placed plays a short quiet tone
func (c *Cues) Placed(_ *chunk.Tile) {
	tone, err := generators.SineTone(sampleRate, 880)
	if err != nil {
		return
	}
	quiet := &effects.Volume{Streamer: tone, Base: 2, Volume: -3}
	c.play(beep.Take(sampleRate.N(time.Millisecond*60), quiet))
}

// ChirpGenerator sweeps a sine from one frequency to another over its length
type ChirpGenerator struct {
	sr       beep.SampleRate
	from, to float64
	pos      int
	samples  int
}

// NewChirpGenerator creates a sweep lasting 120ms
func NewChirpGenerator(sr beep.SampleRate, from, to float64) *ChirpGenerator {
	return &ChirpGenerator{
		sr:      sr,
		from:    from,
		to:      to,
		samples: sr.N(time.Millisecond * 120),
	}
}

func (g *ChirpGenerator) Stream(samples [][2]float64) (n int, ok bool) {
	for i := range samples {
		t := float64(g.pos) / float64(g.sr)
		progress := math.Min(float64(g.pos)/float64(g.samples), 1)

		// Linear sweep, integrated phase keeps the tone continuous
		phase := 2 * math.Pi * (g.from*t + (g.to-g.from)*t*progress/2)
		sample := 0.2 * (1 - progress) * math.Sin(phase)

		samples[i][0] = sample
		samples[i][1] = sample
		g.pos++
	}
	return len(samples), true
}

func (g *ChirpGenerator) Err() error {
	return nil
}

// ThudGenerator generates a decaying low rumble with a noise click
type ThudGenerator struct {
	sr   beep.SampleRate
	pos  int
	seed int64
}

// NewThudGenerator creates a thud generator
func NewThudGenerator(sr beep.SampleRate) *ThudGenerator {
	return &ThudGenerator{
		sr:   sr,
		seed: 1,
	}
}

func (g *ThudGenerator) Stream(samples [][2]float64) (n int, ok bool) {
	for i := range samples {
		t := float64(g.pos) / float64(g.sr)

		// Quick attack, fast decay
		envelope := math.Exp(-t * 20)

		g.seed = (g.seed*1103515245 + 12345) & 0x7fffffff
		noise := float64(g.seed)/float64(0x7fffffff)*2 - 1

		sample := envelope * (0.1*noise + 0.35*math.Sin(2*math.Pi*70*t))

		samples[i][0] = sample
		samples[i][1] = sample
		g.pos++
	}
	return len(samples), true
}

func (g *ThudGenerator) Err() error {
	return nil
}
