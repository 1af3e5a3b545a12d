package engine

import (
	"context"
	"fmt"
	"time"

	"github.com/gdamore/tcell/v2"
	"github.com/sirupsen/logrus"

	"github.com/lixenwraith/tile-world/chunk"
	"github.com/lixenwraith/tile-world/core"
	"github.com/lixenwraith/tile-world/input"
	"github.com/lixenwraith/tile-world/parameter"
	"github.com/lixenwraith/tile-world/physics"
	"github.com/lixenwraith/tile-world/render"
	"github.com/lixenwraith/tile-world/vmath"
)

// Loop drives a world at a fixed frame rate: drain input, step, render
// Everything runs on the goroutine calling Run; input arrives over Events
type Loop struct {
	world      *World
	renderer   *render.Renderer
	keys       *input.KeyTable
	controller *input.Controller
	events     <-chan tcell.Event
	clock      Clock
	log        logrus.FieldLogger

	// Resize is called when the terminal reports a new size
	Resize func()
	// PlaceKind is the material of placed tiles
	PlaceKind chunk.Kind

	fps          int
	saveInterval time.Duration
	lastSave     time.Time
	last         physics.Report
}

// LoopConfig holds the collaborators of a Loop
type LoopConfig struct {
	World        *World
	Renderer     *render.Renderer
	Keys         *input.KeyTable
	Events       <-chan tcell.Event
	FPS          int
	SaveInterval time.Duration
	Clock        Clock
	Logger       logrus.FieldLogger
}

// NewLoop creates a loop, filling unset config with defaults
func NewLoop(cfg LoopConfig) *Loop {
	if cfg.FPS < 1 {
		cfg.FPS = parameter.FrameRate
	}
	if cfg.SaveInterval <= 0 {
		cfg.SaveInterval = parameter.SaveInterval
	}
	if cfg.Clock == nil {
		cfg.Clock = SystemClock{}
	}
	if cfg.Keys == nil {
		cfg.Keys = input.DefaultKeyTable()
	}
	if cfg.Logger == nil {
		cfg.Logger = logrus.StandardLogger()
	}
	return &Loop{
		world:        cfg.World,
		renderer:     cfg.Renderer,
		keys:         cfg.Keys,
		controller:   input.NewController(parameter.InputHoldTicks, parameter.JumpHoldTicks),
		events:       cfg.Events,
		clock:        cfg.Clock,
		log:          cfg.Logger,
		PlaceKind:    chunk.KindStone,
		fps:          cfg.FPS,
		saveInterval: cfg.SaveInterval,
		lastSave:     cfg.Clock.Now(),
	}
}

// Run ticks until ctx is cancelled or quit is pressed
// The player is saved periodically and once more on return
func (l *Loop) Run(ctx context.Context) error {
	ticker := time.NewTicker(time.Second / time.Duration(l.fps))
	defer ticker.Stop()

	defer func() {
		if err := l.world.SavePlayer(); err != nil {
			l.log.WithError(err).Error("final save failed")
		}
	}()

	for {
		select {
		case <-ctx.Done():
			return nil
		case <-ticker.C:
			if quit := l.Frame(); quit {
				return nil
			}
		}
	}
}

// Frame runs one iteration and reports whether quit was requested
func (l *Loop) Frame() bool {
	tick := l.world.Tick()
	if quit := l.drain(tick); quit {
		return true
	}

	player := l.world.Player()
	l.controller.Apply(&player.Movement, tick)

	rep, err := l.world.Step()
	if err != nil {
		l.log.WithError(err).WithField("tick", tick).Warn("chunk sync incomplete")
	}
	l.last = rep

	if l.renderer != nil {
		l.renderer.Frame(l.world, player.Position, l.status())
	}

	if now := l.clock.Now(); now.Sub(l.lastSave) >= l.saveInterval {
		l.lastSave = now
		if err := l.world.SavePlayer(); err != nil {
			l.log.WithError(err).Error("periodic save failed")
		}
	}
	return false
}

// drain consumes every queued event without blocking
func (l *Loop) drain(tick uint64) bool {
	for {
		select {
		case ev, ok := <-l.events:
			if !ok {
				return false
			}
			if l.handle(ev, tick) {
				return true
			}
		default:
			return false
		}
	}
}

func (l *Loop) handle(ev tcell.Event, tick uint64) bool {
	switch ev := ev.(type) {
	case *tcell.EventKey:
		switch a := l.keys.Lookup(ev); a {
		case input.ActionQuit:
			return true
		case input.ActionPlace:
			l.place()
		case input.ActionNone:
		default:
			l.controller.Press(a, tick)
		}
	case *tcell.EventResize:
		if l.Resize != nil {
			l.Resize()
		}
	}
	return false
}

func (l *Loop) place() {
	pos := PlaceTarget(l.world.Player().Bounds(), l.controller.Facing())
	placed, err := l.world.PlaceTile(pos, l.PlaceKind)
	if err != nil {
		l.log.WithError(err).WithField("tile", cellLabel(pos)).Error("place failed")
		return
	}
	l.log.WithField("tile", cellLabel(pos)).WithField("placed", placed).Debug("place")
}

// PlaceTarget returns the lattice cell beside body in the facing direction,
// level with its lowest row and clear of its box
func PlaceTarget(body core.Box, facing int) core.Cell {
	y := int(vmath.SnapUp(body.Bottom())) - 1
	if facing < 0 {
		return core.Cell{X: int(vmath.SnapDown(body.Left())) - 1, Y: y}
	}
	return core.Cell{X: int(vmath.SnapUp(body.Right())), Y: y}
}

func (l *Loop) status() string {
	p := l.world.Player()
	cell := l.world.Locate()
	state := "air"
	if p.Grounded() {
		state = "ground"
	}
	return fmt.Sprintf(" x %.2f  y %.2f  chunk %d|%d  %s  contacts %d  tick %d ",
		p.Position.X, p.Position.Y, cell.X, cell.Y, state, l.last.Collisions, l.world.Tick())
}
