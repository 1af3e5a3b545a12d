package main

import (
	"context"
	"fmt"
	"io"
	"os"
	"os/signal"
	"syscall"

	"github.com/gdamore/tcell/v2"
	"github.com/sirupsen/logrus"

	"github.com/lixenwraith/tile-world/audio"
	"github.com/lixenwraith/tile-world/config"
	"github.com/lixenwraith/tile-world/core"
	"github.com/lixenwraith/tile-world/engine"
	"github.com/lixenwraith/tile-world/input"
	"github.com/lixenwraith/tile-world/logging"
	"github.com/lixenwraith/tile-world/parameter"
	"github.com/lixenwraith/tile-world/render"
	"github.com/lixenwraith/tile-world/store"
)

func main() {
	if err := run(os.Args[1:], os.Stdout); err != nil {
		fmt.Fprintf(os.Stderr, "tile-world: %v\n", err)
		os.Exit(1)
	}
}

func run(args []string, stdout io.Writer) error {
	cfg, err := config.Load(args)
	if err != nil {
		return err
	}

	log, logCloser, err := logging.New(cfg.Log)
	if err != nil {
		return err
	}
	defer logCloser.Close()

	s, err := openStore(cfg.Store)
	if err != nil {
		return err
	}
	defer func() {
		if err := s.Close(); err != nil {
			log.WithError(err).Error("store close failed")
		}
	}()

	game, err := engine.NewGame(s, cfg.Game.PlayerID, log)
	if err != nil {
		return err
	}

	// One-shot commands
	switch {
	case cfg.Game.List:
		return listWorlds(stdout, game)
	case cfg.Game.Delete != "":
		if err := game.DeleteWorld(cfg.Game.Delete); err != nil {
			return err
		}
		fmt.Fprintf(stdout, "deleted %s\n", cfg.Game.Delete)
		return nil
	}

	settings, err := game.Settings(engine.Settings{
		TileSize:       cfg.World.TileSize,
		RenderDistance: cfg.World.RenderDistance,
	})
	if err != nil {
		return err
	}

	worldID, err := selectWorld(game, cfg.Game)
	if err != nil {
		return err
	}
	world, err := game.LaunchWorld(worldID, engine.Options{
		ChunkSize:      cfg.World.ChunkSize,
		RenderDistance: settings.RenderDistance,
		TileSize:       settings.TileSize,
		Debug:          cfg.Debug,
		Logger:         log,
	})
	if err != nil {
		return err
	}

	keys := input.DefaultKeyTable()
	if err := input.ApplyBindings(keys, cfg.Keys); err != nil {
		return err
	}

	return play(cfg, log, world, keys, settings.TileSize)
}

// openStore opens the leveldb store behind a record cache
// An empty path keeps the database in memory for throwaway sessions
func openStore(cfg config.StoreConfig) (store.Store, error) {
	var (
		level *store.Level
		err   error
	)
	if cfg.Path == "" {
		level, err = store.OpenLevelMemory()
	} else {
		level, err = store.OpenLevel(cfg.Path)
	}
	if err != nil {
		return nil, err
	}
	if cfg.CacheMB <= 0 {
		return level, nil
	}

	cached, err := store.NewCached(level, cfg.CacheMB<<20)
	if err != nil {
		level.Close()
		return nil, err
	}
	return cached, nil
}

// selectWorld picks the configured world, else the oldest stored one, else a new one
func selectWorld(game *engine.Game, cfg config.GameConfig) (string, error) {
	if cfg.World != "" && !cfg.NewWorld {
		return cfg.World, nil
	}
	if !cfg.NewWorld {
		worlds, err := game.Worlds()
		if err != nil {
			return "", err
		}
		if len(worlds) > 0 {
			return worlds[0].ID, nil
		}
	}
	rec, err := game.CreateWorld()
	if err != nil {
		return "", err
	}
	return rec.ID, nil
}

func listWorlds(w io.Writer, game *engine.Game) error {
	worlds, err := game.Worlds()
	if err != nil {
		return err
	}
	if len(worlds) == 0 {
		fmt.Fprintln(w, "no worlds")
		return nil
	}
	for _, rec := range worlds {
		fmt.Fprintf(w, "%s  created %s  by %s  difficulty %d\n",
			rec.ID, rec.CreatedAt.Format("2006-01-02 15:04"), rec.Creator, rec.Difficulty)
	}
	return nil
}

// play owns the terminal until quit or an interrupt
func play(cfg *config.Config, log *logrus.Logger, world *engine.World, keys *input.KeyTable, tileSize int) error {
	screen, err := tcell.NewScreen()
	if err != nil {
		return fmt.Errorf("terminal: %w", err)
	}
	if err := screen.Init(); err != nil {
		return fmt.Errorf("terminal: %w", err)
	}

	// Panic recovery: the terminal must be restored before the trace prints
	core.SetCrashCleanup(screen.Fini)
	defer func() {
		if r := recover(); r != nil {
			core.HandleCrash(r)
		}
	}()
	defer screen.Fini()
	screen.HideCursor()

	if cfg.Audio.Enabled {
		cues := audio.NewCues()
		if err := cues.Initialize(); err != nil {
			log.WithError(err).Warn("audio unavailable, continuing without sound")
		} else {
			defer cues.Cleanup()
			world.AddListener(cues)
		}
	}

	events := make(chan tcell.Event, parameter.InputQueueSize)
	core.Go(func() {
		for {
			ev := screen.PollEvent()
			if ev == nil {
				return
			}
			select {
			case events <- ev:
			default:
				// Loop is behind, drop the event rather than stall the poller
			}
		}
	})

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	loop := engine.NewLoop(engine.LoopConfig{
		World:    world,
		Renderer: render.NewRenderer(screen, tileSize),
		Keys:     keys,
		Events:   events,
		FPS:      cfg.Game.FPS,
		Logger:   log,
	})
	loop.Resize = screen.Sync

	log.WithField("world", world.ID()).Info("session started")
	err = loop.Run(ctx)
	log.WithField("ticks", world.Tick()).Info("session ended")
	return err
}
