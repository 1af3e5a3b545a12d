// Package config resolves runtime settings from defaults, an optional
// tile-world.toml, a .env file, TILEWORLD_* environment variables and flags,
// in increasing order of precedence.
package config

import (
	"errors"
	"fmt"
	"io/fs"
	"strings"

	"github.com/joho/godotenv"
	"github.com/spf13/pflag"
	"github.com/spf13/viper"

	"github.com/lixenwraith/tile-world/parameter"
)

// EnvPrefix scopes environment overrides, e.g. TILEWORLD_STORE_PATH
const EnvPrefix = "TILEWORLD"

// Config is the resolved runtime configuration
type Config struct {
	Store StoreConfig       `mapstructure:"store"`
	Log   LogConfig         `mapstructure:"log"`
	Game  GameConfig        `mapstructure:"game"`
	World WorldConfig       `mapstructure:"world"`
	Audio AudioConfig       `mapstructure:"audio"`
	Keys  map[string]string `mapstructure:"keys"`
	Debug bool              `mapstructure:"debug"`
}

type StoreConfig struct {
	// Path of the leveldb directory, empty for an in-memory store
	Path    string `mapstructure:"path"`
	CacheMB int64  `mapstructure:"cache_mb"`
}

type LogConfig struct {
	File       string `mapstructure:"file"`
	Level      string `mapstructure:"level"`
	JSON       bool   `mapstructure:"json"`
	MaxSizeMB  int    `mapstructure:"max_size_mb"`
	MaxBackups int    `mapstructure:"max_backups"`
}

type GameConfig struct {
	PlayerID string `mapstructure:"player_id"`
	FPS      int    `mapstructure:"fps"`
	// World to launch, empty picks the first stored world or creates one
	World    string `mapstructure:"world"`
	NewWorld bool   `mapstructure:"new_world"`
	List     bool   `mapstructure:"list"`
	Delete   string `mapstructure:"delete"`
}

type WorldConfig struct {
	ChunkSize      int `mapstructure:"chunk_size"`
	RenderDistance int `mapstructure:"render_distance"`
	TileSize       int `mapstructure:"tile_size"`
}

type AudioConfig struct {
	Enabled bool `mapstructure:"enabled"`
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("store.path", "tile-world.db")
	v.SetDefault("store.cache_mb", 16)
	v.SetDefault("log.file", "tile-world.log")
	v.SetDefault("log.level", "info")
	v.SetDefault("log.json", false)
	v.SetDefault("log.max_size_mb", 10)
	v.SetDefault("log.max_backups", 3)
	v.SetDefault("game.player_id", "")
	v.SetDefault("game.fps", parameter.FrameRate)
	v.SetDefault("game.world", "")
	v.SetDefault("game.new_world", false)
	v.SetDefault("game.list", false)
	v.SetDefault("game.delete", "")
	v.SetDefault("world.chunk_size", parameter.ChunkSize)
	v.SetDefault("world.render_distance", parameter.RenderDistance)
	v.SetDefault("world.tile_size", parameter.TileSize)
	v.SetDefault("audio.enabled", true)
	v.SetDefault("keys", map[string]string{})
	v.SetDefault("debug", false)
}

// flagBindings maps command-line flags to config keys
var flagBindings = []struct {
	flag, key string
}{
	{"store", "store.path"},
	{"log-file", "log.file"},
	{"log-level", "log.level"},
	{"player", "game.player_id"},
	{"fps", "game.fps"},
	{"world", "game.world"},
	{"new-world", "game.new_world"},
	{"list", "game.list"},
	{"delete", "game.delete"},
	{"render-distance", "world.render_distance"},
	{"tile-size", "world.tile_size"},
	{"mute", "audio.enabled"},
	{"debug", "debug"},
}

// Flags declares the command-line flags understood by Load
func Flags() *pflag.FlagSet {
	set := pflag.NewFlagSet("tile-world", pflag.ContinueOnError)
	set.SortFlags = false
	set.String("config", "", "config file (default ./tile-world.toml)")
	set.String("env-file", ".env", "dotenv file loaded before reading the environment")
	set.String("store", "", "leveldb directory, empty for in-memory")
	set.String("log-file", "", "log file path")
	set.String("log-level", "", "log level: debug, info, warn, error")
	set.String("player", "", "player id")
	set.Int("fps", 0, "frames per second")
	set.String("world", "", "world id to launch")
	set.Bool("new-world", false, "create and launch a new world")
	set.Bool("list", false, "list stored worlds and exit")
	set.String("delete", "", "delete a world and exit")
	set.Int("render-distance", 0, "active chunk radius")
	set.Int("tile-size", 0, "terminal columns per tile")
	set.Bool("mute", false, "disable audio")
	set.Bool("debug", false, "draw chunk borders and labels")
	return set
}

// Load resolves the configuration for args (without the program name)
func Load(args []string) (*Config, error) {
	flags := Flags()
	if err := flags.Parse(args); err != nil {
		return nil, fmt.Errorf("config: flags: %w", err)
	}

	envFile, _ := flags.GetString("env-file")
	if envFile != "" {
		// Existing environment wins over the file
		if err := godotenv.Load(envFile); err != nil && !errors.Is(err, fs.ErrNotExist) {
			return nil, fmt.Errorf("config: env file %s: %w", envFile, err)
		}
	}

	v := viper.New()
	setDefaults(v)

	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	if path, _ := flags.GetString("config"); path != "" {
		v.SetConfigFile(path)
		if err := v.ReadInConfig(); err != nil {
			return nil, fmt.Errorf("config: read %s: %w", path, err)
		}
	} else {
		v.SetConfigName("tile-world")
		v.SetConfigType("toml")
		v.AddConfigPath(".")
		if err := v.ReadInConfig(); err != nil {
			var notFound viper.ConfigFileNotFoundError
			if !errors.As(err, &notFound) {
				return nil, fmt.Errorf("config: read: %w", err)
			}
		}
	}

	if err := bindFlags(v, flags); err != nil {
		return nil, err
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("config: decode: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// bindFlags overrides keys with flags the user actually set
// Unset flags must not shadow file or environment values with their zero defaults
func bindFlags(v *viper.Viper, flags *pflag.FlagSet) error {
	for _, b := range flagBindings {
		f := flags.Lookup(b.flag)
		if f == nil || !f.Changed {
			continue
		}
		if b.flag == "mute" {
			mute, _ := flags.GetBool("mute")
			v.Set(b.key, !mute)
			continue
		}
		if err := v.BindPFlag(b.key, f); err != nil {
			return fmt.Errorf("config: bind %s: %w", b.flag, err)
		}
	}
	return nil
}

// Validate rejects settings the world cannot run with
func (c *Config) Validate() error {
	var errs []error
	if c.World.ChunkSize < 1 {
		errs = append(errs, fmt.Errorf("world.chunk_size must be positive, got %d", c.World.ChunkSize))
	}
	if c.World.TileSize < 1 {
		errs = append(errs, fmt.Errorf("world.tile_size must be positive, got %d", c.World.TileSize))
	}
	if c.Game.FPS < 1 {
		errs = append(errs, fmt.Errorf("game.fps must be positive, got %d", c.Game.FPS))
	}
	if c.Store.CacheMB < 0 {
		errs = append(errs, fmt.Errorf("store.cache_mb must not be negative, got %d", c.Store.CacheMB))
	}
	if err := errors.Join(errs...); err != nil {
		return fmt.Errorf("config: %w", err)
	}
	return nil
}
