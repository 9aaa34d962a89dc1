package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/BurntSushi/toml"
	"github.com/caarlos0/env/v11"
	"gopkg.in/yaml.v3"
)

// ErrUnknownFormat is returned for config files that are neither TOML nor YAML.
var ErrUnknownFormat = errors.New("unknown config format")

type Config struct {
	Loop      LoopConfig      `toml:"loop" yaml:"loop"`
	ECS       ECSConfig       `toml:"ecs" yaml:"ecs"`
	Logging   LoggingConfig   `toml:"logging" yaml:"logging"`
	Scripting ScriptingConfig `toml:"scripting" yaml:"scripting"`
	Demo      DemoConfig      `toml:"demo" yaml:"demo"`
}

type LoopConfig struct {
	TickRate  Duration `toml:"tick_rate" yaml:"tick_rate" env:"OVE_TICK_RATE"`
	MaxFrames int      `toml:"max_frames" yaml:"max_frames" env:"OVE_MAX_FRAMES"` // 0 = run until signalled
}

type ECSConfig struct {
	Capacity     int `toml:"capacity" yaml:"capacity" env:"OVE_ECS_CAPACITY"`            // initial pool / live list capacity
	CompactEvery int `toml:"compact_every" yaml:"compact_every" env:"OVE_COMPACT_EVERY"` // frames between pool compaction, 0 = never
}

type LoggingConfig struct {
	Level  string `toml:"level" yaml:"level" env:"OVE_LOG_LEVEL"`
	Format string `toml:"format" yaml:"format" env:"OVE_LOG_FORMAT"` // "json" or "console"
}

type ScriptingConfig struct {
	Enabled bool     `toml:"enabled" yaml:"enabled" env:"OVE_SCRIPTING"`
	Dir     string   `toml:"dir" yaml:"dir" env:"OVE_SCRIPT_DIR"`
	Scripts []string `toml:"scripts" yaml:"scripts" env:"OVE_SCRIPTS" envSeparator:","` // load order; empty = every .lua in Dir
}

type DemoConfig struct {
	Entities int     `toml:"entities" yaml:"entities" env:"OVE_DEMO_ENTITIES"`
	Speed    float32 `toml:"speed" yaml:"speed" env:"OVE_DEMO_SPEED"`
	Lifetime float32 `toml:"lifetime" yaml:"lifetime" env:"OVE_DEMO_LIFETIME"` // seconds, 0 = immortal
}

// Duration decodes "200ms"-style strings from both TOML and YAML.
type Duration struct {
	time.Duration
}

func (d *Duration) UnmarshalText(text []byte) error {
	v, err := time.ParseDuration(string(text))
	if err != nil {
		return err
	}
	d.Duration = v
	return nil
}

func (d Duration) MarshalText() ([]byte, error) {
	return []byte(d.Duration.String()), nil
}

// Load reads path on top of the defaults, then applies OVE_* environment
// overrides. The format follows the extension.
func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read config %s: %w", path, err)
	}
	cfg := Defaults()
	switch strings.ToLower(filepath.Ext(path)) {
	case ".toml":
		err = toml.Unmarshal(data, cfg)
	case ".yaml", ".yml":
		err = yaml.Unmarshal(data, cfg)
	default:
		return nil, fmt.Errorf("config %s: %w", path, ErrUnknownFormat)
	}
	if err != nil {
		return nil, fmt.Errorf("parse config %s: %w", path, err)
	}
	if err := env.Parse(cfg); err != nil {
		return nil, fmt.Errorf("parse env: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("config %s: %w", path, err)
	}
	return cfg, nil
}

// Validate rejects values the driver cannot run with.
func (c *Config) Validate() error {
	if c.Loop.TickRate.Duration <= 0 {
		return fmt.Errorf("loop.tick_rate must be positive, got %s", c.Loop.TickRate)
	}
	if c.Loop.MaxFrames < 0 {
		return fmt.Errorf("loop.max_frames must not be negative, got %d", c.Loop.MaxFrames)
	}
	if c.ECS.CompactEvery < 0 {
		return fmt.Errorf("ecs.compact_every must not be negative, got %d", c.ECS.CompactEvery)
	}
	if c.Demo.Entities < 0 {
		return fmt.Errorf("demo.entities must not be negative, got %d", c.Demo.Entities)
	}
	return nil
}

func Defaults() *Config {
	return &Config{
		Loop: LoopConfig{
			TickRate: Duration{16 * time.Millisecond},
		},
		ECS: ECSConfig{
			Capacity:     256,
			CompactEvery: 600,
		},
		Logging: LoggingConfig{
			Level:  "info",
			Format: "console",
		},
		Scripting: ScriptingConfig{
			Dir: "scripts",
		},
		Demo: DemoConfig{
			Entities: 32,
			Speed:    4,
			Lifetime: 5,
		},
	}
}
