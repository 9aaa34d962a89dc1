package main

import (
	"context"
	"fmt"
	"math/rand"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/ove/engine/internal/component"
	"github.com/ove/engine/internal/config"
	"github.com/ove/engine/internal/core/ecs"
	"github.com/ove/engine/internal/core/event"
	coresys "github.com/ove/engine/internal/core/system"
	"github.com/ove/engine/internal/scripting"
	"github.com/ove/engine/internal/system"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

func main() {
	if err := run(); err != nil {
		fmt.Fprintf(os.Stderr, "fatal: %v\n", err)
		os.Exit(1)
	}
}

// ── Startup display helpers ────────────────────────────────────────

func printBanner() {
	fmt.Println()
	fmt.Println("\033[36;1m  ┌───────────────────────────────────────────┐\033[0m")
	fmt.Println("\033[36;1m  │\033[0m              ove ecs  v0.1.0              \033[36;1m│\033[0m")
	fmt.Println("\033[36;1m  └───────────────────────────────────────────┘\033[0m")
	fmt.Println()
}

func printSection(title string) {
	lineLen := 46 - len(title) - 1
	if lineLen < 3 {
		lineLen = 3
	}
	fmt.Printf("  \033[33m── %s %s\033[0m\n", title, strings.Repeat("─", lineLen))
}

func printStat(label string, count int) {
	numStr := fmt.Sprintf("%d", count)
	dotsLen := 42 - len(label) - len(numStr)
	if dotsLen < 3 {
		dotsLen = 3
	}
	fmt.Printf("  %s \033[90m%s\033[0m \033[32m%s\033[0m\n", label, strings.Repeat("·", dotsLen), numStr)
}

func printOK(msg string) {
	fmt.Printf("  \033[32m✓\033[0m %s\n", msg)
}

func printReady(msg string) {
	fmt.Printf("  \033[32m▶\033[0m %s\n", msg)
}

// ── Main loop ─────────────────────────────────────────────────────

func run() error {
	// 1. Load config
	cfgPath := "config/ove.toml"
	if p := os.Getenv("OVE_CONFIG"); p != "" {
		cfgPath = p
	}
	cfg, err := config.Load(cfgPath)
	if err != nil {
		return fmt.Errorf("load config: %w", err)
	}

	// 2. Init logger
	log, err := newLogger(cfg.Logging)
	if err != nil {
		return fmt.Errorf("init logger: %w", err)
	}
	defer log.Sync()

	printBanner()

	// 3. Create the entity manager, event bus and system manager
	printSection("core")
	bus := event.NewBus()
	entities := ecs.NewManager(
		ecs.WithCapacity(cfg.ECS.Capacity),
		ecs.WithLogger(log.Named("ecs")),
	)
	systems := coresys.NewManager(bus, entities, coresys.WithLogger(log.Named("system")))
	printOK("entity manager ready")

	// 4. Register systems. Dispatch runs first, cleanup last.
	systems.Add(system.NewEventDispatchSystem())
	systems.Add(system.NewSpawnerSystem(
		cfg.Demo.Entities,
		cfg.Demo.Speed,
		cfg.Demo.Lifetime,
		rand.New(rand.NewSource(time.Now().UnixNano())),
	))
	systems.Add(system.NewMovementSystem())
	systems.Add(system.NewLifetimeSystem())

	if cfg.Scripting.Enabled {
		scripts, err := scripting.LoadScripts(
			cfg.Scripting.Dir,
			cfg.Scripting.Scripts,
			log.Named("lua"),
			component.ScriptBindings()...,
		)
		if err != nil {
			systems.Close()
			return fmt.Errorf("load scripts: %w", err)
		}
		for _, s := range scripts {
			systems.Add(s)
		}
		printStat("lua systems", len(scripts))
	}

	renderEvery := int(time.Second / cfg.Loop.TickRate.Duration)
	systems.Add(system.NewRenderSystem(renderEvery, log.Named("render")))
	systems.Add(system.NewCleanupSystem(cfg.ECS.CompactEvery, log.Named("cleanup")))
	printStat("systems", systems.Len())
	fmt.Println()

	// 5. Run until signalled or max_frames is reached
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	printSection("running")
	printReady(fmt.Sprintf("game loop started (tick: %s)", cfg.Loop.TickRate))
	fmt.Println()

	systems.Init()
	frames := runLoop(ctx, systems, cfg.Loop.TickRate.Duration, cfg.Loop.MaxFrames)
	systems.Close()

	log.Info("stopped", zap.Int("frames", frames))
	return nil
}

func newLogger(cfg config.LoggingConfig) (*zap.Logger, error) {
	var level zapcore.Level
	if err := level.UnmarshalText([]byte(cfg.Level)); err != nil {
		level = zapcore.InfoLevel
	}

	var zapCfg zap.Config
	if cfg.Format == "json" {
		zapCfg = zap.NewProductionConfig()
	} else {
		zapCfg = zap.NewDevelopmentConfig()
		zapCfg.EncoderConfig.EncodeLevel = zapcore.CapitalColorLevelEncoder
		zapCfg.EncoderConfig.EncodeTime = zapcore.TimeEncoderOfLayout("15:04:05")
		zapCfg.EncoderConfig.ConsoleSeparator = "  "
		zapCfg.DisableCaller = true
		zapCfg.DisableStacktrace = true
	}
	zapCfg.Level = zap.NewAtomicLevelAt(level)

	return zapCfg.Build()
}
