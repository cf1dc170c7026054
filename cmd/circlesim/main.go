// Command circlesim runs the circle physics engine headless: it drives the
// fixed-timestep accumulator loop, reports structured stats on an interval,
// and exits on SIGINT/SIGTERM or an optional duration limit. It renders
// nothing — there is no window or shader surface here — but it is the
// thing that actually calls Step and reads Snapshot every frame.
package main

import (
	"context"
	"flag"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/0x5844/circlesim/internal/config"
	"github.com/0x5844/circlesim/internal/physics"
	"github.com/0x5844/circlesim/internal/scenes"
	"github.com/0x5844/circlesim/internal/telemetry"
	"github.com/0x5844/circlesim/internal/timestep"
)

// hostFrameHz is the rate at which the outer host loop wakes to advance the
// accumulator, independent of the physics engine's own Hz.
const hostFrameHz = 240

func main() {
	flags := parseFlags()

	logLevel := slog.LevelInfo
	if flags.quiet {
		logLevel = slog.LevelError
	}
	logger := slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{Level: logLevel}))

	raw := config.Config{
		MinRadius:               flags.minRadius,
		MaxRadius:               flags.maxRadius,
		SpawnLimit:              flags.spawnLimit,
		Gravity:                 flags.gravity,
		Restitution:             flags.restitution,
		SpawnRate:               flags.spawnRate,
		InitialWindowWidth:      flags.windowWidth,
		InitialWindowHeight:     flags.windowHeight,
		CorrectionIterations:    flags.correctionIterations,
		PhysicsFrequency:        flags.physicsFrequency,
		ScalePhysics:            flags.scalePhysics,
		OutlineCircles:          flags.outlineCircles,
		DisableSpatialPartition: flags.disableSpatialPartition,
		WorkerCount:             flags.workers,
	}
	if flags.seed != 0 {
		seed := flags.seed
		raw.Seed = &seed
	}

	if err := scenes.Apply(flags.scene, &raw); err != nil {
		logger.Error("failed to apply scene", "error", err)
		os.Exit(1)
	}

	cfg := config.New(raw)

	engine := physics.New(cfg)
	defer engine.Close()

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	if flags.duration > 0 {
		ctx, cancel = context.WithTimeout(ctx, time.Duration(flags.duration*float64(time.Second)))
		defer cancel()
	}

	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, syscall.SIGINT, syscall.SIGTERM)
	go func() {
		select {
		case <-sigChan:
			logger.Info("shutting down gracefully")
			cancel()
		case <-ctx.Done():
		}
	}()

	collector := telemetry.NewCollector()
	if !flags.quiet {
		go telemetry.Report(ctx, logger, collector, time.Duration(flags.statsInterval*float64(time.Second)))
	}

	logger.Info("starting simulation",
		"scene", flags.scene,
		"spawn_limit", cfg.SpawnLimit,
		"physics_frequency", cfg.PhysicsFrequency,
		"scale_physics", cfg.ScalePhysics,
		"workers", flags.workers,
	)

	runLoop(ctx, engine, cfg, collector, logger)

	final := collector.Snapshot()
	logger.Info("simulation ended",
		"frames", final.Frames,
		"fps", final.FPS,
		"bodies", final.BodyCount,
	)
}

// runLoop is the frame-accumulator host loop: it caps real frame time at
// 0.25s, steps the engine at its currently active fixed timestep while the
// accumulator has enough leftover time, and computes the render
// interpolation factor every host tick. There is nothing to render here,
// so the factor is only ever logged at debug level.
func runLoop(ctx context.Context, engine *physics.Engine, cfg *config.Config, collector *telemetry.Collector, logger *slog.Logger) {
	controller := timestep.New(cfg.PhysicsFrequency, cfg.ScalePhysics)

	ticker := time.NewTicker(time.Second / hostFrameHz)
	defer ticker.Stop()

	var accumulator, simTime float64
	lastFrame := time.Now()

	for {
		select {
		case <-ctx.Done():
			return
		case now := <-ticker.C:
			frameTime := timestep.CapFrameTime(now.Sub(lastFrame))
			lastFrame = now
			accumulator += frameTime.Seconds()

			fixedStep := controller.FixedStep()
			for accumulator >= fixedStep {
				stepStart := time.Now()
				candidatePairs := engine.Step(simTime, fixedStep)
				stepDuration := time.Since(stepStart)

				controller.ReportStepDuration(stepDuration)
				collector.RecordFrame(stepDuration, candidatePairs, engine.Snapshot().Count, controller.Hz())

				simTime += fixedStep
				accumulator -= fixedStep
				fixedStep = controller.FixedStep()
			}

			alpha := accumulator / fixedStep
			logger.Debug("frame", "alpha", alpha, "sim_time", simTime)
		}
	}
}

type cliFlags struct {
	windowWidth, windowHeight float64
	minRadius, maxRadius      float64
	spawnLimit                int
	gravity                   float64
	spawnRate                 float64
	restitution               float64
	outlineCircles            bool
	physicsFrequency          float64
	scalePhysics              bool
	correctionIterations      int
	disableSpatialPartition   bool

	scene         string
	workers       int
	duration      float64
	seed          int64
	statsInterval float64
	quiet         bool
}

func parseFlags() cliFlags {
	var f cliFlags

	flag.Float64Var(&f.windowWidth, "window-width", 800, "initial window width, used to derive the arena aspect ratio")
	flag.Float64Var(&f.windowHeight, "window-height", 600, "initial window height, used to derive the arena aspect ratio")
	flag.Float64Var(&f.minRadius, "min-radius", 0.01, "minimum spawned circle radius")
	flag.Float64Var(&f.maxRadius, "max-radius", 0.05, "maximum spawned circle radius")
	flag.IntVar(&f.spawnLimit, "spawn-limit", 200, "maximum number of live circles")
	flag.Float64Var(&f.gravity, "gravity", 1.0, "gravity acceleration applied to dynamic circles")
	flag.Float64Var(&f.spawnRate, "spawn-rate", 20, "circles spawned per second of simulated time (<=0 spawns spawn-limit immediately)")
	flag.Float64Var(&f.restitution, "restitution", 0.5, "collision and wall restitution coefficient, clamped to [0,1]")
	flag.BoolVar(&f.outlineCircles, "outline-circles", false, "mark circles for outlined rendering (rendering hint only; outline width is always computed)")
	flag.Float64Var(&f.physicsFrequency, "physics-frequency", 60, "base physics update frequency in Hz")
	flag.BoolVar(&f.scalePhysics, "scale-physics", true, "adapt physics frequency to measured step cost")
	flag.IntVar(&f.correctionIterations, "correction-iterations", 4, "positional correction iterations per step")
	flag.BoolVar(&f.disableSpatialPartition, "disable-spatial-partition", false, "use the O(N^2) exhaustive contact detector instead of the spatial grid")

	flag.StringVar(&f.scene, "scene", "default", fmt.Sprintf("scene preset (%v)", scenes.Names()))
	flag.IntVar(&f.workers, "workers", 0, "worker pool size (0 = cores-1)")
	flag.Float64Var(&f.duration, "duration", 0, "simulation duration in seconds (0 = run until interrupted)")
	flag.Int64Var(&f.seed, "seed", 0, "PRNG seed (0 = nondeterministic)")
	flag.Float64Var(&f.statsInterval, "stats-interval", 2.0, "stats reporting interval in seconds")
	flag.BoolVar(&f.quiet, "quiet", false, "suppress info-level logging")

	flag.Parse()
	return f
}
