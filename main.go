package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/soocke/facepad-go/app"
	"github.com/soocke/facepad-go/config"
	"github.com/soocke/facepad-go/debug"
	"github.com/soocke/facepad-go/domain/vision"
	"github.com/soocke/facepad-go/stream"
)

const (
	windowWidth  = 900
	windowHeight = 720
)

func main() {
	cfgPath := flag.String("config", "facepad.json", "path to the JSON config file")
	mode := flag.String("mode", "", "window or stream (overrides config)")
	addr := flag.String("addr", "", "listen address in stream mode (overrides config)")
	envFile := flag.String("env", ".env", "dotenv file with FACEPAD_* overrides")
	flag.Parse()

	cfg, err := loadConfig(*cfgPath, *envFile, *mode, *addr)
	if err != nil {
		fmt.Fprintf(os.Stderr, "config: %v\n", err)
		os.Exit(2)
	}

	level := slog.LevelInfo
	if cfg.Debug {
		level = slog.LevelDebug
	}
	logger, logCloser := NewLogger(level, cfg.LogFile)
	defer logCloser.Close()

	logger.Info("starting", "mode", cfg.Mode, "source", cfg.Source, "tracker", cfg.Tracker, "config", *cfgPath)

	switch cfg.Mode {
	case config.ModeStream:
		err = runStream(cfg, logger)
	default:
		err = runWindow(cfg, *cfgPath, logger)
	}
	if err != nil {
		logger.Error("exit", "error", err)
		logCloser.Close()
		os.Exit(1)
	}
}

// loadConfig layers defaults, the JSON file, the environment and flags.
func loadConfig(path, envFile, mode, addr string) (*config.Config, error) {
	cfg, err := config.Load(path)
	if err != nil {
		return nil, err
	}
	if err := cfg.ApplyEnv(envFile); err != nil {
		return nil, err
	}
	if mode != "" {
		cfg.Mode = mode
	}
	if addr != "" {
		cfg.Listen = addr
	}
	return cfg, cfg.Validate()
}

func runWindow(cfg *config.Config, cfgPath string, logger *slog.Logger) error {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	a, err := app.NewApp(cfg, cfgPath, windowWidth, windowHeight, logger)
	if err != nil {
		return err
	}
	startDebug(cfg, logger, a.Core())
	a.Start(ctx)
	return nil
}

func runStream(cfg *config.Config, logger *slog.Logger) error {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	core, err := app.BuildCore(cfg, logger, vision.TextBanner, nil)
	if err != nil {
		return err
	}
	defer core.Close()
	startDebug(cfg, logger, core)

	producer := stream.NewPipelineProducer(core.CaptureSvc, core.Runner, cfg.JPEGQuality)
	hub := stream.NewHub(producer, logger.With("component", "hub"))
	srv, err := stream.NewServer(hub, stream.Options{
		Width:   cfg.WorkingWidth(),
		GameURL: cfg.GameURL,
	}, logger.With("component", "http"))
	if err != nil {
		return err
	}
	err = srv.ListenAndServe(ctx, cfg.Listen)
	if errors.Is(err, context.Canceled) {
		err = nil
	}
	logger.Info("stream stopped",
		"presses", core.Injector.Presses(),
		"dropped", core.Injector.Dropped(),
	)
	return err
}

func startDebug(cfg *config.Config, logger *slog.Logger, core *app.Core) {
	if !cfg.Debug {
		return
	}
	l := logger.With("component", "debug")
	debug.StartGoroutineLogger(10*time.Second, l, core.DebugAttrs)
	debug.StartMemLogger(10*time.Second, l)
}
