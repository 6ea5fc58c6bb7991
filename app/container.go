package app

import (
	"errors"
	"fmt"
	"image"
	"log/slog"

	"gocv.io/x/gocv"

	"github.com/soocke/facepad-go/config"
	"github.com/soocke/facepad-go/domain/capture"
	"github.com/soocke/facepad-go/domain/input"
	"github.com/soocke/facepad-go/domain/pipeline"
	"github.com/soocke/facepad-go/domain/steer"
	"github.com/soocke/facepad-go/domain/tracking"
	"github.com/soocke/facepad-go/domain/vision"
)

// Core holds the capture, tracking and injection services shared by the
// window and stream front ends.
type Core struct {
	Config     *config.Config
	Logger     *slog.Logger
	CaptureSvc capture.CaptureService
	Locator    *vision.CascadeLocator
	Machine    *tracking.Machine[gocv.Mat]
	Injector   *input.Injector
	Pipeline   *pipeline.Pipeline
	Runner     *pipeline.Runner
}

// BuildCore opens the frame source and loads the detector. selection is
// consulted on every screen grab and may be nil.
func BuildCore(cfg *config.Config, logger *slog.Logger, style vision.TextStyle, selection func() *image.Rectangle) (*Core, error) {
	c := &Core{Config: cfg, Logger: logger}

	grabber, err := openGrabber(cfg, selection)
	if err != nil {
		return nil, err
	}
	c.CaptureSvc = capture.NewCaptureService(grabber, logger.With("component", "capture"))

	params := vision.CascadeParams{ScaleFactor: cfg.ScaleFactor, MinNeighbors: cfg.MinNeighbors, MinSize: cfg.MinFaceSize}
	c.Locator, err = vision.NewCascadeLocator(cfg.CascadePath, params)
	if err != nil {
		_ = c.CaptureSvc.Close()
		return nil, err
	}
	factory, err := vision.NewTrackerFactory(cfg.Tracker)
	if err != nil {
		c.Close()
		return nil, err
	}
	c.Machine = tracking.NewMachine[gocv.Mat](c.Locator, factory, cfg.SkipFrames, logger.With("component", "tracking"))
	c.Injector = input.NewInjector(openKeyboard(cfg, logger), cfg.PressInterval(), logger.With("component", "input"))

	c.Pipeline = pipeline.New(pipeline.Options{
		Width:     cfg.WorkingWidth(),
		Mirror:    cfg.Mirror,
		Deadzone:  deadzone(cfg),
		Style:     style,
		ShowStats: cfg.ShowStats,
	}, c.Machine, c.Injector, logger.With("component", "pipeline"))
	c.Pipeline.AddListener(actionLogger(logger.With("component", "steer")))
	c.Runner = pipeline.NewRunner(c.CaptureSvc, c.Pipeline)
	return c, nil
}

// actionLogger logs transitions between actions. Listeners run on the
// goroutine that steps the pipeline.
func actionLogger(logger *slog.Logger) pipeline.EventListener {
	prev := steer.None.String()
	return func(ev steer.Event) {
		if ev.Action == prev {
			return
		}
		logger.Debug("action changed", "from", prev, "to", ev.Action, "tracking", ev.Tracking)
		prev = ev.Action
	}
}

func openGrabber(cfg *config.Config, selection func() *image.Rectangle) (capture.Grabber, error) {
	switch cfg.Source {
	case config.SourceScreen:
		if selection == nil {
			selection = cfg.Selection
		}
		return capture.NewScreenGrabber(selection), nil
	default:
		return capture.OpenCamera(cfg.CameraIndex, cfg.FrameWidth, cfg.FrameHeight)
	}
}

// openKeyboard falls back to a no-op keyboard when injection is off or the
// platform has no backend.
func openKeyboard(cfg *config.Config, logger *slog.Logger) input.Keyboard {
	if !cfg.InjectKeys {
		return input.NopKeyboard{}
	}
	kb, err := input.NewKeyboard()
	if err != nil {
		if errors.Is(err, input.ErrUnsupported) {
			logger.Warn("key injection unavailable, running display only", "error", err)
		} else {
			logger.Error("open keyboard", "error", err)
		}
		return input.NopKeyboard{}
	}
	return kb
}

func deadzone(cfg *config.Config) steer.Deadzone {
	return steer.NewDeadzone(cfg.BoundaryUp, cfg.BoundaryDown, cfg.BoundaryLeft, cfg.BoundaryRight, cfg.Scale)
}

// Apply pushes tunables edited at runtime into the running services.
func (c *Core) Apply(cfg *config.Config) {
	if c == nil || cfg == nil {
		return
	}
	c.Pipeline.SetDeadzone(deadzone(cfg))
	c.Pipeline.SetShowStats(cfg.ShowStats)
	c.Machine.SetSkip(cfg.SkipFrames)
	c.Injector.SetInterval(cfg.PressInterval())
	c.Logger.Info("config applied",
		"skip_frames", cfg.SkipFrames,
		"press_interval", cfg.PressInterval(),
		"deadzone", fmt.Sprintf("%+v", c.Pipeline.Deadzone()),
	)
}

// Image converts the annotated frame of the last step for the preview.
func (c *Core) Image() (image.Image, error) { return vision.ToImage(*c.Pipeline.Frame()) }

// TryStep processes the newest frame, if any.
func (c *Core) TryStep() (steer.Event, bool, error) { return c.Runner.TryStep() }

// DebugAttrs reports capture and injection counters for the debug logger.
func (c *Core) DebugAttrs() []slog.Attr {
	stats := c.CaptureSvc.Stats()
	return []slog.Attr{
		slog.Uint64("captures", stats.Captures),
		slog.Uint64("skipped", stats.Skipped),
		slog.Duration("avg_capture", stats.AvgCapture),
		slog.Duration("frame_age", stats.LatestFrameAge),
		slog.Uint64("presses", c.Injector.Presses()),
		slog.Uint64("dropped", c.Injector.Dropped()),
		slog.Bool("tracking", c.Pipeline.Last().Tracking),
	}
}

// Close stops capture and releases native resources. Safe on a partially
// built core.
func (c *Core) Close() {
	if c == nil {
		return
	}
	if c.CaptureSvc != nil {
		if err := c.CaptureSvc.Close(); err != nil {
			c.Logger.Error("close capture", "error", err)
		}
	}
	if c.Runner != nil {
		_ = c.Runner.Close()
	}
	if c.Pipeline != nil {
		_ = c.Pipeline.Close()
	} else if c.Machine != nil {
		c.Machine.Close()
	}
	if c.Locator != nil {
		_ = c.Locator.Close()
	}
	if c.Injector != nil {
		_ = c.Injector.Close()
	}
}
