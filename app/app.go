package app

import (
	"context"
	"fmt"
	"image"
	"log/slog"
	"time"

	tk "modernc.org/tk9.0"

	"github.com/soocke/facepad-go/config"
	"github.com/soocke/facepad-go/domain/vision"
	"github.com/soocke/facepad-go/ui/model"
	"github.com/soocke/facepad-go/ui/presenter"
	"github.com/soocke/facepad-go/ui/theme"
	"github.com/soocke/facepad-go/ui/view"
)

const tick = 15 * time.Millisecond

// App is the windowed front end: preview, overlay and controls on the Tk
// event loop. The pipeline is stepped from the UI tick.
type App struct {
	cfg     *config.Config
	cfgPath string
	logger  *slog.Logger
	width   int
	height  int

	core      *Core
	root      *view.RootView
	selection view.SelectionOverlay
	capture   *model.CaptureModel
	session   *model.SessionModel
	face      *model.FaceModel
	control   *presenter.ControlPresenter
	loop      *presenter.Loop
	afterID   string
	closed    bool
	ctx       context.Context
}

// NewApp builds the services and presenters. The window itself is laid out
// in Start.
func NewApp(cfg *config.Config, cfgPath string, width, height int, logger *slog.Logger) (*App, error) {
	a := &App{cfg: cfg, cfgPath: cfgPath, logger: logger, width: width, height: height}
	var sel func() *image.Rectangle
	if cfg.Source == config.SourceScreen {
		a.selection = view.NewSelectionOverlay(cfg, cfgPath, logger)
		sel = a.selection.ActiveRect
	}
	core, err := BuildCore(cfg, logger, vision.TextStats, sel)
	if err != nil {
		return nil, err
	}
	a.core = core

	a.capture = &model.CaptureModel{}
	a.session = model.NewSessionModel()
	a.face = model.NewFaceModel()
	a.root = view.NewRootView(cfg, cfgPath, logger)

	tracker := presenter.NewTrackingPresenter(a.root)
	core.Machine.AddListener(tracker.OnState)
	a.control = presenter.NewControlPresenter(a.capture, core.CaptureSvc, core.Pipeline, core.Injector, a.face, a.root)
	frames := presenter.NewFramePresenter(a.capture.Enabled, core, a.root, a.face, a.onStopped, logger.With("component", "preview"))
	sessions := presenter.NewSessionPresenter(a.session, a.capture, a.face, a.root)
	a.loop = presenter.NewLoop(sessions, tracker, frames, a.scheduleUpdate)
	return a, nil
}

// Core exposes the shared services.
func (a *App) Core() *Core { return a.core }

// Start lays out the window, starts capture and blocks in the Tk loop
// until the window is closed, q is pressed or ctx is done.
func (a *App) Start(ctx context.Context) {
	a.ctx = ctx
	theme.SetDark(a.cfg.DarkTheme)
	tk.App.WmTitle("Facepad")
	tk.WmProtocol(tk.App, "WM_DELETE_WINDOW", a.exitHandler)
	tk.WmGeometry(tk.App, fmt.Sprintf("%dx%d+100+100", a.width, a.height))

	h := view.Handlers{
		ToggleCapture: a.control.Toggle,
		ToggleKeys:    a.control.ToggleKeys,
		Applied:       a.core.Apply,
		Exit:          a.exitHandler,
	}
	if a.selection != nil {
		h.Selection = a.selection.OpenOrFocus
	}
	a.root.Build(h)
	a.control.SyncKeys()
	a.control.Enable()

	a.scheduleUpdate()
	tk.App.Wait()
	a.shutdown()
}

func (a *App) scheduleUpdate() {
	if a.closed {
		return
	}
	// TclAfter keeps the update on Tk's event loop thread.
	a.afterID = tk.TclAfter(tick, func() {
		if a.ctx != nil && a.ctx.Err() != nil {
			a.exitHandler()
			return
		}
		a.loop.Tick()
	})
}

// onStopped runs when the camera stops delivering frames.
func (a *App) onStopped(err error) {
	a.logger.Error("capture stopped, disabling", "error", err)
	a.control.Disable()
}

func (a *App) exitHandler() {
	if a.closed {
		return
	}
	a.closed = true
	if a.afterID != "" {
		tk.TclAfterCancel(a.afterID)
	}
	tk.Destroy(tk.App)
}

// shutdown runs after the Tk loop returns; widgets are gone by then.
func (a *App) shutdown() {
	a.capture.SetEnabled(false)
	a.core.Close()
	a.logger.Info("window closed",
		"presses", a.core.Injector.Presses(),
		"dropped", a.core.Injector.Dropped(),
		"frames", a.face.Frames(),
	)
}
