package view

import (
	"fmt"
	"image"
	"log/slog"
	"runtime"
	"sync/atomic"

	"github.com/soocke/facepad-go/config"

	//lint:ignore ST1001 Dot import is intentional for concise Tk widget DSL builders
	. "modernc.org/tk9.0"
)

const (
	regionKey  = "#008080" // keyed out on Windows, dimmed elsewhere
	regionLine = "#FFFFFF"
)

// SelectionOverlay is the region picker for the screen source: a see-through
// window the player drags over the face in a video call. The white lines
// show where the deadzone boundaries fall inside the region.
type SelectionOverlay interface {
	OpenOrFocus()
	// ActiveRect is read from the capture goroutine on every grab.
	ActiveRect() *image.Rectangle
}

type selectionOverlay struct {
	logger  *slog.Logger
	cfg     *config.Config
	cfgPath string
	region  atomic.Pointer[image.Rectangle]
	win     *ToplevelWidget
}

// NewSelectionOverlay starts from the region saved in cfg, if any.
func NewSelectionOverlay(cfg *config.Config, cfgPath string, logger *slog.Logger) SelectionOverlay {
	v := &selectionOverlay{logger: logger, cfg: cfg, cfgPath: cfgPath}
	v.region.Store(cfg.Selection())
	return v
}

func (v *selectionOverlay) ActiveRect() *image.Rectangle { return v.region.Load() }

func (v *selectionOverlay) OpenOrFocus() {
	if v.win != nil {
		return
	}
	win := App.Toplevel(Borderwidth(0), Background(regionLine))
	win.WmTitle("Face Region")
	v.win = win

	r := v.cfg.InitialRegion()
	WmGeometry(win.Window, fmt.Sprintf("%dx%d+%d+%d", r.Dx(), r.Dy(), r.Min.X, r.Min.Y))
	WmAttributes(win.Window, "-topmost", 1)
	if runtime.GOOS == "windows" {
		WmAttributes(win.Window, "-toolwindow", true)
		WmAttributes(win.Window, "-transparentcolor", regionKey)
	} else {
		WmAttributes(win.Window, "-alpha", 0.35)
	}

	// Cells have no requested size, so the grid splits the window in
	// proportion to the camera-pixel spans and the 1px gaps draw the lines.
	cols, rows := v.cfg.DeadzoneSpans()
	for i := 0; i < 3; i++ {
		GridColumnConfigure(win.Window, i, Weight(cols[i]))
		GridRowConfigure(win.Window, i, Weight(rows[i]))
		for j := 0; j < 3; j++ {
			cell := win.Frame(Width(0), Height(0), Background(regionKey))
			Grid(cell, Row(i), Column(j), Sticky("nsew"), Padx(1), Pady(1))
		}
	}

	controls := win.Frame()
	Grid(controls, Row(3), Column(0), Columnspan(3), Sticky("we"))
	confirm := win.Button(Txt("Use Region [Enter]"), Command(v.confirm))
	Grid(confirm, In(controls), Row(0), Column(0), Sticky("we"), Padx("0.2m"), Pady("0.2m"))
	cancel := win.Button(Txt("Cancel [Esc]"), Command(v.destroy))
	Grid(cancel, In(controls), Row(0), Column(1), Sticky("we"), Padx("0.2m"), Pady("0.2m"))
	full := win.Button(Txt("Full Screen"), Command(v.fullScreen))
	Grid(full, In(controls), Row(0), Column(2), Sticky("we"), Padx("0.2m"), Pady("0.2m"))
	Bind(win, "<Return>", Command(v.confirm))
	Bind(win, "<Escape>", Command(v.destroy))
	WmProtocol(win.Window, "WM_DELETE_WINDOW", v.destroy)
}

func (v *selectionOverlay) confirm() {
	if v.win == nil {
		return
	}
	var w, h, x, y int
	geom := WmGeometry(v.win.Window)
	if _, err := fmt.Sscanf(geom, "%dx%d+%d+%d", &w, &h, &x, &y); err != nil || w <= 0 || h <= 0 {
		v.logger.Warn("unreadable region geometry", "geometry", geom, "error", err)
		v.destroy()
		return
	}
	r := v.cfg.FitRegion(image.Rect(x, y, x+w, y+h))
	v.use(&r)
	v.destroy()
}

// fullScreen drops the region so the whole screen is captured.
func (v *selectionOverlay) fullScreen() {
	v.use(nil)
	v.destroy()
}

func (v *selectionOverlay) use(r *image.Rectangle) {
	v.region.Store(r)
	v.cfg.SetSelection(r)
	if err := v.cfg.Save(v.cfgPath); err != nil {
		v.logger.Error("config save failed", "error", err)
		return
	}
	if r == nil {
		v.logger.Info("screen region cleared")
		return
	}
	v.logger.Info("screen region set", "region", r.String())
}

func (v *selectionOverlay) destroy() {
	if v.win != nil {
		Destroy(v.win)
		v.win = nil
	}
}
