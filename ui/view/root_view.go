package view

import (
	"image"
	"log/slog"

	"github.com/soocke/facepad-go/config"
	"github.com/soocke/facepad-go/ui/model"
	"github.com/soocke/facepad-go/ui/theme"

	//lint:ignore ST1001 Dot import is intentional for concise Tk widget DSL builders.
	. "modernc.org/tk9.0"
)

// Handlers groups the callbacks wired to buttons and key bindings.
type Handlers struct {
	ToggleCapture func()
	ToggleKeys    func()
	Selection     func() // nil hides the selection button
	Applied       func(*config.Config)
	Exit          func()
}

// RootView composes the top-level application layout and wires UI callbacks.
// It owns high-level subviews but exposes minimal exported fields for presenters.
type RootView struct {
	cfg     *config.Config
	cfgPath string
	logger  *slog.Logger

	// Subviews
	Session     SessionStats
	ConfigPanel ConfigPanel
	CapturePrev CapturePreview

	// Widgets
	StateLabel  *TLabelWidget
	ActionLabel *TLabelWidget
	KeysLabel   *TLabelWidget
	captureRow  int
}

// UI abstracts the subset of view operations needed by presenters, enabling decoupling
// from the concrete RootView implementation.
type UI interface {
	SetStateLabel(text string)
	SetActionLabel(text string)
	SetKeysLabel(enabled bool)
	SetConfigEditable(enabled bool)
	UpdateCapture(img image.Image)
	UpdateFace(img image.Image)
	SetSession(v model.SessionValues)
	SetPresses(n uint64)
}

func NewRootView(cfg *config.Config, cfgPath string, logger *slog.Logger) *RootView {
	return &RootView{cfg: cfg, cfgPath: cfgPath, logger: logger}
}

// Build constructs the layout and binds the quit key.
func (rv *RootView) Build(h Handlers) {
	if rv == nil {
		return
	}
	// Row 0: session stats, state/action labels, buttons frame
	rv.Session = NewSessionStats(nil, 0, 0)
	rv.StateLabel = TLabel(Txt("State: idle"), Style(theme.StyleStateLabel))
	Grid(rv.StateLabel, Row(0), Column(2), Sticky("we"), Padx("0.4m"), Pady("0.3m"))
	rv.ActionLabel = TLabel(Txt("Action: None"), Style(theme.StyleAccentLabel))
	Grid(rv.ActionLabel, Row(0), Column(3), Sticky("we"), Padx("0.4m"), Pady("0.3m"))

	btnFrame := Frame()
	Grid(btnFrame, Row(0), Column(4), Rowspan(2), Sticky("ne"), Padx("0.3m"), Pady("0.3m"))
	captureBtn := TButton(Txt("Toggle Capture"), Style(theme.StylePrimaryButton), Command(h.ToggleCapture))
	Grid(captureBtn, In(btnFrame), Row(0), Column(0), Sticky("we"), Padx("0.2m"), Pady("0.2m"))
	keysBtn := TButton(Txt("Toggle Keys"), Style(theme.StylePrimaryButton), Command(h.ToggleKeys))
	Grid(keysBtn, In(btnFrame), Row(1), Column(0), Sticky("we"), Padx("0.2m"), Pady("0.2m"))
	rv.KeysLabel = TLabel(Txt("Keys: on"))
	Grid(rv.KeysLabel, In(btnFrame), Row(2), Column(0), Sticky("we"), Padx("0.2m"), Pady("0.2m"))
	next := 3
	if h.Selection != nil {
		selectionBtn := TButton(Txt("Selection Grid"), Command(h.Selection))
		Grid(selectionBtn, In(btnFrame), Row(next), Column(0), Sticky("we"), Padx("0.2m"), Pady("0.2m"))
		next++
	}
	exitBtn := TButton(Txt("Exit [q]"), Style(theme.StyleDangerButton), Command(h.Exit))
	Grid(exitBtn, In(btnFrame), Row(next), Column(0), Sticky("we"), Padx("0.2m"), Pady("0.2m"))
	Bind(App, "<KeyPress-q>", Command(h.Exit))

	// Config panel rows
	rv.ConfigPanel = NewConfigPanel(rv.cfg, rv.cfgPath, rv.logger, h.Applied)
	endRow := rv.ConfigPanel.Build(1)
	rv.captureRow = endRow

	// Capture preview placement
	rv.CapturePrev = NewCapturePreview(rv.captureRow)
}

// SetStateLabel updates the state label text.
func (rv *RootView) SetStateLabel(text string) {
	if rv != nil && rv.StateLabel != nil {
		rv.StateLabel.Configure(Txt(text))
	}
}

// SetActionLabel updates the action label text.
func (rv *RootView) SetActionLabel(text string) {
	if rv != nil && rv.ActionLabel != nil {
		rv.ActionLabel.Configure(Txt(text))
	}
}

// SetKeysLabel shows whether key injection is on.
func (rv *RootView) SetKeysLabel(enabled bool) {
	if rv == nil || rv.KeysLabel == nil {
		return
	}
	if enabled {
		rv.KeysLabel.Configure(Txt("Keys: on"))
		return
	}
	rv.KeysLabel.Configure(Txt("Keys: off"))
}

// SetConfigEditable toggles config panel editability.
func (rv *RootView) SetConfigEditable(enabled bool) {
	if rv != nil && rv.ConfigPanel != nil {
		rv.ConfigPanel.SetEditable(enabled)
	}
}

// UpdateCapture proxies to underlying capture preview view.
func (rv *RootView) UpdateCapture(img image.Image) {
	if rv != nil && rv.CapturePrev != nil {
		rv.CapturePrev.UpdateCapture(img)
	}
}

// UpdateFace proxies to underlying capture preview view.
func (rv *RootView) UpdateFace(img image.Image) {
	if rv != nil && rv.CapturePrev != nil {
		rv.CapturePrev.UpdateFace(img)
	}
}

// SetSession updates the duration labels.
func (rv *RootView) SetSession(v model.SessionValues) {
	if rv == nil || rv.Session == nil {
		return
	}
	rv.Session.SetSession(v.Session)
	rv.Session.SetTotal(v.Total)
	rv.Session.SetTracked(v.Tracked)
}

// SetPresses updates the key press counter.
func (rv *RootView) SetPresses(n uint64) {
	if rv != nil && rv.Session != nil {
		rv.Session.SetPresses(n)
	}
}

// PreviewReset clears the capture preview canvas.
func (rv *RootView) PreviewReset() {
	if rv != nil && rv.CapturePrev != nil {
		rv.CapturePrev.Reset()
	}
	rv.SetActionLabel("Action: None")
}

// ConfigEditable redirects to SetConfigEditable to satisfy ControlView.
func (rv *RootView) ConfigEditable(b bool) { rv.SetConfigEditable(b) }
