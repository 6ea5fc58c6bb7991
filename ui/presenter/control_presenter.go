package presenter

import "time"

// CaptureModel provides enabled state access.
type CaptureModel interface {
	Enabled() bool
	SetEnabled(bool)
}

// LifecycleContract narrows what the presenter needs from the capture layer.
type LifecycleContract interface {
	Start()
	Stop()
}

// SessionStarter begins a fresh tracking session; satisfied by the pipeline.
type SessionStarter interface {
	Begin(now time.Time) string
}

// KeySwitch enables or disables key injection; satisfied by the injector.
type KeySwitch interface {
	Enabled() bool
	SetEnabled(bool)
}

// Resetter clears cached per-session view state.
type Resetter interface{ Reset() }

// ControlView updates UI elements affected by capture and key toggling.
type ControlView interface {
	PreviewReset()
	ConfigEditable(bool)
	SetKeysLabel(enabled bool)
}

// ControlPresenter owns the capture and key injection toggles.
type ControlPresenter struct {
	model   CaptureModel
	service LifecycleContract
	session SessionStarter
	keys    KeySwitch
	face    Resetter
	view    ControlView
	now     func() time.Time
}

// NewControlPresenter wires the toggles. keys and face may be nil.
func NewControlPresenter(model CaptureModel, service LifecycleContract, session SessionStarter, keys KeySwitch, face Resetter, view ControlView) *ControlPresenter {
	return &ControlPresenter{model: model, service: service, session: session, keys: keys, face: face, view: view, now: time.Now}
}

func (c *ControlPresenter) ready() bool {
	return c != nil && c.model != nil && c.service != nil && c.session != nil && c.view != nil
}

// Enable starts the capture service and a new tracking session. Idempotent.
func (c *ControlPresenter) Enable() {
	if !c.ready() || c.model.Enabled() {
		return
	}
	c.session.Begin(c.now())
	c.service.Start()
	c.model.SetEnabled(true)
	c.view.ConfigEditable(false)
}

// Disable stops the capture service and resets the preview. Idempotent.
func (c *ControlPresenter) Disable() {
	if !c.ready() || !c.model.Enabled() {
		return
	}
	c.service.Stop()
	c.model.SetEnabled(false)
	if c.face != nil {
		c.face.Reset()
	}
	c.view.PreviewReset()
	c.view.ConfigEditable(true)
}

// Toggle flips capture state delegating to Enable/Disable.
func (c *ControlPresenter) Toggle() {
	if !c.ready() {
		return
	}
	if c.model.Enabled() {
		c.Disable()
		return
	}
	c.Enable()
}

// ToggleKeys flips key injection and reflects it in the view.
func (c *ControlPresenter) ToggleKeys() {
	if c == nil || c.keys == nil || c.view == nil {
		return
	}
	next := !c.keys.Enabled()
	c.keys.SetEnabled(next)
	c.view.SetKeysLabel(next)
}

// SyncKeys pushes the current injection state to the view.
func (c *ControlPresenter) SyncKeys() {
	if c == nil || c.keys == nil || c.view == nil {
		return
	}
	c.view.SetKeysLabel(c.keys.Enabled())
}
