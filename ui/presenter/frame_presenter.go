package presenter

import (
	"image"
	"log/slog"

	"github.com/soocke/facepad-go/domain/steer"
	"github.com/soocke/facepad-go/ui/images"
	"github.com/soocke/facepad-go/ui/model"
)

const faceThumbSize = 120

// FrameStepper runs the pipeline on the newest captured frame.
type FrameStepper interface {
	// TryStep processes a frame if a new one is available.
	TryStep() (steer.Event, bool, error)
	// Image returns the annotated frame of the last step.
	Image() (image.Image, error)
}

// FrameView describes the UI surface updated by the presenter.
type FrameView interface {
	UpdateCapture(img image.Image)
	UpdateFace(img image.Image)
	SetActionLabel(text string)
}

// FramePresenter pulls processed frames into the preview on each UI tick.
// The pipeline runs on the UI thread, one frame per tick at most.
type FramePresenter struct {
	Enabled func() bool
	Stepper FrameStepper
	View    FrameView
	Model   *model.FaceModel
	// OnStopped is called once when the frame source fails.
	OnStopped func(error)
	logger    *slog.Logger

	stopped    bool
	lastAction string
}

// NewFramePresenter constructs a frame presenter.
func NewFramePresenter(enabled func() bool, stepper FrameStepper, view FrameView, m *model.FaceModel, onStopped func(error), logger *slog.Logger) *FramePresenter {
	return &FramePresenter{Enabled: enabled, Stepper: stepper, View: view, Model: m, OnStopped: onStopped, logger: logger}
}

// ProcessFrame steps the pipeline and refreshes the preview.
func (p *FramePresenter) ProcessFrame() {
	if p == nil || p.Enabled == nil || p.Stepper == nil || p.View == nil {
		return
	}
	if !p.Enabled() {
		p.stopped = false
		return
	}
	ev, ok, err := p.Stepper.TryStep()
	if err != nil {
		p.fail(err)
		return
	}
	if !ok {
		return
	}
	action := ev.Action
	box, held := ev.Box, ev.Tracking && !ev.Box.Empty()
	if p.Model != nil {
		p.Model.OnEvent(ev)
		action = p.Model.Action()
		box, held = p.Model.Face()
	}
	if action != p.lastAction {
		p.lastAction = action
		p.View.SetActionLabel("Action: " + action)
	}

	img, err := p.Stepper.Image()
	if err != nil {
		if p.logger != nil {
			p.logger.Error("preview", "error", err)
		}
		return
	}
	p.View.UpdateCapture(img)
	if held {
		if thumb, _, err := images.FaceThumbnail(img, box, faceThumbSize); err == nil {
			p.View.UpdateFace(thumb)
		}
	}
}

func (p *FramePresenter) fail(err error) {
	if p.stopped {
		return
	}
	p.stopped = true
	if p.logger != nil {
		p.logger.Error("frame source stopped", "error", err)
	}
	if p.OnStopped != nil {
		p.OnStopped(err)
	}
}
