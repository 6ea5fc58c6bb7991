package presenter

import (
	"errors"
	"image"
	"io"
	"log/slog"
	"testing"
	"time"

	"github.com/soocke/facepad-go/domain/steer"
	"github.com/soocke/facepad-go/domain/tracking"
	"github.com/soocke/facepad-go/ui/model"
)

var discardLogger = slog.New(slog.NewTextHandler(io.Discard, nil))

type fakeStepper struct {
	events []steer.Event
	err    error
	steps  int
}

func (s *fakeStepper) TryStep() (steer.Event, bool, error) {
	if s.err != nil {
		return steer.Event{}, false, s.err
	}
	if s.steps >= len(s.events) {
		return steer.Event{}, false, nil
	}
	ev := s.events[s.steps]
	s.steps++
	return ev, true, nil
}

func (s *fakeStepper) Image() (image.Image, error) {
	return image.NewRGBA(image.Rect(0, 0, 320, 240)), nil
}

type fakeFrameView struct {
	captures, faces int
	actions         []string
}

func (v *fakeFrameView) UpdateCapture(image.Image)   { v.captures++ }
func (v *fakeFrameView) UpdateFace(image.Image)      { v.faces++ }
func (v *fakeFrameView) SetActionLabel(text string) { v.actions = append(v.actions, text) }

func TestFramePresenter_UpdatesViewAndModel(t *testing.T) {
	stepper := &fakeStepper{events: []steer.Event{
		{Action: "None", Detected: true},
		{Action: "up", Tracking: true, Box: image.Rect(100, 20, 140, 60), Pressed: true},
		{Action: "up", Tracking: true, Box: image.Rect(100, 22, 140, 62)},
	}}
	view := &fakeFrameView{}
	face := model.NewFaceModel()
	enabled := true
	p := NewFramePresenter(func() bool { return enabled }, stepper, view, face, nil, discardLogger)

	for i := 0; i < 4; i++ {
		p.ProcessFrame()
	}
	if view.captures != 3 || view.faces != 2 {
		t.Fatalf("unexpected view updates captures=%d faces=%d", view.captures, view.faces)
	}
	if len(view.actions) != 2 || view.actions[0] != "Action: None" || view.actions[1] != "Action: up" {
		t.Fatalf("action label must change only on new actions, got %v", view.actions)
	}
	if face.Presses() != 1 || !face.Tracking() {
		t.Fatalf("model not updated: presses=%d tracking=%v", face.Presses(), face.Tracking())
	}

	enabled = false
	stepper.events = append(stepper.events, steer.Event{Action: "down"})
	p.ProcessFrame()
	if stepper.steps != 3 {
		t.Fatalf("disabled presenter must not step")
	}
}

func TestFramePresenter_LabelsFromModel(t *testing.T) {
	stepper := &fakeStepper{events: []steer.Event{
		{Action: "", Detected: true},
		{Action: "left", Tracking: true},
	}}
	view := &fakeFrameView{}
	p := NewFramePresenter(func() bool { return true }, stepper, view, model.NewFaceModel(), nil, discardLogger)
	p.ProcessFrame()
	p.ProcessFrame()
	if len(view.actions) != 2 || view.actions[0] != "Action: None" || view.actions[1] != "Action: left" {
		t.Fatalf("unexpected labels %v", view.actions)
	}
	if view.faces != 0 {
		t.Fatalf("no thumbnail without a face box, got %d", view.faces)
	}
}

func TestFramePresenter_ReportsStopOnce(t *testing.T) {
	stepper := &fakeStepper{err: errors.New("camera gone")}
	var stops int
	p := NewFramePresenter(func() bool { return true }, stepper, &fakeFrameView{}, nil, func(error) { stops++ }, discardLogger)
	p.ProcessFrame()
	p.ProcessFrame()
	if stops != 1 {
		t.Fatalf("expected one stop notification, got %d", stops)
	}
}

type labelView struct{ labels []string }

func (v *labelView) SetStateLabel(s string) { v.labels = append(v.labels, s) }

func TestTrackingPresenter_ShowsLatestState(t *testing.T) {
	view := &labelView{}
	p := NewTrackingPresenter(view)
	p.Tick(time.Now())
	p.OnState(tracking.StateIdle, tracking.StateTracking)
	p.OnState(tracking.StateTracking, tracking.StateIdle)
	p.OnState(tracking.StateIdle, tracking.StateTracking)
	p.Tick(time.Now())
	p.Tick(time.Now())
	want := []string{"State: idle", "State: tracking"}
	if len(view.labels) != len(want) || view.labels[0] != want[0] || view.labels[1] != want[1] {
		t.Fatalf("unexpected labels %v", view.labels)
	}
}

type sessionView struct {
	last    model.SessionValues
	presses uint64
}

func (v *sessionView) SetSession(s model.SessionValues) { v.last = s }
func (v *sessionView) SetPresses(n uint64)              { v.presses = n }

func TestSessionPresenter_Tick(t *testing.T) {
	sess := model.NewSessionModel()
	capModel := &mockModel{enabled: true}
	face := model.NewFaceModel()
	face.OnEvent(steer.Event{Tracking: true, Box: image.Rect(0, 0, 10, 10), Action: "up", Pressed: true})
	face.OnEvent(steer.Event{Tracking: true, Box: image.Rect(0, 0, 10, 10), Action: "up", Pressed: true})
	view := &sessionView{}
	p := NewSessionPresenter(sess, capModel, face, view)
	base := time.Unix(0, 0)
	p.Tick(base)
	p.Tick(base.Add(2 * time.Second))
	if view.last.Session != 2*time.Second || view.last.Tracked != 2*time.Second || view.presses != 2 {
		t.Fatalf("unexpected session view %+v presses=%d", view.last, view.presses)
	}
}

func TestLoop_NilSafe(t *testing.T) {
	var l *Loop
	l.Tick()
	scheduled := 0
	(&Loop{Schedule: func() { scheduled++ }}).Tick()
	if scheduled != 1 {
		t.Fatalf("expected schedule callback")
	}
}
