package model

import (
	"image"

	"github.com/soocke/facepad-go/domain/steer"
)

// FaceModel mirrors the latest pipeline event for the view. Updates occur
// on the UI thread tick, so no synchronization is needed.
type FaceModel struct {
	box      image.Rectangle
	tracking bool
	action   string
	presses  uint64
	frames   uint64
}

func NewFaceModel() *FaceModel { return &FaceModel{action: steer.None.String()} }

// OnEvent records ev.
func (m *FaceModel) OnEvent(ev steer.Event) {
	if m == nil {
		return
	}
	m.frames++
	m.tracking = ev.Tracking
	if ev.Tracking && !ev.Box.Empty() {
		m.box = ev.Box
	} else {
		m.box = image.Rectangle{}
	}
	m.action = ev.Action
	if ev.Pressed {
		m.presses++
	}
}

// Face returns the tracked box; ok is false while no face is tracked.
func (m *FaceModel) Face() (image.Rectangle, bool) {
	if m == nil || !m.tracking || m.box.Empty() {
		return image.Rectangle{}, false
	}
	return m.box, true
}

// Tracking reports whether the last event had a face.
func (m *FaceModel) Tracking() bool { return m != nil && m.tracking }

// Action returns the last action label.
func (m *FaceModel) Action() string {
	if m == nil || m.action == "" {
		return steer.None.String()
	}
	return m.action
}

// Presses returns the number of injected presses seen.
func (m *FaceModel) Presses() uint64 {
	if m == nil {
		return 0
	}
	return m.presses
}

// Frames returns the number of events seen.
func (m *FaceModel) Frames() uint64 {
	if m == nil {
		return 0
	}
	return m.frames
}

// Reset clears everything but the press counter.
func (m *FaceModel) Reset() {
	if m == nil {
		return
	}
	m.box = image.Rectangle{}
	m.tracking = false
	m.action = steer.None.String()
}
