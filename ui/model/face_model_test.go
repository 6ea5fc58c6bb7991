package model

import (
	"image"
	"testing"

	"github.com/soocke/facepad-go/domain/steer"
)

func TestFaceModel_OnEvent(t *testing.T) {
	m := NewFaceModel()
	if _, ok := m.Face(); ok || m.Action() != "None" {
		t.Fatalf("unexpected initial state")
	}
	box := image.Rect(10, 10, 50, 50)
	m.OnEvent(steer.Event{Tracking: true, Box: box, Action: "left", Pressed: true})
	if got, ok := m.Face(); !ok || got != box {
		t.Fatalf("expected tracked box, got %v %v", got, ok)
	}
	if m.Action() != "left" || m.Presses() != 1 || m.Frames() != 1 {
		t.Fatalf("unexpected counters action=%s presses=%d frames=%d", m.Action(), m.Presses(), m.Frames())
	}
	m.OnEvent(steer.Event{Action: "None"})
	if _, ok := m.Face(); ok || m.Tracking() {
		t.Fatalf("face must clear when tracking is lost")
	}
	m.Reset()
	if m.Action() != "None" || m.Presses() != 1 {
		t.Fatalf("reset must keep press count only")
	}
}

func TestFaceModel_EmptyActionReadsNone(t *testing.T) {
	m := NewFaceModel()
	m.OnEvent(steer.Event{Detected: true})
	if m.Action() != "None" {
		t.Fatalf("unexpected action %q", m.Action())
	}
}

func TestFaceModel_NilSafe(t *testing.T) {
	var m *FaceModel
	m.OnEvent(steer.Event{Pressed: true})
	m.Reset()
	if _, ok := m.Face(); ok || m.Tracking() || m.Presses() != 0 || m.Frames() != 0 || m.Action() != "None" {
		t.Fatalf("nil model must report zero values")
	}
}
