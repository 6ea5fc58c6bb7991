package steer

import (
	"image"
	"time"
)

// Action enumerates the directional commands derived from the face position.
type Action int

const (
	None Action = iota
	Up
	Down
	Left
	Right
)

// String returns the key name for directional actions. None renders as
// "None" so overlays read "Action: None" while idle.
func (a Action) String() string {
	switch a {
	case Up:
		return "up"
	case Down:
		return "down"
	case Left:
		return "left"
	case Right:
		return "right"
	default:
		return "None"
	}
}

// Directional reports whether the action maps to a key press.
func (a Action) Directional() bool { return a >= Up && a <= Right }

// Event describes the outcome of one processed frame.
type Event struct {
	Session  string          `json:"session"`
	Frame    uint64          `json:"frame"`
	Action   string          `json:"action"`
	Pressed  bool            `json:"pressed"`
	Tracking bool            `json:"tracking"`
	Detected bool            `json:"detected"`
	Box      image.Rectangle `json:"box"`
	At       time.Time       `json:"at"`
}
