package tracking

import "image"

// State enumerates the face tracking states.
type State int

const (
	StateIdle State = iota
	StateTracking
)

func (s State) String() string {
	switch s {
	case StateIdle:
		return "idle"
	case StateTracking:
		return "tracking"
	default:
		return "unknown"
	}
}

// Locator runs one-shot face detection over a frame and returns the chosen
// candidate.
type Locator[F any] interface {
	Locate(frame F) (image.Rectangle, bool)
}

// Tracker follows a box from frame to frame after Init.
type Tracker[F any] interface {
	Init(frame F, box image.Rectangle) bool
	Update(frame F) (image.Rectangle, bool)
	Close() error
}

// TrackerFactory constructs a fresh tracker for every acquisition.
type TrackerFactory[F any] func() Tracker[F]

// StateListener is called on each state change.
type StateListener func(prev, next State)

// Result summarises one Step.
type Result struct {
	Frame    uint64
	State    State
	Box      image.Rectangle // zero while idle
	Detected bool            // detection ran on this frame
	Tracked  bool            // tracker produced Box on this frame
}
