package tracking

import (
	"image"
	"log/slog"
)

// DefaultSkipFrames is the detection interval used when none is configured.
const DefaultSkipFrames = 50

// Machine alternates between full detection and cheap frame-to-frame
// tracking. Detection runs whenever the machine is idle and, to correct
// drift, every skip frames even while tracking succeeds.
// Not safe for concurrent use; call Step from a single goroutine.
type Machine[F any] struct {
	locator    Locator[F]
	newTracker TrackerFactory[F]
	logger     *slog.Logger

	tracker   Tracker[F]
	state     State
	box       image.Rectangle
	frames    uint64
	skip      uint64
	listeners []StateListener
}

// NewMachine returns an idle machine. skip values below 1 fall back to
// DefaultSkipFrames.
func NewMachine[F any](locator Locator[F], factory TrackerFactory[F], skip int, logger *slog.Logger) *Machine[F] {
	if skip < 1 {
		skip = DefaultSkipFrames
	}
	return &Machine[F]{locator: locator, newTracker: factory, logger: logger, skip: uint64(skip)}
}

// AddListener registers l for state changes.
func (m *Machine[F]) AddListener(l StateListener) { m.listeners = append(m.listeners, l) }

// Current returns the active state.
func (m *Machine[F]) Current() State { return m.state }

// Box returns the current estimate; ok is false while idle.
func (m *Machine[F]) Box() (image.Rectangle, bool) {
	if m.state != StateTracking {
		return image.Rectangle{}, false
	}
	return m.box, true
}

// SetSkip changes the forced detection interval. Values below 1 fall back
// to DefaultSkipFrames.
func (m *Machine[F]) SetSkip(skip int) {
	if skip < 1 {
		skip = DefaultSkipFrames
	}
	m.skip = uint64(skip)
}

// Skip returns the forced detection interval.
func (m *Machine[F]) Skip() int { return int(m.skip) }

// Frames returns the number of processed frames.
func (m *Machine[F]) Frames() uint64 { return m.frames }

// NeedsDetection reports whether the next Step will run the locator.
func (m *Machine[F]) NeedsDetection() bool {
	return m.state == StateIdle || m.frames%m.skip == 0
}

// Step processes one frame.
func (m *Machine[F]) Step(frame F) Result {
	res := Result{Frame: m.frames}
	if m.NeedsDetection() {
		res.Detected = true
		if m.logger != nil {
			m.logger.Debug("detecting", "frame", m.frames)
		}
		if box, ok := m.locator.Locate(frame); ok {
			m.acquire(frame, box)
		} else {
			if m.logger != nil {
				m.logger.Debug("face not found", "frame", m.frames)
			}
			m.lose()
		}
	} else {
		if box, ok := m.tracker.Update(frame); ok {
			m.box = box
			res.Tracked = true
		} else {
			if m.logger != nil {
				m.logger.Debug("tracker lost face", "frame", m.frames)
			}
			m.lose()
		}
	}
	m.frames++
	res.State = m.state
	if m.state == StateTracking {
		res.Box = m.box
	}
	return res
}

// Reset drops the current target and returns to idle.
func (m *Machine[F]) Reset() { m.lose() }

// Close releases the active tracker.
func (m *Machine[F]) Close() { m.lose() }

func (m *Machine[F]) acquire(frame F, box image.Rectangle) {
	m.releaseTracker()
	if m.newTracker == nil {
		m.lose()
		return
	}
	t := m.newTracker()
	if t == nil || !t.Init(frame, box) {
		if t != nil {
			_ = t.Close()
		}
		if m.logger != nil {
			m.logger.Warn("tracker init failed", "box", box)
		}
		m.lose()
		return
	}
	m.tracker = t
	m.box = box
	m.transition(StateTracking)
}

func (m *Machine[F]) lose() {
	m.releaseTracker()
	m.box = image.Rectangle{}
	m.transition(StateIdle)
}

func (m *Machine[F]) releaseTracker() {
	if m.tracker == nil {
		return
	}
	if err := m.tracker.Close(); err != nil && m.logger != nil {
		m.logger.Error("tracker close", "error", err)
	}
	m.tracker = nil
}

func (m *Machine[F]) transition(next State) {
	prev := m.state
	if prev == next {
		return
	}
	m.state = next
	if m.logger != nil {
		m.logger.Info("tracking state transition", "from", prev.String(), "to", next.String(), "frame", m.frames)
	}
	for _, l := range m.listeners {
		l(prev, next)
	}
}
