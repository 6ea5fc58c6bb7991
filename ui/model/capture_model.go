package model

import "sync/atomic"

// CaptureModel holds the capture on/off switch shown in the window. The
// zero value is off. Presenter ticks and button callbacks both touch it.
type CaptureModel struct {
	enabled atomic.Bool
}

// Enabled reports whether the camera loop should be delivering frames.
func (m *CaptureModel) Enabled() bool {
	return m != nil && m.enabled.Load()
}

// SetEnabled flips the switch.
func (m *CaptureModel) SetEnabled(b bool) {
	if m != nil {
		m.enabled.Store(b)
	}
}
