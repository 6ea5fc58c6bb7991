package presenter

import "time"

// Loop aggregates feature presenters and drives periodic updates.
//
// It calls Tick/ProcessFrame on the sub-presenters and invokes a
// scheduler callback. The zero value is usable (methods are nil-safe).
type Loop struct {
	Session  *SessionPresenter
	Tracking *TrackingPresenter
	Frame    *FramePresenter
	Schedule func()
}

func NewLoop(sess *SessionPresenter, tracking *TrackingPresenter, frame *FramePresenter, schedule func()) *Loop {
	return &Loop{Session: sess, Tracking: tracking, Frame: frame, Schedule: schedule}
}

func (l *Loop) Tick() {
	if l == nil {
		return
	}
	now := time.Now()
	// Frames first so state labels reflect this tick's transitions.
	if l.Frame != nil {
		l.Frame.ProcessFrame()
	}
	if l.Tracking != nil {
		l.Tracking.Tick(now)
	}
	if l.Session != nil {
		l.Session.Tick(now)
	}
	if l.Schedule != nil {
		l.Schedule()
	}
}
