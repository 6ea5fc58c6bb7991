package model

import (
	"time"
)

// SessionValues is a snapshot of SessionModel.
type SessionValues struct {
	Session time.Duration // current (or last) capture run
	Total   time.Duration // all runs, including the active one
	Tracked time.Duration // time a face was tracked, all runs
}

// SessionModel tracks capture run durations and how long a face was held.
// It is decoupled from the UI; presenters should poll Values() and update views.
// The zero value is ready to use.
type SessionModel struct {
	active       bool
	captureStart time.Time
	lastSession  time.Duration
	accumulated  time.Duration

	tracking   bool
	trackStart time.Time
	tracked    time.Duration
}

// NewSessionModel returns a pointer to a ready-to-use SessionModel.
func NewSessionModel() *SessionModel { return &SessionModel{} }

// OnTick updates the model from the capture and tracking flags at now.
// Tracking only counts while capturing.
func (m *SessionModel) OnTick(capturing, tracking bool, now time.Time) {
	if m == nil {
		return
	}
	if capturing {
		if !m.active {
			m.active = true
			m.captureStart = now
			m.lastSession = 0
		}
		m.lastSession = now.Sub(m.captureStart)
	} else if m.active {
		m.lastSession = now.Sub(m.captureStart)
		m.accumulated += m.lastSession
		m.active = false
	}

	tracking = tracking && capturing
	switch {
	case tracking && !m.tracking:
		m.tracking = true
		m.trackStart = now
	case !tracking && m.tracking:
		m.tracked += now.Sub(m.trackStart)
		m.tracking = false
	}
	if m.tracking {
		m.tracked += now.Sub(m.trackStart)
		m.trackStart = now
	}
}

// Values returns the current durations. Totals include the ongoing session when active.
func (m *SessionModel) Values() SessionValues {
	if m == nil {
		return SessionValues{}
	}
	v := SessionValues{Session: m.lastSession, Total: m.accumulated, Tracked: m.tracked}
	if m.active {
		v.Total += v.Session
	}
	return v
}
