package presenter

import (
	"time"

	"github.com/soocke/facepad-go/ui/model"
)

// CaptureEnabledModel reports whether capture is enabled.
type CaptureEnabledModel interface{ Enabled() bool }

// FaceStats reports whether a face is held and how many keys its
// movement has pressed.
type FaceStats interface {
	Tracking() bool
	Presses() uint64
}

// SessionView displays formatted durations and counters.
type SessionView interface {
	SetSession(v model.SessionValues)
	SetPresses(n uint64)
}

// SessionPresenter formats session values from the model to the view.
type SessionPresenter struct {
	sess *model.SessionModel
	cap  CaptureEnabledModel
	face FaceStats
	view SessionView
}

// NewSessionPresenter returns a new SessionPresenter. face may be nil.
func NewSessionPresenter(sess *model.SessionModel, cap CaptureEnabledModel, face FaceStats, view SessionView) *SessionPresenter {
	return &SessionPresenter{sess: sess, cap: cap, face: face, view: view}
}

// Tick advances the session model and pushes values to the view.
func (p *SessionPresenter) Tick(now time.Time) {
	if p == nil || p.sess == nil || p.cap == nil || p.view == nil {
		return
	}
	tracking := p.face != nil && p.face.Tracking()
	p.sess.OnTick(p.cap.Enabled(), tracking, now)
	p.view.SetSession(p.sess.Values())
	if p.face != nil {
		p.view.SetPresses(p.face.Presses())
	}
}
