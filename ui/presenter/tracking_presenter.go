package presenter

import (
	"time"

	"github.com/soocke/facepad-go/domain/tracking"
)

// StateView sets the state label in the view.
type StateView interface{ SetStateLabel(string) }

// TrackingPresenter receives tracking state transitions and updates the view.
type TrackingPresenter struct {
	view    StateView
	latest  tracking.State
	shown   bool
	pending []tracking.State
}

func NewTrackingPresenter(view StateView) *TrackingPresenter {
	return &TrackingPresenter{view: view}
}

// OnState queues a transitioned state; matches tracking.StateListener.
//
// The latest queued state will be reflected on the next Tick.
func (p *TrackingPresenter) OnState(prev, next tracking.State) {
	if p == nil {
		return
	}
	p.pending = append(p.pending, next)
}

// Tick flushes queued states, showing only the most recent one.
func (p *TrackingPresenter) Tick(now time.Time) {
	if p == nil || p.view == nil {
		return
	}
	if !p.shown {
		p.shown = true
		p.view.SetStateLabel("State: " + p.latest.String())
	}
	if len(p.pending) == 0 {
		return
	}
	last := p.pending[len(p.pending)-1]
	p.pending = p.pending[:0]
	if last != p.latest {
		p.latest = last
		p.view.SetStateLabel("State: " + last.String())
	}
}
