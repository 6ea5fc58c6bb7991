package view

import (
	"fmt"
	"time"

	//lint:ignore ST1001 Dot import for concise Tk widget DSL.
	. "modernc.org/tk9.0"
)

// SessionStats shows capture durations, time spent tracking and key presses.
type SessionStats interface {
	SetSession(d time.Duration)
	SetTotal(d time.Duration)
	SetTracked(d time.Duration)
	SetPresses(n uint64)
}

type sessionStats struct {
	sessionLbl *LabelWidget
	totalLbl   *LabelWidget
	trackedLbl *LabelWidget
	pressesLbl *LabelWidget
	presses    uint64
}

// NewSessionStats creates the labels in a 2x2 block at (row, startCol).
// If parent is nil, the block is positioned relative to the App root.
func NewSessionStats(parent *FrameWidget, row, startCol int) SessionStats {
	s := &sessionStats{
		sessionLbl: Label(Width(14), Anchor("w")),
		totalLbl:   Label(Width(14), Anchor("w")),
		trackedLbl: Label(Width(14), Anchor("w")),
		pressesLbl: Label(Width(14), Anchor("w")),
	}
	inner := Frame()
	if parent != nil {
		Grid(inner, In(parent), Row(row), Column(startCol), Columnspan(2), Sticky("w"))
	} else {
		Grid(inner, Row(row), Column(startCol), Columnspan(2), Sticky("w"))
	}
	place := func(w *LabelWidget, r, c int) {
		Grid(w, In(inner), Row(r), Column(c), Sticky("w"), Padx("0.2m"))
	}
	place(s.sessionLbl, 0, 0)
	place(s.totalLbl, 0, 1)
	place(s.trackedLbl, 1, 0)
	place(s.pressesLbl, 1, 1)
	s.SetSession(0)
	s.SetTotal(0)
	s.SetTracked(0)
	s.pressesLbl.Configure(Txt("Presses: 0"))
	return s
}

func mmss(d time.Duration) string {
	seconds := int(d.Seconds())
	return fmt.Sprintf("%02d:%02d", seconds/60, seconds%60)
}

// SetSession updates the session duration display.
func (s *sessionStats) SetSession(d time.Duration) {
	if s == nil || s.sessionLbl == nil {
		return
	}
	s.sessionLbl.Configure(Txt("Session: " + mmss(d)))
}

// SetTotal updates the total duration display.
func (s *sessionStats) SetTotal(d time.Duration) {
	if s == nil || s.totalLbl == nil {
		return
	}
	s.totalLbl.Configure(Txt("Total: " + mmss(d)))
}

// SetTracked updates the time a face was held.
func (s *sessionStats) SetTracked(d time.Duration) {
	if s == nil || s.trackedLbl == nil {
		return
	}
	s.trackedLbl.Configure(Txt("Tracked: " + mmss(d)))
}

// SetPresses updates the key press counter; unchanged values skip Tk.
func (s *sessionStats) SetPresses(n uint64) {
	if s == nil || s.pressesLbl == nil || n == s.presses {
		return
	}
	s.presses = n
	s.pressesLbl.Configure(Txt(fmt.Sprintf("Presses: %d", n)))
}
