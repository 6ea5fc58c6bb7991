package pipeline

import (
	"context"
	"errors"
	"image"
	"io"
	"log/slog"
	"testing"
	"time"

	"gocv.io/x/gocv"

	"github.com/soocke/facepad-go/domain/capture"
	"github.com/soocke/facepad-go/domain/steer"
	"github.com/soocke/facepad-go/domain/tracking"
)

var discardLogger = slog.New(slog.NewTextHandler(io.Discard, nil))

type fixedLocator struct {
	box   image.Rectangle
	found bool
	calls int
}

func (l *fixedLocator) Locate(gocv.Mat) (image.Rectangle, bool) {
	l.calls++
	return l.box, l.found
}

// driftTracker moves the box by dx,dy on every update.
type driftTracker struct {
	box    image.Rectangle
	dx, dy int
}

func (t *driftTracker) Init(_ gocv.Mat, box image.Rectangle) bool { t.box = box; return true }
func (t *driftTracker) Update(gocv.Mat) (image.Rectangle, bool) {
	t.box = t.box.Add(image.Pt(t.dx, t.dy))
	return t.box, true
}
func (t *driftTracker) Close() error { return nil }

type recordingPresser struct{ actions []steer.Action }

func (p *recordingPresser) Press(a steer.Action, _ time.Time) bool {
	if a == steer.None {
		return false
	}
	p.actions = append(p.actions, a)
	return true
}

func blank(rows, cols int) gocv.Mat {
	return gocv.NewMatWithSizeFromScalar(gocv.NewScalar(0, 0, 0, 0), rows, cols, gocv.MatTypeCV8UC3)
}

func newTestPipeline(loc tracking.Locator[gocv.Mat], dx, dy int, presser Presser) *Pipeline {
	factory := func() tracking.Tracker[gocv.Mat] { return &driftTracker{dx: dx, dy: dy} }
	m := tracking.NewMachine[gocv.Mat](loc, factory, 50, discardLogger)
	opts := Options{Width: 320, Deadzone: steer.Deadzone{Up: 80, Down: 160, Left: 100, Right: 220}, ShowStats: true}
	return New(opts, m, presser, discardLogger)
}

func TestPipeline_DetectionFrameHasNoAction(t *testing.T) {
	loc := &fixedLocator{box: image.Rect(130, 20, 170, 60), found: true}
	presser := &recordingPresser{}
	p := newTestPipeline(loc, 0, 0, presser)
	defer p.Close()
	raw := blank(240, 320)
	defer raw.Close()

	var events []steer.Event
	p.AddListener(func(ev steer.Event) { events = append(events, ev) })

	now := time.Unix(0, 0)
	ev := p.Process(raw, now)
	if !ev.Detected || !ev.Tracking || ev.Action != "None" || ev.Pressed {
		t.Fatalf("unexpected detection event %+v", ev)
	}
	ev = p.Process(raw, now.Add(20*time.Millisecond))
	if ev.Detected || ev.Action != "up" || !ev.Pressed {
		t.Fatalf("unexpected tracking event %+v", ev)
	}
	if len(presser.actions) != 1 || presser.actions[0] != steer.Up {
		t.Fatalf("unexpected presses %v", presser.actions)
	}
	if len(events) != 2 || events[0].Session == "" || events[0].Session != events[1].Session {
		t.Fatalf("unexpected events %+v", events)
	}
	if p.Frame().Cols() != 320 || p.Frame().Rows() != 240 {
		t.Fatalf("unexpected output size %dx%d", p.Frame().Cols(), p.Frame().Rows())
	}
}

func TestPipeline_CentreInsideDeadzone(t *testing.T) {
	loc := &fixedLocator{box: image.Rect(130, 100, 170, 140), found: true}
	presser := &recordingPresser{}
	p := newTestPipeline(loc, 0, 0, presser)
	defer p.Close()
	raw := blank(240, 320)
	defer raw.Close()

	now := time.Unix(0, 0)
	for i := 0; i < 5; i++ {
		if ev := p.Process(raw, now.Add(time.Duration(i)*time.Second)); ev.Action != "None" {
			t.Fatalf("frame %d: expected None, got %s", i, ev.Action)
		}
	}
	if len(presser.actions) != 0 {
		t.Fatalf("expected no presses, got %v", presser.actions)
	}
}

func TestPipeline_NoFaceStaysIdle(t *testing.T) {
	loc := &fixedLocator{}
	p := newTestPipeline(loc, 0, 0, nil)
	defer p.Close()
	raw := blank(240, 320)
	defer raw.Close()

	for i := 0; i < 3; i++ {
		ev := p.Process(raw, time.Unix(int64(i), 0))
		if ev.Tracking || !ev.Detected || !ev.Box.Empty() {
			t.Fatalf("unexpected event %+v", ev)
		}
	}
	if loc.calls != 3 || p.State() != tracking.StateIdle {
		t.Fatalf("expected detection every idle frame, calls=%d state=%s", loc.calls, p.State())
	}
}

func TestPipeline_BeginResetsSession(t *testing.T) {
	loc := &fixedLocator{box: image.Rect(10, 100, 50, 140), found: true}
	p := newTestPipeline(loc, 0, 0, nil)
	defer p.Close()
	raw := blank(240, 320)
	defer raw.Close()

	first := p.Session()
	p.Process(raw, time.Unix(0, 0))
	if p.State() != tracking.StateTracking {
		t.Fatalf("expected tracking")
	}
	second := p.Begin(time.Unix(1, 0))
	if second == first || p.Session() != second {
		t.Fatalf("expected new session id")
	}
	if p.State() != tracking.StateIdle || p.FPS().Frames() != 0 {
		t.Fatalf("begin must reset tracking and counters")
	}
	if ev := p.Process(raw, time.Unix(2, 0)); !ev.Detected || ev.Session != second {
		t.Fatalf("unexpected event after begin %+v", ev)
	}
}

// fakeSource hands out a new sequence on every call until stopAt.
type fakeSource struct {
	seq     uint64
	stopAt  uint64
	repeat  bool
	err     error
	running bool
}

func (s *fakeSource) LatestFrame(dst *gocv.Mat) capture.FrameSnapshot {
	if !s.repeat || s.seq == 0 {
		if s.stopAt == 0 || s.seq < s.stopAt {
			s.seq++
		} else {
			s.running = false
		}
	}
	m := blank(240, 320)
	defer m.Close()
	m.CopyTo(dst)
	return capture.FrameSnapshot{Sequence: s.seq}
}
func (s *fakeSource) Running() bool { return s.running }
func (s *fakeSource) Err() error    { return s.err }

func TestRunner_ProcessesEachSequenceOnce(t *testing.T) {
	src := &fakeSource{repeat: true, running: true}
	p := newTestPipeline(&fixedLocator{}, 0, 0, nil)
	defer p.Close()
	r := NewRunner(src, p)
	defer r.Close()

	if _, ok, err := r.TryStep(); !ok || err != nil {
		t.Fatalf("expected first frame processed, ok=%v err=%v", ok, err)
	}
	if _, ok, err := r.TryStep(); ok || err != nil {
		t.Fatalf("repeated sequence must be skipped, ok=%v err=%v", ok, err)
	}
	if p.FPS().Frames() != 1 {
		t.Fatalf("expected one processed frame, got %d", p.FPS().Frames())
	}
}

func TestRunner_SourceErrorEndsLoop(t *testing.T) {
	src := &fakeSource{stopAt: 2, running: true, err: capture.ErrClosed}
	p := newTestPipeline(&fixedLocator{}, 0, 0, nil)
	defer p.Close()
	r := NewRunner(src, p)
	defer r.Close()

	ctx, cancel := context.WithTimeout(context.Background(), time.Second)
	defer cancel()
	for i := 0; i < 2; i++ {
		if _, err := r.Next(ctx); err != nil {
			t.Fatalf("frame %d: %v", i, err)
		}
	}
	if _, err := r.Next(ctx); !errors.Is(err, capture.ErrClosed) {
		t.Fatalf("expected ErrClosed, got %v", err)
	}
}

func TestRunner_NextHonoursContext(t *testing.T) {
	src := &fakeSource{repeat: true, running: true}
	p := newTestPipeline(&fixedLocator{}, 0, 0, nil)
	defer p.Close()
	r := NewRunner(src, p)
	defer r.Close()
	if _, err := r.Next(context.Background()); err != nil {
		t.Fatalf("first frame: %v", err)
	}
	ctx, cancel := context.WithTimeout(context.Background(), 20*time.Millisecond)
	defer cancel()
	if _, err := r.Next(ctx); !errors.Is(err, context.DeadlineExceeded) {
		t.Fatalf("expected deadline, got %v", err)
	}
}

func TestPipeline_SetDeadzoneAppliesNextFrame(t *testing.T) {
	loc := &fixedLocator{box: image.Rect(130, 100, 170, 140), found: true}
	presser := &recordingPresser{}
	p := newTestPipeline(loc, 0, 0, presser)
	defer p.Close()
	raw := blank(240, 320)
	defer raw.Close()

	now := time.Unix(0, 0)
	p.Process(raw, now)
	if ev := p.Process(raw, now.Add(time.Second)); ev.Action != "None" {
		t.Fatalf("expected None inside deadzone, got %s", ev.Action)
	}
	p.SetDeadzone(steer.Deadzone{Up: 80, Down: 160, Left: 200, Right: 300})
	p.SetShowStats(false)
	if got := p.Deadzone().Left; got != 200 {
		t.Fatalf("deadzone not replaced, left=%d", got)
	}
	if ev := p.Process(raw, now.Add(2*time.Second)); ev.Action != "left" {
		t.Fatalf("expected left after narrowing deadzone, got %s", ev.Action)
	}
}
