package pipeline

import (
	"fmt"
	"image"
	"log/slog"
	"sync"
	"time"

	"github.com/google/uuid"
	"gocv.io/x/gocv"

	"github.com/soocke/facepad-go/domain/steer"
	"github.com/soocke/facepad-go/domain/tracking"
	"github.com/soocke/facepad-go/domain/vision"
)

// Presser is the key injection surface the pipeline drives.
type Presser interface {
	Press(a steer.Action, now time.Time) bool
}

// EventListener receives the outcome of every processed frame.
type EventListener func(steer.Event)

// Options configure a Pipeline.
type Options struct {
	Width     int
	Mirror    bool
	Deadzone  steer.Deadzone
	Style     vision.TextStyle
	ShowStats bool
}

// Pipeline runs one detect/track/act iteration per frame and keeps the
// annotated result. Process must be called from a single goroutine.
type Pipeline struct {
	opts    Options
	prep    *vision.Preparer
	machine *tracking.Machine[gocv.Mat]
	presser Presser
	logger  *slog.Logger

	frame gocv.Mat
	fps   FPS

	mu        sync.Mutex
	session   string
	listeners []EventListener
	last      steer.Event
}

// New wires the pipeline. presser may be nil for a display-only run.
func New(opts Options, machine *tracking.Machine[gocv.Mat], presser Presser, logger *slog.Logger) *Pipeline {
	p := &Pipeline{
		opts:    opts,
		prep:    vision.NewPreparer(opts.Width, opts.Mirror),
		machine: machine,
		presser: presser,
		logger:  logger,
		frame:   gocv.NewMat(),
	}
	p.session = uuid.NewString()
	return p
}

// AddListener registers l for per-frame events.
func (p *Pipeline) AddListener(l EventListener) {
	p.mu.Lock()
	p.listeners = append(p.listeners, l)
	p.mu.Unlock()
}

// Begin starts a new session: tracking is reset, counters restart and a
// fresh session id is assigned.
func (p *Pipeline) Begin(now time.Time) string {
	p.machine.Reset()
	p.fps.Start(now)
	id := uuid.NewString()
	p.mu.Lock()
	p.session = id
	p.last = steer.Event{}
	p.mu.Unlock()
	if p.logger != nil {
		p.logger.Info("session started", "session", id)
	}
	return id
}

// Session returns the active session id.
func (p *Pipeline) Session() string {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.session
}

// Last returns the most recent event.
func (p *Pipeline) Last() steer.Event {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.last
}

// Deadzone returns the active deadzone.
func (p *Pipeline) Deadzone() steer.Deadzone {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.opts.Deadzone
}

// SetDeadzone replaces the deadzone from the next frame on.
func (p *Pipeline) SetDeadzone(dz steer.Deadzone) {
	p.mu.Lock()
	p.opts.Deadzone = dz
	p.mu.Unlock()
}

// SetShowStats toggles the FPS and elapsed time lines.
func (p *Pipeline) SetShowStats(show bool) {
	p.mu.Lock()
	p.opts.ShowStats = show
	p.mu.Unlock()
}

// State returns the tracking state.
func (p *Pipeline) State() tracking.State { return p.machine.Current() }

// FPS exposes the frame counter.
func (p *Pipeline) FPS() *FPS { return &p.fps }

// Frame returns the annotated output of the last Process call. It is
// overwritten by the next call.
func (p *Pipeline) Frame() *gocv.Mat { return &p.frame }

// Process handles one raw frame at now.
func (p *Pipeline) Process(raw gocv.Mat, now time.Time) steer.Event {
	p.prep.Prepare(raw, &p.frame)

	p.mu.Lock()
	opts := p.opts
	p.mu.Unlock()

	res := p.machine.Step(p.frame)
	action := steer.None
	if res.Tracked {
		action = opts.Deadzone.Map(steer.Center(res.Box))
	}
	pressed := false
	if p.presser != nil {
		pressed = p.presser.Press(action, now)
	}
	if pressed && p.logger != nil {
		p.logger.Debug("action", "action", action.String(), "frame", res.Frame)
	}
	p.fps.Update(now)

	vision.Annotate(&p.frame, vision.Overlay{
		Deadzone: opts.Deadzone,
		Box:      res.Box,
		HasBox:   res.State == tracking.StateTracking,
		Center:   res.Tracked,
		Lines:    p.infoLines(action, opts.ShowStats),
		Style:    opts.Style,
	})

	ev := steer.Event{
		Frame:    res.Frame,
		Action:   action.String(),
		Pressed:  pressed,
		Tracking: res.State == tracking.StateTracking,
		Detected: res.Detected,
		Box:      boxOrZero(res),
		At:       now,
	}
	p.mu.Lock()
	ev.Session = p.session
	p.last = ev
	listeners := append([]EventListener(nil), p.listeners...)
	p.mu.Unlock()
	for _, l := range listeners {
		l(ev)
	}
	return ev
}

func (p *Pipeline) infoLines(a steer.Action, stats bool) []string {
	lines := make([]string, 0, 3)
	if stats {
		lines = append(lines,
			fmt.Sprintf("FPS: %.2f", p.fps.Rate()),
			fmt.Sprintf("Time: %.2f", p.fps.Elapsed().Seconds()),
		)
	}
	return append(lines, "Action: "+a.String())
}

func boxOrZero(res tracking.Result) image.Rectangle {
	if res.State != tracking.StateTracking {
		return image.Rectangle{}
	}
	return res.Box
}

// Close releases the tracker and frame buffers.
func (p *Pipeline) Close() error {
	p.machine.Close()
	_ = p.prep.Close()
	return p.frame.Close()
}
