package pipeline

import (
	"context"
	"errors"
	"time"

	"gocv.io/x/gocv"

	"github.com/soocke/facepad-go/domain/capture"
	"github.com/soocke/facepad-go/domain/steer"
)

// ErrSourceStopped is returned when the frame source is no longer running
// and reported no error of its own.
var ErrSourceStopped = errors.New("pipeline: frame source stopped")

// Source is the subset of capture.CaptureService a Runner reads from.
type Source interface {
	LatestFrame(dst *gocv.Mat) capture.FrameSnapshot
	Running() bool
	Err() error
}

// Runner feeds each new captured frame through a Pipeline exactly once.
type Runner struct {
	src  Source
	pipe *Pipeline
	raw  gocv.Mat
	last uint64
	poll time.Duration
	now  func() time.Time
}

// NewRunner returns a runner polling src every 2ms while waiting for frames.
func NewRunner(src Source, pipe *Pipeline) *Runner {
	return &Runner{src: src, pipe: pipe, raw: gocv.NewMat(), poll: 2 * time.Millisecond, now: time.Now}
}

// Pipeline returns the driven pipeline.
func (r *Runner) Pipeline() *Pipeline { return r.pipe }

// TryStep processes the latest frame if it has not been seen yet. ok is
// false when no new frame is available. A stopped source yields its error.
func (r *Runner) TryStep() (ev steer.Event, ok bool, err error) {
	snap := r.src.LatestFrame(&r.raw)
	if snap.Sequence == 0 || snap.Sequence == r.last {
		if !r.src.Running() {
			if err := r.src.Err(); err != nil {
				return steer.Event{}, false, err
			}
			return steer.Event{}, false, ErrSourceStopped
		}
		return steer.Event{}, false, nil
	}
	r.last = snap.Sequence
	return r.pipe.Process(r.raw, r.now()), true, nil
}

// Next blocks until a new frame has been processed or ctx is done.
func (r *Runner) Next(ctx context.Context) (steer.Event, error) {
	for {
		ev, ok, err := r.TryStep()
		if err != nil {
			return steer.Event{}, err
		}
		if ok {
			return ev, nil
		}
		select {
		case <-ctx.Done():
			return steer.Event{}, ctx.Err()
		case <-time.After(r.poll):
		}
	}
}

// Close releases the raw frame buffer. The pipeline and source are owned by
// the caller.
func (r *Runner) Close() error { return r.raw.Close() }
