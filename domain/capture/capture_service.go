package capture

import (
	"errors"
	"log/slog"
	"sync"
	"sync/atomic"
	"time"

	"gocv.io/x/gocv"
)

const captureStatsLogInterval = 5 * time.Second

// CaptureService reads frames from a Grabber on its own goroutine and keeps
// only the most recent one. Consumers copy it out with LatestFrame so a slow
// consumer never queues stale frames. Use NewCaptureService to construct an
// instance.
type CaptureService interface {
	Start()
	Stop()
	Running() bool
	LatestFrame(dst *gocv.Mat) FrameSnapshot
	Stats() CaptureStats
	Err() error
	Close() error
}

type captureService struct {
	grabber Grabber
	logger  *slog.Logger

	running atomic.Bool
	done    chan struct{}
	lifeMu  sync.Mutex

	mu     sync.Mutex
	latest gocv.Mat
	snap   FrameSnapshot
	err    error

	captures     atomic.Uint64
	skipped      atomic.Uint64
	captureNanos atomic.Uint64
	sequence     atomic.Uint64
}

func newCaptureService(grabber Grabber, logger *slog.Logger) *captureService {
	return &captureService{grabber: grabber, logger: logger, latest: gocv.NewMat()}
}

// NewCaptureService constructs a capture service around grabber. The service
// owns the grabber and closes it in Close.
func NewCaptureService(grabber Grabber, logger *slog.Logger) CaptureService {
	return newCaptureService(grabber, logger)
}

// LatestFrame copies the newest frame into dst and returns its metadata. A
// zero Sequence means nothing has been captured yet and dst is untouched.
func (s *captureService) LatestFrame(dst *gocv.Mat) FrameSnapshot {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.snap.Sequence == 0 {
		return FrameSnapshot{}
	}
	if dst != nil {
		s.latest.CopyTo(dst)
	}
	return s.snap
}

func (s *captureService) snapshot() FrameSnapshot {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.snap
}

func (s *captureService) Running() bool { return s.running.Load() }

// Err reports the error that stopped the loop, if any.
func (s *captureService) Err() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.err
}

func (s *captureService) Stats() CaptureStats {
	captures := s.captures.Load()
	skipped := s.skipped.Load()
	total := s.captureNanos.Load()
	var avg time.Duration
	avgMicros := 0.0
	if captures > 0 && total > 0 {
		avg = time.Duration(total / captures)
		avgMicros = float64(avg) / float64(time.Microsecond)
	}
	snapshot := s.snapshot()
	age := time.Duration(0)
	if !snapshot.CapturedAt.IsZero() {
		age = time.Since(snapshot.CapturedAt)
	}
	return CaptureStats{
		Captures:         captures,
		Skipped:          skipped,
		AvgCapture:       avg,
		AvgCaptureMicros: avgMicros,
		LastCapture:      snapshot.CapturedAt,
		LatestFrameAge:   age,
		Sequence:         snapshot.Sequence,
	}
}

func (s *captureService) Start() {
	s.lifeMu.Lock()
	defer s.lifeMu.Unlock()
	if s.running.Load() {
		return
	}
	s.mu.Lock()
	s.err = nil
	s.mu.Unlock()
	s.running.Store(true)
	s.done = make(chan struct{})
	go s.loop(s.done)
}

// Stop ends the loop and waits for the in-flight grab to return.
func (s *captureService) Stop() {
	s.lifeMu.Lock()
	defer s.lifeMu.Unlock()
	s.running.Store(false)
	if s.done != nil {
		<-s.done
		s.done = nil
	}
}

func (s *captureService) Close() error {
	s.Stop()
	var err error
	if s.grabber != nil {
		err = s.grabber.Close()
	}
	s.mu.Lock()
	_ = s.latest.Close()
	s.latest = gocv.NewMat()
	s.snap = FrameSnapshot{}
	s.mu.Unlock()
	return err
}

func (s *captureService) loop(done chan struct{}) {
	defer close(done)
	logTicker := time.NewTicker(captureStatsLogInterval)
	defer logTicker.Stop()
	scratch := gocv.NewMat()
	defer func() { _ = scratch.Close() }()

	for s.running.Load() {
		start := time.Now()
		if err := s.grabber.Grab(&scratch); err != nil {
			if errors.Is(err, ErrClosed) {
				s.fail(err)
				return
			}
			s.skipped.Add(1)
			if s.logger != nil {
				s.logger.Error("capture grab", "error", err)
			}
			time.Sleep(1 * time.Millisecond)
			continue
		}

		elapsed := time.Since(start)
		s.captureNanos.Add(uint64(elapsed.Nanoseconds()))
		s.captures.Add(1)
		seq := s.sequence.Add(1)

		// Swap buffers: the grabber writes into the old frame next time.
		s.mu.Lock()
		s.latest, scratch = scratch, s.latest
		s.snap = FrameSnapshot{
			CapturedAt: time.Now(),
			Sequence:   seq,
			Width:      s.latest.Cols(),
			Height:     s.latest.Rows(),
		}
		s.mu.Unlock()

		select {
		case <-logTicker.C:
			s.logStats()
		default:
		}

		time.Sleep(200 * time.Microsecond)
	}
}

func (s *captureService) fail(err error) {
	s.mu.Lock()
	s.err = err
	s.mu.Unlock()
	s.running.Store(false)
	if s.logger != nil {
		s.logger.Error("capture stopped", "error", err)
	}
}

func (s *captureService) logStats() {
	if s.logger == nil {
		return
	}
	stats := s.Stats()
	s.logger.Debug("capture.stats",
		"captures", stats.Captures,
		"skipped", stats.Skipped,
		"avg_capture", stats.AvgCapture,
		"age", stats.LatestFrameAge,
	)
}
