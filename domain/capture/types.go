package capture

import (
	"errors"
	"time"

	"gocv.io/x/gocv"
)

// ErrClosed is returned by a Grabber whose device is gone. The capture
// service stops on it instead of retrying.
var ErrClosed = errors.New("capture: source closed")

// ErrEmptyFrame is returned when the device delivered no pixels.
var ErrEmptyFrame = errors.New("capture: empty frame")

// Grabber reads one frame from a device into dst.
type Grabber interface {
	Grab(dst *gocv.Mat) error
	Close() error
}

// FrameSnapshot carries metadata of the latest captured frame.
type FrameSnapshot struct {
	CapturedAt time.Time
	Sequence   uint64
	Width      int
	Height     int
}

// CaptureStats summarises capture loop behaviour for instrumentation.
type CaptureStats struct {
	Captures         uint64
	Skipped          uint64
	AvgCapture       time.Duration
	AvgCaptureMicros float64
	LastCapture      time.Time
	LatestFrameAge   time.Duration
	Sequence         uint64
}
