package vision

import (
	"strings"

	"github.com/pkg/errors"
	"gocv.io/x/gocv"
	"gocv.io/x/gocv/contrib"

	"github.com/soocke/facepad-go/domain/tracking"
)

// Tracker kinds accepted by NewTrackerFactory.
const (
	TrackerKCF  = "kcf"
	TrackerCSRT = "csrt"
	TrackerMIL  = "mil"
)

// NewTrackerFactory returns a factory producing a fresh OpenCV tracker of
// the given kind for every acquisition.
func NewTrackerFactory(kind string) (tracking.TrackerFactory[gocv.Mat], error) {
	switch strings.ToLower(strings.TrimSpace(kind)) {
	case "", TrackerKCF:
		return func() tracking.Tracker[gocv.Mat] { return contrib.NewTrackerKCF() }, nil
	case TrackerCSRT:
		return func() tracking.Tracker[gocv.Mat] { return contrib.NewTrackerCSRT() }, nil
	case TrackerMIL:
		return func() tracking.Tracker[gocv.Mat] { return gocv.NewTrackerMIL() }, nil
	default:
		return nil, errors.Errorf("unknown tracker %q", kind)
	}
}
