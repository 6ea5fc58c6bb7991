package vision

import (
	"image"
	"os"
	"sync"

	"github.com/pkg/errors"
	"gocv.io/x/gocv"
)

// cascadeScaleImage mirrors OpenCV's CASCADE_SCALE_IMAGE flag.
const cascadeScaleImage = 2

// CascadeParams are the fixed detector parameters.
type CascadeParams struct {
	ScaleFactor  float64
	MinNeighbors int
	MinSize      int
}

// DefaultCascadeParams returns the parameters the detector is tuned for.
func DefaultCascadeParams() CascadeParams {
	return CascadeParams{ScaleFactor: 1.05, MinNeighbors: 5, MinSize: 30}
}

// CascadeLocator finds faces with a pre-trained Haar cascade. It satisfies
// tracking.Locator[gocv.Mat].
type CascadeLocator struct {
	mu         sync.Mutex
	classifier gocv.CascadeClassifier
	params     CascadeParams
	gray       gocv.Mat
}

// NewCascadeLocator loads the classifier definition at path. A missing or
// unparsable file is an error; callers treat it as fatal.
func NewCascadeLocator(path string, params CascadeParams) (*CascadeLocator, error) {
	if _, err := os.Stat(path); err != nil {
		return nil, errors.Wrapf(err, "cascade file %s", path)
	}
	classifier := gocv.NewCascadeClassifier()
	if !classifier.Load(path) {
		_ = classifier.Close()
		return nil, errors.Errorf("cascade file %s could not be loaded", path)
	}
	def := DefaultCascadeParams()
	if params.ScaleFactor <= 1 {
		params.ScaleFactor = def.ScaleFactor
	}
	if params.MinNeighbors < 0 {
		params.MinNeighbors = def.MinNeighbors
	}
	if params.MinSize <= 0 {
		params.MinSize = def.MinSize
	}
	return &CascadeLocator{classifier: classifier, params: params, gray: gocv.NewMat()}, nil
}

// Detect returns every candidate in detector order.
func (l *CascadeLocator) Detect(frame gocv.Mat) []image.Rectangle {
	if frame.Empty() {
		return nil
	}
	l.mu.Lock()
	defer l.mu.Unlock()
	if frame.Channels() == 1 {
		frame.CopyTo(&l.gray)
	} else {
		gocv.CvtColor(frame, &l.gray, gocv.ColorBGRToGray)
	}
	minSize := image.Pt(l.params.MinSize, l.params.MinSize)
	return l.classifier.DetectMultiScaleWithParams(l.gray, l.params.ScaleFactor, l.params.MinNeighbors, cascadeScaleImage, minSize, image.Point{})
}

// Locate returns the first candidate the detector reports. No ranking by
// size is applied.
func (l *CascadeLocator) Locate(frame gocv.Mat) (image.Rectangle, bool) {
	faces := l.Detect(frame)
	if len(faces) == 0 {
		return image.Rectangle{}, false
	}
	return faces[0], true
}

func (l *CascadeLocator) Close() error {
	l.mu.Lock()
	defer l.mu.Unlock()
	err := l.classifier.Close()
	_ = l.gray.Close()
	return err
}
