package capture

import (
	"fmt"
	"image"

	"github.com/vova616/screenshot"
	"gocv.io/x/gocv"
)

// ScreenGrabber captures the screen, or a rectangle of it, as frames. It
// lets the pipeline run against a video call or a recorded clip on screen
// instead of a webcam.
type ScreenGrabber struct {
	selection func() *image.Rectangle
}

// NewScreenGrabber returns a grabber that captures selection() when it is
// non-empty and the full screen otherwise.
func NewScreenGrabber(selection func() *image.Rectangle) *ScreenGrabber {
	return &ScreenGrabber{selection: selection}
}

func (g *ScreenGrabber) Grab(dst *gocv.Mat) error {
	img, err := g.grab()
	if err != nil {
		return err
	}
	mat, err := gocv.ImageToMatRGB(img)
	if err != nil {
		return fmt.Errorf("capture: convert screen image: %w", err)
	}
	defer mat.Close()
	if mat.Empty() {
		return ErrEmptyFrame
	}
	mat.CopyTo(dst)
	return nil
}

func (g *ScreenGrabber) grab() (*image.RGBA, error) {
	if g.selection != nil {
		if r := g.selection(); r != nil && !r.Empty() {
			img, err := screenshot.CaptureRect(*r)
			if err != nil {
				return nil, fmt.Errorf("capture: selection %v: %w", *r, err)
			}
			return img, nil
		}
	}
	img, err := screenshot.CaptureScreen()
	if err != nil {
		return nil, fmt.Errorf("capture: full screen: %w", err)
	}
	return img, nil
}

func (g *ScreenGrabber) Close() error { return nil }

func (g *ScreenGrabber) String() string { return "screen" }
