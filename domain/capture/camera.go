package capture

import (
	"fmt"

	"gocv.io/x/gocv"
)

// CameraGrabber reads frames from a local video device.
type CameraGrabber struct {
	vc    *gocv.VideoCapture
	index int
}

// OpenCamera opens device index and requests the given resolution. The
// driver may pick a different size; frames are resized downstream anyway.
func OpenCamera(index, width, height int) (*CameraGrabber, error) {
	vc, err := gocv.OpenVideoCapture(index)
	if err != nil {
		return nil, fmt.Errorf("capture: open camera %d: %w", index, err)
	}
	if !vc.IsOpened() {
		_ = vc.Close()
		return nil, fmt.Errorf("capture: camera %d not opened", index)
	}
	if width > 0 && height > 0 {
		vc.Set(gocv.VideoCaptureFrameWidth, float64(width))
		vc.Set(gocv.VideoCaptureFrameHeight, float64(height))
	}
	return &CameraGrabber{vc: vc, index: index}, nil
}

func (g *CameraGrabber) Grab(dst *gocv.Mat) error {
	if g.vc == nil || !g.vc.IsOpened() {
		return ErrClosed
	}
	if ok := g.vc.Read(dst); !ok {
		return ErrClosed
	}
	if dst.Empty() {
		return ErrEmptyFrame
	}
	return nil
}

func (g *CameraGrabber) Close() error {
	if g.vc == nil {
		return nil
	}
	err := g.vc.Close()
	g.vc = nil
	return err
}

func (g *CameraGrabber) String() string { return fmt.Sprintf("camera:%d", g.index) }
