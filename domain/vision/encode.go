package vision

import (
	"image"

	"github.com/pkg/errors"
	"gocv.io/x/gocv"
)

// DefaultJPEGQuality matches OpenCV's own default.
const DefaultJPEGQuality = 95

// EncodeJPEG compresses img. Quality outside 1..100 uses the default.
func EncodeJPEG(img gocv.Mat, quality int) ([]byte, error) {
	if img.Empty() {
		return nil, errors.New("encode jpeg: empty frame")
	}
	if quality < 1 || quality > 100 {
		quality = DefaultJPEGQuality
	}
	buf, err := gocv.IMEncodeWithParams(gocv.JPEGFileExt, img, []int{gocv.IMWriteJpegQuality, quality})
	if err != nil {
		return nil, errors.Wrap(err, "encode jpeg")
	}
	defer buf.Close()
	// GetBytes aliases C memory released by Close.
	out := make([]byte, buf.Len())
	copy(out, buf.GetBytes())
	return out, nil
}

// ToImage converts img to a Go image for the Tk preview.
func ToImage(img gocv.Mat) (image.Image, error) {
	if img.Empty() {
		return nil, errors.New("to image: empty frame")
	}
	out, err := img.ToImage()
	if err != nil {
		return nil, errors.Wrap(err, "to image")
	}
	return out, nil
}
