package images

import (
	"errors"
	"image"

	"github.com/disintegration/imaging"
)

// FaceRect returns a square around box, grown by pad pixels on each side and
// clamped to bounds. The result is at least 1x1.
func FaceRect(bounds, box image.Rectangle, pad int) image.Rectangle {
	side := box.Dx()
	if box.Dy() > side {
		side = box.Dy()
	}
	side += 2 * pad
	if side < 1 {
		side = 1
	}
	cx := box.Min.X + box.Dx()/2
	cy := box.Min.Y + box.Dy()/2
	x0 := cx - side/2
	y0 := cy - side/2
	if x0 < bounds.Min.X {
		x0 = bounds.Min.X
	}
	if y0 < bounds.Min.Y {
		y0 = bounds.Min.Y
	}
	w, h := side, side
	if x0+w > bounds.Max.X {
		w = bounds.Max.X - x0
	}
	if y0+h > bounds.Max.Y {
		h = bounds.Max.Y - y0
	}
	if w < 1 {
		w = 1
	}
	if h < 1 {
		h = 1
	}
	return image.Rect(x0, y0, x0+w, y0+h)
}

// FaceThumbnail crops the face area from frame and scales it to a size x size
// square for the side preview.
func FaceThumbnail(frame image.Image, box image.Rectangle, size int) (image.Image, image.Rectangle, error) {
	if frame == nil {
		return nil, image.Rectangle{}, errors.New("nil frame")
	}
	if box.Empty() {
		return nil, image.Rectangle{}, errors.New("empty face box")
	}
	if size < 1 {
		size = 1
	}
	rect := FaceRect(frame.Bounds(), box, box.Dx()/8)
	crop := imaging.Crop(frame, rect)
	return imaging.Fill(crop, size, size, imaging.Center, imaging.Linear), rect, nil
}
