package view

import (
	"image"

	"github.com/soocke/facepad-go/ui/images"

	//lint:ignore ST1001 Dot import is intentional for concise Tk widget DSL builders.
	. "modernc.org/tk9.0"
)

// CapturePreview shows the annotated frame and a thumbnail of the tracked face.
type CapturePreview interface {
	UpdateCapture(img image.Image)
	UpdateFace(img image.Image)
	Reset()
}

type capturePreview struct {
	captureLabel  *LabelWidget
	faceLabel     *LabelWidget
	prevCapture   *Img // last Tk photo for the frame
	prevFace      *Img // last Tk photo for the face
	placeholder   []byte
	facePlacehold []byte
}

const (
	maxPreviewW = 640
	maxPreviewH = 480
)

// NewCapturePreview creates the preview labels, grids them and returns the view.
// Layout: the frame spans columns 0-3; the face thumbnail sits at column 4 of row.
func NewCapturePreview(row int) CapturePreview {
	v := &capturePreview{
		placeholder:   images.EncodePNG(image.NewRGBA(image.Rect(0, 0, 320, 240))),
		facePlacehold: images.EncodePNG(image.NewRGBA(image.Rect(0, 0, faceSize, faceSize))),
	}
	v.prevCapture = NewPhoto(Data(v.placeholder))
	v.prevFace = NewPhoto(Data(v.facePlacehold))
	v.captureLabel = Label(Image(v.prevCapture), Borderwidth(1), Relief("sunken"))
	v.faceLabel = Label(Image(v.prevFace), Borderwidth(1), Relief("sunken"))
	Grid(v.captureLabel, Row(row), Column(0), Columnspan(4), Sticky("we"), Padx("0.4m"), Pady("0.4m"))
	Grid(v.faceLabel, Row(row), Column(4), Sticky("n"), Padx("0.4m"), Pady("0.4m"))
	return v
}

const faceSize = 120

func (v *capturePreview) UpdateCapture(img image.Image) {
	if v.captureLabel == nil || img == nil {
		return
	}
	scaled := images.ScaleToFit(img, maxPreviewW, maxPreviewH)
	v.prevCapture = swapPhoto(v.captureLabel, v.prevCapture, images.EncodePNG(scaled))
}

func (v *capturePreview) UpdateFace(img image.Image) {
	if v.faceLabel == nil || img == nil {
		return
	}
	v.prevFace = swapPhoto(v.faceLabel, v.prevFace, images.EncodePNG(img))
}

func (v *capturePreview) Reset() {
	if v.captureLabel != nil {
		v.prevCapture = swapPhoto(v.captureLabel, v.prevCapture, v.placeholder)
	}
	if v.faceLabel != nil {
		v.prevFace = swapPhoto(v.faceLabel, v.prevFace, v.facePlacehold)
	}
}

// swapPhoto replaces the label's photo, deleting the previous one so Tk
// does not keep obsolete pixel buffers alive.
func swapPhoto(label *LabelWidget, prev *Img, png []byte) *Img {
	if prev != nil {
		prev.Delete()
	}
	next := NewPhoto(Data(png))
	label.Configure(Image(next))
	return next
}
