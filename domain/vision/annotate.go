package vision

import (
	"image"
	"image/color"

	"gocv.io/x/gocv"

	"github.com/soocke/facepad-go/domain/steer"
)

var (
	guideColor  = color.RGBA{255, 255, 255, 0}
	boxColor    = color.RGBA{0, 0, 255, 0}
	centerColor = color.RGBA{0, 255, 0, 0}
	textColor   = color.RGBA{255, 0, 0, 0}
)

// TextStyle selects how info lines are rendered.
type TextStyle int

const (
	// TextStats stacks small lines from the top-left corner.
	TextStats TextStyle = iota
	// TextBanner draws a single large line, as the stream page shows.
	TextBanner
)

// Overlay is everything drawn on top of a processed frame.
type Overlay struct {
	Deadzone steer.Deadzone
	Box      image.Rectangle
	HasBox   bool
	Center   bool // draw the centre dot; set on tracked frames
	Lines    []string
	Style    TextStyle
}

// Annotate draws the deadzone guides, the face box, its centre and the info
// lines onto img in place.
func Annotate(img *gocv.Mat, o Overlay) {
	if img == nil || img.Empty() {
		return
	}
	w := img.Cols()
	dz := o.Deadzone
	gocv.Line(img, image.Pt(0, dz.Up), image.Pt(w, dz.Up), guideColor, 2)
	gocv.Line(img, image.Pt(0, dz.Down), image.Pt(w, dz.Down), guideColor, 2)
	gocv.Line(img, image.Pt(dz.Left, dz.Up), image.Pt(dz.Left, dz.Down), guideColor, 2)
	gocv.Line(img, image.Pt(dz.Right, dz.Up), image.Pt(dz.Right, dz.Down), guideColor, 2)

	if o.HasBox && !o.Box.Empty() {
		gocv.Rectangle(img, o.Box, boxColor, 2)
		if o.Center {
			gocv.Circle(img, steer.Center(o.Box), 5, centerColor, -1)
		}
	}

	switch o.Style {
	case TextBanner:
		if len(o.Lines) > 0 {
			gocv.PutText(img, o.Lines[len(o.Lines)-1], image.Pt(10, 30), gocv.FontHersheySimplex, 1, textColor, 3)
		}
	default:
		for i, line := range o.Lines {
			gocv.PutText(img, line, image.Pt(10, i*20+20), gocv.FontHersheySimplex, 0.6, textColor, 2)
		}
	}
}
