package vision

import (
	"image"

	"gocv.io/x/gocv"
)

// Preparer mirrors and downsizes raw frames before detection. The output
// keeps the source aspect ratio.
type Preparer struct {
	Width  int
	Mirror bool

	tmp gocv.Mat
	ok  bool
}

// NewPreparer returns a Preparer targeting width pixels.
func NewPreparer(width int, mirror bool) *Preparer {
	return &Preparer{Width: width, Mirror: mirror, tmp: gocv.NewMat(), ok: true}
}

// TargetSize returns the output size for a src of the given dimensions.
func (p *Preparer) TargetSize(cols, rows int) image.Point {
	if p.Width <= 0 || cols <= 0 {
		return image.Pt(cols, rows)
	}
	h := int(float64(rows) * float64(p.Width) / float64(cols))
	return image.Pt(p.Width, h)
}

// Prepare writes the processed frame into dst.
func (p *Preparer) Prepare(src gocv.Mat, dst *gocv.Mat) {
	if !p.ok {
		p.tmp = gocv.NewMat()
		p.ok = true
	}
	in := src
	if p.Mirror {
		gocv.Flip(src, &p.tmp, 1)
		in = p.tmp
	}
	size := p.TargetSize(in.Cols(), in.Rows())
	if size.X == in.Cols() && size.Y == in.Rows() {
		in.CopyTo(dst)
		return
	}
	interp := gocv.InterpolationArea
	if size.X > in.Cols() {
		interp = gocv.InterpolationLinear
	}
	gocv.Resize(in, dst, size, 0, 0, interp)
}

func (p *Preparer) Close() error {
	if !p.ok {
		return nil
	}
	p.ok = false
	return p.tmp.Close()
}
