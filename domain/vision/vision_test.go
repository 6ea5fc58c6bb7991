package vision

import (
	"bytes"
	"image"
	"path/filepath"
	"testing"

	"gocv.io/x/gocv"

	"github.com/soocke/facepad-go/domain/steer"
)

func TestNewCascadeLocator_MissingFile(t *testing.T) {
	_, err := NewCascadeLocator(filepath.Join(t.TempDir(), "nope.xml"), DefaultCascadeParams())
	if err == nil {
		t.Fatalf("expected error for missing cascade")
	}
}

func TestNewTrackerFactory_Kinds(t *testing.T) {
	for _, kind := range []string{"", "kcf", "CSRT", " mil "} {
		f, err := NewTrackerFactory(kind)
		if err != nil || f == nil {
			t.Fatalf("kind %q: unexpected error %v", kind, err)
		}
	}
	if _, err := NewTrackerFactory("boosting"); err == nil {
		t.Fatalf("expected error for unknown tracker")
	}
}

func TestPreparer_TargetSizeKeepsAspect(t *testing.T) {
	p := &Preparer{Width: 320}
	if got := p.TargetSize(640, 480); got != image.Pt(320, 240) {
		t.Fatalf("unexpected size %v", got)
	}
	if got := p.TargetSize(1280, 720); got != image.Pt(320, 180) {
		t.Fatalf("unexpected size %v", got)
	}
	p.Width = 0
	if got := p.TargetSize(64, 48); got != image.Pt(64, 48) {
		t.Fatalf("zero width must keep size, got %v", got)
	}
}

func TestPreparer_MirrorsAndResizes(t *testing.T) {
	src := blank(48, 64, gocv.MatTypeCV8UC1)
	defer src.Close()
	src.SetUCharAt(10, 0, 255)

	p := NewPreparer(64, true)
	defer p.Close()
	dst := gocv.NewMat()
	defer dst.Close()
	p.Prepare(src, &dst)
	if dst.Cols() != 64 || dst.Rows() != 48 {
		t.Fatalf("unexpected size %dx%d", dst.Cols(), dst.Rows())
	}
	if dst.GetUCharAt(10, 63) != 255 || dst.GetUCharAt(10, 0) != 0 {
		t.Fatalf("frame not mirrored")
	}

	p.Width = 32
	p.Prepare(src, &dst)
	if dst.Cols() != 32 || dst.Rows() != 24 {
		t.Fatalf("unexpected resized size %dx%d", dst.Cols(), dst.Rows())
	}
}

func TestAnnotate_DrawsGuides(t *testing.T) {
	img := blank(240, 320, gocv.MatTypeCV8UC3)
	defer img.Close()
	dz := steer.Deadzone{Up: 80, Down: 160, Left: 100, Right: 220}
	Annotate(&img, Overlay{Deadzone: dz})
	if v := img.GetVecbAt(80, 5); v[0] != 255 || v[1] != 255 || v[2] != 255 {
		t.Fatalf("expected white guide at up line, got %v", v)
	}
	if v := img.GetVecbAt(120, 100); v[0] != 255 {
		t.Fatalf("expected guide at left line, got %v", v)
	}
	if v := img.GetVecbAt(200, 5); v[0] != 0 || v[1] != 0 || v[2] != 0 {
		t.Fatalf("unexpected paint below deadzone: %v", v)
	}
}

func TestAnnotate_BoxAndCentre(t *testing.T) {
	img := blank(240, 320, gocv.MatTypeCV8UC3)
	defer img.Close()
	box := image.Rect(140, 100, 180, 140)
	Annotate(&img, Overlay{Box: box, HasBox: true, Center: true, Deadzone: steer.Deadzone{Up: 10, Down: 20, Left: 10, Right: 20}})
	// BGR order: the box is blue, the centre dot green.
	if v := img.GetVecbAt(100, 160); v[0] != 255 || v[2] != 0 {
		t.Fatalf("expected blue box edge, got %v", v)
	}
	if v := img.GetVecbAt(120, 160); v[1] != 255 || v[0] != 0 {
		t.Fatalf("expected green centre, got %v", v)
	}
}

func TestAnnotate_EmptyFrameIsNoop(t *testing.T) {
	img := gocv.NewMat()
	defer img.Close()
	Annotate(&img, Overlay{Lines: []string{"Action: None"}})
	Annotate(nil, Overlay{})
}

func TestEncodeJPEG(t *testing.T) {
	img := blank(24, 32, gocv.MatTypeCV8UC3)
	defer img.Close()
	b, err := EncodeJPEG(img, 0)
	if err != nil {
		t.Fatalf("encode: %v", err)
	}
	if !bytes.HasPrefix(b, []byte{0xFF, 0xD8}) {
		t.Fatalf("missing jpeg SOI marker")
	}
	empty := gocv.NewMat()
	defer empty.Close()
	if _, err := EncodeJPEG(empty, 80); err == nil {
		t.Fatalf("expected error for empty frame")
	}
}

func TestToImage(t *testing.T) {
	img := blank(24, 32, gocv.MatTypeCV8UC3)
	defer img.Close()
	out, err := ToImage(img)
	if err != nil {
		t.Fatalf("to image: %v", err)
	}
	if out.Bounds().Dx() != 32 || out.Bounds().Dy() != 24 {
		t.Fatalf("unexpected bounds %v", out.Bounds())
	}
}

func blank(rows, cols int, mt gocv.MatType) gocv.Mat {
	return gocv.NewMatWithSizeFromScalar(gocv.NewScalar(0, 0, 0, 0), rows, cols, mt)
}
