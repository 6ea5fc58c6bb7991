package images

import (
	"bytes"
	"image"
	"image/color"
	"testing"
)

func TestFaceRect_CentersAndPads(t *testing.T) {
	bounds := image.Rect(0, 0, 320, 240)
	rect := FaceRect(bounds, image.Rect(100, 80, 140, 120), 5)
	if rect.Dx() != 50 || rect.Dy() != 50 {
		t.Fatalf("expected 50x50, got %dx%d", rect.Dx(), rect.Dy())
	}
	if rect.Min.X != 95 || rect.Min.Y != 75 {
		t.Fatalf("unexpected origin %v", rect.Min)
	}
}

func TestFaceRect_UsesLongerSide(t *testing.T) {
	rect := FaceRect(image.Rect(0, 0, 320, 240), image.Rect(100, 80, 120, 140), 0)
	if rect.Dx() != 60 || rect.Dy() != 60 {
		t.Fatalf("expected 60x60, got %dx%d", rect.Dx(), rect.Dy())
	}
}

func TestFaceRect_ClampsNearEdge(t *testing.T) {
	bounds := image.Rect(0, 0, 20, 20)
	rect := FaceRect(bounds, image.Rect(0, 0, 6, 6), 2)
	if rect.Min.X != 0 || rect.Min.Y != 0 {
		t.Fatalf("expected clamp to 0,0 got %v", rect.Min)
	}
	if !rect.In(bounds) {
		t.Fatalf("rect exceeds frame bounds: %v", rect)
	}
	rect = FaceRect(bounds, image.Rect(15, 15, 25, 25), 0)
	if !rect.In(bounds) {
		t.Fatalf("rect exceeds frame bounds: %v", rect)
	}
}

func TestFaceRect_MinSize(t *testing.T) {
	rect := FaceRect(image.Rect(0, 0, 10, 10), image.Rectangle{}, 0)
	if rect.Dx() != 1 || rect.Dy() != 1 {
		t.Fatalf("expected 1x1 got %dx%d", rect.Dx(), rect.Dy())
	}
}

func TestFaceThumbnail(t *testing.T) {
	frame := image.NewRGBA(image.Rect(0, 0, 320, 240))
	for y := 80; y < 120; y++ {
		for x := 100; x < 140; x++ {
			frame.Set(x, y, color.RGBA{200, 10, 10, 255})
		}
	}
	thumb, rect, err := FaceThumbnail(frame, image.Rect(100, 80, 140, 120), 64)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if thumb.Bounds().Dx() != 64 || thumb.Bounds().Dy() != 64 {
		t.Fatalf("unexpected thumbnail size %v", thumb.Bounds())
	}
	if !rect.In(frame.Bounds()) {
		t.Fatalf("crop outside frame: %v", rect)
	}
	r, _, _, _ := thumb.At(32, 32).RGBA()
	if r>>8 < 150 {
		t.Fatalf("expected face colour at thumbnail centre, got r=%d", r>>8)
	}
	if _, _, err := FaceThumbnail(frame, image.Rectangle{}, 64); err == nil {
		t.Fatalf("expected error for empty box")
	}
	if _, _, err := FaceThumbnail(nil, image.Rect(0, 0, 1, 1), 64); err == nil {
		t.Fatalf("expected error for nil frame")
	}
}

func TestScaleToFit(t *testing.T) {
	src := image.NewRGBA(image.Rect(0, 0, 640, 480))
	out := ScaleToFit(src, 400, 225)
	if out.Bounds().Dx() > 400 || out.Bounds().Dy() > 225 {
		t.Fatalf("scaled image too large: %v", out.Bounds())
	}
	if out.Bounds().Dy() != 225 || out.Bounds().Dx() != 300 {
		t.Fatalf("aspect not kept: %v", out.Bounds())
	}
	small := image.NewRGBA(image.Rect(0, 0, 100, 50))
	if ScaleToFit(small, 400, 225) != image.Image(small) {
		t.Fatalf("fitting image must be returned unchanged")
	}
	if ScaleToFit(nil, 10, 10) != nil {
		t.Fatalf("nil in, nil out")
	}
}

func TestEncodePNG(t *testing.T) {
	b := EncodePNG(image.NewRGBA(image.Rect(0, 0, 4, 4)))
	if !bytes.HasPrefix(b, []byte("\x89PNG")) {
		t.Fatalf("missing png signature")
	}
	if EncodePNG(nil) != nil {
		t.Fatalf("nil image must encode to nil")
	}
}
