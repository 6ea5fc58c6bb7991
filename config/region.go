package config

import "image"

// defaultRegionOrigin is where a new screen region opens.
var defaultRegionOrigin = image.Pt(100, 100)

// SetSelection stores r as the screen region; nil or empty clears it.
func (c *Config) SetSelection(r *image.Rectangle) {
	if r == nil || r.Empty() {
		c.SelectionW, c.SelectionH = 0, 0
		return
	}
	c.SelectionX, c.SelectionY = r.Min.X, r.Min.Y
	c.SelectionW, c.SelectionH = r.Dx(), r.Dy()
}

// InitialRegion is where the region picker opens: the saved region, or one
// camera frame at a fixed offset.
func (c *Config) InitialRegion() image.Rectangle {
	if r := c.Selection(); r != nil {
		return *r
	}
	return image.Rectangle{Min: defaultRegionOrigin, Max: defaultRegionOrigin.Add(image.Pt(c.FrameWidth, c.FrameHeight))}
}

// FitRegion keeps r's origin and width and sets its height so the region
// has the camera frame's aspect ratio. The deadzone, given in camera
// pixels, then lands on the same part of the region.
func (c *Config) FitRegion(r image.Rectangle) image.Rectangle {
	if r.Dx() <= 0 || c.FrameWidth <= 0 || c.FrameHeight <= 0 {
		return r
	}
	h := r.Dx() * c.FrameHeight / c.FrameWidth
	if h < 1 {
		h = 1
	}
	return image.Rect(r.Min.X, r.Min.Y, r.Max.X, r.Min.Y+h)
}

// DeadzoneSpans splits the camera frame at the deadzone boundaries. cols
// holds the widths left of, inside and right of the deadzone; rows the
// heights above, inside and below. Every span is at least 1.
func (c *Config) DeadzoneSpans() (cols, rows [3]int) {
	split := func(lo, hi, size int) [3]int {
		out := [3]int{lo, hi - lo, size - hi}
		for i := range out {
			if out[i] < 1 {
				out[i] = 1
			}
		}
		return out
	}
	return split(c.BoundaryLeft, c.BoundaryRight, c.FrameWidth), split(c.BoundaryUp, c.BoundaryDown, c.FrameHeight)
}
