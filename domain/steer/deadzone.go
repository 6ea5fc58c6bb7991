package steer

import "image"

// Deadzone holds the four boundary lines in working-frame pixels.
// Up/Down are y coordinates, Left/Right are x coordinates.
type Deadzone struct {
	Up, Down    int
	Left, Right int
}

// NewDeadzone divides boundaries expressed in full camera resolution by the
// processing scale. A scale below 1 is treated as 1.
func NewDeadzone(up, down, left, right, scale int) Deadzone {
	if scale < 1 {
		scale = 1
	}
	return Deadzone{Up: up / scale, Down: down / scale, Left: left / scale, Right: right / scale}
}

// Map returns the action for a face centre. Vertical violations win over
// horizontal ones and only one action is reported per frame.
func (d Deadzone) Map(center image.Point) Action {
	switch {
	case center.Y < d.Up:
		return Up
	case center.Y > d.Down:
		return Down
	case center.X < d.Left:
		return Left
	case center.X > d.Right:
		return Right
	default:
		return None
	}
}

// Contains reports whether p lies inside the deadzone, borders included.
func (d Deadzone) Contains(p image.Point) bool { return d.Map(p) == None }

// Center returns the truncated centre of box.
func Center(box image.Rectangle) image.Point {
	x := float64(box.Min.X) + float64(box.Dx())/2.0
	y := float64(box.Min.Y) + float64(box.Dy())/2.0
	return image.Pt(int(x), int(y))
}
