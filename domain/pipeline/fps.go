package pipeline

import "time"

// FPS measures throughput over the span between Start and the latest
// Update, like a stopwatch that is read after every frame.
type FPS struct {
	start  time.Time
	end    time.Time
	frames uint64
}

// Start resets the counter at now.
func (f *FPS) Start(now time.Time) {
	f.start, f.end, f.frames = now, now, 0
}

// Update records one frame at now.
func (f *FPS) Update(now time.Time) {
	if f.start.IsZero() {
		f.Start(now)
	}
	f.frames++
	f.end = now
}

// Elapsed returns the time between Start and the last Update.
func (f *FPS) Elapsed() time.Duration { return f.end.Sub(f.start) }

// Frames returns the number of updates since Start.
func (f *FPS) Frames() uint64 { return f.frames }

// Rate returns frames per second, 0 until time has passed.
func (f *FPS) Rate() float64 {
	el := f.Elapsed().Seconds()
	if el <= 0 {
		return 0
	}
	return float64(f.frames) / el
}
