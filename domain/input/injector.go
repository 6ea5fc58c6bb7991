package input

import (
	"log/slog"
	"sync"
	"sync/atomic"
	"time"

	"github.com/soocke/facepad-go/domain/steer"
)

// DefaultPressInterval is the minimum gap between two injected presses.
const DefaultPressInterval = 10 * time.Millisecond

// Injector turns actions into key presses. A press is emitted only when
// strictly more than the interval has passed since the last emitted press.
// Presses are fire and forget: a press refused by the gate is dropped.
type Injector struct {
	keyboard Keyboard
	logger   *slog.Logger

	mu       sync.Mutex
	interval time.Duration
	last     time.Time // zero until the first emitted press

	enabled  atomic.Bool
	presses  atomic.Uint64
	dropped  atomic.Uint64
}

// NewInjector returns an enabled injector. Intervals <= 0 use
// DefaultPressInterval.
func NewInjector(kb Keyboard, interval time.Duration, logger *slog.Logger) *Injector {
	if interval <= 0 {
		interval = DefaultPressInterval
	}
	if kb == nil {
		kb = NopKeyboard{}
	}
	in := &Injector{keyboard: kb, interval: interval, logger: logger}
	in.enabled.Store(true)
	return in
}

// Press emits one key press for a when a is directional, the injector is
// enabled and the interval since the last press has elapsed at now.
// Returns true when a key was sent.
func (in *Injector) Press(a steer.Action, now time.Time) bool {
	if in == nil || !a.Directional() || !in.enabled.Load() {
		return false
	}
	in.mu.Lock()
	defer in.mu.Unlock()
	if !in.last.IsZero() && now.Sub(in.last) <= in.interval {
		in.dropped.Add(1)
		return false
	}
	if err := in.keyboard.Press(a); err != nil {
		if in.logger != nil {
			in.logger.Error("key press", "action", a.String(), "error", err)
		}
		return false
	}
	in.last = now
	in.presses.Add(1)
	if in.logger != nil {
		in.logger.Debug("key pressed", "action", a.String())
	}
	return true
}

// Enabled reports whether presses are currently emitted.
func (in *Injector) Enabled() bool { return in != nil && in.enabled.Load() }

// SetEnabled pauses or resumes key injection.
func (in *Injector) SetEnabled(b bool) {
	if in == nil {
		return
	}
	if in.enabled.Swap(b) != b && in.logger != nil {
		in.logger.Info("key injection toggled", "enabled", b)
	}
}

// SetInterval changes the minimum gap between presses. Values <= 0 use
// DefaultPressInterval. The last press time is kept.
func (in *Injector) SetInterval(d time.Duration) {
	if in == nil {
		return
	}
	if d <= 0 {
		d = DefaultPressInterval
	}
	in.mu.Lock()
	in.interval = d
	in.mu.Unlock()
}

// Interval returns the current minimum gap between presses.
func (in *Injector) Interval() time.Duration {
	in.mu.Lock()
	defer in.mu.Unlock()
	return in.interval
}

// Presses returns the number of keys sent so far.
func (in *Injector) Presses() uint64 { return in.presses.Load() }

// Dropped returns the number of actions refused by the interval gate.
func (in *Injector) Dropped() uint64 { return in.dropped.Load() }

// Close releases the keyboard.
func (in *Injector) Close() error {
	if in == nil || in.keyboard == nil {
		return nil
	}
	return in.keyboard.Close()
}
