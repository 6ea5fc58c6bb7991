package input

import (
	"errors"
	"math/rand"
	"testing"
	"time"

	"github.com/soocke/facepad-go/domain/steer"
)

type recordingKeyboard struct {
	pressed []steer.Action
	err     error
	closed  bool
}

func (k *recordingKeyboard) Press(a steer.Action) error {
	if k.err != nil {
		return k.err
	}
	k.pressed = append(k.pressed, a)
	return nil
}

func (k *recordingKeyboard) Close() error { k.closed = true; return nil }

var base = time.Unix(1_700_000_000, 0)

func TestInjector_FirstPressAllowed(t *testing.T) {
	kb := &recordingKeyboard{}
	in := NewInjector(kb, 10*time.Millisecond, nil)
	if !in.Press(steer.Up, base) {
		t.Fatalf("expected first press to be emitted")
	}
	if len(kb.pressed) != 1 || kb.pressed[0] != steer.Up {
		t.Fatalf("unexpected presses %v", kb.pressed)
	}
}

func TestInjector_NoneNeverPressed(t *testing.T) {
	kb := &recordingKeyboard{}
	in := NewInjector(kb, time.Millisecond, nil)
	for i := 0; i < 5; i++ {
		if in.Press(steer.None, base.Add(time.Duration(i)*time.Second)) {
			t.Fatalf("none must not press a key")
		}
	}
	if len(kb.pressed) != 0 {
		t.Fatalf("unexpected presses %v", kb.pressed)
	}
	// A none action does not consume the interval.
	if !in.Press(steer.Left, base) {
		t.Fatalf("expected press after only none actions")
	}
}

func TestInjector_GatesWithinInterval(t *testing.T) {
	kb := &recordingKeyboard{}
	interval := 100 * time.Millisecond
	in := NewInjector(kb, interval, nil)
	if !in.Press(steer.Down, base) {
		t.Fatalf("expected first press")
	}
	if in.Press(steer.Down, base.Add(interval/2)) {
		t.Fatalf("press inside interval must be dropped")
	}
	if in.Press(steer.Right, base.Add(interval-time.Nanosecond)) {
		t.Fatalf("press just before interval end must be dropped")
	}
	if !in.Press(steer.Right, base.Add(interval+time.Millisecond)) {
		t.Fatalf("press after interval must be emitted")
	}
	if in.Presses() != 2 || in.Dropped() != 2 {
		t.Fatalf("expected 2 presses and 2 drops, got %d/%d", in.Presses(), in.Dropped())
	}
}

func TestInjector_IntervalBoundaryIsExclusive(t *testing.T) {
	for _, interval := range []time.Duration{10 * time.Millisecond, 100 * time.Millisecond} {
		kb := &recordingKeyboard{}
		in := NewInjector(kb, interval, nil)
		if !in.Press(steer.Up, base) {
			t.Fatalf("%v: expected first press", interval)
		}
		if in.Press(steer.Up, base.Add(interval-time.Nanosecond)) {
			t.Fatalf("%v: press 1ns before the interval end must be dropped", interval)
		}
		if in.Press(steer.Up, base.Add(interval)) {
			t.Fatalf("%v: press at exactly the interval must be dropped", interval)
		}
		if !in.Press(steer.Up, base.Add(interval+time.Nanosecond)) {
			t.Fatalf("%v: press 1ns after the interval must be emitted", interval)
		}
		if len(kb.pressed) != 2 {
			t.Fatalf("%v: expected 2 presses, got %v", interval, kb.pressed)
		}
	}
}

func TestInjector_FailedPressKeepsGateOpen(t *testing.T) {
	kb := &recordingKeyboard{err: errors.New("device busy")}
	interval := 100 * time.Millisecond
	in := NewInjector(kb, interval, nil)
	if in.Press(steer.Up, base) {
		t.Fatalf("failed keyboard press should report false")
	}
	kb.err = nil
	if !in.Press(steer.Up, base.Add(time.Millisecond)) {
		t.Fatalf("a press that was not emitted must not start the interval")
	}
	if in.Press(steer.Up, base.Add(2*time.Millisecond)) {
		t.Fatalf("emitted press must start the interval")
	}
	if in.Presses() != 1 || in.Dropped() != 1 {
		t.Fatalf("expected 1 press and 1 drop, got %d/%d", in.Presses(), in.Dropped())
	}
}

func TestInjector_NeverTwiceWithinInterval(t *testing.T) {
	kb := &recordingKeyboard{}
	interval := 10 * time.Millisecond
	in := NewInjector(kb, interval, nil)
	rng := rand.New(rand.NewSource(42))
	actions := []steer.Action{steer.Up, steer.Down, steer.Left, steer.Right}
	now := base
	var emitted []time.Time
	for i := 0; i < 2000; i++ {
		now = now.Add(time.Duration(rng.Intn(4000)) * time.Microsecond)
		if in.Press(actions[rng.Intn(len(actions))], now) {
			emitted = append(emitted, now)
		}
	}
	if len(emitted) < 2 {
		t.Fatalf("expected several presses, got %d", len(emitted))
	}
	for i := 1; i < len(emitted); i++ {
		if gap := emitted[i].Sub(emitted[i-1]); gap <= interval {
			t.Fatalf("presses %d and %d only %v apart", i-1, i, gap)
		}
	}
}

func TestInjector_DisabledDropsPresses(t *testing.T) {
	kb := &recordingKeyboard{}
	in := NewInjector(kb, time.Millisecond, nil)
	in.SetEnabled(false)
	if in.Enabled() || in.Press(steer.Up, base) {
		t.Fatalf("disabled injector must not press")
	}
	in.SetEnabled(true)
	if !in.Press(steer.Up, base) {
		t.Fatalf("re-enabled injector should press")
	}
}

func TestInjector_KeyboardErrorReported(t *testing.T) {
	kb := &recordingKeyboard{err: errors.New("boom")}
	in := NewInjector(kb, time.Millisecond, nil)
	if in.Press(steer.Up, base) {
		t.Fatalf("failed keyboard press should report false")
	}
	if err := in.Close(); err != nil || !kb.closed {
		t.Fatalf("close should release keyboard")
	}
}

func TestNopKeyboard(t *testing.T) {
	var kb NopKeyboard
	if err := kb.Press(steer.Left); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if err := kb.Press(steer.None); !errors.Is(err, ErrUnknownKey) {
		t.Fatalf("expected ErrUnknownKey, got %v", err)
	}
}

func TestInjector_SetInterval(t *testing.T) {
	kb := &recordingKeyboard{}
	in := NewInjector(kb, 10*time.Millisecond, nil)
	if in.Interval() != 10*time.Millisecond {
		t.Fatalf("unexpected interval %v", in.Interval())
	}
	in.SetInterval(time.Second)
	if in.Interval() != time.Second {
		t.Fatalf("unexpected interval %v", in.Interval())
	}
	if !in.Press(steer.Down, base) {
		t.Fatalf("expected first press")
	}
	if in.Press(steer.Down, base.Add(500*time.Millisecond)) {
		t.Fatalf("press inside the new interval must be dropped")
	}
	if !in.Press(steer.Down, base.Add(time.Second+time.Nanosecond)) {
		t.Fatalf("expected press after the new interval")
	}
	in.SetInterval(0)
	if in.Interval() != DefaultPressInterval {
		t.Fatalf("expected default interval, got %v", in.Interval())
	}
}
