package input

import (
	"errors"

	"github.com/soocke/facepad-go/domain/steer"
)

// ErrUnsupported is returned by NewKeyboard on platforms without a key
// injection backend.
var ErrUnsupported = errors.New("input: key injection not supported on this platform")

// ErrUnknownKey is returned when an action has no key mapping.
var ErrUnknownKey = errors.New("input: no key for action")

// Keyboard emits synthetic key presses to whichever window has focus.
type Keyboard interface {
	Press(a steer.Action) error
	Close() error
}

// NopKeyboard accepts every press without touching the OS. Used for dry runs.
type NopKeyboard struct{}

func (NopKeyboard) Press(a steer.Action) error {
	if !a.Directional() {
		return ErrUnknownKey
	}
	return nil
}

func (NopKeyboard) Close() error { return nil }
