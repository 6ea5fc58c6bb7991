//go:build !windows && !linux

package input

// NewKeyboard has no backend on this platform.
func NewKeyboard() (Keyboard, error) { return nil, ErrUnsupported }
