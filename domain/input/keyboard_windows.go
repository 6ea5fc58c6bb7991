//go:build windows

package input

import (
	"golang.org/x/sys/windows"

	"github.com/soocke/facepad-go/domain/steer"
)

// Win32 virtual-key codes for the arrow keys.
const (
	vkLeft  = 0x25
	vkUp    = 0x26
	vkRight = 0x27
	vkDown  = 0x28

	keyeventfExtendedKey = 0x0001
	keyeventfKeyUp       = 0x0002
)

type winKeyboard struct {
	keybdEvent *windows.LazyProc
}

// NewKeyboard returns a keyboard backed by keybd_event.
func NewKeyboard() (Keyboard, error) {
	user32 := windows.NewLazySystemDLL("user32.dll")
	proc := user32.NewProc("keybd_event")
	if err := proc.Find(); err != nil {
		return nil, err
	}
	return &winKeyboard{keybdEvent: proc}, nil
}

func virtualKey(a steer.Action) (byte, bool) {
	switch a {
	case steer.Up:
		return vkUp, true
	case steer.Down:
		return vkDown, true
	case steer.Left:
		return vkLeft, true
	case steer.Right:
		return vkRight, true
	}
	return 0, false
}

// Press sends key down followed by key up. Arrow keys are extended keys.
func (k *winKeyboard) Press(a steer.Action) error {
	vk, ok := virtualKey(a)
	if !ok {
		return ErrUnknownKey
	}
	_, _, _ = k.keybdEvent.Call(uintptr(vk), 0, keyeventfExtendedKey, 0)
	_, _, _ = k.keybdEvent.Call(uintptr(vk), 0, keyeventfExtendedKey|keyeventfKeyUp, 0)
	return nil
}

func (k *winKeyboard) Close() error { return nil }
