//go:build linux

package input

import (
	"bytes"
	"encoding/binary"
	"fmt"
	"sync"

	"golang.org/x/sys/unix"

	"github.com/soocke/facepad-go/domain/steer"
)

// Keyboard injection on Linux goes through a virtual uinput device so the
// presses reach X11 and Wayland sessions alike.

const uinputPath = "/dev/uinput"

// ioctl requests from <linux/uinput.h>.
const (
	uiSetEvBit   = 0x40045564
	uiSetKeyBit  = 0x40045565
	uiDevCreate  = 0x5501
	uiDevDestroy = 0x5502
)

// event types and codes from <linux/input-event-codes.h>.
const (
	evSyn     = 0x00
	evKey     = 0x01
	synReport = 0

	keyUp    = 103
	keyLeft  = 105
	keyRight = 106
	keyDown  = 108

	busUSB = 0x03
)

const uinputMaxNameSize = 80

type inputID struct {
	Bustype uint16
	Vendor  uint16
	Product uint16
	Version uint16
}

// uinputUserDev mirrors struct uinput_user_dev.
type uinputUserDev struct {
	Name         [uinputMaxNameSize]byte
	ID           inputID
	FFEffectsMax uint32
	Absmax       [64]int32
	Absmin       [64]int32
	Absfuzz      [64]int32
	Absflat      [64]int32
}

// inputEvent mirrors struct input_event.
type inputEvent struct {
	Time  unix.Timeval
	Type  uint16
	Code  uint16
	Value int32
}

type uinputKeyboard struct {
	mu sync.Mutex
	fd int
}

// NewKeyboard creates a virtual keyboard exposing the four arrow keys.
// Requires write access to /dev/uinput.
func NewKeyboard() (Keyboard, error) {
	fd, err := unix.Open(uinputPath, unix.O_WRONLY|unix.O_NONBLOCK|unix.O_CLOEXEC, 0)
	if err != nil {
		return nil, fmt.Errorf("open %s: %w", uinputPath, err)
	}
	k := &uinputKeyboard{fd: fd}
	if err := k.setup(); err != nil {
		_ = unix.Close(fd)
		return nil, err
	}
	return k, nil
}

func (k *uinputKeyboard) setup() error {
	if err := unix.IoctlSetInt(k.fd, uiSetEvBit, evKey); err != nil {
		return fmt.Errorf("uinput set EV_KEY: %w", err)
	}
	if err := unix.IoctlSetInt(k.fd, uiSetEvBit, evSyn); err != nil {
		return fmt.Errorf("uinput set EV_SYN: %w", err)
	}
	for _, code := range []int{keyUp, keyDown, keyLeft, keyRight} {
		if err := unix.IoctlSetInt(k.fd, uiSetKeyBit, code); err != nil {
			return fmt.Errorf("uinput set key %d: %w", code, err)
		}
	}
	dev := uinputUserDev{ID: inputID{Bustype: busUSB, Vendor: 0x1209, Product: 0xface, Version: 1}}
	copy(dev.Name[:], "facepad virtual keyboard")
	var buf bytes.Buffer
	if err := binary.Write(&buf, binary.NativeEndian, &dev); err != nil {
		return err
	}
	if _, err := unix.Write(k.fd, buf.Bytes()); err != nil {
		return fmt.Errorf("uinput write device: %w", err)
	}
	if err := unix.IoctlSetInt(k.fd, uiDevCreate, 0); err != nil {
		return fmt.Errorf("uinput create: %w", err)
	}
	return nil
}

func keyCode(a steer.Action) (uint16, bool) {
	switch a {
	case steer.Up:
		return keyUp, true
	case steer.Down:
		return keyDown, true
	case steer.Left:
		return keyLeft, true
	case steer.Right:
		return keyRight, true
	}
	return 0, false
}

// Press emits key down, sync, key up, sync.
func (k *uinputKeyboard) Press(a steer.Action) error {
	code, ok := keyCode(a)
	if !ok {
		return ErrUnknownKey
	}
	k.mu.Lock()
	defer k.mu.Unlock()
	if k.fd < 0 {
		return fmt.Errorf("uinput keyboard closed")
	}
	events := []inputEvent{
		{Type: evKey, Code: code, Value: 1},
		{Type: evSyn, Code: synReport},
		{Type: evKey, Code: code, Value: 0},
		{Type: evSyn, Code: synReport},
	}
	var buf bytes.Buffer
	for i := range events {
		if err := binary.Write(&buf, binary.NativeEndian, &events[i]); err != nil {
			return err
		}
	}
	if _, err := unix.Write(k.fd, buf.Bytes()); err != nil {
		return fmt.Errorf("uinput write %s: %w", a, err)
	}
	return nil
}

func (k *uinputKeyboard) Close() error {
	k.mu.Lock()
	defer k.mu.Unlock()
	if k.fd < 0 {
		return nil
	}
	_ = unix.IoctlSetInt(k.fd, uiDevDestroy, 0)
	err := unix.Close(k.fd)
	k.fd = -1
	return err
}
