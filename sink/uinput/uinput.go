// Package uinput exposes motion reports as a Linux virtual relative pointer.
package uinput

import "errors"

// DefaultPath is the uinput control node.
const DefaultPath = "/dev/uinput"

var ErrUnsupported = errors.New("uinput is only available on linux")
