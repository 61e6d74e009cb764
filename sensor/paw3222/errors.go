package paw3222

import (
	"errors"
	"fmt"
)

var (
	ErrCPIOutOfRange      = errors.New("cpi out of range")
	ErrUnsupportedProduct = errors.New("unsupported product id")
)

// TransportError wraps a failed register or burst transfer.
type TransportError struct {
	Op   string
	Addr uint8
	Err  error
}

func (e *TransportError) Error() string {
	return fmt.Sprintf("paw3222 %s 0x%02x: %v", e.Op, e.Addr, e.Err)
}

func (e *TransportError) Unwrap() error { return e.Err }
