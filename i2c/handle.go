// Package i2c turns the raw byte stream of an I2C device into checked
// frames and integers. The transport underneath is any Handle: the Linux
// character device, periph.io, gobot or an addressable USB bridge.
package i2c

import (
	"errors"
	"fmt"
	"io/fs"

	"github.com/mklimuk/htu21"
)

var (
	ErrClosed     = errors.New("i2c: handle closed")
	ErrShortRead  = errors.New("i2c: short read")
	ErrShortWrite = errors.New("i2c: short write")
	ErrChecksum   = errors.New("i2c: crc8 checksum mismatch")
	ErrNoBus      = fmt.Errorf("i2c: no accessible bus: %w", fs.ErrNotExist)
)

// Handle is an open transport able to target one device at a time.
// Read must fill the whole buffer or fail.
type Handle interface {
	htu21.I2CDevice
	SetAddress(addr uint16) error
	Close() error
}

// Opener opens the handle for a bus number.
type Opener func(bus int) (Handle, error)

// ChecksumError reports a frame whose trailing CRC-8 did not match its data.
type ChecksumError struct {
	Expected byte
	Received byte
}

func (e *ChecksumError) Error() string {
	return fmt.Sprintf("%s: expected %#02x, got %#02x", ErrChecksum, e.Expected, e.Received)
}

func (e *ChecksumError) Is(target error) bool {
	return target == ErrChecksum
}
