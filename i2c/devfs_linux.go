//go:build linux

package i2c

import (
	"context"
	"errors"
	"fmt"
	"os"

	"golang.org/x/sys/unix"
)

// ioctl request binding subsequent transfers to a slave address.
const i2cSlave = 0x0703

// Devfs is the Linux i2c-dev character device.
type Devfs struct {
	f *os.File
}

// OpenDevfs opens /dev/i2c-<bus> for reading and writing.
func OpenDevfs(bus int) (*Devfs, error) {
	f, err := os.OpenFile(BusPath(bus), os.O_RDWR, 0)
	if err != nil {
		return nil, err
	}
	return &Devfs{f: f}, nil
}

// OpenDevfsHandle is OpenDevfs as an Opener.
func OpenDevfsHandle(bus int) (Handle, error) {
	d, err := OpenDevfs(bus)
	if err != nil {
		return nil, err
	}
	return d, nil
}

// Accessible reports whether the node exists and is readable and writable.
func Accessible(path string) bool {
	return unix.Access(path, unix.R_OK|unix.W_OK) == nil
}

func (d *Devfs) SetAddress(addr uint16) error {
	err := unix.IoctlSetInt(int(d.f.Fd()), i2cSlave, int(addr))
	if err != nil {
		return fmt.Errorf("I2C_SLAVE ioctl failed: %w", closedErr(err))
	}
	return nil
}

func (d *Devfs) Write(ctx context.Context, buf []byte) error {
	n, err := d.f.Write(buf)
	if err != nil {
		return closedErr(err)
	}
	if n != len(buf) {
		return fmt.Errorf("%w: %d of %d bytes", ErrShortWrite, n, len(buf))
	}
	return nil
}

// Read issues a single read transaction of len(buf) bytes.
func (d *Devfs) Read(ctx context.Context, buf []byte) error {
	n, err := d.f.Read(buf)
	if err != nil {
		return closedErr(err)
	}
	if n != len(buf) {
		return fmt.Errorf("%w: %d of %d bytes", ErrShortRead, n, len(buf))
	}
	return nil
}

func (d *Devfs) Close() error {
	return closedErr(d.f.Close())
}

func closedErr(err error) error {
	if errors.Is(err, os.ErrClosed) {
		return ErrClosed
	}
	return err
}
