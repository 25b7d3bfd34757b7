//go:build !linux

package i2c

import (
	"context"
	"errors"
	"fmt"
	"os"
)

// Devfs is only available on Linux.
type Devfs struct{}

func OpenDevfs(bus int) (*Devfs, error) {
	return nil, fmt.Errorf("%s: %w", BusPath(bus), errors.ErrUnsupported)
}

func OpenDevfsHandle(bus int) (Handle, error) {
	return nil, fmt.Errorf("%s: %w", BusPath(bus), errors.ErrUnsupported)
}

func Accessible(path string) bool {
	_, err := os.Stat(path)
	return err == nil
}

func (d *Devfs) SetAddress(addr uint16) error { return errors.ErrUnsupported }
func (d *Devfs) Write(ctx context.Context, buf []byte) error { return errors.ErrUnsupported }
func (d *Devfs) Read(ctx context.Context, buf []byte) error { return errors.ErrUnsupported }
func (d *Devfs) Close() error { return errors.ErrUnsupported }
