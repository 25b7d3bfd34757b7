// Package htu21 holds the bus contracts shared by the HTU21D-F driver and the
// adapters that can carry its traffic.
package htu21

import (
	"context"
	"fmt"
)

var ErrBusBusy = fmt.Errorf("I2C engine is busy (command not completed)")

// DefaultAddress is the 7-bit address the HTU21D-F answers on.
const DefaultAddress = 0x40

type BusReader interface {
	Read(ctx context.Context, buffer []byte) error
}

type BusWriter interface {
	Write(ctx context.Context, buffer []byte) error
}

type AddressableReader interface {
	ReadFromAddr(ctx context.Context, address byte, buffer []byte) error
}

type AddressableWriter interface {
	WriteToAddr(ctx context.Context, address byte, buffer []byte) error
	Release(ctx context.Context) error
}

// I2CBus is a bus that takes the target address with every transaction,
// like USB bridges do.
type I2CBus interface {
	AddressableReader
	AddressableWriter
}

// I2CDevice is a bus already bound to a single device.
type I2CDevice interface {
	BusReader
	BusWriter
}
