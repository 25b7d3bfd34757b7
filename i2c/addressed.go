package i2c

import (
	"context"
	"fmt"

	"github.com/mklimuk/htu21"
)

var _ Handle = &Addressed{}

// Addressed adapts a bus that takes the address with every transaction,
// such as the MCP2221 USB bridge.
type Addressed struct {
	bus  htu21.I2CBus
	addr byte
}

func NewAddressed(bus htu21.I2CBus) *Addressed {
	return &Addressed{bus: bus}
}

func (a *Addressed) SetAddress(addr uint16) error {
	if addr > 0x7F {
		return fmt.Errorf("invalid i2c address %#x", addr)
	}
	a.addr = byte(addr)
	return nil
}

func (a *Addressed) Write(ctx context.Context, buffer []byte) error {
	return a.bus.WriteToAddr(ctx, a.addr, buffer)
}

func (a *Addressed) Read(ctx context.Context, buffer []byte) error {
	return a.bus.ReadFromAddr(ctx, a.addr, buffer)
}

// Close releases the bus so that other masters can use it.
func (a *Addressed) Close() error {
	return a.bus.Release(context.Background())
}
