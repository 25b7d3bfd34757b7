package i2c

import (
	"context"
	"fmt"
	"log/slog"
	"strconv"

	"periph.io/x/conn/v3/i2c"
	"periph.io/x/conn/v3/i2c/i2creg"
	"periph.io/x/host/v3"
)

var _ Handle = &Periph{}

// Periph carries transactions over a periph.io bus.
type Periph struct {
	bus  i2c.BusCloser
	addr uint16
}

// OpenPeriph initialises the periph host drivers and opens bus by number.
func OpenPeriph(bus int) (*Periph, error) {
	state, err := host.Init()
	if err != nil {
		return nil, fmt.Errorf("could not init host: %w", err)
	}
	for _, driver := range state.Loaded {
		slog.Debug("periph driver loaded", "driver", driver.String())
	}
	b, err := i2creg.Open(strconv.Itoa(bus))
	if err != nil {
		return nil, fmt.Errorf("could not open i2c bus: %w", err)
	}
	return NewPeriph(b), nil
}

// OpenPeriphHandle is OpenPeriph as an Opener.
func OpenPeriphHandle(bus int) (Handle, error) {
	p, err := OpenPeriph(bus)
	if err != nil {
		return nil, err
	}
	return p, nil
}

func NewPeriph(bus i2c.BusCloser) *Periph {
	return &Periph{bus: bus}
}

func (p *Periph) SetAddress(addr uint16) error {
	p.addr = addr
	return nil
}

func (p *Periph) Read(ctx context.Context, buffer []byte) error {
	err := p.bus.Tx(p.addr, nil, buffer)
	if err != nil {
		return fmt.Errorf("could not read from i2c bus %x: %w", p.addr, err)
	}
	return nil
}

func (p *Periph) Write(ctx context.Context, buffer []byte) error {
	err := p.bus.Tx(p.addr, buffer, nil)
	if err != nil {
		return fmt.Errorf("could not write to i2c bus %x: %w", p.addr, err)
	}
	return nil
}

func (p *Periph) Close() error {
	return p.bus.Close()
}
