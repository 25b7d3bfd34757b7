package i2c

import (
	"context"
	"errors"
	"fmt"

	gi2c "gobot.io/x/gobot/v2/drivers/i2c"
)

var _ Handle = &Gobot{}

// Gobot carries transactions over a gobot adaptor, e.g. raspi.Adaptor.
// One gobot connection is kept per addressed device.
type Gobot struct {
	connector gi2c.Connector
	bus       int
	conns     map[uint16]gi2c.Connection
	current   gi2c.Connection
}

// NewGobot uses bus on connector; a negative bus selects the adaptor default.
func NewGobot(connector gi2c.Connector, bus int) *Gobot {
	if bus < 0 {
		bus = connector.DefaultI2cBus()
	}
	return &Gobot{
		connector: connector,
		bus:       bus,
		conns:     make(map[uint16]gi2c.Connection),
	}
}

func (g *Gobot) SetAddress(addr uint16) error {
	if conn, ok := g.conns[addr]; ok {
		g.current = conn
		return nil
	}
	conn, err := g.connector.GetI2cConnection(int(addr), g.bus)
	if err != nil {
		return fmt.Errorf("could not get connection to %#02x on bus %d: %w", addr, g.bus, err)
	}
	g.conns[addr] = conn
	g.current = conn
	return nil
}

func (g *Gobot) Write(ctx context.Context, buffer []byte) error {
	if g.current == nil {
		return ErrClosed
	}
	n, err := g.current.Write(buffer)
	if err != nil {
		return err
	}
	if n != len(buffer) {
		return fmt.Errorf("%w: %d of %d bytes", ErrShortWrite, n, len(buffer))
	}
	return nil
}

func (g *Gobot) Read(ctx context.Context, buffer []byte) error {
	if g.current == nil {
		return ErrClosed
	}
	n, err := g.current.Read(buffer)
	if err != nil {
		return err
	}
	if n != len(buffer) {
		return fmt.Errorf("%w: %d of %d bytes", ErrShortRead, n, len(buffer))
	}
	return nil
}

func (g *Gobot) Close() error {
	var errs []error
	for addr, conn := range g.conns {
		errs = append(errs, conn.Close())
		delete(g.conns, addr)
	}
	g.current = nil
	return errors.Join(errs...)
}
