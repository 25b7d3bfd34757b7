package main

import (
	"context"
	"fmt"
	"log/slog"

	"gobot.io/x/gobot/v2/platforms/raspi"

	"github.com/mklimuk/htu21/adapter"
	"github.com/mklimuk/htu21/environment"
	"github.com/mklimuk/htu21/i2c"
)

// openHTU21D opens and starts the sensor on the configured adapter. The
// returned function releases the sensor and the adapter.
func openHTU21D(ctx context.Context, cfg config) (*environment.HTU21D, func(), error) {
	bus, err := cfg.bus()
	if err != nil {
		return nil, nil, err
	}
	addr, err := cfg.address()
	if err != nil {
		return nil, nil, err
	}
	opts := []environment.HTU21DOption{
		environment.WithBus(bus),
		environment.WithAddress(addr),
	}
	release := func() {}
	switch cfg.Adapter {
	case adapterDevfs, "":
		opts = append(opts, environment.WithOpener(i2c.OpenDevfsHandle))
	case adapterPeriph:
		opts = append(opts, environment.WithOpener(i2c.OpenPeriphHandle))
	case adapterRaspi:
		a := raspi.NewAdaptor()
		err := a.Connect()
		if err != nil {
			return nil, nil, fmt.Errorf("raspi adaptor connect error: %w", err)
		}
		release = func() { _ = a.Finalize() }
		opts = append(opts, environment.WithOpener(func(bus int) (i2c.Handle, error) {
			return i2c.NewGobot(a, bus), nil
		}))
	case adapterMCP2221:
		a := adapter.NewMCP2221()
		err := a.Init()
		if err != nil {
			return nil, nil, fmt.Errorf("adapter initialization error: %w", err)
		}
		// the bridge is its own bus
		opts = append(opts, environment.WithBus(0), environment.WithOpener(func(int) (i2c.Handle, error) {
			return i2c.NewAddressed(a), nil
		}))
	default:
		return nil, nil, fmt.Errorf("unknown adapter %q", cfg.Adapter)
	}
	s, err := environment.OpenHTU21D(ctx, opts...)
	if err != nil {
		release()
		return nil, nil, err
	}
	return s, func() {
		if err := s.Close(); err != nil {
			slog.Warn("could not close sensor", "error", err)
		}
		release()
	}, nil
}

// openSensor is openHTU21D plus the hardware-free mock adapter.
func openSensor(ctx context.Context, cfg config) (environment.TempHumSensor, func(), error) {
	if cfg.Adapter == adapterMock {
		return environment.NewMockTemperatureAndHumiditySensor(
			environment.SequenceBehavior(21.8, 21.9, 22.0, 21.9),
			environment.SequenceBehavior(48.2, 48.0, 47.7, 48.1),
		), func() {}, nil
	}
	return openHTU21D(ctx, cfg)
}
