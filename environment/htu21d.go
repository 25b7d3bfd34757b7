package environment

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/mklimuk/htu21"
	"github.com/mklimuk/htu21/i2c"
)

// Commands
const (
	htu21dCmdReset          = 0xFE
	htu21dCmdReadTempNoHold = 0xF3
	htu21dCmdReadHumNoHold  = 0xF5
	htu21dCmdReadUserReg    = 0xE7
)

// HTU21DResetRegValue is the user register content right after a soft reset.
const HTU21DResetRegValue = 0x02

// Datasheet conversion and settle times
const (
	htu21dResetDelay       = 15 * time.Millisecond
	htu21dTempDelay        = 50 * time.Millisecond
	htu21dHumDelay         = 16 * time.Millisecond
	htu21dChecksumRetries  = 1
	htu21dStatusBitsMask   = 0xFFFC
	htu21dMeasurementBytes = 2
)

// SleepFunc blocks for d or until ctx is done.
type SleepFunc func(ctx context.Context, d time.Duration) error

type HTU21DConfig struct {
	Address uint16
	// Bus is the bus number to open; a negative value scans for the first
	// accessible bus.
	Bus    int
	Opener i2c.Opener
	Probe  i2c.Probe
	Sleep  SleepFunc
	Logger *slog.Logger
}

type HTU21DOption func(*HTU21DConfig)

// WithAddress overrides the default 0x40 device address.
func WithAddress(address uint16) HTU21DOption {
	return func(c *HTU21DConfig) {
		c.Address = address
	}
}

func WithBus(bus int) HTU21DOption {
	return func(c *HTU21DConfig) {
		c.Bus = bus
	}
}

func WithOpener(opener i2c.Opener) HTU21DOption {
	return func(c *HTU21DConfig) {
		c.Opener = opener
	}
}

func WithProbe(probe i2c.Probe) HTU21DOption {
	return func(c *HTU21DConfig) {
		c.Probe = probe
	}
}

func WithSleep(sleep SleepFunc) HTU21DOption {
	return func(c *HTU21DConfig) {
		c.Sleep = sleep
	}
}

func WithLogger(logger *slog.Logger) HTU21DOption {
	return func(c *HTU21DConfig) {
		c.Logger = logger
	}
}

func newHTU21DConfig(opts []HTU21DOption) HTU21DConfig {
	config := HTU21DConfig{
		Address: htu21.DefaultAddress,
		Bus:     -1,
		Opener:  i2c.OpenDevfsHandle,
		Sleep:   sleepContext,
	}
	for _, opt := range opts {
		opt(&config)
	}
	if config.Logger == nil {
		config.Logger = slog.Default()
	}
	return config
}

// HTU21D represents the TE Connectivity HTU21D(F) humidity and temperature
// sensor. Measurements use the no hold master mode: the driver triggers a
// conversion, waits the datasheet conversion time and reads the result.
// Typical usage:
//
//	s, err := OpenHTU21D(ctx)
//	t, err := s.ReadTemperature(ctx)
//
// An HTU21D is not safe for concurrent use.
type HTU21D struct {
	bus     *i2c.Channel
	started bool
	sleep   SleepFunc
	log     *slog.Logger
}

// NewHTU21D takes ownership of h. No bus traffic happens until StartSensor.
func NewHTU21D(h i2c.Handle, opts ...HTU21DOption) (*HTU21D, error) {
	return newHTU21D(h, newHTU21DConfig(opts))
}

// OpenHTU21D opens the configured bus, or the first accessible one, and
// starts the sensor.
func OpenHTU21D(ctx context.Context, opts ...HTU21DOption) (*HTU21D, error) {
	config := newHTU21DConfig(opts)
	bus := config.Bus
	if bus < 0 {
		var err error
		bus, err = i2c.AvailableBus(config.Probe)
		if err != nil {
			return nil, fmt.Errorf("htu21d: %w", err)
		}
		config.Logger.Debug("discovered i2c bus", "bus", bus, "path", i2c.BusPath(bus))
	}
	h, err := config.Opener(bus)
	if err != nil {
		return nil, fmt.Errorf("htu21d: could not open bus %d: %w", bus, err)
	}
	sensor, err := newHTU21D(h, config)
	if err != nil {
		_ = h.Close()
		return nil, err
	}
	err = sensor.StartSensor(ctx)
	if err != nil {
		_ = sensor.Close()
		return nil, err
	}
	return sensor, nil
}

func newHTU21D(h i2c.Handle, config HTU21DConfig) (*HTU21D, error) {
	ch, err := i2c.NewChannel(h, config.Address)
	if err != nil {
		return nil, fmt.Errorf("htu21d: %w", err)
	}
	return &HTU21D{
		bus:   ch,
		sleep: config.Sleep,
		log:   config.Logger,
	}, nil
}

// StartSensor resets the sensor once; later calls do nothing.
func (s *HTU21D) StartSensor(ctx context.Context) error {
	if s.started {
		return nil
	}
	return s.Reset(ctx)
}

// Reset issues a soft reset and reads back the user register. It always
// talks to the sensor, even when it has already been started.
func (s *HTU21D) Reset(ctx context.Context) error {
	err := s.bus.Write(ctx, i2c.Byte(htu21dCmdReset))
	if err != nil {
		return fmt.Errorf("htu21d: reset command failed: %w", err)
	}
	err = s.sleep(ctx, htu21dResetDelay)
	if err != nil {
		return err
	}
	reg, err := s.ReadUserRegister(ctx)
	if err != nil {
		return err
	}
	if reg != HTU21DResetRegValue {
		s.log.Warn("htu21d: unexpected user register after reset",
			"expected", fmt.Sprintf("%#02x", HTU21DResetRegValue), "got", fmt.Sprintf("%#02x", byte(reg)))
	}
	s.started = true
	return nil
}

// ReadUserRegister returns the raw user register.
func (s *HTU21D) ReadUserRegister(ctx context.Context) (UserRegister, error) {
	err := s.bus.Write(ctx, i2c.Byte(htu21dCmdReadUserReg))
	if err != nil {
		return 0, fmt.Errorf("htu21d: read register command failed: %w", err)
	}
	reg, err := s.bus.ReadByte(ctx)
	if err != nil {
		return 0, fmt.Errorf("htu21d: read register failed: %w", err)
	}
	return UserRegister(reg), nil
}

// ReadTemperature returns the temperature in Celsius.
func (s *HTU21D) ReadTemperature(ctx context.Context) (float64, error) {
	raw, err := s.measure(ctx, htu21dCmdReadTempNoHold, htu21dTempDelay)
	if err != nil {
		return 0, err
	}
	return convertHTU21DTemperature(raw), nil
}

// ReadHumidity returns the relative humidity in %RH.
func (s *HTU21D) ReadHumidity(ctx context.Context) (float64, error) {
	raw, err := s.measure(ctx, htu21dCmdReadHumNoHold, htu21dHumDelay)
	if err != nil {
		return 0, err
	}
	return convertHTU21DHumidity(raw), nil
}

func (s *HTU21D) GetTemperature(ctx context.Context) (float32, error) {
	t, err := s.ReadTemperature(ctx)
	return float32(t), err
}

func (s *HTU21D) GetHumidity(ctx context.Context) (float32, error) {
	h, err := s.ReadHumidity(ctx)
	return float32(h), err
}

func (s *HTU21D) GetTempAndHum(ctx context.Context) (float32, float32, error) {
	t, err := s.ReadTemperature(ctx)
	if err != nil {
		return 0, 0, err
	}
	h, err := s.ReadHumidity(ctx)
	if err != nil {
		return 0, 0, err
	}
	return float32(t), float32(h), nil
}

// Close releases the bus handle.
func (s *HTU21D) Close() error {
	return s.bus.Close()
}

// measure runs a full conversion. A checksum mismatch resets the sensor and
// the conversion is repeated once; any other error is returned as is.
func (s *HTU21D) measure(ctx context.Context, cmd int, wait time.Duration) (uint16, error) {
	var err error
	for attempt := 0; attempt <= htu21dChecksumRetries; attempt++ {
		if attempt > 0 {
			s.log.Warn("htu21d: checksum mismatch, resetting sensor", "command", fmt.Sprintf("%#02x", cmd), "error", err)
			if rerr := s.Reset(ctx); rerr != nil {
				return 0, fmt.Errorf("htu21d: reset after checksum mismatch failed: %w", rerr)
			}
		}
		var raw uint16
		raw, err = s.convert(ctx, cmd, wait)
		if err == nil {
			return raw, nil
		}
		if !errors.Is(err, i2c.ErrChecksum) {
			return 0, err
		}
	}
	return 0, err
}

func (s *HTU21D) convert(ctx context.Context, cmd int, wait time.Duration) (uint16, error) {
	err := s.bus.Write(ctx, i2c.Byte(cmd))
	if err != nil {
		return 0, fmt.Errorf("htu21d: measure command %#02x failed: %w", cmd, err)
	}
	err = s.sleep(ctx, wait)
	if err != nil {
		return 0, err
	}
	raw, err := s.bus.ReadInt(ctx, htu21dMeasurementBytes, i2c.VerifyChecksum())
	if err != nil {
		return 0, fmt.Errorf("htu21d: read measurement failed: %w", err)
	}
	// two least significant bits carry status, not data
	return uint16(raw) & htu21dStatusBitsMask, nil
}

func convertHTU21DTemperature(raw uint16) float64 {
	return -46.85 + 175.72*(float64(raw)/65536.0)
}

func convertHTU21DHumidity(raw uint16) float64 {
	return -6.0 + 125.0*(float64(raw)/65536.0)
}

func sleepContext(ctx context.Context, d time.Duration) error {
	timer := time.NewTimer(d)
	defer timer.Stop()
	select {
	case <-timer.C:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

// UserRegister is the HTU21D user register (command 0xE7).
type UserRegister byte

// Resolution returns the humidity and temperature resolution in bits
// selected by register bits 7 and 0.
func (r UserRegister) Resolution() (humidity int, temperature int) {
	switch (r>>6)&0x02 | r&0x01 {
	case 0x01:
		return 8, 12
	case 0x02:
		return 10, 13
	case 0x03:
		return 11, 11
	default:
		return 12, 14
	}
}

// EndOfBattery reports a supply voltage below 2.25V.
func (r UserRegister) EndOfBattery() bool {
	return r&0x40 != 0
}

func (r UserRegister) HeaterEnabled() bool {
	return r&0x04 != 0
}

// OTPReloadDisabled reports whether the OTP reload on every reset is off,
// which is the power-on default.
func (r UserRegister) OTPReloadDisabled() bool {
	return r&0x02 != 0
}
