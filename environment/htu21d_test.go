package environment

import (
	"context"
	"errors"
	"fmt"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mklimuk/htu21/i2c"
	"github.com/mklimuk/htu21/i2c/i2ctest"
)

type sleepRecorder struct {
	calls []time.Duration
}

func (r *sleepRecorder) sleep(ctx context.Context, d time.Duration) error {
	r.calls = append(r.calls, d)
	return nil
}

// newStartedHTU21D returns a started sensor with cleared bus history.
func newStartedHTU21D(t *testing.T) (*HTU21D, *i2ctest.Fake, *sleepRecorder) {
	t.Helper()
	fake := i2ctest.NewFake()
	rec := &sleepRecorder{}
	s, err := NewHTU21D(fake, WithSleep(rec.sleep))
	require.NoError(t, err)
	fake.AddRead(HTU21DResetRegValue)
	require.NoError(t, s.StartSensor(context.Background()))
	fake.Clear()
	rec.calls = nil
	return s, fake, rec
}

func TestHTU21D_Reset(t *testing.T) {
	s, fake, rec := newStartedHTU21D(t)
	fake.AddRead(HTU21DResetRegValue)

	require.NoError(t, s.Reset(context.Background()))
	assert.Equal(t, []byte{htu21dCmdReset, htu21dCmdReadUserReg}, fake.Written())
	assert.Equal(t, []time.Duration{15 * time.Millisecond}, rec.calls)
	assert.Zero(t, fake.Pending())
}

func TestHTU21D_StartSensorOnce(t *testing.T) {
	fake := i2ctest.NewFake()
	rec := &sleepRecorder{}
	s, err := NewHTU21D(fake, WithSleep(rec.sleep))
	require.NoError(t, err)
	assert.Empty(t, fake.Writes)

	fake.AddRead(HTU21DResetRegValue)
	ctx := context.Background()
	require.NoError(t, s.StartSensor(ctx))
	require.NoError(t, s.StartSensor(ctx))
	assert.Equal(t, []byte{htu21dCmdReset, htu21dCmdReadUserReg}, fake.Written())
	assert.Len(t, rec.calls, 1)
}

func TestHTU21D_StartSensorAfterResetIsNoop(t *testing.T) {
	s, fake, _ := newStartedHTU21D(t)
	require.NoError(t, s.StartSensor(context.Background()))
	assert.Empty(t, fake.Writes)
}

func TestHTU21D_ResetUnexpectedRegister(t *testing.T) {
	s, fake, _ := newStartedHTU21D(t)
	fake.AddRead(0x42)
	assert.NoError(t, s.Reset(context.Background()))
}

func TestHTU21D_ReadTemperature(t *testing.T) {
	s, fake, rec := newStartedHTU21D(t)
	fake.AddRead(104, 112, 154)

	temp, err := s.ReadTemperature(context.Background())
	require.NoError(t, err)
	assert.InDelta(t, 24.84, temp, 0.01)
	assert.Equal(t, []byte{htu21dCmdReadTempNoHold}, fake.Written())
	assert.Equal(t, []time.Duration{50 * time.Millisecond}, rec.calls)
}

func TestHTU21D_StatusBitsMasked(t *testing.T) {
	s, fake, _ := newStartedHTU21D(t)
	fake.AddRead(0x68, 0x73, 201) // both status bits set
	fake.AddRead(0x7E, 0x6B, 7)

	temp, err := s.ReadTemperature(context.Background())
	require.NoError(t, err)
	assert.Equal(t, convertHTU21DTemperature(0x6870), temp)
	assert.NotEqual(t, convertHTU21DTemperature(0x6873), temp)

	hum, err := s.ReadHumidity(context.Background())
	require.NoError(t, err)
	assert.Equal(t, convertHTU21DHumidity(0x7E68), hum)
	assert.NotEqual(t, convertHTU21DHumidity(0x7E6B), hum)
}

func TestHTU21D_ReadTemperatureChecksumFailure(t *testing.T) {
	s, fake, rec := newStartedHTU21D(t)
	fake.AddRead(104, 112, 255)       // bad checksum
	fake.AddRead(HTU21DResetRegValue) // reset on bad read
	fake.AddRead(104, 112, 154)       // good frame

	temp, err := s.ReadTemperature(context.Background())
	require.NoError(t, err)
	assert.InDelta(t, 24.84, temp, 0.01)
	assert.Equal(t, []byte{htu21dCmdReadTempNoHold, htu21dCmdReset, htu21dCmdReadUserReg, htu21dCmdReadTempNoHold}, fake.Written())
	assert.Equal(t, []time.Duration{50 * time.Millisecond, 15 * time.Millisecond, 50 * time.Millisecond}, rec.calls)
}

func TestHTU21D_ReadTemperatureChecksumFailsTwice(t *testing.T) {
	s, fake, _ := newStartedHTU21D(t)
	fake.AddRead(104, 112, 255)
	fake.AddRead(HTU21DResetRegValue)
	fake.AddRead(104, 112, 255)
	fake.AddRead(104, 112, 154)

	_, err := s.ReadTemperature(context.Background())
	assert.ErrorIs(t, err, i2c.ErrChecksum)
	var crcErr *i2c.ChecksumError
	require.True(t, errors.As(err, &crcErr))
	assert.Equal(t, byte(154), crcErr.Expected)
	assert.Equal(t, byte(255), crcErr.Received)
	// exactly one reset, no third attempt
	assert.Equal(t, []byte{htu21dCmdReadTempNoHold, htu21dCmdReset, htu21dCmdReadUserReg, htu21dCmdReadTempNoHold}, fake.Written())
	assert.Equal(t, 3, fake.Pending())
}

func TestHTU21D_ReadHumidity(t *testing.T) {
	s, fake, rec := newStartedHTU21D(t)
	fake.AddRead(126, 106, 54)

	hum, err := s.ReadHumidity(context.Background())
	require.NoError(t, err)
	assert.InDelta(t, 55.73, hum, 0.01)
	assert.Equal(t, []byte{htu21dCmdReadHumNoHold}, fake.Written())
	assert.Equal(t, []time.Duration{16 * time.Millisecond}, rec.calls)
}

func TestHTU21D_ReadHumidityChecksumFailure(t *testing.T) {
	s, fake, _ := newStartedHTU21D(t)
	fake.AddRead(126, 106, 255)
	fake.AddRead(HTU21DResetRegValue)
	fake.AddRead(126, 106, 54)

	hum, err := s.ReadHumidity(context.Background())
	require.NoError(t, err)
	assert.InDelta(t, 55.73, hum, 0.01)
	assert.Equal(t, []byte{htu21dCmdReadHumNoHold, htu21dCmdReset, htu21dCmdReadUserReg, htu21dCmdReadHumNoHold}, fake.Written())
}

func TestHTU21D_TransportErrorNotRetried(t *testing.T) {
	s, fake, _ := newStartedHTU21D(t)
	fake.AddRead(104, 112)

	_, err := s.ReadTemperature(context.Background())
	assert.ErrorIs(t, err, i2ctest.ErrNoData)
	assert.NotErrorIs(t, err, i2c.ErrChecksum)
	assert.Equal(t, []byte{htu21dCmdReadTempNoHold}, fake.Written())
}

func TestHTU21D_Disconnected(t *testing.T) {
	s, fake, _ := newStartedHTU21D(t)
	fake.Disconnect()
	_, err := s.ReadHumidity(context.Background())
	assert.ErrorIs(t, err, i2ctest.ErrDisconnected)
	assert.ErrorIs(t, s.Reset(context.Background()), i2ctest.ErrDisconnected)
}

func TestHTU21D_GetTempAndHum(t *testing.T) {
	s, fake, _ := newStartedHTU21D(t)
	fake.AddRead(104, 112, 154, 126, 106, 54)

	temp, hum, err := s.GetTempAndHum(context.Background())
	require.NoError(t, err)
	assert.InDelta(t, 24.84, temp, 0.01)
	assert.InDelta(t, 55.73, hum, 0.01)
}

func TestHTU21D_SleepCancelled(t *testing.T) {
	fake := i2ctest.NewFake()
	s, err := NewHTU21D(fake)
	require.NoError(t, err)
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	_, err = s.ReadTemperature(ctx)
	assert.ErrorIs(t, err, context.Canceled)
}

func TestOpenHTU21D_Discovery(t *testing.T) {
	fake := i2ctest.NewFake()
	fake.AddRead(HTU21DResetRegValue)
	rec := &sleepRecorder{}
	var opened int
	s, err := OpenHTU21D(context.Background(),
		WithProbe(func(path string) bool { return path == i2c.BusPath(1) }),
		WithOpener(func(bus int) (i2c.Handle, error) {
			opened = bus
			return fake, nil
		}),
		WithSleep(rec.sleep),
	)
	require.NoError(t, err)
	assert.Equal(t, 1, opened)
	assert.Equal(t, []byte{htu21dCmdReset, htu21dCmdReadUserReg}, fake.Written())
	assert.Contains(t, fake.Addresses, uint16(0x40))
	require.NoError(t, s.Close())
	assert.False(t, fake.Connected())
}

func TestOpenHTU21D_ExplicitBusAndAddress(t *testing.T) {
	fake := i2ctest.NewFake()
	fake.AddRead(HTU21DResetRegValue)
	var opened int
	_, err := OpenHTU21D(context.Background(),
		WithBus(4),
		WithAddress(0x41),
		WithProbe(func(path string) bool {
			t.Fatalf("unexpected probe of %s", path)
			return false
		}),
		WithOpener(func(bus int) (i2c.Handle, error) {
			opened = bus
			return fake, nil
		}),
		WithSleep((&sleepRecorder{}).sleep),
	)
	require.NoError(t, err)
	assert.Equal(t, 4, opened)
	assert.Equal(t, []uint16{0x41}, uniqueAddresses(fake.Addresses))
}

func TestOpenHTU21D_NoBus(t *testing.T) {
	_, err := OpenHTU21D(context.Background(),
		WithProbe(func(string) bool { return false }),
	)
	assert.ErrorIs(t, err, i2c.ErrNoBus)
}

func TestOpenHTU21D_StartFailureClosesBus(t *testing.T) {
	fake := i2ctest.NewFake()
	_, err := OpenHTU21D(context.Background(),
		WithBus(0),
		WithOpener(func(bus int) (i2c.Handle, error) { return fake, nil }),
		WithSleep((&sleepRecorder{}).sleep),
	)
	assert.ErrorIs(t, err, i2ctest.ErrNoData)
	assert.False(t, fake.Connected())
}

func TestConvertHTU21D(t *testing.T) {
	tests := []struct {
		raw  uint16
		temp float64
		hum  float64
	}{
		{0x0000, -46.85, -6.0},
		{0x8000, 41.01, 56.5},
		{0x6870, 24.84, 44.99},
	}
	for _, test := range tests {
		t.Run(fmt.Sprintf("%#04x", test.raw), func(t *testing.T) {
			assert.InDelta(t, test.temp, convertHTU21DTemperature(test.raw), 0.01)
			assert.InDelta(t, test.hum, convertHTU21DHumidity(test.raw), 0.01)
		})
	}
}

func TestUserRegister(t *testing.T) {
	reg := UserRegister(HTU21DResetRegValue)
	h, tmp := reg.Resolution()
	assert.Equal(t, 12, h)
	assert.Equal(t, 14, tmp)
	assert.True(t, reg.OTPReloadDisabled())
	assert.False(t, reg.EndOfBattery())
	assert.False(t, reg.HeaterEnabled())

	reg = UserRegister(0x81 | 0x40 | 0x04)
	h, tmp = reg.Resolution()
	assert.Equal(t, 11, h)
	assert.Equal(t, 11, tmp)
	assert.True(t, reg.EndOfBattery())
	assert.True(t, reg.HeaterEnabled())

	h, tmp = UserRegister(0x80).Resolution()
	assert.Equal(t, []int{10, 13}, []int{h, tmp})
	h, tmp = UserRegister(0x01).Resolution()
	assert.Equal(t, []int{8, 12}, []int{h, tmp})
}

func uniqueAddresses(addrs []uint16) []uint16 {
	var out []uint16
	seen := map[uint16]bool{}
	for _, a := range addrs {
		if !seen[a] {
			seen[a] = true
			out = append(out, a)
		}
	}
	return out
}
