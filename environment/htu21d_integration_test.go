package environment

import (
	"context"
	"os"
	"strconv"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mklimuk/htu21/i2c"
)

// Hardware settings, set by `dev integration-test --bus --address`.
const (
	integrationEnabledEnv = "TEST_INTEGRATION_ENABLED"
	integrationBusEnv     = "HTU21_TEST_BUS"
	integrationAddressEnv = "HTU21_TEST_ADDRESS"
)

func integrationOptions(t *testing.T) []HTU21DOption {
	t.Helper()
	if os.Getenv(integrationEnabledEnv) != "1" {
		t.Skipf("%s not set, skipping tests against a real sensor", integrationEnabledEnv)
	}
	var opts []HTU21DOption
	if b := os.Getenv(integrationBusEnv); b != "" {
		bus, err := i2c.ParseBus(b)
		require.NoError(t, err)
		opts = append(opts, WithBus(bus))
	}
	if a := os.Getenv(integrationAddressEnv); a != "" {
		addr, err := strconv.ParseUint(a, 0, 7)
		require.NoError(t, err)
		opts = append(opts, WithAddress(uint16(addr)))
	}
	return opts
}

func TestHTU21D_Integration(t *testing.T) {
	opts := integrationOptions(t)
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	s, err := OpenHTU21D(ctx, opts...)
	require.NoError(t, err)
	defer func() {
		assert.NoError(t, s.Close())
	}()

	reg, err := s.ReadUserRegister(ctx)
	require.NoError(t, err)
	hum, temp := reg.Resolution()
	assert.Equal(t, 12, hum, "soft reset restores the default resolution")
	assert.Equal(t, 14, temp)
	assert.False(t, reg.HeaterEnabled())

	temperature, err := s.ReadTemperature(ctx)
	require.NoError(t, err)
	assert.GreaterOrEqual(t, temperature, -40.0)
	assert.LessOrEqual(t, temperature, 125.0)

	humidity, err := s.ReadHumidity(ctx)
	require.NoError(t, err)
	assert.GreaterOrEqual(t, humidity, 0.0)
	assert.LessOrEqual(t, humidity, 100.0)
	t.Logf("temperature %.2f°C, humidity %.2f%%RH", temperature, humidity)
}
