package i2c

import (
	"errors"
	"io/fs"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestBusPath(t *testing.T) {
	assert.Equal(t, "/dev/i2c-0", BusPath(0))
	assert.Equal(t, "/dev/i2c-2", BusPath(2))

	bus, err := ParseBus("3")
	require.NoError(t, err)
	assert.Equal(t, "/dev/i2c-3", BusPath(bus))
}

func TestParseBus_Invalid(t *testing.T) {
	_, err := ParseBus("one")
	assert.Error(t, err)
	_, err = ParseBus("-1")
	assert.Error(t, err)
}

func TestAvailableBus_NoDevices(t *testing.T) {
	var probed []string
	_, err := AvailableBus(func(path string) bool {
		probed = append(probed, path)
		return false
	})
	assert.ErrorIs(t, err, ErrNoBus)
	assert.True(t, errors.Is(err, fs.ErrNotExist))
	assert.Len(t, probed, MaxBusScan)
}

func TestAvailableBus_FirstAccessible(t *testing.T) {
	answers := []bool{false, false, true}
	calls := 0
	bus, err := AvailableBus(func(path string) bool {
		res := answers[calls]
		calls++
		return res
	})
	require.NoError(t, err)
	assert.Equal(t, 2, bus)
	assert.Equal(t, 3, calls)
}

func TestAccessibleBuses(t *testing.T) {
	buses := AccessibleBuses(func(path string) bool {
		return path == "/dev/i2c-1" || path == "/dev/i2c-7"
	})
	assert.Equal(t, []int{1, 7}, buses)
}
