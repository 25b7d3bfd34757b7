package i2c

import (
	"fmt"
	"strconv"
)

// MaxBusScan bounds bus discovery to /dev/i2c-0 .. /dev/i2c-9.
const MaxBusScan = 10

const busPathPrefix = "/dev/i2c-"

// Probe reports whether the device node at path can be used.
type Probe func(path string) bool

func BusPath(bus int) string {
	return busPathPrefix + strconv.Itoa(bus)
}

// ParseBus accepts a bus number written as a decimal string.
func ParseBus(s string) (int, error) {
	bus, err := strconv.Atoi(s)
	if err != nil {
		return 0, fmt.Errorf("invalid bus number %q: %w", s, err)
	}
	if bus < 0 {
		return 0, fmt.Errorf("invalid bus number %d", bus)
	}
	return bus, nil
}

// AvailableBus returns the lowest bus number whose node passes probe.
// A nil probe checks read/write access to the node.
func AvailableBus(probe Probe) (int, error) {
	if probe == nil {
		probe = Accessible
	}
	for bus := 0; bus < MaxBusScan; bus++ {
		if probe(BusPath(bus)) {
			return bus, nil
		}
	}
	return 0, fmt.Errorf("%w (scanned %s..%s)", ErrNoBus, BusPath(0), BusPath(MaxBusScan-1))
}

// AccessibleBuses lists every bus in the scan range that passes probe.
func AccessibleBuses(probe Probe) []int {
	if probe == nil {
		probe = Accessible
	}
	var buses []int
	for bus := 0; bus < MaxBusScan; bus++ {
		if probe(BusPath(bus)) {
			buses = append(buses, bus)
		}
	}
	return buses
}
