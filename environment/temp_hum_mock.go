package environment

import (
	"context"
	"sync"
)

// TemperatureBehaviorFunc returns a temperature in Celsius or an error.
type TemperatureBehaviorFunc func(ctx context.Context) (float32, error)

// HumidityBehaviorFunc returns a relative humidity in %RH or an error.
type HumidityBehaviorFunc func(ctx context.Context) (float32, error)

// MockTemperatureAndHumiditySensor produces readings from behavior functions
// without any hardware. It stands in for the HTU21D wherever a TempHumSensor
// is accepted.
type MockTemperatureAndHumiditySensor struct {
	tempBehavior TemperatureBehaviorFunc
	humBehavior  HumidityBehaviorFunc
}

// NewMockTemperatureAndHumiditySensor creates a mock sensor.
// Example usage:
//
//	sensor := NewMockTemperatureAndHumiditySensor(
//		StaticBehavior(22.5),
//		SequenceBehavior(45, 46, 47),
//	)
func NewMockTemperatureAndHumiditySensor(tempBehavior TemperatureBehaviorFunc, humBehavior HumidityBehaviorFunc) *MockTemperatureAndHumiditySensor {
	return &MockTemperatureAndHumiditySensor{
		tempBehavior: tempBehavior,
		humBehavior:  humBehavior,
	}
}

func (m *MockTemperatureAndHumiditySensor) GetTemperature(ctx context.Context) (float32, error) {
	return m.tempBehavior(ctx)
}

func (m *MockTemperatureAndHumiditySensor) GetHumidity(ctx context.Context) (float32, error) {
	return m.humBehavior(ctx)
}

// GetTempAndHum calls both behaviors; the first error wins.
func (m *MockTemperatureAndHumiditySensor) GetTempAndHum(ctx context.Context) (float32, float32, error) {
	temp, err := m.tempBehavior(ctx)
	if err != nil {
		return 0, 0, err
	}
	hum, err := m.humBehavior(ctx)
	if err != nil {
		return 0, 0, err
	}
	return temp, hum, nil
}

// StaticBehavior always returns v.
func StaticBehavior(v float32) func(ctx context.Context) (float32, error) {
	return func(ctx context.Context) (float32, error) {
		return v, nil
	}
}

// SequenceBehavior returns values in order and starts over after the last one.
func SequenceBehavior(values ...float32) func(ctx context.Context) (float32, error) {
	var mx sync.Mutex
	next := 0
	return func(ctx context.Context) (float32, error) {
		mx.Lock()
		defer mx.Unlock()
		if len(values) == 0 {
			return 0, nil
		}
		v := values[next%len(values)]
		next++
		return v, nil
	}
}
