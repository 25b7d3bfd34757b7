// Package environment holds temperature and humidity sensors.
package environment

import "context"

// TempHumSensor is implemented by every temperature and humidity source,
// real or mocked. Temperatures are in Celsius, humidity in %RH.
type TempHumSensor interface {
	GetTemperature(ctx context.Context) (float32, error)
	GetHumidity(ctx context.Context) (float32, error)
	GetTempAndHum(ctx context.Context) (float32, float32, error)
}

var (
	_ TempHumSensor = &HTU21D{}
	_ TempHumSensor = &MockTemperatureAndHumiditySensor{}
)
