package main

import (
	"context"
	"fmt"
	"time"

	"github.com/urfave/cli/v2"

	"github.com/mklimuk/htu21/cmd/htu21/console"
	"github.com/mklimuk/htu21/environment"
	"github.com/mklimuk/htu21/monitor"
)

const (
	formatText = "text"
	formatYAML = "yaml"
)

var formatFlag = &cli.StringFlag{
	Name:    "format",
	Aliases: []string{"f"},
	Value:   formatText,
	Usage:   "output format: text or yaml",
}

var readCmd = cli.Command{
	Name:    "read",
	Aliases: []string{"rd"},
	Usage:   "read temperature and/or humidity",
	Flags: []cli.Flag{
		&cli.StringFlag{
			Name:    "quantity",
			Aliases: []string{"q"},
			Value:   "all",
			Usage:   "temperature, humidity or all",
		},
		formatFlag,
	},
	Action: func(c *cli.Context) error {
		cfg, err := resolveConfig(c)
		if err != nil {
			return console.Exit(1, "configuration error: %s", console.Red(err))
		}
		s, closeSensor, err := openSensor(c.Context, cfg)
		if err != nil {
			return console.Exit(1, "sensor initialization error: %s", console.Red(err))
		}
		defer closeSensor()
		reading, err := readQuantity(c.Context, s, c.String("quantity"))
		if err != nil {
			return console.Exit(1, "error getting sensor read: %s", console.Red(err))
		}
		return printReading(c.String("format"), c.String("quantity"), reading)
	},
}

func readQuantity(ctx context.Context, s environment.TempHumSensor, quantity string) (monitor.Reading, error) {
	reading := monitor.Reading{Time: time.Now()}
	var err error
	switch quantity {
	case "temperature", "temp", "t":
		reading.Temperature, err = s.GetTemperature(ctx)
	case "humidity", "hum", "h":
		reading.Humidity, err = s.GetHumidity(ctx)
	case "all", "":
		reading.Temperature, reading.Humidity, err = s.GetTempAndHum(ctx)
	default:
		return reading, fmt.Errorf("unknown quantity %q", quantity)
	}
	return reading, err
}

func printReading(format, quantity string, r monitor.Reading) error {
	if format == formatYAML {
		return encodeYAML(r)
	}
	switch quantity {
	case "temperature", "temp", "t":
		console.PInfof(console.PictoThermometer, "%s", console.White(fmt.Sprintf("%.2f°C", r.Temperature)))
	case "humidity", "hum", "h":
		console.PInfof(console.PictoHumidity, "%s", console.White(fmt.Sprintf("%.2f%%RH", r.Humidity)))
	default:
		console.PInfof(console.PictoThermometer, " %s", console.White(fmt.Sprintf("%.2f°C", r.Temperature)))
		console.PInfof(console.PictoHumidity, "%s", console.White(fmt.Sprintf("%.2f%%RH", r.Humidity)))
	}
	return nil
}
