package main

import (
	"fmt"

	"github.com/urfave/cli/v2"

	"github.com/mklimuk/htu21/cmd/htu21/console"
	"github.com/mklimuk/htu21/environment"
)

type registerReport struct {
	Raw               string `yaml:"raw"`
	HumidityBits      int    `yaml:"humidity_resolution_bits"`
	TemperatureBits   int    `yaml:"temperature_resolution_bits"`
	EndOfBattery      bool   `yaml:"end_of_battery"`
	HeaterEnabled     bool   `yaml:"heater_enabled"`
	OTPReloadDisabled bool   `yaml:"otp_reload_disabled"`
}

func newRegisterReport(reg environment.UserRegister) registerReport {
	hum, temp := reg.Resolution()
	return registerReport{
		Raw:               fmt.Sprintf("%#02x", byte(reg)),
		HumidityBits:      hum,
		TemperatureBits:   temp,
		EndOfBattery:      reg.EndOfBattery(),
		HeaterEnabled:     reg.HeaterEnabled(),
		OTPReloadDisabled: reg.OTPReloadDisabled(),
	}
}

var resetCmd = cli.Command{
	Name:  "reset",
	Usage: "soft reset the sensor and print its user register",
	Flags: []cli.Flag{
		&cli.BoolFlag{
			Name:    "yes",
			Aliases: []string{"y"},
			Usage:   "do not ask for confirmation",
		},
	},
	Action: func(c *cli.Context) error {
		if !c.Bool("yes") {
			ok, err := console.Confirm("Reset the sensor?", true)
			if err != nil {
				return console.Exit(1, "prompt error: %s", console.Red(err))
			}
			if !ok {
				return nil
			}
		}
		cfg, err := resolveConfig(c)
		if err != nil {
			return console.Exit(1, "configuration error: %s", console.Red(err))
		}
		// opening the sensor already resets it once
		s, closeSensor, err := openHTU21D(c.Context, cfg)
		if err != nil {
			return console.Exit(1, "sensor initialization error: %s", console.Red(err))
		}
		defer closeSensor()
		reg, err := s.ReadUserRegister(c.Context)
		if err != nil {
			return console.Exit(1, "error reading user register: %s", console.Red(err))
		}
		console.PInfof(console.PictoReset, "sensor reset")
		return encodeYAML(newRegisterReport(reg))
	},
}
