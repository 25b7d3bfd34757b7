package main

import (
	"github.com/urfave/cli/v2"

	"github.com/mklimuk/htu21/cmd/htu21/console"
	"github.com/mklimuk/htu21/i2c"
)

var busesCmd = cli.Command{
	Name:  "buses",
	Usage: "list accessible i2c buses",
	Action: func(c *cli.Context) error {
		buses := i2c.AccessibleBuses(i2c.Accessible)
		if len(buses) == 0 {
			return console.Exit(1, "no accessible bus in %s..%s", i2c.BusPath(0), i2c.BusPath(i2c.MaxBusScan-1))
		}
		for i, bus := range buses {
			mark := ""
			if i == 0 {
				mark = console.Green(" (default)")
			}
			console.PInfof(console.PictoBus, "%s%s", console.White(i2c.BusPath(bus)), mark)
		}
		return nil
	},
}
