package main

import (
	"os/signal"
	"syscall"

	"github.com/urfave/cli/v2"

	"github.com/mklimuk/htu21/cmd/htu21/console"
	"github.com/mklimuk/htu21/monitor"
)

var watchCmd = cli.Command{
	Name:  "watch",
	Usage: "poll the sensor until interrupted",
	Flags: []cli.Flag{
		&cli.DurationFlag{
			Name:    "interval",
			Aliases: []string{"i"},
			Usage:   "time between readings (default 5s)",
		},
		&cli.IntFlag{
			Name:  "max-failures",
			Usage: "stop after that many consecutive failed readings, 0 never stops",
		},
		formatFlag,
	},
	Action: func(c *cli.Context) error {
		cfg, err := resolveConfig(c)
		if err != nil {
			return console.Exit(1, "configuration error: %s", console.Red(err))
		}
		ctx, stop := signal.NotifyContext(c.Context, syscall.SIGINT, syscall.SIGTERM)
		defer stop()
		s, closeSensor, err := openSensor(ctx, cfg)
		if err != nil {
			return console.Exit(1, "sensor initialization error: %s", console.Red(err))
		}
		defer closeSensor()
		format := c.String("format")
		p := monitor.NewPoller(s, cfg.Interval, func(r monitor.Reading) {
			if err := printReading(format, "all", r); err != nil {
				console.Errorf("%s", err)
			}
		}, monitor.WithMaxFailures(c.Int("max-failures")))
		err = p.Run(ctx)
		if err != nil && ctx.Err() == nil {
			return console.Exit(1, "watch stopped: %s", console.Red(err))
		}
		return nil
	},
}
