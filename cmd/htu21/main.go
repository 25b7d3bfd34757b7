package main

import (
	"errors"
	"fmt"
	"log"
	"log/slog"
	"os"
	"time"

	chlog "github.com/charmbracelet/log"
	"github.com/muesli/termenv"
	"github.com/urfave/cli/v2"

	"github.com/mklimuk/htu21/cmd/htu21/console"
	"github.com/mklimuk/htu21/snsctx"
)

// Set at build time with -ldflags "-X main.AppVersion=..." by `dev build`.
var (
	AppVersion string
	GitCommit  string
	GitBranch  string
	BuildTime  string
)

func appVersion() string {
	v := AppVersion
	if v == "" {
		v = "dev"
	}
	if GitCommit == "" {
		return v
	}
	v = fmt.Sprintf("%s (%s@%s)", v, GitBranch, GitCommit)
	if BuildTime != "" {
		v += " built " + BuildTime
	}
	return v
}

func main() {
	os.Exit(run(os.Args))
}

func run(args []string) int {
	app := cli.NewApp()
	app.Name = "htu21"
	app.EnableBashCompletion = true
	app.Version = appVersion()
	app.Usage = "HTU21D-F humidity and temperature sensor cli"
	app.Flags = []cli.Flag{
		&cli.BoolFlag{
			Name:  "verbose",
			Usage: "enable verbose logging and frame dumps",
		},
		&cli.StringFlag{
			Name:    "config",
			Aliases: []string{"c"},
			Usage:   "path to a yaml configuration file",
			EnvVars: []string{"HTU21_CONFIG"},
		},
		&cli.StringFlag{
			Name:    "adapter",
			Aliases: []string{"a"},
			Usage:   "bus adapter: devfs, periph, raspi, mcp2221 or mock",
		},
		&cli.StringFlag{
			Name:    "bus",
			Aliases: []string{"b"},
			Usage:   "i2c bus number, scanned when empty",
		},
		&cli.StringFlag{
			Name:  "address",
			Usage: "sensor address, e.g. 0x40",
		},
	}
	app.Before = func(c *cli.Context) error {
		charm := chlog.NewWithOptions(os.Stderr, chlog.Options{
			ReportCaller:    true,
			ReportTimestamp: true,
			TimeFormat:      time.DateTime,
			Prefix:          "htu21",
		})
		charm.SetColorProfile(termenv.TrueColor)
		charm.SetLevel(chlog.InfoLevel)
		if c.Bool("verbose") {
			charm.SetLevel(chlog.DebugLevel)
		}
		slog.SetDefault(slog.New(charm))
		c.Context = snsctx.SetVerbose(c.Context, c.Bool("verbose"))
		return nil
	}
	// exit codes are mapped below instead of exiting inside the cli package
	app.ExitErrHandler = func(c *cli.Context, err error) {}
	app.Commands = cli.Commands{
		&readCmd,
		&watchCmd,
		&resetCmd,
		&busesCmd,
		&usbCmd,
		&mcp2221Cmd,
	}
	err := app.Run(args)
	if err != nil {
		var exerr cli.ExitCoder
		if errors.As(err, &exerr) {
			console.Errorf("%v", err)
			return exerr.ExitCode()
		}
		log.Printf("unexpected error: %v", err)
		return 1
	}
	return 0
}
