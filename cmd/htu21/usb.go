package main

import (
	"fmt"
	"text/tabwriter"

	"github.com/karalabe/hid"
	"github.com/urfave/cli/v2"

	"github.com/mklimuk/htu21/adapter"
	"github.com/mklimuk/htu21/cmd/htu21/console"
)

var usbCmd = cli.Command{
	Name:  "usb",
	Usage: "inspect USB HID devices",
	Subcommands: cli.Commands{
		&usbLsCmd,
		&usbDetectCmd,
	},
}

var usbLsCmd = cli.Command{
	Name:  "ls",
	Usage: "list all HID devices",
	Action: func(c *cli.Context) error {
		devices := hid.Enumerate(0, 0)

		w := tabwriter.NewWriter(console.Writer(), 24, 0, 1, ' ', 0)
		_, _ = fmt.Fprintf(w, "PATH\tSERIAL\tVENDOR\tPRODUCT ID\tMANUFACTURER\tPRODUCT\n")
		for _, dev := range devices {
			_, _ = fmt.Fprintf(w, "%s\t%s\t%#x\t%#x\t%s\t%s\n",
				dev.Path, dev.Serial, dev.VendorID, dev.ProductID, dev.Manufacturer, dev.Product)
		}
		_ = w.Flush()
		return nil
	},
}

var usbDetectCmd = cli.Command{
	Name:  "detect",
	Usage: "list attached I2C bridges usable with --adapter",
	Action: func(c *cli.Context) error {
		devices := hid.Enumerate(adapter.VendorID, adapter.ProductID)
		if len(devices) == 0 {
			return console.Exit(1, "no supported bridge found")
		}
		w := tabwriter.NewWriter(console.Writer(), 24, 0, 1, ' ', 0)
		_, _ = fmt.Fprintf(w, "VENDOR\tPRODUCT\tSERIAL\tADAPTER\n")
		for _, dev := range devices {
			_, _ = fmt.Fprintf(w, "%#x\t%#x\t%s\t%s\n", dev.VendorID, dev.ProductID, dev.Serial, adapterMCP2221)
		}
		_ = w.Flush()
		return nil
	},
}
