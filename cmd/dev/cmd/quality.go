package cmd

import (
	"fmt"
	"log/slog"
	"os"
	"strconv"

	"github.com/gophertribe/devtool/test"
	"github.com/spf13/cobra"

	"github.com/mklimuk/htu21/i2c"
)

func TestCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "test",
		Short: "Run unit tests; hardware tests are skipped",
		RunE: func(cmd *cobra.Command, args []string) error {
			err := test.Test()
			if err != nil {
				return fmt.Errorf("failed to run tests: %w", err)
			}
			return nil
		},
	}
}

func LintCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "lint",
		Short: "Run golangci-lint",
		RunE: func(cmd *cobra.Command, args []string) error {
			err := test.Lint()
			if err != nil {
				return fmt.Errorf("failed to run linting: %w", err)
			}
			return nil
		},
	}
}

// integrationEnv validates the sensor location and maps it to the variables
// read by the hardware tests in the environment package. Empty values are
// left out so the tests fall back to bus discovery and the default address.
func integrationEnv(bus, address string) (map[string]string, error) {
	env := map[string]string{}
	if bus != "" {
		if _, err := i2c.ParseBus(bus); err != nil {
			return nil, err
		}
		env["HTU21_TEST_BUS"] = bus
	}
	if address != "" {
		if _, err := strconv.ParseUint(address, 0, 7); err != nil {
			return nil, fmt.Errorf("invalid sensor address %q: %w", address, err)
		}
		env["HTU21_TEST_ADDRESS"] = address
	}
	return env, nil
}

func IntegrationTestCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "integration-test",
		Short: "Run the hardware tests against an HTU21D attached to this host",
		RunE: func(cmd *cobra.Command, args []string) error {
			bus, _ := cmd.Flags().GetString("bus")
			address, _ := cmd.Flags().GetString("address")
			env, err := integrationEnv(bus, address)
			if err != nil {
				return err
			}
			for k, v := range env {
				if err := os.Setenv(k, v); err != nil {
					return fmt.Errorf("could not set %s: %w", k, err)
				}
			}
			slog.Info("running integration tests", "bus", bus, "address", address)
			err = test.Integ()
			if err != nil {
				return fmt.Errorf("failed to run integration testing: %w", err)
			}
			return nil
		},
	}
	cmd.Flags().String("bus", "", "i2c bus number of the sensor, scanned when empty")
	cmd.Flags().String("address", "", "sensor address, e.g. 0x40")
	return cmd
}
