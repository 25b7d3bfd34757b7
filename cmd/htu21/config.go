package main

import (
	"fmt"
	"os"
	"strconv"
	"time"

	"github.com/urfave/cli/v2"
	"gopkg.in/yaml.v3"

	"github.com/mklimuk/htu21"
	"github.com/mklimuk/htu21/i2c"
)

const (
	adapterDevfs   = "devfs"
	adapterPeriph  = "periph"
	adapterRaspi   = "raspi"
	adapterMCP2221 = "mcp2221"
	adapterMock    = "mock"
)

type config struct {
	Adapter  string        `yaml:"adapter"`
	Bus      string        `yaml:"bus"`
	Address  string        `yaml:"address"`
	Interval time.Duration `yaml:"interval"`
}

func defaultConfig() config {
	return config{
		Adapter:  adapterDevfs,
		Interval: 5 * time.Second,
	}
}

// loadConfig reads path over the defaults; an empty path keeps the defaults.
func loadConfig(path string) (config, error) {
	cfg := defaultConfig()
	if path == "" {
		return cfg, nil
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return cfg, fmt.Errorf("could not read config: %w", err)
	}
	err = yaml.Unmarshal(data, &cfg)
	if err != nil {
		return cfg, fmt.Errorf("could not parse config %s: %w", path, err)
	}
	return cfg, nil
}

// resolveConfig loads the config file and applies flags given explicitly.
func resolveConfig(c *cli.Context) (config, error) {
	cfg, err := loadConfig(c.String("config"))
	if err != nil {
		return cfg, err
	}
	if c.IsSet("adapter") {
		cfg.Adapter = c.String("adapter")
	}
	if c.IsSet("bus") {
		cfg.Bus = c.String("bus")
	}
	if c.IsSet("address") {
		cfg.Address = c.String("address")
	}
	if c.IsSet("interval") {
		cfg.Interval = c.Duration("interval")
	}
	return cfg, nil
}

// bus returns the configured bus number or -1 to scan.
func (cfg config) bus() (int, error) {
	if cfg.Bus == "" {
		return -1, nil
	}
	return i2c.ParseBus(cfg.Bus)
}

func (cfg config) address() (uint16, error) {
	if cfg.Address == "" {
		return htu21.DefaultAddress, nil
	}
	addr, err := strconv.ParseUint(cfg.Address, 0, 7)
	if err != nil {
		return 0, fmt.Errorf("invalid address %q: %w", cfg.Address, err)
	}
	return uint16(addr), nil
}
