// Package monitor samples a temperature and humidity sensor periodically.
package monitor

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/mklimuk/htu21/environment"
)

type Reading struct {
	Time        time.Time `yaml:"time"`
	Temperature float32   `yaml:"temperature"`
	Humidity    float32   `yaml:"humidity"`
}

// Sink receives every successful reading.
type Sink func(Reading)

type PollerOpts struct {
	// MaxFailures stops Run after that many consecutive failed readings.
	// Zero keeps polling forever.
	MaxFailures int
	Logger      *slog.Logger
}

type PollerOpt func(*PollerOpts)

func WithMaxFailures(n int) PollerOpt {
	return func(o *PollerOpts) {
		o.MaxFailures = n
	}
}

func WithLogger(logger *slog.Logger) PollerOpt {
	return func(o *PollerOpts) {
		o.Logger = logger
	}
}

// Poller reads the sensor every interval and hands readings to a sink.
type Poller struct {
	sensor   environment.TempHumSensor
	interval time.Duration
	sink     Sink
	config   PollerOpts
	now      func() time.Time
}

func NewPoller(sensor environment.TempHumSensor, interval time.Duration, sink Sink, opts ...PollerOpt) *Poller {
	config := PollerOpts{Logger: slog.Default()}
	for _, opt := range opts {
		opt(&config)
	}
	return &Poller{
		sensor:   sensor,
		interval: interval,
		sink:     sink,
		config:   config,
		now:      time.Now,
	}
}

// Poll takes a single reading.
func (p *Poller) Poll(ctx context.Context) (Reading, error) {
	temp, hum, err := p.sensor.GetTempAndHum(ctx)
	if err != nil {
		return Reading{}, err
	}
	return Reading{Time: p.now(), Temperature: temp, Humidity: hum}, nil
}

// Run polls right away and then on every tick until ctx is done. It returns
// nil on cancellation and an error once MaxFailures consecutive readings fail.
func (p *Poller) Run(ctx context.Context) error {
	if p.interval <= 0 {
		return fmt.Errorf("invalid poll interval %s", p.interval)
	}
	ticker := time.NewTicker(p.interval)
	defer ticker.Stop()
	failures := 0
	for {
		reading, err := p.Poll(ctx)
		switch {
		case ctx.Err() != nil:
			return nil
		case err != nil:
			failures++
			p.config.Logger.Error("sensor reading failed", "error", err, "failures", failures)
			if p.config.MaxFailures > 0 && failures >= p.config.MaxFailures {
				return fmt.Errorf("%d consecutive readings failed: %w", failures, err)
			}
		default:
			failures = 0
			p.config.Logger.Debug("sensor reading", "temperature", reading.Temperature, "humidity", reading.Humidity)
			p.sink(reading)
		}
		select {
		case <-ctx.Done():
			return nil
		case <-ticker.C:
		}
	}
}
