package main

import (
	"flag"
	"fmt"
	"time"
)

// Config holds parameters for the telemetry simulator.
type Config struct {
	Broker      string
	Count       int
	Interval    time.Duration
	VehicleType string
	Verbose     bool
}

func parseFlags() Config {
	var cfg Config
	flag.StringVar(&cfg.Broker, "broker", "tcp://localhost:1883", "MQTT broker URL")
	flag.IntVar(&cfg.Count, "count", 1, "number of simulated vehicles")
	flag.DurationVar(&cfg.Interval, "interval", time.Second, "telemetry publish interval")
	flag.StringVar(&cfg.VehicleType, "vehicle", "BEV1", "vehicle type reported in telemetry")
	flag.BoolVar(&cfg.Verbose, "verbose", false, "log received advice")
	flag.Parse()
	return cfg
}

func (c *Config) Validate() error {
	if c.Broker == "" {
		return fmt.Errorf("broker is required")
	}
	if c.Count <= 0 {
		return fmt.Errorf("count must be positive")
	}
	if c.Interval <= 0 {
		return fmt.Errorf("interval must be positive")
	}
	return nil
}
