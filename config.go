package main

import (
	"fmt"
	"os"
	"runtime"

	"gopkg.in/yaml.v3"
)

// Config holds search tuning parameters. Adjust these to trade speed for solution quality.
type Config struct {
	// WorkingSetSize is how many towers, ranked by summed score over all three
	// waves, enter the exhaustive partition search. Towers outside this set are
	// never assigned, so a niche counter with low overall utility can be missed.
	// Values below 9 are raised to 9.
	WorkingSetSize int `yaml:"working_set_size"`
	// Workers is the number of goroutines enumerating partitions (0 = GOMAXPROCS).
	Workers int `yaml:"workers"`
	// AnchorTower is always part of a ranked lineup.
	AnchorTower string `yaml:"anchor_tower"`
	// LineupSize is the number of towers in a ranked lineup, anchor included.
	LineupSize int `yaml:"lineup_size"`
	// LineupTopN caps the number of lineups returned.
	LineupTopN int `yaml:"lineup_top_n"`
}

// DefaultConfig returns the tuning used by the CLI and the Lambda handler.
func DefaultConfig() Config {
	return Config{
		WorkingSetSize: 9,
		Workers:        0,
		AnchorTower:    "guardian",
		LineupSize:     5,
		LineupTopN:     10,
	}
}

// LoadConfig overlays the YAML file at path onto DefaultConfig. Keys absent
// from the file keep their default value.
func LoadConfig(path string) (Config, error) {
	cfg := DefaultConfig()
	raw, err := os.ReadFile(path)
	if err != nil {
		return cfg, fmt.Errorf("read config: %w", err)
	}
	if err := yaml.Unmarshal(raw, &cfg); err != nil {
		return cfg, fmt.Errorf("parse config %s: %w", path, err)
	}
	return cfg, nil
}

func (c Config) workers() int {
	if c.Workers > 0 {
		return c.Workers
	}
	return runtime.GOMAXPROCS(0)
}

// Verbose controls whether detailed search progress is printed to stderr.
var Verbose bool
