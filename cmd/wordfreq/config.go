package main

import (
	"fmt"
	"os"
	"slices"
	"strconv"
	"time"

	"github.com/urfave/cli/v2"
	"gopkg.in/yaml.v3"
)

// fileConfig mirrors the command line flags. Values from the file are
// used only for flags that were not given explicitly.
type fileConfig struct {
	URL          string        `yaml:"url"`
	File         string        `yaml:"file"`
	Mappers      int           `yaml:"mappers"`
	Reducers     int           `yaml:"reducers"`
	Partition    string        `yaml:"partition"`
	PhaseTimeout time.Duration `yaml:"phase_timeout"`
	Top          int           `yaml:"top"`
	Bbolt        string        `yaml:"bbolt"`
	SQLite       string        `yaml:"sqlite"`
	Run          string        `yaml:"run"`
	OTel         string        `yaml:"otel"`
	LogLevel     string        `yaml:"log_level"`
}

func loadConfig(path string) (*fileConfig, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read config: %w", err)
	}

	var cfg fileConfig
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("parse config %s: %w", path, err)
	}

	return &cfg, nil
}

// withConfig loads the file named by --config, if any, into the flags of c.
// With only given, other values of the file are ignored.
func withConfig(c *cli.Context, only ...string) error {
	path := c.String("config")
	if path == "" {
		return nil
	}

	cfg, err := loadConfig(path)
	if err != nil {
		return err
	}

	return applyConfig(c, cfg, only...)
}

// applyConfig copies every non-zero value of cfg into the matching flag of
// c unless that flag was set on the command line.
func applyConfig(c *cli.Context, cfg *fileConfig, only ...string) error {
	values := []struct {
		flag  string
		value string
		zero  bool
	}{
		{"url", cfg.URL, cfg.URL == ""},
		{"file", cfg.File, cfg.File == ""},
		{"mappers", strconv.Itoa(cfg.Mappers), cfg.Mappers == 0},
		{"reducers", strconv.Itoa(cfg.Reducers), cfg.Reducers == 0},
		{"partition", cfg.Partition, cfg.Partition == ""},
		{"phase-timeout", cfg.PhaseTimeout.String(), cfg.PhaseTimeout == 0},
		{"top", strconv.Itoa(cfg.Top), cfg.Top == 0},
		{"bbolt", cfg.Bbolt, cfg.Bbolt == ""},
		{"sqlite", cfg.SQLite, cfg.SQLite == ""},
		{"run", cfg.Run, cfg.Run == ""},
		{"otel", cfg.OTel, cfg.OTel == ""},
		{"log-level", cfg.LogLevel, cfg.LogLevel == ""},
	}

	for _, v := range values {
		if v.zero || c.IsSet(v.flag) || (len(only) > 0 && !slices.Contains(only, v.flag)) {
			continue
		}
		if err := c.Set(v.flag, v.value); err != nil {
			return fmt.Errorf("config %s: %w", v.flag, err)
		}
	}

	return nil
}
