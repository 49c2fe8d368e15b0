package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"github.com/BurntSushi/toml"
	"github.com/adrg/xdg"

	"github.com/bamsammich/synclink/internal/snapshot"
)

// Config represents the optional synclink configuration file.
type Config struct {
	Defaults DefaultsConfig `toml:"defaults"`
	Theme    ThemeConfig    `toml:"theme"`
}

// DefaultsConfig holds persistent flag defaults. A nil field means the
// option was not set in the file.
type DefaultsConfig struct {
	Verbose *bool   `toml:"verbose"`
	Quiet   *bool   `toml:"quiet"`
	Debug   *bool   `toml:"debug"`
	DumpDir *string `toml:"dump_dir"`
	MaxOps  *int    `toml:"max_ops"`
	Sort    *string `toml:"sort"`
	History *bool   `toml:"history"`
}

// ThemeConfig holds optional color overrides for the feed.
type ThemeConfig struct {
	Green  *string `toml:"green"`
	Blue   *string `toml:"blue"`
	Yellow *string `toml:"yellow"`
	Red    *string `toml:"red"`
	Muted  *string `toml:"muted"`
}

// Path returns the resolved path to the config file.
func Path() string {
	return filepath.Join(xdg.ConfigHome, "synclink", "config.toml")
}

// Load reads the config file from the XDG path. Returns a zero Config
// (no error) if the file does not exist. Config is always optional.
func Load() (Config, error) {
	return LoadFile(Path())
}

// LoadFile reads and validates the config file at path. A missing file
// yields a zero Config.
func LoadFile(path string) (Config, error) {
	var cfg Config
	md, err := toml.DecodeFile(path, &cfg)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return Config{}, nil
		}
		return Config{}, fmt.Errorf("config %s: %w", path, err)
	}
	if undecoded := md.Undecoded(); len(undecoded) > 0 {
		return Config{}, fmt.Errorf("config %s: unknown key %q", path, undecoded[0].String())
	}
	if err := cfg.validate(); err != nil {
		return Config{}, fmt.Errorf("config %s: %w", path, err)
	}
	return cfg, nil
}

func (c Config) validate() error {
	d := c.Defaults
	if d.MaxOps != nil && *d.MaxOps < 0 {
		return fmt.Errorf("max_ops must not be negative, got %d", *d.MaxOps)
	}
	if d.Sort != nil {
		if _, err := snapshot.ParseAlgorithm(*d.Sort); err != nil {
			return err
		}
	}
	if d.Verbose != nil && d.Quiet != nil && *d.Verbose && *d.Quiet {
		return errors.New("verbose and quiet are mutually exclusive")
	}
	return nil
}
