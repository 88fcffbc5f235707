// Copyright 2024 The brkv Authors.
//
// Use of this software is governed by the Apache License, Version 2.0
// included in the LICENSE file.

package server

import (
	"os"

	"github.com/cockroachdb/errors"
	"gopkg.in/yaml.v3"
)

// Config is the brkvd server configuration.
type Config struct {
	// ListenAddr is the gRPC listen address, host:port.
	ListenAddr string    `yaml:"listen_addr"`
	Log        LogConfig `yaml:"log"`
	IO         IOConfig  `yaml:"io"`
}

// LogConfig controls process logging.
type LogConfig struct {
	// Level is a zerolog level name: debug, info, warn, error.
	Level string `yaml:"level"`
	// Format is "json" or "console".
	Format string `yaml:"format"`
}

// IOConfig controls external storage I/O policy.
type IOConfig struct {
	// Dir is the root for nodelocal storage paths. Empty disables
	// nodelocal.
	Dir string `yaml:"dir"`
	// RestoreDir is where remotely requested restores are written.
	RestoreDir string `yaml:"restore_dir"`
	// DisableOutbound rejects any storage backend that would dial out.
	DisableOutbound bool `yaml:"disable_outbound"`
	// DisableImplicitCredentials rejects cloud backends that rely on
	// ambient machine credentials.
	DisableImplicitCredentials bool `yaml:"disable_implicit_credentials"`
}

// DefaultConfig returns the configuration used when no config file is
// given.
func DefaultConfig() *Config {
	return &Config{
		ListenAddr: "localhost:26659",
		Log: LogConfig{
			Level:  "info",
			Format: "console",
		},
		IO: IOConfig{
			Dir:        "./data/extern",
			RestoreDir: "./data/restore",
		},
	}
}

// LoadConfig reads a yaml config file. Fields missing from the file
// keep their default values.
func LoadConfig(filename string) (*Config, error) {
	data, err := os.ReadFile(filename)
	if err != nil {
		return nil, errors.Wrapf(err, "reading config file %q", filename)
	}
	cfg := DefaultConfig()
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, errors.Wrapf(err, "parsing config file %q", filename)
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Validate checks the configuration for obvious mistakes.
func (c *Config) Validate() error {
	if c.ListenAddr == "" {
		return errors.New("listen_addr must not be empty")
	}
	switch c.Log.Format {
	case "", "json", "console":
	default:
		return errors.Newf("unknown log format %q", c.Log.Format)
	}
	return nil
}
