// SPDX-License-Identifier: Apache-2.0
// Copyright (c) 2025 Kaz Walker, Thermoquad

// Package config loads rftool settings from TOML or YAML files and the
// environment.
package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/BurntSushi/toml"
	"github.com/rs/zerolog"
	"gopkg.in/yaml.v2"

	"github.com/Thermoquad/rftool/pkg/logging"
	"github.com/Thermoquad/rftool/pkg/tester"
	"github.com/Thermoquad/rftool/pkg/ykq368"
)

// Environment overrides
const (
	EnvPort = "RFTOOL_PORT"
	EnvBaud = "RFTOOL_BAUD"
	EnvURL  = "RFTOOL_URL"
)

// ErrUnsupportedFormat is returned for config files that are neither TOML nor YAML
var ErrUnsupportedFormat = errors.New("unsupported config format")

// Config is the complete rftool configuration
type Config struct {
	Serial    SerialConfig    `toml:"serial" yaml:"serial"`
	WebSocket WebSocketConfig `toml:"websocket" yaml:"websocket"`
	Timing    ykq368.Timing   `toml:"timing" yaml:"timing"`
	Keys      KeysConfig      `toml:"keys" yaml:"keys"`
	Tester    TesterConfig    `toml:"tester" yaml:"tester"`
	Log       LogConfig       `toml:"log" yaml:"log"`
}

// SerialConfig holds the serial bridge settings
type SerialConfig struct {
	Port string `toml:"port" yaml:"port"`
	Baud int    `toml:"baud" yaml:"baud"`
}

// WebSocketConfig holds the networked bridge settings.
// The password is never read from config.
type WebSocketConfig struct {
	URL         string `toml:"url" yaml:"url"`
	Username    string `toml:"username" yaml:"username"`
	NoSSLVerify bool   `toml:"no_ssl_verify" yaml:"no_ssl_verify"`
}

// KeysConfig holds the captured code of one remote
type KeysConfig struct {
	SendParts string `toml:"send_parts" yaml:"send_parts"`
	Skip      uint8  `toml:"skip" yaml:"skip"`
	Repeat    uint8  `toml:"repeat" yaml:"repeat"`
	Preamble  uint16 `toml:"preamble" yaml:"preamble"`

	Close uint64 `toml:"close" yaml:"close"`
	Open  uint64 `toml:"open" yaml:"open"`
	Lock  uint64 `toml:"lock" yaml:"lock"`
	Stop  uint64 `toml:"stop" yaml:"stop"`
}

// TesterConfig holds the interactive test settings
type TesterConfig struct {
	Count    int    `toml:"count" yaml:"count"`
	Encoding string `toml:"encoding" yaml:"encoding"`
	Dest     string `toml:"dest" yaml:"dest"`
}

// LogConfig holds the diagnostic logger settings
type LogConfig struct {
	Level      string `toml:"level" yaml:"level"`
	File       string `toml:"file" yaml:"file"`
	MaxSizeMB  int    `toml:"max_size_mb" yaml:"max_size_mb"`
	MaxBackups int    `toml:"max_backups" yaml:"max_backups"`
	NoColor    bool   `toml:"no_color" yaml:"no_color"`
}

// Default returns the built-in configuration
func Default() *Config {
	return &Config{
		Serial: SerialConfig{
			Baud: 115200,
		},
		Timing: ykq368.DefaultTiming(),
		Keys: KeysConfig{
			SendParts: ykq368.SendAll.String(),
			Repeat:    3,
		},
		Tester: TesterConfig{
			Count:    1,
			Encoding: tester.EncodingPreambleAndData.String(),
			Dest:     ".",
		},
		Log: LogConfig{
			Level:      "info",
			MaxSizeMB:  10,
			MaxBackups: 3,
		},
	}
}

// Load reads defaults, then path (if not empty), then the environment,
// and validates the result
func Load(path string) (*Config, error) {
	cfg := Default()

	if path != "" {
		if err := loadFromFile(cfg, path); err != nil {
			return nil, fmt.Errorf("failed to load config from %s: %w", path, err)
		}
	}

	if err := applyEnvOverrides(cfg); err != nil {
		return nil, err
	}

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("configuration validation failed: %w", err)
	}

	return cfg, nil
}

// loadFromFile decodes path over cfg. Keys missing from the file keep their current values.
func loadFromFile(cfg *Config, path string) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return err
	}

	switch strings.ToLower(filepath.Ext(path)) {
	case ".toml":
		_, err = toml.Decode(string(data), cfg)
	case ".yaml", ".yml":
		err = yaml.UnmarshalStrict(data, cfg)
	default:
		return fmt.Errorf("%w: %q", ErrUnsupportedFormat, filepath.Ext(path))
	}
	return err
}

func applyEnvOverrides(cfg *Config) error {
	if port := os.Getenv(EnvPort); port != "" {
		cfg.Serial.Port = port
	}
	if raw := os.Getenv(EnvBaud); raw != "" {
		baud, err := strconv.Atoi(raw)
		if err != nil {
			return fmt.Errorf("invalid %s %q: %w", EnvBaud, raw, err)
		}
		cfg.Serial.Baud = baud
	}
	if url := os.Getenv(EnvURL); url != "" {
		cfg.WebSocket.URL = url
	}
	return nil
}

// Validate checks the configuration
func (c *Config) Validate() error {
	if c.Serial.Baud <= 0 {
		return fmt.Errorf("baud rate must be positive: %d", c.Serial.Baud)
	}
	if err := c.Timing.Validate(); err != nil {
		return fmt.Errorf("timing: %w", err)
	}
	if _, err := ykq368.ParseSendParts(c.Keys.SendParts); err != nil {
		return fmt.Errorf("keys: %w", err)
	}
	if c.Keys.Skip > ykq368.SkipMask {
		return fmt.Errorf("keys: skip %d exceeds %d", c.Keys.Skip, ykq368.SkipMask)
	}
	if c.Tester.Count < 0 {
		return fmt.Errorf("tester: count must not be negative: %d", c.Tester.Count)
	}
	if _, err := tester.ParseEncoding(c.Tester.Encoding); err != nil {
		return fmt.Errorf("tester: %w", err)
	}
	if _, ok := logging.ParseLevel(c.Log.Level); !ok {
		return fmt.Errorf("log: unknown level %q", c.Log.Level)
	}
	return nil
}

// KeySet returns the remote code for the tester
func (k KeysConfig) KeySet() tester.KeySet {
	var set tester.KeySet
	set.Preamble = ykq368.Preamble(k.Preamble)
	set.Skip = k.Skip
	set.Repeat = k.Repeat
	set.Data.Set(tester.KeyClose, ykq368.Data(k.Close))
	set.Data.Set(tester.KeyOpen, ykq368.Data(k.Open))
	set.Data.Set(tester.KeyLock, ykq368.Data(k.Lock))
	set.Data.Set(tester.KeyStop, ykq368.Data(k.Stop))
	return set
}

// Instr returns the send instruction configured for key
func (k KeysConfig) Instr(key tester.Key) (ykq368.SendInstr, error) {
	parts, err := ykq368.ParseSendParts(k.SendParts)
	if err != nil {
		return ykq368.SendInstr{}, err
	}
	data := k.KeySet().Data.Get(key)
	if data == 0 {
		return ykq368.SendInstr{}, fmt.Errorf("%w: %s", tester.ErrMissingKey, key)
	}
	return ykq368.SendInstr{
		Send:     parts,
		Skip:     k.Skip,
		Preamble: ykq368.Preamble(k.Preamble),
		Data:     data,
		Repeat:   k.Repeat,
	}, nil
}

// Logging converts the log section into a logger config for profile
func (l LogConfig) Logging(profile logging.Profile) logging.Config {
	cfg := logging.DefaultConfig(profile)
	if lvl, ok := logging.ParseLevel(l.Level); ok {
		cfg.Level = lvl
	}
	cfg.NoColor = l.NoColor
	cfg.File = l.File
	if l.MaxSizeMB > 0 {
		cfg.MaxSizeMB = l.MaxSizeMB
	}
	if l.MaxBackups > 0 {
		cfg.MaxBackups = l.MaxBackups
	}
	return cfg
}

// Summary logs the effective connection settings
func (c *Config) Summary(logger zerolog.Logger) {
	logger.Debug().
		Str("port", c.Serial.Port).
		Int("baud", c.Serial.Baud).
		Str("url", c.WebSocket.URL).
		Str("send_parts", c.Keys.SendParts).
		Uint8("repeat", c.Keys.Repeat).
		Msg("configuration loaded")
}
