// SPDX-License-Identifier: Apache-2.0
// Copyright (c) 2025 Kaz Walker, Thermoquad

// Package logging configures the structured diagnostic logger.
//
// Diagnostics go to stderr (and optionally a rotated log file); command
// results are printed to stdout by the commands themselves.
package logging

import (
	"io"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
	"gopkg.in/natefinch/lumberjack.v2"
)

// Environment overrides
const (
	EnvLogLevel     = "RFTOOL_LOG_LEVEL"
	EnvLogTimestamp = "RFTOOL_LOG_TIMESTAMP"
	EnvLogNoColor   = "RFTOOL_LOG_NOCOLOR"
)

// Profile selects the logging defaults
type Profile int

const (
	ProfileRuntime Profile = iota
	ProfileTest
)

// Config describes the logger outputs
type Config struct {
	Level     zerolog.Level
	Timestamp bool
	NoColor   bool

	// Console output, stderr when nil
	Out io.Writer

	// File enables a rotated log file in addition to the console
	File       string
	MaxSizeMB  int
	MaxBackups int
}

// DefaultConfig returns the defaults for a profile
func DefaultConfig(profile Profile) Config {
	cfg := Config{
		MaxSizeMB:  10,
		MaxBackups: 3,
	}
	switch profile {
	case ProfileTest:
		cfg.Level = zerolog.DebugLevel
		cfg.Timestamp = false
	default:
		cfg.Level = zerolog.InfoLevel
		cfg.Timestamp = true
	}
	return cfg
}

// ApplyEnv overrides cfg from the RFTOOL_LOG_* environment variables
func ApplyEnv(cfg *Config) {
	if lvl, ok := ParseLevel(os.Getenv(EnvLogLevel)); ok {
		cfg.Level = lvl
	}
	if v, ok := parseBool(os.Getenv(EnvLogTimestamp)); ok {
		cfg.Timestamp = v
	}
	if v, ok := parseBool(os.Getenv(EnvLogNoColor)); ok {
		cfg.NoColor = v
	}
}

// New builds a logger tagged with app and installs it as the global logger.
// The returned closer releases the log file, if any.
func New(app string, cfg Config) (zerolog.Logger, io.Closer) {
	out := cfg.Out
	if out == nil {
		out = os.Stderr
	}
	console := zerolog.ConsoleWriter{
		Out:        out,
		NoColor:    cfg.NoColor,
		TimeFormat: time.RFC3339,
	}
	if !cfg.Timestamp {
		console.PartsExclude = []string{zerolog.TimestampFieldName}
	}

	var writer io.Writer = console
	var closer io.Closer = nopCloser{}
	if cfg.File != "" {
		file := &lumberjack.Logger{
			Filename:   cfg.File,
			MaxSize:    cfg.MaxSizeMB,
			MaxBackups: cfg.MaxBackups,
		}
		writer = zerolog.MultiLevelWriter(console, file)
		closer = file
	}

	logger := zerolog.New(writer).Level(cfg.Level).With().Timestamp().Str("app", app).Logger()
	log.Logger = logger
	return logger, closer
}

// ParseLevel parses a level name. ok is false for empty or unknown names.
func ParseLevel(raw string) (zerolog.Level, bool) {
	switch strings.ToLower(strings.TrimSpace(raw)) {
	case "":
		return zerolog.InfoLevel, false
	case "trace":
		return zerolog.TraceLevel, true
	case "debug":
		return zerolog.DebugLevel, true
	case "info":
		return zerolog.InfoLevel, true
	case "warn", "warning":
		return zerolog.WarnLevel, true
	case "error":
		return zerolog.ErrorLevel, true
	case "disabled", "disable", "off", "none":
		return zerolog.Disabled, true
	default:
		return zerolog.InfoLevel, false
	}
}

func parseBool(raw string) (bool, bool) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return false, false
	}
	v, err := strconv.ParseBool(raw)
	if err != nil {
		return false, false
	}
	return v, true
}

type nopCloser struct{}

func (nopCloser) Close() error { return nil }
