// SPDX-License-Identifier: GPL-2.0-or-later
// Copyright (c) 2025 Kaz Walker, Thermoquad

package cmd

import (
	"io"
	"os"

	"github.com/rs/zerolog"
	"github.com/spf13/cobra"

	"github.com/Thermoquad/rftool/pkg/config"
	"github.com/Thermoquad/rftool/pkg/logging"
)

var (
	// Serial connection flags
	portName string
	baudRate int

	// WebSocket connection flags
	wsURL         string
	wsUsername    string
	wsNoSSLVerify bool

	configPath string
	logLevel   string
)

var (
	cfg       = config.Default()
	logger    = zerolog.Nop()
	logCloser io.Closer
)

var rootCmd = &cobra.Command{
	Use:   "rftool",
	Short: "YKQ368 gate remote codec and RF bridge tool",
	Long: `rftool - decode, encode and transmit YKQ368 gate remote commands.

Decodes captured sample streams into symbols and frames, encodes send
instructions into bridge commands, and drives an RF bridge over serial or
WebSocket to transmit them or access its CC1101 transceiver.

Connection modes:
  Serial:    --port /dev/ttyUSB0 [--baud 115200]
  WebSocket: --url ws://host/path [--username user]

Settings may also come from a TOML or YAML file (--config) and the
RFTOOL_PORT, RFTOOL_BAUD and RFTOOL_URL environment variables. Flags win.

For WebSocket authentication, the password is read from the RFTOOL_PASSWORD
environment variable, or prompted interactively if not set. The --password
flag is intentionally not provided to avoid leaking credentials in shell history.`,
	Version:            "0.3.0",
	SilenceUsage:       true,
	PersistentPreRunE:  setup,
	PersistentPostRunE: teardown,
}

func init() {
	// Serial connection flags
	rootCmd.PersistentFlags().StringVarP(&portName, "port", "p", "", "Serial port device")
	rootCmd.PersistentFlags().IntVarP(&baudRate, "baud", "b", 115200, "Baud rate (serial only)")

	// WebSocket connection flags
	rootCmd.PersistentFlags().StringVarP(&wsURL, "url", "u", "", "WebSocket URL (ws:// or wss://)")
	rootCmd.PersistentFlags().StringVar(&wsUsername, "username", "", "Username for HTTP Basic auth")
	rootCmd.PersistentFlags().BoolVar(&wsNoSSLVerify, "no-ssl-verify", false, "Skip TLS certificate verification (wss:// only)")

	rootCmd.PersistentFlags().StringVarP(&configPath, "config", "c", "", "Config file (.toml, .yaml or .yml)")
	rootCmd.PersistentFlags().StringVar(&logLevel, "log-level", "", "Log level (trace, debug, info, warn, error, off)")
}

// setup loads the configuration, applies flag overrides and starts the logger
func setup(cmd *cobra.Command, args []string) error {
	loaded, err := config.Load(configPath)
	if err != nil {
		return err
	}
	cfg = loaded

	flags := cmd.Flags()
	if flags.Changed("port") {
		cfg.Serial.Port = portName
	}
	if flags.Changed("baud") {
		cfg.Serial.Baud = baudRate
	}
	if flags.Changed("url") {
		cfg.WebSocket.URL = wsURL
	}
	if flags.Changed("username") {
		cfg.WebSocket.Username = wsUsername
	}
	if flags.Changed("no-ssl-verify") {
		cfg.WebSocket.NoSSLVerify = wsNoSSLVerify
	}
	if flags.Changed("log-level") {
		cfg.Log.Level = logLevel
	}
	if err := cfg.Validate(); err != nil {
		return err
	}

	logCfg := cfg.Log.Logging(logging.ProfileRuntime)
	logging.ApplyEnv(&logCfg)
	if lvl, ok := logging.ParseLevel(logLevel); ok && flags.Changed("log-level") {
		logCfg.Level = lvl
	}
	logger, logCloser = logging.New("rftool", logCfg)
	cfg.Summary(logger.With().Str("command", cmd.Name()).Logger())
	return nil
}

func teardown(cmd *cobra.Command, args []string) error {
	return closeLog()
}

func closeLog() error {
	if logCloser == nil {
		return nil
	}
	err := logCloser.Close()
	logCloser = nil
	return err
}

// osExit is swapped out in tests
var osExit = os.Exit

// exit closes the log file and exits with code
func exit(code int) {
	closeLog()
	osExit(code)
}

// Execute runs the root command
func Execute() error {
	return rootCmd.Execute()
}
