// SPDX-License-Identifier: Apache-2.0
// Copyright (c) 2025 Kaz Walker, Thermoquad

package config

import (
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/rs/zerolog"

	"github.com/Thermoquad/rftool/pkg/logging"
	"github.com/Thermoquad/rftool/pkg/tester"
	"github.com/Thermoquad/rftool/pkg/ykq368"
)

const tomlConfig = `
[serial]
port = "/dev/ttyACM0"

[websocket]
url = "wss://bridge.local/rf"
username = "admin"
no_ssl_verify = true

[timing]
max_period = 120

[keys]
send_parts = "data"
repeat = 5
preamble = 0x0007
close = 0x312345678
open = 0x312345679
lock = 0x31234567a
stop = 0x31234567b

[tester]
count = 6
encoding = "random"
dest = "/tmp/runs"

[log]
level = "debug"
`

const yamlConfig = `
serial:
  port: /dev/ttyUSB1
  baud: 57600
timing:
  one:
    min: 12
    max: 30
keys:
  skip: 2
  preamble: 0x1fff
  close: 0x100
  open: 0x200
  lock: 0x300
  stop: 0x400
log:
  file: rftool.log
  max_backups: 7
`

func writeConfig(t *testing.T, name, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	if err := os.WriteFile(path, []byte(content), 0o600); err != nil {
		t.Fatalf("WriteFile() error = %v", err)
	}
	return path
}

func TestDefault(t *testing.T) {
	cfg := Default()
	if err := cfg.Validate(); err != nil {
		t.Fatalf("Default().Validate() error = %v", err)
	}
	if cfg.Serial.Baud != 115200 {
		t.Errorf("Baud = %d, want 115200", cfg.Serial.Baud)
	}
	if cfg.Timing != ykq368.DefaultTiming() {
		t.Errorf("Timing = %+v, want defaults", cfg.Timing)
	}
	if cfg.Keys.SendParts != "all" || cfg.Keys.Repeat != 3 || cfg.Keys.Skip != 0 {
		t.Errorf("Keys = %+v", cfg.Keys)
	}
	if cfg.Tester.Encoding != "preamble-and-data" {
		t.Errorf("Encoding = %q", cfg.Tester.Encoding)
	}
}

func TestLoad_NoFile(t *testing.T) {
	cfg, err := Load("")
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}
	if cfg.Serial.Port != "" {
		t.Errorf("Port = %q, want empty", cfg.Serial.Port)
	}
}

func TestLoad_TOML(t *testing.T) {
	cfg, err := Load(writeConfig(t, "rftool.toml", tomlConfig))
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}

	if cfg.Serial.Port != "/dev/ttyACM0" {
		t.Errorf("Port = %q", cfg.Serial.Port)
	}
	// Missing keys keep their defaults
	if cfg.Serial.Baud != 115200 {
		t.Errorf("Baud = %d, want default", cfg.Serial.Baud)
	}
	if cfg.WebSocket.URL != "wss://bridge.local/rf" || cfg.WebSocket.Username != "admin" || !cfg.WebSocket.NoSSLVerify {
		t.Errorf("WebSocket = %+v", cfg.WebSocket)
	}
	if cfg.Timing.MaxPeriod != 120 || cfg.Timing.MaxHigh != ykq368.DefaultMaxHigh {
		t.Errorf("Timing = %+v", cfg.Timing)
	}
	if cfg.Keys.SendParts != "data" || cfg.Keys.Repeat != 5 || cfg.Keys.Preamble != 7 {
		t.Errorf("Keys = %+v", cfg.Keys)
	}
	if cfg.Keys.Close != 0x312345678 || cfg.Keys.Stop != 0x31234567b {
		t.Errorf("Keys data = %+v", cfg.Keys)
	}
	if cfg.Tester.Count != 6 || cfg.Tester.Encoding != "random" || cfg.Tester.Dest != "/tmp/runs" {
		t.Errorf("Tester = %+v", cfg.Tester)
	}
	if cfg.Log.Level != "debug" {
		t.Errorf("Log.Level = %q", cfg.Log.Level)
	}
}

func TestLoad_YAML(t *testing.T) {
	for _, name := range []string{"rftool.yaml", "rftool.YML"} {
		t.Run(name, func(t *testing.T) {
			cfg, err := Load(writeConfig(t, name, yamlConfig))
			if err != nil {
				t.Fatalf("Load() error = %v", err)
			}
			if cfg.Serial.Port != "/dev/ttyUSB1" || cfg.Serial.Baud != 57600 {
				t.Errorf("Serial = %+v", cfg.Serial)
			}
			if cfg.Timing.One != (ykq368.Window{Min: 12, Max: 30}) {
				t.Errorf("Timing.One = %+v", cfg.Timing.One)
			}
			if cfg.Timing.Zero.Min != ykq368.DefaultZeroMin {
				t.Errorf("Timing.Zero = %+v, want default", cfg.Timing.Zero)
			}
			if cfg.Keys.Skip != 2 || cfg.Keys.Preamble != 0x1fff || cfg.Keys.Lock != 0x300 {
				t.Errorf("Keys = %+v", cfg.Keys)
			}
			if cfg.Log.File != "rftool.log" || cfg.Log.MaxBackups != 7 || cfg.Log.MaxSizeMB != 10 {
				t.Errorf("Log = %+v", cfg.Log)
			}
		})
	}
}

func TestLoad_Errors(t *testing.T) {
	tests := []struct {
		name    string
		file    string
		content string
		wantErr string
	}{
		{"unsupported extension", "rftool.json", "{}", "unsupported config format"},
		{"bad toml", "rftool.toml", "[serial\nport=", "failed to load config"},
		{"unknown yaml field", "rftool.yaml", "serial:\n  speed: 9600\n", "failed to load config"},
		{"bad send parts", "rftool.toml", "[keys]\nsend_parts = \"both\"\n", "keys: unknown send parts"},
		{"skip too wide", "rftool.toml", "[keys]\nskip = 32\n", "keys: skip 32 exceeds 31"},
		{"overlapping windows", "rftool.toml", "[timing.one]\nmin = 10\nmax = 45\n", "timing: one window"},
		{"bad encoding", "rftool.toml", "[tester]\nencoding = \"sometimes\"\n", "tester: unknown encoding"},
		{"negative count", "rftool.toml", "[tester]\ncount = -1\n", "tester: count"},
		{"bad log level", "rftool.toml", "[log]\nlevel = \"loud\"\n", "log: unknown level"},
		{"zero baud", "rftool.toml", "[serial]\nbaud = 0\n", "baud rate must be positive"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Load(writeConfig(t, tt.file, tt.content))
			if err == nil {
				t.Fatal("Load() error = nil")
			}
			if !strings.Contains(err.Error(), tt.wantErr) {
				t.Errorf("Load() error = %v, want %q", err, tt.wantErr)
			}
		})
	}
}

func TestLoad_UnsupportedFormatIs(t *testing.T) {
	_, err := Load(writeConfig(t, "rftool.ini", ""))
	if !errors.Is(err, ErrUnsupportedFormat) {
		t.Errorf("Load() error = %v, want ErrUnsupportedFormat", err)
	}
}

func TestLoad_MissingFile(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), "missing.toml"))
	if !errors.Is(err, os.ErrNotExist) {
		t.Errorf("Load() error = %v, want not exist", err)
	}
}

func TestLoad_Env(t *testing.T) {
	t.Setenv(EnvPort, "/dev/ttyS3")
	t.Setenv(EnvBaud, "9600")
	t.Setenv(EnvURL, "ws://10.0.0.2/rf")

	// Environment wins over the file
	cfg, err := Load(writeConfig(t, "rftool.toml", tomlConfig))
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}
	if cfg.Serial.Port != "/dev/ttyS3" || cfg.Serial.Baud != 9600 {
		t.Errorf("Serial = %+v", cfg.Serial)
	}
	if cfg.WebSocket.URL != "ws://10.0.0.2/rf" {
		t.Errorf("URL = %q", cfg.WebSocket.URL)
	}
}

func TestLoad_EnvBadBaud(t *testing.T) {
	t.Setenv(EnvBaud, "fast")
	if _, err := Load(""); err == nil || !strings.Contains(err.Error(), EnvBaud) {
		t.Errorf("Load() error = %v, want %s error", err, EnvBaud)
	}
}

func TestKeysConfig_KeySet(t *testing.T) {
	k := KeysConfig{
		Skip:     1,
		Repeat:   4,
		Preamble: 0x0007,
		Close:    0x10,
		Open:     0x20,
		Lock:     0x30,
		Stop:     0x40,
	}
	set := k.KeySet()
	if err := set.Validate(); err != nil {
		t.Fatalf("KeySet().Validate() error = %v", err)
	}
	if set.Preamble != 7 || set.Skip != 1 || set.Repeat != 4 {
		t.Errorf("KeySet() = %+v", set)
	}

	want := map[tester.Key]ykq368.Data{
		tester.KeyClose: 0x10,
		tester.KeyOpen:  0x20,
		tester.KeyLock:  0x30,
		tester.KeyStop:  0x40,
	}
	for key, data := range want {
		if got := set.Data.Get(key); got != data {
			t.Errorf("Data.Get(%s) = %s, want %s", key, got, data)
		}
	}
}

func TestKeysConfig_Instr(t *testing.T) {
	k := KeysConfig{
		SendParts: "all",
		Repeat:    1,
		Preamble:  0x0007,
		Close:     0x312345678,
	}

	instr, err := k.Instr(tester.KeyClose)
	if err != nil {
		t.Fatalf("Instr() error = %v", err)
	}
	want := ykq368.Command{0xE0, 0x01, 0x00, 0x3B, 0x12, 0x34, 0x56, 0x78}
	if got := instr.Command(); got != want {
		t.Errorf("Instr().Command() = %s, want %s", got, want)
	}

	if _, err := k.Instr(tester.KeyOpen); !errors.Is(err, tester.ErrMissingKey) {
		t.Errorf("Instr(open) error = %v, want ErrMissingKey", err)
	}

	k.SendParts = "nothing"
	if _, err := k.Instr(tester.KeyClose); err == nil {
		t.Error("Instr() with bad send parts error = nil")
	}
}

func TestLogConfig_Logging(t *testing.T) {
	l := LogConfig{Level: "warn", File: "x.log", NoColor: true}
	cfg := l.Logging(logging.ProfileRuntime)
	if cfg.Level != zerolog.WarnLevel || cfg.File != "x.log" || !cfg.NoColor {
		t.Errorf("Logging() = %+v", cfg)
	}
	// Unset sizes keep the logger defaults
	if cfg.MaxSizeMB != 10 || cfg.MaxBackups != 3 {
		t.Errorf("Logging() sizes = %d, %d", cfg.MaxSizeMB, cfg.MaxBackups)
	}
}
