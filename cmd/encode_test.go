// SPDX-License-Identifier: GPL-2.0-or-later
// Copyright (c) 2025 Kaz Walker, Thermoquad

package cmd

import (
	"bytes"
	"errors"
	"strings"
	"testing"

	"github.com/spf13/cobra"

	"github.com/Thermoquad/rftool/pkg/config"
	"github.com/Thermoquad/rftool/pkg/tester"
	"github.com/Thermoquad/rftool/pkg/ykq368"
)

func newInstrCmd(t *testing.T, args ...string) (*cobra.Command, *instrFlags) {
	t.Helper()
	c := &cobra.Command{Use: "x"}
	f := &instrFlags{}
	addInstrFlags(c, f)
	if err := c.Flags().Parse(args); err != nil {
		t.Fatalf("Parse(%v) error = %v", args, err)
	}
	return c, f
}

func withConfig(t *testing.T, c *config.Config) {
	t.Helper()
	saved := cfg
	cfg = c
	t.Cleanup(func() { cfg = saved })
}

func TestInstrFlags_Resolve(t *testing.T) {
	keyed := config.Default()
	keyed.Keys.Preamble = 0x0007
	keyed.Keys.Repeat = 1
	keyed.Keys.Close = 0x312345678

	tests := []struct {
		name string
		cfg  *config.Config
		args []string
		want ykq368.Command
	}{
		{
			name: "all flags",
			cfg:  config.Default(),
			args: []string{"--send", "all", "--repeat", "1", "--preamble", "0x0007", "--data", "0x312345678"},
			want: ykq368.Command{0xE0, 0x01, 0x00, 0x3B, 0x12, 0x34, 0x56, 0x78},
		},
		{
			name: "configured key",
			cfg:  keyed,
			args: []string{"--key", "close"},
			want: ykq368.Command{0xE0, 0x01, 0x00, 0x3B, 0x12, 0x34, 0x56, 0x78},
		},
		{
			name: "key with override",
			cfg:  keyed,
			args: []string{"--key", "close", "--send", "data", "--skip", "5"},
			want: ykq368.Command{0xA5, 0x01, 0x00, 0x3B, 0x12, 0x34, 0x56, 0x78},
		},
		{
			name: "data with config defaults",
			cfg:  config.Default(),
			args: []string{"--data", "7"},
			want: ykq368.Command{0xE0, 0x03, 0x00, 0x00, 0x00, 0x00, 0x00, 0x07},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			withConfig(t, tt.cfg)
			c, f := newInstrCmd(t, tt.args...)
			instr, err := f.resolve(c)
			if err != nil {
				t.Fatalf("resolve() error = %v", err)
			}
			if got := instr.Command(); got != tt.want {
				t.Errorf("resolve().Command() = % X, want % X", got[:], tt.want[:])
			}
		})
	}
}

func TestInstrFlags_ResolveErrors(t *testing.T) {
	withConfig(t, config.Default())

	tests := []struct {
		name    string
		args    []string
		wantErr string
	}{
		{"no data", nil, "either --key or --data"},
		{"unknown key", []string{"--key", "unlock"}, "unknown key"},
		{"bad send", []string{"--data", "1", "--send", "both"}, "unknown send parts"},
		{"bad data", []string{"--data", "0xZZ"}, "invalid data"},
		{"preamble too wide", []string{"--data", "1", "--preamble", "0x10000"}, "invalid preamble"},
		{"strict truncation", []string{"--data", "0x800000000", "--strict"}, "field out of encodable range"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c, f := newInstrCmd(t, tt.args...)
			_, err := f.resolve(c)
			if err == nil || !strings.Contains(err.Error(), tt.wantErr) {
				t.Errorf("resolve() error = %v, want %q", err, tt.wantErr)
			}
		})
	}
}

func TestInstrFlags_ResolveMissingKey(t *testing.T) {
	withConfig(t, config.Default())
	c, f := newInstrCmd(t, "--key", "stop")
	if _, err := f.resolve(c); !errors.Is(err, tester.ErrMissingKey) {
		t.Errorf("resolve() error = %v, want ErrMissingKey", err)
	}
}

func TestRunEncode(t *testing.T) {
	withConfig(t, config.Default())

	c, f := newInstrCmd(t, "--send", "all", "--repeat", "1", "--preamble", "7", "--data", "0x312345678")
	encodeFlags = *f
	t.Cleanup(func() { encodeFlags = instrFlags{} })

	var out bytes.Buffer
	c.SetOut(&out)
	if err := runEncode(c, nil); err != nil {
		t.Fatalf("runEncode() error = %v", err)
	}
	if !strings.Contains(out.String(), "Command: E0 01 00 3B 12 34 56 78\n") {
		t.Errorf("runEncode() output = %q", out.String())
	}
}

func TestParseBytes(t *testing.T) {
	got, err := parseBytes([]string{"0x29", "46", "0b110", " 0xff "})
	if err != nil {
		t.Fatalf("parseBytes() error = %v", err)
	}
	if !bytes.Equal(got, []byte{0x29, 46, 6, 0xFF}) {
		t.Errorf("parseBytes() = % X", got)
	}

	for _, bad := range []string{"256", "-1", "x"} {
		if _, err := parseBytes([]string{bad}); err == nil {
			t.Errorf("parseBytes(%q) error = nil", bad)
		}
	}
}
