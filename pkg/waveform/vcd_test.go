// SPDX-License-Identifier: Apache-2.0
// Copyright (c) 2025 Kaz Walker, Thermoquad

package waveform

import (
	"bytes"
	"errors"
	"io"
	"strings"
	"testing"
	"testing/iotest"
)

const definitions = "$timescale 1us $end\n" +
	"$scope module capture $end\n" +
	"$var wire 1 ! sig $end\n" +
	"$upscope $end\n" +
	"$enddefinitions $end\n"

const header = definitions + "#0\n$dumpvars\n0!\n$end\n"

const headerHigh = definitions + "#0\n$dumpvars\n1!\n$end\n"

func TestWriteVCD(t *testing.T) {
	tests := []struct {
		name  string
		input []byte
		want  string
	}{
		{
			name:  "empty",
			input: nil,
			want:  header,
		},
		{
			name:  "all low",
			input: []byte{0x00, 0x00},
			want:  header + "#16\n",
		},
		{
			name:  "pulse",
			input: []byte{0x0F, 0xF0},
			want:  header + "#4\n1!\n#12\n0!\n#16\n",
		},
		{
			name:  "high at start",
			input: []byte{0xC0},
			want:  headerHigh + "#2\n0!\n#8\n",
		},
		{
			name:  "all high",
			input: []byte{0xFF},
			want:  headerHigh + "#8\n",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var out bytes.Buffer
			if err := WriteVCD(bytes.NewReader(tt.input), &out, Options{Timescale: -6}); err != nil {
				t.Fatalf("WriteVCD() error: %v", err)
			}
			if out.String() != tt.want {
				t.Errorf("WriteVCD() =\n%s\nwant\n%s", out.String(), tt.want)
			}
		})
	}
}

func TestWriteVCD_SingleValueAtTimeZero(t *testing.T) {
	for _, input := range [][]byte{{0x80}, {0x7F}, {0xFF, 0x00}} {
		var out bytes.Buffer
		if err := WriteVCD(bytes.NewReader(input), &out, Options{Timescale: -6}); err != nil {
			t.Fatalf("WriteVCD(% X) error: %v", input, err)
		}
		body := strings.TrimPrefix(out.String(), definitions)
		first, _, _ := strings.Cut(strings.TrimPrefix(body, "#0\n"), "#")
		if n := strings.Count(first, "!"); n != 1 {
			t.Errorf("WriteVCD(% X) has %d values at #0:\n%s", input, n, out.String())
		}
	}
}

func TestWriteVCD_HeaderFields(t *testing.T) {
	var out bytes.Buffer
	opts := Options{Timescale: -9, Date: "2025-01-01", Version: "rftool 1.0.0"}
	if err := WriteVCD(bytes.NewReader(nil), &out, opts); err != nil {
		t.Fatalf("WriteVCD() error: %v", err)
	}
	for _, want := range []string{"$date 2025-01-01 $end", "$version rftool 1.0.0 $end", "$timescale 1ns $end"} {
		if !strings.Contains(out.String(), want) {
			t.Errorf("output missing %q:\n%s", want, out.String())
		}
	}
}

func TestWriteVCD_ReadError(t *testing.T) {
	errBoom := errors.New("boom")
	r := io.MultiReader(bytes.NewReader([]byte{0xFF}), iotest.ErrReader(errBoom))
	if err := WriteVCD(r, io.Discard, Options{}); !errors.Is(err, errBoom) {
		t.Errorf("WriteVCD() error = %v, want %v", err, errBoom)
	}
}

func TestFormatTimescale(t *testing.T) {
	tests := []struct {
		exp     int
		want    string
		wantErr bool
	}{
		{-15, "1fs", false},
		{-9, "1ns", false},
		{-7, "100ns", false},
		{-6, "1us", false},
		{-5, "10us", false},
		{0, "1s", false},
		{2, "100s", false},
		{-16, "", true},
		{3, "", true},
	}

	for _, tt := range tests {
		t.Run(tt.want, func(t *testing.T) {
			got, err := FormatTimescale(tt.exp)
			if (err != nil) != tt.wantErr {
				t.Fatalf("FormatTimescale(%d) error = %v, wantErr %v", tt.exp, err, tt.wantErr)
			}
			if got != tt.want {
				t.Errorf("FormatTimescale(%d) = %q, want %q", tt.exp, got, tt.want)
			}
		})
	}
}
