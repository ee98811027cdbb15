// SPDX-License-Identifier: Apache-2.0
// Copyright (c) 2025 Kaz Walker, Thermoquad

// Package waveform converts packed receiver captures into waveform dumps
// that can be inspected in a viewer such as GTKWave.
package waveform

import (
	"bufio"
	"errors"
	"fmt"
	"io"

	"github.com/Thermoquad/rftool/pkg/samples"
)

// SignalName is the name of the single wire in the dump
const SignalName = "sig"

// signalID is the VCD identifier code of the wire
const signalID = "!"

// Options controls the dump header
type Options struct {
	// Timescale is the duration of one sample as a power of ten in seconds,
	// e.g. -6 for 1us. Must be within -15..2.
	Timescale int

	// Date and Version are written to the header when set
	Date    string
	Version string
}

var timeUnits = []string{"fs", "ps", "ns", "us", "ms", "s"}

// FormatTimescale renders a power-of-ten exponent as a VCD timescale
func FormatTimescale(exp int) (string, error) {
	if exp < -15 || exp > 2 {
		return "", fmt.Errorf("timescale 1e%d out of range (-15..2)", exp)
	}
	shifted := exp + 15
	mag := 1
	for i := 0; i < shifted%3; i++ {
		mag *= 10
	}
	return fmt.Sprintf("%d%s", mag, timeUnits[shifted/3]), nil
}

// WriteVCD reads packed samples from r and writes a Value Change Dump to w.
// The wire starts at the level of the first sample and changes at every edge. A final
// timestamp marks the end of the capture.
func WriteVCD(r io.Reader, w io.Writer, opts Options) error {
	timescale, err := FormatTimescale(opts.Timescale)
	if err != nil {
		return err
	}

	bw := bufio.NewWriter(w)
	if opts.Date != "" {
		fmt.Fprintf(bw, "$date %s $end\n", opts.Date)
	}
	if opts.Version != "" {
		fmt.Fprintf(bw, "$version %s $end\n", opts.Version)
	}
	fmt.Fprintf(bw, "$timescale %s $end\n", timescale)
	fmt.Fprintf(bw, "$scope module capture $end\n")
	fmt.Fprintf(bw, "$var wire 1 %s %s $end\n", signalID, SignalName)
	fmt.Fprintf(bw, "$upscope $end\n")
	fmt.Fprintf(bw, "$enddefinitions $end\n")
	fmt.Fprintf(bw, "#0\n$dumpvars\n")

	// The initial value is taken from the first sample, so an edge at
	// time 0 only seeds $dumpvars.
	seeded := false
	seed := func(v rune) {
		fmt.Fprintf(bw, "%c%s\n$end\n", v, signalID)
		seeded = true
	}

	var tracker samples.EdgeTracker
	br := bufio.NewReader(r)
	for {
		b, err := br.ReadByte()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return fmt.Errorf("failed to read samples at byte %d: %w", tracker.Time()/samples.BitsPerByte, err)
		}
		tracker.Feed(b, func(e samples.Edge) {
			v := '0'
			if e.Rising {
				v = '1'
			}
			if !seeded {
				if e.Time == 0 {
					seed(v)
					return
				}
				seed('0')
			}
			fmt.Fprintf(bw, "#%d\n%c%s\n", e.Time, v, signalID)
		})
	}

	if !seeded {
		seed('0')
	}
	if tracker.Time() > 0 {
		fmt.Fprintf(bw, "#%d\n", tracker.Time())
	}
	if err := bw.Flush(); err != nil {
		return fmt.Errorf("failed to write dump: %w", err)
	}
	return nil
}
