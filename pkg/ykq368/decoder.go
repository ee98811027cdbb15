// SPDX-License-Identifier: Apache-2.0
// Copyright (c) 2025 Kaz Walker, Thermoquad

package ykq368

import (
	"errors"
	"fmt"
	"io"

	"github.com/Thermoquad/rftool/pkg/samples"
)

// State is the pulse classifier state carried between edges.
// The zero value is the initial state.
type State struct {
	LastLevel   bool
	LastRising  uint64
	LastFalling uint64
}

// Step applies one edge to the state and returns the new state together
// with the records completed by the edge. Only rising edges complete records.
func (s State) Step(e samples.Edge, timing Timing) (State, []Record) {
	if e.Rising == s.LastLevel {
		return s, nil
	}
	s.LastLevel = e.Rising

	if !e.Rising {
		s.LastFalling = e.Time
		return s, nil
	}

	t := e.Time
	high := s.LastFalling - s.LastRising

	var out []Record
	switch {
	case high >= timing.MaxHigh:
		// Pulse too long: noise or lost sync
		out = []Record{symbol(ClassUnknown, s.LastRising, s.LastFalling, t)}

	case t <= high+timing.MinPeriod:
		// Not enough elapsed time to conclude a bit
		out = []Record{symbol(ClassUnknown, s.LastRising, s.LastFalling, t)}

	default:
		bitEndMax := s.LastRising + timing.MaxPeriod
		bitEnd := min(t, bitEndMax)
		out = []Record{symbol(timing.Classify(high), s.LastRising, s.LastFalling, bitEnd)}
		if t >= bitEndMax {
			out = append(out, frameBoundary(bitEnd, t))
		}
	}

	s.LastRising = t
	return s, out
}

// Decoder classifies pulses in a packed sample stream
type Decoder struct {
	timing   Timing
	tracker  samples.EdgeTracker
	state    State
	finished bool
}

// NewDecoder creates a decoder using the given thresholds
func NewDecoder(timing Timing) *Decoder {
	return &Decoder{timing: timing}
}

// Reset returns the decoder to time 0
func (d *Decoder) Reset() {
	d.tracker = samples.EdgeTracker{}
	d.state = State{}
	d.finished = false
}

// State returns the current classifier state
func (d *Decoder) State() State {
	return d.state
}

// Time returns the time index of the next sample
func (d *Decoder) Time() uint64 {
	return d.tracker.Time()
}

// DecodeByte processes 8 samples and returns the records they complete
func (d *Decoder) DecodeByte(b byte) []Record {
	var out []Record
	d.tracker.Feed(b, func(e samples.Edge) {
		var recs []Record
		d.state, recs = d.state.Step(e, d.timing)
		out = append(out, recs...)
	})
	return out
}

// Finish marks the end of input. It appends one extra byte holding a single
// trailing rising edge so that a pulse still open at the end of the stream is
// closed. Subsequent calls return nil.
func (d *Decoder) Finish() []Record {
	if d.finished {
		return nil
	}
	d.finished = true
	return d.DecodeByte(terminatorByte)
}

// Decode streams r through a new decoder, calling fn for every record.
// Read errors are returned as soon as they occur; an error from fn stops
// decoding and is returned unchanged.
func Decode(r io.Reader, timing Timing, fn func(Record) error) error {
	d := NewDecoder(timing)
	buf := make([]byte, 4096)

	emit := func(recs []Record) error {
		for _, rec := range recs {
			if err := fn(rec); err != nil {
				return err
			}
		}
		return nil
	}

	for {
		n, err := r.Read(buf)
		for i := 0; i < n; i++ {
			if ferr := emit(d.DecodeByte(buf[i])); ferr != nil {
				return ferr
			}
		}
		if errors.Is(err, io.EOF) {
			return emit(d.Finish())
		}
		if err != nil {
			return fmt.Errorf("failed to read samples at byte %d: %w", d.Time()/samples.BitsPerByte, err)
		}
	}
}

// DecodeBytes decodes a complete capture held in memory
func DecodeBytes(data []byte, timing Timing) []Record {
	d := NewDecoder(timing)
	var out []Record
	for _, b := range data {
		out = append(out, d.DecodeByte(b)...)
	}
	return append(out, d.Finish()...)
}
