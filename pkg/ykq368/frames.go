// SPDX-License-Identifier: Apache-2.0
// Copyright (c) 2025 Kaz Walker, Thermoquad

package ykq368

import "strings"

// Frame is the run of symbols between two frame boundaries
type Frame struct {
	Start    uint64
	End      uint64
	Symbols  []Record
	Complete bool // Ended by a frame boundary rather than end of input
}

// SplitFrames groups symbols into frames. Frames without symbols are dropped.
func SplitFrames(records []Record) []Frame {
	var frames []Frame
	var cur Frame

	flush := func(complete bool) {
		if len(cur.Symbols) > 0 {
			cur.Complete = complete
			frames = append(frames, cur)
		}
		cur = Frame{}
	}

	for _, r := range records {
		if r.IsFrameBoundary() {
			flush(true)
			continue
		}
		if len(cur.Symbols) == 0 {
			cur.Start = r.Start
		}
		cur.Symbols = append(cur.Symbols, r)
		cur.End = r.End
	}
	flush(false)

	return frames
}

// Bits returns the frame as a string of 1, 0 and ?
func (f Frame) Bits() string {
	var sb strings.Builder
	for _, s := range f.Symbols {
		sb.WriteByte(s.Class.Char())
	}
	return sb.String()
}

// Value returns the frame bits as an MSB-first integer. ok is false when a
// symbol is unknown or the frame is longer than 64 bits.
func (f Frame) Value() (uint64, bool) {
	if len(f.Symbols) == 0 || len(f.Symbols) > 64 {
		return 0, false
	}
	var v uint64
	for _, s := range f.Symbols {
		switch s.Class {
		case ClassOne:
			v = v<<1 | 1
		case ClassZero:
			v <<= 1
		default:
			return 0, false
		}
	}
	return v, true
}

// TrimUnknown drops unknown symbols from both ends of the frame
func (f Frame) TrimUnknown() Frame {
	syms := f.Symbols
	for len(syms) > 0 && syms[0].Class == ClassUnknown {
		syms = syms[1:]
	}
	for len(syms) > 0 && syms[len(syms)-1].Class == ClassUnknown {
		syms = syms[:len(syms)-1]
	}
	out := Frame{Symbols: syms, Complete: f.Complete}
	if len(syms) > 0 {
		out.Start = syms[0].Start
		out.End = syms[len(syms)-1].End
	}
	return out
}

// Split separates the frame into a leading preamble and trailing data field
// of dataBits bits
func (f Frame) Split(dataBits int) (Preamble, Data, bool) {
	if dataBits <= 0 || len(f.Symbols) <= dataBits {
		return 0, 0, false
	}
	v, ok := f.Value()
	if !ok {
		return 0, 0, false
	}
	return Preamble(v >> dataBits), Data(v & (1<<dataBits - 1)), true
}
