// SPDX-License-Identifier: Apache-2.0
// Copyright (c) 2025 Kaz Walker, Thermoquad

package ykq368

// SymbolClass is the classification of a measured pulse
type SymbolClass uint8

// Symbol classes
const (
	ClassUnknown SymbolClass = iota
	ClassOne
	ClassZero
)

// Char returns the character used for the class in block output
func (c SymbolClass) Char() byte {
	switch c {
	case ClassOne:
		return '1'
	case ClassZero:
		return '0'
	default:
		return '?'
	}
}

func (c SymbolClass) String() string {
	switch c {
	case ClassOne:
		return "One"
	case ClassZero:
		return "Zero"
	default:
		return "Unknown"
	}
}

// RecordKind distinguishes symbols from frame boundaries
type RecordKind uint8

// Record kinds
const (
	RecordSymbol RecordKind = iota
	RecordFrameBoundary
)

// Record is one decoder output.
//
// For a symbol, Start is the rising edge, Fall the falling edge and End the
// end of the bit period. For a frame boundary, Start and End delimit the
// silence and Fall is unused.
type Record struct {
	Kind  RecordKind
	Class SymbolClass
	Start uint64
	Fall  uint64
	End   uint64
}

func symbol(class SymbolClass, start, fall, end uint64) Record {
	return Record{Kind: RecordSymbol, Class: class, Start: start, Fall: fall, End: end}
}

func frameBoundary(start, end uint64) Record {
	return Record{Kind: RecordFrameBoundary, Start: start, End: end}
}

// IsSymbol reports whether the record is a symbol
func (r Record) IsSymbol() bool {
	return r.Kind == RecordSymbol
}

// IsFrameBoundary reports whether the record is a frame boundary
func (r Record) IsFrameBoundary() bool {
	return r.Kind == RecordFrameBoundary
}

// Duration returns End - Start
func (r Record) Duration() uint64 {
	return r.End - r.Start
}

// High returns the high pulse duration of a symbol
func (r Record) High() uint64 {
	return r.Fall - r.Start
}

// Low returns the low gap duration of a symbol
func (r Record) Low() uint64 {
	return r.End - r.Fall
}
