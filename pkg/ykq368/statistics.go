// SPDX-License-Identifier: Apache-2.0
// Copyright (c) 2025 Kaz Walker, Thermoquad

package ykq368

import "fmt"

// Statistics tracks decoder output, mainly to judge threshold calibration
type Statistics struct {
	// Counters
	TotalRecords    uint64
	Symbols         uint64
	Ones            uint64
	Zeros           uint64
	Unknowns        uint64
	FrameBoundaries uint64

	// Time span covered by the records, in sample ticks
	FirstTime uint64
	LastTime  uint64

	// Longest high pulse seen in a classified symbol
	MaxHigh uint64
}

// NewStatistics creates a new statistics tracker
func NewStatistics() *Statistics {
	return &Statistics{}
}

// Update counts one record
func (s *Statistics) Update(r Record) {
	if s.TotalRecords == 0 {
		s.FirstTime = r.Start
	}
	s.TotalRecords++
	if r.End > s.LastTime {
		s.LastTime = r.End
	}

	if r.IsFrameBoundary() {
		s.FrameBoundaries++
		return
	}

	s.Symbols++
	switch r.Class {
	case ClassOne:
		s.Ones++
	case ClassZero:
		s.Zeros++
	default:
		s.Unknowns++
	}
	if r.Class != ClassUnknown && r.High() > s.MaxHigh {
		s.MaxHigh = r.High()
	}
}

// UnknownRatio returns the share of symbols that could not be classified
func (s *Statistics) UnknownRatio() float64 {
	if s.Symbols == 0 {
		return 0
	}
	return float64(s.Unknowns) / float64(s.Symbols)
}

// String returns a formatted statistics summary
func (s *Statistics) String() string {
	var onePercent, zeroPercent, unknownPercent float64
	if s.Symbols > 0 {
		onePercent = float64(s.Ones) * 100.0 / float64(s.Symbols)
		zeroPercent = float64(s.Zeros) * 100.0 / float64(s.Symbols)
		unknownPercent = s.UnknownRatio() * 100.0
	}

	result := fmt.Sprintf("=== Statistics (%d ticks) ===\n", s.LastTime-s.FirstTime)
	result += fmt.Sprintf("Records:         %8d\n", s.TotalRecords)
	result += fmt.Sprintf("Symbols:         %8d\n", s.Symbols)
	result += fmt.Sprintf("  One:           %8d (%.1f%%)\n", s.Ones, onePercent)
	result += fmt.Sprintf("  Zero:          %8d (%.1f%%)\n", s.Zeros, zeroPercent)
	if s.Unknowns > 0 {
		result += fmt.Sprintf("  Unknown:       %8d (%.1f%%)\n", s.Unknowns, unknownPercent)
	}
	result += fmt.Sprintf("Frame Boundaries:%8d\n", s.FrameBoundaries)
	if s.MaxHigh > 0 {
		result += fmt.Sprintf("Max High Pulse:  %8d ticks\n", s.MaxHigh)
	}
	result += "================================\n"

	return result
}

// Reset resets all counters
func (s *Statistics) Reset() {
	*s = Statistics{}
}
