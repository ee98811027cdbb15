// SPDX-License-Identifier: Apache-2.0
// Copyright (c) 2025 Kaz Walker, Thermoquad

package ykq368

import (
	"fmt"
	"strings"
)

// FormatRecord formats a record as a single diagnostic line.
//
//	1 [120, 230]: 110 (20, 90)   symbol: class [start, end]: total (high, low)
//	_ [230, 5000]: 4770          frame boundary: [start, end]: duration
func FormatRecord(r Record) string {
	if r.IsFrameBoundary() {
		return fmt.Sprintf("_ [%d, %d]: %d", r.Start, r.End, r.Duration())
	}
	return fmt.Sprintf("%c [%d, %d]: %d (%d, %d)",
		r.Class.Char(), r.Start, r.End, r.Duration(), r.High(), r.Low())
}

// BlockWriter accumulates symbols into human readable blocks of four,
// starting a new line at every frame boundary
type BlockWriter struct {
	sb    strings.Builder
	count int
}

// Add appends a record to the block output
func (w *BlockWriter) Add(r Record) {
	if r.IsFrameBoundary() {
		w.sb.WriteByte('\n')
		w.count = 0
		return
	}
	if w.count == blockSize {
		w.sb.WriteByte(' ')
		w.count = 0
	}
	w.sb.WriteByte(r.Class.Char())
	w.count++
}

// String returns the accumulated blocks
func (w *BlockWriter) String() string {
	return w.sb.String()
}

// FormatBlocks renders records as blocks
func FormatBlocks(records []Record) string {
	var w BlockWriter
	for _, r := range records {
		w.Add(r)
	}
	return w.String()
}

// FormatFrame formats a frame with its bit string and value when known
func FormatFrame(f Frame) string {
	result := fmt.Sprintf("[%d, %d] %d bits: %s", f.Start, f.End, len(f.Symbols), f.Bits())
	if v, ok := f.Value(); ok {
		result += fmt.Sprintf(" = 0x%X", v)
	}
	return result
}
