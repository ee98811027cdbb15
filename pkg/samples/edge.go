// SPDX-License-Identifier: Apache-2.0
// Copyright (c) 2025 Kaz Walker, Thermoquad

// Package samples tracks level transitions in packed receiver captures.
//
// A capture is a stream of bytes holding one sample per bit, most significant
// bit first. The time index of a sample is its byte position times eight plus
// its bit offset within the byte.
package samples

// BitsPerByte is the number of samples packed into one capture byte
const BitsPerByte = 8

// Edge is a level transition in a sample stream
type Edge struct {
	Time   uint64
	Rising bool
}

// EdgeTracker scans packed samples and reports level transitions.
// The zero value starts at time 0 with a low level.
type EdgeTracker struct {
	level bool
	time  uint64
}

// Feed scans the next capture byte and calls fn for every transition in it
func (t *EdgeTracker) Feed(b byte, fn func(Edge)) {
	for i := 0; i < BitsPerByte; i++ {
		v := b&0x80 != 0
		if v != t.level {
			t.level = v
			fn(Edge{Time: t.time, Rising: v})
		}
		b <<= 1
		t.time++
	}
}

// Time returns the time index of the next unread sample
func (t *EdgeTracker) Time() uint64 {
	return t.time
}

// Level returns the level of the last read sample
func (t *EdgeTracker) Level() bool {
	return t.level
}

// Edges returns every transition in data, starting from a low level at time 0
func Edges(data []byte) []Edge {
	var tracker EdgeTracker
	var edges []Edge
	for _, b := range data {
		tracker.Feed(b, func(e Edge) {
			edges = append(edges, e)
		})
	}
	return edges
}
