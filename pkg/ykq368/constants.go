// SPDX-License-Identifier: Apache-2.0
// Copyright (c) 2025 Kaz Walker, Thermoquad

// Package ykq368 implements the YKQ368 gate remote protocol.
//
// YKQ368 remotes transmit pulse-width-modulated on-off-keyed frames: every bit
// starts with a high pulse whose width selects the bit value, followed by a low
// gap that completes a fixed bit period. A sustained low level ends the frame.
//
// The package provides both directions of the codec: a decoder that classifies
// pulses in a captured sample stream, and an encoder that packs a logical send
// instruction into the 8-byte command understood by the transmitting bridge.
package ykq368

// Command layout
const (
	CommandSize = 8
	BodySize    = 6

	// EndpointSelect selects the YKQ368 endpoint on the bridge
	EndpointSelect = 0x03
)

// Field widths
const (
	DataBits     = 35
	PreambleBits = 13 // Preamble bits that survive the 48-bit body
	SkipBits     = 5

	DataMask = 1<<DataBits - 1
	SkipMask = 1<<SkipBits - 1
	bodyMask = 1<<(BodySize*8) - 1
)

// Mode tags (top 3 bits of byte 0)
const (
	modeShift    = 5
	modePreamble = 0b110
	modeData     = 0b101
	modeAll      = 0b111
)

// Default timing thresholds in sample ticks
const (
	DefaultMaxHigh   = 100 // High pulses this long are noise
	DefaultMinPeriod = 90  // Minimum elapsed time before a bit can be concluded
	DefaultMaxPeriod = 110 // Longest bit period; anything longer ends the frame

	DefaultOneMin  = 10
	DefaultOneMax  = 29
	DefaultZeroMin = 40
	DefaultZeroMax = 79
)

// blockSize is the number of symbols grouped together in block output
const blockSize = 4

// terminatorByte is appended at end of input to close the last open pulse
const terminatorByte = 0x01
