// SPDX-License-Identifier: Apache-2.0
// Copyright (c) 2025 Kaz Walker, Thermoquad

package ykq368

import (
	"encoding/binary"
	"errors"
	"fmt"
)

// ErrCommandLength is returned when parsing a command of the wrong size
var ErrCommandLength = errors.New("command must be 8 bytes")

// Command is the wire-exact 8-byte instruction sent to the bridge:
//
//	byte 0     mode tag (top 3 bits) | skip (low 5 bits)
//	byte 1     repeat
//	bytes 2-7  low 48 bits of (preamble << 35 | data), big-endian
type Command [CommandSize]byte

// Encode packs a send instruction into a command.
//
// Out-of-range fields are truncated, not rejected: data keeps its low 35
// bits, skip its low 5 bits, and since the body is 48 bits wide only the low
// 13 bits of the preamble survive. Use SendInstr.Validate to detect this.
func Encode(s SendInstr) Command {
	var c Command

	c[0] = modeTag(s.Send)<<modeShift | s.Skip&SkipMask
	c[1] = s.Repeat

	body := uint64(s.Preamble)<<DataBits | uint64(s.Data)&DataMask
	var buf [8]byte
	binary.BigEndian.PutUint64(buf[:], body)
	copy(c[2:], buf[8-BodySize:])

	return c
}

// modeTag returns the 3-bit mode tag. Unknown values encode as 0.
func modeTag(s SendParts) byte {
	switch s {
	case SendPreamble:
		return modePreamble
	case SendData:
		return modeData
	case SendAll:
		return modeAll
	default:
		return 0
	}
}

// ParseCommand copies an 8-byte slice into a command
func ParseCommand(data []byte) (Command, error) {
	var c Command
	if len(data) != CommandSize {
		return c, fmt.Errorf("%w: got %d", ErrCommandLength, len(data))
	}
	copy(c[:], data)
	return c, nil
}

// Bytes returns a copy of the command bytes
func (c Command) Bytes() []byte {
	out := make([]byte, CommandSize)
	copy(out, c[:])
	return out
}

// Header decodes byte 0. ok is false when the mode tag is not a known value.
func (c Command) Header() (parts SendParts, skip uint8, ok bool) {
	skip = c[0] & SkipMask
	switch c[0] >> modeShift {
	case modePreamble:
		return SendPreamble, skip, true
	case modeData:
		return SendData, skip, true
	case modeAll:
		return SendAll, skip, true
	}
	return 0, skip, false
}

// Repeat returns the repeat count
func (c Command) Repeat() uint8 {
	return c[1]
}

// Body returns the 48-bit packed body
func (c Command) Body() uint64 {
	var buf [8]byte
	copy(buf[8-BodySize:], c[2:])
	return binary.BigEndian.Uint64(buf[:])
}

// Data returns the 35-bit data field of the body
func (c Command) Data() Data {
	return Data(c.Body() & DataMask)
}

// Preamble returns the preamble bits that survived encoding
func (c Command) Preamble() Preamble {
	return Preamble(c.Body() >> DataBits)
}

// IsZero reports whether this is the all-zero exit sentinel
func (c Command) IsZero() bool {
	return c == Command{}
}

// String formats the command as hex
func (c Command) String() string {
	return fmt.Sprintf("Command(%x)", c[:])
}
