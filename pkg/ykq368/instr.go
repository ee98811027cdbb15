// SPDX-License-Identifier: Apache-2.0
// Copyright (c) 2025 Kaz Walker, Thermoquad

package ykq368

import (
	"encoding/binary"
	"errors"
	"fmt"
	"strings"

	"github.com/fxamacker/cbor/v2"
)

// ErrFieldRange is returned by SendInstr.Validate for fields that Encode would truncate
var ErrFieldRange = errors.New("field out of encodable range")

// SendParts selects which protocol segments the bridge transmits
type SendParts uint8

// Send part values
const (
	SendPreamble SendParts = iota
	SendData
	SendAll
)

var sendPartNames = map[SendParts]string{
	SendPreamble: "preamble",
	SendData:     "data",
	SendAll:      "all",
}

// String returns the config name of the send parts
func (s SendParts) String() string {
	if name, ok := sendPartNames[s]; ok {
		return name
	}
	return fmt.Sprintf("SendParts(%d)", uint8(s))
}

// ParseSendParts parses "preamble", "data" or "all"
func ParseSendParts(s string) (SendParts, error) {
	name := strings.ToLower(strings.TrimSpace(s))
	for parts, n := range sendPartNames {
		if n == name {
			return parts, nil
		}
	}
	return 0, fmt.Errorf("unknown send parts %q (use preamble, data or all)", s)
}

// MarshalCBOR encodes the send parts as its name
func (s SendParts) MarshalCBOR() ([]byte, error) {
	name, ok := sendPartNames[s]
	if !ok {
		return nil, fmt.Errorf("cannot encode %v", s)
	}
	return cbor.Marshal(name)
}

// UnmarshalCBOR decodes a send parts name
func (s *SendParts) UnmarshalCBOR(data []byte) error {
	var name string
	if err := cbor.Unmarshal(data, &name); err != nil {
		return err
	}
	parts, err := ParseSendParts(name)
	if err != nil {
		return err
	}
	*s = parts
	return nil
}

// Preamble is the fixed leading value transmitted before the data
type Preamble uint16

// String formats the preamble as 4 hex digits
func (p Preamble) String() string {
	return fmt.Sprintf("%04x", uint16(p))
}

// MarshalCBOR encodes the preamble as a 2-byte big-endian byte string
func (p Preamble) MarshalCBOR() ([]byte, error) {
	var buf [2]byte
	binary.BigEndian.PutUint16(buf[:], uint16(p))
	return cbor.Marshal(buf[:])
}

// UnmarshalCBOR decodes a 2-byte big-endian byte string
func (p *Preamble) UnmarshalCBOR(data []byte) error {
	var buf []byte
	if err := cbor.Unmarshal(data, &buf); err != nil {
		return err
	}
	if len(buf) != 2 {
		return fmt.Errorf("preamble: expected 2 bytes, got %d", len(buf))
	}
	*p = Preamble(binary.BigEndian.Uint16(buf))
	return nil
}

// Data is the key payload
type Data uint64

// String formats the data as 9 hex digits
func (d Data) String() string {
	return fmt.Sprintf("%09x", uint64(d))
}

// MarshalCBOR encodes the low 5 bytes of the data as a big-endian byte string
func (d Data) MarshalCBOR() ([]byte, error) {
	var buf [8]byte
	binary.BigEndian.PutUint64(buf[:], uint64(d))
	return cbor.Marshal(buf[3:])
}

// UnmarshalCBOR decodes a big-endian byte string of up to 8 bytes
func (d *Data) UnmarshalCBOR(data []byte) error {
	var buf []byte
	if err := cbor.Unmarshal(data, &buf); err != nil {
		return err
	}
	if len(buf) > 8 {
		return fmt.Errorf("data: expected at most 8 bytes, got %d", len(buf))
	}
	var v uint64
	for _, b := range buf {
		v = v<<8 | uint64(b)
	}
	*d = Data(v)
	return nil
}

// SendInstr describes one logical command for the bridge
type SendInstr struct {
	Send     SendParts `cbor:"send"`
	Skip     uint8     `cbor:"skip"`
	Preamble Preamble  `cbor:"preamble"`
	Data     Data      `cbor:"data"`
	Repeat   uint8     `cbor:"repeat"`
}

// String formats the instruction for logs
func (s SendInstr) String() string {
	return fmt.Sprintf("SendInstr{send: %s, skip: %d, preamble: %s, data: %s, repeat: %d}",
		s.Send, s.Skip, s.Preamble, s.Data, s.Repeat)
}

// Command encodes the instruction. See Encode.
func (s SendInstr) Command() Command {
	return Encode(s)
}

// Validate reports fields that Encode would silently truncate.
// Encode itself never validates.
func (s SendInstr) Validate() error {
	if _, ok := sendPartNames[s.Send]; !ok {
		return fmt.Errorf("send parts %d: %w", uint8(s.Send), ErrFieldRange)
	}
	if s.Skip > SkipMask {
		return fmt.Errorf("skip %d exceeds %d bits: %w", s.Skip, SkipBits, ErrFieldRange)
	}
	if uint64(s.Preamble) >= 1<<PreambleBits {
		return fmt.Errorf("preamble %s exceeds %d bits: %w", s.Preamble, PreambleBits, ErrFieldRange)
	}
	if uint64(s.Data) > DataMask {
		return fmt.Errorf("data %s exceeds %d bits: %w", s.Data, DataBits, ErrFieldRange)
	}
	return nil
}
