// SPDX-License-Identifier: Apache-2.0
// Copyright (c) 2025 Kaz Walker, Thermoquad

package cc1101

import (
	"errors"
	"fmt"
)

// ErrBurstCount is returned for burst transfers outside 1..MaxBurst bytes
var ErrBurstCount = errors.New("burst count out of range")

// Transfer limits and special addresses
const (
	MaxBurst     = 128
	PATableSize  = 8
	addrPATable  = 0x3E
	addrFIFO     = 0x3F
	flagRead     = 0x80
	flagBurst    = 0x40
	headerSingle = 0x80
	headerClose  = 0xC0
)

// Access is the direction of a transfer
type Access uint8

// Transfer directions
const (
	Read Access = iota
	Write
)

func (a Access) String() string {
	if a == Write {
		return "write"
	}
	return "read"
}

// TransferCmd is the 2-byte command that opens a transfer.
//
// Byte 0 selects single (0x80, or 0xC0 to release chip select afterwards) or
// burst (0x80 | count). Byte 1 is the SPI header byte.
type TransferCmd [2]byte

func single(close bool, access Access, addr uint8) TransferCmd {
	header := byte(headerSingle)
	if close {
		header = headerClose
	}
	if access == Read {
		addr |= flagRead
	}
	return TransferCmd{header, addr}
}

func burst(access Access, count int, addr uint8) (TransferCmd, error) {
	if count < 1 || count > MaxBurst {
		return TransferCmd{}, fmt.Errorf("%w: %d (must be 1..%d)", ErrBurstCount, count, MaxBurst)
	}
	if access == Read {
		addr |= flagRead | flagBurst
	} else {
		addr |= flagBurst
	}
	// A count of 128 encodes as the bare 0x80 flag
	return TransferCmd{byte(count) | 0x80, addr}, nil
}

// ConfigRegCmd addresses a single configuration register
func ConfigRegCmd(close bool, access Access, reg ConfigReg) TransferCmd {
	return single(close, access, uint8(reg))
}

// ConfigBurstCmd addresses count configuration registers starting at reg
func ConfigBurstCmd(access Access, reg ConfigReg, count int) (TransferCmd, error) {
	return burst(access, count, uint8(reg))
}

// StrobeCmd issues a command strobe
func StrobeCmd(close bool, access Access, s Strobe) TransferCmd {
	return single(close, access, uint8(s))
}

// StatusRegCmd reads a status register. Status registers share addresses
// with the strobes and are selected by the burst bit.
func StatusRegCmd(close bool, reg StatusReg) TransferCmd {
	header := byte(headerSingle)
	if close {
		header = headerClose
	}
	return TransferCmd{header, uint8(reg) | flagRead | flagBurst}
}

// PATableCmd addresses the 8-byte PA power table
func PATableCmd(access Access, count int) (TransferCmd, error) {
	return burst(access, count, addrPATable)
}

// FIFOCmd addresses a single FIFO byte
func FIFOCmd(close bool, access Access) TransferCmd {
	return single(close, access, addrFIFO)
}

// FIFOBurstCmd addresses count FIFO bytes
func FIFOBurstCmd(access Access, count int) (TransferCmd, error) {
	return burst(access, count, addrFIFO)
}

func (c TransferCmd) String() string {
	return fmt.Sprintf("%02x %02x", c[0], c[1])
}
