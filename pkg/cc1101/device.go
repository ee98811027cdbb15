// SPDX-License-Identifier: Apache-2.0
// Copyright (c) 2025 Kaz Walker, Thermoquad

package cc1101

import (
	"fmt"
	"io"
)

// exitByte leaves register access mode on the bridge
const exitByte = 0x00

// Device runs register transfers over a bridge connection.
// Calls are not safe for concurrent use.
type Device struct {
	rw io.ReadWriter
}

// NewDevice wraps a connection on which the CC1101 endpoint is selected
func NewDevice(rw io.ReadWriter) *Device {
	return &Device{rw: rw}
}

func (d *Device) write(p []byte) error {
	n, err := d.rw.Write(p)
	if err != nil {
		return err
	}
	if n != len(p) {
		return io.ErrShortWrite
	}
	return nil
}

func (d *Device) read(n int) ([]byte, error) {
	buf := make([]byte, n)
	if _, err := io.ReadFull(d.rw, buf); err != nil {
		return nil, err
	}
	return buf, nil
}

// readSingle sends cmd and reads the status byte and one value
func (d *Device) readSingle(cmd TransferCmd) (Status, byte, error) {
	if err := d.write(cmd[:]); err != nil {
		return 0, 0, fmt.Errorf("failed to send %v: %w", cmd, err)
	}
	reply, err := d.read(2)
	if err != nil {
		return 0, 0, fmt.Errorf("failed to read reply to %v: %w", cmd, err)
	}
	return Status(reply[0]), reply[1], nil
}

// readBurst sends cmd and reads the status byte and n values
func (d *Device) readBurst(cmd TransferCmd, n int) (Status, []byte, error) {
	if err := d.write(cmd[:]); err != nil {
		return 0, nil, fmt.Errorf("failed to send %v: %w", cmd, err)
	}
	reply, err := d.read(1 + n)
	if err != nil {
		return 0, nil, fmt.Errorf("failed to read reply to %v: %w", cmd, err)
	}
	return Status(reply[0]), reply[1:], nil
}

// writeSingle sends cmd with one value and reads a status byte for each
func (d *Device) writeSingle(cmd TransferCmd, v byte) (Status, Status, error) {
	if err := d.write([]byte{cmd[0], cmd[1], v}); err != nil {
		return 0, 0, fmt.Errorf("failed to send %v: %w", cmd, err)
	}
	reply, err := d.read(2)
	if err != nil {
		return 0, 0, fmt.Errorf("failed to read reply to %v: %w", cmd, err)
	}
	return Status(reply[0]), Status(reply[1]), nil
}

// writeBurst sends cmd followed by data and reads one status byte for the
// header and one per data byte
func (d *Device) writeBurst(cmd TransferCmd, data []byte) (Status, []Status, error) {
	if err := d.write(cmd[:]); err != nil {
		return 0, nil, fmt.Errorf("failed to send %v: %w", cmd, err)
	}
	if err := d.write(data); err != nil {
		return 0, nil, fmt.Errorf("failed to send burst data: %w", err)
	}
	reply, err := d.read(1 + len(data))
	if err != nil {
		return 0, nil, fmt.Errorf("failed to read reply to %v: %w", cmd, err)
	}
	statuses := make([]Status, len(data))
	for i, b := range reply[1:] {
		statuses[i] = Status(b)
	}
	return Status(reply[0]), statuses, nil
}

// ReadStatusReg reads a status register
func (d *Device) ReadStatusReg(close bool, reg StatusReg) (Status, byte, error) {
	return d.readSingle(StatusRegCmd(close, reg))
}

// ReadConfigReg reads a configuration register
func (d *Device) ReadConfigReg(close bool, reg ConfigReg) (Status, byte, error) {
	return d.readSingle(ConfigRegCmd(close, Read, reg))
}

// ReadConfigBurst reads count consecutive configuration registers
func (d *Device) ReadConfigBurst(start ConfigReg, count int) (Status, []byte, error) {
	cmd, err := ConfigBurstCmd(Read, start, count)
	if err != nil {
		return 0, nil, err
	}
	return d.readBurst(cmd, count)
}

// WriteConfigReg writes a configuration register
func (d *Device) WriteConfigReg(close bool, reg ConfigReg, v byte) (Status, Status, error) {
	return d.writeSingle(ConfigRegCmd(close, Write, reg), v)
}

// WriteConfigBurst writes consecutive configuration registers starting at start
func (d *Device) WriteConfigBurst(start ConfigReg, data []byte) (Status, []Status, error) {
	cmd, err := ConfigBurstCmd(Write, start, len(data))
	if err != nil {
		return 0, nil, err
	}
	return d.writeBurst(cmd, data)
}

// CommandStrobe issues a strobe. The access bit selects whether the returned
// status reports the RX or TX FIFO.
func (d *Device) CommandStrobe(close bool, access Access, s Strobe) (Status, error) {
	cmd := StrobeCmd(close, access, s)
	if err := d.write(cmd[:]); err != nil {
		return 0, fmt.Errorf("failed to send %v: %w", cmd, err)
	}
	reply, err := d.read(1)
	if err != nil {
		return 0, fmt.Errorf("failed to read reply to %v: %w", cmd, err)
	}
	return Status(reply[0]), nil
}

// ReadFIFO reads one byte from the RX FIFO
func (d *Device) ReadFIFO(close bool) (Status, byte, error) {
	return d.readSingle(FIFOCmd(close, Read))
}

// ReadFIFOBurst reads count bytes from the RX FIFO
func (d *Device) ReadFIFOBurst(count int) (Status, []byte, error) {
	cmd, err := FIFOBurstCmd(Read, count)
	if err != nil {
		return 0, nil, err
	}
	return d.readBurst(cmd, count)
}

// WriteFIFO writes one byte to the TX FIFO
func (d *Device) WriteFIFO(close bool, v byte) (Status, Status, error) {
	return d.writeSingle(FIFOCmd(close, Write), v)
}

// WriteFIFOBurst writes data to the TX FIFO
func (d *Device) WriteFIFOBurst(data []byte) (Status, []Status, error) {
	cmd, err := FIFOBurstCmd(Write, len(data))
	if err != nil {
		return 0, nil, err
	}
	return d.writeBurst(cmd, data)
}

// ReadPATable reads the 8-byte PA table
func (d *Device) ReadPATable() (Status, [PATableSize]byte, error) {
	var table [PATableSize]byte
	cmd, _ := PATableCmd(Read, PATableSize)
	status, data, err := d.readBurst(cmd, PATableSize)
	if err != nil {
		return 0, table, err
	}
	copy(table[:], data)
	return status, table, nil
}

// WritePATable writes the 8-byte PA table
func (d *Device) WritePATable(table [PATableSize]byte) (Status, []Status, error) {
	cmd, _ := PATableCmd(Write, PATableSize)
	return d.writeBurst(cmd, table[:])
}

// Exit leaves register access mode. The device must not be used afterwards.
func (d *Device) Exit() error {
	if err := d.write([]byte{exitByte}); err != nil {
		return fmt.Errorf("failed to exit register access: %w", err)
	}
	return nil
}
