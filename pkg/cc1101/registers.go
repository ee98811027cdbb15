// SPDX-License-Identifier: Apache-2.0
// Copyright (c) 2025 Kaz Walker, Thermoquad

// Package cc1101 builds register transfers for a CC1101 sub-GHz transceiver
// attached to the bridge, and runs them over the bridge connection.
//
// Every transfer starts with a 2-byte command. The bridge forwards it over SPI
// and answers with the chip status byte followed by any data that was read.
package cc1101

import (
	"fmt"
	"strings"
)

// ConfigReg is a configuration register address
type ConfigReg uint8

// Configuration registers
const (
	IOCFG2   ConfigReg = 0x00 // GDO2 output pin configuration
	IOCFG1   ConfigReg = 0x01 // GDO1 output pin configuration
	IOCFG0   ConfigReg = 0x02 // GDO0 output pin configuration
	FIFOTHR  ConfigReg = 0x03 // RX FIFO and TX FIFO thresholds
	SYNC1    ConfigReg = 0x04 // Sync word, high byte
	SYNC0    ConfigReg = 0x05 // Sync word, low byte
	PKTLEN   ConfigReg = 0x06 // Packet length
	PKTCTRL1 ConfigReg = 0x07 // Packet automation control
	PKTCTRL0 ConfigReg = 0x08 // Packet automation control
	ADDR     ConfigReg = 0x09 // Device address
	CHANNR   ConfigReg = 0x0A // Channel number
	FSCTRL1  ConfigReg = 0x0B // Frequency synthesizer control
	FSCTRL0  ConfigReg = 0x0C // Frequency synthesizer control
	FREQ2    ConfigReg = 0x0D // Frequency control word, high byte
	FREQ1    ConfigReg = 0x0E // Frequency control word, middle byte
	FREQ0    ConfigReg = 0x0F // Frequency control word, low byte
	MDMCFG4  ConfigReg = 0x10 // Modem configuration
	MDMCFG3  ConfigReg = 0x11
	MDMCFG2  ConfigReg = 0x12
	MDMCFG1  ConfigReg = 0x13
	MDMCFG0  ConfigReg = 0x14
	DEVIATN  ConfigReg = 0x15 // Modem deviation setting
	MCSM2    ConfigReg = 0x16 // Main Radio Control State Machine configuration
	MCSM1    ConfigReg = 0x17
	MCSM0    ConfigReg = 0x18
	FOCCFG   ConfigReg = 0x19 // Frequency Offset Compensation configuration
	BSCFG    ConfigReg = 0x1A // Bit Synchronization configuration
	AGCTRL2  ConfigReg = 0x1B // AGC control
	AGCTRL1  ConfigReg = 0x1C
	AGCTRL0  ConfigReg = 0x1D
	WOREVT1  ConfigReg = 0x1E // High byte Event 0 timeout
	WOREVT0  ConfigReg = 0x1F // Low byte Event 0 timeout
	WORCTRL  ConfigReg = 0x20 // Wake On Radio control
	FREND1   ConfigReg = 0x21 // Front end RX configuration
	FREND0   ConfigReg = 0x22 // Front end TX configuration
	FSCAL3   ConfigReg = 0x23 // Frequency synthesizer calibration
	FSCAL2   ConfigReg = 0x24
	FSCAL1   ConfigReg = 0x25
	FSCAL0   ConfigReg = 0x26
	RCCTRL1  ConfigReg = 0x27 // RC oscillator configuration
	RCCTRL0  ConfigReg = 0x28
	FSTEST   ConfigReg = 0x29 // Frequency synthesizer calibration control
	PTEST    ConfigReg = 0x2A // Production test
	AGCTEST  ConfigReg = 0x2B // AGC test
	TEST2    ConfigReg = 0x2C // Various test settings
	TEST1    ConfigReg = 0x2D
	TEST0    ConfigReg = 0x2E
)

// NumConfigRegs is the number of configuration registers, IOCFG2 through TEST0
const NumConfigRegs = int(TEST0) + 1

var configRegNames = [NumConfigRegs]string{
	"IOCFG2", "IOCFG1", "IOCFG0", "FIFOTHR", "SYNC1", "SYNC0", "PKTLEN", "PKTCTRL1",
	"PKTCTRL0", "ADDR", "CHANNR", "FSCTRL1", "FSCTRL0", "FREQ2", "FREQ1", "FREQ0",
	"MDMCFG4", "MDMCFG3", "MDMCFG2", "MDMCFG1", "MDMCFG0", "DEVIATN", "MCSM2", "MCSM1",
	"MCSM0", "FOCCFG", "BSCFG", "AGCTRL2", "AGCTRL1", "AGCTRL0", "WOREVT1", "WOREVT0",
	"WORCTRL", "FREND1", "FREND0", "FSCAL3", "FSCAL2", "FSCAL1", "FSCAL0", "RCCTRL1",
	"RCCTRL0", "FSTEST", "PTEST", "AGCTEST", "TEST2", "TEST1", "TEST0",
}

func (r ConfigReg) String() string {
	if int(r) < NumConfigRegs {
		return configRegNames[r]
	}
	return fmt.Sprintf("ConfigReg(0x%02X)", uint8(r))
}

// ParseConfigReg looks up a configuration register by name
func ParseConfigReg(name string) (ConfigReg, error) {
	name = strings.ToUpper(strings.TrimSpace(name))
	for i, n := range configRegNames {
		if n == name {
			return ConfigReg(i), nil
		}
	}
	return 0, fmt.Errorf("unknown config register %q", name)
}

// Strobe is a command strobe address
type Strobe uint8

// Command strobes
const (
	SRES    Strobe = 0x30 // Reset chip
	SFSTXON Strobe = 0x31 // Enable and calibrate frequency synthesizer
	SXOFF   Strobe = 0x32 // Turn off crystal oscillator
	SCAL    Strobe = 0x33 // Calibrate frequency synthesizer and turn it off
	SRX     Strobe = 0x34 // Enable RX
	STX     Strobe = 0x35 // Enable TX
	SIDLE   Strobe = 0x36 // Exit RX / TX, turn off frequency synthesizer
	SWOR    Strobe = 0x38 // Start automatic RX polling sequence (Wake-on-Radio)
	SPWD    Strobe = 0x39 // Enter power down mode when CSn goes high
	SFRX    Strobe = 0x3A // Flush the RX FIFO buffer
	SFTX    Strobe = 0x3B // Flush the TX FIFO buffer
	SWORRST Strobe = 0x3C // Reset real time clock to Event1 value
	SNOP    Strobe = 0x3D // No operation, returns the chip status byte
)

var strobeNames = map[Strobe]string{
	SRES: "SRES", SFSTXON: "SFSTXON", SXOFF: "SXOFF", SCAL: "SCAL", SRX: "SRX",
	STX: "STX", SIDLE: "SIDLE", SWOR: "SWOR", SPWD: "SPWD", SFRX: "SFRX",
	SFTX: "SFTX", SWORRST: "SWORRST", SNOP: "SNOP",
}

func (s Strobe) String() string {
	if name, ok := strobeNames[s]; ok {
		return name
	}
	return fmt.Sprintf("Strobe(0x%02X)", uint8(s))
}

// ParseStrobe looks up a command strobe by name
func ParseStrobe(name string) (Strobe, error) {
	name = strings.ToUpper(strings.TrimSpace(name))
	for s, n := range strobeNames {
		if n == name {
			return s, nil
		}
	}
	return 0, fmt.Errorf("unknown command strobe %q", name)
}

// StatusReg is a read-only status register address
type StatusReg uint8

// Status registers
const (
	PARTNUM        StatusReg = 0x30 // Part number
	VERSION        StatusReg = 0x31 // Current version number
	FREQEST        StatusReg = 0x32 // Frequency Offset Estimate
	LQI            StatusReg = 0x33 // Demodulator estimate for Link Quality
	RSSI           StatusReg = 0x34 // Received signal strength indication
	MARCSTATE      StatusReg = 0x35 // Control state machine state
	WORTIME1       StatusReg = 0x36 // High byte of WOR timer
	WORTIME0       StatusReg = 0x37 // Low byte of WOR timer
	PKTSTATUS      StatusReg = 0x38 // Current GDOx status and packet status
	VCO_VC_DAC     StatusReg = 0x39 // Current setting from PLL calibration module
	TXBYTES        StatusReg = 0x3A // Underflow and number of bytes in the TX FIFO
	RXBYTES        StatusReg = 0x3B // Overflow and number of bytes in the RX FIFO
	RCCTRL1_STATUS StatusReg = 0x3C // Last RC oscillator calibration result
	RCCTRL0_STATUS StatusReg = 0x3D
)

var statusRegNames = []string{
	"PARTNUM", "VERSION", "FREQEST", "LQI", "RSSI", "MARCSTATE", "WORTIME1",
	"WORTIME0", "PKTSTATUS", "VCO_VC_DAC", "TXBYTES", "RXBYTES",
	"RCCTRL1_STATUS", "RCCTRL0_STATUS",
}

// StatusRegs lists every status register in address order
func StatusRegs() []StatusReg {
	regs := make([]StatusReg, len(statusRegNames))
	for i := range regs {
		regs[i] = PARTNUM + StatusReg(i)
	}
	return regs
}

func (r StatusReg) String() string {
	if r >= PARTNUM && int(r-PARTNUM) < len(statusRegNames) {
		return statusRegNames[r-PARTNUM]
	}
	return fmt.Sprintf("StatusReg(0x%02X)", uint8(r))
}

// ParseStatusReg looks up a status register by name
func ParseStatusReg(name string) (StatusReg, error) {
	name = strings.ToUpper(strings.TrimSpace(name))
	for i, n := range statusRegNames {
		if n == name {
			return PARTNUM + StatusReg(i), nil
		}
	}
	return 0, fmt.Errorf("unknown status register %q", name)
}

// GdoCfg is a GDOx pin signal selection, written to IOCFG0..2
type GdoCfg uint8

// GDO signal selections
const (
	GdoRxFifoThreshold              GdoCfg = 0x00
	GdoRxFifoThresholdOrEndOfPacket GdoCfg = 0x01
	GdoTxFifoThreshold              GdoCfg = 0x02
	GdoTxFifoFull                   GdoCfg = 0x03
	GdoRxFifoOverflow               GdoCfg = 0x04
	GdoTxFifoUnderflow              GdoCfg = 0x05
	GdoSyncWord                     GdoCfg = 0x06
	GdoPacketCrcOkReceived          GdoCfg = 0x07
	GdoPreambleQualityReached       GdoCfg = 0x08
	GdoClearChannelAssessment       GdoCfg = 0x09
	GdoLockDetectorOutput           GdoCfg = 0x0A
	GdoSerialClock                  GdoCfg = 0x0B
	GdoSerialSynchronousDataOutput  GdoCfg = 0x0C
	GdoSerialDataOutput             GdoCfg = 0x0D // Asynchronous serial mode data, used for OOK capture
	GdoCarrierSense                 GdoCfg = 0x0E
	GdoCrcOk                        GdoCfg = 0x0F
	GdoRxHardData1                  GdoCfg = 0x16
	GdoRxHardData0                  GdoCfg = 0x17
	GdoPaPd                         GdoCfg = 0x1B
	GdoLnaPd                        GdoCfg = 0x1C
	GdoRxSymbolTick                 GdoCfg = 0x1D
	GdoWorEvnt0                     GdoCfg = 0x24
	GdoWorEvnt1                     GdoCfg = 0x25
	GdoClk256                       GdoCfg = 0x26
	GdoClk32k                       GdoCfg = 0x27
	GdoChipRdy                      GdoCfg = 0x29
	GdoXoscStable                   GdoCfg = 0x2B
	GdoHighImpedance                GdoCfg = 0x2E
	GdoZero                         GdoCfg = 0x2F
	GdoClkXosc1                     GdoCfg = 0x30
	GdoClkXosc1_5                   GdoCfg = 0x31
	GdoClkXosc2                     GdoCfg = 0x32
	GdoClkXosc3                     GdoCfg = 0x33
	GdoClkXosc4                     GdoCfg = 0x34
	GdoClkXosc6                     GdoCfg = 0x35
	GdoClkXosc8                     GdoCfg = 0x36
	GdoClkXosc12                    GdoCfg = 0x37
	GdoClkXosc16                    GdoCfg = 0x38
	GdoClkXosc24                    GdoCfg = 0x39
	GdoClkXosc32                    GdoCfg = 0x3A
	GdoClkXosc48                    GdoCfg = 0x3B
	GdoClkXosc64                    GdoCfg = 0x3C
	GdoClkXosc96                    GdoCfg = 0x3D
	GdoClkXosc128                   GdoCfg = 0x3E
	GdoClkXosc192                   GdoCfg = 0x3F
)

// Status is the chip status byte returned with every transfer
type Status uint8

// Chip states reported in status bits 6:4
const (
	StateIdle            = 0
	StateRX              = 1
	StateTX              = 2
	StateFSTXON          = 3
	StateCalibrate       = 4
	StateSettling        = 5
	StateRXFifoOverflow  = 6
	StateTXFifoUnderflow = 7
)

var chipStateNames = [8]string{
	"IDLE", "RX", "TX", "FSTXON", "CALIBRATE", "SETTLING", "RXFIFO_OVERFLOW", "TXFIFO_UNDERFLOW",
}

// ChipReady reports whether the crystal is running (CHIP_RDYn low)
func (s Status) ChipReady() bool {
	return s&0x80 == 0
}

// State returns the main state machine mode
func (s Status) State() uint8 {
	return uint8(s>>4) & 0x07
}

// FifoBytes returns the FIFO bytes available field
func (s Status) FifoBytes() uint8 {
	return uint8(s) & 0x0F
}

// String formats the status byte as 2 hex digits
func (s Status) String() string {
	return fmt.Sprintf("%02x", uint8(s))
}

// Describe returns the decoded status fields
func (s Status) Describe() string {
	return fmt.Sprintf("%s (ready=%v state=%s fifo=%d)",
		s, s.ChipReady(), chipStateNames[s.State()], s.FifoBytes())
}
