// SPDX-License-Identifier: GPL-2.0-or-later
// Copyright (c) 2025 Kaz Walker, Thermoquad

package cmd

import (
	"errors"
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"github.com/Thermoquad/rftool/pkg/cc1101"
)

var (
	cc1101Select  int
	cc1101Timeout int
	cc1101Close   bool
	cc1101TX      bool
)

// errReplyTimeout is returned when the bridge does not answer a transfer in time
var errReplyTimeout = errors.New("timeout waiting for reply")

var cc1101Cmd = &cobra.Command{
	Use:   "cc1101",
	Short: "Access the CC1101 transceiver registers through the bridge",
	Long: `Read and write CC1101 registers, issue command strobes and dump the
configuration through the bridge's register access mode.

Every transfer is answered with the chip status byte, printed in hex together
with its decoded fields. Register access mode is left when the command ends.

Exit codes:
  0 - All transfers answered
  1 - A transfer failed or timed out
  2 - Connection error`,
}

var cc1101StatusCmd = &cobra.Command{
	Use:   "status",
	Short: "Read every status register",
	Args:  cobra.NoArgs,
	RunE: withDevice(func(cmd *cobra.Command, dev *cc1101.Device, args []string) error {
		out := cmd.OutOrStdout()
		for _, reg := range cc1101.StatusRegs() {
			status, v, err := dev.ReadStatusReg(cc1101Close, reg)
			if err != nil {
				return err
			}
			fmt.Fprintf(out, "%-15s 0x%02X  %s\n", reg, v, status.Describe())
		}
		return nil
	}),
}

var cc1101ReadCmd = &cobra.Command{
	Use:   "read <register> [count]",
	Short: "Read a configuration or status register",
	Long: `Read a register by name. Configuration registers accept a count to read
consecutive registers in one burst.`,
	Args: cobra.RangeArgs(1, 2),
	RunE: withDevice(func(cmd *cobra.Command, dev *cc1101.Device, args []string) error {
		out := cmd.OutOrStdout()

		if sreg, err := cc1101.ParseStatusReg(args[0]); err == nil {
			if len(args) > 1 {
				return fmt.Errorf("status registers cannot be read in bursts")
			}
			status, v, err := dev.ReadStatusReg(cc1101Close, sreg)
			if err != nil {
				return err
			}
			fmt.Fprintf(out, "%-15s 0x%02X  %s\n", sreg, v, status.Describe())
			return nil
		}

		reg, err := cc1101.ParseConfigReg(args[0])
		if err != nil {
			return err
		}
		if len(args) == 1 {
			status, v, err := dev.ReadConfigReg(cc1101Close, reg)
			if err != nil {
				return err
			}
			fmt.Fprintf(out, "%-15s 0x%02X  %s\n", reg, v, status.Describe())
			return nil
		}

		count, err := strconv.Atoi(args[1])
		if err != nil {
			return fmt.Errorf("invalid count %q: %w", args[1], err)
		}
		status, values, err := dev.ReadConfigBurst(reg, count)
		if err != nil {
			return err
		}
		fmt.Fprintf(out, "status: %s\n", status.Describe())
		printConfigRegs(cmd, reg, values)
		return nil
	}),
}

var cc1101WriteCmd = &cobra.Command{
	Use:   "write <register> <value>...",
	Short: "Write configuration registers",
	Long: `Write a configuration register. Several values are written in one burst
to consecutive registers starting at the named one.`,
	Args: cobra.MinimumNArgs(2),
	RunE: withDevice(func(cmd *cobra.Command, dev *cc1101.Device, args []string) error {
		reg, err := cc1101.ParseConfigReg(args[0])
		if err != nil {
			return err
		}
		values, err := parseBytes(args[1:])
		if err != nil {
			return err
		}

		out := cmd.OutOrStdout()
		if len(values) == 1 {
			before, after, err := dev.WriteConfigReg(cc1101Close, reg, values[0])
			if err != nil {
				return err
			}
			fmt.Fprintf(out, "%-15s <- 0x%02X  %s -> %s\n", reg, values[0], before, after.Describe())
			return nil
		}

		status, statuses, err := dev.WriteConfigBurst(reg, values)
		if err != nil {
			return err
		}
		fmt.Fprintf(out, "status: %s\n", status.Describe())
		for i, v := range values {
			fmt.Fprintf(out, "%-15s <- 0x%02X  %s\n", reg+cc1101.ConfigReg(i), v, statuses[i])
		}
		return nil
	}),
}

var cc1101StrobeCmd = &cobra.Command{
	Use:   "strobe <name>",
	Short: "Issue a command strobe (SRES, SIDLE, STX, SRX, SNOP, ...)",
	Args:  cobra.ExactArgs(1),
	RunE: withDevice(func(cmd *cobra.Command, dev *cc1101.Device, args []string) error {
		s, err := cc1101.ParseStrobe(args[0])
		if err != nil {
			return err
		}
		access := cc1101.Read
		if cc1101TX {
			access = cc1101.Write
		}
		status, err := dev.CommandStrobe(cc1101Close, access, s)
		if err != nil {
			return err
		}
		fmt.Fprintf(cmd.OutOrStdout(), "%-15s %s\n", s, status.Describe())
		return nil
	}),
}

var cc1101DumpCmd = &cobra.Command{
	Use:   "dump",
	Short: "Read every configuration register and the PA table",
	Args:  cobra.NoArgs,
	RunE: withDevice(func(cmd *cobra.Command, dev *cc1101.Device, args []string) error {
		status, values, err := dev.ReadConfigBurst(cc1101.IOCFG2, cc1101.NumConfigRegs)
		if err != nil {
			return err
		}
		out := cmd.OutOrStdout()
		fmt.Fprintf(out, "status: %s\n", status.Describe())
		printConfigRegs(cmd, cc1101.IOCFG2, values)

		_, table, err := dev.ReadPATable()
		if err != nil {
			return err
		}
		fmt.Fprintf(out, "%-15s % X\n", "PATABLE", table[:])
		return nil
	}),
}

func init() {
	rootCmd.AddCommand(cc1101Cmd)
	cc1101Cmd.PersistentFlags().IntVar(&cc1101Select, "select", -1, "Endpoint select byte written before register access (-1 for none)")
	cc1101Cmd.PersistentFlags().IntVar(&cc1101Timeout, "timeout", 2, "Timeout in seconds for each reply")
	cc1101Cmd.PersistentFlags().BoolVar(&cc1101Close, "close", false, "Release chip select after single transfers")
	cc1101StrobeCmd.Flags().BoolVar(&cc1101TX, "tx", false, "Report the TX FIFO in the status byte")

	cc1101Cmd.AddCommand(cc1101StatusCmd, cc1101ReadCmd, cc1101WriteCmd, cc1101StrobeCmd, cc1101DumpCmd)
}

// readTimeouter is implemented by connections that support read timeouts
type readTimeouter interface {
	SetReadTimeout(d time.Duration) error
}

// replyConn bounds every read by timeout and turns a timed out read into
// errReplyTimeout so that register reads never block forever
type replyConn struct {
	Connection
	timeout time.Duration
}

func (c replyConn) Read(p []byte) (int, error) {
	if t, ok := c.Connection.(readTimeouter); ok {
		if err := t.SetReadTimeout(c.timeout); err != nil {
			return 0, fmt.Errorf("failed to set read timeout: %w", err)
		}
	}
	n, err := c.Connection.Read(p)
	if n == 0 && (err == nil || errors.Is(err, os.ErrDeadlineExceeded)) {
		return 0, errReplyTimeout
	}
	return n, err
}

// withDevice opens the connection, enters register access mode, runs fn and
// leaves register access mode again
func withDevice(fn func(cmd *cobra.Command, dev *cc1101.Device, args []string) error) func(*cobra.Command, []string) error {
	return func(cmd *cobra.Command, args []string) error {
		if cc1101Select > 0xFF {
			return fmt.Errorf("--select must be a byte: %d", cc1101Select)
		}

		conn, connInfo := mustOpenConnection()
		defer conn.Close()
		logger.Debug().Str("connection", connInfo).Msg("register access")

		if cc1101Select >= 0 {
			if _, err := conn.Write([]byte{byte(cc1101Select)}); err != nil {
				fmt.Fprintf(os.Stderr, "Connection error: %v\n", err)
				conn.Close()
				exit(2)
			}
		}

		dev := cc1101.NewDevice(replyConn{conn, time.Duration(cc1101Timeout) * time.Second})
		runErr := fn(cmd, dev, args)
		if err := dev.Exit(); err != nil && runErr == nil {
			runErr = err
		}
		if runErr != nil {
			fmt.Fprintf(os.Stderr, "Error: %v\n", runErr)
			conn.Close()
			exit(1)
		}
		return nil
	}
}

func printConfigRegs(cmd *cobra.Command, start cc1101.ConfigReg, values []byte) {
	out := cmd.OutOrStdout()
	for i, v := range values {
		reg := start + cc1101.ConfigReg(i)
		fmt.Fprintf(out, "0x%02X %-10s 0x%02X\n", uint8(reg), reg, v)
	}
}

// parseBytes parses byte values given as decimal, 0x hex or 0b binary
func parseBytes(args []string) ([]byte, error) {
	out := make([]byte, len(args))
	for i, a := range args {
		v, err := strconv.ParseUint(strings.TrimSpace(a), 0, 8)
		if err != nil {
			return nil, fmt.Errorf("invalid byte %q: %w", a, err)
		}
		out[i] = byte(v)
	}
	return out, nil
}
