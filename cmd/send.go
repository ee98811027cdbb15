// SPDX-License-Identifier: GPL-2.0-or-later
// Copyright (c) 2025 Kaz Walker, Thermoquad

package cmd

import (
	"fmt"
	"os"
	"time"

	"github.com/spf13/cobra"

	"github.com/Thermoquad/rftool/pkg/ykq368"
)

var (
	sendFlags    instrFlags
	sendTimes    int
	sendInterval time.Duration
)

var sendCmd = &cobra.Command{
	Use:   "send",
	Short: "Transmit a YKQ368 command through the bridge",
	Long: `Select the YKQ368 endpoint on the bridge, send a command one or more
times, then leave the endpoint with the all-zero exit command.

The instruction is built as for the encode command.

Exit codes:
  0 - All commands sent
  1 - A command could not be sent
  2 - Connection error`,
	Args: cobra.NoArgs,
	RunE: runSend,
}

func init() {
	rootCmd.AddCommand(sendCmd)
	addInstrFlags(sendCmd, &sendFlags)
	sendCmd.Flags().IntVarP(&sendTimes, "times", "n", 1, "Number of times to send the command")
	sendCmd.Flags().DurationVar(&sendInterval, "interval", time.Second, "Pause between sends")
}

func runSend(cmd *cobra.Command, args []string) error {
	instr, err := sendFlags.resolve(cmd)
	if err != nil {
		return err
	}
	if sendTimes < 1 {
		return fmt.Errorf("--times must be at least 1")
	}

	conn, connInfo := mustOpenConnection()
	defer conn.Close()

	fmt.Printf("rftool - Send\n")
	fmt.Printf("Connection: %s\n", connInfo)
	fmt.Printf("Instruction: %v\n\n", instr)

	ep, err := ykq368.OpenEndpoint(conn)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Connection error: %v\n", err)
		conn.Close()
		exit(2)
	}

	c := instr.Command()
	failed := false
	for i := 1; i <= sendTimes; i++ {
		fmt.Printf("Send %d/%d: % X", i, sendTimes, c[:])
		if err := ep.Send(c); err != nil {
			fmt.Printf(" FAILED: %v\n", err)
			failed = true
			break
		}
		fmt.Printf(" OK\n")
		logger.Debug().Int("n", i).Str("command", c.String()).Msg("command sent")

		if i < sendTimes {
			time.Sleep(sendInterval)
		}
	}

	if err := ep.Close(); err != nil {
		fmt.Fprintf(os.Stderr, "Exit failed: %v\n", err)
		failed = true
	}

	if failed {
		conn.Close()
		exit(1)
	}
	return nil
}
