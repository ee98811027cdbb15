// SPDX-License-Identifier: GPL-2.0-or-later
// Copyright (c) 2025 Kaz Walker, Thermoquad

package cmd

import (
	"context"
	"fmt"
	"math/rand"
	"os"
	"os/signal"
	"time"

	"github.com/spf13/cobra"

	"github.com/Thermoquad/rftool/pkg/tester"
)

var (
	testCount    int
	testEncoding string
	testDest     string
)

var testCmd = &cobra.Command{
	Use:   "test",
	Short: "Run the interactive gate reliability test",
	Long: `Drive a gate through repeated open/close cycles with the configured remote
code and record the operator's verdict for every key press.

Each run waits before starting (press any key to start, skip or wait again),
then runs up to four cycles. A cycle unlocks and opens the gate in steps,
confirms it is fully open, then closes it in steps and confirms it is fully
closed. After each command the tool waits; an uninterrupted wait counts as a
pass, interrupting it asks for the verdict.

Every run is written to <dest>/<run id>.bin as a read-only CBOR journal.

Encodings:
  preamble-and-data  every run sends preamble and data
  data-only          every run sends data only
  random             half of the runs send the preamble, in random order`,
	Args: cobra.NoArgs,
	RunE: runTest,
}

func init() {
	rootCmd.AddCommand(testCmd)
	testCmd.Flags().IntVar(&testCount, "count", 0, "Number of runs (default from config)")
	testCmd.Flags().StringVar(&testEncoding, "encoding", "", "Run encoding: preamble-and-data, data-only or random (default from config)")
	testCmd.Flags().StringVar(&testDest, "dest", "", "Directory to write journals to (default from config)")
}

func runTest(cmd *cobra.Command, args []string) error {
	flags := cmd.Flags()
	if flags.Changed("count") {
		cfg.Tester.Count = testCount
	}
	if flags.Changed("encoding") {
		cfg.Tester.Encoding = testEncoding
	}
	if flags.Changed("dest") {
		cfg.Tester.Dest = testDest
	}

	enc, err := tester.ParseEncoding(cfg.Tester.Encoding)
	if err != nil {
		return err
	}
	keys := cfg.Keys.KeySet()
	if err := keys.Validate(); err != nil {
		return fmt.Errorf("%w (fill in the [keys] config section from a decoded capture)", err)
	}
	if info, err := os.Stat(cfg.Tester.Dest); err != nil {
		return fmt.Errorf("failed to open dest dir: %w", err)
	} else if !info.IsDir() {
		return fmt.Errorf("failed to open dest dir: %s is not a directory", cfg.Tester.Dest)
	}

	ui, err := newTerminalUI()
	if err != nil {
		return err
	}

	conn, connInfo := mustOpenConnection()
	defer conn.Close()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	fmt.Printf("rftool - Gate Test\n")
	fmt.Printf("Connection: %s\n", connInfo)
	fmt.Printf("Runs: %d (%s)\n", cfg.Tester.Count, enc)
	fmt.Printf("Journals: %s\n\n", cfg.Tester.Dest)

	plan := tester.Plan(enc, cfg.Tester.Count, rand.New(rand.NewSource(time.Now().UnixNano())))
	session := tester.Session{
		Scenario: tester.DefaultScenario(ui),
		Keys:     keys,
		Dest:     cfg.Tester.Dest,
		Conn:     conn,
		Options:  []tester.Option{tester.WithLogger(logger)},
		Logger:   logger,
	}

	paths, err := session.Run(ctx, plan)
	for _, p := range paths {
		fmt.Printf("Journal written: %s\n", p)
	}
	return err
}
