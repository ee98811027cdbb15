// SPDX-License-Identifier: GPL-2.0-or-later
// Copyright (c) 2025 Kaz Walker, Thermoquad

package cmd

import (
	"fmt"
	"io"
	"os"
	"time"

	"github.com/spf13/cobra"

	"github.com/Thermoquad/rftool/pkg/waveform"
)

var vcdTimescale int

var vcdCmd = &cobra.Command{
	Use:   "vcd <input|-> <output|->",
	Short: "Convert a sample capture into a VCD waveform",
	Long: `Convert a packed 1-bit sample capture (MSB first) into a Value Change Dump
with a single wire named "sig", for viewing in a waveform viewer.

--timescale is the sample period as a power of ten in seconds, e.g. -6 for
captures taken at 1 MHz.`,
	Args: cobra.ExactArgs(2),
	RunE: runVCD,
}

func init() {
	rootCmd.AddCommand(vcdCmd)
	vcdCmd.Flags().IntVar(&vcdTimescale, "timescale", -6, "Sample period as a power of ten in seconds (-15..2)")
}

func runVCD(cmd *cobra.Command, args []string) error {
	var in io.Reader = os.Stdin
	if args[0] != "-" {
		f, err := os.Open(args[0])
		if err != nil {
			return err
		}
		defer f.Close()
		in = f
	}

	var out io.Writer = cmd.OutOrStdout()
	var outFile *os.File
	if args[1] != "-" {
		f, err := os.Create(args[1])
		if err != nil {
			return err
		}
		defer f.Close()
		outFile = f
		out = f
	}

	opts := waveform.Options{
		Timescale: vcdTimescale,
		Date:      time.Now().Format(time.RFC1123),
		Version:   "rftool " + rootCmd.Version,
	}
	if err := waveform.WriteVCD(in, out, opts); err != nil {
		return fmt.Errorf("failed to convert %s: %w", args[0], err)
	}

	if outFile != nil {
		if err := outFile.Close(); err != nil {
			return err
		}
		logger.Info().Str("output", args[1]).Msg("waveform written")
	}
	return nil
}
