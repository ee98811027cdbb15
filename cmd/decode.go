// SPDX-License-Identifier: GPL-2.0-or-later
// Copyright (c) 2025 Kaz Walker, Thermoquad

package cmd

import (
	"errors"
	"fmt"
	"io"
	"os"

	"github.com/spf13/cobra"

	"github.com/Thermoquad/rftool/pkg/ykq368"
)

var (
	decodeFrames bool
	decodeStats  bool
	decodeQuiet  bool
)

var decodeCmd = &cobra.Command{
	Use:   "decode [file|-]",
	Short: "Decode a YKQ368 sample capture into symbols and frames",
	Long: `Decode a packed 1-bit sample capture (MSB first, one bit per sample tick)
into YKQ368 symbols.

Every symbol and frame boundary is printed on its own line, followed by the
data blocks: symbols in groups of four, one line per frame.

The capture is read from a file, from stdin when the argument is "-", or
streamed live from the bridge connection when no argument is given.`,
	Args: cobra.MaximumNArgs(1),
	RunE: runDecode,
}

func init() {
	rootCmd.AddCommand(decodeCmd)
	decodeCmd.Flags().BoolVar(&decodeFrames, "frames", false, "Print each frame with its value")
	decodeCmd.Flags().BoolVar(&decodeStats, "stats", false, "Print decode statistics")
	decodeCmd.Flags().BoolVarP(&decodeQuiet, "quiet", "q", false, "Do not print individual records")
}

func runDecode(cmd *cobra.Command, args []string) error {
	var input io.Reader
	switch {
	case len(args) == 0:
		conn, connInfo := mustOpenConnection()
		defer conn.Close()

		fmt.Printf("rftool - Live Decode\n")
		fmt.Printf("Connection: %s\n", connInfo)
		fmt.Printf("Press Ctrl+C to exit\n\n")
		input = liveReader{conn}

	case args[0] == "-":
		input = os.Stdin

	default:
		f, err := os.Open(args[0])
		if err != nil {
			return err
		}
		defer f.Close()
		input = f
	}

	out := cmd.OutOrStdout()
	var blocks ykq368.BlockWriter
	var records []ykq368.Record
	stats := ykq368.NewStatistics()

	err := ykq368.Decode(input, cfg.Timing, func(r ykq368.Record) error {
		if !decodeQuiet {
			fmt.Fprintln(out, ykq368.FormatRecord(r))
		}
		blocks.Add(r)
		stats.Update(r)
		if decodeFrames {
			records = append(records, r)
		}
		return nil
	})
	if err != nil {
		return err
	}

	fmt.Fprintf(out, "\ndata:\n%s\n", blocks.String())

	if decodeFrames {
		fmt.Fprintln(out, "\nframes:")
		for _, f := range ykq368.SplitFrames(records) {
			fmt.Fprintln(out, ykq368.FormatFrame(f.TrimUnknown()))
		}
	}
	if decodeStats {
		fmt.Fprintf(out, "\n%s", stats)
	}

	logger.Debug().
		Uint64("symbols", stats.Symbols).
		Uint64("unknown", stats.Unknowns).
		Uint64("frames", stats.FrameBoundaries).
		Msg("decode finished")
	return nil
}

// liveReader ends the stream cleanly when the bridge closes the connection
type liveReader struct {
	r io.Reader
}

func (l liveReader) Read(p []byte) (int, error) {
	n, err := l.r.Read(p)
	if errors.Is(err, ErrConnectionClosed) {
		logger.Info().Msg("connection closed")
		return n, io.EOF
	}
	return n, err
}
