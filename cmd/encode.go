// SPDX-License-Identifier: GPL-2.0-or-later
// Copyright (c) 2025 Kaz Walker, Thermoquad

package cmd

import (
	"fmt"
	"strconv"

	"github.com/spf13/cobra"

	"github.com/Thermoquad/rftool/pkg/tester"
	"github.com/Thermoquad/rftool/pkg/ykq368"
)

// instrFlags describe one send instruction on the command line
type instrFlags struct {
	key      string
	send     string
	skip     uint8
	repeat   uint8
	preamble string
	data     string
	strict   bool
}

func addInstrFlags(cmd *cobra.Command, f *instrFlags) {
	cmd.Flags().StringVarP(&f.key, "key", "k", "", "Use the configured code of a key (close, open, lock, stop)")
	cmd.Flags().StringVar(&f.send, "send", "", "Parts to send: preamble, data or all (default from config)")
	cmd.Flags().Uint8Var(&f.skip, "skip", 0, "Leading bits to skip (0-31)")
	cmd.Flags().Uint8Var(&f.repeat, "repeat", 0, "Frame repetitions")
	cmd.Flags().StringVar(&f.preamble, "preamble", "", "Preamble value (e.g. 0x0007)")
	cmd.Flags().StringVar(&f.data, "data", "", "Data value (e.g. 0x312345678)")
	cmd.Flags().BoolVar(&f.strict, "strict", false, "Reject fields that would be truncated")
}

// resolve builds the instruction: the configured key or defaults first,
// then any flag given explicitly
func (f *instrFlags) resolve(cmd *cobra.Command) (ykq368.SendInstr, error) {
	var instr ykq368.SendInstr
	flags := cmd.Flags()

	if f.key != "" {
		key, err := tester.ParseKey(f.key)
		if err != nil {
			return instr, err
		}
		instr, err = cfg.Keys.Instr(key)
		if err != nil {
			return instr, err
		}
	} else {
		parts, err := ykq368.ParseSendParts(cfg.Keys.SendParts)
		if err != nil {
			return instr, err
		}
		instr = ykq368.SendInstr{
			Send:     parts,
			Skip:     cfg.Keys.Skip,
			Preamble: ykq368.Preamble(cfg.Keys.Preamble),
			Repeat:   cfg.Keys.Repeat,
		}
		if !flags.Changed("data") {
			return instr, fmt.Errorf("either --key or --data must be specified")
		}
	}

	if flags.Changed("send") {
		parts, err := ykq368.ParseSendParts(f.send)
		if err != nil {
			return instr, err
		}
		instr.Send = parts
	}
	if flags.Changed("skip") {
		instr.Skip = f.skip
	}
	if flags.Changed("repeat") {
		instr.Repeat = f.repeat
	}
	if flags.Changed("preamble") {
		v, err := strconv.ParseUint(f.preamble, 0, 16)
		if err != nil {
			return instr, fmt.Errorf("invalid preamble %q: %w", f.preamble, err)
		}
		instr.Preamble = ykq368.Preamble(v)
	}
	if flags.Changed("data") {
		v, err := strconv.ParseUint(f.data, 0, 64)
		if err != nil {
			return instr, fmt.Errorf("invalid data %q: %w", f.data, err)
		}
		instr.Data = ykq368.Data(v)
	}

	if f.strict {
		if err := instr.Validate(); err != nil {
			return instr, err
		}
	} else if err := instr.Validate(); err != nil {
		logger.Warn().Err(err).Msg("instruction will be truncated")
	}
	return instr, nil
}

var encodeFlags instrFlags

var encodeCmd = &cobra.Command{
	Use:   "encode",
	Short: "Encode a send instruction into the 8-byte bridge command",
	Long: `Pack a YKQ368 send instruction into the 8-byte command understood by the
bridge, without sending it.

The instruction comes from a configured key (--key) or from --data, with the
remaining fields taken from the [keys] config section unless given as flags.
Out-of-range fields are silently truncated unless --strict is set.`,
	Args: cobra.NoArgs,
	RunE: runEncode,
}

func init() {
	rootCmd.AddCommand(encodeCmd)
	addInstrFlags(encodeCmd, &encodeFlags)
}

func runEncode(cmd *cobra.Command, args []string) error {
	instr, err := encodeFlags.resolve(cmd)
	if err != nil {
		return err
	}

	c := instr.Command()
	out := cmd.OutOrStdout()
	fmt.Fprintf(out, "%v\n", instr)
	fmt.Fprintf(out, "Command: % X\n", c[:])
	return nil
}
