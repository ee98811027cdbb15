// SPDX-License-Identifier: GPL-2.0-or-later
// Copyright (c) 2025 Kaz Walker, Thermoquad

package cmd

import (
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"github.com/Thermoquad/rftool/pkg/tester"
)

var journalVerbose bool

var journalCmd = &cobra.Command{
	Use:   "journal <file>...",
	Short: "Summarize gate test journals",
	Long: `Read one or more run journals written by the test command and print the
pass/fail counts per key.

With --verbose every recorded key press is listed as well.`,
	Args: cobra.MinimumNArgs(1),
	RunE: runJournal,
}

func init() {
	rootCmd.AddCommand(journalCmd)
	journalCmd.Flags().BoolVarP(&journalVerbose, "verbose", "v", false, "List every key press")
}

func runJournal(cmd *cobra.Command, args []string) error {
	out := cmd.OutOrStdout()
	for i, path := range args {
		run, err := tester.ReadJournal(path)
		if err != nil {
			return err
		}
		if i > 0 {
			fmt.Fprintln(out)
		}

		fmt.Fprintf(out, "======== run %s ========\n", run.ID)
		fmt.Fprintf(out, "Started:  %s\n", run.StartTime.Format("2006-01-02 15:04:05"))
		fmt.Fprintf(out, "Duration: %s\n", run.EndTime.Sub(run.StartTime).Round(time.Millisecond))
		fmt.Fprintf(out, "Send:     %s\n", run.Instr.Get(tester.KeyOpen).Send)

		if journalVerbose {
			for n, c := range run.Cycles {
				fmt.Fprintf(out, "==== cycle %d ====\n", n)
				for _, k := range c.TestKeys {
					fmt.Fprintf(out, "[%.3f] %-5s %s\n", k.Timestamp.Sub(run.StartTime).Seconds(), k.Key, k.Result)
				}
			}
		}

		fmt.Fprint(out, tester.Summarize(run))
	}
	return nil
}
