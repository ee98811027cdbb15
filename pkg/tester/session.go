// SPDX-License-Identifier: Apache-2.0
// Copyright (c) 2025 Kaz Walker, Thermoquad

package tester

import (
	"context"
	"fmt"
	"io"

	"github.com/rs/zerolog"
)

// Session runs a planned series of test runs and journals each of them
type Session struct {
	Scenario Scenario
	Keys     KeySet
	Dest     string    // Journal directory
	Conn     io.Writer // Bridge connection
	Options  []Option  // Passed to every Tester
	Logger   zerolog.Logger
}

// Run executes one test run per plan entry and returns the journal paths.
// Skipping the pause before a run ends the session.
func (s *Session) Run(ctx context.Context, plan []bool) ([]string, error) {
	if err := s.Keys.Validate(); err != nil {
		return nil, err
	}

	var paths []string
	for i, hasPreamble := range plan {
		start, err := s.Scenario.BeforeStart(ctx, s.Scenario.BeforeRun)
		if err != nil {
			return paths, err
		}
		if !start {
			s.Logger.Info().Int("completed", i).Int("planned", len(plan)).Msg("session ended by operator")
			break
		}

		t, err := New(s.Keys.Instr(hasPreamble), s.Conn, s.Scenario.UI, s.Options...)
		if err != nil {
			return paths, fmt.Errorf("failed to start new round: %w", err)
		}
		if err := s.Scenario.RunCycles(ctx, t); err != nil {
			return paths, err
		}
		run, err := t.Finish()
		if err != nil {
			return paths, fmt.Errorf("failed to close tester: %w", err)
		}

		path, err := WriteJournal(s.Dest, run)
		if err != nil {
			return paths, err
		}
		s.Logger.Info().
			Str("run", run.ID.String()).
			Bool("preamble", hasPreamble).
			Int("cycles", len(run.Cycles)).
			Str("journal", path).
			Msg("run recorded")
		paths = append(paths, path)
	}
	return paths, nil
}
