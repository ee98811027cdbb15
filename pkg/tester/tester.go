// SPDX-License-Identifier: Apache-2.0
// Copyright (c) 2025 Kaz Walker, Thermoquad

package tester

import (
	"context"
	"fmt"
	"io"
	"os"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"github.com/Thermoquad/rftool/pkg/ykq368"
)

// Interaction is the operator side of a test
type Interaction interface {
	// Wait blocks for d and reports whether the operator interrupted it
	Wait(ctx context.Context, d time.Duration) (interrupted bool, err error)
	// Select asks the operator to pick one of items and returns its index
	Select(ctx context.Context, prompt string, items []string) (int, error)
	// Confirm asks a yes/no question
	Confirm(ctx context.Context, prompt string, def bool) (bool, error)
}

// Tester drives one run over a bridge connection
type Tester struct {
	id     uuid.UUID
	instr  KeyConfig[ykq368.SendInstr]
	start  time.Time
	ep     *ykq368.Endpoint
	ui     Interaction
	cycles []TestCycle

	out    io.Writer
	logger zerolog.Logger
	now    func() time.Time
}

// Option configures a Tester
type Option func(*Tester)

// WithOutput sets where progress is printed, stdout by default
func WithOutput(w io.Writer) Option {
	return func(t *Tester) { t.out = w }
}

// WithLogger sets the diagnostic logger
func WithLogger(l zerolog.Logger) Option {
	return func(t *Tester) { t.logger = l }
}

// WithClock replaces time.Now
func WithClock(now func() time.Time) Option {
	return func(t *Tester) { t.now = now }
}

// New starts a run: it assigns a time-ordered id, prints the header and
// selects the YKQ368 endpoint on w
func New(instr KeyConfig[ykq368.SendInstr], w io.Writer, ui Interaction, opts ...Option) (*Tester, error) {
	t := &Tester{
		instr:  instr,
		ui:     ui,
		out:    os.Stdout,
		logger: zerolog.Nop(),
		now:    time.Now,
	}
	for _, opt := range opts {
		opt(t)
	}

	t.start = t.now()
	id, err := uuid.NewV7()
	if err != nil {
		return nil, fmt.Errorf("failed to generate run id: %w", err)
	}
	t.id = id

	fmt.Fprintf(t.out, "======== test %s ========\n", t.id)
	fmt.Fprintf(t.out, "instr config:\n")
	for _, k := range Keys {
		fmt.Fprintf(t.out, "  %-5s %v\n", k, instr.Get(k))
	}

	ep, err := ykq368.OpenEndpoint(w)
	if err != nil {
		return nil, err
	}
	t.ep = ep
	t.logger.Debug().Str("run", t.id.String()).Msg("endpoint selected")

	return t, nil
}

// ID returns the run id
func (t *Tester) ID() uuid.UUID {
	return t.id
}

// WithCycle runs fn as one test cycle and records it. A cycle whose fn
// returns an error is not recorded.
func (t *Tester) WithCycle(fn func(*Cycle) (bool, error)) (bool, error) {
	fmt.Fprintf(t.out, "==== test cycle %d ====\n", len(t.cycles))
	c := &Cycle{
		tester: t,
		start:  t.now(),
	}
	ok, err := fn(c)
	if err != nil {
		return false, err
	}
	c.finish()
	return ok, nil
}

// Finish leaves the endpoint and returns the run record
func (t *Tester) Finish() (*TestRun, error) {
	if err := t.ep.Close(); err != nil {
		return nil, err
	}
	return &TestRun{
		ID:        t.id,
		Instr:     t.instr,
		StartTime: t.start,
		EndTime:   t.now(),
		Cycles:    t.cycles,
	}, nil
}

// Cycle records the keys sent within one test cycle
type Cycle struct {
	tester *Tester
	start  time.Time
	keys   []TestKey
	failed int
}

// Send transmits a key and waits. An uninterrupted wait passes; when the
// operator interrupts, they are asked for the verdict.
func (c *Cycle) Send(ctx context.Context, key Key, wait time.Duration) (TestResult, error) {
	t := c.tester
	instr := t.instr.Get(key)
	timestamp := t.now()

	fmt.Fprintf(t.out, "[%.3f] %s %v\n", timestamp.Sub(t.start).Seconds(), key, instr)
	if err := t.ep.Send(instr.Command()); err != nil {
		return ResultFail, fmt.Errorf("failed to send command: %w", err)
	}

	result := ResultPass
	interrupted, err := t.ui.Wait(ctx, wait)
	if err != nil {
		return ResultFail, fmt.Errorf("failed to wait on input: %w", err)
	}
	if interrupted {
		items := make([]string, len(Results))
		for i, r := range Results {
			items[i] = r.String()
		}
		idx, err := t.ui.Select(ctx, "did this test pass", items)
		if err != nil {
			return ResultFail, err
		}
		if idx < 0 || idx >= len(Results) {
			return ResultFail, fmt.Errorf("invalid selection %d", idx)
		}
		result = Results[idx]
	}

	t.logger.Debug().
		Str("key", key.String()).
		Str("result", result.String()).
		Dur("wait", wait).
		Bool("interrupted", interrupted).
		Msg("key tested")

	c.keys = append(c.keys, TestKey{
		Key:       key,
		Result:    result,
		Timestamp: timestamp,
		Instr:     instr,
	})
	if result == ResultFail {
		c.failed++
	}
	return result, nil
}

func (c *Cycle) finish() {
	t := c.tester
	total := len(c.keys)
	fmt.Fprintf(t.out, "Cycle report: %d total; %d passed; %d failed\n", total, total-c.failed, c.failed)
	t.cycles = append(t.cycles, TestCycle{
		StartTime: c.start,
		EndTime:   t.now(),
		TestKeys:  c.keys,
	})
}
