// SPDX-License-Identifier: Apache-2.0
// Copyright (c) 2025 Kaz Walker, Thermoquad

package tester

import (
	"context"
	"fmt"
	"math/rand"
	"strings"
	"time"

	"github.com/Thermoquad/rftool/pkg/ykq368"
)

// Encoding selects how runs alternate between full and data-only commands
type Encoding uint8

// Encodings
const (
	EncodingPreambleAndData Encoding = iota
	EncodingDataOnly
	EncodingRandom
)

var encodingNames = [...]string{"preamble-and-data", "data-only", "random"}

func (e Encoding) String() string {
	if int(e) < len(encodingNames) {
		return encodingNames[e]
	}
	return fmt.Sprintf("Encoding(%d)", uint8(e))
}

// ParseEncoding parses an encoding name
func ParseEncoding(s string) (Encoding, error) {
	name := strings.ToLower(strings.TrimSpace(s))
	for i, n := range encodingNames {
		if n == name {
			return Encoding(i), nil
		}
	}
	return 0, fmt.Errorf("unknown encoding %q (use %s)", s, strings.Join(encodingNames[:], ", "))
}

// Plan returns, for each of count runs, whether the run sends the preamble.
// Random plans hold count/2 preamble runs in shuffled order.
func Plan(enc Encoding, count int, rng *rand.Rand) []bool {
	plan := make([]bool, count)
	switch enc {
	case EncodingPreambleAndData:
		for i := range plan {
			plan[i] = true
		}
	case EncodingRandom:
		for i := range plan {
			plan[i] = i&1 == 1
		}
		rng.Shuffle(len(plan), func(i, j int) {
			plan[i], plan[j] = plan[j], plan[i]
		})
	}
	return plan
}

// KeySet is the captured code of one remote
type KeySet struct {
	Preamble ykq368.Preamble
	Data     KeyConfig[ykq368.Data]
	Skip     uint8
	Repeat   uint8
}

// Validate checks that every key has data
func (k KeySet) Validate() error {
	for _, key := range Keys {
		if k.Data.Get(key) == 0 {
			return fmt.Errorf("%w: %s", ErrMissingKey, key)
		}
	}
	return nil
}

// Instr builds the send instructions for a run
func (k KeySet) Instr(hasPreamble bool) KeyConfig[ykq368.SendInstr] {
	send := ykq368.SendData
	if hasPreamble {
		send = ykq368.SendAll
	}
	var cfg KeyConfig[ykq368.SendInstr]
	for _, key := range Keys {
		cfg.Set(key, ykq368.SendInstr{
			Send:     send,
			Skip:     k.Skip,
			Preamble: k.Preamble,
			Data:     k.Data.Get(key),
			Repeat:   k.Repeat,
		})
	}
	return cfg
}

// Scenario is the open/close test sequence run against a gate
type Scenario struct {
	UI Interaction

	Cycles     int // Cycles per run
	OpenCount  int // Open/stop pairs in the open direction
	CloseCount int // Close/stop pairs in the close direction

	BeforeRun   time.Duration // Pause before each run
	BeforeCycle time.Duration // Pause before each cycle
	LockWait    time.Duration
	StepWait    time.Duration // Wait after each partial move or stop
	TravelWait  time.Duration // Wait for a full travel
	RetryWait   time.Duration // Wait for a full travel after a failure
}

// DefaultScenario returns the standard gate test sequence
func DefaultScenario(ui Interaction) Scenario {
	return Scenario{
		UI:          ui,
		Cycles:      4,
		OpenCount:   2,
		CloseCount:  3,
		BeforeRun:   240 * time.Second,
		BeforeCycle: 5 * time.Second,
		LockWait:    10 * time.Second,
		StepWait:    5 * time.Second,
		TravelWait:  10 * time.Second,
		RetryWait:   20 * time.Second,
	}
}

// Prompt choices
const (
	opStart = "start"
	opSkip  = "skip"
	opWait  = "wait"
	opRetry = "retry"
)

func (s Scenario) choose(ctx context.Context, prompt string, ops []string) (string, error) {
	idx, err := s.UI.Select(ctx, prompt, ops)
	if err != nil {
		return "", err
	}
	if idx < 0 || idx >= len(ops) {
		return "", fmt.Errorf("invalid selection %d", idx)
	}
	return ops[idx], nil
}

// BeforeStart waits for d. When interrupted, the operator may start now,
// skip, or wait again. Returns false when the operator skips.
func (s Scenario) BeforeStart(ctx context.Context, d time.Duration) (bool, error) {
	ops := []string{opStart, opSkip, opWait}
	for {
		interrupted, err := s.UI.Wait(ctx, d)
		if err != nil {
			return false, err
		}
		if !interrupted {
			return true, nil
		}
		op, err := s.choose(ctx, "skip or start", ops)
		if err != nil {
			return false, err
		}
		switch op {
		case opStart:
			return true, nil
		case opSkip:
			return false, nil
		}
	}
}

// Direction is the gate travel direction under test
type Direction uint8

// Directions
const (
	DirectionOpen Direction = iota
	DirectionClose
)

func (d Direction) key() Key {
	if d == DirectionOpen {
		return KeyOpen
	}
	return KeyClose
}

func (d Direction) confirmPrompt() string {
	if d == DirectionOpen {
		return "fully opened"
	}
	return "fully closed"
}

// TestDirection moves the gate in steps of count move/stop pairs, then
// sends a full travel and asks the operator to confirm the end position.
// Opening is preceded by an unlock. Returns false when the operator skips.
func (s Scenario) TestDirection(ctx context.Context, dir Direction, count int, c *Cycle) (bool, error) {
	var hasFail bool

	if dir == DirectionOpen {
		r, err := c.Send(ctx, KeyLock, s.LockWait)
		if err != nil {
			return false, err
		}
		if r == ResultFail {
			hasFail = true
		}
	}

	key := dir.key()
	stopPass := true
	for i := 0; i < count; i++ {
		// A failed stop leaves the gate moving, so the next move is skipped
		if stopPass {
			r, err := c.Send(ctx, key, s.StepWait)
			if err != nil {
				return false, err
			}
			if r == ResultFail {
				hasFail = true
				continue
			}
		}
		r, err := c.Send(ctx, KeyStop, s.StepWait)
		if err != nil {
			return false, err
		}
		stopPass = r == ResultPass
		if !stopPass {
			hasFail = true
		}
	}

	wait := s.TravelWait
	if hasFail {
		wait = s.RetryWait
	}
	ops := []string{opSkip, opRetry}
	for {
		r, err := c.Send(ctx, key, wait)
		if err != nil {
			return false, err
		}
		if r == ResultPass {
			ok, err := s.UI.Confirm(ctx, dir.confirmPrompt(), true)
			if err != nil {
				return false, err
			}
			if ok {
				return true, nil
			}
		}
		op, err := s.choose(ctx, "retry or skip test", ops)
		if err != nil {
			return false, err
		}
		if op == opSkip {
			return false, nil
		}
		wait = s.RetryWait
	}
}

// RunCycles runs up to Cycles open/close cycles. A skipped pause skips that
// cycle; a skipped direction ends the run.
func (s Scenario) RunCycles(ctx context.Context, t *Tester) error {
	for i := 0; i < s.Cycles; i++ {
		start, err := s.BeforeStart(ctx, s.BeforeCycle)
		if err != nil {
			return err
		}
		if !start {
			continue
		}
		ok, err := t.WithCycle(func(c *Cycle) (bool, error) {
			if ok, err := s.TestDirection(ctx, DirectionOpen, s.OpenCount, c); !ok || err != nil {
				return false, err
			}
			return s.TestDirection(ctx, DirectionClose, s.CloseCount, c)
		})
		if err != nil {
			return err
		}
		if !ok {
			break
		}
	}
	return nil
}
