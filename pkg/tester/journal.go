// SPDX-License-Identifier: Apache-2.0
// Copyright (c) 2025 Kaz Walker, Thermoquad

package tester

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/fxamacker/cbor/v2"
)

// journalMode makes journals read-only once written
const journalMode = 0o444

// JournalExt is the file extension of run journals
const JournalExt = ".bin"

var journalEncMode = func() cbor.EncMode {
	em, err := cbor.EncOptions{
		Time:    cbor.TimeRFC3339Nano,
		TimeTag: cbor.EncTagRequired,
	}.EncMode()
	if err != nil {
		panic(err)
	}
	return em
}()

// EncodeRun encodes a run record as CBOR
func EncodeRun(run *TestRun) ([]byte, error) {
	return journalEncMode.Marshal(run)
}

// DecodeRun decodes a CBOR run record
func DecodeRun(data []byte) (*TestRun, error) {
	var run TestRun
	if err := cbor.Unmarshal(data, &run); err != nil {
		return nil, err
	}
	return &run, nil
}

// WriteJournal writes run to <dir>/<id>.bin and returns the path.
// Existing journals are never overwritten.
func WriteJournal(dir string, run *TestRun) (string, error) {
	data, err := EncodeRun(run)
	if err != nil {
		return "", fmt.Errorf("failed to encode run %s: %w", run.ID, err)
	}

	path := filepath.Join(dir, run.ID.String()+JournalExt)
	f, err := os.OpenFile(path, os.O_CREATE|os.O_EXCL|os.O_WRONLY, journalMode)
	if err != nil {
		return "", fmt.Errorf("failed to open report file: %w", err)
	}
	if _, err := f.Write(data); err != nil {
		f.Close()
		return "", fmt.Errorf("failed to write report file: %w", err)
	}
	if err := f.Close(); err != nil {
		return "", fmt.Errorf("failed to write report file: %w", err)
	}
	return path, nil
}

// ReadJournal reads a run journal
func ReadJournal(path string) (*TestRun, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	run, err := DecodeRun(data)
	if err != nil {
		return nil, fmt.Errorf("failed to decode %s: %w", path, err)
	}
	return run, nil
}

// KeySummary counts verdicts for one key
type KeySummary struct {
	Passed int
	Failed int
}

// Total returns the number of presses
func (s KeySummary) Total() int {
	return s.Passed + s.Failed
}

// Summary aggregates the verdicts of a run
type Summary struct {
	Cycles int
	Keys   KeyConfig[KeySummary]
}

// Summarize counts the verdicts of a run per key
func Summarize(run *TestRun) Summary {
	sum := Summary{Cycles: len(run.Cycles)}
	for _, c := range run.Cycles {
		for _, k := range c.TestKeys {
			ks := sum.Keys.Get(k.Key)
			if k.Result == ResultFail {
				ks.Failed++
			} else {
				ks.Passed++
			}
			sum.Keys.Set(k.Key, ks)
		}
	}
	return sum
}

// String formats the summary as a table
func (s Summary) String() string {
	var sb strings.Builder
	fmt.Fprintf(&sb, "Cycles: %d\n", s.Cycles)
	fmt.Fprintf(&sb, "%-6s %6s %6s %6s\n", "KEY", "TOTAL", "PASS", "FAIL")
	for _, k := range Keys {
		ks := s.Keys.Get(k)
		fmt.Fprintf(&sb, "%-6s %6d %6d %6d\n", k, ks.Total(), ks.Passed, ks.Failed)
	}
	return sb.String()
}
