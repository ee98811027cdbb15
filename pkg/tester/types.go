// SPDX-License-Identifier: Apache-2.0
// Copyright (c) 2025 Kaz Walker, Thermoquad

// Package tester runs operator-assisted reception tests against a gate
// receiver. The bridge transmits each key, the operator watches the gate and
// interrupts the wait when it did not react, and every run is journaled.
package tester

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/fxamacker/cbor/v2"
	"github.com/google/uuid"

	"github.com/Thermoquad/rftool/pkg/ykq368"
)

// ErrMissingKey is returned when a key has no data configured
var ErrMissingKey = errors.New("missing key data")

// Key is a remote control button
type Key uint8

// Remote keys
const (
	KeyClose Key = iota
	KeyOpen
	KeyLock
	KeyStop
)

// Keys lists every key
var Keys = []Key{KeyClose, KeyOpen, KeyLock, KeyStop}

var keyNames = [...]string{"close", "open", "lock", "stop"}

func (k Key) String() string {
	if int(k) < len(keyNames) {
		return keyNames[k]
	}
	return fmt.Sprintf("Key(%d)", uint8(k))
}

// ParseKey parses a key name
func ParseKey(s string) (Key, error) {
	name := strings.ToLower(strings.TrimSpace(s))
	for i, n := range keyNames {
		if n == name {
			return Key(i), nil
		}
	}
	return 0, fmt.Errorf("unknown key %q (use close, open, lock or stop)", s)
}

// MarshalCBOR encodes the key as its name
func (k Key) MarshalCBOR() ([]byte, error) {
	if int(k) >= len(keyNames) {
		return nil, fmt.Errorf("cannot encode %v", k)
	}
	return cbor.Marshal(keyNames[k])
}

// UnmarshalCBOR decodes a key name
func (k *Key) UnmarshalCBOR(data []byte) error {
	var name string
	if err := cbor.Unmarshal(data, &name); err != nil {
		return err
	}
	key, err := ParseKey(name)
	if err != nil {
		return err
	}
	*k = key
	return nil
}

// KeyConfig holds one value per key
type KeyConfig[T any] struct {
	Close T `cbor:"close"`
	Open  T `cbor:"open"`
	Lock  T `cbor:"lock"`
	Stop  T `cbor:"stop"`
}

// Get returns the value for a key
func (c KeyConfig[T]) Get(k Key) T {
	switch k {
	case KeyOpen:
		return c.Open
	case KeyLock:
		return c.Lock
	case KeyStop:
		return c.Stop
	default:
		return c.Close
	}
}

// Set replaces the value for a key
func (c *KeyConfig[T]) Set(k Key, v T) {
	switch k {
	case KeyOpen:
		c.Open = v
	case KeyLock:
		c.Lock = v
	case KeyStop:
		c.Stop = v
	default:
		c.Close = v
	}
}

// TestResult is the operator verdict for one key press
type TestResult uint8

// Test results
const (
	ResultPass TestResult = iota
	ResultFail
)

// Results lists the verdicts in prompt order
var Results = []TestResult{ResultPass, ResultFail}

func (r TestResult) String() string {
	if r == ResultFail {
		return "fail"
	}
	return "pass"
}

// MarshalCBOR encodes the result as its name
func (r TestResult) MarshalCBOR() ([]byte, error) {
	return cbor.Marshal(r.String())
}

// UnmarshalCBOR decodes a result name
func (r *TestResult) UnmarshalCBOR(data []byte) error {
	var name string
	if err := cbor.Unmarshal(data, &name); err != nil {
		return err
	}
	switch name {
	case "pass":
		*r = ResultPass
	case "fail":
		*r = ResultFail
	default:
		return fmt.Errorf("unknown test result %q", name)
	}
	return nil
}

// TestKey is one transmitted key and its verdict
type TestKey struct {
	Key       Key              `cbor:"key"`
	Result    TestResult       `cbor:"result"`
	Timestamp time.Time        `cbor:"timestamp"`
	Instr     ykq368.SendInstr `cbor:"instr"`
}

// TestCycle is one open and close sequence
type TestCycle struct {
	StartTime time.Time `cbor:"start_time"`
	EndTime   time.Time `cbor:"end_time"`
	TestKeys  []TestKey `cbor:"test_keys"`
}

// Failed returns the number of failed keys in the cycle
func (c *TestCycle) Failed() int {
	var n int
	for _, k := range c.TestKeys {
		if k.Result == ResultFail {
			n++
		}
	}
	return n
}

// TestRun is the journal record of one tester session
type TestRun struct {
	ID        uuid.UUID                   `cbor:"id"`
	Instr     KeyConfig[ykq368.SendInstr] `cbor:"instr"`
	StartTime time.Time                   `cbor:"start_time"`
	EndTime   time.Time                   `cbor:"end_time"`
	Cycles    []TestCycle                 `cbor:"cycles"`
}
