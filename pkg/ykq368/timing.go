// SPDX-License-Identifier: Apache-2.0
// Copyright (c) 2025 Kaz Walker, Thermoquad

package ykq368

import "fmt"

// Window is an inclusive range of high pulse durations
type Window struct {
	Min uint64 `toml:"min" yaml:"min"`
	Max uint64 `toml:"max" yaml:"max"`
}

// Contains reports whether d falls inside the window
func (w Window) Contains(d uint64) bool {
	return d >= w.Min && d <= w.Max
}

func (w Window) overlaps(o Window) bool {
	return w.Min <= o.Max && o.Min <= w.Max
}

// Timing holds the pulse classification thresholds, in sample ticks.
// Sibling protocols differ only in these values.
type Timing struct {
	MaxHigh   uint64 `toml:"max_high" yaml:"max_high"`
	MinPeriod uint64 `toml:"min_period" yaml:"min_period"`
	MaxPeriod uint64 `toml:"max_period" yaml:"max_period"`
	One       Window `toml:"one" yaml:"one"`
	Zero      Window `toml:"zero" yaml:"zero"`
}

// DefaultTiming returns the thresholds of the YKQ368 remote family
func DefaultTiming() Timing {
	return Timing{
		MaxHigh:   DefaultMaxHigh,
		MinPeriod: DefaultMinPeriod,
		MaxPeriod: DefaultMaxPeriod,
		One:       Window{Min: DefaultOneMin, Max: DefaultOneMax},
		Zero:      Window{Min: DefaultZeroMin, Max: DefaultZeroMax},
	}
}

// Classify maps a high pulse duration to a symbol class
func (t Timing) Classify(high uint64) SymbolClass {
	switch {
	case t.One.Contains(high):
		return ClassOne
	case t.Zero.Contains(high):
		return ClassZero
	default:
		return ClassUnknown
	}
}

// Validate checks that the thresholds describe a usable protocol
func (t Timing) Validate() error {
	if t.One.Min > t.One.Max {
		return fmt.Errorf("one window is empty: [%d, %d]", t.One.Min, t.One.Max)
	}
	if t.Zero.Min > t.Zero.Max {
		return fmt.Errorf("zero window is empty: [%d, %d]", t.Zero.Min, t.Zero.Max)
	}
	if t.One.overlaps(t.Zero) {
		return fmt.Errorf("one window [%d, %d] overlaps zero window [%d, %d]",
			t.One.Min, t.One.Max, t.Zero.Min, t.Zero.Max)
	}
	if t.One.Max >= t.MaxHigh || t.Zero.Max >= t.MaxHigh {
		return fmt.Errorf("symbol windows must stay below max high pulse %d", t.MaxHigh)
	}
	if t.MaxPeriod == 0 {
		return fmt.Errorf("max period must be positive")
	}
	return nil
}
