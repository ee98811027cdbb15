// SPDX-License-Identifier: Apache-2.0
// Copyright (c) 2025 Kaz Walker, Thermoquad
//
// rftool - YKQ368 gate remote codec and RF bridge tool
//
// A CLI tool for decoding captured remote transmissions, encoding and
// sending gate commands through an RF bridge, and testing gate receivers.

package main

import (
	"os"

	"github.com/Thermoquad/rftool/cmd"
)

func main() {
	if err := cmd.Execute(); err != nil {
		os.Exit(1)
	}
}
