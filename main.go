// SPDX-License-Identifier: Apache-2.0
// Copyright (c) 2025 Erik Baauw
//
// Velux - Velux KLF 200 Gateway Tool
//
// A CLI tool for the Velux KLF 200 gateway: query versions and state,
// list actuator nodes, move windows and blinds, run scenes, and watch
// live house status broadcasts.

package main

import (
	"os"

	"github.com/ebaauw/hb-velux-tools/cmd"
)

func main() {
	if err := cmd.Execute(); err != nil {
		os.Exit(1)
	}
}
