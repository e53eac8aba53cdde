// SPDX-License-Identifier: Apache-2.0
// Copyright (c) 2025 Erik Baauw

package cmd

import (
	"github.com/spf13/cobra"
)

var (
	// Gateway connection flags
	gatewayHost     string
	gatewayPassword string
	requestTimeout  int

	// Verbosity: each -D escalates one level (log, debug, verbose,
	// very verbose with hex dumps)
	debugLevel int
)

var rootCmd = &cobra.Command{
	Use:   "velux",
	Short: "Velux KLF 200 Gateway Tool",
	Long: `Velux - A CLI tool for the Velux KLF 200 gateway.

Talks the gateway's TLS API on port 51200: query versions and state,
list actuator nodes, move windows and blinds, run scenes, and watch
live house status broadcasts.

Connection:
  velux -H 192.168.1.100 -P secret info

The host and password may also come from the VELUX_HOST and
VELUX_PASSWORD environment variables or from ~/.velux.yaml. When no
password is found, it is prompted interactively.

Every gateway request command is available as a subcommand named after
the API command with the GW_ prefix and _REQ suffix stripped, taking an
optional JSON parameters argument:

  velux get_version
  velux command_send '{"nodeIds":[3],"position":50}'`,
	Version: "1.0.0",
}

func init() {
	rootCmd.PersistentFlags().StringVarP(&gatewayHost, "host", "H", "", "Gateway host or host:port")
	rootCmd.PersistentFlags().StringVarP(&gatewayPassword, "password", "P", "", "Gateway password (prefer VELUX_PASSWORD)")
	rootCmd.PersistentFlags().IntVarP(&requestTimeout, "timeout", "t", 60, "Stream completion timeout in seconds")
	rootCmd.PersistentFlags().CountVarP(&debugLevel, "debug", "D", "Increase verbosity (repeat up to -DDDD)")
}

// Execute runs the root command
func Execute() error {
	return rootCmd.Execute()
}
