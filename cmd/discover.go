// SPDX-License-Identifier: Apache-2.0
// Copyright (c) 2025 Erik Baauw

package cmd

import (
	"context"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/grandcat/zeroconf"
	"github.com/spf13/cobra"
)

var discoverTimeout int

var discoverCmd = &cobra.Command{
	Use:   "discover",
	Short: "Discover KLF 200 gateways on the local network",
	Long: `Browse mDNS for KLF 200 gateways.

The gateway advertises an HTTP service named after its serial number
(VELUX_KLF_LAN_<serial>). Every candidate found within the timeout is
listed with its address; pass one to -H to connect.

Exit codes:
  0 - At least one gateway found
  1 - No gateways found`,
	Args: cobra.NoArgs,
	RunE: runDiscover,
}

func init() {
	rootCmd.AddCommand(discoverCmd)
	discoverCmd.Flags().IntVar(&discoverTimeout, "timeout", 5, "Timeout in seconds for discovery")
}

func runDiscover(cmd *cobra.Command, args []string) error {
	resolver, err := zeroconf.NewResolver(nil)
	if err != nil {
		return fmt.Errorf("mDNS resolver: %v", err)
	}

	ctx, cancel := context.WithTimeout(context.Background(), time.Duration(discoverTimeout)*time.Second)
	defer cancel()

	entries := make(chan *zeroconf.ServiceEntry)
	if err := resolver.Browse(ctx, "_http._tcp", "local.", entries); err != nil {
		return fmt.Errorf("mDNS browse: %v", err)
	}

	fmt.Printf("Velux - Gateway Discovery\n")
	fmt.Printf("Timeout: %d seconds\n\n", discoverTimeout)

	found := 0
	for entry := range entries {
		if !strings.HasPrefix(entry.Instance, "VELUX_KLF_LAN") {
			continue
		}
		found++
		fmt.Printf("Gateway found:\n")
		fmt.Printf("  Name: %s\n", entry.Instance)
		fmt.Printf("  Host: %s\n", entry.HostName)
		for _, ip := range entry.AddrIPv4 {
			fmt.Printf("  Address: %s\n", ip)
		}
	}

	fmt.Printf("\n--- Discovery summary ---\n")
	fmt.Printf("Gateways found: %d\n", found)

	if found == 0 {
		fmt.Printf("No gateways discovered. Check that the gateway is on this network.\n")
		os.Exit(1)
	}
	return nil
}
