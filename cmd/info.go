// SPDX-License-Identifier: Apache-2.0
// Copyright (c) 2025 Erik Baauw

package cmd

import (
	"context"

	"github.com/spf13/cobra"

	"github.com/ebaauw/hb-velux-tools/pkg/klf200"
)

var infoCmd = &cobra.Command{
	Use:   "info",
	Short: "Show gateway version, protocol version, and state",
	Long: `Query the gateway for its software/hardware version, API protocol
version, and current state, and print them together with the TLS
certificate fingerprint captured during the handshake.`,
	Args: cobra.NoArgs,
	RunE: runInfo,
}

func init() {
	rootCmd.AddCommand(infoCmd)
}

type gatewayInfo struct {
	Version         *klf200.Version      `json:"version"`
	ProtocolVersion string               `json:"protocolVersion"`
	State           *klf200.GatewayState `json:"state"`
	Peer            klf200.Peer          `json:"peer"`
}

func runInfo(cmd *cobra.Command, args []string) error {
	ctx := context.Background()

	client, err := connect(ctx)
	if err != nil {
		return err
	}
	defer client.Close()

	version, err := client.Version(ctx)
	if err != nil {
		return err
	}
	protocol, err := client.ProtocolVersion(ctx)
	if err != nil {
		return err
	}
	state, err := client.GatewayState(ctx)
	if err != nil {
		return err
	}

	return printJSON(&gatewayInfo{
		Version:         version,
		ProtocolVersion: protocol,
		State:           state,
		Peer:            client.Peer(),
	})
}
