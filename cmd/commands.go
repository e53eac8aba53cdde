// SPDX-License-Identifier: Apache-2.0
// Copyright (c) 2025 Erik Baauw

package cmd

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/ebaauw/hb-velux-tools/pkg/klf200"
)

// init generates one subcommand per gateway request command, named with
// the GW_ prefix and _REQ suffix stripped and lowercased:
// GW_GET_VERSION_REQ becomes "get_version".
func init() {
	for _, name := range klf200.RequestNames() {
		rootCmd.AddCommand(makeRequestCommand(name))
	}
}

func makeRequestCommand(name string) *cobra.Command {
	use := strings.ToLower(strings.TrimSuffix(strings.TrimPrefix(name, "GW_"), "_REQ"))
	return &cobra.Command{
		Use:   use + " [json-params]",
		Short: "Send " + name,
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runRequest(name, args)
		},
	}
}

func runRequest(name string, args []string) error {
	var params klf200.Params
	if len(args) == 1 {
		if err := json.Unmarshal([]byte(args[0]), &params); err != nil {
			return fmt.Errorf("invalid JSON parameters: %v", err)
		}
	}

	ctx := context.Background()

	client, err := connect(ctx)
	if err != nil {
		return err
	}
	defer client.Close()

	result, err := client.Request(ctx, name, params)
	if err != nil {
		return err
	}
	if result == nil {
		return nil
	}
	return printJSON(result)
}
