// SPDX-License-Identifier: Apache-2.0
// Copyright (c) 2025 Erik Baauw

package cmd

import (
	"bufio"
	"context"
	"encoding/json"
	"fmt"
	"log"
	"os"
	"path/filepath"
	"strings"
	"syscall"
	"time"

	"golang.org/x/term"
	"gopkg.in/yaml.v3"

	"github.com/ebaauw/hb-velux-tools/pkg/klf200"
)

// fileConfig is the optional ~/.velux.yaml file. Flags and environment
// variables take precedence over it.
type fileConfig struct {
	Host     string `yaml:"host"`
	Password string `yaml:"password"`
	Timeout  int    `yaml:"timeout"`
}

func loadFileConfig() fileConfig {
	var cfg fileConfig
	home, err := os.UserHomeDir()
	if err != nil {
		return cfg
	}
	data, err := os.ReadFile(filepath.Join(home, ".velux.yaml"))
	if err != nil {
		return cfg
	}
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		fmt.Fprintf(os.Stderr, "warning: ~/.velux.yaml: %v\n", err)
	}
	return cfg
}

// resolveHost applies flag > environment > config file precedence.
func resolveHost(cfg fileConfig) (string, error) {
	if gatewayHost != "" {
		return gatewayHost, nil
	}
	if host := os.Getenv("VELUX_HOST"); host != "" {
		return host, nil
	}
	if cfg.Host != "" {
		return cfg.Host, nil
	}
	return "", fmt.Errorf("no gateway host: use -H, VELUX_HOST, or ~/.velux.yaml")
}

func resolvePassword(cfg fileConfig) (string, error) {
	if gatewayPassword != "" {
		return gatewayPassword, nil
	}
	if pw := os.Getenv("VELUX_PASSWORD"); pw != "" {
		return pw, nil
	}
	if cfg.Password != "" {
		return cfg.Password, nil
	}
	return GetPassword()
}

// GetPassword prompts for the gateway password without echo.
func GetPassword() (string, error) {
	fmt.Fprint(os.Stderr, "Password: ")

	passwordBytes, err := term.ReadPassword(int(syscall.Stdin))
	if err != nil {
		// Fallback to regular input if terminal functions fail
		reader := bufio.NewReader(os.Stdin)
		password, err := reader.ReadString('\n')
		if err != nil {
			return "", fmt.Errorf("failed to read password: %v", err)
		}
		fmt.Fprintln(os.Stderr)
		return strings.TrimSpace(password), nil
	}

	fmt.Fprintln(os.Stderr)
	return string(passwordBytes), nil
}

// debugTrace builds trace callbacks for the selected -D level:
//
//	1  connection lifecycle and errors
//	2  plus requests and responses
//	3  plus every inbound notification
//	4  plus raw bytes in hex
func debugTrace() *klf200.Trace {
	if debugLevel <= 0 {
		return nil
	}
	trace := &klf200.Trace{
		Connecting: func(host string) { log.Printf("connecting to %s", host) },
		Connect: func(peer klf200.Peer) {
			log.Printf("connected to %s:%d (fingerprint %s)", peer.Address, peer.Port, peer.Fingerprint)
		},
		Disconnect: func(peer klf200.Peer) { log.Printf("disconnected from %s:%d", peer.Address, peer.Port) },
		Error:      func(err error) { log.Printf("error: %v", err) },
	}
	if debugLevel >= 2 {
		trace.Request = func(req *klf200.Request) {
			log.Printf("request %d: %s %s", req.ID, req.Name, compactJSON(req.Params))
		}
		trace.Response = func(req *klf200.Request, result interface{}) {
			log.Printf("response %d: %s %s", req.ID, req.Name, compactJSON(result))
		}
	}
	if debugLevel >= 3 {
		trace.Notification = func(n *klf200.Notification) {
			log.Printf("notification: %s %s", n.Name, compactJSON(n.Payload))
		}
	}
	if debugLevel >= 4 {
		trace.Send = func(b []byte) { log.Printf("send: % X", b) }
		trace.Data = func(b []byte) { log.Printf("data: % X", b) }
	}
	return trace
}

func compactJSON(v interface{}) string {
	if v == nil {
		return ""
	}
	data, err := json.Marshal(v)
	if err != nil {
		return fmt.Sprintf("%v", v)
	}
	return string(data)
}

// connect resolves the connection parameters and dials the gateway.
func connect(ctx context.Context) (*klf200.Client, error) {
	cfg := loadFileConfig()

	host, err := resolveHost(cfg)
	if err != nil {
		return nil, err
	}
	password, err := resolvePassword(cfg)
	if err != nil {
		return nil, err
	}

	timeout := requestTimeout
	if !rootCmd.PersistentFlags().Changed("timeout") && cfg.Timeout > 0 {
		timeout = cfg.Timeout
	}

	return klf200.Dial(ctx, host, password, &klf200.Options{
		StreamTimeout: time.Duration(timeout) * time.Second,
		Trace:         debugTrace(),
	})
}

// printJSON pretty-prints a command result.
func printJSON(v interface{}) error {
	data, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return err
	}
	fmt.Println(string(data))
	return nil
}
