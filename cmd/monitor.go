// SPDX-License-Identifier: Apache-2.0
// Copyright (c) 2025 Erik Baauw

package cmd

import (
	"context"
	"fmt"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/spf13/cobra"

	"github.com/ebaauw/hb-velux-tools/pkg/klf200"
)

var (
	monitorUseTUI        bool
	monitorStatsInterval int
)

var monitorCmd = &cobra.Command{
	Use:   "monitor",
	Short: "Watch live node state from the house status monitor",
	Long: `Enable the gateway's house status monitor and watch broadcast node
state changes as they happen.

The TUI shows the actuator inventory with live positions, running
frame statistics, and a recent event log. Select a node and type a
target position (0-100) to move it.

With --tui=false, notifications are printed as text with periodic
statistics summaries instead.`,
	Args: cobra.NoArgs,
	RunE: runMonitor,
}

func init() {
	rootCmd.AddCommand(monitorCmd)
	monitorCmd.Flags().BoolVar(&monitorUseTUI, "tui", true, "Use terminal UI (false for text mode)")
	monitorCmd.Flags().IntVar(&monitorStatsInterval, "stats-interval", 10, "Statistics update interval (seconds, text mode)")
}

// monitorFeed buffers trace events until the consumer is running. Full
// buffers drop: a stalled display must not stall the read loop.
type monitorFeed struct {
	notifications chan *klf200.Notification
	errors        chan error
}

func newMonitorFeed() *monitorFeed {
	return &monitorFeed{
		notifications: make(chan *klf200.Notification, 64),
		errors:        make(chan error, 16),
	}
}

// trace merges the statistics hooks with the feed channels.
func (f *monitorFeed) trace(stats *klf200.Statistics) *klf200.Trace {
	hooks := stats.Hooks()
	return &klf200.Trace{
		Request: hooks.Request,
		Notification: func(n *klf200.Notification) {
			hooks.Notification(n)
			select {
			case f.notifications <- n:
			default:
			}
		},
		Error: func(err error) {
			hooks.Error(err)
			select {
			case f.errors <- err:
			default:
			}
		},
	}
}

func runMonitor(cmd *cobra.Command, args []string) error {
	ctx := context.Background()

	cfg := loadFileConfig()
	host, err := resolveHost(cfg)
	if err != nil {
		return err
	}
	password, err := resolvePassword(cfg)
	if err != nil {
		return err
	}

	stats := klf200.NewStatistics()
	feed := newMonitorFeed()

	client, err := klf200.Dial(ctx, host, password, &klf200.Options{
		StreamTimeout: time.Duration(requestTimeout) * time.Second,
		Trace:         feed.trace(stats),
	})
	if err != nil {
		return err
	}
	defer client.Close()

	nodes, err := client.Nodes(ctx)
	if err != nil {
		return err
	}
	if err := client.EnableHouseStatusMonitor(ctx); err != nil {
		return err
	}

	if monitorUseTUI {
		return runMonitorTUI(client, stats, feed, nodes)
	}
	return runMonitorText(client, stats, feed)
}

// runMonitorTUI bridges the feed channels into the Bubble Tea program.
func runMonitorTUI(client *klf200.Client, stats *klf200.Statistics, feed *monitorFeed, nodes []*klf200.Node) error {
	m := initialMonitorModel(client, stats, nodes)
	p := tea.NewProgram(m)

	go func() {
		for {
			select {
			case n, ok := <-feed.notifications:
				if !ok {
					return
				}
				p.Send(gatewayNotificationMsg{n})
			case err, ok := <-feed.errors:
				if !ok {
					return
				}
				p.Send(gatewayErrorMsg{err})
			}
		}
	}()

	if _, err := p.Run(); err != nil {
		return fmt.Errorf("TUI error: %v", err)
	}
	return nil
}

// runMonitorText prints notifications as they arrive, with periodic
// statistics summaries.
func runMonitorText(client *klf200.Client, stats *klf200.Statistics, feed *monitorFeed) error {
	fmt.Printf("Velux - House Status Monitor\n")
	fmt.Printf("Statistics interval: %d seconds\n", monitorStatsInterval)
	fmt.Printf("Press Ctrl+C to exit\n\n")

	statsTicker := time.NewTicker(time.Duration(monitorStatsInterval) * time.Second)
	defer statsTicker.Stop()

	for {
		select {
		case n := <-feed.notifications:
			fmt.Print(klf200.FormatNotification(n))

		case err := <-feed.errors:
			timestamp := time.Now().Format("15:04:05.000")
			fmt.Printf("[%s] ERROR: %v\n", timestamp, err)

		case <-statsTicker.C:
			fmt.Println()
			fmt.Print(stats.String())
			fmt.Println()
		}
	}
}
