// SPDX-License-Identifier: Apache-2.0
// Copyright (c) 2025 Erik Baauw

package cmd

import (
	"context"
	"fmt"
	"sort"
	"strconv"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/list"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/ebaauw/hb-velux-tools/pkg/klf200"
)

// Focus states
const (
	focusNodeList = iota
	focusPositionInput
)

// Event log entry
type monitorLogEntry struct {
	timestamp time.Time
	message   string
	isError   bool
}

// nodeItem is one actuator in the node list.
type nodeItem struct {
	id       int
	name     string
	nodeType int
	current  interface{}
	target   interface{}
	moving   bool
}

// Implement list.Item interface
func (n nodeItem) Title() string {
	return fmt.Sprintf("Node %d: %s", n.id, n.name)
}

func (n nodeItem) Description() string {
	desc := fmt.Sprintf("position %s", formatPositionValue(n.current))
	if n.moving {
		desc += fmt.Sprintf(" → %s", formatPositionValue(n.target))
	}
	return desc
}

func (n nodeItem) FilterValue() string { return n.name }

func formatPositionValue(v interface{}) string {
	switch p := v.(type) {
	case int:
		return fmt.Sprintf("%d%%", p)
	case string:
		return p
	case nil:
		return "unknown"
	default:
		return fmt.Sprintf("%v", p)
	}
}

// Messages
type gatewayNotificationMsg struct{ n *klf200.Notification }
type gatewayErrorMsg struct{ err error }
type commandResultMsg struct {
	nodeID int
	err    error
}
type monitorTickMsg time.Time

// monitorModel is the Bubble Tea model for the monitor TUI.
type monitorModel struct {
	client *klf200.Client
	stats  *klf200.Statistics

	nodes    map[int]*nodeItem
	nodeList list.Model

	posInput     textinput.Model
	focusedField int

	eventLog      []monitorLogEntry
	maxLogEntries int

	width    int
	height   int
	quitting bool
}

func initialMonitorModel(client *klf200.Client, stats *klf200.Statistics, nodes []*klf200.Node) monitorModel {
	items := make(map[int]*nodeItem, len(nodes))
	for _, n := range nodes {
		items[n.ID] = &nodeItem{
			id:       n.ID,
			name:     n.Name,
			nodeType: n.NodeType,
			current:  n.CurrentPosition,
			target:   n.TargetPosition,
		}
	}

	delegate := list.NewDefaultDelegate()
	l := list.New(nodeItemsSorted(items), delegate, 60, 14)
	l.Title = "Actuators"
	l.SetShowStatusBar(false)
	l.SetFilteringEnabled(false)
	l.SetShowHelp(false)

	input := textinput.New()
	input.Placeholder = "target position 0-100"
	input.CharLimit = 3
	input.Width = 20

	return monitorModel{
		client:        client,
		stats:         stats,
		nodes:         items,
		nodeList:      l,
		posInput:      input,
		focusedField:  focusNodeList,
		eventLog:      make([]monitorLogEntry, 0),
		maxLogEntries: 100,
		width:         80,
		height:        24,
	}
}

func nodeItemsSorted(nodes map[int]*nodeItem) []list.Item {
	ids := make([]int, 0, len(nodes))
	for id := range nodes {
		ids = append(ids, id)
	}
	sort.Ints(ids)
	items := make([]list.Item, 0, len(ids))
	for _, id := range ids {
		items = append(items, *nodes[id])
	}
	return items
}

func (m monitorModel) Init() tea.Cmd {
	return tea.Batch(
		monitorTickCmd(),
		tea.EnterAltScreen,
	)
}

func monitorTickCmd() tea.Cmd {
	return tea.Tick(time.Second, func(t time.Time) tea.Msg {
		return monitorTickMsg(t)
	})
}

func (m monitorModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		switch msg.String() {
		case "q", "ctrl+c":
			if m.focusedField == focusNodeList || msg.String() == "ctrl+c" {
				m.quitting = true
				return m, tea.Quit
			}

		case "tab":
			if m.focusedField == focusNodeList {
				m.focusedField = focusPositionInput
				m.posInput.Focus()
			} else {
				m.focusedField = focusNodeList
				m.posInput.Blur()
			}
			return m, nil

		case "enter":
			if m.focusedField == focusPositionInput {
				return m.sendPositionCommand()
			}
		}

	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.nodeList.SetSize(msg.Width-4, m.listHeight())

	case monitorTickMsg:
		m.stats.CalculateRates()
		return m, monitorTickCmd()

	case gatewayNotificationMsg:
		m.applyNotification(msg.n)

	case gatewayErrorMsg:
		m.addLogEntry(fmt.Sprintf("ERROR: %v", msg.err), true)

	case commandResultMsg:
		if msg.err != nil {
			m.addLogEntry(fmt.Sprintf("Node %d: command failed: %v", msg.nodeID, msg.err), true)
		} else {
			m.addLogEntry(fmt.Sprintf("Node %d: command finished", msg.nodeID), false)
		}
	}

	var cmd tea.Cmd
	if m.focusedField == focusPositionInput {
		m.posInput, cmd = m.posInput.Update(msg)
	} else {
		m.nodeList, cmd = m.nodeList.Update(msg)
	}
	return m, cmd
}

func (m *monitorModel) listHeight() int {
	h := m.height - 14
	if h < 6 {
		h = 6
	}
	return h
}

// sendPositionCommand moves the selected node to the typed position.
func (m monitorModel) sendPositionCommand() (tea.Model, tea.Cmd) {
	selected, ok := m.nodeList.SelectedItem().(nodeItem)
	if !ok {
		m.addLogEntry("No node selected", true)
		return m, nil
	}

	percent, err := strconv.Atoi(strings.TrimSpace(m.posInput.Value()))
	if err != nil || percent < 0 || percent > 100 {
		m.addLogEntry(fmt.Sprintf("Invalid position %q (use 0-100)", m.posInput.Value()), true)
		return m, nil
	}

	m.posInput.SetValue("")
	m.addLogEntry(fmt.Sprintf("Node %d: moving to %d%%", selected.id, percent), false)

	client := m.client
	nodeID := selected.id
	return m, func() tea.Msg {
		_, err := client.SendCommand(context.Background(), []int{nodeID}, percent)
		return commandResultMsg{nodeID: nodeID, err: err}
	}
}

// applyNotification folds a broadcast into the node table and event log.
func (m *monitorModel) applyNotification(n *klf200.Notification) {
	switch v := n.Payload.(type) {
	case *klf200.NodeState:
		if item, ok := m.nodes[v.ID]; ok {
			item.current = v.CurrentPosition
			item.target = v.TargetPosition
			item.moving = v.RemainingTime > 0
		} else {
			m.nodes[v.ID] = &nodeItem{
				id:      v.ID,
				name:    fmt.Sprintf("node %d", v.ID),
				current: v.CurrentPosition,
				target:  v.TargetPosition,
			}
		}
		m.nodeList.SetItems(nodeItemsSorted(m.nodes))
		m.addLogEntry(fmt.Sprintf("Node %d: position %s", v.ID, formatPositionValue(v.CurrentPosition)), false)

	case *klf200.NodeNameChange:
		if item, ok := m.nodes[v.ID]; ok {
			item.name = v.Name
			m.nodeList.SetItems(nodeItemsSorted(m.nodes))
		}
		m.addLogEntry(fmt.Sprintf("Node %d renamed to %q", v.ID, v.Name), false)

	case *klf200.RunStatus:
		m.addLogEntry(fmt.Sprintf("Node %d: run status %d (reply %d)", v.NodeID, v.RunStatus, v.StatusReply), false)
	}
}

func (m *monitorModel) addLogEntry(message string, isError bool) {
	entry := monitorLogEntry{
		timestamp: time.Now(),
		message:   message,
		isError:   isError,
	}
	m.eventLog = append(m.eventLog, entry)

	// Keep only last N entries
	if len(m.eventLog) > m.maxLogEntries {
		m.eventLog = m.eventLog[len(m.eventLog)-m.maxLogEntries:]
	}
}

func (m monitorModel) View() string {
	if m.quitting {
		return "Shutting down...\n"
	}

	// Styles
	titleStyle := lipgloss.NewStyle().
		Bold(true).
		Foreground(lipgloss.Color("12")).
		Background(lipgloss.Color("235")).
		Padding(0, 1)

	headerStyle := lipgloss.NewStyle().
		Foreground(lipgloss.Color("241"))

	statsLabelStyle := lipgloss.NewStyle().
		Foreground(lipgloss.Color("12")).
		Bold(true)

	statsValueStyle := lipgloss.NewStyle().
		Foreground(lipgloss.Color("10"))

	errorStyle := lipgloss.NewStyle().
		Foreground(lipgloss.Color("9")).
		Bold(true)

	warningStyle := lipgloss.NewStyle().
		Foreground(lipgloss.Color("11"))

	boxStyle := lipgloss.NewStyle().
		Border(lipgloss.RoundedBorder()).
		BorderForeground(lipgloss.Color("240")).
		Padding(0, 1)

	peer := m.client.Peer()

	var s strings.Builder
	s.WriteString(titleStyle.Render("VELUX - HOUSE STATUS MONITOR"))
	s.WriteString("\n")
	s.WriteString(headerStyle.Render(fmt.Sprintf("Gateway: %s:%d | Tab: switch focus | Enter: move node | 'q' to quit",
		peer.Address, peer.Port)))
	s.WriteString("\n\n")

	// Statistics
	m.stats.CalculateRates()
	statsContent := fmt.Sprintf("%s %s   %s %s   %s %s",
		statsLabelStyle.Render("Frames:"), statsValueStyle.Render(fmt.Sprintf("%d", m.stats.TotalFrames)),
		statsLabelStyle.Render("Rate:"), statsValueStyle.Render(fmt.Sprintf("%.1f/s", m.stats.FrameRate)),
		statsLabelStyle.Render("Errors:"), func() string {
			errs := m.stats.ChecksumErrors + m.stats.DecodeErrors + m.stats.GatewayErrors + m.stats.Timeouts
			if errs > 0 {
				return errorStyle.Render(fmt.Sprintf("%d", errs))
			}
			return statsValueStyle.Render("0")
		}(),
	)
	s.WriteString(boxStyle.Render(statsContent))
	s.WriteString("\n\n")

	// Node list
	s.WriteString(m.nodeList.View())
	s.WriteString("\n")

	// Position input
	inputLabel := "Target position:"
	if m.focusedField == focusPositionInput {
		inputLabel = statsLabelStyle.Render(inputLabel)
	} else {
		inputLabel = headerStyle.Render(inputLabel)
	}
	s.WriteString(fmt.Sprintf("%s %s\n\n", inputLabel, m.posInput.View()))

	// Event log
	s.WriteString(statsLabelStyle.Render("Recent Events:"))
	s.WriteString("\n")

	logHeight := 6
	logContent := strings.Builder{}
	startIdx := len(m.eventLog) - logHeight
	if startIdx < 0 {
		startIdx = 0
	}

	if len(m.eventLog) == 0 {
		logContent.WriteString(headerStyle.Render("  (no events yet)"))
	} else {
		for i := startIdx; i < len(m.eventLog); i++ {
			entry := m.eventLog[i]
			timestamp := entry.timestamp.Format("15:04:05.000")
			if entry.isError {
				logContent.WriteString(fmt.Sprintf("%s %s\n",
					headerStyle.Render(timestamp),
					errorStyle.Render("✗ "+entry.message),
				))
			} else {
				logContent.WriteString(fmt.Sprintf("%s %s\n",
					headerStyle.Render(timestamp),
					warningStyle.Render("ℹ "+entry.message),
				))
			}
		}
	}

	s.WriteString(boxStyle.Width(m.width - 4).Render(logContent.String()))

	return s.String()
}
