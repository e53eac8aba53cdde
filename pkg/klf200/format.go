// SPDX-License-Identifier: Apache-2.0
// Copyright (c) 2025 Erik Baauw

package klf200

import (
	"fmt"
	"time"
)

// FormatNotification formats an inbound frame into a human-readable
// string for the monitor view and verbose logging.
func FormatNotification(n *Notification) string {
	timestamp := time.Now().Format("15:04:05.000")

	result := fmt.Sprintf("[%s] %s (0x%04X) len=%d\n", timestamp, n.Name, uint16(n.Cmd), len(n.Bytes))
	result += FormatPayload(n)
	return result
}

// FormatPayload renders the decoded payload when the decoder produced a
// known type, falling back to a hex dump of the raw bytes.
func FormatPayload(n *Notification) string {
	switch v := n.Payload.(type) {
	case nil:
		if len(n.Bytes) == 0 {
			return "  (no payload)\n"
		}

	case string:
		return fmt.Sprintf("  %s\n", v)

	case *Version:
		return fmt.Sprintf("  Software: %s, Hardware: %d, Product: %d.%d\n",
			v.SoftwareVersion, v.HardwareVersion, v.ProductGroup, v.ProductType)

	case *GatewayState:
		return fmt.Sprintf("  State: %d, SubState: %d\n", v.State, v.SubState)

	case *Node:
		return fmt.Sprintf("  Node %d: %q, type=%d/%d, velocity=%v, position=%s\n",
			v.ID, v.Name, v.NodeType, v.NodeSubType, v.Velocity, formatPosition(v.CurrentPosition))

	case *NodeState:
		return fmt.Sprintf("  Node %d: state=%d, position=%s, target=%s, remaining=%ds\n",
			v.ID, v.State, formatPosition(v.CurrentPosition), formatPosition(v.TargetPosition),
			v.RemainingTime)

	case *NodeNameChange:
		return fmt.Sprintf("  Node %d renamed to %q\n", v.ID, v.Name)

	case *RunStatus:
		return fmt.Sprintf("  Session 0x%04X: node %d, status=%d, reply=%d, position=%s\n",
			v.SessionID, v.NodeID, v.RunStatus, v.StatusReply, formatPosition(v.Position))

	case *RemainingTime:
		return fmt.Sprintf("  Session 0x%04X: node %d, remaining=%ds\n",
			v.SessionID, v.NodeID, v.Seconds)

	case *SystemTableEntry:
		return fmt.Sprintf("  Entry %d: address=%06X, type=%d\n", v.Index, v.Address, v.ActuatorType)

	case *Group:
		return fmt.Sprintf("  Group %d: %q, nodes=%v\n", v.ID, v.Name, v.Nodes)

	case *Scene:
		return fmt.Sprintf("  Scene %d: %q\n", v.ID, v.Name)

	case *SceneInfo:
		return fmt.Sprintf("  Scene %d: %q, %d nodes\n", v.ID, v.Name, len(v.Nodes))

	case *NetworkSetup:
		return fmt.Sprintf("  IP: %s, Mask: %s, Gateway: %s, DHCP: %t\n",
			v.IPAddress, v.Mask, v.DefaultGateway, v.DHCP)

	case *LocalTime:
		return fmt.Sprintf("  Time: %s, WeekDay: %d, DaylightSaving: %d\n",
			v.UTCTime.Format(time.RFC3339), v.WeekDay, v.DaylightSaving)

	case uint16:
		return fmt.Sprintf("  Session 0x%04X\n", v)

	case bool:
		return fmt.Sprintf("  Accepted: %t\n", v)
	}

	return hexDump(n.Bytes)
}

func formatPosition(raw interface{}) string {
	switch v := raw.(type) {
	case int:
		return fmt.Sprintf("%d%%", v)
	case uint16:
		switch decoded := DecodePosition(v).(type) {
		case int:
			return fmt.Sprintf("%d%%", decoded)
		case string:
			return decoded
		default:
			return fmt.Sprintf("0x%04X", v)
		}
	case string:
		return v
	default:
		return fmt.Sprintf("%v", raw)
	}
}

func hexDump(payload []byte) string {
	if len(payload) == 0 {
		return "  (no payload)\n"
	}
	result := "  Payload: "
	for i, b := range payload {
		if i > 0 && i%16 == 0 {
			result += "\n           "
		}
		result += fmt.Sprintf("%02X ", b)
	}
	return result + "\n"
}
