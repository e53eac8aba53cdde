// SPDX-License-Identifier: Apache-2.0
// Copyright (c) 2025 Erik Baauw

package klf200

import (
	"bytes"
	"encoding/binary"
	"encoding/hex"
	"fmt"
	"net"
	"time"
)

func fixedSize(cmd Command, b []byte, want int) error {
	if len(b) != want {
		return protocolErrorf(cmd, "payload length %d, expected %d", len(b), want)
	}
	return nil
}

func minSize(cmd Command, b []byte, want int) error {
	if len(b) < want {
		return protocolErrorf(cmd, "payload length %d, expected at least %d", len(b), want)
	}
	return nil
}

// cString extracts a zero-terminated string from a fixed-width field.
func cString(b []byte) string {
	if i := bytes.IndexByte(b, 0); i >= 0 {
		b = b[:i]
	}
	return string(b)
}

func epochTime(b []byte) time.Time {
	return time.Unix(int64(binary.BigEndian.Uint32(b)), 0).UTC()
}

func decodeErrorNTF(b []byte, s *session) (interface{}, error) {
	if err := fixedSize(CmdErrorNTF, b, 1); err != nil {
		return nil, err
	}
	return nil, &GatewayError{Code: b[0]}
}

func decodeStatusByte(b []byte, s *session) (interface{}, error) {
	if len(b) < 1 {
		return nil, protocolErrorf(0, "empty status payload")
	}
	return map[string]interface{}{"status": int(b[0])}, nil
}

func decodeVersionCFM(b []byte, s *session) (interface{}, error) {
	if err := fixedSize(CmdGetVersionCFM, b, 9); err != nil {
		return nil, err
	}
	return &Version{
		SoftwareVersion: fmt.Sprintf("%d.%d.%d.%d.%d.%d", b[0], b[1], b[2], b[3], b[4], b[5]),
		HardwareVersion: int(b[6]),
		ProductGroup:    int(b[7]),
		ProductType:     int(b[8]),
	}, nil
}

func decodeProtocolVersionCFM(b []byte, s *session) (interface{}, error) {
	if err := fixedSize(CmdGetProtocolVersionCFM, b, 4); err != nil {
		return nil, err
	}
	major := binary.BigEndian.Uint16(b[0:2])
	minor := binary.BigEndian.Uint16(b[2:4])
	return fmt.Sprintf("%d.%d", major, minor), nil
}

func decodeGetStateCFM(b []byte, s *session) (interface{}, error) {
	if err := minSize(CmdGetStateCFM, b, 2); err != nil {
		return nil, err
	}
	return &GatewayState{State: int(b[0]), SubState: int(b[1])}, nil
}

func decodeNetworkSetupCFM(b []byte, s *session) (interface{}, error) {
	if err := fixedSize(CmdGetNetworkSetupCFM, b, 13); err != nil {
		return nil, err
	}
	return &NetworkSetup{
		IPAddress:      net.IP(b[0:4]).String(),
		Mask:           net.IP(b[4:8]).String(),
		DefaultGateway: net.IP(b[8:12]).String(),
		DHCP:           b[12] != 0,
	}, nil
}

func decodeLocalTimeCFM(b []byte, s *session) (interface{}, error) {
	if err := fixedSize(CmdGetLocalTimeCFM, b, 15); err != nil {
		return nil, err
	}
	return &LocalTime{
		UTCTime:        epochTime(b[0:4]),
		Second:         int(b[4]),
		Minute:         int(b[5]),
		Hour:           int(b[6]),
		DayOfMonth:     int(b[7]),
		Month:          int(b[8]) + 1,
		Year:           int(binary.BigEndian.Uint16(b[9:11])) + 1900,
		WeekDay:        int(b[11]),
		DayOfYear:      int(binary.BigEndian.Uint16(b[12:14])),
		DaylightSaving: int(int8(b[14])),
	}, nil
}

func decodePasswordEnterCFM(b []byte, s *session) (interface{}, error) {
	if err := fixedSize(CmdPasswordEnterCFM, b, 1); err != nil {
		return nil, err
	}
	if b[0] != 0 {
		return nil, ErrAuthentication
	}
	return nil, nil
}

func decodePasswordChangeCFM(b []byte, s *session) (interface{}, error) {
	if err := fixedSize(CmdPasswordChangeCFM, b, 1); err != nil {
		return nil, err
	}
	if b[0] != 0 {
		return nil, statusErrorf(CmdPasswordChangeCFM, int(b[0]), "invalid password")
	}
	return nil, nil
}

func decodePasswordChangeNTF(b []byte, s *session) (interface{}, error) {
	if err := fixedSize(CmdPasswordChangeNTF, b, 32); err != nil {
		return nil, err
	}
	return map[string]interface{}{"password": cString(b)}, nil
}

// System table stream: n entries of 11 bytes each, then the number of
// entries still to come. The stream ends when that number reaches zero.
func decodeSystemtableDataNTF(b []byte, s *session) (interface{}, error) {
	if err := minSize(CmdCSGetSystemtableDataNTF, b, 2); err != nil {
		return nil, err
	}
	n := int(b[0])
	if err := minSize(CmdCSGetSystemtableDataNTF, b, 1+n*11+1); err != nil {
		return nil, err
	}

	entries := make([]*SystemTableEntry, 0, n)
	for i := 0; i < n; i++ {
		e := b[1+i*11 : 1+(i+1)*11]
		actuatorType := binary.BigEndian.Uint16(e[4:6])
		entry := &SystemTableEntry{
			Index:           int(e[0]),
			Address:         uint32(e[1])<<16 | uint32(e[2])<<8 | uint32(e[3]),
			ActuatorType:    int(actuatorType >> 6),
			ActuatorSubType: int(actuatorType & 0x3F),
			PowerSaveMode:   int(e[6]),
			Manufacturer:    int(e[7]),
			Backbone:        uint32(e[8])<<16 | uint32(e[9])<<8 | uint32(e[10]),
		}
		entries = append(entries, entry)
		if s != nil {
			s.append(entry)
		}
	}

	remaining := int(b[1+n*11])
	if s != nil && remaining == 0 {
		s.finish()
	}
	return entries, nil
}

func decodeNodeInformationCFM(b []byte, s *session) (interface{}, error) {
	if err := fixedSize(CmdGetNodeInformationCFM, b, 2); err != nil {
		return nil, err
	}
	switch b[0] {
	case 0:
		return nil, nil
	case 2:
		return nil, statusErrorf(CmdGetNodeInformationCFM, int(b[0]), "invalid node id %d", b[1])
	default:
		return nil, statusErrorf(CmdGetNodeInformationCFM, int(b[0]), "request failed")
	}
}

func decodeNode(cmd Command, b []byte) (*Node, error) {
	if err := fixedSize(cmd, b, 124); err != nil {
		return nil, err
	}
	nodeType := binary.BigEndian.Uint16(b[69:71])
	return &Node{
		ID:              int(b[0]),
		Order:           int(binary.BigEndian.Uint16(b[1:3])),
		Placement:       int(b[3]),
		Name:            cString(b[4:68]),
		Velocity:        DecodeVelocity(b[68]),
		NodeType:        int(nodeType >> 6),
		NodeSubType:     int(nodeType & 0x3F),
		ProductGroup:    int(b[71]),
		ProductType:     int(b[72]),
		Variation:       int(b[73]),
		PowerMode:       int(b[74]),
		BuildNumber:     int(b[75]),
		SerialNumber:    hex.EncodeToString(b[76:84]),
		State:           int(b[84]),
		CurrentPosition: DecodePosition(binary.BigEndian.Uint16(b[85:87])),
		TargetPosition:  DecodePosition(binary.BigEndian.Uint16(b[87:89])),
		FP1:             DecodePosition(binary.BigEndian.Uint16(b[89:91])),
		FP2:             DecodePosition(binary.BigEndian.Uint16(b[91:93])),
		FP3:             DecodePosition(binary.BigEndian.Uint16(b[93:95])),
		FP4:             DecodePosition(binary.BigEndian.Uint16(b[95:97])),
		RemainingTime:   int(binary.BigEndian.Uint16(b[97:99])),
		Timestamp:       epochTime(b[99:103]),
		AliasCount:      int(b[103]),
	}, nil
}

func decodeNodeNTF(b []byte, s *session) (interface{}, error) {
	return decodeNode(CmdGetNodeInformationNTF, b)
}

func decodeAllNodesCFM(b []byte, s *session) (interface{}, error) {
	if err := fixedSize(CmdGetAllNodesInformationCFM, b, 2); err != nil {
		return nil, err
	}
	if b[0] != 0 {
		return nil, statusErrorf(CmdGetAllNodesInformationCFM, int(b[0]), "system table empty")
	}
	return map[string]interface{}{"count": int(b[1])}, nil
}

func decodeAllNodesNTF(b []byte, s *session) (interface{}, error) {
	node, err := decodeNode(CmdGetAllNodesInformationNTF, b)
	if err != nil {
		return nil, err
	}
	if s != nil {
		s.append(node)
	}
	return node, nil
}

func decodeNodeStatePositionChangedNTF(b []byte, s *session) (interface{}, error) {
	if err := fixedSize(CmdNodeStatePositionChangedNTF, b, 20); err != nil {
		return nil, err
	}
	return &NodeState{
		ID:              int(b[0]),
		State:           int(b[1]),
		CurrentPosition: DecodePosition(binary.BigEndian.Uint16(b[2:4])),
		TargetPosition:  DecodePosition(binary.BigEndian.Uint16(b[4:6])),
		FP1:             DecodePosition(binary.BigEndian.Uint16(b[6:8])),
		FP2:             DecodePosition(binary.BigEndian.Uint16(b[8:10])),
		FP3:             DecodePosition(binary.BigEndian.Uint16(b[10:12])),
		FP4:             DecodePosition(binary.BigEndian.Uint16(b[12:14])),
		RemainingTime:   int(binary.BigEndian.Uint16(b[14:16])),
		Timestamp:       epochTime(b[16:20]),
	}, nil
}

func decodeNodeInformationChangedNTF(b []byte, s *session) (interface{}, error) {
	if err := fixedSize(CmdNodeInformationChangedNTF, b, 69); err != nil {
		return nil, err
	}
	return &NodeNameChange{
		ID:        int(b[0]),
		Name:      cString(b[1:65]),
		Order:     int(binary.BigEndian.Uint16(b[65:67])),
		Placement: int(b[67]),
		Variation: int(b[68]),
	}, nil
}

func decodeStatusNodeCFM(b []byte, s *session) (interface{}, error) {
	if err := minSize(0, b, 2); err != nil {
		return nil, err
	}
	if b[0] != 0 {
		return nil, statusErrorf(0, int(b[0]), "request failed for node %d", b[1])
	}
	return map[string]interface{}{"nodeId": int(b[1])}, nil
}

func decodeGroupInformationCFM(b []byte, s *session) (interface{}, error) {
	if err := fixedSize(CmdGetGroupInformationCFM, b, 2); err != nil {
		return nil, err
	}
	switch b[0] {
	case 0:
		return nil, nil
	case 2:
		return nil, statusErrorf(CmdGetGroupInformationCFM, int(b[0]), "invalid group id %d", b[1])
	default:
		return nil, statusErrorf(CmdGetGroupInformationCFM, int(b[0]), "request failed")
	}
}

func decodeGroup(cmd Command, b []byte) (*Group, error) {
	if err := fixedSize(cmd, b, 99); err != nil {
		return nil, err
	}
	nodes := []int{}
	for i := 0; i < 200; i++ {
		if b[72+i/8]&(1<<(i%8)) != 0 {
			nodes = append(nodes, i)
		}
	}
	return &Group{
		ID:            int(b[0]),
		Order:         int(binary.BigEndian.Uint16(b[1:3])),
		Placement:     int(b[3]),
		Name:          cString(b[4:68]),
		Velocity:      DecodeVelocity(b[68]),
		NodeVariation: int(b[69]),
		GroupType:     int(b[70]),
		Nodes:         nodes,
		Revision:      int(binary.BigEndian.Uint16(b[97:99])),
	}, nil
}

func decodeGroupNTF(b []byte, s *session) (interface{}, error) {
	return decodeGroup(CmdGetGroupInformationNTF, b)
}

func decodeAllGroupsCFM(b []byte, s *session) (interface{}, error) {
	if err := fixedSize(CmdGetAllGroupsInformationCFM, b, 2); err != nil {
		return nil, err
	}
	if b[0] != 0 {
		return nil, statusErrorf(CmdGetAllGroupsInformationCFM, int(b[0]), "invalid group type")
	}
	return map[string]interface{}{"count": int(b[1])}, nil
}

func decodeAllGroupsNTF(b []byte, s *session) (interface{}, error) {
	group, err := decodeGroup(CmdGetAllGroupsInformationNTF, b)
	if err != nil {
		return nil, err
	}
	if s != nil {
		s.append(group)
	}
	return group, nil
}

// decodeSessionAcceptedCFM handles confirmations where status 1 means
// accepted (command send, status request, wink, limitations).
func decodeSessionAcceptedCFM(b []byte, s *session) (interface{}, error) {
	if err := fixedSize(0, b, 3); err != nil {
		return nil, err
	}
	sid := binary.BigEndian.Uint16(b[0:2])
	if b[2] != 1 {
		return nil, statusErrorf(0, int(b[2]), "session %#04x rejected", sid)
	}
	return map[string]interface{}{"sessionId": int(sid), "status": int(b[2])}, nil
}

// decodeSessionStatusCFM handles confirmations where status 0 means
// accepted (scenes, product groups, mode).
func decodeSessionStatusCFM(b []byte, s *session) (interface{}, error) {
	if err := minSize(0, b, 3); err != nil {
		return nil, err
	}
	sid := binary.BigEndian.Uint16(b[0:2])
	switch b[2] {
	case 0:
		return map[string]interface{}{"sessionId": int(sid), "status": int(b[2])}, nil
	case 1:
		return nil, statusErrorf(0, int(b[2]), "invalid parameter")
	default:
		return nil, statusErrorf(0, int(b[2]), "session %#04x rejected", sid)
	}
}

func decodeCommandRunStatusNTF(b []byte, s *session) (interface{}, error) {
	if err := fixedSize(CmdCommandRunStatusNTF, b, 13); err != nil {
		return nil, err
	}
	rs := &RunStatus{
		SessionID:       int(binary.BigEndian.Uint16(b[0:2])),
		StatusOwner:     int(b[2]),
		NodeID:          int(b[3]),
		Parameter:       int(b[4]),
		Position:        DecodePosition(binary.BigEndian.Uint16(b[5:7])),
		RunStatus:       int(b[7]),
		StatusReply:     int(b[8]),
		InformationCode: binary.BigEndian.Uint32(b[9:13]),
	}
	if s != nil {
		s.append(rs)
	}
	return rs, nil
}

func decodeCommandRemainingTimeNTF(b []byte, s *session) (interface{}, error) {
	if err := fixedSize(CmdCommandRemainingTimeNTF, b, 6); err != nil {
		return nil, err
	}
	return &RemainingTime{
		SessionID: int(binary.BigEndian.Uint16(b[0:2])),
		NodeID:    int(b[2]),
		Parameter: int(b[3]),
		Seconds:   int(binary.BigEndian.Uint16(b[4:6])),
	}, nil
}

func decodeSessionFinishedNTF(b []byte, s *session) (interface{}, error) {
	if err := fixedSize(CmdSessionFinishedNTF, b, 2); err != nil {
		return nil, err
	}
	return map[string]interface{}{"sessionId": int(binary.BigEndian.Uint16(b[0:2]))}, nil
}

func decodeStatusRequestNTF(b []byte, s *session) (interface{}, error) {
	if err := minSize(CmdStatusRequestNTF, b, 7); err != nil {
		return nil, err
	}
	ns := &NodeStatus{
		SessionID:   int(binary.BigEndian.Uint16(b[0:2])),
		StatusOwner: int(b[2]),
		NodeID:      int(b[3]),
		RunStatus:   int(b[4]),
		StatusReply: int(b[5]),
		StatusType:  int(b[6]),
	}
	if ns.StatusType == 3 {
		if err := minSize(CmdStatusRequestNTF, b, 13); err != nil {
			return nil, err
		}
		ns.TargetPosition = DecodePosition(binary.BigEndian.Uint16(b[7:9]))
		ns.CurrentPosition = DecodePosition(binary.BigEndian.Uint16(b[9:11]))
		ns.RemainingTime = int(binary.BigEndian.Uint16(b[11:13]))
	} else {
		if err := minSize(CmdStatusRequestNTF, b, 8); err != nil {
			return nil, err
		}
		count := int(b[7])
		if err := minSize(CmdStatusRequestNTF, b, 8+count*3); err != nil {
			return nil, err
		}
		for i := 0; i < count; i++ {
			e := b[8+i*3 : 8+(i+1)*3]
			ns.Parameters = append(ns.Parameters, SceneNode{
				NodeID:    ns.NodeID,
				Parameter: int(e[0]),
				Position:  DecodePosition(binary.BigEndian.Uint16(e[1:3])),
			})
		}
	}
	if s != nil {
		s.append(ns)
	}
	return ns, nil
}

func decodeWinkSendNTF(b []byte, s *session) (interface{}, error) {
	if err := minSize(CmdWinkSendNTF, b, 3); err != nil {
		return nil, err
	}
	n := map[string]interface{}{
		"sessionId": int(binary.BigEndian.Uint16(b[0:2])),
		"status":    int(b[2]),
	}
	if s != nil {
		s.append(n)
	}
	return n, nil
}

func decodeSceneListCFM(b []byte, s *session) (interface{}, error) {
	if err := fixedSize(CmdGetSceneListCFM, b, 1); err != nil {
		return nil, err
	}
	// No scenes: the gateway sends no list notification.
	if s != nil && b[0] == 0 {
		s.finish()
	}
	return map[string]interface{}{"count": int(b[0])}, nil
}

func decodeSceneListNTF(b []byte, s *session) (interface{}, error) {
	if err := minSize(CmdGetSceneListNTF, b, 2); err != nil {
		return nil, err
	}
	n := int(b[0])
	if err := minSize(CmdGetSceneListNTF, b, 1+n*65+1); err != nil {
		return nil, err
	}

	scenes := make([]*Scene, 0, n)
	for i := 0; i < n; i++ {
		e := b[1+i*65 : 1+(i+1)*65]
		scene := &Scene{ID: int(e[0]), Name: cString(e[1:65])}
		scenes = append(scenes, scene)
		if s != nil {
			s.append(scene)
		}
	}
	if s != nil && b[1+n*65] == 0 {
		s.finish()
	}
	return scenes, nil
}

func decodeSceneInformationCFM(b []byte, s *session) (interface{}, error) {
	if err := fixedSize(CmdGetSceneInformationCFM, b, 2); err != nil {
		return nil, err
	}
	if b[0] != 0 {
		return nil, statusErrorf(CmdGetSceneInformationCFM, int(b[0]), "invalid scene id %d", b[1])
	}
	return nil, nil
}

func decodeSceneInformationNTF(b []byte, s *session) (interface{}, error) {
	if err := minSize(CmdGetSceneInformationNTF, b, 66); err != nil {
		return nil, err
	}
	count := int(b[65])
	if err := minSize(CmdGetSceneInformationNTF, b, 66+count*4+1); err != nil {
		return nil, err
	}

	info := &SceneInfo{ID: int(b[0]), Name: cString(b[1:65])}
	for i := 0; i < count; i++ {
		e := b[66+i*4 : 66+(i+1)*4]
		info.Nodes = append(info.Nodes, SceneNode{
			NodeID:    int(e[0]),
			Parameter: int(e[1]),
			Position:  DecodePosition(binary.BigEndian.Uint16(e[2:4])),
		})
	}
	if s != nil {
		s.append(info)
		if b[66+count*4] == 0 {
			s.finish()
		}
	}
	return info, nil
}
