// SPDX-License-Identifier: Apache-2.0
// Copyright (c) 2025 Erik Baauw

package klf200

import (
	"encoding/binary"
	"fmt"
	"time"
)

// Defaults for the command originator and priority level fields.
const (
	originatorUser    = 1
	priorityUserLevel = 3
)

func putPaddedString(dst []byte, s string, key string) error {
	if len(s) > len(dst) {
		return fmt.Errorf("klf200: parameter %q longer than %d bytes", key, len(dst))
	}
	copy(dst, s)
	return nil
}

func encodePasswordEnter(p Params) ([]byte, error) {
	password, err := p.stringField("password")
	if err != nil {
		return nil, err
	}
	buf := make([]byte, 32)
	if err := putPaddedString(buf, password, "password"); err != nil {
		return nil, err
	}
	return buf, nil
}

func encodePasswordChange(p Params) ([]byte, error) {
	oldPassword, err := p.stringField("oldPassword")
	if err != nil {
		return nil, err
	}
	newPassword, err := p.stringField("newPassword")
	if err != nil {
		return nil, err
	}
	buf := make([]byte, 64)
	if err := putPaddedString(buf[:32], oldPassword, "oldPassword"); err != nil {
		return nil, err
	}
	if err := putPaddedString(buf[32:], newPassword, "newPassword"); err != nil {
		return nil, err
	}
	return buf, nil
}

func encodeSetUTC(p Params) ([]byte, error) {
	epoch := uint64(time.Now().Unix())
	if _, ok := p["time"]; ok {
		var err error
		epoch, err = p.uintField("time")
		if err != nil {
			return nil, err
		}
	}
	buf := make([]byte, 4)
	binary.BigEndian.PutUint32(buf, uint32(epoch))
	return buf, nil
}

func encodeRTCSetTimeZone(p Params) ([]byte, error) {
	zone, err := p.stringField("timeZone")
	if err != nil {
		return nil, err
	}
	buf := make([]byte, 64)
	if err := putPaddedString(buf, zone, "timeZone"); err != nil {
		return nil, err
	}
	return buf, nil
}

func encodeByteField(p Params, key string, max uint64) ([]byte, error) {
	n, err := p.uintField(key)
	if err != nil {
		return nil, err
	}
	if n > max {
		return nil, fmt.Errorf("klf200: parameter %q out of range (max %d)", key, max)
	}
	return []byte{byte(n)}, nil
}

func encodeNodeID(p Params) ([]byte, error)  { return encodeByteField(p, "nodeId", 199) }
func encodeGroupID(p Params) ([]byte, error) { return encodeByteField(p, "groupId", 99) }
func encodeSceneID(p Params) ([]byte, error) { return encodeByteField(p, "sceneId", 255) }

func encodeAllGroups(p Params) ([]byte, error) {
	groupType, err := p.uintFieldOr("groupType", 0)
	if err != nil {
		return nil, err
	}
	useFilter := byte(0)
	if _, ok := p["groupType"]; ok {
		useFilter = 1
	}
	return []byte{useFilter, byte(groupType)}, nil
}

func encodeSetNodeVariation(p Params) ([]byte, error) {
	nodeID, err := p.uintField("nodeId")
	if err != nil {
		return nil, err
	}
	variation, err := p.uintField("variation")
	if err != nil {
		return nil, err
	}
	return []byte{byte(nodeID), byte(variation)}, nil
}

func encodeSetNodeName(p Params) ([]byte, error) {
	nodeID, err := p.uintField("nodeId")
	if err != nil {
		return nil, err
	}
	name, err := p.stringField("name")
	if err != nil {
		return nil, err
	}
	buf := make([]byte, 65)
	buf[0] = byte(nodeID)
	if err := putPaddedString(buf[1:], name, "name"); err != nil {
		return nil, err
	}
	return buf, nil
}

func encodeSetNodeVelocity(p Params) ([]byte, error) {
	nodeID, err := p.uintField("nodeId")
	if err != nil {
		return nil, err
	}
	velocity, err := EncodeVelocity(p["velocity"])
	if err != nil {
		return nil, err
	}
	return []byte{byte(nodeID), velocity}, nil
}

// putIndexArray writes the node count byte plus the 20-byte index array.
func putIndexArray(dst []byte, nodeIDs []int) error {
	if len(nodeIDs) == 0 || len(nodeIDs) > 20 {
		return fmt.Errorf("klf200: nodeIds must hold 1 to 20 entries, got %d", len(nodeIDs))
	}
	dst[0] = byte(len(nodeIDs))
	for i, id := range nodeIDs {
		if id < 0 || id > 199 {
			return fmt.Errorf("klf200: node id %d out of range", id)
		}
		dst[1+i] = byte(id)
	}
	return nil
}

func encodeCommandSend(p Params) ([]byte, error) {
	sid, err := p.sessionID()
	if err != nil {
		return nil, err
	}
	nodeIDs, err := p.intSliceField("nodeIds")
	if err != nil {
		return nil, err
	}
	position, err := EncodePosition(p["position"])
	if err != nil {
		return nil, err
	}
	originator, err := p.uintFieldOr("originator", originatorUser)
	if err != nil {
		return nil, err
	}
	priority, err := p.uintFieldOr("priority", priorityUserLevel)
	if err != nil {
		return nil, err
	}
	parameter, err := p.uintFieldOr("parameter", 0)
	if err != nil {
		return nil, err
	}
	if parameter > 16 {
		return nil, fmt.Errorf("klf200: parameter index %d out of range", parameter)
	}

	// sid(2) originator priority parameterActive fpi1 fpi2
	// values(17x2) count index(20) lock pl03 pl47 lockTime
	buf := make([]byte, 66)
	binary.BigEndian.PutUint16(buf[0:2], sid)
	buf[2] = byte(originator)
	buf[3] = byte(priority)
	buf[4] = byte(parameter)
	if parameter >= 1 && parameter <= 8 {
		buf[5] = 1 << (8 - parameter)
	} else if parameter >= 9 {
		buf[6] = 1 << (16 - parameter)
	}
	binary.BigEndian.PutUint16(buf[7+2*parameter:], position)
	if err := putIndexArray(buf[41:62], nodeIDs); err != nil {
		return nil, err
	}
	return buf, nil
}

func encodeStatusRequest(p Params) ([]byte, error) {
	sid, err := p.sessionID()
	if err != nil {
		return nil, err
	}
	nodeIDs, err := p.intSliceField("nodeIds")
	if err != nil {
		return nil, err
	}
	statusType, err := p.uintFieldOr("statusType", 3)
	if err != nil {
		return nil, err
	}

	buf := make([]byte, 26)
	binary.BigEndian.PutUint16(buf[0:2], sid)
	if err := putIndexArray(buf[2:23], nodeIDs); err != nil {
		return nil, err
	}
	buf[23] = byte(statusType)
	return buf, nil
}

func encodeWinkSend(p Params) ([]byte, error) {
	sid, err := p.sessionID()
	if err != nil {
		return nil, err
	}
	nodeIDs, err := p.intSliceField("nodeIds")
	if err != nil {
		return nil, err
	}
	winkState, err := p.uintFieldOr("state", 1)
	if err != nil {
		return nil, err
	}
	winkTime, err := p.uintFieldOr("time", 254)
	if err != nil {
		return nil, err
	}

	buf := make([]byte, 27)
	binary.BigEndian.PutUint16(buf[0:2], sid)
	buf[2] = originatorUser
	buf[3] = priorityUserLevel
	buf[4] = byte(winkState)
	buf[5] = byte(winkTime)
	if err := putIndexArray(buf[6:27], nodeIDs); err != nil {
		return nil, err
	}
	return buf, nil
}

func encodeActivateProductGroup(p Params) ([]byte, error) {
	sid, err := p.sessionID()
	if err != nil {
		return nil, err
	}
	groupID, err := p.uintField("groupId")
	if err != nil {
		return nil, err
	}
	position, err := EncodePosition(p["position"])
	if err != nil {
		return nil, err
	}
	velocity, err := EncodeVelocity(p["velocity"])
	if err != nil {
		return nil, err
	}

	buf := make([]byte, 13)
	binary.BigEndian.PutUint16(buf[0:2], sid)
	buf[2] = originatorUser
	buf[3] = priorityUserLevel
	buf[4] = byte(groupID)
	binary.BigEndian.PutUint16(buf[6:8], position)
	buf[8] = velocity
	return buf, nil
}

func encodeActivateScene(p Params) ([]byte, error) {
	sid, err := p.sessionID()
	if err != nil {
		return nil, err
	}
	sceneID, err := p.uintField("sceneId")
	if err != nil {
		return nil, err
	}
	velocity, err := EncodeVelocity(p["velocity"])
	if err != nil {
		return nil, err
	}

	buf := make([]byte, 6)
	binary.BigEndian.PutUint16(buf[0:2], sid)
	buf[2] = originatorUser
	buf[3] = priorityUserLevel
	buf[4] = byte(sceneID)
	buf[5] = velocity
	return buf, nil
}

func encodeStopScene(p Params) ([]byte, error) {
	sid, err := p.sessionID()
	if err != nil {
		return nil, err
	}
	sceneID, err := p.uintField("sceneId")
	if err != nil {
		return nil, err
	}

	buf := make([]byte, 5)
	binary.BigEndian.PutUint16(buf[0:2], sid)
	buf[2] = originatorUser
	buf[3] = priorityUserLevel
	buf[4] = byte(sceneID)
	return buf, nil
}
