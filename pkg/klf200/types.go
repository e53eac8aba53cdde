// SPDX-License-Identifier: Apache-2.0
// Copyright (c) 2025 Erik Baauw

package klf200

import "time"

// Version is the payload of GW_GET_VERSION_CFM.
type Version struct {
	SoftwareVersion string `json:"softwareVersion"`
	HardwareVersion int    `json:"hardwareVersion"`
	ProductGroup    int    `json:"productGroup"`
	ProductType     int    `json:"productType"`
}

// GatewayState is the payload of GW_GET_STATE_CFM.
type GatewayState struct {
	State    int `json:"state"`
	SubState int `json:"subState"`
}

// NetworkSetup is the payload of GW_GET_NETWORK_SETUP_CFM.
type NetworkSetup struct {
	IPAddress      string `json:"ipAddress"`
	Mask           string `json:"mask"`
	DefaultGateway string `json:"defaultGateway"`
	DHCP           bool   `json:"dhcp"`
}

// LocalTime is the payload of GW_GET_LOCAL_TIME_CFM.
type LocalTime struct {
	UTCTime        time.Time `json:"utcTime"`
	Second         int       `json:"second"`
	Minute         int       `json:"minute"`
	Hour           int       `json:"hour"`
	DayOfMonth     int       `json:"dayOfMonth"`
	Month          int       `json:"month"`
	Year           int       `json:"year"`
	WeekDay        int       `json:"weekDay"`
	DayOfYear      int       `json:"dayOfYear"`
	DaylightSaving int       `json:"daylightSaving"`
}

// SystemTableEntry is one 11-byte actuator record from
// GW_CS_GET_SYSTEMTABLE_DATA_NTF.
type SystemTableEntry struct {
	Index           int    `json:"index"`
	Address         uint32 `json:"address"`
	ActuatorType    int    `json:"actuatorType"`
	ActuatorSubType int    `json:"actuatorSubType"`
	PowerSaveMode   int    `json:"powerSaveMode"`
	Manufacturer    int    `json:"manufacturer"`
	Backbone        uint32 `json:"backbone"`
}

// Node is the 124-byte record from GW_GET_NODE_INFORMATION_NTF and
// GW_GET_ALL_NODES_INFORMATION_NTF.
type Node struct {
	ID              int         `json:"id"`
	Order           int         `json:"order"`
	Placement       int         `json:"placement"`
	Name            string      `json:"name"`
	Velocity        interface{} `json:"velocity"`
	NodeType        int         `json:"nodeType"`
	NodeSubType     int         `json:"nodeSubType"`
	ProductGroup    int         `json:"productGroup"`
	ProductType     int         `json:"productType"`
	Variation       int         `json:"variation"`
	PowerMode       int         `json:"powerMode"`
	BuildNumber     int         `json:"buildNumber"`
	SerialNumber    string      `json:"serialNumber"`
	State           int         `json:"state"`
	CurrentPosition interface{} `json:"currentPosition"`
	TargetPosition  interface{} `json:"targetPosition"`
	FP1             interface{} `json:"fp1"`
	FP2             interface{} `json:"fp2"`
	FP3             interface{} `json:"fp3"`
	FP4             interface{} `json:"fp4"`
	RemainingTime   int         `json:"remainingTime"`
	Timestamp       time.Time   `json:"timestamp"`
	AliasCount      int         `json:"aliasCount"`
}

// NodeState is the broadcast GW_NODE_STATE_POSITION_CHANGED_NTF record,
// emitted while the house status monitor is enabled.
type NodeState struct {
	ID              int         `json:"id"`
	State           int         `json:"state"`
	CurrentPosition interface{} `json:"currentPosition"`
	TargetPosition  interface{} `json:"targetPosition"`
	FP1             interface{} `json:"fp1"`
	FP2             interface{} `json:"fp2"`
	FP3             interface{} `json:"fp3"`
	FP4             interface{} `json:"fp4"`
	RemainingTime   int         `json:"remainingTime"`
	Timestamp       time.Time   `json:"timestamp"`
}

// NodeNameChange is the GW_NODE_INFORMATION_CHANGED_NTF record.
type NodeNameChange struct {
	ID        int    `json:"id"`
	Name      string `json:"name"`
	Order     int    `json:"order"`
	Placement int    `json:"placement"`
	Variation int    `json:"variation"`
}

// Group is the record from GW_GET_GROUP_INFORMATION_NTF and
// GW_GET_ALL_GROUPS_INFORMATION_NTF. Nodes lists the members decoded
// from the 200-bit membership bitmap (group type User only).
type Group struct {
	ID            int         `json:"id"`
	Order         int         `json:"order"`
	Placement     int         `json:"placement"`
	Name          string      `json:"name"`
	Velocity      interface{} `json:"velocity"`
	NodeVariation int         `json:"nodeVariation"`
	GroupType     int         `json:"groupType"`
	Nodes         []int       `json:"nodes"`
	Revision      int         `json:"revision"`
}

// Scene is one entry of the GW_GET_SCENE_LIST_NTF stream.
type Scene struct {
	ID   int    `json:"id"`
	Name string `json:"name"`
}

// SceneNode is one actuator position within a scene.
type SceneNode struct {
	NodeID    int         `json:"nodeId"`
	Parameter int         `json:"parameter"`
	Position  interface{} `json:"position"`
}

// SceneInfo is the accumulated GW_GET_SCENE_INFORMATION_NTF result.
type SceneInfo struct {
	ID    int         `json:"id"`
	Name  string      `json:"name"`
	Nodes []SceneNode `json:"nodes"`
}

// RunStatus is one GW_COMMAND_RUN_STATUS_NTF record.
type RunStatus struct {
	SessionID       int         `json:"sessionId"`
	StatusOwner     int         `json:"statusOwner"`
	NodeID          int         `json:"nodeId"`
	Parameter       int         `json:"parameter"`
	Position        interface{} `json:"position"`
	RunStatus       int         `json:"runStatus"`
	StatusReply     int         `json:"statusReply"`
	InformationCode uint32      `json:"informationCode"`
}

// RemainingTime is one GW_COMMAND_REMAINING_TIME_NTF record.
type RemainingTime struct {
	SessionID int `json:"sessionId"`
	NodeID    int `json:"nodeId"`
	Parameter int `json:"parameter"`
	Seconds   int `json:"seconds"`
}

// NodeStatus is one GW_STATUS_REQUEST_NTF record. For the main-info
// status type the position fields are set; otherwise Parameters holds
// the reported functional parameter values.
type NodeStatus struct {
	SessionID       int           `json:"sessionId"`
	StatusOwner     int           `json:"statusOwner"`
	NodeID          int           `json:"nodeId"`
	RunStatus       int           `json:"runStatus"`
	StatusReply     int           `json:"statusReply"`
	StatusType      int           `json:"statusType"`
	TargetPosition  interface{}   `json:"targetPosition,omitempty"`
	CurrentPosition interface{}   `json:"currentPosition,omitempty"`
	RemainingTime   int           `json:"remainingTime,omitempty"`
	Parameters      []SceneNode   `json:"parameters,omitempty"`
}

// Request is one in-flight call through the pipeline.
type Request struct {
	ID         uint32      `json:"id"`
	Cmd        Command     `json:"cmd"`
	Name       string      `json:"name"`
	Params     Params      `json:"params,omitempty"`
	Payload    []byte      `json:"-"`
	SessionID  uint16      `json:"sessionId,omitempty"`
	HasSession bool        `json:"-"`
}

// Notification carries a decoded (or raw) inbound frame on the trace.
type Notification struct {
	Cmd     Command     `json:"cmd"`
	Name    string      `json:"name"`
	Bytes   []byte      `json:"bytes,omitempty"`
	Payload interface{} `json:"payload,omitempty"`
	Req     *Request    `json:"-"`
}

// Peer describes the gateway endpoint after the TLS handshake.
type Peer struct {
	Address     string `json:"address"`
	Port        int    `json:"port"`
	Fingerprint string `json:"fingerprint"`
}
