// SPDX-License-Identifier: Apache-2.0
// Copyright (c) 2025 Erik Baauw

package klf200

import (
	"sort"
	"strings"
)

// Command is a 16-bit KLF 200 API command identifier.
type Command uint16

// Command identifiers per the KLF 200 Technical Specification 3.18.
const (
	CmdErrorNTF                 Command = 0x0000
	CmdRebootREQ                Command = 0x0001
	CmdRebootCFM                Command = 0x0002
	CmdSetFactoryDefaultREQ     Command = 0x0003
	CmdSetFactoryDefaultCFM     Command = 0x0004
	CmdGetVersionREQ            Command = 0x0008
	CmdGetVersionCFM            Command = 0x0009
	CmdGetProtocolVersionREQ    Command = 0x000A
	CmdGetProtocolVersionCFM    Command = 0x000B
	CmdGetStateREQ              Command = 0x000C
	CmdGetStateCFM              Command = 0x000D
	CmdLeaveLearnStateREQ       Command = 0x000E
	CmdLeaveLearnStateCFM       Command = 0x000F
	CmdGetNetworkSetupREQ       Command = 0x00E0
	CmdGetNetworkSetupCFM       Command = 0x00E1
	CmdSetNetworkSetupREQ       Command = 0x00E2
	CmdSetNetworkSetupCFM       Command = 0x00E3

	CmdCSGetSystemtableDataREQ        Command = 0x0100
	CmdCSGetSystemtableDataCFM        Command = 0x0101
	CmdCSGetSystemtableDataNTF        Command = 0x0102
	CmdCSDiscoverNodesREQ             Command = 0x0103
	CmdCSDiscoverNodesCFM             Command = 0x0104
	CmdCSDiscoverNodesNTF             Command = 0x0105
	CmdCSRemoveNodesREQ               Command = 0x0106
	CmdCSRemoveNodesCFM               Command = 0x0107
	CmdCSVirginStateREQ               Command = 0x0108
	CmdCSVirginStateCFM               Command = 0x0109
	CmdCSControllerCopyREQ            Command = 0x010A
	CmdCSControllerCopyCFM            Command = 0x010B
	CmdCSControllerCopyNTF            Command = 0x010C
	CmdCSControllerCopyCancelNTF      Command = 0x010D
	CmdCSReceiveKeyREQ                Command = 0x010E
	CmdCSReceiveKeyCFM                Command = 0x010F
	CmdCSReceiveKeyNTF                Command = 0x0110
	CmdCSPgcJobNTF                    Command = 0x0111
	CmdCSSystemTableUpdateNTF         Command = 0x0112
	CmdCSGenerateNewKeyREQ            Command = 0x0113
	CmdCSGenerateNewKeyCFM            Command = 0x0114
	CmdCSGenerateNewKeyNTF            Command = 0x0115
	CmdCSRepairKeyREQ                 Command = 0x0116
	CmdCSRepairKeyCFM                 Command = 0x0117
	CmdCSRepairKeyNTF                 Command = 0x0118
	CmdCSActivateConfigurationModeREQ Command = 0x0119
	CmdCSActivateConfigurationModeCFM Command = 0x011A

	CmdGetNodeInformationREQ          Command = 0x0200
	CmdGetNodeInformationCFM          Command = 0x0201
	CmdGetAllNodesInformationREQ      Command = 0x0202
	CmdGetAllNodesInformationCFM      Command = 0x0203
	CmdGetAllNodesInformationNTF      Command = 0x0204
	CmdGetAllNodesInformationFinNTF   Command = 0x0205
	CmdSetNodeVariationREQ            Command = 0x0206
	CmdSetNodeVariationCFM            Command = 0x0207
	CmdSetNodeNameREQ                 Command = 0x0208
	CmdSetNodeNameCFM                 Command = 0x0209
	CmdSetNodeVelocityREQ             Command = 0x020A
	CmdSetNodeVelocityCFM             Command = 0x020B
	CmdNodeInformationChangedNTF      Command = 0x020C
	CmdSetNodeOrderAndPlacementREQ    Command = 0x020D
	CmdSetNodeOrderAndPlacementCFM    Command = 0x020E
	CmdGetNodeInformationNTF          Command = 0x0210
	CmdNodeStatePositionChangedNTF    Command = 0x0211
	CmdGetGroupInformationREQ         Command = 0x0220
	CmdGetGroupInformationCFM         Command = 0x0221
	CmdSetGroupInformationREQ         Command = 0x0222
	CmdSetGroupInformationCFM         Command = 0x0223
	CmdGroupInformationChangedNTF     Command = 0x0224
	CmdDeleteGroupREQ                 Command = 0x0225
	CmdDeleteGroupCFM                 Command = 0x0226
	CmdNewGroupREQ                    Command = 0x0227
	CmdNewGroupCFM                    Command = 0x0228
	CmdGetAllGroupsInformationREQ     Command = 0x0229
	CmdGetAllGroupsInformationCFM     Command = 0x022A
	CmdGetAllGroupsInformationNTF     Command = 0x022B
	CmdGetAllGroupsInformationFinNTF  Command = 0x022C
	CmdGroupDeletedNTF                Command = 0x022D
	CmdGetGroupInformationNTF         Command = 0x0230
	CmdHouseStatusMonitorEnableREQ    Command = 0x0240
	CmdHouseStatusMonitorEnableCFM    Command = 0x0241
	CmdHouseStatusMonitorDisableREQ   Command = 0x0242
	CmdHouseStatusMonitorDisableCFM   Command = 0x0243

	CmdCommandSendREQ          Command = 0x0300
	CmdCommandSendCFM          Command = 0x0301
	CmdCommandRunStatusNTF     Command = 0x0302
	CmdCommandRemainingTimeNTF Command = 0x0303
	CmdSessionFinishedNTF      Command = 0x0304
	CmdStatusRequestREQ        Command = 0x0305
	CmdStatusRequestCFM        Command = 0x0306
	CmdStatusRequestNTF        Command = 0x0307
	CmdWinkSendREQ             Command = 0x0308
	CmdWinkSendCFM             Command = 0x0309
	CmdWinkSendNTF             Command = 0x030A
	CmdSetLimitationREQ        Command = 0x0310
	CmdSetLimitationCFM        Command = 0x0311
	CmdGetLimitationStatusREQ  Command = 0x0312
	CmdGetLimitationStatusCFM  Command = 0x0313
	CmdLimitationStatusNTF     Command = 0x0314
	CmdModeSendREQ             Command = 0x0320
	CmdModeSendCFM             Command = 0x0321

	CmdInitializeSceneREQ          Command = 0x0400
	CmdInitializeSceneCFM          Command = 0x0401
	CmdInitializeSceneNTF          Command = 0x0402
	CmdInitializeSceneCancelREQ    Command = 0x0403
	CmdInitializeSceneCancelCFM    Command = 0x0404
	CmdRecordSceneREQ              Command = 0x0405
	CmdRecordSceneCFM              Command = 0x0406
	CmdRecordSceneNTF              Command = 0x0407
	CmdDeleteSceneREQ              Command = 0x0408
	CmdDeleteSceneCFM              Command = 0x0409
	CmdRenameSceneREQ              Command = 0x040A
	CmdRenameSceneCFM              Command = 0x040B
	CmdGetSceneListREQ             Command = 0x040C
	CmdGetSceneListCFM             Command = 0x040D
	CmdGetSceneListNTF             Command = 0x040E
	CmdGetSceneInformationREQ      Command = 0x040F
	CmdGetSceneInformationCFM      Command = 0x0410
	CmdGetSceneInformationNTF      Command = 0x0411
	CmdActivateSceneREQ            Command = 0x0412
	CmdActivateSceneCFM            Command = 0x0413
	CmdStopSceneREQ                Command = 0x0415
	CmdStopSceneCFM                Command = 0x0416
	CmdSceneInformationChangedNTF  Command = 0x0419
	CmdActivateProductGroupREQ     Command = 0x0447
	CmdActivateProductGroupCFM     Command = 0x0448
	CmdActivateProductGroupNTF     Command = 0x0449

	CmdGetContactInputLinkListREQ Command = 0x0460
	CmdGetContactInputLinkListCFM Command = 0x0461
	CmdSetContactInputLinkREQ     Command = 0x0462
	CmdSetContactInputLinkCFM     Command = 0x0463
	CmdRemoveContactInputLinkREQ  Command = 0x0464
	CmdRemoveContactInputLinkCFM  Command = 0x0465

	CmdGetActivationLogHeaderREQ        Command = 0x0500
	CmdGetActivationLogHeaderCFM        Command = 0x0501
	CmdClearActivationLogREQ            Command = 0x0502
	CmdClearActivationLogCFM            Command = 0x0503
	CmdGetActivationLogLineREQ          Command = 0x0504
	CmdGetActivationLogLineCFM          Command = 0x0505
	CmdActivationLogUpdatedNTF          Command = 0x0506
	CmdGetMultipleActivationLogLinesREQ Command = 0x0507
	CmdGetMultipleActivationLogLinesNTF Command = 0x0508
	CmdGetMultipleActivationLogLinesCFM Command = 0x0509

	CmdSetUTCREQ         Command = 0x2000
	CmdSetUTCCFM         Command = 0x2001
	CmdRTCSetTimeZoneREQ Command = 0x2002
	CmdRTCSetTimeZoneCFM Command = 0x2003
	CmdGetLocalTimeREQ   Command = 0x2004
	CmdGetLocalTimeCFM   Command = 0x2005

	CmdPasswordEnterREQ  Command = 0x3000
	CmdPasswordEnterCFM  Command = 0x3001
	CmdPasswordChangeREQ Command = 0x3002
	CmdPasswordChangeCFM Command = 0x3003
	CmdPasswordChangeNTF Command = 0x3004
)

// Role classifies the direction and multiplicity of a command.
type Role int

const (
	RoleRequest Role = iota
	RoleConfirmation
	RoleNotification
)

func (r Role) String() string {
	switch r {
	case RoleRequest:
		return "REQ"
	case RoleConfirmation:
		return "CFM"
	case RoleNotification:
		return "NTF"
	}
	return "?"
}

type encodeFunc func(p Params) ([]byte, error)

// Decoders run synchronously inside the dispatcher. For frames owned by a
// live request, s references the session accumulator; for broadcast or
// unowned frames, s is nil.
type decodeFunc func(b []byte, s *session) (interface{}, error)

// descriptor is the static catalogue entry for one command.
type descriptor struct {
	name string

	// Linkage: cfm is set on requests, req on confirmations and on
	// per-session notifications. Broadcast notifications leave req zero.
	cfm Command
	req Command

	// session: the request assigns a 16-bit session id and its replies
	// carry it as the first two payload bytes.
	session bool

	// stream: completion is signalled by a terminator notification
	// rather than by the confirmation.
	stream bool

	// terminator: this notification ends the session it references.
	terminator bool

	encode encodeFunc
	decode decodeFunc
}

// Role is derived from the protocol name suffix.
func (d *descriptor) role() Role {
	switch {
	case strings.HasSuffix(d.name, "_REQ"):
		return RoleRequest
	case strings.HasSuffix(d.name, "_CFM"):
		return RoleConfirmation
	default:
		return RoleNotification
	}
}

// commands is the immutable command catalogue, complete for API 3.18.
// Entries without encode/decode hooks travel as raw payloads.
var commands = map[Command]*descriptor{
	CmdErrorNTF: {name: "GW_ERROR_NTF", decode: decodeErrorNTF},

	CmdRebootREQ:            {name: "GW_REBOOT_REQ", cfm: CmdRebootCFM},
	CmdRebootCFM:            {name: "GW_REBOOT_CFM", req: CmdRebootREQ},
	CmdSetFactoryDefaultREQ: {name: "GW_SET_FACTORY_DEFAULT_REQ", cfm: CmdSetFactoryDefaultCFM},
	CmdSetFactoryDefaultCFM: {name: "GW_SET_FACTORY_DEFAULT_CFM", req: CmdSetFactoryDefaultREQ},

	CmdGetVersionREQ:         {name: "GW_GET_VERSION_REQ", cfm: CmdGetVersionCFM},
	CmdGetVersionCFM:         {name: "GW_GET_VERSION_CFM", req: CmdGetVersionREQ, decode: decodeVersionCFM},
	CmdGetProtocolVersionREQ: {name: "GW_GET_PROTOCOL_VERSION_REQ", cfm: CmdGetProtocolVersionCFM},
	CmdGetProtocolVersionCFM: {name: "GW_GET_PROTOCOL_VERSION_CFM", req: CmdGetProtocolVersionREQ, decode: decodeProtocolVersionCFM},
	CmdGetStateREQ:           {name: "GW_GET_STATE_REQ", cfm: CmdGetStateCFM},
	CmdGetStateCFM:           {name: "GW_GET_STATE_CFM", req: CmdGetStateREQ, decode: decodeGetStateCFM},
	CmdLeaveLearnStateREQ:    {name: "GW_LEAVE_LEARN_STATE_REQ", cfm: CmdLeaveLearnStateCFM},
	CmdLeaveLearnStateCFM:    {name: "GW_LEAVE_LEARN_STATE_CFM", req: CmdLeaveLearnStateREQ, decode: decodeStatusByte},

	CmdGetNetworkSetupREQ: {name: "GW_GET_NETWORK_SETUP_REQ", cfm: CmdGetNetworkSetupCFM},
	CmdGetNetworkSetupCFM: {name: "GW_GET_NETWORK_SETUP_CFM", req: CmdGetNetworkSetupREQ, decode: decodeNetworkSetupCFM},
	CmdSetNetworkSetupREQ: {name: "GW_SET_NETWORK_SETUP_REQ", cfm: CmdSetNetworkSetupCFM},
	CmdSetNetworkSetupCFM: {name: "GW_SET_NETWORK_SETUP_CFM", req: CmdSetNetworkSetupREQ},

	CmdCSGetSystemtableDataREQ: {name: "GW_CS_GET_SYSTEMTABLE_DATA_REQ", cfm: CmdCSGetSystemtableDataCFM, stream: true},
	CmdCSGetSystemtableDataCFM: {name: "GW_CS_GET_SYSTEMTABLE_DATA_CFM", req: CmdCSGetSystemtableDataREQ},
	CmdCSGetSystemtableDataNTF: {name: "GW_CS_GET_SYSTEMTABLE_DATA_NTF", req: CmdCSGetSystemtableDataREQ, decode: decodeSystemtableDataNTF},

	CmdCSDiscoverNodesREQ: {name: "GW_CS_DISCOVER_NODES_REQ", cfm: CmdCSDiscoverNodesCFM, stream: true},
	CmdCSDiscoverNodesCFM: {name: "GW_CS_DISCOVER_NODES_CFM", req: CmdCSDiscoverNodesREQ},
	CmdCSDiscoverNodesNTF: {name: "GW_CS_DISCOVER_NODES_NTF", req: CmdCSDiscoverNodesREQ, terminator: true},

	CmdCSRemoveNodesREQ: {name: "GW_CS_REMOVE_NODES_REQ", cfm: CmdCSRemoveNodesCFM},
	CmdCSRemoveNodesCFM: {name: "GW_CS_REMOVE_NODES_CFM", req: CmdCSRemoveNodesREQ},
	CmdCSVirginStateREQ: {name: "GW_CS_VIRGIN_STATE_REQ", cfm: CmdCSVirginStateCFM},
	CmdCSVirginStateCFM: {name: "GW_CS_VIRGIN_STATE_CFM", req: CmdCSVirginStateREQ},

	CmdCSControllerCopyREQ:       {name: "GW_CS_CONTROLLER_COPY_REQ", cfm: CmdCSControllerCopyCFM, stream: true},
	CmdCSControllerCopyCFM:       {name: "GW_CS_CONTROLLER_COPY_CFM", req: CmdCSControllerCopyREQ},
	CmdCSControllerCopyNTF:       {name: "GW_CS_CONTROLLER_COPY_NTF", req: CmdCSControllerCopyREQ},
	CmdCSControllerCopyCancelNTF: {name: "GW_CS_CONTROLLER_COPY_CANCEL_NTF"},

	CmdCSReceiveKeyREQ: {name: "GW_CS_RECEIVE_KEY_REQ", cfm: CmdCSReceiveKeyCFM, stream: true},
	CmdCSReceiveKeyCFM: {name: "GW_CS_RECEIVE_KEY_CFM", req: CmdCSReceiveKeyREQ},
	CmdCSReceiveKeyNTF: {name: "GW_CS_RECEIVE_KEY_NTF", req: CmdCSReceiveKeyREQ},

	CmdCSPgcJobNTF:            {name: "GW_CS_PGC_JOB_NTF"},
	CmdCSSystemTableUpdateNTF: {name: "GW_CS_SYSTEM_TABLE_UPDATE_NTF"},

	CmdCSGenerateNewKeyREQ: {name: "GW_CS_GENERATE_NEW_KEY_REQ", cfm: CmdCSGenerateNewKeyCFM, stream: true},
	CmdCSGenerateNewKeyCFM: {name: "GW_CS_GENERATE_NEW_KEY_CFM", req: CmdCSGenerateNewKeyREQ},
	CmdCSGenerateNewKeyNTF: {name: "GW_CS_GENERATE_NEW_KEY_NTF", req: CmdCSGenerateNewKeyREQ, terminator: true},

	CmdCSRepairKeyREQ: {name: "GW_CS_REPAIR_KEY_REQ", cfm: CmdCSRepairKeyCFM, stream: true},
	CmdCSRepairKeyCFM: {name: "GW_CS_REPAIR_KEY_CFM", req: CmdCSRepairKeyREQ},
	CmdCSRepairKeyNTF: {name: "GW_CS_REPAIR_KEY_NTF", req: CmdCSRepairKeyREQ, terminator: true},

	CmdCSActivateConfigurationModeREQ: {name: "GW_CS_ACTIVATE_CONFIGURATION_MODE_REQ", cfm: CmdCSActivateConfigurationModeCFM},
	CmdCSActivateConfigurationModeCFM: {name: "GW_CS_ACTIVATE_CONFIGURATION_MODE_CFM", req: CmdCSActivateConfigurationModeREQ},

	CmdGetNodeInformationREQ: {name: "GW_GET_NODE_INFORMATION_REQ", cfm: CmdGetNodeInformationCFM, stream: true, encode: encodeNodeID},
	CmdGetNodeInformationCFM: {name: "GW_GET_NODE_INFORMATION_CFM", req: CmdGetNodeInformationREQ, decode: decodeNodeInformationCFM},
	CmdGetNodeInformationNTF: {name: "GW_GET_NODE_INFORMATION_NTF", req: CmdGetNodeInformationREQ, terminator: true, decode: decodeNodeNTF},

	CmdGetAllNodesInformationREQ:    {name: "GW_GET_ALL_NODES_INFORMATION_REQ", cfm: CmdGetAllNodesInformationCFM, stream: true},
	CmdGetAllNodesInformationCFM:    {name: "GW_GET_ALL_NODES_INFORMATION_CFM", req: CmdGetAllNodesInformationREQ, decode: decodeAllNodesCFM},
	CmdGetAllNodesInformationNTF:    {name: "GW_GET_ALL_NODES_INFORMATION_NTF", req: CmdGetAllNodesInformationREQ, decode: decodeAllNodesNTF},
	CmdGetAllNodesInformationFinNTF: {name: "GW_GET_ALL_NODES_INFORMATION_FINISHED_NTF", req: CmdGetAllNodesInformationREQ, terminator: true},

	CmdSetNodeVariationREQ:         {name: "GW_SET_NODE_VARIATION_REQ", cfm: CmdSetNodeVariationCFM, encode: encodeSetNodeVariation},
	CmdSetNodeVariationCFM:         {name: "GW_SET_NODE_VARIATION_CFM", req: CmdSetNodeVariationREQ, decode: decodeStatusNodeCFM},
	CmdSetNodeNameREQ:              {name: "GW_SET_NODE_NAME_REQ", cfm: CmdSetNodeNameCFM, encode: encodeSetNodeName},
	CmdSetNodeNameCFM:              {name: "GW_SET_NODE_NAME_CFM", req: CmdSetNodeNameREQ, decode: decodeStatusNodeCFM},
	CmdSetNodeVelocityREQ:          {name: "GW_SET_NODE_VELOCITY_REQ", cfm: CmdSetNodeVelocityCFM, encode: encodeSetNodeVelocity},
	CmdSetNodeVelocityCFM:          {name: "GW_SET_NODE_VELOCITY_CFM", req: CmdSetNodeVelocityREQ, decode: decodeStatusNodeCFM},
	CmdNodeInformationChangedNTF:   {name: "GW_NODE_INFORMATION_CHANGED_NTF", decode: decodeNodeInformationChangedNTF},
	CmdSetNodeOrderAndPlacementREQ: {name: "GW_SET_NODE_ORDER_AND_PLACEMENT_REQ", cfm: CmdSetNodeOrderAndPlacementCFM},
	CmdSetNodeOrderAndPlacementCFM: {name: "GW_SET_NODE_ORDER_AND_PLACEMENT_CFM", req: CmdSetNodeOrderAndPlacementREQ, decode: decodeStatusNodeCFM},
	CmdNodeStatePositionChangedNTF: {name: "GW_NODE_STATE_POSITION_CHANGED_NTF", decode: decodeNodeStatePositionChangedNTF},

	CmdGetGroupInformationREQ: {name: "GW_GET_GROUP_INFORMATION_REQ", cfm: CmdGetGroupInformationCFM, stream: true, encode: encodeGroupID},
	CmdGetGroupInformationCFM: {name: "GW_GET_GROUP_INFORMATION_CFM", req: CmdGetGroupInformationREQ, decode: decodeGroupInformationCFM},
	CmdGetGroupInformationNTF: {name: "GW_GET_GROUP_INFORMATION_NTF", req: CmdGetGroupInformationREQ, terminator: true, decode: decodeGroupNTF},

	CmdSetGroupInformationREQ:     {name: "GW_SET_GROUP_INFORMATION_REQ", cfm: CmdSetGroupInformationCFM},
	CmdSetGroupInformationCFM:     {name: "GW_SET_GROUP_INFORMATION_CFM", req: CmdSetGroupInformationREQ},
	CmdGroupInformationChangedNTF: {name: "GW_GROUP_INFORMATION_CHANGED_NTF"},
	CmdDeleteGroupREQ:             {name: "GW_DELETE_GROUP_REQ", cfm: CmdDeleteGroupCFM, encode: encodeGroupID},
	CmdDeleteGroupCFM:             {name: "GW_DELETE_GROUP_CFM", req: CmdDeleteGroupREQ},
	CmdNewGroupREQ:                {name: "GW_NEW_GROUP_REQ", cfm: CmdNewGroupCFM},
	CmdNewGroupCFM:                {name: "GW_NEW_GROUP_CFM", req: CmdNewGroupREQ},

	CmdGetAllGroupsInformationREQ:    {name: "GW_GET_ALL_GROUPS_INFORMATION_REQ", cfm: CmdGetAllGroupsInformationCFM, stream: true, encode: encodeAllGroups},
	CmdGetAllGroupsInformationCFM:    {name: "GW_GET_ALL_GROUPS_INFORMATION_CFM", req: CmdGetAllGroupsInformationREQ, decode: decodeAllGroupsCFM},
	CmdGetAllGroupsInformationNTF:    {name: "GW_GET_ALL_GROUPS_INFORMATION_NTF", req: CmdGetAllGroupsInformationREQ, decode: decodeAllGroupsNTF},
	CmdGetAllGroupsInformationFinNTF: {name: "GW_GET_ALL_GROUPS_INFORMATION_FINISHED_NTF", req: CmdGetAllGroupsInformationREQ, terminator: true},
	CmdGroupDeletedNTF:               {name: "GW_GROUP_DELETED_NTF"},

	CmdHouseStatusMonitorEnableREQ:  {name: "GW_HOUSE_STATUS_MONITOR_ENABLE_REQ", cfm: CmdHouseStatusMonitorEnableCFM},
	CmdHouseStatusMonitorEnableCFM:  {name: "GW_HOUSE_STATUS_MONITOR_ENABLE_CFM", req: CmdHouseStatusMonitorEnableREQ},
	CmdHouseStatusMonitorDisableREQ: {name: "GW_HOUSE_STATUS_MONITOR_DISABLE_REQ", cfm: CmdHouseStatusMonitorDisableCFM},
	CmdHouseStatusMonitorDisableCFM: {name: "GW_HOUSE_STATUS_MONITOR_DISABLE_CFM", req: CmdHouseStatusMonitorDisableREQ},

	CmdCommandSendREQ:          {name: "GW_COMMAND_SEND_REQ", cfm: CmdCommandSendCFM, session: true, stream: true, encode: encodeCommandSend},
	CmdCommandSendCFM:          {name: "GW_COMMAND_SEND_CFM", req: CmdCommandSendREQ, decode: decodeSessionAcceptedCFM},
	CmdCommandRunStatusNTF:     {name: "GW_COMMAND_RUN_STATUS_NTF", req: CmdCommandSendREQ, decode: decodeCommandRunStatusNTF},
	CmdCommandRemainingTimeNTF: {name: "GW_COMMAND_REMAINING_TIME_NTF", req: CmdCommandSendREQ, decode: decodeCommandRemainingTimeNTF},
	CmdSessionFinishedNTF:      {name: "GW_SESSION_FINISHED_NTF", req: CmdCommandSendREQ, terminator: true, decode: decodeSessionFinishedNTF},

	CmdStatusRequestREQ: {name: "GW_STATUS_REQUEST_REQ", cfm: CmdStatusRequestCFM, session: true, stream: true, encode: encodeStatusRequest},
	CmdStatusRequestCFM: {name: "GW_STATUS_REQUEST_CFM", req: CmdStatusRequestREQ, decode: decodeSessionAcceptedCFM},
	CmdStatusRequestNTF: {name: "GW_STATUS_REQUEST_NTF", req: CmdStatusRequestREQ, decode: decodeStatusRequestNTF},

	CmdWinkSendREQ: {name: "GW_WINK_SEND_REQ", cfm: CmdWinkSendCFM, session: true, stream: true, encode: encodeWinkSend},
	CmdWinkSendCFM: {name: "GW_WINK_SEND_CFM", req: CmdWinkSendREQ, decode: decodeSessionAcceptedCFM},
	CmdWinkSendNTF: {name: "GW_WINK_SEND_NTF", req: CmdWinkSendREQ, decode: decodeWinkSendNTF},

	CmdSetLimitationREQ:       {name: "GW_SET_LIMITATION_REQ", cfm: CmdSetLimitationCFM, session: true, stream: true},
	CmdSetLimitationCFM:       {name: "GW_SET_LIMITATION_CFM", req: CmdSetLimitationREQ, decode: decodeSessionAcceptedCFM},
	CmdGetLimitationStatusREQ: {name: "GW_GET_LIMITATION_STATUS_REQ", cfm: CmdGetLimitationStatusCFM, session: true, stream: true},
	CmdGetLimitationStatusCFM: {name: "GW_GET_LIMITATION_STATUS_CFM", req: CmdGetLimitationStatusREQ, decode: decodeSessionAcceptedCFM},
	CmdLimitationStatusNTF:    {name: "GW_LIMITATION_STATUS_NTF", req: CmdGetLimitationStatusREQ},

	// Present in some registry revisions, commented out in others; kept
	// registered without codecs so replies surface as raw notifications.
	CmdModeSendREQ: {name: "GW_MODE_SEND_REQ", cfm: CmdModeSendCFM, session: true, stream: true},
	CmdModeSendCFM: {name: "GW_MODE_SEND_CFM", req: CmdModeSendREQ, decode: decodeSessionStatusCFM},

	CmdInitializeSceneREQ:       {name: "GW_INITIALIZE_SCENE_REQ", cfm: CmdInitializeSceneCFM, stream: true},
	CmdInitializeSceneCFM:       {name: "GW_INITIALIZE_SCENE_CFM", req: CmdInitializeSceneREQ},
	CmdInitializeSceneNTF:       {name: "GW_INITIALIZE_SCENE_NTF", req: CmdInitializeSceneREQ, terminator: true},
	CmdInitializeSceneCancelREQ: {name: "GW_INITIALIZE_SCENE_CANCEL_REQ", cfm: CmdInitializeSceneCancelCFM},
	CmdInitializeSceneCancelCFM: {name: "GW_INITIALIZE_SCENE_CANCEL_CFM", req: CmdInitializeSceneCancelREQ},

	CmdRecordSceneREQ: {name: "GW_RECORD_SCENE_REQ", cfm: CmdRecordSceneCFM, stream: true},
	CmdRecordSceneCFM: {name: "GW_RECORD_SCENE_CFM", req: CmdRecordSceneREQ},
	CmdRecordSceneNTF: {name: "GW_RECORD_SCENE_NTF", req: CmdRecordSceneREQ, terminator: true},

	CmdDeleteSceneREQ: {name: "GW_DELETE_SCENE_REQ", cfm: CmdDeleteSceneCFM, encode: encodeSceneID},
	CmdDeleteSceneCFM: {name: "GW_DELETE_SCENE_CFM", req: CmdDeleteSceneREQ},
	CmdRenameSceneREQ: {name: "GW_RENAME_SCENE_REQ", cfm: CmdRenameSceneCFM},
	CmdRenameSceneCFM: {name: "GW_RENAME_SCENE_CFM", req: CmdRenameSceneREQ},

	CmdGetSceneListREQ: {name: "GW_GET_SCENE_LIST_REQ", cfm: CmdGetSceneListCFM, stream: true},
	CmdGetSceneListCFM: {name: "GW_GET_SCENE_LIST_CFM", req: CmdGetSceneListREQ, decode: decodeSceneListCFM},
	CmdGetSceneListNTF: {name: "GW_GET_SCENE_LIST_NTF", req: CmdGetSceneListREQ, decode: decodeSceneListNTF},

	CmdGetSceneInformationREQ: {name: "GW_GET_SCENE_INFORMATION_REQ", cfm: CmdGetSceneInformationCFM, stream: true, encode: encodeSceneID},
	CmdGetSceneInformationCFM: {name: "GW_GET_SCENE_INFORMATION_CFM", req: CmdGetSceneInformationREQ, decode: decodeSceneInformationCFM},
	CmdGetSceneInformationNTF: {name: "GW_GET_SCENE_INFORMATION_NTF", req: CmdGetSceneInformationREQ, decode: decodeSceneInformationNTF},

	CmdActivateSceneREQ: {name: "GW_ACTIVATE_SCENE_REQ", cfm: CmdActivateSceneCFM, session: true, stream: true, encode: encodeActivateScene},
	CmdActivateSceneCFM: {name: "GW_ACTIVATE_SCENE_CFM", req: CmdActivateSceneREQ, decode: decodeSessionStatusCFM},
	CmdStopSceneREQ:     {name: "GW_STOP_SCENE_REQ", cfm: CmdStopSceneCFM, session: true, stream: true, encode: encodeStopScene},
	CmdStopSceneCFM:     {name: "GW_STOP_SCENE_CFM", req: CmdStopSceneREQ, decode: decodeSessionStatusCFM},

	CmdSceneInformationChangedNTF: {name: "GW_SCENE_INFORMATION_CHANGED_NTF"},

	CmdActivateProductGroupREQ: {name: "GW_ACTIVATE_PRODUCTGROUP_REQ", cfm: CmdActivateProductGroupCFM, session: true, stream: true, encode: encodeActivateProductGroup},
	CmdActivateProductGroupCFM: {name: "GW_ACTIVATE_PRODUCTGROUP_CFM", req: CmdActivateProductGroupREQ, decode: decodeSessionStatusCFM},
	// Decoder-less on purpose, see GW_MODE_SEND_REQ above.
	CmdActivateProductGroupNTF: {name: "GW_ACTIVATE_PRODUCTGROUP_NTF", req: CmdActivateProductGroupREQ},

	CmdGetContactInputLinkListREQ: {name: "GW_GET_CONTACT_INPUT_LINK_LIST_REQ", cfm: CmdGetContactInputLinkListCFM},
	CmdGetContactInputLinkListCFM: {name: "GW_GET_CONTACT_INPUT_LINK_LIST_CFM", req: CmdGetContactInputLinkListREQ},
	CmdSetContactInputLinkREQ:     {name: "GW_SET_CONTACT_INPUT_LINK_REQ", cfm: CmdSetContactInputLinkCFM},
	CmdSetContactInputLinkCFM:     {name: "GW_SET_CONTACT_INPUT_LINK_CFM", req: CmdSetContactInputLinkREQ},
	CmdRemoveContactInputLinkREQ:  {name: "GW_REMOVE_CONTACT_INPUT_LINK_REQ", cfm: CmdRemoveContactInputLinkCFM},
	CmdRemoveContactInputLinkCFM:  {name: "GW_REMOVE_CONTACT_INPUT_LINK_CFM", req: CmdRemoveContactInputLinkREQ},

	CmdGetActivationLogHeaderREQ:        {name: "GW_GET_ACTIVATION_LOG_HEADER_REQ", cfm: CmdGetActivationLogHeaderCFM},
	CmdGetActivationLogHeaderCFM:        {name: "GW_GET_ACTIVATION_LOG_HEADER_CFM", req: CmdGetActivationLogHeaderREQ},
	CmdClearActivationLogREQ:            {name: "GW_CLEAR_ACTIVATION_LOG_REQ", cfm: CmdClearActivationLogCFM},
	CmdClearActivationLogCFM:            {name: "GW_CLEAR_ACTIVATION_LOG_CFM", req: CmdClearActivationLogREQ},
	CmdGetActivationLogLineREQ:          {name: "GW_GET_ACTIVATION_LOG_LINE_REQ", cfm: CmdGetActivationLogLineCFM},
	CmdGetActivationLogLineCFM:          {name: "GW_GET_ACTIVATION_LOG_LINE_CFM", req: CmdGetActivationLogLineREQ},
	CmdActivationLogUpdatedNTF:          {name: "GW_ACTIVATION_LOG_UPDATED_NTF"},
	CmdGetMultipleActivationLogLinesREQ: {name: "GW_GET_MULTIPLE_ACTIVATION_LOG_LINES_REQ", cfm: CmdGetMultipleActivationLogLinesCFM, stream: true},
	CmdGetMultipleActivationLogLinesNTF: {name: "GW_GET_MULTIPLE_ACTIVATION_LOG_LINES_NTF", req: CmdGetMultipleActivationLogLinesREQ},
	CmdGetMultipleActivationLogLinesCFM: {name: "GW_GET_MULTIPLE_ACTIVATION_LOG_LINES_CFM", req: CmdGetMultipleActivationLogLinesREQ, terminator: true},

	CmdSetUTCREQ:         {name: "GW_SET_UTC_REQ", cfm: CmdSetUTCCFM, encode: encodeSetUTC},
	CmdSetUTCCFM:         {name: "GW_SET_UTC_CFM", req: CmdSetUTCREQ},
	CmdRTCSetTimeZoneREQ: {name: "GW_RTC_SET_TIME_ZONE_REQ", cfm: CmdRTCSetTimeZoneCFM, encode: encodeRTCSetTimeZone},
	CmdRTCSetTimeZoneCFM: {name: "GW_RTC_SET_TIME_ZONE_CFM", req: CmdRTCSetTimeZoneREQ, decode: decodeStatusByte},
	CmdGetLocalTimeREQ:   {name: "GW_GET_LOCAL_TIME_REQ", cfm: CmdGetLocalTimeCFM},
	CmdGetLocalTimeCFM:   {name: "GW_GET_LOCAL_TIME_CFM", req: CmdGetLocalTimeREQ, decode: decodeLocalTimeCFM},

	CmdPasswordEnterREQ:  {name: "GW_PASSWORD_ENTER_REQ", cfm: CmdPasswordEnterCFM, encode: encodePasswordEnter},
	CmdPasswordEnterCFM:  {name: "GW_PASSWORD_ENTER_CFM", req: CmdPasswordEnterREQ, decode: decodePasswordEnterCFM},
	CmdPasswordChangeREQ: {name: "GW_PASSWORD_CHANGE_REQ", cfm: CmdPasswordChangeCFM, encode: encodePasswordChange},
	CmdPasswordChangeCFM: {name: "GW_PASSWORD_CHANGE_CFM", req: CmdPasswordChangeREQ, decode: decodePasswordChangeCFM},
	CmdPasswordChangeNTF: {name: "GW_PASSWORD_CHANGE_NTF", decode: decodePasswordChangeNTF},
}

var commandsByName = map[string]Command{}

func init() {
	for id, d := range commands {
		commandsByName[d.name] = id
	}
}

// Name returns the protocol name of the command, or an empty string
// for unknown identifiers.
func (c Command) Name() string {
	if d, ok := commands[c]; ok {
		return d.name
	}
	return ""
}

func (c Command) String() string {
	if d, ok := commands[c]; ok {
		return d.name
	}
	return "GW_UNKNOWN"
}

// LookupName resolves a protocol command name (e.g. "GW_GET_VERSION_REQ")
// to its identifier.
func LookupName(name string) (Command, bool) {
	id, ok := commandsByName[name]
	return id, ok
}

// RequestNames returns the protocol names of all request commands,
// sorted. The CLI builds one subcommand per entry.
func RequestNames() []string {
	names := make([]string, 0, len(commands))
	for _, d := range commands {
		if d.role() == RoleRequest {
			names = append(names, d.name)
		}
	}
	sort.Strings(names)
	return names
}
