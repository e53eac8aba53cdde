// SPDX-License-Identifier: Apache-2.0
// Copyright (c) 2025 Erik Baauw

package klf200

import (
	"strings"
	"testing"
)

func TestCommandNamesUnique(t *testing.T) {
	seen := map[string]Command{}
	for id, d := range commands {
		if other, ok := seen[d.name]; ok {
			t.Errorf("name %s used by both 0x%04X and 0x%04X", d.name, uint16(other), uint16(id))
		}
		seen[d.name] = id
	}
}

func TestCommandRoleSuffixAgreement(t *testing.T) {
	for id, d := range commands {
		if !strings.HasPrefix(d.name, "GW_") {
			t.Errorf("0x%04X: name %q lacks GW_ prefix", uint16(id), d.name)
		}
		switch d.role() {
		case RoleRequest:
			if !strings.HasSuffix(d.name, "_REQ") {
				t.Errorf("0x%04X: request named %q", uint16(id), d.name)
			}
			if d.cfm == 0 {
				t.Errorf("%s: request without confirmation linkage", d.name)
			}
			if d.req != 0 {
				t.Errorf("%s: request carries a req link", d.name)
			}
		case RoleConfirmation:
			if !strings.HasSuffix(d.name, "_CFM") {
				t.Errorf("0x%04X: confirmation named %q", uint16(id), d.name)
			}
			if d.req == 0 {
				t.Errorf("%s: confirmation without request linkage", d.name)
			}
		case RoleNotification:
			if strings.HasSuffix(d.name, "_REQ") || strings.HasSuffix(d.name, "_CFM") {
				t.Errorf("0x%04X: notification named %q", uint16(id), d.name)
			}
		}
	}
}

func TestCommandLinkageConsistency(t *testing.T) {
	for _, d := range commands {
		if d.role() == RoleRequest {
			cfm, ok := commands[d.cfm]
			if !ok {
				t.Errorf("%s: confirmation 0x%04X not registered", d.name, uint16(d.cfm))
				continue
			}
			if cfm.role() != RoleConfirmation {
				t.Errorf("%s: cfm link points at %s", d.name, cfm.name)
			}
			if cfm.req != commandsByName[d.name] {
				t.Errorf("%s: confirmation %s links back to 0x%04X", d.name, cfm.name, uint16(cfm.req))
			}
			continue
		}
		if d.req != 0 {
			owner, ok := commands[d.req]
			if !ok {
				t.Errorf("%s: request 0x%04X not registered", d.name, uint16(d.req))
				continue
			}
			if owner.role() != RoleRequest {
				t.Errorf("%s: req link points at %s", d.name, owner.name)
			}
		}
	}
}

func TestTerminatorsBelongToStreams(t *testing.T) {
	for _, d := range commands {
		if !d.terminator {
			continue
		}
		if d.req == 0 {
			t.Errorf("%s: terminator without request linkage", d.name)
			continue
		}
		if owner := commands[d.req]; !owner.stream {
			t.Errorf("%s: terminator for non-stream request %s", d.name, owner.name)
		}
	}
}

func TestLookupName(t *testing.T) {
	id, ok := LookupName("GW_GET_VERSION_REQ")
	if !ok || id != CmdGetVersionREQ {
		t.Errorf("LookupName(GW_GET_VERSION_REQ) = 0x%04X, %t", uint16(id), ok)
	}
	if _, ok := LookupName("GW_NO_SUCH_COMMAND"); ok {
		t.Error("LookupName resolved an unknown name")
	}
}

func TestCommandName(t *testing.T) {
	if got := CmdPasswordEnterREQ.Name(); got != "GW_PASSWORD_ENTER_REQ" {
		t.Errorf("Name() = %q", got)
	}
	if got := Command(0xFFFF).Name(); got != "" {
		t.Errorf("Name() for unknown id = %q", got)
	}
}

func TestRequestNames(t *testing.T) {
	names := RequestNames()
	if len(names) == 0 {
		t.Fatal("RequestNames returned nothing")
	}
	for i, name := range names {
		if !strings.HasSuffix(name, "_REQ") {
			t.Errorf("RequestNames()[%d] = %q", i, name)
		}
		if i > 0 && names[i-1] >= name {
			t.Errorf("RequestNames not sorted at %d: %q >= %q", i, names[i-1], name)
		}
	}
}

func TestSessionKey(t *testing.T) {
	cmdSend := commands[CmdCommandSendREQ]
	if got := sessionKey(cmdSend, CmdCommandSendREQ, 0x0042); got != "s0042" {
		t.Errorf("session key = %q, want s0042", got)
	}
	getVersion := commands[CmdGetVersionREQ]
	if got := sessionKey(getVersion, CmdGetVersionREQ, 0); got != "c0008" {
		t.Errorf("command key = %q, want c0008", got)
	}
}
