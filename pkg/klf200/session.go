// SPDX-License-Identifier: Apache-2.0
// Copyright (c) 2025 Erik Baauw

package klf200

import (
	"encoding/binary"
	"fmt"
)

// session is one in-flight request in the session table. All fields
// below the channels are guarded by the client mutex; the requester
// reads result and err only after done is closed.
type session struct {
	key  string
	req  *Request
	desc *descriptor // the request's descriptor

	cfm  chan struct{} // closed when the confirmation arrives
	done chan struct{} // closed on completion or failure

	cfmSeen   bool
	completed bool

	results  []interface{}
	result   interface{}
	err      error
	finished bool // set by decoders that detect end of stream
}

// append accumulates one streamed notification payload.
func (s *session) append(v interface{}) {
	s.results = append(s.results, v)
}

// finish marks the stream terminated by decoder content (for example a
// zero remaining-entries count).
func (s *session) finish() {
	s.finished = true
}

// sessionKey builds the table key: session-bearing commands key on the
// gateway-issued id, all others on the request command id. The latter
// enforces at most one in-flight instance per non-session command.
func sessionKey(desc *descriptor, req Command, sid uint16) string {
	if desc.session {
		return fmt.Sprintf("s%04x", sid)
	}
	return fmt.Sprintf("c%04x", uint16(req))
}

// dispatch routes one decoded inbound frame. It runs on the read loop,
// the single consumer of inbound frames. Session resolution, payload
// decoding and completion happen under one lock so a confirmation for
// request N is routed only after N has been registered.
func (c *Client) dispatch(f *Frame) {
	desc, ok := commands[f.Cmd]
	if !ok {
		c.trace.error(protocolErrorf(f.Cmd, "unknown command id 0x%04X", uint16(f.Cmd)))
		return
	}
	if desc.role() == RoleRequest {
		c.trace.error(protocolErrorf(f.Cmd, "request command received from gateway"))
		return
	}

	var emitErr error

	c.mu.Lock()
	s := c.lookupSessionLocked(desc, f)
	if f.Cmd == CmdErrorNTF && s == nil {
		// Attributed to the in-flight request when there is exactly one.
		s = c.soleSessionLocked()
	}

	var payload interface{}
	var decodeErr error
	if desc.decode != nil {
		payload, decodeErr = desc.decode(f.Payload, s)
	}

	n := &Notification{Cmd: f.Cmd, Name: desc.name, Bytes: f.Payload, Payload: payload}
	if s != nil {
		n.Req = s.req
	}

	switch {
	case decodeErr != nil:
		if s != nil {
			c.failSessionLocked(s, decodeErr)
		}
		emitErr = &RequestError{Req: n.Req, Err: decodeErr}
	case s == nil:
		// Unowned confirmation or broadcast notification: emitted raw
		// below, nothing to complete.
	case desc.role() == RoleConfirmation:
		if !s.cfmSeen {
			s.cfmSeen = true
			close(s.cfm)
		}
		// A few streams are terminated by their confirmation instead of
		// a notification (the gateway sends the CFM last).
		if !s.desc.stream || s.finished || desc.terminator {
			c.completeSessionLocked(s, payload)
		}
	default: // notification
		if desc.terminator || s.finished {
			c.completeSessionLocked(s, payload)
		}
	}
	c.mu.Unlock()

	c.trace.notification(n)
	if emitErr != nil {
		c.trace.error(emitErr)
	}
}

// lookupSessionLocked resolves the owning session for a confirmation or
// per-session notification, or nil for broadcasts and unowned frames.
func (c *Client) lookupSessionLocked(desc *descriptor, f *Frame) *session {
	owner := desc.req
	if owner == 0 {
		return nil
	}
	ownerDesc := commands[owner]

	var key string
	if ownerDesc.session {
		if len(f.Payload) < 2 {
			return nil
		}
		key = sessionKey(ownerDesc, owner, binary.BigEndian.Uint16(f.Payload[0:2]))
	} else {
		key = sessionKey(ownerDesc, owner, 0)
	}
	return c.table[key]
}

// soleSessionLocked returns the only live session, if exactly one exists.
func (c *Client) soleSessionLocked() *session {
	if len(c.table) != 1 {
		return nil
	}
	for _, s := range c.table {
		return s
	}
	return nil
}

// completeSessionLocked resolves a session. The result is the
// accumulated stream when anything was collected, otherwise the final
// frame's decoded value.
func (c *Client) completeSessionLocked(s *session, last interface{}) {
	if s.completed {
		return
	}
	s.completed = true
	delete(c.table, s.key)

	if s.results != nil {
		s.result = s.results
	} else {
		s.result = last
	}
	if !s.cfmSeen {
		s.cfmSeen = true
		close(s.cfm)
	}
	close(s.done)
}

// failSessionLocked resolves a session with an error.
func (c *Client) failSessionLocked(s *session, err error) {
	if s.completed {
		return
	}
	s.completed = true
	delete(c.table, s.key)
	s.err = err
	if !s.cfmSeen {
		s.cfmSeen = true
		close(s.cfm)
	}
	close(s.done)
}
