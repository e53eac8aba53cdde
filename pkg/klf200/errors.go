// SPDX-License-Identifier: Apache-2.0
// Copyright (c) 2025 Erik Baauw

package klf200

import (
	"errors"
	"fmt"
)

var (
	// ErrTimeout is returned when a confirmation or stream terminator
	// does not arrive within its deadline.
	ErrTimeout = errors.New("klf200: request timed out")

	// ErrDisconnected fails outstanding requests when the transport
	// closes or the client is shut down.
	ErrDisconnected = errors.New("klf200: connection closed")

	// ErrAuthentication is fatal: the gateway rejected the password.
	ErrAuthentication = errors.New("klf200: authentication failed")
)

// ProtocolError reports a malformed or unexpected inbound frame.
type ProtocolError struct {
	Cmd Command
	msg string
}

func (e *ProtocolError) Error() string {
	if e.Cmd != 0 {
		return fmt.Sprintf("klf200: %s: %s", e.Cmd, e.msg)
	}
	return "klf200: " + e.msg
}

func protocolErrorf(cmd Command, format string, args ...interface{}) error {
	return &ProtocolError{Cmd: cmd, msg: fmt.Sprintf(format, args...)}
}

// ChecksumError reports a frame whose XOR checksum does not match.
// Outside strict mode it is surfaced as a warning only.
type ChecksumError struct {
	Expected byte
	Got      byte
}

func (e *ChecksumError) Error() string {
	return fmt.Sprintf("klf200: checksum mismatch: expected 0x%02X, got 0x%02X", e.Expected, e.Got)
}

// StatusError is a domain error decoded from a confirmation or
// notification status field.
type StatusError struct {
	Cmd  Command
	Code int
	msg  string
}

func (e *StatusError) Error() string {
	return fmt.Sprintf("klf200: %s: %s (status %d)", e.Cmd, e.msg, e.Code)
}

func statusErrorf(cmd Command, code int, format string, args ...interface{}) error {
	return &StatusError{Cmd: cmd, Code: code, msg: fmt.Sprintf(format, args...)}
}

// GatewayError is the payload of GW_ERROR_NTF.
type GatewayError struct {
	Code byte
}

var gatewayErrorText = map[byte]string{
	0:  "not further defined error",
	1:  "unknown command or command is not accepted at this state",
	2:  "error on frame structure",
	7:  "busy, try again later",
	8:  "bad system table index",
	12: "not authenticated",
}

func (e *GatewayError) Error() string {
	if text, ok := gatewayErrorText[e.Code]; ok {
		return fmt.Sprintf("klf200: gateway error %d: %s", e.Code, text)
	}
	return fmt.Sprintf("klf200: gateway error %d", e.Code)
}

// RequestError wraps an error with the request it is attributed to, for
// delivery on the trace error hook.
type RequestError struct {
	Req *Request
	Err error
}

func (e *RequestError) Error() string {
	if e.Req != nil {
		return fmt.Sprintf("%s: %v", e.Req.Name, e.Err)
	}
	return e.Err.Error()
}

func (e *RequestError) Unwrap() error {
	return e.Err
}

// Classification helpers for error accounting.

func isChecksumError(err error) bool {
	var ce *ChecksumError
	return errors.As(err, &ce)
}

func isGatewayError(err error) bool {
	var ge *GatewayError
	return errors.As(err, &ge)
}

func isTimeoutError(err error) bool {
	return errors.Is(err, ErrTimeout)
}
