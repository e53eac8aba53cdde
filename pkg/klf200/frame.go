// SPDX-License-Identifier: Apache-2.0
// Copyright (c) 2025 Erik Baauw

package klf200

import (
	"encoding/binary"
	"fmt"
)

// Wire frame layout: [protocol, length, cmd_hi, cmd_lo, payload..., checksum]
// where protocol is always 0, length covers command id + payload + checksum,
// and the checksum is the XOR of every preceding byte.
const (
	protocolID     = 0x00
	frameOverhead  = 3 // command id (2) + checksum (1), counted by the length byte
	MaxPayloadSize = 250
)

// Frame is a decoded wire frame.
type Frame struct {
	Cmd     Command
	Payload []byte
}

// EncodeFrame builds the wire bytes for a command and payload. The
// result still needs SLIP framing before transmission.
func EncodeFrame(cmd Command, payload []byte) ([]byte, error) {
	if len(payload) > MaxPayloadSize {
		return nil, fmt.Errorf("klf200: payload too large: %d bytes (max %d)", len(payload), MaxPayloadSize)
	}

	data := make([]byte, 0, len(payload)+5)
	data = append(data, protocolID, byte(len(payload)+frameOverhead))
	data = binary.BigEndian.AppendUint16(data, uint16(cmd))
	data = append(data, payload...)

	return append(data, xorChecksum(data)), nil
}

// DecodeFrame parses wire bytes into a frame. A checksum mismatch is a
// hard error only in strict mode; otherwise the caller is expected to
// have logged it and the frame is still returned.
func DecodeFrame(data []byte, strict bool) (*Frame, error) {
	if len(data) < 5 {
		return nil, &ProtocolError{msg: fmt.Sprintf("frame too short: %d bytes", len(data))}
	}
	if data[0] != protocolID {
		return nil, &ProtocolError{msg: fmt.Sprintf("unknown protocol id 0x%02X", data[0])}
	}

	// A mismatch outside strict mode is tolerated: the caller has
	// already surfaced it as a warning.
	if sum := xorChecksum(data[:len(data)-1]); sum != data[len(data)-1] && strict {
		return nil, &ChecksumError{Expected: sum, Got: data[len(data)-1]}
	}

	cmd := Command(binary.BigEndian.Uint16(data[2:4]))
	payload := make([]byte, len(data)-5)
	copy(payload, data[4:len(data)-1])

	return &Frame{Cmd: cmd, Payload: payload}, nil
}

// VerifyChecksum reports whether the trailing checksum byte matches.
func VerifyChecksum(data []byte) bool {
	if len(data) < 1 {
		return false
	}
	return xorChecksum(data[:len(data)-1]) == data[len(data)-1]
}

func xorChecksum(data []byte) byte {
	var sum byte
	for _, b := range data {
		sum ^= b
	}
	return sum
}
