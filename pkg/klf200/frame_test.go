// SPDX-License-Identifier: Apache-2.0
// Copyright (c) 2025 Erik Baauw

package klf200

import (
	"bytes"
	"testing"

	"github.com/ebaauw/hb-velux-tools/pkg/slip"
)

func TestEncodeFrame(t *testing.T) {
	tests := []struct {
		name    string
		cmd     Command
		payload []byte
		want    []byte
	}{
		{
			name: "no payload",
			cmd:  CmdGetVersionREQ,
			want: []byte{0x00, 0x03, 0x00, 0x08, 0x0B},
		},
		{
			name:    "single byte payload",
			cmd:     CmdGetNodeInformationREQ,
			payload: []byte{0x03},
			want:    []byte{0x00, 0x04, 0x02, 0x00, 0x03, 0x05},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := EncodeFrame(tt.cmd, tt.payload)
			if err != nil {
				t.Fatalf("EncodeFrame: %v", err)
			}
			if !bytes.Equal(got, tt.want) {
				t.Errorf("EncodeFrame = % X, want % X", got, tt.want)
			}
			if !VerifyChecksum(got) {
				t.Error("VerifyChecksum failed on encoded frame")
			}
		})
	}
}

func TestEncodeFramePayloadTooLarge(t *testing.T) {
	if _, err := EncodeFrame(CmdGetVersionREQ, make([]byte, MaxPayloadSize+1)); err == nil {
		t.Error("EncodeFrame accepted an oversized payload")
	}
}

func TestFrameRoundTrip(t *testing.T) {
	payload := []byte{0x01, 0x02, 0xC0, 0xDB, 0xFF}
	wire, err := EncodeFrame(CmdCommandSendREQ, payload)
	if err != nil {
		t.Fatalf("EncodeFrame: %v", err)
	}

	f, err := DecodeFrame(wire, true)
	if err != nil {
		t.Fatalf("DecodeFrame: %v", err)
	}
	if f.Cmd != CmdCommandSendREQ {
		t.Errorf("Cmd = %v, want %v", f.Cmd, CmdCommandSendREQ)
	}
	if !bytes.Equal(f.Payload, payload) {
		t.Errorf("Payload = % X, want % X", f.Payload, payload)
	}
}

func TestDecodeFrameUnknownProtocol(t *testing.T) {
	wire, _ := EncodeFrame(CmdGetVersionREQ, nil)
	wire[0] = 0x01
	wire[len(wire)-1] = xorChecksum(wire[:len(wire)-1])

	if _, err := DecodeFrame(wire, false); err == nil {
		t.Error("DecodeFrame accepted unknown protocol id")
	}
}

func TestDecodeFrameChecksumMismatch(t *testing.T) {
	wire, _ := EncodeFrame(CmdGetVersionREQ, nil)
	wire[len(wire)-1] ^= 0xFF

	// Tolerated by default.
	f, err := DecodeFrame(wire, false)
	if err != nil {
		t.Errorf("DecodeFrame tolerant: %v", err)
	}
	if f == nil || f.Cmd != CmdGetVersionREQ {
		t.Error("DecodeFrame tolerant did not return the frame")
	}

	// Hard error in strict mode.
	if _, err := DecodeFrame(wire, true); err == nil {
		t.Error("DecodeFrame strict accepted a checksum mismatch")
	}
}

func TestDecodeFrameTooShort(t *testing.T) {
	if _, err := DecodeFrame([]byte{0x00, 0x03, 0x00}, false); err == nil {
		t.Error("DecodeFrame accepted a truncated frame")
	}
}

// The password enter request for "abc" has a well-known wire encoding:
// length 0x23 (32-byte password field + 3), command 0x3000, the
// password zero-padded, XOR checksum, wrapped in SLIP END bytes.
func TestPasswordEnterWireBytes(t *testing.T) {
	payload, err := encodePasswordEnter(Params{"password": "abc"})
	if err != nil {
		t.Fatalf("encodePasswordEnter: %v", err)
	}
	wire, err := EncodeFrame(CmdPasswordEnterREQ, payload)
	if err != nil {
		t.Fatalf("EncodeFrame: %v", err)
	}
	encoded := slip.Encode(wire)

	want := []byte{0xC0, 0x00, 0x23, 0x30, 0x00, 0x61, 0x62, 0x63}
	want = append(want, make([]byte, 29)...) // password padding
	want = append(want, 0x73, 0xC0)

	if !bytes.Equal(encoded, want) {
		t.Errorf("wire bytes = % X, want % X", encoded, want)
	}
}
