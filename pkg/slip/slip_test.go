// SPDX-License-Identifier: Apache-2.0
// Copyright (c) 2025 Erik Baauw

package slip

import (
	"bytes"
	"testing"
)

func TestEncode(t *testing.T) {
	tests := []struct {
		name string
		data []byte
		want []byte
	}{
		{
			name: "plain bytes",
			data: []byte{0x01, 0x02, 0x03},
			want: []byte{End, 0x01, 0x02, 0x03, End},
		},
		{
			name: "empty body",
			data: []byte{},
			want: []byte{End, End},
		},
		{
			name: "END byte stuffed",
			data: []byte{0x00, 0xC0, 0x01},
			want: []byte{End, 0x00, Esc, EscEnd, 0x01, End},
		},
		{
			name: "ESC byte stuffed",
			data: []byte{0xDB},
			want: []byte{End, Esc, EscEsc, End},
		},
		{
			name: "both special bytes",
			data: []byte{0xC0, 0xDB},
			want: []byte{End, Esc, EscEnd, Esc, EscEsc, End},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := Encode(tt.data)
			if !bytes.Equal(got, tt.want) {
				t.Errorf("Encode(% X) = % X, want % X", tt.data, got, tt.want)
			}
		})
	}
}

func TestDecodeErrors(t *testing.T) {
	tests := []struct {
		name  string
		frame []byte
	}{
		{"empty input", []byte{}},
		{"single byte", []byte{End}},
		{"missing leading END", []byte{0x01, End}},
		{"missing trailing END", []byte{End, 0x01}},
		{"interior END", []byte{End, 0x01, End, 0x02, End}},
		{"dangling escape", []byte{End, 0x01, Esc, End}},
		{"invalid escape sequence", []byte{End, Esc, 0x42, End}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if _, err := Decode(tt.frame); err == nil {
				t.Errorf("Decode(% X) succeeded, want framing error", tt.frame)
			}
		})
	}
}

func TestRoundTrip(t *testing.T) {
	tests := [][]byte{
		{0x01, 0x02, 0x03},
		{0xC0},
		{0xDB},
		{0xC0, 0xDB, 0xC0, 0xDB},
		{0x00, 0x05, 0x30, 0x00, 0x61, 0x62, 0x63},
	}

	for _, data := range tests {
		encoded := Encode(data)
		decoded, err := Decode(encoded)
		if err != nil {
			t.Errorf("Decode(Encode(% X)): %v", data, err)
			continue
		}
		if !bytes.Equal(decoded, data) {
			t.Errorf("round trip % X -> % X", data, decoded)
		}
	}
}

func TestDecodeDoesNotModifyInput(t *testing.T) {
	frame := []byte{End, 0x01, Esc, EscEnd, End}
	original := append([]byte(nil), frame...)

	if _, err := Decode(frame); err != nil {
		t.Fatalf("Decode: %v", err)
	}
	if !bytes.Equal(frame, original) {
		t.Errorf("input modified: % X, want % X", frame, original)
	}
}

func TestScannerSingleFrame(t *testing.T) {
	var s Scanner
	s.Feed(Encode([]byte{0x01, 0x02}))

	frame := s.Next()
	if frame == nil {
		t.Fatal("Next returned nil, want frame")
	}
	body, err := Decode(frame)
	if err != nil {
		t.Fatalf("Decode: %v", err)
	}
	if !bytes.Equal(body, []byte{0x01, 0x02}) {
		t.Errorf("body = % X, want 01 02", body)
	}
	if s.Next() != nil {
		t.Error("Next returned a second frame, want nil")
	}
}

func TestScannerSplitAcrossChunks(t *testing.T) {
	encoded := Encode([]byte{0x01, 0x02, 0x03, 0x04})

	var s Scanner
	s.Feed(encoded[:2])
	if s.Next() != nil {
		t.Fatal("frame complete after partial feed")
	}
	s.Feed(encoded[2:4])
	if s.Next() != nil {
		t.Fatal("frame complete after partial feed")
	}
	s.Feed(encoded[4:])

	frame := s.Next()
	if !bytes.Equal(frame, encoded) {
		t.Errorf("frame = % X, want % X", frame, encoded)
	}
}

func TestScannerMultipleFrames(t *testing.T) {
	first := Encode([]byte{0x01})
	second := Encode([]byte{0x02, 0x03})

	var s Scanner
	s.Feed(append(append([]byte(nil), first...), second...))

	if frame := s.Next(); !bytes.Equal(frame, first) {
		t.Errorf("first frame = % X, want % X", frame, first)
	}
	if frame := s.Next(); !bytes.Equal(frame, second) {
		t.Errorf("second frame = % X, want % X", frame, second)
	}
	if s.Next() != nil {
		t.Error("Next returned a third frame, want nil")
	}
}

func TestScannerDiscardsGarbage(t *testing.T) {
	encoded := Encode([]byte{0x0A, 0x0B})

	var s Scanner
	s.Feed([]byte{0x55, 0xAA, 0x42})
	s.Feed(encoded)

	frame := s.Next()
	if !bytes.Equal(frame, encoded) {
		t.Errorf("frame = % X, want % X", frame, encoded)
	}
}
