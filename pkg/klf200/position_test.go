// SPDX-License-Identifier: Apache-2.0
// Copyright (c) 2025 Erik Baauw

package klf200

import (
	"reflect"
	"testing"
)

func TestDecodePosition(t *testing.T) {
	tests := []struct {
		raw  uint16
		want interface{}
	}{
		{0x0000, 0},
		{0x0200, 1},
		{0x6400, 50},
		{0xC800, 100},
		{0x0100, 1}, // rounds to nearest percent
		{0xCC00, map[string]interface{}{"relative": 0}},
		{0xCC00 + 50*relativeScale, map[string]interface{}{"relative": 50}},
		{0xCC00 - 100*relativeScale, map[string]interface{}{"relative": -100}},
		{PositionTarget, "target"},
		{PositionCurrent, "current"},
		{PositionDefault, "default"},
		{PositionIgnore, "ignore"},
		{PositionUnknown, "unknown"},
		{0xE000, 0xE000}, // out of range, raw value preserved
	}

	for _, tt := range tests {
		got := DecodePosition(tt.raw)
		if !reflect.DeepEqual(got, tt.want) {
			t.Errorf("DecodePosition(0x%04X) = %v, want %v", tt.raw, got, tt.want)
		}
	}
}

func TestEncodePosition(t *testing.T) {
	tests := []struct {
		name string
		v    interface{}
		want uint16
	}{
		{"zero percent", 0, 0x0000},
		{"fifty percent", 50, 0x6400},
		{"hundred percent", 100, 0xC800},
		{"json number", float64(25), 0x3200},
		{"target sentinel", "target", PositionTarget},
		{"current sentinel", "current", PositionCurrent},
		{"ignore sentinel", "ignore", PositionIgnore},
		{"relative zero", map[string]interface{}{"relative": 0}, 0xCC00},
		{"relative positive", map[string]interface{}{"relative": float64(50)}, 0xCC00 + 50*relativeScale},
		{"relative negative", map[string]interface{}{"relative": -100}, 0xCC00 - 100*relativeScale},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := EncodePosition(tt.v)
			if err != nil {
				t.Fatalf("EncodePosition(%v): %v", tt.v, err)
			}
			if got != tt.want {
				t.Errorf("EncodePosition(%v) = 0x%04X, want 0x%04X", tt.v, got, tt.want)
			}
		})
	}
}

func TestEncodePositionErrors(t *testing.T) {
	tests := []struct {
		name string
		v    interface{}
	}{
		{"negative percent", -1},
		{"over hundred", 101},
		{"unknown sentinel", "sideways"},
		{"relative out of range", map[string]interface{}{"relative": 101}},
		{"relative non-numeric", map[string]interface{}{"relative": "far"}},
		{"unsupported type", []string{"50"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if _, err := EncodePosition(tt.v); err == nil {
				t.Errorf("EncodePosition(%v) succeeded", tt.v)
			}
		})
	}
}

func TestPositionRoundTrip(t *testing.T) {
	for pct := 0; pct <= 100; pct += 7 {
		raw, err := EncodePosition(pct)
		if err != nil {
			t.Fatalf("EncodePosition(%d): %v", pct, err)
		}
		if got := DecodePosition(raw); got != pct {
			t.Errorf("round trip %d%% -> 0x%04X -> %v", pct, raw, got)
		}
	}
}

func TestVelocity(t *testing.T) {
	if got := DecodeVelocity(0); got != "default" {
		t.Errorf("DecodeVelocity(0) = %v", got)
	}
	if got := DecodeVelocity(2); got != "fast" {
		t.Errorf("DecodeVelocity(2) = %v", got)
	}
	if got := DecodeVelocity(42); got != 42 {
		t.Errorf("DecodeVelocity(42) = %v", got)
	}

	raw, err := EncodeVelocity("slow")
	if err != nil || raw != VelocitySlow {
		t.Errorf("EncodeVelocity(slow) = %d, %v", raw, err)
	}
	raw, err = EncodeVelocity(nil)
	if err != nil || raw != VelocityDefault {
		t.Errorf("EncodeVelocity(nil) = %d, %v", raw, err)
	}
	if _, err := EncodeVelocity("warp"); err == nil {
		t.Error("EncodeVelocity accepted an unknown name")
	}
	if _, err := EncodeVelocity(300); err == nil {
		t.Error("EncodeVelocity accepted an out-of-range number")
	}
}
