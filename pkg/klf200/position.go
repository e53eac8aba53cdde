// SPDX-License-Identifier: Apache-2.0
// Copyright (c) 2025 Erik Baauw

package klf200

import (
	"fmt"
	"math"
)

// Position field encoding shared by the command handler commands.
// Values up to 0xC800 scale linearly to 0..100 percent (0x0200 per
// percent). The band 0xC800..0xD000 encodes a relative offset around
// 0xCC00. The remaining codes are named sentinels.
const (
	positionScale   = 0x0200
	positionMax     = 0xC800
	relativeZero    = 0xCC00
	relativeScale   = 10 // raw units per percent of relative offset
	relativeMax     = 0xD000
	PositionTarget  = 0xD100
	PositionCurrent = 0xD200
	PositionDefault = 0xD300
	PositionIgnore  = 0xD400
	PositionUnknown = 0xF7FF
)

var positionSentinels = map[uint16]string{
	PositionTarget:  "target",
	PositionCurrent: "current",
	PositionDefault: "default",
	PositionIgnore:  "ignore",
	PositionUnknown: "unknown",
}

// DecodePosition maps a raw position value to its JSON representation:
// an integer percentage, a sentinel name, or {"relative": offset} for
// the relative band. Out-of-range raw values decode to the raw integer.
func DecodePosition(raw uint16) interface{} {
	if name, ok := positionSentinels[raw]; ok {
		return name
	}
	if raw <= positionMax {
		return int(math.Round(float64(raw) / positionScale))
	}
	if raw > positionMax && raw < relativeMax {
		return map[string]interface{}{
			"relative": int(math.Round(float64(int(raw)-relativeZero) / relativeScale)),
		}
	}
	return int(raw)
}

// EncodePosition reverses DecodePosition. It accepts integers and JSON
// numbers (0..100 percent), sentinel names, and {"relative": offset}.
func EncodePosition(v interface{}) (uint16, error) {
	switch val := v.(type) {
	case string:
		for raw, name := range positionSentinels {
			if name == val {
				return raw, nil
			}
		}
		return 0, fmt.Errorf("klf200: unknown position sentinel %q", val)
	case map[string]interface{}:
		rel, ok := numberValue(val["relative"])
		if !ok {
			return 0, fmt.Errorf("klf200: relative position needs a numeric \"relative\" key")
		}
		if rel < -100 || rel > 100 {
			return 0, fmt.Errorf("klf200: relative position %v out of range", rel)
		}
		return uint16(relativeZero + int(rel)*relativeScale), nil
	default:
		pct, ok := numberValue(v)
		if !ok {
			return 0, fmt.Errorf("klf200: invalid position value %v", v)
		}
		if pct < 0 || pct > 100 {
			return 0, fmt.Errorf("klf200: position %v%% out of range", pct)
		}
		return uint16(math.Round(pct * positionScale)), nil
	}
}

// Velocity field values.
const (
	VelocityDefault      = 0
	VelocitySlow         = 1
	VelocityFast         = 2
	VelocityNotSupported = 255
)

var velocityNames = map[byte]string{
	VelocityDefault:      "default",
	VelocitySlow:         "slow",
	VelocityFast:         "fast",
	VelocityNotSupported: "not supported",
}

// DecodeVelocity maps a raw velocity byte to its name, falling back to
// the raw integer for reserved values.
func DecodeVelocity(raw byte) interface{} {
	if name, ok := velocityNames[raw]; ok {
		return name
	}
	return int(raw)
}

// EncodeVelocity accepts a velocity name or raw number.
func EncodeVelocity(v interface{}) (byte, error) {
	if v == nil {
		return VelocityDefault, nil
	}
	switch val := v.(type) {
	case string:
		for raw, name := range velocityNames {
			if name == val {
				return raw, nil
			}
		}
		return 0, fmt.Errorf("klf200: unknown velocity %q", val)
	default:
		n, ok := numberValue(v)
		if !ok {
			return 0, fmt.Errorf("klf200: invalid velocity value %v", v)
		}
		if n < 0 || n > 255 {
			return 0, fmt.Errorf("klf200: velocity %v out of range", n)
		}
		return byte(n), nil
	}
}
