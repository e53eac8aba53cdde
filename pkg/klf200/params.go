// SPDX-License-Identifier: Apache-2.0
// Copyright (c) 2025 Erik Baauw

package klf200

import "fmt"

// Params holds request parameters. Values arrive either from typed Go
// callers or from JSON-decoded CLI arguments, so the getters accept the
// numeric types both produce.
type Params map[string]interface{}

// numberValue normalizes the numeric types that reach a Params map.
func numberValue(v interface{}) (float64, bool) {
	switch n := v.(type) {
	case float64:
		return n, true
	case float32:
		return float64(n), true
	case int:
		return float64(n), true
	case int8:
		return float64(n), true
	case int16:
		return float64(n), true
	case int32:
		return float64(n), true
	case int64:
		return float64(n), true
	case uint:
		return float64(n), true
	case uint8:
		return float64(n), true
	case uint16:
		return float64(n), true
	case uint32:
		return float64(n), true
	case uint64:
		return float64(n), true
	}
	return 0, false
}

func (p Params) number(key string) (float64, bool) {
	v, ok := p[key]
	if !ok {
		return 0, false
	}
	return numberValue(v)
}

// uintField returns a required unsigned integer parameter.
func (p Params) uintField(key string) (uint64, error) {
	n, ok := p.number(key)
	if !ok {
		return 0, fmt.Errorf("klf200: missing or non-numeric parameter %q", key)
	}
	if n < 0 {
		return 0, fmt.Errorf("klf200: parameter %q must not be negative", key)
	}
	return uint64(n), nil
}

// uintFieldOr returns an optional unsigned integer parameter.
func (p Params) uintFieldOr(key string, def uint64) (uint64, error) {
	if _, ok := p[key]; !ok {
		return def, nil
	}
	return p.uintField(key)
}

// stringField returns a required string parameter.
func (p Params) stringField(key string) (string, error) {
	v, ok := p[key]
	if !ok {
		return "", fmt.Errorf("klf200: missing parameter %q", key)
	}
	s, ok := v.(string)
	if !ok {
		return "", fmt.Errorf("klf200: parameter %q must be a string", key)
	}
	return s, nil
}

// intSliceField returns a required list of small integers (node or
// scene indexes). JSON arrays arrive as []interface{} of float64.
func (p Params) intSliceField(key string) ([]int, error) {
	v, ok := p[key]
	if !ok {
		return nil, fmt.Errorf("klf200: missing parameter %q", key)
	}
	switch list := v.(type) {
	case []int:
		return list, nil
	case []interface{}:
		out := make([]int, 0, len(list))
		for _, e := range list {
			n, ok := numberValue(e)
			if !ok {
				return nil, fmt.Errorf("klf200: parameter %q must be a list of integers", key)
			}
			out = append(out, int(n))
		}
		return out, nil
	}
	return nil, fmt.Errorf("klf200: parameter %q must be a list of integers", key)
}

// sessionID returns the session id the pipeline stored on the params.
func (p Params) sessionID() (uint16, error) {
	n, err := p.uintField("sessionId")
	if err != nil {
		return 0, err
	}
	return uint16(n), nil
}
