// SPDX-License-Identifier: Apache-2.0
// Copyright (c) 2025 Erik Baauw

// Package slip implements RFC 1055 (SLIP) framing as used by the
// Velux KLF 200 gateway: every wire frame is wrapped in END delimiters
// with the END and ESC bytes escaped inside the body.
package slip

import "fmt"

// Framing bytes per RFC 1055.
const (
	End    = 0xC0
	Esc    = 0xDB
	EscEnd = 0xDC
	EscEsc = 0xDD
)

// FramingError reports a malformed SLIP frame.
type FramingError struct {
	msg string
}

func (e *FramingError) Error() string {
	return "slip: " + e.msg
}

func framingErrorf(format string, args ...interface{}) error {
	return &FramingError{msg: fmt.Sprintf(format, args...)}
}

// Encode wraps data in SLIP framing: an END byte at each end, with any
// END or ESC byte in the body replaced by its two-byte escape sequence.
func Encode(data []byte) []byte {
	result := make([]byte, 0, len(data)+2)
	result = append(result, End)

	for _, b := range data {
		switch b {
		case End:
			result = append(result, Esc, EscEnd)
		case Esc:
			result = append(result, Esc, EscEsc)
		default:
			result = append(result, b)
		}
	}

	return append(result, End)
}

// Decode extracts the body of exactly one SLIP frame. The frame must
// begin and end with END; an interior END, a dangling ESC, or an ESC
// followed by anything other than EscEnd/EscEsc is a framing error.
// The input is not modified.
func Decode(frame []byte) ([]byte, error) {
	if len(frame) < 2 || frame[0] != End || frame[len(frame)-1] != End {
		return nil, framingErrorf("frame not delimited by END bytes")
	}

	body := frame[1 : len(frame)-1]
	result := make([]byte, 0, len(body))

	for i := 0; i < len(body); i++ {
		switch body[i] {
		case End:
			return nil, framingErrorf("unexpected END byte at offset %d", i+1)
		case Esc:
			if i+1 >= len(body) {
				return nil, framingErrorf("dangling escape at end of frame")
			}
			i++
			switch body[i] {
			case EscEnd:
				result = append(result, End)
			case EscEsc:
				result = append(result, Esc)
			default:
				return nil, framingErrorf("invalid escape sequence 0xDB 0x%02X", body[i])
			}
		default:
			result = append(result, body[i])
		}
	}

	return result, nil
}

// Scanner extracts complete SLIP frames from a byte stream that may
// deliver frames in arbitrary chunks. Feed appends received bytes;
// Next returns the next complete frame including its END delimiters,
// or nil when no complete frame is buffered yet.
type Scanner struct {
	buf     []byte
	inFrame bool
	start   int
}

// Feed appends stream bytes to the scanner's buffer.
func (s *Scanner) Feed(data []byte) {
	s.buf = append(s.buf, data...)
}

// Next returns the next complete frame, or nil if none is available.
// Bytes outside any frame (before the opening END) are discarded.
func (s *Scanner) Next() []byte {
	for i := 0; i < len(s.buf); i++ {
		b := s.buf[i]
		if !s.inFrame {
			if b == End {
				s.inFrame = true
				s.start = i
			}
			continue
		}
		if b == End {
			if i == s.start+1 {
				// Empty frame or back-to-back delimiters; treat the
				// second END as a new frame start.
				s.start = i
				continue
			}
			frame := make([]byte, i-s.start+1)
			copy(frame, s.buf[s.start:i+1])
			s.buf = s.buf[i+1:]
			s.inFrame = false
			return frame
		}
	}

	// Drop garbage before the current frame start.
	if !s.inFrame {
		s.buf = s.buf[:0]
	} else if s.start > 0 {
		s.buf = append(s.buf[:0], s.buf[s.start:]...)
		s.start = 0
	}
	return nil
}
