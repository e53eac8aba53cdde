// SPDX-License-Identifier: Apache-2.0
// Copyright (c) 2025 Erik Baauw

package klf200

import (
	"fmt"
	"sort"
	"sync"
	"time"
)

// Statistics tracks frame counters and error rates on one connection.
// It is wired into the engine through Trace hooks, so updates arrive
// from the read loop; all methods are safe for concurrent use.
type Statistics struct {
	mu sync.Mutex

	StartTime      time.Time
	LastUpdateTime time.Time

	// Counters
	TotalFrames    uint64
	Confirmations  uint64
	Notifications  uint64
	Requests       uint64
	ChecksumErrors uint64
	DecodeErrors   uint64
	GatewayErrors  uint64
	Timeouts       uint64

	// Per-command frame counts.
	PerCommand map[Command]uint64

	// Rates (calculated)
	FrameRate float64 // frames/sec
	ErrorRate float64 // errors/sec
}

// NewStatistics creates a new statistics tracker.
func NewStatistics() *Statistics {
	now := time.Now()
	return &Statistics{
		StartTime:      now,
		LastUpdateTime: now,
		PerCommand:     make(map[Command]uint64),
	}
}

// Hooks returns Trace hooks that feed the tracker. Merge them into the
// client's Trace before dialing.
func (s *Statistics) Hooks() Trace {
	return Trace{
		Request:      func(req *Request) { s.countRequest(req) },
		Notification: func(n *Notification) { s.countNotification(n) },
		Error:        func(err error) { s.countError(err) },
	}
}

func (s *Statistics) countRequest(req *Request) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.Requests++
	s.PerCommand[req.Cmd]++
	s.LastUpdateTime = time.Now()
}

func (s *Statistics) countNotification(n *Notification) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.TotalFrames++
	s.PerCommand[n.Cmd]++
	if desc, ok := commands[n.Cmd]; ok && desc.role() == RoleConfirmation {
		s.Confirmations++
	} else {
		s.Notifications++
	}
	s.LastUpdateTime = time.Now()
}

func (s *Statistics) countError(err error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	switch {
	case isChecksumError(err):
		s.ChecksumErrors++
	case isGatewayError(err):
		s.GatewayErrors++
	case isTimeoutError(err):
		s.Timeouts++
	default:
		s.DecodeErrors++
	}
	s.LastUpdateTime = time.Now()
}

// CalculateRates calculates frame and error rates.
func (s *Statistics) CalculateRates() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.calculateRatesLocked()
}

func (s *Statistics) calculateRatesLocked() {
	elapsed := time.Since(s.StartTime).Seconds()
	if elapsed > 0 {
		s.FrameRate = float64(s.TotalFrames) / elapsed
		errorCount := s.ChecksumErrors + s.DecodeErrors + s.GatewayErrors + s.Timeouts
		s.ErrorRate = float64(errorCount) / elapsed
	}
}

// String returns a formatted statistics summary.
func (s *Statistics) String() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.calculateRatesLocked()

	elapsed := time.Since(s.StartTime)

	result := fmt.Sprintf("=== Statistics (%.0f seconds) ===\n", elapsed.Seconds())
	result += fmt.Sprintf("Requests:        %8d\n", s.Requests)
	result += fmt.Sprintf("Inbound Frames:  %8d\n", s.TotalFrames)
	result += fmt.Sprintf("  Confirmations: %8d\n", s.Confirmations)
	result += fmt.Sprintf("  Notifications: %8d\n", s.Notifications)

	if s.ChecksumErrors > 0 {
		result += fmt.Sprintf("Checksum Errors: %8d\n", s.ChecksumErrors)
	}
	if s.DecodeErrors > 0 {
		result += fmt.Sprintf("Decode Errors:   %8d\n", s.DecodeErrors)
	}
	if s.GatewayErrors > 0 {
		result += fmt.Sprintf("Gateway Errors:  %8d\n", s.GatewayErrors)
	}
	if s.Timeouts > 0 {
		result += fmt.Sprintf("Timeouts:        %8d\n", s.Timeouts)
	}

	if len(s.PerCommand) > 0 {
		cmds := make([]Command, 0, len(s.PerCommand))
		for cmd := range s.PerCommand {
			cmds = append(cmds, cmd)
		}
		sort.Slice(cmds, func(i, j int) bool { return cmds[i] < cmds[j] })
		result += "Per Command:\n"
		for _, cmd := range cmds {
			result += fmt.Sprintf("  %-40s %6d\n", cmd.Name(), s.PerCommand[cmd])
		}
	}

	result += fmt.Sprintf("Frame Rate:      %8.1f frames/sec\n", s.FrameRate)
	result += fmt.Sprintf("Error Rate:      %8.1f errors/sec\n", s.ErrorRate)
	result += "================================\n"

	return result
}

// Reset resets all statistics counters.
func (s *Statistics) Reset() {
	s.mu.Lock()
	defer s.mu.Unlock()
	now := time.Now()
	s.StartTime = now
	s.LastUpdateTime = now
	s.TotalFrames = 0
	s.Confirmations = 0
	s.Notifications = 0
	s.Requests = 0
	s.ChecksumErrors = 0
	s.DecodeErrors = 0
	s.GatewayErrors = 0
	s.Timeouts = 0
	s.PerCommand = make(map[Command]uint64)
	s.FrameRate = 0
	s.ErrorRate = 0
}
