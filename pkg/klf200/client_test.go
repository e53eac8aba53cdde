// SPDX-License-Identifier: Apache-2.0
// Copyright (c) 2025 Erik Baauw

package klf200

import (
	"context"
	"encoding/binary"
	"errors"
	"net"
	"testing"
	"time"

	"github.com/ebaauw/hb-velux-tools/pkg/slip"
)

// fakeGateway impersonates the KLF 200 on the far end of a net.Pipe:
// it collects the frames the client sends and lets the test script the
// replies.
type fakeGateway struct {
	t      *testing.T
	conn   net.Conn
	frames chan *Frame
}

func startGateway(t *testing.T, opts *Options) (*Client, *fakeGateway) {
	t.Helper()
	clientEnd, gatewayEnd := net.Pipe()
	g := &fakeGateway{t: t, conn: gatewayEnd, frames: make(chan *Frame, 16)}
	go g.readLoop()

	if opts == nil {
		opts = &Options{}
	}
	if opts.CfmTimeout == 0 {
		opts.CfmTimeout = time.Second
	}
	if opts.StreamTimeout == 0 {
		opts.StreamTimeout = 2 * time.Second
	}
	c := NewClient(clientEnd, opts)
	t.Cleanup(func() {
		c.Close()
		gatewayEnd.Close()
	})
	return c, g
}

func (g *fakeGateway) readLoop() {
	var scanner slip.Scanner
	buf := make([]byte, 4096)
	for {
		n, err := g.conn.Read(buf)
		if n > 0 {
			chunk := make([]byte, n)
			copy(chunk, buf[:n])
			scanner.Feed(chunk)
			for raw := scanner.Next(); raw != nil; raw = scanner.Next() {
				wire, err := slip.Decode(raw)
				if err != nil {
					continue
				}
				f, err := DecodeFrame(wire, true)
				if err != nil {
					continue
				}
				g.frames <- f
			}
		}
		if err != nil {
			return
		}
	}
}

// expect waits for the next frame from the client and checks its command.
func (g *fakeGateway) expect(cmd Command) *Frame {
	g.t.Helper()
	select {
	case f := <-g.frames:
		if f.Cmd != cmd {
			g.t.Fatalf("client sent %s, want %s", f.Cmd.Name(), cmd.Name())
		}
		return f
	case <-time.After(2 * time.Second):
		g.t.Fatalf("timed out waiting for %s", cmd.Name())
		return nil
	}
}

func (g *fakeGateway) send(cmd Command, payload []byte) {
	g.t.Helper()
	wire, err := EncodeFrame(cmd, payload)
	if err != nil {
		g.t.Fatalf("EncodeFrame %s: %v", cmd.Name(), err)
	}
	if _, err := g.conn.Write(slip.Encode(wire)); err != nil {
		g.t.Fatalf("write %s: %v", cmd.Name(), err)
	}
}

type requestResult struct {
	v   interface{}
	err error
}

func goRequest(c *Client, name string, params Params) chan requestResult {
	ch := make(chan requestResult, 1)
	go func() {
		v, err := c.Request(context.Background(), name, params)
		ch <- requestResult{v, err}
	}()
	return ch
}

func TestClientAuthenticate(t *testing.T) {
	c, g := startGateway(t, nil)

	done := make(chan error, 1)
	go func() { done <- c.Authenticate(context.Background(), "velux123") }()

	f := g.expect(CmdPasswordEnterREQ)
	if got := cString(f.Payload); got != "velux123" {
		t.Errorf("password on the wire = %q", got)
	}
	g.send(CmdPasswordEnterCFM, []byte{0})

	if err := <-done; err != nil {
		t.Fatalf("Authenticate: %v", err)
	}
	if c.State() != StateAuthenticated {
		t.Errorf("state = %v, want authenticated", c.State())
	}
}

func TestClientAuthenticateRejected(t *testing.T) {
	c, g := startGateway(t, nil)

	done := make(chan error, 1)
	go func() { done <- c.Authenticate(context.Background(), "wrong") }()

	g.expect(CmdPasswordEnterREQ)
	g.send(CmdPasswordEnterCFM, []byte{1})

	if err := <-done; !errors.Is(err, ErrAuthentication) {
		t.Fatalf("Authenticate: %v, want ErrAuthentication", err)
	}
}

func TestClientProtocolVersion(t *testing.T) {
	c, g := startGateway(t, nil)

	ch := goRequest(c, "GET_PROTOCOL_VERSION", nil)
	g.expect(CmdGetProtocolVersionREQ)
	g.send(CmdGetProtocolVersionCFM, []byte{0x00, 0x03, 0x00, 0x12})

	r := <-ch
	if r.err != nil {
		t.Fatalf("Request: %v", r.err)
	}
	if r.v != "3.18" {
		t.Errorf("protocol version = %v, want 3.18", r.v)
	}
}

func TestClientSystemTableStream(t *testing.T) {
	c, g := startGateway(t, nil)

	ch := goRequest(c, "GW_CS_GET_SYSTEMTABLE_DATA_REQ", nil)
	g.expect(CmdCSGetSystemtableDataREQ)
	g.send(CmdCSGetSystemtableDataCFM, nil)

	entry := func(index byte) []byte {
		return []byte{index, 0x01, 0x02, 0x03, 0x00, 0x45, 1, 11, 0, 0, 0}
	}
	first := append([]byte{2}, entry(0)...)
	first = append(first, entry(1)...)
	first = append(first, 1) // one more batch to come
	g.send(CmdCSGetSystemtableDataNTF, first)

	second := append([]byte{1}, entry(2)...)
	second = append(second, 0)
	g.send(CmdCSGetSystemtableDataNTF, second)

	r := <-ch
	if r.err != nil {
		t.Fatalf("Request: %v", r.err)
	}
	list, ok := r.v.([]interface{})
	if !ok || len(list) != 3 {
		t.Fatalf("result = %#v, want 3 accumulated entries", r.v)
	}
	for i, e := range list {
		if e.(*SystemTableEntry).Index != i {
			t.Errorf("entry %d has index %d", i, e.(*SystemTableEntry).Index)
		}
	}
	if c.Outstanding() != 0 {
		t.Errorf("outstanding = %d after completion", c.Outstanding())
	}
}

func TestClientCommandSendSession(t *testing.T) {
	c, g := startGateway(t, nil)

	c.mu.Lock()
	c.lastSessionID = 0x0041
	c.mu.Unlock()

	ch := make(chan requestResult, 1)
	go func() {
		v, err := c.SendCommand(context.Background(), []int{2, 3}, 0)
		ch <- requestResult{v, err}
	}()

	f := g.expect(CmdCommandSendREQ)
	sid := binary.BigEndian.Uint16(f.Payload[0:2])
	if sid != 0x0042 {
		t.Errorf("session id = 0x%04X, want 0x0042", sid)
	}
	if c.Outstanding() != 1 {
		t.Errorf("outstanding = %d while in flight", c.Outstanding())
	}

	g.send(CmdCommandSendCFM, []byte{byte(sid >> 8), byte(sid), 1})

	runStatus := func(nodeID byte) []byte {
		return []byte{byte(sid >> 8), byte(sid), 1, nodeID, 0, 0, 0, 0, 0, 0, 0, 0, 0}
	}
	g.send(CmdCommandRunStatusNTF, runStatus(2))
	g.send(CmdCommandRunStatusNTF, runStatus(3))
	g.send(CmdSessionFinishedNTF, []byte{byte(sid >> 8), byte(sid)})

	r := <-ch
	if r.err != nil {
		t.Fatalf("SendCommand: %v", r.err)
	}
	statuses := r.v.([]*RunStatus)
	if len(statuses) != 2 || statuses[0].NodeID != 2 || statuses[1].NodeID != 3 {
		t.Fatalf("run statuses = %+v", statuses)
	}
	if statuses[0].Position != 0 {
		t.Errorf("position = %v, want 0", statuses[0].Position)
	}
	if c.Outstanding() != 0 {
		t.Errorf("outstanding = %d after session finished", c.Outstanding())
	}
}

func TestClientSerializesSameCommand(t *testing.T) {
	c, g := startGateway(t, nil)

	version := []byte{0, 2, 0, 0, 71, 0, 1, 14, 3}
	first := goRequest(c, "GET_VERSION", nil)
	g.expect(CmdGetVersionREQ)
	second := goRequest(c, "GET_VERSION", nil)

	// The second request must hold back until the first completes.
	select {
	case f := <-g.frames:
		t.Fatalf("second %s sent while the first was in flight", f.Cmd.Name())
	case <-time.After(150 * time.Millisecond):
	}

	g.send(CmdGetVersionCFM, version)
	if r := <-first; r.err != nil {
		t.Fatalf("first request: %v", r.err)
	}

	g.expect(CmdGetVersionREQ)
	g.send(CmdGetVersionCFM, version)
	r := <-second
	if r.err != nil {
		t.Fatalf("second request: %v", r.err)
	}
	if v := r.v.(*Version); v.SoftwareVersion != "0.2.0.0.71.0" {
		t.Errorf("software version = %q", v.SoftwareVersion)
	}
}

func TestClientConfirmationTimeout(t *testing.T) {
	c, g := startGateway(t, &Options{CfmTimeout: 50 * time.Millisecond})

	ch := goRequest(c, "GET_STATE", nil)
	g.expect(CmdGetStateREQ)
	// No reply.

	r := <-ch
	if !errors.Is(r.err, ErrTimeout) {
		t.Fatalf("Request: %v, want ErrTimeout", r.err)
	}
	if c.Outstanding() != 0 {
		t.Errorf("outstanding = %d after timeout", c.Outstanding())
	}
}

func TestClientGatewayError(t *testing.T) {
	c, g := startGateway(t, nil)

	ch := goRequest(c, "GET_STATE", nil)
	g.expect(CmdGetStateREQ)
	g.send(CmdErrorNTF, []byte{12})

	r := <-ch
	var ge *GatewayError
	if !errors.As(r.err, &ge) {
		t.Fatalf("Request: %v, want GatewayError", r.err)
	}
	if ge.Code != 12 {
		t.Errorf("code = %d, want 12", ge.Code)
	}
}

func TestClientDisconnect(t *testing.T) {
	c, g := startGateway(t, nil)

	ch := goRequest(c, "GET_STATE", nil)
	g.expect(CmdGetStateREQ)
	g.conn.Close()

	r := <-ch
	if !errors.Is(r.err, ErrDisconnected) {
		t.Fatalf("Request: %v, want ErrDisconnected", r.err)
	}
	if c.State() != StateDisconnected {
		t.Errorf("state = %v, want disconnected", c.State())
	}

	// New requests fail immediately.
	if _, err := c.Request(context.Background(), "GET_STATE", nil); !errors.Is(err, ErrDisconnected) {
		t.Errorf("Request after disconnect: %v, want ErrDisconnected", err)
	}
}

func TestClientCancellation(t *testing.T) {
	c, g := startGateway(t, nil)

	ctx, cancel := context.WithCancel(context.Background())
	ch := make(chan requestResult, 1)
	go func() {
		v, err := c.Request(ctx, "GET_STATE", nil)
		ch <- requestResult{v, err}
	}()

	g.expect(CmdGetStateREQ)
	cancel()

	r := <-ch
	if !errors.Is(r.err, context.Canceled) {
		t.Fatalf("Request: %v, want context.Canceled", r.err)
	}
}

func TestClientToleratesChecksumMismatch(t *testing.T) {
	c, g := startGateway(t, nil)

	ch := goRequest(c, "GET_PROTOCOL_VERSION", nil)
	g.expect(CmdGetProtocolVersionREQ)

	wire, err := EncodeFrame(CmdGetProtocolVersionCFM, []byte{0x00, 0x03, 0x00, 0x12})
	if err != nil {
		t.Fatalf("EncodeFrame: %v", err)
	}
	wire[len(wire)-1] ^= 0xFF
	if _, err := g.conn.Write(slip.Encode(wire)); err != nil {
		t.Fatalf("write: %v", err)
	}

	r := <-ch
	if r.err != nil {
		t.Fatalf("Request: %v", r.err)
	}
	if r.v != "3.18" {
		t.Errorf("protocol version = %v, want 3.18", r.v)
	}
}

func TestClientStrictDropsChecksumMismatch(t *testing.T) {
	c, g := startGateway(t, &Options{Strict: true, CfmTimeout: 100 * time.Millisecond})

	ch := goRequest(c, "GET_PROTOCOL_VERSION", nil)
	g.expect(CmdGetProtocolVersionREQ)

	wire, err := EncodeFrame(CmdGetProtocolVersionCFM, []byte{0x00, 0x03, 0x00, 0x12})
	if err != nil {
		t.Fatalf("EncodeFrame: %v", err)
	}
	wire[len(wire)-1] ^= 0xFF
	if _, err := g.conn.Write(slip.Encode(wire)); err != nil {
		t.Fatalf("write: %v", err)
	}

	r := <-ch
	if !errors.Is(r.err, ErrTimeout) {
		t.Fatalf("Request: %v, want ErrTimeout (frame dropped)", r.err)
	}
}

func TestClientBroadcastNotification(t *testing.T) {
	var got *Notification
	notified := make(chan struct{}, 1)
	trace := &Trace{
		Notification: func(n *Notification) {
			if n.Cmd == CmdNodeStatePositionChangedNTF {
				got = n
				notified <- struct{}{}
			}
		},
	}
	_, g := startGateway(t, &Options{Trace: trace})

	payload := make([]byte, 20)
	payload[0] = 3
	payload[1] = 5
	binary.BigEndian.PutUint16(payload[2:4], 0x6400)
	binary.BigEndian.PutUint16(payload[4:6], 0x6400)
	g.send(CmdNodeStatePositionChangedNTF, payload)

	select {
	case <-notified:
	case <-time.After(2 * time.Second):
		t.Fatal("timed out waiting for broadcast notification")
	}
	state := got.Payload.(*NodeState)
	if state.ID != 3 || state.CurrentPosition != 50 {
		t.Errorf("node state = %+v", state)
	}
	if got.Req != nil {
		t.Error("broadcast notification attributed to a request")
	}
}

func TestClientRejectsUnknownCommand(t *testing.T) {
	c, _ := startGateway(t, nil)
	if _, err := c.Request(context.Background(), "GW_NO_SUCH_THING_REQ", nil); err == nil {
		t.Error("unknown command accepted")
	}
	if _, err := c.Request(context.Background(), "GW_GET_VERSION_CFM", nil); err == nil {
		t.Error("confirmation accepted as a request")
	}
}
