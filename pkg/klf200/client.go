// SPDX-License-Identifier: Apache-2.0
// Copyright (c) 2025 Erik Baauw

// Package klf200 implements the framed request/response/notification
// protocol engine for the Velux KLF 200 gateway: SLIP framing with
// checksum, the KLF 200 message codec, and the session dispatcher that
// correlates confirmations and notification streams with the requests
// that initiated them.
package klf200

import (
	"context"
	"crypto/sha256"
	"crypto/tls"
	"encoding/hex"
	"fmt"
	"io"
	"net"
	"strconv"
	"strings"
	"sync"
	"time"

	"github.com/ebaauw/hb-velux-tools/pkg/slip"
)

// DefaultPort is the gateway's TLS port.
const DefaultPort = 51200

// State is the connection lifecycle state.
type State int

const (
	StateDisconnected State = iota
	StateConnecting
	StateAuthenticating
	StateAuthenticated
)

func (s State) String() string {
	switch s {
	case StateConnecting:
		return "connecting"
	case StateAuthenticating:
		return "authenticating"
	case StateAuthenticated:
		return "authenticated"
	default:
		return "disconnected"
	}
}

// Default completion deadlines.
const (
	DefaultCfmTimeout    = 5 * time.Second
	DefaultStreamTimeout = 60 * time.Second

	// slotBackoff is the cooperative wait while another request holds
	// the same session slot.
	slotBackoff = 100 * time.Millisecond
)

// Options configures a Client.
type Options struct {
	// Strict rejects frames with a checksum mismatch instead of
	// logging and tolerating them.
	Strict bool

	// CfmTimeout bounds the wait for a confirmation (default 5s).
	CfmTimeout time.Duration

	// StreamTimeout bounds the wait for a stream terminator
	// (default 60s).
	StreamTimeout time.Duration

	Trace *Trace
}

// Client is the protocol engine over one gateway connection.
type Client struct {
	conn    io.ReadWriteCloser
	trace   *Trace
	strict  bool
	cfmTO   time.Duration
	listTO  time.Duration
	peer    Peer
	hasPeer bool

	writeMu sync.Mutex // at most one outbound frame at a time

	mu            sync.Mutex // session table, counters, state
	table         map[string]*session
	lastRequestID uint32
	lastSessionID uint16
	state         State

	closeOnce sync.Once
	closed    chan struct{}
}

// NewClient builds an engine over an abstract byte stream and starts
// its read loop. Dial is the TLS front door; NewClient is also the
// seam for impersonating the gateway in tests.
func NewClient(conn io.ReadWriteCloser, opts *Options) *Client {
	if opts == nil {
		opts = &Options{}
	}
	c := &Client{
		conn:   conn,
		trace:  opts.Trace,
		strict: opts.Strict,
		cfmTO:  opts.CfmTimeout,
		listTO: opts.StreamTimeout,
		table:  make(map[string]*session),
		state:  StateConnecting,
		closed: make(chan struct{}),
	}
	if c.cfmTO <= 0 {
		c.cfmTO = DefaultCfmTimeout
	}
	if c.listTO <= 0 {
		c.listTO = DefaultStreamTimeout
	}
	go c.readLoop()
	return c
}

// Dial connects to a gateway, captures the peer identity, and
// authenticates. The certificate is not verified; its SHA-256
// fingerprint is exposed through Peer after the handshake.
func Dial(ctx context.Context, host, password string, opts *Options) (*Client, error) {
	if opts == nil {
		opts = &Options{}
	}
	addr := host
	if _, _, err := net.SplitHostPort(host); err != nil {
		addr = net.JoinHostPort(host, strconv.Itoa(DefaultPort))
	}

	opts.Trace.connecting(addr)

	dialer := &tls.Dialer{Config: &tls.Config{InsecureSkipVerify: true}}
	rawConn, err := dialer.DialContext(ctx, "tcp4", addr)
	if err != nil {
		return nil, fmt.Errorf("klf200: connect %s: %w", addr, err)
	}
	conn := rawConn.(*tls.Conn)

	peer := Peer{}
	if tcpAddr, ok := conn.RemoteAddr().(*net.TCPAddr); ok {
		peer.Address = tcpAddr.IP.String()
		peer.Port = tcpAddr.Port
	}
	if certs := conn.ConnectionState().PeerCertificates; len(certs) > 0 {
		sum := sha256.Sum256(certs[0].Raw)
		peer.Fingerprint = hex.EncodeToString(sum[:])
	}

	c := NewClient(conn, opts)
	c.mu.Lock()
	c.peer = peer
	c.hasPeer = true
	c.mu.Unlock()
	c.trace.connect(peer)

	if err := c.Authenticate(ctx, password); err != nil {
		c.Close()
		return nil, err
	}
	return c, nil
}

// Authenticate performs the password exchange. A rejected password or a
// transport close during bring-up is fatal and propagates.
func (c *Client) Authenticate(ctx context.Context, password string) error {
	c.mu.Lock()
	c.state = StateAuthenticating
	c.mu.Unlock()

	_, err := c.Request(ctx, "GW_PASSWORD_ENTER_REQ", Params{"password": password})
	if err != nil {
		return err
	}

	c.mu.Lock()
	c.state = StateAuthenticated
	c.mu.Unlock()
	return nil
}

// Peer returns the gateway endpoint identity captured during Dial.
func (c *Client) Peer() Peer {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.peer
}

// State returns the connection lifecycle state.
func (c *Client) State() State {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.state
}

// Outstanding returns the number of in-flight requests.
func (c *Client) Outstanding() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return len(c.table)
}

// Close tears the connection down. Outstanding requests fail with
// ErrDisconnected.
func (c *Client) Close() error {
	err := c.conn.Close()
	c.shutdown()
	return err
}

// Request executes one command: encode, wait for a free slot, register,
// frame, write, and await completion. The name is the protocol command
// name; the GW_ prefix and _REQ suffix may be omitted.
func (c *Client) Request(ctx context.Context, name string, params Params) (interface{}, error) {
	if !strings.HasPrefix(name, "GW_") {
		name = "GW_" + name
	}
	if !strings.HasSuffix(name, "_REQ") {
		name += "_REQ"
	}
	cmd, ok := LookupName(name)
	if !ok {
		return nil, fmt.Errorf("klf200: unknown command %q", name)
	}
	desc := commands[cmd]
	if desc.role() != RoleRequest {
		return nil, fmt.Errorf("klf200: %s is not a request", name)
	}

	// Copy the params: the pipeline owns the sessionId key.
	p := make(Params, len(params)+1)
	for k, v := range params {
		p[k] = v
	}

	c.mu.Lock()
	c.lastRequestID++
	req := &Request{
		ID:     c.lastRequestID,
		Cmd:    cmd,
		Name:   name,
		Params: p,
	}
	var sid uint16
	if desc.session {
		c.lastSessionID++
		sid = c.lastSessionID
		req.SessionID = sid
		req.HasSession = true
		p["sessionId"] = int(sid)
	}
	c.mu.Unlock()

	var payload []byte
	if desc.encode != nil {
		var err error
		payload, err = desc.encode(p)
		if err != nil {
			return nil, err
		}
	} else if len(p) > 0 && !desc.session {
		return nil, fmt.Errorf("klf200: %s takes no parameters", name)
	}
	if len(payload) > MaxPayloadSize {
		return nil, fmt.Errorf("klf200: %s: payload too large", name)
	}
	req.Payload = payload

	key := sessionKey(desc, cmd, sid)
	s, err := c.reserveSlot(ctx, key, req, desc)
	if err != nil {
		return nil, err
	}

	if err := c.write(cmd, payload, req); err != nil {
		c.mu.Lock()
		c.failSessionLocked(s, err)
		c.mu.Unlock()
		return nil, err
	}

	return c.await(ctx, s, desc)
}

// reserveSlot waits for the session key to be free, then registers the
// request in the session table.
func (c *Client) reserveSlot(ctx context.Context, key string, req *Request, desc *descriptor) (*session, error) {
	for {
		c.mu.Lock()
		select {
		case <-c.closed:
			c.mu.Unlock()
			return nil, ErrDisconnected
		default:
		}
		if _, busy := c.table[key]; !busy {
			s := &session{
				key:  key,
				req:  req,
				desc: desc,
				cfm:  make(chan struct{}),
				done: make(chan struct{}),
			}
			c.table[key] = s
			c.mu.Unlock()
			return s, nil
		}
		c.mu.Unlock()

		select {
		case <-ctx.Done():
			return nil, ctx.Err()
		case <-c.closed:
			return nil, ErrDisconnected
		case <-time.After(slotBackoff):
		}
	}
}

// write frames, SLIP-encodes, and sends one request.
func (c *Client) write(cmd Command, payload []byte, req *Request) error {
	wire, err := EncodeFrame(cmd, payload)
	if err != nil {
		return err
	}
	encoded := slip.Encode(wire)

	c.writeMu.Lock()
	defer c.writeMu.Unlock()

	c.trace.request(req)
	if _, err := c.conn.Write(encoded); err != nil {
		return fmt.Errorf("klf200: write %s: %w", req.Name, err)
	}
	c.trace.send(encoded)
	return nil
}

// await waits for the confirmation, then for stream commands the
// terminator. Timeouts fail the session; no retry is attempted.
func (c *Client) await(ctx context.Context, s *session, desc *descriptor) (interface{}, error) {
	cfmTimer := time.NewTimer(c.cfmTO)
	defer cfmTimer.Stop()
	select {
	case <-s.cfm:
	case <-ctx.Done():
		c.abort(s, ctx.Err())
		return nil, ctx.Err()
	case <-cfmTimer.C:
		c.abort(s, ErrTimeout)
		return nil, c.emitRequestError(s.req, ErrTimeout)
	}

	listTimer := time.NewTimer(c.listTO)
	defer listTimer.Stop()
	select {
	case <-s.done:
	case <-ctx.Done():
		c.abort(s, ctx.Err())
		return nil, ctx.Err()
	case <-listTimer.C:
		c.abort(s, ErrTimeout)
		return nil, c.emitRequestError(s.req, ErrTimeout)
	}

	if s.err != nil {
		return nil, s.err
	}
	c.trace.response(s.req, s.result)
	return s.result, nil
}

func (c *Client) abort(s *session, err error) {
	c.mu.Lock()
	c.failSessionLocked(s, err)
	c.mu.Unlock()
}

func (c *Client) emitRequestError(req *Request, err error) error {
	wrapped := &RequestError{Req: req, Err: err}
	c.trace.error(wrapped)
	return err
}

// readLoop is the single consumer of inbound bytes. A read error or
// transport close fails all outstanding sessions.
func (c *Client) readLoop() {
	var scanner slip.Scanner
	buf := make([]byte, 4096)

	for {
		n, err := c.conn.Read(buf)
		if n > 0 {
			chunk := make([]byte, n)
			copy(chunk, buf[:n])
			c.trace.data(chunk)
			scanner.Feed(chunk)
			for frame := scanner.Next(); frame != nil; frame = scanner.Next() {
				c.handleRaw(frame)
			}
		}
		if err != nil {
			c.shutdown()
			return
		}
	}
}

// handleRaw takes one complete SLIP frame off the stream.
func (c *Client) handleRaw(raw []byte) {
	wire, err := slip.Decode(raw)
	if err != nil {
		c.trace.error(err)
		return
	}
	if !VerifyChecksum(wire) {
		// Tolerated outside strict mode; see DecodeFrame.
		sum := byte(0)
		for _, b := range wire[:len(wire)-1] {
			sum ^= b
		}
		c.trace.error(&ChecksumError{Expected: sum, Got: wire[len(wire)-1]})
		if c.strict {
			return
		}
	}
	f, err := DecodeFrame(wire, false)
	if err != nil {
		c.trace.error(err)
		return
	}
	c.dispatch(f)
}

// shutdown fails every outstanding session and marks the client
// disconnected. Safe to call more than once.
func (c *Client) shutdown() {
	c.closeOnce.Do(func() {
		c.mu.Lock()
		for _, s := range c.table {
			c.failSessionLocked(s, ErrDisconnected)
		}
		c.state = StateDisconnected
		peer := c.peer
		hasPeer := c.hasPeer
		c.mu.Unlock()
		close(c.closed)
		if hasPeer {
			c.trace.disconnect(peer)
		}
		c.conn.Close()
	})
}

// Convenience wrappers for the operations the tools use directly.

// Version queries the gateway software and hardware version.
func (c *Client) Version(ctx context.Context) (*Version, error) {
	v, err := c.Request(ctx, "GW_GET_VERSION_REQ", nil)
	if err != nil {
		return nil, err
	}
	version, _ := v.(*Version)
	return version, nil
}

// ProtocolVersion queries the API protocol version ("major.minor").
func (c *Client) ProtocolVersion(ctx context.Context) (string, error) {
	v, err := c.Request(ctx, "GW_GET_PROTOCOL_VERSION_REQ", nil)
	if err != nil {
		return "", err
	}
	s, _ := v.(string)
	return s, nil
}

// GatewayState queries the gateway state and sub-state.
func (c *Client) GatewayState(ctx context.Context) (*GatewayState, error) {
	v, err := c.Request(ctx, "GW_GET_STATE_REQ", nil)
	if err != nil {
		return nil, err
	}
	state, _ := v.(*GatewayState)
	return state, nil
}

// Nodes streams the full actuator inventory.
func (c *Client) Nodes(ctx context.Context) ([]*Node, error) {
	v, err := c.Request(ctx, "GW_GET_ALL_NODES_INFORMATION_REQ", nil)
	if err != nil {
		return nil, err
	}
	list, _ := v.([]interface{})
	nodes := make([]*Node, 0, len(list))
	for _, e := range list {
		if node, ok := e.(*Node); ok {
			nodes = append(nodes, node)
		}
	}
	return nodes, nil
}

// SendCommand moves nodes to a position and collects the run status
// stream until the session finishes.
func (c *Client) SendCommand(ctx context.Context, nodeIDs []int, position interface{}) ([]*RunStatus, error) {
	v, err := c.Request(ctx, "GW_COMMAND_SEND_REQ", Params{
		"nodeIds":  nodeIDs,
		"position": position,
	})
	if err != nil {
		return nil, err
	}
	list, _ := v.([]interface{})
	statuses := make([]*RunStatus, 0, len(list))
	for _, e := range list {
		if rs, ok := e.(*RunStatus); ok {
			statuses = append(statuses, rs)
		}
	}
	return statuses, nil
}

// EnableHouseStatusMonitor subscribes to broadcast node state changes.
func (c *Client) EnableHouseStatusMonitor(ctx context.Context) error {
	_, err := c.Request(ctx, "GW_HOUSE_STATUS_MONITOR_ENABLE_REQ", nil)
	return err
}

// DisableHouseStatusMonitor ends the broadcast subscription.
func (c *Client) DisableHouseStatusMonitor(ctx context.Context) error {
	_, err := c.Request(ctx, "GW_HOUSE_STATUS_MONITOR_DISABLE_REQ", nil)
	return err
}
