// SPDX-License-Identifier: Apache-2.0
// Copyright (c) 2025 Erik Baauw

package klf200

// Trace collects optional observer hooks for connection lifecycle, raw
// bytes, requests, responses, notifications and asynchronous errors.
// Any hook may be nil. Hooks are invoked from the client's goroutines
// and must not call back into the client.
type Trace struct {
	Connecting   func(host string)
	Connect      func(peer Peer)
	Disconnect   func(peer Peer)
	Send         func(b []byte)
	Data         func(b []byte)
	Request      func(req *Request)
	Response     func(req *Request, result interface{})
	Notification func(n *Notification)
	Error        func(err error)
}

func (t *Trace) connecting(host string) {
	if t != nil && t.Connecting != nil {
		t.Connecting(host)
	}
}

func (t *Trace) connect(peer Peer) {
	if t != nil && t.Connect != nil {
		t.Connect(peer)
	}
}

func (t *Trace) disconnect(peer Peer) {
	if t != nil && t.Disconnect != nil {
		t.Disconnect(peer)
	}
}

func (t *Trace) send(b []byte) {
	if t != nil && t.Send != nil {
		t.Send(b)
	}
}

func (t *Trace) data(b []byte) {
	if t != nil && t.Data != nil {
		t.Data(b)
	}
}

func (t *Trace) request(req *Request) {
	if t != nil && t.Request != nil {
		t.Request(req)
	}
}

func (t *Trace) response(req *Request, result interface{}) {
	if t != nil && t.Response != nil {
		t.Response(req, result)
	}
}

func (t *Trace) notification(n *Notification) {
	if t != nil && t.Notification != nil {
		t.Notification(n)
	}
}

func (t *Trace) error(err error) {
	if t != nil && t.Error != nil {
		t.Error(err)
	}
}
