// Copyright 2025 Edgeo SCADA
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//     http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

package datalink

import (
	"context"
	"fmt"
	"net"
	"sync/atomic"
	"time"
)

// Link is the datalink contract the CLI and reference responder build
// on: send a framed BVLC/NPDU/APDU packet to an address, and learn
// this link's own and broadcast addresses.
type Link interface {
	Send(ctx context.Context, dest *net.UDPAddr, payload []byte) error
	LocalAddress() *net.UDPAddr
	BroadcastAddress() *net.UDPAddr
	Receive(ctx context.Context) (payload []byte, from *net.UDPAddr, err error)
	Close() error
}

// UDPLink is the reference Link implementation: a single UDP socket
// bound to the address given to NewUDPLink.
type UDPLink struct {
	conn      *net.UDPConn
	localAddr *net.UDPAddr
	bcastAddr *net.UDPAddr
	closed    atomic.Bool
}

// DefaultPort is the standard BACnet/IP UDP port.
const DefaultPort = 47808

// NewUDPLink opens a UDP socket on bindAddr (host:port, port 0 to let
// the OS choose) and uses broadcastAddr, as given, as the link's
// broadcast address.
func NewUDPLink(bindAddr string, broadcastAddr string) (*UDPLink, error) {
	local, err := net.ResolveUDPAddr("udp4", bindAddr)
	if err != nil {
		return nil, fmt.Errorf("datalink: resolve bind address: %w", err)
	}
	conn, err := net.ListenUDP("udp4", local)
	if err != nil {
		return nil, fmt.Errorf("datalink: listen: %w", err)
	}
	bcast, err := net.ResolveUDPAddr("udp4", broadcastAddr)
	if err != nil {
		conn.Close()
		return nil, fmt.Errorf("datalink: resolve broadcast address: %w", err)
	}
	return &UDPLink{conn: conn, localAddr: conn.LocalAddr().(*net.UDPAddr), bcastAddr: bcast}, nil
}

// LocalAddress returns the address this link is bound to.
func (l *UDPLink) LocalAddress() *net.UDPAddr { return l.localAddr }

// BroadcastAddress returns this link's configured broadcast address.
func (l *UDPLink) BroadcastAddress() *net.UDPAddr { return l.bcastAddr }

// Send writes payload to dest, honoring ctx's deadline if any.
func (l *UDPLink) Send(ctx context.Context, dest *net.UDPAddr, payload []byte) error {
	if l.closed.Load() {
		return fmt.Errorf("datalink: link closed")
	}
	if deadline, ok := ctx.Deadline(); ok {
		if err := l.conn.SetWriteDeadline(deadline); err != nil {
			return err
		}
	}
	_, err := l.conn.WriteToUDP(payload, dest)
	return err
}

// Receive blocks until a packet arrives, ctx's deadline passes (or
// 500ms when ctx has no deadline), or the link is closed. Cancelling a
// ctx that has no deadline does not interrupt the wait.
func (l *UDPLink) Receive(ctx context.Context) ([]byte, *net.UDPAddr, error) {
	if l.closed.Load() {
		return nil, nil, fmt.Errorf("datalink: link closed")
	}
	deadline := time.Now().Add(500 * time.Millisecond)
	if d, ok := ctx.Deadline(); ok {
		deadline = d
	}
	if err := l.conn.SetReadDeadline(deadline); err != nil {
		return nil, nil, err
	}
	buf := make([]byte, 1500)
	n, from, err := l.conn.ReadFromUDP(buf)
	if err != nil {
		return nil, nil, err
	}
	return buf[:n], from, nil
}

// Close closes the underlying socket.
func (l *UDPLink) Close() error {
	l.closed.Store(true)
	return l.conn.Close()
}
