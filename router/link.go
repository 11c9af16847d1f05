/*
 * VC5 load balancer. Copyright (C) 2021-present David Coles
 *
 * This program is free software; you can redistribute it and/or modify
 * it under the terms of the GNU General Public License as published by
 * the Free Software Foundation; either version 2 of the License, or
 * (at your option) any later version.
 *
 * This program is distributed in the hope that it will be useful,
 * but WITHOUT ANY WARRANTY; without even the implied warranty of
 * MERCHANTABILITY or FITNESS FOR A PARTICULAR PURPOSE.  See the
 * GNU General Public License for more details.
 *
 * You should have received a copy of the GNU General Public License along
 * with this program; if not, write to the Free Software Foundation, Inc.,
 * 51 Franklin Street, Fifth Floor, Boston, MA 02110-1301 USA.
 */

package router

import (
	"net"

	"github.com/eapache/channels"

	"github.com/garhu/bgp-router/log"
	"github.com/garhu/bgp-router/policy"
)

// maxFrame bounds a single sequenced-packet read; messages in this
// protocol are small JSON objects, never BGP-4-sized path attributes.
const maxFrame = 64 * 1024

// Link is a bidirectional channel to one neighbor (spec.md §3 "Link").
// Each link owns its connection for its entire lifetime (§5) and is
// closed implicitly on shutdown.
type Link struct {
	Remote   string
	Local    string
	Relation policy.Relation

	conn net.Conn
	out  channels.Channel // eapache/channels.InfiniteChannel of []byte frames, the ecosystem version of connection.go's hand-rolled out slice

	log log.Log
}

// inbound is one frame read off a link, fanned in to the dispatcher's
// single inbound channel so a lone select loop can serialize all
// processing (spec.md §5).
type inbound struct {
	link *Link
	raw  []byte
	err  error
}

// dialLink connects to a neighbor over a local SOCK_SEQPACKET socket
// named after its endpoint address, the transport of spec.md §6. No
// ecosystem library in the pack wraps unixpacket sockets, so this is
// the one place the standard library's net package is used directly
// (see DESIGN.md). Frames read off the connection are pushed to fanin,
// a channel shared by every link and owned by the dispatcher.
func dialLink(remote string, relation policy.Relation, logger log.Log, fanin chan inbound) (*Link, error) {
	local, err := localEndpoint(remote)
	if err != nil {
		return nil, err
	}

	addr := &net.UnixAddr{Name: remote, Net: "unixpacket"}
	conn, err := net.DialUnix("unixpacket", nil, addr)
	if err != nil {
		return nil, err
	}

	l := &Link{
		Remote:   remote,
		Local:    local,
		Relation: relation,
		conn:     conn,
		out:      channels.NewInfiniteChannel(),
		log:      logger,
	}

	go l.writer()
	go l.reader(fanin)

	return l, nil
}

// Send enqueues a frame for asynchronous delivery; the writer goroutine
// drains the queue in order, matching the egress side of §5's ordering
// guarantee ("messages from any single link are processed in arrival order").
func (l *Link) Send(frame []byte) {
	l.out.In() <- frame
}

func (l *Link) writer() {
	for raw := range l.out.Out() {
		frame := raw.([]byte)
		if _, err := l.conn.Write(frame); err != nil {
			l.log.Warn("link-write-error", log.KV{"remote": l.Remote, "error": err.Error()})
			return
		}
	}
}

func (l *Link) reader(fanin chan inbound) {
	buf := make([]byte, maxFrame)
	for {
		n, err := l.conn.Read(buf)
		if err != nil {
			fanin <- inbound{link: l, err: err}
			return
		}
		frame := make([]byte, n)
		copy(frame, buf[:n])
		fanin <- inbound{link: l, raw: frame}
	}
}

// Close tears down the link's connection and egress queue. The reader
// goroutine exits on the resulting read error; the writer goroutine
// exits once the queue is closed.
func (l *Link) Close() {
	l.conn.Close()
	l.out.Close()
}
