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

// Package router is the dispatcher (spec.md §4.7, component C7): it
// owns the links, multiplexes their reads through a single fan-in
// channel (the Go-idiomatic replacement for a raw poll() loop — see
// DESIGN.md), and routes each message by type to the update/revoke/
// data/dump handlers, serializing every table and history mutation
// the way §5 requires.
package router

import (
	"encoding/json"
	"io"

	"github.com/garhu/bgp-router/addr"
	"github.com/garhu/bgp-router/history"
	"github.com/garhu/bgp-router/log"
	"github.com/garhu/bgp-router/policy"
	"github.com/garhu/bgp-router/rib"
	"github.com/garhu/bgp-router/wire"
)

// Status is a read-only snapshot for introspection (not a wire
// message), mirroring the teacher's Session.Status()/Pool.Status()
// request/response pattern.
type Status struct {
	Routes       int
	HistoryLen   int
	LinksUp      int
	MessagesSeen uint64
}

type statusRequest chan Status

// Router is the composition root: ASN, the links it owns, and the
// table/history/policy state C7 mutates on every message.
type Router struct {
	asn int

	links map[string]*Link // keyed by remote endpoint address

	table   *rib.Table
	history *history.History

	log log.Log

	fanin  chan inbound
	status chan statusRequest
	done   chan struct{}

	seen uint64
}

// New creates a Router for the given local ASN. logger may be nil, in
// which case events are discarded.
func New(asn int, logger log.Log) *Router {
	if logger == nil {
		logger = log.Nil{}
	}

	return &Router{
		asn:     asn,
		links:   map[string]*Link{},
		table:   rib.NewTable(),
		history: history.New(),
		log:     logger,
		fanin:   make(chan inbound, 64),
		status:  make(chan statusRequest),
		done:    make(chan struct{}),
	}
}

// AddLink dials the neighbor at remote (its endpoint address) and
// registers the link under the given business relationship. Must be
// called before Run.
func (r *Router) AddLink(remote string, relation policy.Relation) error {
	l, err := dialLink(remote, relation, r.log, r.fanin)
	if err != nil {
		return err
	}
	r.links[remote] = l
	return nil
}

// Run drives the single-threaded cooperative event loop of spec.md §5:
// every readable link is fully processed before the next, and all
// table/history mutation happens between reads, so invariants I1-I4
// never need locking. Run returns when a link read fails (transport
// failure terminates the loop, per §7) or Close is called.
func (r *Router) Run() {
	defer r.closeLinks()

	for {
		select {
		case in := <-r.fanin:
			if in.err != nil {
				if in.err != io.EOF {
					r.log.Info("link-closed", log.KV{"remote": in.link.Remote, "error": in.err.Error()})
				} else {
					r.log.Info("link-closed", log.KV{"remote": in.link.Remote})
				}
				return
			}
			r.seen++
			r.handle(in.link, in.raw)

		case req := <-r.status:
			req <- Status{
				Routes:       r.table.Len(),
				HistoryLen:   r.history.Len(),
				LinksUp:      len(r.links),
				MessagesSeen: r.seen,
			}

		case <-r.done:
			return
		}
	}
}

// Status requests a snapshot from the running dispatch loop.
func (r *Router) Status() Status {
	req := make(statusRequest)
	r.status <- req
	return <-req
}

// Close stops Run and closes every link.
func (r *Router) Close() {
	close(r.done)
}

func (r *Router) closeLinks() {
	for _, l := range r.links {
		l.Close()
	}
}

// handle implements the dispatcher's public contract: dispatch a single
// message received on ingress to the update/revoke/data/dump handler.
func (r *Router) handle(ingress *Link, raw []byte) {
	m, err := wire.Decode(raw)
	if err != nil {
		r.log.Debug("malformed-message", log.KV{"remote": ingress.Remote, "error": err.Error()})
		return
	}

	switch m.Type {
	case wire.Update:
		r.handleUpdate(ingress, m)
	case wire.Revoke:
		r.handleRevoke(ingress, m)
	case wire.Data:
		r.handleData(ingress, m)
	case wire.Dump:
		r.handleDump(ingress, m)
	default:
		r.log.Debug("unknown-message-type", log.KV{"remote": ingress.Remote, "type": m.Type})
	}
}

func (r *Router) handleUpdate(ingress *Link, m wire.Message) {
	payload, err := wire.DecodeUpdate(m.Msg)
	if err != nil {
		r.log.Debug("malformed-message", log.KV{"remote": ingress.Remote, "error": err.Error()})
		return
	}

	peer, err := addr.Parse(ingress.Remote)
	if err != nil {
		r.log.Debug("malformed-message", log.KV{"remote": ingress.Remote, "error": err.Error()})
		return
	}

	route, err := routeFromUpdate(peer, payload)
	if err != nil {
		r.log.Debug("malformed-message", log.KV{"remote": ingress.Remote, "error": err.Error()})
		return
	}

	r.history.AppendUpdate(peer, route)
	r.table.Insert(route)

	for _, egress := range r.others(ingress) {
		if !policy.Allowed(ingress.Relation, egress.Relation) {
			continue
		}
		out := updatePayloadFromRoute(route, r.asn, true)
		r.sendUpdate(egress, out)
	}
}

func (r *Router) handleRevoke(ingress *Link, m wire.Message) {
	prefixesWire, err := wire.DecodeRevoke(m.Msg)
	if err != nil {
		r.log.Debug("malformed-message", log.KV{"remote": ingress.Remote, "error": err.Error()})
		return
	}

	peer, err := addr.Parse(ingress.Remote)
	if err != nil {
		r.log.Debug("malformed-message", log.KV{"remote": ingress.Remote, "error": err.Error()})
		return
	}

	prefixes, err := revokePrefixesFromWire(prefixesWire)
	if err != nil {
		r.log.Debug("malformed-message", log.KV{"remote": ingress.Remote, "error": err.Error()})
		return
	}

	r.history.AppendRevoke(peer, prefixes)
	r.history.Rebuild(r.table)

	for _, egress := range r.others(ingress) {
		if !policy.Allowed(ingress.Relation, egress.Relation) {
			continue
		}
		r.sendRaw(egress, wire.Revoke, m.Msg)
	}
}

func (r *Router) handleData(ingress *Link, m wire.Message) {
	dest, err := addr.Parse(m.Dst)
	if err != nil {
		r.log.Debug("malformed-message", log.KV{"remote": ingress.Remote, "error": err.Error()})
		return
	}

	route, ok := r.table.Best(dest)
	if ok {
		if egress, ok := r.linkFor(route.Peer); ok && policy.Allowed(ingress.Relation, egress.Relation) {
			egress.Send(mustEncode(m))
			return
		}
	}

	r.log.Info("no-route", log.KV{"remote": ingress.Remote, "dst": m.Dst})
	r.sendNoRoute(ingress, m.Src)
}

func (r *Router) handleDump(ingress *Link, m wire.Message) {
	reply := wire.Message{
		Src:  m.Dst,
		Dst:  m.Src,
		Type: wire.Table,
	}
	reply.Msg = mustMarshal(tableRoutesFromRIB(r.table.Routes()))
	ingress.Send(mustEncode(reply))
}

// others returns every registered link except ingress.
func (r *Router) others(ingress *Link) []*Link {
	out := make([]*Link, 0, len(r.links))
	for _, l := range r.links {
		if l != ingress {
			out = append(out, l)
		}
	}
	return out
}

func (r *Router) linkFor(peer addr.IP4) (*Link, bool) {
	for _, l := range r.links {
		if ip, err := addr.Parse(l.Remote); err == nil && ip == peer {
			return l, true
		}
	}
	return nil, false
}

func (r *Router) sendUpdate(egress *Link, payload wire.UpdatePayload) {
	m := wire.Message{
		Src:  egress.Local,
		Dst:  egress.Remote,
		Type: wire.Update,
		Msg:  mustMarshal(payload),
	}
	egress.Send(mustEncode(m))
}

func (r *Router) sendRaw(egress *Link, typ string, body json.RawMessage) {
	m := wire.Message{
		Src:  egress.Local,
		Dst:  egress.Remote,
		Type: typ,
		Msg:  body,
	}
	egress.Send(mustEncode(m))
}

func (r *Router) sendNoRoute(ingress *Link, originalSrc string) {
	m := wire.Message{
		Src:  ingress.Local,
		Dst:  originalSrc,
		Type: wire.NoRoute,
		Msg:  json.RawMessage(`{}`),
	}
	ingress.Send(mustEncode(m))
}

func mustMarshal(v any) json.RawMessage {
	b, err := json.Marshal(v)
	if err != nil {
		panic(err) // only ever called on our own well-formed values
	}
	return b
}

func mustEncode(m wire.Message) []byte {
	b, err := wire.Encode(m)
	if err != nil {
		panic(err)
	}
	return b
}
