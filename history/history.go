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

// Package history is the append-only ground truth (spec.md §3, §4.5)
// that the table is rebuilt from whenever a revoke invalidates prior
// aggregation. It is never pruned.
package history

import (
	"github.com/garhu/bgp-router/addr"
	"github.com/garhu/bgp-router/rib"
)

// Update is one historical "update" message: who announced it (src,
// the ingress link on which we received it) and the route it carried.
type Update struct {
	Src   addr.IP4
	Route rib.Route
}

// Prefix is one (network, netmask) entry of a "revoke" message body.
type Prefix struct {
	Network addr.IP4
	Netmask addr.IP4
}

// revocation is the (src, network, netmask) tuple spec.md §4.5/§9
// specifies as the corrected nullification key (not the buggy
// (src, network, network) form the original source used).
type revocation struct {
	Src     addr.IP4
	Network addr.IP4
	Netmask addr.IP4
}

// History is the append-only log plus the derived revocation set.
type History struct {
	updates     []Update
	revocations map[revocation]bool
}

func New() *History {
	return &History{revocations: map[revocation]bool{}}
}

// AppendUpdate records an update message in arrival order.
func (h *History) AppendUpdate(src addr.IP4, route rib.Route) {
	h.updates = append(h.updates, Update{Src: src, Route: route.Clone()})
}

// AppendRevoke records a revoke message and nullifies every prefix it
// names for every future rebuild.
func (h *History) AppendRevoke(src addr.IP4, prefixes []Prefix) {
	for _, p := range prefixes {
		h.revocations[revocation{Src: src, Network: p.Network, Netmask: p.Netmask}] = true
	}
}

// Len returns the number of update messages recorded (used for status
// introspection; not part of the wire protocol).
func (h *History) Len() int {
	return len(h.updates)
}

func (h *History) nullified(u Update) bool {
	return h.revocations[revocation{Src: u.Src, Network: u.Route.Network, Netmask: u.Route.Netmask}]
}

// Rebuild clears t and replays every un-nullified historical update
// through the normal insertion protocol, so aggregation reforms
// wherever it is still valid (spec.md §4.4 "Rebuild on revoke").
func (h *History) Rebuild(t *rib.Table) {
	t.Clear()
	for _, u := range h.updates {
		if !h.nullified(u) {
			t.Insert(u.Route.Clone())
		}
	}
}
