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

package history

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/garhu/bgp-router/addr"
	"github.com/garhu/bgp-router/rib"
)

func route(network, netmask, peer string) rib.Route {
	return rib.Route{
		Network: addr.MustParse(network),
		Netmask: addr.MustParse(netmask),
		Peer:    addr.MustParse(peer),
	}
}

func TestRebuildDisaggregatesOnRevoke(t *testing.T) {
	// S3 + S4: two adjacent /24s from the same peer aggregate to a
	// /23; revoking one of them leaves exactly the other, unaggregated.
	peer := addr.MustParse("10.0.0.2")

	h := New()
	table := rib.NewTable()

	r1 := route("192.168.0.0", "255.255.255.0", "10.0.0.2")
	r2 := route("192.168.1.0", "255.255.255.0", "10.0.0.2")

	h.AppendUpdate(peer, r1)
	table.Insert(r1)
	h.AppendUpdate(peer, r2)
	table.Insert(r2)

	assert.Len(t, table.Routes(), 1, "adjacent equivalent prefixes should have aggregated")

	h.AppendRevoke(peer, []Prefix{{Network: addr.MustParse("192.168.1.0"), Netmask: addr.MustParse("255.255.255.0")}})
	h.Rebuild(table)

	routes := table.Routes()
	if assert.Len(t, routes, 1) {
		assert.Equal(t, addr.MustParse("192.168.0.0"), routes[0].Network)
		assert.Equal(t, addr.MustParse("255.255.255.0"), routes[0].Netmask)
	}

	_, ok := table.Best(addr.MustParse("192.168.1.5"))
	assert.False(t, ok, "revoked prefix must no longer be reachable")
}

func TestRevokeUpdateInverse(t *testing.T) {
	// L2: update(X) followed by revoke(X) restores the pre-update table.
	peer := addr.MustParse("10.0.0.2")
	r := route("192.168.0.0", "255.255.255.0", "10.0.0.2")

	h := New()
	table := rib.NewTable()

	h.AppendUpdate(peer, r)
	table.Insert(r)
	assert.Len(t, table.Routes(), 1)

	h.AppendRevoke(peer, []Prefix{{Network: r.Network, Netmask: r.Netmask}})
	h.Rebuild(table)

	assert.Empty(t, table.Routes())
}

func TestNullificationMatchesPeerNetworkNetmask(t *testing.T) {
	// A revocation from a different peer for the same prefix must not
	// nullify this peer's announcement.
	peerA := addr.MustParse("10.0.0.2")
	peerB := addr.MustParse("10.0.1.2")
	r := route("192.168.0.0", "255.255.255.0", "10.0.0.2")

	h := New()
	table := rib.NewTable()

	h.AppendUpdate(peerA, r)
	table.Insert(r)

	h.AppendRevoke(peerB, []Prefix{{Network: r.Network, Netmask: r.Netmask}})
	h.Rebuild(table)

	assert.Len(t, table.Routes(), 1, "revocation from an unrelated peer must not nullify this update")
}
