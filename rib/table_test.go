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

package rib

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/garhu/bgp-router/addr"
)

func TestBestRouteLongestPrefixMatch(t *testing.T) {
	// S1: a /16 from one peer and a /24 from another; the /24 wins for
	// an address it covers.
	table := NewTable()
	table.Insert(Route{
		Network: addr.MustParse("192.168.0.0"), Netmask: addr.MustParse("255.255.0.0"),
		Peer: addr.MustParse("10.0.0.2"),
	})
	table.Insert(Route{
		Network: addr.MustParse("192.168.4.0"), Netmask: addr.MustParse("255.255.255.0"),
		Peer: addr.MustParse("10.0.1.2"),
	})

	got, ok := table.Best(addr.MustParse("192.168.4.5"))
	assert.True(t, ok)
	assert.Equal(t, addr.MustParse("10.0.1.2"), got.Peer)
}

func TestBestRouteNoCoverage(t *testing.T) {
	table := NewTable()
	table.Insert(Route{
		Network: addr.MustParse("192.168.4.0"), Netmask: addr.MustParse("255.255.255.0"),
		Peer: addr.MustParse("10.0.1.2"),
	})

	_, ok := table.Best(addr.MustParse("10.10.10.10"))
	assert.False(t, ok)
}

func TestInsertAggregatesAdjacentEquivalentPrefixes(t *testing.T) {
	// S3: two /24s from the same peer with identical attributes
	// coalesce into a single /23.
	table := NewTable()
	table.Insert(Route{
		Network: addr.MustParse("192.168.0.0"), Netmask: addr.MustParse("255.255.255.0"),
		Peer: addr.MustParse("10.0.0.2"), LocalPref: 100,
	})
	table.Insert(Route{
		Network: addr.MustParse("192.168.1.0"), Netmask: addr.MustParse("255.255.255.0"),
		Peer: addr.MustParse("10.0.0.2"), LocalPref: 100,
	})

	routes := table.Routes()
	if assert.Len(t, routes, 1) {
		assert.Equal(t, addr.MustParse("192.168.0.0"), routes[0].Network)
		assert.Equal(t, addr.MustParse("255.255.254.0"), routes[0].Netmask)
	}
}

func TestInsertDoesNotAggregateDifferingAttributes(t *testing.T) {
	table := NewTable()
	table.Insert(Route{
		Network: addr.MustParse("192.168.0.0"), Netmask: addr.MustParse("255.255.255.0"),
		Peer: addr.MustParse("10.0.0.2"), LocalPref: 100,
	})
	table.Insert(Route{
		Network: addr.MustParse("192.168.1.0"), Netmask: addr.MustParse("255.255.255.0"),
		Peer: addr.MustParse("10.0.0.2"), LocalPref: 50,
	})

	assert.Len(t, table.Routes(), 2)
}

func TestInsertReplacesSamePeerReannouncement(t *testing.T) {
	table := NewTable()
	r := Route{
		Network: addr.MustParse("192.168.0.0"), Netmask: addr.MustParse("255.255.255.0"),
		Peer: addr.MustParse("10.0.0.2"), LocalPref: 100,
	}
	table.Insert(r)

	r.LocalPref = 200
	table.Insert(r)

	routes := table.Routes()
	if assert.Len(t, routes, 1) {
		assert.Equal(t, uint32(200), routes[0].LocalPref)
	}
}

func TestCascadingAggregation(t *testing.T) {
	// Four consecutive /24s under the same attributes should collapse
	// all the way to a single /22, regardless of insertion order.
	table := NewTable()
	bases := []string{"10.0.0.0", "10.0.2.0", "10.0.1.0", "10.0.3.0"}
	for _, b := range bases {
		table.Insert(Route{
			Network: addr.MustParse(b), Netmask: addr.MustParse("255.255.255.0"),
			Peer: addr.MustParse("10.0.0.2"), LocalPref: 100,
		})
	}

	routes := table.Routes()
	if assert.Len(t, routes, 1) {
		assert.Equal(t, addr.MustParse("10.0.0.0"), routes[0].Network)
		assert.Equal(t, addr.MustParse("255.255.252.0"), routes[0].Netmask)
	}
}

func TestIdempotentUpdate(t *testing.T) {
	// L1: two identical consecutive updates from the same peer yield
	// the same table.
	r := Route{
		Network: addr.MustParse("192.168.0.0"), Netmask: addr.MustParse("255.255.255.0"),
		Peer: addr.MustParse("10.0.0.2"), LocalPref: 100,
	}

	table := NewTable()
	table.Insert(r)
	table.Insert(r)

	assert.Equal(t, []Route{r}, table.Routes())
}
