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

package policy

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestAllowed(t *testing.T) {
	cases := []struct {
		from, to Relation
		want     bool
	}{
		{Customer, Customer, true},
		{Customer, Peer, true},
		{Customer, Provider, true},
		{Peer, Customer, true},
		{Provider, Customer, true},
		{Peer, Peer, false},
		{Peer, Provider, false},
		{Provider, Peer, false},
		{Provider, Provider, false},
	}

	for _, c := range cases {
		assert.Equal(t, c.want, Allowed(c.from, c.to), "Allowed(%s, %s)", c.from, c.to)
	}
}

func TestRelationValid(t *testing.T) {
	for _, r := range []Relation{Customer, Peer, Provider} {
		assert.True(t, r.Valid(), "%s should be valid", r)
	}
	assert.False(t, Relation("bogus").Valid())
}
