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
	"github.com/garhu/bgp-router/addr"
)

// Table is the forwarding table: the set of currently-valid route
// entries, kept aggregated per invariant I4.
type Table struct {
	entries []Route
}

func NewTable() *Table {
	return &Table{}
}

// Routes returns a snapshot of the current table contents.
func (t *Table) Routes() []Route {
	out := make([]Route, len(t.entries))
	copy(out, t.entries)
	return out
}

func (t *Table) Len() int {
	return len(t.entries)
}

// Clear empties the table; used before a history rebuild.
func (t *Table) Clear() {
	t.entries = nil
}

// Insert applies I1 (re-announcement from the same peer replaces) and
// then runs the aggregation cascade of §4.4: merge the new entry with
// any coalescible entry, transitively, until no further merge applies.
func (t *Table) Insert(r Route) {
	key := r.Key()

	replaced := false
	for i, e := range t.entries {
		if e.Key() == key {
			t.entries[i] = r
			replaced = true
			break
		}
	}
	if !replaced {
		t.entries = append(t.entries, r)
	}

	t.aggregate(r.Key())
}

// aggregate repeatedly merges the entry identified by key with any
// coalescible entry elsewhere in the table, growing it in place until
// no entry coalesces with it any further. Each merge strictly shortens
// a mask, so this terminates within 32 rounds.
func (t *Table) aggregate(key Key) {
	for {
		idx := t.indexOf(key)
		if idx < 0 {
			return
		}
		cur := t.entries[idx]

		merged := false
		for j, other := range t.entries {
			if j == idx {
				continue
			}
			if combined, ok := coalesce(cur, other); ok {
				t.entries[idx] = combined
				t.entries = removeAt(t.entries, j)
				if j < idx {
					idx--
				}
				key = combined.Key()
				merged = true
				break
			}
		}

		if !merged {
			return
		}
	}
}

func (t *Table) indexOf(key Key) int {
	for i, e := range t.entries {
		if e.Key() == key {
			return i
		}
	}
	return -1
}

func removeAt(s []Route, i int) []Route {
	s[i] = s[len(s)-1]
	return s[:len(s)-1]
}

// coalesce reports whether a and b are coalescible (§4.4) and, if so,
// returns the single merged entry: netmask widened by one bit, network
// the lower prefix of the pair.
func coalesce(a, b Route) (Route, bool) {
	if a.Netmask != b.Netmask {
		return Route{}, false
	}
	if !equalAttributes(a, b) {
		return Route{}, false
	}

	combinedNetwork, ok := addr.AdjacentPair(a.Network, b.Network, a.Netmask)
	if !ok {
		return Route{}, false
	}

	merged := a
	merged.Network = combinedNetwork
	merged.Netmask = addr.WidenMask(a.Netmask)
	return merged, true
}

// Best implements §4.2 steps 1-2: longest-prefix match over the table,
// narrowed by the five-step selector. The caller (the dispatcher) still
// has to apply the policy filter (step 3) to the result.
func (t *Table) Best(dest addr.IP4) (Route, bool) {
	best := -1
	var candidates []Route

	for _, e := range t.entries {
		if !addr.PrefixCovers(e.Network, e.Netmask, dest) {
			continue
		}
		l := addr.MaskLength(e.Netmask)
		switch {
		case l > best:
			best = l
			candidates = []Route{e}
		case l == best:
			candidates = append(candidates, e)
		}
	}

	if len(candidates) == 0 {
		return Route{}, false
	}

	return Select(candidates), true
}
