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

// Select applies the five ordered tie-break rules (spec.md §4.3) to a
// set of candidates sharing the same longest-prefix match length, and
// returns the single surviving route. candidates must be non-empty.
func Select(candidates []Route) Route {
	c := candidates

	c = narrow(c, func(r Route) int { return int(r.LocalPref) })

	if self := filter(c, func(r Route) bool { return r.SelfOrigin }); len(self) > 0 {
		c = self
	}

	c = narrow(c, func(r Route) int { return -len(r.ASPath) })

	c = narrowOrigin(c)

	best := c[0]
	for _, r := range c[1:] {
		if r.Peer < best.Peer {
			best = r
		}
	}
	return best
}

// narrow keeps only the candidates with the maximum score; ties keep all.
func narrow(c []Route, score func(Route) int) []Route {
	if len(c) <= 1 {
		return c
	}

	best := score(c[0])
	for _, r := range c[1:] {
		if s := score(r); s > best {
			best = s
		}
	}

	var out []Route
	for _, r := range c {
		if score(r) == best {
			out = append(out, r)
		}
	}
	return out
}

func filter(c []Route, pred func(Route) bool) []Route {
	var out []Route
	for _, r := range c {
		if pred(r) {
			out = append(out, r)
		}
	}
	return out
}

// narrowOrigin keeps only the top non-empty origin class (IGP > EGP > UNK).
func narrowOrigin(c []Route) []Route {
	if len(c) <= 1 {
		return c
	}
	return narrow(c, func(r Route) int { return r.Origin.class() })
}
