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

// Package policy enforces the customer/peer/provider business
// relationship rules of spec.md §4.6. Both the data-plane forwarding
// rule and the control-plane re-advertisement rule reduce to the same
// predicate, so both are expressed through Allowed.
package policy

// Relation is the business relationship a link has with us.
type Relation string

const (
	Customer Relation = "cust"
	Peer     Relation = "peer"
	Provider Relation = "prov"
)

func (r Relation) Valid() bool {
	switch r {
	case Customer, Peer, Provider:
		return true
	}
	return false
}

// Allowed implements the single rule behind both the data-plane and
// control-plane clauses of §4.6: traffic (or an announcement) crossing
// from a link of relation `from` to a link of relation `to` is
// permitted iff at least one side is a customer.
func Allowed(from, to Relation) bool {
	return from == Customer || to == Customer
}
