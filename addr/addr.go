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

// Package addr implements the CIDR bit arithmetic the forwarding table
// and aggregator are built on: mask length, prefix coverage, adjacency
// and the widen/narrow mask operations used to coalesce and split
// routes. Everything here treats an IPv4 address/mask as a plain
// uint32, high bit first, which is all the spec's longest-prefix-match
// and aggregation logic ever needs.
package addr

import (
	"fmt"
	"math/bits"
	"net/netip"
)

// IP4 is a dotted-quad IPv4 address or mask represented as a uint32,
// high-order octet first (10.0.0.1 -> 0x0a000001).
type IP4 uint32

// Parse converts a dotted-quad string to an IP4.
func Parse(s string) (IP4, error) {
	a, err := netip.ParseAddr(s)
	if err != nil {
		return 0, fmt.Errorf("addr: %w", err)
	}
	if !a.Is4() {
		return 0, fmt.Errorf("addr: %q is not an IPv4 address", s)
	}
	b := a.As4()
	return IP4(uint32(b[0])<<24 | uint32(b[1])<<16 | uint32(b[2])<<8 | uint32(b[3])), nil
}

// MustParse is Parse but panics on error; used for constants in tests.
func MustParse(s string) IP4 {
	ip, err := Parse(s)
	if err != nil {
		panic(err)
	}
	return ip
}

func (ip IP4) String() string {
	b := [4]byte{byte(ip >> 24), byte(ip >> 16), byte(ip >> 8), byte(ip)}
	return netip.AddrFrom4(b).String()
}

// MaskLength counts the leading one bits in a contiguous mask.
// Behavior is undefined (but does not panic) if mask is not contiguous.
func MaskLength(mask IP4) int {
	return bits.LeadingZeros32(^uint32(mask))
}

// MaskFromLength builds the contiguous mask with the given number of
// leading one bits (0..32).
func MaskFromLength(length int) IP4 {
	if length <= 0 {
		return 0
	}
	if length >= 32 {
		return 0xffffffff
	}
	return IP4(^uint32(0) << (32 - length))
}

// PrefixMatchLength returns the number of matching high-order bits
// between a and b, capped at limit. It returns 0 outright if the two
// addresses differ in their very first bit, since the only use of this
// routine is comparing the result against limit: any mismatch below
// limit already means "does not match under this mask."
func PrefixMatchLength(a, b IP4, limit int) int {
	if limit <= 0 {
		return 0
	}
	n := bits.LeadingZeros32(uint32(a) ^ uint32(b))
	if n > limit {
		n = limit
	}
	return n
}

// PrefixCovers reports whether address lies within the CIDR prefix
// (network, netmask).
func PrefixCovers(network, netmask, address IP4) bool {
	l := MaskLength(netmask)
	return PrefixMatchLength(network, address, l) >= l
}

// AdjacentPair reports whether two prefixes of equal mask length agree
// on bits 0..m-2 and differ on bit m-1 — i.e. they are siblings that
// coalesce into a single prefix one bit shorter. combined is the lower
// of the two under the widened mask.
func AdjacentPair(a, b, mask IP4) (combined IP4, ok bool) {
	m := MaskLength(mask)
	if m == 0 {
		return 0, false
	}

	wide := MaskFromLength(m - 1)

	if uint32(a)&uint32(wide) != uint32(b)&uint32(wide) {
		return 0, false
	}

	bit := IP4(1) << (32 - m)
	if (a & bit) == (b & bit) {
		return 0, false
	}

	lower := a
	if b < a {
		lower = b
	}

	return lower & wide, true
}

// WidenMask produces the mask one bit shorter: clears the lowest set bit.
func WidenMask(mask IP4) IP4 {
	return mask & (mask - 1)
}

// NarrowMask produces the mask one bit longer: sets the bit immediately
// after the current lowest set bit (or the top bit, if mask is zero).
func NarrowMask(mask IP4) IP4 {
	length := MaskLength(mask)
	if length >= 32 {
		return mask
	}
	return mask | (IP4(1) << (31 - length))
}
