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
	"fmt"

	"github.com/garhu/bgp-router/addr"
	"github.com/garhu/bgp-router/history"
	"github.com/garhu/bgp-router/rib"
	"github.com/garhu/bgp-router/wire"
)

func parseOrigin(s string) rib.Origin {
	switch s {
	case "IGP":
		return rib.IGP
	case "EGP":
		return rib.EGP
	default:
		return rib.UNK
	}
}

// routeFromUpdate builds a Route from an update.msg payload, with the
// announcing peer set to the ingress link's remote endpoint.
func routeFromUpdate(peer addr.IP4, p wire.UpdatePayload) (rib.Route, error) {
	network, err := addr.Parse(p.Network)
	if err != nil {
		return rib.Route{}, fmt.Errorf("router: bad network: %w", err)
	}
	netmask, err := addr.Parse(p.Netmask)
	if err != nil {
		return rib.Route{}, fmt.Errorf("router: bad netmask: %w", err)
	}

	return rib.Route{
		Network:    network,
		Netmask:    netmask,
		Peer:       peer,
		LocalPref:  p.LocalPref,
		SelfOrigin: p.SelfOrigin,
		ASPath:     append([]int(nil), p.ASPath...),
		Origin:     parseOrigin(p.Origin),
	}, nil
}

// updatePayloadFromRoute renders a Route back to the wire payload,
// extending ASPath with our ASN (when extend is set) if it does not
// already appear anywhere in the path.
func updatePayloadFromRoute(r rib.Route, asn int, extend bool) wire.UpdatePayload {
	path := append([]int(nil), r.ASPath...)

	if extend {
		already := false
		for _, a := range path {
			if a == asn {
				already = true
				break
			}
		}
		if !already {
			path = append(path, asn)
		}
	}

	return wire.UpdatePayload{
		Network:    r.Network.String(),
		Netmask:    r.Netmask.String(),
		LocalPref:  r.LocalPref,
		SelfOrigin: r.SelfOrigin,
		ASPath:     path,
		Origin:     r.Origin.String(),
	}
}

func revokePrefixesFromWire(in []wire.RevokePrefix) ([]history.Prefix, error) {
	out := make([]history.Prefix, 0, len(in))
	for _, p := range in {
		network, err := addr.Parse(p.Network)
		if err != nil {
			return nil, fmt.Errorf("router: bad network: %w", err)
		}
		netmask, err := addr.Parse(p.Netmask)
		if err != nil {
			return nil, fmt.Errorf("router: bad netmask: %w", err)
		}
		out = append(out, history.Prefix{Network: network, Netmask: netmask})
	}
	return out, nil
}

func tableRoutesFromRIB(routes []rib.Route) []wire.TableRoute {
	out := make([]wire.TableRoute, 0, len(routes))
	for _, r := range routes {
		out = append(out, wire.TableRoute{
			Network: r.Network.String(),
			Netmask: r.Netmask.String(),
			Peer:    r.Peer.String(),
		})
	}
	return out
}
