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

package main

import (
	"flag"
	"fmt"
	"os"
	"strconv"
	"strings"

	"github.com/garhu/bgp-router/log"
	"github.com/garhu/bgp-router/policy"
	"github.com/garhu/bgp-router/router"
)

func main() {
	flag.Usage = func() {
		fmt.Fprintf(os.Stderr, "Usage: %s <asn> <endpoint>-<relation> [<endpoint>-<relation> ...]\n\n", os.Args[0])
		fmt.Fprintf(os.Stderr, "relation is one of: cust, peer, prov\n")
	}
	flag.Parse()

	asn, links, err := parseArgs(flag.Args())
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		flag.Usage()
		os.Exit(1)
	}

	logger := log.New()

	r := router.New(asn, logger)

	for _, l := range links {
		if err := r.AddLink(l.endpoint, l.relation); err != nil {
			fmt.Fprintln(os.Stderr, err)
			os.Exit(1)
		}
	}

	r.Run()
}

type linkArg struct {
	endpoint string
	relation policy.Relation
}

func parseArgs(args []string) (int, []linkArg, error) {
	if len(args) < 2 {
		return 0, nil, fmt.Errorf("router: expected an ASN and at least one <endpoint>-<relation> token")
	}

	asn, err := strconv.Atoi(args[0])
	if err != nil || asn <= 0 {
		return 0, nil, fmt.Errorf("router: ASN must be a positive integer, got %q", args[0])
	}

	links := make([]linkArg, 0, len(args)-1)
	for _, tok := range args[1:] {
		i := strings.LastIndex(tok, "-")
		if i < 0 {
			return 0, nil, fmt.Errorf("router: malformed link token %q, expected <endpoint>-<relation>", tok)
		}

		endpoint, relation := tok[:i], policy.Relation(tok[i+1:])
		if !relation.Valid() {
			return 0, nil, fmt.Errorf("router: unknown relation %q in token %q", relation, tok)
		}

		links = append(links, linkArg{endpoint: endpoint, relation: relation})
	}

	return asn, links, nil
}
