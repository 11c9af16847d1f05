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
	"strconv"
	"strings"
)

// localEndpoint derives our own endpoint on a link from the neighbor's
// endpoint address: spec.md §4.8, the only convention of the test
// harness abstracted behind a single helper, as §9 asks for, so an
// alternative addressing scheme only has to change this one function.
func localEndpoint(remote string) (string, error) {
	i := strings.LastIndex(remote, ".")
	if i < 0 {
		return "", fmt.Errorf("router: %q is not a dotted endpoint address", remote)
	}

	last, err := strconv.Atoi(remote[i+1:])
	if err != nil {
		return "", fmt.Errorf("router: %q is not a dotted endpoint address: %w", remote, err)
	}
	if last != 2 {
		return "", fmt.Errorf("router: %q does not end in .2", remote)
	}

	return remote[:i+1] + "1", nil
}
