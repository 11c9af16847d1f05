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

package wire

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDecodeUpdateMessage(t *testing.T) {
	raw := []byte(`{"src":"192.168.0.1","dst":"192.168.0.2","type":"update","msg":{"network":"192.168.0.0","netmask":"255.255.0.0","localpref":100,"selfOrigin":false,"ASPath":[1,2],"origin":"IGP"}}`)

	m, err := Decode(raw)
	require.NoError(t, err)
	assert.Equal(t, "192.168.0.1", m.Src)
	assert.Equal(t, Update, m.Type)

	p, err := DecodeUpdate(m.Msg)
	require.NoError(t, err)
	assert.Equal(t, "192.168.0.0", p.Network)
	assert.Equal(t, []int{1, 2}, p.ASPath)
}

func TestDecodeRejectsMalformedJSON(t *testing.T) {
	_, err := Decode([]byte(`not json`))
	assert.Error(t, err)
}

func TestDecodeRejectsMissingFields(t *testing.T) {
	_, err := Decode([]byte(`{"src":"a","type":"dump","msg":{}}`))
	assert.Error(t, err, "missing dst must be rejected")
}

func TestDecodeRevoke(t *testing.T) {
	raw := []byte(`[{"network":"192.168.1.0","netmask":"255.255.255.0"}]`)
	prefixes, err := DecodeRevoke(raw)
	require.NoError(t, err)
	if assert.Len(t, prefixes, 1) {
		assert.Equal(t, "192.168.1.0", prefixes[0].Network)
	}
}
