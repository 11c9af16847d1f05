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

// Package wire is the JSON message schema of spec.md §6: consumed, not
// designed. It only knows how to marshal/unmarshal the envelope and
// its typed payloads; it has no opinion on routing semantics.
package wire

import (
	"encoding/json"
	"fmt"
)

const (
	Update  = "update"
	Revoke  = "revoke"
	Data    = "data"
	NoRoute = "no route"
	Dump    = "dump"
	Table   = "table"
)

// Message is the envelope every frame carries.
type Message struct {
	Src  string          `json:"src"`
	Dst  string          `json:"dst"`
	Type string          `json:"type"`
	Msg  json.RawMessage `json:"msg"`
}

// Decode parses a single framed message.
func Decode(b []byte) (Message, error) {
	var m Message
	if err := json.Unmarshal(b, &m); err != nil {
		return Message{}, fmt.Errorf("wire: malformed message: %w", err)
	}
	if m.Src == "" || m.Dst == "" || m.Type == "" {
		return Message{}, fmt.Errorf("wire: missing required field")
	}
	return m, nil
}

// Encode serializes a message for the wire.
func Encode(m Message) ([]byte, error) {
	return json.Marshal(m)
}

// UpdatePayload is update.msg.
type UpdatePayload struct {
	Network    string `json:"network"`
	Netmask    string `json:"netmask"`
	LocalPref  uint32 `json:"localpref"`
	SelfOrigin bool   `json:"selfOrigin"`
	ASPath     []int  `json:"ASPath"`
	Origin     string `json:"origin"`
}

// RevokePrefix is one entry of revoke.msg.
type RevokePrefix struct {
	Network string `json:"network"`
	Netmask string `json:"netmask"`
}

// TableRoute is one entry of table.msg (a dump reply).
type TableRoute struct {
	Network string `json:"network"`
	Netmask string `json:"netmask"`
	Peer    string `json:"peer"`
}

// DecodeUpdate parses an update message's payload.
func DecodeUpdate(msg json.RawMessage) (UpdatePayload, error) {
	var p UpdatePayload
	if err := json.Unmarshal(msg, &p); err != nil {
		return UpdatePayload{}, fmt.Errorf("wire: malformed update payload: %w", err)
	}
	return p, nil
}

// DecodeRevoke parses a revoke message's payload.
func DecodeRevoke(msg json.RawMessage) ([]RevokePrefix, error) {
	var p []RevokePrefix
	if err := json.Unmarshal(msg, &p); err != nil {
		return nil, fmt.Errorf("wire: malformed revoke payload: %w", err)
	}
	return p, nil
}
