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

package log

import (
	"github.com/sirupsen/logrus"
)

type KV = map[string]any

type Log interface {
	Debug(event string, kv KV)
	Info(event string, kv KV)
	Warn(event string, kv KV)
}

// Nil discards everything. Used when a caller doesn't supply a logger.
type Nil struct{}

func (Nil) Debug(string, KV) {}
func (Nil) Info(string, KV)  {}
func (Nil) Warn(string, KV)  {}

// Logrus adapts a *logrus.Logger to Log.
type Logrus struct {
	L *logrus.Logger
}

func New() *Logrus {
	return &Logrus{L: logrus.New()}
}

func (l *Logrus) entry(kv KV) *logrus.Entry {
	fields := make(logrus.Fields, len(kv))
	for k, v := range kv {
		fields[k] = v
	}
	return l.L.WithFields(fields)
}

func (l *Logrus) Debug(event string, kv KV) { l.entry(kv).Debug(event) }
func (l *Logrus) Info(event string, kv KV)  { l.entry(kv).Info(event) }
func (l *Logrus) Warn(event string, kv KV)  { l.entry(kv).Warn(event) }
