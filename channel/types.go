// Copyright (C) 2025 sage-x-project
//
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU Lesser General Public License as
// published by the Free Software Foundation, either version 3 of the
// License, or (at your option) any later version.
//
// This program is distributed in the hope that it will be useful,
// but WITHOUT ANY WARRANTY; without even the implied warranty of
// MERCHANTABILITY or FITNESS FOR A PARTICULAR PURPOSE. See the
// GNU Lesser General Public License for more details.
//
// You should have received a copy of the GNU Lesser General Public License
// along with this program. If not, see <https://www.gnu.org/licenses/>.

// SPDX-License-Identifier: LGPL-3.0-or-later

// Package channel runs the post-handshake secure channel on top of the
// SCK/RCK/RK triple exported by a completed handshake.
package channel

import (
	"time"
)

// Role fixes which rekey derivation feeds the send direction; the two
// peers of one channel must hold opposite roles.
type Role int

const (
	RoleInitiator Role = iota
	RoleResponder
)

// Keys is the application key material exported by the handshake, from
// the holder's point of view: Send seals outbound frames, Recv opens
// inbound frames, Rekey feeds Rekey().
type Keys struct {
	Send  []byte
	Recv  []byte
	Rekey []byte
}

// Config defines channel policies and limits.
type Config struct {
	MaxAge      time.Duration `json:"maxAge"`      // absolute expiration
	IdleTimeout time.Duration `json:"idleTimeout"` // idle timeout
	MaxMessages int           `json:"maxMessages"`
}

// Status provides information about a channel.
type Status struct {
	ID           string    `json:"id"`
	CreatedAt    time.Time `json:"createdAt"`
	LastUsedAt   time.Time `json:"lastUsedAt"`
	MessageCount int       `json:"messageCount"`
	Generation   uint32    `json:"generation"`
	Expired      bool      `json:"expired"`
}
