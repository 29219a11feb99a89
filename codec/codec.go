// LAKE - Lightweight Authenticated Key Exchange
// Copyright (C) 2025 SAGE-X-project
//
// This file is part of LAKE.
//
// LAKE is free software: you can redistribute it and/or modify
// it under the terms of the GNU Lesser General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
//
// LAKE is distributed in the hope that it will be useful,
// but WITHOUT ANY WARRANTY; without even the implied warranty of
// MERCHANTABILITY or FITNESS FOR A PARTICULAR PURPOSE. See the
// GNU Lesser General Public License for more details.
//
// You should have received a copy of the GNU Lesser General Public License
// along with LAKE. If not, see <https://www.gnu.org/licenses/>.

// Package codec encodes and decodes the on-wire handshake messages.
// Messages are CBOR sequences: a flat concatenation of definite-length
// items. Decoders reject indefinite-length items and trailing garbage.
package codec

import (
	"errors"
	"fmt"

	"github.com/fxamacker/cbor/v2"
)

var (
	encMode cbor.EncMode
	decMode cbor.DecMode
)

func init() {
	em, err := cbor.CoreDetEncOptions().EncMode()
	if err != nil {
		panic(err)
	}
	encMode = em
	dm, err := cbor.DecOptions{IndefLength: cbor.IndefLengthForbidden}.DecMode()
	if err != nil {
		panic(err)
	}
	decMode = dm
}

// ErrTrailingBytes reports extra bytes after the last expected item.
var ErrTrailingBytes = errors.New("codec: trailing bytes after message")

// EncodeItem encodes a single value as a deterministic CBOR item.
func EncodeItem(v interface{}) ([]byte, error) {
	b, err := encMode.Marshal(v)
	if err != nil {
		return nil, fmt.Errorf("encode item: %w", err)
	}
	return b, nil
}

// decodeNext decodes the first CBOR item of data into v and returns the
// remaining bytes.
func decodeNext(data []byte, v interface{}) ([]byte, error) {
	rest, err := decMode.UnmarshalFirst(data, v)
	if err != nil {
		return nil, fmt.Errorf("decode item: %w", err)
	}
	return rest, nil
}
