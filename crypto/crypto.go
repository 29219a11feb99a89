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

// Package crypto is the primitives facade for cipher suite 0:
// X25519, HKDF-SHA-256 and AES-CCM-16-64-128. All functions are pure.
package crypto

import (
	"crypto/ecdh"
	"crypto/sha256"
	"crypto/subtle"
	"errors"
	"fmt"
	"io"

	"golang.org/x/crypto/hkdf"
)

const (
	// ScalarSize is the X25519 private scalar length.
	ScalarSize = 32
	// PointSize is the X25519 public point length.
	PointSize = 32
	// HashSize is the SHA-256 output length.
	HashSize = 32
)

var (
	// ErrExpandTooLong reports an HKDF-Expand request beyond 255 blocks.
	ErrExpandTooLong = errors.New("crypto: hkdf expand output exceeds 255 blocks")
	// ErrLowOrderPoint reports an all-zero X25519 shared secret.
	ErrLowOrderPoint = errors.New("crypto: x25519 low-order or identity point")
)

// X25519Public derives the public point of a 32-byte scalar.
func X25519Public(scalar []byte) ([]byte, error) {
	priv, err := ecdh.X25519().NewPrivateKey(scalar)
	if err != nil {
		return nil, fmt.Errorf("parse scalar: %w", err)
	}
	return priv.PublicKey().Bytes(), nil
}

// X25519 computes the Diffie-Hellman of a 32-byte scalar and a 32-byte
// public point. The all-zero output is rejected.
func X25519(scalar, point []byte) ([]byte, error) {
	priv, err := ecdh.X25519().NewPrivateKey(scalar)
	if err != nil {
		return nil, fmt.Errorf("parse scalar: %w", err)
	}
	pub, err := ecdh.X25519().NewPublicKey(point)
	if err != nil {
		return nil, fmt.Errorf("parse public point: %w", err)
	}
	shared, err := priv.ECDH(pub)
	if err != nil {
		return nil, fmt.Errorf("compute shared secret: %w", err)
	}
	var zero [PointSize]byte
	if subtle.ConstantTimeCompare(shared, zero[:]) == 1 {
		return nil, ErrLowOrderPoint
	}
	return shared, nil
}

// HKDFExtract returns PRK = HKDF-Extract(salt, ikm) with SHA-256.
// A nil salt selects the all-zero salt per RFC 5869.
func HKDFExtract(salt, ikm []byte) []byte {
	prk := hkdf.Extract(sha256.New, ikm, salt)
	// Copy to avoid retaining an internal buffer.
	out := make([]byte, len(prk))
	copy(out, prk)
	return out
}

// HKDFExpand returns n bytes of HKDF-Expand(prk, info) with SHA-256.
func HKDFExpand(prk, info []byte, n int) ([]byte, error) {
	if n > 255*sha256.Size {
		return nil, ErrExpandTooLong
	}
	out := make([]byte, n)
	if _, err := io.ReadFull(hkdf.Expand(sha256.New, prk, info), out); err != nil {
		return nil, fmt.Errorf("hkdf expand: %w", err)
	}
	return out, nil
}

// SHA256 hashes the concatenation of the given byte strings.
func SHA256(parts ...[]byte) []byte {
	h := sha256.New()
	for _, p := range parts {
		h.Write(p)
	}
	return h.Sum(nil)
}

// Zeroize overwrites the given buffers with zeros.
func Zeroize(bufs ...[]byte) {
	for _, b := range bufs {
		for i := range b {
			b[i] = 0
		}
	}
}
