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

// Package edhoc implements a four-message authenticated key exchange
// with static-DH authentication. Both parties hold long-term X25519
// keys; authenticity flows through MACs keyed from Diffie-Hellman
// results between ephemeral and static keys, with no signatures.
//
// Each role advances through one-shot stages. A stage is consumed by
// its single operation and must not be reused; reuse returns
// ErrStageConsumed. Secret material owned by a stage is zeroised when
// the stage is consumed.
//
// After a successful run the initiator's sender channel key equals the
// responder's receiver channel key and vice versa, and both sides hold
// the same rekeying key.
package edhoc

import (
	"github.com/sage-x-project/lake/crypto"
	"github.com/sage-x-project/lake/kdf"
)

const (
	// MethodStaticDH is the only supported authentication method:
	// static Diffie-Hellman keys with MACs on both sides.
	MethodStaticDH = 3
	// Suite0 is the only supported cipher suite: X25519, SHA-256,
	// AES-CCM-16-64-128, HKDF-SHA-256.
	Suite0 = 0

	// EUISize is the DevEUI/AppEUI length.
	EUISize = 8
	// KeySize is the exported channel key length.
	KeySize = 16
)

// stage guards the one-shot consumption of every handshake stage.
type stage struct {
	consumed bool
}

// consume marks the stage used, failing on the second call.
func (s *stage) consume() error {
	if s.consumed {
		return ErrStageConsumed
	}
	s.consumed = true
	return nil
}

// xorKeystream XORs ct with a keystream of the same length.
func xorKeystream(ct, keystream []byte) []byte {
	out := make([]byte, len(ct))
	for i := range ct {
		out[i] = ct[i] ^ keystream[i]
	}
	return out
}

// incrementCID derives C_R from C_I: same length, every byte
// incremented modulo 256.
func incrementCID(ci []byte) []byte {
	out := make([]byte, len(ci))
	for i, b := range ci {
		out[i] = b + 1
	}
	return out
}

// dup copies a byte string so stages own their buffers.
func dup(b []byte) []byte {
	if b == nil {
		return nil
	}
	out := make([]byte, len(b))
	copy(out, b)
	return out
}

// exportKeys derives the SCK/RCK/RK triple. The first label is the
// sender key from this role's point of view, so the two roles pass
// swapped labels and end up with crossed channel keys.
func exportKeys(sendLabel, recvLabel string, th4, prk4x3m []byte) (send, recv, rk []byte, err error) {
	if send, err = kdf.Exporter(sendLabel, KeySize, th4, prk4x3m); err != nil {
		return nil, nil, nil, err
	}
	if recv, err = kdf.Exporter(recvLabel, KeySize, th4, prk4x3m); err != nil {
		return nil, nil, nil, err
	}
	if rk, err = kdf.Exporter(kdf.LabelRK, KeySize, th4, prk4x3m); err != nil {
		return nil, nil, nil, err
	}
	return send, recv, rk, nil
}

// validateKeyInputs checks the construction-time key material shared by
// both role constructors.
func validateKeyInputs(ephScalar, staticPriv, staticPub, kid []byte) error {
	if len(ephScalar) != crypto.ScalarSize {
		return errBadScalar
	}
	if len(staticPriv) != crypto.ScalarSize {
		return errBadScalar
	}
	if len(staticPub) != crypto.PointSize {
		return errBadPoint
	}
	if len(kid) == 0 {
		return errEmptyKID
	}
	return nil
}
