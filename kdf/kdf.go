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

// Package kdf implements the handshake key schedule: labelled
// HKDF-Expand, the MAC-via-Expand construction, the running transcript
// hashes and the application-key exporter.
//
// The label set is closed; adding or renaming a label is a
// wire-breaking change.
package kdf

import (
	"github.com/sage-x-project/lake/codec"
	lakecrypto "github.com/sage-x-project/lake/crypto"
)

// Derivation labels. Each key, keystream and MAC is bound to a distinct
// ASCII label inside HKDF-Expand's info.
const (
	LabelKeystream2 = "KEYSTREAM_2"
	LabelMAC2       = "MAC_2"
	LabelMAC3       = "MAC_3"
	LabelK3         = "K_3"
	LabelIV3        = "IV_3"
	LabelK4         = "K_4"
	LabelIV4        = "IV_4"
	LabelSCK        = "SCK"
	LabelRCK        = "RCK"
	LabelRK         = "RK"
)

// MACLen is the truncated MAC output length.
const MACLen = 8

// ExpandLabelled derives n bytes from prk with
// info = [ label, transcript hash, n ]. The transcript hash element is
// CBOR byte-string wrapped except for the KEYSTREAM_2 derivation,
// which feeds it raw.
func ExpandLabelled(prk, th []byte, label string, n int, wrapTH bool) ([]byte, error) {
	info, err := buildInfo(label, th, wrapTH, int64(n))
	if err != nil {
		return nil, err
	}
	return lakecrypto.HKDFExpand(prk, info, n)
}

// MAC derives the 8-byte tag binding a transcript hash to a party's
// ID_CRED and CRED with info = [ label, TH, ID_CRED, CRED, 8 ].
func MAC(prk, th []byte, label string, idCred, cred []byte) ([]byte, error) {
	parts := make([]byte, 0, 16+len(label)+len(th)+len(idCred)+len(cred))
	parts = append(parts, 0x85) // array(5)
	for _, v := range []interface{}{label, th, idCred, cred, int64(MACLen)} {
		item, err := codec.EncodeItem(v)
		if err != nil {
			return nil, err
		}
		parts = append(parts, item...)
	}
	return lakecrypto.HKDFExpand(prk, parts, MACLen)
}

// TH2 computes the second transcript hash over the exact message 1
// bytes, the responder connection identifier and the responder
// ephemeral public point.
func TH2(msg1, cR, ephPubR []byte) []byte {
	return lakecrypto.SHA256(msg1, cR, ephPubR)
}

// TH3 chains ciphertext_2 into the transcript.
func TH3(th2, ciphertext2 []byte) []byte {
	return lakecrypto.SHA256(th2, ciphertext2)
}

// TH4 chains ciphertext_3 into the transcript.
func TH4(th3, ciphertext3 []byte) []byte {
	return lakecrypto.SHA256(th3, ciphertext3)
}

// Exporter derives n bytes of application key material from PRK_4x3m
// and the final transcript hash.
func Exporter(label string, n int, th4, prk4x3m []byte) ([]byte, error) {
	return ExpandLabelled(prk4x3m, th4, label, n, true)
}

func buildInfo(label string, th []byte, wrapTH bool, n int64) ([]byte, error) {
	out := []byte{0x83} // array(3)
	item, err := codec.EncodeItem(label)
	if err != nil {
		return nil, err
	}
	out = append(out, item...)
	if wrapTH {
		if item, err = codec.EncodeItem(th); err != nil {
			return nil, err
		}
		out = append(out, item...)
	} else {
		out = append(out, th...)
	}
	if item, err = codec.EncodeItem(n); err != nil {
		return nil, err
	}
	return append(out, item...), nil
}
