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

package edhoc

import (
	"crypto/hmac"

	"github.com/sage-x-project/lake/codec"
	"github.com/sage-x-project/lake/crypto"
	"github.com/sage-x-project/lake/kdf"
)

// Msg1Receiver is the responder's first stage.
type Msg1Receiver struct {
	stage
	ephScalar    []byte
	staticScalar []byte
	staticPub    []byte
	kid          []byte
}

// NewResponder builds the responder's opening stage. The ephemeral
// scalar must be freshly drawn for this handshake by the caller's
// entropy source.
func NewResponder(ephScalar, staticPriv, staticPub, kid []byte) (*Msg1Receiver, error) {
	if err := validateKeyInputs(ephScalar, staticPriv, staticPub, kid); err != nil {
		return nil, err
	}
	return &Msg1Receiver{
		ephScalar:    dup(ephScalar),
		staticScalar: dup(staticPriv),
		staticPub:    dup(staticPub),
		kid:          dup(kid),
	}, nil
}

// HandleMessage1 validates and decodes message 1, surfacing the DevEUI
// and optional AppEUI for the caller to vet. The static-ephemeral
// shared secret is computed here; the responder's own ephemeral enters
// the exchange in GenerateMessage2.
func (s *Msg1Receiver) HandleMessage1(msg []byte) (*Msg2Sender, []byte, []byte, error) {
	if err := s.consume(); err != nil {
		return nil, nil, nil, err
	}
	m1, err := codec.DeserializeMessage1(msg)
	if err != nil {
		s.zeroize()
		return nil, nil, nil, ownError(codec.DiagCBOR, err)
	}
	if m1.Method != MethodStaticDH || m1.Suite != Suite0 {
		s.zeroize()
		return nil, nil, nil, ownError(codec.DiagUnsupportedSuite, ErrUnsupportedSuite)
	}
	ss1, err := crypto.X25519(s.staticScalar, m1.EphPub)
	crypto.Zeroize(s.staticScalar)
	if err != nil {
		crypto.Zeroize(s.ephScalar)
		return nil, nil, nil, ownError(codec.DiagFailed, err)
	}
	next := &Msg2Sender{
		ephScalar: s.ephScalar,
		staticPub: s.staticPub,
		kid:       s.kid,
		ss1:       ss1,
		msg1Bytes: dup(msg),
		ephPubI:   m1.EphPub,
		cR:        incrementCID(m1.CI),
	}
	s.ephScalar, s.staticScalar = nil, nil
	return next, m1.CI, m1.EAD1, nil
}

func (s *Msg1Receiver) zeroize() {
	crypto.Zeroize(s.ephScalar, s.staticScalar)
}

// Msg2Sender produces the keystream-protected message 2 carrying the
// responder credential MAC.
type Msg2Sender struct {
	stage
	ephScalar []byte
	staticPub []byte
	kid       []byte
	ss1       []byte
	msg1Bytes []byte
	ephPubI   []byte
	cR        []byte
}

// GenerateMessage2 derives the ephemeral-ephemeral secret, chains the
// PRKs, and emits message 2. ead2, when non-nil, rides inside the
// keystream-protected plaintext.
func (s *Msg2Sender) GenerateMessage2(ead2 []byte) ([]byte, *Msg3Receiver, error) {
	if err := s.consume(); err != nil {
		return nil, nil, err
	}
	ephPubR, err := crypto.X25519Public(s.ephScalar)
	if err != nil {
		s.zeroize()
		return nil, nil, ownError(codec.DiagFailed, err)
	}
	ss0, err := crypto.X25519(s.ephScalar, s.ephPubI)
	if err != nil {
		s.zeroize()
		return nil, nil, ownError(codec.DiagFailed, err)
	}
	th2 := kdf.TH2(s.msg1Bytes, s.cR, ephPubR)
	prk2e := crypto.HKDFExtract(nil, ss0)
	prk3e2m := crypto.HKDFExtract(prk2e, s.ss1)
	crypto.Zeroize(ss0, s.ss1)

	ciphertext2, err := s.protectPlaintext2(prk2e, prk3e2m, th2, ead2)
	crypto.Zeroize(prk2e)
	if err != nil {
		crypto.Zeroize(prk3e2m)
		s.zeroize()
		return nil, nil, err
	}
	msg2, err := codec.SerializeMessage2(&codec.Message2{
		EphPub:     ephPubR,
		CR:         s.cR,
		Ciphertext: ciphertext2,
	})
	if err != nil {
		crypto.Zeroize(prk3e2m)
		s.zeroize()
		return nil, nil, ownError(codec.DiagFailed, err)
	}
	next := &Msg3Receiver{
		ephScalar:   s.ephScalar,
		prk3e2m:     prk3e2m,
		th2:         th2,
		ciphertext2: ciphertext2,
	}
	s.ephScalar = nil
	return msg2, next, nil
}

// protectPlaintext2 assembles plaintext_2 = KID_R || MAC_2 || EAD_2 and
// XORs it with KEYSTREAM_2.
func (s *Msg2Sender) protectPlaintext2(prk2e, prk3e2m, th2, ead2 []byte) ([]byte, error) {
	idCredR, err := codec.BuildIDCredX(s.kid)
	if err != nil {
		return nil, ownError(codec.DiagFailed, err)
	}
	credR, err := codec.SerializeCredX(s.staticPub, s.kid)
	if err != nil {
		return nil, ownError(codec.DiagFailed, err)
	}
	mac2, err := kdf.MAC(prk3e2m, th2, kdf.LabelMAC2, idCredR, credR)
	if err != nil {
		return nil, ownError(codec.DiagFailed, err)
	}
	plaintext2, err := codec.BuildPlaintext(s.kid, mac2, ead2)
	if err != nil {
		return nil, ownError(codec.DiagFailed, err)
	}
	keystream, err := kdf.ExpandLabelled(prk2e, th2, kdf.LabelKeystream2, len(plaintext2), false)
	if err != nil {
		return nil, ownError(codec.DiagFailed, err)
	}
	ciphertext2 := xorKeystream(plaintext2, keystream)
	crypto.Zeroize(keystream)
	return ciphertext2, nil
}

func (s *Msg2Sender) zeroize() {
	crypto.Zeroize(s.ephScalar, s.ss1)
}

// Msg3Receiver awaits the initiator's AEAD-protected credential.
type Msg3Receiver struct {
	stage
	ephScalar   []byte
	prk3e2m     []byte
	th2         []byte
	ciphertext2 []byte
}

// UnpackMessage3 opens ciphertext_3 and surfaces the initiator's key ID
// (and EAD_3, when present) so the caller can look up the initiator's
// static public key.
func (s *Msg3Receiver) UnpackMessage3(msg []byte) ([]byte, []byte, *Msg3Verifier, error) {
	if err := s.consume(); err != nil {
		return nil, nil, nil, err
	}
	if err := failOnErrorMessage(msg); err != nil {
		s.zeroize()
		return nil, nil, nil, err
	}
	m3, err := codec.DeserializeMessage3(msg)
	if err != nil {
		s.zeroize()
		return nil, nil, nil, ownError(codec.DiagCBOR, err)
	}
	th3 := kdf.TH3(s.th2, s.ciphertext2)
	k3, err := kdf.ExpandLabelled(s.prk3e2m, th3, kdf.LabelK3, crypto.CCMKeySize, true)
	if err != nil {
		s.zeroize()
		return nil, nil, nil, ownError(codec.DiagFailed, err)
	}
	iv3, err := kdf.ExpandLabelled(s.prk3e2m, th3, kdf.LabelIV3, crypto.CCMNonceSize, true)
	if err != nil {
		crypto.Zeroize(k3)
		s.zeroize()
		return nil, nil, nil, ownError(codec.DiagFailed, err)
	}
	ad, err := codec.BuildAD(th3)
	if err != nil {
		crypto.Zeroize(k3, iv3)
		s.zeroize()
		return nil, nil, nil, ownError(codec.DiagFailed, err)
	}
	plaintext3, err := crypto.AEADOpen(k3, iv3, ad, m3.Ciphertext)
	crypto.Zeroize(k3, iv3)
	if err != nil {
		s.zeroize()
		return nil, nil, nil, ownError(codec.DiagFailed, ErrBadMac)
	}
	kidI, mac3, ead3, err := codec.ExtractPlaintext(plaintext3)
	if err != nil {
		s.zeroize()
		return nil, nil, nil, ownError(codec.DiagCBOR, err)
	}
	next := &Msg3Verifier{
		ephScalar:   s.ephScalar,
		prk3e2m:     s.prk3e2m,
		th3:         th3,
		ciphertext3: m3.Ciphertext,
		kidI:        kidI,
		mac3:        mac3,
	}
	s.ephScalar, s.prk3e2m = nil, nil
	return dup(kidI), ead3, next, nil
}

func (s *Msg3Receiver) zeroize() {
	crypto.Zeroize(s.ephScalar, s.prk3e2m)
}

// Msg3Verifier holds the decrypted but unverified MAC_3 until the
// caller supplies the initiator's static public key.
type Msg3Verifier struct {
	stage
	ephScalar   []byte
	prk3e2m     []byte
	th3         []byte
	ciphertext3 []byte
	kidI        []byte
	mac3        []byte
}

// VerifyMessage3 authenticates the initiator and exports the
// application keys; the returned Msg4Sender still owes the peer the
// final confirmation message.
func (s *Msg3Verifier) VerifyMessage3(staticPubI []byte) (*Msg4Sender, []byte, []byte, []byte, error) {
	if err := s.consume(); err != nil {
		return nil, nil, nil, nil, err
	}
	ss2, err := crypto.X25519(s.ephScalar, staticPubI)
	crypto.Zeroize(s.ephScalar)
	if err != nil {
		crypto.Zeroize(s.prk3e2m)
		return nil, nil, nil, nil, ownError(codec.DiagFailed, err)
	}
	prk4x3m := crypto.HKDFExtract(s.prk3e2m, ss2)
	crypto.Zeroize(ss2)

	idCredI, err := codec.BuildIDCredX(s.kidI)
	if err != nil {
		crypto.Zeroize(s.prk3e2m, prk4x3m)
		return nil, nil, nil, nil, ownError(codec.DiagFailed, err)
	}
	credI, err := codec.SerializeCredX(staticPubI, s.kidI)
	if err != nil {
		crypto.Zeroize(s.prk3e2m, prk4x3m)
		return nil, nil, nil, nil, ownError(codec.DiagFailed, err)
	}
	expected, err := kdf.MAC(s.prk3e2m, s.th3, kdf.LabelMAC3, idCredI, credI)
	if err != nil {
		crypto.Zeroize(s.prk3e2m, prk4x3m)
		return nil, nil, nil, nil, ownError(codec.DiagFailed, err)
	}
	if !hmac.Equal(expected, s.mac3) {
		crypto.Zeroize(s.prk3e2m, prk4x3m)
		return nil, nil, nil, nil, ownError(codec.DiagFailed, ErrBadMac)
	}
	th4 := kdf.TH4(s.th3, s.ciphertext3)
	k4, err := kdf.ExpandLabelled(s.prk3e2m, th4, kdf.LabelK4, crypto.CCMKeySize, true)
	if err != nil {
		crypto.Zeroize(s.prk3e2m, prk4x3m)
		return nil, nil, nil, nil, ownError(codec.DiagFailed, err)
	}
	iv4, err := kdf.ExpandLabelled(s.prk3e2m, th4, kdf.LabelIV4, crypto.CCMNonceSize, true)
	crypto.Zeroize(s.prk3e2m)
	if err != nil {
		crypto.Zeroize(prk4x3m, k4)
		return nil, nil, nil, nil, ownError(codec.DiagFailed, err)
	}
	// The responder's sender key is the initiator's receiver key and
	// vice versa.
	sck, rck, rk, err := exportKeys(kdf.LabelRCK, kdf.LabelSCK, th4, prk4x3m)
	crypto.Zeroize(prk4x3m)
	if err != nil {
		crypto.Zeroize(k4, iv4)
		return nil, nil, nil, nil, ownError(codec.DiagFailed, err)
	}
	next := &Msg4Sender{
		th4: th4,
		k4:  k4,
		iv4: iv4,
	}
	return next, sck, rck, rk, nil
}

// Msg4Sender owes the peer the final AEAD confirmation.
type Msg4Sender struct {
	stage
	th4 []byte
	k4  []byte
	iv4 []byte
}

// GenerateMessage4 seals an empty (or EAD_4-bearing) plaintext under
// the message 4 keys, closing the handshake on the responder side.
func (s *Msg4Sender) GenerateMessage4(ead4 []byte) ([]byte, error) {
	if err := s.consume(); err != nil {
		return nil, err
	}
	defer crypto.Zeroize(s.k4, s.iv4)
	var plaintext4 []byte
	if ead4 != nil {
		item, err := codec.EncodeItem(ead4)
		if err != nil {
			return nil, ownError(codec.DiagFailed, err)
		}
		plaintext4 = item
	}
	ad, err := codec.BuildAD(s.th4)
	if err != nil {
		return nil, ownError(codec.DiagFailed, err)
	}
	ciphertext4, err := crypto.AEADSeal(s.k4, s.iv4, ad, plaintext4)
	if err != nil {
		return nil, ownError(codec.DiagFailed, err)
	}
	msg4, err := codec.SerializeMessage4(&codec.Message4{Ciphertext: ciphertext4})
	if err != nil {
		return nil, ownError(codec.DiagFailed, err)
	}
	return msg4, nil
}
