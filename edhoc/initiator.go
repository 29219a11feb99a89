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
	"fmt"

	"github.com/sage-x-project/lake/codec"
	"github.com/sage-x-project/lake/crypto"
	"github.com/sage-x-project/lake/kdf"
)

// Msg1Sender is the initiator's first stage. It is created with the
// party's key material and consumed by GenerateMessage1.
type Msg1Sender struct {
	stage
	devEUI       []byte
	appEUI       []byte
	ephScalar    []byte
	staticScalar []byte
	staticPub    []byte
	kid          []byte
}

// NewInitiator builds the initiator's opening stage. devEUI doubles as
// the connection identifier C_I; appEUI, when non-nil, travels as
// EAD_1. The ephemeral scalar must be freshly drawn for this handshake
// by the caller's entropy source.
func NewInitiator(devEUI, appEUI, ephScalar, staticPriv, staticPub, kid []byte) (*Msg1Sender, error) {
	if len(devEUI) != EUISize {
		return nil, errBadEUI
	}
	if appEUI != nil && len(appEUI) != EUISize {
		return nil, errBadEUI
	}
	if err := validateKeyInputs(ephScalar, staticPriv, staticPub, kid); err != nil {
		return nil, err
	}
	return &Msg1Sender{
		devEUI:       dup(devEUI),
		appEUI:       dup(appEUI),
		ephScalar:    dup(ephScalar),
		staticScalar: dup(staticPriv),
		staticPub:    dup(staticPub),
		kid:          dup(kid),
	}, nil
}

// GenerateMessage1 serialises message 1 and advances to the stage
// awaiting message 2. Failures here are early: the handshake has not
// started and no error message is put on the wire.
func (s *Msg1Sender) GenerateMessage1(method, suite int64) ([]byte, *Msg2Receiver, error) {
	if err := s.consume(); err != nil {
		return nil, nil, err
	}
	if method != MethodStaticDH || suite != Suite0 {
		s.zeroize()
		return nil, nil, fmt.Errorf("%w: method %d suite %d", ErrUnsupportedSuite, method, suite)
	}
	ephPub, err := crypto.X25519Public(s.ephScalar)
	if err != nil {
		s.zeroize()
		return nil, nil, err
	}
	msg1, err := codec.SerializeMessage1(&codec.Message1{
		Method: method,
		Suite:  suite,
		EphPub: ephPub,
		CI:     s.devEUI,
		EAD1:   s.appEUI,
	})
	if err != nil {
		s.zeroize()
		return nil, nil, err
	}
	next := &Msg2Receiver{
		ephScalar:    s.ephScalar,
		staticScalar: s.staticScalar,
		staticPub:    s.staticPub,
		kid:          s.kid,
		msg1Bytes:    msg1,
	}
	s.ephScalar, s.staticScalar = nil, nil
	return msg1, next, nil
}

func (s *Msg1Sender) zeroize() {
	crypto.Zeroize(s.ephScalar, s.staticScalar)
}

// Msg2Receiver awaits message 2, holding the exact message 1 bytes for
// the transcript.
type Msg2Receiver struct {
	stage
	ephScalar    []byte
	staticScalar []byte
	staticPub    []byte
	kid          []byte
	msg1Bytes    []byte
}

// UnpackMessage2 decrypts the keystream-protected payload of message 2
// and surfaces the responder's key ID (and EAD_2, when present) so the
// caller can look up the responder's static public key. MAC
// verification happens in the next stage, once that key is known.
func (s *Msg2Receiver) UnpackMessage2(msg []byte) ([]byte, []byte, *Msg2Verifier, error) {
	if err := s.consume(); err != nil {
		return nil, nil, nil, err
	}
	if err := failOnErrorMessage(msg); err != nil {
		s.zeroize()
		return nil, nil, nil, err
	}
	m2, err := codec.DeserializeMessage2(msg)
	if err != nil {
		s.zeroize()
		return nil, nil, nil, ownError(codec.DiagCBOR, err)
	}
	ss0, err := crypto.X25519(s.ephScalar, m2.EphPub)
	if err != nil {
		s.zeroize()
		return nil, nil, nil, ownError(codec.DiagFailed, err)
	}
	th2 := kdf.TH2(s.msg1Bytes, m2.CR, m2.EphPub)
	prk2e := crypto.HKDFExtract(nil, ss0)
	crypto.Zeroize(ss0)

	keystream, err := kdf.ExpandLabelled(prk2e, th2, kdf.LabelKeystream2, len(m2.Ciphertext), false)
	if err != nil {
		crypto.Zeroize(prk2e)
		s.zeroize()
		return nil, nil, nil, ownError(codec.DiagFailed, err)
	}
	plaintext := xorKeystream(m2.Ciphertext, keystream)
	crypto.Zeroize(keystream)

	kidR, macR, ead2, err := codec.ExtractPlaintext(plaintext)
	if err != nil {
		crypto.Zeroize(prk2e)
		s.zeroize()
		return nil, nil, nil, ownError(codec.DiagCBOR, err)
	}
	next := &Msg2Verifier{
		ephScalar:    s.ephScalar,
		staticScalar: s.staticScalar,
		staticPub:    s.staticPub,
		kid:          s.kid,
		th2:          th2,
		prk2e:        prk2e,
		kidR:         kidR,
		macR:         macR,
		ciphertext2:  m2.Ciphertext,
		ephPubR:      m2.EphPub,
	}
	s.ephScalar, s.staticScalar = nil, nil
	return dup(kidR), ead2, next, nil
}

func (s *Msg2Receiver) zeroize() {
	crypto.Zeroize(s.ephScalar, s.staticScalar)
}

// Msg2Verifier holds the decrypted but unverified MAC_2 until the
// caller supplies the responder's static public key.
type Msg2Verifier struct {
	stage
	ephScalar    []byte
	staticScalar []byte
	staticPub    []byte
	kid          []byte
	th2          []byte
	prk2e        []byte
	kidR         []byte
	macR         []byte
	ciphertext2  []byte
	ephPubR      []byte
}

// VerifyMessage2 checks MAC_2 against the responder's static public
// key, authenticating the responder.
func (s *Msg2Verifier) VerifyMessage2(staticPubR []byte) (*Msg3Sender, error) {
	if err := s.consume(); err != nil {
		return nil, err
	}
	ss1, err := crypto.X25519(s.ephScalar, staticPubR)
	crypto.Zeroize(s.ephScalar)
	if err != nil {
		s.zeroize()
		return nil, ownError(codec.DiagFailed, err)
	}
	prk3e2m := crypto.HKDFExtract(s.prk2e, ss1)
	crypto.Zeroize(ss1, s.prk2e)

	idCredR, err := codec.BuildIDCredX(s.kidR)
	if err != nil {
		s.zeroizeLate(prk3e2m)
		return nil, ownError(codec.DiagFailed, err)
	}
	credR, err := codec.SerializeCredX(staticPubR, s.kidR)
	if err != nil {
		s.zeroizeLate(prk3e2m)
		return nil, ownError(codec.DiagFailed, err)
	}
	expected, err := kdf.MAC(prk3e2m, s.th2, kdf.LabelMAC2, idCredR, credR)
	if err != nil {
		s.zeroizeLate(prk3e2m)
		return nil, ownError(codec.DiagFailed, err)
	}
	if !hmac.Equal(expected, s.macR) {
		s.zeroizeLate(prk3e2m)
		return nil, ownError(codec.DiagFailed, ErrBadMac)
	}
	next := &Msg3Sender{
		staticScalar: s.staticScalar,
		staticPub:    s.staticPub,
		kid:          s.kid,
		th2:          s.th2,
		prk3e2m:      prk3e2m,
		ciphertext2:  s.ciphertext2,
		ephPubR:      s.ephPubR,
	}
	s.staticScalar = nil
	return next, nil
}

func (s *Msg2Verifier) zeroize() {
	crypto.Zeroize(s.staticScalar, s.prk2e)
}

func (s *Msg2Verifier) zeroizeLate(prk3e2m []byte) {
	crypto.Zeroize(s.staticScalar, prk3e2m)
}

// Msg3Sender produces the AEAD-protected message 3 proving the
// initiator's identity.
type Msg3Sender struct {
	stage
	staticScalar []byte
	staticPub    []byte
	kid          []byte
	th2          []byte
	prk3e2m      []byte
	ciphertext2  []byte
	ephPubR      []byte
}

// GenerateMessage3 seals the initiator credential and MAC_3, advancing
// the transcript to TH_4 and preparing the keys guarding message 4.
// ead3, when non-nil, is carried confidentially inside the AEAD.
func (s *Msg3Sender) GenerateMessage3(ead3 []byte) (*Msg4Verifier, []byte, error) {
	if err := s.consume(); err != nil {
		return nil, nil, err
	}
	ss2, err := crypto.X25519(s.staticScalar, s.ephPubR)
	crypto.Zeroize(s.staticScalar)
	if err != nil {
		crypto.Zeroize(s.prk3e2m)
		return nil, nil, ownError(codec.DiagFailed, err)
	}
	th3 := kdf.TH3(s.th2, s.ciphertext2)
	prk4x3m := crypto.HKDFExtract(s.prk3e2m, ss2)
	crypto.Zeroize(ss2)

	msg3, ciphertext3, err := s.sealMessage3(th3, ead3)
	if err != nil {
		crypto.Zeroize(s.prk3e2m, prk4x3m)
		return nil, nil, err
	}
	th4 := kdf.TH4(th3, ciphertext3)
	k4, err := kdf.ExpandLabelled(s.prk3e2m, th4, kdf.LabelK4, crypto.CCMKeySize, true)
	if err != nil {
		crypto.Zeroize(s.prk3e2m, prk4x3m)
		return nil, nil, ownError(codec.DiagFailed, err)
	}
	iv4, err := kdf.ExpandLabelled(s.prk3e2m, th4, kdf.LabelIV4, crypto.CCMNonceSize, true)
	crypto.Zeroize(s.prk3e2m)
	if err != nil {
		crypto.Zeroize(prk4x3m, k4)
		return nil, nil, ownError(codec.DiagFailed, err)
	}
	next := &Msg4Verifier{
		prk4x3m: prk4x3m,
		th4:     th4,
		k4:      k4,
		iv4:     iv4,
	}
	return next, msg3, nil
}

func (s *Msg3Sender) sealMessage3(th3, ead3 []byte) (msg3, ciphertext3 []byte, err error) {
	idCredI, err := codec.BuildIDCredX(s.kid)
	if err != nil {
		return nil, nil, ownError(codec.DiagFailed, err)
	}
	credI, err := codec.SerializeCredX(s.staticPub, s.kid)
	if err != nil {
		return nil, nil, ownError(codec.DiagFailed, err)
	}
	mac3, err := kdf.MAC(s.prk3e2m, th3, kdf.LabelMAC3, idCredI, credI)
	if err != nil {
		return nil, nil, ownError(codec.DiagFailed, err)
	}
	k3, err := kdf.ExpandLabelled(s.prk3e2m, th3, kdf.LabelK3, crypto.CCMKeySize, true)
	if err != nil {
		return nil, nil, ownError(codec.DiagFailed, err)
	}
	iv3, err := kdf.ExpandLabelled(s.prk3e2m, th3, kdf.LabelIV3, crypto.CCMNonceSize, true)
	if err != nil {
		crypto.Zeroize(k3)
		return nil, nil, ownError(codec.DiagFailed, err)
	}
	plaintext3, err := codec.BuildPlaintext(s.kid, mac3, ead3)
	if err != nil {
		crypto.Zeroize(k3, iv3)
		return nil, nil, ownError(codec.DiagFailed, err)
	}
	ad, err := codec.BuildAD(th3)
	if err != nil {
		crypto.Zeroize(k3, iv3)
		return nil, nil, ownError(codec.DiagFailed, err)
	}
	ciphertext3, err = crypto.AEADSeal(k3, iv3, ad, plaintext3)
	crypto.Zeroize(k3, iv3)
	if err != nil {
		return nil, nil, ownError(codec.DiagFailed, err)
	}
	msg3, err = codec.SerializeMessage3(&codec.Message3{Ciphertext: ciphertext3})
	if err != nil {
		return nil, nil, ownError(codec.DiagFailed, err)
	}
	return msg3, ciphertext3, nil
}

// Msg4Verifier awaits the responder's final confirmation.
type Msg4Verifier struct {
	stage
	prk4x3m []byte
	th4     []byte
	k4      []byte
	iv4     []byte
}

// HandleMessage4 authenticates message 4 and exports the application
// keys, completing the handshake on the initiator side.
func (s *Msg4Verifier) HandleMessage4(msg []byte) (sck, rck, rk []byte, err error) {
	if err := s.consume(); err != nil {
		return nil, nil, nil, err
	}
	defer crypto.Zeroize(s.prk4x3m, s.k4, s.iv4)
	if err := failOnErrorMessage(msg); err != nil {
		return nil, nil, nil, err
	}
	m4, err := codec.DeserializeMessage4(msg)
	if err != nil {
		return nil, nil, nil, ownError(codec.DiagCBOR, err)
	}
	ad, err := codec.BuildAD(s.th4)
	if err != nil {
		return nil, nil, nil, ownError(codec.DiagFailed, err)
	}
	if _, err := crypto.AEADOpen(s.k4, s.iv4, ad, m4.Ciphertext); err != nil {
		return nil, nil, nil, ownError(codec.DiagFailed, ErrBadMac)
	}
	sck, rck, rk, err = exportKeys(kdf.LabelSCK, kdf.LabelRCK, s.th4, s.prk4x3m)
	if err != nil {
		return nil, nil, nil, ownError(codec.DiagFailed, err)
	}
	return sck, rck, rk, nil
}
