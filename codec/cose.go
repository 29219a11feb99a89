package codec

import (
	"errors"
)

// COSE_Key parameter values for an X25519 public key.
const (
	coseKtyOKP    = 1
	coseCrvX25519 = 4
	coseHdrKID    = 4
)

var errBadCredKey = errors.New("codec: credential public key must be 32 bytes")

// coseKey is the COSE_Key credential layout. Integer keys encode in
// canonical order: 1 (kty), 2 (kid), -1 (crv), -2 (x).
type coseKey struct {
	Kty int    `cbor:"1,keyasint"`
	Kid []byte `cbor:"2,keyasint"`
	Crv int    `cbor:"-1,keyasint"`
	X   []byte `cbor:"-2,keyasint"`
}

// BuildIDCredX builds the COSE header map {4: bstr(kid)} identifying a
// party's credential by key ID.
func BuildIDCredX(kid []byte) ([]byte, error) {
	return EncodeItem(map[int][]byte{coseHdrKID: kid})
}

// SerializeCredX builds the COSE_Key credential binding a static X25519
// public key to its key ID. Both peers compute the identical encoding.
func SerializeCredX(pub, kid []byte) ([]byte, error) {
	if len(pub) != EphPubSize {
		return nil, errBadCredKey
	}
	return EncodeItem(coseKey{
		Kty: coseKtyOKP,
		Kid: kid,
		Crv: coseCrvX25519,
		X:   pub,
	})
}

// BuildAD builds the COSE-Encrypt0 external AAD envelope
// ["Encrypt0", h'', bstr(th)] binding a transcript hash to an AEAD.
func BuildAD(th []byte) ([]byte, error) {
	context, err := EncodeItem("Encrypt0")
	if err != nil {
		return nil, err
	}
	empty, err := EncodeItem([]byte{})
	if err != nil {
		return nil, err
	}
	hash, err := EncodeItem(th)
	if err != nil {
		return nil, err
	}
	out := make([]byte, 0, 1+len(context)+len(empty)+len(hash))
	out = append(out, 0x83) // array(3)
	out = append(out, context...)
	out = append(out, empty...)
	out = append(out, hash...)
	return out, nil
}
