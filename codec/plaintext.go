package codec

import (
	"errors"
)

// MACSize is the truncated MAC length carried in plaintext_2/plaintext_3.
const MACSize = 8

var errBadMACLen = errors.New("codec: MAC field must be 8 bytes")

// BuildPlaintext concatenates bstr(kid), bstr(mac) and, when present,
// bstr(ead) into the inner plaintext of messages 2 and 3.
func BuildPlaintext(kid, mac, ead []byte) ([]byte, error) {
	if len(mac) != MACSize {
		return nil, errBadMACLen
	}
	out, err := EncodeItem(kid)
	if err != nil {
		return nil, err
	}
	m, err := EncodeItem(mac)
	if err != nil {
		return nil, err
	}
	out = append(out, m...)
	if ead != nil {
		e, err := EncodeItem(ead)
		if err != nil {
			return nil, err
		}
		out = append(out, e...)
	}
	return out, nil
}

// ExtractPlaintext splits a plaintext built by BuildPlaintext back into
// its key ID, MAC and optional EAD.
func ExtractPlaintext(pt []byte) (kid, mac, ead []byte, err error) {
	rest, err := decodeNext(pt, &kid)
	if err != nil {
		return nil, nil, nil, err
	}
	if rest, err = decodeNext(rest, &mac); err != nil {
		return nil, nil, nil, err
	}
	if len(mac) != MACSize {
		return nil, nil, nil, errBadMACLen
	}
	if len(rest) > 0 {
		if rest, err = decodeNext(rest, &ead); err != nil {
			return nil, nil, nil, err
		}
		if len(rest) > 0 {
			return nil, nil, nil, ErrTrailingBytes
		}
	}
	return kid, mac, ead, nil
}
