package codec

import (
	"errors"
	"fmt"
)

const (
	// EphPubSize is the length of the ephemeral public point on the wire.
	EphPubSize = 32
	// ead1Label tags the AppEUI inside the EAD_1 wrapper.
	ead1Label = 1
)

var (
	errBadEphPub  = errors.New("codec: ephemeral public key must be 32 bytes")
	errShortCombo = errors.New("codec: combined field shorter than a public key")
)

// Message1 is the initiator's opening message.
type Message1 struct {
	Method int64
	Suite  int64
	EphPub []byte
	CI     []byte
	// EAD1 carries the AppEUI; nil when absent.
	EAD1 []byte
}

// Message2 is the responder's reply. Ciphertext is plaintext_2 XOR
// KEYSTREAM_2; EphPub and Ciphertext share one wrapping byte string.
type Message2 struct {
	EphPub     []byte
	CR         []byte
	Ciphertext []byte
}

// Message3 carries the AEAD-protected initiator credential.
type Message3 struct {
	Ciphertext []byte
}

// Message4 carries the responder's AEAD-protected confirmation.
type Message4 struct {
	Ciphertext []byte
}

// SerializeMessage1 encodes message 1 as a CBOR sequence:
// method, suite, bstr(eph_pub), bstr(C_I), optionally bstr(EAD_1).
func SerializeMessage1(m *Message1) ([]byte, error) {
	if len(m.EphPub) != EphPubSize {
		return nil, errBadEphPub
	}
	var out []byte
	for _, v := range []interface{}{m.Method, m.Suite, m.EphPub, m.CI} {
		item, err := EncodeItem(v)
		if err != nil {
			return nil, err
		}
		out = append(out, item...)
	}
	if m.EAD1 != nil {
		ead, err := wrapEAD1(m.EAD1)
		if err != nil {
			return nil, err
		}
		out = append(out, ead...)
	}
	return out, nil
}

// DeserializeMessage1 is the inverse of SerializeMessage1.
func DeserializeMessage1(data []byte) (*Message1, error) {
	m := &Message1{}
	rest, err := decodeNext(data, &m.Method)
	if err != nil {
		return nil, err
	}
	if rest, err = decodeNext(rest, &m.Suite); err != nil {
		return nil, err
	}
	if rest, err = decodeNext(rest, &m.EphPub); err != nil {
		return nil, err
	}
	if len(m.EphPub) != EphPubSize {
		return nil, errBadEphPub
	}
	if rest, err = decodeNext(rest, &m.CI); err != nil {
		return nil, err
	}
	if len(rest) > 0 {
		var wrapped []byte
		if rest, err = decodeNext(rest, &wrapped); err != nil {
			return nil, err
		}
		if m.EAD1, err = unwrapEAD1(wrapped); err != nil {
			return nil, err
		}
		if len(rest) > 0 {
			return nil, ErrTrailingBytes
		}
	}
	return m, nil
}

// wrapEAD1 encodes EAD_1 as bstr( uint(1) || bstr(payload) ).
func wrapEAD1(payload []byte) ([]byte, error) {
	label, err := EncodeItem(int64(ead1Label))
	if err != nil {
		return nil, err
	}
	inner, err := EncodeItem(payload)
	if err != nil {
		return nil, err
	}
	return EncodeItem(append(label, inner...))
}

func unwrapEAD1(wrapped []byte) ([]byte, error) {
	var label int64
	rest, err := decodeNext(wrapped, &label)
	if err != nil {
		return nil, err
	}
	if label != ead1Label {
		return nil, fmt.Errorf("codec: unknown EAD_1 label %d", label)
	}
	var payload []byte
	if rest, err = decodeNext(rest, &payload); err != nil {
		return nil, err
	}
	if len(rest) > 0 {
		return nil, ErrTrailingBytes
	}
	return payload, nil
}

// SerializeMessage2 encodes message 2 as
// bstr(eph_pub || ciphertext_2), bstr(C_R).
func SerializeMessage2(m *Message2) ([]byte, error) {
	if len(m.EphPub) != EphPubSize {
		return nil, errBadEphPub
	}
	combined := make([]byte, 0, len(m.EphPub)+len(m.Ciphertext))
	combined = append(combined, m.EphPub...)
	combined = append(combined, m.Ciphertext...)
	out, err := EncodeItem(combined)
	if err != nil {
		return nil, err
	}
	cr, err := EncodeItem(m.CR)
	if err != nil {
		return nil, err
	}
	return append(out, cr...), nil
}

// DeserializeMessage2 is the inverse of SerializeMessage2.
func DeserializeMessage2(data []byte) (*Message2, error) {
	var combined []byte
	rest, err := decodeNext(data, &combined)
	if err != nil {
		return nil, err
	}
	if len(combined) <= EphPubSize {
		return nil, errShortCombo
	}
	m := &Message2{
		EphPub:     combined[:EphPubSize],
		Ciphertext: combined[EphPubSize:],
	}
	if rest, err = decodeNext(rest, &m.CR); err != nil {
		return nil, err
	}
	if len(rest) > 0 {
		return nil, ErrTrailingBytes
	}
	return m, nil
}

// SerializeMessage3 encodes message 3 as bstr(ciphertext_3).
func SerializeMessage3(m *Message3) ([]byte, error) {
	return EncodeItem(m.Ciphertext)
}

// DeserializeMessage3 is the inverse of SerializeMessage3.
func DeserializeMessage3(data []byte) (*Message3, error) {
	m := &Message3{}
	rest, err := decodeNext(data, &m.Ciphertext)
	if err != nil {
		return nil, err
	}
	if len(rest) > 0 {
		return nil, ErrTrailingBytes
	}
	return m, nil
}

// SerializeMessage4 encodes message 4 as bstr(ciphertext_4).
func SerializeMessage4(m *Message4) ([]byte, error) {
	return EncodeItem(m.Ciphertext)
}

// DeserializeMessage4 is the inverse of SerializeMessage4.
func DeserializeMessage4(data []byte) (*Message4, error) {
	m := &Message4{}
	rest, err := decodeNext(data, &m.Ciphertext)
	if err != nil {
		return nil, err
	}
	if len(rest) > 0 {
		return nil, ErrTrailingBytes
	}
	return m, nil
}
