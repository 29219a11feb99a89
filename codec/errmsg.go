package codec

// Well-known error diagnostics carried in the on-wire error sentinel.
const (
	DiagCBOR             = "Error processing CBOR"
	DiagUnsupportedSuite = "Cipher suite unsupported"
	DiagFailed           = "Handshake failed"
)

// errorCode is the fixed on-wire error code, encoded as the single
// byte 0x20.
const errorCode = int64(-1)

// SerializeError encodes the two-item error sentinel: error code
// followed by a text-string diagnostic.
func SerializeError(diag string) []byte {
	code, err := EncodeItem(errorCode)
	if err != nil {
		// Encoding a small negative integer cannot fail.
		panic(err)
	}
	text, err := EncodeItem(diag)
	if err != nil {
		panic(err)
	}
	return append(code, text...)
}

// DecodeErrorMessage reports whether data is a well-formed error
// sentinel, and if so returns its diagnostic text. Receivers call this
// before attempting normal decoding so that a peer-reported failure is
// not mistaken for a malformed message.
func DecodeErrorMessage(data []byte) (string, bool) {
	var code int64
	rest, err := decodeNext(data, &code)
	if err != nil || code >= 0 {
		return "", false
	}
	var diag string
	if rest, err = decodeNext(rest, &diag); err != nil {
		return "", false
	}
	if len(rest) > 0 {
		return "", false
	}
	return diag, true
}
