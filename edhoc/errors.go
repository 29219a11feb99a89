package edhoc

import (
	"errors"
	"fmt"

	"github.com/sage-x-project/lake/codec"
)

var (
	// ErrUnsupportedSuite reports a method or cipher suite other than
	// method 3 with suite 0.
	ErrUnsupportedSuite = errors.New("edhoc: unsupported method or cipher suite")
	// ErrBadMac reports a failed MAC check or AEAD authentication.
	ErrBadMac = errors.New("edhoc: authentication failed")
	// ErrStageConsumed reports reuse of a stage that already produced
	// its successor.
	ErrStageConsumed = errors.New("edhoc: stage already consumed")

	errBadScalar = errors.New("edhoc: private scalar must be 32 bytes")
	errBadPoint  = errors.New("edhoc: public key must be 32 bytes")
	errEmptyKID  = errors.New("edhoc: empty key identifier")
	errBadEUI    = errors.New("edhoc: EUI must be 8 bytes")
)

// OwnError is a local failure after the handshake has started. Sentinel
// holds the serialised on-wire error message the caller should transmit
// to the peer before abandoning the handshake.
type OwnError struct {
	Sentinel []byte
	Err      error
}

func (e *OwnError) Error() string {
	return fmt.Sprintf("edhoc: %v", e.Err)
}

func (e *OwnError) Unwrap() error { return e.Err }

// PeerError is an error message reported by the peer inside an inbound
// error sentinel.
type PeerError struct {
	Diagnostic string
}

func (e *PeerError) Error() string {
	return "edhoc: peer reported: " + e.Diagnostic
}

// ownError wraps cause with the sentinel bytes for diag.
func ownError(diag string, cause error) error {
	return &OwnError{Sentinel: codec.SerializeError(diag), Err: cause}
}

// failOnErrorMessage surfaces an inbound error sentinel as a PeerError.
// It runs before normal decoding so a peer-reported failure is never
// mistaken for malformed CBOR.
func failOnErrorMessage(msg []byte) error {
	if diag, ok := codec.DecodeErrorMessage(msg); ok {
		return &PeerError{Diagnostic: diag}
	}
	return nil
}
