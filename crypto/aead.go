package crypto

import (
	"crypto/aes"
	"crypto/cipher"
	"errors"
	"fmt"

	"github.com/pion/dtls/v2/pkg/crypto/ccm"
)

const (
	// CCMKeySize is the AES-CCM-16-64-128 key length.
	CCMKeySize = 16
	// CCMNonceSize is the AES-CCM-16-64-128 nonce length.
	CCMNonceSize = 13
	// CCMTagSize is the AES-CCM-16-64-128 tag length.
	CCMTagSize = 8
)

var errAEADKeySize = errors.New("crypto: bad AEAD key or nonce size")

func newCCM(key, nonce []byte) (cipher.AEAD, error) {
	if len(key) != CCMKeySize || len(nonce) != CCMNonceSize {
		return nil, errAEADKeySize
	}
	block, err := aes.NewCipher(key)
	if err != nil {
		return nil, fmt.Errorf("aes cipher: %w", err)
	}
	// ccm.NewCCM takes the nonce size; the 2-byte length field follows
	// from 15-13.
	aead, err := ccm.NewCCM(block, CCMTagSize, CCMNonceSize)
	if err != nil {
		return nil, fmt.Errorf("ccm mode: %w", err)
	}
	return aead, nil
}

// AEADSeal encrypts plaintext under AES-CCM-16-64-128 and appends the
// 8-byte authentication tag.
func AEADSeal(key, nonce, aad, plaintext []byte) ([]byte, error) {
	aead, err := newCCM(key, nonce)
	if err != nil {
		return nil, err
	}
	return aead.Seal(nil, nonce, plaintext, aad), nil
}

// AEADOpen verifies and decrypts a ciphertext produced by AEADSeal.
func AEADOpen(key, nonce, aad, ciphertext []byte) ([]byte, error) {
	aead, err := newCCM(key, nonce)
	if err != nil {
		return nil, err
	}
	if len(ciphertext) < CCMTagSize {
		return nil, errors.New("crypto: ciphertext shorter than tag")
	}
	plaintext, err := aead.Open(nil, nonce, ciphertext, aad)
	if err != nil {
		return nil, fmt.Errorf("ccm open: %w", err)
	}
	return plaintext, nil
}
