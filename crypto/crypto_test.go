package crypto

import (
	"testing"

	"github.com/stretchr/testify/require"
)

// Scalars and expected public points from the reference handshake run.
var (
	ephI = []byte{
		0xB3, 0x11, 0x19, 0x98, 0xCB, 0x3F, 0x66, 0x86, 0x63, 0xED, 0x42, 0x51,
		0xC7, 0x8B, 0xE6, 0xE9, 0x5A, 0x4D, 0xA1, 0x27, 0xE4, 0xF6, 0xFE, 0xE2,
		0x75, 0xE8, 0x55, 0xD8, 0xD9, 0xDF, 0xD8, 0xED,
	}
	ephR = []byte{
		0xBD, 0x86, 0xEA, 0xF4, 0x06, 0x5A, 0x83, 0x6C, 0xD2, 0x9D, 0x0F, 0x06,
		0x91, 0xCA, 0x2A, 0x8E, 0xC1, 0x3F, 0x51, 0xD1, 0xC4, 0x5E, 0x1B, 0x43,
		0x72, 0xC0, 0xCB, 0xE4, 0x93, 0xCE, 0xF6, 0xBD,
	}
	// ephPubI is the point carried in the reference message 1.
	ephPubI = []byte{
		58, 169, 235, 50, 1, 179, 54, 123, 140, 139, 227, 141, 145, 229, 122,
		43, 67, 62, 103, 136, 140, 134, 210, 172, 0, 106, 82, 8, 66, 237, 80,
		55,
	}
	// ephPubR is the point carried in the reference message 2.
	ephPubR = []byte{
		37, 84, 145, 176, 90, 57, 137, 255, 45, 63, 254, 166, 32, 152, 170,
		181, 124, 22, 15, 41, 78, 217, 72, 1, 139, 65, 144, 247, 209, 97, 130,
		78,
	}
	statI = []byte{
		0xCF, 0xC4, 0xB6, 0xED, 0x22, 0xE7, 0x00, 0xA3, 0x0D, 0x5C, 0x5B, 0xCD,
		0x61, 0xF1, 0xF0, 0x20, 0x49, 0xDE, 0x23, 0x54, 0x62, 0x33, 0x48, 0x93,
		0xD6, 0xFF, 0x9F, 0x0C, 0xFE, 0xA3, 0xFE, 0x04,
	}
	statPubI = []byte{
		0x4A, 0x49, 0xD8, 0x8C, 0xD5, 0xD8, 0x41, 0xFA, 0xB7, 0xEF, 0x98, 0x3E,
		0x91, 0x1D, 0x25, 0x78, 0x86, 0x1F, 0x95, 0x88, 0x4F, 0x9F, 0x5D, 0xC4,
		0x2A, 0x2E, 0xED, 0x33, 0xDE, 0x79, 0xED, 0x77,
	}
	statR = []byte{
		0x52, 0x8B, 0x49, 0xC6, 0x70, 0xF8, 0xFC, 0x16, 0xA2, 0xAD, 0x95, 0xC1,
		0x88, 0x5B, 0x2E, 0x24, 0xFB, 0x15, 0x76, 0x22, 0x72, 0x79, 0x2A, 0xA1,
		0xCF, 0x05, 0x1D, 0xF5, 0xD9, 0x3D, 0x36, 0x94,
	}
	statPubR = []byte{
		0xE6, 0x6F, 0x35, 0x59, 0x90, 0x22, 0x3C, 0x3F, 0x6C, 0xAF, 0xF8, 0x62,
		0xE4, 0x07, 0xED, 0xD1, 0x17, 0x4D, 0x07, 0x01, 0xA0, 0x9E, 0xCD, 0x6A,
		0x15, 0xCE, 0xE2, 0xC6, 0xCE, 0x21, 0xAA, 0x50,
	}
)

func TestX25519Conformance(t *testing.T) {
	t.Run("public key derivation", func(t *testing.T) {
		for _, tc := range []struct {
			name         string
			scalar, want []byte
		}{
			{"ephemeral initiator", ephI, ephPubI},
			{"ephemeral responder", ephR, ephPubR},
			{"static initiator", statI, statPubI},
			{"static responder", statR, statPubR},
		} {
			t.Run(tc.name, func(t *testing.T) {
				pub, err := X25519Public(tc.scalar)
				require.NoError(t, err)
				require.Equal(t, tc.want, pub)
			})
		}
	})

	t.Run("shared secret symmetry", func(t *testing.T) {
		a, err := X25519(ephI, ephPubR)
		require.NoError(t, err)
		b, err := X25519(ephR, ephPubI)
		require.NoError(t, err)
		require.Equal(t, a, b)
		require.Len(t, a, PointSize)
	})

	t.Run("bad lengths rejected", func(t *testing.T) {
		_, err := X25519(ephI[:16], ephPubR)
		require.Error(t, err)
		_, err = X25519(ephI, ephPubR[:16])
		require.Error(t, err)
	})
}

func TestHKDF(t *testing.T) {
	prk := HKDFExtract(nil, []byte("input keying material"))
	require.Len(t, prk, HashSize)

	t.Run("deterministic", func(t *testing.T) {
		again := HKDFExtract(nil, []byte("input keying material"))
		require.Equal(t, prk, again)
	})

	t.Run("salt separates", func(t *testing.T) {
		salted := HKDFExtract([]byte("salt"), []byte("input keying material"))
		require.NotEqual(t, prk, salted)
	})

	t.Run("expand", func(t *testing.T) {
		out, err := HKDFExpand(prk, []byte("info"), 42)
		require.NoError(t, err)
		require.Len(t, out, 42)

		other, err := HKDFExpand(prk, []byte("OTHER"), 42)
		require.NoError(t, err)
		require.NotEqual(t, out, other)
	})

	t.Run("expand length cap", func(t *testing.T) {
		_, err := HKDFExpand(prk, []byte("info"), 255*32+1)
		require.ErrorIs(t, err, ErrExpandTooLong)
	})
}

func TestAEAD(t *testing.T) {
	key := make([]byte, CCMKeySize)
	nonce := make([]byte, CCMNonceSize)
	for i := range key {
		key[i] = byte(i)
	}
	for i := range nonce {
		nonce[i] = byte(0xA0 + i)
	}
	aad := []byte("associated data")
	plaintext := []byte("attack at dawn")

	ct, err := AEADSeal(key, nonce, aad, plaintext)
	require.NoError(t, err)
	require.Len(t, ct, len(plaintext)+CCMTagSize)

	t.Run("round trip", func(t *testing.T) {
		pt, err := AEADOpen(key, nonce, aad, ct)
		require.NoError(t, err)
		require.Equal(t, plaintext, pt)
	})

	t.Run("empty plaintext still tagged", func(t *testing.T) {
		empty, err := AEADSeal(key, nonce, aad, nil)
		require.NoError(t, err)
		require.Len(t, empty, CCMTagSize)
		_, err = AEADOpen(key, nonce, aad, empty)
		require.NoError(t, err)
	})

	t.Run("ciphertext tamper fails", func(t *testing.T) {
		bad := append([]byte(nil), ct...)
		bad[0] ^= 0x01
		_, err := AEADOpen(key, nonce, aad, bad)
		require.Error(t, err)
	})

	t.Run("aad tamper fails", func(t *testing.T) {
		_, err := AEADOpen(key, nonce, []byte("associated datb"), ct)
		require.Error(t, err)
	})

	t.Run("wrong key fails", func(t *testing.T) {
		other := make([]byte, CCMKeySize)
		_, err := AEADOpen(other, nonce, aad, ct)
		require.Error(t, err)
	})

	t.Run("bad sizes rejected", func(t *testing.T) {
		_, err := AEADSeal(key[:8], nonce, aad, plaintext)
		require.Error(t, err)
		_, err = AEADSeal(key, nonce[:8], aad, plaintext)
		require.Error(t, err)
		_, err = AEADOpen(key, nonce, aad, ct[:4])
		require.Error(t, err)
	})
}

func TestZeroize(t *testing.T) {
	a := []byte{1, 2, 3}
	b := []byte{4, 5}
	Zeroize(a, b, nil)
	require.Equal(t, []byte{0, 0, 0}, a)
	require.Equal(t, []byte{0, 0}, b)
}
