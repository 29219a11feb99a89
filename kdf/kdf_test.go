package kdf

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/sage-x-project/lake/codec"
	lakecrypto "github.com/sage-x-project/lake/crypto"
)

var (
	testPRK = lakecrypto.HKDFExtract(nil, []byte("test input keying material"))
	testTH  = lakecrypto.SHA256([]byte("transcript"))
)

func TestExpandLabelled(t *testing.T) {
	t.Run("deterministic", func(t *testing.T) {
		a, err := ExpandLabelled(testPRK, testTH, LabelK3, 16, true)
		require.NoError(t, err)
		b, err := ExpandLabelled(testPRK, testTH, LabelK3, 16, true)
		require.NoError(t, err)
		require.Equal(t, a, b)
		require.Len(t, a, 16)
	})

	t.Run("labels separate", func(t *testing.T) {
		k3, err := ExpandLabelled(testPRK, testTH, LabelK3, 16, true)
		require.NoError(t, err)
		k4, err := ExpandLabelled(testPRK, testTH, LabelK4, 16, true)
		require.NoError(t, err)
		require.NotEqual(t, k3, k4)
	})

	t.Run("transcript separates", func(t *testing.T) {
		a, err := ExpandLabelled(testPRK, testTH, LabelIV3, 13, true)
		require.NoError(t, err)
		otherTH := lakecrypto.SHA256([]byte("other transcript"))
		b, err := ExpandLabelled(testPRK, otherTH, LabelIV3, 13, true)
		require.NoError(t, err)
		require.NotEqual(t, a, b)
	})

	t.Run("wrap flag separates", func(t *testing.T) {
		wrapped, err := ExpandLabelled(testPRK, testTH, LabelKeystream2, 32, true)
		require.NoError(t, err)
		raw, err := ExpandLabelled(testPRK, testTH, LabelKeystream2, 32, false)
		require.NoError(t, err)
		require.NotEqual(t, wrapped, raw)
	})

	t.Run("length separates", func(t *testing.T) {
		// The requested length is part of the info, not just a prefix
		// truncation.
		long, err := ExpandLabelled(testPRK, testTH, LabelK3, 32, true)
		require.NoError(t, err)
		short, err := ExpandLabelled(testPRK, testTH, LabelK3, 16, true)
		require.NoError(t, err)
		require.NotEqual(t, long[:16], short)
	})

	t.Run("length cap", func(t *testing.T) {
		_, err := ExpandLabelled(testPRK, testTH, LabelK3, 255*32+1, true)
		require.ErrorIs(t, err, lakecrypto.ErrExpandTooLong)
	})
}

func TestMAC(t *testing.T) {
	idCred, err := codec.BuildIDCredX([]byte{0x05})
	require.NoError(t, err)
	pub := make([]byte, 32)
	cred, err := codec.SerializeCredX(pub, []byte{0x05})
	require.NoError(t, err)

	mac, err := MAC(testPRK, testTH, LabelMAC2, idCred, cred)
	require.NoError(t, err)
	require.Len(t, mac, MACLen)

	t.Run("binds credential", func(t *testing.T) {
		otherCred, err := codec.SerializeCredX(pub, []byte{0x10})
		require.NoError(t, err)
		other, err := MAC(testPRK, testTH, LabelMAC2, idCred, otherCred)
		require.NoError(t, err)
		require.NotEqual(t, mac, other)
	})

	t.Run("binds label", func(t *testing.T) {
		other, err := MAC(testPRK, testTH, LabelMAC3, idCred, cred)
		require.NoError(t, err)
		require.NotEqual(t, mac, other)
	})

	t.Run("binds transcript", func(t *testing.T) {
		otherTH := lakecrypto.SHA256([]byte("other"))
		other, err := MAC(testPRK, otherTH, LabelMAC2, idCred, cred)
		require.NoError(t, err)
		require.NotEqual(t, mac, other)
	})
}

func TestTranscriptHashes(t *testing.T) {
	msg1 := []byte{0x03, 0x00, 0x01, 0x02}
	cR := []byte{2, 2, 3, 4}
	ephPubR := make([]byte, 32)

	th2 := TH2(msg1, cR, ephPubR)
	require.Len(t, th2, lakecrypto.HashSize)

	t.Run("chains every input", func(t *testing.T) {
		require.NotEqual(t, th2, TH2(msg1, []byte{2, 2, 3, 5}, ephPubR))
		require.NotEqual(t, th2, TH2([]byte{0x03, 0x00, 0x01, 0x03}, cR, ephPubR))
	})

	t.Run("th3 and th4 chain ciphertexts", func(t *testing.T) {
		ct2 := []byte{1, 2, 3}
		th3 := TH3(th2, ct2)
		require.NotEqual(t, th3, TH3(th2, []byte{1, 2, 4}))

		ct3 := []byte{4, 5, 6}
		th4 := TH4(th3, ct3)
		require.NotEqual(t, th4, TH4(th3, []byte{4, 5, 7}))
		require.NotEqual(t, th3, th4)
	})
}

func TestExporter(t *testing.T) {
	sck, err := Exporter(LabelSCK, 16, testTH, testPRK)
	require.NoError(t, err)
	rck, err := Exporter(LabelRCK, 16, testTH, testPRK)
	require.NoError(t, err)
	rk, err := Exporter(LabelRK, 16, testTH, testPRK)
	require.NoError(t, err)

	require.Len(t, sck, 16)
	require.NotEqual(t, sck, rck)
	require.NotEqual(t, sck, rk)
	require.NotEqual(t, rck, rk)
}
