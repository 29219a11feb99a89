package channel

import (
	"encoding/binary"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/sage-x-project/lake/crypto"
)

const (
	// frame layout: 8-byte big-endian sequence number || ciphertext.
	seqSize = 8
	// noncePrefixSize completes the 13-byte CCM nonce next to the
	// sequence number.
	noncePrefixSize = crypto.CCMNonceSize - seqSize
)

var (
	// ErrExpired reports use of a channel past its configured limits.
	ErrExpired = errors.New("channel: expired")
	// ErrReplay reports a frame whose sequence number does not advance.
	ErrReplay = errors.New("channel: replayed or reordered frame")
)

// SecureChannel is an AES-CCM channel keyed by a completed handshake.
// Frames sealed with the holder's send key open under the peer's
// receive key; nonces are built from a per-direction key-bound prefix
// and a monotone sequence number, so no random nonce travels.
type SecureChannel struct {
	id           string
	role         Role
	createdAt    time.Time
	lastUsedAt   time.Time
	messageCount int
	config       Config
	closed       bool
	generation   uint32

	sendKey  []byte
	recvKey  []byte
	rekeyKey []byte
	sendSeq  uint64
	recvSeq  uint64
}

// New creates a channel from exported handshake keys. An empty id is
// replaced with a fresh UUID.
func New(id string, role Role, keys Keys, config Config) (*SecureChannel, error) {
	if len(keys.Send) != crypto.CCMKeySize || len(keys.Recv) != crypto.CCMKeySize {
		return nil, errors.New("channel: channel keys must be 16 bytes")
	}
	if len(keys.Rekey) != crypto.CCMKeySize {
		return nil, errors.New("channel: rekey key must be 16 bytes")
	}
	if id == "" {
		id = uuid.NewString()
	}
	now := time.Now()
	ch := &SecureChannel{
		id:         id,
		role:       role,
		createdAt:  now,
		lastUsedAt: now,
		config:     config,
		sendKey:    append([]byte(nil), keys.Send...),
		recvKey:    append([]byte(nil), keys.Recv...),
		rekeyKey:   append([]byte(nil), keys.Rekey...),
	}
	return ch, nil
}

// ID returns the channel identifier.
func (c *SecureChannel) ID() string { return c.id }

// Status reports the channel's current state.
func (c *SecureChannel) Status() Status {
	return Status{
		ID:           c.id,
		CreatedAt:    c.createdAt,
		LastUsedAt:   c.lastUsedAt,
		MessageCount: c.messageCount,
		Generation:   c.generation,
		Expired:      c.IsExpired(),
	}
}

// IsExpired checks the channel against its configured policies.
func (c *SecureChannel) IsExpired() bool {
	if c.closed {
		return true
	}
	now := time.Now()
	if c.config.MaxAge > 0 && now.After(c.createdAt.Add(c.config.MaxAge)) {
		return true
	}
	if c.config.IdleTimeout > 0 && now.After(c.lastUsedAt.Add(c.config.IdleTimeout)) {
		return true
	}
	if c.config.MaxMessages > 0 && c.messageCount >= c.config.MaxMessages {
		return true
	}
	return false
}

func (c *SecureChannel) touch() {
	c.lastUsedAt = time.Now()
	c.messageCount++
}

// Seal encrypts a frame for the peer.
// Output format: sequence number || ciphertext.
func (c *SecureChannel) Seal(plaintext []byte) ([]byte, error) {
	if c.IsExpired() {
		return nil, ErrExpired
	}
	c.sendSeq++
	nonce := c.nonce(c.sendKey, c.sendSeq)
	ciphertext, err := crypto.AEADSeal(c.sendKey, nonce, nil, plaintext)
	if err != nil {
		return nil, fmt.Errorf("seal frame: %w", err)
	}
	out := make([]byte, seqSize+len(ciphertext))
	binary.BigEndian.PutUint64(out, c.sendSeq)
	copy(out[seqSize:], ciphertext)
	c.touch()
	return out, nil
}

// Open verifies and decrypts a frame produced by the peer's Seal.
func (c *SecureChannel) Open(frame []byte) ([]byte, error) {
	if c.IsExpired() {
		return nil, ErrExpired
	}
	if len(frame) < seqSize+crypto.CCMTagSize {
		return nil, errors.New("channel: frame too short")
	}
	seq := binary.BigEndian.Uint64(frame)
	if seq <= c.recvSeq {
		return nil, ErrReplay
	}
	nonce := c.nonce(c.recvKey, seq)
	plaintext, err := crypto.AEADOpen(c.recvKey, nonce, nil, frame[seqSize:])
	if err != nil {
		return nil, fmt.Errorf("open frame: %w", err)
	}
	c.recvSeq = seq
	c.touch()
	return plaintext, nil
}

// nonce builds the 13-byte CCM nonce: a prefix bound to the direction
// key, then the big-endian sequence number.
func (c *SecureChannel) nonce(key []byte, seq uint64) []byte {
	prefix := crypto.SHA256(key)[:noncePrefixSize]
	nonce := make([]byte, crypto.CCMNonceSize)
	copy(nonce, prefix)
	binary.BigEndian.PutUint64(nonce[noncePrefixSize:], seq)
	return nonce
}

// Rekey replaces both direction keys with material derived from the
// rekey key and the generation counter. Peers with opposite roles that
// rekey in lockstep keep interoperating; sequence numbers restart.
func (c *SecureChannel) Rekey() error {
	if c.closed {
		return ErrExpired
	}
	c.generation++
	a, err := c.deriveRekey("SCK", c.generation)
	if err != nil {
		return err
	}
	b, err := c.deriveRekey("RCK", c.generation)
	if err != nil {
		crypto.Zeroize(a)
		return err
	}
	crypto.Zeroize(c.sendKey, c.recvKey)
	if c.role == RoleInitiator {
		c.sendKey, c.recvKey = a, b
	} else {
		c.sendKey, c.recvKey = b, a
	}
	c.sendSeq, c.recvSeq = 0, 0
	return nil
}

func (c *SecureChannel) deriveRekey(label string, generation uint32) ([]byte, error) {
	info := make([]byte, 0, len(label)+9)
	info = append(info, "rekey "...)
	info = append(info, label...)
	info = binary.BigEndian.AppendUint32(info, generation)
	key, err := crypto.HKDFExpand(c.rekeyKey, info, crypto.CCMKeySize)
	if err != nil {
		return nil, fmt.Errorf("derive %s generation %d: %w", label, generation, err)
	}
	return key, nil
}

// MessageCount returns the number of frames processed.
func (c *SecureChannel) MessageCount() int { return c.messageCount }

// Close marks the channel closed and clears its key material.
func (c *SecureChannel) Close() error {
	c.closed = true
	crypto.Zeroize(c.sendKey, c.recvKey, c.rekeyKey)
	return nil
}
