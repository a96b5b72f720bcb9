package keystore

import (
	"crypto/rand"
	"encoding/hex"
	"errors"
	"fmt"

	"github.com/vmihailenco/msgpack/v5"
	"golang.org/x/crypto/curve25519"
	"golang.org/x/crypto/nacl/box"

	"saltyrtc/internal/nonce"
)

// KeyLength is the size of a Curve25519 key.
const KeyLength = 32

var (
	// ErrCannotOpen is returned when a box fails authentication, either
	// because the wrong key was used or the payload was tampered with.
	ErrCannotOpen = errors.New("cannot open box")

	errZeroKey = errors.New("secret key is all zeros")
)

// PublicKey is a Curve25519 public key.
type PublicKey [KeyLength]byte

func (k PublicKey) Slice() []byte { return k[:] }

// String returns the hex form used in logs and CLI output.
func (k PublicKey) String() string { return hex.EncodeToString(k[:]) }

// PublicKeyFromSlice copies a 32-byte slice into a PublicKey.
func PublicKeyFromSlice(b []byte) (PublicKey, error) {
	var k PublicKey
	if len(b) != KeyLength {
		return k, fmt.Errorf("public key: want %d bytes, got %d", KeyLength, len(b))
	}
	copy(k[:], b)
	return k, nil
}

// EncodeMsgpack writes the key as raw bytes, matching the wire format of the
// signaling messages.
func (k PublicKey) EncodeMsgpack(e *msgpack.Encoder) error {
	return e.EncodeBytes(k[:])
}

// DecodeMsgpack mirrors EncodeMsgpack.
func (k *PublicKey) DecodeMsgpack(d *msgpack.Decoder) error {
	b, err := d.DecodeBytes()
	if err != nil {
		return err
	}
	if len(b) != KeyLength {
		return fmt.Errorf("public key: want %d bytes, got %d", KeyLength, len(b))
	}
	copy(k[:], b)
	return nil
}

// KeyStore holds the local permanent key pair. It is exclusively owned by
// the connection that created (or loaded) it.
type KeyStore struct {
	public PublicKey
	secret [KeyLength]byte
}

// New generates a fresh permanent key pair.
func New() (*KeyStore, error) {
	pub, sec, err := box.GenerateKey(rand.Reader)
	if err != nil {
		return nil, err
	}
	return &KeyStore{public: PublicKey(*pub), secret: *sec}, nil
}

// FromSecretKey rebuilds a key store from a stored secret key, deriving the
// public half.
func FromSecretKey(secret [KeyLength]byte) (*KeyStore, error) {
	if secret == ([KeyLength]byte{}) {
		return nil, errZeroKey
	}
	var pub [KeyLength]byte
	curve25519.ScalarBaseMult(&pub, &secret)
	return &KeyStore{public: PublicKey(pub), secret: secret}, nil
}

// PublicKey returns the permanent public key.
func (s *KeyStore) PublicKey() PublicKey { return s.public }

// SecretKey returns the secret key for persistence. Callers must not retain
// the value beyond writing it to the store.
func (s *KeyStore) SecretKey() [KeyLength]byte { return s.secret }

// Seal boxes plaintext for the counterparty under the given nonce.
func (s *KeyStore) Seal(plaintext []byte, n nonce.Nonce, peer PublicKey) []byte {
	return box.Seal(nil, plaintext, n.Box(), (*[KeyLength]byte)(&peer), &s.secret)
}

// Open authenticates and decrypts a box from the counterparty.
func (s *KeyStore) Open(ciphertext []byte, n nonce.Nonce, peer PublicKey) ([]byte, error) {
	plain, ok := box.Open(nil, ciphertext, n.Box(), (*[KeyLength]byte)(&peer), &s.secret)
	if !ok {
		return nil, ErrCannotOpen
	}
	return plain, nil
}
