package store

import (
	"crypto/rand"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sync"

	"golang.org/x/crypto/chacha20poly1305"
	"golang.org/x/crypto/scrypt"

	"saltyrtc/internal/keystore"
)

const keyFile = "permanent_key.enc"

// ErrNoKey is returned when loading from a directory that holds no key yet.
var ErrNoKey = errors.New("no permanent key stored")

// FileStore keeps the encrypted permanent key in a directory.
type FileStore struct {
	dir string
	mu  sync.Mutex
}

func NewFileStore(dir string) *FileStore { return &FileStore{dir: dir} }

// SaveKeyStore encrypts the secret key under the passphrase and writes it.
func (s *FileStore) SaveKeyStore(passphrase string, ks *keystore.KeyStore) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	secret := ks.SecretKey()
	blob, err := encrypt(passphrase, secret[:])
	if err != nil {
		return fmt.Errorf("encrypting permanent key: %w", err)
	}
	return writeFile(filepath.Join(s.dir, keyFile), blob, 0o600)
}

// LoadKeyStore reads and decrypts the stored key and rebuilds the key store.
func (s *FileStore) LoadKeyStore(passphrase string) (*keystore.KeyStore, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	blob, err := os.ReadFile(filepath.Join(s.dir, keyFile))
	if errors.Is(err, os.ErrNotExist) {
		return nil, ErrNoKey
	}
	if err != nil {
		return nil, err
	}
	raw, err := decrypt(passphrase, blob)
	if err != nil {
		return nil, fmt.Errorf("decrypting permanent key: %w", err)
	}
	if len(raw) != keystore.KeyLength {
		return nil, fmt.Errorf("stored key: want %d bytes, got %d", keystore.KeyLength, len(raw))
	}
	var secret [keystore.KeyLength]byte
	copy(secret[:], raw)
	return keystore.FromSecretKey(secret)
}

// HasKeyStore reports whether a key has been stored yet.
func (s *FileStore) HasKeyStore() bool {
	s.mu.Lock()
	defer s.mu.Unlock()

	_, err := os.Stat(filepath.Join(s.dir, keyFile))
	return err == nil
}

// ---------- passphrase envelope ----------

func scryptParamsDefault() (N, r, p int) { return 1 << 15, 8, 1 }

type envelope struct {
	Salt []byte
	CT   []byte
}

func encrypt(passphrase string, plaintext []byte) ([]byte, error) {
	salt := make([]byte, 16)
	if _, err := rand.Read(salt); err != nil {
		return nil, err
	}
	N, r, p := scryptParamsDefault()
	key, err := scrypt.Key([]byte(passphrase), salt, N, r, p, chacha20poly1305.KeySize)
	if err != nil {
		return nil, err
	}
	aead, err := chacha20poly1305.New(key)
	if err != nil {
		return nil, err
	}
	nonce := make([]byte, aead.NonceSize())
	ct := aead.Seal(nil, nonce, plaintext, salt)
	return json.Marshal(envelope{Salt: salt, CT: ct})
}

func decrypt(passphrase string, blob []byte) ([]byte, error) {
	var env envelope
	if err := json.Unmarshal(blob, &env); err != nil {
		return nil, err
	}
	N, r, p := scryptParamsDefault()
	key, err := scrypt.Key([]byte(passphrase), env.Salt, N, r, p, chacha20poly1305.KeySize)
	if err != nil {
		return nil, err
	}
	aead, err := chacha20poly1305.New(key)
	if err != nil {
		return nil, err
	}
	nonce := make([]byte, aead.NonceSize())
	return aead.Open(nil, nonce, env.CT, env.Salt)
}

// writeFile writes bytes via a temp file, then atomically replaces the target.
func writeFile(path string, b []byte, mode os.FileMode) error {
	dir := filepath.Dir(path)
	base := filepath.Base(path)

	f, err := os.CreateTemp(dir, base+".tmp-*")
	if err != nil {
		return err
	}
	tmp := f.Name()
	defer func() { _ = os.Remove(tmp) }()

	if _, err := f.Write(b); err != nil {
		_ = f.Close()
		return err
	}
	if err := f.Chmod(mode); err != nil {
		_ = f.Close()
		return err
	}
	if err := f.Close(); err != nil {
		return err
	}
	return os.Rename(tmp, path)
}
