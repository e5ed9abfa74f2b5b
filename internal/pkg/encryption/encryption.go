// Package encryption seals persisted connection descriptors with AES-256-GCM.
package encryption

import (
	"crypto/aes"
	"crypto/cipher"
	"crypto/rand"
	"encoding/base64"
	"errors"
	"fmt"
	)

// KeySize is the AES-256 key length in bytes.
const KeySize = 32

// ErrCiphertextTooShort is returned when a sealed value cannot hold a nonce.
var ErrCiphertextTooShort = errors.New("ciphertext too short")

// Encryptor seals and opens values bound to a context label.
// The label (for example the cache key) must match on Open.
type Encryptor interface {
	// Seal encrypts plaintext and returns base64-encoded ciphertext.
	Seal(plaintext []byte, label string) (string, error)

	// Open decrypts base64-encoded ciphertext produced by Seal.
	Open(ciphertext string, label string) ([]byte, error)
}

// New returns an AES encryptor for key, or a NoOp encryptor when key is empty.
func New(key string) (Encryptor, error) {
	if key == "" {
		return NewNoOpEncryptor(), nil
	}
	return NewAESEncryptor(key)
}

// AESEncryptor implements Encryptor using AES-256-GCM.
type AESEncryptor struct {
	gcm cipher.AEAD
}

// NewAESEncryptor creates a new AES-256-GCM encryptor.
// Key can be provided as raw bytes or base64-encoded and must decode to 32 bytes.
func NewAESEncryptor(key string) (*AESEncryptor, error) {
	keyBytes, err := base64.StdEncoding.DecodeString(key)
	if err != nil || len(keyBytes) != KeySize {
		keyBytes = []byte(key)
	}

	if len(keyBytes) != KeySize {
		return nil, fmt.Errorf("encryption: key must be %d bytes, got %d", KeySize, len(keyBytes))
	}

	block, err := aes.NewCipher(keyBytes)
	if err != nil {
		return nil, fmt.Errorf("encryption: cipher: %w", err)
	}

	gcm, err := cipher.NewGCM(block)
	if err != nil {
		return nil, fmt.Errorf("encryption: gcm mode: %w", err)
	}

	return &AESEncryptor{gcm: gcm}, nil
}

// Seal encrypts plaintext; the nonce is prepended to the ciphertext.
func (e *AESEncryptor) Seal(plaintext []byte, label string) (string, error) {
	nonce := make([]byte, e.gcm.NonceSize())
	if _, err := rand.Read(nonce); err != nil {
		return "", fmt.Errorf("encryption: nonce: %w", err)
	}

	sealed := e.gcm.Seal(nonce, nonce, plaintext, []byte(label))
	return base64.StdEncoding.EncodeToString(sealed), nil
}

// Open decrypts a value produced by Seal with the same label.
func (e *AESEncryptor) Open(ciphertext string, label string) ([]byte, error) {
	data, err := base64.StdEncoding.DecodeString(ciphertext)
	if err != nil {
		return nil, fmt.Errorf("encryption: sealed value is not base64: %w", err)
	}

	nonceSize := e.gcm.NonceSize()
	if len(data) < nonceSize {
		return nil, ErrCiphertextTooShort
	}

	nonce, body := data[:nonceSize], data[nonceSize:]
	plaintext, err := e.gcm.Open(nil, nonce, body, []byte(label))
	if err != nil {
		return nil, fmt.Errorf("encryption: open: %w", err)
	}

	return plaintext, nil
}

// GenerateKey returns a random base64 key suitable for SESSION_ENCRYPTION_KEY.
func GenerateKey() (string, error) {
	key := make([]byte, KeySize)
	if _, err := rand.Read(key); err != nil {
		return "", fmt.Errorf("encryption: key: %w", err)
	}
	return base64.StdEncoding.EncodeToString(key), nil
}

// NoOpEncryptor only base64-encodes. It is used when no key is configured.
type NoOpEncryptor struct{}

// NewNoOpEncryptor creates a new no-operation encryptor.
func NewNoOpEncryptor() *NoOpEncryptor {
	return &NoOpEncryptor{}
}

// Seal returns the plaintext as base64.
func (e *NoOpEncryptor) Seal(plaintext []byte, _ string) (string, error) {
	return base64.StdEncoding.EncodeToString(plaintext), nil
}

// Open decodes base64 and returns the plaintext.
func (e *NoOpEncryptor) Open(ciphertext string, _ string) ([]byte, error) {
	return base64.StdEncoding.DecodeString(ciphertext)
}
