// Package deviceid manages this machine's stable device identity: a uuid
// generated once, protected at rest and stored in a sidecar file next to
// the database.
package deviceid

import (
	"crypto/aes"
	"crypto/cipher"
	"crypto/rand"
	"errors"
	"fmt"
	"os"
)

// Protector turns the device identifier into an opaque blob at rest and
// back. Implementations are machine-local: a protected blob copied to
// another machine must not unprotect there.
type Protector interface {
	Protect(plaintext []byte) ([]byte, error)
	Unprotect(blob []byte) ([]byte, error)
}

// AESGCMProtector seals with AES-256-GCM under a per-machine key file.
// The nonce is prepended to the ciphertext.
type AESGCMProtector struct {
	key []byte
}

// NewAESGCMProtector loads the machine key from keyPath, creating a fresh
// random key on first use.
func NewAESGCMProtector(keyPath string) (*AESGCMProtector, error) {
	key, err := os.ReadFile(keyPath)
	if err == nil {
		if len(key) != 32 {
			return nil, fmt.Errorf("machine key %s: unexpected length %d", keyPath, len(key))
		}
		return &AESGCMProtector{key: key}, nil
	}
	if !errors.Is(err, os.ErrNotExist) {
		return nil, fmt.Errorf("read machine key: %w", err)
	}

	key = make([]byte, 32)
	if _, err := rand.Read(key); err != nil {
		return nil, err
	}
	if err := os.WriteFile(keyPath, key, 0o600); err != nil {
		return nil, fmt.Errorf("write machine key: %w", err)
	}
	return &AESGCMProtector{key: key}, nil
}

func (p *AESGCMProtector) aead() (cipher.AEAD, error) {
	block, err := aes.NewCipher(p.key)
	if err != nil {
		return nil, err
	}
	return cipher.NewGCM(block)
}

func (p *AESGCMProtector) Protect(plaintext []byte) ([]byte, error) {
	aesgcm, err := p.aead()
	if err != nil {
		return nil, err
	}
	nonce := make([]byte, aesgcm.NonceSize())
	if _, err := rand.Read(nonce); err != nil {
		return nil, err
	}
	return aesgcm.Seal(nonce, nonce, plaintext, nil), nil
}

func (p *AESGCMProtector) Unprotect(blob []byte) ([]byte, error) {
	aesgcm, err := p.aead()
	if err != nil {
		return nil, err
	}
	if len(blob) < aesgcm.NonceSize() {
		return nil, errors.New("deviceid: protected blob too short")
	}
	nonce, ciphertext := blob[:aesgcm.NonceSize()], blob[aesgcm.NonceSize():]
	return aesgcm.Open(nil, nonce, ciphertext, nil)
}
