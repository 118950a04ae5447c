// Package password implements credential hashing for the local auth store.
//
// Hashes are derived with Argon2id. The cost parameters below are shared by
// the hash and verify paths and must never change once a store has been
// populated: re-tuning them invalidates every stored hash.
package password

import (
	"crypto/rand"
	"crypto/subtle"
	"encoding/base64"
	"fmt"

	"golang.org/x/crypto/argon2"
)

const (
	argonIterations  = 3
	argonMemoryKiB   = 64 * 1024 // 64 MiB
	argonParallelism = 2
	keyLength        = 32
	saltLength       = 32
)

// GenerateSalt returns a fresh random salt, base64-encoded for storage.
func GenerateSalt() (string, error) {
	b := make([]byte, saltLength)
	if _, err := rand.Read(b); err != nil {
		return "", fmt.Errorf("salt generation: %w", err)
	}
	return base64.StdEncoding.EncodeToString(b), nil
}

// Hash derives the Argon2id hash of password under the given base64 salt and
// returns it base64-encoded.
func Hash(password, salt string) (string, error) {
	saltBytes, err := base64.StdEncoding.DecodeString(salt)
	if err != nil {
		return "", fmt.Errorf("invalid salt: %w", err)
	}
	key := argon2.IDKey([]byte(password), saltBytes, argonIterations, argonMemoryKiB, argonParallelism, keyLength)
	return base64.StdEncoding.EncodeToString(key), nil
}

// Verify reports whether password hashes to expectedHash under salt.
// The comparison is constant-time; any decoding failure counts as a mismatch.
func Verify(password, salt, expectedHash string) bool {
	computed, err := Hash(password, salt)
	if err != nil {
		return false
	}
	return subtle.ConstantTimeCompare([]byte(computed), []byte(expectedHash)) == 1
}
