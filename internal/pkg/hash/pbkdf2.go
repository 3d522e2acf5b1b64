package hash

import (
	"crypto/rand"
	"crypto/sha256"
	"crypto/subtle"
	"fmt"

	"golang.org/x/crypto/pbkdf2"
)

// DefaultPBKDF2Iterations is the work factor used when none is configured.
const DefaultPBKDF2Iterations = 64000

// PBKDF2 implements the SaltedHash interface using PBKDF2-HMAC-SHA256.
//
// The salt is stored alongside the hash (not embedded in it), so both values
// must be persisted and handed back to Verify.
type PBKDF2 struct {
	iterations int
	saltLength int
	keyLength  int
}

// NewPBKDF2 returns a PBKDF2 hasher.
//
// iterations controls the work factor; values below 1 fall back to
// DefaultPBKDF2Iterations.
func NewPBKDF2(iterations int) *PBKDF2 {
	if iterations < 1 {
		iterations = DefaultPBKDF2Iterations
	}

	return &PBKDF2{
		iterations: iterations,
		saltLength: 16,
		keyLength:  32,
	}
}

// Hash derives a salted hash from plaintext with a fresh random salt.
func (p *PBKDF2) Hash(plaintext string) ([]byte, []byte, error) {
	salt := make([]byte, p.saltLength)
	if _, err := rand.Read(salt); err != nil {
		return nil, nil, fmt.Errorf("failed to generate salt: %w", err)
	}

	key := pbkdf2.Key([]byte(plaintext), salt, p.iterations, p.keyLength, sha256.New)

	return key, salt, nil
}

// Verify recomputes the hash with the given salt and compares it against the
// stored hash in constant time.
func (p *PBKDF2) Verify(hashed, salt []byte, plaintext string) bool {
	if len(hashed) == 0 || len(salt) == 0 {
		return false
	}

	computed := pbkdf2.Key([]byte(plaintext), salt, p.iterations, len(hashed), sha256.New)

	return subtle.ConstantTimeCompare(hashed, computed) == 1
}
