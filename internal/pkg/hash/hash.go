package hash

// Hash produces and verifies one-way hashes of secrets.
//
// Implementations embed their parameters (and salt, when used) inside the
// returned hash so Verify only needs the stored value and the plaintext.
type Hash interface {
	// Hash takes a plaintext string and returns its hashed representation.
	Hash(plaintext string) ([]byte, error)

	// Verify checks whether the plaintext matches the hashed value.
	Verify(hashed, plaintext string) bool
}

// SaltedHash produces hashes with an externally stored salt.
//
// Unlike Hash, the salt is returned separately so callers can persist the
// (hash, salt) pair in distinct columns.
type SaltedHash interface {
	// Hash derives a salted hash from plaintext with a fresh random salt.
	Hash(plaintext string) (hashed, salt []byte, err error)

	// Verify recomputes the hash with the given salt and compares it against
	// the stored hash in constant time.
	Verify(hashed, salt []byte, plaintext string) bool
}
