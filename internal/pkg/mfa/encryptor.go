package mfa

// Encryptor protects MFA secrets at rest. The scope binds a ciphertext
// to its owner so material cannot be replayed across records.
type Encryptor interface {
	Encrypt(plaintext []byte, scope Scope) (ciphertext []byte, err error)
	Decrypt(ciphertext []byte, scope Scope) (plaintext []byte, err error)
}

// KeyProvider resolves the raw AES key for a scope; 32 bytes for
// AES-256-GCM. Implementations may key per tenant or per environment.
type KeyProvider interface {
	Key(scope Scope) ([]byte, error)
}
