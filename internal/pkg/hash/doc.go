// Package hash holds the keyed and salted digest primitives.
//
// PBKDF2 covers password storage (hash plus per-user salt), HMAC-SHA256
// covers token-at-rest digests. Only hashes are ever persisted.
package hash
