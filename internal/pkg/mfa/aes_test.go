package mfa

import (
	"bytes"
	"errors"
	"testing"
)

func testEncryptor() *AESGCMEncryptor {
	return NewAESGCMEncryptor(StaticKeyProvider{KeyBytes: bytes.Repeat([]byte{0x42}, 32)})
}

func TestAESGCMEncryptor_RoundTrip(t *testing.T) {
	// Arrange
	enc := testEncryptor()
	scope := Scope{UserID: 7, Purpose: PurposeTOTPSecret}

	// Act
	ciphertext, err := enc.Encrypt([]byte("GEZDGNBVGY3TQOJQ"), scope)
	if err != nil {
		t.Fatalf("Encrypt() error = %v", err)
	}
	plain, err := enc.Decrypt(ciphertext, scope)

	// Assert
	if err != nil {
		t.Fatalf("Decrypt() error = %v", err)
	}
	if string(plain) != "GEZDGNBVGY3TQOJQ" {
		t.Fatalf("Decrypt() = %q, want original plaintext", plain)
	}
}

func TestAESGCMEncryptor_ScopeBinding(t *testing.T) {
	enc := testEncryptor()

	ciphertext, err := enc.Encrypt([]byte("seed"), Scope{UserID: 7, Purpose: PurposeTOTPSecret})
	if err != nil {
		t.Fatalf("Encrypt() error = %v", err)
	}

	if _, err := enc.Decrypt(ciphertext, Scope{UserID: 8, Purpose: PurposeTOTPSecret}); !errors.Is(err, ErrDecryptFailed) {
		t.Fatalf("Decrypt() with another user's scope: error = %v, want ErrDecryptFailed", err)
	}
	if _, err := enc.Decrypt(ciphertext, Scope{UserID: 7, Purpose: "other"}); !errors.Is(err, ErrDecryptFailed) {
		t.Fatalf("Decrypt() with another purpose: error = %v, want ErrDecryptFailed", err)
	}
}

func TestAESGCMEncryptor_Tampering(t *testing.T) {
	enc := testEncryptor()
	scope := Scope{UserID: 7, Purpose: PurposeTOTPSecret}

	ciphertext, err := enc.Encrypt([]byte("seed"), scope)
	if err != nil {
		t.Fatalf("Encrypt() error = %v", err)
	}

	ciphertext[len(ciphertext)-1] ^= 0x01

	if _, err := enc.Decrypt(ciphertext, scope); !errors.Is(err, ErrDecryptFailed) {
		t.Fatalf("Decrypt() of tampered ciphertext: error = %v, want ErrDecryptFailed", err)
	}
}

func TestAESGCMEncryptor_InvalidInput(t *testing.T) {
	scope := Scope{UserID: 7, Purpose: PurposeTOTPSecret}

	t.Run("empty plaintext", func(t *testing.T) {
		if _, err := testEncryptor().Encrypt(nil, scope); !errors.Is(err, ErrPlaintextEmpty) {
			t.Fatalf("error = %v, want ErrPlaintextEmpty", err)
		}
	})

	t.Run("short ciphertext", func(t *testing.T) {
		if _, err := testEncryptor().Decrypt([]byte{0, 1, 2}, scope); !errors.Is(err, ErrCiphertextTooShort) {
			t.Fatalf("error = %v, want ErrCiphertextTooShort", err)
		}
	})

	t.Run("bad key length", func(t *testing.T) {
		enc := NewAESGCMEncryptor(StaticKeyProvider{KeyBytes: []byte("short")})
		if _, err := enc.Encrypt([]byte("seed"), scope); !errors.Is(err, ErrInvalidKeyLength) {
			t.Fatalf("error = %v, want ErrInvalidKeyLength", err)
		}
	})

	t.Run("missing key", func(t *testing.T) {
		enc := NewAESGCMEncryptor(StaticKeyProvider{})
		if _, err := enc.Encrypt([]byte("seed"), scope); !errors.Is(err, ErrMissingStaticKey) {
			t.Fatalf("error = %v, want ErrMissingStaticKey", err)
		}
	})
}
