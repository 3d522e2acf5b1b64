package hash

import (
	"bytes"
	"testing"
)

func TestPBKDF2_RoundTrip(t *testing.T) {
	// Arrange
	hasher := NewPBKDF2(1000) // low work factor keeps the test fast

	// Act
	hashed, salt, err := hasher.Hash("Sup3rSecret!")

	// Assert
	if err != nil {
		t.Fatalf("Hash() error = %v", err)
	}
	if len(hashed) != 32 {
		t.Fatalf("Hash() key length = %d, want 32", len(hashed))
	}
	if len(salt) != 16 {
		t.Fatalf("Hash() salt length = %d, want 16", len(salt))
	}
	if !hasher.Verify(hashed, salt, "Sup3rSecret!") {
		t.Fatal("Verify() = false for correct password")
	}
}

func TestPBKDF2_VerifyRejects(t *testing.T) {
	hasher := NewPBKDF2(1000)

	hashed, salt, err := hasher.Hash("Sup3rSecret!")
	if err != nil {
		t.Fatalf("Hash() error = %v", err)
	}

	tests := []struct {
		name      string
		hashed    []byte
		salt      []byte
		plaintext string
	}{
		{name: "wrong password", hashed: hashed, salt: salt, plaintext: "wrong"},
		{name: "wrong salt", hashed: hashed, salt: bytes.Repeat([]byte{0xAB}, 16), plaintext: "Sup3rSecret!"},
		{name: "empty hash", hashed: nil, salt: salt, plaintext: "Sup3rSecret!"},
		{name: "empty salt", hashed: hashed, salt: nil, plaintext: "Sup3rSecret!"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if hasher.Verify(tt.hashed, tt.salt, tt.plaintext) {
				t.Fatal("Verify() = true, want false")
			}
		})
	}
}

func TestPBKDF2_SaltIsFresh(t *testing.T) {
	hasher := NewPBKDF2(1000)

	h1, s1, err := hasher.Hash("same input")
	if err != nil {
		t.Fatalf("Hash() error = %v", err)
	}
	h2, s2, err := hasher.Hash("same input")
	if err != nil {
		t.Fatalf("Hash() error = %v", err)
	}

	if bytes.Equal(s1, s2) {
		t.Fatal("two Hash() calls produced the same salt")
	}
	if bytes.Equal(h1, h2) {
		t.Fatal("two Hash() calls produced the same hash")
	}
}

func TestNewPBKDF2_DefaultIterations(t *testing.T) {
	hasher := NewPBKDF2(0)
	if hasher.iterations != DefaultPBKDF2Iterations {
		t.Fatalf("iterations = %d, want %d", hasher.iterations, DefaultPBKDF2Iterations)
	}
}
