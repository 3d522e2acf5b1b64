package jwt

import (
	"bytes"
	"errors"
	"testing"
	"time"
)

type fixedClock struct{ at time.Time }

func (c fixedClock) Now() time.Time { return c.at }

type fixedUUID struct{ id string }

func (g fixedUUID) Generate() string { return g.id }

func testConfig(now time.Time) Config {
	return Config{
		Secret:    bytes.Repeat([]byte{0x5A}, 64),
		Issuer:    "gosso",
		Audiences: []string{"partner-app"},
		TTL:       15 * time.Minute,
		Clock:     fixedClock{at: now},
		UUID:      fixedUUID{id: "jti-1"},
	}
}

func TestNewHS512_ShortKey(t *testing.T) {
	cfg := testConfig(time.Now())
	cfg.Secret = []byte("too short")

	if _, err := NewHS512(cfg); !errors.Is(err, ErrSigningKeyTooShort) {
		t.Fatalf("NewHS512() error = %v, want ErrSigningKeyTooShort", err)
	}
}

func TestSymmetric_GenerateVerify(t *testing.T) {
	// Arrange
	now := time.Now()
	sym, err := NewHS512(testConfig(now))
	if err != nil {
		t.Fatalf("NewHS512() error = %v", err)
	}

	// Act
	tokenStr, err := sym.Generate(42, "alice", "a@x.com")
	if err != nil {
		t.Fatalf("Generate() error = %v", err)
	}
	claims, err := sym.Verify(tokenStr)

	// Assert
	if err != nil {
		t.Fatalf("Verify() error = %v", err)
	}
	if claims.UserID != 42 {
		t.Fatalf("claims.UserID = %d, want 42", claims.UserID)
	}
	if claims.Username != "alice" {
		t.Fatalf("claims.Username = %q, want alice", claims.Username)
	}
	if claims.UserEmail != "a@x.com" {
		t.Fatalf("claims.UserEmail = %q, want a@x.com", claims.UserEmail)
	}
	if claims.ID != "jti-1" {
		t.Fatalf("claims.ID = %q, want jti-1", claims.ID)
	}
}

func TestSymmetric_Verify_Expired(t *testing.T) {
	past := time.Now().Add(-time.Hour)
	sym, err := NewHS512(testConfig(past))
	if err != nil {
		t.Fatalf("NewHS512() error = %v", err)
	}

	tokenStr, err := sym.Generate(42, "alice", "a@x.com")
	if err != nil {
		t.Fatalf("Generate() error = %v", err)
	}

	if _, err := sym.Verify(tokenStr); !errors.Is(err, ErrTokenExpired) {
		t.Fatalf("Verify() error = %v, want ErrTokenExpired", err)
	}
}

func TestSymmetric_Verify_WrongKey(t *testing.T) {
	now := time.Now()
	signer, err := NewHS512(testConfig(now))
	if err != nil {
		t.Fatalf("NewHS512() error = %v", err)
	}

	otherCfg := testConfig(now)
	otherCfg.Secret = bytes.Repeat([]byte{0xA5}, 64)
	verifier, err := NewHS512(otherCfg)
	if err != nil {
		t.Fatalf("NewHS512() error = %v", err)
	}

	tokenStr, err := signer.Generate(42, "alice", "a@x.com")
	if err != nil {
		t.Fatalf("Generate() error = %v", err)
	}

	if _, err := verifier.Verify(tokenStr); err == nil {
		t.Fatal("Verify() with a different key succeeded")
	}
}
