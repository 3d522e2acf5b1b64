package totp

import (
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/pquerna/otp"
)

// rfcSecret is the RFC 6238 appendix B shared secret ("12345678901234567890")
// in base-32 form.
const rfcSecret = "GEZDGNBVGY3TQOJQGEZDGNBVGY3TQOJQ"

func TestEngine_GenerateCode_KnownVector(t *testing.T) {
	// Arrange
	engine := NewEngine("gosso", 30, 30, otp.DigitsSix, 10)

	// Act
	code, err := engine.GenerateCode(rfcSecret, time.Unix(59, 0))

	// Assert
	if err != nil {
		t.Fatalf("GenerateCode() error = %v", err)
	}
	if code != "287082" {
		t.Fatalf("GenerateCode() = %q, want %q", code, "287082")
	}
}

func TestEngine_Validate_Window(t *testing.T) {
	engine := NewEngine("gosso", 30, 30, otp.DigitsSix, 10)

	// Code minted in the 30-second bucket starting at t=990.
	code, err := engine.GenerateCode(rfcSecret, time.Unix(1000, 0))
	if err != nil {
		t.Fatalf("GenerateCode() error = %v", err)
	}

	tests := []struct {
		name string
		at   int64
		want bool
	}{
		{name: "same second", at: 1000, want: true},
		{name: "start of bucket", at: 990, want: true},
		{name: "window reaches back into bucket", at: 1049, want: true},
		{name: "window just past bucket", at: 1050, want: false},
		{name: "window reaches forward into bucket", at: 960, want: true},
		{name: "too far in the past", at: 959, want: false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := engine.Validate(code, rfcSecret, time.Unix(tt.at, 0))
			if err != nil {
				t.Fatalf("Validate() error = %v", err)
			}
			if got != tt.want {
				t.Fatalf("Validate() at t=%d = %v, want %v", tt.at, got, tt.want)
			}
		})
	}
}

func TestEngine_Validate_WrongCode(t *testing.T) {
	engine := NewEngine("gosso", 30, 30, otp.DigitsSix, 10)

	ok, err := engine.Validate("000000", rfcSecret, time.Unix(1000, 0))
	if err != nil {
		t.Fatalf("Validate() error = %v", err)
	}
	if ok {
		t.Fatal("Validate() = true for a wrong code")
	}
}

func TestEngine_Validate_InvalidInput(t *testing.T) {
	engine := NewEngine("gosso", 30, 30, otp.DigitsSix, 10)

	tests := []struct {
		name    string
		code    string
		secret  string
		at      time.Time
		wantErr error
	}{
		{name: "empty secret", code: "287082", secret: "", at: time.Unix(59, 0), wantErr: ErrEmptySecret},
		{name: "short code", code: "12345", secret: rfcSecret, at: time.Unix(59, 0), wantErr: ErrBadCode},
		{name: "long code", code: "1234567", secret: rfcSecret, at: time.Unix(59, 0), wantErr: ErrBadCode},
		{name: "non-digit code", code: "12a456", secret: rfcSecret, at: time.Unix(59, 0), wantErr: ErrBadCode},
		{name: "negative time", code: "287082", secret: rfcSecret, at: time.Unix(-1, 0), wantErr: ErrNegativeTime},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ok, err := engine.Validate(tt.code, tt.secret, tt.at)
			if ok {
				t.Fatal("Validate() = true, want false")
			}
			if !errors.Is(err, tt.wantErr) {
				t.Fatalf("Validate() error = %v, want %v", err, tt.wantErr)
			}
		})
	}
}

func TestEngine_Generate(t *testing.T) {
	engine := NewEngine("gosso", 30, 30, otp.DigitsSix, 10)

	secret, uri, err := engine.Generate("a@x.com")
	if err != nil {
		t.Fatalf("Generate() error = %v", err)
	}
	if secret == "" {
		t.Fatal("Generate() returned an empty secret")
	}
	if !strings.HasPrefix(uri, "otpauth://totp/") {
		t.Fatalf("Generate() uri = %q, want otpauth://totp/ prefix", uri)
	}
	if !strings.Contains(uri, "issuer=gosso") {
		t.Fatalf("Generate() uri = %q, missing issuer", uri)
	}

	// A generated secret must validate its own codes.
	code, err := engine.GenerateCode(secret, time.Unix(2000, 0))
	if err != nil {
		t.Fatalf("GenerateCode() error = %v", err)
	}
	ok, err := engine.Validate(code, secret, time.Unix(2000, 0))
	if err != nil {
		t.Fatalf("Validate() error = %v", err)
	}
	if !ok {
		t.Fatal("Validate() = false for a freshly generated code")
	}
}
