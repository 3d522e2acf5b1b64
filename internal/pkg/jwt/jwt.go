package jwt

import (
	"errors"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

// Token construction and verification errors.
var (
	ErrInvalidSigningMethod = errors.New("invalid JWT signing method")
	ErrSigningKeyTooShort   = errors.New("HS512 signing key must be at least 64 bytes (512 bits)")
	ErrTokenExpired         = errors.New("JWT token has expired")
	ErrInvalidToken         = errors.New("invalid token")
)

// JWT issues and checks signed assertions for authenticated users; the
// two operations the rest of the service needs.
type JWT interface {
	Generate(uid int64, username, email string) (string, error)
	Verify(tokenStr string) (Claims, error)
}

type clocker interface {
	Now() time.Time
}

type generator interface {
	Generate() string
}

// Config defines the inputs for building a JWT implementation.
type Config struct {
	Secret    []byte        // HMAC signing key
	Issuer    string        // iss claim
	Audiences []string      // accepted aud values
	TTL       time.Duration // token lifetime
	Clock     clocker       // current time source
	UUID      generator     // jti generator
}

// Claims carries the user payload alongside the registered claims.
type Claims struct {
	jwt.RegisteredClaims
	UserID    int64  `json:"user_id,string"`
	Username  string `json:"username"`
	UserEmail string `json:"user_email"`
}
