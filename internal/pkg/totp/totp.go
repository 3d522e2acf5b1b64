package totp

import (
	"crypto/subtle"
	"errors"
	"time"

	"github.com/pquerna/otp"
	"github.com/pquerna/otp/totp"
)

var (
	// ErrEmptySecret is returned when the shared secret is empty.
	ErrEmptySecret = errors.New("totp: secret must not be empty")

	// ErrBadCode is returned when a code does not have the configured number
	// of decimal digits.
	ErrBadCode = errors.New("totp: code must be exactly the configured digits")

	// ErrNegativeTime is returned when the reference time is before the Unix epoch.
	ErrNegativeTime = errors.New("totp: time must not be negative")
)

// TOTP defines the contract for time-based one-time password operations.
type TOTP interface {
	// Generate creates a secret and provisioning URI for an account name.
	Generate(accountName string) (secret string, uri string, err error)

	// GenerateCode creates a code for the given secret and time.
	GenerateCode(secret string, at time.Time) (string, error)

	// Validate checks whether a code is valid at any second within the
	// tolerance window around the given time.
	Validate(code, secret string, at time.Time) (bool, error)
}

// Engine implements TOTP on top of HMAC-SHA1 per RFC 6238.
//
// Validation scans every candidate second in [at-window, at+window] rather
// than whole time-step buckets, so a code near a step boundary stays valid
// for the full window on both sides.
type Engine struct {
	issuer     string
	period     uint
	window     uint // tolerance in seconds on each side of the reference time
	digits     otp.Digits
	secretSize uint
}

// NewEngine constructs an Engine with sensible defaults.
//
// If digits is not 6 or 8, it falls back to 6 digits. A zero period becomes
// the common 30-second period, a zero window becomes 30 seconds, and a zero
// secretSize becomes 10 bytes.
func NewEngine(issuer string, period, window uint, digits otp.Digits, secretSize uint) *Engine {
	if digits != otp.DigitsSix && digits != otp.DigitsEight {
		digits = otp.DigitsSix
	}

	if period == 0 {
		period = 30
	}

	if window == 0 {
		window = 30
	}

	if secretSize == 0 {
		secretSize = 10
	}

	return &Engine{
		issuer:     issuer,
		period:     period,
		window:     window,
		digits:     digits,
		secretSize: secretSize,
	}
}

// Generate creates a secret and provisioning URI for an account name.
//
// The secret comes from a cryptographically secure random source and is
// base-32 encoded inside the returned URI.
func (e *Engine) Generate(accountName string) (secret string, uri string, err error) {
	key, err := totp.Generate(totp.GenerateOpts{
		Issuer:      e.issuer,
		AccountName: accountName,
		Period:      e.period,
		SecretSize:  e.secretSize,
		Digits:      e.digits,
		Algorithm:   otp.AlgorithmSHA1,
	})
	if err != nil {
		return "", "", err
	}

	return key.Secret(), key.URL(), nil
}

// GenerateCode creates a code for the given secret and time.
func (e *Engine) GenerateCode(secret string, at time.Time) (string, error) {
	if secret == "" {
		return "", ErrEmptySecret
	}

	if at.Unix() < 0 {
		return "", ErrNegativeTime
	}

	return totp.GenerateCodeCustom(secret, at, e.opts())
}

// Validate checks whether a code is valid at any second within the tolerance
// window around the given time.
//
// Neighboring seconds usually share a time counter, so each counter is only
// evaluated once. Comparison is constant time per candidate.
func (e *Engine) Validate(code, secret string, at time.Time) (bool, error) {
	if secret == "" {
		return false, ErrEmptySecret
	}

	if err := e.checkDigits(code); err != nil {
		return false, err
	}

	if at.Unix() < 0 {
		return false, ErrNegativeTime
	}

	ref := at.Unix()
	window := int64(e.window)
	period := int64(e.period)

	match := false
	seen := make(map[int64]struct{}, 2*window/period+2)

	for delta := -window; delta <= window; delta++ {
		candidate := ref + delta
		if candidate < 0 {
			continue
		}

		counter := candidate / period
		if _, ok := seen[counter]; ok {
			continue
		}
		seen[counter] = struct{}{}

		expected, err := totp.GenerateCodeCustom(secret, time.Unix(candidate, 0).UTC(), e.opts())
		if err != nil {
			return false, err
		}

		if subtle.ConstantTimeCompare([]byte(expected), []byte(code)) == 1 {
			match = true // keep scanning so timing does not depend on the match position
		}
	}

	return match, nil
}

func (e *Engine) checkDigits(code string) error {
	if len(code) != e.digits.Length() {
		return ErrBadCode
	}

	for _, r := range code {
		if r < '0' || r > '9' {
			return ErrBadCode
		}
	}

	return nil
}

func (e *Engine) opts() totp.ValidateOpts {
	return totp.ValidateOpts{
		Period:    e.period,
		Skew:      0,
		Digits:    e.digits,
		Algorithm: otp.AlgorithmSHA1,
	}
}
