package entity

import "time"

// Session is a token-keyed login record. Authenticated stays false until the
// second factor completes (or immediately true when the user has no TOTP).
type Session struct {
	ID            int64
	Token         string // HMAC of the client-held value
	Username      string
	Authenticated bool
	CreatedAt     time.Time
	ExpiresAt     time.Time
}

// Expiration implements the expiring-token contract.
func (s Session) Expiration() time.Time { return s.ExpiresAt }

// EmailConfirmation binds an email address to a pending verification.
// One-shot: deleted on successful confirmation or on expiry.
type EmailConfirmation struct {
	ID        int64
	Token     string // HMAC of the client-held value
	Email     string
	ExpiresAt time.Time
}

func (c EmailConfirmation) Expiration() time.Time { return c.ExpiresAt }

// PasswordReset binds an email address to a pending password reset.
type PasswordReset struct {
	ID        int64
	Token     string // HMAC of the client-held value
	Email     string
	ExpiresAt time.Time
}

func (r PasswordReset) Expiration() time.Time { return r.ExpiresAt }

// UsedTOTPCode records a consumed (user, code) pair for replay protection.
type UsedTOTPCode struct {
	UserID int64
	Code   string
	UsedAt time.Time
}
