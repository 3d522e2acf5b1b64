package mfa

// Purpose identifies what a piece of encrypted MFA material is for.
type Purpose string

// PurposeTOTPSecret scopes encryption to TOTP shared secrets at rest.
const PurposeTOTPSecret Purpose = "totp_secret"

// Scope binds encryption to MFA-specific identifiers.
// It is used as AAD (Additional Authenticated Data) in AES-GCM, so ciphertext
// for one user or purpose cannot be decrypted under another.
type Scope struct {
	// UserID is the user identifier for scoping.
	UserID int64
	// Purpose is the encryption purpose.
	Purpose Purpose
}
