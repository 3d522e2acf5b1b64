package entity

import "time"

// User is the active identity record. Password hash and salt are empty for
// federated (dummy) accounts; the TOTP secret is stored encrypted.
type User struct {
	ID                 int64
	Username           string
	Email              string
	PasswordHash       []byte
	PasswordSalt       []byte
	TOTPSecret         []byte
	TOTPConfirmed      bool
	FailedTOTPAttempts int32
	EmailConfirmed     bool
	AvatarURL          string
	CreatedAt          time.Time
}

// HasPassword reports whether the account carries a local credential.
func (u *User) HasPassword() bool {
	return len(u.PasswordHash) > 0 && len(u.PasswordSalt) > 0
}

// DeletedUser is the soft-delete record a User moves to on account deletion.
type DeletedUser struct {
	ID        int64
	Username  string
	Email     string
	DeletedAt time.Time
}

// UniqueField names a user column checked for availability.
type UniqueField string

const (
	UniqueFieldUsername UniqueField = "username"
	UniqueFieldEmail    UniqueField = "email"
)

func (f UniqueField) Valid() bool {
	return f == UniqueFieldUsername || f == UniqueFieldEmail
}
