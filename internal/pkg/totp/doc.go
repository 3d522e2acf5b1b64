// Package totp generates and validates time-based one-time passwords.
//
// It is used for 2FA enrollment and verification: generate a secret plus a
// provisioning URI for an authenticator app, then validate user-supplied
// codes with a configurable tolerance window around the current time.
package totp
