// Package jwt issues and verifies the signed tokens handed to relying
// applications.
//
// It carries a typed Claims payload on top of the registered claim set and a
// symmetric HS512 signer. The clock and token-ID generator are injected so
// token lifetimes are testable.
package jwt
