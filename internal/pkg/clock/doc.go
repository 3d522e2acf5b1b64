// Package clock injects the current time.
//
// Anything that compares against now (token expiry, TOTP windows, janitor
// sweeps) takes a Clocker so tests can pin and advance time.
package clock
