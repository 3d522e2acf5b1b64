// Package validator wraps struct validation behind a one-method interface.
//
// Usecases validate their Input structs through the Validator interface; the
// go-playground v10 implementation with the custom password and username
// rules lives here.
package validator
