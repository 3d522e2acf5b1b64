// Package mail abstracts outgoing email delivery.
//
// Callers depend on the Mail interface and the Message payload only, so the
// delivery mechanism can change without touching usecases. The SMTP client in
// this package is the default implementation.
package mail
