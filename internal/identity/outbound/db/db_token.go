package db

import (
	"context"
	"errors"

	"github.com/jackc/pgx/v5"
	"github.com/shandysiswandi/gosso/internal/identity/entity"
)

func (d *DB) CreateEmailConfirmation(ctx context.Context, in entity.EmailConfirmation) (conf *entity.EmailConfirmation, err error) {
	ctx, span, cancel := d.startSpan(ctx, "CreateEmailConfirmation")
	defer func() { d.endSpan(span, cancel, err) }()

	query := `INSERT INTO email_confirmations (id, token, email, expires_at) VALUES ($1, $2, $3, $4)`

	if _, err = d.pool.Exec(ctx, query, in.ID, in.Token, in.Email, in.ExpiresAt); err != nil {
		return nil, mapError(err)
	}

	return &in, nil
}

func (d *DB) FindEmailConfirmationByToken(ctx context.Context, token string) (conf *entity.EmailConfirmation, err error) {
	ctx, span, cancel := d.startSpan(ctx, "FindEmailConfirmationByToken")
	defer func() { d.endSpan(span, cancel, err) }()

	query := `SELECT id, token, email, expires_at FROM email_confirmations WHERE token = $1`

	var c entity.EmailConfirmation
	if err = d.pool.QueryRow(ctx, query, token).Scan(&c.ID, &c.Token, &c.Email, &c.ExpiresAt); err != nil {
		return nil, mapError(err)
	}

	return &c, nil
}

func (d *DB) DeleteEmailConfirmationByToken(ctx context.Context, token string) (err error) {
	ctx, span, cancel := d.startSpan(ctx, "DeleteEmailConfirmationByToken")
	defer func() { d.endSpan(span, cancel, err) }()

	query := `DELETE FROM email_confirmations WHERE token = $1`

	return d.execExpectingRow(ctx, query, token)
}

func (d *DB) DeleteEmailConfirmationsByEmail(ctx context.Context, email string) (err error) {
	ctx, span, cancel := d.startSpan(ctx, "DeleteEmailConfirmationsByEmail")
	defer func() { d.endSpan(span, cancel, err) }()

	query := `DELETE FROM email_confirmations WHERE email = $1`

	if _, err = d.pool.Exec(ctx, query, email); err != nil {
		return mapError(err)
	}

	return nil
}

// ConfirmEmail flips the user's verified flag and consumes the confirmation
// token in the same transaction.
func (d *DB) ConfirmEmail(ctx context.Context, email, token string) (err error) {
	ctx, span, cancel := d.startSpan(ctx, "ConfirmEmail")
	defer func() { d.endSpan(span, cancel, err) }()

	tx, err := d.pool.Begin(ctx)
	if err != nil {
		return mapError(err)
	}
	defer func() {
		if rbErr := tx.Rollback(ctx); rbErr != nil && !errors.Is(rbErr, pgx.ErrTxClosed) {
			err = errors.Join(err, rbErr)
		}
	}()

	if _, err = tx.Exec(ctx, `UPDATE users SET email_confirmed = TRUE WHERE email = $1`, email); err != nil {
		return mapError(err)
	}
	if _, err = tx.Exec(ctx, `DELETE FROM email_confirmations WHERE token = $1`, token); err != nil {
		return mapError(err)
	}

	if err = tx.Commit(ctx); err != nil {
		return mapError(err)
	}

	return nil
}

func (d *DB) CreatePasswordReset(ctx context.Context, in entity.PasswordReset) (reset *entity.PasswordReset, err error) {
	ctx, span, cancel := d.startSpan(ctx, "CreatePasswordReset")
	defer func() { d.endSpan(span, cancel, err) }()

	query := `INSERT INTO password_resets (id, token, email, expires_at) VALUES ($1, $2, $3, $4)`

	if _, err = d.pool.Exec(ctx, query, in.ID, in.Token, in.Email, in.ExpiresAt); err != nil {
		return nil, mapError(err)
	}

	return &in, nil
}

func (d *DB) FindPasswordResetByToken(ctx context.Context, token string) (reset *entity.PasswordReset, err error) {
	ctx, span, cancel := d.startSpan(ctx, "FindPasswordResetByToken")
	defer func() { d.endSpan(span, cancel, err) }()

	query := `SELECT id, token, email, expires_at FROM password_resets WHERE token = $1`

	var r entity.PasswordReset
	if err = d.pool.QueryRow(ctx, query, token).Scan(&r.ID, &r.Token, &r.Email, &r.ExpiresAt); err != nil {
		return nil, mapError(err)
	}

	return &r, nil
}

func (d *DB) DeletePasswordResetByToken(ctx context.Context, token string) (err error) {
	ctx, span, cancel := d.startSpan(ctx, "DeletePasswordResetByToken")
	defer func() { d.endSpan(span, cancel, err) }()

	query := `DELETE FROM password_resets WHERE token = $1`

	return d.execExpectingRow(ctx, query, token)
}

func (d *DB) DeletePasswordResetsByEmail(ctx context.Context, email string) (err error) {
	ctx, span, cancel := d.startSpan(ctx, "DeletePasswordResetsByEmail")
	defer func() { d.endSpan(span, cancel, err) }()

	query := `DELETE FROM password_resets WHERE email = $1`

	if _, err = d.pool.Exec(ctx, query, email); err != nil {
		return mapError(err)
	}

	return nil
}

// ResetUserPassword writes the new credential and consumes the reset token
// in the same transaction, so a token can never be spent twice.
func (d *DB) ResetUserPassword(ctx context.Context, userID int64, hashed, salt []byte, resetToken string) (err error) {
	ctx, span, cancel := d.startSpan(ctx, "ResetUserPassword")
	defer func() { d.endSpan(span, cancel, err) }()

	tx, err := d.pool.Begin(ctx)
	if err != nil {
		return mapError(err)
	}
	defer func() {
		if rbErr := tx.Rollback(ctx); rbErr != nil && !errors.Is(rbErr, pgx.ErrTxClosed) {
			err = errors.Join(err, rbErr)
		}
	}()

	query := `UPDATE users SET password_hash = $2, password_salt = $3 WHERE id = $1`
	if _, err = tx.Exec(ctx, query, userID, hashed, salt); err != nil {
		return mapError(err)
	}
	if _, err = tx.Exec(ctx, `DELETE FROM password_resets WHERE token = $1`, resetToken); err != nil {
		return mapError(err)
	}

	if err = tx.Commit(ctx); err != nil {
		return mapError(err)
	}

	return nil
}
