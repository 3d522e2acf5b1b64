package db

import (
	"context"
	"errors"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/shandysiswandi/gosso/internal/identity/entity"
	"github.com/shandysiswandi/gosso/internal/pkg/goerror"
)

const userColumns = `id, username, email, password_hash, password_salt, totp_secret,
	totp_confirmed, failed_totp_attempts, email_confirmed, avatar_url, created_at`

func scanUser(row pgx.Row) (*entity.User, error) {
	var u entity.User
	err := row.Scan(
		&u.ID, &u.Username, &u.Email, &u.PasswordHash, &u.PasswordSalt, &u.TOTPSecret,
		&u.TOTPConfirmed, &u.FailedTOTPAttempts, &u.EmailConfirmed, &u.AvatarURL, &u.CreatedAt,
	)
	if err != nil {
		return nil, mapError(err)
	}

	return &u, nil
}

func (d *DB) GetUserByID(ctx context.Context, id int64) (user *entity.User, err error) {
	ctx, span, cancel := d.startSpan(ctx, "GetUserByID")
	defer func() { d.endSpan(span, cancel, err) }()

	query := `SELECT ` + userColumns + ` FROM users WHERE id = $1`

	return scanUser(d.pool.QueryRow(ctx, query, id))
}

func (d *DB) GetUserByUsername(ctx context.Context, username string) (user *entity.User, err error) {
	ctx, span, cancel := d.startSpan(ctx, "GetUserByUsername")
	defer func() { d.endSpan(span, cancel, err) }()

	query := `SELECT ` + userColumns + ` FROM users WHERE username = $1`

	return scanUser(d.pool.QueryRow(ctx, query, username))
}

func (d *DB) GetUserByEmail(ctx context.Context, email string) (user *entity.User, err error) {
	ctx, span, cancel := d.startSpan(ctx, "GetUserByEmail")
	defer func() { d.endSpan(span, cancel, err) }()

	query := `SELECT ` + userColumns + ` FROM users WHERE email = $1`

	return scanUser(d.pool.QueryRow(ctx, query, email))
}

func (d *DB) CreateUser(ctx context.Context, user entity.User) (err error) {
	ctx, span, cancel := d.startSpan(ctx, "CreateUser")
	defer func() { d.endSpan(span, cancel, err) }()

	query := `INSERT INTO users (` + userColumns + `)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11)`

	_, err = d.pool.Exec(ctx, query,
		user.ID, user.Username, user.Email, user.PasswordHash, user.PasswordSalt, user.TOTPSecret,
		user.TOTPConfirmed, user.FailedTOTPAttempts, user.EmailConfirmed, user.AvatarURL, user.CreatedAt,
	)

	return mapError(err)
}

func (d *DB) CountUsersByField(ctx context.Context, field entity.UniqueField, value string, excludeID int64) (count int64, err error) {
	ctx, span, cancel := d.startSpan(ctx, "CountUsersByField")
	defer func() { d.endSpan(span, cancel, err) }()

	// field is restricted to the UniqueField enum; never interpolate raw input.
	var query string
	switch field {
	case entity.UniqueFieldUsername:
		query = `SELECT COUNT(*) FROM users WHERE username = $1 AND id <> $2`
	case entity.UniqueFieldEmail:
		query = `SELECT COUNT(*) FROM users WHERE email = $1 AND id <> $2`
	default:
		return 0, goerror.ErrNotFound
	}

	if err = d.pool.QueryRow(ctx, query, value, excludeID).Scan(&count); err != nil {
		return 0, mapError(err)
	}

	return count, nil
}

func (d *DB) UpdateUserPassword(ctx context.Context, id int64, hashed, salt []byte) (err error) {
	ctx, span, cancel := d.startSpan(ctx, "UpdateUserPassword")
	defer func() { d.endSpan(span, cancel, err) }()

	query := `UPDATE users SET password_hash = $2, password_salt = $3 WHERE id = $1`

	return d.execExpectingRow(ctx, query, id, hashed, salt)
}

func (d *DB) UpdateUserTOTPSecret(ctx context.Context, id int64, secret []byte) (err error) {
	ctx, span, cancel := d.startSpan(ctx, "UpdateUserTOTPSecret")
	defer func() { d.endSpan(span, cancel, err) }()

	query := `UPDATE users SET totp_secret = $2, totp_confirmed = FALSE, failed_totp_attempts = 0
		WHERE id = $1`

	return d.execExpectingRow(ctx, query, id, secret)
}

func (d *DB) SetUserTOTPConfirmed(ctx context.Context, id int64) (err error) {
	ctx, span, cancel := d.startSpan(ctx, "SetUserTOTPConfirmed")
	defer func() { d.endSpan(span, cancel, err) }()

	query := `UPDATE users SET totp_confirmed = TRUE, failed_totp_attempts = 0 WHERE id = $1`

	return d.execExpectingRow(ctx, query, id)
}

func (d *DB) IncrementFailedTOTPAttempts(ctx context.Context, id int64) (attempts int32, err error) {
	ctx, span, cancel := d.startSpan(ctx, "IncrementFailedTOTPAttempts")
	defer func() { d.endSpan(span, cancel, err) }()

	query := `UPDATE users SET failed_totp_attempts = failed_totp_attempts + 1
		WHERE id = $1
		RETURNING failed_totp_attempts`

	if err = d.pool.QueryRow(ctx, query, id).Scan(&attempts); err != nil {
		return 0, mapError(err)
	}

	return attempts, nil
}

func (d *DB) SetUserEmailConfirmed(ctx context.Context, email string) (err error) {
	ctx, span, cancel := d.startSpan(ctx, "SetUserEmailConfirmed")
	defer func() { d.endSpan(span, cancel, err) }()

	query := `UPDATE users SET email_confirmed = TRUE WHERE email = $1`

	return d.execExpectingRow(ctx, query, email)
}

func (d *DB) UpdateUserAvatar(ctx context.Context, id int64, avatarURL string) (err error) {
	ctx, span, cancel := d.startSpan(ctx, "UpdateUserAvatar")
	defer func() { d.endSpan(span, cancel, err) }()

	query := `UPDATE users SET avatar_url = $2 WHERE id = $1`

	return d.execExpectingRow(ctx, query, id, avatarURL)
}

// MoveUserToDeleted archives the account and purges everything keyed to it
// in one transaction.
func (d *DB) MoveUserToDeleted(ctx context.Context, user *entity.User, deletedAt time.Time) (err error) {
	ctx, span, cancel := d.startSpan(ctx, "MoveUserToDeleted")
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

	statements := []struct {
		query string
		args  []any
	}{
		{
			query: `INSERT INTO deleted_users (id, username, email, deleted_at) VALUES ($1, $2, $3, $4)`,
			args:  []any{user.ID, user.Username, user.Email, deletedAt},
		},
		{query: `DELETE FROM sessions WHERE username = $1`, args: []any{user.Username}},
		{query: `DELETE FROM email_confirmations WHERE email = $1`, args: []any{user.Email}},
		{query: `DELETE FROM password_resets WHERE email = $1`, args: []any{user.Email}},
		{query: `DELETE FROM one_time_passwords WHERE user_id = $1`, args: []any{user.ID}},
		{query: `DELETE FROM users WHERE id = $1`, args: []any{user.ID}},
	}

	for _, st := range statements {
		if _, err = tx.Exec(ctx, st.query, st.args...); err != nil {
			return mapError(err)
		}
	}

	if err = tx.Commit(ctx); err != nil {
		return mapError(err)
	}

	return nil
}

// execExpectingRow runs a statement that must touch exactly one row and
// reports not found when it touches none.
func (d *DB) execExpectingRow(ctx context.Context, query string, args ...any) error {
	tag, err := d.pool.Exec(ctx, query, args...)
	if err != nil {
		return mapError(err)
	}
	if tag.RowsAffected() == 0 {
		return goerror.ErrNotFound
	}

	return nil
}
