package db

import (
	"context"

	"github.com/shandysiswandi/gosso/internal/identity/entity"
)

func (d *DB) CreateSession(ctx context.Context, in entity.Session) (session *entity.Session, err error) {
	ctx, span, cancel := d.startSpan(ctx, "CreateSession")
	defer func() { d.endSpan(span, cancel, err) }()

	query := `INSERT INTO sessions (id, token, username, authenticated, created_at, expires_at)
		VALUES ($1, $2, $3, $4, $5, $6)`

	_, err = d.pool.Exec(ctx, query,
		in.ID, in.Token, in.Username, in.Authenticated, in.CreatedAt, in.ExpiresAt,
	)
	if err != nil {
		return nil, mapError(err)
	}

	return &in, nil
}

func (d *DB) FindSessionByToken(ctx context.Context, token string) (session *entity.Session, err error) {
	ctx, span, cancel := d.startSpan(ctx, "FindSessionByToken")
	defer func() { d.endSpan(span, cancel, err) }()

	query := `SELECT id, token, username, authenticated, created_at, expires_at
		FROM sessions WHERE token = $1`

	var s entity.Session
	err = d.pool.QueryRow(ctx, query, token).
		Scan(&s.ID, &s.Token, &s.Username, &s.Authenticated, &s.CreatedAt, &s.ExpiresAt)
	if err != nil {
		return nil, mapError(err)
	}

	return &s, nil
}

func (d *DB) SetSessionAuthenticated(ctx context.Context, token string) (err error) {
	ctx, span, cancel := d.startSpan(ctx, "SetSessionAuthenticated")
	defer func() { d.endSpan(span, cancel, err) }()

	query := `UPDATE sessions SET authenticated = TRUE WHERE token = $1`

	return d.execExpectingRow(ctx, query, token)
}

func (d *DB) DeleteSessionByToken(ctx context.Context, token string) (err error) {
	ctx, span, cancel := d.startSpan(ctx, "DeleteSessionByToken")
	defer func() { d.endSpan(span, cancel, err) }()

	query := `DELETE FROM sessions WHERE token = $1`

	return d.execExpectingRow(ctx, query, token)
}

func (d *DB) DeleteSessionsByUsername(ctx context.Context, username string) (err error) {
	ctx, span, cancel := d.startSpan(ctx, "DeleteSessionsByUsername")
	defer func() { d.endSpan(span, cancel, err) }()

	query := `DELETE FROM sessions WHERE username = $1`

	if _, err = d.pool.Exec(ctx, query, username); err != nil {
		return mapError(err)
	}

	return nil
}
