package db

import (
	"context"
	"time"
)

// PruneExpiredTokens sweeps sessions, email confirmations, and password
// resets whose expiry has passed. Lookups already delete expired rows on
// read; this catches the ones nobody ever asked for again.
func (d *DB) PruneExpiredTokens(ctx context.Context, now time.Time) (pruned int64, err error) {
	ctx, span, cancel := d.startSpan(ctx, "PruneExpiredTokens")
	defer func() { d.endSpan(span, cancel, err) }()

	queries := []string{
		`DELETE FROM sessions WHERE expires_at <= $1`,
		`DELETE FROM email_confirmations WHERE expires_at <= $1`,
		`DELETE FROM password_resets WHERE expires_at <= $1`,
	}

	for _, query := range queries {
		tag, execErr := d.pool.Exec(ctx, query, now)
		if execErr != nil {
			return pruned, mapError(execErr)
		}
		pruned += tag.RowsAffected()
	}

	return pruned, nil
}
