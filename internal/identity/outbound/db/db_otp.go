package db

import (
	"context"
	"time"

	"github.com/shandysiswandi/gosso/internal/identity/entity"
)

// MarkTOTPCodeUsed claims a code for the user. The insert is the atomicity
// point: two concurrent attempts with the same code race on the primary key
// and exactly one sees the row land.
func (d *DB) MarkTOTPCodeUsed(ctx context.Context, claim entity.UsedTOTPCode) (claimed bool, err error) {
	ctx, span, cancel := d.startSpan(ctx, "MarkTOTPCodeUsed")
	defer func() { d.endSpan(span, cancel, err) }()

	query := `INSERT INTO one_time_passwords (user_id, code, used_at)
		VALUES ($1, $2, $3)
		ON CONFLICT (user_id, code) DO NOTHING`

	tag, err := d.pool.Exec(ctx, query, claim.UserID, claim.Code, claim.UsedAt)
	if err != nil {
		return false, mapError(err)
	}

	return tag.RowsAffected() == 1, nil
}

// PruneUsedTOTPCodes drops claim rows older than the retention horizon.
// Codes outside the acceptance window can never validate again, so their
// claims are dead weight.
func (d *DB) PruneUsedTOTPCodes(ctx context.Context, before time.Time) (pruned int64, err error) {
	ctx, span, cancel := d.startSpan(ctx, "PruneUsedTOTPCodes")
	defer func() { d.endSpan(span, cancel, err) }()

	query := `DELETE FROM one_time_passwords WHERE used_at < $1`

	tag, err := d.pool.Exec(ctx, query, before)
	if err != nil {
		return 0, mapError(err)
	}

	return tag.RowsAffected(), nil
}
