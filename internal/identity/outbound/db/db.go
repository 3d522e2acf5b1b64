package db

import (
	"context"
	"errors"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/shandysiswandi/gosso/internal/pkg/config"
	"github.com/shandysiswandi/gosso/internal/pkg/goerror"
	"github.com/shandysiswandi/gosso/internal/pkg/instrument"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
)

const defaultQueryTimeout = 10 * time.Second

// DB is the postgres-backed persistence layer for the identity module.
// Every call runs under a deadline so a stalled store surfaces as a timeout
// instead of hanging the request.
type DB struct {
	pool    *pgxpool.Pool
	ins     instrument.Instrumentation
	timeout time.Duration
}

func New(pool *pgxpool.Pool, cfg config.Config, ins instrument.Instrumentation) *DB {
	timeout := cfg.GetSecond("database.query_timeout_seconds")
	if timeout <= 0 {
		timeout = defaultQueryTimeout
	}

	return &DB{pool: pool, ins: ins, timeout: timeout}
}

func (d *DB) startSpan(ctx context.Context, name string) (context.Context, trace.Span, context.CancelFunc) {
	ctx, span := d.ins.Tracer("identity.outbound.db").Start(ctx, name)
	ctx, cancel := context.WithTimeout(ctx, d.timeout)

	return ctx, span, cancel
}

func (d *DB) endSpan(span trace.Span, cancel context.CancelFunc, err error) {
	cancel()
	if err != nil && !errors.Is(err, goerror.ErrNotFound) {
		span.SetStatus(codes.Error, err.Error())
		span.RecordError(err)
	}
	span.End()
}

func mapError(err error) error {
	if err == nil {
		return nil
	}

	if errors.Is(err, pgx.ErrNoRows) {
		return goerror.ErrNotFound
	}

	if errors.Is(err, context.DeadlineExceeded) {
		return goerror.ErrTimeout
	}

	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) && pgErr.Code == "23505" {
		return goerror.ErrConflict
	}

	return err
}
