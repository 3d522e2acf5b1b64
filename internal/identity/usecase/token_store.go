package usecase

import (
	"context"
	"errors"
	"log/slog"
	"time"

	"github.com/shandysiswandi/gosso/internal/pkg/goerror"
)

// expirable is the contract shared by all token-keyed records.
type expirable interface {
	Expiration() time.Time
}

// newToken mints an opaque random token and its at-rest hash. The raw value
// goes to the client; only the hash is stored.
func (s *Usecase) newToken() (raw, hashed string, err error) {
	raw = s.uuid.Generate()
	h, err := s.hmac.Hash(raw)
	if err != nil {
		return "", "", err
	}
	return raw, string(h), nil
}

// lookupToken finds a record by its raw token, deleting it and reporting
// goerror.ErrNotFound when the expiration has passed. Expired records are
// indistinguishable from absent ones to the caller.
func lookupToken[T expirable](
	ctx context.Context,
	s *Usecase,
	rawToken string,
	find func(ctx context.Context, tokenHash string) (T, error),
	deleteByToken func(ctx context.Context, tokenHash string) error,
) (T, error) {
	var zero T

	h, err := s.hmac.Hash(rawToken)
	if err != nil {
		slog.ErrorContext(ctx, "failed to hash lookup token", "error", err)
		return zero, err
	}
	tokenHash := string(h)

	record, err := find(ctx, tokenHash)
	if err != nil {
		return zero, err
	}

	if !record.Expiration().After(s.clock.Now()) {
		if err := deleteByToken(ctx, tokenHash); err != nil && !errors.Is(err, goerror.ErrNotFound) {
			slog.ErrorContext(ctx, "failed to delete expired token record", "error", err)
			return zero, err
		}
		return zero, goerror.ErrNotFound
	}

	return record, nil
}
