package usecase

import (
	"context"
	"log/slog"

	"github.com/shandysiswandi/gosso/internal/identity/entity"
	"github.com/shandysiswandi/gosso/internal/pkg/goerror"
)

// VerifyTotp checks a code against the user's confirmed authenticator. A
// code that passes the time check is then claimed atomically; losing the
// claim means the code was already spent and the verification fails.
func (s *Usecase) VerifyTotp(ctx context.Context, user *entity.User, code string) (bool, error) {
	ctx, span := s.startSpan(ctx, "VerifyTotp")
	defer span.End()

	if err := s.requirePersisted(ctx, user); err != nil {
		return false, err
	}
	if !user.TOTPConfirmed || len(user.TOTPSecret) == 0 {
		return false, goerror.NewPrecondition("authenticator not enabled")
	}

	secret, err := s.decryptTotpSecret(ctx, user)
	if err != nil {
		return false, err
	}

	now := s.clock.Now()

	ok, err := s.totp.Validate(code, secret, now)
	if err != nil {
		slog.WarnContext(ctx, "totp verify with malformed code", "user_id", user.ID, "error", err)
		return false, nil
	}
	if !ok {
		return false, nil
	}

	claimed, err := s.repoDB.MarkTOTPCodeUsed(ctx, entity.UsedTOTPCode{UserID: user.ID, Code: code, UsedAt: now})
	if err != nil {
		slog.ErrorContext(ctx, "failed to repo mark totp code used", "user_id", user.ID, "error", err)
		return false, goerror.NewServer(err)
	}
	if !claimed {
		slog.WarnContext(ctx, "totp code replayed", "user_id", user.ID)
		return false, nil
	}

	return true, nil
}

// AddFailedTotpAttempt bumps the durable failed-code counter and refreshes
// the in-memory copy so callers see the new total.
func (s *Usecase) AddFailedTotpAttempt(ctx context.Context, user *entity.User) error {
	ctx, span := s.startSpan(ctx, "AddFailedTotpAttempt")
	defer span.End()

	if err := s.requirePersisted(ctx, user); err != nil {
		return err
	}

	attempts, err := s.repoDB.IncrementFailedTOTPAttempts(ctx, user.ID)
	if err != nil {
		slog.ErrorContext(ctx, "failed to repo increment totp attempts", "user_id", user.ID, "error", err)
		return goerror.NewServer(err)
	}
	user.FailedTOTPAttempts = attempts

	return nil
}
