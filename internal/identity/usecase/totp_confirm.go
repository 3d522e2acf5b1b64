package usecase

import (
	"context"
	"errors"
	"log/slog"

	"github.com/shandysiswandi/gosso/internal/identity/entity"
	"github.com/shandysiswandi/gosso/internal/pkg/goerror"
	"github.com/shandysiswandi/gosso/internal/pkg/mfa"
)

type ConfirmTotpInput struct {
	Code string `validate:"required,len=6,numeric"`
}

// ConfirmTotp proves possession of the provisioned secret with one valid
// code, after which the second factor becomes mandatory at login.
func (s *Usecase) ConfirmTotp(ctx context.Context, in ConfirmTotpInput) error {
	ctx, span := s.startSpan(ctx, "ConfirmTotp")
	defer span.End()

	if err := s.validator.Validate(in); err != nil {
		return goerror.NewInvalidInput(err)
	}

	auth, err := s.requireAuth(ctx)
	if err != nil {
		return err
	}

	user, err := s.repoDB.GetUserByID(ctx, auth.UserID)
	if errors.Is(err, goerror.ErrNotFound) {
		return goerror.NewBusiness("user not found", goerror.CodeNotFound)
	}
	if err != nil {
		slog.ErrorContext(ctx, "failed to repo get user by id", "user_id", auth.UserID, "error", err)
		return goerror.NewServer(err)
	}

	if user.TOTPConfirmed {
		return goerror.NewPrecondition("authenticator already enabled")
	}
	if len(user.TOTPSecret) == 0 {
		return goerror.NewPrecondition("authenticator setup not started")
	}

	secret, err := s.decryptTotpSecret(ctx, user)
	if err != nil {
		return err
	}

	ok, err := s.totp.Validate(in.Code, secret, s.clock.Now())
	if err != nil {
		slog.WarnContext(ctx, "totp confirm with malformed code", "user_id", user.ID, "error", err)
		return goerror.NewBusiness("invalid code", goerror.CodeUnauthorized)
	}
	if !ok {
		return goerror.NewBusiness("invalid code", goerror.CodeUnauthorized)
	}

	if err := s.repoDB.SetUserTOTPConfirmed(ctx, user.ID); err != nil {
		slog.ErrorContext(ctx, "failed to repo set totp confirmed", "user_id", user.ID, "error", err)
		return goerror.NewServer(err)
	}

	return nil
}

func (s *Usecase) decryptTotpSecret(ctx context.Context, user *entity.User) (string, error) {
	plain, err := s.mfaEncryptor.Decrypt(user.TOTPSecret, mfa.Scope{
		UserID:  user.ID,
		Purpose: mfa.PurposeTOTPSecret,
	})
	if err != nil {
		slog.ErrorContext(ctx, "failed to decrypt totp secret", "user_id", user.ID, "error", err)
		return "", goerror.NewServer(err)
	}
	return string(plain), nil
}
