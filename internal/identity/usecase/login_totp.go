package usecase

import (
	"context"
	"errors"
	"log/slog"

	"github.com/shandysiswandi/gosso/internal/identity/entity"
	"github.com/shandysiswandi/gosso/internal/pkg/goerror"
)

type LoginTOTPInput struct {
	SessionToken string `validate:"required"`
	Code         string `validate:"required,len=6,numeric"`
}

type LoginTOTPOutput struct {
	SessionToken string
	Session      *entity.Session
}

// LoginTOTP completes a password-verified session with the second factor.
// Failed codes increment the durable per-user counter; the lockout threshold
// from configuration is enforced here, not in VerifyTotp.
func (s *Usecase) LoginTOTP(ctx context.Context, in LoginTOTPInput) (*LoginTOTPOutput, error) {
	ctx, span := s.startSpan(ctx, "LoginTOTP")
	defer span.End()

	if err := s.validator.Validate(in); err != nil {
		return nil, goerror.NewInvalidInput(err)
	}

	session, err := s.GetSession(ctx, in.SessionToken)
	if errors.Is(err, goerror.ErrNotFound) {
		slog.WarnContext(ctx, "totp login for unknown session")
		return nil, goerror.NewBusiness("invalid or expired session", goerror.CodeUnauthorized)
	}
	if err != nil {
		return nil, err
	}

	user, err := s.repoDB.GetUserByUsername(ctx, session.Username)
	if errors.Is(err, goerror.ErrNotFound) {
		slog.WarnContext(ctx, "session user not found", "username", session.Username)
		return nil, goerror.NewBusiness("invalid or expired session", goerror.CodeUnauthorized)
	}
	if err != nil {
		slog.ErrorContext(ctx, "failed to repo get user by username", "username", session.Username, "error", err)
		return nil, goerror.NewServer(err)
	}

	if maxAttempts := s.cfg.GetInt("modules.identity.totp_max_failed_attempts"); maxAttempts > 0 &&
		user.FailedTOTPAttempts >= int32(maxAttempts) {
		slog.WarnContext(ctx, "totp attempts exceeded", "user_id", user.ID, "attempts", user.FailedTOTPAttempts)
		return nil, goerror.NewBusiness("too many failed codes, account locked", goerror.CodeTooManyRequest)
	}

	ok, err := s.VerifyTotp(ctx, user, in.Code)
	if err != nil {
		return nil, err
	}
	if !ok {
		if err := s.AddFailedTotpAttempt(ctx, user); err != nil {
			return nil, err
		}
		return nil, goerror.NewBusiness("invalid code", goerror.CodeUnauthorized)
	}

	if err := s.SetSessionAuthenticated(ctx, in.SessionToken); err != nil {
		return nil, err
	}
	session.Authenticated = true

	return &LoginTOTPOutput{
		SessionToken: in.SessionToken,
		Session:      session,
	}, nil
}
