package usecase

import (
	"context"
	"errors"
	"log/slog"
	"strings"

	"github.com/shandysiswandi/gosso/internal/identity/entity"
	"github.com/shandysiswandi/gosso/internal/pkg/goerror"
)

type PasswordForgotInput struct {
	Email string `validate:"required,email"`
}

// PasswordForgot starts the reset flow. Unknown addresses succeed silently so
// the endpoint cannot be used to probe which emails are registered.
func (s *Usecase) PasswordForgot(ctx context.Context, in PasswordForgotInput) error {
	ctx, span := s.startSpan(ctx, "PasswordForgot")
	defer span.End()

	if err := s.validator.Validate(in); err != nil {
		return goerror.NewInvalidInput(err)
	}

	email := strings.ToLower(strings.TrimSpace(in.Email))

	user, err := s.repoDB.GetUserByEmail(ctx, email)
	if errors.Is(err, goerror.ErrNotFound) {
		slog.WarnContext(ctx, "password forgot for unknown email")
		return nil
	}
	if err != nil {
		slog.ErrorContext(ctx, "failed to repo get user by email", "error", err)
		return goerror.NewServer(err)
	}

	if err := s.repoDB.DeletePasswordResetsByEmail(ctx, email); err != nil && !errors.Is(err, goerror.ErrNotFound) {
		slog.ErrorContext(ctx, "failed to repo delete stale password resets", "error", err)
		return goerror.NewServer(err)
	}

	rawToken, tokenHash, err := s.newToken()
	if err != nil {
		slog.ErrorContext(ctx, "failed to mint reset token", "error", err)
		return goerror.NewServer(err)
	}

	_, err = s.repoDB.CreatePasswordReset(ctx, entity.PasswordReset{
		ID:        s.uid.Generate(),
		Token:     tokenHash,
		Email:     email,
		ExpiresAt: s.clock.Now().Add(s.cfg.GetMinute("modules.identity.password_reset_ttl_minutes")),
	})
	if err != nil {
		slog.ErrorContext(ctx, "failed to repo create password reset", "error", err)
		return goerror.NewServer(err)
	}

	err = s.repoMessaging.PublishPasswordResetRequested(ctx, PasswordResetRequestedEvent{
		UserID:     user.ID,
		Email:      email,
		ResetToken: rawToken,
	})
	if err != nil {
		slog.ErrorContext(ctx, "failed to publish password reset requested", "user_id", user.ID, "error", err)
	}

	return nil
}

// GetPasswordReset resolves a raw reset token, deleting it and reporting not
// found when it has expired.
func (s *Usecase) GetPasswordReset(ctx context.Context, rawToken string) (*entity.PasswordReset, error) {
	ctx, span := s.startSpan(ctx, "GetPasswordReset")
	defer span.End()

	if rawToken == "" {
		return nil, goerror.NewInvalidInput(nil, "token", "must not be empty")
	}

	return lookupToken(ctx, s, rawToken,
		s.repoDB.FindPasswordResetByToken,
		s.repoDB.DeletePasswordResetByToken,
	)
}

type ResetPasswordInput struct {
	Token       string `validate:"required"`
	NewPassword string `validate:"required,password"`
}

// ResetPassword replaces the credential named by a live reset token. The new
// hash is written and the token consumed in one transaction, and every open
// session for the user is revoked.
func (s *Usecase) ResetPassword(ctx context.Context, in ResetPasswordInput) error {
	ctx, span := s.startSpan(ctx, "ResetPassword")
	defer span.End()

	if err := s.validator.Validate(in); err != nil {
		return goerror.NewInvalidInput(err)
	}

	reset, err := s.GetPasswordReset(ctx, in.Token)
	if errors.Is(err, goerror.ErrNotFound) {
		return goerror.NewBusiness("invalid or expired reset token", goerror.CodeNotFound)
	}
	if err != nil {
		return err
	}

	user, err := s.repoDB.GetUserByEmail(ctx, reset.Email)
	if errors.Is(err, goerror.ErrNotFound) {
		slog.WarnContext(ctx, "password reset for vanished user")
		return goerror.NewBusiness("invalid or expired reset token", goerror.CodeNotFound)
	}
	if err != nil {
		slog.ErrorContext(ctx, "failed to repo get user by email", "error", err)
		return goerror.NewServer(err)
	}

	hashed, salt, err := s.password.Hash(in.NewPassword)
	if err != nil {
		slog.ErrorContext(ctx, "failed to hash new password", "error", err)
		return goerror.NewServer(err)
	}

	if err := s.repoDB.ResetUserPassword(ctx, user.ID, hashed, salt, reset.Token); err != nil {
		slog.ErrorContext(ctx, "failed to repo reset user password", "user_id", user.ID, "error", err)
		return goerror.NewServer(err)
	}

	if err := s.repoDB.DeleteSessionsByUsername(ctx, user.Username); err != nil && !errors.Is(err, goerror.ErrNotFound) {
		slog.ErrorContext(ctx, "failed to repo revoke sessions", "user_id", user.ID, "error", err)
		return goerror.NewServer(err)
	}

	return nil
}
