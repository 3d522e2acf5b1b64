package usecase

import (
	"context"
	"errors"
	"log/slog"
	"strings"

	"github.com/shandysiswandi/gosso/internal/identity/entity"
	"github.com/shandysiswandi/gosso/internal/pkg/goerror"
)

type LoginInput struct {
	Username string `validate:"required"`
	Password string `validate:"required"`
}

type LoginOutput struct {
	// SessionToken is the raw client-held token.
	SessionToken string
	Session      *entity.Session
	// TOTPRequired is true when the password was accepted but a second
	// factor is still needed before the session is authenticated.
	TOTPRequired bool
}

// Login verifies the password and opens a session. Users with a confirmed
// TOTP factor get an unauthenticated session until LoginTOTP completes.
func (s *Usecase) Login(ctx context.Context, in LoginInput) (*LoginOutput, error) {
	ctx, span := s.startSpan(ctx, "Login")
	defer span.End()

	in.Username = strings.TrimSpace(strings.ToLower(in.Username))

	if err := s.validator.Validate(in); err != nil {
		return nil, goerror.NewInvalidInput(err)
	}

	user, err := s.repoDB.GetUserByUsername(ctx, in.Username)
	if errors.Is(err, goerror.ErrNotFound) {
		slog.WarnContext(ctx, "user account not found", "username", in.Username)
		return nil, goerror.NewBusiness("invalid username or password", goerror.CodeUnauthorized)
	}
	if err != nil {
		slog.ErrorContext(ctx, "failed to repo get user by username", "username", in.Username, "error", err)
		return nil, goerror.NewServer(err)
	}

	if !user.HasPassword() {
		slog.WarnContext(ctx, "password login for federated account", "user_id", user.ID)
		return nil, goerror.NewBusiness("invalid username or password", goerror.CodeUnauthorized)
	}

	if !s.password.Verify(user.PasswordHash, user.PasswordSalt, in.Password) {
		slog.WarnContext(ctx, "password user account not match", "user_id", user.ID)
		return nil, goerror.NewBusiness("invalid username or password", goerror.CodeUnauthorized)
	}

	rawToken, session, err := s.CreateSession(ctx, user.Username, !user.TOTPConfirmed)
	if err != nil {
		return nil, err
	}

	return &LoginOutput{
		SessionToken: rawToken,
		Session:      session,
		TOTPRequired: user.TOTPConfirmed,
	}, nil
}
