package usecase

import (
	"context"
	"errors"
	"log/slog"
	"strings"

	"github.com/shandysiswandi/gosso/internal/identity/entity"
	"github.com/shandysiswandi/gosso/internal/pkg/goerror"
)

// CreateEmailConfirmation mints a confirmation token for the address and
// persists only its digest. The raw token is returned once, for delivery.
func (s *Usecase) CreateEmailConfirmation(ctx context.Context, email string) (*entity.EmailConfirmation, string, error) {
	ctx, span := s.startSpan(ctx, "CreateEmailConfirmation")
	defer span.End()

	email = strings.ToLower(strings.TrimSpace(email))

	rawToken, tokenHash, err := s.newToken()
	if err != nil {
		slog.ErrorContext(ctx, "failed to mint confirmation token", "error", err)
		return nil, "", goerror.NewServer(err)
	}

	conf := entity.EmailConfirmation{
		ID:        s.uid.Generate(),
		Token:     tokenHash,
		Email:     email,
		ExpiresAt: s.clock.Now().Add(s.cfg.GetHour("modules.identity.email_confirmation_ttl_hours")),
	}

	created, err := s.repoDB.CreateEmailConfirmation(ctx, conf)
	if err != nil {
		slog.ErrorContext(ctx, "failed to repo create email confirmation", "email", email, "error", err)
		return nil, "", goerror.NewServer(err)
	}

	return created, rawToken, nil
}

// GetEmailConfirmation resolves a raw confirmation token, deleting it and
// reporting not found when it has expired.
func (s *Usecase) GetEmailConfirmation(ctx context.Context, rawToken string) (*entity.EmailConfirmation, error) {
	ctx, span := s.startSpan(ctx, "GetEmailConfirmation")
	defer span.End()

	if rawToken == "" {
		return nil, goerror.NewInvalidInput(nil, "token", "must not be empty")
	}

	return lookupToken(ctx, s, rawToken,
		s.repoDB.FindEmailConfirmationByToken,
		s.repoDB.DeleteEmailConfirmationByToken,
	)
}

type ConfirmEmailInput struct {
	Token string `validate:"required"`
}

// ConfirmEmail marks the address verified and consumes the token in one
// transaction, so a replayed token cannot confirm twice.
func (s *Usecase) ConfirmEmail(ctx context.Context, in ConfirmEmailInput) error {
	ctx, span := s.startSpan(ctx, "ConfirmEmail")
	defer span.End()

	if err := s.validator.Validate(in); err != nil {
		return goerror.NewInvalidInput(err)
	}

	conf, err := s.GetEmailConfirmation(ctx, in.Token)
	if errors.Is(err, goerror.ErrNotFound) {
		return goerror.NewBusiness("invalid or expired confirmation token", goerror.CodeNotFound)
	}
	if err != nil {
		return err
	}

	if err := s.repoDB.ConfirmEmail(ctx, conf.Email, conf.Token); err != nil {
		slog.ErrorContext(ctx, "failed to repo confirm email", "email", conf.Email, "error", err)
		return goerror.NewServer(err)
	}

	return nil
}
