package usecase

import (
	"context"
	"errors"
	"log/slog"

	"github.com/shandysiswandi/gosso/internal/pkg/goerror"
	"github.com/shandysiswandi/gosso/internal/pkg/mfa"
)

type GenerateTotpSecretOutput struct {
	Secret string
	URI    string
}

// GenerateTotpSecret provisions a fresh authenticator secret for the caller.
// The secret is stored encrypted and stays unverified until ConfirmTotp; an
// unconfirmed secret may be regenerated, a confirmed one may not.
func (s *Usecase) GenerateTotpSecret(ctx context.Context) (*GenerateTotpSecretOutput, error) {
	ctx, span := s.startSpan(ctx, "GenerateTotpSecret")
	defer span.End()

	auth, err := s.requireAuth(ctx)
	if err != nil {
		return nil, err
	}

	user, err := s.repoDB.GetUserByID(ctx, auth.UserID)
	if errors.Is(err, goerror.ErrNotFound) {
		return nil, goerror.NewBusiness("user not found", goerror.CodeNotFound)
	}
	if err != nil {
		slog.ErrorContext(ctx, "failed to repo get user by id", "user_id", auth.UserID, "error", err)
		return nil, goerror.NewServer(err)
	}

	if user.TOTPConfirmed {
		return nil, goerror.NewPrecondition("authenticator already enabled")
	}

	secret, uri, err := s.totp.Generate(user.Email)
	if err != nil {
		slog.ErrorContext(ctx, "failed to generate totp secret", "user_id", user.ID, "error", err)
		return nil, goerror.NewServer(err)
	}

	encrypted, err := s.mfaEncryptor.Encrypt([]byte(secret), mfa.Scope{
		UserID:  user.ID,
		Purpose: mfa.PurposeTOTPSecret,
	})
	if err != nil {
		slog.ErrorContext(ctx, "failed to encrypt totp secret", "user_id", user.ID, "error", err)
		return nil, goerror.NewServer(err)
	}

	if err := s.repoDB.UpdateUserTOTPSecret(ctx, user.ID, encrypted); err != nil {
		slog.ErrorContext(ctx, "failed to repo update totp secret", "user_id", user.ID, "error", err)
		return nil, goerror.NewServer(err)
	}

	return &GenerateTotpSecretOutput{Secret: secret, URI: uri}, nil
}
