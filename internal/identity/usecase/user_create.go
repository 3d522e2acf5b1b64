package usecase

import (
	"context"
	"errors"
	"log/slog"
	"net/url"
	"strings"

	"github.com/shandysiswandi/gosso/internal/identity/entity"
	"github.com/shandysiswandi/gosso/internal/pkg/goerror"
)

type CreateUserInput struct {
	Username string `validate:"required,username"`
	Email    string `validate:"required,email"`
	Password string `validate:"omitempty,password"`
	// AvatarURL is optional; a generated placeholder is used when empty.
	AvatarURL string
	// Verified marks the account email-confirmed on creation.
	Verified bool
	// Dummy marks a federated account carrying no local credential.
	Dummy bool
}

type CreateUserOutput struct {
	User *entity.User
}

// CreateUser persists a new account. The password is hashed unless the
// account is federated; verified or federated accounts start email-confirmed.
func (s *Usecase) CreateUser(ctx context.Context, in CreateUserInput) (*CreateUserOutput, error) {
	ctx, span := s.startSpan(ctx, "CreateUser")
	defer span.End()

	in.Username = strings.TrimSpace(strings.ToLower(in.Username))
	in.Email = strings.TrimSpace(strings.ToLower(in.Email))

	if err := s.validator.Validate(in); err != nil {
		return nil, goerror.NewInvalidInput(err)
	}

	if !in.Dummy && in.Password == "" {
		return nil, goerror.NewInvalidInput(nil, "password", "password is required for non-federated accounts")
	}

	var hashed, salt []byte
	if !in.Dummy {
		var err error
		hashed, salt, err = s.password.Hash(in.Password)
		if err != nil {
			slog.ErrorContext(ctx, "failed to hash password", "error", err)
			return nil, goerror.NewServer(err)
		}
	}

	avatarURL := in.AvatarURL
	if avatarURL == "" {
		avatarURL = "https://ui-avatars.com/api/?name=" + url.QueryEscape(in.Username)
	}

	user := entity.User{
		ID:             s.uid.Generate(),
		Username:       in.Username,
		Email:          in.Email,
		PasswordHash:   hashed,
		PasswordSalt:   salt,
		EmailConfirmed: in.Verified || in.Dummy,
		AvatarURL:      avatarURL,
		CreatedAt:      s.clock.Now(),
	}

	if err := s.repoDB.CreateUser(ctx, user); err != nil {
		if errors.Is(err, goerror.ErrConflict) {
			slog.WarnContext(ctx, "user account already exists", "username", in.Username)
			return nil, goerror.NewBusiness("username or email already taken", goerror.CodeConflict)
		}
		slog.ErrorContext(ctx, "failed to repo create user", "username", in.Username, "error", err)
		return nil, goerror.NewServer(err)
	}

	return &CreateUserOutput{User: &user}, nil
}
