package usecase

import (
	"context"
	"errors"
	"log/slog"
	"strings"

	"github.com/shandysiswandi/gosso/internal/pkg/goerror"
	"github.com/shandysiswandi/gosso/internal/pkg/idempotency"
)

type RegisterInput struct {
	Username string `validate:"required,username"`
	Email    string `validate:"required,email"`
	Password string `validate:"required,password"`
}

// Register is the public sign-up flow: create the account, attach an email
// confirmation, and publish the registration event so the notify module can
// send the confirmation link. Duplicate submissions are absorbed by the
// idempotency tracker keyed on the email.
func (s *Usecase) Register(ctx context.Context, in RegisterInput) error {
	ctx, span := s.startSpan(ctx, "Register")
	defer span.End()

	in.Username = strings.TrimSpace(strings.ToLower(in.Username))
	in.Email = strings.TrimSpace(strings.ToLower(in.Email))

	if err := s.validator.Validate(in); err != nil {
		return goerror.NewInvalidInput(err)
	}

	err := s.idemp.Exec(ctx, "register:"+in.Email, func(ctx context.Context) error {
		out, err := s.CreateUser(ctx, CreateUserInput{
			Username: in.Username,
			Email:    in.Email,
			Password: in.Password,
		})
		if err != nil {
			return err
		}

		conf, rawToken, err := s.CreateEmailConfirmation(ctx, out.User.Email)
		if err != nil {
			return err
		}

		if err := s.repoMessaging.PublishUserRegistered(ctx, UserRegisteredEvent{
			UserID:            out.User.ID,
			Email:             conf.Email,
			Username:          out.User.Username,
			ConfirmationToken: rawToken,
		}); err != nil {
			slog.ErrorContext(ctx, "failed to publish user registered", "user_id", out.User.ID, "error", err)
		}

		return nil
	}, idempotency.WithLockDuration(s.cfg.GetSecond("modules.identity.register_lock_seconds")))

	switch {
	case errors.Is(err, idempotency.ErrAlreadyInProgress),
		errors.Is(err, idempotency.ErrAlreadyCompleted),
		errors.Is(err, idempotency.ErrAlreadyFailed):
		slog.WarnContext(ctx, "duplicate registration submission", "email", in.Email)
		return goerror.NewBusiness("registration already submitted", goerror.CodeConflict)
	default:
		return err
	}
}
