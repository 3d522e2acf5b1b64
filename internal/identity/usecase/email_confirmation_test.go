package usecase

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/shandysiswandi/gosso/internal/pkg/goerror"
)

// registerAndGrabToken signs alice up and returns the raw confirmation token
// from the published event.
func registerAndGrabToken(t *testing.T, f *fixture) string {
	t.Helper()

	err := f.uc.Register(context.Background(), RegisterInput{
		Username: "alice",
		Email:    "alice@example.com",
		Password: "correct-horse",
	})
	if err != nil {
		t.Fatalf("Register() error = %v", err)
	}
	if len(f.mq.registered) != 1 {
		t.Fatalf("published events = %d, want 1", len(f.mq.registered))
	}
	return f.mq.registered[0].ConfirmationToken
}

func TestUsecase_ConfirmEmail(t *testing.T) {
	t.Run("marks the address verified and consumes the token", func(t *testing.T) {
		// Arrange
		f := newFixture(t, nil)
		token := registerAndGrabToken(t, f)

		// Act
		err := f.uc.ConfirmEmail(context.Background(), ConfirmEmailInput{Token: token})

		// Assert
		if err != nil {
			t.Fatalf("ConfirmEmail() error = %v", err)
		}
		user, err := f.repo.GetUserByEmail(context.Background(), "alice@example.com")
		if err != nil {
			t.Fatalf("GetUserByEmail() error = %v", err)
		}
		if !user.EmailConfirmed {
			t.Fatal("user not email-confirmed after ConfirmEmail")
		}
		if _, getErr := f.uc.GetEmailConfirmation(context.Background(), token); !errors.Is(getErr, goerror.ErrNotFound) {
			t.Fatalf("confirmation survives its use, error = %v", getErr)
		}
	})

	t.Run("rejects a replayed token", func(t *testing.T) {
		// Arrange
		f := newFixture(t, nil)
		token := registerAndGrabToken(t, f)
		if err := f.uc.ConfirmEmail(context.Background(), ConfirmEmailInput{Token: token}); err != nil {
			t.Fatalf("first ConfirmEmail() error = %v", err)
		}

		// Act
		err := f.uc.ConfirmEmail(context.Background(), ConfirmEmailInput{Token: token})

		// Assert
		wantCode(t, err, goerror.CodeNotFound)
	})

	t.Run("rejects and deletes an expired token", func(t *testing.T) {
		// Arrange
		f := newFixture(t, map[string]any{"modules.identity.email_confirmation_ttl_hours": 48})
		token := registerAndGrabToken(t, f)
		f.clock.Advance(49 * time.Hour)

		// Act
		err := f.uc.ConfirmEmail(context.Background(), ConfirmEmailInput{Token: token})

		// Assert
		wantCode(t, err, goerror.CodeNotFound)
		f.repo.mu.Lock()
		remaining := len(f.repo.confs)
		f.repo.mu.Unlock()
		if remaining != 0 {
			t.Fatalf("stored confirmations = %d, want 0", remaining)
		}
		user, getErr := f.repo.GetUserByEmail(context.Background(), "alice@example.com")
		if getErr != nil {
			t.Fatalf("GetUserByEmail() error = %v", getErr)
		}
		if user.EmailConfirmed {
			t.Fatal("expired token still confirmed the address")
		}
	})

	t.Run("rejects a garbage token", func(t *testing.T) {
		// Arrange
		f := newFixture(t, nil)

		// Act
		err := f.uc.ConfirmEmail(context.Background(), ConfirmEmailInput{Token: "no-such-token"})

		// Assert
		wantCode(t, err, goerror.CodeNotFound)
	})

	t.Run("rejects an empty token", func(t *testing.T) {
		// Arrange
		f := newFixture(t, nil)

		// Act
		err := f.uc.ConfirmEmail(context.Background(), ConfirmEmailInput{})

		// Assert
		wantCode(t, err, goerror.CodeInvalidInput)
	})
}
