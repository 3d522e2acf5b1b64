package usecase

import (
	"context"
	"testing"
	"time"

	"github.com/shandysiswandi/gosso/internal/pkg/goerror"
)

func TestUsecase_PasswordForgot(t *testing.T) {
	t.Run("publishes a reset event for a known address", func(t *testing.T) {
		// Arrange
		f := newFixture(t, nil)
		user := f.registerUser(t, "alice", "alice@example.com", "correct-horse")

		// Act
		err := f.uc.PasswordForgot(context.Background(), PasswordForgotInput{Email: "Alice@Example.com"})

		// Assert
		if err != nil {
			t.Fatalf("PasswordForgot() error = %v", err)
		}
		if len(f.mq.resets) != 1 {
			t.Fatalf("published events = %d, want 1", len(f.mq.resets))
		}
		event := f.mq.resets[0]
		if event.UserID != user.ID || event.Email != "alice@example.com" {
			t.Fatalf("event = %+v, want user %d", event, user.ID)
		}
		if _, err := f.uc.GetPasswordReset(context.Background(), event.ResetToken); err != nil {
			t.Fatalf("GetPasswordReset() for published token error = %v", err)
		}
	})

	t.Run("succeeds silently for an unknown address", func(t *testing.T) {
		// Arrange
		f := newFixture(t, nil)

		// Act
		err := f.uc.PasswordForgot(context.Background(), PasswordForgotInput{Email: "nobody@example.com"})

		// Assert
		if err != nil {
			t.Fatalf("PasswordForgot() error = %v", err)
		}
		if len(f.mq.resets) != 0 {
			t.Fatalf("published events = %d, want 0", len(f.mq.resets))
		}
	})

	t.Run("supersedes earlier outstanding resets", func(t *testing.T) {
		// Arrange
		f := newFixture(t, nil)
		f.registerUser(t, "alice", "alice@example.com", "correct-horse")
		if err := f.uc.PasswordForgot(context.Background(), PasswordForgotInput{Email: "alice@example.com"}); err != nil {
			t.Fatalf("first PasswordForgot() error = %v", err)
		}

		// Act
		err := f.uc.PasswordForgot(context.Background(), PasswordForgotInput{Email: "alice@example.com"})

		// Assert
		if err != nil {
			t.Fatalf("second PasswordForgot() error = %v", err)
		}
		first := f.mq.resets[0].ResetToken
		if _, getErr := f.uc.GetPasswordReset(context.Background(), first); getErr == nil {
			t.Fatal("first reset token still live after second request")
		}
		second := f.mq.resets[1].ResetToken
		if _, getErr := f.uc.GetPasswordReset(context.Background(), second); getErr != nil {
			t.Fatalf("second reset token not live, error = %v", getErr)
		}
	})

	t.Run("rejects a malformed address", func(t *testing.T) {
		// Arrange
		f := newFixture(t, nil)

		// Act
		err := f.uc.PasswordForgot(context.Background(), PasswordForgotInput{Email: "not-an-email"})

		// Assert
		wantCode(t, err, goerror.CodeInvalidInput)
	})
}

func TestUsecase_ResetPassword(t *testing.T) {
	// requestReset runs the forgot flow and returns the raw reset token.
	requestReset := func(t *testing.T, f *fixture) string {
		t.Helper()
		if err := f.uc.PasswordForgot(context.Background(), PasswordForgotInput{Email: "alice@example.com"}); err != nil {
			t.Fatalf("PasswordForgot() error = %v", err)
		}
		if len(f.mq.resets) == 0 {
			t.Fatal("no reset event published")
		}
		return f.mq.resets[len(f.mq.resets)-1].ResetToken
	}

	t.Run("replaces the credential and revokes sessions", func(t *testing.T) {
		// Arrange
		f := newFixture(t, nil)
		f.registerUser(t, "alice", "alice@example.com", "correct-horse")
		login, err := f.uc.Login(context.Background(), LoginInput{Username: "alice", Password: "correct-horse"})
		if err != nil {
			t.Fatalf("Login() error = %v", err)
		}
		token := requestReset(t, f)

		// Act
		err = f.uc.ResetPassword(context.Background(), ResetPasswordInput{
			Token:       token,
			NewPassword: "battery-staple",
		})

		// Assert
		if err != nil {
			t.Fatalf("ResetPassword() error = %v", err)
		}
		if _, loginErr := f.uc.Login(context.Background(), LoginInput{Username: "alice", Password: "correct-horse"}); loginErr == nil {
			t.Fatal("old password still accepted")
		}
		if _, loginErr := f.uc.Login(context.Background(), LoginInput{Username: "alice", Password: "battery-staple"}); loginErr != nil {
			t.Fatalf("new password rejected, error = %v", loginErr)
		}
		if _, getErr := f.uc.GetSession(context.Background(), login.SessionToken); getErr == nil {
			t.Fatal("pre-reset session survived the reset")
		}
	})

	t.Run("consumes the token on use", func(t *testing.T) {
		// Arrange
		f := newFixture(t, nil)
		f.registerUser(t, "alice", "alice@example.com", "correct-horse")
		token := requestReset(t, f)
		if err := f.uc.ResetPassword(context.Background(), ResetPasswordInput{
			Token:       token,
			NewPassword: "battery-staple",
		}); err != nil {
			t.Fatalf("first ResetPassword() error = %v", err)
		}

		// Act
		err := f.uc.ResetPassword(context.Background(), ResetPasswordInput{
			Token:       token,
			NewPassword: "third-password",
		})

		// Assert
		wantCode(t, err, goerror.CodeNotFound)
	})

	t.Run("rejects and deletes an expired token", func(t *testing.T) {
		// Arrange
		f := newFixture(t, map[string]any{"modules.identity.password_reset_ttl_minutes": 30})
		f.registerUser(t, "alice", "alice@example.com", "correct-horse")
		token := requestReset(t, f)
		f.clock.Advance(31 * time.Minute)

		// Act
		err := f.uc.ResetPassword(context.Background(), ResetPasswordInput{
			Token:       token,
			NewPassword: "battery-staple",
		})

		// Assert
		wantCode(t, err, goerror.CodeNotFound)
		if _, loginErr := f.uc.Login(context.Background(), LoginInput{Username: "alice", Password: "correct-horse"}); loginErr != nil {
			t.Fatalf("old password no longer works after failed reset, error = %v", loginErr)
		}
	})

	t.Run("rejects a weak replacement password", func(t *testing.T) {
		// Arrange
		f := newFixture(t, nil)
		f.registerUser(t, "alice", "alice@example.com", "correct-horse")
		token := requestReset(t, f)

		// Act
		err := f.uc.ResetPassword(context.Background(), ResetPasswordInput{
			Token:       token,
			NewPassword: "short",
		})

		// Assert
		wantCode(t, err, goerror.CodeInvalidInput)
	})
}
