package usecase

import (
	"context"
	"errors"
	"testing"

	"github.com/shandysiswandi/gosso/internal/pkg/goerror"
)

func TestUsecase_Login(t *testing.T) {
	t.Run("opens authenticated session when user has no authenticator", func(t *testing.T) {
		// Arrange
		f := newFixture(t, nil)
		f.registerUser(t, "alice", "alice@example.com", "correct-horse")

		// Act
		out, err := f.uc.Login(context.Background(), LoginInput{
			Username: "alice",
			Password: "correct-horse",
		})

		// Assert
		if err != nil {
			t.Fatalf("Login() error = %v", err)
		}
		if out.SessionToken == "" {
			t.Fatal("Login() returned empty session token")
		}
		if out.TOTPRequired {
			t.Fatal("Login() TOTPRequired = true, want false")
		}
		if !out.Session.Authenticated {
			t.Fatal("Login() session not authenticated")
		}
	})

	t.Run("opens pending session when authenticator is enabled", func(t *testing.T) {
		// Arrange
		f := newFixture(t, nil)
		user := f.registerUser(t, "alice", "alice@example.com", "correct-horse")
		f.enableTotp(t, user)

		// Act
		out, err := f.uc.Login(context.Background(), LoginInput{
			Username: "alice",
			Password: "correct-horse",
		})

		// Assert
		if err != nil {
			t.Fatalf("Login() error = %v", err)
		}
		if !out.TOTPRequired {
			t.Fatal("Login() TOTPRequired = false, want true")
		}
		if out.Session.Authenticated {
			t.Fatal("Login() session authenticated before second factor")
		}
	})

	t.Run("normalizes username case", func(t *testing.T) {
		// Arrange
		f := newFixture(t, nil)
		f.registerUser(t, "alice", "alice@example.com", "correct-horse")

		// Act
		out, err := f.uc.Login(context.Background(), LoginInput{
			Username: "  ALICE",
			Password: "correct-horse",
		})

		// Assert
		if err != nil {
			t.Fatalf("Login() error = %v", err)
		}
		if out.Session.Username != "alice" {
			t.Fatalf("session username = %q, want %q", out.Session.Username, "alice")
		}
	})

	t.Run("rejects wrong password", func(t *testing.T) {
		// Arrange
		f := newFixture(t, nil)
		f.registerUser(t, "alice", "alice@example.com", "correct-horse")

		// Act
		_, err := f.uc.Login(context.Background(), LoginInput{
			Username: "alice",
			Password: "wrong-battery",
		})

		// Assert
		wantCode(t, err, goerror.CodeUnauthorized)
	})

	t.Run("rejects unknown user with the same error as wrong password", func(t *testing.T) {
		// Arrange
		f := newFixture(t, nil)

		// Act
		_, err := f.uc.Login(context.Background(), LoginInput{
			Username: "nobody",
			Password: "whatever1",
		})

		// Assert
		wantCode(t, err, goerror.CodeUnauthorized)
	})

	t.Run("rejects empty input", func(t *testing.T) {
		// Arrange
		f := newFixture(t, nil)

		// Act
		_, err := f.uc.Login(context.Background(), LoginInput{})

		// Assert
		wantCode(t, err, goerror.CodeInvalidInput)
	})
}

func TestUsecase_VerifyToken(t *testing.T) {
	t.Run("binds identity for an authenticated session", func(t *testing.T) {
		// Arrange
		f := newFixture(t, nil)
		user := f.registerUser(t, "alice", "alice@example.com", "correct-horse")
		out, err := f.uc.Login(context.Background(), LoginInput{Username: "alice", Password: "correct-horse"})
		if err != nil {
			t.Fatalf("Login() error = %v", err)
		}

		// Act
		ctx, err := f.uc.VerifyToken(context.Background(), out.SessionToken)

		// Assert
		if err != nil {
			t.Fatalf("VerifyToken() error = %v", err)
		}
		auth, authErr := f.uc.requireAuth(ctx)
		if authErr != nil {
			t.Fatalf("requireAuth() error = %v", authErr)
		}
		if auth.UserID != user.ID || auth.Username != "alice" {
			t.Fatalf("auth = %+v, want user %d alice", auth, user.ID)
		}
	})

	t.Run("rejects a session pending the second factor", func(t *testing.T) {
		// Arrange
		f := newFixture(t, nil)
		user := f.registerUser(t, "alice", "alice@example.com", "correct-horse")
		f.enableTotp(t, user)
		out, err := f.uc.Login(context.Background(), LoginInput{Username: "alice", Password: "correct-horse"})
		if err != nil {
			t.Fatalf("Login() error = %v", err)
		}

		// Act
		_, err = f.uc.VerifyToken(context.Background(), out.SessionToken)

		// Assert
		wantCode(t, err, goerror.CodeUnauthorized)
	})

	t.Run("rejects an unknown token", func(t *testing.T) {
		// Arrange
		f := newFixture(t, nil)

		// Act
		_, err := f.uc.VerifyToken(context.Background(), "no-such-token")

		// Assert
		if !errors.Is(err, goerror.ErrNotFound) {
			t.Fatalf("VerifyToken() error = %v, want ErrNotFound", err)
		}
	})
}
