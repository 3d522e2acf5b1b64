package usecase

import (
	"context"
	"testing"

	"github.com/shandysiswandi/gosso/internal/pkg/goerror"
)

func TestUsecase_Register(t *testing.T) {
	t.Run("creates the account and publishes the confirmation event", func(t *testing.T) {
		// Arrange
		f := newFixture(t, nil)

		// Act
		err := f.uc.Register(context.Background(), RegisterInput{
			Username: "Alice",
			Email:    "Alice@Example.com",
			Password: "correct-horse",
		})

		// Assert
		if err != nil {
			t.Fatalf("Register() error = %v", err)
		}
		user, err := f.repo.GetUserByUsername(context.Background(), "alice")
		if err != nil {
			t.Fatalf("GetUserByUsername() error = %v", err)
		}
		if user.Email != "alice@example.com" {
			t.Fatalf("user email = %q, want normalized lowercase", user.Email)
		}
		if user.EmailConfirmed {
			t.Fatal("new registration starts email-confirmed")
		}
		if len(f.mq.registered) != 1 {
			t.Fatalf("published events = %d, want 1", len(f.mq.registered))
		}
		event := f.mq.registered[0]
		if event.UserID != user.ID || event.Email != user.Email {
			t.Fatalf("event = %+v, want user %d", event, user.ID)
		}
		conf, err := f.uc.GetEmailConfirmation(context.Background(), event.ConfirmationToken)
		if err != nil {
			t.Fatalf("GetEmailConfirmation() for published token error = %v", err)
		}
		if conf.Email != user.Email {
			t.Fatalf("confirmation email = %q, want %q", conf.Email, user.Email)
		}
	})

	t.Run("rejects a taken username", func(t *testing.T) {
		// Arrange
		f := newFixture(t, nil)
		f.registerUser(t, "alice", "alice@example.com", "correct-horse")

		// Act
		err := f.uc.Register(context.Background(), RegisterInput{
			Username: "alice",
			Email:    "other@example.com",
			Password: "correct-horse",
		})

		// Assert
		wantCode(t, err, goerror.CodeConflict)
		if len(f.mq.registered) != 0 {
			t.Fatalf("published events = %d, want 0", len(f.mq.registered))
		}
	})

	t.Run("absorbs a duplicate in-flight submission", func(t *testing.T) {
		// Arrange
		f := newFixtureIdemp(t, nil, dupIdemp{})

		// Act
		err := f.uc.Register(context.Background(), RegisterInput{
			Username: "alice",
			Email:    "alice@example.com",
			Password: "correct-horse",
		})

		// Assert
		wantCode(t, err, goerror.CodeConflict)
	})

	t.Run("rejects invalid input", func(t *testing.T) {
		tests := []struct {
			name  string
			input RegisterInput
		}{
			{
				name:  "missing everything",
				input: RegisterInput{},
			},
			{
				name:  "malformed email",
				input: RegisterInput{Username: "alice", Email: "not-an-email", Password: "correct-horse"},
			},
			{
				name:  "short password",
				input: RegisterInput{Username: "alice", Email: "alice@example.com", Password: "short"},
			},
			{
				name:  "bad username characters",
				input: RegisterInput{Username: "al ice!", Email: "alice@example.com", Password: "correct-horse"},
			},
		}

		for _, tc := range tests {
			t.Run(tc.name, func(t *testing.T) {
				// Arrange
				f := newFixture(t, nil)

				// Act
				err := f.uc.Register(context.Background(), tc.input)

				// Assert
				wantCode(t, err, goerror.CodeInvalidInput)
			})
		}
	})
}

func TestUsecase_CreateUser(t *testing.T) {
	t.Run("hashes the password with a per-user salt", func(t *testing.T) {
		// Arrange
		f := newFixture(t, nil)

		// Act
		out, err := f.uc.CreateUser(context.Background(), CreateUserInput{
			Username: "alice",
			Email:    "alice@example.com",
			Password: "correct-horse",
		})

		// Assert
		if err != nil {
			t.Fatalf("CreateUser() error = %v", err)
		}
		if !out.User.HasPassword() {
			t.Fatal("user has no stored credential")
		}
		if string(out.User.PasswordHash) == "correct-horse" {
			t.Fatal("password stored in the clear")
		}
	})

	t.Run("federated account carries no credential and starts confirmed", func(t *testing.T) {
		// Arrange
		f := newFixture(t, nil)

		// Act
		out, err := f.uc.CreateUser(context.Background(), CreateUserInput{
			Username: "alice",
			Email:    "alice@example.com",
			Dummy:    true,
		})

		// Assert
		if err != nil {
			t.Fatalf("CreateUser() error = %v", err)
		}
		if out.User.HasPassword() {
			t.Fatal("federated account stored a credential")
		}
		if !out.User.EmailConfirmed {
			t.Fatal("federated account not email-confirmed")
		}
	})

	t.Run("requires a password for non-federated accounts", func(t *testing.T) {
		// Arrange
		f := newFixture(t, nil)

		// Act
		_, err := f.uc.CreateUser(context.Background(), CreateUserInput{
			Username: "alice",
			Email:    "alice@example.com",
		})

		// Assert
		wantCode(t, err, goerror.CodeInvalidInput)
	})

	t.Run("fills a placeholder avatar when none is given", func(t *testing.T) {
		// Arrange
		f := newFixture(t, nil)

		// Act
		out, err := f.uc.CreateUser(context.Background(), CreateUserInput{
			Username: "alice",
			Email:    "alice@example.com",
			Password: "correct-horse",
		})

		// Assert
		if err != nil {
			t.Fatalf("CreateUser() error = %v", err)
		}
		if out.User.AvatarURL == "" {
			t.Fatal("avatar url empty, want generated placeholder")
		}
	})
}
