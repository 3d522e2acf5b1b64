package usecase

import (
	"context"
	"errors"
	"testing"

	"github.com/shandysiswandi/gosso/internal/pkg/goerror"
)

func TestUsecase_DeleteUser(t *testing.T) {
	t.Run("archives the account and destroys its sessions", func(t *testing.T) {
		// Arrange
		f := newFixture(t, nil)
		user := f.registerUser(t, "alice", "alice@example.com", "correct-horse")
		login, err := f.uc.Login(context.Background(), LoginInput{Username: "alice", Password: "correct-horse"})
		if err != nil {
			t.Fatalf("Login() error = %v", err)
		}

		// Act
		err = f.uc.DeleteUser(authContext(user, login.SessionToken))

		// Assert
		if err != nil {
			t.Fatalf("DeleteUser() error = %v", err)
		}
		if _, getErr := f.repo.GetUserByID(context.Background(), user.ID); !errors.Is(getErr, goerror.ErrNotFound) {
			t.Fatalf("user still active, error = %v", getErr)
		}
		if _, getErr := f.uc.GetSession(context.Background(), login.SessionToken); !errors.Is(getErr, goerror.ErrNotFound) {
			t.Fatalf("session survived account deletion, error = %v", getErr)
		}
		f.repo.mu.Lock()
		archived := len(f.repo.deleted)
		f.repo.mu.Unlock()
		if archived != 1 {
			t.Fatalf("archived rows = %d, want 1", archived)
		}
	})

	t.Run("requires authentication", func(t *testing.T) {
		// Arrange
		f := newFixture(t, nil)

		// Act
		err := f.uc.DeleteUser(context.Background())

		// Assert
		wantCode(t, err, goerror.CodeUnauthorized)
	})

	t.Run("reports a vanished account", func(t *testing.T) {
		// Arrange
		f := newFixture(t, nil)
		user := f.registerUser(t, "alice", "alice@example.com", "correct-horse")
		ctx := authContext(user, "")
		if err := f.uc.DeleteUser(ctx); err != nil {
			t.Fatalf("first DeleteUser() error = %v", err)
		}

		// Act
		err := f.uc.DeleteUser(ctx)

		// Assert
		wantCode(t, err, goerror.CodeNotFound)
	})
}
