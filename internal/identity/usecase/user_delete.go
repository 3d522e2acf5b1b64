package usecase

import (
	"context"
	"errors"
	"log/slog"

	"github.com/shandysiswandi/gosso/internal/pkg/goerror"
)

// DeleteUser retires the caller's account. The row moves to the archive
// table and every session, pending confirmation, and reset token for the
// account is destroyed in the same transaction.
func (s *Usecase) DeleteUser(ctx context.Context) error {
	ctx, span := s.startSpan(ctx, "DeleteUser")
	defer span.End()

	auth, err := s.requireAuth(ctx)
	if err != nil {
		return err
	}

	user, err := s.repoDB.GetUserByID(ctx, auth.UserID)
	if errors.Is(err, goerror.ErrNotFound) {
		return goerror.NewBusiness("user not found", goerror.CodeNotFound)
	}
	if err != nil {
		slog.ErrorContext(ctx, "failed to repo get user by id", "user_id", auth.UserID, "error", err)
		return goerror.NewServer(err)
	}

	if err := s.repoDB.MoveUserToDeleted(ctx, user, s.clock.Now()); err != nil {
		slog.ErrorContext(ctx, "failed to repo move user to deleted", "user_id", user.ID, "error", err)
		return goerror.NewServer(err)
	}

	slog.InfoContext(ctx, "user account deleted", "user_id", user.ID)

	return nil
}
