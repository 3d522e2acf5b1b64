package usecase

import (
	"context"
	"log/slog"
	"strings"

	"github.com/shandysiswandi/gosso/internal/identity/entity"
	"github.com/shandysiswandi/gosso/internal/pkg/goerror"
)

// IsFieldUnique reports whether no other user holds the given value for a
// unique field. excludeID skips the caller's own row during updates; pass
// zero to check all users.
func (s *Usecase) IsFieldUnique(ctx context.Context, field entity.UniqueField, value string, excludeID int64) (bool, error) {
	ctx, span := s.startSpan(ctx, "IsFieldUnique")
	defer span.End()

	if !field.Valid() {
		return false, goerror.NewInvalidInput(nil, "field", "must be username or email")
	}

	value = strings.ToLower(strings.TrimSpace(value))
	if value == "" {
		return false, goerror.NewInvalidInput(nil, "value", "must not be empty")
	}

	count, err := s.repoDB.CountUsersByField(ctx, field, value, excludeID)
	if err != nil {
		slog.ErrorContext(ctx, "failed to repo count users by field", "field", field, "error", err)
		return false, goerror.NewServer(err)
	}

	return count == 0, nil
}
