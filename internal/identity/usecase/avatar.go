package usecase

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"path"
	"strings"

	"github.com/shandysiswandi/gosso/internal/pkg/goerror"
	"github.com/shandysiswandi/gosso/internal/pkg/storage"
)

type UpdateAvatarInput struct {
	FileName    string `validate:"required"`
	ContentType string
	Size        int64
	Body        io.Reader
}

type UpdateAvatarOutput struct {
	AvatarURL string
}

// UpdateAvatar uploads the caller's avatar image and stores a signed URL on
// the profile. Objects are keyed by user id so re-uploads overwrite.
func (s *Usecase) UpdateAvatar(ctx context.Context, in UpdateAvatarInput) (*UpdateAvatarOutput, error) {
	ctx, span := s.startSpan(ctx, "UpdateAvatar")
	defer span.End()

	if err := s.validator.Validate(in); err != nil {
		return nil, goerror.NewInvalidInput(err)
	}
	if in.Body == nil {
		return nil, goerror.NewInvalidInput(nil, "file", "must not be empty")
	}

	ext := strings.ToLower(path.Ext(in.FileName))
	switch ext {
	case ".png", ".jpg", ".jpeg", ".webp":
	default:
		return nil, goerror.NewInvalidInput(nil, "file", "must be a png, jpg, or webp image")
	}

	auth, err := s.requireAuth(ctx)
	if err != nil {
		return nil, err
	}

	bucket := s.cfg.GetString("modules.identity.avatar_bucket")
	key := fmt.Sprintf("avatars/%d%s", auth.UserID, ext)

	_, err = s.storage.PutObject(ctx, bucket, key, in.Body, storage.PutOptions{
		Size:        in.Size,
		ContentType: in.ContentType,
	})
	if err != nil {
		slog.ErrorContext(ctx, "failed to upload avatar", "user_id", auth.UserID, "error", err)
		return nil, goerror.NewServer(err)
	}

	url, err := s.storage.PresignGet(ctx, bucket, key, s.cfg.GetHour("modules.identity.avatar_url_ttl_hours"))
	if err != nil {
		slog.ErrorContext(ctx, "failed to sign avatar url", "user_id", auth.UserID, "error", err)
		return nil, goerror.NewServer(err)
	}

	if err := s.repoDB.UpdateUserAvatar(ctx, auth.UserID, url); err != nil {
		slog.ErrorContext(ctx, "failed to repo update avatar", "user_id", auth.UserID, "error", err)
		return nil, goerror.NewServer(err)
	}

	return &UpdateAvatarOutput{AvatarURL: url}, nil
}
