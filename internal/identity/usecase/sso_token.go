package usecase

import (
	"context"
	"log/slog"

	"github.com/shandysiswandi/gosso/internal/pkg/goerror"
)

type IssueAppTokenOutput struct {
	AccessToken string
}

// IssueAppToken exchanges the caller's session for a signed assertion that
// relying applications can verify without calling back.
func (s *Usecase) IssueAppToken(ctx context.Context) (*IssueAppTokenOutput, error) {
	ctx, span := s.startSpan(ctx, "IssueAppToken")
	defer span.End()

	auth, err := s.requireAuth(ctx)
	if err != nil {
		return nil, err
	}

	token, err := s.jwt.Generate(auth.UserID, auth.Username, auth.Email)
	if err != nil {
		slog.ErrorContext(ctx, "failed to sign app token", "user_id", auth.UserID, "error", err)
		return nil, goerror.NewServer(err)
	}

	return &IssueAppTokenOutput{AccessToken: token}, nil
}
