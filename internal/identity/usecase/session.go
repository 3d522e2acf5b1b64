package usecase

import (
	"context"
	"errors"
	"log/slog"
	"net/http"

	"github.com/shandysiswandi/gosso/internal/identity/entity"
	"github.com/shandysiswandi/gosso/internal/pkg/goerror"
)

// CreateSession opens a session for username. The raw token is returned to
// the caller for the client; only its HMAC is stored.
func (s *Usecase) CreateSession(ctx context.Context, username string, authenticated bool) (string, *entity.Session, error) {
	ctx, span := s.startSpan(ctx, "CreateSession")
	defer span.End()

	rawToken, tokenHash, err := s.newToken()
	if err != nil {
		slog.ErrorContext(ctx, "failed to hash session token", "error", err)
		return "", nil, goerror.NewServer(err)
	}

	now := s.clock.Now()
	session, err := s.repoDB.CreateSession(ctx, entity.Session{
		ID:            s.uid.Generate(),
		Token:         tokenHash,
		Username:      username,
		Authenticated: authenticated,
		CreatedAt:     now,
		ExpiresAt:     now.Add(s.cfg.GetMinute("modules.identity.session_ttl_minutes")),
	})
	if err != nil {
		slog.ErrorContext(ctx, "failed to repo create session", "username", username, "error", err)
		return "", nil, goerror.NewServer(err)
	}

	return rawToken, session, nil
}

// GetSession resolves a raw client token to a live session. Expired sessions
// are deleted on lookup and reported as not found.
func (s *Usecase) GetSession(ctx context.Context, rawToken string) (*entity.Session, error) {
	ctx, span := s.startSpan(ctx, "GetSession")
	defer span.End()

	if rawToken == "" {
		return nil, goerror.NewInvalidInput(nil, "token", "token must not be empty")
	}

	session, err := lookupToken(ctx, s, rawToken,
		s.repoDB.FindSessionByToken,
		s.repoDB.DeleteSessionByToken,
	)
	if errors.Is(err, goerror.ErrNotFound) {
		return nil, err
	}
	if err != nil {
		return nil, goerror.NewServer(err)
	}

	return session, nil
}

// SetSessionAuthenticated flags the session after the second factor passes.
func (s *Usecase) SetSessionAuthenticated(ctx context.Context, rawToken string) error {
	ctx, span := s.startSpan(ctx, "SetSessionAuthenticated")
	defer span.End()

	h, err := s.hmac.Hash(rawToken)
	if err != nil {
		slog.ErrorContext(ctx, "failed to hash session token", "error", err)
		return goerror.NewServer(err)
	}

	if err := s.repoDB.SetSessionAuthenticated(ctx, string(h)); err != nil {
		if errors.Is(err, goerror.ErrNotFound) {
			return goerror.ErrNotFound
		}
		slog.ErrorContext(ctx, "failed to repo set session authenticated", "error", err)
		return goerror.NewServer(err)
	}

	return nil
}

// DeleteSession destroys a session by its raw token. Missing sessions are
// not an error; logout is idempotent.
func (s *Usecase) DeleteSession(ctx context.Context, rawToken string) error {
	ctx, span := s.startSpan(ctx, "DeleteSession")
	defer span.End()

	h, err := s.hmac.Hash(rawToken)
	if err != nil {
		slog.ErrorContext(ctx, "failed to hash session token", "error", err)
		return goerror.NewServer(err)
	}

	if err := s.repoDB.DeleteSessionByToken(ctx, string(h)); err != nil && !errors.Is(err, goerror.ErrNotFound) {
		slog.ErrorContext(ctx, "failed to repo delete session", "error", err)
		return goerror.NewServer(err)
	}

	return nil
}

// SessionCookie builds the cookie carrying a raw session token.
func (s *Usecase) SessionCookie(rawToken string) *http.Cookie {
	name := s.cfg.GetString("session.cookie_name")
	if name == "" {
		name = "gosso_session"
	}

	return &http.Cookie{
		Name:     name,
		Value:    rawToken,
		Path:     "/",
		MaxAge:   int(s.cfg.GetMinute("modules.identity.session_ttl_minutes").Seconds()),
		HttpOnly: true,
		Secure:   s.cfg.GetBool("session.cookie_secure"),
		SameSite: http.SameSiteLaxMode,
	}
}

// VerifyToken implements the router's session authentication hook: resolve
// the token, require the authenticated flag, and bind the identity to the
// request context.
func (s *Usecase) VerifyToken(ctx context.Context, rawToken string) (context.Context, error) {
	session, err := s.GetSession(ctx, rawToken)
	if err != nil {
		return nil, err
	}

	if !session.Authenticated {
		return nil, goerror.NewBusiness("session pending second factor", goerror.CodeUnauthorized)
	}

	user, err := s.repoDB.GetUserByUsername(ctx, session.Username)
	if err != nil {
		return nil, err
	}

	return entity.SetAuth(ctx, entity.Auth{
		UserID:       user.ID,
		Username:     user.Username,
		Email:        user.Email,
		SessionToken: rawToken,
	}), nil
}
