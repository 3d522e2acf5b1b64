package usecase

import "context"

// Logout destroys the caller's session. A session that is already gone is
// treated as a successful logout.
func (s *Usecase) Logout(ctx context.Context) error {
	ctx, span := s.startSpan(ctx, "Logout")
	defer span.End()

	auth, err := s.requireAuth(ctx)
	if err != nil {
		return err
	}

	return s.DeleteSession(ctx, auth.SessionToken)
}
