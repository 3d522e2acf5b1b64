package usecase

import (
	"context"
	"fmt"
	"log/slog"
	"net/url"

	"github.com/shandysiswandi/gosso/internal/pkg/mail"
	"github.com/shandysiswandi/gosso/internal/shared/event"
)

// SendPasswordResetEmail mails the reset link requested through the forgot
// password flow.
func (s *Usecase) SendPasswordResetEmail(ctx context.Context, msg event.PasswordResetRequestedMessage) error {
	ctx, span := s.startSpan(ctx, "SendPasswordResetEmail")
	defer span.End()

	link := s.webLink("/reset-password", "token="+url.QueryEscape(msg.ResetToken))

	body := fmt.Sprintf(
		"Hi,\n\n"+
			"A password reset was requested for your account. Open the link below to\n"+
			"choose a new password:\n\n"+
			"%s\n\n"+
			"The link expires shortly. If you did not request this, ignore this message\n"+
			"and your password stays unchanged.\n",
		link,
	)

	err := s.email.Send(ctx, mail.Message{
		To:       []string{msg.Email},
		Subject:  "Reset your password",
		TextBody: body,
	})
	if err != nil {
		slog.ErrorContext(ctx, "failed to send password reset email", "user_id", msg.UserID, "error", err)
		return err
	}

	return nil
}
