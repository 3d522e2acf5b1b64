package usecase

import (
	"context"
	"fmt"
	"log/slog"
	"net/url"

	"github.com/shandysiswandi/gosso/internal/pkg/mail"
	"github.com/shandysiswandi/gosso/internal/shared/event"
)

// SendRegistrationEmail mails the confirmation link for a fresh account.
func (s *Usecase) SendRegistrationEmail(ctx context.Context, msg event.UserRegisteredMessage) error {
	ctx, span := s.startSpan(ctx, "SendRegistrationEmail")
	defer span.End()

	link := s.webLink("/confirm-email", "token="+url.QueryEscape(msg.ConfirmationToken))

	body := fmt.Sprintf(
		"Hi %s,\n\n"+
			"Welcome aboard. Confirm your email address by opening the link below:\n\n"+
			"%s\n\n"+
			"If you did not create this account, you can ignore this message.\n",
		msg.Username, link,
	)

	err := s.email.Send(ctx, mail.Message{
		To:       []string{msg.Email},
		Subject:  "Confirm your email address",
		TextBody: body,
	})
	if err != nil {
		slog.ErrorContext(ctx, "failed to send registration email", "user_id", msg.UserID, "error", err)
		return err
	}

	return nil
}
