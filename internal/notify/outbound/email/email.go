package email

import (
	"context"

	"github.com/shandysiswandi/gosso/internal/pkg/instrument"
	"github.com/shandysiswandi/gosso/internal/pkg/mail"
	"go.opentelemetry.io/otel/codes"
)

// Email sends notification mail through the configured provider, with a span
// per delivery.
type Email struct {
	client mail.Mail
	ins    instrument.Instrumentation
}

func New(client mail.Mail, ins instrument.Instrumentation) *Email {
	return &Email{client: client, ins: ins}
}

func (e *Email) Send(ctx context.Context, msg mail.Message) error {
	ctx, span := e.ins.Tracer("notify.outbound.email").Start(ctx, "Send")
	defer span.End()

	if err := e.client.Send(ctx, msg); err != nil {
		span.SetStatus(codes.Error, err.Error())
		span.RecordError(err)
		return err
	}

	return nil
}
