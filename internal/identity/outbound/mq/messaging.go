package mq

import (
	"context"
	"encoding/json"
	"log/slog"

	"github.com/shandysiswandi/gosso/internal/identity/usecase"
	"github.com/shandysiswandi/gosso/internal/pkg/instrument"
	"github.com/shandysiswandi/gosso/internal/pkg/messaging"
	"github.com/shandysiswandi/gosso/internal/shared/event"
	"go.opentelemetry.io/otel/trace"
)

const keyOfCorrelationID = "cID"

// MQ publishes identity lifecycle events for downstream consumers.
type MQ struct {
	client messaging.Publisher
	ins    instrument.Instrumentation
}

func New(client messaging.Publisher, ins instrument.Instrumentation) *MQ {
	return &MQ{client: client, ins: ins}
}

func (m *MQ) startSpan(ctx context.Context, name string) (context.Context, trace.Span) {
	return m.ins.Tracer("identity.outbound.mq").Start(ctx, name)
}

func (m *MQ) PublishUserRegistered(ctx context.Context, msg usecase.UserRegisteredEvent) error {
	ctx, span := m.startSpan(ctx, "PublishUserRegistered")
	defer span.End()

	return m.publish(ctx, event.UserRegisteredDestination, event.UserRegisteredMessage{
		UserID:            msg.UserID,
		Email:             msg.Email,
		Username:          msg.Username,
		ConfirmationToken: msg.ConfirmationToken,
	})
}

func (m *MQ) PublishPasswordResetRequested(ctx context.Context, msg usecase.PasswordResetRequestedEvent) error {
	ctx, span := m.startSpan(ctx, "PublishPasswordResetRequested")
	defer span.End()

	return m.publish(ctx, event.PasswordResetRequestedDestination, event.PasswordResetRequestedMessage{
		UserID:     msg.UserID,
		Email:      msg.Email,
		ResetToken: msg.ResetToken,
	})
}

func (m *MQ) publish(ctx context.Context, destination string, payload any) error {
	body, err := json.Marshal(payload)
	if err != nil {
		slog.ErrorContext(ctx, "failed to marshal event", "destination", destination, "error", err)
		return err
	}

	_, err = m.client.Publish(ctx, destination, messaging.OutgoingMessage{
		Body: body,
		Headers: []messaging.Header{
			{Key: keyOfCorrelationID, Value: []byte(instrument.GetCorrelationID(ctx))},
		},
	})
	if err != nil {
		slog.ErrorContext(ctx, "failed to publish event", "destination", destination, "error", err)
		return err
	}

	return nil
}
