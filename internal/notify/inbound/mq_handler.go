package inbound

import (
	"context"
	"encoding/json"
	"log/slog"

	"github.com/shandysiswandi/gosso/internal/pkg/instrument"
	"github.com/shandysiswandi/gosso/internal/pkg/messaging"
	"github.com/shandysiswandi/gosso/internal/shared/event"
)

const keyOfCorrelationID = "cID"

// ensureCorrelationID restores the publisher's correlation ID from the
// message headers so consumer logs line up with the originating request.
func ensureCorrelationID(ctx context.Context, msg messaging.Message) context.Context {
	for _, h := range msg.Headers() {
		if h.Key == keyOfCorrelationID && len(h.Value) > 0 {
			return instrument.SetCorrelationID(ctx, string(h.Value))
		}
	}
	return ctx
}

// Malformed payloads are dropped, not returned as errors: redelivery cannot
// fix a message that never parses.
func (c consume) handleUserRegistered(ctx context.Context, msg messaging.Message) error {
	ctx = ensureCorrelationID(ctx, msg)
	ctx, span := c.ins.Tracer("notify.inbound.mq").Start(ctx, "HandleUserRegistered")
	defer span.End()

	var payload event.UserRegisteredMessage
	if err := json.Unmarshal(msg.Body(), &payload); err != nil {
		slog.WarnContext(ctx, "dropping malformed user registered message", "error", err)
		return nil
	}

	return c.uc.SendRegistrationEmail(ctx, payload)
}

func (c consume) handlePasswordResetRequested(ctx context.Context, msg messaging.Message) error {
	ctx = ensureCorrelationID(ctx, msg)
	ctx, span := c.ins.Tracer("notify.inbound.mq").Start(ctx, "HandlePasswordResetRequested")
	defer span.End()

	var payload event.PasswordResetRequestedMessage
	if err := json.Unmarshal(msg.Body(), &payload); err != nil {
		slog.WarnContext(ctx, "dropping malformed password reset message", "error", err)
		return nil
	}

	return c.uc.SendPasswordResetEmail(ctx, payload)
}
