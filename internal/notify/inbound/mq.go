package inbound

import (
	"context"
	"log/slog"
	"time"

	"github.com/samber/lo"
	"github.com/sethvargo/go-retry"
	"github.com/shandysiswandi/gosso/internal/pkg/config"
	"github.com/shandysiswandi/gosso/internal/pkg/goroutine"
	"github.com/shandysiswandi/gosso/internal/pkg/instrument"
	"github.com/shandysiswandi/gosso/internal/pkg/messaging"
	"github.com/shandysiswandi/gosso/internal/shared/event"
)

type uc interface {
	SendRegistrationEmail(ctx context.Context, msg event.UserRegisteredMessage) error
	SendPasswordResetEmail(ctx context.Context, msg event.PasswordResetRequestedMessage) error
}

type consume struct {
	uc  uc
	ins instrument.Instrumentation
}

// RegisterMQConsumer subscribes the notify handlers to their event sources.
// Each consumer retries its subscription with backoff so a broker that comes
// up after the app does not wedge startup.
func RegisterMQConsumer(
	ctx context.Context,
	cfg config.Config,
	routine *goroutine.Manager,
	messenger messaging.Messaging,
	u uc,
	ins instrument.Instrumentation,
) {
	c := consume{uc: u, ins: ins}

	consumers := []struct {
		source  string
		name    string
		handler messaging.Handler
		options []messaging.ConsumeOption
	}{
		{
			source:  event.UserRegisteredDestination,
			name:    event.UserRegisteredConsumerNotify,
			handler: c.handleUserRegistered,
			options: []messaging.ConsumeOption{
				messaging.WithQueueGroup(event.UserRegisteredConsumerNotify),
				messaging.WithGroup(event.UserRegisteredConsumerNotify),
				messaging.WithAutoAck(true),
				messaging.WithConcurrency(int(cfg.GetUint("modules.notify.consumer_concurrency"))),
			},
		},
		{
			source:  event.PasswordResetRequestedDestination,
			name:    event.PasswordResetRequestedConsumerNotify,
			handler: c.handlePasswordResetRequested,
			options: []messaging.ConsumeOption{
				messaging.WithQueueGroup(event.PasswordResetRequestedConsumerNotify),
				messaging.WithGroup(event.PasswordResetRequestedConsumerNotify),
				messaging.WithAutoAck(true),
				messaging.WithConcurrency(int(cfg.GetUint("modules.notify.consumer_concurrency"))),
			},
		},
	}

	enabled := cfg.GetArray("modules.notify.consumer_names")

	for _, con := range consumers {
		if len(enabled) > 0 && !lo.Contains(enabled, con.name) {
			slog.InfoContext(ctx, "notify consumer disabled", "consumer", con.name)
			continue
		}

		routine.Go(ctx, func(ctx context.Context) error {
			backoff := retry.WithMaxRetries(5, retry.NewExponential(time.Second))

			err := retry.Do(ctx, backoff, func(ctx context.Context) error {
				if err := messenger.Consume(ctx, con.source, con.handler, con.options...); err != nil {
					slog.WarnContext(ctx, "consumer subscription failed, retrying",
						"consumer", con.name, "error", err)
					return retry.RetryableError(err)
				}
				return nil
			})
			if err != nil {
				slog.ErrorContext(ctx, "consumer subscription gave up", "consumer", con.name, "error", err)
			}

			return err
		})
	}
}
