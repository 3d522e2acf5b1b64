package usecase

import (
	"context"
	"log/slog"
	"time"
)

const defaultJanitorInterval = 15 * time.Minute

// RunJanitor periodically sweeps expired sessions, confirmation and reset
// tokens, and stale one-time-password claims. It blocks until ctx is done,
// so run it on the app's goroutine manager.
func (s *Usecase) RunJanitor(ctx context.Context) {
	interval := s.cfg.GetMinute("modules.identity.janitor_interval_minutes")
	if interval <= 0 {
		interval = defaultJanitorInterval
	}

	retention := s.cfg.GetMinute("modules.identity.otp_retention_minutes")
	if retention <= 0 {
		retention = time.Hour
	}

	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			s.sweep(ctx, retention)
		}
	}
}

func (s *Usecase) sweep(ctx context.Context, otpRetention time.Duration) {
	ctx, span := s.startSpan(ctx, "JanitorSweep")
	defer span.End()

	now := s.clock.Now()

	tokens, err := s.repoDB.PruneExpiredTokens(ctx, now)
	if err != nil {
		slog.ErrorContext(ctx, "failed to prune expired tokens", "error", err)
	}

	codes, err := s.repoDB.PruneUsedTOTPCodes(ctx, now.Add(-otpRetention))
	if err != nil {
		slog.ErrorContext(ctx, "failed to prune used totp codes", "error", err)
	}

	if tokens > 0 || codes > 0 {
		slog.InfoContext(ctx, "janitor sweep done", "tokens", tokens, "codes", codes)
	}
}
