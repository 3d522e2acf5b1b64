package usecase

import (
	"context"
	"testing"
	"time"

	"github.com/shandysiswandi/gosso/internal/identity/entity"
)

func TestUsecase_JanitorSweep(t *testing.T) {
	t.Run("removes expired tokens and stale code claims", func(t *testing.T) {
		// Arrange
		f := newFixture(t, map[string]any{
			"modules.identity.session_ttl_minutes": 60,
		})
		f.registerUser(t, "alice", "alice@example.com", "correct-horse")
		if _, _, err := f.uc.CreateSession(context.Background(), "alice", true); err != nil {
			t.Fatalf("CreateSession() error = %v", err)
		}
		if _, err := f.repo.MarkTOTPCodeUsed(context.Background(), entity.UsedTOTPCode{UserID: 1, Code: "123456", UsedAt: f.clock.Now()}); err != nil {
			t.Fatalf("MarkTOTPCodeUsed() error = %v", err)
		}
		f.clock.Advance(2 * time.Hour)

		// Act
		f.uc.sweep(context.Background(), time.Hour)

		// Assert
		f.repo.mu.Lock()
		sessions, otps := len(f.repo.sessions), len(f.repo.otps)
		f.repo.mu.Unlock()
		if sessions != 0 {
			t.Fatalf("sessions after sweep = %d, want 0", sessions)
		}
		if otps != 0 {
			t.Fatalf("code claims after sweep = %d, want 0", otps)
		}
	})

	t.Run("keeps live records", func(t *testing.T) {
		// Arrange
		f := newFixture(t, map[string]any{
			"modules.identity.session_ttl_minutes": 60,
		})
		if _, _, err := f.uc.CreateSession(context.Background(), "alice", true); err != nil {
			t.Fatalf("CreateSession() error = %v", err)
		}
		if _, err := f.repo.MarkTOTPCodeUsed(context.Background(), entity.UsedTOTPCode{UserID: 1, Code: "123456", UsedAt: f.clock.Now()}); err != nil {
			t.Fatalf("MarkTOTPCodeUsed() error = %v", err)
		}

		// Act
		f.uc.sweep(context.Background(), time.Hour)

		// Assert
		f.repo.mu.Lock()
		sessions, otps := len(f.repo.sessions), len(f.repo.otps)
		f.repo.mu.Unlock()
		if sessions != 1 {
			t.Fatalf("sessions after sweep = %d, want 1", sessions)
		}
		if otps != 1 {
			t.Fatalf("code claims after sweep = %d, want 1", otps)
		}
	})
}
