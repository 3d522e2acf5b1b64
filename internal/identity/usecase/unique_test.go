package usecase

import (
	"context"
	"testing"

	"github.com/shandysiswandi/gosso/internal/identity/entity"
	"github.com/shandysiswandi/gosso/internal/pkg/goerror"
)

func TestUsecase_IsFieldUnique(t *testing.T) {
	t.Run("reports taken and free values", func(t *testing.T) {
		// Arrange
		f := newFixture(t, nil)
		user := f.registerUser(t, "alice", "alice@example.com", "correct-horse")

		tests := []struct {
			name      string
			field     entity.UniqueField
			value     string
			excludeID int64
			want      bool
		}{
			{name: "taken username", field: entity.UniqueFieldUsername, value: "alice", want: false},
			{name: "taken username different case", field: entity.UniqueFieldUsername, value: " ALICE ", want: false},
			{name: "free username", field: entity.UniqueFieldUsername, value: "bob", want: true},
			{name: "taken email", field: entity.UniqueFieldEmail, value: "alice@example.com", want: false},
			{name: "free email", field: entity.UniqueFieldEmail, value: "bob@example.com", want: true},
			{name: "own row excluded", field: entity.UniqueFieldUsername, value: "alice", excludeID: user.ID, want: true},
		}

		for _, tc := range tests {
			t.Run(tc.name, func(t *testing.T) {
				// Act
				got, err := f.uc.IsFieldUnique(context.Background(), tc.field, tc.value, tc.excludeID)

				// Assert
				if err != nil {
					t.Fatalf("IsFieldUnique() error = %v", err)
				}
				if got != tc.want {
					t.Fatalf("IsFieldUnique(%s, %q) = %v, want %v", tc.field, tc.value, got, tc.want)
				}
			})
		}
	})

	t.Run("rejects an unknown field", func(t *testing.T) {
		// Arrange
		f := newFixture(t, nil)

		// Act
		_, err := f.uc.IsFieldUnique(context.Background(), entity.UniqueField("phone"), "1234", 0)

		// Assert
		wantCode(t, err, goerror.CodeInvalidInput)
	})

	t.Run("rejects an empty value", func(t *testing.T) {
		// Arrange
		f := newFixture(t, nil)

		// Act
		_, err := f.uc.IsFieldUnique(context.Background(), entity.UniqueFieldUsername, "   ", 0)

		// Assert
		wantCode(t, err, goerror.CodeInvalidInput)
	})
}
