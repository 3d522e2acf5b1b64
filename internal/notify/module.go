package notify

import (
	"context"

	"github.com/shandysiswandi/gosso/internal/notify/inbound"
	"github.com/shandysiswandi/gosso/internal/notify/outbound/email"
	"github.com/shandysiswandi/gosso/internal/notify/usecase"
	"github.com/shandysiswandi/gosso/internal/pkg/config"
	"github.com/shandysiswandi/gosso/internal/pkg/goroutine"
	"github.com/shandysiswandi/gosso/internal/pkg/instrument"
	"github.com/shandysiswandi/gosso/internal/pkg/mail"
	"github.com/shandysiswandi/gosso/internal/pkg/messaging"
	"github.com/shandysiswandi/gosso/internal/pkg/validator"
)

// Dependency lists everything the notify module needs from the app.
type Dependency struct {
	Mail       mail.Mail                  `validate:"required"`
	Messaging  messaging.Messaging        `validate:"required"`
	Config     config.Config              `validate:"required"`
	Validator  validator.Validator        `validate:"required"`
	Instrument instrument.Instrumentation `validate:"required"`
	Goroutine  *goroutine.Manager         `validate:"required"`
}

// New wires the notify consumers. The module has no inbound HTTP surface;
// everything arrives over the broker.
func New(ctx context.Context, dep Dependency) error {
	if err := dep.Validator.Validate(dep); err != nil {
		return err
	}

	uc := usecase.New(usecase.Dependency{
		Email:      email.New(dep.Mail, dep.Instrument),
		Config:     dep.Config,
		Instrument: dep.Instrument,
	})

	inbound.RegisterMQConsumer(ctx, dep.Config, dep.Goroutine, dep.Messaging, uc, dep.Instrument)

	return nil
}
