package usecase

import (
	"context"
	"strings"

	"github.com/shandysiswandi/gosso/internal/pkg/config"
	"github.com/shandysiswandi/gosso/internal/pkg/instrument"
	"github.com/shandysiswandi/gosso/internal/pkg/mail"
	"go.opentelemetry.io/otel/trace"
)

type emailSender interface {
	Send(ctx context.Context, msg mail.Message) error
}

type Usecase struct {
	email emailSender
	cfg   config.Config
	ins   instrument.Instrumentation
}

type Dependency struct {
	Email      emailSender
	Config     config.Config
	Instrument instrument.Instrumentation
}

func New(dep Dependency) *Usecase {
	return &Usecase{
		email: dep.Email,
		cfg:   dep.Config,
		ins:   dep.Instrument,
	}
}

func (s *Usecase) startSpan(ctx context.Context, name string) (context.Context, trace.Span) {
	return s.ins.Tracer("notify.usecase").Start(ctx, name)
}

// webLink joins the public web base URL with a path and query string.
func (s *Usecase) webLink(path, query string) string {
	base := strings.TrimRight(s.cfg.GetString("app.web_base_url"), "/")
	return base + path + "?" + query
}
