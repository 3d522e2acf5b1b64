package identity

import (
	"context"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/redis/go-redis/v9"
	"github.com/shandysiswandi/gosso/internal/identity/inbound"
	"github.com/shandysiswandi/gosso/internal/identity/outbound/db"
	"github.com/shandysiswandi/gosso/internal/identity/outbound/mq"
	"github.com/shandysiswandi/gosso/internal/identity/usecase"
	"github.com/shandysiswandi/gosso/internal/pkg/clock"
	"github.com/shandysiswandi/gosso/internal/pkg/config"
	"github.com/shandysiswandi/gosso/internal/pkg/goroutine"
	"github.com/shandysiswandi/gosso/internal/pkg/hash"
	"github.com/shandysiswandi/gosso/internal/pkg/idempotency"
	"github.com/shandysiswandi/gosso/internal/pkg/instrument"
	"github.com/shandysiswandi/gosso/internal/pkg/jwt"
	"github.com/shandysiswandi/gosso/internal/pkg/messaging"
	"github.com/shandysiswandi/gosso/internal/pkg/mfa"
	"github.com/shandysiswandi/gosso/internal/pkg/router"
	"github.com/shandysiswandi/gosso/internal/pkg/storage"
	"github.com/shandysiswandi/gosso/internal/pkg/totp"
	"github.com/shandysiswandi/gosso/internal/pkg/uid"
	"github.com/shandysiswandi/gosso/internal/pkg/validator"
)

// Dependency lists everything the identity module needs from the app.
type Dependency struct {
	Database     *pgxpool.Pool              `validate:"required"`
	Redis        *redis.Client              `validate:"required"`
	Messaging    messaging.Messaging        `validate:"required"`
	Storage      storage.Storage            `validate:"required"`
	Config       config.Config              `validate:"required"`
	Validator    validator.Validator        `validate:"required"`
	Instrument   instrument.Instrumentation `validate:"required"`
	Goroutine    *goroutine.Manager         `validate:"required"`
	JWT          jwt.JWT                    `validate:"required"`
	Clock        clock.Clocker              `validate:"required"`
	UID          uid.NumberID               `validate:"required"`
	UUID         uid.StringID               `validate:"required"`
	HMAC         hash.Hash                  `validate:"required"`
	Password     hash.SaltedHash            `validate:"required"`
	MFAEncryptor mfa.Encryptor              `validate:"required"`
	Totp         totp.TOTP                  `validate:"required"`
}

// Module bundles the identity usecase with its inbound registrations. It is
// the router's token verifier, so build it before the router.
type Module struct {
	uc  *usecase.Usecase
	cfg config.Config
}

func New(ctx context.Context, dep Dependency) (*Module, error) {
	if err := dep.Validator.Validate(dep); err != nil {
		return nil, err
	}

	repoDB := db.New(dep.Database, dep.Config, dep.Instrument)
	repoMQ := mq.New(dep.Messaging, dep.Instrument)

	uc := usecase.New(usecase.Dependency{
		RepoDB:        repoDB,
		RepoMessaging: repoMQ,
		Idempotency:   idempotency.New(dep.Redis),
		Validator:     dep.Validator,
		Config:        dep.Config,
		Storage:       dep.Storage,
		HMAC:          dep.HMAC,
		Password:      dep.Password,
		MFAEncryptor:  dep.MFAEncryptor,
		UID:           dep.UID,
		UUID:          dep.UUID,
		Totp:          dep.Totp,
		Clock:         dep.Clock,
		JWT:           dep.JWT,
		Instrument:    dep.Instrument,
	})

	dep.Goroutine.Go(ctx, func(ctx context.Context) error {
		uc.RunJanitor(ctx)
		return nil
	})

	return &Module{uc: uc, cfg: dep.Config}, nil
}

// RegisterHTTPEndpoint mounts the module's routes.
func (m *Module) RegisterHTTPEndpoint(rtr *router.Router) {
	inbound.RegisterHTTPEndpoint(rtr, m.uc, m.cfg)
}

// VerifyToken implements router.TokenVerifier.
func (m *Module) VerifyToken(ctx context.Context, token string) (context.Context, error) {
	return m.uc.VerifyToken(ctx, token)
}
