package usecase

import (
	"context"
	"log/slog"
	"time"

	"github.com/shandysiswandi/gosso/internal/identity/entity"
	"github.com/shandysiswandi/gosso/internal/pkg/clock"
	"github.com/shandysiswandi/gosso/internal/pkg/config"
	"github.com/shandysiswandi/gosso/internal/pkg/goerror"
	"github.com/shandysiswandi/gosso/internal/pkg/hash"
	"github.com/shandysiswandi/gosso/internal/pkg/idempotency"
	"github.com/shandysiswandi/gosso/internal/pkg/instrument"
	"github.com/shandysiswandi/gosso/internal/pkg/jwt"
	"github.com/shandysiswandi/gosso/internal/pkg/mfa"
	"github.com/shandysiswandi/gosso/internal/pkg/storage"
	"github.com/shandysiswandi/gosso/internal/pkg/totp"
	"github.com/shandysiswandi/gosso/internal/pkg/uid"
	"github.com/shandysiswandi/gosso/internal/pkg/validator"
	"go.opentelemetry.io/otel/trace"
)

type UserRegisteredEvent struct {
	UserID            int64
	Email             string
	Username          string
	ConfirmationToken string
}

type PasswordResetRequestedEvent struct {
	UserID     int64
	Email      string
	ResetToken string
}

type repoMessaging interface {
	PublishUserRegistered(ctx context.Context, msg UserRegisteredEvent) error
	PublishPasswordResetRequested(ctx context.Context, msg PasswordResetRequestedEvent) error
}

type repoDB interface {
	GetUserByID(ctx context.Context, id int64) (*entity.User, error)
	GetUserByUsername(ctx context.Context, username string) (*entity.User, error)
	GetUserByEmail(ctx context.Context, email string) (*entity.User, error)
	CreateUser(ctx context.Context, user entity.User) error
	CountUsersByField(ctx context.Context, field entity.UniqueField, value string, excludeID int64) (int64, error)
	UpdateUserPassword(ctx context.Context, id int64, hashed, salt []byte) error
	UpdateUserTOTPSecret(ctx context.Context, id int64, secret []byte) error
	SetUserTOTPConfirmed(ctx context.Context, id int64) error
	IncrementFailedTOTPAttempts(ctx context.Context, id int64) (int32, error)
	SetUserEmailConfirmed(ctx context.Context, email string) error
	UpdateUserAvatar(ctx context.Context, id int64, avatarURL string) error
	MoveUserToDeleted(ctx context.Context, user *entity.User, deletedAt time.Time) error

	CreateSession(ctx context.Context, in entity.Session) (*entity.Session, error)
	FindSessionByToken(ctx context.Context, token string) (*entity.Session, error)
	SetSessionAuthenticated(ctx context.Context, token string) error
	DeleteSessionByToken(ctx context.Context, token string) error
	DeleteSessionsByUsername(ctx context.Context, username string) error

	CreateEmailConfirmation(ctx context.Context, in entity.EmailConfirmation) (*entity.EmailConfirmation, error)
	FindEmailConfirmationByToken(ctx context.Context, token string) (*entity.EmailConfirmation, error)
	DeleteEmailConfirmationByToken(ctx context.Context, token string) error
	DeleteEmailConfirmationsByEmail(ctx context.Context, email string) error
	ConfirmEmail(ctx context.Context, email, token string) error

	CreatePasswordReset(ctx context.Context, in entity.PasswordReset) (*entity.PasswordReset, error)
	FindPasswordResetByToken(ctx context.Context, token string) (*entity.PasswordReset, error)
	DeletePasswordResetByToken(ctx context.Context, token string) error
	DeletePasswordResetsByEmail(ctx context.Context, email string) error
	ResetUserPassword(ctx context.Context, userID int64, hashed, salt []byte, resetToken string) error

	MarkTOTPCodeUsed(ctx context.Context, claim entity.UsedTOTPCode) (bool, error)
	PruneUsedTOTPCodes(ctx context.Context, before time.Time) (int64, error)
	PruneExpiredTokens(ctx context.Context, now time.Time) (int64, error)
}

type Usecase struct {
	repoDB        repoDB
	repoMessaging repoMessaging
	idemp         idempotency.Idempotency
	validator     validator.Validator
	cfg           config.Config
	storage       storage.Storage
	hmac          hash.Hash
	password      hash.SaltedHash
	mfaEncryptor  mfa.Encryptor
	uid           uid.NumberID
	uuid          uid.StringID
	totp          totp.TOTP
	clock         clock.Clocker
	jwt           jwt.JWT
	ins           instrument.Instrumentation
}

type Dependency struct {
	RepoDB        repoDB
	RepoMessaging repoMessaging
	Idempotency   idempotency.Idempotency
	Validator     validator.Validator
	Config        config.Config
	Storage       storage.Storage
	HMAC          hash.Hash
	Password      hash.SaltedHash
	MFAEncryptor  mfa.Encryptor
	UID           uid.NumberID
	UUID          uid.StringID
	Totp          totp.TOTP
	Clock         clock.Clocker
	JWT           jwt.JWT
	Instrument    instrument.Instrumentation
}

func New(dep Dependency) *Usecase {
	return &Usecase{
		repoDB:        dep.RepoDB,
		repoMessaging: dep.RepoMessaging,
		idemp:         dep.Idempotency,
		validator:     dep.Validator,
		cfg:           dep.Config,
		storage:       dep.Storage,
		hmac:          dep.HMAC,
		password:      dep.Password,
		mfaEncryptor:  dep.MFAEncryptor,
		uid:           dep.UID,
		uuid:          dep.UUID,
		totp:          dep.Totp,
		clock:         dep.Clock,
		jwt:           dep.JWT,
		ins:           dep.Instrument,
	}
}

func (s *Usecase) startSpan(ctx context.Context, name string) (context.Context, trace.Span) {
	return s.ins.Tracer("identity.usecase").Start(ctx, name)
}

// requireAuth returns the authenticated identity bound to the context, or an
// unauthorized error for anonymous requests.
func (s *Usecase) requireAuth(ctx context.Context) (*entity.Auth, error) {
	auth := entity.GetAuth(ctx)
	if auth == nil {
		return nil, goerror.NewBusiness("Authentication required", goerror.CodeUnauthorized)
	}
	return auth, nil
}

// requirePersisted guards operations that need a stored user row.
func (s *Usecase) requirePersisted(ctx context.Context, user *entity.User) error {
	if user == nil || user.ID == 0 {
		slog.WarnContext(ctx, "operation on unpersisted user")
		return goerror.NewPrecondition("user must be persisted")
	}
	return nil
}
