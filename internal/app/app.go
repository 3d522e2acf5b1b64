package app

import (
	"context"
	"net/http"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/redis/go-redis/v9"
	"github.com/shandysiswandi/gosso/internal/identity"
	"github.com/shandysiswandi/gosso/internal/pkg/clock"
	"github.com/shandysiswandi/gosso/internal/pkg/config"
	"github.com/shandysiswandi/gosso/internal/pkg/goroutine"
	"github.com/shandysiswandi/gosso/internal/pkg/hash"
	"github.com/shandysiswandi/gosso/internal/pkg/instrument"
	"github.com/shandysiswandi/gosso/internal/pkg/jwt"
	"github.com/shandysiswandi/gosso/internal/pkg/mail"
	"github.com/shandysiswandi/gosso/internal/pkg/messaging"
	"github.com/shandysiswandi/gosso/internal/pkg/mfa"
	"github.com/shandysiswandi/gosso/internal/pkg/router"
	"github.com/shandysiswandi/gosso/internal/pkg/storage"
	"github.com/shandysiswandi/gosso/internal/pkg/totp"
	"github.com/shandysiswandi/gosso/internal/pkg/uid"
	"github.com/shandysiswandi/gosso/internal/pkg/validator"
)

// App wires dependencies and manages service lifecycle.
type App struct {
	ctx    context.Context
	cancel context.CancelFunc

	// configuration
	config config.Config
	ins    instrument.Instrumentation

	// libraries
	goroutine    *goroutine.Manager
	validator    validator.Validator
	clock        clock.Clocker
	hmac         hash.Hash
	password     hash.SaltedHash
	uid          uid.NumberID
	uuid         uid.StringID
	totp         totp.TOTP
	jwt          jwt.JWT
	mfaEncryptor mfa.Encryptor

	// resources
	dbConn    *pgxpool.Pool
	cacheConn *redis.Client
	mail      mail.Mail
	messaging messaging.Messaging
	storage   storage.Storage

	// modules
	identity *identity.Module

	// server
	router     *router.Router
	httpServer *http.Server

	closers []struct {
		name string
		fn   func(context.Context) error
	}
}

// New initializes the application with default wiring and returns an App instance.
func New() *App {
	ctx, cancel := context.WithCancel(context.Background())
	app := &App{
		ctx:    ctx,
		cancel: cancel,
	}

	app.initConfig()
	app.initInstrument()
	app.initLibraries()
	app.initJWT()
	app.initDatabase()
	app.initCache()
	app.initMail()
	app.initStorage()
	app.initMessaging()
	app.initModules()
	app.initHTTPServer()
	app.initClosers()

	return app
}
