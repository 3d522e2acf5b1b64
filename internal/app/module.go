package app

import (
	"log/slog"
	"os"

	"github.com/shandysiswandi/gosso/internal/identity"
	"github.com/shandysiswandi/gosso/internal/notify"
)

func (a *App) initModules() {
	if a.config.GetBool("modules.identity.enabled") {
		m, err := identity.New(a.ctx, identity.Dependency{
			Database:     a.dbConn,
			Redis:        a.cacheConn,
			Messaging:    a.messaging,
			Storage:      a.storage,
			Config:       a.config,
			Validator:    a.validator,
			Instrument:   a.ins,
			Goroutine:    a.goroutine,
			JWT:          a.jwt,
			Clock:        a.clock,
			UID:          a.uid,
			UUID:         a.uuid,
			HMAC:         a.hmac,
			Password:     a.password,
			MFAEncryptor: a.mfaEncryptor,
			Totp:         a.totp,
		})
		if err != nil {
			slog.Error("failed to init module identity", "error", err)
			os.Exit(1)
		}
		a.identity = m
	}

	if a.config.GetBool("modules.notify.enabled") {
		err := notify.New(a.ctx, notify.Dependency{
			Mail:       a.mail,
			Messaging:  a.messaging,
			Config:     a.config,
			Validator:  a.validator,
			Instrument: a.ins,
			Goroutine:  a.goroutine,
		})
		if err != nil {
			slog.Error("failed to init module notify", "error", err)
			os.Exit(1)
		}
	}
}
