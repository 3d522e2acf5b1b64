package inbound

import (
	"context"
	"net/http"

	"github.com/shandysiswandi/gosso/internal/identity/entity"
	"github.com/shandysiswandi/gosso/internal/identity/usecase"
	"github.com/shandysiswandi/gosso/internal/pkg/config"
	"github.com/shandysiswandi/gosso/internal/pkg/router"
)

type uc interface {
	Register(ctx context.Context, in usecase.RegisterInput) error
	Login(ctx context.Context, in usecase.LoginInput) (*usecase.LoginOutput, error)
	LoginTOTP(ctx context.Context, in usecase.LoginTOTPInput) (*usecase.LoginTOTPOutput, error)
	Logout(ctx context.Context) error
	ConfirmEmail(ctx context.Context, in usecase.ConfirmEmailInput) error
	PasswordForgot(ctx context.Context, in usecase.PasswordForgotInput) error
	ResetPassword(ctx context.Context, in usecase.ResetPasswordInput) error
	GenerateTotpSecret(ctx context.Context) (*usecase.GenerateTotpSecretOutput, error)
	ConfirmTotp(ctx context.Context, in usecase.ConfirmTotpInput) error
	IsFieldUnique(ctx context.Context, field entity.UniqueField, value string, excludeID int64) (bool, error)
	UpdateAvatar(ctx context.Context, in usecase.UpdateAvatarInput) (*usecase.UpdateAvatarOutput, error)
	IssueAppToken(ctx context.Context) (*usecase.IssueAppTokenOutput, error)
	DeleteUser(ctx context.Context) error
	SessionCookie(rawToken string) *http.Cookie
}

type endpoint struct {
	uc  uc
	cfg config.Config
}

// RegisterHTTPEndpoint mounts the identity routes on the router.
func RegisterHTTPEndpoint(rtr *router.Router, u uc, cfg config.Config) {
	e := endpoint{uc: u, cfg: cfg}

	rtr.POST("/api/v1/auth/register", e.register)
	rtr.POST("/api/v1/auth/login", e.login)
	rtr.POST("/api/v1/auth/login/totp", e.loginTOTP)
	rtr.POST("/api/v1/auth/logout", e.logout)
	rtr.POST("/api/v1/auth/email/confirm", e.confirmEmail)
	rtr.POST("/api/v1/auth/password/forgot", e.passwordForgot)
	rtr.POST("/api/v1/auth/password/reset", e.passwordReset)
	rtr.POST("/api/v1/auth/totp/setup", e.totpSetup)
	rtr.POST("/api/v1/auth/totp/confirm", e.totpConfirm)
	rtr.GET("/api/v1/users/availability", e.fieldAvailability)
	rtr.PUT("/api/v1/profile/avatar", e.updateAvatar)
	rtr.POST("/api/v1/sso/token", e.issueAppToken)
	rtr.DELETE("/api/v1/account", e.deleteAccount)
}

func (e endpoint) sessionCookieName() string {
	if name := e.cfg.GetString("session.cookie_name"); name != "" {
		return name
	}
	return router.DefaultSessionCookie
}
