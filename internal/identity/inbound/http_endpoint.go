package inbound

import (
	"github.com/shandysiswandi/gosso/internal/identity/entity"
	"github.com/shandysiswandi/gosso/internal/identity/usecase"
	"github.com/shandysiswandi/gosso/internal/pkg/router"
)

func (e endpoint) register(r *router.Request) (any, error) {
	var req registerRequest
	if err := r.DecodeBody(&req); err != nil {
		return nil, err
	}

	err := e.uc.Register(r.Context(), usecase.RegisterInput{
		Username: req.Username,
		Email:    req.Email,
		Password: req.Password,
	})
	if err != nil {
		return nil, err
	}

	return registerResponse{}, nil
}

func (e endpoint) login(r *router.Request) (any, error) {
	var req loginRequest
	if err := r.DecodeBody(&req); err != nil {
		return nil, err
	}

	out, err := e.uc.Login(r.Context(), usecase.LoginInput{
		Username: req.Username,
		Password: req.Password,
	})
	if err != nil {
		return nil, err
	}

	return loginResponse{
		SessionToken: out.SessionToken,
		TOTPRequired: out.TOTPRequired,
		ExpiresAt:    out.Session.ExpiresAt.Unix(),
		cookie:       e.uc.SessionCookie(out.SessionToken),
	}, nil
}

// loginTOTP accepts the pending session token from the cookie or, failing
// that, the request body, so non-browser clients can complete the flow.
func (e endpoint) loginTOTP(r *router.Request) (any, error) {
	var req loginTOTPRequest
	if err := r.DecodeBody(&req); err != nil {
		return nil, err
	}

	token := r.GetCookie(e.sessionCookieName())
	if token == "" {
		token = req.SessionToken
	}

	out, err := e.uc.LoginTOTP(r.Context(), usecase.LoginTOTPInput{
		SessionToken: token,
		Code:         req.Code,
	})
	if err != nil {
		return nil, err
	}

	return loginResponse{
		SessionToken: out.SessionToken,
		TOTPRequired: false,
		ExpiresAt:    out.Session.ExpiresAt.Unix(),
		cookie:       e.uc.SessionCookie(out.SessionToken),
	}, nil
}

func (e endpoint) logout(r *router.Request) (any, error) {
	if err := e.uc.Logout(r.Context()); err != nil {
		return nil, err
	}

	return nil, nil
}

func (e endpoint) confirmEmail(r *router.Request) (any, error) {
	var req confirmEmailRequest
	if err := r.DecodeBody(&req); err != nil {
		return nil, err
	}

	if err := e.uc.ConfirmEmail(r.Context(), usecase.ConfirmEmailInput(req)); err != nil {
		return nil, err
	}

	return confirmEmailResponse{}, nil
}

func (e endpoint) passwordForgot(r *router.Request) (any, error) {
	var req passwordForgotRequest
	if err := r.DecodeBody(&req); err != nil {
		return nil, err
	}

	if err := e.uc.PasswordForgot(r.Context(), usecase.PasswordForgotInput(req)); err != nil {
		return nil, err
	}

	return passwordForgotResponse{}, nil
}

func (e endpoint) passwordReset(r *router.Request) (any, error) {
	var req passwordResetRequest
	if err := r.DecodeBody(&req); err != nil {
		return nil, err
	}

	err := e.uc.ResetPassword(r.Context(), usecase.ResetPasswordInput{
		Token:       req.Token,
		NewPassword: req.NewPassword,
	})
	if err != nil {
		return nil, err
	}

	return passwordResetResponse{}, nil
}

func (e endpoint) totpSetup(r *router.Request) (any, error) {
	out, err := e.uc.GenerateTotpSecret(r.Context())
	if err != nil {
		return nil, err
	}

	return totpSetupResponse{Secret: out.Secret, URI: out.URI}, nil
}

func (e endpoint) totpConfirm(r *router.Request) (any, error) {
	var req totpConfirmRequest
	if err := r.DecodeBody(&req); err != nil {
		return nil, err
	}

	if err := e.uc.ConfirmTotp(r.Context(), usecase.ConfirmTotpInput(req)); err != nil {
		return nil, err
	}

	return totpConfirmResponse{}, nil
}

func (e endpoint) fieldAvailability(r *router.Request) (any, error) {
	field := entity.UniqueField(r.GetQuery("field"))
	value := r.GetQuery("value")

	available, err := e.uc.IsFieldUnique(r.Context(), field, value, 0)
	if err != nil {
		return nil, err
	}

	return fieldAvailabilityResponse{
		Field:     string(field),
		Value:     value,
		Available: available,
	}, nil
}

func (e endpoint) updateAvatar(r *router.Request) (any, error) {
	part, err := r.StreamSingleFile("avatar")
	if err != nil {
		return nil, err
	}
	defer part.Close()

	out, err := e.uc.UpdateAvatar(r.Context(), usecase.UpdateAvatarInput{
		FileName:    part.FileName(),
		ContentType: part.Header.Get("Content-Type"),
		// The multipart part length is unknown up front; -1 streams to EOF.
		Size: -1,
		Body: part,
	})
	if err != nil {
		return nil, err
	}

	return updateAvatarResponse{AvatarURL: out.AvatarURL}, nil
}

func (e endpoint) issueAppToken(r *router.Request) (any, error) {
	out, err := e.uc.IssueAppToken(r.Context())
	if err != nil {
		return nil, err
	}

	return issueAppTokenResponse{
		AccessToken: out.AccessToken,
		TokenType:   "Bearer",
	}, nil
}

func (e endpoint) deleteAccount(r *router.Request) (any, error) {
	if err := e.uc.DeleteUser(r.Context()); err != nil {
		return nil, err
	}

	return nil, nil
}
