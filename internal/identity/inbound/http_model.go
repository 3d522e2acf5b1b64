package inbound

import "net/http"

type registerRequest struct {
	Username string `json:"username"`
	Email    string `json:"email"`
	Password string `json:"password"`
}

type registerResponse struct{}

func (registerResponse) Message() string {
	return "registration accepted, check your email to confirm the address"
}

func (registerResponse) StatusCode() int { return http.StatusAccepted }

type loginRequest struct {
	Username string `json:"username"`
	Password string `json:"password"`
}

type loginResponse struct {
	SessionToken string `json:"session_token"`
	TOTPRequired bool   `json:"totp_required"`
	ExpiresAt    int64  `json:"expires_at"`

	cookie *http.Cookie
}

func (loginResponse) Message() string { return "login successful" }

func (r loginResponse) Cookie() *http.Cookie { return r.cookie }

type loginTOTPRequest struct {
	SessionToken string `json:"session_token"`
	Code         string `json:"code"`
}

type confirmEmailRequest struct {
	Token string `json:"token"`
}

type confirmEmailResponse struct{}

func (confirmEmailResponse) Message() string { return "email address confirmed" }

type passwordForgotRequest struct {
	Email string `json:"email"`
}

type passwordForgotResponse struct{}

func (passwordForgotResponse) Message() string {
	return "if the address is registered, a reset link is on its way"
}

type passwordResetRequest struct {
	Token       string `json:"token"`
	NewPassword string `json:"new_password"`
}

type passwordResetResponse struct{}

func (passwordResetResponse) Message() string { return "password has been reset" }

type totpSetupResponse struct {
	Secret string `json:"secret"`
	URI    string `json:"uri"`
}

func (totpSetupResponse) Message() string {
	return "scan the secret with your authenticator, then confirm a code"
}

type totpConfirmRequest struct {
	Code string `json:"code"`
}

type totpConfirmResponse struct{}

func (totpConfirmResponse) Message() string { return "authenticator enabled" }

type fieldAvailabilityResponse struct {
	Field     string `json:"field"`
	Value     string `json:"value"`
	Available bool   `json:"available"`
}

type updateAvatarResponse struct {
	AvatarURL string `json:"avatar_url"`
}

func (updateAvatarResponse) Message() string { return "avatar updated" }

type issueAppTokenResponse struct {
	AccessToken string `json:"access_token"`
	TokenType   string `json:"token_type"`
}

func (issueAppTokenResponse) Message() string { return "token issued" }
