package event

const PasswordResetRequestedDestination string = "password.reset.requested"
const PasswordResetRequestedConsumerNotify string = "password_reset_requested_notify"

type PasswordResetRequestedMessage struct {
	UserID     int64  `json:"user_id"`
	Email      string `json:"email"`
	ResetToken string `json:"reset_token"`
}
