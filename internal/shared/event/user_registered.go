package event

const UserRegisteredDestination string = "user.registered"
const UserRegisteredConsumerNotify string = "user_registered_notify"

type UserRegisteredMessage struct {
	UserID            int64  `json:"user_id"`
	Email             string `json:"email"`
	Username          string `json:"username"`
	ConfirmationToken string `json:"confirmation_token"`
}
