package entity

type LoginOutcome string

const (
	LoginSuccess         LoginOutcome = "success"
	LoginUserNotFound    LoginOutcome = "user_not_found"
	LoginAccountLocked   LoginOutcome = "account_locked"
	LoginLockedOut       LoginOutcome = "locked_out"
	LoginInvalidPassword LoginOutcome = "invalid_password"
)

var loginMessages = map[LoginOutcome]string{
	LoginSuccess:         "Login successful",
	LoginUserNotFound:    "User not found",
	LoginAccountLocked:   "Account is locked. Please contact an administrator",
	LoginLockedOut:       "Account locked due to too many failed login attempts",
	LoginInvalidPassword: "Invalid password",
}

// LoginResult is the tagged outcome of a login attempt. Message is meant for display.
type LoginResult struct {
	Outcome LoginOutcome `json:"outcome"`
	Message string       `json:"message"`
	User    *User        `json:"-"`
}

func NewLoginResult(outcome LoginOutcome, user *User) LoginResult {
	return LoginResult{
		Outcome: outcome,
		Message: loginMessages[outcome],
		User:    user,
	}
}

func (r LoginResult) Success() bool {
	return r.Outcome == LoginSuccess
}
