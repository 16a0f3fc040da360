package dto

// LoginRequest payload for both login pages.
type LoginRequest struct {
	Username string `json:"username"`
	Password string `json:"password"`
	Next     string `json:"next"`
}

// RegisterRequest payload for new accounts.
type RegisterRequest struct {
	Username string `json:"username"`
	Email    string `json:"email"`
	Password string `json:"password"`
}

// ConfirmRegistrationRequest carries the mailed activation code.
type ConfirmRegistrationRequest struct {
	Code string `json:"code"`
}

// ForgotPasswordRequest asks for a reset link.
type ForgotPasswordRequest struct {
	Email string `json:"email"`
}

// ResetPasswordRequest sets a new password.
type ResetPasswordRequest struct {
	Token    string `json:"token"`
	Password string `json:"password"`
}

// LogoutRequest optionally names the page to return to.
type LogoutRequest struct {
	Back string `json:"back"`
}

// AccountStatusRequest enables or disables an account.
type AccountStatusRequest struct {
	Enable *bool `json:"enable"`
}
