package domain

// Well-known storefront paths referenced outside the route table.
const (
	PathHome               = "/"
	PathLogin              = "/login"
	PathStaffLogin         = "/LoginForStaffAndAdmin"
	PathRegister           = "/register"
	PathRegisterConfirm    = "/register/confirm-registration"
	PathRegisterSuccess    = "/register/success"
	PathForgotPasswordSent = "/forgotPassword/success"
	PathResetPasswordDone  = "/reset-password/success"
	PathDashboard          = "/Dashboard"
)
