package dto

// ── auth ──

// AdminLoginRequest admin credential.
type AdminLoginRequest struct {
	Username string `json:"username" binding:"required"`
	Password string `json:"password" binding:"required"`
}

// LoginIDRequest participant and BAA login. Both spellings of the login id
// are accepted.
type LoginIDRequest struct {
	LoginID    string `json:"login_id"`
	LoginIDAlt string `json:"loginId"`
}

// Value returns the login id that was sent.
func (r *LoginIDRequest) Value() string {
	if r.LoginID != "" {
		return r.LoginID
	}
	return r.LoginIDAlt
}

// ChangePasswordRequest admin password change.
type ChangePasswordRequest struct {
	OldPassword string `json:"oldPassword" binding:"required"`
	NewPassword string `json:"newPassword" binding:"required"`
}

// SessionStatusResponse tells the front-end whether a session of the
// requested role is active.
type SessionStatusResponse struct {
	LoggedIn bool   `json:"loggedIn"`
	Role     string `json:"role,omitempty"`
	ID       uint   `json:"id,omitempty"`
	Username string `json:"username,omitempty"`
}
