package dto

// LoginRequest is the JSON body for POST /auth/login.
type LoginRequest struct {
	Username string `json:"username" binding:"required"`
	Password string `json:"password" binding:"required"`
}

// RegisterRequest is the JSON body for POST /auth/register.
// Password length is checked by the service so the error names the minimum.
type RegisterRequest struct {
	Username string `json:"username" binding:"required,min=1,max=120"`
	Password string `json:"password" binding:"required,max=72"`
}

// UserResponse is returned by /auth/me and inside AuthResponse.
type UserResponse struct {
	ID       int64  `json:"id"`
	Username string `json:"username"`
}

// AuthResponse is returned after a successful login or registration.
type AuthResponse struct {
	OK   bool         `json:"ok"`
	User UserResponse `json:"user"`
}
