// File: internal/auth/model.go
package auth

// RegisterRequest is the payload for email/password registration.
type RegisterRequest struct {
	Name            string `json:"name" binding:"required,max=100"`
	Email           string `json:"email" binding:"required,email"`
	Password        string `json:"password" binding:"required,min=8,max=72"` // bcrypt max is 72 bytes
	ConfirmPassword string `json:"confirm_password" binding:"required,eqfield=Password"`
}

// LoginRequest is the payload for email/password login.
type LoginRequest struct {
	Email    string `json:"email" binding:"required,email"`
	Password string `json:"password" binding:"required"`
}

// GoogleLoginRequest carries the Google Sign-In ID token posted by the client.
type GoogleLoginRequest struct {
	Credential string `json:"credential" binding:"required"`
}

// RefreshTokenRequest carries a refresh token to be exchanged for a new access token.
type RefreshTokenRequest struct {
	RefreshToken string `json:"refresh_token" binding:"required"`
}
