package auth

// TokenPayload represents the token request body.
type TokenPayload struct {
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required,min=5"`
}

// TokenResponse represents the issued bearer token.
type TokenResponse struct {
	Token string `json:"token"`
}
