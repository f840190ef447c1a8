package model

// LoginRequest carries the identifier for the role being logged in:
// username for admins, email for doctors and patients.
type LoginRequest struct {
	Identifier string `json:"identifier" binding:"required"`
	Password   string `json:"password" binding:"required"`
}

type TokenResponse struct {
	Token string `json:"token"`
}
