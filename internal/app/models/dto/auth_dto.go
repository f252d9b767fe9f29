package dto

// LoginRequest represents an operator login
type LoginRequest struct {
	Username string `json:"username" binding:"required" example:"operador"`
	Password string `json:"password" binding:"required" example:"secreto"`
}

// LoginResponse carries the access token
type LoginResponse struct {
	AccessToken string `json:"accessToken"`
	TokenType   string `json:"tokenType" example:"Bearer"`
	ExpiresIn   int    `json:"expiresIn" example:"43200"`
	Username    string `json:"username" example:"operador"`
}
