// Request and response payloads for the authentication endpoints.
package auth

// LoginRequest is the credential pair presented at /api/authenticate.
type LoginRequest struct {
	Username string `json:"username" example:"bob"`
	Password string `json:"password" example:"pw123"`
}

// SignupRequest is the payload for creating a new account.
type SignupRequest struct {
	Username string `json:"username" example:"bob"`
	Password string `json:"password" example:"pw123"`
}

// TokenResponse carries the issued access token back to the client.
type TokenResponse struct {
	Token string `json:"token" example:"eyJhbGciOiJIUzUxMiIsInR5cCI6IkpXVCJ9..."`
}
