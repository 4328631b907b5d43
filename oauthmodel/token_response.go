package oauthmodel

// TokenResponse represents the response from an OAuth2 token request.
// This is the standard OAuth2 token endpoint response format as defined in
// RFC 6749 §5.1, reduced to the fields this server issues.
type TokenResponse struct {
	// AccessToken is the opaque bearer credential used to access protected
	// resources.
	// Example: "at-9Ws1PqL0vRbXnK3yTmC8dZfHgJ5oAeUi"
	// Usage: Include in Authorization header: "Bearer <access_token>"
	AccessToken string `json:"access_token"`

	// TokenType indicates how to use the access token (always "Bearer").
	TokenType string `json:"token_type"`

	// ExpiresIn is the lifetime in seconds of the access token.
	// Example: 7200 (for 120 minutes)
	ExpiresIn int `json:"expires_in"`
}
