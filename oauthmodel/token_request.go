package oauthmodel

// TokenRequest holds parameters for the OAuth2 token request.
// This represents the request body sent to the /token endpoint, plus the
// client credentials however they arrived (Basic header or body fields).
// The only supported grant type is authorization_code.
type TokenRequest struct {
	// GrantType is the OAuth2 flow variant the request claims to use.
	// Required: Yes
	// Accepted value: "authorization_code"
	GrantType string

	// ClientID identifies the OAuth2 client making the request.
	// Required: Yes (via Basic header or body)
	// Example: "web-app-client"
	ClientID string

	// ClientSecret is the shared secret of the client.
	// Required: Yes (via Basic header or body)
	// Security: Never log or expose this value
	ClientSecret string

	// AuthMethod records which of the two mutually exclusive client
	// authentication modes the caller used. Set by the transport layer.
	AuthMethod ClientAuthMethod

	// Code is the authorization code received from the authorization endpoint.
	// Required: Yes
	// Example: "SplxlOBeZQQYbYS6WxSbIA"
	// Usage: Exchanged once for a token, then becomes invalid even if the
	// exchange fails
	Code string

	// RedirectURI is the redirect URI the client used at authorization time.
	// Required: When the authorization request carried one (redirect URI
	// binding)
	// Validation: Must byte-for-byte equal the URI stored with the code
	RedirectURI string
}
