package oauthmodel

// ResponseType represents the OAuth 2.0 response type.
// Determines what is returned from the authorization endpoint.
type ResponseType string

const (
	// CodeResponseType indicates the authorization code flow.
	// Used in: Authorization Code Flow (the only flow this server implements)
	// Returns an authorization code that must be exchanged for an access token
	// at the token endpoint.
	// Example: /authorize?response_type=code&client_id=...
	CodeResponseType ResponseType = "code"
)

// GrantType represents the OAuth 2.0 grant type used at the token endpoint.
// Determines what credentials are required to obtain tokens.
type GrantType string

const (
	// AuthorizationCodeGrant exchanges an authorization code for an access token.
	// Used in: Standard Authorization Code Flow
	// Token request includes: code, client credentials, redirect_uri
	// Returns: access_token
	// This server accepts no other grant type; anything else is rejected with
	// the unsupported_grant_type error code.
	AuthorizationCodeGrant GrantType = "authorization_code"
)

// ClientAuthMethod denotes how the token endpoint caller authenticated itself.
// Exactly one method is attempted per request; there is no fallback between them.
type ClientAuthMethod string

const (
	// ClientAuthBasic means credentials arrived in an HTTP Basic Authorization
	// header as base64(id:secret).
	// Failure mode: 401 invalid_client with a WWW-Authenticate: Basic challenge.
	ClientAuthBasic ClientAuthMethod = "client_secret_basic"

	// ClientAuthBody means credentials arrived as client_id/client_secret
	// fields of the request body. Selected only when no Authorization header
	// is present.
	// Failure mode: 400 invalid_client when the fields are missing,
	// 401 invalid_client when they do not match a registered client.
	ClientAuthBody ClientAuthMethod = "client_secret_post"
)

// BearerTokenType is the token_type value returned with every issued token.
// Usage: clients send the token as "Authorization: Bearer <token>".
const BearerTokenType = "Bearer"
