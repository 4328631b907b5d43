package auth

import "github.com/oauthgrant/go-oauth2-server/clients"

// AuthorizationParameters holds the query parameters of an authorization
// request as received from the user-agent.
type AuthorizationParameters struct {
	// ClientID identifies the client requesting authorization. Required.
	ClientID string

	// ResponseType is the requested response type. Required; the only
	// accepted value is "code".
	ResponseType string

	// RedirectURI is the caller-supplied redirect target. Optional; when
	// present it must exactly match one of the client's registered URIs,
	// when absent the client's first registered URI is used.
	RedirectURI string
}

// resolveRedirectURI returns the redirect URI the grant is bound to: the
// caller-supplied value when one was given, otherwise the client default.
// The resolved value, never the raw one, is what gets stored with the code
// and compared at redemption time.
func (p *AuthorizationParameters) resolveRedirectURI(client *clients.Client) (string, error) {
	if p.RedirectURI == "" {
		return client.DefaultRedirectURI(), nil
	}
	if !client.HasRedirectURI(p.RedirectURI) {
		return "", ErrInvalidRedirectURI
	}
	return p.RedirectURI, nil
}
