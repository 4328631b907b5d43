package authcode

import "time"

// Lifetime is how long an authorization code stays redeemable. Expiry is
// enforced lazily at redemption time.
const Lifetime = 10 * time.Minute

// Code is the transient context minted by the authorization endpoint and
// consumed exactly once by the token endpoint. Never mutated after creation.
type Code struct {
	// Code is the unguessable random value, also the store key.
	Code string

	// ClientID is the client the code was issued to. Redemption by any other
	// client fails.
	ClientID string

	// RedirectURI is the resolved redirect URI of the grant: the
	// caller-supplied value when one was given, otherwise the client's
	// default. Redemption must present the same value.
	RedirectURI string

	// Subject identifies the resource owner who granted access.
	Subject string

	// ExpiresAt is creation time plus Lifetime.
	ExpiresAt time.Time
}

// Expired reports whether the code is past its expiry at the given instant.
func (c *Code) Expired(now time.Time) bool {
	return !now.Before(c.ExpiresAt)
}
