package token

import "time"

const (
	// Lifetime is how long an issued access token stays valid.
	Lifetime = 120 * time.Minute

	// Prefix marks an opaque value as an access token, distinguishing it
	// from an authorization code of the same shape.
	Prefix = "at-"
)

// AccessToken is the bearer credential minted by the token endpoint.
// ClientID and Subject are copied from the redeemed authorization code
// context. Never mutated after creation.
type AccessToken struct {
	Token     string
	ClientID  string
	Subject   string
	ExpiresAt time.Time
}

// Expired reports whether the token is past its expiry at the given instant.
func (t *AccessToken) Expired(now time.Time) bool {
	return !now.Before(t.ExpiresAt)
}
