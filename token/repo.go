package token

import "errors"

// ErrNotFound is returned by Repo.Get when no token exists for the given key.
var ErrNotFound = errors.New("access token not found")

// Repo stores access tokens keyed by the token value. Tokens are written by
// the token endpoint and read by resource servers; they are never mutated.
type Repo interface {
	Upsert(token *AccessToken) error
	Get(tokenValue string) (*AccessToken, error)
}
