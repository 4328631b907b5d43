package authcode

import "errors"

// ErrNotFound is returned when no code context exists for the given key,
// whether it was never issued, already redeemed, or swept after expiry.
var ErrNotFound = errors.New("authorization code not found")

// Repo stores authorization code contexts keyed by the code value.
//
// GetAndDelete must be atomic: two concurrent redemptions of the same code
// must yield exactly one context and one ErrNotFound. Single-use codes
// depend on it.
type Repo interface {
	Upsert(code *Code) error
	Get(code string) (*Code, error)
	GetAndDelete(code string) (*Code, error)
}
