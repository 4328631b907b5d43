package clients

import "errors"

// ErrNotFound is returned by Repo.Get when no client has the given ID.
var ErrNotFound = errors.New("client not found")

// Repo resolves client identifiers to registered clients. The core treats
// the registry as read-only; Upsert exists for bootstrap and tests.
type Repo interface {
	Upsert(clientData *Client) error
	Get(clientID string) (*Client, error)
}
