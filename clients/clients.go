package clients

// Client is a registered application permitted to request authorization on
// behalf of a resource owner.
type Client struct {
	ID           string   `json:"id"`
	Description  string   `json:"description"`
	Secret       string   `json:"secret"`
	RedirectURIs []string `json:"redirectURIs"`
}

// HasRedirectURI reports whether uri exactly matches one of the client's
// registered redirect URIs. Matching is byte-for-byte; no normalisation.
func (c *Client) HasRedirectURI(uri string) bool {
	for _, registered := range c.RedirectURIs {
		if registered == uri {
			return true
		}
	}
	return false
}

// DefaultRedirectURI returns the first registered redirect URI, used when the
// authorization request does not supply one. Empty when none are registered.
func (c *Client) DefaultRedirectURI() string {
	if len(c.RedirectURIs) == 0 {
		return ""
	}
	return c.RedirectURIs[0]
}
