package server

// Route path constants
// All application routes are defined here to ensure consistency and prevent typos
const (
	RouteAuthorize = "/authorize"
	RouteToken     = "/token"

	// RFC 8414 authorization server metadata
	RouteWellKnownMetadata = "/.well-known/oauth-authorization-server"
)
