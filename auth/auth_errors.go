package auth

import "errors"

// Authorization endpoint failures are human-facing: each sentinel's text is
// the message rendered on the error page, so the wording is display wording.
// First failure wins; the order of checks is fixed in Authorize.
var (
	ErrMissingClientID     = errors.New("Missing client_id")
	ErrInvalidClientID     = errors.New("Invalid client_id")
	ErrMissingResponseType = errors.New("Missing response_type")
	ErrInvalidResponseType = errors.New("Invalid response_type")
	ErrNoRedirectURIs      = errors.New("No redirect URIs configured")
	ErrInvalidRedirectURI  = errors.New("Invalid redirect_uri")
)
