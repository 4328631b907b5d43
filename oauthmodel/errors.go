package oauthmodel

import "net/http"

// ErrorCode is an OAuth2 token-endpoint error code from the RFC 6749 §5.2
// vocabulary. These are the only codes this server emits.
type ErrorCode string

const (
	ErrorCodeInvalidRequest       ErrorCode = "invalid_request"
	ErrorCodeInvalidClient        ErrorCode = "invalid_client"
	ErrorCodeInvalidGrant         ErrorCode = "invalid_grant"
	ErrorCodeUnsupportedGrantType ErrorCode = "unsupported_grant_type"
)

// Error is a machine-facing token-endpoint error. It carries the OAuth2 error
// code, a human-readable description, and the HTTP status the response must
// use. Client-authentication failures deliberately collapse to a single
// invalid_client error so that callers cannot distinguish "unknown client"
// from "wrong secret".
type Error struct {
	Code        ErrorCode `json:"error"`
	Description string    `json:"error_description"`
	Status      int       `json:"-"`
}

func (e *Error) Error() string {
	return string(e.Code) + ": " + e.Description
}

// InvalidRequest builds a 400 invalid_request error.
func InvalidRequest(description string) *Error {
	return &Error{Code: ErrorCodeInvalidRequest, Description: description, Status: http.StatusBadRequest}
}

// InvalidClient builds an invalid_client error with the given status.
// Missing credentials are a 400; credentials that fail to authenticate are a 401.
func InvalidClient(description string, status int) *Error {
	return &Error{Code: ErrorCodeInvalidClient, Description: description, Status: status}
}

// InvalidGrant builds a 400 invalid_grant error.
func InvalidGrant(description string) *Error {
	return &Error{Code: ErrorCodeInvalidGrant, Description: description, Status: http.StatusBadRequest}
}

// UnsupportedGrantType builds a 400 unsupported_grant_type error.
func UnsupportedGrantType(description string) *Error {
	return &Error{Code: ErrorCodeUnsupportedGrantType, Description: description, Status: http.StatusBadRequest}
}
