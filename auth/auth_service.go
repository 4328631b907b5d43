package auth

import (
	"crypto/subtle"
	"errors"
	"net/http"
	"net/url"
	"time"

	"github.com/oauthgrant/go-oauth2-server/authcode"
	"github.com/oauthgrant/go-oauth2-server/clients"
	interrors "github.com/oauthgrant/go-oauth2-server/internal/errors"
	"github.com/oauthgrant/go-oauth2-server/oauthmodel"
	"github.com/oauthgrant/go-oauth2-server/token"
)

// PlaceholderSubject stands in for the resource owner's identity while no
// login or session flow exists. Every issued grant carries it.
const PlaceholderSubject = "resource-owner"

// Repos holds all repository dependencies for the AuthorizationService.
type Repos struct {
	Clients clients.Repo // Registry of OAuth2 clients, read-only to the core
	Codes   authcode.Repo
	Tokens  token.Repo
}

// AuthorizationService implements the authorization-code grant: Authorize
// turns a validated authorization request into a single-use code, Token
// turns a code plus client credentials into a bearer token. The two
// operations share no in-memory state; everything crosses through the repos.
type AuthorizationService struct {
	repos                  Repos
	requireRedirectBinding bool
	nowTime                func() time.Time // nowTime function (injectable for testing)
}

// AuthorizationServiceOption defines a function type to modify the AuthorizationService instance.
type AuthorizationServiceOption func(*AuthorizationService)

// WithNowTime sets the now time function (primarily for testing)
func WithNowTime(nowFunc func() time.Time) AuthorizationServiceOption {
	return func(as *AuthorizationService) {
		as.nowTime = nowFunc
	}
}

// WithRedirectURIBinding controls whether a code whose stored redirect URI is
// empty may still be redeemed. The default (true) refuses such codes; with
// the resolved-URI rule an empty stored URI can only mean tampered or
// hand-crafted store contents.
func WithRedirectURIBinding(required bool) AuthorizationServiceOption {
	return func(as *AuthorizationService) {
		as.requireRedirectBinding = required
	}
}

// NewAuthorizationService initializes a new AuthorizationService with required dependencies.
// Optional configuration can be provided via options (e.g., WithNowTime for testing).
func NewAuthorizationService(repos Repos, options ...AuthorizationServiceOption) (*AuthorizationService, error) {
	if repos.Clients == nil {
		return nil, errors.New("[NewAuthorizationService] Clients repo is required")
	}
	if repos.Codes == nil {
		return nil, errors.New("[NewAuthorizationService] Codes repo is required")
	}
	if repos.Tokens == nil {
		return nil, errors.New("[NewAuthorizationService] Tokens repo is required")
	}

	authService := &AuthorizationService{
		repos:                  repos,
		requireRedirectBinding: true,
		nowTime:                time.Now,
	}

	for _, opt := range options {
		opt(authService)
	}

	return authService, nil
}

// Authorize validates an authorization request and, on success, persists a
// fresh single-use code and returns the full redirect URL (the resolved
// redirect URI with the code appended as a query parameter).
//
// Checks run in a fixed order and the first failure wins; each failure maps
// to one sentinel from auth_errors.go and no side effect precedes it.
func (as *AuthorizationService) Authorize(parameters *AuthorizationParameters) (string, error) {
	if parameters.ClientID == "" {
		return "", ErrMissingClientID
	}

	client, err := as.repos.Clients.Get(parameters.ClientID)
	if err != nil {
		return "", ErrInvalidClientID
	}

	if parameters.ResponseType == "" {
		return "", ErrMissingResponseType
	}
	if oauthmodel.ResponseType(parameters.ResponseType) != oauthmodel.CodeResponseType {
		return "", ErrInvalidResponseType
	}

	if len(client.RedirectURIs) == 0 {
		return "", ErrNoRedirectURIs
	}

	redirectURI, err := parameters.resolveRedirectURI(client)
	if err != nil {
		return "", err
	}

	code, err := generateRandomString(codeGenerationLength)
	if err != nil {
		return "", interrors.Wrapf(err, "[Authorize] generate code")
	}

	grant := &authcode.Code{
		Code:        code,
		ClientID:    client.ID,
		RedirectURI: redirectURI,
		Subject:     PlaceholderSubject,
		ExpiresAt:   as.nowTime().Add(authcode.Lifetime),
	}
	if err := as.repos.Codes.Upsert(grant); err != nil {
		return "", interrors.Wrapf(err, "[Authorize] persist code")
	}

	return appendCodeToRedirectURI(redirectURI, code)
}

// Token authenticates the caller as a registered client, redeems the
// presented authorization code (consuming it unconditionally), validates the
// redeemed context, and issues a bearer access token. Every failure is an
// *oauthmodel.Error carrying the RFC 6749 error code and HTTP status.
func (as *AuthorizationService) Token(req oauthmodel.TokenRequest) (*oauthmodel.TokenResponse, error) {
	if req.GrantType == "" {
		return nil, oauthmodel.InvalidRequest("grant_type is required")
	}
	if oauthmodel.GrantType(req.GrantType) != oauthmodel.AuthorizationCodeGrant {
		return nil, oauthmodel.UnsupportedGrantType("only the authorization_code grant type is supported")
	}

	client, oauthErr := as.authenticateClient(req)
	if oauthErr != nil {
		return nil, oauthErr
	}

	if req.Code == "" {
		return nil, oauthmodel.InvalidRequest("code is required")
	}

	// The code is consumed here, before any further validation, so a second
	// redemption attempt fails even when this one does.
	grant, err := as.repos.Codes.GetAndDelete(req.Code)
	if err != nil {
		return nil, oauthmodel.InvalidGrant("authorization code is invalid")
	}

	if grant.Expired(as.nowTime()) {
		return nil, oauthmodel.InvalidGrant("authorization code has expired")
	}
	if grant.ClientID != client.ID {
		return nil, oauthmodel.InvalidGrant("authorization code was issued to another client")
	}
	if oauthErr := as.checkRedirectBinding(grant, req.RedirectURI); oauthErr != nil {
		return nil, oauthErr
	}

	return as.issueAccessToken(grant)
}

// authenticateClient resolves and verifies the caller's credentials. Unknown
// client and wrong secret produce the same error on purpose.
func (as *AuthorizationService) authenticateClient(req oauthmodel.TokenRequest) (*clients.Client, *oauthmodel.Error) {
	if req.AuthMethod == oauthmodel.ClientAuthBody && (req.ClientID == "" || req.ClientSecret == "") {
		return nil, oauthmodel.InvalidClient("client_id and client_secret are required", http.StatusBadRequest)
	}

	client, err := as.repos.Clients.Get(req.ClientID)
	if err != nil {
		return nil, oauthmodel.InvalidClient("client authentication failed", http.StatusUnauthorized)
	}
	if subtle.ConstantTimeCompare([]byte(client.Secret), []byte(req.ClientSecret)) != 1 {
		return nil, oauthmodel.InvalidClient("client authentication failed", http.StatusUnauthorized)
	}
	return client, nil
}

func (as *AuthorizationService) checkRedirectBinding(grant *authcode.Code, redirectURI string) *oauthmodel.Error {
	if grant.RedirectURI == "" {
		if as.requireRedirectBinding {
			return oauthmodel.InvalidGrant("authorization code carries no redirect_uri")
		}
		return nil
	}
	if redirectURI != grant.RedirectURI {
		return oauthmodel.InvalidGrant("redirect_uri does not match the authorization request")
	}
	return nil
}

func (as *AuthorizationService) issueAccessToken(grant *authcode.Code) (*oauthmodel.TokenResponse, error) {
	value, err := generateRandomString(codeGenerationLength)
	if err != nil {
		return nil, interrors.Wrapf(err, "[Token] generate access token")
	}

	accessToken := &token.AccessToken{
		Token:     token.Prefix + value,
		ClientID:  grant.ClientID,
		Subject:   grant.Subject,
		ExpiresAt: as.nowTime().Add(token.Lifetime),
	}
	if err := as.repos.Tokens.Upsert(accessToken); err != nil {
		return nil, interrors.Wrapf(err, "[Token] persist access token")
	}

	return &oauthmodel.TokenResponse{
		AccessToken: accessToken.Token,
		TokenType:   oauthmodel.BearerTokenType,
		ExpiresIn:   int(token.Lifetime.Seconds()),
	}, nil
}

// appendCodeToRedirectURI adds code as a query parameter, preserving any
// query the registered URI already carries.
func appendCodeToRedirectURI(redirectURI, code string) (string, error) {
	u, err := url.Parse(redirectURI)
	if err != nil {
		return "", interrors.Wrapf(err, "[Authorize] parse redirect URI")
	}
	query := u.Query()
	query.Set("code", code)
	u.RawQuery = query.Encode()
	return u.String(), nil
}
