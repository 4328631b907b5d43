package server

import (
	"encoding/base64"
	"encoding/json"
	"errors"
	"net/http"
	"strings"

	"github.com/rs/zerolog/log"

	"github.com/oauthgrant/go-oauth2-server/auth"
	"github.com/oauthgrant/go-oauth2-server/oauthmodel"
)

const (
	contentTypeHTML = "text/html; charset=utf-8"
	contentTypeJSON = "application/json; charset=utf-8"

	basicAuthPrefix = "Basic "
)

// Authorize begins the authorization-code flow: validate the request,
// mint a code, and send the user-agent back to the client.
func (s *Server) Authorize() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		query := r.URL.Query()
		params := &auth.AuthorizationParameters{
			ClientID:     query.Get("client_id"),
			ResponseType: query.Get("response_type"),
			RedirectURI:  query.Get("redirect_uri"),
		}

		redirectURL, err := s.auth.Authorize(params)
		if err != nil {
			if isAuthorizeValidationError(err) {
				s.renderErrorPage(w, http.StatusBadRequest, err.Error())
				return
			}
			log.Error().Err(err).Msg("authorize failed")
			s.renderErrorPage(w, http.StatusInternalServerError, "Internal server error")
			return
		}

		http.Redirect(w, r, redirectURL, http.StatusFound)
	}
}

// Token exchanges an authorization code plus client credentials for an
// access token.
func (s *Server) Token() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		tokenReq, oauthErr := parseTokenRequest(r)
		if oauthErr != nil {
			writeOAuthError(w, oauthErr)
			return
		}

		tokenResponse, err := s.auth.Token(*tokenReq)
		if err != nil {
			var oe *oauthmodel.Error
			if errors.As(err, &oe) {
				writeOAuthError(w, oe)
				return
			}
			log.Error().Err(err).Msg("token exchange failed")
			writeJSONError(w, "server_error", "unable to process token request", http.StatusInternalServerError)
			return
		}

		w.Header().Set("Content-Type", contentTypeJSON)
		// The token must never be cached anywhere between here and the client.
		w.Header().Set("Cache-Control", "no-store")
		w.Header().Set("Pragma", "no-cache")
		_ = json.NewEncoder(w).Encode(tokenResponse)
	}
}

// WellKnownMetadata serves the RFC 8414 authorization server metadata,
// reduced to what this server actually implements.
func (s *Server) WellKnownMetadata() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		issuer := s.config.GetBaseURL()

		resp := map[string]any{
			"issuer":                   issuer,
			"authorization_endpoint":   issuer + RouteAuthorize,
			"token_endpoint":           issuer + RouteToken,
			"response_types_supported": []string{"code"},
			"grant_types_supported":    []string{"authorization_code"},
			"token_endpoint_auth_methods_supported": []string{
				"client_secret_basic", // Credentials in the Authorization header
				"client_secret_post",  // Credentials in the POST body
			},
		}

		w.Header().Set("Content-Type", contentTypeJSON)
		w.Header().Set("Cache-Control", "public, max-age=3600") // Cache for 1 hour
		_ = json.NewEncoder(w).Encode(resp)
	}
}

// tokenRequestBody is the wire shape of the token request body, accepted
// either as a url-encoded form or as JSON.
type tokenRequestBody struct {
	GrantType    string `json:"grant_type"`
	Code         string `json:"code"`
	RedirectURI  string `json:"redirect_uri"`
	ClientID     string `json:"client_id"`
	ClientSecret string `json:"client_secret"`
}

// parseTokenRequest reads the body and selects the client authentication
// mode: Basic header when present, body credentials otherwise. There is no
// fallback between the two.
func parseTokenRequest(r *http.Request) (*oauthmodel.TokenRequest, *oauthmodel.Error) {
	var body tokenRequestBody
	contentType := r.Header.Get("Content-Type")
	if strings.HasPrefix(contentType, "application/json") {
		if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
			return nil, oauthmodel.InvalidRequest("failed to parse JSON body")
		}
	} else {
		if err := r.ParseForm(); err != nil {
			return nil, oauthmodel.InvalidRequest("failed to parse form data")
		}
		body = tokenRequestBody{
			GrantType:    r.PostFormValue("grant_type"),
			Code:         r.PostFormValue("code"),
			RedirectURI:  r.PostFormValue("redirect_uri"),
			ClientID:     r.PostFormValue("client_id"),
			ClientSecret: r.PostFormValue("client_secret"),
		}
	}

	tokenReq := &oauthmodel.TokenRequest{
		GrantType:   body.GrantType,
		Code:        body.Code,
		RedirectURI: body.RedirectURI,
	}

	authHeader := r.Header.Get("Authorization")
	if authHeader == "" {
		tokenReq.AuthMethod = oauthmodel.ClientAuthBody
		tokenReq.ClientID = body.ClientID
		tokenReq.ClientSecret = body.ClientSecret
		return tokenReq, nil
	}

	clientID, clientSecret, oauthErr := parseBasicAuth(authHeader)
	if oauthErr != nil {
		return nil, oauthErr
	}
	tokenReq.AuthMethod = oauthmodel.ClientAuthBasic
	tokenReq.ClientID = clientID
	tokenReq.ClientSecret = clientSecret
	return tokenReq, nil
}

// parseBasicAuth decodes a Basic Authorization header into id and secret.
// Any malformation collapses to the same invalid_client error.
func parseBasicAuth(header string) (string, string, *oauthmodel.Error) {
	malformed := oauthmodel.InvalidClient("malformed Authorization header", http.StatusUnauthorized)

	if !strings.HasPrefix(header, basicAuthPrefix) {
		return "", "", malformed
	}
	decoded, err := base64.StdEncoding.DecodeString(strings.TrimPrefix(header, basicAuthPrefix))
	if err != nil {
		return "", "", malformed
	}
	id, secret, found := strings.Cut(string(decoded), ":")
	if !found {
		return "", "", malformed
	}
	return id, secret, nil
}

func writeOAuthError(w http.ResponseWriter, oauthErr *oauthmodel.Error) {
	if oauthErr.Status == http.StatusUnauthorized {
		w.Header().Set("WWW-Authenticate", "Basic")
	}
	writeJSONError(w, string(oauthErr.Code), oauthErr.Description, oauthErr.Status)
}

func writeJSONError(w http.ResponseWriter, errorCode, description string, statusCode int) {
	w.Header().Set("Content-Type", contentTypeJSON)
	w.WriteHeader(statusCode)
	_ = json.NewEncoder(w).Encode(map[string]string{
		"error":             errorCode,
		"error_description": description,
	})
}

func isAuthorizeValidationError(err error) bool {
	for _, sentinel := range []error{
		auth.ErrMissingClientID,
		auth.ErrInvalidClientID,
		auth.ErrMissingResponseType,
		auth.ErrInvalidResponseType,
		auth.ErrNoRedirectURIs,
		auth.ErrInvalidRedirectURI,
	} {
		if errors.Is(err, sentinel) {
			return true
		}
	}
	return false
}
