package auth_test

import (
	"net/http"
	"net/url"
	"regexp"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/oauthgrant/go-oauth2-server/auth"
	"github.com/oauthgrant/go-oauth2-server/authcode"
	fakecoderepo "github.com/oauthgrant/go-oauth2-server/authcode/repofake"
	"github.com/oauthgrant/go-oauth2-server/clients"
	fakeclientrepo "github.com/oauthgrant/go-oauth2-server/clients/repofake"
	"github.com/oauthgrant/go-oauth2-server/oauthmodel"
	"github.com/oauthgrant/go-oauth2-server/token"
	faketokenrepo "github.com/oauthgrant/go-oauth2-server/token/repofake"
)

var codePattern = regexp.MustCompile(`^[A-Za-z0-9]{32}$`)

type serviceFixture struct {
	service *auth.AuthorizationService
	repos   auth.Repos
	now     time.Time
}

func newServiceFixture(t *testing.T, options ...auth.AuthorizationServiceOption) *serviceFixture {
	t.Helper()

	f := &serviceFixture{
		repos: auth.Repos{
			Clients: fakeclientrepo.NewFakeClientRepo(),
			Codes:   fakecoderepo.NewFakeCodeRepo(),
			Tokens:  faketokenrepo.NewFakeTokenRepo(),
		},
		now: time.Date(2026, 3, 14, 9, 30, 0, 0, time.UTC),
	}

	require.NoError(t, f.repos.Clients.Upsert(&clients.Client{
		ID:           "c1",
		Secret:       "c1secret",
		RedirectURIs: []string{"https://app.example.com/callback", "https://app.example.com/alt"},
	}))
	require.NoError(t, f.repos.Clients.Upsert(&clients.Client{
		ID:           "c2",
		Secret:       "c2secret",
		RedirectURIs: []string{"https://other.example.com/callback"},
	}))

	options = append([]auth.AuthorizationServiceOption{auth.WithNowTime(func() time.Time { return f.now })}, options...)
	service, err := auth.NewAuthorizationService(f.repos, options...)
	require.NoError(t, err)
	f.service = service
	return f
}

// issueCode runs a full authorization request and returns the minted code.
func (f *serviceFixture) issueCode(t *testing.T, params *auth.AuthorizationParameters) string {
	t.Helper()
	redirectURL, err := f.service.Authorize(params)
	require.NoError(t, err)
	parsed, err := url.Parse(redirectURL)
	require.NoError(t, err)
	code := parsed.Query().Get("code")
	require.True(t, codePattern.MatchString(code))
	return code
}

func requireOAuthError(t *testing.T, err error, code oauthmodel.ErrorCode, status int) {
	t.Helper()
	require.Error(t, err)
	oauthErr, ok := err.(*oauthmodel.Error)
	require.True(t, ok, "expected *oauthmodel.Error, got %T: %v", err, err)
	require.Equal(t, code, oauthErr.Code)
	require.Equal(t, status, oauthErr.Status)
}

func TestAuthorize_Validation(t *testing.T) {
	f := newServiceFixture(t)

	t.Run("missing client_id", func(t *testing.T) {
		_, err := f.service.Authorize(&auth.AuthorizationParameters{ResponseType: "code"})
		require.ErrorIs(t, err, auth.ErrMissingClientID)
	})

	t.Run("unknown client_id", func(t *testing.T) {
		_, err := f.service.Authorize(&auth.AuthorizationParameters{ClientID: "ghost", ResponseType: "code"})
		require.ErrorIs(t, err, auth.ErrInvalidClientID)
	})

	t.Run("missing response_type", func(t *testing.T) {
		_, err := f.service.Authorize(&auth.AuthorizationParameters{ClientID: "c1"})
		require.ErrorIs(t, err, auth.ErrMissingResponseType)
	})

	t.Run("unsupported response_type", func(t *testing.T) {
		_, err := f.service.Authorize(&auth.AuthorizationParameters{ClientID: "c1", ResponseType: "token"})
		require.ErrorIs(t, err, auth.ErrInvalidResponseType)
	})

	t.Run("client without redirect URIs", func(t *testing.T) {
		require.NoError(t, f.repos.Clients.Upsert(&clients.Client{ID: "bare", Secret: "s"}))
		_, err := f.service.Authorize(&auth.AuthorizationParameters{ClientID: "bare", ResponseType: "code"})
		require.ErrorIs(t, err, auth.ErrNoRedirectURIs)
	})

	t.Run("unregistered redirect_uri", func(t *testing.T) {
		_, err := f.service.Authorize(&auth.AuthorizationParameters{
			ClientID:     "c1",
			ResponseType: "code",
			RedirectURI:  "https://evil.example.com/callback",
		})
		require.ErrorIs(t, err, auth.ErrInvalidRedirectURI)
	})

	t.Run("validation failures leave no code behind", func(t *testing.T) {
		_, err := f.service.Authorize(&auth.AuthorizationParameters{ClientID: "c1", ResponseType: "token"})
		require.Error(t, err)
	})
}

func TestAuthorize_Success(t *testing.T) {
	t.Run("defaults to first registered redirect URI", func(t *testing.T) {
		f := newServiceFixture(t)
		redirectURL, err := f.service.Authorize(&auth.AuthorizationParameters{ClientID: "c1", ResponseType: "code"})
		require.NoError(t, err)

		parsed, err := url.Parse(redirectURL)
		require.NoError(t, err)
		require.Equal(t, "https://app.example.com/callback", parsed.Scheme+"://"+parsed.Host+parsed.Path)
		require.True(t, codePattern.MatchString(parsed.Query().Get("code")))
	})

	t.Run("uses the supplied redirect URI when registered", func(t *testing.T) {
		f := newServiceFixture(t)
		redirectURL, err := f.service.Authorize(&auth.AuthorizationParameters{
			ClientID:     "c1",
			ResponseType: "code",
			RedirectURI:  "https://app.example.com/alt",
		})
		require.NoError(t, err)
		require.Contains(t, redirectURL, "https://app.example.com/alt?code=")
	})

	t.Run("stores the resolved redirect URI with the code", func(t *testing.T) {
		f := newServiceFixture(t)
		code := f.issueCode(t, &auth.AuthorizationParameters{ClientID: "c1", ResponseType: "code"})

		stored, err := f.repos.Codes.Get(code)
		require.NoError(t, err)
		require.Equal(t, "https://app.example.com/callback", stored.RedirectURI)
		require.Equal(t, "c1", stored.ClientID)
		require.Equal(t, auth.PlaceholderSubject, stored.Subject)
		require.Equal(t, f.now.Add(authcode.Lifetime), stored.ExpiresAt)
	})

	t.Run("preserves an existing query on the redirect URI", func(t *testing.T) {
		f := newServiceFixture(t)
		require.NoError(t, f.repos.Clients.Upsert(&clients.Client{
			ID:           "queried",
			Secret:       "s",
			RedirectURIs: []string{"https://app.example.com/cb?tenant=blue"},
		}))
		redirectURL, err := f.service.Authorize(&auth.AuthorizationParameters{ClientID: "queried", ResponseType: "code"})
		require.NoError(t, err)

		parsed, err := url.Parse(redirectURL)
		require.NoError(t, err)
		require.Equal(t, "blue", parsed.Query().Get("tenant"))
		require.NotEmpty(t, parsed.Query().Get("code"))
	})
}

func basicTokenRequest(code string) oauthmodel.TokenRequest {
	return oauthmodel.TokenRequest{
		GrantType:    "authorization_code",
		ClientID:     "c1",
		ClientSecret: "c1secret",
		AuthMethod:   oauthmodel.ClientAuthBasic,
		Code:         code,
		RedirectURI:  "https://app.example.com/callback",
	}
}

func TestToken_GrantType(t *testing.T) {
	f := newServiceFixture(t)

	t.Run("missing grant_type", func(t *testing.T) {
		req := basicTokenRequest("x")
		req.GrantType = ""
		_, err := f.service.Token(req)
		requireOAuthError(t, err, oauthmodel.ErrorCodeInvalidRequest, http.StatusBadRequest)
	})

	t.Run("unsupported grant_type", func(t *testing.T) {
		req := basicTokenRequest("x")
		req.GrantType = "client_credentials"
		_, err := f.service.Token(req)
		requireOAuthError(t, err, oauthmodel.ErrorCodeUnsupportedGrantType, http.StatusBadRequest)
	})
}

func TestToken_ClientAuthentication(t *testing.T) {
	f := newServiceFixture(t)

	t.Run("body mode without credentials", func(t *testing.T) {
		req := basicTokenRequest("x")
		req.AuthMethod = oauthmodel.ClientAuthBody
		req.ClientID = ""
		req.ClientSecret = ""
		_, err := f.service.Token(req)
		requireOAuthError(t, err, oauthmodel.ErrorCodeInvalidClient, http.StatusBadRequest)
	})

	t.Run("unknown client", func(t *testing.T) {
		req := basicTokenRequest("x")
		req.ClientID = "ghost"
		_, err := f.service.Token(req)
		requireOAuthError(t, err, oauthmodel.ErrorCodeInvalidClient, http.StatusUnauthorized)
	})

	t.Run("wrong secret basic mode", func(t *testing.T) {
		req := basicTokenRequest("x")
		req.ClientSecret = "wrong"
		_, err := f.service.Token(req)
		requireOAuthError(t, err, oauthmodel.ErrorCodeInvalidClient, http.StatusUnauthorized)
	})

	t.Run("wrong secret body mode", func(t *testing.T) {
		req := basicTokenRequest("x")
		req.AuthMethod = oauthmodel.ClientAuthBody
		req.ClientSecret = "wrong"
		_, err := f.service.Token(req)
		requireOAuthError(t, err, oauthmodel.ErrorCodeInvalidClient, http.StatusUnauthorized)
	})
}

func TestToken_Redemption(t *testing.T) {
	t.Run("missing code", func(t *testing.T) {
		f := newServiceFixture(t)
		req := basicTokenRequest("")
		_, err := f.service.Token(req)
		requireOAuthError(t, err, oauthmodel.ErrorCodeInvalidRequest, http.StatusBadRequest)
	})

	t.Run("unknown code", func(t *testing.T) {
		f := newServiceFixture(t)
		_, err := f.service.Token(basicTokenRequest("neverissued"))
		requireOAuthError(t, err, oauthmodel.ErrorCodeInvalidGrant, http.StatusBadRequest)
	})

	t.Run("round trip issues a bearer token", func(t *testing.T) {
		f := newServiceFixture(t)
		code := f.issueCode(t, &auth.AuthorizationParameters{
			ClientID:     "c1",
			ResponseType: "code",
			RedirectURI:  "https://app.example.com/callback",
		})

		resp, err := f.service.Token(basicTokenRequest(code))
		require.NoError(t, err)
		require.Equal(t, "Bearer", resp.TokenType)
		require.Equal(t, 7200, resp.ExpiresIn)
		require.Regexp(t, `^at-[A-Za-z0-9]{32}$`, resp.AccessToken)

		stored, err := f.repos.Tokens.Get(resp.AccessToken)
		require.NoError(t, err)
		require.Equal(t, "c1", stored.ClientID)
		require.Equal(t, auth.PlaceholderSubject, stored.Subject)
		require.Equal(t, f.now.Add(token.Lifetime), stored.ExpiresAt)
	})

	t.Run("code is single use", func(t *testing.T) {
		f := newServiceFixture(t)
		code := f.issueCode(t, &auth.AuthorizationParameters{ClientID: "c1", ResponseType: "code"})

		_, err := f.service.Token(basicTokenRequest(code))
		require.NoError(t, err)

		_, err = f.service.Token(basicTokenRequest(code))
		requireOAuthError(t, err, oauthmodel.ErrorCodeInvalidGrant, http.StatusBadRequest)
	})

	t.Run("failed redemption still consumes the code", func(t *testing.T) {
		f := newServiceFixture(t)
		code := f.issueCode(t, &auth.AuthorizationParameters{ClientID: "c1", ResponseType: "code"})

		req := basicTokenRequest(code)
		req.RedirectURI = "https://app.example.com/alt" // wrong for this grant
		_, err := f.service.Token(req)
		requireOAuthError(t, err, oauthmodel.ErrorCodeInvalidGrant, http.StatusBadRequest)

		// Retrying with the right redirect URI must fail too: the code is gone.
		_, err = f.service.Token(basicTokenRequest(code))
		requireOAuthError(t, err, oauthmodel.ErrorCodeInvalidGrant, http.StatusBadRequest)
	})

	t.Run("expired code is rejected and consumed", func(t *testing.T) {
		f := newServiceFixture(t)
		code := f.issueCode(t, &auth.AuthorizationParameters{ClientID: "c1", ResponseType: "code"})

		f.now = f.now.Add(authcode.Lifetime + time.Second)
		_, err := f.service.Token(basicTokenRequest(code))
		requireOAuthError(t, err, oauthmodel.ErrorCodeInvalidGrant, http.StatusBadRequest)

		_, err = f.repos.Codes.Get(code)
		require.ErrorIs(t, err, authcode.ErrNotFound)
	})

	t.Run("redemption at the expiry instant fails", func(t *testing.T) {
		f := newServiceFixture(t)
		code := f.issueCode(t, &auth.AuthorizationParameters{ClientID: "c1", ResponseType: "code"})

		f.now = f.now.Add(authcode.Lifetime)
		_, err := f.service.Token(basicTokenRequest(code))
		requireOAuthError(t, err, oauthmodel.ErrorCodeInvalidGrant, http.StatusBadRequest)
	})

	t.Run("code issued to another client", func(t *testing.T) {
		f := newServiceFixture(t)
		code := f.issueCode(t, &auth.AuthorizationParameters{ClientID: "c2", ResponseType: "code"})

		// c1 authenticates successfully but presents c2's code.
		req := basicTokenRequest(code)
		req.RedirectURI = "https://other.example.com/callback"
		_, err := f.service.Token(req)
		requireOAuthError(t, err, oauthmodel.ErrorCodeInvalidGrant, http.StatusBadRequest)
	})

	t.Run("redirect_uri mismatch", func(t *testing.T) {
		f := newServiceFixture(t)
		code := f.issueCode(t, &auth.AuthorizationParameters{
			ClientID:     "c1",
			ResponseType: "code",
			RedirectURI:  "https://app.example.com/alt",
		})

		req := basicTokenRequest(code) // carries /callback, grant is bound to /alt
		_, err := f.service.Token(req)
		requireOAuthError(t, err, oauthmodel.ErrorCodeInvalidGrant, http.StatusBadRequest)
	})
}

func TestToken_RedirectBindingPolicy(t *testing.T) {
	// A stored context with an empty redirect URI cannot be produced by
	// Authorize; it models hand-crafted or tampered store contents.
	emptyURIGrant := func(f *serviceFixture) string {
		grant := &authcode.Code{
			Code:      "emptyuricode1234567890abcdefghij",
			ClientID:  "c1",
			Subject:   auth.PlaceholderSubject,
			ExpiresAt: f.now.Add(authcode.Lifetime),
		}
		if err := f.repos.Codes.Upsert(grant); err != nil {
			panic(err)
		}
		return grant.Code
	}

	t.Run("required binding refuses empty stored URI", func(t *testing.T) {
		f := newServiceFixture(t)
		code := emptyURIGrant(f)
		_, err := f.service.Token(basicTokenRequest(code))
		requireOAuthError(t, err, oauthmodel.ErrorCodeInvalidGrant, http.StatusBadRequest)
	})

	t.Run("optional binding skips the check for empty stored URI", func(t *testing.T) {
		f := newServiceFixture(t, auth.WithRedirectURIBinding(false))
		code := emptyURIGrant(f)
		resp, err := f.service.Token(basicTokenRequest(code))
		require.NoError(t, err)
		require.NotEmpty(t, resp.AccessToken)
	})
}

func TestToken_ConcurrentRedemption(t *testing.T) {
	f := newServiceFixture(t)
	code := f.issueCode(t, &auth.AuthorizationParameters{ClientID: "c1", ResponseType: "code"})

	const attempts = 8
	var wg sync.WaitGroup
	results := make([]error, attempts)
	for i := 0; i < attempts; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			_, results[i] = f.service.Token(basicTokenRequest(code))
		}(i)
	}
	wg.Wait()

	var successes, invalidGrants int
	for _, err := range results {
		if err == nil {
			successes++
			continue
		}
		oauthErr, ok := err.(*oauthmodel.Error)
		require.True(t, ok)
		require.Equal(t, oauthmodel.ErrorCodeInvalidGrant, oauthErr.Code)
		invalidGrants++
	}
	require.Equal(t, 1, successes, "exactly one redemption must win")
	require.Equal(t, attempts-1, invalidGrants)
}
