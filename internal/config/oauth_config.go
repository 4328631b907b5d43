package config

import "os"

type OAuth struct{}

var _ OAuthConfig = OAuth{}

// GetRedirectURIBindingRequired defaults to required; set
// REDIRECT_URI_BINDING=optional to allow redemption of codes whose stored
// redirect URI is empty.
func (OAuth) GetRedirectURIBindingRequired() bool {
	return os.Getenv("REDIRECT_URI_BINDING") != "optional"
}

func (OAuth) GetSeedClientsFile() string {
	return GetEnv(seedClientVar, "")
}
