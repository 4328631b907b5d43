package config

type Config interface {
	EnvConfig
	CorsConfig
	OAuthConfig
}

type EnvConfig interface {
	GetPort() string
	GetAppName() string
	GetBaseURL() string
	GetEnv() string
}

type CorsConfig interface {
	GetAllowedOrigins() AllowedOrigins
	GetAllowedMethods() string
	GetAllowedHeaders() string
}

type OAuthConfig interface {
	// GetRedirectURIBindingRequired reports whether a code with an empty
	// stored redirect URI may still be redeemed. Defaults to required.
	GetRedirectURIBindingRequired() bool

	// GetSeedClientsFile returns the path of a JSON file of clients to load
	// into the registry at startup, empty when none is configured.
	GetSeedClientsFile() string
}

type mainConfig struct {
	EnvVars
	Cors
	OAuth
}

func New() Config {
	return mainConfig{}
}
