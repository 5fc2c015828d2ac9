package config

// ProviderConfig covers the external OpenID Connect identity provider.
// The issuer URL must not carry a trailing slash.
type ProviderConfig interface {
	GetProviderURL() string
	GetProviderClientID() string
	GetProviderClientSecret() string
	GetProviderRedirectURL() string
}

type Provider struct{}

var _ ProviderConfig = Provider{}

func (Provider) GetProviderURL() string {
	return GetEnv("ID_PROVIDER_URL", "http://localhost:8001")
}

func (Provider) GetProviderClientID() string {
	return GetEnv("ID_PROVIDER_CLIENT_ID", "id")
}

func (Provider) GetProviderClientSecret() string {
	return GetEnv("ID_PROVIDER_CLIENT_SECRET", "secret")
}

func (Provider) GetProviderRedirectURL() string {
	return GetEnv("ID_PROVIDER_REDIRECT_URL", "http://localhost:8000")
}
