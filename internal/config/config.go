package config

type Config interface {
	EnvConfig
	CorsConfig
	CacheConfig
	ProviderConfig
	TokenConfig
}

type mainConfig struct {
	EnvVars
	Cors
	Cache
	Provider
	Token
}

func New() Config {
	return mainConfig{}
}
