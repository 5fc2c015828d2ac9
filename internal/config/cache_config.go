package config

import "time"

// CacheConfig covers the key prefixes and lifetimes of the one-time
// artifacts held in the session cache.
type CacheConfig interface {
	GetLoginSessionPrefix() string
	GetLoginSessionTTL() time.Duration
	GetSignUpCodePrefix() string
	GetSignUpCodeTTL() time.Duration
	GetRefreshTokenPrefix() string
	GetRefreshTokenTTL() time.Duration
}

type Cache struct{}

var _ CacheConfig = Cache{}

func (Cache) GetLoginSessionPrefix() string {
	return GetEnv("LOGIN_SESSION_PREFIX", "LS-")
}

func (Cache) GetLoginSessionTTL() time.Duration {
	return GetEnvSeconds("LOGIN_SESSION_EXP", 900*time.Second)
}

func (Cache) GetSignUpCodePrefix() string {
	return GetEnv("SIGN_UP_SESSION_PREFIX", "SUS-")
}

func (Cache) GetSignUpCodeTTL() time.Duration {
	return GetEnvSeconds("SIGN_UP_SESSION_EXP", 900*time.Second)
}

func (Cache) GetRefreshTokenPrefix() string {
	return GetEnv("REFRESH_PREFIX", "REF-")
}

func (Cache) GetRefreshTokenTTL() time.Duration {
	return GetEnvSeconds("REFRESH_EXP", 7*24*time.Hour)
}
