package config

import "time"

type TokenConfig interface {
	GetAccessTokenIssuer() string
	GetAccessTokenSecret() string // base64-encoded HMAC key
	GetAccessTokenExpiry() time.Duration
	GetRefreshTokenCookieName() string
	GetRefreshTokenCookiePath() string
}

type Token struct{}

var _ TokenConfig = Token{}

func (Token) GetAccessTokenIssuer() string {
	return GetEnv("ACCESS_ISS", "book-record")
}

func (Token) GetAccessTokenSecret() string {
	return GetEnv("ACCESS_SECRET", "c2VjcmV0LXNpZ25pbmcta2V5LWZvci1sb2NhbC1kZXY=")
}

func (Token) GetAccessTokenExpiry() time.Duration {
	return GetEnvSeconds("ACCESS_EXP", 15*time.Minute)
}

func (Token) GetRefreshTokenCookieName() string {
	return GetEnv("REFRESH_TOKEN_COOKIE_NAME", "refresh_token")
}

func (Token) GetRefreshTokenCookiePath() string {
	return GetEnv("REFRESH_TOKEN_COOKIE_PATH", "/")
}
