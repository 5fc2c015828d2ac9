// Package token is the stateless access-token codec. Tokens are
// short-lived HS256 JWTs carrying issuer, subject (the user id), and
// expiry; nothing about them is persisted, so they cannot be revoked
// before they expire and callers must keep the lifetime short.
package token

import (
	"encoding/base64"
	"strconv"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/pkg/errors"

	"github.com/bookrec/auth-service/internal/autherr"
	"github.com/bookrec/auth-service/internal/config"
)

// Manager mints and verifies access tokens.
type Manager struct {
	issuer  string
	secret  []byte
	expiry  time.Duration
	nowFunc func() time.Time
}

type ManagerOption func(*Manager)

// WithNowFunc sets the now time function (primarily for testing)
func WithNowFunc(now func() time.Time) ManagerOption {
	return func(m *Manager) {
		m.nowFunc = now
	}
}

// New creates a token Manager. The configured signing secret is
// base64-encoded; it is decoded once here.
func New(cfg config.TokenConfig, options ...ManagerOption) (*Manager, error) {
	secret, err := base64.StdEncoding.DecodeString(cfg.GetAccessTokenSecret())
	if err != nil {
		return nil, errors.Wrap(err, "[token.New] secret key decoding")
	}

	m := &Manager{
		issuer:  cfg.GetAccessTokenIssuer(),
		secret:  secret,
		expiry:  cfg.GetAccessTokenExpiry(),
		nowFunc: time.Now,
	}

	for _, opt := range options {
		opt(m)
	}

	return m, nil
}

// Mint builds and signs an access token for userID.
func (m *Manager) Mint(userID int64) (string, error) {
	now := m.nowFunc()
	claims := jwt.RegisteredClaims{
		Issuer:    m.issuer,
		Subject:   strconv.FormatInt(userID, 10),
		IssuedAt:  jwt.NewNumericDate(now),
		ExpiresAt: jwt.NewNumericDate(now.Add(m.expiry)),
	}

	signed, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(m.secret)
	if err != nil {
		return "", errors.Wrap(err, "[Manager.Mint] signing")
	}
	return signed, nil
}

// Verify checks signature, issuer, and expiry, and returns the user id
// the token was minted for. Verification is purely local; the caller is
// expected to confirm the user still exists before trusting the
// identity.
func (m *Manager) Verify(rawToken string) (int64, error) {
	if rawToken == "" {
		return 0, autherr.ErrMissingAccessToken
	}

	parser := jwt.NewParser(
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
		jwt.WithIssuer(m.issuer),
		jwt.WithExpirationRequired(),
		jwt.WithTimeFunc(m.nowFunc),
	)

	var claims jwt.RegisteredClaims
	_, err := parser.ParseWithClaims(rawToken, &claims, func(*jwt.Token) (interface{}, error) {
		return m.secret, nil
	})
	if err != nil {
		return 0, autherr.ErrInvalidAccessToken
	}

	userID, err := strconv.ParseInt(claims.Subject, 10, 64)
	if err != nil {
		return 0, autherr.ErrInvalidAccessToken
	}
	return userID, nil
}

// Expiry reports the configured access-token lifetime.
func (m *Manager) Expiry() time.Duration {
	return m.expiry
}
