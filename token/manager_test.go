package token_test

import (
	"encoding/base64"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/bookrec/auth-service/internal/autherr"
	"github.com/bookrec/auth-service/token"
)

type testTokenConfig struct {
	issuer string
	secret string
	expiry time.Duration
}

func (c testTokenConfig) GetAccessTokenIssuer() string        { return c.issuer }
func (c testTokenConfig) GetAccessTokenSecret() string        { return c.secret }
func (c testTokenConfig) GetAccessTokenExpiry() time.Duration { return c.expiry }
func (c testTokenConfig) GetRefreshTokenCookieName() string   { return "refresh_token" }
func (c testTokenConfig) GetRefreshTokenCookiePath() string   { return "/" }

func testConfig() testTokenConfig {
	return testTokenConfig{
		issuer: "book-record",
		secret: base64.StdEncoding.EncodeToString([]byte("test-signing-key")),
		expiry: 15 * time.Minute,
	}
}

func TestMintVerifyRoundTrip(t *testing.T) {
	manager, err := token.New(testConfig())
	require.NoError(t, err)

	signed, err := manager.Mint(42)
	require.NoError(t, err)
	require.NotEmpty(t, signed)

	userID, err := manager.Verify(signed)
	require.NoError(t, err)
	require.Equal(t, int64(42), userID)
}

func TestExpiredTokenIsRejected(t *testing.T) {
	now := time.Now()
	minter, err := token.New(testConfig(), token.WithNowFunc(func() time.Time {
		return now.Add(-time.Hour)
	}))
	require.NoError(t, err)

	signed, err := minter.Mint(42)
	require.NoError(t, err)

	verifier, err := token.New(testConfig())
	require.NoError(t, err)

	_, err = verifier.Verify(signed)
	require.ErrorIs(t, err, autherr.ErrInvalidAccessToken)
}

func TestWrongIssuerIsRejected(t *testing.T) {
	cfg := testConfig()
	minter, err := token.New(cfg)
	require.NoError(t, err)

	cfg.issuer = "someone-else"
	verifier, err := token.New(cfg)
	require.NoError(t, err)

	signed, err := minter.Mint(42)
	require.NoError(t, err)

	_, err = verifier.Verify(signed)
	require.ErrorIs(t, err, autherr.ErrInvalidAccessToken)
}

func TestWrongSecretIsRejected(t *testing.T) {
	cfg := testConfig()
	minter, err := token.New(cfg)
	require.NoError(t, err)

	cfg.secret = base64.StdEncoding.EncodeToString([]byte("a-different-key"))
	verifier, err := token.New(cfg)
	require.NoError(t, err)

	signed, err := minter.Mint(42)
	require.NoError(t, err)

	_, err = verifier.Verify(signed)
	require.ErrorIs(t, err, autherr.ErrInvalidAccessToken)
}

func TestGarbageTokenIsRejected(t *testing.T) {
	manager, err := token.New(testConfig())
	require.NoError(t, err)

	_, err = manager.Verify("not.a.jwt")
	require.ErrorIs(t, err, autherr.ErrInvalidAccessToken)
}

func TestEmptyTokenIsMissing(t *testing.T) {
	manager, err := token.New(testConfig())
	require.NoError(t, err)

	_, err = manager.Verify("")
	require.ErrorIs(t, err, autherr.ErrMissingAccessToken)
}

func TestInvalidSecretEncoding(t *testing.T) {
	cfg := testConfig()
	cfg.secret = "not base64!!!"

	_, err := token.New(cfg)
	require.Error(t, err)
}
