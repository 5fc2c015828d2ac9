// Package refresh manages the rotating refresh-token chain. A token is
// an opaque random string stored in the session cache under its own key
// with the configured lifetime; verifying a token consumes it, and the
// orchestrator immediately issues a replacement.
package refresh

import (
	"context"
	"crypto/rand"
	"encoding/hex"
	"strconv"
	"time"

	"github.com/pkg/errors"

	"github.com/bookrec/auth-service/cache"
	"github.com/bookrec/auth-service/internal/autherr"
)

// NowTimeFunc returns the current time. It can be overridden in tests.
var NowTimeFunc = time.Now

const tokenLength = 32 // bytes of entropy, hex-encoded on the wire

// RefreshToken is the issued credential handed back to the client.
type RefreshToken struct {
	Token     string
	UserID    int64
	ExpiresAt time.Time
}

// Manager issues, rotates, and invalidates refresh tokens.
type Manager struct {
	store *cache.Store
	ttl   time.Duration
}

// NewManager creates a refresh token manager over the given cache
// namespace.
func NewManager(store *cache.Store, ttl time.Duration) *Manager {
	return &Manager{
		store: store,
		ttl:   ttl,
	}
}

// Issue generates a new refresh token for userID and stores it with the
// configured TTL.
func (m *Manager) Issue(ctx context.Context, userID int64) (*RefreshToken, error) {
	tokenBytes := make([]byte, tokenLength)
	if _, err := rand.Read(tokenBytes); err != nil {
		return nil, errors.Wrap(err, "[Manager.Issue] rand.Read")
	}
	tokenStr := hex.EncodeToString(tokenBytes)

	if err := m.store.SetWithTTL(ctx, tokenStr, strconv.FormatInt(userID, 10), m.ttl); err != nil {
		return nil, errors.Wrap(err, "[Manager.Issue] cache write")
	}

	return &RefreshToken{
		Token:     tokenStr,
		UserID:    userID,
		ExpiresAt: NowTimeFunc().Add(m.ttl),
	}, nil
}

// VerifyAndRotate consumes the presented token and returns the user id
// it was issued for. The cache entry is deleted in the same atomic
// operation that reads it, so any replay of the token, concurrent ones
// included, fails with ErrInvalidRefreshToken. Issuing the replacement
// token is the caller's job.
func (m *Manager) VerifyAndRotate(ctx context.Context, presentedToken string) (int64, error) {
	if presentedToken == "" {
		return 0, autherr.ErrInvalidRefreshToken
	}

	value, err := m.store.FetchDel(ctx, presentedToken)
	if err != nil {
		if errors.Is(err, cache.ErrCacheMiss) {
			return 0, autherr.ErrInvalidRefreshToken
		}
		return 0, errors.Wrap(err, "[Manager.VerifyAndRotate] cache fetch")
	}

	userID, err := strconv.ParseInt(value, 10, 64)
	if err != nil {
		return 0, errors.Wrap(err, "[Manager.VerifyAndRotate] corrupt cache entry")
	}
	return userID, nil
}

// Invalidate removes a refresh token, ending its session chain.
func (m *Manager) Invalidate(ctx context.Context, token string) error {
	return m.store.Delete(ctx, token)
}
