// Package signup issues one-time codes binding an authenticated IdP
// subject to a pending account creation. The code lets the client
// finish registration without repeating the IdP exchange.
package signup

import (
	"context"
	"crypto/rand"
	"encoding/hex"
	"time"

	"github.com/pkg/errors"

	"github.com/bookrec/auth-service/cache"
	"github.com/bookrec/auth-service/internal/autherr"
)

const codeLength = 32

// Manager issues and consumes sign-up codes.
type Manager struct {
	store *cache.Store
	ttl   time.Duration
}

// NewManager creates a sign-up code manager over the given cache
// namespace.
func NewManager(store *cache.Store, ttl time.Duration) *Manager {
	return &Manager{
		store: store,
		ttl:   ttl,
	}
}

// Issue generates an opaque code mapping to subject and stores it with
// the configured TTL.
func (m *Manager) Issue(ctx context.Context, subject string) (string, error) {
	codeBytes := make([]byte, codeLength)
	if _, err := rand.Read(codeBytes); err != nil {
		return "", errors.Wrap(err, "[Manager.Issue] rand.Read")
	}
	code := hex.EncodeToString(codeBytes)

	if err := m.store.SetWithTTL(ctx, code, subject, m.ttl); err != nil {
		return "", errors.Wrap(err, "[Manager.Issue] cache write")
	}
	return code, nil
}

// Verify consumes the code and returns the subject it was issued for.
// Absent, expired, or already-used codes fail with ErrInvalidCode.
func (m *Manager) Verify(ctx context.Context, code string) (string, error) {
	if code == "" {
		return "", autherr.ErrInvalidCode
	}

	subject, err := m.store.FetchDel(ctx, code)
	if err != nil {
		if errors.Is(err, cache.ErrCacheMiss) {
			return "", autherr.ErrInvalidCode
		}
		return "", errors.Wrap(err, "[Manager.Verify] cache fetch")
	}
	return subject, nil
}
