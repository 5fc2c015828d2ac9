package loginsession_test

import (
	"context"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/require"

	"github.com/bookrec/auth-service/cache"
	"github.com/bookrec/auth-service/internal/autherr"
	"github.com/bookrec/auth-service/loginsession"
	"github.com/bookrec/auth-service/loginsession/idpfake"
)

func setupManager(t *testing.T) (*loginsession.Manager, *idpfake.FakeExchanger, *miniredis.Miniredis) {
	t.Helper()

	mr := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { _ = client.Close() })

	idp := idpfake.NewFakeExchanger()
	manager := loginsession.NewManager(cache.NewStore(client, "LS-"), idp, 15*time.Minute)
	return manager, idp, mr
}

func TestStartReturnsDistinctSessions(t *testing.T) {
	manager, _, _ := setupManager(t)
	ctx := context.Background()

	first, err := manager.Start(ctx)
	require.NoError(t, err)
	require.NotEmpty(t, first.SessionID)
	require.NotEmpty(t, first.Nonce)
	require.NotEmpty(t, first.CodeChallenge)

	second, err := manager.Start(ctx)
	require.NoError(t, err)
	require.NotEqual(t, first.SessionID, second.SessionID)
	require.NotEqual(t, first.Nonce, second.Nonce)
}

func TestResolveSubject(t *testing.T) {
	manager, idp, _ := setupManager(t)
	ctx := context.Background()

	session, err := manager.Start(ctx)
	require.NoError(t, err)

	idp.RegisterCode("c1", "sub-1", session.Nonce)

	subject, err := manager.ResolveSubject(ctx, session.SessionID, "c1")
	require.NoError(t, err)
	require.Equal(t, "sub-1", subject)
}

func TestSessionResolvesAtMostOnce(t *testing.T) {
	manager, idp, _ := setupManager(t)
	ctx := context.Background()

	session, err := manager.Start(ctx)
	require.NoError(t, err)

	idp.RegisterCode("c1", "sub-1", session.Nonce)

	_, err = manager.ResolveSubject(ctx, session.SessionID, "c1")
	require.NoError(t, err)

	_, err = manager.ResolveSubject(ctx, session.SessionID, "c1")
	require.ErrorIs(t, err, autherr.ErrInvalidCode)
}

func TestFailedExchangeStillConsumesSession(t *testing.T) {
	manager, idp, _ := setupManager(t)
	ctx := context.Background()

	session, err := manager.Start(ctx)
	require.NoError(t, err)

	// First attempt with a code the IdP does not know
	_, err = manager.ResolveSubject(ctx, session.SessionID, "bogus")
	require.ErrorIs(t, err, autherr.ErrInvalidCode)

	// A valid retry on the same session must fail too
	idp.RegisterCode("c1", "sub-1", session.Nonce)
	_, err = manager.ResolveSubject(ctx, session.SessionID, "c1")
	require.ErrorIs(t, err, autherr.ErrInvalidCode)
}

func TestNonceMismatchFails(t *testing.T) {
	manager, idp, _ := setupManager(t)
	ctx := context.Background()

	session, err := manager.Start(ctx)
	require.NoError(t, err)

	idp.RegisterCode("c1", "sub-1", "a-nonce-from-another-session")

	_, err = manager.ResolveSubject(ctx, session.SessionID, "c1")
	require.ErrorIs(t, err, autherr.ErrInvalidCode)
}

func TestMissingIDTokenFails(t *testing.T) {
	manager, idp, _ := setupManager(t)
	ctx := context.Background()

	session, err := manager.Start(ctx)
	require.NoError(t, err)

	idp.RegisterCode("c1", "sub-1", session.Nonce)
	idp.OmitIDToken()

	_, err = manager.ResolveSubject(ctx, session.SessionID, "c1")
	require.ErrorIs(t, err, autherr.ErrIDTokenMissing)
}

func TestExpiredSessionFails(t *testing.T) {
	manager, idp, mr := setupManager(t)
	ctx := context.Background()

	session, err := manager.Start(ctx)
	require.NoError(t, err)

	idp.RegisterCode("c1", "sub-1", session.Nonce)
	mr.FastForward(16 * time.Minute)

	_, err = manager.ResolveSubject(ctx, session.SessionID, "c1")
	require.ErrorIs(t, err, autherr.ErrInvalidCode)
}

func TestUnknownSessionFails(t *testing.T) {
	manager, _, _ := setupManager(t)

	_, err := manager.ResolveSubject(context.Background(), "no-such-session", "c1")
	require.ErrorIs(t, err, autherr.ErrInvalidCode)
}
