package signup_test

import (
	"context"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/require"

	"github.com/bookrec/auth-service/cache"
	"github.com/bookrec/auth-service/internal/autherr"
	"github.com/bookrec/auth-service/signup"
)

func setupManager(t *testing.T) (*signup.Manager, *miniredis.Miniredis) {
	t.Helper()

	mr := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { _ = client.Close() })

	return signup.NewManager(cache.NewStore(client, "SUS-"), 15*time.Minute), mr
}

func TestIssueAndVerify(t *testing.T) {
	manager, _ := setupManager(t)
	ctx := context.Background()

	code, err := manager.Issue(ctx, "sub-1")
	require.NoError(t, err)
	require.NotEmpty(t, code)

	subject, err := manager.Verify(ctx, code)
	require.NoError(t, err)
	require.Equal(t, "sub-1", subject)
}

func TestCodeIsSingleUse(t *testing.T) {
	manager, _ := setupManager(t)
	ctx := context.Background()

	code, err := manager.Issue(ctx, "sub-1")
	require.NoError(t, err)

	_, err = manager.Verify(ctx, code)
	require.NoError(t, err)

	_, err = manager.Verify(ctx, code)
	require.ErrorIs(t, err, autherr.ErrInvalidCode)
}

func TestExpiredCodeFails(t *testing.T) {
	manager, mr := setupManager(t)
	ctx := context.Background()

	code, err := manager.Issue(ctx, "sub-1")
	require.NoError(t, err)

	mr.FastForward(16 * time.Minute)

	_, err = manager.Verify(ctx, code)
	require.ErrorIs(t, err, autherr.ErrInvalidCode)
}

func TestUnknownCodeFails(t *testing.T) {
	manager, _ := setupManager(t)

	_, err := manager.Verify(context.Background(), "no-such-code")
	require.ErrorIs(t, err, autherr.ErrInvalidCode)

	_, err = manager.Verify(context.Background(), "")
	require.ErrorIs(t, err, autherr.ErrInvalidCode)
}
