package sqliterepo_test

import (
	"context"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/bookrec/auth-service/internal/autherr"
	"github.com/bookrec/auth-service/users"
	"github.com/bookrec/auth-service/users/sqliterepo"
)

func setupRepo(t *testing.T) *sqliterepo.Repo {
	t.Helper()

	repo, err := sqliterepo.Open(context.Background(), filepath.Join(t.TempDir(), "users.db"))
	require.NoError(t, err)
	t.Cleanup(func() { _ = repo.Close() })

	return repo
}

func TestCreateAndGet(t *testing.T) {
	repo := setupRepo(t)
	ctx := context.Background()

	id, err := repo.Create(ctx, "sub-1", users.UserForCreation{Username: "alice"})
	require.NoError(t, err)
	require.Greater(t, id, int64(0))

	bySubject, err := repo.GetBySubject(ctx, "sub-1")
	require.NoError(t, err)
	require.Equal(t, id, bySubject.ID)
	require.Equal(t, "alice", bySubject.Username)
	require.False(t, bySubject.CreatedAt.IsZero())

	byID, err := repo.GetByID(ctx, id)
	require.NoError(t, err)
	require.Equal(t, "sub-1", byID.Subject)
}

func TestDuplicateSubjectIsRejected(t *testing.T) {
	repo := setupRepo(t)
	ctx := context.Background()

	_, err := repo.Create(ctx, "sub-1", users.UserForCreation{Username: "alice"})
	require.NoError(t, err)

	_, err = repo.Create(ctx, "sub-1", users.UserForCreation{Username: "bob"})
	require.ErrorIs(t, err, autherr.ErrDuplicatedUser)
}

func TestMissingUserIsNotFound(t *testing.T) {
	repo := setupRepo(t)
	ctx := context.Background()

	_, err := repo.GetBySubject(ctx, "no-such-subject")
	require.ErrorIs(t, err, autherr.ErrUserNotFound)

	_, err = repo.GetByID(ctx, 999)
	require.ErrorIs(t, err, autherr.ErrUserNotFound)
}

func TestExists(t *testing.T) {
	repo := setupRepo(t)
	ctx := context.Background()

	id, err := repo.Create(ctx, "sub-1", users.UserForCreation{Username: "alice"})
	require.NoError(t, err)

	exists, err := repo.Exists(ctx, id)
	require.NoError(t, err)
	require.True(t, exists)

	exists, err = repo.Exists(ctx, id+1)
	require.NoError(t, err)
	require.False(t, exists)
}

func TestMigrationsAreIdempotent(t *testing.T) {
	dbPath := filepath.Join(t.TempDir(), "users.db")
	ctx := context.Background()

	repo, err := sqliterepo.Open(ctx, dbPath)
	require.NoError(t, err)

	_, err = repo.Create(ctx, "sub-1", users.UserForCreation{Username: "alice"})
	require.NoError(t, err)
	require.NoError(t, repo.Close())

	reopened, err := sqliterepo.Open(ctx, dbPath)
	require.NoError(t, err)
	t.Cleanup(func() { _ = reopened.Close() })

	user, err := reopened.GetBySubject(ctx, "sub-1")
	require.NoError(t, err)
	require.Equal(t, "alice", user.Username)
}
