package repository

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jitenkr2030/FinSmartAI-sub002/internal/models"
	"github.com/jitenkr2030/FinSmartAI-sub002/migrations"
)

func newTestRepo(t *testing.T) *SQLiteRepository {
	t.Helper()
	repo, err := NewSQLiteRepository(":memory:")
	require.NoError(t, err)
	t.Cleanup(func() { _ = repo.Close() })
	require.NoError(t, repo.RunMigrations(migrations.InitialSchema))
	return repo
}

func TestUserRoundTrip(t *testing.T) {
	repo := newTestRepo(t)
	ctx := context.Background()

	u := &models.User{
		Email:        "asha@example.com",
		PasswordHash: "hash",
		FullName:     "Asha Rao",
	}
	require.NoError(t, repo.CreateUser(ctx, u))
	require.NotEmpty(t, u.ID)

	got, err := repo.GetUserByEmail(ctx, "asha@example.com")
	require.NoError(t, err)
	assert.Equal(t, u.ID, got.ID)
	assert.Equal(t, "Asha Rao", got.FullName)

	_, err = repo.GetUserByEmail(ctx, "missing@example.com")
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestDuplicateEmailRejected(t *testing.T) {
	repo := newTestRepo(t)
	ctx := context.Background()

	require.NoError(t, repo.CreateUser(ctx, &models.User{Email: "a@b.co", PasswordHash: "h", FullName: "A"}))
	err := repo.CreateUser(ctx, &models.User{Email: "a@b.co", PasswordHash: "h", FullName: "B"})
	assert.Error(t, err)
}

func TestPredictionLogPagination(t *testing.T) {
	repo := newTestRepo(t)
	ctx := context.Background()

	for i := 0; i < 5; i++ {
		require.NoError(t, repo.CreatePredictionLog(ctx, &models.PredictionLog{
			Kind:    "sentiment",
			Subject: "NIFTY",
			Result:  `{"score":0.5}`,
		}))
	}
	logs, err := repo.ListPredictionLogs(ctx, 1, 3)
	require.NoError(t, err)
	assert.Len(t, logs, 3)

	logs, err = repo.ListPredictionLogs(ctx, 2, 3)
	require.NoError(t, err)
	assert.Len(t, logs, 2)
}

func TestAuditLogAppend(t *testing.T) {
	repo := newTestRepo(t)
	ctx := context.Background()

	require.NoError(t, repo.CreateAuditLog(ctx, &models.AuditLogEntry{
		Username: "anonymous",
		Action:   "login_failed",
		Path:     "/api/auth/login",
		Method:   "POST",
		Status:   401,
	}))
	entries, err := repo.ListAuditLogs(ctx, 1, 10)
	require.NoError(t, err)
	require.Len(t, entries, 1)
	assert.Equal(t, "login_failed", entries[0].Action)
}
