package repositories_test

import (
	"context"
	"fmt"
	"path/filepath"
	"sync"
	"sync/atomic"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"storefront/internal/apperrors"
	"storefront/internal/database"
	"storefront/internal/models"
	"storefront/internal/repositories"
)

func newGORMRepo(t *testing.T) repositories.UserRepository {
	t.Helper()
	dsn := fmt.Sprintf("file:%s?_busy_timeout=5000", filepath.Join(t.TempDir(), "users.db"))
	db, err := database.Open("sqlite", dsn)
	require.NoError(t, err)
	require.NoError(t, database.Migrate(db))
	t.Cleanup(func() {
		if sqlDB, err := db.DB(); err == nil {
			sqlDB.Close()
		}
	})
	return repositories.NewGORMUserRepository(db)
}

func repos(t *testing.T) map[string]repositories.UserRepository {
	return map[string]repositories.UserRepository{
		"gorm":   newGORMRepo(t),
		"memory": repositories.NewMemoryUserRepository(),
	}
}

func TestUserRepository_CreateAndFind(t *testing.T) {
	ctx := context.Background()
	for name, repo := range repos(t) {
		t.Run(name, func(t *testing.T) {
			user := &models.User{Name: "A", Email: "a@x.com", PasswordHash: "digest"}
			require.NoError(t, repo.Create(ctx, user))
			assert.NotEmpty(t, user.ID)

			found, err := repo.FindByEmail(ctx, "a@x.com")
			require.NoError(t, err)
			assert.Equal(t, user.ID, found.ID)
			assert.Equal(t, "digest", found.PasswordHash)

			byID, err := repo.FindByID(ctx, user.ID)
			require.NoError(t, err)
			assert.Equal(t, "a@x.com", byID.Email)

			_, err = repo.FindByEmail(ctx, "A@X.COM")
			assert.ErrorIs(t, err, apperrors.ErrNotFound)
		})
	}
}

func TestUserRepository_DuplicateEmail(t *testing.T) {
	ctx := context.Background()
	for name, repo := range repos(t) {
		t.Run(name, func(t *testing.T) {
			require.NoError(t, repo.Create(ctx, &models.User{Name: "A", Email: "dup@x.com", PasswordHash: "h"}))
			err := repo.Create(ctx, &models.User{Name: "B", Email: "dup@x.com", PasswordHash: "h"})
			assert.ErrorIs(t, err, apperrors.ErrDuplicateIdentity)
		})
	}
}

func TestUserRepository_ConcurrentCreateSingleWinner(t *testing.T) {
	ctx := context.Background()
	for name, repo := range repos(t) {
		t.Run(name, func(t *testing.T) {
			const attempts = 8
			var (
				wg        sync.WaitGroup
				successes atomic.Int32
				dups      atomic.Int32
			)
			for i := 0; i < attempts; i++ {
				wg.Add(1)
				go func(i int) {
					defer wg.Done()
					err := repo.Create(ctx, &models.User{Name: fmt.Sprintf("u%d", i), Email: "race@x.com", PasswordHash: "h"})
					switch {
					case err == nil:
						successes.Add(1)
					case assert.ErrorIs(t, err, apperrors.ErrDuplicateIdentity):
						dups.Add(1)
					}
				}(i)
			}
			wg.Wait()

			assert.Equal(t, int32(1), successes.Load())
			assert.Equal(t, int32(attempts-1), dups.Load())
		})
	}
}
