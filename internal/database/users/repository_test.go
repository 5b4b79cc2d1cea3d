package users

import (
	"context"
	"os"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"github.com/bookfriends/server/internal/entities"
)

func setupTestDB(t *testing.T) (*Repository, func()) {
	dbPath := "./test_users_" + t.Name() + ".db"

	db, err := gorm.Open(sqlite.Open(dbPath), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	require.NoError(t, err)

	err = db.AutoMigrate(&entities.User{})
	require.NoError(t, err)

	repo := NewRepository(db)

	cleanup := func() {
		sqlDB, _ := db.DB()
		sqlDB.Close()
		os.Remove(dbPath)
	}

	return repo, cleanup
}

func TestRepository_Create(t *testing.T) {
	repo, cleanup := setupTestDB(t)
	defer cleanup()
	ctx := context.Background()

	user := &entities.User{PhoneNumber: "13800000000", NickName: "reader"}
	require.NoError(t, repo.Create(ctx, user))

	assert.True(t, strings.HasPrefix(user.ID, "usr-"))
	assert.NotZero(t, user.CreatedAt)
}

func TestRepository_Create_KeepsExplicitID(t *testing.T) {
	repo, cleanup := setupTestDB(t)
	defer cleanup()

	user := &entities.User{ID: "u1", PhoneNumber: "1"}
	require.NoError(t, repo.Create(context.Background(), user))
	assert.Equal(t, "u1", user.ID)
}

func TestRepository_Create_DuplicatePhone(t *testing.T) {
	repo, cleanup := setupTestDB(t)
	defer cleanup()
	ctx := context.Background()

	require.NoError(t, repo.Create(ctx, &entities.User{PhoneNumber: "1"}))
	assert.Error(t, repo.Create(ctx, &entities.User{PhoneNumber: "1"}))
}

func TestRepository_Exists(t *testing.T) {
	repo, cleanup := setupTestDB(t)
	defer cleanup()
	ctx := context.Background()

	require.NoError(t, repo.Create(ctx, &entities.User{ID: "u1", PhoneNumber: "1"}))

	exists, err := repo.Exists(ctx, "u1")
	require.NoError(t, err)
	assert.True(t, exists)

	exists, err = repo.Exists(ctx, "missing")
	require.NoError(t, err)
	assert.False(t, exists)
}

func TestRepository_GetByPhoneNumber(t *testing.T) {
	repo, cleanup := setupTestDB(t)
	defer cleanup()
	ctx := context.Background()

	require.NoError(t, repo.Create(ctx, &entities.User{ID: "u1", PhoneNumber: "13800000000"}))

	user, err := repo.GetByPhoneNumber(ctx, "13800000000")
	require.NoError(t, err)
	assert.Equal(t, "u1", user.ID)

	_, err = repo.GetByPhoneNumber(ctx, "000")
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestRepository_GetByID_NotFound(t *testing.T) {
	repo, cleanup := setupTestDB(t)
	defer cleanup()

	_, err := repo.GetByID(context.Background(), "nope")
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestRepository_UpdateProfile(t *testing.T) {
	repo, cleanup := setupTestDB(t)
	defer cleanup()
	ctx := context.Background()

	require.NoError(t, repo.Create(ctx, &entities.User{ID: "u1", PhoneNumber: "1", NickName: "old", Signature: "keep"}))

	user, err := repo.UpdateProfile(ctx, "u1", Profile{NickName: "new", Location: "Berlin"})
	require.NoError(t, err)

	assert.Equal(t, "new", user.NickName)
	assert.Equal(t, "Berlin", user.Location)
	assert.Equal(t, "keep", user.Signature)
}

func TestRepository_UpdateProfile_NotFound(t *testing.T) {
	repo, cleanup := setupTestDB(t)
	defer cleanup()

	_, err := repo.UpdateProfile(context.Background(), "nope", Profile{NickName: "x"})
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestRepository_UpdatePasswordHash(t *testing.T) {
	repo, cleanup := setupTestDB(t)
	defer cleanup()
	ctx := context.Background()

	require.NoError(t, repo.Create(ctx, &entities.User{ID: "u1", PhoneNumber: "1", PasswordHash: "a"}))
	require.NoError(t, repo.UpdatePasswordHash(ctx, "u1", "b"))

	user, err := repo.GetByID(ctx, "u1")
	require.NoError(t, err)
	assert.Equal(t, "b", user.PasswordHash)

	assert.ErrorIs(t, repo.UpdatePasswordHash(ctx, "nope", "c"), ErrNotFound)
}

func TestRepository_Count(t *testing.T) {
	repo, cleanup := setupTestDB(t)
	defer cleanup()
	ctx := context.Background()

	count, err := repo.Count(ctx)
	require.NoError(t, err)
	assert.Zero(t, count)

	require.NoError(t, repo.Create(ctx, &entities.User{PhoneNumber: "1"}))
	count, err = repo.Count(ctx)
	require.NoError(t, err)
	assert.Equal(t, int64(1), count)
}
