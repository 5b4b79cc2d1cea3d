package dynamics

import (
	"context"
	"fmt"
	"os"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	dynamicsrepo "github.com/bookfriends/server/internal/database/dynamics"
	"github.com/bookfriends/server/internal/database/users"
	"github.com/bookfriends/server/internal/entities"
)

func setupService(t *testing.T, pageSize int) *Service {
	t.Helper()
	dbPath := "./test_dynamics_service_" + t.Name() + ".db"

	db, err := gorm.Open(sqlite.Open(dbPath), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	require.NoError(t, err)
	require.NoError(t, db.AutoMigrate(&entities.User{}, &entities.Dynamic{}))

	t.Cleanup(func() {
		sqlDB, _ := db.DB()
		sqlDB.Close()
		os.Remove(dbPath)
	})

	userRepo := users.NewRepository(db)
	require.NoError(t, userRepo.Create(context.Background(), &entities.User{ID: "u1", PhoneNumber: "1"}))
	require.NoError(t, userRepo.Create(context.Background(), &entities.User{ID: "u2", PhoneNumber: "2"}))

	return NewService(dynamicsrepo.NewRepository(db), userRepo, pageSize)
}

func TestService_Publish(t *testing.T) {
	s := setupService(t, 10)
	ctx := context.Background()

	d, err := s.Publish(ctx, "u1", "978-0000000001", "  finished it  ")
	require.NoError(t, err)
	assert.Contains(t, d.ID, "dyn-")
	assert.Equal(t, "9780000000001", d.ISBN)
	assert.Equal(t, "finished it", d.Content)
	assert.True(t, d.IsActive)

	got, err := s.Get(ctx, d.ID)
	require.NoError(t, err)
	assert.Equal(t, "finished it", got.Content)
}

func TestService_Publish_Errors(t *testing.T) {
	s := setupService(t, 10)
	ctx := context.Background()

	_, err := s.Publish(ctx, "", "", "hi")
	assert.ErrorIs(t, err, ErrParameter)

	_, err = s.Publish(ctx, "u1", "", " ")
	assert.ErrorIs(t, err, ErrParameter)

	_, err = s.Publish(ctx, "ghost", "", "hi")
	assert.ErrorIs(t, err, ErrUserNotFound)
}

func TestService_Like(t *testing.T) {
	s := setupService(t, 10)
	ctx := context.Background()

	d, err := s.Publish(ctx, "u1", "", "hi")
	require.NoError(t, err)

	require.NoError(t, s.Like(ctx, d.ID))
	require.NoError(t, s.Like(ctx, d.ID))

	got, err := s.Get(ctx, d.ID)
	require.NoError(t, err)
	assert.Equal(t, 2, got.LikeCount)

	assert.ErrorIs(t, s.Like(ctx, "dyn-missing"), ErrNotFound)
	assert.ErrorIs(t, s.Like(ctx, ""), ErrParameter)
}

func TestService_Delete(t *testing.T) {
	s := setupService(t, 10)
	ctx := context.Background()

	d, err := s.Publish(ctx, "u1", "", "hi")
	require.NoError(t, err)

	assert.ErrorIs(t, s.Delete(ctx, d.ID, "u2"), ErrNotFound)
	require.NoError(t, s.Delete(ctx, d.ID, "u1"))

	_, err = s.Get(ctx, d.ID)
	assert.ErrorIs(t, err, ErrNotFound)
	assert.ErrorIs(t, s.Like(ctx, d.ID), ErrNotFound)
}

func TestService_Paging(t *testing.T) {
	s := setupService(t, 2)
	ctx := context.Background()

	for i := range 3 {
		_, err := s.Publish(ctx, "u1", "", fmt.Sprintf("post %d", i))
		require.NoError(t, err)
		time.Sleep(5 * time.Millisecond)
	}
	_, err := s.Publish(ctx, "u2", "", "other")
	require.NoError(t, err)

	page1, err := s.ListByUser(ctx, "u1", 1)
	require.NoError(t, err)
	require.Len(t, page1, 2)
	assert.Equal(t, "post 2", page1[0].Content)
	assert.Equal(t, "post 1", page1[1].Content)

	page2, err := s.ListByUser(ctx, "u1", 2)
	require.NoError(t, err)
	require.Len(t, page2, 1)
	assert.Equal(t, "post 0", page2[0].Content)

	page3, err := s.ListByUser(ctx, "u1", 3)
	require.NoError(t, err)
	assert.NotNil(t, page3)
	assert.Empty(t, page3)

	all, err := s.ListAll(ctx, 1)
	require.NoError(t, err)
	require.Len(t, all, 2)
	assert.Equal(t, "other", all[0].Content)

	_, err = s.ListAll(ctx, 0)
	assert.ErrorIs(t, err, ErrInvalidPage)
	_, err = s.ListByUser(ctx, "u1", -1)
	assert.ErrorIs(t, err, ErrInvalidPage)
	_, err = s.ListByUser(ctx, "", 1)
	assert.ErrorIs(t, err, ErrParameter)
}

func TestNewService_DefaultPageSize(t *testing.T) {
	assert.Equal(t, defaultPageSize, NewService(nil, nil, 0).PageSize())
}
