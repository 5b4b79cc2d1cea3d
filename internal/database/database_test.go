package database

import (
	"context"
	"os"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// setupTestDB creates a fresh test database
func setupTestDB(t *testing.T) (*Database, func()) {
	t.Helper()
	dbPath := "./test_" + t.Name() + ".db"
	db, err := NewDatabaseWithLogLevel(dbPath, "silent")
	require.NoError(t, err)

	cleanup := func() {
		db.Close()
		os.Remove(dbPath)
	}
	return db, cleanup
}

func TestNewDatabase_MigratesTables(t *testing.T) {
	db, cleanup := setupTestDB(t)
	defer cleanup()

	for _, table := range []string{"users", "user_books", "user_dynamics"} {
		assert.True(t, db.DB.Migrator().HasTable(table), "table %s should exist", table)
	}
	assert.True(t, db.DB.Migrator().HasIndex("user_books", "idx_user_books_user_isbn"))
}

func TestDatabase_Ping(t *testing.T) {
	db, cleanup := setupTestDB(t)
	defer cleanup()

	assert.NoError(t, db.Ping(context.Background()))

	require.NoError(t, db.Close())
	assert.Error(t, db.Ping(context.Background()))
}

func TestParseLogLevel(t *testing.T) {
	assert.Equal(t, parseLogLevel("warn"), parseLogLevel("unknown"))
	assert.NotEqual(t, parseLogLevel("silent"), parseLogLevel("info"))
}
