package entrypoint

import (
	"context"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/bookfriends/server/internal/config"
)

func TestOpenBookSource_ResolvesAndCaches(t *testing.T) {
	var calls atomic.Int32
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		calls.Add(1)
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`{"errorCode":0,"data":{"title":"T","tags":"a,b"}}`))
	}))
	defer server.Close()

	cfg := config.NewConfig()
	cfg.BookCache.Dir = filepath.Join(t.TempDir(), "cache")
	cfg.Provider.Kind = config.ProviderProxy
	cfg.Provider.BaseURL = server.URL
	cfg.Provider.RequestsPerSecond = 100
	cfg.Provider.Timeout = time.Second

	books, err := OpenBookSource(cfg)
	require.NoError(t, err)
	defer books.Close()

	book, err := books.Resolver.Resolve(context.Background(), "978-0-00-000000-1")
	require.NoError(t, err)
	assert.Equal(t, "T", book.Title)
	assert.Equal(t, []string{"a", "b"}, book.Tags)

	books.Writer.Wait()
	_, err = books.Resolver.Resolve(context.Background(), "9780000000001")
	require.NoError(t, err)
	assert.Equal(t, int32(1), calls.Load())
}

func TestOpenBookSource_RejectsUnknownProvider(t *testing.T) {
	cfg := config.NewConfig()
	cfg.BookCache.Dir = filepath.Join(t.TempDir(), "cache")
	cfg.Provider.Kind = "carrier-pigeon"

	_, err := OpenBookSource(cfg)
	assert.Error(t, err)
}
