package tasks

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"sync"
	"testing"
	"time"

	"github.com/mikestefanello/backlite"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/bookfriends/server/internal/bookcache"
	"github.com/bookfriends/server/internal/config"
	"github.com/bookfriends/server/internal/entities"
	"github.com/bookfriends/server/internal/resolver"
)

func newTestClient(t *testing.T) *Client {
	t.Helper()
	cfg := DefaultConfig()
	cfg.Workers = 1

	client, err := NewClient(filepath.Join(t.TempDir(), "test.db"), cfg)
	require.NoError(t, err)
	t.Cleanup(func() { client.Close() })
	return client
}

func startClient(t *testing.T, client *Client) {
	t.Helper()
	ctx, cancel := context.WithCancel(context.Background())
	go client.Start(ctx)
	t.Cleanup(func() {
		stopCtx, stopCancel := context.WithTimeout(context.Background(), 2*time.Second)
		defer stopCancel()
		client.Stop(stopCtx)
		cancel()
	})
}

func TestTasksDBPath(t *testing.T) {
	assert.Equal(t, "data/app-tasks.db", TasksDBPath("data/app.db"))
	assert.Equal(t, "./book-friends-tasks.db", TasksDBPath("./book-friends.db"))
	assert.Equal(t, "noext-tasks", TasksDBPath("noext"))
}

func TestNewClient(t *testing.T) {
	tmpDir := t.TempDir()
	cfg := DefaultConfig()
	cfg.Workers = 1

	client, err := NewClient(filepath.Join(tmpDir, "test.db"), cfg)
	require.NoError(t, err)

	_, err = os.Stat(filepath.Join(tmpDir, "test-tasks.db"))
	assert.NoError(t, err, "tasks database should be created")

	assert.NoError(t, client.Close())
}

func TestClientStartStop(t *testing.T) {
	client := newTestClient(t)

	// Stopping a client that never started is fine
	assert.True(t, client.Stop(context.Background()))

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	go client.Start(ctx)
	time.Sleep(50 * time.Millisecond)

	stopCtx, stopCancel := context.WithTimeout(context.Background(), 2*time.Second)
	defer stopCancel()
	assert.True(t, client.Stop(stopCtx))
}

func TestFromSettings(t *testing.T) {
	cfg := FromSettings(config.Tasks{Workers: 4})
	assert.Equal(t, 4, cfg.Workers)
	assert.Equal(t, DefaultConfig().ReleaseAfter, cfg.ReleaseAfter)
	assert.Equal(t, DefaultConfig().CleanupInterval, cfg.CleanupInterval)

	cfg = FromSettings(config.Tasks{ReleaseAfter: time.Minute, CleanupInterval: 2 * time.Minute})
	assert.Equal(t, 2, cfg.Workers)
	assert.Equal(t, time.Minute, cfg.ReleaseAfter)
	assert.Equal(t, 2*time.Minute, cfg.CleanupInterval)
}

func TestQueueConfigs(t *testing.T) {
	cacheCfg := CacheBookTask{}.Config()
	assert.Equal(t, "cache_book", cacheCfg.Name)
	assert.Equal(t, 5, cacheCfg.MaxAttempts)
	require.NotNil(t, cacheCfg.Retention)

	resolveCfg := ResolveBookTask{}.Config()
	assert.Equal(t, "resolve_book", resolveCfg.Name)
	assert.Equal(t, 3, resolveCfg.MaxAttempts)
}

func TestQueueWriter_CachesThroughQueue(t *testing.T) {
	cache, err := bookcache.OpenInMemory()
	require.NoError(t, err)
	t.Cleanup(func() { cache.Close() })

	client := newTestClient(t)
	client.Register(NewCacheBookQueue(cache))
	startClient(t, client)

	NewQueueWriter(client).Write(entities.Book{ISBN: "9780000000001", Title: "T"})

	assert.Eventually(t, func() bool {
		ok, err := cache.Contains(context.Background(), "9780000000001")
		return err == nil && ok
	}, 5*time.Second, 20*time.Millisecond)
}

type failingEnqueuer struct{ calls int }

func (f *failingEnqueuer) Enqueue(...backlite.Task) ([]string, error) {
	f.calls++
	return nil, errors.New("queue closed")
}

func TestQueueWriter_EnqueueFailureIsSwallowed(t *testing.T) {
	q := &failingEnqueuer{}
	NewQueueWriter(q).Write(entities.Book{ISBN: "1"})
	assert.Equal(t, 1, q.calls)
}

type memUpserter struct {
	mu    sync.Mutex
	books map[string]entities.Book
	err   error
}

func (m *memUpserter) Upsert(_ context.Context, b *entities.Book) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.err != nil {
		return m.err
	}
	if m.books == nil {
		m.books = map[string]entities.Book{}
	}
	m.books[b.ISBN] = *b
	return nil
}

func TestCacheBookProcessor(t *testing.T) {
	ctx := context.Background()
	store := &memUpserter{}
	process := CacheBookProcessor(store)

	require.NoError(t, process(ctx, CacheBookTask{Book: entities.Book{ISBN: "1", Title: "T"}}))
	assert.Equal(t, "T", store.books["1"].Title)

	// Tasks without an ISBN are dropped rather than retried
	require.NoError(t, process(ctx, CacheBookTask{}))

	store.err = errors.New("disk full")
	assert.Error(t, process(ctx, CacheBookTask{Book: entities.Book{ISBN: "2"}}))
}

type stubResolver struct {
	err   error
	calls []string
}

func (s *stubResolver) Resolve(_ context.Context, isbn string) (*entities.Book, error) {
	s.calls = append(s.calls, isbn)
	if s.err != nil {
		return nil, s.err
	}
	return &entities.Book{ISBN: isbn, Title: "T"}, nil
}

func TestResolveBookProcessor(t *testing.T) {
	ctx := context.Background()

	r := &stubResolver{}
	require.NoError(t, ResolveBookProcessor(r)(ctx, ResolveBookTask{ISBN: "1"}))
	assert.Equal(t, []string{"1"}, r.calls)

	r.err = resolver.ErrNotFound
	assert.NoError(t, ResolveBookProcessor(r)(ctx, ResolveBookTask{ISBN: "1"}), "unknown ISBNs are not retried")

	r.err = resolver.ErrProviderUnavailable
	err := ResolveBookProcessor(r)(ctx, ResolveBookTask{ISBN: "1"})
	assert.ErrorIs(t, err, resolver.ErrProviderUnavailable)
}

func TestResolveBookQueue_RunsTask(t *testing.T) {
	client := newTestClient(t)
	r := &signalResolver{done: make(chan string, 1)}
	client.Register(NewResolveBookQueue(r))
	startClient(t, client)

	ids, err := client.Enqueue(ResolveBookTask{ISBN: "9780000000001"})
	require.NoError(t, err)
	assert.Len(t, ids, 1)

	select {
	case isbn := <-r.done:
		assert.Equal(t, "9780000000001", isbn)
	case <-time.After(5 * time.Second):
		t.Fatal("task was not executed within timeout")
	}
}

type signalResolver struct {
	done chan string
}

func (l *signalResolver) Resolve(_ context.Context, isbn string) (*entities.Book, error) {
	l.done <- isbn
	return &entities.Book{ISBN: isbn}, nil
}
