package scheduler

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/mikestefanello/backlite"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/bookfriends/server/internal/bookcache"
	"github.com/bookfriends/server/internal/entities"
	"github.com/bookfriends/server/internal/resolver"
	"github.com/bookfriends/server/internal/tasks"
)

type staticISBNs struct {
	isbns []string
	err   error
}

func (s staticISBNs) ListActiveISBNs(context.Context) ([]string, error) {
	return s.isbns, s.err
}

type recordingQueue struct {
	tasks []backlite.Task
	err   error
}

func (q *recordingQueue) Enqueue(t ...backlite.Task) ([]string, error) {
	if q.err != nil {
		return nil, q.err
	}
	q.tasks = append(q.tasks, t...)
	ids := make([]string, len(t))
	return ids, nil
}

type cachingResolver struct {
	cache   *bookcache.Store
	unknown map[string]bool
	calls   []string
}

func (r *cachingResolver) Resolve(ctx context.Context, isbn string) (*entities.Book, error) {
	r.calls = append(r.calls, isbn)
	if r.unknown[isbn] {
		return nil, resolver.ErrNotFound
	}
	book := &entities.Book{ISBN: isbn}
	return book, r.cache.Upsert(ctx, book)
}

func seededCache(t *testing.T, isbns ...string) *bookcache.Store {
	t.Helper()
	cache, err := bookcache.OpenInMemory()
	require.NoError(t, err)
	t.Cleanup(func() { cache.Close() })
	for _, isbn := range isbns {
		require.NoError(t, cache.Upsert(context.Background(), &entities.Book{ISBN: isbn}))
	}
	return cache
}

func TestRunOnce_EnqueuesMissing(t *testing.T) {
	cache := seededCache(t, "1", "3")
	queue := &recordingQueue{}
	s := NewCacheRepairScheduler(staticISBNs{isbns: []string{"1", "2", "3", "4"}}, cache, nil, queue, "0 * * * *")

	result, err := s.RunOnce(context.Background())
	require.NoError(t, err)
	assert.Equal(t, RepairResult{Checked: 4, Missing: 2, Repaired: 2}, result)

	require.Len(t, queue.tasks, 2)
	assert.Equal(t, tasks.ResolveBookTask{ISBN: "2"}, queue.tasks[0])
	assert.Equal(t, tasks.ResolveBookTask{ISBN: "4"}, queue.tasks[1])
}

func TestRunOnce_NothingMissing(t *testing.T) {
	queue := &recordingQueue{}
	s := NewCacheRepairScheduler(staticISBNs{isbns: []string{"1"}}, seededCache(t, "1"), nil, queue, "0 * * * *")

	result, err := s.RunOnce(context.Background())
	require.NoError(t, err)
	assert.Equal(t, RepairResult{Checked: 1}, result)
	assert.Empty(t, queue.tasks)
}

func TestRunOnce_ResolvesInlineWithoutQueue(t *testing.T) {
	cache := seededCache(t, "1")
	r := &cachingResolver{cache: cache, unknown: map[string]bool{"3": true}}
	s := NewCacheRepairScheduler(staticISBNs{isbns: []string{"1", "2", "3"}}, cache, r, nil, "0 * * * *")

	result, err := s.RunOnce(context.Background())
	require.NoError(t, err)
	assert.Equal(t, RepairResult{Checked: 3, Missing: 2, Repaired: 1, Failed: 1}, result)
	assert.Equal(t, []string{"2", "3"}, r.calls)

	ok, err := cache.Contains(context.Background(), "2")
	require.NoError(t, err)
	assert.True(t, ok)

	// Second pass only retries what is still missing
	r.calls = nil
	result, err = s.RunOnce(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 1, result.Missing)
	assert.Equal(t, []string{"3"}, r.calls)
}

func TestRunOnce_Errors(t *testing.T) {
	s := NewCacheRepairScheduler(staticISBNs{err: errors.New("db gone")}, seededCache(t), nil, &recordingQueue{}, "0 * * * *")
	_, err := s.RunOnce(context.Background())
	assert.Error(t, err)

	queue := &recordingQueue{err: errors.New("queue closed")}
	s = NewCacheRepairScheduler(staticISBNs{isbns: []string{"1"}}, seededCache(t), nil, queue, "0 * * * *")
	result, err := s.RunOnce(context.Background())
	assert.Error(t, err)
	assert.Equal(t, 1, result.Failed)
}

func TestScheduler_StartStop(t *testing.T) {
	s := NewCacheRepairScheduler(staticISBNs{}, seededCache(t), nil, &recordingQueue{}, "0 */6 * * *")
	assert.False(t, s.IsRunning())
	assert.Nil(t, s.NextRun())

	require.NoError(t, s.Start(context.Background()))
	assert.True(t, s.IsRunning())
	next := s.NextRun()
	require.NotNil(t, next)
	assert.False(t, next.IsZero())

	// Starting twice is a no-op
	require.NoError(t, s.Start(context.Background()))

	s.Stop()
	assert.False(t, s.IsRunning())
	s.Stop()
}

func TestScheduler_StopsWithContext(t *testing.T) {
	s := NewCacheRepairScheduler(staticISBNs{}, seededCache(t), nil, &recordingQueue{}, "0 */6 * * *")
	ctx, cancel := context.WithCancel(context.Background())
	require.NoError(t, s.Start(ctx))

	cancel()
	assert.Eventually(t, func() bool { return !s.IsRunning() }, time.Second, 10*time.Millisecond)
}

func TestScheduler_InvalidSchedule(t *testing.T) {
	s := NewCacheRepairScheduler(staticISBNs{}, seededCache(t), nil, nil, "every tuesday")
	assert.Error(t, s.Start(context.Background()))
	assert.False(t, s.IsRunning())

	assert.Error(t, ValidateSchedule(""))
	assert.NoError(t, ValidateSchedule("30 2 * * 1"))
}
