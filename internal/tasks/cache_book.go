package tasks

import (
	"context"
	"fmt"
	"log"
	"time"

	"github.com/mikestefanello/backlite"

	"github.com/bookfriends/server/internal/entities"
	"github.com/bookfriends/server/internal/resolver"
)

// CacheBookTask writes a freshly resolved book into the book cache.
type CacheBookTask struct {
	Book entities.Book `json:"book"`
}

func (t CacheBookTask) Config() backlite.QueueConfig {
	return backlite.QueueConfig{
		Name:        "cache_book",
		MaxAttempts: 5,
		Backoff:     10 * time.Second,
		Timeout:     30 * time.Second,
		Retention: &backlite.Retention{
			Duration:   24 * time.Hour,
			OnlyFailed: true,
			Data:       &backlite.RetainData{OnlyFailed: true},
		},
	}
}

func CacheBookProcessor(cache resolver.BookUpserter) backlite.QueueProcessor[CacheBookTask] {
	return func(ctx context.Context, task CacheBookTask) error {
		if task.Book.ISBN == "" {
			// Retrying cannot fix this one.
			log.Printf("[TASK] Dropping cache_book task without ISBN")
			return nil
		}
		if err := cache.Upsert(ctx, &task.Book); err != nil {
			return fmt.Errorf("cache book %s: %w", task.Book.ISBN, err)
		}
		log.Printf("[TASK] Cached book %s (%s)", task.Book.ISBN, task.Book.Title)
		return nil
	}
}

func NewCacheBookQueue(cache resolver.BookUpserter) backlite.Queue {
	return backlite.NewQueue(CacheBookProcessor(cache))
}

// Enqueuer saves tasks to the queue.
type Enqueuer interface {
	Enqueue(tasks ...backlite.Task) ([]string, error)
}

// QueueWriter is a resolver.CacheWriter that hands every write to the
// cache_book queue. The write survives a restart once enqueued; an enqueue
// failure is logged and the book is simply fetched again on its next miss.
type QueueWriter struct {
	queue Enqueuer
}

func NewQueueWriter(queue Enqueuer) *QueueWriter {
	return &QueueWriter{queue: queue}
}

func (w *QueueWriter) Write(book entities.Book) {
	if _, err := w.queue.Enqueue(CacheBookTask{Book: book}); err != nil {
		log.Printf("[TASK] Failed to enqueue cache write for %s: %v", book.ISBN, err)
	}
}
