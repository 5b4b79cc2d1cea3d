package resolver

import (
	"context"
	"log"
	"sync"
	"time"

	"github.com/bookfriends/server/internal/entities"
)

const defaultWriteTimeout = 10 * time.Second

// CacheWriter persists freshly resolved books. Write must not block the
// caller on storage and has no way to report failure back.
type CacheWriter interface {
	Write(book entities.Book)
}

// BookUpserter is the write side of the book cache.
type BookUpserter interface {
	Upsert(ctx context.Context, book *entities.Book) error
}

// AsyncWriter writes each book from its own goroutine. Failures are logged.
type AsyncWriter struct {
	cache   BookUpserter
	timeout time.Duration
	wg      sync.WaitGroup
}

// NewAsyncWriter creates a writer backed by cache.
func NewAsyncWriter(cache BookUpserter) *AsyncWriter {
	return &AsyncWriter{cache: cache, timeout: defaultWriteTimeout}
}

// Write schedules the upsert and returns immediately. The upsert runs on a
// context detached from any request.
func (w *AsyncWriter) Write(book entities.Book) {
	w.wg.Add(1)
	go func() {
		defer w.wg.Done()

		ctx, cancel := context.WithTimeout(context.Background(), w.timeout)
		defer cancel()

		if err := w.cache.Upsert(ctx, &book); err != nil {
			log.Printf("[RESOLVER] Failed to cache book %s: %v", book.ISBN, err)
		}
	}()
}

// Wait blocks until every scheduled write has finished.
func (w *AsyncWriter) Wait() {
	w.wg.Wait()
}
