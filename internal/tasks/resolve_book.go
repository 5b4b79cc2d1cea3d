package tasks

import (
	"context"
	"errors"
	"fmt"
	"log"
	"time"

	"github.com/mikestefanello/backlite"

	"github.com/bookfriends/server/internal/entities"
	"github.com/bookfriends/server/internal/resolver"
)

// ResolveBookTask resolves an ISBN in the background, filling the book
// cache on a miss.
type ResolveBookTask struct {
	ISBN string `json:"isbn"`
}

func (t ResolveBookTask) Config() backlite.QueueConfig {
	return backlite.QueueConfig{
		Name:        "resolve_book",
		MaxAttempts: 3,
		Backoff:     time.Minute,
		Timeout:     2 * time.Minute,
		Retention: &backlite.Retention{
			Duration:   24 * time.Hour,
			OnlyFailed: false,
			Data:       &backlite.RetainData{OnlyFailed: true},
		},
	}
}

type BookResolver interface {
	Resolve(ctx context.Context, isbn string) (*entities.Book, error)
}

// ResolveBookProcessor retries provider outages but gives up at once on
// ISBNs the provider does not know.
func ResolveBookProcessor(r BookResolver) backlite.QueueProcessor[ResolveBookTask] {
	return func(ctx context.Context, task ResolveBookTask) error {
		book, err := r.Resolve(ctx, task.ISBN)
		switch {
		case errors.Is(err, resolver.ErrNotFound), errors.Is(err, resolver.ErrInvalidISBN):
			log.Printf("[TASK] Book %q cannot be resolved: %v", task.ISBN, err)
			return nil
		case err != nil:
			return fmt.Errorf("resolve book %s: %w", task.ISBN, err)
		}

		log.Printf("[TASK] Resolved book %s (%s)", book.ISBN, book.Title)
		return nil
	}
}

func NewResolveBookQueue(r BookResolver) backlite.Queue {
	return backlite.NewQueue(ResolveBookProcessor(r))
}
