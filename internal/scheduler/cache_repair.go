// Package scheduler runs periodic maintenance jobs on a cron schedule.
package scheduler

import (
	"context"
	"errors"
	"fmt"
	"log"
	"sync"
	"time"

	"github.com/mikestefanello/backlite"
	"github.com/robfig/cron/v3"

	"github.com/bookfriends/server/internal/entities"
	"github.com/bookfriends/server/internal/resolver"
	"github.com/bookfriends/server/internal/tasks"
)

// ISBNSource lists every ISBN that is actively stored in some collection.
type ISBNSource interface {
	ListActiveISBNs(ctx context.Context) ([]string, error)
}

// CacheIndex reports whether a book is cached.
type CacheIndex interface {
	Contains(ctx context.Context, isbn string) (bool, error)
}

type BookResolver interface {
	Resolve(ctx context.Context, isbn string) (*entities.Book, error)
}

// RepairResult summarizes one repair pass.
type RepairResult struct {
	Checked  int
	Missing  int
	// Repaired counts books resolved inline, or enqueued for resolution.
	Repaired int
	Failed   int
}

// CacheRepairScheduler re-resolves collection books whose cache write-back
// was lost. When a task queue is configured the missing ISBNs are enqueued;
// otherwise they are resolved inline, one at a time.
type CacheRepairScheduler struct {
	isbns    ISBNSource
	cache    CacheIndex
	resolver BookResolver
	queue    tasks.Enqueuer
	schedule string

	cron    *cron.Cron
	entryID cron.EntryID
	mu      sync.RWMutex
	running bool
	passMu  sync.Mutex
}

func NewCacheRepairScheduler(isbns ISBNSource, cache CacheIndex, r BookResolver, queue tasks.Enqueuer, schedule string) *CacheRepairScheduler {
	return &CacheRepairScheduler{
		isbns:    isbns,
		cache:    cache,
		resolver: r,
		queue:    queue,
		schedule: schedule,
		cron:     cron.New(cron.WithParser(cronParser)),
	}
}

var cronParser = cron.NewParser(cron.Minute | cron.Hour | cron.Dom | cron.Month | cron.Dow)

// ValidateSchedule checks a five-field cron expression.
func ValidateSchedule(schedule string) error {
	if schedule == "" {
		return errors.New("schedule is empty")
	}
	_, err := cronParser.Parse(schedule)
	return err
}

// Start schedules the repair job and stops it when ctx is done.
func (s *CacheRepairScheduler) Start(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.running {
		return nil
	}

	if err := ValidateSchedule(s.schedule); err != nil {
		return fmt.Errorf("invalid cron schedule '%s': %w", s.schedule, err)
	}

	entryID, err := s.cron.AddFunc(s.schedule, func() {
		result, err := s.RunOnce(context.Background())
		if err != nil {
			log.Printf("[REPAIR] Pass failed: %v", err)
			return
		}
		log.Printf("[REPAIR] Pass done: checked=%d missing=%d repaired=%d failed=%d",
			result.Checked, result.Missing, result.Repaired, result.Failed)
	})
	if err != nil {
		return fmt.Errorf("failed to schedule repair job: %w", err)
	}
	s.entryID = entryID

	s.cron.Start()
	s.running = true
	log.Printf("[REPAIR] Scheduler started with schedule '%s'", s.schedule)

	go func() {
		<-ctx.Done()
		s.Stop()
	}()

	return nil
}

// Stop waits for a running pass to finish.
func (s *CacheRepairScheduler) Stop() {
	s.mu.Lock()
	defer s.mu.Unlock()

	if !s.running {
		return
	}

	<-s.cron.Stop().Done()
	s.cron.Remove(s.entryID)
	s.running = false

	log.Printf("[REPAIR] Scheduler stopped")
}

func (s *CacheRepairScheduler) IsRunning() bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.running
}

// NextRun returns when the next pass is due, or nil when stopped.
func (s *CacheRepairScheduler) NextRun() *time.Time {
	s.mu.RLock()
	defer s.mu.RUnlock()

	if !s.running {
		return nil
	}
	next := s.cron.Entry(s.entryID).Next
	return &next
}

// RunOnce performs a single repair pass. Passes never overlap.
func (s *CacheRepairScheduler) RunOnce(ctx context.Context) (RepairResult, error) {
	s.passMu.Lock()
	defer s.passMu.Unlock()

	var result RepairResult

	isbns, err := s.isbns.ListActiveISBNs(ctx)
	if err != nil {
		return result, fmt.Errorf("list collection isbns: %w", err)
	}

	var missing []string
	for _, isbn := range isbns {
		result.Checked++
		cached, err := s.cache.Contains(ctx, isbn)
		if err != nil {
			return result, fmt.Errorf("check cache for %s: %w", isbn, err)
		}
		if !cached {
			missing = append(missing, isbn)
		}
	}
	result.Missing = len(missing)
	if len(missing) == 0 {
		return result, nil
	}

	if s.queue != nil {
		batch := make([]backlite.Task, 0, len(missing))
		for _, isbn := range missing {
			batch = append(batch, tasks.ResolveBookTask{ISBN: isbn})
		}
		if _, err := s.queue.Enqueue(batch...); err != nil {
			result.Failed = len(missing)
			return result, fmt.Errorf("enqueue repairs: %w", err)
		}
		result.Repaired = len(missing)
		return result, nil
	}

	for _, isbn := range missing {
		if err := ctx.Err(); err != nil {
			return result, err
		}
		if _, err := s.resolver.Resolve(ctx, isbn); err != nil {
			result.Failed++
			if !errors.Is(err, resolver.ErrNotFound) {
				log.Printf("[REPAIR] Failed to resolve %s: %v", isbn, err)
			}
			continue
		}
		result.Repaired++
	}

	return result, nil
}
