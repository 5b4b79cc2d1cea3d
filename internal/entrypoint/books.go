package entrypoint

import (
	"fmt"
	"log"

	"github.com/bookfriends/server/internal/bookcache"
	"github.com/bookfriends/server/internal/config"
	"github.com/bookfriends/server/internal/metadata"
	"github.com/bookfriends/server/internal/resolver"
)

// BookSource bundles the book cache, the metadata provider and a resolver
// over both. The resolver writes back through an in-process writer until
// the caller swaps it for a durable one.
type BookSource struct {
	Cache    *bookcache.Store
	Provider metadata.Provider
	Resolver *resolver.Resolver
	Writer   *resolver.AsyncWriter
}

func OpenBookSource(cfg *config.Config) (*BookSource, error) {
	provider, err := metadata.NewProvider(cfg.Provider)
	if err != nil {
		return nil, err
	}

	cache, err := bookcache.Open(cfg.BookCache.Dir)
	if err != nil {
		return nil, fmt.Errorf("open book cache at %s: %w", cfg.BookCache.Dir, err)
	}
	log.Printf("Book cache opened at %s (provider: %s)", cfg.BookCache.Dir, cfg.Provider.Kind)

	writer := resolver.NewAsyncWriter(cache)
	return &BookSource{
		Cache:    cache,
		Provider: provider,
		Resolver: resolver.New(cache, provider, writer),
		Writer:   writer,
	}, nil
}

// Close waits for pending cache writes, then closes the cache.
func (b *BookSource) Close() {
	b.Writer.Wait()
	if err := b.Cache.Close(); err != nil {
		log.Printf("Error closing book cache: %v", err)
	}
}
