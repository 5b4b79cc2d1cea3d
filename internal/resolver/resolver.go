// Package resolver turns an ISBN into a Book using the local cache first and
// the metadata provider on a miss.
//
// A cache hit is returned as-is: cached books are never revalidated. On a
// miss the provider is called synchronously, the payload is mapped to a
// Book, and the write-back to the cache is handed to a CacheWriter so the
// caller does not wait for it. Concurrent misses for the same ISBN each
// call the provider.
package resolver

import (
	"context"
	"errors"
	"fmt"
	"log"

	"github.com/bookfriends/server/internal/bookcache"
	"github.com/bookfriends/server/internal/entities"
	"github.com/bookfriends/server/internal/metadata"
)

var (
	ErrInvalidISBN = errors.New("isbn is required")
	// ErrNotFound means the provider has no record of the ISBN.
	ErrNotFound = errors.New("book not found")
	// ErrProviderUnavailable covers transport failures, malformed payloads
	// and provider-reported errors other than not-found.
	ErrProviderUnavailable = errors.New("metadata provider unavailable")
	// ErrCacheUnavailable means the cache could not be read. It is never
	// treated as a miss.
	ErrCacheUnavailable = errors.New("book cache unavailable")
	// ErrNotCached is returned by Lookup when the ISBN is not in the cache.
	ErrNotCached = errors.New("book not cached")
)

// BookCache is the read side of the book cache.
type BookCache interface {
	Get(ctx context.Context, isbn string) (*entities.Book, error)
}

// Resolver is the cache-aside book resolver.
type Resolver struct {
	cache    BookCache
	provider metadata.Provider
	writer   CacheWriter
}

// New creates a resolver. writer receives every freshly fetched book.
func New(cache BookCache, provider metadata.Provider, writer CacheWriter) *Resolver {
	return &Resolver{
		cache:    cache,
		provider: provider,
		writer:   writer,
	}
}

// Resolve returns the book for isbn, fetching it from the provider when it
// is not cached yet.
func (r *Resolver) Resolve(ctx context.Context, isbn string) (*entities.Book, error) {
	isbn = metadata.CleanISBN(isbn)
	if isbn == "" {
		return nil, ErrInvalidISBN
	}

	book, err := r.cache.Get(ctx, isbn)
	if err == nil {
		return book, nil
	}
	if !errors.Is(err, bookcache.ErrNotFound) {
		return nil, fmt.Errorf("%w: %w", ErrCacheUnavailable, err)
	}

	log.Printf("[RESOLVER] Cache miss for %s, fetching from provider", isbn)

	payload, err := r.provider.FetchByISBN(ctx, isbn)
	if err != nil {
		if errors.Is(err, metadata.ErrBookNotFound) || errors.Is(err, metadata.ErrInvalidISBN) {
			return nil, fmt.Errorf("%w: %w", ErrNotFound, err)
		}
		return nil, fmt.Errorf("%w: %w", ErrProviderUnavailable, err)
	}
	if payload == nil {
		return nil, fmt.Errorf("%w: empty payload for %s", ErrProviderUnavailable, isbn)
	}

	resolved := metadata.ToBook(isbn, payload)
	if r.writer != nil {
		r.writer.Write(resolved)
	}

	return &resolved, nil
}

// Lookup returns the cached book for isbn without ever calling the provider.
func (r *Resolver) Lookup(ctx context.Context, isbn string) (*entities.Book, error) {
	book, err := r.cache.Get(ctx, metadata.CleanISBN(isbn))
	if err == nil {
		return book, nil
	}
	if errors.Is(err, bookcache.ErrNotFound) {
		return nil, ErrNotCached
	}
	return nil, fmt.Errorf("%w: %w", ErrCacheUnavailable, err)
}
