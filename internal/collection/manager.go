// Package collection manages which books a user has stored.
//
// Adding resolves the book first, so the book cache is populated as a side
// effect of the first add. Adding is idempotent; removing a book that is not
// actively stored is an error. Listing reads the cache only and skips books
// that are not cached.
package collection

import (
	"context"
	"errors"
	"log"
	"strings"

	"github.com/bookfriends/server/internal/database/userbooks"
	"github.com/bookfriends/server/internal/entities"
	"github.com/bookfriends/server/internal/metadata"
	"github.com/bookfriends/server/internal/resolver"
)

// IdentityStore answers whether a user exists.
type IdentityStore interface {
	Exists(ctx context.Context, userID string) (bool, error)
}

// BookResolver resolves books. Lookup must never reach the network.
type BookResolver interface {
	Resolve(ctx context.Context, isbn string) (*entities.Book, error)
	Lookup(ctx context.Context, isbn string) (*entities.Book, error)
}

// Store is the user-collection relation.
type Store interface {
	UpsertActive(ctx context.Context, userID, isbn string, tags []string) error
	GetActive(ctx context.Context, userID, isbn string) (*entities.CollectionEntry, error)
	SoftDelete(ctx context.Context, userID, isbn string) error
	ListActiveByUser(ctx context.Context, userID string) ([]entities.CollectionEntry, error)
}

type Manager struct {
	users    IdentityStore
	resolver BookResolver
	store    Store
}

func NewManager(users IdentityStore, resolver BookResolver, store Store) *Manager {
	return &Manager{
		users:    users,
		resolver: resolver,
		store:    store,
	}
}

// AddToCollection stores isbn for userID. Storing a book that is already
// stored succeeds without creating a second entry.
func (m *Manager) AddToCollection(ctx context.Context, userID, isbn string) error {
	userID, isbn, err := normalizeParams(userID, isbn)
	if err != nil {
		return err
	}

	if err := m.ensureUser(ctx, userID); err != nil {
		return err
	}

	book, err := m.resolver.Resolve(ctx, isbn)
	if err != nil {
		if errors.Is(err, resolver.ErrCacheUnavailable) {
			return persistenceFailed("read book cache", err)
		}
		return upstreamFailed(isbn, err)
	}

	if err := m.store.UpsertActive(ctx, userID, isbn, book.TagSet()); err != nil {
		return persistenceFailed("store collection entry", err)
	}

	return nil
}

// RemoveFromCollection deactivates the entry for (userID, isbn).
func (m *Manager) RemoveFromCollection(ctx context.Context, userID, isbn string) error {
	userID, isbn, err := normalizeParams(userID, isbn)
	if err != nil {
		return err
	}

	if err := m.ensureUser(ctx, userID); err != nil {
		return err
	}

	if _, err := m.store.GetActive(ctx, userID, isbn); err != nil {
		if errors.Is(err, userbooks.ErrNotFound) {
			return notInCollection(userID, isbn)
		}
		return persistenceFailed("read collection entry", err)
	}

	if err := m.store.SoftDelete(ctx, userID, isbn); err != nil {
		// Lost a race with a concurrent remove.
		if errors.Is(err, userbooks.ErrNotFound) {
			return notInCollection(userID, isbn)
		}
		return persistenceFailed("remove collection entry", err)
	}

	return nil
}

// ListCollection returns the cached books a user has stored, most recently
// stored first. Books missing from the cache are left out.
func (m *Manager) ListCollection(ctx context.Context, userID string) ([]entities.Book, error) {
	userID = strings.TrimSpace(userID)
	if userID == "" {
		return nil, parameterError("userId is required")
	}

	entries, err := m.store.ListActiveByUser(ctx, userID)
	if err != nil {
		return nil, persistenceFailed("list collection entries", err)
	}

	books := make([]entities.Book, 0, len(entries))
	seen := make(map[string]struct{}, len(entries))
	for _, entry := range entries {
		if _, dup := seen[entry.ISBN]; dup {
			continue
		}
		seen[entry.ISBN] = struct{}{}

		book, err := m.resolver.Lookup(ctx, entry.ISBN)
		if err != nil {
			if !errors.Is(err, resolver.ErrNotCached) {
				log.Printf("[COLLECTION] Skipping %s for user %s: %v", entry.ISBN, userID, err)
			}
			continue
		}
		books = append(books, *book)
	}

	return books, nil
}

func (m *Manager) ensureUser(ctx context.Context, userID string) error {
	exists, err := m.users.Exists(ctx, userID)
	if err != nil {
		return persistenceFailed("check user", err)
	}
	if !exists {
		return userNotFound(userID)
	}
	return nil
}

func normalizeParams(userID, isbn string) (string, string, error) {
	userID = strings.TrimSpace(userID)
	isbn = metadata.CleanISBN(isbn)
	if userID == "" {
		return "", "", parameterError("userId is required")
	}
	if isbn == "" {
		return "", "", parameterError("isbn is required")
	}
	return userID, isbn, nil
}
