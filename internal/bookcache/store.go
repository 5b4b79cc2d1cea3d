// Package bookcache is the key-value store for resolved book metadata.
//
// Books are stored as JSON under "book:<isbn>". A record, once written, is
// treated as truth by readers; there is no expiry or revalidation.
package bookcache

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log"

	"github.com/dgraph-io/badger/v4"

	"github.com/bookfriends/server/internal/entities"
)

const bookPrefix = "book:"

// ErrNotFound is returned by Get when the ISBN has never been cached.
var ErrNotFound = errors.New("book not cached")

// Store is a badger-backed book cache.
type Store struct {
	db *badger.DB
}

// Open opens (or creates) a persistent cache in dir.
func Open(dir string) (*Store, error) {
	opts := badger.DefaultOptions(dir)
	opts.Logger = nil
	opts.SyncWrites = true
	opts.CompactL0OnClose = true

	db, err := badger.Open(opts)
	if err != nil {
		return nil, fmt.Errorf("failed to open badger db: %w", err)
	}

	log.Printf("Book cache opened at %s", dir)
	return &Store{db: db}, nil
}

// OpenInMemory opens a cache that lives only for the life of the process.
func OpenInMemory() (*Store, error) {
	opts := badger.DefaultOptions("").WithInMemory(true)
	opts.Logger = nil

	db, err := badger.Open(opts)
	if err != nil {
		return nil, fmt.Errorf("failed to open in-memory badger db: %w", err)
	}
	return &Store{db: db}, nil
}

// Close releases the underlying database.
func (s *Store) Close() error {
	return s.db.Close()
}

// Get returns the cached book for isbn, or ErrNotFound.
func (s *Store) Get(ctx context.Context, isbn string) (*entities.Book, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	var book entities.Book
	err := s.db.View(func(txn *badger.Txn) error {
		item, err := txn.Get(key(isbn))
		if err != nil {
			return err
		}
		return item.Value(func(val []byte) error {
			return json.Unmarshal(val, &book)
		})
	})
	if errors.Is(err, badger.ErrKeyNotFound) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("get book %s: %w", isbn, err)
	}
	return &book, nil
}

// Upsert writes the book under its ISBN, replacing any previous record.
func (s *Store) Upsert(ctx context.Context, book *entities.Book) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	if book == nil || book.ISBN == "" {
		return errors.New("book without ISBN")
	}

	data, err := json.Marshal(book)
	if err != nil {
		return fmt.Errorf("failed to marshal book: %w", err)
	}

	err = s.db.Update(func(txn *badger.Txn) error {
		return txn.Set(key(book.ISBN), data)
	})
	if err != nil {
		return fmt.Errorf("upsert book %s: %w", book.ISBN, err)
	}
	return nil
}

// Contains reports whether isbn is cached without decoding the value.
func (s *Store) Contains(ctx context.Context, isbn string) (bool, error) {
	if err := ctx.Err(); err != nil {
		return false, err
	}

	err := s.db.View(func(txn *badger.Txn) error {
		_, err := txn.Get(key(isbn))
		return err
	})
	if errors.Is(err, badger.ErrKeyNotFound) {
		return false, nil
	}
	if err != nil {
		return false, fmt.Errorf("lookup book %s: %w", isbn, err)
	}
	return true, nil
}

// Count returns the number of cached books.
func (s *Store) Count(ctx context.Context) (int, error) {
	if err := ctx.Err(); err != nil {
		return 0, err
	}

	count := 0
	err := s.db.View(func(txn *badger.Txn) error {
		opts := badger.DefaultIteratorOptions
		opts.PrefetchValues = false
		opts.Prefix = []byte(bookPrefix)
		it := txn.NewIterator(opts)
		defer it.Close()

		for it.Rewind(); it.Valid(); it.Next() {
			count++
		}
		return nil
	})
	return count, err
}

func key(isbn string) []byte {
	return []byte(bookPrefix + isbn)
}
