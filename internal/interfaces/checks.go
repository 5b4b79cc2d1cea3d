package interfaces

// This file contains compile-time interface implementation checks.
// These ensure that concrete types satisfy their interfaces at compile time,
// catching missing methods before runtime.
//
// To verify all checks pass: go build ./internal/interfaces/...

import (
	"github.com/bookfriends/server/internal/auth"
	"github.com/bookfriends/server/internal/bookcache"
	"github.com/bookfriends/server/internal/collection"
	dynamicsrepo "github.com/bookfriends/server/internal/database/dynamics"
	"github.com/bookfriends/server/internal/database/userbooks"
	"github.com/bookfriends/server/internal/database/users"
	"github.com/bookfriends/server/internal/dynamics"
	"github.com/bookfriends/server/internal/http"
	"github.com/bookfriends/server/internal/metadata"
	"github.com/bookfriends/server/internal/resolver"
	"github.com/bookfriends/server/internal/scheduler"
	"github.com/bookfriends/server/internal/tasks"
)

// =============================================================================
// Data Access Layer
// =============================================================================

// Identity store
var _ collection.IdentityStore = (*users.Repository)(nil)
var _ dynamics.IdentityStore = (*users.Repository)(nil)
var _ auth.UserStore = (*users.Repository)(nil)

// User-collection store
var _ collection.Store = (*userbooks.Repository)(nil)
var _ scheduler.ISBNSource = (*userbooks.Repository)(nil)

// Dynamics store
var _ dynamics.Store = (*dynamicsrepo.Repository)(nil)

// Book cache store
var _ resolver.BookCache = (*bookcache.Store)(nil)
var _ resolver.BookUpserter = (*bookcache.Store)(nil)
var _ scheduler.CacheIndex = (*bookcache.Store)(nil)

// =============================================================================
// Book Resolution
// =============================================================================

// Metadata providers
var _ metadata.Provider = (*metadata.ProxyClient)(nil)
var _ metadata.Provider = (*metadata.OpenLibraryClient)(nil)

// Cache write-back
var _ resolver.CacheWriter = (*resolver.AsyncWriter)(nil)
var _ resolver.CacheWriter = (*tasks.QueueWriter)(nil)

// Resolver consumers
var _ collection.BookResolver = (*resolver.Resolver)(nil)
var _ tasks.BookResolver = (*resolver.Resolver)(nil)
var _ scheduler.BookResolver = (*resolver.Resolver)(nil)
var _ http.BookResolver = (*resolver.Resolver)(nil)

// =============================================================================
// Background Work
// =============================================================================

var _ tasks.Enqueuer = (*tasks.Client)(nil)

// =============================================================================
// HTTP
// =============================================================================

var _ http.CollectionService = (*collection.Manager)(nil)
