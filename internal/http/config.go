package http

import (
	"github.com/bookfriends/server/internal/auth"
	"github.com/bookfriends/server/internal/bookcache"
	"github.com/bookfriends/server/internal/database"
	"github.com/bookfriends/server/internal/dynamics"
)

// RouterConfig contains all dependencies and configuration needed
// to create the HTTP router.
type RouterConfig struct {
	// Core dependencies
	Database    *database.Database
	BookCache   *bookcache.Store
	Resolver    BookResolver
	Collections CollectionService

	// Authentication. Account and write routes are only mounted when
	// AuthService, SessionManager and AuthMiddleware are all set.
	AuthService    *auth.Service
	SessionManager *auth.SessionManager
	AuthMiddleware *auth.Middleware
	LoginLimiter   *auth.LoginLimiter
	SecureCookies  bool

	// Reading dynamics (optional)
	Dynamics *dynamics.Service

	// Application info
	Version string
}

func (cfg RouterConfig) authEnabled() bool {
	return cfg.AuthService != nil && cfg.SessionManager != nil && cfg.AuthMiddleware != nil
}
