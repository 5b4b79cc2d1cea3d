// Package auth handles accounts and login sessions.
//
// Accounts are identified by phone number and protected by a bcrypt hash.
// A successful login stores the user id in an scs session persisted in the
// main SQLite database; the session cookie is HttpOnly and SameSite=Strict.
//
// # Configuration
//
//	AUTH_SESSION_LIFETIME=24h     # Session duration
//	AUTH_BCRYPT_COST=12           # bcrypt cost factor
//	AUTH_SECURE_COOKIES=true      # HTTPS-only cookies
//	AUTH_MAX_LOGIN_ATTEMPTS=5     # Failures before lockout
//	AUTH_RATE_LIMIT_WINDOW=15m
//	AUTH_LOCKOUT_DURATION=30m
//
// # Usage
//
//	sessions, _ := auth.NewSessionManager(sqlDB, cfg.Auth)
//	service := auth.NewService(users.NewRepository(db), cfg.Auth)
//	router.Use(sessions.SessionLoadSave(), auth.NewMiddleware(service, sessions).Handler())
//
// Handlers read the caller with auth.GetUserID(c), which is "" for
// anonymous requests.
package auth
