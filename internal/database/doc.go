// Package database provides the relational data access layer.
//
// # Architecture
//
//	database/
//	├── database.go      # Connection setup and migrations
//	├── users/           # Identity store (accounts and profiles)
//	├── userbooks/       # User-collection store (user, isbn) relations
//	└── dynamics/        # Status updates and like counters
//
// Book metadata does not live here; see package bookcache.
//
// # Using Sub-packages
//
//	db, err := database.NewDatabase("./book-friends.db")
//
//	usersRepo := users.NewRepository(db.DB)
//	collectionRepo := userbooks.NewRepository(db.DB)
//
//	exists, err := usersRepo.Exists(ctx, userID)
//	err = collectionRepo.UpsertActive(ctx, userID, isbn, tags)
//
// # Interface Implementations
//
//   - users.Repository: implements collection.IdentityStore, dynamics.IdentityStore, auth.UserStore
//   - userbooks.Repository: implements collection.Store, scheduler.ISBNSource
//   - dynamics.Repository: implements dynamics.Store
//
// Compile-time checks live in internal/interfaces.
package database
