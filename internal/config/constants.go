package config

// Default paths for storage
const (
	// DefaultDatabasePath is the default path for the relational database (users, collections, dynamics)
	DefaultDatabasePath = "./book-friends.db"

	// DefaultBookCachePath is the default directory for the book metadata cache
	DefaultBookCachePath = "./book-cache"
)

// Provider kinds
const (
	ProviderProxy       = "proxy"
	ProviderOpenLibrary = "openlibrary"
)
