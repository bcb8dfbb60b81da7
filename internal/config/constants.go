package config

// Default paths for databases
const (
	// DefaultDatabasePath is the default path for the catalog database
	DefaultDatabasePath = "./books.db"

	// DefaultDatabaseDriver is used when DATABASE_DRIVER is not set
	DefaultDatabaseDriver = "sqlite"
)
