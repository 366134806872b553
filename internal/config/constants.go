package config

const (
	// DefaultDatabasePath is where the care database lives unless
	// DATABASE_PATH says otherwise.
	DefaultDatabasePath = "./eldercare.db"

	DefaultPort = 8188
)
