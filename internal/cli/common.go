// Package cli implements the one-off maintenance commands run next to the
// server: each parses its own flags and works on the database file
// directly.
package cli

import (
	"fmt"
	"io"
	"os"
	"time"

	"github.com/mrlokans/eldercare/internal/database"
	"github.com/mrlokans/eldercare/internal/services"
)

// openServices opens the database without the destructive fallback: a
// maintenance command must never drop data.
func openServices(path string) (*database.Database, *services.Services, error) {
	if _, err := os.Stat(path); os.IsNotExist(err) {
		return nil, nil, fmt.Errorf("database not found: %s", path)
	}
	db, err := database.NewDatabase(path, database.Options{})
	if err != nil {
		return nil, nil, fmt.Errorf("failed to open database: %w", err)
	}
	return db, services.New(db, services.Options{Location: time.Local}), nil
}

func writer(w io.Writer) io.Writer {
	if w == nil {
		return os.Stdout
	}
	return w
}
