package cli

import (
	"flag"
	"fmt"
	"io"
	"os"

	"github.com/mrlokans/eldercare/internal/config"
	"github.com/mrlokans/eldercare/internal/entities"
)

// SchemaCheckCommand opens a database, validates every table against the
// declared entities and prints the schema identity.
type SchemaCheckCommand struct {
	DatabasePath string
	Out          io.Writer
}

func NewSchemaCheckCommand() *SchemaCheckCommand {
	return &SchemaCheckCommand{}
}

func (cmd *SchemaCheckCommand) ParseFlags(args []string) error {
	fs := flag.NewFlagSet("schema-check", flag.ContinueOnError)
	fs.StringVar(&cmd.DatabasePath, "db", config.DefaultDatabasePath, "Path to the database file")
	fs.Usage = func() {
		fmt.Fprintf(os.Stderr, "Usage: %s schema-check [-db <path>]\n\n", os.Args[0])
		fmt.Fprintf(os.Stderr, "Validate the database schema without modifying data.\n\n")
		fmt.Fprintf(os.Stderr, "Options:\n")
		fs.PrintDefaults()
	}
	return fs.Parse(args)
}

func (cmd *SchemaCheckCommand) Run() error {
	out := writer(cmd.Out)
	db, svc, err := openServices(cmd.DatabasePath)
	if err != nil {
		return err
	}
	defer db.Close()
	defer svc.Close()

	if err := db.ValidateSchema(); err != nil {
		return err
	}

	fmt.Fprintf(out, "Database:        %s\n", db.Path())
	fmt.Fprintf(out, "Schema identity: %s\n", db.IdentityHash())
	fmt.Fprintf(out, "Tables:          %d\n", len(entities.DataTables()))
	fmt.Fprintln(out, "Schema OK")
	return nil
}
