package cli

import (
	"flag"
	"fmt"
	"io"
	"os"
	"time"

	"github.com/mrlokans/eldercare/internal/alerting"
	"github.com/mrlokans/eldercare/internal/config"
)

// MissedDosesCommand runs one missed-dose scan for today.
type MissedDosesCommand struct {
	DatabasePath string
	Grace        time.Duration
	Out          io.Writer
}

func NewMissedDosesCommand() *MissedDosesCommand {
	return &MissedDosesCommand{}
}

func (cmd *MissedDosesCommand) ParseFlags(args []string) error {
	fs := flag.NewFlagSet("missed-doses", flag.ContinueOnError)
	fs.StringVar(&cmd.DatabasePath, "db", config.DefaultDatabasePath, "Path to the database file")
	fs.DurationVar(&cmd.Grace, "grace", alerting.DefaultGrace, "How long after its time a dose may still be taken")
	fs.Usage = func() {
		fmt.Fprintf(os.Stderr, "Usage: %s missed-doses [-db <path>] [-grace 30m]\n\n", os.Args[0])
		fmt.Fprintf(os.Stderr, "Mark today's overdue doses as missed and alert guardians.\n\n")
		fs.PrintDefaults()
	}
	if err := fs.Parse(args); err != nil {
		return err
	}
	if cmd.Grace < 0 {
		return fmt.Errorf("grace must not be negative")
	}
	return nil
}

func (cmd *MissedDosesCommand) Run() error {
	out := writer(cmd.Out)
	db, svc, err := openServices(cmd.DatabasePath)
	if err != nil {
		return err
	}
	defer db.Close()
	defer svc.Close()

	marked, err := svc.Alerts.CheckMissedDoses(svc.Now(), cmd.Grace)
	if err != nil {
		return err
	}
	fmt.Fprintf(out, "Marked %d dose(s) as missed\n", marked)
	return nil
}
