package cli

import (
	"flag"
	"fmt"
	"io"
	"os"

	"github.com/mrlokans/eldercare/internal/config"
	"github.com/mrlokans/eldercare/internal/entities"
	"github.com/mrlokans/eldercare/internal/utils"
)

const (
	HydrationShow      = "show"
	HydrationIncrement = "increment"
	HydrationDecrement = "decrement"
)

// HydrationCommand shows or adjusts today's glass counter.
type HydrationCommand struct {
	DatabasePath string
	Action       string
	Out          io.Writer
}

func NewHydrationCommand() *HydrationCommand {
	return &HydrationCommand{}
}

func (cmd *HydrationCommand) ParseFlags(args []string) error {
	fs := flag.NewFlagSet("hydration", flag.ContinueOnError)
	fs.StringVar(&cmd.DatabasePath, "db", config.DefaultDatabasePath, "Path to the database file")
	fs.StringVar(&cmd.Action, "action", HydrationShow, "One of: show, increment, decrement")
	fs.Usage = func() {
		fmt.Fprintf(os.Stderr, "Usage: %s hydration [-db <path>] [-action show|increment|decrement]\n\n", os.Args[0])
		fs.PrintDefaults()
	}
	if err := fs.Parse(args); err != nil {
		return err
	}

	switch cmd.Action {
	case HydrationShow, HydrationIncrement, HydrationDecrement:
		return nil
	}
	return fmt.Errorf("unknown action %q", cmd.Action)
}

func (cmd *HydrationCommand) Run() error {
	out := writer(cmd.Out)
	db, svc, err := openServices(cmd.DatabasePath)
	if err != nil {
		return err
	}
	defer db.Close()
	defer svc.Close()

	start, end := utils.DayBounds(svc.Now())
	repo := svc.Repos.Hydration

	var today *entities.HydrationLog
	switch cmd.Action {
	case HydrationIncrement:
		today, err = repo.IncrementGlasses(start, end)
	case HydrationDecrement:
		today, err = repo.DecrementGlasses(start, end)
	default:
		today, err = repo.GetTodayLog(start, end)
	}
	if err != nil {
		return err
	}

	if today == nil {
		fmt.Fprintf(out, "%s: 0/%d glasses\n", start.Format("2006-01-02"), entities.DefaultHydrationGoal)
		return nil
	}
	fmt.Fprintf(out, "%s: %d/%d glasses", start.Format("2006-01-02"), today.GlassesCount, today.Goal)
	if today.GoalReached() {
		fmt.Fprint(out, " (goal reached)")
	}
	fmt.Fprintln(out)
	return nil
}
