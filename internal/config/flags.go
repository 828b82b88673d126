package config

import (
	"flag"
	"os"
	"time"

	"github.com/opencrafts-io/keepup/internal/flagx"
)

// parseFlags populates selected Config fields from command-line flags.
//
// Supported flags (short forms):
//
//	-d string   PostgreSQL DSN
//	-v string   Verisafe base URL
//	-s string   Verisafe JWT HMAC secret
//	-i int      sync interval, minutes
//	-w int      calendar window half-width, days
//	-l string   Google Tasks list id
//	-e string   Google Calendar id
//	-n int      remote listing page size
//
// The function first filters os.Args to only the flags it recognizes using
// flagx.FilterArgs, avoiding collisions with other components. Duration
// flags are accepted as integers and converted to time.Duration values.
func parseFlags(config *Config) {
	args := flagx.FilterArgs(os.Args[1:], []string{"-d", "-v", "-s", "-i", "-w", "-l", "-e", "-n"})

	fs := flag.NewFlagSet("main", flag.ContinueOnError)

	fs.StringVar(&config.DatabaseDSN, "d", config.DatabaseDSN, "database DSN")
	fs.StringVar(&config.VerisafeBaseURL, "v", config.VerisafeBaseURL, "verisafe base URL")
	fs.StringVar(&config.VerisafeAPISecret, "s", config.VerisafeAPISecret, "verisafe API secret")
	fs.StringVar(&config.TaskListID, "l", config.TaskListID, "google tasks list id")
	fs.StringVar(&config.CalendarID, "e", config.CalendarID, "google calendar id")
	fs.Int64Var(&config.PageSize, "n", config.PageSize, "remote listing page size")

	syncInterval := fs.Int("i", int(config.SyncInterval.Minutes()), "sync interval (in minutes)")
	calendarWindow := fs.Int("w", int(config.CalendarWindow.Hours()/24), "calendar window (in days)")

	if err := fs.Parse(args); err != nil {
		panic(err)
	}

	config.SyncInterval = time.Duration(*syncInterval) * time.Minute
	config.CalendarWindow = time.Duration(*calendarWindow) * 24 * time.Hour
}
