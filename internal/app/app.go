// Package app initializes and runs the sync daemon. It wires the database,
// the Verisafe identity client and the per-provider sync services together,
// handles graceful shutdown, and drives the periodic reconciliation loop.
package app

import (
	"context"
	"database/sql"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"sync"
	"syscall"
	"time"

	"google.golang.org/api/calendar/v3"
	"google.golang.org/api/tasks/v1"

	"github.com/opencrafts-io/keepup/internal/config"
	"github.com/opencrafts-io/keepup/internal/engine"
	"github.com/opencrafts-io/keepup/internal/logging"
	"github.com/opencrafts-io/keepup/internal/record"
	"github.com/opencrafts-io/keepup/internal/remote/googlecalendar"
	"github.com/opencrafts-io/keepup/internal/remote/googletasks"
	"github.com/opencrafts-io/keepup/internal/store"
	"github.com/opencrafts-io/keepup/internal/verisafe"
)

type App struct {
	config   *config.Config
	logger   logging.Logger
	db       *sql.DB
	tasks    *engine.Service[*tasks.Task]
	calendar *engine.Service[*calendar.Event]
}

func NewApp(ctx context.Context, c *config.Config) (*App, error) {

	slogger := slog.New(slog.NewJSONHandler(os.Stdout, nil))
	logger := logging.NewSlogLogger(slogger)

	db, err := store.OpenPostgres(ctx, c.DatabaseDSN)
	if err != nil {
		return nil, fmt.Errorf("db init error: %w", err)
	}

	identity := verisafe.NewClient(c.VerisafeBaseURL, c.GoogleClientID, c.GoogleClientSecret)

	taskService := engine.New(record.KindTask,
		googletasks.NewFactory(identity, c.TaskListID, c.PageSize),
		googletasks.Mapper{},
		store.NewPostgresStore(db, record.KindTask),
		logger)

	eventService := engine.New(record.KindEvent,
		googlecalendar.NewFactory(identity, c.CalendarID, c.CalendarWindow, c.PageSize),
		googlecalendar.Mapper{CalendarID: c.CalendarID},
		store.NewPostgresStore(db, record.KindEvent),
		logger)

	return &App{
		config:   c,
		logger:   logger,
		db:       db,
		tasks:    taskService,
		calendar: eventService,
	}, nil
}

func (app *App) initSignalHandler(cancelFunc context.CancelFunc) {
	// Channel to catch OS signals.
	sigs := make(chan os.Signal, 1)
	signal.Notify(sigs, syscall.SIGINT, syscall.SIGTERM, syscall.SIGQUIT)

	go func() {
		<-sigs
		cancelFunc()
	}()
}

// syncAll reconciles both collections for every owner known to the store.
// One owner failing does not stop the others.
func (app *App) syncAll(ctx context.Context) {
	owners, err := app.tasks.Owners(ctx)
	if err != nil {
		app.logger.Error(ctx, "listing owners failed", "error", err)
		return
	}

	for _, owner := range owners {
		if ctx.Err() != nil {
			return
		}
		if _, err := app.tasks.Sync(ctx, owner); err != nil {
			app.logger.Error(ctx, "task sync failed", "owner", owner, "error", err)
		}
		if _, err := app.calendar.Sync(ctx, owner); err != nil {
			app.logger.Error(ctx, "calendar sync failed", "owner", owner, "error", err)
		}
	}
}

// Run drives the periodic reconciliation loop until the context is
// cancelled or a termination signal arrives.
func (app *App) Run(ctx context.Context) {

	ctx, cancelFunc := context.WithCancel(ctx)
	defer cancelFunc()

	app.logger.Info(ctx, "Starting app...", "sync_interval", app.config.SyncInterval.String())

	app.initSignalHandler(cancelFunc)

	var wg sync.WaitGroup

	wg.Add(1)
	go func() {
		defer wg.Done()
		app.runSyncLoop(ctx)
	}()

	wg.Wait()

	if err := app.db.Close(); err != nil {
		app.logger.Error(ctx, "closing database failed", "error", err)
	}
	app.logger.Info(ctx, "Shutdown complete")
}

func (app *App) runSyncLoop(ctx context.Context) {
	ticker := time.NewTicker(app.config.SyncInterval)
	defer ticker.Stop()

	app.syncAll(ctx)

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			app.syncAll(ctx)
		}
	}
}
