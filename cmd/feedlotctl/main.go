// Package main is the operator CLI for running ledger and allocation jobs by hand.
package main

import (
	"context"
	"fmt"
	"log"
	"log/slog"
	"os"

	"github.com/joho/godotenv"
	"github.com/urfave/cli/v2"

	"github.com/boi-gordo/backend/config"
	"github.com/boi-gordo/backend/internal/infra/db"
	"github.com/boi-gordo/backend/internal/infra/dependency"
	"github.com/boi-gordo/backend/internal/integration/cache"
	"github.com/boi-gordo/backend/internal/integration/persistence"
)

type contextKey string

const sessionKey contextKey = "session"

type session struct {
	database *db.Database
	injector *dependency.Injector
}

func newDBURLFlag() *cli.StringFlag {
	return &cli.StringFlag{
		Name:    "db-url",
		Usage:   "Database connection string (postgres DSN or sqlite://<path>)",
		EnvVars: []string{"DATABASE_URL"},
	}
}

// openSession connects to the database and wires the use cases for a command.
func openSession(c *cli.Context) error {
	cfg := config.Load()
	if url := c.String("db-url"); url != "" {
		cfg.Database.URL = url
	}

	database, err := db.NewConnection(&cfg.Database)
	if err != nil {
		return fmt.Errorf("failed to connect to database: %w", err)
	}

	if c.Bool("migrate") {
		if err := persistence.Migrate(database.DB()); err != nil {
			_ = database.Close()
			return fmt.Errorf("failed to run migrations: %w", err)
		}
	}

	reportCache, err := cache.NewReportCache(cfg.Redis)
	if err != nil {
		slog.Warn("Report cache unavailable, continuing without it", "error", err)
		reportCache = cache.NewNoopReportCache()
	}

	injector, err := dependency.NewInjector(cfg, database.DB(), reportCache)
	if err != nil {
		_ = database.Close()
		return fmt.Errorf("failed to wire dependencies: %w", err)
	}

	c.Context = context.WithValue(c.Context, sessionKey, &session{database: database, injector: injector})
	return nil
}

func closeSession(c *cli.Context) error {
	if s, ok := c.Context.Value(sessionKey).(*session); ok && s != nil {
		return s.database.Close()
	}
	return nil
}

func useCases(c *cli.Context) (dependency.UseCases, error) {
	s, ok := c.Context.Value(sessionKey).(*session)
	if !ok || s == nil {
		return dependency.UseCases{}, fmt.Errorf("session not initialized")
	}
	return s.injector.UseCases, nil
}

func main() {
	if err := godotenv.Load(".env"); err != nil {
		log.Printf("warning: could not load .env file: %v", err)
	}
	slog.SetDefault(slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: slog.LevelInfo})))

	app := &cli.App{
		Name:  "feedlotctl",
		Usage: "Run ledger ingestion, reconciliation and cost allocation jobs",
		Flags: []cli.Flag{
			newDBURLFlag(),
			&cli.BoolFlag{
				Name:  "migrate",
				Usage: "Run schema migrations before the command",
			},
		},
		Commands: []*cli.Command{
			{
				Name:  "ingest",
				Usage: "Normalize a month's settled records into the ledger",
				Flags: []cli.Flag{
					&cli.StringFlag{Name: "month", Usage: "Month to ingest (YYYY-MM)", Required: true},
				},
				Before: openSession,
				After:  closeSession,
				Action: runIngest,
			},
			{
				Name:  "reconcile",
				Usage: "Reconcile one month or an inclusive range of months",
				Flags: []cli.Flag{
					&cli.StringFlag{Name: "from", Usage: "First month (YYYY-MM)", Required: true},
					&cli.StringFlag{Name: "to", Usage: "Last month (YYYY-MM), defaults to --from"},
					&cli.IntFlag{Name: "parallel", Usage: "Months reconciled at once", Value: 2},
				},
				Before: openSession,
				After:  closeSession,
				Action: runReconcile,
			},
			{
				Name:  "allocate",
				Usage: "Allocate a day's shared costs across confined lots",
				Flags: []cli.Flag{
					&cli.StringFlag{Name: "date", Usage: "Day to allocate (YYYY-MM-DD)", Required: true},
					&cli.StringFlag{Name: "basis", Usage: "weight, head_count or days"},
				},
				Before: openSession,
				After:  closeSession,
				Action: runAllocate,
			},
			{
				Name:  "feed-price",
				Usage: "Store the feed price per kg effective from a date",
				Flags: []cli.Flag{
					&cli.StringFlag{Name: "from", Usage: "Effective date (YYYY-MM-DD)", Required: true},
					&cli.StringFlag{Name: "price", Usage: "Price per kg", Required: true},
				},
				Before: openSession,
				After:  closeSession,
				Action: runFeedPrice,
			},
		},
	}

	if err := app.Run(os.Args); err != nil {
		log.Fatal(err)
	}
}
