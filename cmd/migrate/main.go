// Command migrate applies or rolls back the database schema and can load the
// demo catalog.
package main

import (
	"context"
	"fmt"
	"os"

	"github.com/cockroachdb/errors"
	"github.com/joho/godotenv"
	flag "github.com/spf13/pflag"

	"ticketing-api/internal/config"
	"ticketing-api/internal/database"
	"ticketing-api/internal/database/migrations"
	"ticketing-api/internal/logger"
)

func main() {
	var (
		up     = flag.Bool("up", false, "apply pending migrations")
		down   = flag.Bool("down", false, "roll back the last migration group")
		status = flag.Bool("status", false, "print applied and pending migrations")
		seed   = flag.Bool("seed", false, "insert demo categories, venues, events and tickets")
	)
	flag.Parse()

	if !*up && !*down && !*status && !*seed {
		flag.Usage()
		os.Exit(2)
	}

	_ = godotenv.Load()
	cfg := config.Load()
	log := logger.NewLogger("", cfg.Log.Level)
	defer log.Close()

	if err := run(context.Background(), cfg, log, *up, *down, *status, *seed); err != nil {
		log.Fatal("MIGRATE", errors.FlattenDetails(err))
	}
}

func run(ctx context.Context, cfg *config.Config, log *logger.Logger, up, down, status, seed bool) error {
	db, err := database.Connect(ctx, cfg.Database, log)
	if err != nil {
		return err
	}
	defer db.Close()

	runner := migrations.NewRunner(db, log)
	switch {
	case down:
		if err := runner.Down(ctx); err != nil {
			return err
		}
	case up:
		if err := runner.Up(ctx); err != nil {
			return err
		}
	}
	if status {
		if err := runner.Status(ctx); err != nil {
			return err
		}
	}
	if seed {
		if err := database.Seed(ctx, db, log); err != nil {
			return errors.Wrap(err, "seed")
		}
		log.Info("MIGRATE", fmt.Sprintf("Seeded demo data into %s database", cfg.Database.Driver))
	}
	return nil
}
