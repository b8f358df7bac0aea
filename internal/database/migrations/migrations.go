package migrations

import (
	"context"
	"fmt"

	"github.com/cockroachdb/errors"
	"github.com/uptrace/bun"
	"github.com/uptrace/bun/migrate"

	"ticketing-api/internal/logger"
)

// Migrations holds every registered schema migration.
var Migrations = migrate.NewMigrations()

// Runner applies and rolls back migrations against one database.
type Runner struct {
	migrator *migrate.Migrator
	log      *logger.Logger
}

func NewRunner(db *bun.DB, log *logger.Logger) *Runner {
	return &Runner{
		migrator: migrate.NewMigrator(db, Migrations),
		log:      log,
	}
}

// Up creates the bookkeeping tables if needed and applies pending migrations.
func (r *Runner) Up(ctx context.Context) error {
	if err := r.migrator.Init(ctx); err != nil {
		return errors.Wrap(err, "init migrations")
	}
	if err := r.migrator.Lock(ctx); err != nil {
		return errors.Wrap(err, "lock migrations")
	}
	defer r.migrator.Unlock(ctx) //nolint:errcheck

	group, err := r.migrator.Migrate(ctx)
	if err != nil {
		return errors.Wrap(err, "apply migrations")
	}
	if group.IsZero() {
		r.log.Info("MIGRATE", "No new migrations to run, database is up to date")
		return nil
	}
	r.log.LogDatabase("MIGRATE", "bun_migrations", fmt.Sprintf("migrated to %s", group))
	return nil
}

// Down rolls back the last applied migration group.
func (r *Runner) Down(ctx context.Context) error {
	if err := r.migrator.Init(ctx); err != nil {
		return errors.Wrap(err, "init migrations")
	}
	if err := r.migrator.Lock(ctx); err != nil {
		return errors.Wrap(err, "lock migrations")
	}
	defer r.migrator.Unlock(ctx) //nolint:errcheck

	group, err := r.migrator.Rollback(ctx)
	if err != nil {
		return errors.Wrap(err, "rollback migrations")
	}
	if group.IsZero() {
		r.log.Info("MIGRATE", "No groups to roll back")
		return nil
	}
	r.log.LogDatabase("ROLLBACK", "bun_migrations", fmt.Sprintf("rolled back %s", group))
	return nil
}

// Status logs applied and pending migrations.
func (r *Runner) Status(ctx context.Context) error {
	if err := r.migrator.Init(ctx); err != nil {
		return errors.Wrap(err, "init migrations")
	}
	ms, err := r.migrator.MigrationsWithStatus(ctx)
	if err != nil {
		return errors.Wrap(err, "read migration status")
	}
	r.log.Info("MIGRATE", fmt.Sprintf("migrations: %s", ms))
	r.log.Info("MIGRATE", fmt.Sprintf("unapplied migrations: %s", ms.Unapplied()))
	r.log.Info("MIGRATE", fmt.Sprintf("last migration group: %s", ms.LastGroup()))
	return nil
}
