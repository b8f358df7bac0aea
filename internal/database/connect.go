package database

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/cockroachdb/errors"
	_ "github.com/lib/pq"
	"github.com/uptrace/bun"
	"github.com/uptrace/bun/dialect/pgdialect"
	"github.com/uptrace/bun/dialect/sqlitedialect"
	"github.com/uptrace/bun/driver/sqliteshim"
	"github.com/uptrace/bun/extra/bundebug"

	"ticketing-api/internal/config"
	"ticketing-api/internal/logger"
)

const maxConnectRetries = 5

// PostgresDSN builds a lib/pq connection string unless DATABASE_URL was given.
func PostgresDSN(cfg config.DatabaseConfig) string {
	if cfg.DSN != "" {
		return cfg.DSN
	}
	return fmt.Sprintf("postgres://%s:%s@%s:%s/%s?sslmode=%s",
		cfg.Username, cfg.Password, cfg.Host, cfg.Port, cfg.Database, cfg.SSLMode)
}

// Connect opens the configured database and retries the first ping a few
// times so the API can start alongside its database container.
func Connect(ctx context.Context, cfg config.DatabaseConfig, log *logger.Logger) (*bun.DB, error) {
	var (
		bunDB *bun.DB
		err   error
	)

	switch cfg.Driver {
	case "postgres":
		bunDB, err = openPostgres(ctx, cfg, log)
	case "sqlite":
		bunDB, err = OpenSQLite(ctx, cfg.DSN)
	default:
		return nil, errors.Newf("unsupported database driver %q", cfg.Driver)
	}
	if err != nil {
		return nil, err
	}

	if cfg.Debug {
		bunDB.AddQueryHook(bundebug.NewQueryHook(bundebug.WithVerbose(true)))
	}
	log.Info("DATABASE", fmt.Sprintf("Connected using %s driver", cfg.Driver))
	return bunDB, nil
}

func openPostgres(ctx context.Context, cfg config.DatabaseConfig, log *logger.Logger) (*bun.DB, error) {
	sqldb, err := sql.Open("postgres", PostgresDSN(cfg))
	if err != nil {
		return nil, errors.Wrap(err, "open postgres")
	}
	sqldb.SetMaxOpenConns(cfg.MaxOpenConns)
	sqldb.SetMaxIdleConns(cfg.MaxIdleConns)
	sqldb.SetConnMaxLifetime(cfg.MaxLifetime)

	for i := 0; i < maxConnectRetries; i++ {
		log.Info("DATABASE", fmt.Sprintf("Attempting to connect to PostgreSQL (attempt %d/%d)", i+1, maxConnectRetries))
		if err = sqldb.PingContext(ctx); err == nil {
			break
		}
		log.Error("DATABASE", fmt.Sprintf("Failed to connect to PostgreSQL: %v", err))
		if i < maxConnectRetries-1 {
			select {
			case <-ctx.Done():
				return nil, ctx.Err()
			case <-time.After(2 * time.Second):
			}
		}
	}
	if err != nil {
		sqldb.Close()
		return nil, errors.Wrapf(err, "connect to postgres after %d attempts", maxConnectRetries)
	}

	return bun.NewDB(sqldb, pgdialect.New()), nil
}

// OpenSQLite opens a SQLite database with foreign keys enforced. An empty dsn
// means a private in-memory database.
func OpenSQLite(ctx context.Context, dsn string) (*bun.DB, error) {
	if dsn == "" {
		dsn = ":memory:"
	}
	sqldb, err := sql.Open(sqliteshim.ShimName, dsn)
	if err != nil {
		return nil, errors.Wrap(err, "open sqlite")
	}
	// SQLite allows one writer; a single connection also keeps an in-memory
	// database alive and makes the pragma below stick.
	sqldb.SetMaxOpenConns(1)

	if _, err := sqldb.ExecContext(ctx, "PRAGMA foreign_keys = ON"); err != nil {
		sqldb.Close()
		return nil, errors.Wrap(err, "enable sqlite foreign keys")
	}
	return bun.NewDB(sqldb, sqlitedialect.New()), nil
}
