package database_test

import (
	"bytes"
	"context"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/uptrace/bun"

	"ticketing-api/internal/config"
	"ticketing-api/internal/database"
	"ticketing-api/internal/logger"
	"ticketing-api/internal/models"
)

func setupTestDB(t *testing.T) (context.Context, *bun.DB) {
	t.Helper()
	ctx := context.Background()
	db, err := database.OpenSQLite(ctx, "")
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })
	require.NoError(t, database.CreateSchema(ctx, db))
	return ctx, db
}

func TestCreateSchemaIsIdempotent(t *testing.T) {
	ctx, db := setupTestDB(t)

	require.NoError(t, database.CreateSchema(ctx, db))
}

func TestForeignKeysAreEnforced(t *testing.T) {
	ctx, db := setupTestDB(t)

	ticket := &models.Ticket{EventID: 999, TicketType: "General", Price: decimal.NewFromInt(10), QuantityAvailable: 1}
	_, err := db.NewInsert().Model(ticket).Exec(ctx)
	assert.Error(t, err, "ticket for a missing event must be rejected")
}

func TestEventDeleteCascadesToTickets(t *testing.T) {
	ctx, db := setupTestDB(t)
	require.NoError(t, database.Seed(ctx, db, logger.Discard()))

	var event models.Event
	require.NoError(t, db.NewSelect().Model(&event).Where("event_name = ?", "Summer Fest").Scan(ctx))

	_, err := db.NewDelete().Model((*models.Event)(nil)).Where("event_id = ?", event.EventID).Exec(ctx)
	require.NoError(t, err)

	count, err := db.NewSelect().Model((*models.Ticket)(nil)).Where("event_id = ?", event.EventID).Count(ctx)
	require.NoError(t, err)
	assert.Equal(t, 0, count)
}

func TestSeedRunsOnce(t *testing.T) {
	ctx, db := setupTestDB(t)

	var out bytes.Buffer
	log := logger.New(&out)

	require.NoError(t, database.Seed(ctx, db, log))
	assert.Contains(t, out.String(), "inserted 3 rows")
	assert.Contains(t, out.String(), "inserted 4 rows")

	out.Reset()
	require.NoError(t, database.Seed(ctx, db, log))
	assert.Contains(t, out.String(), "already present")

	count, err := db.NewSelect().Model((*models.Category)(nil)).Count(ctx)
	require.NoError(t, err)
	assert.Equal(t, 3, count)

	var event models.Event
	require.NoError(t, db.NewSelect().Model(&event).Where("event_name = ?", "Hamlet").Scan(ctx))
	assert.True(t, event.EventDate.After(time.Now()))
}

func TestPostgresDSN(t *testing.T) {
	cfg := config.DatabaseConfig{Username: "u", Password: "p", Host: "h", Port: "5432", Database: "d", SSLMode: "disable"}
	assert.Equal(t, "postgres://u:p@h:5432/d?sslmode=disable", database.PostgresDSN(cfg))

	cfg.DSN = "postgres://override"
	assert.Equal(t, "postgres://override", database.PostgresDSN(cfg))
}
