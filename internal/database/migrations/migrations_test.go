package migrations_test

import (
	"bytes"
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"ticketing-api/internal/database"
	"ticketing-api/internal/database/migrations"
	"ticketing-api/internal/logger"
	"ticketing-api/internal/models"
)

func TestRunnerUpAndDown(t *testing.T) {
	ctx := context.Background()
	db, err := database.OpenSQLite(ctx, "")
	require.NoError(t, err)
	defer db.Close()

	var out bytes.Buffer
	runner := migrations.NewRunner(db, logger.New(&out))
	require.NoError(t, runner.Up(ctx))
	assert.Contains(t, out.String(), "bun_migrations")
	// second run is a no-op
	require.NoError(t, runner.Up(ctx))

	count, err := db.NewSelect().Model((*models.Event)(nil)).Count(ctx)
	require.NoError(t, err)
	assert.Equal(t, 0, count)

	require.NoError(t, runner.Down(ctx))
	_, err = db.NewSelect().Model((*models.Event)(nil)).Count(ctx)
	assert.Error(t, err)
}
