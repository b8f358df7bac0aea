//go:build integration

package db_test

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/cockroachdb/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/testcontainers/testcontainers-go"
	"github.com/testcontainers/testcontainers-go/wait"
	"github.com/uptrace/bun"

	"ticketing-api/internal/config"
	"ticketing-api/internal/database"
	"ticketing-api/internal/database/migrations"
	"ticketing-api/internal/logger"
	"ticketing-api/internal/models"
	"ticketing-api/internal/purchase/db"
	"ticketing-api/internal/testutil"
)

func startPostgres(t *testing.T) *bun.DB {
	t.Helper()
	ctx := context.Background()

	container, err := testcontainers.GenericContainer(ctx, testcontainers.GenericContainerRequest{
		ContainerRequest: testcontainers.ContainerRequest{
			Image:        "postgres:16-alpine",
			ExposedPorts: []string{"5432/tcp"},
			Env: map[string]string{
				"POSTGRES_USER":     "ticketing",
				"POSTGRES_PASSWORD": "ticketing",
				"POSTGRES_DB":       "ticketing",
			},
			WaitingFor: wait.ForLog("database system is ready to accept connections").
				WithOccurrence(2).
				WithStartupTimeout(60 * time.Second),
		},
		Started: true,
	})
	require.NoError(t, err)
	t.Cleanup(func() { _ = container.Terminate(ctx) })

	host, err := container.Host(ctx)
	require.NoError(t, err)
	port, err := container.MappedPort(ctx, "5432/tcp")
	require.NoError(t, err)

	bunDB, err := database.Connect(ctx, config.DatabaseConfig{
		Driver:       "postgres",
		Host:         host,
		Port:         port.Port(),
		Username:     "ticketing",
		Password:     "ticketing",
		Database:     "ticketing",
		SSLMode:      "disable",
		MaxOpenConns: 20,
		MaxIdleConns: 20,
		MaxLifetime:  time.Minute,
	}, logger.Discard())
	require.NoError(t, err)
	t.Cleanup(func() { bunDB.Close() })

	require.NoError(t, migrations.NewRunner(bunDB, logger.Discard()).Up(ctx))
	return bunDB
}

func TestPostgresConcurrentPurchasesSellExactlyTheStock(t *testing.T) {
	bunDB := startPostgres(t)
	ctx := context.Background()

	category := testutil.Category(t, bunDB, "Music")
	venue := testutil.Venue(t, bunDB, "Hall", "Springfield")
	event := testutil.Event(t, bunDB, "Sold Out Show", time.Now().Add(24*time.Hour), category, venue)
	ticket := testutil.Ticket(t, bunDB, event, "General", "15.00", 5)
	buyer := testutil.Customer(t, bunDB, "crowd@example.com", models.RoleUser)

	store := &db.DB{Bun: bunDB}
	const buyers = 20

	var (
		wg           sync.WaitGroup
		mu           sync.Mutex
		succeeded    int
		insufficient int
	)
	for i := 0; i < buyers; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_, err := store.CreatePurchase(ctx, db.NewPurchase{
				CustomerID:    buyer.CustomerID,
				PaymentMethod: models.PaymentCreditCard,
				PurchasedAt:   time.Now(),
				Lines:         []models.PurchaseLineRequest{{TicketID: ticket.TicketID, Quantity: 1}},
			})
			mu.Lock()
			defer mu.Unlock()
			switch {
			case err == nil:
				succeeded++
			case errors.Is(err, models.ErrInsufficientInventory):
				insufficient++
			default:
				t.Errorf("unexpected purchase error: %v", err)
			}
		}()
	}
	wg.Wait()

	assert.Equal(t, 5, succeeded)
	assert.Equal(t, buyers-5, insufficient)

	var got models.Ticket
	require.NoError(t, bunDB.NewSelect().Model(&got).Where("ticket_id = ?", ticket.TicketID).Scan(ctx))
	assert.Zero(t, got.QuantityAvailable)

	var ev models.Event
	require.NoError(t, bunDB.NewSelect().Model(&ev).Where("event_id = ?", event.EventID).Scan(ctx))
	assert.Equal(t, 5, ev.TicketsSold)
}

func TestPostgresRejectsNegativeInventory(t *testing.T) {
	bunDB := startPostgres(t)
	ctx := context.Background()

	category := testutil.Category(t, bunDB, "Music")
	venue := testutil.Venue(t, bunDB, "Hall", "Springfield")
	event := testutil.Event(t, bunDB, "Gig", time.Now().Add(24*time.Hour), category, venue)
	ticket := testutil.Ticket(t, bunDB, event, "General", "15.00", 1)

	_, err := bunDB.NewUpdate().Model((*models.Ticket)(nil)).
		Set("quantity_available = -1").
		Where("ticket_id = ?", ticket.TicketID).
		Exec(ctx)
	assert.Error(t, err)
}
