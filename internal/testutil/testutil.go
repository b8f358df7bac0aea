// Package testutil builds SQLite-backed databases and fixtures for tests.
package testutil

import (
	"context"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/require"
	"github.com/uptrace/bun"

	"ticketing-api/internal/database"
	"ticketing-api/internal/models"
)

// NewDB returns an in-memory database with the full schema applied.
func NewDB(t *testing.T) *bun.DB {
	t.Helper()
	ctx := context.Background()
	db, err := database.OpenSQLite(ctx, "")
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })
	require.NoError(t, database.CreateSchema(ctx, db))
	return db
}

func Category(t *testing.T, db bun.IDB, name string) *models.Category {
	t.Helper()
	c := &models.Category{CategoryName: name, Description: name + " events"}
	_, err := db.NewInsert().Model(c).Exec(context.Background())
	require.NoError(t, err)
	return c
}

func Venue(t *testing.T, db bun.IDB, name, city string) *models.Venue {
	t.Helper()
	v := &models.Venue{VenueName: name, Address: "1 Test St", City: city, Capacity: 500}
	_, err := db.NewInsert().Model(v).Exec(context.Background())
	require.NoError(t, err)
	return v
}

func Event(t *testing.T, db bun.IDB, name string, at time.Time, category *models.Category, venue *models.Venue) *models.Event {
	t.Helper()
	e := &models.Event{
		EventName:     name,
		EventDate:     at.UTC(),
		Description:   "About " + name,
		OrganizerName: "Test Org",
		CategoryID:    category.CategoryID,
		VenueID:       venue.VenueID,
		TotalTickets:  100,
		Status:        models.EventUpcoming,
	}
	_, err := db.NewInsert().Model(e).Exec(context.Background())
	require.NoError(t, err)
	return e
}

func Ticket(t *testing.T, db bun.IDB, event *models.Event, ticketType, price string, qty int) *models.Ticket {
	t.Helper()
	tk := &models.Ticket{
		EventID:           event.EventID,
		TicketType:        ticketType,
		Price:             decimal.RequireFromString(price),
		QuantityAvailable: qty,
	}
	_, err := db.NewInsert().Model(tk).Exec(context.Background())
	require.NoError(t, err)
	return tk
}

func Customer(t *testing.T, db bun.IDB, email string, role models.Role) *models.Customer {
	t.Helper()
	c := &models.Customer{
		FirstName:        "Test",
		LastName:         "Customer",
		Email:            email,
		PasswordHash:     "unused",
		Role:             role,
		RegistrationDate: time.Now().UTC(),
	}
	_, err := db.NewInsert().Model(c).Exec(context.Background())
	require.NoError(t, err)
	return c
}
