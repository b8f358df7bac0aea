package database

import (
	"context"
	"fmt"
	"time"

	"github.com/cockroachdb/errors"
	"github.com/shopspring/decimal"
	"github.com/uptrace/bun"

	"ticketing-api/internal/logger"
	"ticketing-api/internal/models"
)

// Seed inserts a small demo catalog. It does nothing when categories exist.
func Seed(ctx context.Context, db *bun.DB, log *logger.Logger) error {
	exists, err := db.NewSelect().Model((*models.Category)(nil)).Exists(ctx)
	if err != nil {
		return errors.Wrap(err, "check seed data")
	}
	if exists {
		log.LogDatabase("SEED", "categories", "catalog already present, skipping")
		return nil
	}

	return db.RunInTx(ctx, nil, func(ctx context.Context, tx bun.Tx) error {
		insert := func(table string, rows interface{}, n int) error {
			if _, err := tx.NewInsert().Model(rows).Exec(ctx); err != nil {
				return errors.Wrapf(err, "seed %s", table)
			}
			log.LogDatabase("SEED", table, fmt.Sprintf("inserted %d rows", n))
			return nil
		}

		categories := []models.Category{
			{CategoryName: "Music", Description: "Concerts and festivals"},
			{CategoryName: "Sports", Description: "Matches and tournaments"},
			{CategoryName: "Theatre", Description: "Plays and musicals"},
		}
		if err := insert("categories", &categories, len(categories)); err != nil {
			return err
		}

		venues := []models.Venue{
			{VenueName: "Riverside Arena", Address: "1 River Rd", City: "Springfield", Capacity: 12000, Phone: "555-0100"},
			{VenueName: "Grand Theatre", Address: "22 Main St", City: "Shelbyville", Capacity: 900, Phone: "555-0199"},
		}
		if err := insert("venues", &venues, len(venues)); err != nil {
			return err
		}

		now := time.Now().UTC().Truncate(time.Hour)
		events := []models.Event{
			{
				EventName:      "Summer Fest",
				EventDate:      now.AddDate(0, 0, 20),
				Description:    "Annual summer music festival.",
				OrganizerName:  "Springfield Events",
				OrganizerEmail: "events@springfield.example",
				CategoryID:     categories[0].CategoryID,
				VenueID:        venues[0].VenueID,
				TotalTickets:   1500,
				Status:         models.EventUpcoming,
			},
			{
				EventName:     "Hamlet",
				EventDate:     now.AddDate(0, 2, 0),
				Description:   "A classic tragedy in five acts.",
				OrganizerName: "Grand Theatre Company",
				CategoryID:    categories[2].CategoryID,
				VenueID:       venues[1].VenueID,
				TotalTickets:  300,
				Status:        models.EventUpcoming,
			},
		}
		if err := insert("events", &events, len(events)); err != nil {
			return err
		}

		tickets := []models.Ticket{
			{EventID: events[0].EventID, TicketType: "General", Price: decimal.RequireFromString("49.99"), QuantityAvailable: 1000},
			{EventID: events[0].EventID, TicketType: "VIP", Price: decimal.RequireFromString("149.00"), QuantityAvailable: 500},
			{EventID: events[1].EventID, TicketType: "Stalls", Price: decimal.RequireFromString("65.00"), QuantityAvailable: 200},
			{EventID: events[1].EventID, TicketType: "Balcony", Price: decimal.RequireFromString("35.00"), QuantityAvailable: 100},
		}
		return insert("tickets", &tickets, len(tickets))
	})
}
