package db

import (
	"context"
	"strings"
	"time"

	"github.com/cockroachdb/errors"
	"github.com/shopspring/decimal"
	"github.com/uptrace/bun"

	"ticketing-api/internal/database"
	"ticketing-api/internal/models"
)

type DB struct {
	Bun *bun.DB
}

// EventFilter holds the optional predicates of an event listing. Zero values
// are not applied.
type EventFilter struct {
	Query string
	City  string
	From  time.Time
	To    time.Time
}

func (d *DB) ListEvents(ctx context.Context) ([]models.Event, error) {
	events := make([]models.Event, 0)
	err := d.Bun.NewSelect().
		Model(&events).
		Order("event.event_date ASC", "event.event_id ASC").
		Scan(ctx)
	if err != nil {
		return nil, errors.Wrap(err, "select events")
	}
	return events, nil
}

func (d *DB) GetEvent(ctx context.Context, eventID int64) (*models.Event, error) {
	var event models.Event
	err := d.Bun.NewSelect().
		Model(&event).
		Relation("Category").
		Relation("Venue").
		Where("event.event_id = ?", eventID).
		Scan(ctx)
	if database.IsNoRows(err) {
		return nil, models.NewNotFoundError("Event not found")
	}
	if err != nil {
		return nil, errors.Wrapf(err, "select event %d", eventID)
	}
	return &event, nil
}

// SearchEvents matches q against event names, ignoring case.
func (d *DB) SearchEvents(ctx context.Context, q string) ([]models.Event, error) {
	events := make([]models.Event, 0)
	err := d.Bun.NewSelect().
		Model(&events).
		Where("LOWER(event.event_name) LIKE ? ESCAPE '!'", likePattern(q)).
		Order("event.event_date ASC").
		Scan(ctx)
	if err != nil {
		return nil, errors.Wrap(err, "search events")
	}
	return events, nil
}

// FilterEvents returns events joined with venue and category, plus the
// cheapest tier price of each.
func (d *DB) FilterEvents(ctx context.Context, f EventFilter) ([]models.EventListing, error) {
	var events []models.Event
	q := d.Bun.NewSelect().
		Model(&events).
		Relation("Venue").
		Relation("Category")

	if f.Query != "" {
		pattern := likePattern(f.Query)
		q = q.WhereGroup(" AND ", func(q *bun.SelectQuery) *bun.SelectQuery {
			return q.
				Where("LOWER(event.event_name) LIKE ? ESCAPE '!'", pattern).
				WhereOr("LOWER(event.description) LIKE ? ESCAPE '!'", pattern)
		})
	}
	if f.City != "" {
		q = q.Where("venue.city = ?", f.City)
	}
	if !f.From.IsZero() {
		q = q.Where("event.event_date >= ?", f.From)
	}
	if !f.To.IsZero() {
		q = q.Where("event.event_date <= ?", f.To)
	}

	if err := q.Order("event.event_date ASC", "event.event_id ASC").Scan(ctx); err != nil {
		return nil, errors.Wrap(err, "filter events")
	}

	listings := make([]models.EventListing, 0, len(events))
	if len(events) == 0 {
		return listings, nil
	}

	minPrices, err := d.minPrices(ctx, events)
	if err != nil {
		return nil, err
	}
	for i := range events {
		listings = append(listings, models.EventListing{
			Event:    &events[i],
			MinPrice: minPrices[events[i].EventID],
		})
	}
	return listings, nil
}

func (d *DB) minPrices(ctx context.Context, events []models.Event) (map[int64]decimal.NullDecimal, error) {
	ids := make([]int64, len(events))
	for i, e := range events {
		ids[i] = e.EventID
	}

	var rows []struct {
		EventID  int64               `bun:"event_id"`
		MinPrice decimal.NullDecimal `bun:"min_price"`
	}
	err := d.Bun.NewSelect().
		Model((*models.Ticket)(nil)).
		Column("event_id").
		ColumnExpr("MIN(price) AS min_price").
		Where("event_id IN (?)", bun.In(ids)).
		Group("event_id").
		Scan(ctx, &rows)
	if err != nil {
		return nil, errors.Wrap(err, "select min ticket prices")
	}

	out := make(map[int64]decimal.NullDecimal, len(rows))
	for _, r := range rows {
		out[r.EventID] = r.MinPrice
	}
	return out, nil
}

func (d *DB) ListEventTickets(ctx context.Context, eventID int64) ([]models.Ticket, error) {
	tickets := make([]models.Ticket, 0)
	err := d.Bun.NewSelect().
		Model(&tickets).
		Where("ticket.event_id = ?", eventID).
		Order("ticket.price ASC", "ticket.ticket_id ASC").
		Scan(ctx)
	if err != nil {
		return nil, errors.Wrapf(err, "select tickets for event %d", eventID)
	}
	return tickets, nil
}

func (d *DB) ListTickets(ctx context.Context) ([]models.Ticket, error) {
	tickets := make([]models.Ticket, 0)
	err := d.Bun.NewSelect().
		Model(&tickets).
		Order("ticket.ticket_id ASC").
		Scan(ctx)
	if err != nil {
		return nil, errors.Wrap(err, "select tickets")
	}
	return tickets, nil
}

func (d *DB) ListCategories(ctx context.Context) ([]models.Category, error) {
	categories := make([]models.Category, 0)
	err := d.Bun.NewSelect().
		Model(&categories).
		Order("category_name ASC").
		Scan(ctx)
	if err != nil {
		return nil, errors.Wrap(err, "select categories")
	}
	return categories, nil
}

func (d *DB) ListVenues(ctx context.Context) ([]models.Venue, error) {
	venues := make([]models.Venue, 0)
	err := d.Bun.NewSelect().
		Model(&venues).
		Order("venue_name ASC").
		Scan(ctx)
	if err != nil {
		return nil, errors.Wrap(err, "select venues")
	}
	return venues, nil
}

var likeEscaper = strings.NewReplacer("!", "!!", "%", "!%", "_", "!_")

// likePattern matches q as a literal substring. Queries using it must declare
// ESCAPE '!'.
func likePattern(q string) string {
	return "%" + likeEscaper.Replace(strings.ToLower(strings.TrimSpace(q))) + "%"
}
