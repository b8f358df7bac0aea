package database

import (
	"context"

	"github.com/cockroachdb/errors"
	"github.com/uptrace/bun"
	"github.com/uptrace/bun/dialect"

	"ticketing-api/internal/models"
)

type table struct {
	model       interface{}
	foreignKeys []string
}

// tables lists every table in dependency order together with its foreign keys.
var tables = []table{
	{model: (*models.Customer)(nil)},
	{model: (*models.Category)(nil)},
	{model: (*models.Venue)(nil)},
	{
		model: (*models.Event)(nil),
		foreignKeys: []string{
			`("category_id") REFERENCES "categories" ("category_id") ON DELETE RESTRICT`,
			`("venue_id") REFERENCES "venues" ("venue_id") ON DELETE RESTRICT`,
		},
	},
	{
		model: (*models.Ticket)(nil),
		foreignKeys: []string{
			`("event_id") REFERENCES "events" ("event_id") ON DELETE CASCADE`,
		},
	},
	{
		model: (*models.Purchase)(nil),
		foreignKeys: []string{
			`("customer_id") REFERENCES "customers" ("customer_id") ON DELETE RESTRICT`,
		},
	},
	{
		model: (*models.PurchaseTicket)(nil),
		foreignKeys: []string{
			`("purchase_id") REFERENCES "purchases" ("purchase_id") ON DELETE CASCADE`,
			`("ticket_id") REFERENCES "tickets" ("ticket_id") ON DELETE RESTRICT`,
		},
	},
}

// CreateSchema creates all tables if they do not exist yet.
func CreateSchema(ctx context.Context, db bun.IDB) error {
	for _, t := range tables {
		q := db.NewCreateTable().Model(t.model).IfNotExists()
		for _, fk := range t.foreignKeys {
			q = q.ForeignKey(fk)
		}
		if _, err := q.Exec(ctx); err != nil {
			return errors.Wrapf(err, "create table for %T", t.model)
		}
	}

	if db.Dialect().Name() == dialect.PG {
		_, err := db.ExecContext(ctx, `ALTER TABLE tickets DROP CONSTRAINT IF EXISTS tickets_quantity_available_check`)
		if err == nil {
			_, err = db.ExecContext(ctx, `ALTER TABLE tickets ADD CONSTRAINT tickets_quantity_available_check CHECK (quantity_available >= 0)`)
		}
		if err != nil {
			return errors.Wrap(err, "add tickets quantity check")
		}
	}

	_, err := db.NewCreateIndex().
		Model((*models.Event)(nil)).
		Index("idx_events_event_date").
		Column("event_date").
		IfNotExists().
		Exec(ctx)
	return errors.Wrap(err, "create events date index")
}

// DropSchema drops all tables in reverse dependency order.
func DropSchema(ctx context.Context, db bun.IDB) error {
	for i := len(tables) - 1; i >= 0; i-- {
		if _, err := db.NewDropTable().Model(tables[i].model).IfExists().Exec(ctx); err != nil {
			return errors.Wrapf(err, "drop table for %T", tables[i].model)
		}
	}
	return nil
}
