package analytics

import (
	"context"
	"time"

	"github.com/cockroachdb/errors"
	"github.com/shopspring/decimal"
	"github.com/uptrace/bun"

	"ticketing-api/internal/models"
)

// SaleLine is one purchased line joined with its tier and purchase.
type SaleLine struct {
	EventID      int64           `bun:"event_id"`
	TicketID     int64           `bun:"ticket_id"`
	TicketType   string          `bun:"ticket_type"`
	PurchaseID   int64           `bun:"purchase_id"`
	PurchaseDate time.Time       `bun:"purchase_date"`
	Quantity     int             `bun:"quantity"`
	Subtotal     decimal.Decimal `bun:"subtotal"`
}

// DB handles analytics database operations
type DB struct {
	Bun *bun.DB
}

// EventExists reports whether the event is present.
func (db *DB) EventExists(ctx context.Context, eventID int64) (bool, error) {
	ok, err := db.Bun.NewSelect().Model((*models.Event)(nil)).Where("event_id = ?", eventID).Exists(ctx)
	return ok, errors.Wrapf(err, "check event %d", eventID)
}

// GetSaleLines returns every purchased line for the given events, oldest
// first. An empty status matches all payment statuses.
func (db *DB) GetSaleLines(ctx context.Context, eventIDs []int64, status models.PaymentStatus) ([]SaleLine, error) {
	lines := make([]SaleLine, 0)
	if len(eventIDs) == 0 {
		return lines, nil
	}

	q := db.Bun.NewSelect().
		Model((*models.PurchaseTicket)(nil)).
		ColumnExpr("ticket.event_id, ticket.ticket_id, ticket.ticket_type").
		ColumnExpr("purchase.purchase_id, purchase.purchase_date").
		ColumnExpr("purchase_ticket.quantity, purchase_ticket.subtotal").
		Join("JOIN tickets AS ticket ON ticket.ticket_id = purchase_ticket.ticket_id").
		Join("JOIN purchases AS purchase ON purchase.purchase_id = purchase_ticket.purchase_id").
		Where("ticket.event_id IN (?)", bun.In(eventIDs))
	if status != "" {
		q = q.Where("purchase.payment_status = ?", status)
	}

	err := q.Order("purchase.purchase_date ASC", "purchase_ticket.purchase_ticket_id ASC").Scan(ctx, &lines)
	if err != nil {
		return nil, errors.Wrap(err, "select sale lines")
	}
	return lines, nil
}
