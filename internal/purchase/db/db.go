package db

import (
	"context"
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

// NewPurchase describes a checkout to persist. Lines are applied in order.
type NewPurchase struct {
	CustomerID    int64
	PaymentMethod models.PaymentMethod
	PurchasedAt   time.Time
	Lines         []models.PurchaseLineRequest
}

// CreatePurchase decrements inventory for every line and records the
// purchase with its line items in one transaction. Any failure rolls back
// everything.
func (d *DB) CreatePurchase(ctx context.Context, in NewPurchase) (*models.Purchase, error) {
	purchase := &models.Purchase{
		CustomerID:    in.CustomerID,
		PurchaseDate:  in.PurchasedAt.UTC(),
		PaymentMethod: in.PaymentMethod,
		PaymentStatus: models.PaymentCompleted,
	}

	err := d.Bun.RunInTx(ctx, nil, func(ctx context.Context, tx bun.Tx) error {
		total := decimal.Zero
		items := make([]models.PurchaseTicket, 0, len(in.Lines))
		soldPerEvent := make(map[int64]int)
		var eventOrder []int64

		for _, line := range in.Lines {
			ticket, err := reserve(ctx, tx, line)
			if err != nil {
				return err
			}

			subtotal := ticket.Price.Mul(decimal.NewFromInt(int64(line.Quantity)))
			total = total.Add(subtotal)
			items = append(items, models.PurchaseTicket{
				TicketID: ticket.TicketID,
				Quantity: line.Quantity,
				Subtotal: subtotal,
				Ticket:   ticket,
			})

			if _, seen := soldPerEvent[ticket.EventID]; !seen {
				eventOrder = append(eventOrder, ticket.EventID)
			}
			soldPerEvent[ticket.EventID] += line.Quantity
		}

		purchase.TotalAmount = total
		if _, err := tx.NewInsert().Model(purchase).Exec(ctx); err != nil {
			return errors.Wrap(err, "insert purchase")
		}

		for i := range items {
			items[i].PurchaseID = purchase.PurchaseID
		}
		if _, err := tx.NewInsert().Model(&items).Exec(ctx); err != nil {
			return errors.Wrap(err, "insert purchase line items")
		}

		for _, eventID := range eventOrder {
			_, err := tx.NewUpdate().
				Model((*models.Event)(nil)).
				Set("tickets_sold = tickets_sold + ?", soldPerEvent[eventID]).
				Where("event_id = ?", eventID).
				Exec(ctx)
			if err != nil {
				return errors.Wrapf(err, "update tickets sold for event %d", eventID)
			}
		}

		purchase.Items = items
		return nil
	})
	if err != nil {
		return nil, err
	}
	return purchase, nil
}

// reserve loads the ticket and takes line.Quantity from its inventory. The
// update only applies while enough inventory remains, so a concurrent buyer
// that got there first makes it affect no rows.
func reserve(ctx context.Context, tx bun.Tx, line models.PurchaseLineRequest) (*models.Ticket, error) {
	var ticket models.Ticket
	err := tx.NewSelect().
		Model(&ticket).
		Where("ticket.ticket_id = ?", line.TicketID).
		Scan(ctx)
	if database.IsNoRows(err) {
		return nil, models.NewNotFoundError("Ticket ID %d not found", line.TicketID)
	}
	if err != nil {
		return nil, errors.Wrapf(err, "select ticket %d", line.TicketID)
	}
	if ticket.QuantityAvailable < line.Quantity {
		return nil, models.NewInsufficientInventoryError(line.TicketID)
	}

	res, err := tx.NewUpdate().
		Model((*models.Ticket)(nil)).
		Set("quantity_available = quantity_available - ?", line.Quantity).
		Where("ticket_id = ?", line.TicketID).
		Where("quantity_available >= ?", line.Quantity).
		Exec(ctx)
	if err != nil {
		return nil, errors.Wrapf(err, "decrement ticket %d", line.TicketID)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return nil, errors.Wrap(err, "rows affected")
	}
	if n == 0 {
		return nil, models.NewInsufficientInventoryError(line.TicketID)
	}

	ticket.QuantityAvailable -= line.Quantity
	return &ticket, nil
}

// ListPurchasesByCustomer returns the customer's purchases, newest first,
// with line items, tickets and events loaded.
func (d *DB) ListPurchasesByCustomer(ctx context.Context, customerID int64) ([]models.Purchase, error) {
	purchases := make([]models.Purchase, 0)
	err := d.Bun.NewSelect().
		Model(&purchases).
		Where("purchase.customer_id = ?", customerID).
		Order("purchase.purchase_date DESC", "purchase.purchase_id DESC").
		Scan(ctx)
	if err != nil {
		return nil, errors.Wrapf(err, "select purchases for customer %d", customerID)
	}
	if err := LoadItems(ctx, d.Bun, purchases); err != nil {
		return nil, err
	}
	return purchases, nil
}

// GetCustomerPurchase returns one purchase if it belongs to the customer.
func (d *DB) GetCustomerPurchase(ctx context.Context, customerID, purchaseID int64) (*models.Purchase, error) {
	var purchase models.Purchase
	err := d.Bun.NewSelect().
		Model(&purchase).
		Where("purchase.purchase_id = ?", purchaseID).
		Where("purchase.customer_id = ?", customerID).
		Scan(ctx)
	if database.IsNoRows(err) {
		return nil, models.NewNotFoundError("Purchase %d not found", purchaseID)
	}
	if err != nil {
		return nil, errors.Wrapf(err, "select purchase %d", purchaseID)
	}

	purchases := []models.Purchase{purchase}
	if err := LoadItems(ctx, d.Bun, purchases); err != nil {
		return nil, err
	}
	return &purchases[0], nil
}

// LoadItems fills Items on each purchase with one extra query.
func LoadItems(ctx context.Context, db bun.IDB, purchases []models.Purchase) error {
	if len(purchases) == 0 {
		return nil
	}
	ids := make([]int64, len(purchases))
	for i, p := range purchases {
		ids[i] = p.PurchaseID
	}

	var items []models.PurchaseTicket
	err := db.NewSelect().
		Model(&items).
		Relation("Ticket").
		Relation("Ticket.Event").
		Where("purchase_ticket.purchase_id IN (?)", bun.In(ids)).
		Order("purchase_ticket.purchase_ticket_id ASC").
		Scan(ctx)
	if err != nil {
		return errors.Wrap(err, "select purchase line items")
	}

	byPurchase := make(map[int64][]models.PurchaseTicket, len(purchases))
	for _, item := range items {
		byPurchase[item.PurchaseID] = append(byPurchase[item.PurchaseID], item)
	}
	for i := range purchases {
		purchases[i].Items = byPurchase[purchases[i].PurchaseID]
	}
	return nil
}
