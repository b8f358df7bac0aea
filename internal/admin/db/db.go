package db

import (
	"context"

	"github.com/cockroachdb/errors"
	"github.com/uptrace/bun"

	"ticketing-api/internal/database"
	"ticketing-api/internal/models"
	purchasedb "ticketing-api/internal/purchase/db"
)

type DB struct {
	Bun *bun.DB
}

func (d *DB) exists(ctx context.Context, model interface{}, where string, args ...interface{}) (bool, error) {
	ok, err := d.Bun.NewSelect().Model(model).Where(where, args...).Exists(ctx)
	return ok, errors.Wrapf(err, "check %T", model)
}

func (d *DB) CategoryExists(ctx context.Context, id int64) (bool, error) {
	return d.exists(ctx, (*models.Category)(nil), "category_id = ?", id)
}

func (d *DB) VenueExists(ctx context.Context, id int64) (bool, error) {
	return d.exists(ctx, (*models.Venue)(nil), "venue_id = ?", id)
}

func (d *DB) EventExists(ctx context.Context, id int64) (bool, error) {
	return d.exists(ctx, (*models.Event)(nil), "event_id = ?", id)
}

func (d *DB) GetCustomer(ctx context.Context, id int64) (*models.Customer, error) {
	var c models.Customer
	err := d.Bun.NewSelect().Model(&c).Where("customer_id = ?", id).Scan(ctx)
	if database.IsNoRows(err) {
		return nil, models.NewNotFoundError("Customer %d not found", id)
	}
	if err != nil {
		return nil, errors.Wrapf(err, "select customer %d", id)
	}
	return &c, nil
}

// Events

func (d *DB) CreateEvent(ctx context.Context, event *models.Event) error {
	_, err := d.Bun.NewInsert().Model(event).Exec(ctx)
	return errors.Wrap(err, "insert event")
}

// ListEvents returns the events organized by organizerEmail.
func (d *DB) ListEvents(ctx context.Context, organizerEmail string) ([]models.Event, error) {
	events := make([]models.Event, 0)
	err := d.Bun.NewSelect().
		Model(&events).
		Where("event.organizer_email = ?", organizerEmail).
		Order("event.event_id ASC").
		Scan(ctx)
	if err != nil {
		return nil, errors.Wrap(err, "select events")
	}
	return events, nil
}

func (d *DB) GetEvent(ctx context.Context, id int64) (*models.Event, error) {
	var event models.Event
	err := d.Bun.NewSelect().Model(&event).Where("event.event_id = ?", id).Scan(ctx)
	if database.IsNoRows(err) {
		return nil, models.NewNotFoundError("Event not found")
	}
	if err != nil {
		return nil, errors.Wrapf(err, "select event %d", id)
	}
	return &event, nil
}

// UpdateEvent writes only the named columns so counters maintained by the
// purchase transaction are never overwritten from a stale read.
func (d *DB) UpdateEvent(ctx context.Context, event *models.Event, columns ...string) error {
	_, err := d.Bun.NewUpdate().Model(event).Column(columns...).WherePK().Exec(ctx)
	return errors.Wrapf(err, "update event %d", event.EventID)
}

// DeleteEvent removes the event and, through the foreign key, its tiers. An
// event with any sold tier is kept.
func (d *DB) DeleteEvent(ctx context.Context, id int64) error {
	return d.Bun.RunInTx(ctx, nil, func(ctx context.Context, tx bun.Tx) error {
		sold, err := tx.NewSelect().
			Model((*models.PurchaseTicket)(nil)).
			Join("JOIN tickets AS ticket ON ticket.ticket_id = purchase_ticket.ticket_id").
			Where("ticket.event_id = ?", id).
			Exists(ctx)
		if err != nil {
			return errors.Wrap(err, "check event sales")
		}
		if sold {
			return models.NewConflictError("Event %d has sold tickets and cannot be deleted", id)
		}

		res, err := tx.NewDelete().Model((*models.Event)(nil)).Where("event_id = ?", id).Exec(ctx)
		if err != nil {
			return errors.Wrapf(err, "delete event %d", id)
		}
		return requireAffected(res, "Event not found")
	})
}

// Tickets

func (d *DB) CreateTicket(ctx context.Context, ticket *models.Ticket) error {
	_, err := d.Bun.NewInsert().Model(ticket).Exec(ctx)
	return errors.Wrap(err, "insert ticket")
}

func (d *DB) GetTicket(ctx context.Context, id int64) (*models.Ticket, error) {
	var ticket models.Ticket
	err := d.Bun.NewSelect().Model(&ticket).Where("ticket.ticket_id = ?", id).Scan(ctx)
	if database.IsNoRows(err) {
		return nil, models.NewNotFoundError("Ticket ID %d not found", id)
	}
	if err != nil {
		return nil, errors.Wrapf(err, "select ticket %d", id)
	}
	return &ticket, nil
}

// UpdateTicket writes only the named columns. Leaving quantity_available out
// keeps concurrent purchase decrements intact.
func (d *DB) UpdateTicket(ctx context.Context, ticket *models.Ticket, columns ...string) error {
	_, err := d.Bun.NewUpdate().Model(ticket).Column(columns...).WherePK().Exec(ctx)
	return errors.Wrapf(err, "update ticket %d", ticket.TicketID)
}

// DeleteTicket refuses to remove a tier that appears in purchase history.
func (d *DB) DeleteTicket(ctx context.Context, id int64) error {
	return d.Bun.RunInTx(ctx, nil, func(ctx context.Context, tx bun.Tx) error {
		used, err := tx.NewSelect().Model((*models.PurchaseTicket)(nil)).Where("ticket_id = ?", id).Exists(ctx)
		if err != nil {
			return errors.Wrap(err, "check ticket purchases")
		}
		if used {
			return models.NewConflictError("Ticket ID %d is part of existing purchases and cannot be deleted", id)
		}

		res, err := tx.NewDelete().Model((*models.Ticket)(nil)).Where("ticket_id = ?", id).Exec(ctx)
		if err != nil {
			return errors.Wrapf(err, "delete ticket %d", id)
		}
		return requireAffected(res, "Ticket not found")
	})
}

// Venues

func (d *DB) CreateVenue(ctx context.Context, venue *models.Venue) error {
	_, err := d.Bun.NewInsert().Model(venue).Exec(ctx)
	return errors.Wrap(err, "insert venue")
}

func (d *DB) GetVenue(ctx context.Context, id int64) (*models.Venue, error) {
	var venue models.Venue
	err := d.Bun.NewSelect().Model(&venue).Where("venue_id = ?", id).Scan(ctx)
	if database.IsNoRows(err) {
		return nil, models.NewNotFoundError("Venue not found")
	}
	if err != nil {
		return nil, errors.Wrapf(err, "select venue %d", id)
	}
	return &venue, nil
}

func (d *DB) UpdateVenue(ctx context.Context, venue *models.Venue, columns ...string) error {
	_, err := d.Bun.NewUpdate().Model(venue).Column(columns...).WherePK().Exec(ctx)
	return errors.Wrapf(err, "update venue %d", venue.VenueID)
}

func (d *DB) DeleteVenue(ctx context.Context, id int64) error {
	return d.Bun.RunInTx(ctx, nil, func(ctx context.Context, tx bun.Tx) error {
		used, err := tx.NewSelect().Model((*models.Event)(nil)).Where("venue_id = ?", id).Exists(ctx)
		if err != nil {
			return errors.Wrap(err, "check venue events")
		}
		if used {
			return models.NewConflictError("Venue %d is used by events and cannot be deleted", id)
		}

		res, err := tx.NewDelete().Model((*models.Venue)(nil)).Where("venue_id = ?", id).Exec(ctx)
		if err != nil {
			return errors.Wrapf(err, "delete venue %d", id)
		}
		return requireAffected(res, "Venue not found")
	})
}

// Categories

func (d *DB) CreateCategory(ctx context.Context, category *models.Category) error {
	_, err := d.Bun.NewInsert().Model(category).Exec(ctx)
	if database.IsUniqueViolation(err) {
		return models.NewConflictError("Category %q already exists", category.CategoryName)
	}
	return errors.Wrap(err, "insert category")
}

func (d *DB) GetCategory(ctx context.Context, id int64) (*models.Category, error) {
	var category models.Category
	err := d.Bun.NewSelect().Model(&category).Where("category_id = ?", id).Scan(ctx)
	if database.IsNoRows(err) {
		return nil, models.NewNotFoundError("Category not found")
	}
	if err != nil {
		return nil, errors.Wrapf(err, "select category %d", id)
	}
	return &category, nil
}

func (d *DB) UpdateCategory(ctx context.Context, category *models.Category, columns ...string) error {
	_, err := d.Bun.NewUpdate().Model(category).Column(columns...).WherePK().Exec(ctx)
	if database.IsUniqueViolation(err) {
		return models.NewConflictError("Category %q already exists", category.CategoryName)
	}
	return errors.Wrapf(err, "update category %d", category.CategoryID)
}

func (d *DB) DeleteCategory(ctx context.Context, id int64) error {
	return d.Bun.RunInTx(ctx, nil, func(ctx context.Context, tx bun.Tx) error {
		used, err := tx.NewSelect().Model((*models.Event)(nil)).Where("category_id = ?", id).Exists(ctx)
		if err != nil {
			return errors.Wrap(err, "check category events")
		}
		if used {
			return models.NewConflictError("Category %d is used by events and cannot be deleted", id)
		}

		res, err := tx.NewDelete().Model((*models.Category)(nil)).Where("category_id = ?", id).Exec(ctx)
		if err != nil {
			return errors.Wrapf(err, "delete category %d", id)
		}
		return requireAffected(res, "Category not found")
	})
}

// Purchases

// ListPurchases returns every purchase in id order with customer and line
// items loaded.
func (d *DB) ListPurchases(ctx context.Context) ([]models.Purchase, error) {
	purchases := make([]models.Purchase, 0)
	err := d.Bun.NewSelect().
		Model(&purchases).
		Relation("Customer").
		Order("purchase.purchase_id ASC").
		Scan(ctx)
	if err != nil {
		return nil, errors.Wrap(err, "select purchases")
	}
	if err := purchasedb.LoadItems(ctx, d.Bun, purchases); err != nil {
		return nil, err
	}
	return purchases, nil
}

func (d *DB) SetPaymentStatus(ctx context.Context, purchaseID int64, status models.PaymentStatus) error {
	res, err := d.Bun.NewUpdate().
		Model((*models.Purchase)(nil)).
		Set("payment_status = ?", status).
		Where("purchase_id = ?", purchaseID).
		Exec(ctx)
	if err != nil {
		return errors.Wrapf(err, "update purchase %d status", purchaseID)
	}
	return requireAffected(res, "Purchase not found")
}

type rowsAffecter interface {
	RowsAffected() (int64, error)
}

func requireAffected(res rowsAffecter, notFound string) error {
	n, err := res.RowsAffected()
	if err != nil {
		return errors.Wrap(err, "rows affected")
	}
	if n == 0 {
		return models.NewNotFoundError("%s", notFound)
	}
	return nil
}
