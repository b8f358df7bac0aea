package db

import (
	"context"

	"github.com/cockroachdb/errors"
	"github.com/uptrace/bun"

	"ticketing-api/internal/database"
	"ticketing-api/internal/models"
)

type DB struct {
	Bun *bun.DB
}

func (d *DB) GetCustomerByEmail(ctx context.Context, email string) (*models.Customer, error) {
	var customer models.Customer
	err := d.Bun.NewSelect().
		Model(&customer).
		Where("email = ?", email).
		Limit(1).
		Scan(ctx)
	if database.IsNoRows(err) {
		return nil, models.NewNotFoundError("Customer %s not found", email)
	}
	if err != nil {
		return nil, errors.Wrap(err, "select customer by email")
	}
	return &customer, nil
}

func (d *DB) EmailExists(ctx context.Context, email string) (bool, error) {
	exists, err := d.Bun.NewSelect().
		Model((*models.Customer)(nil)).
		Where("email = ?", email).
		Exists(ctx)
	return exists, errors.Wrap(err, "check customer email")
}

// CreateCustomer inserts customer and fills in its generated id.
func (d *DB) CreateCustomer(ctx context.Context, customer *models.Customer) error {
	_, err := d.Bun.NewInsert().Model(customer).Exec(ctx)
	if database.IsUniqueViolation(err) {
		return models.NewEmailTakenError()
	}
	return errors.Wrap(err, "insert customer")
}

func (d *DB) UpdateCredentials(ctx context.Context, customer *models.Customer) error {
	_, err := d.Bun.NewUpdate().
		Model(customer).
		Column("password_hash", "role").
		WherePK().
		Exec(ctx)
	return errors.Wrap(err, "update customer credentials")
}

func (d *DB) ListCustomers(ctx context.Context) ([]models.Customer, error) {
	var customers []models.Customer
	err := d.Bun.NewSelect().
		Model(&customers).
		Order("customer_id ASC").
		Scan(ctx)
	if err != nil {
		return nil, errors.Wrap(err, "select customers")
	}
	return customers, nil
}
