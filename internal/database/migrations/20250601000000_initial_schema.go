package migrations

import (
	"context"

	"github.com/uptrace/bun"

	"ticketing-api/internal/database"
)

func init() {
	Migrations.MustRegister(func(ctx context.Context, db *bun.DB) error {
		return db.RunInTx(ctx, nil, func(ctx context.Context, tx bun.Tx) error {
			return database.CreateSchema(ctx, tx)
		})
	}, func(ctx context.Context, db *bun.DB) error {
		return db.RunInTx(ctx, nil, func(ctx context.Context, tx bun.Tx) error {
			return database.DropSchema(ctx, tx)
		})
	})
}
