//go:build e2e

package dbtest

import (
	"context"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"
)

// ResetDB empties the journal tables so the next app start reseeds resources.
func ResetDB(pool *pgxpool.Pool) error {
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	_, err := pool.Exec(ctx, `TRUNCATE TABLE production_orders, resources RESTART IDENTITY CASCADE`)
	return err
}

// CountRows returns the number of rows in table.
func CountRows(pool *pgxpool.Pool, table string) (int, error) {
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	var n int
	err := pool.QueryRow(ctx, "SELECT COUNT(*) FROM "+table).Scan(&n)
	return n, err
}
