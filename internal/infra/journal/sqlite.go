package journal

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"time"

	"shop-order-scheduler/internal/domain/order"
	"shop-order-scheduler/internal/domain/resource"
	"shop-order-scheduler/internal/infra"
	"shop-order-scheduler/internal/usecase/shared"

	_ "modernc.org/sqlite"
)

type SQLite struct {
	db     *sql.DB
	logger *slog.Logger
}

// OpenSQLite opens (creating if needed) the journal file at path. Use
// ":memory:" for a throwaway database.
func OpenSQLite(path string, logger *slog.Logger) (*SQLite, error) {
	dsn := path
	if path != ":memory:" {
		if dir := filepath.Dir(path); dir != "." {
			if err := os.MkdirAll(dir, 0o755); err != nil {
				return nil, fmt.Errorf("failed to create journal directory: %w", err)
			}
		}
		dsn = path + "?_pragma=journal_mode(WAL)&_pragma=busy_timeout(5000)&_pragma=synchronous(NORMAL)&_pragma=foreign_keys(1)"
	}

	db, err := sql.Open("sqlite", dsn)
	if err != nil {
		return nil, fmt.Errorf("failed to open sqlite journal: %w", err)
	}
	// One writer; also keeps ":memory:" on a single shared connection.
	db.SetMaxOpenConns(1)

	if _, err := db.Exec(sqliteSchema); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to migrate sqlite journal: %w", err)
	}
	return &SQLite{db: db, logger: logger}, nil
}

func (s *SQLite) Load(ctx context.Context) (shared.JournalState, error) {
	var state shared.JournalState

	rows, err := s.db.QueryContext(ctx, `SELECT id, name, status FROM resources ORDER BY position`)
	if err != nil {
		return state, infra.WrapRepoErr(s.logger, infra.KindDBFailure, "failed to load resources", err)
	}
	defer rows.Close()
	for rows.Next() {
		var r resource.Resource
		if err := rows.Scan(&r.ID, &r.Name, &r.Status); err != nil {
			return state, infra.WrapRepoErr(s.logger, infra.KindDBFailure, "failed to scan resource", err)
		}
		state.Resources = append(state.Resources, r)
	}
	if err := rows.Err(); err != nil {
		return state, infra.WrapRepoErr(s.logger, infra.KindDBFailure, "failed to load resources", err)
	}

	orderRows, err := s.db.QueryContext(ctx, `
		SELECT id, name, description, status, resource_id, start_time, end_time, created_at, updated_at
		FROM production_orders ORDER BY rowid`)
	if err != nil {
		return state, infra.WrapRepoErr(s.logger, infra.KindDBFailure, "failed to load orders", err)
	}
	defer orderRows.Close()
	for orderRows.Next() {
		o, err := scanSQLiteOrder(orderRows)
		if err != nil {
			return state, infra.WrapRepoErr(s.logger, infra.KindDBFailure, "failed to scan order", err)
		}
		state.Orders = append(state.Orders, o)
	}
	if err := orderRows.Err(); err != nil {
		return state, infra.WrapRepoErr(s.logger, infra.KindDBFailure, "failed to load orders", err)
	}

	return state, nil
}

func scanSQLiteOrder(rows *sql.Rows) (order.Order, error) {
	var (
		o                order.Order
		resourceID       sql.NullString
		start, end       sql.NullString
		created, updated string
	)
	if err := rows.Scan(&o.ID, &o.Name, &o.Description, &o.Status, &resourceID, &start, &end, &created, &updated); err != nil {
		return order.Order{}, err
	}
	if resourceID.Valid {
		id := resourceID.String
		o.ResourceID = &id
	}

	var err error
	if o.StartTime, err = parseNullTime(start); err != nil {
		return order.Order{}, err
	}
	if o.EndTime, err = parseNullTime(end); err != nil {
		return order.Order{}, err
	}
	if o.CreatedAt, err = time.Parse(time.RFC3339Nano, created); err != nil {
		return order.Order{}, err
	}
	if o.UpdatedAt, err = time.Parse(time.RFC3339Nano, updated); err != nil {
		return order.Order{}, err
	}
	return o, nil
}

func parseNullTime(v sql.NullString) (*time.Time, error) {
	if !v.Valid {
		return nil, nil
	}
	t, err := time.Parse(time.RFC3339Nano, v.String)
	if err != nil {
		return nil, err
	}
	t = t.UTC()
	return &t, nil
}

func formatNullTime(t *time.Time) sql.NullString {
	if t == nil {
		return sql.NullString{}
	}
	return sql.NullString{String: t.UTC().Format(time.RFC3339Nano), Valid: true}
}

func nullString(s *string) sql.NullString {
	if s == nil {
		return sql.NullString{}
	}
	return sql.NullString{String: *s, Valid: true}
}

func (s *SQLite) SeedResources(ctx context.Context, resources []resource.Resource) error {
	return s.inTx(ctx, func(tx *sql.Tx) error {
		for i, r := range resources {
			_, err := tx.ExecContext(ctx,
				`INSERT INTO resources (id, name, status, position) VALUES (?, ?, ?, ?) ON CONFLICT(id) DO NOTHING`,
				r.ID, r.Name, string(r.Status), i)
			if err != nil {
				return err
			}
		}
		return nil
	})
}

func (s *SQLite) Commit(ctx context.Context, changes shared.ChangeSet) error {
	if changes.IsEmpty() {
		return nil
	}
	return s.inTx(ctx, func(tx *sql.Tx) error {
		for _, r := range changes.Resources {
			if _, err := tx.ExecContext(ctx, `UPDATE resources SET status = ? WHERE id = ?`, string(r.Status), r.ID); err != nil {
				return err
			}
		}
		for _, o := range changes.UpsertOrders {
			_, err := tx.ExecContext(ctx, `
				INSERT INTO production_orders
					(id, name, description, status, resource_id, start_time, end_time, created_at, updated_at)
				VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)
				ON CONFLICT(id) DO UPDATE SET
					name = excluded.name,
					description = excluded.description,
					status = excluded.status,
					resource_id = excluded.resource_id,
					start_time = excluded.start_time,
					end_time = excluded.end_time,
					updated_at = excluded.updated_at`,
				o.ID, o.Name, o.Description, string(o.Status),
				nullString(o.ResourceID),
				formatNullTime(o.StartTime),
				formatNullTime(o.EndTime),
				o.CreatedAt.UTC().Format(time.RFC3339Nano),
				o.UpdatedAt.UTC().Format(time.RFC3339Nano),
			)
			if err != nil {
				return err
			}
		}
		for _, id := range changes.DeletedOrderIDs {
			if _, err := tx.ExecContext(ctx, `DELETE FROM production_orders WHERE id = ?`, id); err != nil {
				return err
			}
		}
		return nil
	})
}

func (s *SQLite) inTx(ctx context.Context, fn func(tx *sql.Tx) error) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return infra.WrapRepoErr(s.logger, infra.KindDBFailure, "failed to begin transaction", err)
	}

	if err := fn(tx); err != nil {
		if rollbackErr := tx.Rollback(); rollbackErr != nil && !errors.Is(rollbackErr, sql.ErrTxDone) {
			s.logger.Warn("rollback failed", "error", rollbackErr.Error())
		}
		return infra.WrapRepoErr(s.logger, infra.KindDBFailure, "journal transaction failed", err)
	}

	if err := tx.Commit(); err != nil {
		return infra.WrapRepoErr(s.logger, infra.KindDBFailure, "failed to commit transaction", err)
	}
	return nil
}

func (s *SQLite) Close() error {
	return s.db.Close()
}
