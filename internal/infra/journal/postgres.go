package journal

import (
	"context"
	"errors"
	"log/slog"

	"shop-order-scheduler/internal/domain/order"
	"shop-order-scheduler/internal/domain/resource"
	"shop-order-scheduler/internal/infra"
	"shop-order-scheduler/internal/pkg/errs"
	"shop-order-scheduler/internal/pkg/pgconv"
	"shop-order-scheduler/internal/usecase/shared"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgtype"
	"github.com/jackc/pgx/v5/pgxpool"
)

type Postgres struct {
	pool       *pgxpool.Pool
	logger     *slog.Logger
	maxRetries int
}

func NewPostgres(ctx context.Context, pool *pgxpool.Pool, logger *slog.Logger, maxRetries int) (*Postgres, error) {
	if _, err := pool.Exec(ctx, postgresSchema); err != nil {
		return nil, infra.WrapRepoErr(logger, infra.KindDBFailure, "failed to migrate journal schema", err)
	}
	return &Postgres{pool: pool, logger: logger, maxRetries: maxRetries}, nil
}

func (p *Postgres) Load(ctx context.Context) (shared.JournalState, error) {
	var state shared.JournalState

	rows, err := p.pool.Query(ctx, `SELECT id, name, status FROM resources ORDER BY position`)
	if err != nil {
		return state, infra.WrapRepoErr(p.logger, infra.KindDBFailure, "failed to load resources", err)
	}
	state.Resources, err = pgx.CollectRows(rows, func(row pgx.CollectableRow) (resource.Resource, error) {
		var r resource.Resource
		err := row.Scan(&r.ID, &r.Name, &r.Status)
		return r, err
	})
	if err != nil {
		return state, infra.WrapRepoErr(p.logger, infra.KindDBFailure, "failed to scan resources", err)
	}

	rows, err = p.pool.Query(ctx, `
		SELECT id, name, description, status, resource_id, start_time, end_time, created_at, updated_at
		FROM production_orders ORDER BY seq`)
	if err != nil {
		return state, infra.WrapRepoErr(p.logger, infra.KindDBFailure, "failed to load orders", err)
	}
	state.Orders, err = pgx.CollectRows(rows, scanPgOrder)
	if err != nil {
		return state, infra.WrapRepoErr(p.logger, infra.KindDBFailure, "failed to scan orders", err)
	}

	return state, nil
}

func scanPgOrder(row pgx.CollectableRow) (order.Order, error) {
	var (
		o          order.Order
		resourceID pgtype.Text
		start, end pgtype.Timestamptz
		created    pgtype.Timestamptz
		updated    pgtype.Timestamptz
	)
	if err := row.Scan(&o.ID, &o.Name, &o.Description, &o.Status, &resourceID, &start, &end, &created, &updated); err != nil {
		return order.Order{}, err
	}
	o.ResourceID = pgconv.StringPtrFromPgtype(resourceID)
	o.StartTime = utcPtr(pgconv.TimePtrFromPgtype(start))
	o.EndTime = utcPtr(pgconv.TimePtrFromPgtype(end))
	o.CreatedAt = pgconv.TimeFromPgtype(created).UTC()
	o.UpdatedAt = pgconv.TimeFromPgtype(updated).UTC()
	return o, nil
}

func (p *Postgres) SeedResources(ctx context.Context, resources []resource.Resource) error {
	return p.inTx(ctx, func(tx pgx.Tx) error {
		for i, r := range resources {
			_, err := tx.Exec(ctx, `
				INSERT INTO resources (id, name, status, position) VALUES ($1, $2, $3, $4)
				ON CONFLICT (id) DO NOTHING`,
				r.ID, r.Name, string(r.Status), i)
			if err != nil {
				return err
			}
		}
		return nil
	})
}

func (p *Postgres) Commit(ctx context.Context, changes shared.ChangeSet) error {
	if changes.IsEmpty() {
		return nil
	}
	return p.inTx(ctx, func(tx pgx.Tx) error {
		// Resources first so a newly referenced resource row is current.
		for _, r := range changes.Resources {
			if _, err := tx.Exec(ctx, `UPDATE resources SET status = $2 WHERE id = $1`, r.ID, string(r.Status)); err != nil {
				return err
			}
		}
		for _, o := range changes.UpsertOrders {
			_, err := tx.Exec(ctx, `
				INSERT INTO production_orders
					(id, name, description, status, resource_id, start_time, end_time, created_at, updated_at)
				VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)
				ON CONFLICT (id) DO UPDATE SET
					name = EXCLUDED.name,
					description = EXCLUDED.description,
					status = EXCLUDED.status,
					resource_id = EXCLUDED.resource_id,
					start_time = EXCLUDED.start_time,
					end_time = EXCLUDED.end_time,
					updated_at = EXCLUDED.updated_at`,
				o.ID, o.Name, o.Description, string(o.Status),
				pgconv.StringPtrToPgtype(o.ResourceID),
				pgconv.TimePtrToPgtype(o.StartTime),
				pgconv.TimePtrToPgtype(o.EndTime),
				pgconv.TimeToPgtype(o.CreatedAt),
				pgconv.TimeToPgtype(o.UpdatedAt),
			)
			if err != nil {
				return err
			}
		}
		if len(changes.DeletedOrderIDs) > 0 {
			if _, err := tx.Exec(ctx, `DELETE FROM production_orders WHERE id = ANY($1)`, changes.DeletedOrderIDs); err != nil {
				return err
			}
		}
		return nil
	})
}

// inTx adapts the unit-of-work loop: each attempt opens its own transaction so
// rollbacks never pile up across retries.
func (p *Postgres) inTx(ctx context.Context, fn func(tx pgx.Tx) error) error {
	err := withRetry(ctx, p.logger, p.maxRetries, func() error {
		tx, err := p.pool.BeginTx(ctx, pgx.TxOptions{IsoLevel: pgx.ReadCommitted})
		if err != nil {
			return errs.Mark(err, errTransactionBegin)
		}

		err = fn(tx)
		if err == nil {
			if err = tx.Commit(ctx); err == nil {
				return nil
			}
			err = errs.Mark(err, errTransactionCommit)
		}

		if rollbackErr := tx.Rollback(ctx); rollbackErr != nil {
			if !errors.Is(rollbackErr, pgx.ErrTxClosed) {
				p.logger.Warn("rollback failed", "error", rollbackErr.Error())
			}
		}
		return err
	})
	if err != nil {
		return infra.WrapRepoErr(p.logger, infra.ClassifyPgError(err), "journal transaction failed", err)
	}
	return nil
}

func (p *Postgres) Close() error {
	// The pool is owned by the db module.
	return nil
}
