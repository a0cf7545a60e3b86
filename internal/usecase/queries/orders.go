package queries

//go:generate mockgen -destination=../../../tests/mock/queries/queries.go -package=queriesmock shop-order-scheduler/internal/usecase/queries OrderQueries,ResourceQueries,DashboardQueries

import (
	"context"
	"slices"

	"shop-order-scheduler/internal/domain/order"
	"shop-order-scheduler/internal/domain/resource"
	"shop-order-scheduler/internal/pkg/errs"
)

type OrderQueries interface {
	List(ctx context.Context, filter OrderFilter) ([]OrderView, *Cursor, error)
	GetByID(ctx context.Context, id string) (*OrderView, error)
}

type orderQueriesImpl struct {
	orders    OrderReader
	resources ResourceReader
}

func NewOrderQueries(orders OrderReader, resources ResourceReader) OrderQueries {
	return &orderQueriesImpl{orders: orders, resources: resources}
}

// List returns orders in store order. With a limit the result is paged and the
// returned cursor resumes after the last row.
func (q *orderQueriesImpl) List(_ context.Context, filter OrderFilter) ([]OrderView, *Cursor, error) {
	if filter.Status != nil && !filter.Status.IsValid() {
		return nil, nil, errs.Wrapf(ErrInvalidFilter, "status %q", *filter.Status)
	}

	orders := q.orders.List()
	if filter.Cursor != nil && filter.Cursor.After != "" {
		start, err := resumeIndex(orders, filter.Cursor.After)
		if err != nil {
			return nil, nil, err
		}
		orders = orders[start:]
	}

	names := q.resourceNames()
	limit := ValidateLimit(filter.Limit)
	out := make([]OrderView, 0, len(orders))
	var next *Cursor
	for _, o := range orders {
		if filter.Status != nil && o.Status != *filter.Status {
			continue
		}
		if limit > 0 && len(out) == limit {
			last := out[len(out)-1]
			next = &Cursor{After: EncodeAfterCursor(last.CreatedAt, last.ID)}
			break
		}
		out = append(out, toView(o, names))
	}
	return out, next, nil
}

func (q *orderQueriesImpl) GetByID(_ context.Context, id string) (*OrderView, error) {
	o, ok := q.orders.GetByID(id)
	if !ok {
		return nil, errs.ErrOrderNotFound
	}
	v := toView(o, q.resourceNames())
	return &v, nil
}

func (q *orderQueriesImpl) resourceNames() map[string]string {
	resources := q.resources.List()
	names := make(map[string]string, len(resources))
	for _, r := range resources {
		names[r.ID] = r.Name
	}
	return names
}

// resumeIndex finds where the page after the cursor starts. A cursor whose
// order has since been deleted is rejected.
func resumeIndex(orders []order.Order, after string) (int, error) {
	_, id, err := DecodeAfterCursor(after)
	if err != nil {
		return 0, errs.Mark(err, ErrInvalidCursor)
	}
	i := slices.IndexFunc(orders, func(o order.Order) bool { return o.ID == id })
	if i < 0 {
		return 0, errs.Wrapf(ErrInvalidCursor, "order %s no longer exists", id)
	}
	return i + 1, nil
}

func toView(o order.Order, names map[string]string) OrderView {
	return OrderView{
		ID:           o.ID,
		Name:         o.Name,
		Description:  o.Description,
		Status:       o.Status,
		ResourceID:   o.ResourceID,
		ResourceName: resolveResourceName(o.ResourceID, names),
		StartTime:    o.StartTime,
		EndTime:      o.EndTime,
		CreatedAt:    o.CreatedAt,
		UpdatedAt:    o.UpdatedAt,
	}
}

func resolveResourceName(id *string, names map[string]string) string {
	if id == nil || *id == "" {
		return ResourceNameNotAssigned
	}
	if name, ok := names[*id]; ok {
		return name
	}
	return ResourceNameUnknown
}

type ResourceQueries interface {
	List(ctx context.Context, filter ResourceFilter) ([]resource.Resource, error)
	GetByID(ctx context.Context, id string) (*resource.Resource, error)
}

type resourceQueriesImpl struct {
	resources ResourceReader
}

func NewResourceQueries(resources ResourceReader) ResourceQueries {
	return &resourceQueriesImpl{resources: resources}
}

func (q *resourceQueriesImpl) List(_ context.Context, filter ResourceFilter) ([]resource.Resource, error) {
	if filter.Status != nil && !filter.Status.IsValid() {
		return nil, errs.Wrapf(ErrInvalidFilter, "status %q", *filter.Status)
	}
	all := q.resources.List()
	if filter.Status == nil {
		return all, nil
	}
	out := make([]resource.Resource, 0, len(all))
	for _, r := range all {
		if r.Status == *filter.Status {
			out = append(out, r)
		}
	}
	return out, nil
}

func (q *resourceQueriesImpl) GetByID(_ context.Context, id string) (*resource.Resource, error) {
	r, ok := q.resources.GetByID(id)
	if !ok {
		return nil, errs.ErrResourceNotFound
	}
	return &r, nil
}
