//go:build unit || e2e

package builder

import (
	"time"

	"shop-order-scheduler/internal/domain/order"
	reqdto "shop-order-scheduler/internal/handler/dto/request"
	"shop-order-scheduler/internal/pkg/ptr"
	"shop-order-scheduler/internal/usecase/queries"
)

// OrderBuilder produces a valid Scheduled order on resource "1" by default.
type OrderBuilder struct {
	ID           string
	Name         string
	Description  string
	Status       order.Status
	ResourceID   string
	ResourceName string
	StartTime    time.Time
	EndTime      time.Time
	CreatedAt    time.Time
}

func NewOrderBuilder() *OrderBuilder {
	start := time.Date(2025, 3, 1, 8, 0, 0, 0, time.UTC)
	return &OrderBuilder{
		ID:           "ord-1",
		Name:         "Widget batch",
		Description:  "Machine 500 widgets",
		Status:       order.StatusScheduled,
		ResourceID:   "1",
		ResourceName: "CNC Machine 1",
		StartTime:    start,
		EndTime:      start.Add(4 * time.Hour),
		CreatedAt:    start.Add(-24 * time.Hour),
	}
}

func (b *OrderBuilder) With(mutate func(*OrderBuilder)) *OrderBuilder {
	mutate(b)
	return b
}

// Pending drops the resource and times.
func (b *OrderBuilder) Pending() *OrderBuilder {
	b.Status = order.StatusPending
	b.ResourceID = ""
	b.ResourceName = queries.ResourceNameNotAssigned
	b.StartTime = time.Time{}
	b.EndTime = time.Time{}
	return b
}

func (b *OrderBuilder) BuildDraft() order.Draft {
	d := order.Draft{
		Name:        b.Name,
		Description: b.Description,
		Status:      string(b.Status),
		ResourceID:  b.ResourceID,
	}
	if !b.StartTime.IsZero() {
		d.StartTime = b.StartTime.Format(time.RFC3339)
	}
	if !b.EndTime.IsZero() {
		d.EndTime = b.EndTime.Format(time.RFC3339)
	}
	return d
}

func (b *OrderBuilder) BuildCreateRequestDTO() reqdto.CreateOrderRequest {
	d := b.BuildDraft()
	return reqdto.CreateOrderRequest{
		Name:        d.Name,
		Description: d.Description,
		Status:      d.Status,
		ResourceID:  d.ResourceID,
		StartTime:   d.StartTime,
		EndTime:     d.EndTime,
	}
}

func (b *OrderBuilder) BuildDomain() order.Order {
	o := order.Order{
		ID:          b.ID,
		Name:        b.Name,
		Description: b.Description,
		Status:      b.Status,
		CreatedAt:   b.CreatedAt,
		UpdatedAt:   b.CreatedAt,
	}
	if b.ResourceID != "" {
		o.ResourceID = ptr.Of(b.ResourceID)
	}
	if !b.StartTime.IsZero() {
		o.StartTime = ptr.Of(b.StartTime)
	}
	if !b.EndTime.IsZero() {
		o.EndTime = ptr.Of(b.EndTime)
	}
	return o
}

func (b *OrderBuilder) BuildView() *queries.OrderView {
	o := b.BuildDomain()
	return &queries.OrderView{
		ID:           o.ID,
		Name:         o.Name,
		Description:  o.Description,
		Status:       o.Status,
		ResourceID:   o.ResourceID,
		ResourceName: b.ResourceName,
		StartTime:    o.StartTime,
		EndTime:      o.EndTime,
		CreatedAt:    o.CreatedAt,
		UpdatedAt:    o.UpdatedAt,
	}
}
