package queries

import (
	"time"

	"shop-order-scheduler/internal/domain/order"
	"shop-order-scheduler/internal/domain/resource"
	"shop-order-scheduler/internal/pkg/errs"
)

const (
	ResourceNameNotAssigned = "Not Assigned"
	ResourceNameUnknown     = "Unknown Resource"
)

var (
	ErrInvalidCursor = errs.New("invalid cursor")
	ErrInvalidFilter = errs.New("invalid filter")
)

// OrderView is an order with its resource reference resolved for display.
type OrderView struct {
	ID           string       `json:"id"`
	Name         string       `json:"name"`
	Description  string       `json:"description"`
	Status       order.Status `json:"status"`
	ResourceID   *string      `json:"resourceId,omitempty"`
	ResourceName string       `json:"resourceName"`
	StartTime    *time.Time   `json:"startTime,omitempty"`
	EndTime      *time.Time   `json:"endTime,omitempty"`
	CreatedAt    time.Time    `json:"createdAt"`
	UpdatedAt    time.Time    `json:"updatedAt"`
}

type OrderFilter struct {
	Status *order.Status
	// Limit of zero returns every matching order.
	Limit  int
	Cursor *Cursor
}

type ResourceFilter struct {
	Status *resource.Status
}

// OrderReader and ResourceReader are the read side of the in-memory stores.
type OrderReader interface {
	List() []order.Order
	GetByID(id string) (order.Order, bool)
}

type ResourceReader interface {
	List() []resource.Resource
	GetByID(id string) (resource.Resource, bool)
}
