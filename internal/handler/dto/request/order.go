package request

import (
	"shop-order-scheduler/internal/domain/order"
	"shop-order-scheduler/internal/domain/resource"
	"shop-order-scheduler/internal/usecase/queries"
)

// CreateOrderRequest is the order form. Field rules live in the domain so a
// single pass can report every failure; binding only checks JSON shape.
type CreateOrderRequest struct {
	Name        string `json:"name"`
	Description string `json:"description"`
	Status      string `json:"status"`
	ResourceID  string `json:"resourceId"`
	StartTime   string `json:"startTime"`
	EndTime     string `json:"endTime"`
}

func (r *CreateOrderRequest) ToDraft() order.Draft {
	return order.Draft{
		Name:        r.Name,
		Description: r.Description,
		Status:      r.Status,
		ResourceID:  r.ResourceID,
		StartTime:   r.StartTime,
		EndTime:     r.EndTime,
	}
}

// UpdateOrderRequest carries only the fields to change. An empty string for
// resourceId, startTime or endTime clears the value.
type UpdateOrderRequest struct {
	Name        *string `json:"name"`
	Description *string `json:"description"`
	Status      *string `json:"status"`
	ResourceID  *string `json:"resourceId"`
	StartTime   *string `json:"startTime"`
	EndTime     *string `json:"endTime"`
}

func (r *UpdateOrderRequest) ToPatch() order.Patch {
	return order.Patch{
		Name:        r.Name,
		Description: r.Description,
		Status:      r.Status,
		ResourceID:  r.ResourceID,
		StartTime:   r.StartTime,
		EndTime:     r.EndTime,
	}
}

type ListOrdersQuery struct {
	Status string `form:"status"`
	Limit  int    `form:"limit" binding:"omitempty,min=0,max=200"`
	Cursor string `form:"cursor"`
}

func (q *ListOrdersQuery) ToFilter() queries.OrderFilter {
	f := queries.OrderFilter{Limit: q.Limit}
	if q.Status != "" {
		s := order.Status(q.Status)
		f.Status = &s
	}
	if q.Cursor != "" {
		f.Cursor = &queries.Cursor{After: q.Cursor}
	}
	return f
}

type ListResourcesQuery struct {
	Status string `form:"status"`
}

func (q *ListResourcesQuery) ToFilter() queries.ResourceFilter {
	var f queries.ResourceFilter
	if q.Status != "" {
		s := resource.Status(q.Status)
		f.Status = &s
	}
	return f
}
