package response

import (
	"time"

	"shop-order-scheduler/internal/domain/order"
	"shop-order-scheduler/internal/domain/resource"
	"shop-order-scheduler/internal/usecase/queries"

	"github.com/jinzhu/copier"
)

type OrderResponse struct {
	ID           string       `json:"id"`
	Name         string       `json:"name"`
	Description  string       `json:"description"`
	Status       order.Status `json:"status"`
	ResourceID   *string      `json:"resourceId"`
	ResourceName string       `json:"resourceName"`
	StartTime    *time.Time   `json:"startTime"`
	EndTime      *time.Time   `json:"endTime"`
	CreatedAt    time.Time    `json:"createdAt"`
	UpdatedAt    time.Time    `json:"updatedAt"`
}

type OrderListResponse struct {
	Items      []OrderResponse `json:"items"`
	NextCursor string          `json:"nextCursor,omitempty"`
}

type ResourceResponse struct {
	ID     string          `json:"id"`
	Name   string          `json:"name"`
	Status resource.Status `json:"status"`
}

func FromOrderView(v *queries.OrderView) (*OrderResponse, error) {
	var res OrderResponse
	if err := copier.Copy(&res, v); err != nil {
		return nil, err
	}
	return &res, nil
}

func FromOrderViews(views []queries.OrderView, next *queries.Cursor) (*OrderListResponse, error) {
	items := make([]OrderResponse, 0, len(views))
	if len(views) > 0 {
		if err := copier.Copy(&items, &views); err != nil {
			return nil, err
		}
	}
	res := &OrderListResponse{Items: items}
	if next != nil {
		res.NextCursor = next.After
	}
	return res, nil
}

func FromResource(r *resource.Resource) (*ResourceResponse, error) {
	var res ResourceResponse
	if err := copier.Copy(&res, r); err != nil {
		return nil, err
	}
	return &res, nil
}

func FromResources(rs []resource.Resource) ([]ResourceResponse, error) {
	items := make([]ResourceResponse, 0, len(rs))
	if len(rs) > 0 {
		if err := copier.Copy(&items, &rs); err != nil {
			return nil, err
		}
	}
	return items, nil
}
