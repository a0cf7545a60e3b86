package order

import (
	"errors"
	"time"

	"shop-order-scheduler/internal/pkg/ptr"
)

var (
	ErrInvalidStatus = errors.New("invalid order status")
)

// Order is a production order as held by the order store. Optional fields are
// pointers; nil means "not set".
type Order struct {
	ID          string     `json:"id"`
	Name        string     `json:"name"`
	Description string     `json:"description"`
	Status      Status     `json:"status"`
	ResourceID  *string    `json:"resourceId,omitempty"`
	StartTime   *time.Time `json:"startTime,omitempty"`
	EndTime     *time.Time `json:"endTime,omitempty"`
	CreatedAt   time.Time  `json:"createdAt"`
	UpdatedAt   time.Time  `json:"updatedAt"`
}

// HeldResource returns the resource this order occupies, if any.
func (o Order) HeldResource() (string, bool) {
	if !o.Status.HoldsResource() || o.ResourceID == nil || *o.ResourceID == "" {
		return "", false
	}
	return *o.ResourceID, true
}

// ClaimsResource returns the resource that must be marked Busy after this
// order is written. Only Scheduled orders claim.
func (o Order) ClaimsResource() (string, bool) {
	if o.Status != StatusScheduled || o.ResourceID == nil || *o.ResourceID == "" {
		return "", false
	}
	return *o.ResourceID, true
}

// Fields returns the mutable payload of o.
func (o Order) Fields() Fields {
	return Fields{
		Name:        o.Name,
		Description: o.Description,
		Status:      o.Status,
		ResourceID:  ptr.Clone(o.ResourceID),
		StartTime:   ptr.Clone(o.StartTime),
		EndTime:     ptr.Clone(o.EndTime),
	}
}

// Fields is a validated order payload ready for the store.
type Fields struct {
	Name        string
	Description string
	Status      Status
	ResourceID  *string
	StartTime   *time.Time
	EndTime     *time.Time
}

// Draft converts f back to its wire form. Times are rendered as RFC 3339
// with full precision so a round trip through Validate is lossless.
func (f Fields) Draft() Draft {
	d := Draft{
		Name:        f.Name,
		Description: f.Description,
		Status:      string(f.Status),
		ResourceID:  ptr.Deref(f.ResourceID),
	}
	if f.StartTime != nil {
		d.StartTime = f.StartTime.Format(time.RFC3339Nano)
	}
	if f.EndTime != nil {
		d.EndTime = f.EndTime.Format(time.RFC3339Nano)
	}
	return d
}
