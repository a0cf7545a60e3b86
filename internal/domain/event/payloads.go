package event

import "time"

type OrderPayload struct {
	OrderID     string     `json:"order_id"`
	Name        string     `json:"name"`
	Description string     `json:"description"`
	Status      string     `json:"status"`
	ResourceID  *string    `json:"resource_id,omitempty"`
	StartTime   *time.Time `json:"start_time,omitempty"`
	EndTime     *time.Time `json:"end_time,omitempty"`
	CreatedAt   time.Time  `json:"created_at"`
	UpdatedAt   time.Time  `json:"updated_at"`
}

type OrderCreatedPayload struct {
	Order OrderPayload `json:"order"`
}

type OrderUpdatedPayload struct {
	Order          OrderPayload `json:"order"`
	PreviousStatus string       `json:"previous_status"`
}

type OrderDeletedPayload struct {
	OrderID    string  `json:"order_id"`
	Status     string  `json:"status"`
	ResourceID *string `json:"resource_id,omitempty"`
}

type ResourceStatusChangedPayload struct {
	ResourceID string `json:"resource_id"`
	Name       string `json:"name"`
	From       string `json:"from"`
	To         string `json:"to"`
	// OrderID is the order whose change caused the transition.
	OrderID string `json:"order_id"`
}
