package order

type Status string

const (
	StatusPending    Status = "Pending"
	StatusScheduled  Status = "Scheduled"
	StatusInProgress Status = "In Progress"
	StatusCompleted  Status = "Completed"
	StatusCancelled  Status = "Cancelled"
)

// AllStatuses returns the statuses in canonical display order.
func AllStatuses() []Status {
	return []Status{
		StatusPending,
		StatusScheduled,
		StatusInProgress,
		StatusCompleted,
		StatusCancelled,
	}
}

func (s Status) String() string {
	return string(s)
}

func (s Status) IsValid() bool {
	switch s {
	case StatusPending, StatusScheduled, StatusInProgress, StatusCompleted, StatusCancelled:
		return true
	default:
		return false
	}
}

// HoldsResource reports whether an order in this status occupies its resource.
func (s Status) HoldsResource() bool {
	return s == StatusScheduled || s == StatusInProgress
}

func ParseStatus(s string) (Status, error) {
	status := Status(s)
	if !status.IsValid() {
		return "", ErrInvalidStatus
	}
	return status, nil
}
