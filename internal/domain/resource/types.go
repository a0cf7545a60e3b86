package resource

type Status string

const (
	StatusAvailable Status = "Available"
	StatusBusy      Status = "Busy"
)

func (s Status) String() string {
	return string(s)
}

func (s Status) IsValid() bool {
	switch s {
	case StatusAvailable, StatusBusy:
		return true
	default:
		return false
	}
}

func NewStatus(s string) (Status, error) {
	status := Status(s)
	if !status.IsValid() {
		return "", ErrInvalidStatus
	}
	return status, nil
}
