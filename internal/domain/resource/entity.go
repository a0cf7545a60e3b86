package resource

import (
	"errors"
	"strings"
)

var (
	ErrEmptyResourceID     = errors.New("resource id cannot be empty")
	ErrEmptyResourceName   = errors.New("resource name cannot be empty")
	ErrResourceNameTooLong = errors.New("resource name is too long (max 255 characters)")
	ErrInvalidStatus       = errors.New("invalid resource status")
	ErrDuplicateResourceID = errors.New("duplicate resource id")
)

const (
	MaxResourceNameLength = 255
)

// Resource is a schedulable production asset. It is a plain value; the
// resource store owns the collection and replaces whole values on change.
type Resource struct {
	ID     string `json:"id" yaml:"id"`
	Name   string `json:"name" yaml:"name"`
	Status Status `json:"status" yaml:"status"`
}

func NewResource(id, name string, status Status) (Resource, error) {
	id = strings.TrimSpace(id)
	if id == "" {
		return Resource{}, ErrEmptyResourceID
	}
	if err := validateResourceName(name); err != nil {
		return Resource{}, err
	}
	if !status.IsValid() {
		return Resource{}, ErrInvalidStatus
	}

	return Resource{
		ID:     id,
		Name:   strings.TrimSpace(name),
		Status: status,
	}, nil
}

func (r Resource) IsAvailable() bool {
	return r.Status == StatusAvailable
}

// WithStatus returns a copy of r with only the status replaced.
func (r Resource) WithStatus(status Status) Resource {
	r.Status = status
	return r
}

func validateResourceName(name string) error {
	name = strings.TrimSpace(name)
	if name == "" {
		return ErrEmptyResourceName
	}
	if len(name) > MaxResourceNameLength {
		return ErrResourceNameTooLong
	}
	return nil
}
