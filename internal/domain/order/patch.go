package order

import (
	"shop-order-scheduler/internal/pkg/patch"
	"shop-order-scheduler/internal/pkg/ptr"
)

// Patch is a partial order update. A nil field keeps the current value; an
// empty ResourceID, StartTime or EndTime clears it.
type Patch struct {
	Name        *string `json:"name,omitempty"`
	Description *string `json:"description,omitempty"`
	Status      *string `json:"status,omitempty"`
	ResourceID  *string `json:"resourceId,omitempty"`
	StartTime   *string `json:"startTime,omitempty"`
	EndTime     *string `json:"endTime,omitempty"`
}

func (p Patch) IsEmpty() bool {
	return p.Name == nil && p.Description == nil && p.Status == nil &&
		p.ResourceID == nil && p.StartTime == nil && p.EndTime == nil
}

// Validate reports patch values that are wrong on their own. An empty status
// would otherwise read as "absent" after the merge and default to Pending.
func (p Patch) Validate() ValidationErrors {
	var verrs ValidationErrors
	if p.Status != nil && *p.Status == "" {
		verrs.Add("status", MsgInvalidStatus)
	}
	return verrs
}

// Apply merges p over current and returns the resulting draft, which must be
// validated as a whole before it reaches the store.
func (p Patch) Apply(current Fields) Draft {
	base := current.Draft()
	return Draft{
		Name:        patch.Coalesce(p.Name, base.Name),
		Description: patch.Coalesce(p.Description, base.Description),
		Status:      patch.Coalesce(p.Status, base.Status),
		ResourceID:  ptr.Deref(patch.Clearable(p.ResourceID, optional(base.ResourceID))),
		StartTime:   ptr.Deref(patch.Clearable(p.StartTime, optional(base.StartTime))),
		EndTime:     ptr.Deref(patch.Clearable(p.EndTime, optional(base.EndTime))),
	}
}

func optional(s string) *string {
	if s == "" {
		return nil
	}
	return &s
}
