package order

import (
	"strings"
	"time"
	"unicode/utf8"
)

const (
	MinNameLength        = 3
	MinDescriptionLength = 5

	// LocalTimeLayout is the HTML datetime-local layout accepted next to RFC 3339.
	LocalTimeLayout = "2006-01-02T15:04"
)

const (
	MsgNameTooShort        = "Name must be at least 3 characters"
	MsgDescriptionTooShort = "Description must be at least 5 characters"
	MsgInvalidStatus       = "Invalid status"
	MsgScheduledIncomplete = "Resource, start time, and end time are required for scheduled orders"
	MsgInvalidStartTime    = "Invalid start time"
	MsgInvalidEndTime      = "Invalid end time"
	MsgEndBeforeStart      = "End time must be after start time"
	MsgResourceNotFound    = "Resource not found"
)

type FieldError struct {
	Field   string `json:"field"`
	Message string `json:"message"`
}

// ValidationErrors is the accumulated set of field errors for one draft.
type ValidationErrors []FieldError

func (v ValidationErrors) Error() string {
	msgs := make([]string, 0, len(v))
	for _, fe := range v {
		msgs = append(msgs, fe.Field+": "+fe.Message)
	}
	return "validation failed: " + strings.Join(msgs, "; ")
}

func (v ValidationErrors) Has(field string) bool {
	for _, fe := range v {
		if fe.Field == field {
			return true
		}
	}
	return false
}

func (v *ValidationErrors) Add(field, message string) {
	*v = append(*v, FieldError{Field: field, Message: message})
}

// Draft is untyped order input as submitted by a form or API client. Empty
// strings mean "absent".
type Draft struct {
	Name        string `json:"name"`
	Description string `json:"description"`
	Status      string `json:"status"`
	ResourceID  string `json:"resourceId,omitempty"`
	StartTime   string `json:"startTime,omitempty"`
	EndTime     string `json:"endTime,omitempty"`
}

// Validate checks every rule independently and returns either typed fields or
// the full list of failures. Local times are read in loc (UTC when nil). An
// empty status defaults to Pending.
func (d Draft) Validate(loc *time.Location) (Fields, ValidationErrors) {
	var verrs ValidationErrors
	if loc == nil {
		loc = time.UTC
	}

	if utf8.RuneCountInString(d.Name) < MinNameLength {
		verrs.Add("name", MsgNameTooShort)
	}
	if utf8.RuneCountInString(d.Description) < MinDescriptionLength {
		verrs.Add("description", MsgDescriptionTooShort)
	}

	status := StatusPending
	if d.Status != "" {
		status = Status(d.Status)
		if !status.IsValid() {
			verrs.Add("status", MsgInvalidStatus)
		}
	}

	start, startOK := parseOptionalTime(d.StartTime, loc)
	if !startOK {
		verrs.Add("startTime", MsgInvalidStartTime)
	}
	end, endOK := parseOptionalTime(d.EndTime, loc)
	if !endOK {
		verrs.Add("endTime", MsgInvalidEndTime)
	}

	if status == StatusScheduled && (d.ResourceID == "" || d.StartTime == "" || d.EndTime == "") {
		verrs.Add("status", MsgScheduledIncomplete)
	}

	if start != nil && end != nil && !end.After(*start) {
		verrs.Add("endTime", MsgEndBeforeStart)
	}

	if len(verrs) > 0 {
		return Fields{}, verrs
	}

	f := Fields{
		Name:        d.Name,
		Description: d.Description,
		Status:      status,
		StartTime:   start,
		EndTime:     end,
	}
	if d.ResourceID != "" {
		id := d.ResourceID
		f.ResourceID = &id
	}
	return f, nil
}

// ParseTime accepts RFC 3339 or LocalTimeLayout interpreted in loc.
func ParseTime(s string, loc *time.Location) (time.Time, error) {
	if t, err := time.Parse(time.RFC3339, s); err == nil {
		return t, nil
	}
	if loc == nil {
		loc = time.UTC
	}
	return time.ParseInLocation(LocalTimeLayout, s, loc)
}

func parseOptionalTime(s string, loc *time.Location) (*time.Time, bool) {
	if s == "" {
		return nil, true
	}
	t, err := ParseTime(s, loc)
	if err != nil {
		return nil, false
	}
	return &t, true
}
