package store

import "fmt"

// UnknownIDPolicy decides what a mutation on a missing id does.
type UnknownIDPolicy string

const (
	// PolicyIgnore turns the mutation into a silent no-op.
	PolicyIgnore UnknownIDPolicy = "ignore"
	// PolicyFail reports the miss as a not-found error.
	PolicyFail UnknownIDPolicy = "fail"
)

func ParseUnknownIDPolicy(s string) (UnknownIDPolicy, error) {
	switch p := UnknownIDPolicy(s); p {
	case PolicyIgnore, PolicyFail:
		return p, nil
	case "":
		return PolicyIgnore, nil
	default:
		return "", fmt.Errorf("unknown id policy %q: want ignore or fail", s)
	}
}

func (p UnknownIDPolicy) miss(notFound error) error {
	if p == PolicyFail {
		return notFound
	}
	return nil
}
