//go:build unit

package auth_test

import (
	"strings"
	"testing"

	"shop-order-scheduler/internal/domain/auth"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewRole(t *testing.T) {
	testCases := []struct {
		input string
		want  auth.Role
		errIs error
	}{
		{input: "viewer", want: auth.RoleViewer},
		{input: " Operator ", want: auth.RoleOperator},
		{input: "ADMIN", want: auth.RoleAdmin},
		{input: "", errIs: auth.ErrInvalidRole},
		{input: "superuser", errIs: auth.ErrInvalidRole},
	}

	for _, tc := range testCases {
		t.Run(tc.input, func(t *testing.T) {
			role, err := auth.NewRole(tc.input)
			if tc.errIs != nil {
				assert.ErrorIs(t, err, tc.errIs)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tc.want, role)
		})
	}
}

func TestRoleAtLeast(t *testing.T) {
	assert.True(t, auth.RoleAdmin.AtLeast(auth.RoleOperator))
	assert.True(t, auth.RoleOperator.AtLeast(auth.RoleOperator))
	assert.False(t, auth.RoleViewer.AtLeast(auth.RoleOperator))
	assert.False(t, auth.Role("ghost").AtLeast(auth.RoleViewer))
	assert.False(t, auth.RoleAdmin.AtLeast(auth.Role("ghost")))
}

func TestNewPrincipal(t *testing.T) {
	p, err := auth.NewPrincipal("  planner-1 ", auth.RoleOperator)
	require.NoError(t, err)
	assert.Equal(t, "planner-1", p.Subject())
	assert.Equal(t, auth.RoleOperator, p.Role())

	_, err = auth.NewPrincipal("   ", auth.RoleOperator)
	assert.ErrorIs(t, err, auth.ErrEmptySubject)

	_, err = auth.NewPrincipal(strings.Repeat("a", auth.MaxSubjectLength+1), auth.RoleOperator)
	assert.ErrorIs(t, err, auth.ErrSubjectTooLong)

	_, err = auth.NewPrincipal("planner-1", auth.Role("root"))
	assert.ErrorIs(t, err, auth.ErrInvalidRole)
}
