//go:build unit

package patch_test

import (
	"testing"

	"shop-order-scheduler/internal/pkg/patch"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCoalesce(t *testing.T) {
	v := "patched"
	assert.Equal(t, "patched", patch.Coalesce(&v, "fallback"))
	assert.Equal(t, "fallback", patch.Coalesce[string](nil, "fallback"))
}

func TestClearable(t *testing.T) {
	current := "2"

	t.Run("nil keeps current", func(t *testing.T) {
		got := patch.Clearable[string](nil, &current)
		require.NotNil(t, got)
		assert.Equal(t, "2", *got)
	})

	t.Run("zero value clears", func(t *testing.T) {
		empty := ""
		assert.Nil(t, patch.Clearable(&empty, &current))
	})

	t.Run("value replaces without aliasing the input", func(t *testing.T) {
		next := "4"
		got := patch.Clearable(&next, &current)
		require.NotNil(t, got)
		assert.Equal(t, "4", *got)
		next = "5"
		assert.Equal(t, "4", *got)
	})
}
