//go:build unit

package errs_test

import (
	"errors"
	"testing"

	"shop-order-scheduler/internal/pkg/errs"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMark(t *testing.T) {
	t.Run("marked error matches both the mark and the original", func(t *testing.T) {
		base := errors.New("connection reset")
		marked := errs.Mark(base, errs.ErrJournalCommitFailed)

		assert.True(t, errs.Is(marked, errs.ErrJournalCommitFailed))
		assert.True(t, errs.Is(marked, base))
		assert.Equal(t, "connection reset", marked.Error())
	})

	t.Run("nil error returns the mark itself", func(t *testing.T) {
		assert.Equal(t, errs.ErrOrderNotFound, errs.Mark(nil, errs.ErrOrderNotFound))
	})
}

func TestWrap(t *testing.T) {
	assert.Nil(t, errs.Wrap(nil, "ignored"))

	wrapped := errs.Wrap(errs.ErrResourceNotFound, "load resource")
	require.Error(t, wrapped)
	assert.True(t, errs.Is(wrapped, errs.ErrResourceNotFound))
	assert.Equal(t, "load resource: resource not found", wrapped.Error())
}

func TestExtractStackLines(t *testing.T) {
	assert.Nil(t, errs.ExtractStackLines(nil, 5))

	lines := errs.ExtractStackLines(errs.New("boom"), 3)
	assert.LessOrEqual(t, len(lines), 3)
	require.NotEmpty(t, lines)
	assert.Contains(t, lines[0], "boom")
}
