package apperr

import (
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestKindOf(t *testing.T) {
	assert.Equal(t, KindValidation, KindOf(Validation("bad input")))
	assert.Equal(t, KindConflict, KindOf(Conflict("taken")))
	assert.Equal(t, KindNotFound, KindOf(NotFound("missing")))
	assert.Equal(t, KindInternal, KindOf(errors.New("plain")))
	assert.Equal(t, KindInternal, KindOf(nil))
}

func TestKindOfWrapped(t *testing.T) {
	inner := NotFound("category doesn't exist")
	outer := fmt.Errorf("loading tree: %w", inner)

	assert.Equal(t, KindNotFound, KindOf(outer))
	assert.True(t, IsKind(outer, KindNotFound))
	assert.False(t, IsKind(outer, KindConflict))
}

func TestWrapPreservesCause(t *testing.T) {
	cause := errors.New("driver: bad connection")
	err := Persistence(cause)

	require.ErrorIs(t, err, cause)
	assert.Equal(t, KindPersistence, KindOf(err))
	assert.Contains(t, err.Error(), "storage operation failed")
	assert.Contains(t, err.Error(), "bad connection")
}

func TestNewfFormats(t *testing.T) {
	err := Validation("permission level must be between %d and %d", 1, 4)
	assert.Equal(t, "permission level must be between 1 and 4", err.Error())
}
