package constants

import (
	"context"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestIsFatalLoad(t *testing.T) {
	assert.True(t, IsFatalLoad(fmt.Errorf("%w: data.xlsx", ErrMissingDataSource)))
	assert.True(t, IsFatalLoad(fmt.Errorf("normalize: %w", ErrSchemaMismatch)))
	assert.False(t, IsFatalLoad(fmt.Errorf("fetch: %w", context.Canceled)))
	assert.False(t, IsFatalLoad(ErrNotFound))
}
