package errors_test

import (
	"context"
	"testing"

	"github.com/soontechgroup/ai-agents-sub001/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestStageError(t *testing.T) {
	err := errors.NewStageError("store_memory", errors.Wrapf(errors.ErrConfiguration, "vector store"))

	assert.Equal(t, "stage store_memory failed: vector store: aiagents: collaborator not configured", err.Error())
	assert.True(t, errors.Is(err, errors.ErrConfiguration))

	var stageErr *errors.StageError
	require.True(t, errors.As(err, &stageErr))
	assert.Equal(t, "store_memory", stageErr.Stage)
}

func TestProviderError(t *testing.T) {
	err := errors.NewProviderError("serper", context.DeadlineExceeded)

	assert.Contains(t, err.Error(), "provider serper failed")
	assert.True(t, errors.Is(err, context.DeadlineExceeded))
}
