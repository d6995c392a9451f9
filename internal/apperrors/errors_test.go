package apperrors

import (
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestAppError_Unwrap(t *testing.T) {
	cause := errors.New("connection reset")
	err := fmt.Errorf("rebuild: %w", NewAppError(500, "failed to insert flows", cause))

	var appErr *AppError
	assert.True(t, errors.As(err, &appErr))
	assert.Equal(t, 500, appErr.Code)
	assert.ErrorIs(t, err, cause)
	assert.Equal(t, "failed to insert flows: connection reset", appErr.Error())
}

func TestSentinelConstructors(t *testing.T) {
	assert.ErrorIs(t, NewNotFoundError("contract 5"), ErrNotFound)
	assert.ErrorIs(t, NewValidationError("bad kind"), ErrValidation)
	assert.Equal(t, "only message", NewAppError(500, "only message", nil).Error())
}
