package common

import (
	"errors"
	"fmt"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestCustomError_WrapAndIs(t *testing.T) {
	cause := errors.New("redis down")
	err := fmt.Errorf("save: %w", ErrSaveFailed.Wrap(cause))

	assert.ErrorIs(t, err, ErrSaveFailed)
	assert.ErrorIs(t, err, cause)
	assert.NotErrorIs(t, err, ErrGenerationFailed)
	assert.Equal(t, "failed to save recipe: redis down", ErrSaveFailed.Wrap(cause).Error())

	// 同代碼不同訊息仍視為同一錯誤
	assert.ErrorIs(t, ErrRecipeNotFound, ErrNotFound)
	assert.Nil(t, ErrSaveFailed.Err)
}

func TestAsCustomError(t *testing.T) {
	ce := AsCustomError(fmt.Errorf("wrapped: %w", ErrAgeRestricted))
	assert.Equal(t, ErrCodeAgeRestricted, ce.Code)
	assert.Equal(t, http.StatusForbidden, ce.Status)

	ce = AsCustomError(errors.New("plain"))
	assert.Equal(t, ErrCodeInternalError, ce.Code)
	assert.Equal(t, http.StatusInternalServerError, ce.Status)
	assert.EqualError(t, ce.Err, "plain")
}

func TestWithMessage(t *testing.T) {
	ce := ErrInvalidRequest.WithMessage("name is required")
	assert.Equal(t, "name is required", ce.Message)
	assert.Equal(t, ErrCodeInvalidRequest, ce.Code)
	assert.Equal(t, "invalid request", ErrInvalidRequest.Message)
}

func TestValidationError(t *testing.T) {
	err := fmt.Errorf("bind: %w", NewValidationError("bad drink"))
	assert.True(t, IsValidationError(err))
	assert.False(t, IsValidationError(errors.New("x")))
}
