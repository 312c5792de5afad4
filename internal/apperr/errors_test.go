package apperr

import (
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestNotFoundError(t *testing.T) {
	err := NewNotFoundError("order", "ORDER-ABC123")

	assert.Equal(t, `order "ORDER-ABC123" not found`, err.Error())
	assert.ErrorIs(t, err, ErrNotFound)
	assert.True(t, IsNotFound(err))
}

func TestNotFoundError_NoID(t *testing.T) {
	err := NewNotFoundError("cart", "")
	assert.Equal(t, "cart not found", err.Error())
}

func TestValidationError(t *testing.T) {
	err := NewValidationError("sale", "must be between 0 and 100")

	assert.Equal(t, "sale: must be between 0 and 100", err.Error())
	assert.ErrorIs(t, err, ErrInvalidInput)
	assert.True(t, IsValidation(err))
}

func TestRequiredError(t *testing.T) {
	err := RequiredError("email")

	assert.Equal(t, "email: is required", err.Error())
	assert.True(t, IsValidation(err))
}

func TestRemoteError_Unwrap(t *testing.T) {
	cause := errors.New("connection refused")
	err := NewRemoteError("catalog.add", cause)

	assert.Equal(t, "catalog.add: connection refused", err.Error())
	assert.ErrorIs(t, err, cause)
}

func TestPartialFailure(t *testing.T) {
	err := &PartialFailure{OrderID: "ORDER-XYZ", Err: errors.New("smtp timeout")}

	assert.True(t, IsPartialFailure(err))
	assert.False(t, IsPartialFailure(fmt.Errorf("plain error")), "unrelated errors do not match")
	assert.True(t, IsPartialFailure(fmt.Errorf("wrapped: %w", err)), "matching sees through wrapping")
}
