package errors

import (
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestNotFoundError_Creation(t *testing.T) {
	message := "order not found"
	err := NewNotFoundError(message)

	assert.NotNil(t, err)
	assert.Equal(t, message, err.Message)
	assert.Equal(t, message, err.Error())
}

func TestNotFoundError_Codes(t *testing.T) {
	assert.Equal(t, CodeOrderNotFound, NewOrderNotFoundError(7).Code)
	assert.Equal(t, CodeUserNotFound, NewUserNotFoundError(3).Code)
	assert.Equal(t, CodeProductNotFound, NewProductNotFoundError(9).Code)
	assert.Equal(t, "order with id 7 not found", NewOrderNotFoundError(7).Error())
}

func TestNotFoundError_IsNotFoundError_Wrapped(t *testing.T) {
	err := fmt.Errorf("loading order: %w", NewOrderNotFoundError(1))

	notFoundErr, ok := IsNotFoundError(err)
	assert.True(t, ok)
	assert.Equal(t, CodeOrderNotFound, notFoundErr.Code)
}

func TestNotFoundError_IsNotFoundError_WithOtherError(t *testing.T) {
	err := errors.New("some other error")

	notFoundErr, ok := IsNotFoundError(err)
	assert.False(t, ok)
	assert.Nil(t, notFoundErr)
}

func TestForbiddenError_DistinctFromNotFound(t *testing.T) {
	err := NewOrderAuthorizationError(10, 2)

	_, isNotFound := IsNotFoundError(err)
	fe, isForbidden := IsForbiddenError(err)

	assert.False(t, isNotFound)
	assert.True(t, isForbidden)
	assert.Equal(t, CodeOrderAuthorization, fe.Code)
}

func TestConflictError_AlreadyCancelled(t *testing.T) {
	err := NewOrderAlreadyCancelledError(5)

	ce, ok := IsConflictError(err)
	assert.True(t, ok)
	assert.Equal(t, CodeOrderAlreadyCancelled, ce.Code)
	assert.Contains(t, ce.Error(), "already cancelled")
}

func TestUnprocessableError_InsufficientStock(t *testing.T) {
	err := NewInsufficientStockError(4, 6, 5)

	ue, ok := IsUnprocessableError(err)
	assert.True(t, ok)
	assert.Equal(t, CodeInsufficientStock, ue.Code)
	assert.Equal(t, 4, ue.ProductID)
	if assert.NotNil(t, ue.Available) {
		assert.Equal(t, 5, *ue.Available)
	}
}

func TestUnprocessableError_CustomerData(t *testing.T) {
	assert.Equal(t, CodeCustomerEmailMissing, NewCustomerEmailMissingError(1).Code)
	assert.Equal(t, CodeCustomerDocumentMissing, NewCustomerDocumentMissingError(1).Code)
	assert.Equal(t, CodeProductNotOrderable, NewProductNotOrderableError(1, "external_url").Code)
}

func TestPaymentDeclinedError(t *testing.T) {
	err := NewPaymentDeclinedError(12, "tran_1", "refused")

	pde, ok := IsPaymentDeclinedError(fmt.Errorf("charging: %w", err))
	assert.True(t, ok)
	assert.Equal(t, uint(12), pde.OrderID)
	assert.Equal(t, "tran_1", pde.TransactionID)
	assert.Contains(t, pde.Error(), "refused")
}

func TestGatewayError_Unwrap(t *testing.T) {
	cause := errors.New("connection reset")
	err := NewGatewayError(GatewayTransport, "sending request", cause)

	ge, ok := IsGatewayError(err)
	assert.True(t, ok)
	assert.Equal(t, GatewayTransport, ge.Kind)
	assert.True(t, errors.Is(err, cause))
	assert.Contains(t, err.Error(), "connection reset")
}

func TestValidationError_Creation(t *testing.T) {
	message := "validation failed"
	details := []ValidationDetail{
		{Field: "items", Message: "items must not be empty"},
		{Field: "userId", Message: "required field"},
	}

	err := NewValidationError(message, details...)

	assert.NotNil(t, err)
	assert.Equal(t, message, err.Message)
	assert.Equal(t, message, err.Error())
	assert.Len(t, err.Details, 2)
}

func TestInternalError_Unwrap(t *testing.T) {
	cause := errors.New("underlying error")
	err := NewInternalError("wrapper", cause)

	assert.Equal(t, cause, err.Unwrap())
	assert.True(t, errors.Is(err, cause))
	assert.Contains(t, err.Error(), "underlying error")
}

func TestInternalError_NilCause(t *testing.T) {
	err := NewInternalError("no cause", nil)

	assert.Equal(t, "no cause", err.Error())
	assert.Nil(t, err.Unwrap())
}

func TestDeadlockError(t *testing.T) {
	err := NewDeadlockError("max retries exceeded")

	de, ok := IsDeadlockError(err)
	assert.True(t, ok)
	assert.Equal(t, "max retries exceeded", de.Error())
}
