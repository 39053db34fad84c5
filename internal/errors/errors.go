package errors

import (
	"errors"
	"fmt"
)

const (
	CodeOrderNotFound           = "ORDER_NOT_FOUND"
	CodeUserNotFound            = "USER_NOT_FOUND"
	CodeProductNotFound         = "PRODUCT_NOT_FOUND"
	CodeOrderAuthorization      = "ORDER_AUTHORIZATION_ERROR"
	CodeOrderAlreadyCancelled   = "ORDER_ALREADY_CANCELLED"
	CodeStockReleased           = "ORDER_STOCK_RELEASED"
	CodeOrderAlreadyPaid        = "ORDER_ALREADY_PAID"
	CodePaymentInProgress       = "ORDER_PAYMENT_IN_PROGRESS"
	CodeProductNotOrderable     = "PRODUCT_NOT_ORDERABLE"
	CodeInsufficientStock       = "INSUFFICIENT_STOCK"
	CodeCustomerEmailMissing    = "CUSTOMER_EMAIL_MISSING"
	CodeCustomerDocumentMissing = "CUSTOMER_DOCUMENT_MISSING"
)

type ValidationDetail struct {
	Field   string `json:"field"`
	Message string `json:"message"`
}

type ValidationError struct {
	Message string
	Details []ValidationDetail
}

func (e *ValidationError) Error() string {
	return e.Message
}

func NewValidationError(message string, details ...ValidationDetail) *ValidationError {
	return &ValidationError{
		Message: message,
		Details: details,
	}
}

func IsValidationError(err error) (*ValidationError, bool) {
	var ve *ValidationError
	if errors.As(err, &ve) {
		return ve, true
	}
	return nil, false
}

type NotFoundError struct {
	Code    string
	Message string
}

func (e *NotFoundError) Error() string {
	return e.Message
}

func NewNotFoundError(message string) *NotFoundError {
	return &NotFoundError{Message: message}
}

func NewOrderNotFoundError(id uint) *NotFoundError {
	return &NotFoundError{Code: CodeOrderNotFound, Message: fmt.Sprintf("order with id %d not found", id)}
}

func NewUserNotFoundError(id int) *NotFoundError {
	return &NotFoundError{Code: CodeUserNotFound, Message: fmt.Sprintf("user with id %d not found", id)}
}

func NewProductNotFoundError(id int) *NotFoundError {
	return &NotFoundError{Code: CodeProductNotFound, Message: fmt.Sprintf("product with id %d not found", id)}
}

func IsNotFoundError(err error) (*NotFoundError, bool) {
	var nfe *NotFoundError
	if errors.As(err, &nfe) {
		return nfe, true
	}
	return nil, false
}

type ConflictError struct {
	Code    string
	Message string
}

func (e *ConflictError) Error() string {
	return e.Message
}

func NewConflictError(code, message string) *ConflictError {
	return &ConflictError{Code: code, Message: message}
}

func NewOrderAlreadyCancelledError(id uint) *ConflictError {
	return NewConflictError(CodeOrderAlreadyCancelled, fmt.Sprintf("order %d is already cancelled", id))
}

func IsConflictError(err error) (*ConflictError, bool) {
	var ce *ConflictError
	if errors.As(err, &ce) {
		return ce, true
	}
	return nil, false
}

// ForbiddenError is returned when a user touches an order it does not own. It
// is kept apart from NotFoundError so callers can answer 403 instead of 404.
type ForbiddenError struct {
	Code    string
	Message string
}

func (e *ForbiddenError) Error() string {
	return e.Message
}

func NewOrderAuthorizationError(orderID uint, userID int) *ForbiddenError {
	return &ForbiddenError{
		Code:    CodeOrderAuthorization,
		Message: fmt.Sprintf("user %d is not allowed to access order %d", userID, orderID),
	}
}

func IsForbiddenError(err error) (*ForbiddenError, bool) {
	var fe *ForbiddenError
	if errors.As(err, &fe) {
		return fe, true
	}
	return nil, false
}

// UnprocessableError covers user-correctable business rule violations.
type UnprocessableError struct {
	Code      string
	Message   string
	ProductID int
	Available *int
}

func (e *UnprocessableError) Error() string {
	return e.Message
}

func NewProductNotOrderableError(productID int, reason string) *UnprocessableError {
	return &UnprocessableError{
		Code:      CodeProductNotOrderable,
		Message:   fmt.Sprintf("product %d cannot be ordered: %s", productID, reason),
		ProductID: productID,
	}
}

func NewInsufficientStockError(productID, requested, available int) *UnprocessableError {
	return &UnprocessableError{
		Code:      CodeInsufficientStock,
		Message:   fmt.Sprintf("insufficient stock for product %d: requested %d, available %d", productID, requested, available),
		ProductID: productID,
		Available: &available,
	}
}

func NewCustomerEmailMissingError(userID int) *UnprocessableError {
	return &UnprocessableError{
		Code:    CodeCustomerEmailMissing,
		Message: fmt.Sprintf("user %d has no email on file", userID),
	}
}

func NewCustomerDocumentMissingError(userID int) *UnprocessableError {
	return &UnprocessableError{
		Code:    CodeCustomerDocumentMissing,
		Message: fmt.Sprintf("no valid document number for user %d", userID),
	}
}

func IsUnprocessableError(err error) (*UnprocessableError, bool) {
	var ue *UnprocessableError
	if errors.As(err, &ue) {
		return ue, true
	}
	return nil, false
}

// PaymentDeclinedError is raised after the order and inventory were already
// reconciled for a declined charge.
type PaymentDeclinedError struct {
	OrderID       uint
	TransactionID string
	RawStatus     string
}

func (e *PaymentDeclinedError) Error() string {
	return fmt.Sprintf("payment for order %d declined (status %q)", e.OrderID, e.RawStatus)
}

func NewPaymentDeclinedError(orderID uint, transactionID, rawStatus string) *PaymentDeclinedError {
	return &PaymentDeclinedError{
		OrderID:       orderID,
		TransactionID: transactionID,
		RawStatus:     rawStatus,
	}
}

func IsPaymentDeclinedError(err error) (*PaymentDeclinedError, bool) {
	var pde *PaymentDeclinedError
	if errors.As(err, &pde) {
		return pde, true
	}
	return nil, false
}

type GatewayErrorKind string

const (
	GatewayMisconfigured GatewayErrorKind = "misconfigured"
	GatewayIPNotAllowed  GatewayErrorKind = "ip_not_allowed"
	GatewayRejected      GatewayErrorKind = "rejected"
	GatewayTransport     GatewayErrorKind = "transport"
	GatewayMalformed     GatewayErrorKind = "malformed"
)

type GatewayError struct {
	Kind       GatewayErrorKind
	Message    string
	StatusCode int
	Cause      error
}

func (e *GatewayError) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("payment gateway %s: %s: %v", e.Kind, e.Message, e.Cause)
	}
	return fmt.Sprintf("payment gateway %s: %s", e.Kind, e.Message)
}

func (e *GatewayError) Unwrap() error {
	return e.Cause
}

func NewGatewayError(kind GatewayErrorKind, message string, cause error) *GatewayError {
	return &GatewayError{
		Kind:    kind,
		Message: message,
		Cause:   cause,
	}
}

func IsGatewayError(err error) (*GatewayError, bool) {
	var ge *GatewayError
	if errors.As(err, &ge) {
		return ge, true
	}
	return nil, false
}

type DeadlockError struct {
	Message string
}

func (e *DeadlockError) Error() string {
	return e.Message
}

func NewDeadlockError(message string) *DeadlockError {
	return &DeadlockError{Message: message}
}

func IsDeadlockError(err error) (*DeadlockError, bool) {
	var de *DeadlockError
	if errors.As(err, &de) {
		return de, true
	}
	return nil, false
}

type InternalError struct {
	Message string
	Cause   error
}

func (e *InternalError) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("%s: %v", e.Message, e.Cause)
	}
	return e.Message
}

func (e *InternalError) Unwrap() error {
	return e.Cause
}

func NewInternalError(message string, cause error) *InternalError {
	return &InternalError{
		Message: message,
		Cause:   cause,
	}
}
