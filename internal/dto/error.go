package dto

import (
	"time"

	apperrors "vitashop/internal/errors"
)

// ErrorResponse is the envelope every failed request is answered with.
type ErrorResponse struct {
	TraceID   string                       `json:"traceId"`
	Status    int                          `json:"status"`
	Message   string                       `json:"message"`
	Code      string                       `json:"code"`
	Details   []apperrors.ValidationDetail `json:"details,omitempty"`
	ProductID *int                         `json:"productId,omitempty"`
	Available *int                         `json:"available,omitempty"`
	Timestamp time.Time                    `json:"timestamp"`
}
