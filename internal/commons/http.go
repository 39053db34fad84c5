package commons

import (
	"encoding/json"
	"net/http"
	"strings"
	"time"

	"go.uber.org/zap"

	"vitashop/internal/dto"
	apperrors "vitashop/internal/errors"
)

func WriteJSON(w http.ResponseWriter, status int, data interface{}, logger *zap.Logger) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if data == nil {
		return
	}
	if err := json.NewEncoder(w).Encode(data); err != nil {
		logger.Error("failed to encode response", zap.Error(err))
	}
}

func WriteValidationError(w http.ResponseWriter, traceID string, message string, logger *zap.Logger, details ...apperrors.ValidationDetail) {
	WriteJSON(w, http.StatusBadRequest, dto.ErrorResponse{
		TraceID:   traceID,
		Status:    http.StatusBadRequest,
		Message:   message,
		Code:      "VALIDATION_ERROR",
		Details:   details,
		Timestamp: time.Now().UTC(),
	}, logger)
}

// WriteError maps a typed application error onto its HTTP status and code.
// Anything unrecognized is logged and answered with a generic 500.
func WriteError(w http.ResponseWriter, traceID string, err error, logger *zap.Logger) {
	resp := dto.ErrorResponse{
		TraceID:   traceID,
		Message:   err.Error(),
		Timestamp: time.Now().UTC(),
	}

	if ve, ok := apperrors.IsValidationError(err); ok {
		resp.Status, resp.Code, resp.Details = http.StatusBadRequest, "VALIDATION_ERROR", ve.Details
	} else if nfe, ok := apperrors.IsNotFoundError(err); ok {
		resp.Status, resp.Code = http.StatusNotFound, codeOr(nfe.Code, "NOT_FOUND")
	} else if fe, ok := apperrors.IsForbiddenError(err); ok {
		resp.Status, resp.Code = http.StatusForbidden, fe.Code
	} else if ce, ok := apperrors.IsConflictError(err); ok {
		resp.Status, resp.Code = http.StatusConflict, codeOr(ce.Code, "CONFLICT")
	} else if ue, ok := apperrors.IsUnprocessableError(err); ok {
		resp.Status, resp.Code = http.StatusUnprocessableEntity, ue.Code
		if ue.ProductID != 0 {
			productID := ue.ProductID
			resp.ProductID = &productID
		}
		resp.Available = ue.Available
	} else if _, ok := apperrors.IsPaymentDeclinedError(err); ok {
		resp.Status, resp.Code = http.StatusPaymentRequired, "PAYMENT_DECLINED"
	} else if ge, ok := apperrors.IsGatewayError(err); ok {
		logger.Error("payment gateway error", zap.String("kind", string(ge.Kind)), zap.Error(err))
		resp.Status, resp.Code = http.StatusBadGateway, "PAYMENT_GATEWAY_"+strings.ToUpper(string(ge.Kind))
		resp.Message = ge.Message
	} else if _, ok := apperrors.IsDeadlockError(err); ok {
		resp.Status, resp.Code = http.StatusConflict, "DEADLOCK"
	} else {
		logger.Error("unexpected error", zap.Error(err))
		resp.Status, resp.Code = http.StatusInternalServerError, "INTERNAL_ERROR"
		resp.Message = "an unexpected error occurred"
	}

	WriteJSON(w, resp.Status, resp, logger)
}

func codeOr(code, fallback string) string {
	if code == "" {
		return fallback
	}
	return code
}

