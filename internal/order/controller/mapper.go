package controller

import (
	"net/http"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"

	"vitashop/internal/commons"
	"vitashop/internal/domain"
	"vitashop/internal/dto"
	apperrors "vitashop/internal/errors"
	"vitashop/internal/middleware"
)

func parseOrderID(r *http.Request) (uint, error) {
	id, err := strconv.ParseUint(chi.URLParam(r, "orderId"), 10, 64)
	if err != nil || id == 0 {
		return 0, apperrors.NewValidationError("invalid orderId", apperrors.ValidationDetail{
			Field:   "orderId",
			Message: "orderId must be a positive integer",
		})
	}
	return uint(id), nil
}

// principal answers 401 itself when the request carries no principal.
func principal(w http.ResponseWriter, r *http.Request, traceID string, logger *zap.Logger) (middleware.Principal, bool) {
	p, ok := middleware.PrincipalFromContext(r.Context())
	if !ok {
		commons.WriteJSON(w, http.StatusUnauthorized, dto.ErrorResponse{
			TraceID:   traceID,
			Status:    http.StatusUnauthorized,
			Message:   "authentication required",
			Code:      "UNAUTHORIZED",
			Timestamp: time.Now().UTC(),
		}, logger)
	}
	return p, ok
}

func toOrderResponse(o domain.Order) dto.OrderResponse {
	items := make([]dto.OrderItemResponse, 0, len(o.Items))
	for _, item := range o.Items {
		items = append(items, dto.OrderItemResponse{
			ID:        item.ID,
			ProductID: item.ProductID,
			Quantity:  item.Quantity,
			UnitPrice: item.UnitPrice,
			Discount:  item.Discount,
			Total:     item.Total,
		})
	}

	return dto.OrderResponse{
		ID:                   o.ID,
		UserID:               o.UserID,
		Status:               o.Status,
		Subtotal:             o.Subtotal,
		ShippingCost:         o.ShippingCost,
		Tax:                  o.Tax,
		Total:                o.Total,
		PaymentMethod:        o.PaymentMethod,
		PaymentStatus:        o.PaymentStatus,
		PaymentTransactionID: o.PaymentTransactionID,
		ShippingAddress:      o.ShippingAddress,
		BillingAddress:       o.BillingAddress,
		Notes:                o.Notes,
		TrackingNumber:       o.TrackingNumber,
		Items:                items,
		CreatedAt:            o.CreatedAt,
		UpdatedAt:            o.UpdatedAt,
	}
}

func toCardData(c dto.CardDataRequest) domain.CardData {
	return domain.CardData{
		Number:       c.Number,
		HolderName:   c.HolderName,
		ExpMonth:     c.ExpMonth,
		ExpYear:      c.ExpYear,
		CVV:          c.CVV,
		Document:     c.Document,
		Phone:        c.Phone,
		Installments: c.Installments,
		CustomerType: c.CustomerType,
	}
}

func toAddress(a dto.AddressRequest) domain.Address {
	return domain.Address{
		Line1:   a.Line1,
		Line2:   a.Line2,
		ZipCode: a.ZipCode,
		City:    a.City,
		State:   a.State,
		Country: a.Country,
	}
}

func validateCard(prefix string, c dto.CardDataRequest) []apperrors.ValidationDetail {
	var details []apperrors.ValidationDetail
	if c.Number == "" {
		details = append(details, apperrors.ValidationDetail{Field: prefix + ".number", Message: "card number is required"})
	}
	if c.HolderName == "" {
		details = append(details, apperrors.ValidationDetail{Field: prefix + ".holderName", Message: "holderName is required"})
	}
	if c.ExpMonth < 1 || c.ExpMonth > 12 {
		details = append(details, apperrors.ValidationDetail{Field: prefix + ".expMonth", Message: "expMonth must be between 1 and 12"})
	}
	if c.ExpYear < 1 {
		details = append(details, apperrors.ValidationDetail{Field: prefix + ".expYear", Message: "expYear is required"})
	}
	if c.CVV == "" {
		details = append(details, apperrors.ValidationDetail{Field: prefix + ".cvv", Message: "cvv is required"})
	}
	if c.CustomerType != "" && c.CustomerType != domain.CustomerTypeIndividual && c.CustomerType != domain.CustomerTypeCorporation {
		details = append(details, apperrors.ValidationDetail{Field: prefix + ".customerType", Message: "customerType must be individual or corporation"})
	}
	return details
}

func validateAddress(prefix string, a dto.AddressRequest) []apperrors.ValidationDetail {
	var details []apperrors.ValidationDetail
	if a.Line1 == "" {
		details = append(details, apperrors.ValidationDetail{Field: prefix + ".line1", Message: "line1 is required"})
	}
	if a.ZipCode == "" {
		details = append(details, apperrors.ValidationDetail{Field: prefix + ".zipCode", Message: "zipCode is required"})
	}
	if a.City == "" {
		details = append(details, apperrors.ValidationDetail{Field: prefix + ".city", Message: "city is required"})
	}
	if a.State == "" {
		details = append(details, apperrors.ValidationDetail{Field: prefix + ".state", Message: "state is required"})
	}
	return details
}
