package controller

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"strconv"
	"strings"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"

	"vitashop/internal/commons"
	"vitashop/internal/domain"
	"vitashop/internal/dto"
	apperrors "vitashop/internal/errors"
)

const (
	defaultRecipientPage = 1
	defaultRecipientSize = 10
	maxRecipientSize     = 100
)

type PaymentService interface {
	GetPaymentStatus(ctx context.Context, transactionID string) (*domain.PaymentOutcome, error)
	CaptureTransaction(ctx context.Context, transactionID string, amount *decimal.Decimal) (*domain.PaymentOutcome, error)
	RefundTransaction(ctx context.Context, transactionID string, amount *decimal.Decimal) (*domain.PaymentOutcome, error)
	CreateRecipient(ctx context.Context, r domain.Recipient) (*domain.Recipient, error)
	GetRecipient(ctx context.Context, recipientID string) (*domain.Recipient, error)
	ListRecipients(ctx context.Context, page, size int) ([]domain.Recipient, int, error)
}

// PaymentController exposes the gateway proxies: charge status, capture,
// refund and payout recipients.
type PaymentController struct {
	payments PaymentService
	logger   *zap.Logger
}

func NewPaymentController(payments PaymentService, logger *zap.Logger) *PaymentController {
	return &PaymentController{
		payments: payments,
		logger:   logger,
	}
}

func (c *PaymentController) GetStatus(w http.ResponseWriter, r *http.Request) {
	traceID := uuid.New().String()
	logger := c.logger.With(zap.String("traceId", traceID))

	transactionID, ok := c.transactionID(w, r, traceID, logger)
	if !ok {
		return
	}

	outcome, err := c.payments.GetPaymentStatus(r.Context(), transactionID)
	if err != nil {
		commons.WriteError(w, traceID, err, logger)
		return
	}

	commons.WriteJSON(w, http.StatusOK, toPaymentStatus(outcome), logger)
}

func (c *PaymentController) Capture(w http.ResponseWriter, r *http.Request) {
	c.adjust(w, r, c.payments.CaptureTransaction)
}

func (c *PaymentController) Refund(w http.ResponseWriter, r *http.Request) {
	c.adjust(w, r, c.payments.RefundTransaction)
}

func (c *PaymentController) adjust(w http.ResponseWriter, r *http.Request, op func(context.Context, string, *decimal.Decimal) (*domain.PaymentOutcome, error)) {
	traceID := uuid.New().String()
	logger := c.logger.With(zap.String("traceId", traceID))

	transactionID, ok := c.transactionID(w, r, traceID, logger)
	if !ok {
		return
	}

	// An empty body means the full amount.
	var req dto.AmountRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil && !errors.Is(err, io.EOF) {
		logger.Warn("invalid JSON body", zap.Error(err))
		commons.WriteValidationError(w, traceID, "invalid JSON body", logger, apperrors.ValidationDetail{
			Field:   "body",
			Message: "request body must be valid JSON",
		})
		return
	}

	outcome, err := op(r.Context(), transactionID, req.Amount)
	if err != nil {
		commons.WriteError(w, traceID, err, logger)
		return
	}

	commons.WriteJSON(w, http.StatusOK, toPaymentStatus(outcome), logger)
}

func (c *PaymentController) transactionID(w http.ResponseWriter, r *http.Request, traceID string, logger *zap.Logger) (string, bool) {
	id := strings.TrimSpace(chi.URLParam(r, "transactionId"))
	if id == "" {
		commons.WriteValidationError(w, traceID, "invalid transactionId", logger, apperrors.ValidationDetail{
			Field:   "transactionId",
			Message: "transactionId is required",
		})
		return "", false
	}
	return id, true
}

func (c *PaymentController) CreateRecipient(w http.ResponseWriter, r *http.Request) {
	traceID := uuid.New().String()
	logger := c.logger.With(zap.String("traceId", traceID))

	var req dto.RecipientRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		logger.Warn("invalid JSON body", zap.Error(err))
		commons.WriteValidationError(w, traceID, "invalid JSON body", logger, apperrors.ValidationDetail{
			Field:   "body",
			Message: "request body must be valid JSON",
		})
		return
	}

	var details []apperrors.ValidationDetail
	if req.Name == "" {
		details = append(details, apperrors.ValidationDetail{Field: "name", Message: "name is required"})
	}
	if req.Email == "" {
		details = append(details, apperrors.ValidationDetail{Field: "email", Message: "email is required"})
	}
	if req.Document == "" {
		details = append(details, apperrors.ValidationDetail{Field: "document", Message: "document is required"})
	}
	if req.Type != domain.CustomerTypeIndividual && req.Type != domain.CustomerTypeCorporation {
		details = append(details, apperrors.ValidationDetail{Field: "type", Message: "type must be individual or corporation"})
	}
	if req.BankAccount == nil {
		details = append(details, apperrors.ValidationDetail{Field: "bankAccount", Message: "bankAccount is required"})
	}
	if len(details) > 0 {
		commons.WriteValidationError(w, traceID, "validation failed", logger, details...)
		return
	}

	recipient, err := c.payments.CreateRecipient(r.Context(), domain.Recipient{
		Name:        req.Name,
		Email:       req.Email,
		Document:    req.Document,
		Type:        req.Type,
		BankAccount: toBankAccount(req.BankAccount),
	})
	if err != nil {
		commons.WriteError(w, traceID, err, logger)
		return
	}

	commons.WriteJSON(w, http.StatusCreated, toRecipientResponse(*recipient), logger)
}

func (c *PaymentController) GetRecipient(w http.ResponseWriter, r *http.Request) {
	traceID := uuid.New().String()
	logger := c.logger.With(zap.String("traceId", traceID))

	recipient, err := c.payments.GetRecipient(r.Context(), chi.URLParam(r, "recipientId"))
	if err != nil {
		commons.WriteError(w, traceID, err, logger)
		return
	}

	commons.WriteJSON(w, http.StatusOK, toRecipientResponse(*recipient), logger)
}

func (c *PaymentController) ListRecipients(w http.ResponseWriter, r *http.Request) {
	traceID := uuid.New().String()
	logger := c.logger.With(zap.String("traceId", traceID))

	page, size := defaultRecipientPage, defaultRecipientSize
	if raw := r.URL.Query().Get("page"); raw != "" {
		if n, err := strconv.Atoi(raw); err == nil && n > 0 {
			page = n
		}
	}
	if raw := r.URL.Query().Get("size"); raw != "" {
		if n, err := strconv.Atoi(raw); err == nil && n > 0 {
			size = n
		}
	}
	if size > maxRecipientSize {
		size = maxRecipientSize
	}

	recipients, total, err := c.payments.ListRecipients(r.Context(), page, size)
	if err != nil {
		commons.WriteError(w, traceID, err, logger)
		return
	}

	resp := dto.ListRecipientsResponse{
		Recipients: make([]dto.RecipientResponse, 0, len(recipients)),
		Total:      total,
		Page:       page,
		Size:       size,
	}
	for _, rc := range recipients {
		resp.Recipients = append(resp.Recipients, toRecipientResponse(rc))
	}
	commons.WriteJSON(w, http.StatusOK, resp, logger)
}

func toPaymentStatus(o *domain.PaymentOutcome) dto.PaymentStatusResponse {
	return dto.PaymentStatusResponse{
		TransactionID: o.ID,
		Status:        o.Status,
		RawStatus:     o.RawStatus,
	}
}

func toBankAccount(b *dto.BankAccountDTO) *domain.BankAccount {
	if b == nil {
		return nil
	}
	return &domain.BankAccount{
		HolderName:        b.HolderName,
		HolderType:        b.HolderType,
		HolderDocument:    b.HolderDocument,
		Bank:              b.Bank,
		BranchNumber:      b.BranchNumber,
		BranchCheckDigit:  b.BranchCheckDigit,
		AccountNumber:     b.AccountNumber,
		AccountCheckDigit: b.AccountCheckDigit,
		Type:              b.Type,
	}
}

func toRecipientResponse(r domain.Recipient) dto.RecipientResponse {
	resp := dto.RecipientResponse{
		ID:        r.ID,
		Name:      r.Name,
		Email:     r.Email,
		Document:  r.Document,
		Type:      r.Type,
		Status:    r.Status,
		CreatedAt: r.CreatedAt,
	}
	if b := r.BankAccount; b != nil {
		resp.BankAccount = &dto.BankAccountDTO{
			HolderName:        b.HolderName,
			HolderType:        b.HolderType,
			HolderDocument:    b.HolderDocument,
			Bank:              b.Bank,
			BranchNumber:      b.BranchNumber,
			BranchCheckDigit:  b.BranchCheckDigit,
			AccountNumber:     b.AccountNumber,
			AccountCheckDigit: b.AccountCheckDigit,
			Type:              b.Type,
		}
	}
	return resp
}
