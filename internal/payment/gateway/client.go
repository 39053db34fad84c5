// Package gateway adapts the external payment gateway to the order flow.
package gateway

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"go.uber.org/zap"

	"vitashop/internal/config"
	"vitashop/internal/domain"
	apperrors "vitashop/internal/errors"
)

const secretKeyPrefix = "sk_"

type Client struct {
	baseURL             string
	secretKey           string
	statementDescriptor string
	httpClient          *http.Client
	logger              *zap.Logger
}

func NewClient(cfg config.PaymentConfig, logger *zap.Logger) *Client {
	timeout := cfg.Timeout
	if timeout <= 0 {
		timeout = 30 * time.Second
	}

	return &Client{
		baseURL:             strings.TrimRight(cfg.BaseURL, "/"),
		secretKey:           cfg.SecretKey,
		statementDescriptor: cfg.StatementDescriptor,
		httpClient: &http.Client{
			Timeout: timeout,
		},
		logger: logger,
	}
}

// CreateOrder charges the card in req and returns the normalized outcome. A
// declined card is not an error here; callers inspect the outcome status.
func (c *Client) CreateOrder(ctx context.Context, req domain.PaymentRequest) (*domain.PaymentOutcome, error) {
	body, err := c.buildOrderRequest(req)
	if err != nil {
		return nil, err
	}

	var resp orderResponse
	if err := c.do(ctx, http.MethodPost, "/orders", body, &resp); err != nil {
		return nil, err
	}

	outcome := normalize(resp, c.logger)
	c.logger.Info("gateway order created",
		zap.String("code", req.Code),
		zap.String("transactionId", outcome.ID),
		zap.String("status", outcome.Status),
		zap.String("rawStatus", outcome.RawStatus),
	)
	return &outcome, nil
}

func (c *Client) GetCharge(ctx context.Context, chargeID string) (*domain.PaymentOutcome, error) {
	var resp chargeResponse
	if err := c.do(ctx, http.MethodGet, "/charges/"+url.PathEscape(chargeID), nil, &resp); err != nil {
		return nil, err
	}

	outcome := normalizeCharge(resp, c.logger)
	return &outcome, nil
}

// CaptureCharge captures a pre-authorized charge. A nil amount captures the
// full authorized value.
func (c *Client) CaptureCharge(ctx context.Context, chargeID string, amountCents *int64) (*domain.PaymentOutcome, error) {
	var resp chargeResponse
	path := "/charges/" + url.PathEscape(chargeID) + "/capture"
	if err := c.do(ctx, http.MethodPost, path, amountRequest{Amount: amountCents}, &resp); err != nil {
		return nil, err
	}

	outcome := normalizeCharge(resp, c.logger)
	return &outcome, nil
}

// RefundCharge cancels a charge. A nil amount refunds the full value.
func (c *Client) RefundCharge(ctx context.Context, chargeID string, amountCents *int64) (*domain.PaymentOutcome, error) {
	var resp chargeResponse
	if err := c.do(ctx, http.MethodDelete, "/charges/"+url.PathEscape(chargeID), amountRequest{Amount: amountCents}, &resp); err != nil {
		return nil, err
	}

	outcome := normalizeCharge(resp, c.logger)
	return &outcome, nil
}

func (c *Client) CreateRecipient(ctx context.Context, r domain.Recipient) (*domain.Recipient, error) {
	var resp recipientPayload
	if err := c.do(ctx, http.MethodPost, "/recipients", toRecipientPayload(r), &resp); err != nil {
		return nil, err
	}

	out := fromRecipientPayload(resp)
	return &out, nil
}

func (c *Client) GetRecipient(ctx context.Context, recipientID string) (*domain.Recipient, error) {
	var resp recipientPayload
	if err := c.do(ctx, http.MethodGet, "/recipients/"+url.PathEscape(recipientID), nil, &resp); err != nil {
		return nil, err
	}

	out := fromRecipientPayload(resp)
	return &out, nil
}

func (c *Client) ListRecipients(ctx context.Context, page, size int) ([]domain.Recipient, int, error) {
	q := url.Values{}
	q.Set("page", strconv.Itoa(page))
	q.Set("size", strconv.Itoa(size))

	var resp recipientList
	if err := c.do(ctx, http.MethodGet, "/recipients?"+q.Encode(), nil, &resp); err != nil {
		return nil, 0, err
	}

	recipients := make([]domain.Recipient, 0, len(resp.Data))
	for _, r := range resp.Data {
		recipients = append(recipients, fromRecipientPayload(r))
	}
	return recipients, resp.Paging.Total, nil
}

func (c *Client) checkCredentials() error {
	if c.secretKey == "" {
		return apperrors.NewGatewayError(apperrors.GatewayMisconfigured, "payment gateway secret key is not configured", nil)
	}
	if !strings.HasPrefix(c.secretKey, secretKeyPrefix) {
		return apperrors.NewGatewayError(apperrors.GatewayMisconfigured,
			fmt.Sprintf("payment gateway secret key must start with %q", secretKeyPrefix), nil)
	}
	return nil
}

func (c *Client) buildOrderRequest(req domain.PaymentRequest) (*orderRequest, error) {
	if err := c.checkCredentials(); err != nil {
		return nil, err
	}

	cust := req.Customer
	if cust.Type == "" {
		cust.Type = customerTypeFor(cust.Document)
	}
	if cust.Type == domain.CustomerTypeIndividual && strings.TrimSpace(cust.Document) == "" {
		return nil, apperrors.NewValidationError("customer document is required", apperrors.ValidationDetail{
			Field:   "customer.document",
			Message: "individual customers must have a document number",
		})
	}
	if req.AmountCents <= 0 {
		return nil, apperrors.NewValidationError("amount must be positive", apperrors.ValidationDetail{
			Field:   "amount",
			Message: "amount must be greater than zero",
		})
	}

	billing := toAddress(req.BillingAddress)

	items := make([]item, 0, len(req.Items))
	for _, li := range req.Items {
		items = append(items, item{
			Code:        li.ID,
			Description: li.Title,
			Amount:      li.UnitPriceCents,
			Quantity:    li.Quantity,
		})
	}

	var split []splitInstruction
	for _, rule := range req.Split {
		if strings.TrimSpace(rule.RecipientID) == "" {
			c.logger.Warn("dropping split rule without recipient", zap.Int("percentage", rule.Percentage))
			continue
		}
		split = append(split, splitInstruction{
			Amount:      rule.Percentage,
			RecipientID: rule.RecipientID,
			Type:        "percentage",
			Options: splitOptions{
				ChargeProcessingFee: rule.ChargeProcessingFee,
				ChargeRemainderFee:  rule.ChargeRemainderFee,
				Liable:              rule.Liable,
			},
		})
	}

	installments := req.Card.Installments
	if installments < 1 {
		installments = 1
	}

	return &orderRequest{
		Code: req.Code,
		Customer: customer{
			Name:         cust.Name,
			Email:        cust.Email,
			Type:         cust.Type,
			Document:     cust.Document,
			DocumentType: documentTypeFor(cust.Document),
			Phones:       phones{MobilePhone: splitPhone(cust.Phone)},
			Address:      &billing,
		},
		Items: items,
		Payments: []payment{
			{
				PaymentMethod: domain.PaymentMethodCreditCard,
				Amount:        req.AmountCents,
				CreditCard: creditCardPayment{
					Installments:        installments,
					StatementDescriptor: c.statementDescriptor,
					Card: card{
						Number:         req.Card.Number,
						HolderName:     req.Card.HolderName,
						ExpMonth:       req.Card.ExpMonth,
						ExpYear:        req.Card.ExpYear,
						CVV:            req.Card.CVV,
						BillingAddress: billing,
					},
				},
				Split: split,
			},
		},
		Metadata: req.Metadata,
	}, nil
}

func (c *Client) do(ctx context.Context, method, path string, payload interface{}, out interface{}) error {
	if err := c.checkCredentials(); err != nil {
		return err
	}

	var body io.Reader
	if payload != nil {
		data, err := json.Marshal(payload)
		if err != nil {
			return apperrors.NewGatewayError(apperrors.GatewayMalformed, "encoding request", err)
		}
		body = bytes.NewReader(data)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, body)
	if err != nil {
		return apperrors.NewGatewayError(apperrors.GatewayTransport, "building request", err)
	}
	req.SetBasicAuth(c.secretKey, "")
	req.Header.Set("Accept", "application/json")
	if payload != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	start := time.Now()
	resp, err := c.httpClient.Do(req)
	if err != nil {
		return apperrors.NewGatewayError(apperrors.GatewayTransport, fmt.Sprintf("%s %s", method, path), err)
	}
	defer resp.Body.Close()

	respBody, err := io.ReadAll(resp.Body)
	if err != nil {
		return apperrors.NewGatewayError(apperrors.GatewayTransport, "reading response", err)
	}

	c.logger.Debug("gateway call",
		zap.String("method", method),
		zap.String("path", path),
		zap.Int("status", resp.StatusCode),
		zap.Duration("elapsed", time.Since(start)),
	)

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		gerr := responseError(resp.StatusCode, respBody)
		c.logger.Warn("gateway rejected request",
			zap.String("path", path),
			zap.Int("status", resp.StatusCode),
			zap.String("kind", string(gerr.Kind)),
			zap.String("message", gerr.Message),
		)
		return gerr
	}

	if out == nil || len(respBody) == 0 {
		return nil
	}
	if err := json.Unmarshal(respBody, out); err != nil {
		return apperrors.NewGatewayError(apperrors.GatewayMalformed, "decoding response", err)
	}
	return nil
}

func toAddress(a domain.Address) address {
	return address{
		Line1:   a.Line1,
		Line2:   a.Line2,
		ZipCode: a.ZipCode,
		City:    a.City,
		State:   a.State,
		Country: a.Country,
	}
}

func customerTypeFor(document string) string {
	if len(document) == 14 {
		return domain.CustomerTypeCorporation
	}
	return domain.CustomerTypeIndividual
}

func documentTypeFor(document string) string {
	if len(document) == 14 {
		return "CNPJ"
	}
	return "CPF"
}

// splitPhone breaks a digits-only number into the gateway's three parts,
// assuming the Brazilian country code when none is present.
func splitPhone(digits string) phone {
	switch {
	case len(digits) >= 12 && strings.HasPrefix(digits, "55"):
		return phone{CountryCode: "55", AreaCode: digits[2:4], Number: digits[4:]}
	case len(digits) == 10 || len(digits) == 11:
		return phone{CountryCode: "55", AreaCode: digits[:2], Number: digits[2:]}
	default:
		return phone{CountryCode: "55", Number: digits}
	}
}

func toRecipientPayload(r domain.Recipient) recipientPayload {
	p := recipientPayload{
		Name:     r.Name,
		Email:    r.Email,
		Document: r.Document,
		Type:     r.Type,
	}
	if r.BankAccount != nil {
		p.DefaultBankAccount = &bankAccount{
			HolderName:        r.BankAccount.HolderName,
			HolderType:        r.BankAccount.HolderType,
			HolderDocument:    r.BankAccount.HolderDocument,
			Bank:              r.BankAccount.Bank,
			BranchNumber:      r.BankAccount.BranchNumber,
			BranchCheckDigit:  r.BankAccount.BranchCheckDigit,
			AccountNumber:     r.BankAccount.AccountNumber,
			AccountCheckDigit: r.BankAccount.AccountCheckDigit,
			Type:              r.BankAccount.Type,
		}
	}
	return p
}

func fromRecipientPayload(p recipientPayload) domain.Recipient {
	r := domain.Recipient{
		ID:        p.ID,
		Name:      p.Name,
		Email:     p.Email,
		Document:  p.Document,
		Type:      p.Type,
		Status:    p.Status,
		CreatedAt: p.CreatedAt,
	}
	if p.DefaultBankAccount != nil {
		r.BankAccount = &domain.BankAccount{
			HolderName:        p.DefaultBankAccount.HolderName,
			HolderType:        p.DefaultBankAccount.HolderType,
			HolderDocument:    p.DefaultBankAccount.HolderDocument,
			Bank:              p.DefaultBankAccount.Bank,
			BranchNumber:      p.DefaultBankAccount.BranchNumber,
			BranchCheckDigit:  p.DefaultBankAccount.BranchCheckDigit,
			AccountNumber:     p.DefaultBankAccount.AccountNumber,
			AccountCheckDigit: p.DefaultBankAccount.AccountCheckDigit,
			Type:              p.DefaultBankAccount.Type,
		}
	}
	return r
}
