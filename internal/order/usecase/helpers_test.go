package usecase

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"vitashop/internal/config"
	"vitashop/internal/domain"
	"vitashop/internal/events"
	"vitashop/internal/infrastructure/redis"
	"vitashop/internal/inventory"
	"vitashop/internal/order/service"
	"vitashop/internal/pricing"
	productservice "vitashop/internal/product/service"
	"vitashop/internal/testutil"
)

func intPtr(i int) *int {
	return &i
}

func strPtr(s string) *string {
	return &s
}

func price(s string) decimal.NullDecimal {
	return decimal.NewNullDecimal(decimal.RequireFromString(s))
}

type stubGateway struct {
	outcome *domain.PaymentOutcome
	err     error
	calls   int
	last    domain.PaymentRequest
}

func (g *stubGateway) CreateOrder(ctx context.Context, req domain.PaymentRequest) (*domain.PaymentOutcome, error) {
	g.calls++
	g.last = req
	return g.outcome, g.err
}

func (g *stubGateway) GetCharge(ctx context.Context, chargeID string) (*domain.PaymentOutcome, error) {
	return g.outcome, g.err
}

func (g *stubGateway) CaptureCharge(ctx context.Context, chargeID string, amountCents *int64) (*domain.PaymentOutcome, error) {
	return g.outcome, g.err
}

func (g *stubGateway) RefundCharge(ctx context.Context, chargeID string, amountCents *int64) (*domain.PaymentOutcome, error) {
	return g.outcome, g.err
}

func (g *stubGateway) CreateRecipient(ctx context.Context, r domain.Recipient) (*domain.Recipient, error) {
	return &r, g.err
}

func (g *stubGateway) GetRecipient(ctx context.Context, recipientID string) (*domain.Recipient, error) {
	return &domain.Recipient{ID: recipientID}, g.err
}

func (g *stubGateway) ListRecipients(ctx context.Context, page, size int) ([]domain.Recipient, int, error) {
	return nil, 0, g.err
}

type noSplit struct{}

func (noSplit) Rules(ctx context.Context) ([]domain.SplitRule, error) {
	return nil, nil
}

type recordingPublisher struct {
	mu     sync.Mutex
	events []events.OrderEvent
}

func (p *recordingPublisher) Publish(ctx context.Context, event events.OrderEvent) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.events = append(p.events, event)
	return nil
}

func (p *recordingPublisher) Close() error {
	return nil
}

func (p *recordingPublisher) types() []string {
	p.mu.Lock()
	defer p.mu.Unlock()
	out := make([]string, 0, len(p.events))
	for _, e := range p.events {
		out = append(out, e.Type)
	}
	return out
}

// harness wires the real services over an in-memory store with a stubbed
// gateway.
type harness struct {
	store     *testutil.MemoryStore
	gateway   *stubGateway
	publisher *recordingPublisher
	checkout  *CheckoutUseCase
	orders    *OrderUseCase
}

func newHarness() *harness {
	store := testutil.NewMemoryStore()
	logger := zap.NewNop()
	ledger := inventory.NewLedger(store.Products(), store, logger)
	reservations := service.NewReservationService(store, store.Products(), store.Orders(), store.Items(), ledger, logger)
	orderSvc := service.NewOrderService(store, store.Orders(), store.Items(), ledger, logger)

	gw := &stubGateway{}
	payments := service.NewPaymentService(
		gw,
		orderSvc,
		noSplit{},
		productservice.NewService(store.Products()),
		redis.NopCache{},
		config.PaymentConfig{DefaultCountry: "BR", PlaceholderPhone: "5511999999999"},
		time.Minute,
		logger,
	)
	pub := &recordingPublisher{}

	checkout := NewCheckoutUseCase(store.Users(), store.Orders(), store.Items(), reservations, payments, pub, logger, 3)
	checkout.backoffs = nil

	store.AddUser(domain.User{ID: 1, Email: strPtr("ana@example.com"), FirstName: "Ana", Document: strPtr("12345678909")})
	store.AddUser(domain.User{ID: 2, Email: strPtr("bruno@example.com"), FirstName: "Bruno", Document: strPtr("98765432100")})

	return &harness{
		store:     store,
		gateway:   gw,
		publisher: pub,
		checkout:  checkout,
		orders:    NewOrderUseCase(store.Orders(), store.Items(), orderSvc, pub, logger, 10, 100),
	}
}

func (h *harness) createPending(t *testing.T, userID, productID, quantity int) *domain.Order {
	t.Helper()
	order, err := h.checkout.CreateOrder(context.Background(), CreateOrderInput{
		Draft: service.OrderDraft{
			UserID: userID,
			Lines:  []pricing.LineInput{{ProductID: productID, Quantity: quantity}},
		},
	})
	require.NoError(t, err)
	return order
}

var testCard = domain.CardData{Number: "4111111111111111", HolderName: "ANA", ExpMonth: 12, ExpYear: 2030, CVV: "123"}

var testBilling = domain.Address{Line1: "Rua A, 1", ZipCode: "01001000", City: "Sao Paulo", State: "SP"}
