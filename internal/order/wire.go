package order

import (
	"database/sql"

	"go.uber.org/zap"

	"vitashop/internal/config"
	"vitashop/internal/events"
	"vitashop/internal/infrastructure/mysql"
	"vitashop/internal/infrastructure/redis"
	"vitashop/internal/order/controller"
	orderrepo "vitashop/internal/order/repository"
	"vitashop/internal/order/service"
	"vitashop/internal/order/usecase"
	"vitashop/internal/product"
	userrepo "vitashop/internal/user/repository"
)

// Module holds the HTTP entry points of the order, payment and cart flows.
type Module struct {
	Orders   *controller.OrderController
	Payments *controller.PaymentController
	Cart     *controller.CartController
}

// Dependencies are the collaborators built once in main and shared.
type Dependencies struct {
	DB        *sql.DB
	TxRunner  *mysql.TxRunner
	Products  *product.Module
	Gateway   service.PaymentGateway
	Split     service.SplitPolicy
	Cache     redis.Cache
	Publisher events.Publisher
}

func NewModule(deps Dependencies, cfg *config.Config, logger *zap.Logger) *Module {
	orderRepo := orderrepo.NewMySQLOrderRepository(deps.DB)
	orderItemRepo := orderrepo.NewMySQLOrderItemRepository(deps.DB)
	userRepo := userrepo.NewMySQLUserRepository(deps.DB)

	reservationSvc := service.NewReservationService(
		deps.TxRunner,
		deps.Products.Repository,
		orderRepo,
		orderItemRepo,
		deps.Products.Ledger,
		logger,
	)
	orderSvc := service.NewOrderService(deps.TxRunner, orderRepo, orderItemRepo, deps.Products.Ledger, logger)
	paymentSvc := service.NewPaymentService(
		deps.Gateway,
		orderSvc,
		deps.Split,
		deps.Products.Service,
		deps.Cache,
		cfg.Payment,
		cfg.Redis.StatusTTL,
		logger,
	)

	checkout := usecase.NewCheckoutUseCase(
		userRepo,
		orderRepo,
		orderItemRepo,
		reservationSvc,
		paymentSvc,
		deps.Publisher,
		logger,
		cfg.Order.MaxRetryAttempts,
	)
	orders := usecase.NewOrderUseCase(
		orderRepo,
		orderItemRepo,
		orderSvc,
		deps.Publisher,
		logger,
		cfg.Order.DefaultPageSize,
		cfg.Order.MaxPageSize,
	)
	cart := usecase.NewCartUseCase(deps.Products.Service, logger)

	return &Module{
		Orders:   controller.NewOrderController(checkout, orders, logger),
		Payments: controller.NewPaymentController(paymentSvc, logger),
		Cart:     controller.NewCartController(cart, logger),
	}
}
