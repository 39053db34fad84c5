package product

import (
	"database/sql"

	"go.uber.org/zap"

	"vitashop/internal/infrastructure/mysql"
	"vitashop/internal/inventory"
	"vitashop/internal/product/controller"
	"vitashop/internal/product/repository"
	"vitashop/internal/product/service"
	"vitashop/internal/product/usecase"
)

// Module exposes the product pieces other modules depend on.
type Module struct {
	Controller *controller.Controller
	Service    *service.ProductService
	Repository *repository.MySQLRepository
	Ledger     *inventory.Ledger
}

func NewModule(db *sql.DB, txr *mysql.TxRunner, logger *zap.Logger) *Module {
	repo := repository.NewMySQLRepository(db)
	svc := service.NewService(repo)
	ledger := inventory.NewLedger(repo, txr, logger)
	uc := usecase.NewSearchUseCase(svc)

	return &Module{
		Controller: controller.NewController(uc, ledger, logger),
		Service:    svc,
		Repository: repo,
		Ledger:     ledger,
	}
}
