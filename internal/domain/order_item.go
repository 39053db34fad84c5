package domain

import "github.com/shopspring/decimal"

type OrderItem struct {
	ID        uint
	OrderID   uint
	ProductID int
	Quantity  int
	UnitPrice decimal.Decimal
	Discount  decimal.Decimal
	Total     decimal.Decimal
}
