// Package pricing computes order totals with exact decimal arithmetic.
package pricing

import (
	"fmt"

	"github.com/shopspring/decimal"

	"vitashop/internal/domain"
	apperrors "vitashop/internal/errors"
)

var hundred = decimal.NewFromInt(100)

type LineInput struct {
	ProductID int
	Quantity  int
	Discount  decimal.Decimal
}

type Line struct {
	ProductID int
	Quantity  int
	UnitPrice decimal.Decimal
	Discount  decimal.Decimal
	Total     decimal.Decimal
}

type Totals struct {
	Lines        []Line
	Subtotal     decimal.Decimal
	ShippingCost decimal.Decimal
	Tax          decimal.Decimal
	Total        decimal.Decimal
}

// Calculate prices every line against the persisted unit price of its product.
// The zero decimal.Decimal is a valid zero, so unset discount, shipping and tax
// need no special casing.
func Calculate(lines []LineInput, products map[int]domain.Product, shippingCost, tax decimal.Decimal) (*Totals, error) {
	if shippingCost.IsNegative() {
		return nil, apperrors.NewValidationError("shippingCost must be non-negative", apperrors.ValidationDetail{
			Field:   "shippingCost",
			Message: "shippingCost must be non-negative",
		})
	}
	if tax.IsNegative() {
		return nil, apperrors.NewValidationError("tax must be non-negative", apperrors.ValidationDetail{
			Field:   "tax",
			Message: "tax must be non-negative",
		})
	}

	totals := &Totals{
		Lines:        make([]Line, 0, len(lines)),
		Subtotal:     decimal.Zero,
		ShippingCost: shippingCost,
		Tax:          tax,
	}

	for idx, in := range lines {
		product, ok := products[in.ProductID]
		if !ok || product.IsDeleted() {
			return nil, apperrors.NewProductNotFoundError(in.ProductID)
		}
		if product.HasExternalURL() {
			return nil, apperrors.NewProductNotOrderableError(in.ProductID, domain.ReasonExternalURL)
		}
		if !product.Price.Valid {
			return nil, apperrors.NewProductNotOrderableError(in.ProductID, domain.ReasonNoPrice)
		}

		line, err := priceLine(idx, in, product.Price.Decimal)
		if err != nil {
			return nil, err
		}

		totals.Lines = append(totals.Lines, line)
		totals.Subtotal = totals.Subtotal.Add(line.Total)
	}

	totals.Total = totals.Subtotal.Add(shippingCost).Add(tax)
	return totals, nil
}

func priceLine(idx int, in LineInput, unitPrice decimal.Decimal) (Line, error) {
	field := fmt.Sprintf("items[%d].discount", idx)

	if in.Quantity < 1 {
		return Line{}, apperrors.NewValidationError("quantity must be positive", apperrors.ValidationDetail{
			Field:   fmt.Sprintf("items[%d].quantity", idx),
			Message: "quantity must be a positive integer",
		})
	}
	if in.Discount.IsNegative() {
		return Line{}, apperrors.NewValidationError("discount must be non-negative", apperrors.ValidationDetail{
			Field:   field,
			Message: "discount must be non-negative",
		})
	}

	gross := unitPrice.Mul(decimal.NewFromInt(int64(in.Quantity)))
	if in.Discount.GreaterThan(gross) {
		return Line{}, apperrors.NewValidationError("discount exceeds item amount", apperrors.ValidationDetail{
			Field:   field,
			Message: "discount must not exceed unitPrice x quantity",
		})
	}

	return Line{
		ProductID: in.ProductID,
		Quantity:  in.Quantity,
		UnitPrice: unitPrice,
		Discount:  in.Discount,
		Total:     gross.Sub(in.Discount),
	}, nil
}

// ToMinorUnits converts a currency amount to integer cents, rounding half away from zero.
func ToMinorUnits(amount decimal.Decimal) int64 {
	return amount.Mul(hundred).Round(0).IntPart()
}
