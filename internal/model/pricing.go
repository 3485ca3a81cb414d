package model

import (
	"github.com/samber/lo"
	"github.com/shopspring/decimal"
)

// TaxRate is flat and applies to the subtotal only.
var TaxRate = decimal.RequireFromString("0.05")

type Totals struct {
	Subtotal    decimal.Decimal
	DeliveryFee decimal.Decimal
	Tax         decimal.Decimal
	Discount    decimal.Decimal
	Total       decimal.Decimal
}

// LineTotal is (unit price + sum of customization prices) x quantity.
func LineTotal(item OrderItem) decimal.Decimal {
	extras := lo.Reduce(item.Customizations, func(acc decimal.Decimal, c Customization, _ int) decimal.Decimal {
		return acc.Add(c.Price)
	}, decimal.Zero)

	return item.UnitPrice.Add(extras).Mul(decimal.NewFromInt(int64(item.Quantity)))
}

// CalculateTotals prices a set of order lines. Tax is rounded to taxScale
// decimal places; the remaining figures are exact.
func CalculateTotals(items []OrderItem, deliveryFee decimal.Decimal, taxScale int32) Totals {
	subtotal := lo.Reduce(items, func(acc decimal.Decimal, item OrderItem, _ int) decimal.Decimal {
		return acc.Add(LineTotal(item))
	}, decimal.Zero)

	tax := subtotal.Mul(TaxRate).Round(taxScale)
	discount := decimal.Zero

	return Totals{
		Subtotal:    subtotal,
		DeliveryFee: deliveryFee,
		Tax:         tax,
		Discount:    discount,
		Total:       subtotal.Add(deliveryFee).Add(tax).Sub(discount),
	}
}
