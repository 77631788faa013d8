// Package pricing holds the money rules of an order: effective unit prices,
// line totals, coupon discounts and the final total.
package pricing

import (
	"errors"

	"github.com/shopspring/decimal"
)

const moneyPlaces = 2

type Policy string

const (
	// PolicyClamp caps the discount at the subtotal.
	PolicyClamp Policy = "clamp"
	// PolicyReject refuses orders whose discount exceeds the subtotal.
	PolicyReject Policy = "reject"
)

var (
	ErrNegativeTotal = errors.New("discount exceeds subtotal")
	ErrQuantity      = errors.New("quantity must be at least 1")

	hundred = decimal.NewFromInt(100)
)

type Line struct {
	UnitPrice decimal.Decimal
	Discount  decimal.NullDecimal
	Quantity  int
}

type Totals struct {
	Subtotal    decimal.Decimal
	Discount    decimal.Decimal
	DeliveryFee decimal.Decimal
	Total       decimal.Decimal
}

func Round(d decimal.Decimal) decimal.Decimal {
	return d.Round(moneyPlaces)
}

// EffectiveUnitPrice applies a percentage discount (0-100) when one is set.
func EffectiveUnitPrice(price decimal.Decimal, discount decimal.NullDecimal) decimal.Decimal {
	if !discount.Valid || discount.Decimal.IsZero() {
		return price
	}
	factor := hundred.Sub(discount.Decimal).Div(hundred)
	return price.Mul(factor)
}

func LineTotal(l Line) (decimal.Decimal, error) {
	if l.Quantity < 1 {
		return decimal.Zero, ErrQuantity
	}
	return Round(EffectiveUnitPrice(l.UnitPrice, l.Discount).Mul(decimal.NewFromInt(int64(l.Quantity)))), nil
}

// Subtotal sums rounded line totals, so it always equals the sum of the stored item prices.
func Subtotal(lines []Line) (decimal.Decimal, []decimal.Decimal, error) {
	sum := decimal.Zero
	totals := make([]decimal.Decimal, 0, len(lines))
	for _, l := range lines {
		lt, err := LineTotal(l)
		if err != nil {
			return decimal.Zero, nil, err
		}
		totals = append(totals, lt)
		sum = sum.Add(lt)
	}
	return sum, totals, nil
}

func Compute(subtotal, discount, deliveryFee decimal.Decimal, policy Policy) (Totals, error) {
	discount = Round(discount)
	if discount.IsNegative() {
		discount = decimal.Zero
	}
	if discount.GreaterThan(subtotal) {
		if policy == PolicyReject {
			return Totals{}, ErrNegativeTotal
		}
		discount = subtotal
	}

	return Totals{
		Subtotal:    subtotal,
		Discount:    discount,
		DeliveryFee: deliveryFee,
		Total:       subtotal.Sub(discount).Add(deliveryFee),
	}, nil
}
