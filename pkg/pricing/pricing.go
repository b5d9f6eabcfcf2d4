// Package pricing turns the raw attributes of a delivery order into the
// charged amount.
package pricing

import (
	"strings"

	"github.com/shopspring/decimal"
)

// StatusCalculated is the delivery status assigned to freshly priced orders.
const StatusCalculated = "calculated"

var (
	surchargeRate     = decimal.RequireFromString("0.20")
	discountRate      = decimal.RequireFromString("0.10")
	extraFee          = decimal.NewFromInt(15)
	heavyWeightKg     = decimal.NewFromInt(50)
	discountThreshold = decimal.NewFromInt(500)
)

// Input holds the attributes the price depends on.
type Input struct {
	DistanceKm   decimal.Decimal
	WeightKg     decimal.Decimal
	RateDistance decimal.Decimal
	RateWeight   decimal.Decimal
	DeliveryType string
}

// Result is the full pricing breakdown persisted next to an order.
type Result struct {
	DistanceCharge decimal.Decimal `json:"distanceCharge"`
	WeightCharge   decimal.Decimal `json:"weightCharge"`
	Surcharge      decimal.Decimal `json:"surcharge"`
	Discount       decimal.Decimal `json:"discount"`
	ExtraFee       decimal.Decimal `json:"extraFee"`
	Total          decimal.Decimal `json:"finalTotal"`
	Status         string          `json:"deliveryStatus"`
}

// Compute prices an order. Surcharge and discount are percentages of the base
// total, but they are applied after the heavy-weight fee, in this order:
// weight fee, urgency surcharge, high-value discount.
func Compute(in Input) Result {
	distanceCharge := money(in.DistanceKm.Mul(in.RateDistance))
	weightCharge := money(in.WeightKg.Mul(in.RateWeight))
	base := distanceCharge.Add(weightCharge)
	surcharge := money(base.Mul(surchargeRate))
	discount := money(base.Mul(discountRate))

	total := base
	if in.WeightKg.GreaterThan(heavyWeightKg) {
		total = total.Add(extraFee)
	}
	if IsUrgent(in.DeliveryType) {
		total = total.Add(surcharge)
	}
	if total.GreaterThanOrEqual(discountThreshold) {
		total = total.Sub(discount)
	}

	return Result{
		DistanceCharge: distanceCharge,
		WeightCharge:   weightCharge,
		Surcharge:      surcharge,
		Discount:       discount,
		ExtraFee:       extraFee,
		Total:          total,
		Status:         StatusCalculated,
	}
}

// IsUrgent reports whether the delivery type earns the urgency surcharge.
func IsUrgent(deliveryType string) bool {
	return strings.EqualFold(deliveryType, "urgent") || strings.EqualFold(deliveryType, "urgente")
}

func money(d decimal.Decimal) decimal.Decimal {
	return d.Round(2)
}
