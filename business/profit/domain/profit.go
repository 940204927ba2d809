// Package domain contains the fee schedule and profit types for the profit context.
package domain

import (
	"github.com/shopspring/decimal"
)

// ProfitInput is a per-unit what-if for selling one product. Amounts are INR.
type ProfitInput struct {
	SellingPrice decimal.Decimal
	CostPrice    decimal.Decimal
	WeightKg     decimal.Decimal
	AdsBudget    decimal.Decimal // per unit
}

// FulfillmentTier charges Fee for weights up to and including MaxWeightKg.
type FulfillmentTier struct {
	MaxWeightKg decimal.Decimal
	Fee         decimal.Decimal
}

// FeeSchedule is the marketplace fee policy applied by the calculator.
type FeeSchedule struct {
	ReferralRate decimal.Decimal
	TaxRate      decimal.Decimal

	// Tiers are ordered by MaxWeightKg. Heavier items pay HeavyBaseFee plus
	// HeavyPerKgFee for every kilogram above HeavyFromKg.
	Tiers         []FulfillmentTier
	HeavyBaseFee  decimal.Decimal
	HeavyFromKg   decimal.Decimal
	HeavyPerKgFee decimal.Decimal

	ShippingPerKg decimal.Decimal
	PackagingFee  decimal.Decimal
}

// DefaultFeeSchedule returns the flat-rate approximation of marketplace fees.
func DefaultFeeSchedule() FeeSchedule {
	return FeeSchedule{
		ReferralRate: decimal.RequireFromString("0.15"),
		TaxRate:      decimal.RequireFromString("0.18"),
		Tiers: []FulfillmentTier{
			{MaxWeightKg: decimal.RequireFromString("0.5"), Fee: decimal.NewFromInt(35)},
			{MaxWeightKg: decimal.NewFromInt(1), Fee: decimal.NewFromInt(45)},
		},
		HeavyBaseFee:  decimal.NewFromInt(55),
		HeavyFromKg:   decimal.NewFromInt(1),
		HeavyPerKgFee: decimal.NewFromInt(10),
		ShippingPerKg: decimal.NewFromInt(20),
		PackagingFee:  decimal.NewFromInt(15),
	}
}

// FulfillmentFee returns the weight-staged fulfilment fee.
func (s FeeSchedule) FulfillmentFee(weightKg decimal.Decimal) decimal.Decimal {
	for _, tier := range s.Tiers {
		if weightKg.LessThanOrEqual(tier.MaxWeightKg) {
			return tier.Fee
		}
	}
	return s.HeavyBaseFee.Add(weightKg.Sub(s.HeavyFromKg).Mul(s.HeavyPerKgFee))
}

// ProfitBreakdown itemises the per-unit economics of a ProfitInput.
type ProfitBreakdown struct {
	ProfitInput

	ReferralFee    decimal.Decimal
	FulfillmentFee decimal.Decimal
	Tax            decimal.Decimal
	Shipping       decimal.Decimal
	Packaging      decimal.Decimal
	TotalCosts     decimal.Decimal

	// NetProfitPerUnit and ROIPercentage are negative for a loss.
	NetProfitPerUnit decimal.Decimal
	ROIPercentage    decimal.Decimal
	// BreakEvenACOS is the ad spend share of the selling price at which the unit breaks even, floored at zero.
	BreakEvenACOS decimal.Decimal
}

// IsProfitable reports a strictly positive net profit.
func (b ProfitBreakdown) IsProfitable() bool {
	return b.NetProfitPerUnit.IsPositive()
}

// Fees returns the marketplace charges excluding product cost and ads.
func (b ProfitBreakdown) Fees() decimal.Decimal {
	return b.ReferralFee.Add(b.FulfillmentFee).Add(b.Tax).Add(b.Shipping).Add(b.Packaging)
}
