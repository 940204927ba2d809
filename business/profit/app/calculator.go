// Package app contains the per-unit profit calculator.
package app

import (
	"strings"

	"github.com/shopspring/decimal"

	"github.com/fd1az/seller-scout/business/profit/domain"
	"github.com/fd1az/seller-scout/internal/apperror"
)

var hundred = decimal.NewFromInt(100)

// Calculator computes per-unit profit. It is stateless apart from its fee schedule.
type Calculator struct {
	fees domain.FeeSchedule
}

// NewCalculator creates a calculator using fees.
func NewCalculator(fees domain.FeeSchedule) *Calculator {
	return &Calculator{fees: fees}
}

// Calculate returns the breakdown for in. Cost and selling price must be
// positive; weight and ads budget must not be negative.
func (c *Calculator) Calculate(in domain.ProfitInput) (*domain.ProfitBreakdown, error) {
	if !in.CostPrice.IsPositive() {
		return nil, apperror.Validation(apperror.CodeInvalidCostPrice, in.CostPrice.String())
	}
	if !in.SellingPrice.IsPositive() {
		return nil, apperror.Validation(apperror.CodeInvalidSellingPrice, in.SellingPrice.String())
	}
	if in.WeightKg.IsNegative() {
		return nil, apperror.Validation(apperror.CodeInvalidInput, "weight "+in.WeightKg.String())
	}
	if in.AdsBudget.IsNegative() {
		return nil, apperror.Validation(apperror.CodeInvalidInput, "ads budget "+in.AdsBudget.String())
	}

	b := &domain.ProfitBreakdown{
		ProfitInput:    in,
		ReferralFee:    in.SellingPrice.Mul(c.fees.ReferralRate),
		FulfillmentFee: c.fees.FulfillmentFee(in.WeightKg),
		Tax:            in.SellingPrice.Mul(c.fees.TaxRate),
		Shipping:       in.WeightKg.Mul(c.fees.ShippingPerKg),
		Packaging:      c.fees.PackagingFee,
	}

	// Margin before advertising.
	contribution := in.SellingPrice.Sub(in.CostPrice).Sub(b.Fees())

	b.TotalCosts = in.CostPrice.Add(b.Fees()).Add(in.AdsBudget)
	b.NetProfitPerUnit = in.SellingPrice.Sub(b.TotalCosts)
	b.ROIPercentage = b.NetProfitPerUnit.Div(in.CostPrice).Mul(hundred)
	b.BreakEvenACOS = decimal.Max(decimal.Zero, contribution.Div(in.SellingPrice).Mul(hundred))

	return b, nil
}

// ParseInput reads decimal text for each field; blank weight or ads budget means zero.
func ParseInput(sellingPrice, costPrice, weightKg, adsBudget string) (domain.ProfitInput, error) {
	var in domain.ProfitInput
	fields := []struct {
		name     string
		text     string
		dst      *decimal.Decimal
		optional bool
	}{
		{"selling price", sellingPrice, &in.SellingPrice, false},
		{"cost price", costPrice, &in.CostPrice, false},
		{"weight", weightKg, &in.WeightKg, true},
		{"ads budget", adsBudget, &in.AdsBudget, true},
	}
	for _, f := range fields {
		text := strings.TrimSpace(f.text)
		if text == "" && f.optional {
			continue
		}
		v, err := decimal.NewFromString(text)
		if err != nil {
			return domain.ProfitInput{}, apperror.New(apperror.CodeInvalidFormat,
				apperror.WithContext(f.name),
				apperror.WithMessage("invalid "+f.name+": "+f.text),
				apperror.WithCause(err))
		}
		*f.dst = v
	}
	return in, nil
}
