// Package domain contains the core domain types for the catalog context.
package domain

import (
	"fmt"
	"math"
	"math/big"
	"time"

	"github.com/shopspring/decimal"

	"github.com/fd1az/seller-scout/internal/apperror"
)

// SellerType is the fulfilment channel of a listing.
type SellerType string

const (
	SellerTypeFBA             SellerType = "fba"
	SellerTypeEasyShip        SellerType = "easyShip"
	SellerTypeSellerFulfilled SellerType = "sellerFulfilled"
)

// Valid reports whether t is a known fulfilment channel.
func (t SellerType) Valid() bool {
	switch t {
	case SellerTypeFBA, SellerTypeEasyShip, SellerTypeSellerFulfilled:
		return true
	}
	return false
}

// Image is a media asset reference.
type Image struct {
	URL string
}

// ProductTrend holds externally computed growth signals.
type ProductTrend struct {
	RisingStar            bool
	ReviewGrowthSpike     bool
	PriceIncreaseTrend    bool
	SeasonalDemandPattern bool
}

// Any reports whether at least one signal is set.
func (t ProductTrend) Any() bool {
	return t.RisingStar || t.ReviewGrowthSpike || t.PriceIncreaseTrend || t.SeasonalDemandPattern
}

// Product is a marketplace listing as fetched from the catalog. Values are
// immutable for the lifetime of a fetch.
type Product struct {
	ID                    string
	Title                 string
	Category              string
	Subcategory           string
	Brand                 string
	Price                 decimal.Decimal // INR
	MRP                   decimal.Decimal // list price, INR
	Rating                float64         // 0.0 - 5.0
	ReviewCount           uint64
	BSR                   uint64 // best seller rank, lower is better, 0 = unranked
	EstimatedMonthlySales uint64
	Margin                float64 // fraction, 0.30 = 30%
	AvailableStock        uint64
	SellerType            SellerType
	LastModified          time.Time
	Images                []Image

	// WeightKg is set only when the catalog knows the shipping weight.
	WeightKg *float64
	// Trend is set only when growth signals were supplied for this product.
	Trend *ProductTrend
}

// MonthlyRevenue returns price times estimated monthly unit sales.
func (p Product) MonthlyRevenue() decimal.Decimal {
	return p.Price.Mul(Count(p.EstimatedMonthlySales))
}

// Discount returns the fraction below MRP the product sells at, or zero when
// MRP is missing or not above the price.
func (p Product) Discount() decimal.Decimal {
	if !p.MRP.IsPositive() || p.MRP.LessThanOrEqual(p.Price) {
		return decimal.Zero
	}
	return p.MRP.Sub(p.Price).Div(p.MRP)
}

// Validate checks the record invariants.
func (p Product) Validate() error {
	switch {
	case p.ID == "":
		return invalid("id", "must not be empty")
	case !p.Price.IsPositive():
		return invalid(p.ID, "price must be positive")
	case p.MRP.IsNegative():
		return invalid(p.ID, "mrp must not be negative")
	case !finite(p.Rating) || p.Rating < 0 || p.Rating > 5:
		return invalid(p.ID, fmt.Sprintf("rating %v outside [0, 5]", p.Rating))
	case !finite(p.Margin):
		return invalid(p.ID, "margin must be finite")
	case p.SellerType != "" && !p.SellerType.Valid():
		return invalid(p.ID, fmt.Sprintf("unknown seller type %q", p.SellerType))
	case p.WeightKg != nil && (!finite(*p.WeightKg) || *p.WeightKg < 0):
		return invalid(p.ID, "weight must be a non-negative number")
	}
	return nil
}

// Count converts an unsigned counter to an exact decimal.
func Count(n uint64) decimal.Decimal {
	return decimal.NewFromBigInt(new(big.Int).SetUint64(n), 0)
}

func invalid(id, reason string) error {
	return apperror.New(apperror.CodeInvalidProduct,
		apperror.WithContext(id),
		apperror.WithMessage("invalid product: "+reason))
}

func finite(f float64) bool {
	return !math.IsNaN(f) && !math.IsInf(f, 0)
}
