// Package domain contains the filter specification types for the screening context.
package domain

import (
	"github.com/shopspring/decimal"

	"github.com/fd1az/seller-scout/internal/apperror"
)

// MoneyRange is an inclusive INR range with Min <= Max.
type MoneyRange struct {
	Min decimal.Decimal
	Max decimal.Decimal
}

// NewMoneyRange returns a range or an error when min exceeds max.
func NewMoneyRange(min, max decimal.Decimal) (*MoneyRange, error) {
	if min.GreaterThan(max) {
		return nil, apperror.Validation(apperror.CodeInvalidRange, min.String()+" > "+max.String())
	}
	return &MoneyRange{Min: min, Max: max}, nil
}

// Contains reports Min <= v <= Max.
func (r MoneyRange) Contains(v decimal.Decimal) bool {
	return v.GreaterThanOrEqual(r.Min) && v.LessThanOrEqual(r.Max)
}

// CountRange is an inclusive range over unsigned counters with Min <= Max.
type CountRange struct {
	Min uint64
	Max uint64
}

// NewCountRange returns a range or an error when min exceeds max.
func NewCountRange(min, max uint64) (*CountRange, error) {
	if min > max {
		return nil, apperror.Validation(apperror.CodeInvalidRange, "count range")
	}
	return &CountRange{Min: min, Max: max}, nil
}

// Contains reports Min <= v <= Max.
func (r CountRange) Contains(v uint64) bool {
	return v >= r.Min && v <= r.Max
}

// Preferences are the boolean toggles that each add a required predicate.
type Preferences struct {
	Lightweight      bool
	NonBranded       bool
	LowCompetition   bool // "low FBA count"
	HighReviewGrowth bool
	HighMargin       bool
}

// Any reports whether any toggle is on.
func (p Preferences) Any() bool {
	return p.Lightweight || p.NonBranded || p.LowCompetition || p.HighReviewGrowth || p.HighMargin
}

// FilterSpec is a validated filter specification. Absent criteria are nil or
// empty, and an absent criterion always passes. A FilterSpec is never mutated;
// the With helpers return modified copies.
type FilterSpec struct {
	Category        string
	Subcategory     string
	Price           *MoneyRange
	RatingThreshold *float64
	ReviewCountMax  *uint64
	BSR             *CountRange
	MonthlyRevenue  *MoneyRange

	Preferences
}

// HasActiveFilters reports whether any criterion is present or any toggle is on.
func (s FilterSpec) HasActiveFilters() bool {
	return s.Category != "" ||
		s.Subcategory != "" ||
		s.Price != nil ||
		s.RatingThreshold != nil ||
		s.ReviewCountMax != nil ||
		s.BSR != nil ||
		s.MonthlyRevenue != nil ||
		s.Preferences.Any()
}

// Equal compares two specifications field by field, money by decimal value.
func (s FilterSpec) Equal(o FilterSpec) bool {
	return s.Category == o.Category &&
		s.Subcategory == o.Subcategory &&
		moneyEqual(s.Price, o.Price) &&
		ptrEqual(s.RatingThreshold, o.RatingThreshold) &&
		ptrEqual(s.ReviewCountMax, o.ReviewCountMax) &&
		ptrEqual(s.BSR, o.BSR) &&
		moneyEqual(s.MonthlyRevenue, o.MonthlyRevenue) &&
		s.Preferences == o.Preferences
}

func (s FilterSpec) WithCategory(category string) FilterSpec {
	s.Category = category
	return s
}

func (s FilterSpec) WithSubcategory(subcategory string) FilterSpec {
	s.Subcategory = subcategory
	return s
}

func (s FilterSpec) WithPrice(r *MoneyRange) FilterSpec {
	s.Price = r
	return s
}

func (s FilterSpec) WithRatingThreshold(min float64) FilterSpec {
	s.RatingThreshold = &min
	return s
}

func (s FilterSpec) WithReviewCountMax(max uint64) FilterSpec {
	s.ReviewCountMax = &max
	return s
}

func (s FilterSpec) WithBSR(r *CountRange) FilterSpec {
	s.BSR = r
	return s
}

func (s FilterSpec) WithMonthlyRevenue(r *MoneyRange) FilterSpec {
	s.MonthlyRevenue = r
	return s
}

func (s FilterSpec) WithPreferences(p Preferences) FilterSpec {
	s.Preferences = p
	return s
}

func moneyEqual(a, b *MoneyRange) bool {
	if a == nil || b == nil {
		return a == b
	}
	return a.Min.Equal(b.Min) && a.Max.Equal(b.Max)
}

func ptrEqual[T comparable](a, b *T) bool {
	if a == nil || b == nil {
		return a == b
	}
	return *a == *b
}
