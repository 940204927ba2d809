package app

import (
	catalogDomain "github.com/fd1az/seller-scout/business/catalog/domain"
	"github.com/fd1az/seller-scout/business/screening/domain"
)

// Criterion names reported by Explain.
const (
	CriterionCategory         = "category"
	CriterionSubcategory      = "subcategory"
	CriterionPrice            = "price"
	CriterionRating           = "rating"
	CriterionReviewCount      = "review_count"
	CriterionBSR              = "bsr"
	CriterionMonthlyRevenue   = "monthly_revenue"
	CriterionLightweight      = "lightweight"
	CriterionNonBranded       = "non_branded"
	CriterionLowCompetition   = "low_competition"
	CriterionHighReviewGrowth = "high_review_growth"
	CriterionHighMargin       = "high_margin"
)

type criterion struct {
	name   string
	active func(s domain.FilterSpec) bool
	pass   func(e *Evaluator, p *catalogDomain.Product, s domain.FilterSpec) bool
}

// criteria are ANDed in this order.
var criteria = []criterion{
	{
		name:   CriterionCategory,
		active: func(s domain.FilterSpec) bool { return s.Category != "" },
		pass: func(_ *Evaluator, p *catalogDomain.Product, s domain.FilterSpec) bool {
			return p.Category == s.Category
		},
	},
	{
		name:   CriterionSubcategory,
		active: func(s domain.FilterSpec) bool { return s.Subcategory != "" },
		pass: func(_ *Evaluator, p *catalogDomain.Product, s domain.FilterSpec) bool {
			return p.Subcategory == s.Subcategory
		},
	},
	{
		name:   CriterionPrice,
		active: func(s domain.FilterSpec) bool { return s.Price != nil },
		pass: func(_ *Evaluator, p *catalogDomain.Product, s domain.FilterSpec) bool {
			return s.Price.Contains(p.Price)
		},
	},
	{
		name:   CriterionRating,
		active: func(s domain.FilterSpec) bool { return s.RatingThreshold != nil },
		pass: func(_ *Evaluator, p *catalogDomain.Product, s domain.FilterSpec) bool {
			return p.Rating >= *s.RatingThreshold
		},
	},
	{
		name:   CriterionReviewCount,
		active: func(s domain.FilterSpec) bool { return s.ReviewCountMax != nil },
		pass: func(_ *Evaluator, p *catalogDomain.Product, s domain.FilterSpec) bool {
			return p.ReviewCount <= *s.ReviewCountMax
		},
	},
	{
		name:   CriterionBSR,
		active: func(s domain.FilterSpec) bool { return s.BSR != nil },
		pass: func(_ *Evaluator, p *catalogDomain.Product, s domain.FilterSpec) bool {
			return s.BSR.Contains(p.BSR)
		},
	},
	{
		name:   CriterionMonthlyRevenue,
		active: func(s domain.FilterSpec) bool { return s.MonthlyRevenue != nil },
		pass: func(_ *Evaluator, p *catalogDomain.Product, s domain.FilterSpec) bool {
			return s.MonthlyRevenue.Contains(p.MonthlyRevenue())
		},
	},
	{
		name:   CriterionLightweight,
		active: func(s domain.FilterSpec) bool { return s.Lightweight },
		pass: func(e *Evaluator, p *catalogDomain.Product, _ domain.FilterSpec) bool {
			return e.IsLightweight(p)
		},
	},
	{
		name:   CriterionNonBranded,
		active: func(s domain.FilterSpec) bool { return s.NonBranded },
		pass: func(e *Evaluator, p *catalogDomain.Product, _ domain.FilterSpec) bool {
			return e.IsNonBranded(p)
		},
	},
	{
		name:   CriterionLowCompetition,
		active: func(s domain.FilterSpec) bool { return s.LowCompetition },
		pass: func(e *Evaluator, p *catalogDomain.Product, _ domain.FilterSpec) bool {
			return p.ReviewCount < e.policy.LowCompetitionMaxReviews
		},
	},
	{
		name:   CriterionHighReviewGrowth,
		active: func(s domain.FilterSpec) bool { return s.HighReviewGrowth },
		pass: func(e *Evaluator, p *catalogDomain.Product, _ domain.FilterSpec) bool {
			return e.HasReviewGrowth(p)
		},
	},
	{
		name:   CriterionHighMargin,
		active: func(s domain.FilterSpec) bool { return s.HighMargin },
		pass: func(e *Evaluator, p *catalogDomain.Product, _ domain.FilterSpec) bool {
			return p.Margin >= e.policy.HighMarginMin
		},
	},
}

// Evaluator decides whether products satisfy a filter specification.
// It holds no mutable state and is safe for concurrent use.
type Evaluator struct {
	policy    PreferencePolicy
	sentinels map[string]struct{}
}

// NewEvaluator creates an Evaluator with the given preference policy.
func NewEvaluator(policy PreferencePolicy) *Evaluator {
	sentinels := make(map[string]struct{}, len(policy.NonBrandSentinels)+1)
	sentinels[""] = struct{}{}
	for _, s := range policy.NonBrandSentinels {
		sentinels[normalizeBrand(s)] = struct{}{}
	}
	return &Evaluator{policy: policy, sentinels: sentinels}
}

// Policy returns the preference thresholds in use.
func (e *Evaluator) Policy() PreferencePolicy {
	return e.policy
}

// Matches reports whether p satisfies every active criterion of spec.
func (e *Evaluator) Matches(p *catalogDomain.Product, spec domain.FilterSpec) bool {
	for i := range criteria {
		c := &criteria[i]
		if c.active(spec) && !c.pass(e, p, spec) {
			return false
		}
	}
	return true
}

// FilterProducts returns the matching products in input order. The input is not modified.
func (e *Evaluator) FilterProducts(products []catalogDomain.Product, spec domain.FilterSpec) []catalogDomain.Product {
	result := make([]catalogDomain.Product, 0, len(products))
	if !spec.HasActiveFilters() {
		return append(result, products...)
	}
	for i := range products {
		if e.Matches(&products[i], spec) {
			result = append(result, products[i])
		}
	}
	return result
}

// Explain lists the criteria p fails, in evaluation order.
func (e *Evaluator) Explain(p *catalogDomain.Product, spec domain.FilterSpec) []string {
	var failed []string
	for i := range criteria {
		c := &criteria[i]
		if c.active(spec) && !c.pass(e, p, spec) {
			failed = append(failed, c.name)
		}
	}
	return failed
}

// IsLightweight uses the explicit weight when known and the price proxy otherwise.
func (e *Evaluator) IsLightweight(p *catalogDomain.Product) bool {
	if p.WeightKg != nil {
		return *p.WeightKg < e.policy.LightweightMaxWeightKg
	}
	return p.Price.LessThan(e.policy.LightweightMaxPrice)
}

// IsNonBranded reports whether the brand is empty or a generic placeholder.
func (e *Evaluator) IsNonBranded(p *catalogDomain.Product) bool {
	_, ok := e.sentinels[normalizeBrand(p.Brand)]
	return ok
}

// HasReviewGrowth uses trend signals when supplied. Without them, a product
// selling at least ReviewGrowthSalesRatio units per existing review is growing.
func (e *Evaluator) HasReviewGrowth(p *catalogDomain.Product) bool {
	if p.Trend != nil {
		return p.Trend.ReviewGrowthSpike || p.Trend.RisingStar
	}
	if p.EstimatedMonthlySales == 0 {
		return false
	}
	return float64(p.EstimatedMonthlySales) >= e.policy.ReviewGrowthSalesRatio*float64(p.ReviewCount)
}
