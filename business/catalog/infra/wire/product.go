package wire

import (
	"math"
	"time"

	"github.com/shopspring/decimal"

	"github.com/fd1az/seller-scout/business/catalog/domain"
	screeningDomain "github.com/fd1az/seller-scout/business/screening/domain"
)

// Product is the wire form of a catalog listing.
type Product struct {
	ID                    string          `json:"id"`
	Title                 string          `json:"title"`
	Category              string          `json:"category"`
	Subcategory           string          `json:"subcategory"`
	Brand                 string          `json:"brand"`
	Price                 decimal.Decimal `json:"price"`
	MRP                   decimal.Decimal `json:"mrp"`
	Rating                float64         `json:"rating"`
	ReviewCount           Count           `json:"reviewCount"`
	BSR                   Count           `json:"bsr"`
	EstimatedMonthlySales Count           `json:"estimatedMonthlySales"`
	Margin                float64         `json:"margin"`
	AvailableStock        Count           `json:"availableStock"`
	SellerType            string          `json:"sellerType"`
	// LastModified is nanoseconds since the Unix epoch.
	LastModified Count    `json:"lastModified"`
	Images       []Image  `json:"images,omitempty"`
	WeightKg     *float64 `json:"weightKg,omitempty"`
	Trend        *Trend   `json:"trend,omitempty"`
}

type Image struct {
	URL string `json:"url"`
}

type Trend struct {
	RisingStar            bool `json:"risingStar"`
	ReviewGrowthSpike     bool `json:"reviewGrowthSpike"`
	PriceIncreaseTrend    bool `json:"priceIncreaseTrend"`
	SeasonalDemandPattern bool `json:"seasonalDemandPattern"`
}

// ToDomain converts and validates the record.
func (p Product) ToDomain() (domain.Product, error) {
	out := domain.Product{
		ID:                    p.ID,
		Title:                 p.Title,
		Category:              p.Category,
		Subcategory:           p.Subcategory,
		Brand:                 p.Brand,
		Price:                 p.Price,
		MRP:                   p.MRP,
		Rating:                p.Rating,
		ReviewCount:           uint64(p.ReviewCount),
		BSR:                   uint64(p.BSR),
		EstimatedMonthlySales: uint64(p.EstimatedMonthlySales),
		Margin:                p.Margin,
		AvailableStock:        uint64(p.AvailableStock),
		SellerType:            domain.SellerType(p.SellerType),
		WeightKg:              p.WeightKg,
	}
	if p.LastModified > 0 && uint64(p.LastModified) <= math.MaxInt64 {
		out.LastModified = time.Unix(0, int64(p.LastModified)).UTC()
	}
	for _, img := range p.Images {
		out.Images = append(out.Images, domain.Image{URL: img.URL})
	}
	if p.Trend != nil {
		out.Trend = &domain.ProductTrend{
			RisingStar:            p.Trend.RisingStar,
			ReviewGrowthSpike:     p.Trend.ReviewGrowthSpike,
			PriceIncreaseTrend:    p.Trend.PriceIncreaseTrend,
			SeasonalDemandPattern: p.Trend.SeasonalDemandPattern,
		}
	}
	if err := out.Validate(); err != nil {
		return domain.Product{}, err
	}
	return out, nil
}

// FromDomain converts a domain product to its wire form.
func FromDomain(p domain.Product) Product {
	out := Product{
		ID:                    p.ID,
		Title:                 p.Title,
		Category:              p.Category,
		Subcategory:           p.Subcategory,
		Brand:                 p.Brand,
		Price:                 p.Price,
		MRP:                   p.MRP,
		Rating:                p.Rating,
		ReviewCount:           Count(p.ReviewCount),
		BSR:                   Count(p.BSR),
		EstimatedMonthlySales: Count(p.EstimatedMonthlySales),
		Margin:                p.Margin,
		AvailableStock:        Count(p.AvailableStock),
		SellerType:            string(p.SellerType),
		WeightKg:              p.WeightKg,
	}
	if !p.LastModified.IsZero() && p.LastModified.UnixNano() > 0 {
		out.LastModified = Count(p.LastModified.UnixNano())
	}
	for _, img := range p.Images {
		out.Images = append(out.Images, Image{URL: img.URL})
	}
	if p.Trend != nil {
		out.Trend = &Trend{
			RisingStar:            p.Trend.RisingStar,
			ReviewGrowthSpike:     p.Trend.ReviewGrowthSpike,
			PriceIncreaseTrend:    p.Trend.PriceIncreaseTrend,
			SeasonalDemandPattern: p.Trend.SeasonalDemandPattern,
		}
	}
	return out
}

// SearchFilters is the remote search request body. Ranges are [min, max] pairs.
type SearchFilters struct {
	Category              *string             `json:"category,omitempty"`
	Subcategory           *string             `json:"subcategory,omitempty"`
	PriceRange            *[2]decimal.Decimal `json:"priceRange,omitempty"`
	RatingThreshold       *float64            `json:"ratingThreshold,omitempty"`
	ReviewCountMax        *Count              `json:"reviewCountMax,omitempty"`
	BSRRange              *[2]Count           `json:"bsrRange,omitempty"`
	MonthlyRevenueRange   *[2]decimal.Decimal `json:"monthlyRevenueRange,omitempty"`
	LightweightPreference bool                `json:"lightweightPreference"`
	NonBrandedFriendly    bool                `json:"nonBrandedFriendly"`
	LowFBACount           bool                `json:"lowFBACount"`
	HighReviewGrowth      bool                `json:"highReviewGrowth"`
	HighMarginThreshold   bool                `json:"highMarginThreshold"`
}

// FiltersFromSpec encodes spec as a remote search request.
func FiltersFromSpec(spec screeningDomain.FilterSpec) SearchFilters {
	f := SearchFilters{
		RatingThreshold:       spec.RatingThreshold,
		LightweightPreference: spec.Lightweight,
		NonBrandedFriendly:    spec.NonBranded,
		LowFBACount:           spec.LowCompetition,
		HighReviewGrowth:      spec.HighReviewGrowth,
		HighMarginThreshold:   spec.HighMargin,
	}
	if spec.Category != "" {
		f.Category = &spec.Category
	}
	if spec.Subcategory != "" {
		f.Subcategory = &spec.Subcategory
	}
	if spec.Price != nil {
		f.PriceRange = &[2]decimal.Decimal{spec.Price.Min, spec.Price.Max}
	}
	if spec.ReviewCountMax != nil {
		c := Count(*spec.ReviewCountMax)
		f.ReviewCountMax = &c
	}
	if spec.BSR != nil {
		f.BSRRange = &[2]Count{Count(spec.BSR.Min), Count(spec.BSR.Max)}
	}
	if spec.MonthlyRevenue != nil {
		f.MonthlyRevenueRange = &[2]decimal.Decimal{spec.MonthlyRevenue.Min, spec.MonthlyRevenue.Max}
	}
	return f
}

// Search result discriminators.
const (
	KindSuccess = "success"
	KindError   = "error"
)

// SearchResult is the tagged union returned by remote search.
type SearchResult struct {
	Kind    string    `json:"__kind__"`
	Success []Product `json:"success,omitempty"`
	Error   string    `json:"error,omitempty"`
}
