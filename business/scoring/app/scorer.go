// Package app contains the opportunity scoring services.
package app

import (
	"fmt"
	"math"
	"runtime"
	"sync"

	catalogDomain "github.com/fd1az/seller-scout/business/catalog/domain"
	"github.com/fd1az/seller-scout/business/scoring/domain"
	"github.com/fd1az/seller-scout/internal/apperror"
	"github.com/fd1az/seller-scout/internal/config"
)

// Growth signal increments over the neutral baseline.
const (
	growthBaseline          = 50.0
	growthRisingStar        = 20.0
	growthReviewSpike       = 15.0
	growthSeasonal          = 10.0
	growthPriceIncrease     = 5.0
	defaultParallelMinItems = 256
)

// Params are the tunable curve parameters and weights of the scoring function.
type Params struct {
	Weights domain.Weights

	// DemandSaturationUnits is the monthly unit volume that scores 100.
	DemandSaturationUnits float64
	// ReviewCeiling is the review count that scores 0 on the review half of competition.
	ReviewCeiling float64
	// BSRCeiling is the rank that scores 0 on the BSR half of competition.
	BSRCeiling float64
	// ReviewWeight is the review share of the competition score; BSR gets the rest.
	ReviewWeight float64
	// MarginSaturation is the margin fraction that scores 100.
	MarginSaturation float64
}

// DefaultParams returns equal weights and the stock curves.
func DefaultParams() Params {
	return Params{
		Weights:               domain.EqualWeights(),
		DemandSaturationUnits: 5000,
		ReviewCeiling:         10000,
		BSRCeiling:            100000,
		ReviewWeight:          0.5,
		MarginSaturation:      0.30,
	}
}

// ParamsFromConfig builds scoring parameters from configuration.
func ParamsFromConfig(cfg config.ScoringConfig) Params {
	return Params{
		Weights: domain.Weights{
			Demand:      cfg.WeightDemand,
			Competition: cfg.WeightCompetition,
			Margin:      cfg.WeightMargin,
			Growth:      cfg.WeightGrowth,
		},
		DemandSaturationUnits: cfg.DemandSaturationUnits,
		ReviewCeiling:         cfg.ReviewCeiling,
		BSRCeiling:            cfg.BSRCeiling,
		ReviewWeight:          cfg.ReviewWeight,
		MarginSaturation:      cfg.MarginSaturation,
	}
}

// Validate checks weights and curve parameters.
func (p Params) Validate() error {
	if err := p.Weights.Validate(); err != nil {
		return err
	}
	switch {
	case !(p.DemandSaturationUnits > 0):
		return invalidParam("demand_saturation_units", p.DemandSaturationUnits)
	case !(p.ReviewCeiling > 0):
		return invalidParam("review_ceiling", p.ReviewCeiling)
	case !(p.BSRCeiling > 1):
		return invalidParam("bsr_ceiling", p.BSRCeiling)
	case !(p.ReviewWeight >= 0 && p.ReviewWeight <= 1):
		return invalidParam("review_weight", p.ReviewWeight)
	case !(p.MarginSaturation > 0):
		return invalidParam("margin_saturation", p.MarginSaturation)
	}
	return nil
}

func invalidParam(name string, v float64) error {
	return apperror.Validation(apperror.CodeConfigurationError, fmt.Sprintf("%s = %v", name, v))
}

// Scorer computes opportunity scores. It is immutable and safe for concurrent use.
type Scorer struct {
	params            Params
	parallelThreshold int
	workers           int
}

// Option configures a Scorer.
type Option func(*Scorer)

// WithParallelThreshold sets the batch size at which ScoreAll fans out. Zero or
// negative keeps ScoreAll sequential.
func WithParallelThreshold(n int) Option {
	return func(s *Scorer) {
		s.parallelThreshold = n
	}
}

// WithWorkers bounds the ScoreAll fan-out.
func WithWorkers(n int) Option {
	return func(s *Scorer) {
		if n > 0 {
			s.workers = n
		}
	}
}

// NewScorer validates params and returns a Scorer.
func NewScorer(params Params, opts ...Option) (*Scorer, error) {
	if err := params.Validate(); err != nil {
		return nil, err
	}
	s := &Scorer{
		params:            params,
		parallelThreshold: defaultParallelMinItems,
		workers:           runtime.GOMAXPROCS(0),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s, nil
}

// Params returns the parameters in use.
func (s *Scorer) Params() Params {
	return s.params
}

// Score computes the opportunity score of p. It fails only when a numeric
// attribute the score depends on is not finite.
func (s *Scorer) Score(p *catalogDomain.Product) (domain.OpportunityScore, error) {
	if math.IsNaN(p.Margin) || math.IsInf(p.Margin, 0) {
		return domain.OpportunityScore{}, apperror.New(apperror.CodeScoringFailed,
			apperror.WithContext(p.ID),
			apperror.WithMessage(fmt.Sprintf("margin %v is not finite", p.Margin)))
	}

	score := domain.OpportunityScore{
		Demand:      s.demand(p.EstimatedMonthlySales),
		Competition: s.competition(p.ReviewCount, p.BSR),
		Margin:      s.margin(p.Margin),
		Growth:      growth(p.Trend),
	}
	score.Composite = clamp(s.params.Weights.Blend(score))
	return score, nil
}

func (s *Scorer) demand(sales uint64) float64 {
	return clamp(100 * math.Log1p(float64(sales)) / math.Log1p(s.params.DemandSaturationUnits))
}

func (s *Scorer) competition(reviews, bsr uint64) float64 {
	reviewScore := clamp(100 * (1 - math.Log1p(float64(reviews))/math.Log1p(s.params.ReviewCeiling)))

	// Unranked listings get no BSR credit.
	var bsrScore float64
	if bsr > 0 {
		bsrScore = clamp(100 * (1 - math.Log(float64(bsr))/math.Log(s.params.BSRCeiling)))
	}

	w := s.params.ReviewWeight
	return clamp(w*reviewScore + (1-w)*bsrScore)
}

func (s *Scorer) margin(m float64) float64 {
	if m <= 0 {
		return 0
	}
	return clamp(100 * m / s.params.MarginSaturation)
}

func growth(t *catalogDomain.ProductTrend) float64 {
	g := growthBaseline
	if t == nil {
		return g
	}
	if t.RisingStar {
		g += growthRisingStar
	}
	if t.ReviewGrowthSpike {
		g += growthReviewSpike
	}
	if t.SeasonalDemandPattern {
		g += growthSeasonal
	}
	if t.PriceIncreaseTrend {
		g += growthPriceIncrease
	}
	return clamp(g)
}

func clamp(v float64) float64 {
	switch {
	case math.IsNaN(v) || v < 0:
		return 0
	case v > 100:
		return 100
	}
	return v
}

// Scored pairs a product with its score, or with the error that prevented scoring.
type Scored struct {
	Product catalogDomain.Product
	Score   domain.OpportunityScore
	Err     error
}

// OK reports whether the product was scored.
func (s Scored) OK() bool {
	return s.Err == nil
}

// ScoreAll scores every product, keeping input order. A failed product carries
// its error and never affects the others.
func (s *Scorer) ScoreAll(products []catalogDomain.Product) []Scored {
	out := make([]Scored, len(products))

	if s.parallelThreshold <= 0 || len(products) < s.parallelThreshold || s.workers < 2 {
		for i := range products {
			out[i] = s.scoreOne(&products[i])
		}
		return out
	}

	workers := min(s.workers, len(products))
	idx := make(chan int)
	var wg sync.WaitGroup
	wg.Add(workers)
	for range workers {
		go func() {
			defer wg.Done()
			for i := range idx {
				out[i] = s.scoreOne(&products[i])
			}
		}()
	}
	for i := range products {
		idx <- i
	}
	close(idx)
	wg.Wait()
	return out
}

func (s *Scorer) scoreOne(p *catalogDomain.Product) Scored {
	score, err := s.Score(p)
	return Scored{Product: *p, Score: score, Err: err}
}
