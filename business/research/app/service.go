package app

import (
	"context"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/metric"

	catalogApp "github.com/fd1az/seller-scout/business/catalog/app"
	profitApp "github.com/fd1az/seller-scout/business/profit/app"
	profitDomain "github.com/fd1az/seller-scout/business/profit/domain"
	scoringApp "github.com/fd1az/seller-scout/business/scoring/app"
	scoringDomain "github.com/fd1az/seller-scout/business/scoring/domain"
	screeningApp "github.com/fd1az/seller-scout/business/screening/app"
	screeningDomain "github.com/fd1az/seller-scout/business/screening/domain"
	"github.com/fd1az/seller-scout/internal/apm"
	"github.com/fd1az/seller-scout/internal/apperror"
	"github.com/fd1az/seller-scout/internal/logger"
)

const meterName = "research"

type researchMetrics struct {
	screened  metric.Int64Counter
	matched   metric.Int64Counter
	failures  metric.Int64Counter
	composite metric.Float64Histogram
}

// ResearchService runs the dashboard use cases.
type ResearchService struct {
	catalog    *catalogApp.CatalogService
	state      *screeningApp.FilterStateService
	evaluator  *screeningApp.Evaluator
	scorer     *scoringApp.Scorer
	calculator *profitApp.Calculator
	minScore   float64

	logger  logger.LoggerInterface
	tracer  apm.Tracer
	metrics *researchMetrics
}

// Deps groups the collaborators of ResearchService.
type Deps struct {
	Catalog    *catalogApp.CatalogService
	State      *screeningApp.FilterStateService
	Evaluator  *screeningApp.Evaluator
	Scorer     *scoringApp.Scorer
	Calculator *profitApp.Calculator
	// MinScore is the default composite floor for Screen.
	MinScore float64
}

// NewResearchService creates the service.
func NewResearchService(d Deps, log logger.LoggerInterface) (*ResearchService, error) {
	s := &ResearchService{
		catalog:    d.Catalog,
		state:      d.State,
		evaluator:  d.Evaluator,
		scorer:     d.Scorer,
		calculator: d.Calculator,
		minScore:   d.MinScore,
		logger:     log,
		tracer:     apm.NewTracer("research"),
	}
	if err := s.initMetrics(); err != nil {
		return nil, err
	}
	return s, nil
}

func (s *ResearchService) initMetrics() error {
	meter := otel.Meter(meterName)
	var err error

	s.metrics = &researchMetrics{}

	s.metrics.screened, err = meter.Int64Counter(
		"products_screened_total",
		metric.WithDescription("Products evaluated against filter specifications"),
	)
	if err != nil {
		return err
	}

	s.metrics.matched, err = meter.Int64Counter(
		"products_matched_total",
		metric.WithDescription("Products passing the filters and the score floor"),
	)
	if err != nil {
		return err
	}

	s.metrics.failures, err = meter.Int64Counter(
		"scoring_failures_total",
		metric.WithDescription("Products that could not be scored"),
	)
	if err != nil {
		return err
	}

	s.metrics.composite, err = meter.Float64Histogram(
		"opportunity_composite_score",
		metric.WithDescription("Composite opportunity score of matched products"),
		metric.WithExplicitBucketBoundaries(10, 20, 30, 40, 50, 60, 70, 80, 90, 100),
	)
	return err
}

// Screen normalizes raw into the session's filter state, persists it and
// returns the scored matches. A store failure while saving is logged and the
// screen still runs with the normalized filters.
func (s *ResearchService) Screen(ctx context.Context, sessionID string, raw screeningDomain.RawFilterInput, opts ScreenOptions) (*ScreenResult, error) {
	ctx, span := s.tracer.Start(ctx, "research.screen")
	defer span.End()

	spec, err := s.state.Apply(ctx, sessionID, raw)
	if err != nil {
		if !apperror.HasCode(err, apperror.CodeFilterStateStore) {
			return nil, span.Fail(err)
		}
		s.logger.Warn(ctx, "filter state not saved, screening anyway",
			"session_id", sessionID,
			"error", err,
		)
	}
	res, err := s.run(ctx, sessionID, spec, opts)
	if err != nil {
		return nil, span.Fail(err)
	}
	span.Count("kept", len(res.Items))
	return res, nil
}

// Resume screens with the session's persisted filters.
func (s *ResearchService) Resume(ctx context.Context, sessionID string, opts ScreenOptions) (*ScreenResult, error) {
	ctx, span := s.tracer.Start(ctx, "research.resume")
	defer span.End()

	spec, err := s.state.Load(ctx, sessionID)
	if err != nil {
		return nil, span.Fail(err)
	}
	res, err := s.run(ctx, sessionID, spec, opts)
	if err != nil {
		return nil, span.Fail(err)
	}
	span.Count("kept", len(res.Items))
	return res, nil
}

// ResetFilters clears the session's filters.
func (s *ResearchService) ResetFilters(ctx context.Context, sessionID string) error {
	return s.state.Reset(ctx, sessionID)
}

func (s *ResearchService) run(ctx context.Context, sessionID string, spec screeningDomain.FilterSpec, opts ScreenOptions) (*ScreenResult, error) {
	sortKey := opts.Sort
	if sortKey == "" {
		sortKey = scoringApp.SortByScore
	}
	minScore := s.minScore
	if opts.MinScore != nil {
		minScore = *opts.MinScore
	}

	products, err := s.catalog.Search(ctx, spec, opts.Mode)
	if err != nil {
		return nil, err
	}

	scored := s.scorer.ScoreAll(products)

	res := &ScreenResult{
		SessionID: sessionID,
		Spec:      spec,
		Active:    spec.HasActiveFilters(),
		Matched:   len(products),
	}
	for _, sc := range scored {
		if sc.OK() {
			continue
		}
		res.Failed = append(res.Failed, FailedProduct{ProductID: sc.Product.ID, Err: sc.Err})
		s.logger.Warn(ctx, "product could not be scored", "product_id", sc.Product.ID, "error", sc.Err)
	}

	res.Items = scoringApp.KeepByScore(scored, scoringApp.OpportunityScoreFilters{
		MinScore: minScore,
		Category: opts.Category,
	})
	scoringApp.Sort(res.Items, sortKey)
	res.Heatmap = scoringApp.CategoryHeatmap(res.Items)

	attrs := metric.WithAttributes(attribute.Bool("active_filters", res.Active))
	s.metrics.screened.Add(ctx, int64(len(products)), attrs)
	s.metrics.matched.Add(ctx, int64(len(res.Items)), attrs)
	if n := len(res.Failed); n > 0 {
		s.metrics.failures.Add(ctx, int64(n))
	}
	for _, it := range res.Items {
		s.metrics.composite.Record(ctx, it.Score.Composite)
	}

	s.logger.Debug(ctx, "screen complete",
		"session_id", sessionID,
		"matched", res.Matched,
		"kept", len(res.Items),
		"failed", len(res.Failed),
		"sort", string(sortKey),
	)
	return res, nil
}

// Evaluate scores a single product.
func (s *ResearchService) Evaluate(ctx context.Context, productID string) (*Evaluation, error) {
	ctx, span := s.tracer.Start(ctx, "research.evaluate", attribute.String("product_id", productID))
	defer span.End()

	p, err := s.catalog.Get(ctx, productID)
	if err != nil {
		return nil, span.Fail(err)
	}
	score, err := s.scorer.Score(p)
	if err != nil {
		s.metrics.failures.Add(ctx, 1)
		return nil, span.Fail(err)
	}

	return &Evaluation{
		Product:        *p,
		Score:          score,
		Recommendation: score.Recommendation(),
		Band:           scoringDomain.BandForMargin(p.Margin),
		Tier:           scoringDomain.TierFor(score.Composite),
		Difficulty:     scoringDomain.DifficultyFor(100 - score.Competition),
	}, nil
}

// EvaluateInSession is Evaluate plus the session filter criteria the product fails.
func (s *ResearchService) EvaluateInSession(ctx context.Context, sessionID, productID string) (*Evaluation, error) {
	ev, err := s.Evaluate(ctx, productID)
	if err != nil {
		return nil, err
	}
	spec, err := s.state.Load(ctx, sessionID)
	if err != nil {
		return nil, err
	}
	ev.Unmet = s.evaluator.Explain(&ev.Product, spec)
	return ev, nil
}

// Leaderboard returns the n highest margin products across the catalog.
func (s *ResearchService) Leaderboard(ctx context.Context, n int) ([]LeaderboardEntry, error) {
	ctx, span := s.tracer.Start(ctx, "research.leaderboard")
	defer span.End()

	products, err := s.catalog.All(ctx)
	if err != nil {
		return nil, span.Fail(err)
	}

	top := scoringApp.Leaderboard(products, n)
	entries := make([]LeaderboardEntry, len(top))
	for i, p := range top {
		entries[i] = LeaderboardEntry{Rank: i + 1, Product: p, Band: scoringDomain.BandForMargin(p.Margin)}
	}
	return entries, nil
}

// Profit runs the profit calculator.
func (s *ResearchService) Profit(in profitDomain.ProfitInput) (*profitDomain.ProfitBreakdown, error) {
	return s.calculator.Calculate(in)
}
