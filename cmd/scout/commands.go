package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"strconv"

	catalogApp "github.com/fd1az/seller-scout/business/catalog/app"
	profitApp "github.com/fd1az/seller-scout/business/profit/app"
	researchApp "github.com/fd1az/seller-scout/business/research/app"
	scoringApp "github.com/fd1az/seller-scout/business/scoring/app"
	screeningDomain "github.com/fd1az/seller-scout/business/screening/domain"
	"github.com/fd1az/seller-scout/internal/apperror"
	"github.com/fd1az/seller-scout/internal/logger"
)

type command struct {
	svc      *researchApp.ResearchService
	reporter researchApp.Reporter
	log      logger.LoggerInterface
	global   globalFlags
}

// optionalFloat is a float flag that remembers whether it was given.
type optionalFloat struct {
	value *float64
}

func (o *optionalFloat) String() string {
	if o.value == nil {
		return ""
	}
	return strconv.FormatFloat(*o.value, 'g', -1, 64)
}

func (o *optionalFloat) Set(s string) error {
	v, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return err
	}
	o.value = &v
	return nil
}

// resultFlags are shared by screen and resume.
type resultFlags struct {
	minScore optionalFloat
	only     string
	sortKey  string
}

func (r *resultFlags) register(fs *flag.FlagSet) {
	fs.Var(&r.minScore, "min-score", "Hide products scoring below this composite (default from config)")
	fs.StringVar(&r.only, "only", "", "Show only this category")
	fs.StringVar(&r.sortKey, "sort", "score", "Sort by score, revenue, competition or growth")
}

func (r *resultFlags) options(mode string) (researchApp.ScreenOptions, error) {
	key, err := scoringApp.ParseSortKey(r.sortKey)
	if err != nil {
		return researchApp.ScreenOptions{}, err
	}
	// an empty mode defers to the catalog default
	var m catalogApp.FilterMode
	if mode != "" {
		if m, err = catalogApp.ParseFilterMode(mode); err != nil {
			return researchApp.ScreenOptions{}, err
		}
	}
	return researchApp.ScreenOptions{MinScore: r.minScore.value, Category: r.only, Sort: key, Mode: m}, nil
}

func (c *command) session() string {
	id := newSessionID(c.global.sessionID)
	if c.global.sessionID == "" {
		fmt.Fprintf(os.Stderr, "session: %s\n", id)
	}
	return id
}

func (c *command) screen(ctx context.Context, args []string) error {
	fs := flag.NewFlagSet("screen", flag.ContinueOnError)
	var raw screeningDomain.RawFilterInput
	fs.StringVar(&raw.Category, "category", "", "Category")
	fs.StringVar(&raw.Subcategory, "subcategory", "", "Subcategory")
	fs.StringVar(&raw.PriceMin, "price-min", "", "Minimum price (INR)")
	fs.StringVar(&raw.PriceMax, "price-max", "", "Maximum price (INR)")
	fs.StringVar(&raw.RatingThreshold, "rating", "", "Minimum rating")
	fs.StringVar(&raw.ReviewCountMax, "reviews-max", "", "Maximum review count")
	fs.StringVar(&raw.BSRMin, "bsr-min", "", "Best seller rank from")
	fs.StringVar(&raw.BSRMax, "bsr-max", "", "Best seller rank to")
	fs.StringVar(&raw.MonthlyRevenueMin, "revenue-min", "", "Minimum monthly revenue (INR)")
	fs.StringVar(&raw.MonthlyRevenueMax, "revenue-max", "", "Maximum monthly revenue (INR)")
	fs.BoolVar(&raw.LightweightPreference, "lightweight", false, "Only lightweight products")
	fs.BoolVar(&raw.NonBrandedFriendly, "non-branded", false, "Only unbranded listings")
	fs.BoolVar(&raw.LowFBACount, "low-competition", false, "Only products with few reviews")
	fs.BoolVar(&raw.HighReviewGrowth, "review-growth", false, "Only products with growing reviews")
	fs.BoolVar(&raw.HighMarginThreshold, "high-margin", false, "Only high margin products")
	var rf resultFlags
	rf.register(fs)
	if err := fs.Parse(args); err != nil {
		return apperror.Validation(apperror.CodeInvalidInput, err.Error())
	}

	opts, err := rf.options(c.global.mode)
	if err != nil {
		return err
	}
	res, err := c.svc.Screen(ctx, c.session(), raw, opts)
	if err != nil {
		return err
	}
	return c.reporter.ReportScreen(ctx, res)
}

func (c *command) resume(ctx context.Context, args []string) error {
	fs := flag.NewFlagSet("resume", flag.ContinueOnError)
	var rf resultFlags
	rf.register(fs)
	if err := fs.Parse(args); err != nil {
		return apperror.Validation(apperror.CodeInvalidInput, err.Error())
	}
	if c.global.sessionID == "" {
		c.log.Warn(ctx, "resume without -session starts from empty filters")
	}

	opts, err := rf.options(c.global.mode)
	if err != nil {
		return err
	}
	res, err := c.svc.Resume(ctx, c.session(), opts)
	if err != nil {
		return err
	}
	return c.reporter.ReportScreen(ctx, res)
}

func (c *command) reset(ctx context.Context) error {
	if c.global.sessionID == "" {
		return apperror.Validation(apperror.CodeRequiredField, "-session")
	}
	if err := c.svc.ResetFilters(ctx, c.global.sessionID); err != nil {
		return err
	}
	fmt.Fprintln(os.Stderr, "filters cleared")
	return nil
}

func (c *command) score(ctx context.Context, args []string) error {
	if len(args) != 1 {
		return apperror.Validation(apperror.CodeRequiredField, "score <product-id>")
	}
	var (
		ev  *researchApp.Evaluation
		err error
	)
	if c.global.sessionID != "" {
		ev, err = c.svc.EvaluateInSession(ctx, c.global.sessionID, args[0])
	} else {
		ev, err = c.svc.Evaluate(ctx, args[0])
	}
	if err != nil {
		return err
	}
	return c.reporter.ReportEvaluation(ctx, ev)
}

func (c *command) leaderboard(ctx context.Context, args []string) error {
	fs := flag.NewFlagSet("leaderboard", flag.ContinueOnError)
	n := fs.Int("n", scoringApp.DefaultLeaderboardSize, "Number of products")
	if err := fs.Parse(args); err != nil {
		return apperror.Validation(apperror.CodeInvalidInput, err.Error())
	}
	entries, err := c.svc.Leaderboard(ctx, *n)
	if err != nil {
		return err
	}
	return c.reporter.ReportLeaderboard(ctx, entries)
}

func (c *command) profit(ctx context.Context, args []string) error {
	fs := flag.NewFlagSet("profit", flag.ContinueOnError)
	price := fs.String("price", "", "Selling price (INR)")
	cost := fs.String("cost", "", "Product cost (INR)")
	weight := fs.String("weight", "", "Shipping weight (kg)")
	ads := fs.String("ads", "", "Ad spend per unit (INR)")
	if err := fs.Parse(args); err != nil {
		return apperror.Validation(apperror.CodeInvalidInput, err.Error())
	}

	in, err := profitApp.ParseInput(*price, *cost, *weight, *ads)
	if err != nil {
		return err
	}
	b, err := c.svc.Profit(in)
	if err != nil {
		return err
	}
	return c.reporter.ReportProfit(ctx, b)
}
