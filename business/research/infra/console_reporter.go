// Package infra contains output adapters for the research context.
package infra

import (
	"context"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/jedib0t/go-pretty/v6/text"
	"github.com/shopspring/decimal"

	profitDomain "github.com/fd1az/seller-scout/business/profit/domain"
	"github.com/fd1az/seller-scout/business/research/app"
	scoringDomain "github.com/fd1az/seller-scout/business/scoring/domain"
	screeningApp "github.com/fd1az/seller-scout/business/screening/app"
)

var _ app.Reporter = (*ConsoleReporter)(nil)

// ConsoleReporter renders results as terminal tables.
type ConsoleReporter struct {
	out   io.Writer
	style table.Style
}

// NewConsoleReporter writes to stdout.
func NewConsoleReporter() *ConsoleReporter {
	return NewConsoleReporterTo(os.Stdout)
}

// NewConsoleReporterTo writes to w.
func NewConsoleReporterTo(w io.Writer) *ConsoleReporter {
	return &ConsoleReporter{out: w, style: table.StyleLight}
}

func (r *ConsoleReporter) newTable(title string) table.Writer {
	t := table.NewWriter()
	t.SetOutputMirror(r.out)
	t.SetStyle(r.style)
	t.SetTitle(title)
	return t
}

// ReportScreen prints the active filters, the scored products and the category heatmap.
func (r *ConsoleReporter) ReportScreen(ctx context.Context, res *app.ScreenResult) error {
	filters := "none"
	if res.Active {
		filters = describeFilters(res)
	}
	fmt.Fprintf(r.out, "Session %s | filters: %s | matched %d, shown %d\n",
		res.SessionID, filters, res.Matched, len(res.Items))

	t := r.newTable("Opportunities")
	t.AppendHeader(table.Row{"#", "ID", "Title", "Category", "Price", "Revenue/mo", "Demand", "Comp.", "Margin", "Growth", "Score", "Verdict"})
	for i, it := range res.Items {
		p := it.Product
		t.AppendRow(table.Row{
			i + 1,
			p.ID,
			text.Trim(p.Title, 36),
			p.Category,
			"₹" + p.Price.StringFixed(2),
			"₹" + p.MonthlyRevenue().StringFixed(0),
			fmt.Sprintf("%.0f", it.Score.Demand),
			fmt.Sprintf("%.0f", it.Score.Competition),
			fmt.Sprintf("%.0f", it.Score.Margin),
			fmt.Sprintf("%.0f", it.Score.Growth),
			tierColor(scoringDomain.TierFor(it.Score.Composite)).Sprintf("%.1f", it.Score.Composite),
			string(it.Score.Recommendation()),
		})
	}
	t.SetColumnConfigs([]table.ColumnConfig{
		{Number: 5, Align: text.AlignRight},
		{Number: 6, Align: text.AlignRight},
		{Number: 11, Align: text.AlignRight},
	})
	t.Render()

	if len(res.Failed) > 0 {
		ft := r.newTable("Not scored")
		ft.AppendHeader(table.Row{"ID", "Reason"})
		for _, f := range res.Failed {
			ft.AppendRow(table.Row{f.ProductID, f.Err.Error()})
		}
		ft.Render()
	}

	if len(res.Heatmap) > 0 {
		ht := r.newTable("Category heatmap")
		ht.AppendHeader(table.Row{"Category", "Products", "Mean", "Median", "Max", "Std dev"})
		for _, c := range res.Heatmap {
			ht.AppendRow(table.Row{
				c.Category,
				c.Count,
				tierColor(scoringDomain.TierFor(c.MeanComposite)).Sprintf("%.1f", c.MeanComposite),
				fmt.Sprintf("%.1f", c.MedianComposite),
				fmt.Sprintf("%.1f", c.MaxComposite),
				fmt.Sprintf("%.1f", c.StdDevComposite),
			})
		}
		ht.Render()
	}
	return nil
}

// ReportEvaluation prints the detail card of one product.
func (r *ConsoleReporter) ReportEvaluation(ctx context.Context, ev *app.Evaluation) error {
	p := ev.Product
	t := r.newTable(p.ID + "  " + p.Title)
	t.AppendRows([]table.Row{
		{"Category", strings.TrimSuffix(p.Category+" / "+p.Subcategory, " / ")},
		{"Brand", p.Brand},
		{"Price", "₹" + p.Price.StringFixed(2)},
		{"Rating", fmt.Sprintf("%.1f (%d reviews)", p.Rating, p.ReviewCount)},
		{"BSR", bsr(p.BSR)},
		{"Monthly sales", p.EstimatedMonthlySales},
		{"Margin", fmt.Sprintf("%.0f%% (%s)", p.Margin*100, ev.Band)},
	})
	t.AppendSeparator()
	t.AppendRows([]table.Row{
		{"Demand", fmt.Sprintf("%.1f", ev.Score.Demand)},
		{"Competition", fmt.Sprintf("%.1f (difficulty %s)", ev.Score.Competition, ev.Difficulty)},
		{"Margin score", fmt.Sprintf("%.1f", ev.Score.Margin)},
		{"Growth", fmt.Sprintf("%.1f", ev.Score.Growth)},
		{"Composite", tierColor(ev.Tier).Sprintf("%.1f", ev.Score.Composite)},
		{"Verdict", string(ev.Recommendation)},
	})
	if len(ev.Unmet) > 0 {
		t.AppendSeparator()
		t.AppendRow(table.Row{"Fails filters", strings.Join(ev.Unmet, ", ")})
	}
	t.Render()
	return nil
}

// ReportLeaderboard prints the margin leaderboard.
func (r *ConsoleReporter) ReportLeaderboard(ctx context.Context, entries []app.LeaderboardEntry) error {
	t := r.newTable("Top margins")
	t.AppendHeader(table.Row{"Rank", "ID", "Title", "Category", "Price", "Margin", "Band"})
	for _, e := range entries {
		t.AppendRow(table.Row{
			e.Rank,
			e.Product.ID,
			text.Trim(e.Product.Title, 40),
			e.Product.Category,
			"₹" + e.Product.Price.StringFixed(2),
			fmt.Sprintf("%.0f%%", e.Product.Margin*100),
			string(e.Band),
		})
	}
	t.Render()
	return nil
}

// ReportProfit prints the per-unit cost breakdown.
func (r *ConsoleReporter) ReportProfit(ctx context.Context, b *profitDomain.ProfitBreakdown) error {
	t := r.newTable("Profit per unit")
	t.AppendRows([]table.Row{
		{"Selling price", money(b.SellingPrice)},
		{"Product cost", money(b.CostPrice)},
		{"Referral fee", money(b.ReferralFee)},
		{"Fulfilment fee", money(b.FulfillmentFee)},
		{"Tax", money(b.Tax)},
		{"Shipping", money(b.Shipping)},
		{"Packaging", money(b.Packaging)},
		{"Ads", money(b.AdsBudget)},
	})
	t.AppendSeparator()
	net := text.FgGreen
	if !b.IsProfitable() {
		net = text.FgRed
	}
	t.AppendRows([]table.Row{
		{"Total costs", money(b.TotalCosts)},
		{"Net profit", net.Sprint(money(b.NetProfitPerUnit))},
		{"ROI", b.ROIPercentage.StringFixed(2) + "%"},
		{"Break-even ACOS", b.BreakEvenACOS.StringFixed(2) + "%"},
	})
	t.SetColumnConfigs([]table.ColumnConfig{{Number: 2, Align: text.AlignRight}})
	t.Render()
	return nil
}

func describeFilters(res *app.ScreenResult) string {
	raw := screeningApp.Serialize(res.Spec)
	var parts []string
	add := func(name, v string) {
		if v != "" {
			parts = append(parts, name+"="+v)
		}
	}
	add("category", raw.Category)
	add("subcategory", raw.Subcategory)
	if raw.PriceMin != "" {
		add("price", raw.PriceMin+"-"+raw.PriceMax)
	}
	add("rating>=", raw.RatingThreshold)
	add("reviews<=", raw.ReviewCountMax)
	if raw.BSRMin != "" {
		add("bsr", raw.BSRMin+"-"+raw.BSRMax)
	}
	if raw.MonthlyRevenueMin != "" {
		add("revenue", raw.MonthlyRevenueMin+"-"+raw.MonthlyRevenueMax)
	}
	for _, f := range []struct {
		on   bool
		name string
	}{
		{raw.LightweightPreference, "lightweight"},
		{raw.NonBrandedFriendly, "non-branded"},
		{raw.LowFBACount, "low-competition"},
		{raw.HighReviewGrowth, "review-growth"},
		{raw.HighMarginThreshold, "high-margin"},
	} {
		if f.on {
			parts = append(parts, f.name)
		}
	}
	return strings.Join(parts, " ")
}

func tierColor(t scoringDomain.ScoreTier) text.Color {
	switch t {
	case scoringDomain.TierGreen:
		return text.FgGreen
	case scoringDomain.TierYellow:
		return text.FgYellow
	default:
		return text.FgRed
	}
}

func bsr(rank uint64) string {
	if rank == 0 {
		return "unranked"
	}
	return fmt.Sprintf("#%d", rank)
}

func money(d decimal.Decimal) string {
	return "₹" + d.StringFixed(2)
}
