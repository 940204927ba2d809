package infra

import (
	"context"
	"encoding/json"
	"io"

	"github.com/shopspring/decimal"

	"github.com/fd1az/seller-scout/business/catalog/infra/wire"
	profitDomain "github.com/fd1az/seller-scout/business/profit/domain"
	"github.com/fd1az/seller-scout/business/research/app"
	scoringApp "github.com/fd1az/seller-scout/business/scoring/app"
	scoringDomain "github.com/fd1az/seller-scout/business/scoring/domain"
	screeningApp "github.com/fd1az/seller-scout/business/screening/app"
	screeningDomain "github.com/fd1az/seller-scout/business/screening/domain"
)

var _ app.Reporter = (*JSONReporter)(nil)

// JSONReporter writes one JSON document per report, for scripting.
type JSONReporter struct {
	enc *json.Encoder
}

// NewJSONReporter writes indented JSON to w.
func NewJSONReporter(w io.Writer) *JSONReporter {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return &JSONReporter{enc: enc}
}

type scoreJSON struct {
	Demand         float64 `json:"demand"`
	Competition    float64 `json:"competition"`
	Margin         float64 `json:"margin"`
	Growth         float64 `json:"growth"`
	Composite      float64 `json:"composite"`
	Recommendation string  `json:"recommendation"`
}

func newScoreJSON(s scoringDomain.OpportunityScore) scoreJSON {
	return scoreJSON{
		Demand:         s.Demand,
		Competition:    s.Competition,
		Margin:         s.Margin,
		Growth:         s.Growth,
		Composite:      s.Composite,
		Recommendation: string(s.Recommendation()),
	}
}

type itemJSON struct {
	Product wire.Product `json:"product"`
	Score   scoreJSON    `json:"score"`
}

type failedJSON struct {
	ProductID string `json:"productId"`
	Error     string `json:"error"`
}

type categoryJSON struct {
	Category string  `json:"category"`
	Count    int     `json:"count"`
	Mean     float64 `json:"mean"`
	Median   float64 `json:"median"`
	Max      float64 `json:"max"`
	StdDev   float64 `json:"stdDev"`
}

type screenJSON struct {
	SessionID string                         `json:"sessionId"`
	Filters   screeningDomain.RawFilterInput `json:"filters"`
	Active    bool                           `json:"active"`
	Matched   int                            `json:"matched"`
	Items     []itemJSON                     `json:"items"`
	Failed    []failedJSON                   `json:"failed"`
	Heatmap   []categoryJSON                 `json:"heatmap"`
}

func (r *JSONReporter) ReportScreen(ctx context.Context, res *app.ScreenResult) error {
	doc := screenJSON{
		SessionID: res.SessionID,
		Filters:   screeningApp.Serialize(res.Spec),
		Active:    res.Active,
		Matched:   res.Matched,
		Items:     make([]itemJSON, 0, len(res.Items)),
		Failed:    make([]failedJSON, 0, len(res.Failed)),
		Heatmap:   make([]categoryJSON, 0, len(res.Heatmap)),
	}
	for _, it := range res.Items {
		doc.Items = append(doc.Items, newItemJSON(it))
	}
	for _, f := range res.Failed {
		doc.Failed = append(doc.Failed, failedJSON{ProductID: f.ProductID, Error: f.Err.Error()})
	}
	for _, c := range res.Heatmap {
		doc.Heatmap = append(doc.Heatmap, categoryJSON{
			Category: c.Category,
			Count:    c.Count,
			Mean:     c.MeanComposite,
			Median:   c.MedianComposite,
			Max:      c.MaxComposite,
			StdDev:   c.StdDevComposite,
		})
	}
	return r.enc.Encode(doc)
}

func newItemJSON(s scoringApp.Scored) itemJSON {
	return itemJSON{Product: wire.FromDomain(s.Product), Score: newScoreJSON(s.Score)}
}

func (r *JSONReporter) ReportEvaluation(ctx context.Context, ev *app.Evaluation) error {
	return r.enc.Encode(struct {
		Product    wire.Product `json:"product"`
		Score      scoreJSON    `json:"score"`
		MarginBand string       `json:"marginBand"`
		Tier       string       `json:"tier"`
		Difficulty string       `json:"difficulty"`
		Unmet      []string     `json:"unmet,omitempty"`
	}{
		Product:    wire.FromDomain(ev.Product),
		Score:      newScoreJSON(ev.Score),
		MarginBand: string(ev.Band),
		Tier:       string(ev.Tier),
		Difficulty: string(ev.Difficulty),
		Unmet:      ev.Unmet,
	})
}

type leaderJSON struct {
	Rank    int          `json:"rank"`
	Product wire.Product `json:"product"`
	Band    string       `json:"marginBand"`
}

func (r *JSONReporter) ReportLeaderboard(ctx context.Context, entries []app.LeaderboardEntry) error {
	out := make([]leaderJSON, len(entries))
	for i, e := range entries {
		out[i] = leaderJSON{Rank: e.Rank, Product: wire.FromDomain(e.Product), Band: string(e.Band)}
	}
	return r.enc.Encode(out)
}

func (r *JSONReporter) ReportProfit(ctx context.Context, b *profitDomain.ProfitBreakdown) error {
	return r.enc.Encode(struct {
		SellingPrice     decimal.Decimal `json:"sellingPrice"`
		CostPrice        decimal.Decimal `json:"costPrice"`
		WeightKg         decimal.Decimal `json:"weightKg"`
		AdsBudget        decimal.Decimal `json:"adsBudget"`
		ReferralFee      decimal.Decimal `json:"referralFee"`
		FulfillmentFee   decimal.Decimal `json:"fulfillmentFee"`
		Tax              decimal.Decimal `json:"tax"`
		Shipping         decimal.Decimal `json:"shipping"`
		Packaging        decimal.Decimal `json:"packaging"`
		TotalCosts       decimal.Decimal `json:"totalCosts"`
		NetProfitPerUnit decimal.Decimal `json:"netProfitPerUnit"`
		ROIPercentage    decimal.Decimal `json:"roiPercentage"`
		BreakEvenACOS    decimal.Decimal `json:"breakEvenAcos"`
		Profitable       bool            `json:"profitable"`
	}{
		SellingPrice:     b.SellingPrice,
		CostPrice:        b.CostPrice,
		WeightKg:         b.WeightKg,
		AdsBudget:        b.AdsBudget,
		ReferralFee:      b.ReferralFee,
		FulfillmentFee:   b.FulfillmentFee,
		Tax:              b.Tax,
		Shipping:         b.Shipping,
		Packaging:        b.Packaging,
		TotalCosts:       b.TotalCosts,
		NetProfitPerUnit: b.NetProfitPerUnit,
		ROIPercentage:    b.ROIPercentage,
		BreakEvenACOS:    b.BreakEvenACOS,
		Profitable:       b.IsProfitable(),
	})
}
