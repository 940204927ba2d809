package app

import (
	"bytes"
	"encoding/json"
	"strconv"

	"github.com/fd1az/seller-scout/business/screening/domain"
	"github.com/fd1az/seller-scout/internal/apperror"
)

// StorageKey is the per-session key the filter state lives under.
const StorageKey = "productFilters"

// EncodeState renders spec as the stored session document. Counts and money
// are written as decimal strings so large values survive any JSON reader.
func EncodeState(spec domain.FilterSpec) ([]byte, error) {
	return json.Marshal(Serialize(spec))
}

// DecodeState parses a stored document. Numeric fields may be strings or JSON
// numbers; unknown fields are ignored. A document that is not a JSON object
// yields the open filter and a FILTER_STATE_CORRUPT error.
func DecodeState(data []byte) (domain.FilterSpec, error) {
	var doc storedState
	if err := json.Unmarshal(data, &doc); err != nil {
		return domain.FilterSpec{}, apperror.New(apperror.CodeFilterStateCorrupt, apperror.WithCause(err))
	}
	return Normalize(doc.raw()), nil
}

type storedState struct {
	Category          looseText `json:"category"`
	Subcategory       looseText `json:"subcategory"`
	PriceMin          looseText `json:"priceMin"`
	PriceMax          looseText `json:"priceMax"`
	RatingThreshold   looseText `json:"ratingThreshold"`
	ReviewCountMax    looseText `json:"reviewCountMax"`
	BSRMin            looseText `json:"bsrMin"`
	BSRMax            looseText `json:"bsrMax"`
	MonthlyRevenueMin looseText `json:"monthlyRevenueMin"`
	MonthlyRevenueMax looseText `json:"monthlyRevenueMax"`

	LightweightPreference looseBool `json:"lightweightPreference"`
	NonBrandedFriendly    looseBool `json:"nonBrandedFriendly"`
	LowFBACount           looseBool `json:"lowFBACount"`
	HighReviewGrowth      looseBool `json:"highReviewGrowth"`
	HighMarginThreshold   looseBool `json:"highMarginThreshold"`
}

func (s storedState) raw() domain.RawFilterInput {
	return domain.RawFilterInput{
		Category:              string(s.Category),
		Subcategory:           string(s.Subcategory),
		PriceMin:              string(s.PriceMin),
		PriceMax:              string(s.PriceMax),
		RatingThreshold:       string(s.RatingThreshold),
		ReviewCountMax:        string(s.ReviewCountMax),
		BSRMin:                string(s.BSRMin),
		BSRMax:                string(s.BSRMax),
		MonthlyRevenueMin:     string(s.MonthlyRevenueMin),
		MonthlyRevenueMax:     string(s.MonthlyRevenueMax),
		LightweightPreference: bool(s.LightweightPreference),
		NonBrandedFriendly:    bool(s.NonBrandedFriendly),
		LowFBACount:           bool(s.LowFBACount),
		HighReviewGrowth:      bool(s.HighReviewGrowth),
		HighMarginThreshold:   bool(s.HighMarginThreshold),
	}
}

// looseText accepts a JSON string or number. Anything else reads as empty.
type looseText string

func (t *looseText) UnmarshalJSON(b []byte) error {
	b = bytes.TrimSpace(b)
	switch {
	case len(b) == 0:
		*t = ""
	case b[0] == '"':
		var s string
		if err := json.Unmarshal(b, &s); err != nil {
			return err
		}
		*t = looseText(s)
	case b[0] == '-' || (b[0] >= '0' && b[0] <= '9'):
		*t = looseText(b)
	default:
		*t = ""
	}
	return nil
}

// looseBool accepts true/false or their string forms. Anything else reads as false.
type looseBool bool

func (v *looseBool) UnmarshalJSON(b []byte) error {
	var s string
	if json.Unmarshal(b, &s) == nil {
		parsed, _ := strconv.ParseBool(s)
		*v = looseBool(parsed)
		return nil
	}
	var parsed bool
	if json.Unmarshal(b, &parsed) != nil {
		parsed = false
	}
	*v = looseBool(parsed)
	return nil
}
