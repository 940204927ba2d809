package domain

import (
	"testing"

	"github.com/shopspring/decimal"
)

func TestFeeSchedule_FulfillmentFee(t *testing.T) {
	s := DefaultFeeSchedule()
	tests := []struct {
		weight string
		want   string
	}{
		{"0", "35"},
		{"0.5", "35"},
		{"0.51", "45"},
		{"1", "45"},
		{"1.5", "60"},
		{"3", "75"},
	}
	for _, tt := range tests {
		got := s.FulfillmentFee(decimal.RequireFromString(tt.weight))
		if !got.Equal(decimal.RequireFromString(tt.want)) {
			t.Errorf("FulfillmentFee(%s) = %s, want %s", tt.weight, got, tt.want)
		}
	}
}

func TestProfitBreakdown_IsProfitable(t *testing.T) {
	if (ProfitBreakdown{NetProfitPerUnit: decimal.Zero}).IsProfitable() {
		t.Error("zero net profit is not profitable")
	}
	if !(ProfitBreakdown{NetProfitPerUnit: decimal.RequireFromString("0.01")}).IsProfitable() {
		t.Error("positive net profit is profitable")
	}
}
