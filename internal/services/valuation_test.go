package services

import "testing"

func TestComputeValuationFloor(t *testing.T) {
	profits := []float64{-5000, 0, 1, 999.99}
	revenueTypes := []string{"", "Ad", "Subscription", "IAP", "IAP, Ad"}

	for _, profit := range profits {
		for _, rt := range revenueTypes {
			min, max, mid := ComputeValuation(profit, rt)
			if min != 1000 || max != 1000 || mid != 1000 {
				t.Errorf("ComputeValuation(%v, %q) = (%v, %v, %v), want floor (1000, 1000, 1000)",
					profit, rt, min, max, mid)
			}
		}
	}
}

func TestComputeValuationExactThousandIsNotFloored(t *testing.T) {
	// 1000 sits just past the strictly-below cutoff and must be valued
	// normally, not floored.
	min, max, mid := ComputeValuation(1000, "")
	if min != 2500 || max != 2500 || mid != 2500 {
		t.Errorf("ComputeValuation(1000, \"\") = (%v, %v, %v), want (2500, 2500, 2500)", min, max, mid)
	}
}

func TestComputeValuationTiers(t *testing.T) {
	tests := []struct {
		name          string
		revenueType   string
		min, max, mid float64
	}{
		{"ad band", "Ad", 5000, 8500, 6750},
		{"subscription band", "Subscription", 7500, 11500, 9500},
		{"sub shorthand", "sub", 7500, 11500, 9500},
		{"iap band", "IAP", 7500, 10000, 8750},
		{"unspecified point estimate", "", 12500, 12500, 12500},
		{"unrecognized point estimate", "donations", 12500, 12500, 12500},
		// "ad" outranks "subscription" when both are selected
		{"priority ad over subscription", "Subscription, Ad", 5000, 8500, 6750},
		{"priority ad over iap", "IAP, Ad", 5000, 8500, 6750},
		{"priority subscription over iap", "IAP, Subscription", 7500, 11500, 9500},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			min, max, mid := ComputeValuation(5000, tt.revenueType)
			if min != tt.min || max != tt.max || mid != tt.mid {
				t.Errorf("ComputeValuation(5000, %q) = (%v, %v, %v), want (%v, %v, %v)",
					tt.revenueType, min, max, mid, tt.min, tt.max, tt.mid)
			}
		})
	}
}

func TestComputeValuationWithCustomTiers(t *testing.T) {
	// IAP folded into the subscription band, as some deployments prefer.
	tiers := []ValuationTier{
		{Tag: "ad", MinMult: 1.0, MaxMult: 1.7},
		{Tag: "sub", MinMult: 1.5, MaxMult: 2.3},
		{Tag: "iap", MinMult: 1.5, MaxMult: 2.3},
	}

	min, max, mid := ComputeValuationWithTiers(5000, "IAP", tiers)
	if min != 7500 || max != 11500 || mid != 9500 {
		t.Errorf("custom tiers: got (%v, %v, %v), want (7500, 11500, 9500)", min, max, mid)
	}
}

func TestParseProfit(t *testing.T) {
	tests := []struct {
		raw  string
		want float64
	}{
		{"20000", 20000},
		{"$1,250.50", 1250.5},
		{"", 0},
		{"abc", 0},
	}

	for _, tt := range tests {
		if got := ParseProfit(tt.raw); got != tt.want {
			t.Errorf("ParseProfit(%q) = %v, want %v", tt.raw, got, tt.want)
		}
	}
}

func TestFormatValuation(t *testing.T) {
	if got := FormatValuation(12500, 12500); got != "$12,500.00" {
		t.Errorf("point estimate: got %q", got)
	}
	if got := FormatValuation(7500, 11500); got != "$7,500.00 to $11,500.00" {
		t.Errorf("range: got %q", got)
	}
	if got := FormatValuation(1000000, 1700000); got != "$1,000,000.00 to $1,700,000.00" {
		t.Errorf("millions: got %q", got)
	}
}
