package services

import "strings"

// ValuationTier binds a revenue-type tag to a multiplier band. Tags are
// matched by case-insensitive containment, in slice order, first match wins.
type ValuationTier struct {
	Tag     string
	MinMult float64
	MaxMult float64
}

// DefaultValuationTiers is the standard multiplier table. "ad" outranks
// "sub" outranks "iap"; IAP keeps its own narrower band rather than folding
// into the subscription tier.
var DefaultValuationTiers = []ValuationTier{
	{Tag: "ad", MinMult: 1.0, MaxMult: 1.7},
	{Tag: "sub", MinMult: 1.5, MaxMult: 2.3},
	{Tag: "iap", MinMult: 1.5, MaxMult: 2.0},
}

const (
	// valuationFloor is returned for any profit below the floor threshold,
	// regardless of revenue type.
	valuationFloor     = 1000.0
	floorProfitCutoff  = 1000.0 // strictly-below cutoff; profit of exactly 1000 is valued normally
	fallbackMultiplier = 2.5    // point estimate when no tier tag matches
)

// ParseProfit converts a stored profit answer to a number, treating
// missing or unparseable values as zero.
func ParseProfit(raw string) float64 {
	n, ok := ParseNumber(raw)
	if !ok {
		return 0
	}
	return n
}

// ComputeValuation maps a profit figure and the revenue-type labels to a
// (min, max, mid) estimate using the default tier table. Pure and
// deterministic; no rounding — formatting is the caller's concern.
func ComputeValuation(profit float64, revenueTypes string) (min, max, mid float64) {
	return ComputeValuationWithTiers(profit, revenueTypes, DefaultValuationTiers)
}

// ComputeValuationWithTiers is ComputeValuation with an explicit tier table.
func ComputeValuationWithTiers(profit float64, revenueTypes string, tiers []ValuationTier) (min, max, mid float64) {
	if profit <= 0 || profit < floorProfitCutoff {
		return valuationFloor, valuationFloor, valuationFloor
	}

	rt := strings.ToLower(revenueTypes)
	for _, tier := range tiers {
		if strings.Contains(rt, tier.Tag) {
			min = profit * tier.MinMult
			max = profit * tier.MaxMult
			return min, max, (min + max) / 2
		}
	}

	// No recognized revenue type: single point estimate.
	point := profit * fallbackMultiplier
	return point, point, point
}
