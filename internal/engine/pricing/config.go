package pricing

import (
	"fmt"
	"math"
	"strings"
)

// Config is the read-only rate card: area tiers, tenure discounts, promo
// table and tax rate. Loaded once at startup, safe for concurrent reads.
type Config struct {
	Tiers         []PricingTier
	DurationTiers []DurationDiscountTier
	Promos        map[string]PromoCode
	TaxRate       float64
}

// DefaultConfig returns the stock rate card. The 26-50 sqft band at
// $9.00/sqft with a 5% six-month discount is the anchor the quote tests
// pin their arithmetic to.
func DefaultConfig() Config {
	return Config{
		Tiers: []PricingTier{
			{MinArea: 0, MaxArea: 25, RatePerSq: 10.50},
			{MinArea: 25, MaxArea: 50, RatePerSq: 9.00},
			{MinArea: 50, MaxArea: 100, RatePerSq: 7.75},
			{MinArea: 100, MaxArea: 200, RatePerSq: 6.50},
			{MinArea: 200, MaxArea: math.Inf(1), RatePerSq: 5.25},
		},
		DurationTiers: []DurationDiscountTier{
			{MinMonths: 1, MaxMonths: 2, Fraction: 0},
			{MinMonths: 3, MaxMonths: 5, Fraction: 0.02},
			{MinMonths: 6, MaxMonths: 11, Fraction: 0.05},
			{MinMonths: 12, MaxMonths: math.MaxInt32, Fraction: 0.10},
		},
		Promos: map[string]PromoCode{
			"FIRST10":   {Code: "FIRST10", Kind: PromoPercentage, Value: 0.10, Stackable: true},
			"WELCOME15": {Code: "WELCOME15", Kind: PromoPercentage, Value: 0.15, Stackable: false},
			"FLAT25":    {Code: "FLAT25", Kind: PromoFixed, Value: 25.00, Stackable: true},
			"MOVEIN50":  {Code: "MOVEIN50", Kind: PromoFixed, Value: 50.00, Stackable: false},
		},
		TaxRate: 0.09,
	}
}

// TierFor finds the single tier containing area. The bool is false only
// on a rate card with gaps, which Validate rejects at startup.
func (c Config) TierFor(area float64) (PricingTier, bool) {
	for _, t := range c.Tiers {
		if t.Contains(area) {
			return t, true
		}
	}
	return PricingTier{}, false
}

// DurationDiscountFor returns the discount fraction for a tenure, or 0
// when no tier matches. Missing coverage is not an error here.
func (c Config) DurationDiscountFor(months int) float64 {
	for _, t := range c.DurationTiers {
		if t.Contains(months) {
			return t.Fraction
		}
	}
	return 0
}

// Promo resolves a code against the table. Codes are stored uppercased.
func (c Config) Promo(code string) (PromoCode, bool) {
	p, ok := c.Promos[strings.ToUpper(strings.TrimSpace(code))]
	return p, ok
}

// Validate checks rate-card integrity: contiguous full-coverage tiers and
// promo values in range. Meant to run at startup so table gaps surface as
// boot failures instead of per-request quote failures.
func (c Config) Validate() error {
	if len(c.Tiers) == 0 {
		return fmt.Errorf("pricing: no area tiers configured")
	}
	if c.Tiers[0].MinArea != 0 {
		return fmt.Errorf("pricing: first tier must start at 0, got %v", c.Tiers[0].MinArea)
	}
	for i := 1; i < len(c.Tiers); i++ {
		if c.Tiers[i].MinArea != c.Tiers[i-1].MaxArea {
			return fmt.Errorf("pricing: gap or overlap between tiers %d and %d", i-1, i)
		}
	}
	if !math.IsInf(c.Tiers[len(c.Tiers)-1].MaxArea, 1) {
		return fmt.Errorf("pricing: last tier must be unbounded")
	}

	for i, t := range c.DurationTiers {
		if t.Fraction < 0 || t.Fraction >= 1 {
			return fmt.Errorf("pricing: duration tier %d fraction %v out of [0,1)", i, t.Fraction)
		}
		if i > 0 && t.MinMonths != c.DurationTiers[i-1].MaxMonths+1 {
			return fmt.Errorf("pricing: gap or overlap between duration tiers %d and %d", i-1, i)
		}
	}

	for code, p := range c.Promos {
		switch p.Kind {
		case PromoPercentage:
			if p.Value < 0 || p.Value >= 1 {
				return fmt.Errorf("pricing: promo %s percentage %v out of [0,1)", code, p.Value)
			}
		case PromoFixed:
			if p.Value < 0 {
				return fmt.Errorf("pricing: promo %s fixed amount %v is negative", code, p.Value)
			}
		default:
			return fmt.Errorf("pricing: promo %s has unknown kind %q", code, p.Kind)
		}
	}

	if c.TaxRate < 0 || c.TaxRate >= 1 {
		return fmt.Errorf("pricing: tax rate %v out of [0,1)", c.TaxRate)
	}
	return nil
}
