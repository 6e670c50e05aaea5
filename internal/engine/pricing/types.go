package pricing

import "time"

// PricingTier prices one band of unit area. Tiers are ordered, contiguous
// and cover (0, +Inf): an area matches when Min < area <= Max, so exactly
// one tier matches any positive area.
type PricingTier struct {
	MinArea   float64 `json:"min_area"`
	MaxArea   float64 `json:"max_area"` // +Inf on the last tier
	RatePerSq float64 `json:"rate_per_sqft"`
}

// Contains reports whether area falls in this tier's (min, max] band.
func (t PricingTier) Contains(area float64) bool {
	return area > t.MinArea && area <= t.MaxArea
}

// DurationDiscountTier discounts one band of rental duration, in whole
// months. Same one-match invariant as PricingTier over [1, +Inf).
type DurationDiscountTier struct {
	MinMonths int     `json:"min_months"`
	MaxMonths int     `json:"max_months"`
	Fraction  float64 `json:"discount_fraction"` // [0, 1)
}

func (t DurationDiscountTier) Contains(months int) bool {
	return months >= t.MinMonths && months <= t.MaxMonths
}

// Promo kinds.
const (
	PromoPercentage = "percentage"
	PromoFixed      = "fixed_amount"
)

// PromoCode is one entry in the promo lookup table, keyed by uppercased
// code. Non-stackable promos replace the duration discount instead of
// combining with it.
type PromoCode struct {
	Code      string  `json:"code"`
	Kind      string  `json:"kind"`
	Value     float64 `json:"value"` // fraction in [0,1) or fixed amount >= 0
	Stackable bool    `json:"stackable"`
}

// Quote is the fully itemized result of one price calculation. Currency
// fields are rounded to 2 decimals and fraction fields to 4 decimals at
// construction; the value is never mutated afterwards.
type Quote struct {
	Area   float64 `json:"area"`
	Months int     `json:"months"`

	BaseAmount               float64 `json:"base_amount"`
	DurationDiscountFraction float64 `json:"duration_discount_fraction"`
	DurationDiscountAmount   float64 `json:"duration_discount_amount"`

	PromoCode             string  `json:"promo_code,omitempty"`
	PromoDiscountFraction float64 `json:"promo_discount_fraction"`
	PromoDiscountAmount   float64 `json:"promo_discount_amount"`

	Subtotal         float64   `json:"subtotal"`
	TaxRate          float64   `json:"tax_rate"`
	TaxAmount        float64   `json:"tax_amount"`
	TotalPerPeriod   float64   `json:"total_per_period"`
	TotalForDuration float64   `json:"total_for_duration"`
	ComputedAt       time.Time `json:"computed_at"`
}
