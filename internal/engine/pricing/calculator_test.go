package pricing

import (
	"math"
	"math/rand"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestCalculator() *Calculator {
	return NewCalculator(DefaultConfig())
}

func TestCalculateFullScenario(t *testing.T) {
	// 50 sqft in the $9.00 band, 6 months at 5% tenure discount, FIRST10
	// stacking 10% on top, 9% tax.
	q, err := newTestCalculator().Calculate(50, 6, "FIRST10")
	require.NoError(t, err)

	assert.Equal(t, 450.00, q.BaseAmount)
	assert.Equal(t, 0.05, q.DurationDiscountFraction)
	assert.Equal(t, 22.50, q.DurationDiscountAmount)
	assert.Equal(t, "FIRST10", q.PromoCode)
	assert.Equal(t, 0.10, q.PromoDiscountFraction)
	assert.Equal(t, 42.75, q.PromoDiscountAmount)
	assert.Equal(t, 384.75, q.Subtotal)
	assert.Equal(t, 34.63, q.TaxAmount)
	assert.Equal(t, 419.38, q.TotalPerPeriod)
	// Duration total derives from the rounded per-period figure.
	assert.Equal(t, 2516.28, q.TotalForDuration)
}

func TestCalculateRejectsNonPositiveInput(t *testing.T) {
	c := newTestCalculator()

	for _, tc := range []struct{ area, months float64 }{
		{0, 6}, {-10, 6}, {50, 0}, {50, -1}, {50, 0.4}, // 0.4 rounds to 0
	} {
		_, err := c.Calculate(tc.area, tc.months, "")
		assert.ErrorIs(t, err, ErrInvalidInput, "area=%v months=%v", tc.area, tc.months)
	}
}

func TestCalculateRoundsInputs(t *testing.T) {
	c := newTestCalculator()

	// 25.004 rounds to 25.00 and stays in the first band; 25.006 rounds
	// to 25.01 and crosses into the second.
	q1, err := c.Calculate(25.004, 1, "")
	require.NoError(t, err)
	assert.Equal(t, 25.00, q1.Area)
	assert.Equal(t, round2(25.00*10.50), q1.BaseAmount)

	q2, err := c.Calculate(25.006, 1, "")
	require.NoError(t, err)
	assert.Equal(t, 25.01, q2.Area)
	assert.Equal(t, round2(25.01*9.00), q2.BaseAmount)

	// 6.4 months rounds down to 6, 6.5 rounds up to 7; both in the 5% band.
	q3, err := c.Calculate(50, 6.4, "")
	require.NoError(t, err)
	assert.Equal(t, 6, q3.Months)
}

func TestCalculateDeterministic(t *testing.T) {
	c := newTestCalculator()

	a, err := c.Calculate(120, 12, "FLAT25")
	require.NoError(t, err)
	b, err := c.Calculate(120, 12, "FLAT25")
	require.NoError(t, err)

	// Identical except for the computation timestamp.
	b.ComputedAt = a.ComputedAt
	assert.Equal(t, a, b)
}

func TestUnknownPromoCodeIsIgnored(t *testing.T) {
	c := newTestCalculator()

	withBogus, err := c.Calculate(50, 6, "NOSUCHCODE")
	require.NoError(t, err)
	without, err := c.Calculate(50, 6, "")
	require.NoError(t, err)

	assert.Empty(t, withBogus.PromoCode)
	assert.Equal(t, without.Subtotal, withBogus.Subtotal)
	assert.Equal(t, without.TotalForDuration, withBogus.TotalForDuration)
}

func TestStackablePromoNeverRaisesSubtotal(t *testing.T) {
	c := newTestCalculator()

	for _, code := range []string{"FIRST10", "FLAT25"} {
		with, err := c.Calculate(75, 8, code)
		require.NoError(t, err)
		without, err := c.Calculate(75, 8, "")
		require.NoError(t, err)

		assert.LessOrEqual(t, with.Subtotal, without.Subtotal, "promo %s", code)
	}
}

func TestNonStackablePromoDiscardsDurationDiscount(t *testing.T) {
	// WELCOME15 is 15% non-stackable: subtotal recomputes from the base
	// amount; the tenure discount stays on the quote for transparency but
	// does not reach the subtotal.
	q, err := newTestCalculator().Calculate(50, 6, "WELCOME15")
	require.NoError(t, err)

	assert.Equal(t, 450.00, q.BaseAmount)
	assert.Equal(t, 22.50, q.DurationDiscountAmount) // reported, unused
	assert.Equal(t, round2(450.00*0.15), q.PromoDiscountAmount)
	assert.Equal(t, round2(450.00-450.00*0.15), q.Subtotal)
}

func TestSubtotalClampsAtZero(t *testing.T) {
	// Tiny unit, one month, $50 fixed non-stackable promo bigger than the
	// base amount: subtotal clamps to 0 and tax/totals follow.
	q, err := newTestCalculator().Calculate(1, 1, "MOVEIN50")
	require.NoError(t, err)

	assert.Equal(t, 0.00, q.Subtotal)
	assert.Equal(t, 0.00, q.TaxAmount)
	assert.Equal(t, 0.00, q.TotalPerPeriod)
	assert.Equal(t, 0.00, q.TotalForDuration)
	assert.Equal(t, 50.00, q.PromoDiscountAmount)
}

func TestTierCoverageProperty(t *testing.T) {
	cfg := DefaultConfig()
	require.NoError(t, cfg.Validate())

	rng := rand.New(rand.NewSource(42))
	areas := []float64{0.01, 25, 25.01, 50, 50.01, 100, 100.01, 200, 200.01, 5000}
	for i := 0; i < 500; i++ {
		areas = append(areas, round2(rng.Float64()*400+0.01))
	}

	for _, area := range areas {
		matched := 0
		for _, tier := range cfg.Tiers {
			if tier.Contains(area) {
				matched++
			}
		}
		assert.Equal(t, 1, matched, "area %v must match exactly one tier", area)
	}
}

func TestValidateCatchesBrokenRateCards(t *testing.T) {
	broken := DefaultConfig()
	broken.Tiers = []PricingTier{
		{MinArea: 0, MaxArea: 25, RatePerSq: 10},
		{MinArea: 30, MaxArea: math.Inf(1), RatePerSq: 8}, // gap 25-30
	}
	assert.Error(t, broken.Validate())

	badPromo := DefaultConfig()
	badPromo.Promos = map[string]PromoCode{
		"OOPS": {Code: "OOPS", Kind: PromoPercentage, Value: 1.5, Stackable: true},
	}
	assert.Error(t, badPromo.Validate())
}

func TestCalculateDegradesOnUncoveredArea(t *testing.T) {
	cfg := DefaultConfig()
	cfg.Tiers = []PricingTier{{MinArea: 0, MaxArea: 100, RatePerSq: 10}}

	_, err := NewCalculator(cfg).Calculate(150, 6, "")
	assert.ErrorIs(t, err, ErrInvalidInput)
}
