package pricing

import (
	"errors"
	"fmt"
	"math"
	"strings"
	"time"
)

// ErrInvalidInput marks quote requests the calculator cannot price:
// non-positive area or months, or an area no configured tier covers.
var ErrInvalidInput = errors.New("invalid pricing input")

// Calculator computes quotes from the rate card. Pure and synchronous;
// ComputedAt is the only non-deterministic output field.
type Calculator struct {
	cfg Config
}

func NewCalculator(cfg Config) *Calculator {
	return &Calculator{cfg: cfg}
}

// Calculate prices a rental. Area is rounded to 2 decimals before tier
// lookup and months to the nearest whole month before validation. An
// unresolvable promo code is ignored, not an error.
//
// Promo semantics: a stackable promo applies on top of the post-duration-
// discount subtotal; a non-stackable promo recomputes from the base amount
// and the duration discount does not reach the subtotal at all, though the
// quote still reports it. That asymmetry is intentional and load-bearing.
func (c *Calculator) Calculate(area, months float64, promoCode string) (*Quote, error) {
	area = round2(area)
	m := int(math.Round(months))
	if area <= 0 {
		return nil, fmt.Errorf("area must be positive, got %v: %w", area, ErrInvalidInput)
	}
	if m <= 0 {
		return nil, fmt.Errorf("months must be positive, got %v: %w", months, ErrInvalidInput)
	}

	tier, ok := c.cfg.TierFor(area)
	if !ok {
		// Full coverage is validated at startup; reaching this means the
		// rate card itself is broken, so fail the single request.
		return nil, fmt.Errorf("no pricing tier covers area %.2f: %w", area, ErrInvalidInput)
	}
	base := area * tier.RatePerSq

	durFraction := c.cfg.DurationDiscountFor(m)
	durAmount := base * durFraction
	subtotal := base - durAmount

	var (
		appliedCode   string
		promoFraction float64
		promoAmount   float64
	)
	if promoCode != "" {
		if promo, found := c.cfg.Promo(promoCode); found {
			appliedCode = promo.Code
			if promo.Stackable {
				if promo.Kind == PromoPercentage {
					promoFraction = promo.Value
					promoAmount = subtotal * promo.Value
				} else {
					promoAmount = promo.Value
				}
				subtotal -= promoAmount
			} else {
				if promo.Kind == PromoPercentage {
					promoFraction = promo.Value
					promoAmount = base * promo.Value
				} else {
					promoAmount = promo.Value
				}
				subtotal = base - promoAmount
			}
		}
	}

	if subtotal < 0 {
		subtotal = 0
	}

	tax := subtotal * c.cfg.TaxRate
	perPeriod := subtotal + tax

	// Rounding convention: TotalPerPeriod is fixed at 2 decimals first and
	// TotalForDuration is derived from the rounded per-period figure, so
	// the duration total on the quote is always months times the per-period
	// price the customer actually sees.
	roundedPerPeriod := round2(perPeriod)

	return &Quote{
		Area:                     area,
		Months:                   m,
		BaseAmount:               round2(base),
		DurationDiscountFraction: round4(durFraction),
		DurationDiscountAmount:   round2(durAmount),
		PromoCode:                appliedCode,
		PromoDiscountFraction:    round4(promoFraction),
		PromoDiscountAmount:      round2(promoAmount),
		Subtotal:                 round2(subtotal),
		TaxRate:                  c.cfg.TaxRate,
		TaxAmount:                round2(tax),
		TotalPerPeriod:           roundedPerPeriod,
		TotalForDuration:         round2(roundedPerPeriod * float64(m)),
		ComputedAt:               time.Now().UTC(),
	}, nil
}

// FormatQuote renders a quote as a WhatsApp-ready message body.
func FormatQuote(q *Quote) string {
	var b strings.Builder

	b.WriteString("💰 *Your storage quote*\n\n")
	b.WriteString(fmt.Sprintf("📐 Unit: %.2f sqft for %d month(s)\n", q.Area, q.Months))
	b.WriteString(fmt.Sprintf("Base rate: $%.2f/month\n", q.BaseAmount))

	if q.DurationDiscountAmount > 0 {
		b.WriteString(fmt.Sprintf("Tenure discount (%.0f%%): -$%.2f\n",
			q.DurationDiscountFraction*100, q.DurationDiscountAmount))
	}
	if q.PromoCode != "" {
		b.WriteString(fmt.Sprintf("Promo %s: -$%.2f\n", q.PromoCode, q.PromoDiscountAmount))
	}

	b.WriteString(fmt.Sprintf("Subtotal: $%.2f\n", q.Subtotal))
	b.WriteString(fmt.Sprintf("Tax (%.0f%%): $%.2f\n", q.TaxRate*100, q.TaxAmount))
	b.WriteString(fmt.Sprintf("\n*Monthly total: $%.2f*\n", q.TotalPerPeriod))
	b.WriteString(fmt.Sprintf("*Total for %d months: $%.2f*", q.Months, q.TotalForDuration))

	return b.String()
}

func round2(v float64) float64 {
	return math.Round(v*100) / 100
}

func round4(v float64) float64 {
	return math.Round(v*10000) / 10000
}
