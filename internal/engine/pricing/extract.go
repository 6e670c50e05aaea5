package pricing

import (
	"math"
	"regexp"
	"strconv"
	"strings"
)

// Best-effort pattern extraction of quote parameters from free text. Kept
// behind this narrow surface so it can be swapped for a real grammar or
// NLU stage without touching the calculator or the router.
var (
	areaPattern  = regexp.MustCompile(`(?i)(\d+(?:\.\d+)?)\s*(?:sq\.?\s*(?:ft|feet|m|meters?)|square\s+(?:feet|foot|meters?)|sqft|sqm|ft2|m2)`)
	monthPattern = regexp.MustCompile(`(?i)(\d+(?:\.\d+)?)\s*(?:months?|mos?\b)`)
	yearPattern  = regexp.MustCompile(`(?i)(\d+(?:\.\d+)?)\s*(?:years?|yrs?\b)`)
	promoPattern = regexp.MustCompile(`(?i)(?:promo(?:\s*code)?|code)\s*:?\s*([A-Za-z0-9]{3,16})\b`)
)

// Params are the extracted inputs for a quote. PromoCode may be empty.
type Params struct {
	Area      float64
	Months    int
	PromoCode string
}

// Extract pulls area, duration and an optional promo code out of free
// text. The bool is false when either area or duration is missing —
// insufficient data, not an error.
func Extract(text string) (Params, bool) {
	var p Params

	if m := areaPattern.FindStringSubmatch(text); m != nil {
		p.Area, _ = strconv.ParseFloat(m[1], 64)
	}

	if m := monthPattern.FindStringSubmatch(text); m != nil {
		months, _ := strconv.ParseFloat(m[1], 64)
		p.Months = int(math.Round(months))
	} else if m := yearPattern.FindStringSubmatch(text); m != nil {
		years, _ := strconv.ParseFloat(m[1], 64)
		p.Months = int(math.Round(years * 12))
	}

	if m := promoPattern.FindStringSubmatch(text); m != nil {
		p.PromoCode = strings.ToUpper(m[1])
	}

	if p.Area <= 0 || p.Months <= 0 {
		return Params{}, false
	}
	return p, true
}
