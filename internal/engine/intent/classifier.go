package intent

import (
	"regexp"
	"sort"
	"strings"
	"unicode"
)

// Numeric indicator patterns. These fire on texts like "50 sqft 6 months"
// that carry pricing parameters with zero keyword overlap.
var (
	areaIndicator     = regexp.MustCompile(`(?i)\d+(?:\.\d+)?\s*(?:sq\.?\s*(?:ft|feet|m|meters?)|square\s+(?:feet|foot|meters?)|sqft|sqm|ft2|m2)`)
	durationIndicator = regexp.MustCompile(`(?i)\d+(?:\.\d+)?\s*(?:months?|mos?\b|years?|yrs?\b)`)
)

// Classifier scores free text against the configured keyword tables.
// It is read-only after construction and safe for concurrent use.
type Classifier struct {
	cfg Config
}

func NewClassifier(cfg Config) *Classifier {
	return &Classifier{cfg: cfg}
}

// Detect classifies a message. It never fails: absent or unmatchable input
// yields {unknown, 0, nil}.
func (c *Classifier) Detect(text string) Result {
	lowered := strings.ToLower(strings.TrimSpace(text))
	if lowered == "" {
		return Result{Primary: CategoryUnknown}
	}

	// Greeting short-circuit bypasses all scoring. "hello, what is the
	// price" is a greeting, not a pricing question.
	if c.isGreeting(lowered) {
		return Result{Primary: CategoryGreeting, Confidence: 100}
	}

	tokens := tokenize(lowered)
	hasNumeric := areaIndicator.MatchString(text) || durationIndicator.MatchString(text)

	best := CategoryUnknown
	bestScore := 0
	var secondary []Score

	for _, cat := range c.cfg.Order {
		score := scoreCategory(c.cfg.Rules[cat], lowered, tokens)
		if cat == CategoryPricing && hasNumeric {
			score += c.cfg.NumericBonus
		}
		if score <= 0 {
			continue
		}

		if score > bestScore {
			// The overtaken leader keeps its reserved secondary slot
			// even when it sits below the noise floor.
			if best != CategoryUnknown {
				secondary = append(secondary, Score{Category: best, Confidence: cap100(bestScore)})
			}
			best = cat
			bestScore = score
		} else if score > c.cfg.NoiseFloor {
			secondary = append(secondary, Score{Category: cat, Confidence: cap100(score)})
		}
	}

	if best == CategoryUnknown {
		return Result{Primary: CategoryUnknown}
	}

	sort.SliceStable(secondary, func(i, j int) bool {
		return secondary[i].Confidence > secondary[j].Confidence
	})

	return Result{
		Primary:    best,
		Confidence: cap100(bestScore),
		Secondary:  secondary,
	}
}

func (c *Classifier) isGreeting(lowered string) bool {
	for _, g := range c.cfg.Greetings {
		if lowered == g {
			return true
		}
		if strings.HasPrefix(lowered, g) {
			rest := lowered[len(g):]
			r := []rune(rest)[0]
			if unicode.IsSpace(r) || unicode.IsPunct(r) {
				return true
			}
		}
	}
	return false
}

// scoreCategory sums the weights of every matching rule across all tiers.
func scoreCategory(rules CategoryRules, lowered string, tokens map[string]struct{}) int {
	score := 0
	for _, tier := range [][]KeywordRule{rules.Primary, rules.Secondary, rules.Promo} {
		for _, rule := range tier {
			if matches(rule.Keyword, lowered, tokens) {
				score += rule.Weight
			}
		}
	}
	return score
}

func matches(keyword, lowered string, tokens map[string]struct{}) bool {
	if strings.ContainsRune(keyword, ' ') {
		return strings.Contains(lowered, keyword)
	}
	_, ok := tokens[keyword]
	return ok
}

// tokenize splits on whitespace and strips punctuation from token edges so
// "price?" still matches the "price" keyword as a full token.
func tokenize(lowered string) map[string]struct{} {
	tokens := make(map[string]struct{})
	for _, tok := range strings.Fields(lowered) {
		tok = strings.TrimFunc(tok, func(r rune) bool {
			return unicode.IsPunct(r) || unicode.IsSymbol(r)
		})
		if tok != "" {
			tokens[tok] = struct{}{}
		}
	}
	return tokens
}

func cap100(score int) int {
	if score > 100 {
		return 100
	}
	return score
}
