package intent

// Category is the closed set of intents the engine routes on. Adding a
// category here without a handler arm in the router is a compile-time error,
// not a silent unknown fallback.
type Category string

const (
	CategoryPricing       Category = "pricing"
	CategoryUnitSizes     Category = "unit_sizes"
	CategoryPromotions    Category = "promotions"
	CategoryBusinessHours Category = "business_hours"
	CategoryLocation      Category = "location"
	CategoryHuman         Category = "human"
	CategoryMenu          Category = "menu"
	CategoryGreeting      Category = "greeting"
	CategoryUnknown       Category = "unknown"
)

// KeywordRule pairs a keyword or phrase with its score weight. Single-word
// keywords must match a whole token; multi-word phrases are matched by
// substring against the lowercased text.
type KeywordRule struct {
	Keyword string
	Weight  int
}

// CategoryRules groups the weighted keywords of one category into tiers.
// Tier membership has no runtime meaning beyond config organization; all
// tiers are summed together when scoring.
type CategoryRules struct {
	Primary   []KeywordRule
	Secondary []KeywordRule
	Promo     []KeywordRule
}

// Score is one (category, confidence) pair in a classification result.
type Score struct {
	Category   Category `json:"intent"`
	Confidence int      `json:"confidence"`
}

// Result is the outcome of classifying a single message. Confidence is
// capped at 100; Secondary is ordered by confidence descending.
type Result struct {
	Primary    Category `json:"primary_intent"`
	Confidence int      `json:"confidence"`
	Secondary  []Score  `json:"secondary_intents,omitempty"`
}
