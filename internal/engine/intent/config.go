package intent

// Config holds the read-only keyword tables the classifier scores against.
// Built once at startup and shared by every concurrently-handled message.
type Config struct {
	// Order fixes scoring iteration so ties keep the earliest-seen
	// category as leader (comparison is strict >).
	Order     []Category
	Rules     map[Category]CategoryRules
	Greetings []string

	// NumericBonus is added to the pricing score whenever the raw text
	// contains an area-unit or duration-unit numeric pattern.
	NumericBonus int
	// NoiseFloor is the minimum score a non-winning category needs to be
	// reported as a secondary intent.
	NoiseFloor int
}

// DefaultConfig returns the stock keyword tables for the storage-rental
// assistant. Weights are tuned so a single strong primary keyword clears
// the default routing threshold on its own.
func DefaultConfig() Config {
	return Config{
		Order: []Category{
			CategoryPricing,
			CategoryUnitSizes,
			CategoryPromotions,
			CategoryBusinessHours,
			CategoryLocation,
			CategoryHuman,
			CategoryMenu,
		},
		Rules: map[Category]CategoryRules{
			CategoryPricing: {
				Primary: []KeywordRule{
					{"price", 40}, {"pricing", 40}, {"cost", 40}, {"quote", 40},
					{"how much", 45}, {"rate", 30}, {"rates", 30},
				},
				Secondary: []KeywordRule{
					{"rent", 20}, {"rental", 20}, {"monthly", 15},
					{"per month", 20}, {"fee", 15}, {"estimate", 20},
				},
			},
			CategoryUnitSizes: {
				Primary: []KeywordRule{
					{"size", 40}, {"sizes", 40}, {"unit", 30}, {"units", 30},
					{"how big", 45}, {"dimensions", 40},
				},
				Secondary: []KeywordRule{
					{"small", 15}, {"medium", 15}, {"large", 15},
					{"fit", 15}, {"space", 20}, {"storage unit", 25},
				},
			},
			CategoryPromotions: {
				Primary: []KeywordRule{
					{"promo", 45}, {"promotion", 45}, {"discount", 40},
					{"deal", 35}, {"offer", 35}, {"special", 30},
				},
				Secondary: []KeywordRule{
					{"coupon", 30}, {"voucher", 30}, {"cheaper", 20},
				},
				Promo: []KeywordRule{
					{"promo code", 50}, {"discount code", 50}, {"first month", 25},
				},
			},
			CategoryBusinessHours: {
				Primary: []KeywordRule{
					{"hours", 45}, {"open", 35}, {"close", 35}, {"closing", 35},
					{"what time", 45},
				},
				Secondary: []KeywordRule{
					{"today", 10}, {"weekend", 20}, {"sunday", 20}, {"holiday", 20},
				},
			},
			CategoryLocation: {
				Primary: []KeywordRule{
					{"location", 45}, {"address", 45}, {"where", 35},
					{"directions", 40},
				},
				Secondary: []KeywordRule{
					{"map", 25}, {"near", 15}, {"parking", 20}, {"find you", 30},
				},
			},
			CategoryHuman: {
				Primary: []KeywordRule{
					{"human", 50}, {"agent", 50}, {"representative", 50},
					{"staff", 40}, {"talk to someone", 60}, {"real person", 60},
				},
				Secondary: []KeywordRule{
					{"help me", 25}, {"complaint", 35}, {"manager", 35},
					{"call me", 40},
				},
			},
			CategoryMenu: {
				Primary: []KeywordRule{
					{"menu", 60}, {"options", 45}, {"start", 35}, {"help", 30},
				},
				Secondary: []KeywordRule{
					{"what can you do", 50}, {"main menu", 60},
				},
			},
		},
		Greetings: []string{
			"hi", "hello", "hey", "good morning", "good afternoon",
			"good evening", "hola", "yo",
		},
		NumericBonus: 25,
		NoiseFloor:   30,
	}
}
