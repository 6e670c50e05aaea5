package router

import (
	"fmt"

	"github.com/selfstoragehq/storage-agent-be/internal/engine/intent"
)

// Route says which side of the engine answers a message.
type Route string

const (
	RouteDeterministic Route = "deterministic"
	RouteAIFallback    Route = "ai_fallback"
)

// HandlerAIFallback is the handler name recorded when no deterministic
// handler takes the message.
const HandlerAIFallback = "ai_fallback"

// Decision is the routing verdict for one classified message.
type Decision struct {
	Route      Route           `json:"route"`
	Handler    string          `json:"handler_name"`
	Intent     intent.Category `json:"intent"`
	Confidence int             `json:"confidence"`
	Reason     string          `json:"reason"`
}

// Decide maps a classification to a route. Greeting, menu and human always
// go deterministic regardless of confidence: navigation and escalation are
// never deferred to a generative model. The same holds for a pricing
// message carrying complete quote parameters (quoteReady): "50 sqft 6
// months" has no keyword to score, but a fully specified request must be
// priced by the calculator, never by the AI.
func Decide(res intent.Result, threshold int, quoteReady bool) Decision {
	switch res.Primary {
	case intent.CategoryGreeting, intent.CategoryMenu, intent.CategoryHuman:
		return Decision{
			Route:      RouteDeterministic,
			Handler:    string(res.Primary),
			Intent:     res.Primary,
			Confidence: res.Confidence,
			Reason:     "confidence-independent route",
		}
	case intent.CategoryUnknown:
		return Decision{
			Route:      RouteAIFallback,
			Handler:    HandlerAIFallback,
			Intent:     res.Primary,
			Confidence: res.Confidence,
			Reason:     "no intent evidence",
		}
	case intent.CategoryPricing:
		if quoteReady {
			return Decision{
				Route:      RouteDeterministic,
				Handler:    string(res.Primary),
				Intent:     res.Primary,
				Confidence: res.Confidence,
				Reason:     "complete quote parameters",
			}
		}
	}

	if res.Confidence >= threshold {
		return Decision{
			Route:      RouteDeterministic,
			Handler:    string(res.Primary),
			Intent:     res.Primary,
			Confidence: res.Confidence,
			Reason:     fmt.Sprintf("confidence %d meets threshold %d", res.Confidence, threshold),
		}
	}

	return Decision{
		Route:      RouteAIFallback,
		Handler:    HandlerAIFallback,
		Intent:     res.Primary,
		Confidence: res.Confidence,
		Reason:     fmt.Sprintf("confidence %d below threshold %d", res.Confidence, threshold),
	}
}
