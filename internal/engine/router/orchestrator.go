package router

import (
	"context"
	"fmt"
	"math"
	"sort"
	"strings"
	"time"

	"github.com/rs/zerolog"

	"github.com/selfstoragehq/storage-agent-be/internal/engine/intent"
	"github.com/selfstoragehq/storage-agent-be/internal/engine/pricing"
	"github.com/selfstoragehq/storage-agent-be/internal/engine/sanitize"
)

// BusinessInfo is the contact metadata used verbatim in static replies.
type BusinessInfo struct {
	Name    string
	Phone   string
	Email   string
	Address string
	Hours   string
}

// AIResponder is the generative fallback collaborator. Implemented by the
// llm service; failures are handled here, never propagated to the user.
type AIResponder interface {
	GenerateResponse(ctx context.Context, systemPrompt, userMessage string) (string, error)
}

// Escalation is one hand-off request recorded for the human support queue.
type Escalation struct {
	SenderID   string
	Text       string
	Intent     intent.Category
	Confidence int
}

// EscalationRecorder is the human support queue collaborator.
type EscalationRecorder interface {
	Record(ctx context.Context, e Escalation) error
}

// Deferred is a secondary reply scheduled after the primary one; the delay
// is explicit so tests can drive it to zero.
type Deferred struct {
	Delay time.Duration
	Reply Reply
}

// Orchestrator turns a routing decision into concrete replies.
type Orchestrator struct {
	threshold   int
	followDelay time.Duration
	business    BusinessInfo
	rateCard    pricing.Config
	calc        *pricing.Calculator
	ai          AIResponder
	escalations EscalationRecorder
	log         zerolog.Logger
}

func NewOrchestrator(
	threshold int,
	followDelay time.Duration,
	business BusinessInfo,
	rateCard pricing.Config,
	ai AIResponder,
	escalations EscalationRecorder,
	log zerolog.Logger,
) *Orchestrator {
	return &Orchestrator{
		threshold:   threshold,
		followDelay: followDelay,
		business:    business,
		rateCard:    rateCard,
		calc:        pricing.NewCalculator(rateCard),
		ai:          ai,
		escalations: escalations,
		log:         log,
	}
}

// Respond routes a classified message and produces the reply, plus an
// optional deferred follow-up. It never returns an error to the caller:
// every failure mode maps to a friendly message with a next step.
func (o *Orchestrator) Respond(ctx context.Context, env *sanitize.Envelope, res intent.Result) (Decision, Reply, *Deferred) {
	quoteReady := false
	if res.Primary == intent.CategoryPricing {
		_, quoteReady = pricing.Extract(env.Text)
	}
	dec := Decide(res, o.threshold, quoteReady)

	if dec.Route == RouteAIFallback {
		reply, deferred := o.aiFallback(ctx, env, res)
		return dec, reply, deferred
	}

	// Exhaustive over the closed intent set; unknown never reaches here
	// because Decide sends it to the fallback.
	switch dec.Intent {
	case intent.CategoryGreeting:
		return dec, o.greetingReply(), nil
	case intent.CategoryMenu:
		return dec, o.MenuReply(), nil
	case intent.CategoryHuman:
		return dec, o.humanReply(ctx, env, res), nil
	case intent.CategoryPricing:
		return dec, o.pricingReply(env.Text), nil
	case intent.CategoryUnitSizes:
		return dec, o.unitSizesReply(), nil
	case intent.CategoryPromotions:
		return dec, o.promotionsReply(), nil
	case intent.CategoryBusinessHours:
		return dec, o.hoursReply(), nil
	case intent.CategoryLocation:
		return dec, o.locationReply(), nil
	default:
		// Unreachable with a closed category set; answer with the menu
		// rather than dropping the user.
		return dec, o.MenuReply(), nil
	}
}

func (o *Orchestrator) greetingReply() Reply {
	body := fmt.Sprintf(
		"👋 Welcome to %s! I can get you a storage quote in seconds.\n\nWhat would you like to do?",
		o.business.Name,
	)
	return NewButtons(body,
		Button{ID: "menu_pricing", Title: "Get a quote"},
		Button{ID: "menu_unit_sizes", Title: "Unit sizes"},
		Button{ID: "menu_human", Title: "Talk to a human"},
	)
}

// MenuReply is the full navigation list. Also used as the recovery path
// after an AI fallback failure, so it is exported for the engine.
func (o *Orchestrator) MenuReply() Reply {
	return NewList(
		fmt.Sprintf("Here's everything I can help with at %s:", o.business.Name),
		"View options",
		ListSection{
			Title: "Quotes & pricing",
			Rows: []ListEntry{
				{ID: "menu_pricing", Title: "Get a quote", Description: "Tell me size and duration"},
				{ID: "menu_unit_sizes", Title: "Unit sizes", Description: "What fits where"},
				{ID: "menu_promotions", Title: "Promotions", Description: "Current discount codes"},
			},
		},
		ListSection{
			Title: "Visit us",
			Rows: []ListEntry{
				{ID: "menu_business_hours", Title: "Opening hours"},
				{ID: "menu_location", Title: "Location & directions"},
				{ID: "menu_human", Title: "Talk to a human"},
			},
		},
	)
}

func (o *Orchestrator) pricingReply(text string) Reply {
	params, ok := pricing.Extract(text)
	if !ok {
		// Missing parameters prompt, never the AI fallback: pricing
		// correctness must not depend on a generative model.
		return o.paramPrompt()
	}

	quote, err := o.calc.Calculate(params.Area, float64(params.Months), params.PromoCode)
	if err != nil {
		o.log.Warn().Err(err).Float64("area", params.Area).Int("months", params.Months).
			Msg("quote calculation failed")
		return NewText(
			"😕 I couldn't calculate that quote. Mind re-checking the numbers?\n\n" +
				o.paramPromptBody(),
		)
	}

	return NewText(pricing.FormatQuote(quote))
}

func (o *Orchestrator) paramPrompt() Reply {
	return NewText("Happy to quote that! " + o.paramPromptBody())
}

func (o *Orchestrator) paramPromptBody() string {
	return "I just need:\n" +
		"1️⃣ Unit size (e.g. *50 sqft*)\n" +
		"2️⃣ Rental duration (e.g. *6 months*)\n" +
		"3️⃣ Promo code, if you have one (optional)\n\n" +
		"Try: \"50 sqft for 6 months with code FIRST10\""
}

func (o *Orchestrator) unitSizesReply() Reply {
	var b strings.Builder
	b.WriteString("📦 *Unit sizes & rates*\n\n")
	for _, tier := range o.rateCard.Tiers {
		if math.IsInf(tier.MaxArea, 1) {
			b.WriteString(fmt.Sprintf("• Over %.0f sqft — $%.2f/sqft/month\n", tier.MinArea, tier.RatePerSq))
		} else {
			b.WriteString(fmt.Sprintf("• %.0f–%.0f sqft — $%.2f/sqft/month\n", tier.MinArea+1, tier.MaxArea, tier.RatePerSq))
		}
	}
	b.WriteString("\nLonger stays earn a tenure discount. Send me a size and duration for an exact quote!")
	return NewText(b.String())
}

func (o *Orchestrator) promotionsReply() Reply {
	codes := make([]pricing.PromoCode, 0, len(o.rateCard.Promos))
	for _, p := range o.rateCard.Promos {
		codes = append(codes, p)
	}
	sort.Slice(codes, func(i, j int) bool { return codes[i].Code < codes[j].Code })

	var b strings.Builder
	b.WriteString("🎁 *Current promotions*\n\n")
	for _, p := range codes {
		if p.Kind == pricing.PromoPercentage {
			b.WriteString(fmt.Sprintf("• *%s* — %.0f%% off", p.Code, p.Value*100))
		} else {
			b.WriteString(fmt.Sprintf("• *%s* — $%.2f off", p.Code, p.Value))
		}
		if !p.Stackable {
			b.WriteString(" (not combinable with tenure discounts)")
		}
		b.WriteString("\n")
	}
	b.WriteString("\nAdd a code to your quote request, e.g. \"50 sqft 6 months code FIRST10\".")
	return NewText(b.String())
}

func (o *Orchestrator) hoursReply() Reply {
	return NewText(fmt.Sprintf("🕒 *%s opening hours*\n\n%s\n\nGate access for tenants is 24/7.",
		o.business.Name, o.business.Hours))
}

func (o *Orchestrator) locationReply() Reply {
	return NewText(fmt.Sprintf("📍 *%s*\n\n%s\n\nCall us at %s if you need directions.",
		o.business.Name, o.business.Address, o.business.Phone))
}

// humanReply records the escalation and hands over contact details. It
// never tries to answer the user's underlying question.
func (o *Orchestrator) humanReply(ctx context.Context, env *sanitize.Envelope, res intent.Result) Reply {
	err := o.escalations.Record(ctx, Escalation{
		SenderID:   env.SenderID,
		Text:       env.Text,
		Intent:     res.Primary,
		Confidence: res.Confidence,
	})
	if err != nil {
		// The user still gets contact info; the queue failure is ours.
		o.log.Error().Err(err).Str("sender", env.SenderID).Msg("failed to record escalation")
	}

	return NewText(fmt.Sprintf(
		"🙋 You got it — a member of our team will reach out shortly.\n\n"+
			"If it's urgent you can reach us directly:\n📞 %s\n📧 %s",
		o.business.Phone, o.business.Email,
	))
}

func (o *Orchestrator) aiFallback(ctx context.Context, env *sanitize.Envelope, res intent.Result) (Reply, *Deferred) {
	answer, err := o.ai.GenerateResponse(ctx, o.fallbackPrompt(res), env.Text)
	if err != nil {
		o.log.Warn().Err(err).Str("sender", env.SenderID).Msg("AI fallback failed, sending apology")
		apology := NewText(fmt.Sprintf(
			"😔 Sorry, I'm having trouble answering right now. "+
				"You can reach our team at %s or %s.",
			o.business.Phone, o.business.Email,
		))
		// Surface the menu as a recovery path so the user is never left
		// without reachable next steps.
		return apology, &Deferred{Delay: o.followDelay, Reply: o.MenuReply()}
	}
	return NewText(answer), nil
}

func (o *Orchestrator) fallbackPrompt(res intent.Result) string {
	var b strings.Builder
	b.WriteString(fmt.Sprintf("You are the virtual assistant for %s, a self-storage rental facility.\n", o.business.Name))
	b.WriteString(fmt.Sprintf("Contact: phone %s, email %s, address %s, hours %s.\n\n",
		o.business.Phone, o.business.Email, o.business.Address, o.business.Hours))
	b.WriteString("The deterministic intent engine could not answer this message confidently.\n")
	b.WriteString(fmt.Sprintf("Classifier hint: intent=%s confidence=%d.\n\n", res.Primary, res.Confidence))
	b.WriteString("Answer in at most 3 short sentences. Never invent prices or promo codes; ")
	b.WriteString("for anything quote-related, ask the customer to send a unit size and rental duration instead.")
	return b.String()
}
