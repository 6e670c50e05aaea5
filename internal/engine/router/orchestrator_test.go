package router

import (
	"context"
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/selfstoragehq/storage-agent-be/internal/engine/intent"
	"github.com/selfstoragehq/storage-agent-be/internal/engine/pricing"
	"github.com/selfstoragehq/storage-agent-be/internal/engine/sanitize"
)

type fakeAI struct {
	reply  string
	err    error
	calls  int
	lastIn string
}

func (f *fakeAI) GenerateResponse(_ context.Context, _, userMessage string) (string, error) {
	f.calls++
	f.lastIn = userMessage
	return f.reply, f.err
}

type fakeQueue struct {
	recorded []Escalation
	err      error
}

func (f *fakeQueue) Record(_ context.Context, e Escalation) error {
	f.recorded = append(f.recorded, e)
	return f.err
}

func testBusiness() BusinessInfo {
	return BusinessInfo{
		Name:    "StashSpace Self Storage",
		Phone:   "+1-555-010-2400",
		Email:   "hello@stashspace.example",
		Address: "2400 Harbor Blvd",
		Hours:   "Mon–Sat 8:00–18:00",
	}
}

func newTestOrchestrator(ai *fakeAI, queue *fakeQueue) *Orchestrator {
	return NewOrchestrator(70, 10*time.Millisecond, testBusiness(), pricing.DefaultConfig(), ai, queue, zerolog.Nop())
}

func textEnv(text string) *sanitize.Envelope {
	return &sanitize.Envelope{SenderID: "628123456789", Type: sanitize.TypeText, Text: text}
}

func TestDecideOverrideIntents(t *testing.T) {
	// Escalation and navigation never defer to the AI, whatever the score.
	for _, cat := range []intent.Category{intent.CategoryHuman, intent.CategoryGreeting, intent.CategoryMenu} {
		dec := Decide(intent.Result{Primary: cat, Confidence: 5}, 70, false)
		assert.Equal(t, RouteDeterministic, dec.Route, "intent %s", cat)
		assert.Equal(t, string(cat), dec.Handler)
	}
}

func TestDecideThreshold(t *testing.T) {
	dec := Decide(intent.Result{Primary: intent.CategoryPricing, Confidence: 70}, 70, false)
	assert.Equal(t, RouteDeterministic, dec.Route)
	assert.Equal(t, "pricing", dec.Handler)

	dec = Decide(intent.Result{Primary: intent.CategoryPricing, Confidence: 69}, 70, false)
	assert.Equal(t, RouteAIFallback, dec.Route)
	assert.Equal(t, HandlerAIFallback, dec.Handler)
	assert.Equal(t, intent.CategoryPricing, dec.Intent) // hint carried along
	assert.Equal(t, 69, dec.Confidence)
}

func TestDecideQuoteReadyOverridesThreshold(t *testing.T) {
	// A fully specified quote request ("50 sqft 6 months") scores only the
	// numeric bonus, far below the threshold; the calculator still answers.
	dec := Decide(intent.Result{Primary: intent.CategoryPricing, Confidence: 25}, 70, true)
	assert.Equal(t, RouteDeterministic, dec.Route)
	assert.Equal(t, "pricing", dec.Handler)
	assert.Equal(t, "complete quote parameters", dec.Reason)

	// Without parameters the threshold still applies.
	dec = Decide(intent.Result{Primary: intent.CategoryPricing, Confidence: 25}, 70, false)
	assert.Equal(t, RouteAIFallback, dec.Route)

	// The override belongs to pricing alone.
	dec = Decide(intent.Result{Primary: intent.CategoryUnitSizes, Confidence: 25}, 70, true)
	assert.Equal(t, RouteAIFallback, dec.Route)
}

func TestDecideUnknownGoesToFallback(t *testing.T) {
	dec := Decide(intent.Result{Primary: intent.CategoryUnknown}, 70, false)
	assert.Equal(t, RouteAIFallback, dec.Route)
}

func TestPricingWithExtractableParams(t *testing.T) {
	ai := &fakeAI{}
	o := newTestOrchestrator(ai, &fakeQueue{})

	res := intent.Result{Primary: intent.CategoryPricing, Confidence: 95}
	dec, reply, deferred := o.Respond(context.Background(), textEnv("I need 50 sqft for 6 months with code FIRST10"), res)

	assert.Equal(t, RouteDeterministic, dec.Route)
	assert.Nil(t, deferred)
	assert.Zero(t, ai.calls)
	assert.Equal(t, ReplyText, reply.Type)
	assert.Contains(t, reply.Body, "419.38")
	assert.Contains(t, reply.Body, "2516.28")
	assert.Contains(t, reply.Body, "FIRST10")
}

func TestQuoteRequestBelowThresholdStaysDeterministic(t *testing.T) {
	ai := &fakeAI{}
	o := newTestOrchestrator(ai, &fakeQueue{})

	// Pure-numbers request: pricing wins on the numeric bonus alone, so
	// confidence sits at 25. Complete parameters keep it off the AI.
	res := intent.Result{Primary: intent.CategoryPricing, Confidence: 25}
	dec, reply, deferred := o.Respond(context.Background(), textEnv("50 sqft for 6 months code FIRST10"), res)

	assert.Equal(t, RouteDeterministic, dec.Route)
	assert.Nil(t, deferred)
	assert.Zero(t, ai.calls)
	assert.Contains(t, reply.Body, "419.38")
	assert.Contains(t, reply.Body, "2516.28")
}

func TestPricingWithoutParamsPromptsInsteadOfFallback(t *testing.T) {
	ai := &fakeAI{}
	o := newTestOrchestrator(ai, &fakeQueue{})

	// High confidence, no extractable numbers: parameter prompt, no AI
	// call and no calculator failure.
	res := intent.Result{Primary: intent.CategoryPricing, Confidence: 95}
	dec, reply, deferred := o.Respond(context.Background(), textEnv("how much does a unit cost?"), res)

	assert.Equal(t, RouteDeterministic, dec.Route)
	assert.Zero(t, ai.calls)
	assert.Nil(t, deferred)
	assert.Contains(t, reply.Body, "Unit size")
	assert.Contains(t, reply.Body, "duration")
}

func TestHumanHandlerRecordsEscalation(t *testing.T) {
	queue := &fakeQueue{}
	o := newTestOrchestrator(&fakeAI{}, queue)

	res := intent.Result{Primary: intent.CategoryHuman, Confidence: 5}
	dec, reply, _ := o.Respond(context.Background(), textEnv("let me talk to a real person"), res)

	assert.Equal(t, RouteDeterministic, dec.Route)
	require.Len(t, queue.recorded, 1)
	assert.Equal(t, "628123456789", queue.recorded[0].SenderID)
	assert.Equal(t, intent.CategoryHuman, queue.recorded[0].Intent)
	assert.Contains(t, reply.Body, "+1-555-010-2400")
	// The handler hands over, it does not try to answer the question.
	assert.NotContains(t, strings.ToLower(reply.Body), "quote")
}

func TestHumanHandlerSurvivesQueueFailure(t *testing.T) {
	queue := &fakeQueue{err: errors.New("queue down")}
	o := newTestOrchestrator(&fakeAI{}, queue)

	res := intent.Result{Primary: intent.CategoryHuman, Confidence: 90}
	_, reply, _ := o.Respond(context.Background(), textEnv("agent please"), res)

	// User still gets contact info even when the queue write fails.
	assert.Contains(t, reply.Body, "+1-555-010-2400")
}

func TestAIFallbackRelaysAnswerVerbatim(t *testing.T) {
	ai := &fakeAI{reply: "We offer climate-controlled units."}
	o := newTestOrchestrator(ai, &fakeQueue{})

	res := intent.Result{Primary: intent.CategoryUnitSizes, Confidence: 40}
	dec, reply, deferred := o.Respond(context.Background(), textEnv("do you have climate control?"), res)

	assert.Equal(t, RouteAIFallback, dec.Route)
	assert.Equal(t, 1, ai.calls)
	assert.Equal(t, "do you have climate control?", ai.lastIn)
	assert.Equal(t, "We offer climate-controlled units.", reply.Body)
	assert.Nil(t, deferred)
}

func TestAIFallbackFailureSendsApologyAndDeferredMenu(t *testing.T) {
	ai := &fakeAI{err: errors.New("timeout")}
	o := newTestOrchestrator(ai, &fakeQueue{})

	res := intent.Result{Primary: intent.CategoryUnknown}
	_, reply, deferred := o.Respond(context.Background(), textEnv("asdf qwerty"), res)

	assert.Contains(t, reply.Body, "Sorry")
	assert.Contains(t, reply.Body, "+1-555-010-2400")
	// No stack traces or internals leak to the user.
	assert.NotContains(t, reply.Body, "timeout")

	require.NotNil(t, deferred)
	assert.Equal(t, 10*time.Millisecond, deferred.Delay)
	assert.Equal(t, ReplyList, deferred.Reply.Type)
}

func TestStaticHandlersUseBusinessInfo(t *testing.T) {
	o := newTestOrchestrator(&fakeAI{}, &fakeQueue{})
	ctx := context.Background()

	_, hours, _ := o.Respond(ctx, textEnv("what are your hours"), intent.Result{Primary: intent.CategoryBusinessHours, Confidence: 80})
	assert.Contains(t, hours.Body, "Mon–Sat 8:00–18:00")

	_, loc, _ := o.Respond(ctx, textEnv("where are you located"), intent.Result{Primary: intent.CategoryLocation, Confidence: 80})
	assert.Contains(t, loc.Body, "2400 Harbor Blvd")

	_, sizes, _ := o.Respond(ctx, textEnv("unit sizes"), intent.Result{Primary: intent.CategoryUnitSizes, Confidence: 80})
	assert.Contains(t, sizes.Body, "26–50 sqft")

	_, promos, _ := o.Respond(ctx, textEnv("any deals"), intent.Result{Primary: intent.CategoryPromotions, Confidence: 80})
	assert.Contains(t, promos.Body, "FIRST10")
	assert.Contains(t, promos.Body, "not combinable")
}

func TestGreetingReplyRespectsButtonCap(t *testing.T) {
	o := newTestOrchestrator(&fakeAI{}, &fakeQueue{})

	_, reply, _ := o.Respond(context.Background(), textEnv("hello"), intent.Result{Primary: intent.CategoryGreeting, Confidence: 100})
	assert.Equal(t, ReplyButtons, reply.Type)
	assert.LessOrEqual(t, len(reply.Buttons), MaxButtons)
	for _, b := range reply.Buttons {
		assert.LessOrEqual(t, len([]rune(b.Title)), MaxButtonTitleLen)
	}
}

func TestNewButtonsTruncates(t *testing.T) {
	r := NewButtons("pick one",
		Button{ID: "a", Title: "this title is definitely way too long"},
		Button{ID: "b", Title: "ok"},
		Button{ID: "c", Title: "ok"},
		Button{ID: "d", Title: "dropped"},
	)

	require.Len(t, r.Buttons, MaxButtons)
	assert.Equal(t, "this title is defini", r.Buttons[0].Title)
}
