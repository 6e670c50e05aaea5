package engine

import (
	"context"
	"strings"
	"time"

	"github.com/rs/zerolog"

	"github.com/selfstoragehq/storage-agent-be/internal/engine/intent"
	"github.com/selfstoragehq/storage-agent-be/internal/engine/router"
	"github.com/selfstoragehq/storage-agent-be/internal/engine/sanitize"
)

// ReplySender delivers a reply to a sender. Implemented by the whatsapp
// service; the engine does not know or care which transport is behind it.
type ReplySender interface {
	SendReply(to string, reply router.Reply) error
}

// Deferrer schedules the secondary reply after an AI-fallback apology.
type Deferrer interface {
	After(delay time.Duration, fn func())
}

// ConversationLogger records a handled exchange. Write-only: the engine
// never reads conversation history back.
type ConversationLogger interface {
	Log(ctx context.Context, senderID, inbound, reply, route string) error
}

// Engine is the per-message pipeline:
//
//	Received -> Sanitized -> Classified -> Routed -> handled -> Replied
//
// Stateless across messages; every HandleMessage call is independent and
// safe to run concurrently with any other.
type Engine struct {
	cfg           Config
	classifier    *intent.Classifier
	orchestrator  *router.Orchestrator
	sender        ReplySender
	deferrer      Deferrer
	conversations ConversationLogger
	log           zerolog.Logger
}

func New(
	cfg Config,
	ai router.AIResponder,
	escalations router.EscalationRecorder,
	sender ReplySender,
	deferrer Deferrer,
	conversations ConversationLogger,
	log zerolog.Logger,
) *Engine {
	return &Engine{
		cfg:        cfg,
		classifier: intent.NewClassifier(cfg.Intents),
		orchestrator: router.NewOrchestrator(
			cfg.ConfidenceThreshold,
			cfg.FollowUpDelay,
			cfg.Business,
			cfg.RateCard,
			ai,
			escalations,
			log,
		),
		sender:        sender,
		deferrer:      deferrer,
		conversations: conversations,
		log:           log,
	}
}

// HandleMessage runs one inbound envelope through the full pipeline. A
// malformed envelope is dropped with a log line and no reply; replying to
// unparseable input risks replying to non-message traffic.
func (e *Engine) HandleMessage(ctx context.Context, raw *sanitize.Envelope) {
	env := sanitize.Normalize(raw)
	if env == nil {
		e.log.Warn().Msg("dropping malformed inbound envelope")
		return
	}

	res := e.classify(env)

	dec, reply, deferred := e.orchestrator.Respond(ctx, env, res)
	e.log.Info().
		Str("sender", env.SenderID).
		Str("intent", string(res.Primary)).
		Int("confidence", res.Confidence).
		Str("route", string(dec.Route)).
		Str("handler", dec.Handler).
		Str("reason", dec.Reason).
		Msg("message routed")

	if err := e.sender.SendReply(env.SenderID, reply); err != nil {
		e.log.Error().Err(err).Str("sender", env.SenderID).Msg("failed to send reply")
		return
	}

	if deferred != nil {
		to := env.SenderID
		follow := deferred.Reply
		e.deferrer.After(deferred.Delay, func() {
			if err := e.sender.SendReply(to, follow); err != nil {
				e.log.Error().Err(err).Str("sender", to).Msg("failed to send follow-up reply")
			}
		})
	}

	// Fire-and-forget, same as the conversation logging the pipeline has
	// always done; a logging failure never affects the reply.
	go func() {
		logCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := e.conversations.Log(logCtx, env.SenderID, inboundText(env), reply.Body, string(dec.Route)); err != nil {
			e.log.Warn().Err(err).Msg("failed to log conversation")
		}
	}()
}

// classify resolves the envelope to an intent result. Menu/button
// selections carry their target intent in the selection id, so they skip
// keyword scoring entirely; free text goes through the classifier.
func (e *Engine) classify(env *sanitize.Envelope) intent.Result {
	if env.Type == sanitize.TypeInteractive && env.Reply != nil {
		if cat, ok := selectionCategory(env.Reply.ID); ok {
			return intent.Result{Primary: cat, Confidence: 100}
		}
		return e.classifier.Detect(env.Reply.Title)
	}
	return e.classifier.Detect(env.Text)
}

func selectionCategory(id string) (intent.Category, bool) {
	name, ok := strings.CutPrefix(id, "menu_")
	if !ok {
		return intent.CategoryUnknown, false
	}
	switch cat := intent.Category(name); cat {
	case intent.CategoryPricing, intent.CategoryUnitSizes, intent.CategoryPromotions,
		intent.CategoryBusinessHours, intent.CategoryLocation, intent.CategoryHuman,
		intent.CategoryMenu, intent.CategoryGreeting:
		return cat, true
	}
	return intent.CategoryUnknown, false
}

func inboundText(env *sanitize.Envelope) string {
	if env.Type == sanitize.TypeInteractive && env.Reply != nil {
		if env.Reply.Title != "" {
			return env.Reply.Title
		}
		return env.Reply.ID
	}
	return env.Text
}
