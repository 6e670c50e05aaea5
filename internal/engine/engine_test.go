package engine

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/selfstoragehq/storage-agent-be/internal/engine/intent"
	"github.com/selfstoragehq/storage-agent-be/internal/engine/router"
	"github.com/selfstoragehq/storage-agent-be/internal/engine/sanitize"
)

type sentReply struct {
	To    string
	Reply router.Reply
}

type fakeSender struct {
	mu   sync.Mutex
	sent []sentReply
}

func (f *fakeSender) SendReply(to string, reply router.Reply) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.sent = append(f.sent, sentReply{To: to, Reply: reply})
	return nil
}

func (f *fakeSender) all() []sentReply {
	f.mu.Lock()
	defer f.mu.Unlock()
	return append([]sentReply(nil), f.sent...)
}

// immediateDeferrer runs deferred work synchronously so tests don't sleep.
type immediateDeferrer struct{ delays []time.Duration }

func (d *immediateDeferrer) After(delay time.Duration, fn func()) {
	d.delays = append(d.delays, delay)
	fn()
}

type fakeAI struct {
	reply string
	err   error
	calls int
}

func (f *fakeAI) GenerateResponse(context.Context, string, string) (string, error) {
	f.calls++
	return f.reply, f.err
}

type fakeQueue struct{ recorded []router.Escalation }

func (f *fakeQueue) Record(_ context.Context, e router.Escalation) error {
	f.recorded = append(f.recorded, e)
	return nil
}

type nopConvLog struct{}

func (nopConvLog) Log(context.Context, string, string, string, string) error { return nil }

func newTestEngine(ai *fakeAI, queue *fakeQueue, sender *fakeSender, deferrer Deferrer) *Engine {
	cfg := DefaultConfig()
	cfg.FollowUpDelay = 5 * time.Millisecond
	return New(cfg, ai, queue, sender, deferrer, nopConvLog{}, zerolog.Nop())
}

func textEnv(text string) *sanitize.Envelope {
	return &sanitize.Envelope{
		SenderID:  "628123456789",
		MessageID: "m1",
		Timestamp: time.Now(),
		Type:      sanitize.TypeText,
		Text:      text,
	}
}

func TestEndToEndQuote(t *testing.T) {
	sender := &fakeSender{}
	ai := &fakeAI{}
	eng := newTestEngine(ai, &fakeQueue{}, sender, &immediateDeferrer{})

	eng.HandleMessage(context.Background(), textEnv("I need 50 sqft for 6 months with code FIRST10"))

	sent := sender.all()
	require.Len(t, sent, 1)
	assert.Equal(t, "628123456789", sent[0].To)
	assert.Contains(t, sent[0].Reply.Body, "$419.38")
	assert.Contains(t, sent[0].Reply.Body, "$2516.28")
	assert.Zero(t, ai.calls, "pricing must never touch the AI fallback")
}

func TestMalformedEnvelopeDroppedSilently(t *testing.T) {
	sender := &fakeSender{}
	eng := newTestEngine(&fakeAI{}, &fakeQueue{}, sender, &immediateDeferrer{})

	eng.HandleMessage(context.Background(), nil)
	eng.HandleMessage(context.Background(), &sanitize.Envelope{Type: sanitize.TypeText, Text: "no sender"})

	assert.Empty(t, sender.all())
}

func TestGreetingShortCircuitEndToEnd(t *testing.T) {
	sender := &fakeSender{}
	eng := newTestEngine(&fakeAI{}, &fakeQueue{}, sender, &immediateDeferrer{})

	eng.HandleMessage(context.Background(), textEnv("hello, what is the price"))

	sent := sender.all()
	require.Len(t, sent, 1)
	assert.Equal(t, router.ReplyButtons, sent[0].Reply.Type)
	assert.Contains(t, sent[0].Reply.Body, "Welcome")
}

func TestInteractiveSelectionSkipsScoring(t *testing.T) {
	sender := &fakeSender{}
	queue := &fakeQueue{}
	eng := newTestEngine(&fakeAI{}, queue, sender, &immediateDeferrer{})

	eng.HandleMessage(context.Background(), &sanitize.Envelope{
		SenderID: "628123456789",
		Type:     sanitize.TypeInteractive,
		Reply:    &sanitize.Interactive{ID: "menu_human", Title: "Talk to a human"},
	})

	require.Len(t, queue.recorded, 1)
	assert.Equal(t, intent.CategoryHuman, queue.recorded[0].Intent)
	assert.Equal(t, 100, queue.recorded[0].Confidence)
}

func TestAIFailureDeliversApologyThenMenu(t *testing.T) {
	sender := &fakeSender{}
	deferrer := &immediateDeferrer{}
	ai := &fakeAI{err: errors.New("upstream 503")}
	eng := newTestEngine(ai, &fakeQueue{}, sender, deferrer)

	eng.HandleMessage(context.Background(), textEnv("zxcvb not a real question"))

	sent := sender.all()
	require.Len(t, sent, 2)
	assert.Contains(t, sent[0].Reply.Body, "Sorry")
	assert.Equal(t, router.ReplyList, sent[1].Reply.Type)

	require.Len(t, deferrer.delays, 1)
	assert.Equal(t, 5*time.Millisecond, deferrer.delays[0])
}

func TestLowConfidenceRoutesToAI(t *testing.T) {
	sender := &fakeSender{}
	ai := &fakeAI{reply: "Yes, we have drive-up access."}
	eng := newTestEngine(ai, &fakeQueue{}, sender, &immediateDeferrer{})

	// "space" alone scores 20 for unit_sizes: below threshold.
	eng.HandleMessage(context.Background(), textEnv("is there drive-up space"))

	require.Equal(t, 1, ai.calls)
	sent := sender.all()
	require.Len(t, sent, 1)
	assert.Equal(t, "Yes, we have drive-up access.", sent[0].Reply.Body)
}
