package sanitize

import (
	"strings"
	"time"
	"unicode"
)

// MaxTextLength is the hard cap applied to every free-text field.
// Anything longer is truncated silently before classification runs.
const MaxTextLength = 5000

// Envelope is the normalized inbound message the engine pipeline works on.
// It is produced once per webhook/socket event and discarded after the reply.
type Envelope struct {
	SenderID  string       `json:"sender_id"`
	MessageID string       `json:"message_id"`
	Timestamp time.Time    `json:"timestamp"`
	Type      string       `json:"type"` // "text" or "interactive"
	Text      string       `json:"text,omitempty"`
	Reply     *Interactive `json:"interactive_reply,omitempty"`
}

// Interactive carries a button/list selection. Only the selection id and
// label are copied through from the provider payload; everything else the
// provider attaches is dropped.
type Interactive struct {
	ID    string `json:"id"`
	Title string `json:"title"`
}

const (
	TypeText        = "text"
	TypeInteractive = "interactive"
)

// Normalize bounds and cleans a raw envelope. Returns nil when the envelope
// is structurally invalid (no sender, no usable payload); the caller must
// drop the message without replying.
func Normalize(raw *Envelope) *Envelope {
	if raw == nil {
		return nil
	}

	sender := NormalizePhone(raw.SenderID)
	if sender == "" {
		return nil
	}

	out := &Envelope{
		SenderID:  sender,
		MessageID: CleanText(raw.MessageID),
		Timestamp: raw.Timestamp,
		Type:      raw.Type,
		Text:      CleanText(raw.Text),
	}

	if raw.Reply != nil {
		out.Reply = &Interactive{
			ID:    CleanText(raw.Reply.ID),
			Title: CleanText(raw.Reply.Title),
		}
	}

	switch raw.Type {
	case TypeText:
		if out.Text == "" {
			return nil
		}
	case TypeInteractive:
		if out.Reply == nil || out.Reply.ID == "" {
			return nil
		}
	default:
		// Media, reactions, system events. The transport layer owns the
		// "unsupported type" reply; the engine just drops these.
		return nil
	}

	return out
}

// CleanText strips control and null characters, trims surrounding
// whitespace and truncates to MaxTextLength runes.
func CleanText(s string) string {
	if s == "" {
		return ""
	}

	var b strings.Builder
	b.Grow(len(s))
	for _, r := range s {
		if r == 0 || (unicode.IsControl(r) && r != '\n' && r != '\t') {
			continue
		}
		b.WriteRune(r)
	}

	cleaned := strings.TrimSpace(b.String())
	runes := []rune(cleaned)
	if len(runes) > MaxTextLength {
		cleaned = string(runes[:MaxTextLength])
	}
	return cleaned
}

// NormalizePhone reduces a sender identifier to digits plus an optional
// leading +. WhatsApp JID suffixes ("628xxx@c.us") are stripped first.
func NormalizePhone(phone string) string {
	if i := strings.IndexByte(phone, '@'); i >= 0 {
		phone = phone[:i]
	}

	var b strings.Builder
	for i, r := range phone {
		if r == '+' && i == 0 {
			b.WriteRune(r)
			continue
		}
		if r >= '0' && r <= '9' {
			b.WriteRune(r)
		}
	}

	normalized := b.String()
	if normalized == "" || normalized == "+" {
		return ""
	}
	return normalized
}
