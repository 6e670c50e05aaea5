package sanitize

import (
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNormalizeDropsMalformedEnvelopes(t *testing.T) {
	tests := []struct {
		name string
		raw  *Envelope
	}{
		{"nil envelope", nil},
		{"missing sender", &Envelope{Type: TypeText, Text: "hello"}},
		{"sender with no digits", &Envelope{SenderID: "not-a-phone", Type: TypeText, Text: "hello"}},
		{"empty text message", &Envelope{SenderID: "628123456789", Type: TypeText, Text: "   "}},
		{"interactive without selection", &Envelope{SenderID: "628123456789", Type: TypeInteractive}},
		{"unsupported type", &Envelope{SenderID: "628123456789", Type: "image", Text: "caption"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Nil(t, Normalize(tt.raw))
		})
	}
}

func TestNormalizeTextMessage(t *testing.T) {
	ts := time.Date(2025, 6, 1, 10, 0, 0, 0, time.UTC)
	env := Normalize(&Envelope{
		SenderID:  "+62 812-3456-789@c.us",
		MessageID: "wamid.ABC\x00123",
		Timestamp: ts,
		Type:      TypeText,
		Text:      "\x01\x02  how much for 50 sqft?  ",
	})

	require.NotNil(t, env)
	assert.Equal(t, "+628123456789", env.SenderID)
	assert.Equal(t, "wamid.ABC123", env.MessageID)
	assert.Equal(t, ts, env.Timestamp)
	assert.Equal(t, "how much for 50 sqft?", env.Text)
}

func TestNormalizeInteractiveKeepsOnlyKnownFields(t *testing.T) {
	env := Normalize(&Envelope{
		SenderID: "628123456789",
		Type:     TypeInteractive,
		Reply:    &Interactive{ID: " menu_pricing ", Title: "Pricing\x00"},
	})

	require.NotNil(t, env)
	require.NotNil(t, env.Reply)
	assert.Equal(t, "menu_pricing", env.Reply.ID)
	assert.Equal(t, "Pricing", env.Reply.Title)
}

func TestCleanTextTruncatesSilently(t *testing.T) {
	long := strings.Repeat("a", MaxTextLength+500)
	got := CleanText(long)
	assert.Len(t, got, MaxTextLength)
}

func TestCleanTextKeepsNewlinesAndTabs(t *testing.T) {
	assert.Equal(t, "line one\n\tline two", CleanText("line one\n\tline two\r"))
}

func TestNormalizePhone(t *testing.T) {
	tests := []struct {
		in   string
		want string
	}{
		{"628123456789@c.us", "628123456789"},
		{"+1 (555) 010-9999", "+15550109999"},
		{"whatsapp:+628123", "628123"}, // + only honored at position 0
		{"+", ""},
		{"", ""},
	}

	for _, tt := range tests {
		assert.Equal(t, tt.want, NormalizePhone(tt.in), "input %q", tt.in)
	}
}
