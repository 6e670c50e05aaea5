package router

// Reply shapes understood by the outbound providers. The Cloud API sends
// buttons/lists as native interactive messages; socket providers render
// them as numbered text.
type ReplyType string

const (
	ReplyText    ReplyType = "text"
	ReplyButtons ReplyType = "buttons"
	ReplyList    ReplyType = "list"
)

// Provider-imposed formatting limits. WhatsApp rejects interactive
// messages with more than 3 quick-reply buttons or titles over 20 chars,
// so the caps are enforced here at build time, not at send time.
const (
	MaxButtons        = 3
	MaxButtonTitleLen = 20
)

// Button is one quick-reply option.
type Button struct {
	ID    string `json:"id"`
	Title string `json:"title"`
}

// ListSection groups rows in a list reply.
type ListSection struct {
	Title string      `json:"title"`
	Rows  []ListEntry `json:"rows"`
}

// ListEntry is one selectable row in a list reply.
type ListEntry struct {
	ID          string `json:"id"`
	Title       string `json:"title"`
	Description string `json:"description,omitempty"`
}

// Reply is a single outbound message.
type Reply struct {
	Type     ReplyType     `json:"type"`
	Body     string        `json:"body"`
	Buttons  []Button      `json:"buttons,omitempty"`
	Sections []ListSection `json:"sections,omitempty"`
	ListText string        `json:"list_text,omitempty"` // label on the list-open button
}

// NewText builds a plain text reply.
func NewText(body string) Reply {
	return Reply{Type: ReplyText, Body: body}
}

// NewButtons builds a quick-reply message, truncating to the provider
// limits: at most 3 buttons, titles capped at 20 characters.
func NewButtons(body string, buttons ...Button) Reply {
	if len(buttons) > MaxButtons {
		buttons = buttons[:MaxButtons]
	}
	capped := make([]Button, len(buttons))
	for i, b := range buttons {
		if runes := []rune(b.Title); len(runes) > MaxButtonTitleLen {
			b.Title = string(runes[:MaxButtonTitleLen])
		}
		capped[i] = b
	}
	return Reply{Type: ReplyButtons, Body: body, Buttons: capped}
}

// NewList builds a grouped list reply.
func NewList(body, listText string, sections ...ListSection) Reply {
	return Reply{Type: ReplyList, Body: body, ListText: listText, Sections: sections}
}
