// Package bus defines the message types that flow between the Telegram
// transport and the router, and the in-process bus carrying them.
package bus

import (
	"time"

	"github.com/klipgrab/klipgrab/internal/identity"
	"github.com/klipgrab/klipgrab/internal/menu"
)

// InboundMessage is one update received from the transport.
type InboundMessage struct {
	From      *identity.UserID // nil when the message has no author (channel posts)
	Chat      identity.ChatID
	Text      string
	MessageID int
	Received  time.Time

	// Callback fields are set when the update is an inline-button press
	// rather than a typed message.
	CallbackID   string
	CallbackData string
}

// HasSender reports whether the message carries an author.
func (m InboundMessage) HasSender() bool { return m.From != nil }

// IsCallback reports whether the update is an inline-button press.
func (m InboundMessage) IsCallback() bool { return m.CallbackID != "" }

// Preview returns a short snippet of the text for logging.
func (m InboundMessage) Preview() string {
	preview := m.Text
	if len(preview) > 80 {
		preview = preview[:80] + "..."
	}
	return preview
}

// InlineButton is one inline-keyboard button with its callback payload.
type InlineButton struct {
	Label string
	Data  string
}

// OutboundMessage is a reply to be delivered by the transport.
type OutboundMessage struct {
	Chat    identity.ChatID
	Text    string
	HTML    bool
	ReplyTo int // original message id to quote, 0 = none

	Keyboard *menu.Keyboard   // reply keyboard, optional
	Inline   [][]InlineButton // inline keyboard rows, optional

	// AnswerCallback acknowledges the callback query with this id before
	// (or instead of) sending Text. CallbackText is the toast shown to the
	// user, may be empty.
	AnswerCallback string
	CallbackText   string
}
