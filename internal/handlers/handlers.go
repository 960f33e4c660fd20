// Package handlers implements the bot's reply logic: ordinary content,
// menu buttons, slash commands, and the admin panel.
package handlers

import (
	"log/slog"
	"sync"

	"github.com/klipgrab/klipgrab/internal/bus"
	"github.com/klipgrab/klipgrab/internal/identity"
	"github.com/klipgrab/klipgrab/internal/menu"
	"github.com/klipgrab/klipgrab/internal/store"
)

// adminsOnly is the visible denial sent when a non-admin reaches an
// admin-only entry point. A silent no-op was considered and rejected:
// the trigger can be typed by hand, and typed text deserves feedback.
const adminsOnly = "This option is for admins only."

// Publisher is the outbound side of the message bus.
type Publisher interface {
	PublishOutbound(bus.OutboundMessage)
}

// Handlers bundles the reply logic with its dependencies. Admin entry
// points re-check authorization here even though the menu renderer hides
// them from non-admins.
type Handlers struct {
	store    *store.Store
	resolver *identity.Resolver
	out      Publisher

	mu        sync.Mutex
	dialogues map[identity.ChatID]*broadcastDialogue
}

// New creates the handler set.
func New(st *store.Store, resolver *identity.Resolver, out Publisher) *Handlers {
	return &Handlers{
		store:     st,
		resolver:  resolver,
		out:       out,
		dialogues: make(map[identity.ChatID]*broadcastDialogue),
	}
}

func (h *Handlers) reply(chat identity.ChatID, text string) {
	h.out.PublishOutbound(bus.OutboundMessage{Chat: chat, Text: text})
}

func (h *Handlers) replyKeyboard(chat identity.ChatID, text string, kb menu.Keyboard) {
	h.out.PublishOutbound(bus.OutboundMessage{Chat: chat, Text: text, Keyboard: &kb})
}

// touch refreshes the sender's activity record, if there is a sender.
func (h *Handlers) touch(msg bus.InboundMessage) {
	if msg.From == nil {
		return
	}
	if err := h.store.Touch(*msg.From); err != nil {
		slog.Error("failed to update user activity", "user", *msg.From, "err", err)
	}
}

// Default handles ordinary content: track the sender, record the request,
// and acknowledge. The media fetch itself happens downstream and is not
// this bot's concern.
func (h *Handlers) Default(msg bus.InboundMessage) {
	h.touch(msg)
	if msg.From != nil {
		if err := h.store.RecordRequest(*msg.From, msg.Text); err != nil {
			slog.Error("failed to record request", "user", *msg.From, "err", err)
		}
	}
	h.reply(msg.Chat, "✅ Request received.")
}

// Callback handles inline-button presses.
func (h *Handlers) Callback(msg bus.InboundMessage) {
	switch msg.CallbackData {
	case "settings":
		h.out.PublishOutbound(bus.OutboundMessage{AnswerCallback: msg.CallbackID})
		h.Settings(msg)
	case callbackBroadcastConfirm, callbackBroadcastCancel:
		h.broadcastCallback(msg)
	default:
		h.out.PublishOutbound(bus.OutboundMessage{AnswerCallback: msg.CallbackID})
	}
}
