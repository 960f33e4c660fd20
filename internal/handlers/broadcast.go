package handlers

import (
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"

	"github.com/klipgrab/klipgrab/internal/bus"
	"github.com/klipgrab/klipgrab/internal/identity"
)

const (
	callbackBroadcastConfirm = "broadcast_confirm"
	callbackBroadcastCancel  = "broadcast_cancel"
)

type broadcastState int

const (
	broadcastAwaitingMessage broadcastState = iota
	broadcastAwaitingConfirm
)

// broadcastDialogue tracks one admin's in-progress broadcast. The chat id
// keys the dialogue: one broadcast flow per conversation.
type broadcastDialogue struct {
	state broadcastState
	draft string
}

// StartBroadcast begins the broadcast dialogue for an admin.
func (h *Handlers) StartBroadcast(msg bus.InboundMessage) {
	if !h.resolver.IsAdmin(msg.From) {
		h.reply(msg.Chat, "⛔ Admins only.")
		return
	}
	h.mu.Lock()
	h.dialogues[msg.Chat] = &broadcastDialogue{state: broadcastAwaitingMessage}
	h.mu.Unlock()

	h.reply(msg.Chat, "📢 Send broadcast message (HTML supported).\n/cancel to abort.")
}

// BroadcastInProgress reports whether the chat has an active broadcast
// dialogue. While it does, the dialogue owns every message in that chat.
func (h *Handlers) BroadcastInProgress(chat identity.ChatID) bool {
	h.mu.Lock()
	defer h.mu.Unlock()
	_, ok := h.dialogues[chat]
	return ok
}

// ContinueBroadcast advances the broadcast dialogue with the next typed
// message.
func (h *Handlers) ContinueBroadcast(msg bus.InboundMessage) {
	h.mu.Lock()
	d, ok := h.dialogues[msg.Chat]
	h.mu.Unlock()
	if !ok {
		return
	}

	if msg.Text == "/cancel" {
		h.endBroadcastDialogue(msg.Chat)
		h.reply(msg.Chat, "❌ Cancelled.")
		return
	}

	switch d.state {
	case broadcastAwaitingMessage:
		if msg.Text == "" {
			h.reply(msg.Chat, "Send the broadcast as text, or /cancel.")
			return
		}
		h.mu.Lock()
		d.draft = msg.Text
		d.state = broadcastAwaitingConfirm
		h.mu.Unlock()

		h.reply(msg.Chat, "📝 Preview:")
		h.out.PublishOutbound(bus.OutboundMessage{Chat: msg.Chat, Text: msg.Text, HTML: true})
		h.out.PublishOutbound(bus.OutboundMessage{
			Chat: msg.Chat,
			Text: "Send this message to all users?",
			Inline: [][]bus.InlineButton{{
				{Label: "✅ Send to all", Data: callbackBroadcastConfirm},
				{Label: "❌ Cancel", Data: callbackBroadcastCancel},
			}},
		})
	case broadcastAwaitingConfirm:
		h.reply(msg.Chat, "Use the buttons to confirm or cancel, or /cancel.")
	}
}

// broadcastCallback resolves the confirm/cancel inline buttons.
func (h *Handlers) broadcastCallback(msg bus.InboundMessage) {
	h.mu.Lock()
	d, ok := h.dialogues[msg.Chat]
	h.mu.Unlock()
	if !ok || d.state != broadcastAwaitingConfirm {
		h.out.PublishOutbound(bus.OutboundMessage{AnswerCallback: msg.CallbackID})
		return
	}

	if msg.CallbackData == callbackBroadcastCancel {
		h.endBroadcastDialogue(msg.Chat)
		h.out.PublishOutbound(bus.OutboundMessage{
			AnswerCallback: msg.CallbackID,
			CallbackText:   "❌ Broadcast cancelled",
		})
		return
	}

	draft := d.draft
	h.endBroadcastDialogue(msg.Chat)
	h.out.PublishOutbound(bus.OutboundMessage{
		AnswerCallback: msg.CallbackID,
		CallbackText:   "🚀 Starting broadcast...",
	})
	h.reply(msg.Chat, "🚀 Broadcasting...")
	go h.runBroadcast(msg.Chat, draft)
}

func (h *Handlers) endBroadcastDialogue(chat identity.ChatID) {
	h.mu.Lock()
	delete(h.dialogues, chat)
	h.mu.Unlock()
}

// runBroadcast fans the message out to every known user, throttled to
// stay under Telegram's messages-per-second limit.
func (h *Handlers) runBroadcast(report identity.ChatID, text string) {
	id := uuid.NewString()
	users, err := h.store.AllUserIDs()
	if err != nil {
		slog.Error("broadcast: loading users failed", "id", id, "err", err)
		h.reply(report, "❌ Database error.")
		return
	}
	slog.Info("broadcast started", "id", id, "recipients", len(users))

	for i, uid := range users {
		if i > 0 && i%25 == 0 {
			time.Sleep(time.Second)
		}
		h.out.PublishOutbound(bus.OutboundMessage{
			Chat: identity.DirectChat(uid),
			Text: text,
			HTML: true,
		})
	}

	h.reply(report, fmt.Sprintf("✅ Broadcast completed!\n📊 Sent to: %d users", len(users)))
	slog.Info("broadcast finished", "id", id)
}
